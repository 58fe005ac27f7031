package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/netpwr/pwrctl/internal/registry"
)

// fakeProtocol counts switch/reset calls without touching the network.
type fakeProtocol struct {
	switched []string // "address/plug"
	resets   []string
}

func (f *fakeProtocol) Discover(ctx context.Context, creds registry.Credentials, ports registry.Ports) ([]registry.DeviceInfo, error) {
	return nil, nil
}

func (f *fakeProtocol) Switch(ctx context.Context, address string, plug int, on bool, creds registry.Credentials, ports registry.Ports) (registry.State, error) {
	f.switched = append(f.switched, address)
	if on {
		return registry.StateOn, nil
	}
	return registry.StateOff, nil
}

func (f *fakeProtocol) Reset(ctx context.Context, address string, creds registry.Credentials, ports registry.Ports) error {
	f.resets = append(f.resets, address)
	return nil
}

func twoStripMaster(t *testing.T) (*registry.Registry, *fakeProtocol) {
	t.Helper()
	proto := &fakeProtocol{}
	master := registry.New(proto, "admin", "anel", 75, 77)

	devices := []struct {
		address string
		name    string
		plugs   []registry.PlugDef
	}{
		{"192.168.1.50", "Strip1", []registry.PlugDef{{Index: 1, Name: "Desk"}, {Index: 2, Name: "Lamp"}}},
		{"192.168.1.51", "Strip2", []registry.PlugDef{{Index: 1, Name: "Desk"}}},
	}
	for _, d := range devices {
		if _, err := master.CreateDevice(d.address, d.name, d.plugs); err != nil {
			t.Fatalf("CreateDevice(%s) error = %v", d.address, err)
		}
	}
	return master, proto
}

func TestSwitchPlugsAmbiguousActsOnAll(t *testing.T) {
	master, proto := twoStripMaster(t)
	var warnings bytes.Buffer

	if err := switchPlugs(master, []string{"Desk"}, true, &warnings); err != nil {
		t.Fatalf("switchPlugs() error = %v", err)
	}

	// Both matching plugs switch, never silently just one.
	if len(proto.switched) != 2 {
		t.Fatalf("switched %d plugs, want 2", len(proto.switched))
	}
	if !strings.Contains(warnings.String(), "multiple matching plugs") {
		t.Errorf("warning output = %q, want multiple-match warning", warnings.String())
	}

	for _, device := range master.Devices {
		for _, plug := range device.Plugs {
			if plug.Name == "Desk" && plug.State != registry.StateOn {
				t.Errorf("plug Desk on %s state = %v, want on", device.Address, plug.State)
			}
		}
	}
}

func TestSwitchPlugsSingleMatchNoWarning(t *testing.T) {
	master, proto := twoStripMaster(t)
	var warnings bytes.Buffer

	if err := switchPlugs(master, []string{"Lamp"}, false, &warnings); err != nil {
		t.Fatalf("switchPlugs() error = %v", err)
	}

	if len(proto.switched) != 1 {
		t.Errorf("switched %d plugs, want 1", len(proto.switched))
	}
	if warnings.Len() != 0 {
		t.Errorf("unexpected warning: %q", warnings.String())
	}
}

func TestSwitchPlugsScopedToDevice(t *testing.T) {
	master, proto := twoStripMaster(t)
	var warnings bytes.Buffer

	if err := switchPlugs(master, []string{"Strip2", "Desk"}, true, &warnings); err != nil {
		t.Fatalf("switchPlugs() error = %v", err)
	}

	if len(proto.switched) != 1 || proto.switched[0] != "192.168.1.51" {
		t.Errorf("switched = %v, want only Strip2's plug", proto.switched)
	}
}

func TestSwitchPlugsNoMatch(t *testing.T) {
	master, proto := twoStripMaster(t)

	err := switchPlugs(master, []string{"Toaster"}, true, &bytes.Buffer{})
	if err == nil {
		t.Fatal("switchPlugs() with no matches should fail")
	}
	if len(proto.switched) != 0 {
		t.Errorf("switched = %v, want no action on resolution failure", proto.switched)
	}
}

func TestResetDevicesAmbiguous(t *testing.T) {
	master, proto := twoStripMaster(t)
	var warnings bytes.Buffer

	// "Strip" matches both devices.
	if err := resetDevices(master, []string{"Strip"}, &warnings); err != nil {
		t.Fatalf("resetDevices() error = %v", err)
	}

	if len(proto.resets) != 2 {
		t.Errorf("reset %d devices, want 2", len(proto.resets))
	}
	if !strings.Contains(warnings.String(), "multiple matching devices") {
		t.Errorf("warning output = %q, want multiple-match warning", warnings.String())
	}
}

func TestResetDevicesNoMatch(t *testing.T) {
	master, proto := twoStripMaster(t)

	err := resetDevices(master, []string{"Nonexistent"}, &bytes.Buffer{})
	if err == nil {
		t.Fatal("resetDevices() with no matches should fail")
	}
	if err.Error() != "no matching devices found" {
		t.Errorf("error = %q, want 'no matching devices found'", err.Error())
	}
	if len(proto.resets) != 0 {
		t.Errorf("resets = %v, want none", proto.resets)
	}
}

func TestPrintMaster(t *testing.T) {
	master, _ := twoStripMaster(t)
	master.Devices[0].Plugs[1].State = registry.StateOn

	var out bytes.Buffer
	devices, plugs := printMaster(&out, master)

	if devices != 2 || plugs != 3 {
		t.Errorf("counts = (%d, %d), want (2, 3)", devices, plugs)
	}

	listing := out.String()
	for _, want := range []string{
		"Strip1 (192.168.1.50):",
		"- Desk\n",
		"- Lamp (on)\n",
		"Strip2 (192.168.1.51):",
	} {
		if !strings.Contains(listing, want) {
			t.Errorf("listing missing %q:\n%s", want, listing)
		}
	}
}

func TestCommandArity(t *testing.T) {
	tests := []struct {
		name string
		args []string
		ok   bool
	}{
		{"on with no args", []string{}, false},
		{"on with one arg", []string{"Lamp"}, true},
		{"on with two args", []string{"Strip1", "Lamp"}, true},
		{"on with three args", []string{"a", "b", "c"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := onCmd.Args(onCmd, tt.args)
			if tt.ok && err != nil {
				t.Errorf("Args(%v) error = %v, want nil", tt.args, err)
			}
			if !tt.ok && err == nil {
				t.Errorf("Args(%v) = nil, want arity error", tt.args)
			}
		})
	}

	if err := resetCmd.Args(resetCmd, []string{"a", "b"}); err == nil {
		t.Error("reset should reject two arguments")
	}
	if err := showCmd.Args(showCmd, []string{"x"}); err == nil {
		t.Error("show should reject arguments")
	}
}
