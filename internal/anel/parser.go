package anel

import (
	"fmt"
	"strings"

	"github.com/netpwr/pwrctl/internal/registry"
)

// Status datagram layout:
//
//	NET-PwrCtrl:<name>:<ip>:<netmask>:<gateway>:<mac>:<plug>,<state>:...
//
// The first six fields are fixed; plug fields follow, one "name,state"
// entry per outlet in slot order, with state 0 (off) or 1 (on). Fields
// after the plug block (blocked-outlet mask, firmware version) vary by
// firmware and are ignored.
const (
	statusHeader      = "NET-PwrCtrl"
	statusFixedFields = 6
)

// parseStatus decodes one status datagram into a DeviceInfo. Plug
// indices are assigned from the slot position in the datagram, starting
// at 1.
func parseStatus(data []byte) (registry.DeviceInfo, error) {
	var info registry.DeviceInfo

	fields := strings.Split(string(data), ":")
	if len(fields) <= statusFixedFields {
		return info, newParseError(fmt.Sprintf("status datagram too short (%d fields)", len(fields)), nil, "")
	}
	if fields[0] != statusHeader {
		return info, newParseError(fmt.Sprintf("unexpected datagram header %q", fields[0]), nil, "")
	}

	info.Name = strings.TrimSpace(fields[1])
	info.Address = strings.TrimSpace(fields[2])
	if info.Address == "" {
		return registry.DeviceInfo{}, newParseError("status datagram carries no address", nil, "")
	}

	// The plug block ends at the first field that is not a name,state pair.
	for _, field := range fields[statusFixedFields:] {
		name, state, ok := parsePlugField(field)
		if !ok {
			break
		}
		info.Plugs = append(info.Plugs, registry.PlugInfo{
			Index: len(info.Plugs) + 1,
			Name:  name,
			State: state,
		})
	}

	return info, nil
}

// parsePlugField splits one "name,state" entry. Plug names may contain
// commas, so the state is taken after the last one.
func parsePlugField(field string) (string, registry.State, bool) {
	cut := strings.LastIndex(field, ",")
	if cut < 0 {
		return "", registry.StateUnknown, false
	}

	name := strings.TrimSpace(field[:cut])
	switch strings.TrimSpace(field[cut+1:]) {
	case "0":
		return name, registry.StateOff, true
	case "1":
		return name, registry.StateOn, true
	default:
		return "", registry.StateUnknown, false
	}
}
