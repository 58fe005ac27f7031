package registry

import (
	"context"
	"fmt"
)

// Device is one network-addressable controller and its outlets. Devices
// are created through Registry.CreateDevice or discovery and live as
// long as their registry.
type Device struct {
	Address string
	Name    string
	Plugs   []*Plug

	registry *Registry
}

// SearchPlugs returns this device's plugs whose name matches pattern,
// using the same policy as the registry-wide search.
func (d *Device) SearchPlugs(pattern string) []*Plug {
	matches := make([]*Plug, 0)
	for _, plug := range d.Plugs {
		if Matches(pattern, plug.Name) {
			matches = append(matches, plug)
		}
	}
	return matches
}

// Reset power-cycles the device. Plug states are left untouched; the
// device does not report outlet states as part of the reset exchange,
// so callers needing fresh state must re-query.
func (d *Device) Reset(ctx context.Context) error {
	reg := d.registry
	if err := reg.proto.Reset(ctx, d.Address, reg.credentials(), reg.ports()); err != nil {
		return fmt.Errorf("reset of %s failed: %w", d.Address, err)
	}
	return nil
}

// String renders the device as "name (address)".
func (d *Device) String() string {
	return fmt.Sprintf("%s (%s)", d.Name, d.Address)
}
