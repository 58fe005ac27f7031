package registry

import (
	"context"
	"fmt"
)

// Plug is a single switchable outlet. Plugs are owned by their device
// and exist only as part of it; Index is the outlet's slot on the
// physical controller and need not be contiguous or zero-based.
type Plug struct {
	Index int
	Name  string
	State State

	device *Device
}

// Switch commands the outlet on or off. On success State is updated to
// the state the device reported; on failure it is left unchanged.
// Switching to the state already held is an ordinary acknowledgment,
// not an error.
func (p *Plug) Switch(ctx context.Context, on bool) error {
	dev := p.device
	reg := dev.registry

	state, err := reg.proto.Switch(ctx, dev.Address, p.Index, on, reg.credentials(), reg.ports())
	if err != nil {
		return fmt.Errorf("switch of plug %d on %s failed: %w", p.Index, dev.Address, err)
	}

	p.State = state
	return nil
}

// String renders the plug as "name (state)", omitting the state while
// it is still unknown.
func (p *Plug) String() string {
	if p.State == StateUnknown {
		return p.Name
	}
	return fmt.Sprintf("%s (%s)", p.Name, p.State)
}
