package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/netpwr/pwrctl/internal/logging"
)

// ErrDuplicateAddress is returned by CreateDevice when a device with the
// same address is already registered. Check with errors.Is.
var ErrDuplicateAddress = errors.New("duplicate device address")

// Registry is the collection of all known devices for one session,
// together with the credentials and port pair the protocol needs to
// talk to them.
type Registry struct {
	User     string
	Password string
	PortIn   int
	PortOut  int
	Devices  []*Device

	proto Protocol
}

// PlugDef is an (index, name) pair used to construct a device's plugs.
type PlugDef struct {
	Index int
	Name  string
}

// New creates an empty registry that talks to devices through proto.
func New(proto Protocol, user, password string, portIn, portOut int) *Registry {
	return &Registry{
		User:     user,
		Password: password,
		PortIn:   portIn,
		PortOut:  portOut,
		proto:    proto,
	}
}

// CreateDevice constructs a device with the given plugs (all in unknown
// state) and appends it to the registry. The address must not already be
// registered and plug indices must be unique within the device.
func (r *Registry) CreateDevice(address, name string, defs []PlugDef) (*Device, error) {
	for _, existing := range r.Devices {
		if existing.Address == address {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAddress, address)
		}
	}

	device := &Device{
		Address:  address,
		Name:     name,
		registry: r,
	}

	seen := make(map[int]bool, len(defs))
	for _, def := range defs {
		if seen[def.Index] {
			return nil, fmt.Errorf("duplicate plug index %d on device %s", def.Index, address)
		}
		seen[def.Index] = true

		device.Plugs = append(device.Plugs, &Plug{
			Index:  def.Index,
			Name:   def.Name,
			State:  StateUnknown,
			device: device,
		})
	}

	r.Devices = append(r.Devices, device)
	return device, nil
}

// Discover populates the registry from live network responses. Devices
// that answer with an address already present (or reported twice) are
// skipped with a warning rather than merged.
func (r *Registry) Discover(ctx context.Context) error {
	infos, err := r.proto.Discover(ctx, r.credentials(), r.ports())
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	for _, info := range infos {
		defs := make([]PlugDef, len(info.Plugs))
		for i, plug := range info.Plugs {
			defs[i] = PlugDef{Index: plug.Index, Name: plug.Name}
		}

		// Wire data gets the same integrity checks as configured data.
		device, err := r.CreateDevice(info.Address, info.Name, defs)
		if err != nil {
			logging.Warn("Skipping discovered device",
				zap.String("address", info.Address),
				zap.Error(err),
			)
			continue
		}

		// Discovery responses carry live outlet states.
		for i, plug := range info.Plugs {
			device.Plugs[i].State = plug.State
		}
	}

	logging.Info("Discovery finished", zap.Int("devices", len(r.Devices)))
	return nil
}

// SearchDevices returns every device whose name or address matches
// pattern. The result is empty, never nil, when nothing matches.
func (r *Registry) SearchDevices(pattern string) []*Device {
	matches := make([]*Device, 0)
	for _, device := range r.Devices {
		if Matches(pattern, device.Name) || Matches(pattern, device.Address) {
			matches = append(matches, device)
		}
	}
	return matches
}

// SearchPlugs returns the union of every device's own plug search.
// Plugs on different devices are distinct results even when their
// names coincide.
func (r *Registry) SearchPlugs(pattern string) []*Plug {
	matches := make([]*Plug, 0)
	for _, device := range r.Devices {
		matches = append(matches, device.SearchPlugs(pattern)...)
	}
	return matches
}

// Summary returns the number of devices and the total number of plugs.
func (r *Registry) Summary() (devices, plugs int) {
	for _, device := range r.Devices {
		plugs += len(device.Plugs)
	}
	return len(r.Devices), plugs
}

func (r *Registry) credentials() Credentials {
	return Credentials{User: r.User, Password: r.Password}
}

func (r *Registry) ports() Ports {
	return Ports{In: r.PortIn, Out: r.PortOut}
}

// Matches reports whether candidate matches a user-supplied pattern.
// The policy is case-insensitive substring comparison; it is kept in
// one place so it can be swapped without touching the search logic.
func Matches(pattern, candidate string) bool {
	return strings.Contains(strings.ToLower(candidate), strings.ToLower(pattern))
}
