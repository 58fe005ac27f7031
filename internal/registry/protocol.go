package registry

import "context"

// Credentials are the opaque login values passed to the device protocol.
// The registry stores them but never interprets them.
type Credentials struct {
	User     string
	Password string
}

// Ports is the inbound/outbound UDP port pair used by the device
// protocol. "In" is the port we listen on for device responses,
// "Out" the port devices listen on for commands.
type Ports struct {
	In  int
	Out int
}

// PlugInfo describes one outlet as reported by the wire protocol.
type PlugInfo struct {
	Index int
	Name  string
	State State
}

// DeviceInfo describes one controller as reported by discovery.
type DeviceInfo struct {
	Address string
	Name    string
	Plugs   []PlugInfo
}

// Protocol is the network collaborator the registry delegates to for
// all device communication. Implementations own their timeouts; every
// call blocks until it completes or fails.
type Protocol interface {
	// Discover locates controllers on the local network. An empty
	// result is not an error.
	Discover(ctx context.Context, creds Credentials, ports Ports) ([]DeviceInfo, error)

	// Switch sets one outlet on or off and returns the state the
	// device reported afterwards.
	Switch(ctx context.Context, address string, plug int, on bool, creds Credentials, ports Ports) (State, error)

	// Reset power-cycles a whole controller.
	Reset(ctx context.Context, address string, creds Credentials, ports Ports) error
}
