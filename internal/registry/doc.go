// Package registry holds the in-memory model of the power controllers
// known to one pwrctl session.
//
// A Registry (historically called the plug master) owns a set of Devices,
// each of which owns an ordered list of Plugs. Devices are keyed by their
// network address, which must be unique within a Registry; names carry no
// uniqueness guarantee and are treated as a weak lookup key.
//
// # Name resolution
//
// SearchDevices and SearchPlugs resolve user-supplied patterns with
// case-insensitive substring matching. The policy lives in a single
// predicate (Matches) so it can be tightened without touching the
// search logic. Searches never fail: an unmatched pattern yields an
// empty slice.
//
// # Plug state
//
// Plug state is tri-valued (on, off, unknown). Unknown means the device
// has not reported a state yet and is deliberately distinct from off.
// State only changes after a successful exchange with the device; a
// failed switch leaves the previous value in place.
//
// # Network access
//
// All network traffic goes through the Protocol interface. The registry
// itself never opens a socket; internal/anel provides the production
// implementation and tests substitute a fake.
package registry
