package registry

// State is the tri-valued status of a plug. StateUnknown means the
// device has not reported a state yet; it must never be conflated
// with StateOff.
type State int

const (
	StateUnknown State = iota
	StateOn
	StateOff
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateOn:
		return "on"
	case StateOff:
		return "off"
	default:
		return "unknown"
	}
}
