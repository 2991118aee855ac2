package fsm

// State identifies a lifecycle state of a machine.
//
// The framework defines four states. A machine starts in StateInit and
// stops for good once it reaches StateEnd. Implementations may define
// additional states starting at StateUser.
type State int

const (
	// StateInit is the initial state of every machine.
	StateInit State = iota

	// StateWaitingConfiguration is entered once the machine is willing to
	// accept configuration but hardware is not programmed yet.
	StateWaitingConfiguration

	// StateReady is entered once hardware configuration has completed and
	// attribute access is valid.
	StateReady

	// StateEnd is terminal. A machine in StateEnd accepts no further
	// transitions.
	StateEnd

	// StateUser is the first value available for implementation-defined
	// states.
	StateUser
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateWaitingConfiguration:
		return "waiting-configuration"
	case StateReady:
		return "ready"
	case StateEnd:
		return "end"
	default:
		if s >= StateUser {
			return "user-defined"
		}
		return "unknown"
	}
}
