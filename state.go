package graft

// State represents the current lifecycle state of a Runtime.
type State int32

const (
	// StateIdle indicates the Runtime has been constructed but not started.
	// Handlers may be registered and resources may be added.
	StateIdle State = iota

	// StateRunning indicates Start has been called. The handler table is
	// frozen against insert and remove; resources are still discovered.
	StateRunning

	// StateStopped indicates Stop has been called. Every registered cleanup
	// has run and the Runtime is permanently immutable.
	StateStopped
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
