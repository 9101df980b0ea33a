package pipeline

import "fmt"

// State tracks the orchestrator after scaffolding:
//
//	Scaffolded → Done                    (source-only: no build attempted)
//	Scaffolded → Building → Succeeded
//	Scaffolded → Building → Failed
//
// Done and Succeeded are distinct terminal states: Done means no build was
// attempted, Succeeded means a build ran and passed.
type State int

const (
	StateScaffolded State = iota
	StateDone
	StateBuilding
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateScaffolded:
		return "scaffolded"
	case StateDone:
		return "done"
	case StateBuilding:
		return "building"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no further transition is allowed from s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateSucceeded || s == StateFailed
}

func (s State) canTransition(next State) bool {
	switch s {
	case StateScaffolded:
		return next == StateDone || next == StateBuilding
	case StateBuilding:
		return next == StateSucceeded || next == StateFailed
	default:
		return false
	}
}

// transition moves to next, rejecting moves the state machine does not
// define.
func (s State) transition(next State) (State, error) {
	if !s.canTransition(next) {
		return s, fmt.Errorf("illegal state transition from %s to %s", s, next)
	}
	return next, nil
}
