// Package session models the lifecycle of a live chat session.
package session

import "sync/atomic"

type State int32

const (
	Idle State = iota
	Rendering
	AwaitingCommand
	Sending
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Rendering:
		return "rendering"
	case AwaitingCommand:
		return "awaiting_command"
	case Sending:
		return "sending"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Machine holds the state shared by the reader and the input task of one session.
// Closed is terminal: once reached, no transition leaves it.
type Machine struct {
	state atomic.Int32
}

func NewMachine() *Machine {
	return &Machine{}
}

func (m *Machine) Current() State {
	return State(m.state.Load())
}

// Set moves to s unless the session is closed.
func (m *Machine) Set(s State) bool {
	for {
		current := m.state.Load()
		if State(current) == Closed {
			return false
		}
		if m.state.CompareAndSwap(current, int32(s)) {
			return true
		}
	}
}

// Transition moves from one state to another only if the machine is still in from.
func (m *Machine) Transition(from, to State) bool {
	if from == Closed {
		return false
	}
	return m.state.CompareAndSwap(int32(from), int32(to))
}

// Close reports whether this call is the one that closed the session.
func (m *Machine) Close() bool {
	for {
		current := m.state.Load()
		if State(current) == Closed {
			return false
		}
		if m.state.CompareAndSwap(current, int32(Closed)) {
			return true
		}
	}
}
