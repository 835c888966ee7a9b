package ir

import "fmt"

// EnterFunc runs when a state is entered. to is the absolute path from the
// root down to and including the entered state.
type EnterFunc func(to StatePath)

// ExitFunc runs when a state is exited. from is the absolute path from the
// root down to and including the exited state.
type ExitFunc func(from StatePath)

// TransitionFunc runs between the exit and enter phases of a transition.
// from and to are the full leaf paths before and after the transition.
type TransitionFunc func(from, to StatePath)

// MachineConfig describes one nesting level: a start state and its siblings.
//
// The same *MachineConfig may be referenced by several StateConfig.Sub
// fields; engines and the compiler treat pointer identity as configuration
// identity.
type MachineConfig struct {
	// Name is an optional label used in diagnostics.
	Name   string
	Start  StateID
	States []StateConfig
}

// StateConfig describes a single state and its outgoing edges.
type StateConfig struct {
	ID          StateID
	OnEnter     EnterFunc
	OnExit      ExitFunc
	Transitions []TransitionConfig
	Sub         *MachineConfig // optional nested machine, possibly shared
}

// TransitionConfig is an edge from the containing state to a sibling.
type TransitionConfig struct {
	Input        Input
	Next         StateID
	OnTransition TransitionFunc
}

// State returns the state config with the given id, or nil.
func (m *MachineConfig) State(id StateID) *StateConfig {
	for i := range m.States {
		if m.States[i].ID == id {
			return &m.States[i]
		}
	}
	return nil
}

// StateIndex returns the position of id in States, or -1.
func (m *MachineConfig) StateIndex(id StateID) int {
	for i := range m.States {
		if m.States[i].ID == id {
			return i
		}
	}
	return -1
}

// StartPath returns the path reached by entering m: its start state followed
// by the start chain of that state's sub-machine, recursively.
// Returns nil if a start cannot be resolved.
func (m *MachineConfig) StartPath() StatePath {
	var path StatePath
	for cfg := m; cfg != nil; {
		s := cfg.State(cfg.Start)
		if s == nil {
			return nil
		}
		path = append(path, s.ID)
		cfg = s.Sub
	}
	return path
}

// FindTransition returns the first edge for input, or nil.
func (s *StateConfig) FindTransition(input Input) *TransitionConfig {
	for i := range s.Transitions {
		if s.Transitions[i].Input == input {
			return &s.Transitions[i]
		}
	}
	return nil
}

// IsLeaf reports whether the state has no nested machine.
func (s *StateConfig) IsLeaf() bool {
	return s.Sub == nil
}

// Result is the outcome of a Fire call.
type Result int

const (
	// NoAction means no edge matched the input; nothing changed.
	NoAction Result = iota
	// Transitioned means an edge matched and the machine moved.
	Transitioned
)

// String returns the string representation of Result.
func (r Result) String() string {
	switch r {
	case NoAction:
		return "NoAction"
	case Transitioned:
		return "Transitioned"
	default:
		return "unknown"
	}
}

// MarshalText encodes the result by name.
func (r Result) MarshalText() ([]byte, error) {
	switch r {
	case NoAction, Transitioned:
		return []byte(r.String()), nil
	default:
		return nil, fmt.Errorf("unknown result %d", int(r))
	}
}

// UnmarshalText is the inverse of MarshalText.
func (r *Result) UnmarshalText(text []byte) error {
	switch string(text) {
	case "NoAction":
		*r = NoAction
	case "Transitioned":
		*r = Transitioned
	default:
		return fmt.Errorf("unknown result %q", text)
	}
	return nil
}

// Response is returned by Fire.
type Response struct {
	Result Result    `json:"result"`
	Path   StatePath `json:"path"`
}

// Machine is the fireable-machine contract shared by every engine.
//
// Implementations are not safe for concurrent use. Hooks run synchronously
// inside Fire and must not call Fire on the same machine.
type Machine interface {
	// Path returns the current, non-empty state path.
	Path() StatePath
	// Fire presents input to the machine.
	Fire(input Input) Response
}
