package ir

// Table is the flat form of a MachineConfig: one CompiledState per
// reachable leaf path, in depth-first declaration order. States[0] is the
// leaf reached by entering the root machine.
type Table struct {
	States []CompiledState
}

// CompiledState is a leaf state with every transition it can take,
// including the ones inherited from its ancestors.
type CompiledState struct {
	Path        StatePath
	Transitions []CompiledTransition
}

// CompiledTransition is a resolved edge between two leaf states.
type CompiledTransition struct {
	Input  Input
	Next   int // index into Table.States
	Effect Effect
}

// Find returns the transition for input on the state, if any.
func (s *CompiledState) Find(input Input) (*CompiledTransition, bool) {
	for i := range s.Transitions {
		if s.Transitions[i].Input == input {
			return &s.Transitions[i], true
		}
	}
	return nil, false
}

// Len returns the number of leaf states in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.States)
}

// Lookup returns the index of the state with exactly the given path.
func (t *Table) Lookup(path StatePath) (int, bool) {
	for i := range t.States {
		if Equal(t.States[i].Path, path) {
			return i, true
		}
	}
	return 0, false
}

// Phase identifies where a Step runs relative to the state switch.
type Phase int

const (
	// PhaseExit steps run before the switch, leaf to root.
	PhaseExit Phase = iota
	// PhaseTransition is the single edge hook, before the switch.
	PhaseTransition
	// PhaseEnter steps run after the switch, root to leaf.
	PhaseEnter
)

// String returns the string representation of Phase.
func (p Phase) String() string {
	switch p {
	case PhaseExit:
		return "exit"
	case PhaseTransition:
		return "transition"
	case PhaseEnter:
		return "enter"
	default:
		return "unknown"
	}
}

// Step is one hook invocation with its arguments bound at compile time.
//
// Path is the exited or entered state's absolute path for exit and enter
// steps. From and To are the leaf paths for the transition step.
type Step struct {
	Phase      Phase
	Path       StatePath
	From       StatePath
	To         StatePath
	exit       ExitFunc
	enter      EnterFunc
	transition TransitionFunc
}

// ExitStep binds an exit hook to the path it leaves.
func ExitStep(path StatePath, fn ExitFunc) Step {
	return Step{Phase: PhaseExit, Path: path, exit: fn}
}

// EnterStep binds an enter hook to the path it enters.
func EnterStep(path StatePath, fn EnterFunc) Step {
	return Step{Phase: PhaseEnter, Path: path, enter: fn}
}

// TransitionStep binds an edge hook to its leaf endpoints.
func TransitionStep(from, to StatePath, fn TransitionFunc) Step {
	return Step{Phase: PhaseTransition, From: from, To: to, transition: fn}
}

// Run invokes the bound hook. Nil hooks are no-ops.
func (s Step) Run() {
	switch s.Phase {
	case PhaseExit:
		if s.exit != nil {
			s.exit(s.Path.Clone())
		}
	case PhaseTransition:
		if s.transition != nil {
			s.transition(s.From.Clone(), s.To.Clone())
		}
	case PhaseEnter:
		if s.enter != nil {
			s.enter(s.Path.Clone())
		}
	}
}

// Effect is the composed side effect of a CompiledTransition: exit steps
// leaf to root, at most one transition step, then enter steps root to leaf.
type Effect struct {
	Steps []Step
}

// Before returns the steps that run before the state switch.
func (e Effect) Before() []Step {
	for i, s := range e.Steps {
		if s.Phase == PhaseEnter {
			return e.Steps[:i]
		}
	}
	return e.Steps
}

// After returns the steps that run after the state switch.
func (e Effect) After() []Step {
	for i, s := range e.Steps {
		if s.Phase == PhaseEnter {
			return e.Steps[i:]
		}
	}
	return nil
}

// Run replays every step in order.
func (e Effect) Run() {
	for _, s := range e.Steps {
		s.Run()
	}
}

// Count returns the number of steps in each phase.
func (e Effect) Count() (exits, transitions, enters int) {
	for _, s := range e.Steps {
		switch s.Phase {
		case PhaseExit:
			exits++
		case PhaseTransition:
			transitions++
		case PhaseEnter:
			enters++
		}
	}
	return exits, transitions, enters
}
