package compiler

import (
	"fmt"

	"github.com/roach88/compstate/internal/ir"
)

// Validate checks a configuration graph and returns every defect found
// (does not fail fast). Each distinct machine is checked once, however many
// states reference it. A nil result means the configuration is valid.
func Validate(root *ir.MachineConfig) []ConfigError {
	if root == nil {
		return []ConfigError{{Code: ErrNilMachine, Message: "machine configuration is nil"}}
	}

	g := buildReferenceGraph(root)

	var errs []ConfigError
	for _, m := range g.nodes {
		errs = append(errs, validateMachine(m, g.labels[m])...)
	}
	errs = append(errs, g.cycleErrors()...)

	return errs
}

// Check is Validate folded into a single error, or nil.
func Check(root *ir.MachineConfig) error {
	return joinErrors(Validate(root))
}

// validateMachine checks one level in isolation.
func validateMachine(m *ir.MachineConfig, label string) []ConfigError {
	var errs []ConfigError

	// E202: at least one state
	if len(m.States) == 0 {
		return append(errs, ConfigError{
			Code:    ErrNoStates,
			Machine: label,
			Message: "machine declares no states",
		})
	}

	ids := make(map[ir.StateID]bool, len(m.States))
	for i, s := range m.States {
		// E203: ids are non-empty
		if s.ID == "" {
			errs = append(errs, ConfigError{
				Code:    ErrEmptyStateID,
				Machine: label,
				Message: fmt.Sprintf("states[%d] has an empty id", i),
			})
			continue
		}

		// E204: ids are unique within a level
		if ids[s.ID] {
			errs = append(errs, ConfigError{
				Code:    ErrDuplicateState,
				Machine: label,
				State:   s.ID,
				Message: fmt.Sprintf("duplicate state id %q", s.ID),
			})
		}
		ids[s.ID] = true
	}

	// E205: start names a declared state
	if !ids[m.Start] {
		errs = append(errs, ConfigError{
			Code:    ErrUnknownStart,
			Machine: label,
			State:   m.Start,
			Message: fmt.Sprintf("start state %q is not declared", m.Start),
		})
	}

	for _, s := range m.States {
		inputs := make(map[ir.Input]bool, len(s.Transitions))
		for _, t := range s.Transitions {
			// E206: targets are siblings
			if !ids[t.Next] {
				errs = append(errs, ConfigError{
					Code:    ErrUnknownTarget,
					Machine: label,
					State:   s.ID,
					Input:   t.Input,
					Message: fmt.Sprintf("transition target %q is not declared", t.Next),
				})
			}

			// E207: at most one edge per input on a state
			if inputs[t.Input] {
				errs = append(errs, ConfigError{
					Code:    ErrDuplicateInput,
					Machine: label,
					State:   s.ID,
					Input:   t.Input,
					Message: fmt.Sprintf("duplicate transition for input %q", t.Input),
				})
			}
			inputs[t.Input] = true
		}
	}

	return errs
}
