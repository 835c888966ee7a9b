package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/compstate/internal/ir"
)

// TableView is the serializable summary of a compiled table. Hooks are
// reduced to their phase and bound paths.
type TableView struct {
	Version     string      `json:"version"`
	Fingerprint string      `json:"fingerprint"`
	States      []StateView `json:"states"`
}

// StateView summarizes one compiled leaf state.
type StateView struct {
	Index       int              `json:"index"`
	Path        string           `json:"path"`
	Transitions []TransitionView `json:"transitions"`
}

// TransitionView summarizes one compiled transition.
type TransitionView struct {
	Input    ir.Input `json:"input"`
	Next     int      `json:"next"`
	NextPath string   `json:"next_path"`
	Steps    []string `json:"steps"`
}

// View builds a TableView for t.
func View(t *ir.Table) (*TableView, error) {
	fp, err := t.Fingerprint()
	if err != nil {
		return nil, err
	}
	v := &TableView{
		Version:     ir.TableVersion,
		Fingerprint: fp,
		States:      make([]StateView, len(t.States)),
	}
	for i, s := range t.States {
		sv := StateView{
			Index:       i,
			Path:        s.Path.String(),
			Transitions: make([]TransitionView, len(s.Transitions)),
		}
		for j, tr := range s.Transitions {
			steps := make([]string, len(tr.Effect.Steps))
			for k, step := range tr.Effect.Steps {
				steps[k] = describeStep(step)
			}
			sv.Transitions[j] = TransitionView{
				Input:    tr.Input,
				Next:     tr.Next,
				NextPath: t.States[tr.Next].Path.String(),
				Steps:    steps,
			}
		}
		v.States[i] = sv
	}
	return v, nil
}

// Describe renders t as indented text, one block per leaf state:
//
//	table: 2 states
//	[0] A
//	  Go -> [1] B
//	    exit A
//	    transition A -> B
//	    enter B
//	[1] B
func Describe(t *ir.Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "table: %d states\n", t.Len())
	for i, s := range t.States {
		fmt.Fprintf(&b, "[%d] %s\n", i, s.Path)
		for _, tr := range s.Transitions {
			fmt.Fprintf(&b, "  %s -> [%d] %s\n", tr.Input, tr.Next, t.States[tr.Next].Path)
			for _, step := range tr.Effect.Steps {
				fmt.Fprintf(&b, "    %s\n", describeStep(step))
			}
		}
	}
	return b.String()
}

func describeStep(s ir.Step) string {
	if s.Phase == ir.PhaseTransition {
		return fmt.Sprintf("%s %s -> %s", s.Phase, s.From, s.To)
	}
	return fmt.Sprintf("%s %s", s.Phase, s.Path)
}
