package testutil

import (
	"fmt"

	"github.com/roach88/compstate/internal/ir"
)

// Recorder collects hook invocations as readable strings:
//
//	"enter A/B", "exit A/B", "Continue A/B/D -> A/B/E"
//
// A nil *Recorder builds hook-free configuration.
type Recorder struct {
	Log []string
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// State returns a StateConfig whose enter/exit hooks report to r.
func (r *Recorder) State(id ir.StateID, edges ...ir.TransitionConfig) ir.StateConfig {
	s := ir.StateConfig{ID: id, Transitions: edges}
	if r == nil {
		return s
	}
	s.OnEnter = func(to ir.StatePath) { r.Log = append(r.Log, "enter "+to.String()) }
	s.OnExit = func(from ir.StatePath) { r.Log = append(r.Log, "exit "+from.String()) }
	return s
}

// Edge returns a TransitionConfig whose hook reports to r.
func (r *Recorder) Edge(input ir.Input, next ir.StateID) ir.TransitionConfig {
	t := ir.TransitionConfig{Input: input, Next: next}
	if r == nil {
		return t
	}
	t.OnTransition = func(from, to ir.StatePath) {
		r.Log = append(r.Log, fmt.Sprintf("%s %s -> %s", input, from, to))
	}
	return t
}

// Reset clears the log.
func (r *Recorder) Reset() {
	r.Log = nil
}

// Take returns the log and clears it.
func (r *Recorder) Take() []string {
	out := r.Log
	r.Log = nil
	return out
}
