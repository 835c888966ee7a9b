package loader

import (
	"fmt"
	"io"

	"github.com/roach88/compstate/internal/ir"
)

// Hooks supplies the hook functions attached to loaded states and edges.
// A method may return nil to attach no hook.
type Hooks interface {
	Enter(machine string, state ir.StateID) ir.EnterFunc
	Exit(machine string, state ir.StateID) ir.ExitFunc
	Transition(machine string, state ir.StateID, input ir.Input) ir.TransitionFunc
}

// Option configures Build and the Load functions.
type Option func(*options)

type options struct {
	hooks Hooks
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithHooks attaches hooks from h to every state and edge.
func WithHooks(h Hooks) Option {
	return func(o *options) {
		o.hooks = h
	}
}

// HookLog records every hook invocation as a line of text:
//
//	enter A/B
//	exit A/B
//	Continue A/B -> C
//
// When W is set each line is also written to it.
type HookLog struct {
	Lines []string
	W     io.Writer
}

var _ Hooks = (*HookLog)(nil)

func (h *HookLog) record(line string) {
	h.Lines = append(h.Lines, line)
	if h.W != nil {
		fmt.Fprintln(h.W, line)
	}
}

// Enter implements Hooks.
func (h *HookLog) Enter(string, ir.StateID) ir.EnterFunc {
	return func(to ir.StatePath) { h.record("enter " + to.String()) }
}

// Exit implements Hooks.
func (h *HookLog) Exit(string, ir.StateID) ir.ExitFunc {
	return func(from ir.StatePath) { h.record("exit " + from.String()) }
}

// Transition implements Hooks.
func (h *HookLog) Transition(_ string, _ ir.StateID, input ir.Input) ir.TransitionFunc {
	return func(from, to ir.StatePath) { h.record(fmt.Sprintf("%s %s -> %s", input, from, to)) }
}

// Take returns the recorded lines and clears them.
func (h *HookLog) Take() []string {
	lines := h.Lines
	h.Lines = nil
	return lines
}
