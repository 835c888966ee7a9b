package harness

import "github.com/roach88/compstate/internal/ir"

// TraceEvent is one fired input as seen by the composite engine, together
// with the hook calls both engines made.
type TraceEvent struct {
	Seq        int64        `json:"seq"`
	Input      ir.Input     `json:"input"`
	From       ir.StatePath `json:"from"`
	Result     ir.Result    `json:"result"`
	To         ir.StatePath `json:"to"`
	Hooks      []string     `json:"hooks"`
	TableHooks []string     `json:"table_hooks"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if both engines agreed and every expectation held.
	Pass bool `json:"pass"`

	// Trace lists every fired input in order.
	Trace []TraceEvent `json:"trace"`

	// Errors is empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Final is the path both engines ended at.
	Final ir.StatePath `json:"final"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Visited returns the path each step ended at.
func (r *Result) Visited() []ir.StatePath {
	paths := make([]ir.StatePath, len(r.Trace))
	for i, ev := range r.Trace {
		paths[i] = ev.To
	}
	return paths
}
