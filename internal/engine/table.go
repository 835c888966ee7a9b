package engine

import (
	"log/slog"

	"github.com/roach88/compstate/internal/ir"
)

// Table executes a compiled ir.Table. Construct with NewTable.
type Table struct {
	table   *ir.Table
	lookup  []map[ir.Input]int // per state: input -> transition position
	start   int
	current int

	logger    *slog.Logger
	observers []Observer
}

var _ ir.Machine = (*Table)(nil)

// NewTable creates an engine over t. The table is not copied and must not
// be modified afterwards.
//
// The default start is t.States[0]. WithStart selects the first state whose
// path begins with the given prefix.
func NewTable(t *ir.Table, opts ...Option) (*Table, error) {
	if t.Len() == 0 {
		return nil, &StartError{Message: "table has no states"}
	}

	o := newOptions(opts)
	e := &Table{
		table:     t,
		lookup:    make([]map[ir.Input]int, len(t.States)),
		logger:    o.logger,
		observers: o.observers,
	}
	for i, s := range t.States {
		m := make(map[ir.Input]int, len(s.Transitions))
		for j, tr := range s.Transitions {
			if _, dup := m[tr.Input]; !dup {
				m[tr.Input] = j
			}
		}
		e.lookup[i] = m
	}

	start, err := findStart(t, o.start)
	if err != nil {
		return nil, err
	}
	e.start = start
	e.current = start
	return e, nil
}

// findStart returns the first state whose path has prefix.
// Depth-first start-first order makes it the declared start of every level
// prefix does not name.
func findStart(t *ir.Table, prefix ir.StatePath) (int, error) {
	if prefix == nil {
		return 0, nil
	}
	if len(prefix) == 0 {
		return 0, &StartError{Path: prefix, Message: "start path is empty"}
	}
	for i := range t.States {
		if t.States[i].Path.HasPrefix(prefix) {
			return i, nil
		}
	}
	return 0, &StartError{Path: prefix, Message: "no compiled state has this prefix"}
}

// Path returns the current leaf path.
func (e *Table) Path() ir.StatePath {
	return e.table.States[e.current].Path.Clone()
}

// Fire looks up input on the current state. On a match the compiled exit
// and transition steps run, the engine switches, then the enter steps run.
func (e *Table) Fire(input ir.Input) ir.Response {
	from := e.current
	j, ok := e.lookup[from][input]
	if !ok {
		resp := ir.Response{Result: ir.NoAction, Path: e.Path()}
		notify(e.observers, FireEvent{Engine: KindTable, Input: input, From: resp.Path, Response: resp})
		return resp
	}

	tr := &e.table.States[from].Transitions[j]
	for _, step := range tr.Effect.Before() {
		step.Run()
	}
	e.current = tr.Next
	for _, step := range tr.Effect.After() {
		step.Run()
	}

	resp := ir.Response{Result: ir.Transitioned, Path: e.Path()}
	fromPath := e.table.States[from].Path.Clone()
	e.logger.Debug("transition",
		"engine", KindTable,
		"input", input,
		"from", fromPath.String(),
		"to", resp.Path.String(),
	)
	notify(e.observers, FireEvent{Engine: KindTable, Input: input, From: fromPath, Response: resp})
	return resp
}

// Reset returns the engine to the declared start, States[0], ignoring any
// start override. No hooks run.
func (e *Table) Reset() {
	e.current = 0
}

// Start returns the index of the state the engine was constructed in.
func (e *Table) Start() int {
	return e.start
}

// Current returns the index of the current state.
func (e *Table) Current() int {
	return e.current
}

// Table returns the compiled table the engine runs.
func (e *Table) Table() *ir.Table {
	return e.table
}
