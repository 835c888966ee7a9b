package engine

import (
	"fmt"

	"github.com/roach88/compstate/internal/compiler"
	"github.com/roach88/compstate/internal/ir"
)

// NewComposite validates cfg and builds a Composite engine for it.
//
// Each distinct *ir.MachineConfig reachable from cfg is built exactly once,
// after every configuration it references, so states sharing a
// sub-machine configuration share one sub-engine.
func NewComposite(cfg *ir.MachineConfig, opts ...Option) (*Composite, error) {
	if err := compiler.Check(cfg); err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	order, err := compiler.TopoOrder(cfg)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}

	o := newOptions(opts)
	arena := make(map[*ir.MachineConfig]*Composite, len(order))
	for _, m := range order {
		arena[m] = buildLevel(m, arena, o)
	}

	root := arena[cfg]
	root.observers = o.observers
	if err := root.applyStart(o.start); err != nil {
		return nil, err
	}
	return root, nil
}

// buildLevel builds one level. Every sub-machine m references is already
// in arena.
func buildLevel(m *ir.MachineConfig, arena map[*ir.MachineConfig]*Composite, o *options) *Composite {
	c := &Composite{
		cfg:    m,
		states: make([]compositeState, len(m.States)),
		index:  make(map[ir.StateID]int, len(m.States)),
		logger: o.logger,
	}
	for i := range m.States {
		s := &m.States[i]
		c.states[i] = compositeState{cfg: s}
		if s.Sub != nil {
			c.states[i].sub = arena[s.Sub]
		}
		c.index[s.ID] = i
	}
	c.start = c.index[m.Start]
	c.current = c.start
	return c
}

// applyStart positions the active chain on path. Levels below the end of
// path keep their declared start.
func (c *Composite) applyStart(path ir.StatePath) error {
	if path == nil {
		return nil
	}
	if len(path) == 0 {
		return &StartError{Path: path, Message: "start path is empty"}
	}

	level := c
	for depth, id := range path {
		if level == nil {
			return &StartError{Path: path, Message: fmt.Sprintf("%s is a leaf state", path[:depth])}
		}
		i, ok := level.index[id]
		if !ok {
			return &StartError{Path: path, Message: fmt.Sprintf("no state %q at depth %d", id, depth)}
		}
		level.current = i
		level = level.states[i].sub
	}
	return nil
}
