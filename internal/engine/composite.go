package engine

import (
	"log/slog"

	"github.com/roach88/compstate/internal/ir"
)

// Composite is one level of a hierarchical machine executed directly from
// its configuration. Construct with NewComposite.
type Composite struct {
	cfg     *ir.MachineConfig
	states  []compositeState
	index   map[ir.StateID]int
	start   int
	current int

	logger    *slog.Logger
	observers []Observer
}

// compositeState pairs a state's configuration with its sub-engine, which
// may be shared with other states.
type compositeState struct {
	cfg *ir.StateConfig
	sub *Composite
}

var _ ir.Machine = (*Composite)(nil)

// Path returns the active path from this level down to a leaf.
func (c *Composite) Path() ir.StatePath {
	return c.path(nil)
}

func (c *Composite) path(prefix ir.StatePath) ir.StatePath {
	s := &c.states[c.current]
	p := prefix.Append(s.cfg.ID)
	if s.sub != nil {
		return s.sub.path(p)
	}
	return p
}

// Fire presents input to the machine. The active sub-engine gets the first
// chance to handle it; see the package documentation for hook ordering.
func (c *Composite) Fire(input ir.Input) ir.Response {
	from := c.Path()
	result := c.fire(input, ir.StatePath{})
	resp := ir.Response{Result: result, Path: c.Path()}

	if result == ir.Transitioned {
		c.logger.Debug("transition",
			"engine", KindComposite,
			"input", input,
			"from", from.String(),
			"to", resp.Path.String(),
		)
	}
	notify(c.observers, FireEvent{Engine: KindComposite, Input: input, From: from, Response: resp})

	return resp
}

// fire handles input at this level. prefix is the absolute path of the
// state owning this level.
func (c *Composite) fire(input ir.Input, prefix ir.StatePath) ir.Result {
	cur := &c.states[c.current]
	here := prefix.Append(cur.cfg.ID)

	if cur.sub != nil && cur.sub.fire(input, here) == ir.Transitioned {
		return ir.Transitioned
	}

	t := cur.cfg.FindTransition(input)
	if t == nil {
		return ir.NoAction
	}
	next := c.index[t.Next]
	target := &c.states[next]

	// Exit phase, deepest first.
	if cur.sub != nil {
		cur.sub.exit(here)
	}
	if cur.cfg.OnExit != nil {
		cur.cfg.OnExit(here.Clone())
	}

	if t.OnTransition != nil {
		to := prefix.Append(target.cfg.ID)
		if target.sub != nil {
			to = to.Append(target.sub.cfg.StartPath()...)
		}
		t.OnTransition(c.path(prefix), to)
	}

	if cur.sub != nil {
		cur.sub.Reset()
	}
	c.current = next

	c.enter(prefix)
	return ir.Transitioned
}

// Reset returns this level and the active chain below it to their declared
// start states. No hooks run.
func (c *Composite) Reset() {
	if sub := c.states[c.current].sub; sub != nil {
		sub.Reset()
	}
	c.current = c.start
}

// Enter runs the enter hooks of the active chain, shallowest first, as if
// the machine were being entered as a whole. Hook paths are relative to
// this level.
func (c *Composite) Enter() {
	c.enter(ir.StatePath{})
}

// Exit runs the exit hooks of the active chain, deepest first.
// Hook paths are relative to this level.
func (c *Composite) Exit() {
	c.exit(ir.StatePath{})
}

func (c *Composite) enter(prefix ir.StatePath) {
	s := &c.states[c.current]
	here := prefix.Append(s.cfg.ID)
	if s.cfg.OnEnter != nil {
		s.cfg.OnEnter(here.Clone())
	}
	if s.sub != nil {
		s.sub.enter(here)
	}
}

func (c *Composite) exit(prefix ir.StatePath) {
	s := &c.states[c.current]
	here := prefix.Append(s.cfg.ID)
	if s.sub != nil {
		s.sub.exit(here)
	}
	if s.cfg.OnExit != nil {
		s.cfg.OnExit(here)
	}
}

// Sub returns the sub-engine of the state with the given id, or nil.
// States referencing the same configuration return the same *Composite.
func (c *Composite) Sub(id ir.StateID) *Composite {
	i, ok := c.index[id]
	if !ok {
		return nil
	}
	return c.states[i].sub
}

// Start returns the declared start state of this level.
func (c *Composite) Start() ir.StateID {
	return c.states[c.start].cfg.ID
}

// Current returns the active state of this level.
func (c *Composite) Current() ir.StateID {
	return c.states[c.current].cfg.ID
}

// States returns the state ids of this level in declared order.
func (c *Composite) States() []ir.StateID {
	ids := make([]ir.StateID, len(c.states))
	for i, s := range c.states {
		ids[i] = s.cfg.ID
	}
	return ids
}

// Config returns the configuration this level was built from.
func (c *Composite) Config() *ir.MachineConfig {
	return c.cfg
}
