package compiler

import (
	"fmt"

	"github.com/roach88/compstate/internal/ir"
)

// Compile flattens a hierarchical configuration into a Table of leaf states.
//
// The configuration is validated first; any ConfigError is returned and no
// table is produced. Compile never mutates cfg. The output depends only on
// declaration order:
//
//  1. Each level is visited start state first, then the remaining states in
//     declared order, descending into a sub-machine before the next sibling.
//     Only leaf paths become states; composite states are not observable.
//  2. A leaf inherits the edges of every ancestor. When several levels
//     declare the same input, the deepest level wins. Transitions are listed
//     deepest level first, declared order within a level.
//  3. A target that owns a sub-machine resolves through that machine's start
//     chain down to a leaf.
//  4. The effect of a transition exits every state on the source path (leaf
//     to root), runs the edge hook, then enters every state on the target
//     path (root to leaf).
func Compile(cfg *ir.MachineConfig) (*ir.Table, error) {
	if err := Check(cfg); err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	f := &flattener{index: ir.NewPathIndex()}
	if err := f.walk(cfg, ir.StatePath{}, nil, nil); err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	table := &ir.Table{States: make([]ir.CompiledState, len(f.leaves))}
	for i := range f.leaves {
		transitions, err := f.resolve(&f.leaves[i])
		if err != nil {
			return nil, fmt.Errorf("compile: %w", err)
		}
		table.States[i] = ir.CompiledState{
			Path:        f.leaves[i].path,
			Transitions: transitions,
		}
	}

	return table, nil
}

// flattener accumulates leaves during the depth-first walk.
type flattener struct {
	index  *ir.PathIndex
	leaves []leaf
}

// leaf is a reachable leaf path with the state configs along it and the
// edges it can take after override resolution.
type leaf struct {
	path  ir.StatePath
	chain []*ir.StateConfig // root to leaf, one per level
	edges []edge
}

// edge is a TransitionConfig together with the level that declared it.
type edge struct {
	transition *ir.TransitionConfig
	level      *ir.MachineConfig
	prefix     ir.StatePath // path of the state owning level; empty at the root
}

// visitOrder returns state positions with the start state first.
func visitOrder(m *ir.MachineConfig) []int {
	start := m.StateIndex(m.Start)
	order := make([]int, 0, len(m.States))
	order = append(order, start)
	for i := range m.States {
		if i != start {
			order = append(order, i)
		}
	}
	return order
}

func (f *flattener) walk(m *ir.MachineConfig, prefix ir.StatePath, chain []*ir.StateConfig, inherited []edge) error {
	for _, i := range visitOrder(m) {
		s := &m.States[i]
		path := prefix.Append(s.ID)

		stateChain := make([]*ir.StateConfig, 0, len(chain)+1)
		stateChain = append(stateChain, chain...)
		stateChain = append(stateChain, s)

		edges := overrideEdges(m, prefix, s, inherited)

		if s.Sub != nil {
			if err := f.walk(s.Sub, path, stateChain, edges); err != nil {
				return err
			}
			continue
		}

		if _, added := f.index.Add(path); !added {
			return fmt.Errorf("leaf path %s produced twice", path)
		}
		f.leaves = append(f.leaves, leaf{path: path, chain: stateChain, edges: edges})
	}
	return nil
}

// overrideEdges puts the state's own edges ahead of the inherited ones and
// drops inherited edges whose input the state already handles.
func overrideEdges(m *ir.MachineConfig, prefix ir.StatePath, s *ir.StateConfig, inherited []edge) []edge {
	edges := make([]edge, 0, len(s.Transitions)+len(inherited))
	claimed := make(map[ir.Input]bool, len(s.Transitions))
	for i := range s.Transitions {
		t := &s.Transitions[i]
		edges = append(edges, edge{transition: t, level: m, prefix: prefix})
		claimed[t.Input] = true
	}
	for _, e := range inherited {
		if !claimed[e.transition.Input] {
			edges = append(edges, e)
		}
	}
	return edges
}

// resolve turns a leaf's edges into compiled transitions.
func (f *flattener) resolve(src *leaf) ([]ir.CompiledTransition, error) {
	transitions := make([]ir.CompiledTransition, 0, len(src.edges))
	for _, e := range src.edges {
		target := e.level.State(e.transition.Next)
		targetPath := e.prefix.Append(target.ID)
		if target.Sub != nil {
			targetPath = targetPath.Append(target.Sub.StartPath()...)
		}

		next, ok := f.index.Lookup(targetPath)
		if !ok {
			return nil, fmt.Errorf("target %s of %s on %q is not a leaf", targetPath, src.path, e.transition.Input)
		}

		transitions = append(transitions, ir.CompiledTransition{
			Input:  e.transition.Input,
			Next:   next,
			Effect: composeEffect(src, &f.leaves[next], e.transition.OnTransition),
		})
	}
	return transitions, nil
}

// composeEffect binds the full-ancestor-chain hook sequence for one
// transition. Nil hooks produce no step.
func composeEffect(from, to *leaf, onTransition ir.TransitionFunc) ir.Effect {
	var steps []ir.Step

	for k := len(from.chain) - 1; k >= 0; k-- {
		if fn := from.chain[k].OnExit; fn != nil {
			steps = append(steps, ir.ExitStep(from.path[:k+1].Clone(), fn))
		}
	}

	if onTransition != nil {
		steps = append(steps, ir.TransitionStep(from.path.Clone(), to.path.Clone(), onTransition))
	}

	for k := range to.chain {
		if fn := to.chain[k].OnEnter; fn != nil {
			steps = append(steps, ir.EnterStep(to.path[:k+1].Clone(), fn))
		}
	}

	return ir.Effect{Steps: steps}
}
