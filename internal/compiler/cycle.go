package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/compstate/internal/ir"
)

// referenceGraph is the sub-machine reference graph of one configuration,
// keyed by pointer identity. nodes lists machines in discovery order
// (depth-first, declaration order) starting at the root.
type referenceGraph struct {
	nodes  []*ir.MachineConfig
	labels map[*ir.MachineConfig]string
	edges  map[*ir.MachineConfig][]*ir.MachineConfig
}

// buildReferenceGraph discovers every machine reachable from root.
// Each distinct *MachineConfig appears exactly once however many states
// reference it.
func buildReferenceGraph(root *ir.MachineConfig) *referenceGraph {
	g := &referenceGraph{
		labels: make(map[*ir.MachineConfig]string),
		edges:  make(map[*ir.MachineConfig][]*ir.MachineConfig),
	}

	var visit func(m *ir.MachineConfig)
	visit = func(m *ir.MachineConfig) {
		if _, seen := g.labels[m]; seen {
			return
		}
		g.labels[m] = machineLabel(m, len(g.nodes))
		g.nodes = append(g.nodes, m)

		seen := make(map[*ir.MachineConfig]bool)
		g.edges[m] = []*ir.MachineConfig{}
		for _, s := range m.States {
			if s.Sub == nil || seen[s.Sub] {
				continue
			}
			seen[s.Sub] = true
			g.edges[m] = append(g.edges[m], s.Sub)
			visit(s.Sub)
		}
	}
	visit(root)

	return g
}

// machineLabel returns the configured name, or a positional label.
func machineLabel(m *ir.MachineConfig, position int) string {
	if m.Name != "" {
		return m.Name
	}
	if position == 0 {
		return "root"
	}
	return fmt.Sprintf("machine#%d", position)
}

// findCycles returns every reference cycle, each as a closed label path
// ("a → b → a"). A DAG returns nil.
//
// The algorithm is Tarjan's strongly connected components: every SCC with
// more than one member, or a single member referencing itself, is a cycle.
func (g *referenceGraph) findCycles() [][]string {
	var (
		index   = 0
		stack   []*ir.MachineConfig
		indices = make(map[*ir.MachineConfig]int)
		lowlink = make(map[*ir.MachineConfig]int)
		onStack = make(map[*ir.MachineConfig]bool)
		cycles  [][]string
	)

	var strongConnect func(*ir.MachineConfig)
	strongConnect = func(v *ir.MachineConfig) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.edges[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []*ir.MachineConfig
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			if len(scc) > 1 || g.hasSelfLoop(scc[0]) {
				cycles = append(cycles, g.cyclePath(scc))
			}
		}
	}

	// Discovery order keeps the report deterministic.
	for _, node := range g.nodes {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return cycles
}

func (g *referenceGraph) hasSelfLoop(m *ir.MachineConfig) bool {
	for _, w := range g.edges[m] {
		if w == m {
			return true
		}
	}
	return false
}

// cyclePath reconstructs a closed walk through an SCC for reporting,
// starting from the member discovered first.
func (g *referenceGraph) cyclePath(scc []*ir.MachineConfig) []string {
	members := make(map[*ir.MachineConfig]bool, len(scc))
	for _, m := range scc {
		members[m] = true
	}

	start := scc[0]
	for _, n := range g.nodes {
		if members[n] {
			start = n
			break
		}
	}

	path := []string{g.labels[start]}
	visited := map[*ir.MachineConfig]bool{start: true}
	current := start
	for {
		var next *ir.MachineConfig
		for _, w := range g.edges[current] {
			if members[w] && (!visited[w] || w == start) {
				next = w
				break
			}
		}
		if next == nil {
			break
		}
		path = append(path, g.labels[next])
		if next == start {
			break
		}
		visited[next] = true
		current = next
	}
	return path
}

// cycleErrors converts detected cycles into configuration errors.
func (g *referenceGraph) cycleErrors() []ConfigError {
	var errs []ConfigError
	for _, cycle := range g.findCycles() {
		errs = append(errs, ConfigError{
			Code:    ErrReferenceCycle,
			Machine: cycle[0],
			Message: fmt.Sprintf("sub-machine reference cycle: %s", strings.Join(cycle, " → ")),
		})
	}
	return errs
}

// TopoOrder returns every machine reachable from root ordered so that each
// machine comes after all machines its states reference. The root is last.
// Each distinct *MachineConfig appears once.
//
// A reference cycle is reported as a ConfigError with ErrReferenceCycle.
func TopoOrder(root *ir.MachineConfig) ([]*ir.MachineConfig, error) {
	if root == nil {
		return nil, &ConfigError{Code: ErrNilMachine, Message: "machine configuration is nil"}
	}

	const (
		white = iota
		gray
		black
	)
	g := buildReferenceGraph(root)
	color := make(map[*ir.MachineConfig]int, len(g.nodes))
	order := make([]*ir.MachineConfig, 0, len(g.nodes))

	var visit func(m *ir.MachineConfig) error
	visit = func(m *ir.MachineConfig) error {
		switch color[m] {
		case gray:
			return &ConfigError{
				Code:    ErrReferenceCycle,
				Machine: g.labels[m],
				Message: "sub-machine reference cycle",
			}
		case black:
			return nil
		}
		color[m] = gray
		for _, dep := range g.edges[m] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		color[m] = black
		order = append(order, m)
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}
	return order, nil
}
