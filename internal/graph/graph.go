package graph

import (
	"sort"

	"github.com/courseforge/courseforge/internal/domain"
)

// Graph is the "must exist before" dependency graph over a course set.
// Entities live in a flat indexed arena; edges are index pairs. An edge
// a → b means a depends on b, so b must be deployed first.
type Graph struct {
	ids     []string
	index   map[string]int
	deps    [][]int // deps[a] = indexes a depends on
	readers [][]int // readers[b] = indexes that depend on b
}

// Build constructs the graph for a set of entities. Dependency targets
// that are not present in the set are ignored; the reference resolver has
// already reported them.
func Build(entities []*domain.Entity) *Graph {
	ids := make([]string, 0, len(entities))
	byID := make(map[string]*domain.Entity, len(entities))
	for _, e := range entities {
		ids = append(ids, e.LocalID)
		byID[e.LocalID] = e
	}
	sort.Strings(ids)

	g := &Graph{
		ids:     ids,
		index:   make(map[string]int, len(ids)),
		deps:    make([][]int, len(ids)),
		readers: make([][]int, len(ids)),
	}
	for i, id := range ids {
		g.index[id] = i
	}
	for i, id := range ids {
		for _, dep := range byID[id].Dependencies {
			j, ok := g.index[dep]
			if !ok {
				continue
			}
			g.deps[i] = append(g.deps[i], j)
			g.readers[j] = append(g.readers[j], i)
		}
	}
	return g
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.ids) }

// ID returns the local ID at the given arena index.
func (g *Graph) ID(i int) string { return g.ids[i] }

// IDs returns all local IDs in lexicographic order.
func (g *Graph) IDs() []string { return g.ids }

// Index returns the arena index for a local ID.
func (g *Graph) Index(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// DependenciesOf returns the local IDs the given entity depends on.
func (g *Graph) DependenciesOf(id string) []string {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(g.deps[i]))
	for _, j := range g.deps[i] {
		out = append(out, g.ids[j])
	}
	return out
}

// DependentsOf returns the local IDs that depend on the given entity.
func (g *Graph) DependentsOf(id string) []string {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(g.readers[i]))
	for _, j := range g.readers[i] {
		out = append(out, g.ids[j])
	}
	return out
}

// DFS colors.
const (
	white = iota // unvisited
	gray         // on the current path
	black        // fully processed
)

// frame is one entry of the explicit DFS stack: the node being explored
// and the next outgoing edge to follow.
type frame struct {
	node int
	edge int
}

// Cycles runs an iterative depth-first search with an explicit color
// array and returns every cycle discovered, each as an ordered list of
// local IDs in which every entity depends on the next, wrapping around.
// Each cycle is rotated so its lexicographically smallest member comes
// first, which keeps diagnostics reproducible.
func (g *Graph) Cycles() [][]string {
	n := len(g.ids)
	color := make([]byte, n)

	var cycles [][]string
	for start := 0; start < n; start++ {
		if color[start] != white {
			continue
		}
		stack := []frame{{node: start}}
		color[start] = gray

		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			if f.edge < len(g.deps[f.node]) {
				next := g.deps[f.node][f.edge]
				f.edge++
				switch color[next] {
				case white:
					color[next] = gray
					stack = append(stack, frame{node: next})
				case gray:
					cycles = append(cycles, g.extractCycle(stack, next))
				}
				continue
			}
			color[f.node] = black
			stack = stack[:len(stack)-1]
		}
	}
	return cycles
}

// extractCycle builds the cycle trace for a back edge from the top of the
// DFS stack to the given node. Consecutive stack entries are dependency
// edges, so the slice from the target to the top reads as "each depends
// on the next" with the back edge closing the loop.
func (g *Graph) extractCycle(stack []frame, target int) []string {
	pos := 0
	for i := range stack {
		if stack[i].node == target {
			pos = i
			break
		}
	}
	cycle := make([]string, 0, len(stack)-pos)
	for _, f := range stack[pos:] {
		cycle = append(cycle, g.ids[f.node])
	}
	return rotateToMin(cycle)
}

func rotateToMin(cycle []string) []string {
	if len(cycle) == 0 {
		return cycle
	}
	min := 0
	for i, id := range cycle {
		if id < cycle[min] {
			min = i
		}
	}
	rotated := make([]string, 0, len(cycle))
	rotated = append(rotated, cycle[min:]...)
	rotated = append(rotated, cycle[:min]...)
	return rotated
}
