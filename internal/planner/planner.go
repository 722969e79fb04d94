package planner

import (
	"errors"
	"fmt"

	"github.com/courseforge/courseforge/internal/domain"
	"github.com/courseforge/courseforge/internal/graph"
)

// ErrCyclic is returned when leaf peeling stalls, which only happens if a
// cycle survived graph validation.
var ErrCyclic = errors.New("dependency graph contains a cycle")

// Plan orders every entity in the graph into deployment batches.
func Plan(g *graph.Graph) (domain.DeploymentPlan, error) {
	return Subset(g, nil)
}

// Subset plans only the entities not listed in exclude. Batch 0 holds
// entities with no unplaced dependencies; each later batch holds entities
// whose dependencies all live in earlier batches. Entities within a batch
// are ordered lexicographically by local ID so identical inputs always
// produce identical plans.
//
// Callers must exclude dependents of excluded entities transitively; an
// excluded dependency is treated as satisfied here.
func Subset(g *graph.Graph, exclude map[string]bool) (domain.DeploymentPlan, error) {
	total := 0
	for _, id := range g.IDs() {
		if !exclude[id] {
			total++
		}
	}

	placed := make(map[string]bool, total)
	var batches [][]string
	for len(placed) < total {
		var batch []string
		for _, id := range g.IDs() { // lexicographic, so batches come out sorted
			if exclude[id] || placed[id] {
				continue
			}
			ready := true
			for _, dep := range g.DependenciesOf(id) {
				if !placed[dep] && !exclude[dep] {
					ready = false
					break
				}
			}
			if ready {
				batch = append(batch, id)
			}
		}
		if len(batch) == 0 {
			return domain.DeploymentPlan{}, fmt.Errorf("%w: %d entities cannot be ordered", ErrCyclic, total-len(placed))
		}
		for _, id := range batch {
			placed[id] = true
		}
		batches = append(batches, batch)
	}
	return domain.DeploymentPlan{Batches: batches}, nil
}
