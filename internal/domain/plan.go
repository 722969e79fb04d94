package domain

// DeploymentPlan is an ordered list of batches. Entities within a batch
// have no dependency among themselves; every dependency of an entity in
// batch k lives in some batch j < k.
type DeploymentPlan struct {
	Batches [][]string
}

// EntityCount returns the total number of entities across all batches.
func (p DeploymentPlan) EntityCount() int {
	n := 0
	for _, b := range p.Batches {
		n += len(b)
	}
	return n
}

// BatchOf returns the index of the batch containing the given local ID,
// or -1 when the ID is not in the plan.
func (p DeploymentPlan) BatchOf(localID string) int {
	for i, b := range p.Batches {
		for _, id := range b {
			if id == localID {
				return i
			}
		}
	}
	return -1
}
