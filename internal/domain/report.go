package domain

// EntityOutcome is the final per-entity result of a deployment run.
type EntityOutcome struct {
	LocalID  string
	Kind     EntityKind
	Status   DeployStatus
	Action   DeployAction
	RemoteID string

	// Reason explains failed and skipped outcomes. For skipped entities
	// it names the dependency that failed, directly or transitively.
	Reason string
}

// Report is the aggregate result of a deployment run, returned to the
// calling collaborator. It is a plain value; building it performs no I/O.
type Report struct {
	RunID    string
	Counts   map[DeployStatus]int
	Failed   []EntityOutcome
	Skipped  []EntityOutcome
	Outcomes []EntityOutcome

	// RemoteIDs maps local IDs to remote IDs for every entity that
	// succeeded in this run.
	RemoteIDs map[string]string
}

// Succeeded reports whether every entity in the run reached succeeded.
func (r *Report) Succeeded() bool {
	return len(r.Failed) == 0 && len(r.Skipped) == 0
}
