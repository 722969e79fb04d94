package domain

import "time"

// EntityRecord is the persisted outcome of an entity's most recent
// deployment attempt. Records outlive a single run so re-deployments can
// skip or update already-created remote entities.
type EntityRecord struct {
	LocalID     string
	Kind        EntityKind
	RemoteID    string
	Status      DeployStatus
	Reason      string
	RunID       string
	AttemptedAt time.Time
}

// RecordSet indexes entity records by local ID.
type RecordSet map[string]EntityRecord

// RemoteID returns the stored remote ID for a local ID, or "" when the
// entity has never been created remotely.
func (rs RecordSet) RemoteID(localID string) string {
	if r, ok := rs[localID]; ok {
		return r.RemoteID
	}
	return ""
}

// Succeeded reports whether the entity's last recorded attempt succeeded.
func (rs RecordSet) Succeeded(localID string) bool {
	r, ok := rs[localID]
	return ok && r.Status == StatusSucceeded && r.RemoteID != ""
}

// DeploymentRun is the metadata row for one executor invocation.
type DeploymentRun struct {
	ID         string
	StartedAt  time.Time
	FinishedAt *time.Time
	DryRun     bool
}
