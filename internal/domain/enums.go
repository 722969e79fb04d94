package domain

type EntityKind string

const (
	KindModule     EntityKind = "module"
	KindAssignment EntityKind = "assignment"
	KindQuiz       EntityKind = "quiz"
	KindPage       EntityKind = "page"
	KindDiscussion EntityKind = "discussion"
	KindBadge      EntityKind = "badge"
	KindOutcome    EntityKind = "outcome"
)

// ValidEntityKinds is the canonical set of accepted kind strings.
var ValidEntityKinds = map[string]bool{
	"module": true, "assignment": true, "quiz": true, "page": true,
	"discussion": true, "badge": true, "outcome": true,
}

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

type DeployStatus string

const (
	StatusPending   DeployStatus = "pending"
	StatusInFlight  DeployStatus = "in_flight"
	StatusSucceeded DeployStatus = "succeeded"
	StatusFailed    DeployStatus = "failed"
	StatusSkipped   DeployStatus = "skipped"
)

// Terminal reports whether a status is final for a deployment run.
func (s DeployStatus) Terminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusSkipped:
		return true
	}
	return false
}

// DeployAction records which remote operation an entity went through.
type DeployAction string

const (
	ActionCreate DeployAction = "create"
	ActionUpdate DeployAction = "update"
	ActionNone   DeployAction = "none"
)
