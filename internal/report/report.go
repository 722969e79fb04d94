// Package report aggregates per-entity deployment outcomes into the
// final report handed back to the CLI. It performs no I/O.
package report

import (
	"github.com/courseforge/courseforge/internal/domain"
)

// Aggregate builds a Report from terminal per-entity outcomes. Outcomes
// are expected sorted by local ID; the report preserves their order.
func Aggregate(runID string, outcomes []domain.EntityOutcome) *domain.Report {
	r := &domain.Report{
		RunID:     runID,
		Counts:    make(map[domain.DeployStatus]int),
		Outcomes:  outcomes,
		RemoteIDs: make(map[string]string),
	}
	for _, out := range outcomes {
		r.Counts[out.Status]++
		switch out.Status {
		case domain.StatusSucceeded:
			if out.RemoteID != "" {
				r.RemoteIDs[out.LocalID] = out.RemoteID
			}
		case domain.StatusFailed:
			r.Failed = append(r.Failed, out)
		case domain.StatusSkipped:
			r.Skipped = append(r.Skipped, out)
		}
	}
	return r
}
