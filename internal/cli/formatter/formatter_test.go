package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/courseforge/courseforge/internal/domain"
	"github.com/courseforge/courseforge/internal/loader"
	"github.com/courseforge/courseforge/internal/testutil"
)

func TestFormatIssues_Empty(t *testing.T) {
	out := FormatIssues(nil)
	assert.Contains(t, out, "configuration is valid")
}

func TestFormatIssues_ErrorsBeforeWarnings(t *testing.T) {
	out := FormatIssues([]domain.ValidationIssue{
		{Severity: domain.SeverityWarning, EntityID: "m1", Field: "colour", Message: `unknown field "colour" for kind module`},
		{Severity: domain.SeverityError, EntityID: "a1", Field: "points_possible", Message: "is required"},
	})

	assert.Contains(t, out, "1 VALIDATION ERRORS")
	assert.Contains(t, out, "1 WARNINGS")
	assert.Contains(t, out, "a1.points_possible")
	assert.Contains(t, out, "m1.colour")
	assert.Less(t, strings.Index(out, "a1.points_possible"), strings.Index(out, "m1.colour"))
}

func TestFormatCycles(t *testing.T) {
	assert.Empty(t, FormatCycles(nil))

	out := FormatCycles([][]string{{"m1", "m2"}})
	assert.Contains(t, out, "1 DEPENDENCY CYCLES")
	assert.Contains(t, out, "m1 -> m2 -> m1")
}

func TestFormatPlan(t *testing.T) {
	set := loader.NewCourseSet([]*domain.Entity{
		testutil.Module("m1", 1),
		testutil.Module("m2", 2, "m1"),
	})
	plan := domain.DeploymentPlan{Batches: [][]string{{"m1"}, {"m2"}}}

	out := FormatPlan(plan, set, map[string]string{"m_bad": "validation errors"})
	assert.Contains(t, out, "DEPLOYMENT PLAN: 2 ENTITIES IN 2 BATCHES")
	assert.Contains(t, out, "batch 0")
	assert.Contains(t, out, "batch 1")
	assert.Contains(t, out, "m1")
	assert.Contains(t, out, "module")
	assert.Contains(t, out, "1 ENTITIES EXCLUDED")
	assert.Contains(t, out, "m_bad")
	assert.Contains(t, out, "validation errors")
}

func TestFormatReport(t *testing.T) {
	rep := &domain.Report{
		RunID: "run-1",
		Counts: map[domain.DeployStatus]int{
			domain.StatusSucceeded: 1,
			domain.StatusFailed:    1,
		},
		Outcomes: []domain.EntityOutcome{
			{LocalID: "m1", Kind: domain.KindModule, Status: domain.StatusSucceeded, Action: domain.ActionCreate, RemoteID: "55"},
			{LocalID: "m2", Kind: domain.KindModule, Status: domain.StatusFailed, Action: domain.ActionCreate, Reason: "canvas returned status 400"},
		},
	}

	out := FormatReport(rep)
	assert.Contains(t, out, "DEPLOYMENT REPORT")
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "1 succeeded")
	assert.Contains(t, out, "1 failed")
	assert.Contains(t, out, "0 skipped")
	assert.Contains(t, out, "ENTITY")
	assert.Contains(t, out, "55")
	assert.Contains(t, out, "canvas returned status 400")
}

func TestFormatRecords(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	finished := now.Add(time.Minute)
	records := domain.RecordSet{
		"m1": {LocalID: "m1", Kind: domain.KindModule, RemoteID: "55", Status: domain.StatusSucceeded, AttemptedAt: now},
	}
	latest := &domain.DeploymentRun{ID: "run-1", StartedAt: now, FinishedAt: &finished}

	out := FormatRecords(records, latest)
	assert.Contains(t, out, "DEPLOYMENT RECORDS")
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "2026-08-30T10:01:00Z")
	assert.Contains(t, out, "m1")
	assert.Contains(t, out, "55")
}

func TestFormatRecords_Empty(t *testing.T) {
	out := FormatRecords(nil, nil)
	assert.Contains(t, out, "no deployments recorded")
}

func TestRenderTable_Alignment(t *testing.T) {
	out := RenderTable([]string{"A", "LONGER"}, [][]string{
		{"xx", "y"},
		{"x", "yy"},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
}
