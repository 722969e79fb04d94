package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courseforge/courseforge/internal/domain"
	"github.com/courseforge/courseforge/internal/loader"
	"github.com/courseforge/courseforge/internal/testutil"
)

func ptrFloat(f float64) *float64 { return &f }

func validModule() *domain.Entity     { return testutil.Module("m1", 1) }
func validAssignment() *domain.Entity { return testutil.Assignment("a1") }

func TestSchema_ValidSetHasNoIssues(t *testing.T) {
	set := loader.NewCourseSet([]*domain.Entity{
		validModule(),
		validAssignment(),
		testutil.Badge("badge_a"),
		testutil.Outcome("outcome_a"),
	})

	assert.Empty(t, Schema(set))
}

func TestSchema_ModulePayload(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*domain.ModulePayload)
		wantField string
		wantMsg   string
	}{
		{
			name:      "missing title",
			mutate:    func(p *domain.ModulePayload) { p.Title = "" },
			wantField: "title",
			wantMsg:   "is required",
		},
		{
			name:      "zero position",
			mutate:    func(p *domain.ModulePayload) { p.Position = 0 },
			wantField: "position",
			wantMsg:   "is required",
		},
		{
			name:      "negative position",
			mutate:    func(p *domain.ModulePayload) { p.Position = -2 },
			wantField: "position",
			wantMsg:   "must be greater than 0",
		},
		{
			name:      "negative xp",
			mutate:    func(p *domain.ModulePayload) { p.XP = -10 },
			wantField: "xp",
			wantMsg:   "must be at least 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validModule()
			tt.mutate(e.Payload.(*domain.ModulePayload))
			set := loader.NewCourseSet([]*domain.Entity{e})

			issues := Schema(set)
			require.Len(t, issues, 1)
			assert.Equal(t, domain.SeverityError, issues[0].Severity)
			assert.Equal(t, "m1", issues[0].EntityID)
			assert.Equal(t, tt.wantField, issues[0].Field)
			assert.Equal(t, tt.wantMsg, issues[0].Message)
		})
	}
}

func TestSchema_AssignmentPayload(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*domain.AssignmentPayload)
		wantField string
		wantMsg   string
	}{
		{
			name:      "missing points_possible",
			mutate:    func(p *domain.AssignmentPayload) { p.PointsPossible = nil },
			wantField: "points_possible",
			wantMsg:   "is required",
		},
		{
			name:      "negative points_possible",
			mutate:    func(p *domain.AssignmentPayload) { p.PointsPossible = ptrFloat(-5) },
			wantField: "points_possible",
			wantMsg:   "must be at least 0",
		},
		{
			name:      "bogus grading_type",
			mutate:    func(p *domain.AssignmentPayload) { p.GradingType = "vibes" },
			wantField: "grading_type",
			wantMsg:   "must be one of: points, percent, pass_fail, letter_grade",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validAssignment()
			tt.mutate(e.Payload.(*domain.AssignmentPayload))
			set := loader.NewCourseSet([]*domain.Entity{e})

			issues := Schema(set)
			require.Len(t, issues, 1)
			assert.Equal(t, tt.wantField, issues[0].Field)
			assert.Equal(t, tt.wantMsg, issues[0].Message)
		})
	}
}

func TestSchema_OutcomeMasteryRange(t *testing.T) {
	tests := []struct {
		name      string
		threshold *float64
		wantMsg   string
	}{
		{"missing", nil, "is required"},
		{"below zero", ptrFloat(-0.1), "must be at least 0"},
		{"above one", ptrFloat(1.5), "must be at most 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := testutil.Outcome("outcome_a")
			e.Payload.(*domain.OutcomePayload).MasteryThreshold = tt.threshold
			set := loader.NewCourseSet([]*domain.Entity{e})

			issues := Schema(set)
			require.Len(t, issues, 1)
			assert.Equal(t, "mastery_threshold", issues[0].Field)
			assert.Equal(t, tt.wantMsg, issues[0].Message)
		})
	}
}

func TestSchema_BadgeImageURL(t *testing.T) {
	e := testutil.Badge("badge_a")
	e.Payload.(*domain.BadgePayload).ImageURL = "not a url"
	set := loader.NewCourseSet([]*domain.Entity{e})

	issues := Schema(set)
	require.Len(t, issues, 1)
	assert.Equal(t, "image_url", issues[0].Field)
	assert.Equal(t, "must be a valid URL", issues[0].Message)
}

// A broken entity must not generate issues for its siblings.
func TestSchema_CollectsAllIssuesWithoutCrossContamination(t *testing.T) {
	broken := validModule()
	broken.Payload.(*domain.ModulePayload).Title = ""
	broken.Payload.(*domain.ModulePayload).XP = -1

	set := loader.NewCourseSet([]*domain.Entity{broken, testutil.Module("m2", 2)})

	issues := Schema(set)
	require.Len(t, issues, 2)
	for _, iss := range issues {
		assert.Equal(t, "m1", iss.EntityID)
	}
}

func TestSchema_DuplicateModulePositions(t *testing.T) {
	set := loader.NewCourseSet([]*domain.Entity{
		testutil.Module("m1", 3),
		testutil.Module("m2", 3),
		testutil.Module("m3", 1),
	})

	issues := Schema(set)
	require.Len(t, issues, 2)
	assert.Equal(t, "m1", issues[0].EntityID)
	assert.Equal(t, "m2", issues[1].EntityID)
	for _, iss := range issues {
		assert.Equal(t, "position", iss.Field)
		assert.Equal(t, "position 3 duplicated across modules m1, m2", iss.Message)
	}
}
