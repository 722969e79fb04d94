package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courseforge/courseforge/internal/domain"
	"github.com/courseforge/courseforge/internal/loader"
	"github.com/courseforge/courseforge/internal/testutil"
)

func TestReferences_AllResolved(t *testing.T) {
	set := loader.NewCourseSet([]*domain.Entity{
		testutil.Module("m1", 1),
		testutil.Module("m2", 2, "m1"),
		testutil.Assignment("a1", "badge_a"),
		testutil.Badge("badge_a"),
	})

	assert.Empty(t, References(set))
}

func TestReferences_UnknownTarget(t *testing.T) {
	set := loader.NewCourseSet([]*domain.Entity{
		testutil.Assignment("assignment_1", "vector_warrior"),
	})

	issues := References(set)
	require.Len(t, issues, 1)
	assert.Equal(t, domain.SeverityError, issues[0].Severity)
	assert.Equal(t, "assignment_1", issues[0].EntityID)
	assert.Equal(t, "badges", issues[0].Field)
	assert.Equal(t, `reference to unknown local_id "vector_warrior"`, issues[0].Message)
}

func TestReferences_SelfReference(t *testing.T) {
	set := loader.NewCourseSet([]*domain.Entity{
		testutil.Module("m1", 1, "m1"),
	})

	issues := References(set)
	require.Len(t, issues, 1)
	assert.Equal(t, "m1", issues[0].EntityID)
	assert.Equal(t, "prerequisites", issues[0].Field)
	assert.Equal(t, "entity references itself via prerequisites", issues[0].Message)
}

func TestReferences_KindMismatch(t *testing.T) {
	tests := []struct {
		name    string
		set     *loader.CourseSet
		entity  string
		field   string
		message string
	}{
		{
			name: "prerequisite points at a badge",
			set: loader.NewCourseSet([]*domain.Entity{
				testutil.Module("m1", 1, "badge_a"),
				testutil.Badge("badge_a"),
			}),
			entity:  "m1",
			field:   "prerequisites",
			message: `"badge_a" is a badge; prerequisites must reference module`,
		},
		{
			name: "badge list points at a module",
			set: loader.NewCourseSet([]*domain.Entity{
				testutil.Module("m1", 1),
				testutil.Assignment("a1", "m1"),
			}),
			entity:  "a1",
			field:   "badges",
			message: `"m1" is a module; badges must reference badge`,
		},
		{
			name: "module item points at a badge",
			set: loader.NewCourseSet([]*domain.Entity{
				testutil.ModuleWithItems("m1", 1, "badge_a"),
				testutil.Badge("badge_a"),
			}),
			entity:  "m1",
			field:   "items",
			message: `"badge_a" is a badge; items must reference assignment or quiz or page or discussion`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := References(tt.set)
			require.Len(t, issues, 1)
			assert.Equal(t, tt.entity, issues[0].EntityID)
			assert.Equal(t, tt.field, issues[0].Field)
			assert.Equal(t, tt.message, issues[0].Message)
		})
	}
}

func TestReferences_UnlockRequirementsAllowAnyKind(t *testing.T) {
	m := testutil.Module("m1", 1)
	m.Payload.(*domain.ModulePayload).UnlockRequirements = []string{"badge_a", "m2"}
	set := loader.NewCourseSet([]*domain.Entity{
		m,
		testutil.Module("m2", 2),
		testutil.Badge("badge_a"),
	})

	assert.Empty(t, References(set))
}

// One bad reference must not suppress reporting of the others.
func TestReferences_CollectsEveryFailure(t *testing.T) {
	set := loader.NewCourseSet([]*domain.Entity{
		testutil.Module("m1", 1, "ghost_a", "ghost_b"),
	})

	issues := References(set)
	require.Len(t, issues, 2)
	assert.Equal(t, `reference to unknown local_id "ghost_a"`, issues[0].Message)
	assert.Equal(t, `reference to unknown local_id "ghost_b"`, issues[1].Message)
}
