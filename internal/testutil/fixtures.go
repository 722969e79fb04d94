package testutil

import (
	"github.com/courseforge/courseforge/internal/domain"
)

func ptrFloat(f float64) *float64 { return &f }

// Module builds a module entity with the given prerequisites.
func Module(localID string, position int, prereqs ...string) *domain.Entity {
	return &domain.Entity{
		LocalID: localID,
		Kind:    domain.KindModule,
		Payload: &domain.ModulePayload{
			Title:         "Module " + localID,
			Position:      position,
			Prerequisites: prereqs,
		},
	}
}

// ModuleWithItems builds a module entity containing the given items.
func ModuleWithItems(localID string, position int, items ...string) *domain.Entity {
	return &domain.Entity{
		LocalID: localID,
		Kind:    domain.KindModule,
		Payload: &domain.ModulePayload{
			Title:    "Module " + localID,
			Position: position,
			Items:    items,
		},
	}
}

// Assignment builds an assignment entity referencing the given badges.
func Assignment(localID string, badges ...string) *domain.Entity {
	return &domain.Entity{
		LocalID: localID,
		Kind:    domain.KindAssignment,
		Payload: &domain.AssignmentPayload{
			Title:          "Assignment " + localID,
			PointsPossible: ptrFloat(10),
			Badges:         badges,
		},
	}
}

// Badge builds a badge entity.
func Badge(localID string) *domain.Entity {
	return &domain.Entity{
		LocalID: localID,
		Kind:    domain.KindBadge,
		Payload: &domain.BadgePayload{Name: "Badge " + localID},
	}
}

// Outcome builds an outcome entity with a valid mastery threshold.
func Outcome(localID string) *domain.Entity {
	return &domain.Entity{
		LocalID: localID,
		Kind:    domain.KindOutcome,
		Payload: &domain.OutcomePayload{
			Title:            "Outcome " + localID,
			MasteryThreshold: ptrFloat(0.7),
		},
	}
}
