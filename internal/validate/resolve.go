package validate

import (
	"fmt"
	"strings"

	"github.com/courseforge/courseforge/internal/domain"
	"github.com/courseforge/courseforge/internal/loader"
)

// refKinds maps a reference field to the entity kinds it may point at.
// A nil entry allows any kind.
var refKinds = map[string][]domain.EntityKind{
	"prerequisites":       {domain.KindModule},
	"items":               {domain.KindAssignment, domain.KindQuiz, domain.KindPage, domain.KindDiscussion},
	"unlock_requirements": nil,
	"badges":              {domain.KindBadge},
	"outcomes":            {domain.KindOutcome},
}

// References confirms that every cross-entity reference resolves to an
// existing local ID of an acceptable kind. Self-references are reported
// here, before graph construction, since they trivially form a one-node
// cycle.
func References(set *loader.CourseSet) []domain.ValidationIssue {
	var issues []domain.ValidationIssue
	for _, e := range set.Entities {
		for _, ref := range e.Payload.Refs() {
			if ref.Target == e.LocalID {
				issues = append(issues, domain.ValidationIssue{
					Severity: domain.SeverityError,
					EntityID: e.LocalID,
					Field:    ref.Field,
					Message:  fmt.Sprintf("entity references itself via %s", ref.Field),
				})
				continue
			}
			target, ok := set.Get(ref.Target)
			if !ok {
				issues = append(issues, domain.ValidationIssue{
					Severity: domain.SeverityError,
					EntityID: e.LocalID,
					Field:    ref.Field,
					Message:  fmt.Sprintf("reference to unknown local_id %q", ref.Target),
				})
				continue
			}
			if allowed, restricted := refKinds[ref.Field]; restricted && allowed != nil && !kindAllowed(target.Kind, allowed) {
				issues = append(issues, domain.ValidationIssue{
					Severity: domain.SeverityError,
					EntityID: e.LocalID,
					Field:    ref.Field,
					Message: fmt.Sprintf("%q is a %s; %s must reference %s",
						ref.Target, target.Kind, ref.Field, kindList(allowed)),
				})
			}
		}
	}
	return issues
}

func kindAllowed(kind domain.EntityKind, allowed []domain.EntityKind) bool {
	for _, k := range allowed {
		if k == kind {
			return true
		}
	}
	return false
}

func kindList(kinds []domain.EntityKind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, " or ")
}
