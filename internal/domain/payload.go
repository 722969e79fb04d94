package domain

// ModulePayload is the body of a course module: an ordered container of
// items gated by prerequisites and skill-tree unlock rules.
type ModulePayload struct {
	Title                     string   `json:"title" validate:"required"`
	Position                  int      `json:"position" validate:"required,gt=0"`
	Prerequisites             []string `json:"prerequisites,omitempty"`
	Items                     []string `json:"items,omitempty"`
	UnlockRequirements        []string `json:"unlock_requirements,omitempty"`
	RequireSequentialProgress bool     `json:"require_sequential_progress,omitempty"`
	XP                        int      `json:"xp,omitempty" validate:"gte=0"`
}

func (p *ModulePayload) Kind() EntityKind { return KindModule }

func (p *ModulePayload) Refs() []Ref {
	var refs []Ref
	refs = appendRefs(refs, "prerequisites", p.Prerequisites)
	refs = appendRefs(refs, "items", p.Items)
	refs = appendRefs(refs, "unlock_requirements", p.UnlockRequirements)
	return refs
}

func (p *ModulePayload) Resolve(ids map[string]string) Payload {
	q := *p
	q.Prerequisites = mapTargets(p.Prerequisites, ids)
	q.Items = mapTargets(p.Items, ids)
	q.UnlockRequirements = mapTargets(p.UnlockRequirements, ids)
	return &q
}

// AssignmentPayload is the body of a gradeable assignment.
type AssignmentPayload struct {
	Title           string   `json:"title" validate:"required"`
	PointsPossible  *float64 `json:"points_possible" validate:"required,gte=0"`
	GradingType     string   `json:"grading_type,omitempty" validate:"omitempty,oneof=points percent pass_fail letter_grade"`
	SubmissionTypes []string `json:"submission_types,omitempty"`
	DueAt           string   `json:"due_at,omitempty"`
	Badges          []string `json:"badges,omitempty"`
	Outcomes        []string `json:"outcomes,omitempty"`
	XP              int      `json:"xp,omitempty" validate:"gte=0"`
}

func (p *AssignmentPayload) Kind() EntityKind { return KindAssignment }

func (p *AssignmentPayload) Refs() []Ref {
	var refs []Ref
	refs = appendRefs(refs, "badges", p.Badges)
	refs = appendRefs(refs, "outcomes", p.Outcomes)
	return refs
}

func (p *AssignmentPayload) Resolve(ids map[string]string) Payload {
	q := *p
	q.Badges = mapTargets(p.Badges, ids)
	q.Outcomes = mapTargets(p.Outcomes, ids)
	return &q
}

// QuizPayload is the body of a quiz.
type QuizPayload struct {
	Title           string   `json:"title" validate:"required"`
	QuizType        string   `json:"quiz_type,omitempty" validate:"omitempty,oneof=practice_quiz assignment graded_survey survey"`
	PointsPossible  *float64 `json:"points_possible,omitempty" validate:"omitempty,gte=0"`
	TimeLimitMin    *int     `json:"time_limit_min,omitempty" validate:"omitempty,gt=0"`
	AllowedAttempts *int     `json:"allowed_attempts,omitempty" validate:"omitempty,gte=-1"`
	Outcomes        []string `json:"outcomes,omitempty"`
	XP              int      `json:"xp,omitempty" validate:"gte=0"`
}

func (p *QuizPayload) Kind() EntityKind { return KindQuiz }

func (p *QuizPayload) Refs() []Ref {
	return appendRefs(nil, "outcomes", p.Outcomes)
}

func (p *QuizPayload) Resolve(ids map[string]string) Payload {
	q := *p
	q.Outcomes = mapTargets(p.Outcomes, ids)
	return &q
}

// PagePayload is the body of a wiki page.
type PagePayload struct {
	Title     string `json:"title" validate:"required"`
	Body      string `json:"body,omitempty"`
	Published bool   `json:"published,omitempty"`
}

func (p *PagePayload) Kind() EntityKind { return KindPage }
func (p *PagePayload) Refs() []Ref { return nil }

func (p *PagePayload) Resolve(map[string]string) Payload { return p }

// DiscussionPayload is the body of a discussion topic.
type DiscussionPayload struct {
	Title          string `json:"title" validate:"required"`
	Message        string `json:"message,omitempty"`
	DiscussionType string `json:"discussion_type,omitempty" validate:"omitempty,oneof=side_comment threaded"`
	Pinned         bool   `json:"pinned,omitempty"`
}

func (p *DiscussionPayload) Kind() EntityKind { return KindDiscussion }
func (p *DiscussionPayload) Refs() []Ref { return nil }

func (p *DiscussionPayload) Resolve(map[string]string) Payload { return p }

// BadgePayload is the body of a gamification badge.
type BadgePayload struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty" validate:"omitempty,url"`
	Criteria    string `json:"criteria,omitempty"`
	XP          int    `json:"xp,omitempty" validate:"gte=0"`
}

func (p *BadgePayload) Kind() EntityKind { return KindBadge }
func (p *BadgePayload) Refs() []Ref { return nil }

func (p *BadgePayload) Resolve(map[string]string) Payload { return p }

// OutcomePayload is the body of a learning outcome.
type OutcomePayload struct {
	Title            string   `json:"title" validate:"required"`
	Description      string   `json:"description,omitempty"`
	MasteryThreshold *float64 `json:"mastery_threshold" validate:"required,gte=0,lte=1"`
	PointsPossible   *float64 `json:"points_possible,omitempty" validate:"omitempty,gte=0"`
}

func (p *OutcomePayload) Kind() EntityKind { return KindOutcome }
func (p *OutcomePayload) Refs() []Ref { return nil }

func (p *OutcomePayload) Resolve(map[string]string) Payload { return p }

// NewPayload returns an empty payload struct for the given kind.
func NewPayload(kind EntityKind) (Payload, bool) {
	switch kind {
	case KindModule:
		return &ModulePayload{}, true
	case KindAssignment:
		return &AssignmentPayload{}, true
	case KindQuiz:
		return &QuizPayload{}, true
	case KindPage:
		return &PagePayload{}, true
	case KindDiscussion:
		return &DiscussionPayload{}, true
	case KindBadge:
		return &BadgePayload{}, true
	case KindOutcome:
		return &OutcomePayload{}, true
	}
	return nil, false
}

// mapTargets substitutes each target through ids, keeping targets that
// have no mapping.
func mapTargets(targets []string, ids map[string]string) []string {
	if len(targets) == 0 {
		return targets
	}
	out := make([]string, len(targets))
	for i, t := range targets {
		if id, ok := ids[t]; ok && id != "" {
			out[i] = id
		} else {
			out[i] = t
		}
	}
	return out
}

func appendRefs(refs []Ref, field string, targets []string) []Ref {
	for _, t := range targets {
		refs = append(refs, Ref{Field: field, Target: t})
	}
	return refs
}
