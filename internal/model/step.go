package model

import (
	"time"
)

const (
	StepStatusPending = "pending"
	StepStatusDone    = "done"
)

// Effort labels: tiny is about 5 minutes, small 15-30 minutes, medium 1-2 hours.
const (
	EffortTiny   = "tiny"
	EffortSmall  = "small"
	EffortMedium = "medium"
)

const (
	StepSourceUser          = "user"
	StepSourceAINudge       = "ai_nudge"
	StepSourceAIAlternative = "ai_alternative"
)

// Step is a concrete unit of progress toward an objective.
type Step struct {
	ID          string     `db:"id" json:"id"`
	ObjectiveID string     `db:"objective_id" json:"objective_id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	EffortLabel string     `db:"effort_label" json:"effort_label"`
	Status      string     `db:"status" json:"status"`
	Source      string     `db:"source" json:"source"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

func (s *Step) IsPending() bool {
	return s.Status == StepStatusPending
}

// Text is the title and description joined, used for keyword matching.
func (s *Step) Text() string {
	if s.Description == "" {
		return s.Title
	}
	return s.Title + " " + s.Description
}

// EffortRank orders effort labels. Unknown labels rank as small.
func EffortRank(label string) int {
	switch label {
	case EffortTiny:
		return 0
	case EffortMedium:
		return 2
	default:
		return 1
	}
}

func IsValidEffort(label string) bool {
	return label == EffortTiny || label == EffortSmall || label == EffortMedium
}
