package service

import (
	"slices"
	"time"

	"github.com/templui/goalnudge/internal/model"
)

const (
	// NeverCheckedInDays stands in for daysWithoutProgress when an objective
	// has no check-in yet.
	NeverCheckedInDays = 999

	urgencyPerSilentDay     = 10
	urgencyPendingStepBonus = 5
)

// ObjectiveView is the ranking input derived from an objective and its next step.
type ObjectiveView struct {
	ID                  string
	Title               string
	DaysWithoutProgress int
	StreakDays          int
	PendingStep         *model.Step
}

func NewObjectiveView(objective *model.Objective, pendingStep *model.Step, now time.Time) ObjectiveView {
	return ObjectiveView{
		ID:                  objective.ID,
		Title:               objective.Title,
		DaysWithoutProgress: DaysWithoutProgress(objective.LastCheckinAt, now),
		StreakDays:          objective.StreakDays,
		PendingStep:         pendingStep,
	}
}

func DaysWithoutProgress(lastCheckinAt *time.Time, now time.Time) int {
	if lastCheckinAt == nil {
		return NeverCheckedInDays
	}

	days := int(now.Sub(*lastCheckinAt) / (24 * time.Hour))
	if days < 0 {
		return 0
	}
	return days
}

func UrgencyScore(v ObjectiveView) int {
	score := v.DaysWithoutProgress * urgencyPerSilentDay
	if v.PendingStep != nil {
		score += urgencyPendingStepBonus
	}
	return score
}

// RankObjectives orders views by urgency, highest first. Equal scores keep
// their input order.
func RankObjectives(views []ObjectiveView) []ObjectiveView {
	ranked := slices.Clone(views)
	slices.SortStableFunc(ranked, func(a, b ObjectiveView) int {
		return UrgencyScore(b) - UrgencyScore(a)
	})
	return ranked
}

// SelectAtIndex rotates through ranked views so successive slots nudge
// different objectives. It reports false for an empty list.
func SelectAtIndex(ranked []ObjectiveView, index int) (ObjectiveView, bool) {
	if len(ranked) == 0 {
		return ObjectiveView{}, false
	}

	i := index % len(ranked)
	if i < 0 {
		i += len(ranked)
	}
	return ranked[i], true
}
