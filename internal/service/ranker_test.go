package service

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/templui/goalnudge/internal/model"
)

func ids(views []ObjectiveView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.ID
	}
	return out
}

func TestUrgencyScore(t *testing.T) {
	step := &model.Step{ID: "s1"}

	assert.Equal(t, 0, UrgencyScore(ObjectiveView{}))
	assert.Equal(t, 30, UrgencyScore(ObjectiveView{DaysWithoutProgress: 3}))
	assert.Equal(t, 35, UrgencyScore(ObjectiveView{DaysWithoutProgress: 3, PendingStep: step}))
	assert.Equal(t, 9990, UrgencyScore(ObjectiveView{DaysWithoutProgress: NeverCheckedInDays}))
}

func TestDaysWithoutProgress(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, NeverCheckedInDays, DaysWithoutProgress(nil, now))

	last := now.Add(-47 * time.Hour)
	assert.Equal(t, 1, DaysWithoutProgress(&last, now))

	last = now.Add(-72 * time.Hour)
	assert.Equal(t, 3, DaysWithoutProgress(&last, now))

	future := now.Add(time.Hour)
	assert.Equal(t, 0, DaysWithoutProgress(&future, now))
}

func TestRankObjectives(t *testing.T) {
	step := &model.Step{ID: "step"}
	views := []ObjectiveView{
		{ID: "fresh", DaysWithoutProgress: 0},
		{ID: "stale", DaysWithoutProgress: 4},
		{ID: "never", DaysWithoutProgress: NeverCheckedInDays},
		{ID: "stale-with-step", DaysWithoutProgress: 4, PendingStep: step},
		{ID: "fresh-2", DaysWithoutProgress: 0},
	}

	ranked := RankObjectives(views)

	want := []string{"never", "stale-with-step", "stale", "fresh", "fresh-2"}
	if diff := cmp.Diff(want, ids(ranked)); diff != "" {
		t.Errorf("ranked order mismatch (-want +got):\n%s", diff)
	}

	// input untouched
	assert.Equal(t, "fresh", views[0].ID)
}

func TestRankObjectivesStableTies(t *testing.T) {
	views := []ObjectiveView{
		{ID: "a", DaysWithoutProgress: 2},
		{ID: "b", DaysWithoutProgress: 2},
		{ID: "c", DaysWithoutProgress: 2},
	}

	if diff := cmp.Diff([]string{"a", "b", "c"}, ids(RankObjectives(views))); diff != "" {
		t.Errorf("tie order mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectAtIndex(t *testing.T) {
	ranked := []ObjectiveView{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	for i := -7; i <= 7; i++ {
		got, ok := SelectAtIndex(ranked, i)
		assert.True(t, ok)

		wrapped, _ := SelectAtIndex(ranked, ((i%3)+3)%3)
		assert.Equal(t, wrapped.ID, got.ID, "index %d", i)
	}

	got, _ := SelectAtIndex(ranked, 4)
	assert.Equal(t, "b", got.ID)

	_, ok := SelectAtIndex(nil, 0)
	assert.False(t, ok)
}
