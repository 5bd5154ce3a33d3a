package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/goalnudge/internal/model"
	"github.com/templui/goalnudge/internal/testutil"
)

// 10:00 in Bogota, inside business hours.
var replyNow = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

func TestReplyDoneOnExistingStep(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, replyNow)

	user := testutil.CreateUser(t, e.db, -300)
	yesterday := replyNow.Add(-24 * time.Hour)
	objective := testutil.CreateObjective(t, e.db, user.ID, "Write a novel", model.ObjectiveStatusBuilding, 2, &yesterday, replyNow)
	step := testutil.CreateStep(t, e.db, objective.ID, "Outline chapter one", model.EffortSmall, replyNow)

	built := e.nudge.Build(ctx, user.ID, 0, model.SlotMorning)
	require.True(t, built.ActionSaved)
	require.Equal(t, string(ReasonExistingStepAppropriate), built.Reason)

	result := e.reply.HandleReply(ctx, user.ID, "1")

	assert.True(t, result.Success)
	require.NotNil(t, result.NewStreak)
	assert.Equal(t, 3, *result.NewStreak)
	assert.Contains(t, result.ReplyMessage, "3 days")

	got, err := e.steps.ByID(ctx, step.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StepStatusDone, got.Status)
	require.NotNil(t, got.CompletedAt)

	updated, err := e.objectives.ByID(ctx, objective.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.StreakDays)
	require.NotNil(t, updated.LastCheckinAt)
	assert.WithinDuration(t, replyNow, *updated.LastCheckinAt, time.Second)

	history, err := e.nudge.History(ctx, user.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, model.PendingActionStatusDone, history[0].Status)
	assert.NotNil(t, history[0].RespondedAt)

	count, err := e.actions.CountPending(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestReplyDoneResetsStaleStreak(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, replyNow)

	user := testutil.CreateUser(t, e.db, -300)
	threeDaysAgo := replyNow.Add(-72 * time.Hour)
	objective := testutil.CreateObjective(t, e.db, user.ID, "Write a novel", model.ObjectiveStatusBuilding, 8, &threeDaysAgo, replyNow)
	testutil.CreateStep(t, e.db, objective.ID, "Outline chapter one", model.EffortTiny, replyNow)

	e.nudge.Build(ctx, user.ID, 0, model.SlotMorning)
	result := e.reply.HandleReply(ctx, user.ID, "1")

	require.NotNil(t, result.NewStreak)
	assert.Equal(t, 1, *result.NewStreak)
}

func TestReplyDoneRecordsSynthesizedAction(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, replyNow, "Write the first sentence")

	user := testutil.CreateUser(t, e.db, -300)
	objective := testutil.CreateObjective(t, e.db, user.ID, "Write a novel", model.ObjectiveStatusBuilding, 0, nil, replyNow)

	built := e.nudge.Build(ctx, user.ID, 0, model.SlotMorning)
	require.Equal(t, string(ReasonNoPendingSteps), built.Reason)

	result := e.reply.HandleReply(ctx, user.ID, " 1 ")
	require.True(t, result.Success)
	require.NotNil(t, result.NewStreak)
	assert.Equal(t, 1, *result.NewStreak)

	steps, err := e.steps.Steps(ctx, objective.ID)
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, "Write the first sentence", steps[0].Title)
	assert.Equal(t, model.StepStatusDone, steps[0].Status)
	assert.Equal(t, model.EffortTiny, steps[0].EffortLabel)
	assert.Equal(t, model.StepSourceAINudge, steps[0].Source)
	assert.NotNil(t, steps[0].CompletedAt)
}

func TestReplyLaterMaterializesOnce(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, replyNow, "Write the first sentence")

	user := testutil.CreateUser(t, e.db, -300)
	objective := testutil.CreateObjective(t, e.db, user.ID, "Write a novel", model.ObjectiveStatusBuilding, 5, nil, replyNow)

	e.nudge.Build(ctx, user.ID, 0, model.SlotMorning)

	first := e.reply.HandleReply(ctx, user.ID, "2")
	assert.True(t, first.Success)
	assert.Equal(t, laterMessage(), first.ReplyMessage)
	assert.Nil(t, first.NewStreak)

	second := e.reply.HandleReply(ctx, user.ID, "2")
	assert.False(t, second.Success)
	assert.Equal(t, notUnderstoodMessage(), second.ReplyMessage)

	steps, err := e.steps.Steps(ctx, objective.ID)
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, model.StepStatusPending, steps[0].Status)
	assert.Equal(t, model.StepSourceAINudge, steps[0].Source)
	assert.Nil(t, steps[0].CompletedAt)

	// streak untouched
	updated, err := e.objectives.ByID(ctx, objective.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.StreakDays)
	assert.Nil(t, updated.LastCheckinAt)

	// The deferred action comes back as the objective's next step.
	e.now = e.now.Add(time.Hour)
	next := e.nudge.Build(ctx, user.ID, 0, model.SlotMorning)
	assert.Equal(t, "Write the first sentence", *next.ActionText)
	assert.Equal(t, string(ReasonQuickStepAlwaysGood), next.Reason)
}

func TestReplyLaterOnExistingStep(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, replyNow)

	user := testutil.CreateUser(t, e.db, -300)
	objective := testutil.CreateObjective(t, e.db, user.ID, "Write a novel", model.ObjectiveStatusBuilding, 0, nil, replyNow)
	testutil.CreateStep(t, e.db, objective.ID, "Outline chapter one", model.EffortSmall, replyNow)

	e.nudge.Build(ctx, user.ID, 0, model.SlotMorning)
	result := e.reply.HandleReply(ctx, user.ID, "2")
	assert.True(t, result.Success)

	steps, err := e.steps.Steps(ctx, objective.ID)
	require.NoError(t, err)
	assert.Len(t, steps, 1)
}

func TestReplyAlternative(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, replyNow, "Write the first sentence", "Open a blank document")

	user := testutil.CreateUser(t, e.db, -300)
	objective := testutil.CreateObjective(t, e.db, user.ID, "Write a novel", model.ObjectiveStatusBuilding, 0, nil, replyNow)

	e.nudge.Build(ctx, user.ID, 0, model.SlotMorning)
	original, err := e.actions.FindActive(ctx, user.ID, replyNow)
	require.NoError(t, err)

	e.now = e.now.Add(time.Minute)
	result := e.reply.HandleReply(ctx, user.ID, "3")

	assert.True(t, result.Success)
	assert.Equal(t, "Open a blank document", result.AlternativeAction)
	assert.Contains(t, result.ReplyMessage, "Open a blank document")
	assert.Contains(t, result.ReplyMessage, "2 = tomorrow")

	history, err := e.nudge.History(ctx, user.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)

	fresh, old := history[0], history[1]
	assert.Equal(t, original.ID, old.ID)
	assert.Equal(t, model.PendingActionStatusAlternativeRequested, old.Status)
	assert.Equal(t, model.PendingActionStatusPending, fresh.Status)
	assert.Equal(t, "Open a blank document", fresh.ActionText)
	assert.NotEqual(t, old.ActionText, fresh.ActionText)
	assert.True(t, fresh.IsAIGenerated)
	assert.Nil(t, fresh.CheckinID)
	assert.Equal(t, string(ReasonAlternativeRequested), fresh.Reason)
	assert.Equal(t, old.Slot, fresh.Slot)

	// Deferring the alternative keeps it as an ai_alternative step.
	later := e.reply.HandleReply(ctx, user.ID, "2")
	assert.True(t, later.Success)

	steps, err := e.steps.Steps(ctx, objective.ID)
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, model.StepSourceAIAlternative, steps[0].Source)
}

func TestReplyAlternativeFallsBackWhenUnchanged(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, replyNow, "Write the first sentence")

	user := testutil.CreateUser(t, e.db, -300)
	testutil.CreateObjective(t, e.db, user.ID, "Write a novel", model.ObjectiveStatusBuilding, 0, nil, replyNow)

	e.nudge.Build(ctx, user.ID, 0, model.SlotMorning)
	result := e.reply.HandleReply(ctx, user.ID, "3")

	assert.Equal(t, FallbackEasierAction, result.AlternativeAction)
}

func TestReplyAlternativeChainsWithoutGenerator(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, replyNow)
	e.gen.err = errors.New("model unavailable")

	user := testutil.CreateUser(t, e.db, -300)
	testutil.CreateObjective(t, e.db, user.ID, "Write a novel", model.ObjectiveStatusBuilding, 0, nil, replyNow)

	built := e.nudge.Build(ctx, user.ID, 0, model.SlotMorning)
	require.True(t, built.ActionSaved)

	previous := FallbackMicroAction
	for range 3 {
		e.now = e.now.Add(time.Minute)
		result := e.reply.HandleReply(ctx, user.ID, "3")
		require.True(t, result.Success)
		assert.NotEqual(t, previous, result.AlternativeAction)

		active, err := e.actions.FindActive(ctx, user.ID, e.now)
		require.NoError(t, err)
		assert.Equal(t, result.AlternativeAction, active.ActionText)

		count, err := e.actions.CountPending(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		previous = result.AlternativeAction
	}
}

func TestReplyDoneWhileAlternativeIsGenerating(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, replyNow, "Write the first sentence", "Open a blank document")

	user := testutil.CreateUser(t, e.db, -300)
	objective := testutil.CreateObjective(t, e.db, user.ID, "Write a novel", model.ObjectiveStatusBuilding, 0, nil, replyNow)

	e.nudge.Build(ctx, user.ID, 0, model.SlotMorning)

	e.gen.hold = make(chan struct{})
	e.gen.entered = make(chan struct{}, 1)

	alternative := make(chan model.ReplyResult, 1)
	go func() {
		alternative <- e.reply.HandleReply(ctx, user.ID, "3")
	}()
	<-e.gen.entered

	done := e.reply.HandleReply(ctx, user.ID, "1")
	assert.True(t, done.Success)

	close(e.gen.hold)
	late := <-alternative
	assert.False(t, late.Success)

	count, err := e.actions.CountPending(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	updated, err := e.objectives.ByID(ctx, objective.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.StreakDays)
}

func TestConcurrentBuildAndRepliesKeepOnePending(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, replyNow, "Write the first sentence", "Open a blank document", "Name the main character")

	user := testutil.CreateUser(t, e.db, -300)
	objective := testutil.CreateObjective(t, e.db, user.ID, "Write a novel", model.ObjectiveStatusBuilding, 0, nil, replyNow)
	testutil.CreateObjective(t, e.db, user.ID, "Run a 10k", model.ObjectiveStatusTesting, 0, nil, replyNow)
	testutil.CreateStep(t, e.db, objective.ID, "Outline chapter one", model.EffortSmall, replyNow)

	e.nudge.Build(ctx, user.ID, 0, model.SlotMorning)

	var wg sync.WaitGroup
	for i := range 12 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch i % 3 {
			case 0:
				e.nudge.Build(ctx, user.ID, i%2, model.SlotMidday)
			case 1:
				e.reply.HandleReply(ctx, user.ID, "2")
			default:
				e.reply.HandleReply(ctx, user.ID, "3")
			}
		}()
	}
	wg.Wait()

	count, err := e.actions.CountPending(ctx, user.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, count, 1)
}

func TestReplyRejected(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, replyNow)

	user := testutil.CreateUser(t, e.db, -300)
	objective := testutil.CreateObjective(t, e.db, user.ID, "Write a novel", model.ObjectiveStatusBuilding, 0, nil, replyNow)
	testutil.CreateStep(t, e.db, objective.ID, "Outline chapter one", model.EffortSmall, replyNow)

	t.Run("nothing pending", func(t *testing.T) {
		result := e.reply.HandleReply(ctx, user.ID, "1")
		assert.False(t, result.Success)
		assert.Equal(t, notUnderstoodMessage(), result.ReplyMessage)
	})

	e.nudge.Build(ctx, user.ID, 0, model.SlotMorning)

	t.Run("invalid code leaves state alone", func(t *testing.T) {
		for _, input := range []string{"4", "yes", "", "12"} {
			result := e.reply.HandleReply(ctx, user.ID, input)
			assert.False(t, result.Success)
		}
		count, err := e.actions.CountPending(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("expired", func(t *testing.T) {
		e.now = replyNow.Add(25 * time.Hour)
		defer func() { e.now = replyNow }()

		result := e.reply.HandleReply(ctx, user.ID, "1")
		assert.False(t, result.Success)

		// never expired in storage
		count, err := e.actions.CountPending(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestConcurrentDoneRepliesApplyOnce(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, replyNow)

	user := testutil.CreateUser(t, e.db, -300)
	yesterday := replyNow.Add(-24 * time.Hour)
	objective := testutil.CreateObjective(t, e.db, user.ID, "Write a novel", model.ObjectiveStatusBuilding, 1, &yesterday, replyNow)
	testutil.CreateStep(t, e.db, objective.ID, "Outline chapter one", model.EffortSmall, replyNow)

	e.nudge.Build(ctx, user.ID, 0, model.SlotMorning)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := e.reply.HandleReply(ctx, user.ID, "1")
			if result.Success {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)

	updated, err := e.objectives.ByID(ctx, objective.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.StreakDays)
}
