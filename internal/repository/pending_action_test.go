package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/goalnudge/internal/model"
	"github.com/templui/goalnudge/internal/repository"
	"github.com/templui/goalnudge/internal/testutil"
)

func newAction(userID, objectiveID, text string, createdAt time.Time) *model.PendingAction {
	return &model.PendingAction{
		UserID:        userID,
		ObjectiveID:   objectiveID,
		ActionText:    text,
		IsAIGenerated: true,
		Reason:        "no_pending_steps",
		Slot:          string(model.SlotMorning),
		CreatedAt:     createdAt,
		ExpiresAt:     createdAt.Add(24 * time.Hour),
	}
}

func TestPendingActionRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

	t.Run("supersede keeps one pending row", func(t *testing.T) {
		database := testutil.NewDB(t)
		repo := repository.NewPendingActionRepository(database)
		user := testutil.CreateUser(t, database, 0)
		objective := testutil.CreateObjective(t, database, user.ID, "Learn Go", model.ObjectiveStatusBuilding, 0, nil, now)

		first := newAction(user.ID, objective.ID, "first", now)
		require.NoError(t, repo.SupersedeAndInsert(ctx, first))
		assert.NotEmpty(t, first.ID)
		assert.Equal(t, model.PendingActionStatusPending, first.Status)

		second := newAction(user.ID, objective.ID, "second", now.Add(time.Minute))
		require.NoError(t, repo.SupersedeAndInsert(ctx, second))

		count, err := repo.CountPending(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		active, err := repo.FindActive(ctx, user.ID, now.Add(2*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, second.ID, active.ID)
		assert.Equal(t, "second", active.ActionText)

		history, err := repo.History(ctx, user.ID, 10)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, model.PendingActionStatusSkipped, history[1].Status)
	})

	t.Run("find active ignores expired rows", func(t *testing.T) {
		database := testutil.NewDB(t)
		repo := repository.NewPendingActionRepository(database)
		user := testutil.CreateUser(t, database, 0)
		objective := testutil.CreateObjective(t, database, user.ID, "Learn Go", model.ObjectiveStatusBuilding, 0, nil, now)

		require.NoError(t, repo.SupersedeAndInsert(ctx, newAction(user.ID, objective.ID, "a", now)))

		_, err := repo.FindActive(ctx, user.ID, now.Add(24*time.Hour))
		assert.ErrorIs(t, err, repository.ErrPendingActionNotFound)

		_, err = repo.FindActive(ctx, "someone-else", now)
		assert.ErrorIs(t, err, repository.ErrPendingActionNotFound)
	})

	t.Run("update status is a one-shot claim", func(t *testing.T) {
		database := testutil.NewDB(t)
		repo := repository.NewPendingActionRepository(database)
		user := testutil.CreateUser(t, database, 0)
		objective := testutil.CreateObjective(t, database, user.ID, "Learn Go", model.ObjectiveStatusBuilding, 0, nil, now)

		action := newAction(user.ID, objective.ID, "a", now)
		require.NoError(t, repo.SupersedeAndInsert(ctx, action))

		err := repo.UpdateStatus(ctx, action.ID, model.PendingActionStatusDone, now)
		require.NoError(t, err)

		err = repo.UpdateStatus(ctx, action.ID, model.PendingActionStatusSkipped, now)
		assert.ErrorIs(t, err, repository.ErrPendingActionNotFound)

		history, err := repo.History(ctx, user.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, model.PendingActionStatusDone, history[0].Status)
		require.NotNil(t, history[0].RespondedAt)
	})

	t.Run("unique index rejects a second pending row", func(t *testing.T) {
		database := testutil.NewDB(t)
		user := testutil.CreateUser(t, database, 0)
		objective := testutil.CreateObjective(t, database, user.ID, "Learn Go", model.ObjectiveStatusBuilding, 0, nil, now)

		insert := `INSERT INTO pending_actions (id, user_id, objective_id, action_text, status, expires_at, created_at)
		           VALUES ($1, $2, $3, 'x', 'pending', $4, $5)`
		_, err := database.ExecContext(ctx, insert, "a1", user.ID, objective.ID, now.Add(time.Hour), now)
		require.NoError(t, err)

		_, err = database.ExecContext(ctx, insert, "a2", user.ID, objective.ID, now.Add(time.Hour), now)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "UNIQUE constraint failed")
	})
}

func TestSupersedeAndInsertConcurrent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

	database := testutil.NewDB(t)
	repo := repository.NewPendingActionRepository(database)

	const users = 3
	const writersPerUser = 10

	var userIDs []string
	var objectiveIDs []string
	for range users {
		user := testutil.CreateUser(t, database, 0)
		objective := testutil.CreateObjective(t, database, user.ID, "Learn Go", model.ObjectiveStatusBuilding, 0, nil, now)
		userIDs = append(userIDs, user.ID)
		objectiveIDs = append(objectiveIDs, objective.ID)
	}

	var wg sync.WaitGroup
	errs := make(chan error, users*writersPerUser)
	for u := range users {
		for w := range writersPerUser {
			wg.Add(1)
			go func() {
				defer wg.Done()
				action := newAction(userIDs[u], objectiveIDs[u], fmt.Sprintf("action %d", w), now.Add(time.Duration(w)*time.Second))
				errs <- repo.SupersedeAndInsert(ctx, action)
			}()
		}
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	for _, userID := range userIDs {
		count, err := repo.CountPending(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "user %s", userID)

		history, err := repo.History(ctx, userID, 100)
		require.NoError(t, err)
		assert.Len(t, history, writersPerUser)
	}
}
