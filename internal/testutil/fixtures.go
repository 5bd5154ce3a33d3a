package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/templui/goalnudge/internal/model"
	"github.com/templui/goalnudge/internal/repository"
)

// CreateUser inserts a user with the given UTC offset.
func CreateUser(t testing.TB, database *sqlx.DB, offsetMinutes int) *model.User {
	t.Helper()

	user := &model.User{
		ID:               uuid.New().String(),
		Email:            uuid.New().String() + "@example.com",
		Name:             "Test User",
		UTCOffsetMinutes: offsetMinutes,
		CreatedAt:        time.Now().UTC(),
	}
	err := repository.NewUserRepository(database).Create(context.Background(), user)
	require.NoError(t, err)

	return user
}

// CreateObjective inserts an objective. lastCheckinAt may be nil.
func CreateObjective(t testing.TB, database *sqlx.DB, userID, title, status string, streakDays int, lastCheckinAt *time.Time, createdAt time.Time) *model.Objective {
	t.Helper()

	objective := &model.Objective{
		ID:            uuid.New().String(),
		UserID:        userID,
		Title:         title,
		Status:        status,
		StreakDays:    streakDays,
		LastCheckinAt: lastCheckinAt,
		CreatedAt:     createdAt.UTC(),
		UpdatedAt:     createdAt.UTC(),
	}
	if lastCheckinAt != nil {
		utc := lastCheckinAt.UTC()
		objective.LastCheckinAt = &utc
	}
	err := repository.NewObjectiveRepository(database).Create(context.Background(), objective)
	require.NoError(t, err)

	return objective
}

// CreateStep inserts a pending user step.
func CreateStep(t testing.TB, database *sqlx.DB, objectiveID, title, effort string, createdAt time.Time) *model.Step {
	t.Helper()

	step := &model.Step{
		ID:          uuid.New().String(),
		ObjectiveID: objectiveID,
		Title:       title,
		EffortLabel: effort,
		Status:      model.StepStatusPending,
		Source:      model.StepSourceUser,
		CreatedAt:   createdAt.UTC(),
	}
	err := repository.NewStepRepository(database).Create(context.Background(), step)
	require.NoError(t, err)

	return step
}
