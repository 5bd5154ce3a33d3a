package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/goalnudge/internal/model"
)

var (
	ErrObjectiveNotFound = errors.New("objective not found")
)

type ObjectiveRepository interface {
	Create(ctx context.Context, objective *model.Objective) error
	ByID(ctx context.Context, objectiveID string) (*model.Objective, error)
	Objectives(ctx context.Context, userID string) ([]*model.Objective, error)
	ActiveObjectives(ctx context.Context, userID string, limit int) ([]*model.Objective, error)
	UpdateProgress(ctx context.Context, objectiveID string, streakDays int, lastCheckinAt time.Time) error
	UpdateStatus(ctx context.Context, userID, objectiveID, status string) error
	SoftDelete(ctx context.Context, userID, objectiveID string) error
}

type objectiveRepository struct {
	db *sqlx.DB
}

func NewObjectiveRepository(db *sqlx.DB) ObjectiveRepository {
	return &objectiveRepository{db: db}
}

func (r *objectiveRepository) Create(ctx context.Context, objective *model.Objective) error {
	query := `INSERT INTO objectives (id, user_id, title, description, status, streak_days, last_checkin_at, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		objective.ID,
		objective.UserID,
		objective.Title,
		objective.Description,
		objective.Status,
		objective.StreakDays,
		objective.LastCheckinAt,
		objective.CreatedAt,
		objective.UpdatedAt,
	)

	return err
}

func (r *objectiveRepository) ByID(ctx context.Context, objectiveID string) (*model.Objective, error) {
	objective := &model.Objective{}
	query := `SELECT * FROM objectives WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, objective, query, objectiveID)
	if err == sql.ErrNoRows {
		return nil, ErrObjectiveNotFound
	}
	if err != nil {
		return nil, err
	}

	return objective, nil
}

func (r *objectiveRepository) Objectives(ctx context.Context, userID string) ([]*model.Objective, error) {
	var objectives []*model.Objective
	query := `SELECT * FROM objectives WHERE user_id = $1 AND deleted_at IS NULL ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &objectives, query, userID)
	if err != nil {
		return nil, err
	}

	return objectives, nil
}

// ActiveObjectives returns the user's most recently created objectives whose
// status is in the active set.
func (r *objectiveRepository) ActiveObjectives(ctx context.Context, userID string, limit int) ([]*model.Objective, error) {
	var objectives []*model.Objective

	query, args, err := sqlx.In(`SELECT * FROM objectives
	          WHERE user_id = ? AND deleted_at IS NULL AND status IN (?)
	          ORDER BY created_at DESC
	          LIMIT ?`, userID, model.ActiveObjectiveStatuses, limit)
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &objectives, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	return objectives, nil
}

func (r *objectiveRepository) UpdateProgress(ctx context.Context, objectiveID string, streakDays int, lastCheckinAt time.Time) error {
	query := `UPDATE objectives
	          SET streak_days = $1, last_checkin_at = $2, updated_at = $3
	          WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, streakDays, lastCheckinAt, lastCheckinAt, objectiveID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrObjectiveNotFound)
}

func (r *objectiveRepository) UpdateStatus(ctx context.Context, userID, objectiveID, status string) error {
	query := `UPDATE objectives
	          SET status = $1, updated_at = $2
	          WHERE id = $3 AND user_id = $4 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), objectiveID, userID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrObjectiveNotFound)
}

func (r *objectiveRepository) SoftDelete(ctx context.Context, userID, objectiveID string) error {
	now := time.Now().UTC()
	query := `UPDATE objectives
	          SET deleted_at = $1, updated_at = $2
	          WHERE id = $3 AND user_id = $4 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, now, now, objectiveID, userID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrObjectiveNotFound)
}

// expectRows maps zero affected rows to notFound.
func expectRows(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return notFound
	}

	return nil
}
