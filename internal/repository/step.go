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
	ErrStepNotFound = errors.New("step not found")
)

type StepRepository interface {
	Create(ctx context.Context, step *model.Step) error
	ByID(ctx context.Context, stepID string) (*model.Step, error)
	Steps(ctx context.Context, objectiveID string) ([]*model.Step, error)
	OldestPending(ctx context.Context, objectiveID string) (*model.Step, error)
	UpdateStatus(ctx context.Context, stepID, status string, completedAt *time.Time) error
}

type stepRepository struct {
	db *sqlx.DB
}

func NewStepRepository(db *sqlx.DB) StepRepository {
	return &stepRepository{db: db}
}

func (r *stepRepository) Create(ctx context.Context, step *model.Step) error {
	query := `INSERT INTO steps (id, objective_id, title, description, effort_label, status, source, completed_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		step.ID,
		step.ObjectiveID,
		step.Title,
		step.Description,
		step.EffortLabel,
		step.Status,
		step.Source,
		step.CompletedAt,
		step.CreatedAt,
	)

	return err
}

func (r *stepRepository) ByID(ctx context.Context, stepID string) (*model.Step, error) {
	step := &model.Step{}
	query := `SELECT * FROM steps WHERE id = $1`

	err := r.db.GetContext(ctx, step, query, stepID)
	if err == sql.ErrNoRows {
		return nil, ErrStepNotFound
	}
	if err != nil {
		return nil, err
	}

	return step, nil
}

func (r *stepRepository) Steps(ctx context.Context, objectiveID string) ([]*model.Step, error) {
	var steps []*model.Step
	query := `SELECT * FROM steps WHERE objective_id = $1 ORDER BY created_at ASC`

	err := r.db.SelectContext(ctx, &steps, query, objectiveID)
	if err != nil {
		return nil, err
	}

	return steps, nil
}

// OldestPending returns the next step of an objective (FIFO by creation),
// or ErrStepNotFound when nothing is pending.
func (r *stepRepository) OldestPending(ctx context.Context, objectiveID string) (*model.Step, error) {
	step := &model.Step{}
	query := `SELECT * FROM steps
	          WHERE objective_id = $1 AND status = $2
	          ORDER BY created_at ASC, id ASC
	          LIMIT 1`

	err := r.db.GetContext(ctx, step, query, objectiveID, model.StepStatusPending)
	if err == sql.ErrNoRows {
		return nil, ErrStepNotFound
	}
	if err != nil {
		return nil, err
	}

	return step, nil
}

func (r *stepRepository) UpdateStatus(ctx context.Context, stepID, status string, completedAt *time.Time) error {
	query := `UPDATE steps SET status = $1, completed_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, status, completedAt, stepID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrStepNotFound)
}
