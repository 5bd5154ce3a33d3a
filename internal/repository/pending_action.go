package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/templui/goalnudge/internal/model"
)

var (
	ErrPendingActionNotFound = errors.New("pending action not found")
)

// supersedeAttempts bounds retries when a concurrent writer inserted a
// pending row between our UPDATE and INSERT.
const supersedeAttempts = 3

type PendingActionRepository interface {
	SupersedeAndInsert(ctx context.Context, action *model.PendingAction) error
	FindActive(ctx context.Context, userID string, now time.Time) (*model.PendingAction, error)
	UpdateStatus(ctx context.Context, actionID, status string, respondedAt time.Time) error
	CountPending(ctx context.Context, userID string) (int, error)
	History(ctx context.Context, userID string, limit int) ([]*model.PendingAction, error)
}

type pendingActionRepository struct {
	db *sqlx.DB
}

func NewPendingActionRepository(db *sqlx.DB) PendingActionRepository {
	return &pendingActionRepository{db: db}
}

// SupersedeAndInsert marks every pending row of the user as skipped and
// inserts action as the new pending row, in one transaction.
// The partial unique index on (user_id) WHERE status = 'pending' rejects a
// concurrent second insert; that case is retried so the latest write wins.
func (r *pendingActionRepository) SupersedeAndInsert(ctx context.Context, action *model.PendingAction) error {
	if action.ID == "" {
		action.ID = uuid.New().String()
	}
	if action.CreatedAt.IsZero() {
		action.CreatedAt = time.Now().UTC()
	}
	action.Status = model.PendingActionStatusPending

	var err error
	for attempt := 1; attempt <= supersedeAttempts; attempt++ {
		err = r.supersedeAndInsert(ctx, action)
		if err == nil || !isUniqueViolation(err) {
			return err
		}
		slog.Warn("pending action insert raced, retrying",
			"user_id", action.UserID,
			"attempt", attempt,
		)
	}

	return fmt.Errorf("failed to supersede pending action after %d attempts: %w", supersedeAttempts, err)
}

func (r *pendingActionRepository) supersedeAndInsert(ctx context.Context, action *model.PendingAction) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	supersede := `UPDATE pending_actions SET status = $1 WHERE user_id = $2 AND status = $3`
	result, err := tx.ExecContext(ctx, supersede,
		model.PendingActionStatusSkipped,
		action.UserID,
		model.PendingActionStatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to supersede pending actions: %w", err)
	}

	if skipped, _ := result.RowsAffected(); skipped > 0 {
		slog.Debug("superseded pending actions", "user_id", action.UserID, "count", skipped)
	}

	insert := `INSERT INTO pending_actions
	           (id, user_id, objective_id, checkin_id, action_text, is_ai_generated, reason, slot, status, expires_at, created_at)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = tx.ExecContext(ctx, insert,
		action.ID,
		action.UserID,
		action.ObjectiveID,
		action.CheckinID,
		action.ActionText,
		action.IsAIGenerated,
		action.Reason,
		action.Slot,
		action.Status,
		action.ExpiresAt.UTC(),
		action.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert pending action: %w", err)
	}

	return tx.Commit()
}

// FindActive returns the user's unexpired pending action.
// More than one pending row is an invariant violation: it is logged and the
// most recently created row wins.
func (r *pendingActionRepository) FindActive(ctx context.Context, userID string, now time.Time) (*model.PendingAction, error) {
	var actions []*model.PendingAction
	query := `SELECT * FROM pending_actions
	          WHERE user_id = $1 AND status = $2 AND expires_at > $3
	          ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &actions, query, userID, model.PendingActionStatusPending, now.UTC())
	if err != nil {
		return nil, err
	}

	if len(actions) == 0 {
		return nil, ErrPendingActionNotFound
	}

	if len(actions) > 1 {
		slog.Error("pending action invariant violated: multiple pending rows",
			"user_id", userID,
			"count", len(actions),
			"chosen_id", actions[0].ID,
		)
	}

	return actions[0], nil
}

// UpdateStatus moves a pending action to status. Only a row that is still
// pending can transition; anything else reports ErrPendingActionNotFound.
func (r *pendingActionRepository) UpdateStatus(ctx context.Context, actionID, status string, respondedAt time.Time) error {
	query := `UPDATE pending_actions
	          SET status = $1, responded_at = $2
	          WHERE id = $3 AND status = $4`

	result, err := r.db.ExecContext(ctx, query, status, respondedAt.UTC(), actionID, model.PendingActionStatusPending)
	if err != nil {
		return err
	}

	return expectRows(result, ErrPendingActionNotFound)
}

func (r *pendingActionRepository) CountPending(ctx context.Context, userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM pending_actions WHERE user_id = $1 AND status = $2`
	err := r.db.QueryRowContext(ctx, query, userID, model.PendingActionStatusPending).Scan(&count)
	return count, err
}

// History lists the user's actions, newest first. Expired and superseded
// rows stay in storage and show up here.
func (r *pendingActionRepository) History(ctx context.Context, userID string, limit int) ([]*model.PendingAction, error) {
	var actions []*model.PendingAction
	query := `SELECT * FROM pending_actions WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`

	err := r.db.SelectContext(ctx, &actions, query, userID, limit)
	if err != nil {
		return nil, err
	}

	return actions, nil
}
