package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/templui/goalnudge/internal/model"
	"github.com/templui/goalnudge/internal/repository"
	"golang.org/x/sync/errgroup"
)

// EngineOptions tunes the nudge engine and the reply state machine.
type EngineOptions struct {
	PendingActionTTL     time.Duration
	ActiveObjectiveLimit int
	TriggerConcurrency   int
	Now                  func() time.Time
}

func (o EngineOptions) withDefaults() EngineOptions {
	if o.PendingActionTTL <= 0 {
		o.PendingActionTTL = 24 * time.Hour
	}
	if o.ActiveObjectiveLimit <= 0 {
		o.ActiveObjectiveLimit = 10
	}
	if o.TriggerConcurrency <= 0 {
		o.TriggerConcurrency = 8
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// NudgeService builds the per-slot nudge: rank objectives, pick one by slot
// index, decide the action and record it as the user's pending action.
type NudgeService struct {
	objectiveRepository     repository.ObjectiveRepository
	stepRepository          repository.StepRepository
	pendingActionRepository repository.PendingActionRepository
	userService             *UserService
	selector                *ActionSelector
	delivery                Deliverer
	opts                    EngineOptions
}

func NewNudgeService(
	objectiveRepository repository.ObjectiveRepository,
	stepRepository repository.StepRepository,
	pendingActionRepository repository.PendingActionRepository,
	userService *UserService,
	selector *ActionSelector,
	delivery Deliverer,
	opts EngineOptions,
) *NudgeService {
	return &NudgeService{
		objectiveRepository:     objectiveRepository,
		stepRepository:          stepRepository,
		pendingActionRepository: pendingActionRepository,
		userService:             userService,
		selector:                selector,
		delivery:                delivery,
		opts:                    opts.withDefaults(),
	}
}

// Build produces the nudge for one user and slot. Store failures degrade to
// the "no active objectives" message instead of an error.
func (s *NudgeService) Build(ctx context.Context, userID string, slotIndex int, slot model.Slot) model.BuildResult {
	now := s.opts.Now()

	objectives, err := s.objectiveRepository.ActiveObjectives(ctx, userID, s.opts.ActiveObjectiveLimit)
	if err != nil {
		slog.Error("failed to load active objectives", "error", err, "user_id", userID)
		objectives = nil
	}

	if len(objectives) == 0 {
		return model.BuildResult{
			UserID:      userID,
			Message:     noActiveObjectivesMessage(),
			ActionSaved: false,
		}
	}

	views := make([]ObjectiveView, 0, len(objectives))
	for _, objective := range objectives {
		step, err := s.stepRepository.OldestPending(ctx, objective.ID)
		if err != nil {
			if !errors.Is(err, repository.ErrStepNotFound) {
				slog.Error("failed to load pending step", "error", err, "user_id", userID, "objective_id", objective.ID)
			}
			step = nil
		}
		views = append(views, NewObjectiveView(objective, step, now))
	}

	chosen, _ := SelectAtIndex(RankObjectives(views), slotIndex)

	loc := s.userService.Location(ctx, userID)
	decision := s.selector.Decide(ctx, chosen, slot, now, loc)

	action := &model.PendingAction{
		UserID:        userID,
		ObjectiveID:   chosen.ID,
		CheckinID:     decision.CheckinID,
		ActionText:    decision.ActionText,
		IsAIGenerated: decision.IsAIGenerated,
		Reason:        string(decision.Reason),
		Slot:          slot.String(),
		CreatedAt:     now.UTC(),
		ExpiresAt:     now.UTC().Add(s.opts.PendingActionTTL),
	}

	saved := true
	err = s.pendingActionRepository.SupersedeAndInsert(ctx, action)
	if err != nil {
		slog.Error("failed to save pending action", "error", err, "user_id", userID, "objective_id", chosen.ID)
		saved = false
	}

	hint := streakHint(chosen.StreakDays)
	objectiveID := chosen.ID
	objectiveTitle := chosen.Title
	actionText := decision.ActionText

	slog.Info("nudge built",
		"user_id", userID,
		"slot", slot,
		"objective_id", objectiveID,
		"reason", decision.Reason,
		"use_existing_step", decision.UseExistingStep,
		"action_saved", saved,
	)

	return model.BuildResult{
		UserID:         userID,
		Message:        nudgeMessage(slot, objectiveTitle, actionText, hint, saved),
		ObjectiveID:    &objectiveID,
		ActionSaved:    saved,
		ObjectiveTitle: &objectiveTitle,
		ActionText:     &actionText,
		StreakHint:     hint,
		Reason:         string(decision.Reason),
	}
}

// Trigger builds and delivers the slot nudge for every user in userIDs, or
// for all users when userIDs is empty. Users are processed in parallel;
// a failure for one user never stops the others.
func (s *NudgeService) Trigger(ctx context.Context, slot model.Slot, slotIndex int, userIDs []string) ([]model.BuildResult, error) {
	if len(userIDs) == 0 {
		ids, err := s.userService.IDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		userIDs = ids
	}

	results := make([]model.BuildResult, len(userIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.TriggerConcurrency)

	for i, userID := range userIDs {
		g.Go(func() error {
			result := s.Build(gctx, userID, slotIndex, slot)
			results[i] = result

			if s.delivery == nil {
				return nil
			}
			err := s.delivery.Deliver(gctx, userID, result.Message)
			if err != nil {
				slog.Error("failed to deliver nudge", "error", err, "user_id", userID, "slot", slot)
			}
			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return nil, err
	}

	slog.Info("slot triggered", "slot", slot, "slot_index", slotIndex, "users", len(userIDs))
	return results, nil
}

// History lists the user's recent actions, newest first.
func (s *NudgeService) History(ctx context.Context, userID string, limit int) ([]*model.PendingAction, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.pendingActionRepository.History(ctx, userID, limit)
}
