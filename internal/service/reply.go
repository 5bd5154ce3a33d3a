package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/templui/goalnudge/internal/model"
	"github.com/templui/goalnudge/internal/repository"
	"github.com/templui/goalnudge/internal/validation"
)

// ReplyService drives the pending action state machine from user replies.
type ReplyService struct {
	objectiveRepository     repository.ObjectiveRepository
	stepRepository          repository.StepRepository
	pendingActionRepository repository.PendingActionRepository
	userService             *UserService
	synthesizer             *Synthesizer
	opts                    EngineOptions
}

func NewReplyService(
	objectiveRepository repository.ObjectiveRepository,
	stepRepository repository.StepRepository,
	pendingActionRepository repository.PendingActionRepository,
	userService *UserService,
	synthesizer *Synthesizer,
	opts EngineOptions,
) *ReplyService {
	return &ReplyService{
		objectiveRepository:     objectiveRepository,
		stepRepository:          stepRepository,
		pendingActionRepository: pendingActionRepository,
		userService:             userService,
		synthesizer:             synthesizer,
		opts:                    opts.withDefaults(),
	}
}

// HandleReply applies a "1", "2" or "3" reply to the user's active pending
// action. Anything else, or a reply with nothing pending, leaves state
// untouched and re-prompts.
func (s *ReplyService) HandleReply(ctx context.Context, userID, input string) model.ReplyResult {
	code, err := validation.ParseReplyCode(input)
	if err != nil {
		return notUnderstood()
	}

	now := s.opts.Now()

	action, err := s.pendingActionRepository.FindActive(ctx, userID, now)
	if err != nil {
		if !errors.Is(err, repository.ErrPendingActionNotFound) {
			slog.Error("failed to find pending action", "error", err, "user_id", userID)
		}
		return notUnderstood()
	}

	switch code {
	case validation.ReplyDone:
		return s.done(ctx, action, now)
	case validation.ReplyLater:
		return s.later(ctx, action, now)
	case validation.ReplyAlternative:
		return s.alternative(ctx, action, now)
	default:
		return notUnderstood()
	}
}

// claim transitions the action out of pending. Losing the claim to a
// concurrent reply is reported as false.
func (s *ReplyService) claim(ctx context.Context, action *model.PendingAction, status string, now time.Time) bool {
	err := s.pendingActionRepository.UpdateStatus(ctx, action.ID, status, now)
	if err != nil {
		if !errors.Is(err, repository.ErrPendingActionNotFound) {
			slog.Error("failed to update pending action", "error", err, "user_id", action.UserID, "pending_action_id", action.ID)
		}
		return false
	}
	return true
}

func (s *ReplyService) done(ctx context.Context, action *model.PendingAction, now time.Time) model.ReplyResult {
	if !s.claim(ctx, action, model.PendingActionStatusDone, now) {
		return notUnderstood()
	}

	completedAt := now.UTC()
	switch {
	case action.HasStep():
		err := s.stepRepository.UpdateStatus(ctx, *action.CheckinID, model.StepStatusDone, &completedAt)
		if err != nil {
			slog.Error("failed to complete step", "error", err, "user_id", action.UserID, "step_id", *action.CheckinID)
		}
	case action.IsAIGenerated:
		step := s.materialize(action, model.StepStatusDone, model.StepSourceAINudge, now)
		step.CompletedAt = &completedAt
		err := s.stepRepository.Create(ctx, step)
		if err != nil {
			slog.Error("failed to record completed step", "error", err, "user_id", action.UserID, "objective_id", action.ObjectiveID)
		}
	}

	objective, err := s.objectiveRepository.ByID(ctx, action.ObjectiveID)
	if err != nil {
		slog.Error("failed to load objective", "error", err, "user_id", action.UserID, "objective_id", action.ObjectiveID)
		return model.ReplyResult{Success: true, ReplyMessage: doneMessage(nil)}
	}

	loc := s.userService.Location(ctx, action.UserID)
	newStreak := NextStreak(objective.StreakDays, objective.LastCheckinAt, now, loc)

	err = s.objectiveRepository.UpdateProgress(ctx, objective.ID, newStreak, now.UTC())
	if err != nil {
		slog.Error("failed to update objective progress", "error", err, "user_id", action.UserID, "objective_id", objective.ID)
		return model.ReplyResult{Success: true, ReplyMessage: doneMessage(nil)}
	}

	slog.Info("pending action done", "user_id", action.UserID, "objective_id", objective.ID, "streak", newStreak)

	return model.ReplyResult{
		Success:      true,
		ReplyMessage: doneMessage(&newStreak),
		NewStreak:    &newStreak,
	}
}

func (s *ReplyService) later(ctx context.Context, action *model.PendingAction, now time.Time) model.ReplyResult {
	if !s.claim(ctx, action, model.PendingActionStatusSkipped, now) {
		return notUnderstood()
	}

	if action.IsAIGenerated && !action.HasStep() {
		source := model.StepSourceAINudge
		if action.Reason == string(ReasonAlternativeRequested) {
			source = model.StepSourceAIAlternative
		}
		err := s.stepRepository.Create(ctx, s.materialize(action, model.StepStatusPending, source, now))
		if err != nil {
			slog.Error("failed to save deferred step", "error", err, "user_id", action.UserID, "objective_id", action.ObjectiveID)
		}
	}

	slog.Info("pending action deferred", "user_id", action.UserID, "objective_id", action.ObjectiveID)

	return model.ReplyResult{Success: true, ReplyMessage: laterMessage()}
}

func (s *ReplyService) alternative(ctx context.Context, action *model.PendingAction, now time.Time) model.ReplyResult {
	objective, err := s.objectiveRepository.ByID(ctx, action.ObjectiveID)
	if err != nil {
		slog.Error("failed to load objective", "error", err, "user_id", action.UserID, "objective_id", action.ObjectiveID)
		return notUnderstood()
	}

	// The row stays pending while the generator runs so a concurrent "1"
	// still finds it. The claim below decides which reply wins.
	easier := s.synthesizer.Easier(ctx, objective.Title, action.ActionText)

	if !s.claim(ctx, action, model.PendingActionStatusAlternativeRequested, now) {
		return notUnderstood()
	}

	next := &model.PendingAction{
		UserID:        action.UserID,
		ObjectiveID:   action.ObjectiveID,
		ActionText:    easier,
		IsAIGenerated: true,
		Reason:        string(ReasonAlternativeRequested),
		Slot:          action.Slot,
		CreatedAt:     now.UTC(),
		ExpiresAt:     now.UTC().Add(s.opts.PendingActionTTL),
	}

	saved := true
	err = s.pendingActionRepository.SupersedeAndInsert(ctx, next)
	if err != nil {
		slog.Error("failed to save alternative action", "error", err, "user_id", action.UserID, "objective_id", action.ObjectiveID)
		saved = false
	}

	slog.Info("alternative requested", "user_id", action.UserID, "objective_id", action.ObjectiveID, "action_saved", saved)

	return model.ReplyResult{
		Success:           true,
		ReplyMessage:      alternativeMessage(easier, saved),
		AlternativeAction: easier,
	}
}

func (s *ReplyService) materialize(action *model.PendingAction, status, source string, now time.Time) *model.Step {
	return &model.Step{
		ID:          uuid.New().String(),
		ObjectiveID: action.ObjectiveID,
		Title:       action.ActionText,
		EffortLabel: model.EffortTiny,
		Status:      status,
		Source:      source,
		CreatedAt:   now.UTC(),
	}
}

func notUnderstood() model.ReplyResult {
	return model.ReplyResult{Success: false, ReplyMessage: notUnderstoodMessage()}
}
