package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/goalnudge/internal/model"
	"github.com/templui/goalnudge/internal/repository"
	"github.com/templui/goalnudge/internal/validation"
)

var (
	ErrInvalidObjectiveStatus = errors.New("invalid objective status")
	ErrInvalidEffort          = errors.New("invalid effort label: must be tiny, small or medium")
)

type ObjectiveService struct {
	objectiveRepository repository.ObjectiveRepository
	stepRepository      repository.StepRepository
	userRepository      repository.UserRepository
	now                 func() time.Time
}

// NewObjectiveService stamps created rows with opts.Now so that seeded
// objectives and steps age on the same clock as the engine.
func NewObjectiveService(
	objectiveRepository repository.ObjectiveRepository,
	stepRepository repository.StepRepository,
	userRepository repository.UserRepository,
	opts EngineOptions,
) *ObjectiveService {
	return &ObjectiveService{
		objectiveRepository: objectiveRepository,
		stepRepository:      stepRepository,
		userRepository:      userRepository,
		now:                 opts.withDefaults().Now,
	}
}

// Create adds an objective for userID. An empty status means building.
func (s *ObjectiveService) Create(ctx context.Context, userID, title, description, status string) (*model.Objective, error) {
	err := validation.ValidateTitle(title)
	if err != nil {
		return nil, err
	}
	err = validation.ValidateDescription(description)
	if err != nil {
		return nil, err
	}

	if status == "" {
		status = model.ObjectiveStatusBuilding
	}
	if !model.IsValidObjectiveStatus(status) {
		return nil, ErrInvalidObjectiveStatus
	}

	_, err = s.userRepository.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	objective := &model.Objective{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.objectiveRepository.Create(ctx, objective)
	if err != nil {
		return nil, fmt.Errorf("failed to create objective: %w", err)
	}

	return objective, nil
}

func (s *ObjectiveService) Objectives(ctx context.Context, userID string) ([]*model.Objective, error) {
	return s.objectiveRepository.Objectives(ctx, userID)
}

func (s *ObjectiveService) UpdateStatus(ctx context.Context, userID, objectiveID, status string) error {
	if !model.IsValidObjectiveStatus(status) {
		return ErrInvalidObjectiveStatus
	}
	return s.objectiveRepository.UpdateStatus(ctx, userID, objectiveID, status)
}

func (s *ObjectiveService) Delete(ctx context.Context, userID, objectiveID string) error {
	return s.objectiveRepository.SoftDelete(ctx, userID, objectiveID)
}

// AddStep queues a user-authored step. Effort defaults to small.
func (s *ObjectiveService) AddStep(ctx context.Context, objectiveID, title, description, effort string) (*model.Step, error) {
	err := validation.ValidateTitle(title)
	if err != nil {
		return nil, err
	}
	err = validation.ValidateDescription(description)
	if err != nil {
		return nil, err
	}

	if effort == "" {
		effort = model.EffortSmall
	}
	if !model.IsValidEffort(effort) {
		return nil, ErrInvalidEffort
	}

	_, err = s.objectiveRepository.ByID(ctx, objectiveID)
	if err != nil {
		return nil, err
	}

	step := &model.Step{
		ID:          uuid.New().String(),
		ObjectiveID: objectiveID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		EffortLabel: effort,
		Status:      model.StepStatusPending,
		Source:      model.StepSourceUser,
		CreatedAt:   s.now().UTC(),
	}

	err = s.stepRepository.Create(ctx, step)
	if err != nil {
		return nil, fmt.Errorf("failed to create step: %w", err)
	}

	return step, nil
}

func (s *ObjectiveService) Steps(ctx context.Context, objectiveID string) ([]*model.Step, error) {
	return s.stepRepository.Steps(ctx, objectiveID)
}
