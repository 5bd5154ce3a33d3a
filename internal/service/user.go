package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/goalnudge/internal/model"
	"github.com/templui/goalnudge/internal/repository"
	"github.com/templui/goalnudge/internal/validation"
)

type UserService struct {
	userRepository       repository.UserRepository
	defaultOffsetMinutes int
	defaultLocation      *time.Location
}

func NewUserService(userRepository repository.UserRepository, defaultOffsetMinutes int) *UserService {
	return &UserService{
		userRepository:       userRepository,
		defaultOffsetMinutes: defaultOffsetMinutes,
		defaultLocation:      model.FixedLocation(defaultOffsetMinutes),
	}
}

func (s *UserService) Create(ctx context.Context, email, name string, utcOffsetMinutes int) (*model.User, error) {
	email, err := validation.NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if name != "" {
		err = validation.ValidateName(name)
		if err != nil {
			return nil, err
		}
	}

	user := &model.User{
		ID:               uuid.New().String(),
		Email:            email,
		Name:             strings.TrimSpace(name),
		UTCOffsetMinutes: utcOffsetMinutes,
		CreatedAt:        time.Now().UTC(),
	}

	err = s.userRepository.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// DefaultOffsetMinutes is the UTC offset given to users created without one.
func (s *UserService) DefaultOffsetMinutes() int {
	return s.defaultOffsetMinutes
}

func (s *UserService) ByID(ctx context.Context, userID string) (*model.User, error) {
	return s.userRepository.ByID(ctx, userID)
}

func (s *UserService) IDs(ctx context.Context) ([]string, error) {
	return s.userRepository.IDs(ctx)
}

// Location returns the user's fixed-offset zone, or the configured default
// when the user cannot be loaded.
func (s *UserService) Location(ctx context.Context, userID string) *time.Location {
	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			slog.Error("failed to load user location", "error", err, "user_id", userID)
		}
		return s.defaultLocation
	}
	return user.Location()
}
