package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	apierrors "github.com/yukikurage/task-habit-api/internal/errors"
	"github.com/yukikurage/task-habit-api/internal/models"
	"github.com/yukikurage/task-habit-api/internal/repository"
)

var (
	ErrHabitNotFound      = apierrors.New(apierrors.KindNotFound, "habit not found")
	ErrCompletionExists   = apierrors.New(apierrors.KindConflict, "habit already completed on this day")
	ErrCompletionNotFound = apierrors.New(apierrors.KindNotFound, "completion not found")
	ErrInvalidDateRange   = apierrors.Validation("Invalid input", map[string]string{"from": "must not be after to"})
)

// HabitService handles habit and completion business logic
type HabitService struct {
	habitRepo repository.HabitRepository
	userRepo  repository.UserRepository
}

// NewHabitService creates a new HabitService
func NewHabitService(habitRepo repository.HabitRepository, userRepo repository.UserRepository) *HabitService {
	return &HabitService{
		habitRepo: habitRepo,
		userRepo:  userRepo,
	}
}

// CreateHabitInput represents input for creating a habit. Zero values of
// Frequency and TargetCount fall back to daily and 1.
type CreateHabitInput struct {
	OwnerID     uint64                `json:"owner_id" validate:"required"`
	Name        string                `json:"name" validate:"required,max=255"`
	Description string                `json:"description"`
	Frequency   models.HabitFrequency `json:"frequency" validate:"omitempty,oneof=daily weekly monthly"`
	TargetCount int                   `json:"target_count" validate:"omitempty,min=1"`
}

// UpdateHabitInput represents a partial habit update
type UpdateHabitInput struct {
	Name        *string                `json:"name" validate:"omitnil,min=1,max=255"`
	Description *string                `json:"description"`
	Frequency   *models.HabitFrequency `json:"frequency" validate:"omitnil,oneof=daily weekly monthly"`
	TargetCount *int                   `json:"target_count" validate:"omitnil,min=1"`
}

// CreateHabit creates a habit for an existing, active user
func (s *HabitService) CreateHabit(ctx context.Context, input CreateHabitInput) (*models.Habit, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, input.OwnerID)
	if err != nil {
		return nil, storageError(err, ErrUserNotFound, nil)
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	if input.Frequency == "" {
		input.Frequency = models.HabitFrequencyDaily
	}
	if input.TargetCount == 0 {
		input.TargetCount = 1
	}

	habit := &models.Habit{
		UserID:      input.OwnerID,
		Name:        input.Name,
		Description: input.Description,
		Frequency:   input.Frequency,
		TargetCount: input.TargetCount,
	}

	if err := s.habitRepo.Create(ctx, habit); err != nil {
		return nil, storageError(err, nil, nil)
	}

	return habit, nil
}

// GetHabit returns a habit owned by the viewer
func (s *HabitService) GetHabit(ctx context.Context, viewerID, habitID uint64) (*models.Habit, error) {
	habit, err := s.habitRepo.FindByID(ctx, habitID)
	if err != nil {
		return nil, storageError(err, ErrHabitNotFound, nil)
	}
	if habit.UserID != viewerID {
		return nil, ErrHabitNotFound
	}
	return habit, nil
}

// ListHabits lists the viewer's habits, oldest first
func (s *HabitService) ListHabits(ctx context.Context, ownerID uint64, page, pageSize int) ([]models.Habit, int64, error) {
	habits, total, err := s.habitRepo.ListByUser(ctx, ownerID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list habits: %w", err)
	}
	return habits, total, nil
}

// UpdateHabit applies a partial update
func (s *HabitService) UpdateHabit(ctx context.Context, viewerID, habitID uint64, input UpdateHabitInput) (*models.Habit, error) {
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		input.Name = &trimmed
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	if _, err := s.GetHabit(ctx, viewerID, habitID); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Frequency != nil {
		updates["frequency"] = *input.Frequency
	}
	if input.TargetCount != nil {
		updates["target_count"] = *input.TargetCount
	}

	habit, err := s.habitRepo.Update(ctx, habitID, updates)
	if err != nil {
		return nil, storageError(err, ErrHabitNotFound, nil)
	}
	return habit, nil
}

// DeleteHabit deletes a habit and its completions
func (s *HabitService) DeleteHabit(ctx context.Context, viewerID, habitID uint64) error {
	if _, err := s.GetHabit(ctx, viewerID, habitID); err != nil {
		return err
	}
	return storageError(s.habitRepo.Delete(ctx, habitID), ErrHabitNotFound, nil)
}

// RecordCompletion marks the habit done for the calendar day of completedOn.
// A second completion for the same day is a conflict.
func (s *HabitService) RecordCompletion(ctx context.Context, viewerID, habitID uint64, completedOn time.Time, note string) (*models.HabitCompletion, error) {
	if completedOn.IsZero() {
		return nil, apierrors.Validation("Invalid input", map[string]string{"completed_on": "is required"})
	}

	if _, err := s.GetHabit(ctx, viewerID, habitID); err != nil {
		return nil, err
	}

	completion := &models.HabitCompletion{
		HabitID:     habitID,
		CompletedOn: models.CalendarDay(completedOn),
		Note:        note,
	}

	if err := s.habitRepo.CreateCompletion(ctx, completion); err != nil {
		return nil, storageError(err, ErrHabitNotFound, ErrCompletionExists)
	}

	return completion, nil
}

// ListCompletions lists completions in the inclusive [from, to] day range
func (s *HabitService) ListCompletions(ctx context.Context, viewerID, habitID uint64, from, to *time.Time) ([]models.HabitCompletion, error) {
	if from != nil && to != nil && models.CalendarDay(*from).After(models.CalendarDay(*to)) {
		return nil, ErrInvalidDateRange
	}

	if _, err := s.GetHabit(ctx, viewerID, habitID); err != nil {
		return nil, err
	}

	completions, err := s.habitRepo.ListCompletions(ctx, habitID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}
	return completions, nil
}

// DeleteCompletion removes the completion recorded for a day
func (s *HabitService) DeleteCompletion(ctx context.Context, viewerID, habitID uint64, day time.Time) error {
	if _, err := s.GetHabit(ctx, viewerID, habitID); err != nil {
		return err
	}
	return storageError(s.habitRepo.DeleteCompletion(ctx, habitID, day), ErrCompletionNotFound, nil)
}
