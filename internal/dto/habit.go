package dto

import (
	"time"

	"github.com/yukikurage/task-habit-api/internal/constants"
	"github.com/yukikurage/task-habit-api/internal/models"
	"github.com/yukikurage/task-habit-api/internal/utils"
)

// HabitDTO represents a habit in API responses
type HabitDTO struct {
	ID          uint64                `json:"id"`
	UserID      uint64                `json:"user_id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Frequency   models.HabitFrequency `json:"frequency"`
	TargetCount int                   `json:"target_count"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// HabitListResponse represents a paginated list of habits
type HabitListResponse struct {
	Habits     []HabitDTO               `json:"habits"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// HabitCompletionDTO represents a completion; the day is rendered as YYYY-MM-DD
type HabitCompletionDTO struct {
	ID          uint64    `json:"id"`
	HabitID     uint64    `json:"habit_id"`
	CompletedOn string    `json:"completed_on"`
	Note        string    `json:"note"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToHabitDTO converts a Habit model to HabitDTO
func ToHabitDTO(habit models.Habit) HabitDTO {
	return HabitDTO{
		ID:          habit.ID,
		UserID:      habit.UserID,
		Name:        habit.Name,
		Description: habit.Description,
		Frequency:   habit.Frequency,
		TargetCount: habit.TargetCount,
		CreatedAt:   habit.CreatedAt,
		UpdatedAt:   habit.UpdatedAt,
	}
}

// ToHabitListResponse converts a page of habits
func ToHabitListResponse(habits []models.Habit, params utils.PaginationParams, total int64) HabitListResponse {
	items := make([]HabitDTO, len(habits))
	for i, habit := range habits {
		items[i] = ToHabitDTO(habit)
	}

	return HabitListResponse{
		Habits:     items,
		Pagination: utils.NewPaginationResponse(params, total),
	}
}

// ToHabitCompletionDTO converts a completion
func ToHabitCompletionDTO(completion models.HabitCompletion) HabitCompletionDTO {
	return HabitCompletionDTO{
		ID:          completion.ID,
		HabitID:     completion.HabitID,
		CompletedOn: completion.CompletedOn.UTC().Format(constants.DateLayout),
		Note:        completion.Note,
		CreatedAt:   completion.CreatedAt,
	}
}

// ToHabitCompletionDTOs converts a list of completions
func ToHabitCompletionDTOs(completions []models.HabitCompletion) []HabitCompletionDTO {
	items := make([]HabitCompletionDTO, len(completions))
	for i, completion := range completions {
		items[i] = ToHabitCompletionDTO(completion)
	}
	return items
}
