package dto

import (
	"time"

	"github.com/yukikurage/task-habit-api/internal/models"
	"github.com/yukikurage/task-habit-api/internal/services"
	"github.com/yukikurage/task-habit-api/internal/utils"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64              `json:"id"`
	UserID      uint64              `json:"user_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	DueAt       *time.Time          `json:"due_at"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	IsCompleted bool                `json:"is_completed"`
	AssigneeID  *uint64             `json:"assignee_id"`
	ParentID    *uint64             `json:"parent_id"`
	WorkspaceID *uint64             `json:"workspace_id"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// GeneratedTaskDTO is a task suggestion that has not been saved
type GeneratedTaskDTO struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Priority    models.TaskPriority `json:"priority"`
	DueAt       *time.Time          `json:"due_at"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		UserID:      task.UserID,
		Title:       task.Title,
		Description: task.Description,
		DueAt:       task.DueAt,
		Status:      task.Status,
		Priority:    task.Priority,
		IsCompleted: task.IsCompleted(),
		AssigneeID:  task.AssigneeID,
		ParentID:    task.ParentID,
		WorkspaceID: task.WorkspaceID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// ToTaskListResponse converts a page of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, params utils.PaginationParams, total int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks:      items,
		Pagination: utils.NewPaginationResponse(params, total),
	}
}

// ToGeneratedTaskDTOs converts AI suggestions for the response
func ToGeneratedTaskDTOs(tasks []services.GeneratedTask) []GeneratedTaskDTO {
	items := make([]GeneratedTaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = GeneratedTaskDTO{
			Title:       task.Title,
			Description: task.Description,
			Priority:    task.Priority,
			DueAt:       task.DueAt,
		}
	}
	return items
}
