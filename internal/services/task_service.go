package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/task-habit-api/internal/constants"
	apierrors "github.com/yukikurage/task-habit-api/internal/errors"
	"github.com/yukikurage/task-habit-api/internal/models"
	"github.com/yukikurage/task-habit-api/internal/repository"
)

var (
	ErrTaskNotFound           = apierrors.New(apierrors.KindNotFound, "task not found")
	ErrTaskPermissionDenied   = apierrors.New(apierrors.KindForbidden, "user does not have permission to modify this task")
	ErrParentNotFound         = apierrors.Validation("Invalid input", map[string]string{"parent_id": "parent task does not exist"})
	ErrParentCycle            = apierrors.Validation("Invalid input", map[string]string{"parent_id": "task cannot be its own ancestor"})
	ErrAssigneeNotFound       = apierrors.Validation("Invalid input", map[string]string{"assignee_id": "assignee does not exist"})
	ErrAssigneeNotMember      = apierrors.Validation("Invalid input", map[string]string{"assignee_id": "assignee is not a member of the workspace"})
	ErrCompletionConflict     = apierrors.Validation("Invalid input", map[string]string{"is_completed": "contradicts status"})
	ErrAIServiceNotConfigured = apierrors.New(apierrors.KindUnavailable, "AI service is not configured")
	ErrAINoTasksGenerated     = apierrors.New(apierrors.KindUnavailable, "AI did not generate any tasks")
	ErrAINoValidTasks         = apierrors.New(apierrors.KindUnavailable, "no valid tasks could be created from AI output")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo      repository.TaskRepository
	userRepo      repository.UserRepository
	workspaceRepo repository.WorkspaceRepository
	generator     TaskGenerator
	now           func() time.Time
}

// NewTaskService creates a new TaskService. generator may be nil when no AI
// backend is configured.
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, workspaceRepo repository.WorkspaceRepository, generator TaskGenerator) *TaskService {
	return &TaskService{
		taskRepo:      taskRepo,
		userRepo:      userRepo,
		workspaceRepo: workspaceRepo,
		generator:     generator,
		now:           time.Now,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	OwnerID     uint64              `json:"owner_id" validate:"required"`
	Title       string              `json:"title" validate:"required,max=255"`
	Description string              `json:"description"`
	DueAt       *time.Time          `json:"due_at"`
	Status      models.TaskStatus   `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	Priority    models.TaskPriority `json:"priority" validate:"omitempty,oneof=low medium high"`
	AssigneeID  *uint64             `json:"assignee_id"`
	ParentID    *uint64             `json:"parent_id"`
	WorkspaceID *uint64             `json:"workspace_id"`
}

// UpdateTaskInput represents a partial update. Clear flags null out the
// matching optional column.
type UpdateTaskInput struct {
	Title         *string              `json:"title" validate:"omitnil,min=1,max=255"`
	Description   *string              `json:"description"`
	DueAt         *time.Time           `json:"due_at"`
	ClearDueAt    bool                 `json:"-"`
	Status        *models.TaskStatus   `json:"status" validate:"omitnil,oneof=todo in_progress done"`
	Priority      *models.TaskPriority `json:"priority" validate:"omitnil,oneof=low medium high"`
	IsCompleted   *bool                `json:"is_completed"`
	AssigneeID    *uint64              `json:"assignee_id"`
	ClearAssignee bool                 `json:"-"`
	ParentID      *uint64              `json:"parent_id"`
	ClearParent   bool                 `json:"-"`
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	ViewerID      uint64
	Status        *models.TaskStatus   `json:"status" validate:"omitnil,oneof=todo in_progress done"`
	Priority      *models.TaskPriority `json:"priority" validate:"omitnil,oneof=low medium high"`
	AssigneeID    *uint64
	WorkspaceID   *uint64
	OwnerID       *uint64
	DueFrom       *time.Time
	DueTo         *time.Time
	SortByDueDate bool
	Page          int
	PageSize      int
}

// CreateTask creates a task owned by input.OwnerID
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	if err := s.ensureActiveUser(ctx, input.OwnerID); err != nil {
		return nil, err
	}

	if input.WorkspaceID != nil {
		if _, err := s.findMembership(ctx, *input.WorkspaceID, input.OwnerID); err != nil {
			return nil, err
		}
	}
	if input.AssigneeID != nil {
		if err := s.checkAssignee(ctx, *input.AssigneeID, input.WorkspaceID); err != nil {
			return nil, err
		}
	}
	if input.ParentID != nil {
		if _, err := s.findVisibleParent(ctx, *input.ParentID, input.OwnerID); err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		UserID:      input.OwnerID,
		Title:       input.Title,
		Description: input.Description,
		DueAt:       input.DueAt,
		Status:      input.Status,
		Priority:    input.Priority,
		AssigneeID:  input.AssigneeID,
		ParentID:    input.ParentID,
		WorkspaceID: input.WorkspaceID,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, storageError(err, nil, nil)
	}

	return task, nil
}

// GetTask returns a task visible to the viewer
func (s *TaskService) GetTask(ctx context.Context, viewerID, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, storageError(err, ErrTaskNotFound, nil)
	}

	visible, err := s.canView(ctx, task, viewerID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, ErrTaskNotFound
	}

	return task, nil
}

// UpdateTask applies a partial update. Any viewer of the task may edit it.
func (s *TaskService) UpdateTask(ctx context.Context, actorID, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	if input.Title != nil {
		trimmed := strings.TrimSpace(*input.Title)
		input.Title = &trimmed
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	task, err := s.GetTask(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.ClearDueAt {
		updates["due_at"] = nil
	} else if input.DueAt != nil {
		updates["due_at"] = *input.DueAt
	}
	if input.Priority != nil {
		updates["priority"] = *input.Priority
	}

	status, err := resolveStatus(input.Status, input.IsCompleted)
	if err != nil {
		return nil, err
	}
	if status != nil {
		updates["status"] = *status
	}

	if input.ClearAssignee {
		updates["assignee_id"] = nil
	} else if input.AssigneeID != nil {
		if err := s.checkAssignee(ctx, *input.AssigneeID, task.WorkspaceID); err != nil {
			return nil, err
		}
		updates["assignee_id"] = *input.AssigneeID
	}

	if input.ClearParent {
		updates["parent_id"] = nil
	} else if input.ParentID != nil {
		if err := s.checkParentChain(ctx, task, *input.ParentID, actorID); err != nil {
			return nil, err
		}
		updates["parent_id"] = *input.ParentID
	}

	updated, err := s.taskRepo.Update(ctx, task.ID, updates)
	if err != nil {
		return nil, storageError(err, ErrTaskNotFound, nil)
	}

	return updated, nil
}

// DeleteTask deletes a task. The owner may always delete it; in a workspace
// an owner or admin may too.
func (s *TaskService) DeleteTask(ctx context.Context, actorID, taskID uint64) error {
	task, err := s.GetTask(ctx, actorID, taskID)
	if err != nil {
		return err
	}

	if task.UserID != actorID {
		if task.WorkspaceID == nil {
			return ErrTaskPermissionDenied
		}
		member, err := s.findMembership(ctx, *task.WorkspaceID, actorID)
		if err != nil {
			return err
		}
		if !member.Role.CanManage() {
			return ErrTaskPermissionDenied
		}
	}

	return storageError(s.taskRepo.Delete(ctx, task.ID), ErrTaskNotFound, nil)
}

// ListTasks returns the tasks visible to the viewer that match the filters
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, int64, error) {
	if err := validateInput(input); err != nil {
		return nil, 0, err
	}

	if input.WorkspaceID != nil {
		if _, err := s.findMembership(ctx, *input.WorkspaceID, input.ViewerID); err != nil {
			return nil, 0, err
		}
	}

	filter := repository.TaskFilter{
		ViewerID:      &input.ViewerID,
		OwnerID:       input.OwnerID,
		Status:        input.Status,
		Priority:      input.Priority,
		AssigneeID:    input.AssigneeID,
		WorkspaceID:   input.WorkspaceID,
		DueFrom:       input.DueFrom,
		DueTo:         input.DueTo,
		SortByDueDate: input.SortByDueDate,
		Page:          input.Page,
		PageSize:      input.PageSize,
	}

	tasks, total, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GenerateTasks asks the configured generator for task suggestions. Nothing
// is persisted.
func (s *TaskService) GenerateTasks(ctx context.Context, text string) ([]GeneratedTask, error) {
	if s.generator == nil {
		return nil, ErrAIServiceNotConfigured
	}
	if strings.TrimSpace(text) == "" {
		return nil, apierrors.Validation("Invalid input", map[string]string{"text": "is required"})
	}

	aiTasks, err := s.generator.GenerateTasksFromText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		aiTasks = aiTasks[:constants.MaxAIGeneratedTasks]
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	cutoff := s.now().Add(-24 * time.Hour)
	for _, aiTask := range aiTasks {
		aiTask.Title = strings.TrimSpace(aiTask.Title)
		if aiTask.Title == "" || len(aiTask.Title) > 255 {
			continue
		}
		if !aiTask.Priority.Valid() {
			aiTask.Priority = models.TaskPriorityMedium
		}
		if aiTask.DueAt != nil && aiTask.DueAt.Before(cutoff) {
			aiTask.DueAt = nil
		}

		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validTasks, nil
}

// resolveStatus folds the is_completed shorthand into a status change.
func resolveStatus(status *models.TaskStatus, isCompleted *bool) (*models.TaskStatus, error) {
	if isCompleted == nil {
		return status, nil
	}

	derived := models.TaskStatusTodo
	if *isCompleted {
		derived = models.TaskStatusDone
	}

	if status != nil && (*status == models.TaskStatusDone) != *isCompleted {
		return nil, ErrCompletionConflict
	}
	if status != nil {
		return status, nil
	}
	return &derived, nil
}

// canView reports whether the user owns the task or belongs to its workspace
func (s *TaskService) canView(ctx context.Context, task *models.Task, userID uint64) (bool, error) {
	if task.UserID == userID {
		return true, nil
	}
	if task.WorkspaceID == nil {
		return false, nil
	}

	_, err := s.workspaceRepo.FindMember(ctx, *task.WorkspaceID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return true, nil
}

func (s *TaskService) ensureActiveUser(ctx context.Context, userID uint64) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return storageError(err, ErrUserNotFound, nil)
	}
	if !user.IsActive {
		return ErrInactiveUser
	}
	return nil
}

func (s *TaskService) findMembership(ctx context.Context, workspaceID, userID uint64) (*models.WorkspaceMember, error) {
	member, err := s.workspaceRepo.FindMember(ctx, workspaceID, userID)
	if err != nil {
		return nil, storageError(err, ErrWorkspaceNotFound, nil)
	}
	return member, nil
}

func (s *TaskService) checkAssignee(ctx context.Context, assigneeID uint64, workspaceID *uint64) error {
	if _, err := s.userRepo.FindByID(ctx, assigneeID); err != nil {
		return storageError(err, ErrAssigneeNotFound, nil)
	}
	if workspaceID == nil {
		return nil
	}
	if _, err := s.workspaceRepo.FindMember(ctx, *workspaceID, assigneeID); err != nil {
		return storageError(err, ErrAssigneeNotMember, nil)
	}
	return nil
}

// findVisibleParent loads a prospective parent. Tasks the user cannot see are
// reported as missing.
func (s *TaskService) findVisibleParent(ctx context.Context, parentID, userID uint64) (*models.Task, error) {
	parent, err := s.taskRepo.FindByID(ctx, parentID)
	if err != nil {
		return nil, storageError(err, ErrParentNotFound, nil)
	}

	visible, err := s.canView(ctx, parent, userID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, ErrParentNotFound
	}

	return parent, nil
}

// checkParentChain rejects a parent that is the task itself or one of its
// descendants by walking up from the proposed parent.
func (s *TaskService) checkParentChain(ctx context.Context, task *models.Task, parentID, actorID uint64) error {
	if parentID == task.ID {
		return ErrParentCycle
	}

	parent, err := s.findVisibleParent(ctx, parentID, actorID)
	if err != nil {
		return err
	}

	seen := map[uint64]bool{parent.ID: true}
	for current := parent; current.ParentID != nil; {
		nextID := *current.ParentID
		if nextID == task.ID {
			return ErrParentCycle
		}
		if seen[nextID] {
			break
		}
		seen[nextID] = true

		next, err := s.taskRepo.FindByID(ctx, nextID)
		if errors.Is(err, repository.ErrNotFound) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to walk task ancestors: %w", err)
		}
		current = next
	}

	return nil
}
