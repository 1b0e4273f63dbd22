package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-habit-api/internal/dto"
	apierrors "github.com/yukikurage/task-habit-api/internal/errors"
	"github.com/yukikurage/task-habit-api/internal/middleware"
	"github.com/yukikurage/task-habit-api/internal/models"
	"github.com/yukikurage/task-habit-api/internal/services"
	"github.com/yukikurage/task-habit-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the tasks visible to the current user. Supports
// status, priority, assignee_id, workspace_id, owner_id, due_from, due_to
// and sort=created_at|due_at.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	input := services.ListTasksInput{ViewerID: userID}

	if status := c.Query("status"); status != "" {
		value := models.TaskStatus(status)
		input.Status = &value
	}
	if priority := c.Query("priority"); priority != "" {
		value := models.TaskPriority(priority)
		input.Priority = &value
	}

	var ok bool
	if input.AssigneeID, ok = queryID(c, "assignee_id"); !ok {
		return
	}
	if input.WorkspaceID, ok = queryID(c, "workspace_id"); !ok {
		return
	}
	if input.OwnerID, ok = queryID(c, "owner_id"); !ok {
		return
	}
	if input.DueFrom, ok = queryTime(c, "due_from"); !ok {
		return
	}
	if input.DueTo, ok = queryTime(c, "due_to"); !ok {
		return
	}

	switch c.DefaultQuery("sort", "created_at") {
	case "created_at":
	case "due_at", "due_date":
		input.SortByDueDate = true
	default:
		apierrors.BadRequest(c, "sort must be created_at or due_at")
		return
	}

	params := utils.GetPaginationParams(c)
	input.Page = params.Page
	input.PageSize = params.Limit

	tasks, total, err := h.taskService.ListTasks(c.Request.Context(), input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params, total))
}

// GetTask returns the task loaded by RequireTaskAccess
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task owned by the current user
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Title       string              `json:"title"`
		Description string              `json:"description"`
		DueAt       *time.Time          `json:"due_at"`
		Status      models.TaskStatus   `json:"status"`
		Priority    models.TaskPriority `json:"priority"`
		AssigneeID  *uint64             `json:"assignee_id"`
		ParentID    *uint64             `json:"parent_id"`
		WorkspaceID *uint64             `json:"workspace_id"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), services.CreateTaskInput{
		OwnerID:     userID,
		Title:       req.Title,
		Description: req.Description,
		DueAt:       req.DueAt,
		Status:      req.Status,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
		ParentID:    req.ParentID,
		WorkspaceID: req.WorkspaceID,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update. Sending null for due_at, assignee_id
// or parent_id clears the field.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	// Parse raw JSON to detect which fields were sent
	var body patchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var input services.UpdateTaskInput
	err := body.decode(map[string]any{
		"title":        &input.Title,
		"description":  &input.Description,
		"due_at":       &input.DueAt,
		"status":       &input.Status,
		"priority":     &input.Priority,
		"is_completed": &input.IsCompleted,
		"assignee_id":  &input.AssigneeID,
		"parent_id":    &input.ParentID,
	}, "title", "status", "priority", "is_completed")
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	input.ClearDueAt = body.isNull("due_at")
	input.ClearAssignee = body.isNull("assignee_id")
	input.ClearParent = body.isNull("parent_id")

	updated, err := h.taskService.UpdateTask(c.Request.Context(), userID, task.ID, input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// DeleteTask deletes a task. Subtasks are kept and detached.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), userID, task.ID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GenerateTasks suggests tasks for free text. Nothing is saved.
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	type GenerateTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	generated, err := h.taskService.GenerateTasks(c.Request.Context(), req.Text)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToGeneratedTaskDTOs(generated),
	})
}

// queryID parses an optional positive id query parameter. On failure it
// writes a 400 response and returns false.
func queryID(c *gin.Context, name string) (*uint64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid "+name)
		return nil, false
	}
	return &id, true
}

// queryTime parses an optional RFC3339 query parameter.
func queryTime(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name+", expected RFC3339")
		return nil, false
	}
	return &t, true
}
