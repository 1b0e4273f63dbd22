package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-habit-api/internal/constants"
	"github.com/yukikurage/task-habit-api/internal/dto"
	apierrors "github.com/yukikurage/task-habit-api/internal/errors"
	"github.com/yukikurage/task-habit-api/internal/middleware"
	"github.com/yukikurage/task-habit-api/internal/models"
	"github.com/yukikurage/task-habit-api/internal/services"
	"github.com/yukikurage/task-habit-api/internal/utils"
)

// HabitHandler serves habits and their daily completions.
type HabitHandler struct {
	habitService *services.HabitService
}

// NewHabitHandler creates a new HabitHandler.
func NewHabitHandler(habitService *services.HabitService) *HabitHandler {
	return &HabitHandler{
		habitService: habitService,
	}
}

// ListHabits returns a page of the current user's habits.
func (h *HabitHandler) ListHabits(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)
	habits, total, err := h.habitService.ListHabits(c.Request.Context(), userID, params.Page, params.Limit)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToHabitListResponse(habits, params, total))
}

// CreateHabit creates a habit for the current user.
func (h *HabitHandler) CreateHabit(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateHabitRequest struct {
		Name        string                `json:"name"`
		Description string                `json:"description"`
		Frequency   models.HabitFrequency `json:"frequency"`
		TargetCount int                   `json:"target_count"`
	}

	var req CreateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	habit, err := h.habitService.CreateHabit(c.Request.Context(), services.CreateHabitInput{
		OwnerID:     userID,
		Name:        req.Name,
		Description: req.Description,
		Frequency:   req.Frequency,
		TargetCount: req.TargetCount,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToHabitDTO(*habit))
}

// GetHabit returns the habit loaded by RequireHabitOwner.
func (h *HabitHandler) GetHabit(c *gin.Context) {
	habit, ok := middleware.GetHabit(c)
	if !ok {
		apierrors.InternalError(c, "Habit not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToHabitDTO(*habit))
}

// UpdateHabit applies a partial update.
func (h *HabitHandler) UpdateHabit(c *gin.Context) {
	userID, habit, ok := h.habitContext(c)
	if !ok {
		return
	}

	var body patchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var input services.UpdateHabitInput
	err := body.decode(map[string]any{
		"name":         &input.Name,
		"description":  &input.Description,
		"frequency":    &input.Frequency,
		"target_count": &input.TargetCount,
	}, "name", "frequency", "target_count")
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	updated, err := h.habitService.UpdateHabit(c.Request.Context(), userID, habit.ID, input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToHabitDTO(*updated))
}

// DeleteHabit deletes a habit together with its completions.
func (h *HabitHandler) DeleteHabit(c *gin.Context) {
	userID, habit, ok := h.habitContext(c)
	if !ok {
		return
	}

	if err := h.habitService.DeleteHabit(c.Request.Context(), userID, habit.ID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListCompletions returns completions, optionally bounded by the inclusive
// from/to days (YYYY-MM-DD).
func (h *HabitHandler) ListCompletions(c *gin.Context) {
	userID, habit, ok := h.habitContext(c)
	if !ok {
		return
	}

	from, ok := queryDay(c, "from")
	if !ok {
		return
	}
	to, ok := queryDay(c, "to")
	if !ok {
		return
	}

	completions, err := h.habitService.ListCompletions(c.Request.Context(), userID, habit.ID, from, to)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"completions": dto.ToHabitCompletionDTOs(completions),
	})
}

// RecordCompletion marks the habit done for a day. completed_on defaults
// to today (UTC).
func (h *HabitHandler) RecordCompletion(c *gin.Context) {
	userID, habit, ok := h.habitContext(c)
	if !ok {
		return
	}

	type RecordCompletionRequest struct {
		CompletedOn string `json:"completed_on"`
		Note        string `json:"note"`
	}

	var req RecordCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	completedOn := time.Now().UTC()
	if req.CompletedOn != "" {
		day, err := parseDay(req.CompletedOn)
		if err != nil {
			apierrors.BadRequest(c, "Invalid completed_on, expected YYYY-MM-DD")
			return
		}
		completedOn = day
	}

	completion, err := h.habitService.RecordCompletion(c.Request.Context(), userID, habit.ID, completedOn, req.Note)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToHabitCompletionDTO(*completion))
}

// DeleteCompletion removes the completion for the :date day.
func (h *HabitHandler) DeleteCompletion(c *gin.Context) {
	userID, habit, ok := h.habitContext(c)
	if !ok {
		return
	}

	day, err := parseDay(c.Param("date"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	if err := h.habitService.DeleteCompletion(c.Request.Context(), userID, habit.ID, day); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *HabitHandler) habitContext(c *gin.Context) (uint64, *models.Habit, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return 0, nil, false
	}

	habit, ok := middleware.GetHabit(c)
	if !ok {
		apierrors.InternalError(c, "Habit not found in context")
		return 0, nil, false
	}

	return userID, habit, true
}

// parseDay accepts a calendar day or a full RFC3339 timestamp.
func parseDay(raw string) (time.Time, error) {
	if day, err := time.Parse(constants.DateLayout, raw); err == nil {
		return day, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func queryDay(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}

	day, err := parseDay(raw)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name+", expected YYYY-MM-DD")
		return nil, false
	}
	return &day, true
}
