package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-habit-api/internal/constants"
	apierrors "github.com/yukikurage/task-habit-api/internal/errors"
	"github.com/yukikurage/task-habit-api/internal/models"
	"github.com/yukikurage/task-habit-api/internal/services"
)

// RequireTaskAccess loads the task named by :id. Tasks the user can't see
// are reported as not found.
func RequireTaskAccess(taskService *services.TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, ok := ParseIDParam(c, "id", "task")
		if !ok {
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		task, err := taskService.GetTask(c.Request.Context(), userID, taskID)
		if err != nil {
			apierrors.Respond(c, err)
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTask, task)
		c.Next()
	}
}

// GetTask returns the task loaded by RequireTaskAccess
func GetTask(c *gin.Context) (*models.Task, bool) {
	value, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return nil, false
	}
	task, ok := value.(*models.Task)
	return task, ok
}
