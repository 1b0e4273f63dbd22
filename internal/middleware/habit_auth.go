package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-habit-api/internal/constants"
	apierrors "github.com/yukikurage/task-habit-api/internal/errors"
	"github.com/yukikurage/task-habit-api/internal/models"
	"github.com/yukikurage/task-habit-api/internal/services"
)

// RequireHabitOwner loads the habit named by :id if the user owns it
func RequireHabitOwner(habitService *services.HabitService) gin.HandlerFunc {
	return func(c *gin.Context) {
		habitID, ok := ParseIDParam(c, "id", "habit")
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

		habit, err := habitService.GetHabit(c.Request.Context(), userID, habitID)
		if err != nil {
			apierrors.Respond(c, err)
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyHabit, habit)
		c.Next()
	}
}

// GetHabit returns the habit loaded by RequireHabitOwner
func GetHabit(c *gin.Context) (*models.Habit, bool) {
	value, exists := c.Get(constants.ContextKeyHabit)
	if !exists {
		return nil, false
	}
	habit, ok := value.(*models.Habit)
	return habit, ok
}
