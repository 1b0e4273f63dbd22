package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-habit-api/internal/constants"
	apierrors "github.com/yukikurage/task-habit-api/internal/errors"
	"github.com/yukikurage/task-habit-api/internal/models"
	"github.com/yukikurage/task-habit-api/internal/services"
)

// RequireWorkspaceAccess checks if the user is a member of the workspace
// named by :id and stores the membership in the context
func RequireWorkspaceAccess(workspaceService *services.WorkspaceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		workspaceID, ok := ParseIDParam(c, "id", "workspace")
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

		// Non-members get 404 so workspace existence is not leaked
		member, err := workspaceService.GetMembership(c.Request.Context(), workspaceID, userID)
		if err != nil {
			apierrors.Respond(c, err)
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyWorkspaceMember, member)
		c.Next()
	}
}

// RequireWorkspaceManager checks that the membership stored by
// RequireWorkspaceAccess is an owner or admin
func RequireWorkspaceManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		member, ok := GetWorkspaceMember(c)
		if !ok {
			apierrors.Forbidden(c, "Workspace access required")
			c.Abort()
			return
		}

		if !member.Role.CanManage() {
			apierrors.Respond(c, services.ErrWorkspacePermission)
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetWorkspaceMember returns the membership loaded by RequireWorkspaceAccess
func GetWorkspaceMember(c *gin.Context) (*models.WorkspaceMember, bool) {
	value, exists := c.Get(constants.ContextKeyWorkspaceMember)
	if !exists {
		return nil, false
	}
	member, ok := value.(*models.WorkspaceMember)
	return member, ok
}
