package middleware

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-habit-api/internal/constants"
	apierrors "github.com/yukikurage/task-habit-api/internal/errors"
	"github.com/yukikurage/task-habit-api/internal/models"
	"github.com/yukikurage/task-habit-api/internal/services"
)

// RequireAuth resolves the bearer token from the Authorization header, or
// from the browser session when the header is absent.
func RequireAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			token = sessionToken(c)
		}
		if token == "" {
			c.Header("WWW-Authenticate", "Bearer")
			apierrors.Unauthorized(c, "Not authenticated")
			c.Abort()
			return
		}

		user, err := authService.ResolveToken(c.Request.Context(), token)
		if err != nil {
			apierrors.Respond(c, err)
			c.Abort()
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, user)
		c.Next()
	}
}

// BearerToken extracts the token from an "Authorization: Bearer" header
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func sessionToken(c *gin.Context) string {
	if _, exists := c.Get(sessions.DefaultKey); !exists {
		return ""
	}
	token, _ := sessions.Default(c).Get(constants.SessionKeyToken).(string)
	return token
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetUser retrieves the authenticated user loaded by RequireAuth
func GetUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}
