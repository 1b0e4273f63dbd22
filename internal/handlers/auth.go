package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/yukikurage/task-habit-api/internal/constants"
	"github.com/yukikurage/task-habit-api/internal/dto"
	apierrors "github.com/yukikurage/task-habit-api/internal/errors"
	"github.com/yukikurage/task-habit-api/internal/middleware"
	"github.com/yukikurage/task-habit-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates an account and returns an access token for it.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.RegisterResponse{
		TokenDTO: dto.ToTokenDTO(*token),
		User:     dto.ToUserDTO(*user),
	})
}

// Login accepts either a JSON body {identifier, password} or an OAuth2
// password form {username, password}. The token is also kept in the
// session so browser clients can skip the Authorization header.
func (h *AuthHandler) Login(c *gin.Context) {
	var input services.LoginInput

	switch c.ContentType() {
	case binding.MIMEPOSTForm, binding.MIMEMultipartPOSTForm:
		input.Identifier = c.PostForm("username")
		input.Password = c.PostForm("password")
	default:
		type LoginRequest struct {
			Identifier string `json:"identifier"`
			Username   string `json:"username"`
			Password   string `json:"password"`
		}

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}
		input.Identifier = req.Identifier
		if input.Identifier == "" {
			input.Identifier = req.Username
		}
		input.Password = req.Password
	}

	if input.Identifier == "" || input.Password == "" {
		apierrors.BadRequest(c, "Identifier and password are required")
		return
	}

	_, token, err := h.authService.Authenticate(c.Request.Context(), input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	if session, ok := currentSession(c); ok {
		session.Set(constants.SessionKeyToken, token.Token)
		if err := session.Save(); err != nil {
			apierrors.InternalError(c, "Failed to save session")
			return
		}
	}

	c.JSON(http.StatusOK, dto.ToTokenDTO(*token))
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := clearSession(c); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	if user, ok := middleware.GetUser(c); ok {
		c.JSON(http.StatusOK, dto.ToUserDTO(*user))
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// DeactivateCurrentUser disables the account. Existing tokens stop working.
func (h *AuthHandler) DeactivateCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.authService.DeactivateUser(c.Request.Context(), userID); err != nil {
		apierrors.Respond(c, err)
		return
	}
	if err := clearSession(c); err != nil {
		apierrors.InternalError(c, "Failed to clear session")
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteCurrentUser removes the account and everything it owns.
func (h *AuthHandler) DeleteCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.authService.DeleteUser(c.Request.Context(), userID); err != nil {
		apierrors.Respond(c, err)
		return
	}
	if err := clearSession(c); err != nil {
		apierrors.InternalError(c, "Failed to clear session")
		return
	}

	c.Status(http.StatusNoContent)
}

// currentSession returns the request session when the sessions middleware
// is installed.
func currentSession(c *gin.Context) (sessions.Session, bool) {
	if _, exists := c.Get(sessions.DefaultKey); !exists {
		return nil, false
	}
	return sessions.Default(c), true
}

func clearSession(c *gin.Context) error {
	session, ok := currentSession(c)
	if !ok {
		return nil
	}
	session.Clear()
	return session.Save()
}
