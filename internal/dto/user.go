package dto

import (
	"time"

	"github.com/yukikurage/task-habit-api/internal/auth"
	"github.com/yukikurage/task-habit-api/internal/constants"
	"github.com/yukikurage/task-habit-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenDTO is the access token response
type TokenDTO struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// RegisterResponse is returned after a successful registration
type RegisterResponse struct {
	TokenDTO
	User UserDTO `json:"user"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}

// ToTokenDTO converts an issued token to TokenDTO
func ToTokenDTO(token auth.IssuedToken) TokenDTO {
	return TokenDTO{
		AccessToken: token.Token,
		TokenType:   constants.TokenType,
		ExpiresAt:   token.ExpiresAt,
	}
}
