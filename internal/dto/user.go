package dto

import (
	"time"

	"github.com/valutatrade/valutatrade-hub/internal/core/domain"
)

// RegisterRequest defines the input for user registration.
// Username rules follow the account policy: at least 3 characters, letters,
// digits and underscores only. Passwords must be at least 4 characters.
type RegisterRequest struct {
	Username string `validate:"required,min=3,alphanumunderscore"`
	Password string `validate:"required,min=4"`
}

// LoginRequest defines the input for authentication.
type LoginRequest struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// ChangePasswordRequest defines the input for a password change.
type ChangePasswordRequest struct {
	OldPassword string `validate:"required"`
	NewPassword string `validate:"required,min=4"`
}

// UserResponse is the outward representation of a user, without credentials.
type UserResponse struct {
	UserID       int       `json:"userID"`
	Username     string    `json:"username"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// ToUserResponse converts a domain.User to a UserResponse DTO.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:       user.UserID,
		Username:     user.Username,
		RegisteredAt: user.RegisteredAt,
	}
}
