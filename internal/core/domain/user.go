package domain

import "time"

// User represents a registered user of the application.
type User struct {
	UserID       int       `json:"userID"` // Sequential, assigned on registration
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // bcrypt hash, never serialized outward
	RegisteredAt time.Time `json:"registeredAt"`
}
