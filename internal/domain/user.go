package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account owning exactly one portfolio
type User struct {
	ID    int64          `json:"user_id"`
	Email string         `json:"email,omitempty"`
	Name  string         `json:"name,omitempty"`
	Data  map[string]any `json:"data,omitempty"` // profile returned by the identity provider
}

// Session binds an api key to a user
type Session struct {
	Key     uuid.UUID
	UserID  int64
	Created time.Time
}
