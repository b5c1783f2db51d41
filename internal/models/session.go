package models

import (
	"time"

	"github.com/google/uuid"
)

// Session identifies the user currently authenticated in the running process
type Session struct {
	ID        uuid.UUID `json:"id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	StartedAt time.Time `json:"started_at"`
}

// User returns the session's user with only the fields the session knows about
func (s *Session) User() *User {
	return &User{ID: s.UserID, Username: s.Username}
}
