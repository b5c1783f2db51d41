package models

import "time"

// User represents a registered account
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Public returns a copy of the user without the password hash
func (u *User) Public() *User {
	return &User{ID: u.ID, Username: u.Username, CreatedAt: u.CreatedAt}
}
