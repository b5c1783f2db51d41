// Package session keeps the single authenticated session of the running process.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Kerhoff/RecipeBox/internal/models"
)

// Holder stores at most one active session. Starting a new session replaces
// the previous one.
type Holder struct {
	mu      sync.RWMutex
	current *models.Session
}

// NewHolder returns a holder with no active session
func NewHolder() *Holder {
	return &Holder{}
}

// Start replaces any active session with one for user
func (h *Holder) Start(user *models.User) *models.Session {
	s := &models.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		Username:  user.Username,
		StartedAt: time.Now().UTC(),
	}

	h.mu.Lock()
	h.current = s
	h.mu.Unlock()

	return s
}

// Current returns a copy of the active session, or nil
func (h *Holder) Current() *models.Session {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.current == nil {
		return nil
	}
	s := *h.current
	return &s
}

// End clears the active session and returns it, or nil if there was none
func (h *Holder) End() *models.Session {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := h.current
	h.current = nil
	return s
}

// EndIf clears the active session only if it is still the one with id. It
// reports whether a session was cleared.
func (h *Holder) EndIf(id uuid.UUID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current == nil || h.current.ID != id {
		return false
	}
	h.current = nil
	return true
}
