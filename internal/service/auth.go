package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/Kerhoff/RecipeBox/internal/models"
	"github.com/Kerhoff/RecipeBox/internal/repository"
)

const (
	minUsernameLength = 3
	minPasswordLength = 6
	bcryptCost        = 10

	msgInvalidCredentials = "Invalid username or password"
)

// Register creates an account and returns its public fields
func (s *Service) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if len(username) < minUsernameLength {
		return nil, validationError("Username must be at least %d characters long", minUsernameLength)
	}
	if len(strings.TrimSpace(password)) < minPasswordLength {
		return nil, validationError("Password must be at least %d characters long", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, validationError("Password must be at most 72 bytes long")
		}
		return nil, opaqueStorageError("Failed to create account", err)
	}

	user, err := s.Users.Create(ctx, &models.User{
		Username:     username,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflictError("Username already exists")
		}
		s.logger.WithError(err).Error("failed to create user")
		return nil, opaqueStorageError("Failed to create account", err)
	}

	s.logger.Infof("Registered user %q (id=%d)", user.Username, user.ID)
	return user.Public(), nil
}

// Login verifies credentials and replaces the active session. Unknown users
// and wrong passwords produce the same error.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.Users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		s.logger.WithError(err).Error("failed to look up user")
		return nil, opaqueStorageError("Login failed", err)
	}
	if user == nil {
		return nil, authError(msgInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, authError(msgInvalidCredentials)
	}

	sess := s.sessions.Start(user)
	s.logger.WithFields(logrus.Fields{
		"user_id":    user.ID,
		"session_id": sess.ID,
	}).Info("User logged in")

	return user.Public(), nil
}

// Logout ends the active session, if any
func (s *Service) Logout(ctx context.Context) error {
	if sess := s.sessions.End(); sess != nil {
		s.logger.WithFields(logrus.Fields{
			"user_id":    sess.UserID,
			"session_id": sess.ID,
		}).Info("User logged out")
	}
	return nil
}

// CurrentUser returns the session's user or nil. It never fails: if the
// user record cannot be read the session's own fields are returned.
func (s *Service) CurrentUser(ctx context.Context) *models.User {
	sess := s.sessions.Current()
	if sess == nil {
		return nil
	}

	user, err := s.Users.GetByID(ctx, sess.UserID)
	if err != nil {
		s.logger.WithError(err).Debug("failed to load session user, using session fields")
		return sess.User()
	}
	if user == nil {
		// The account disappeared underneath the session. A login that
		// happened meanwhile owns a different session and is kept.
		s.sessions.EndIf(sess.ID)
		return nil
	}

	return user.Public()
}
