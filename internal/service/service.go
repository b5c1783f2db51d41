package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/RecipeBox/internal/repository"
	"github.com/Kerhoff/RecipeBox/internal/session"
)

// Service is the central business logic layer that holds all repositories
// and provides the credential, catalog, recipe and shopping list operations.
// Stores enforce row ownership only; session checks belong to the caller.
type Service struct {
	db          *sql.DB
	logger      *logrus.Logger
	sessions    *session.Holder
	Users       repository.UserRepository
	Ingredients repository.IngredientRepository
	Recipes     repository.RecipeRepository
	Shopping    repository.ShoppingListRepository
	Maintenance repository.MaintenanceRepository
}

// New creates a new Service with all required dependencies.
func New(db *sql.DB, logger *logrus.Logger, sessions *session.Holder,
	users repository.UserRepository,
	ingredients repository.IngredientRepository,
	recipes repository.RecipeRepository,
	shopping repository.ShoppingListRepository,
	maintenance repository.MaintenanceRepository,
) *Service {
	return &Service{
		db: db, logger: logger, sessions: sessions,
		Users: users, Ingredients: ingredients, Recipes: recipes,
		Shopping: shopping, Maintenance: maintenance,
	}
}

// inTx runs fn inside a transaction, committing only if fn returns nil.
func (s *Service) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
