package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Kerhoff/RecipeBox/internal/models"
)

var (
	// ErrNotFound is returned when no row matched an owner-scoped update or delete
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique constraint
	ErrDuplicate = errors.New("duplicate record")
)

// DBTX is the subset of *sql.DB and *sql.Tx used by repositories
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	WithTx(tx *sql.Tx) UserRepository
}

// IngredientRepository defines the interface for ingredient catalog operations.
// Every lookup and mutation is scoped by the owning user.
type IngredientRepository interface {
	Create(ctx context.Context, ingredient *models.Ingredient) (*models.Ingredient, error)
	GetByID(ctx context.Context, id, userID int64) (*models.Ingredient, error)
	GetByUserID(ctx context.Context, userID int64) ([]*models.Ingredient, error)
	FindByNameAndUnit(ctx context.Context, userID int64, name, unit string) (*models.Ingredient, error)
	Update(ctx context.Context, ingredient *models.Ingredient) (*models.Ingredient, error)
	Delete(ctx context.Context, id, userID int64) error
	WithTx(tx *sql.Tx) IngredientRepository
}

// RecipeRepository defines the interface for recipes and their child rows
type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error)
	GetByID(ctx context.Context, id, userID int64) (*models.Recipe, error)
	GetByUserID(ctx context.Context, userID int64) ([]*models.Recipe, error)
	Update(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error)
	Delete(ctx context.Context, id, userID int64) error

	AddIngredient(ctx context.Context, line *models.RecipeIngredient) (*models.RecipeIngredient, error)
	GetIngredients(ctx context.Context, recipeID int64) ([]*models.RecipeIngredient, error)
	DeleteIngredients(ctx context.Context, recipeID int64) error

	AddInstruction(ctx context.Context, step *models.RecipeInstruction) (*models.RecipeInstruction, error)
	GetInstructions(ctx context.Context, recipeID int64) ([]*models.RecipeInstruction, error)
	DeleteInstructions(ctx context.Context, recipeID int64) error

	WithTx(tx *sql.Tx) RecipeRepository
}

// ShoppingListRepository defines the interface for shopping list operations
type ShoppingListRepository interface {
	AddItem(ctx context.Context, item *models.ShoppingListItem) (*models.ShoppingListItem, error)
	GetItem(ctx context.Context, id, userID int64) (*models.ShoppingListItem, error)
	GetItems(ctx context.Context, userID int64) ([]*models.ShoppingListItem, error)
	UpdateQuantity(ctx context.Context, id, userID int64, quantity string) (*models.ShoppingListItem, error)
	DeleteItem(ctx context.Context, id, userID int64) error
	Clear(ctx context.Context, userID int64) (int64, error)
	WithTx(tx *sql.Tx) ShoppingListRepository
}

// MaintenanceRepository defines whole-database diagnostic operations
type MaintenanceRepository interface {
	Stats(ctx context.Context) (*models.DatabaseStats, error)
	Wipe(ctx context.Context) error
	Dump(ctx context.Context) (map[string]*models.QueryResult, error)
	Query(ctx context.Context, query string) (*models.QueryResult, error)
	WithTx(tx *sql.Tx) MaintenanceRepository
}
