package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/RecipeBox/internal/config"
	"github.com/Kerhoff/RecipeBox/internal/models"
	"github.com/Kerhoff/RecipeBox/internal/repository/sqlstore"
	"github.com/Kerhoff/RecipeBox/internal/session"
	"github.com/Kerhoff/RecipeBox/pkg/logger"
)

// newTestService returns a service backed by a migrated SQLite file in a
// temporary directory.
func newTestService(t *testing.T) *Service {
	t.Helper()

	log := logger.Discard()
	db, err := config.NewDatabase(&config.Config{
		DBDriver: config.DriverSQLite,
		DBPath:   filepath.Join(t.TempDir(), "test.db"),
	}, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())

	return New(db.DB, log, session.NewHolder(),
		sqlstore.NewUserRepository(db.DB),
		sqlstore.NewIngredientRepository(db.DB),
		sqlstore.NewRecipeRepository(db.DB),
		sqlstore.NewShoppingListRepository(db.DB),
		sqlstore.NewMaintenanceRepository(db.DB),
	)
}

func mustRegister(t *testing.T, svc *Service, username string) *models.User {
	t.Helper()
	user, err := svc.Register(context.Background(), username, "password123")
	require.NoError(t, err)
	return user
}

func mustIngredient(t *testing.T, svc *Service, userID int64, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient, err := svc.AddIngredient(context.Background(), name, unit, userID)
	require.NoError(t, err)
	return ingredient
}

func pancakesInput(flourID, sugarID int64) models.RecipeInput {
	return models.RecipeInput{
		Name:       "Pancakes",
		Servings:   4,
		TimeNeeded: 20,
		Ingredients: []models.RecipeIngredientInput{
			{IngredientID: flourID, Quantity: "2"},
			{IngredientID: sugarID, Quantity: "1"},
		},
		Instructions: []string{"Mix", "Cook"},
	}
}
