package sqlstore

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/RecipeBox/internal/config"
	"github.com/Kerhoff/RecipeBox/internal/models"
	"github.com/Kerhoff/RecipeBox/internal/repository"
	"github.com/Kerhoff/RecipeBox/pkg/logger"
)

// forEachDriver runs fn against a fresh SQLite database, and against
// PostgreSQL when TEST_DATABASE_URL is set.
func forEachDriver(t *testing.T, fn func(t *testing.T, db *sql.DB)) {
	t.Run("sqlite", func(t *testing.T) {
		fn(t, openTestDB(t, &config.Config{
			DBDriver: config.DriverSQLite,
			DBPath:   filepath.Join(t.TempDir(), "store.db"),
		}))
	})

	url := os.Getenv("TEST_DATABASE_URL")
	t.Run("postgres", func(t *testing.T) {
		if url == "" {
			t.Skip("TEST_DATABASE_URL not set")
		}
		db := openTestDB(t, &config.Config{DBDriver: config.DriverPostgres, DatabaseURL: url})
		require.NoError(t, NewMaintenanceRepository(db).Wipe(context.Background()))
		fn(t, db)
	})
}

func openTestDB(t *testing.T, cfg *config.Config) *sql.DB {
	t.Helper()
	db, err := config.NewDatabase(cfg, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())
	return db.DB
}

func createUser(t *testing.T, db *sql.DB, username string) *models.User {
	t.Helper()
	user, err := NewUserRepository(db).Create(context.Background(), &models.User{
		Username:     username,
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return user
}

func TestUserRepository(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepository(db)

		alice := createUser(t, db, "alice")
		assert.NotZero(t, alice.ID)

		_, err := repo.Create(ctx, &models.User{Username: "alice", PasswordHash: "other"})
		assert.ErrorIs(t, err, repository.ErrDuplicate)

		got, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, alice.ID, got.ID)
		assert.Equal(t, "hash", got.PasswordHash)

		got, err = repo.GetByUsername(ctx, "ALICE")
		require.NoError(t, err)
		assert.Nil(t, got, "username lookup is exact")

		got, err = repo.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.WithinDuration(t, alice.CreatedAt, got.CreatedAt, time.Millisecond)

		got, err = repo.GetByID(ctx, alice.ID+100)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestIngredientRepository(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *sql.DB) {
		ctx := context.Background()
		repo := NewIngredientRepository(db)
		alice := createUser(t, db, "alice")
		bob := createUser(t, db, "bob")

		flour, err := repo.Create(ctx, &models.Ingredient{Name: "Flour", Unit: "cup", UserID: alice.ID})
		require.NoError(t, err)

		found, err := repo.FindByNameAndUnit(ctx, alice.ID, "FLOUR", "Cup")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, flour.ID, found.ID)

		found, err = repo.FindByNameAndUnit(ctx, bob.ID, "Flour", "cup")
		require.NoError(t, err)
		assert.Nil(t, found)

		got, err := repo.GetByID(ctx, flour.ID, bob.ID)
		require.NoError(t, err)
		assert.Nil(t, got)

		_, err = repo.Update(ctx, &models.Ingredient{ID: flour.ID, Name: "X", Unit: "g", UserID: bob.ID})
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, flour.ID, bob.ID), repository.ErrNotFound)

		updated, err := repo.Update(ctx, &models.Ingredient{ID: flour.ID, Name: "Rye Flour", Unit: "cup", UserID: alice.ID})
		require.NoError(t, err)
		assert.Equal(t, "Rye Flour", updated.Name)

		list, err := repo.GetByUserID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)

		require.NoError(t, repo.Delete(ctx, flour.ID, alice.ID))
		list, err = repo.GetByUserID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestRecipeRepositoryCascade(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *sql.DB) {
		ctx := context.Background()
		ingredients := NewIngredientRepository(db)
		recipes := NewRecipeRepository(db)
		maintenance := NewMaintenanceRepository(db)
		alice := createUser(t, db, "alice")

		flour, err := ingredients.Create(ctx, &models.Ingredient{Name: "Flour", Unit: "cup", UserID: alice.ID})
		require.NoError(t, err)

		recipe, err := recipes.Create(ctx, &models.Recipe{Name: "Bread", Servings: 2, TimeNeeded: 60, UserID: alice.ID})
		require.NoError(t, err)

		_, err = recipes.AddIngredient(ctx, &models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: flour.ID, Quantity: "3"})
		require.NoError(t, err)
		for i, step := range []string{"Knead", "Bake"} {
			_, err = recipes.AddInstruction(ctx, &models.RecipeInstruction{RecipeID: recipe.ID, StepNumber: i + 1, Instruction: step})
			require.NoError(t, err)
		}

		_, err = recipes.AddInstruction(ctx, &models.RecipeInstruction{RecipeID: recipe.ID, StepNumber: 1, Instruction: "Dup"})
		assert.Error(t, err, "step numbers are unique per recipe")

		lines, err := recipes.GetIngredients(ctx, recipe.ID)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, "Flour", lines[0].IngredientName)

		require.NoError(t, recipes.Delete(ctx, recipe.ID, alice.ID))
		assert.ErrorIs(t, recipes.Delete(ctx, recipe.ID, alice.ID), repository.ErrNotFound)

		stats, err := maintenance.Stats(ctx)
		require.NoError(t, err)
		assert.Zero(t, stats.Recipes)
		assert.Zero(t, stats.RecipeIngredients)
		assert.Zero(t, stats.RecipeInstructions)
	})
}

func TestRecipeRepositoryRejectsInvalidScalars(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *sql.DB) {
		alice := createUser(t, db, "alice")
		_, err := NewRecipeRepository(db).Create(context.Background(), &models.Recipe{Name: "Bad", Servings: 0, TimeNeeded: 10, UserID: alice.ID})
		assert.Error(t, err)
	})
}

func TestShoppingListRepository(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *sql.DB) {
		ctx := context.Background()
		repo := NewShoppingListRepository(db)
		ingredients := NewIngredientRepository(db)
		alice := createUser(t, db, "alice")
		bob := createUser(t, db, "bob")

		flour, err := ingredients.Create(ctx, &models.Ingredient{Name: "Flour", Unit: "cup", UserID: alice.ID})
		require.NoError(t, err)

		first, err := repo.AddItem(ctx, &models.ShoppingListItem{IngredientID: &flour.ID, IngredientName: "Flour", IngredientUnit: "cup", Quantity: "2", UserID: alice.ID})
		require.NoError(t, err)
		_, err = repo.AddItem(ctx, &models.ShoppingListItem{IngredientName: "Milk", IngredientUnit: "l", Quantity: "1", UserID: alice.ID})
		require.NoError(t, err)

		items, err := repo.GetItems(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, first.ID, items[0].ID, "oldest first")
		assert.Nil(t, items[1].IngredientID)

		_, err = repo.UpdateQuantity(ctx, first.ID, bob.ID, "9")
		assert.ErrorIs(t, err, repository.ErrNotFound)

		updated, err := repo.UpdateQuantity(ctx, first.ID, alice.ID, "3")
		require.NoError(t, err)
		assert.Equal(t, "3", updated.Quantity)

		require.NoError(t, ingredients.Delete(ctx, flour.ID, alice.ID))
		item, err := repo.GetItem(ctx, first.ID, alice.ID)
		require.NoError(t, err)
		require.NotNil(t, item)
		assert.Nil(t, item.IngredientID, "ingredient delete nulls the reference")

		n, err := repo.Clear(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})
}

func TestWithTxRollback(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *sql.DB) {
		ctx := context.Background()
		alice := createUser(t, db, "alice")
		repo := NewIngredientRepository(db)

		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)
		_, err = repo.WithTx(tx).Create(ctx, &models.Ingredient{Name: "Salt", Unit: "tsp", UserID: alice.ID})
		require.NoError(t, err)
		require.NoError(t, tx.Rollback())

		list, err := repo.GetByUserID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestMaintenanceRepository(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *sql.DB) {
		ctx := context.Background()
		repo := NewMaintenanceRepository(db)
		createUser(t, db, "alice")

		dump, err := repo.Dump(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "username", "created_at"}, dump["users"].Columns)
		require.Len(t, dump["users"].Rows, 1)

		res, err := repo.Query(ctx, "SELECT username FROM users")
		require.NoError(t, err)
		assert.Equal(t, "alice", res.Rows[0]["username"])

		require.NoError(t, repo.Wipe(ctx))
		stats, err := repo.Stats(ctx)
		require.NoError(t, err)
		assert.Zero(t, *stats)
	})
}
