package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Kerhoff/RecipeBox/internal/models"
	"github.com/Kerhoff/RecipeBox/internal/repository"
)

type recipeRepository struct {
	db repository.DBTX
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *sql.DB) repository.RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) WithTx(tx *sql.Tx) repository.RecipeRepository {
	return &recipeRepository{db: tx}
}

func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	query := `
		INSERT INTO recipes (name, servings, time_needed, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	recipe.CreatedAt = time.Now().UTC()

	err := r.db.QueryRowContext(ctx, query,
		recipe.Name,
		recipe.Servings,
		recipe.TimeNeeded,
		recipe.UserID,
		recipe.CreatedAt,
	).Scan(&recipe.ID)

	if err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	return recipe, nil
}

func (r *recipeRepository) GetByID(ctx context.Context, id, userID int64) (*models.Recipe, error) {
	query := `
		SELECT id, name, servings, time_needed, user_id, created_at
		FROM recipes
		WHERE id = $1 AND user_id = $2`

	recipe := &models.Recipe{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&recipe.ID,
		&recipe.Name,
		&recipe.Servings,
		&recipe.TimeNeeded,
		&recipe.UserID,
		&recipe.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recipe by ID: %w", err)
	}

	return recipe, nil
}

func (r *recipeRepository) GetByUserID(ctx context.Context, userID int64) ([]*models.Recipe, error) {
	query := `
		SELECT id, name, servings, time_needed, user_id, created_at
		FROM recipes
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	recipes := []*models.Recipe{}
	for rows.Next() {
		recipe := &models.Recipe{}
		if err := rows.Scan(
			&recipe.ID,
			&recipe.Name,
			&recipe.Servings,
			&recipe.TimeNeeded,
			&recipe.UserID,
			&recipe.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}

	return recipes, rows.Err()
}

func (r *recipeRepository) Update(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	query := `
		UPDATE recipes
		SET name = $3, servings = $4, time_needed = $5
		WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query,
		recipe.ID,
		recipe.UserID,
		recipe.Name,
		recipe.Servings,
		recipe.TimeNeeded,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	if err := checkAffected(result); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, recipe.ID, recipe.UserID)
}

// Delete removes the recipe; lines and steps go with it via ON DELETE CASCADE
func (r *recipeRepository) Delete(ctx context.Context, id, userID int64) error {
	query := `DELETE FROM recipes WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	return checkAffected(result)
}

func (r *recipeRepository) AddIngredient(ctx context.Context, line *models.RecipeIngredient) (*models.RecipeIngredient, error) {
	query := `
		INSERT INTO recipe_ingredients (recipe_id, ingredient_id, quantity)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		line.RecipeID,
		line.IngredientID,
		line.Quantity,
	).Scan(&line.ID)

	if err != nil {
		return nil, fmt.Errorf("failed to add recipe ingredient: %w", err)
	}

	return line, nil
}

// GetIngredients returns the recipe's lines with the ingredient name and unit.
// Lines whose ingredient was deleted come back with empty name and unit.
func (r *recipeRepository) GetIngredients(ctx context.Context, recipeID int64) ([]*models.RecipeIngredient, error) {
	query := `
		SELECT ri.id, ri.recipe_id, ri.ingredient_id, ri.quantity,
			COALESCE(i.name, ''), COALESCE(i.unit, '')
		FROM recipe_ingredients ri
		JOIN recipes r ON r.id = ri.recipe_id
		LEFT JOIN ingredients i ON i.id = ri.ingredient_id AND i.user_id = r.user_id
		WHERE ri.recipe_id = $1
		ORDER BY ri.id ASC`

	rows, err := r.db.QueryContext(ctx, query, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipe ingredients: %w", err)
	}
	defer rows.Close()

	lines := []*models.RecipeIngredient{}
	for rows.Next() {
		line := &models.RecipeIngredient{}
		if err := rows.Scan(
			&line.ID,
			&line.RecipeID,
			&line.IngredientID,
			&line.Quantity,
			&line.IngredientName,
			&line.IngredientUnit,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recipe ingredient: %w", err)
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}

func (r *recipeRepository) DeleteIngredients(ctx context.Context, recipeID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, recipeID)
	if err != nil {
		return fmt.Errorf("failed to delete recipe ingredients: %w", err)
	}
	return nil
}

func (r *recipeRepository) AddInstruction(ctx context.Context, step *models.RecipeInstruction) (*models.RecipeInstruction, error) {
	query := `
		INSERT INTO recipe_instructions (recipe_id, step_number, instruction)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		step.RecipeID,
		step.StepNumber,
		step.Instruction,
	).Scan(&step.ID)

	if err != nil {
		return nil, fmt.Errorf("failed to add recipe instruction: %w", err)
	}

	return step, nil
}

func (r *recipeRepository) GetInstructions(ctx context.Context, recipeID int64) ([]*models.RecipeInstruction, error) {
	query := `
		SELECT id, recipe_id, step_number, instruction
		FROM recipe_instructions
		WHERE recipe_id = $1
		ORDER BY step_number ASC`

	rows, err := r.db.QueryContext(ctx, query, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipe instructions: %w", err)
	}
	defer rows.Close()

	steps := []*models.RecipeInstruction{}
	for rows.Next() {
		step := &models.RecipeInstruction{}
		if err := rows.Scan(
			&step.ID,
			&step.RecipeID,
			&step.StepNumber,
			&step.Instruction,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recipe instruction: %w", err)
		}
		steps = append(steps, step)
	}

	return steps, rows.Err()
}

func (r *recipeRepository) DeleteInstructions(ctx context.Context, recipeID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM recipe_instructions WHERE recipe_id = $1`, recipeID)
	if err != nil {
		return fmt.Errorf("failed to delete recipe instructions: %w", err)
	}
	return nil
}
