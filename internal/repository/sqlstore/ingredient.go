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

type ingredientRepository struct {
	db repository.DBTX
}

// NewIngredientRepository creates a new ingredient repository
func NewIngredientRepository(db *sql.DB) repository.IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) WithTx(tx *sql.Tx) repository.IngredientRepository {
	return &ingredientRepository{db: tx}
}

func (r *ingredientRepository) Create(ctx context.Context, ingredient *models.Ingredient) (*models.Ingredient, error) {
	query := `
		INSERT INTO ingredients (name, unit, user_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	ingredient.CreatedAt = time.Now().UTC()

	err := r.db.QueryRowContext(ctx, query,
		ingredient.Name,
		ingredient.Unit,
		ingredient.UserID,
		ingredient.CreatedAt,
	).Scan(&ingredient.ID)

	if err != nil {
		return nil, fmt.Errorf("failed to create ingredient: %w", err)
	}

	return ingredient, nil
}

func (r *ingredientRepository) GetByID(ctx context.Context, id, userID int64) (*models.Ingredient, error) {
	query := `
		SELECT id, name, unit, user_id, created_at
		FROM ingredients
		WHERE id = $1 AND user_id = $2`

	ingredient := &models.Ingredient{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&ingredient.ID,
		&ingredient.Name,
		&ingredient.Unit,
		&ingredient.UserID,
		&ingredient.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ingredient by ID: %w", err)
	}

	return ingredient, nil
}

func (r *ingredientRepository) GetByUserID(ctx context.Context, userID int64) ([]*models.Ingredient, error) {
	query := `
		SELECT id, name, unit, user_id, created_at
		FROM ingredients
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingredients: %w", err)
	}
	defer rows.Close()

	ingredients := []*models.Ingredient{}
	for rows.Next() {
		ingredient := &models.Ingredient{}
		if err := rows.Scan(
			&ingredient.ID,
			&ingredient.Name,
			&ingredient.Unit,
			&ingredient.UserID,
			&ingredient.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, ingredient)
	}

	return ingredients, rows.Err()
}

// FindByNameAndUnit matches name and unit case-insensitively
func (r *ingredientRepository) FindByNameAndUnit(ctx context.Context, userID int64, name, unit string) (*models.Ingredient, error) {
	query := `
		SELECT id, name, unit, user_id, created_at
		FROM ingredients
		WHERE user_id = $1 AND LOWER(name) = LOWER($2) AND LOWER(unit) = LOWER($3)
		ORDER BY id ASC
		LIMIT 1`

	ingredient := &models.Ingredient{}
	err := r.db.QueryRowContext(ctx, query, userID, name, unit).Scan(
		&ingredient.ID,
		&ingredient.Name,
		&ingredient.Unit,
		&ingredient.UserID,
		&ingredient.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find ingredient by name: %w", err)
	}

	return ingredient, nil
}

func (r *ingredientRepository) Update(ctx context.Context, ingredient *models.Ingredient) (*models.Ingredient, error) {
	query := `
		UPDATE ingredients
		SET name = $3, unit = $4
		WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query,
		ingredient.ID,
		ingredient.UserID,
		ingredient.Name,
		ingredient.Unit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update ingredient: %w", err)
	}
	if err := checkAffected(result); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, ingredient.ID, ingredient.UserID)
}

func (r *ingredientRepository) Delete(ctx context.Context, id, userID int64) error {
	query := `DELETE FROM ingredients WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete ingredient: %w", err)
	}

	return checkAffected(result)
}
