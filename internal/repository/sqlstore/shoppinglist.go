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

type shoppingListRepository struct {
	db repository.DBTX
}

// NewShoppingListRepository creates a new shopping list repository
func NewShoppingListRepository(db *sql.DB) repository.ShoppingListRepository {
	return &shoppingListRepository{db: db}
}

func (r *shoppingListRepository) WithTx(tx *sql.Tx) repository.ShoppingListRepository {
	return &shoppingListRepository{db: tx}
}

func (r *shoppingListRepository) AddItem(ctx context.Context, item *models.ShoppingListItem) (*models.ShoppingListItem, error) {
	query := `
		INSERT INTO shopping_list (ingredient_id, ingredient_name, ingredient_unit, quantity, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	item.CreatedAt = time.Now().UTC()

	err := r.db.QueryRowContext(ctx, query,
		item.IngredientID,
		item.IngredientName,
		item.IngredientUnit,
		item.Quantity,
		item.UserID,
		item.CreatedAt,
	).Scan(&item.ID)

	if err != nil {
		return nil, fmt.Errorf("failed to add shopping list item: %w", err)
	}

	return item, nil
}

func (r *shoppingListRepository) GetItem(ctx context.Context, id, userID int64) (*models.ShoppingListItem, error) {
	query := `
		SELECT id, ingredient_id, ingredient_name, ingredient_unit, quantity, user_id, created_at
		FROM shopping_list
		WHERE id = $1 AND user_id = $2`

	item := &models.ShoppingListItem{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&item.ID,
		&item.IngredientID,
		&item.IngredientName,
		&item.IngredientUnit,
		&item.Quantity,
		&item.UserID,
		&item.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shopping list item: %w", err)
	}

	return item, nil
}

func (r *shoppingListRepository) GetItems(ctx context.Context, userID int64) ([]*models.ShoppingListItem, error) {
	query := `
		SELECT id, ingredient_id, ingredient_name, ingredient_unit, quantity, user_id, created_at
		FROM shopping_list
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shopping list: %w", err)
	}
	defer rows.Close()

	items := []*models.ShoppingListItem{}
	for rows.Next() {
		item := &models.ShoppingListItem{}
		if err := rows.Scan(
			&item.ID,
			&item.IngredientID,
			&item.IngredientName,
			&item.IngredientUnit,
			&item.Quantity,
			&item.UserID,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan shopping list item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *shoppingListRepository) UpdateQuantity(ctx context.Context, id, userID int64, quantity string) (*models.ShoppingListItem, error) {
	query := `
		UPDATE shopping_list
		SET quantity = $3
		WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID, quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to update shopping list item: %w", err)
	}
	if err := checkAffected(result); err != nil {
		return nil, err
	}

	return r.GetItem(ctx, id, userID)
}

func (r *shoppingListRepository) DeleteItem(ctx context.Context, id, userID int64) error {
	query := `DELETE FROM shopping_list WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete shopping list item: %w", err)
	}

	return checkAffected(result)
}

func (r *shoppingListRepository) Clear(ctx context.Context, userID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM shopping_list WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear shopping list: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return n, nil
}
