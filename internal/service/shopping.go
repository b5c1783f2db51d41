package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Kerhoff/RecipeBox/internal/models"
	"github.com/Kerhoff/RecipeBox/internal/repository"
)

const msgItemNotFound = "Shopping list item not found"

func normalizeShoppingItem(in *models.ShoppingListItemInput) error {
	in.IngredientName = strings.TrimSpace(in.IngredientName)
	in.IngredientUnit = strings.TrimSpace(in.IngredientUnit)
	in.Quantity = strings.TrimSpace(in.Quantity)
	if in.IngredientName == "" {
		return validationError("Item name is required")
	}
	if in.Quantity == "" {
		return validationError("Quantity cannot be empty")
	}
	return nil
}

// sameItem reports whether an existing row describes the incoming item.
// Ingredient IDs decide when both sides have one, otherwise name and unit.
func sameItem(row *models.ShoppingListItem, in *models.ShoppingListItemInput) bool {
	if row.IngredientID != nil && in.IngredientID != nil {
		return *row.IngredientID == *in.IngredientID
	}
	return strings.EqualFold(strings.TrimSpace(row.IngredientName), in.IngredientName) &&
		strings.EqualFold(strings.TrimSpace(row.IngredientUnit), in.IngredientUnit)
}

// AddShoppingItems merges items into the user's shopping list in one
// transaction and returns the rows it created or changed, in the order they
// were first touched.
func (s *Service) AddShoppingItems(ctx context.Context, items []models.ShoppingListItemInput, userID int64) ([]*models.ShoppingListItem, error) {
	if len(items) == 0 {
		return nil, validationError("No items to add")
	}
	for i := range items {
		if err := normalizeShoppingItem(&items[i]); err != nil {
			return nil, err
		}
	}

	var touched []*models.ShoppingListItem
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		shopping := s.Shopping.WithTx(tx)
		ingredients := s.Ingredients.WithTx(tx)

		existing, err := shopping.GetItems(ctx, userID)
		if err != nil {
			return err
		}

		seen := make(map[int64]bool)
		record := func(item *models.ShoppingListItem) {
			if !seen[item.ID] {
				seen[item.ID] = true
				touched = append(touched, item)
			}
		}

		for i := range items {
			in := &items[i]

			if in.IngredientID != nil {
				ingredient, err := ingredients.GetByID(ctx, *in.IngredientID, userID)
				if err != nil {
					return err
				}
				if ingredient == nil {
					return validationError("Ingredient %d not found", *in.IngredientID)
				}
			}

			merged := false
			for _, row := range existing {
				if !sameItem(row, in) {
					continue
				}
				quantity, ok := mergeQuantities(row.Quantity, in.Quantity)
				if !ok {
					continue
				}
				updated, err := shopping.UpdateQuantity(ctx, row.ID, userID, quantity)
				if err != nil {
					return err
				}
				*row = *updated
				record(row)
				merged = true
				break
			}
			if merged {
				continue
			}

			created, err := shopping.AddItem(ctx, &models.ShoppingListItem{
				IngredientID:   in.IngredientID,
				IngredientName: in.IngredientName,
				IngredientUnit: in.IngredientUnit,
				Quantity:       in.Quantity,
				UserID:         userID,
			})
			if err != nil {
				return err
			}
			existing = append(existing, created)
			record(created)
		}
		return nil
	})
	if err != nil {
		return nil, asServiceError(err, "Failed to add items to shopping list")
	}

	s.logger.Debugf("Shopping list for user %d: %d items touched", userID, len(touched))
	return touched, nil
}

// AddRecipesToShoppingList adds the ingredient lines of the selected recipes.
// Unknown recipes and lines whose ingredient was deleted are skipped.
func (s *Service) AddRecipesToShoppingList(ctx context.Context, recipeIDs []int64, userID int64) ([]*models.ShoppingListItem, error) {
	var items []models.ShoppingListItemInput
	for _, id := range recipeIDs {
		recipe, err := s.GetRecipe(ctx, id, userID)
		if err != nil {
			if errors.Is(err, ErrNotFoundOrForbidden) {
				continue
			}
			return nil, err
		}
		for _, line := range recipe.Ingredients {
			if line.IngredientName == "" {
				continue
			}
			ingredientID := line.IngredientID
			items = append(items, models.ShoppingListItemInput{
				IngredientID:   &ingredientID,
				IngredientName: line.IngredientName,
				IngredientUnit: line.IngredientUnit,
				Quantity:       line.Quantity,
			})
		}
	}

	if len(items) == 0 {
		return nil, validationError("No ingredients found in the selected recipes")
	}
	return s.AddShoppingItems(ctx, items, userID)
}

// ListShoppingItems returns the list oldest first
func (s *Service) ListShoppingItems(ctx context.Context, userID int64) ([]*models.ShoppingListItem, error) {
	items, err := s.Shopping.GetItems(ctx, userID)
	if err != nil {
		return nil, storageError("Failed to get shopping list", err)
	}
	return items, nil
}

func (s *Service) UpdateShoppingItem(ctx context.Context, id int64, quantity string, userID int64) (*models.ShoppingListItem, error) {
	quantity = strings.TrimSpace(quantity)
	if quantity == "" {
		return nil, validationError("Quantity cannot be empty")
	}

	item, err := s.Shopping.UpdateQuantity(ctx, id, userID, quantity)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError(msgItemNotFound)
		}
		return nil, storageError("Failed to update shopping list item", err)
	}
	return item, nil
}

func (s *Service) DeleteShoppingItem(ctx context.Context, id, userID int64) error {
	if err := s.Shopping.DeleteItem(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError(msgItemNotFound)
		}
		return storageError("Failed to delete shopping list item", err)
	}
	return nil
}

// ClearShoppingList removes every item and reports how many were removed
func (s *Service) ClearShoppingList(ctx context.Context, userID int64) (int64, error) {
	n, err := s.Shopping.Clear(ctx, userID)
	if err != nil {
		return 0, storageError("Failed to clear shopping list", err)
	}
	return n, nil
}

// ShoppingListText renders the list as one bullet line per item
func (s *Service) ShoppingListText(ctx context.Context, userID int64) (string, error) {
	items, err := s.ListShoppingItems(ctx, userID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		parts := make([]string, 0, 3)
		for _, p := range []string{item.Quantity, item.IngredientUnit, item.IngredientName} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		b.WriteString("• ")
		b.WriteString(strings.Join(parts, " "))
	}
	return b.String(), nil
}
