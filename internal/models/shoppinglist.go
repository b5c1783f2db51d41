package models

import "time"

// ShoppingListItem is one line of a user's shopping list. Name and unit are
// copied from the ingredient so the item survives ingredient edits.
type ShoppingListItem struct {
	ID             int64     `json:"id" db:"id"`
	IngredientID   *int64    `json:"ingredient_id" db:"ingredient_id"`
	IngredientName string    `json:"ingredient_name" db:"ingredient_name"`
	IngredientUnit string    `json:"ingredient_unit" db:"ingredient_unit"`
	Quantity       string    `json:"quantity" db:"quantity"`
	UserID         int64     `json:"user_id" db:"user_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// ShoppingListItemInput is an item to merge into the shopping list
type ShoppingListItemInput struct {
	IngredientID   *int64 `json:"ingredientId,omitempty"`
	IngredientName string `json:"ingredientName"`
	IngredientUnit string `json:"ingredientUnit"`
	Quantity       string `json:"quantity"`
}
