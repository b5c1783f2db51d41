package models

import "time"

// Recipe represents a recipe. Ingredients and Instructions are only
// populated when the full recipe is loaded.
type Recipe struct {
	ID           int64                `json:"id" db:"id"`
	Name         string               `json:"name" db:"name"`
	Servings     int                  `json:"servings" db:"servings"`
	TimeNeeded   int                  `json:"time_needed" db:"time_needed"`
	UserID       int64                `json:"user_id" db:"user_id"`
	CreatedAt    time.Time            `json:"created_at" db:"created_at"`
	Ingredients  []*RecipeIngredient  `json:"ingredients,omitempty"`
	Instructions []*RecipeInstruction `json:"instructions,omitempty"`
}

// RecipeIngredient links a recipe to an ingredient with a free-text quantity
type RecipeIngredient struct {
	ID             int64  `json:"id" db:"id"`
	RecipeID       int64  `json:"recipe_id" db:"recipe_id"`
	IngredientID   int64  `json:"ingredient_id" db:"ingredient_id"`
	Quantity       string `json:"quantity" db:"quantity"`
	IngredientName string `json:"ingredient_name" db:"ingredient_name"`
	IngredientUnit string `json:"ingredient_unit" db:"ingredient_unit"`
}

// RecipeInstruction is one numbered step of a recipe
type RecipeInstruction struct {
	ID          int64  `json:"id" db:"id"`
	RecipeID    int64  `json:"recipe_id" db:"recipe_id"`
	StepNumber  int    `json:"step_number" db:"step_number"`
	Instruction string `json:"instruction" db:"instruction"`
}

// RecipeInput is the payload for creating or replacing a recipe
type RecipeInput struct {
	Name         string                  `json:"name"`
	Servings     int                     `json:"servings"`
	TimeNeeded   int                     `json:"timeNeeded"`
	Ingredients  []RecipeIngredientInput `json:"ingredients"`
	Instructions []string                `json:"instructions"`
}

// RecipeIngredientInput references an existing ingredient by ID
type RecipeIngredientInput struct {
	IngredientID int64  `json:"ingredientId"`
	Quantity     string `json:"quantity"`
}
