package models

// DatabaseStats holds row counts per table
type DatabaseStats struct {
	Users              int64 `json:"users"`
	Ingredients        int64 `json:"ingredients"`
	Recipes            int64 `json:"recipes"`
	RecipeIngredients  int64 `json:"recipe_ingredients"`
	RecipeInstructions int64 `json:"recipe_instructions"`
	ShoppingListItems  int64 `json:"shopping_list"`
}

// QueryResult is the tabular output of a diagnostic query
type QueryResult struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}
