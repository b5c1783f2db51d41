package models

import "time"

// ExportVersion is the bundle format version written by recipe export
const ExportVersion = "1.0"

// ExportBundle is the portable recipe file format
type ExportBundle struct {
	Version    string           `json:"version"`
	ExportDate time.Time        `json:"exportDate"`
	Recipes    []ExportedRecipe `json:"recipes"`
}

// ExportedRecipe is a recipe detached from database IDs
type ExportedRecipe struct {
	Name         string               `json:"name"`
	Servings     int                  `json:"servings"`
	TimeNeeded   int                  `json:"time_needed"`
	Ingredients  []ExportedIngredient `json:"ingredients"`
	Instructions []string             `json:"instructions"`
}

// ExportedIngredient identifies an ingredient by name and unit
type ExportedIngredient struct {
	Name     string `json:"name"`
	Unit     string `json:"unit"`
	Quantity string `json:"quantity"`
}

// ImportSummary reports the outcome of a recipe import
type ImportSummary struct {
	Imported int      `json:"imported"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}
