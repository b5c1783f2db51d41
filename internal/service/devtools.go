package service

import (
	"context"
	"database/sql"
	"regexp"
	"strings"

	"github.com/Kerhoff/RecipeBox/internal/models"
)

type sampleIngredient struct {
	name, unit, quantity string
}

type sampleRecipe struct {
	name         string
	servings     int
	timeNeeded   int
	ingredients  []sampleIngredient
	instructions []string
}

var sampleCatalog = []sampleIngredient{
	{name: "Flour", unit: "cups"},
	{name: "Sugar", unit: "cups"},
	{name: "Eggs", unit: "pieces"},
	{name: "Milk", unit: "cups"},
	{name: "Butter", unit: "tbsp"},
	{name: "Salt", unit: "tsp"},
}

var sampleRecipes = []sampleRecipe{
	{
		name:       "Pancakes",
		servings:   4,
		timeNeeded: 20,
		ingredients: []sampleIngredient{
			{"Flour", "cups", "1 1/2"},
			{"Milk", "cups", "1 1/4"},
			{"Eggs", "pieces", "1"},
			{"Sugar", "cups", "1/4"},
			{"Butter", "tbsp", "3"},
			{"Salt", "tsp", "1/2"},
		},
		instructions: []string{
			"Whisk flour, sugar and salt in a large bowl",
			"Melt the butter and whisk it with the milk and egg",
			"Pour the wet ingredients into the dry ones and stir until just combined",
			"Cook 1/4 cup portions on a hot griddle until golden on both sides",
		},
	},
	{
		name:       "Sugar Cookies",
		servings:   24,
		timeNeeded: 35,
		ingredients: []sampleIngredient{
			{"Flour", "cups", "2 3/4"},
			{"Sugar", "cups", "1 1/2"},
			{"Butter", "tbsp", "16"},
			{"Eggs", "pieces", "1"},
			{"Salt", "tsp", "1/4"},
		},
		instructions: []string{
			"Cream the butter and sugar until smooth",
			"Beat in the egg",
			"Mix in the flour and salt",
			"Roll into balls and bake at 375°F for 8 to 10 minutes",
		},
	},
}

// pragmaPattern matches "PRAGMA name" and "PRAGMA name(arg)" with an
// optional schema prefix. The "= value" form never matches.
var pragmaPattern = regexp.MustCompile("(?i)^PRAGMA\\s+(?:\\w+\\.)?(\\w+)\\s*(?:\\(\\s*[\\w\"'`]+\\s*\\))?$")

// readPragmasWithArgument are the pragmas whose argument form only reads.
// For every other pragma "name(value)" is an assignment.
var readPragmasWithArgument = map[string]bool{
	"table_info":        true,
	"table_xinfo":       true,
	"table_list":        true,
	"index_list":        true,
	"index_info":        true,
	"index_xinfo":       true,
	"foreign_key_list":  true,
	"foreign_key_check": true,
	"integrity_check":   true,
	"quick_check":       true,
}

// checkPragma allows only the read forms of PRAGMA
func checkPragma(query string) error {
	m := pragmaPattern.FindStringSubmatch(query)
	if m == nil {
		return validationError("Only read-only PRAGMA statements are allowed")
	}
	if strings.Contains(query, "(") && !readPragmasWithArgument[strings.ToLower(m[1])] {
		return validationError("Only read-only PRAGMA statements are allowed")
	}
	return nil
}

// WipeDatabase deletes every row of every table and ends the session
func (s *Service) WipeDatabase(ctx context.Context) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		return s.Maintenance.WithTx(tx).Wipe(ctx)
	})
	if err != nil {
		return storageError("Failed to wipe database", err)
	}

	s.sessions.End()
	s.logger.Warn("Database wiped")
	return nil
}

// DatabaseStats returns row counts per table
func (s *Service) DatabaseStats(ctx context.Context) (*models.DatabaseStats, error) {
	stats, err := s.Maintenance.Stats(ctx)
	if err != nil {
		return nil, storageError("Failed to get database stats", err)
	}
	return stats, nil
}

// SeedDatabase adds the sample catalog and recipes for the user. Catalog
// entries the user already has are reused.
func (s *Service) SeedDatabase(ctx context.Context, userID int64) (*models.DatabaseStats, error) {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		ingredients := s.Ingredients.WithTx(tx)

		ids := make(map[string]int64, len(sampleCatalog))
		for _, sample := range sampleCatalog {
			ingredient, err := resolveIngredient(ctx, ingredients, userID, sample.name, sample.unit)
			if err != nil {
				return err
			}
			ids[sample.name] = ingredient.ID
		}

		for _, sample := range sampleRecipes {
			in := models.RecipeInput{
				Name:         sample.name,
				Servings:     sample.servings,
				TimeNeeded:   sample.timeNeeded,
				Instructions: append([]string(nil), sample.instructions...),
			}
			for _, ing := range sample.ingredients {
				in.Ingredients = append(in.Ingredients, models.RecipeIngredientInput{
					IngredientID: ids[ing.name],
					Quantity:     ing.quantity,
				})
			}
			if _, err := s.createRecipe(ctx, tx, &in, userID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, asServiceError(err, "Failed to seed database")
	}

	s.logger.Infof("Seeded sample data for user %d", userID)
	return s.DatabaseStats(ctx)
}

// ExportDatabase returns every table's rows; password hashes are omitted
func (s *Service) ExportDatabase(ctx context.Context) (map[string]*models.QueryResult, error) {
	dump, err := s.Maintenance.Dump(ctx)
	if err != nil {
		return nil, storageError("Failed to export database", err)
	}
	return dump, nil
}

// ExecuteQuery runs a single read-only diagnostic statement
func (s *Service) ExecuteQuery(ctx context.Context, query string) (*models.QueryResult, error) {
	query = strings.TrimSpace(query)
	query = strings.TrimSpace(strings.TrimRight(query, ";"))
	if query == "" {
		return nil, validationError("Query is required")
	}

	upper := strings.ToUpper(query)
	if !strings.HasPrefix(upper, "SELECT") && !strings.HasPrefix(upper, "PRAGMA") {
		return nil, validationError("Only SELECT and PRAGMA queries are allowed")
	}
	if strings.Contains(query, ";") {
		return nil, validationError("Only a single statement is allowed")
	}
	if strings.HasPrefix(upper, "PRAGMA") {
		if err := checkPragma(query); err != nil {
			return nil, err
		}
	}

	result, err := s.Maintenance.Query(ctx, query)
	if err != nil {
		return nil, storageError("Query failed", err)
	}

	s.logger.WithField("query", query).Debug("Executed diagnostic query")
	return result, nil
}
