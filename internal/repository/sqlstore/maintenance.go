package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Kerhoff/RecipeBox/internal/models"
	"github.com/Kerhoff/RecipeBox/internal/repository"
)

// wipeOrder lists tables children first so deletes never trip a foreign key
var wipeOrder = []string{
	"shopping_list",
	"recipe_instructions",
	"recipe_ingredients",
	"recipes",
	"ingredients",
	"users",
}

// dumpQueries selects every table for export; password hashes stay out
var dumpQueries = map[string]string{
	"users":               `SELECT id, username, created_at FROM users ORDER BY id`,
	"ingredients":         `SELECT * FROM ingredients ORDER BY id`,
	"recipes":             `SELECT * FROM recipes ORDER BY id`,
	"recipe_ingredients":  `SELECT * FROM recipe_ingredients ORDER BY id`,
	"recipe_instructions": `SELECT * FROM recipe_instructions ORDER BY id`,
	"shopping_list":       `SELECT * FROM shopping_list ORDER BY id`,
}

type maintenanceRepository struct {
	db repository.DBTX
}

// NewMaintenanceRepository creates a repository for whole-database diagnostics
func NewMaintenanceRepository(db *sql.DB) repository.MaintenanceRepository {
	return &maintenanceRepository{db: db}
}

func (r *maintenanceRepository) WithTx(tx *sql.Tx) repository.MaintenanceRepository {
	return &maintenanceRepository{db: tx}
}

func (r *maintenanceRepository) Stats(ctx context.Context) (*models.DatabaseStats, error) {
	stats := &models.DatabaseStats{}
	counts := []struct {
		table string
		dst   *int64
	}{
		{"users", &stats.Users},
		{"ingredients", &stats.Ingredients},
		{"recipes", &stats.Recipes},
		{"recipe_ingredients", &stats.RecipeIngredients},
		{"recipe_instructions", &stats.RecipeInstructions},
		{"shopping_list", &stats.ShoppingListItems},
	}

	for _, c := range counts {
		if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+c.table).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.table, err)
		}
	}

	return stats, nil
}

func (r *maintenanceRepository) Wipe(ctx context.Context) error {
	for _, table := range wipeOrder {
		if _, err := r.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to wipe %s: %w", table, err)
		}
	}
	return nil
}

func (r *maintenanceRepository) Dump(ctx context.Context) (map[string]*models.QueryResult, error) {
	out := make(map[string]*models.QueryResult, len(dumpQueries))
	for table, query := range dumpQueries {
		res, err := r.Query(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to dump %s: %w", table, err)
		}
		out[table] = res
	}
	return out, nil
}

// Query runs a read statement and returns its rows keyed by column name
func (r *maintenanceRepository) Query(ctx context.Context, query string) (*models.QueryResult, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	result := &models.QueryResult{Columns: columns, Rows: []map[string]any{}}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		result.Rows = append(result.Rows, row)
	}

	return result, rows.Err()
}
