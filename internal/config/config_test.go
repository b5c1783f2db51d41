package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/RecipeBox/pkg/logger"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DB_DRIVER", "DATABASE_URL", "DB_PATH", "LOG_LEVEL", "APP_ENV", "HTTP_ADDR", "PROMETHEUS_PORT"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_PATH", "/tmp/recipes.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "/tmp/recipes.db", cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, "127.0.0.1:5124", cfg.HTTPAddr)
	assert.Equal(t, "9090", cfg.PrometheusPort)
	assert.False(t, cfg.IsDev())
}

func TestLoadDefaultDBPath(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "recipe-tracker.db", filepath.Base(cfg.DBPath))
	assert.Equal(t, "recipebox", filepath.Base(filepath.Dir(cfg.DBPath)))
}

func TestLoadPostgres(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "Postgres")

	_, err := Load()
	assert.Error(t, err, "DATABASE_URL is required")

	t.Setenv("DATABASE_URL", "postgres://localhost/recipes?sslmode=disable")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Empty(t, cfg.DBPath)
}

func TestLoadUnsupportedDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "mysql")

	_, err := Load()
	assert.Error(t, err)
}

func TestIsDev(t *testing.T) {
	assert.True(t, (&Config{AppEnv: "development"}).IsDev())
	assert.True(t, (&Config{AppEnv: "Development"}).IsDev())
	assert.False(t, (&Config{AppEnv: "dev"}).IsDev())
	assert.False(t, (&Config{}).IsDev())
}

func TestMetricsEnabled(t *testing.T) {
	assert.True(t, (&Config{PrometheusPort: "9090"}).MetricsEnabled())
	assert.False(t, (&Config{PrometheusPort: "0"}).MetricsEnabled())
	assert.False(t, (&Config{}).MetricsEnabled())
}

func TestSQLiteDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "test.db")
	db, err := NewDatabase(&Config{DBDriver: DriverSQLite, DBPath: path}, logger.Discard())
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, DriverSQLite, db.Driver())
	require.NoError(t, db.Migrate())
	require.NoError(t, db.Migrate(), "migrating twice is a no-op")

	// Migrations use their own handle; the application handle stays open
	// and holds no extra connections afterwards.
	require.NoError(t, db.Ping())
	assert.LessOrEqual(t, db.Stats().OpenConnections, 1)

	var fk int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	for _, table := range []string{"users", "ingredients", "recipes", "recipe_ingredients", "recipe_instructions", "shopping_list"} {
		var n int
		err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = $1`, table).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, table)
	}
}

func TestNewDatabaseUnsupportedDriver(t *testing.T) {
	_, err := NewDatabase(&Config{DBDriver: "oracle"}, logger.Discard())
	assert.Error(t, err)
}
