package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// DriverSQLite stores data in a local SQLite file
	DriverSQLite = "sqlite"
	// DriverPostgres stores data in a PostgreSQL database
	DriverPostgres = "postgres"

	envDevelopment = "development"
	defaultDBFile  = "recipe-tracker.db"
)

// Config holds all configuration for the application
type Config struct {
	DBDriver       string
	DatabaseURL    string
	DBPath         string
	LogLevel       string
	AppEnv         string
	HTTPAddr       string
	PrometheusPort string
}

// Load loads configuration from the environment. A .env file in the working
// directory is read first when present; real environment variables win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	cfg := &Config{
		DBDriver:       strings.ToLower(getEnvOrDefault("DB_DRIVER", DriverSQLite)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		AppEnv:         getEnvOrDefault("APP_ENV", "production"),
		HTTPAddr:       getEnvOrDefault("HTTP_ADDR", "127.0.0.1:5124"),
		PrometheusPort: getEnvOrDefault("PROMETHEUS_PORT", "9090"),
	}

	switch cfg.DBDriver {
	case DriverSQLite:
		cfg.DBPath = os.Getenv("DB_PATH")
		if cfg.DBPath == "" {
			path, err := defaultDBPath()
			if err != nil {
				return nil, err
			}
			cfg.DBPath = path
		}
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is required for the postgres driver")
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (want %s or %s)", cfg.DBDriver, DriverSQLite, DriverPostgres)
	}

	return cfg, nil
}

// IsDev reports whether development-only tooling is enabled
func (c *Config) IsDev() bool {
	return strings.EqualFold(c.AppEnv, envDevelopment)
}

// MetricsEnabled reports whether the Prometheus listener should start
func (c *Config) MetricsEnabled() bool {
	return c.PrometheusPort != "" && c.PrometheusPort != "0"
}

// defaultDBPath places the database in the per-user config directory
func defaultDBPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "recipebox", defaultDBFile), nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
