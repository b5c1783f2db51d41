package config

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// Database holds database connection and configuration
type Database struct {
	*sql.DB
	driver string
	open   func() (*sql.DB, error)
	logger *logrus.Logger
}

// NewDatabase opens the database selected by cfg and verifies the connection
func NewDatabase(cfg *Config, logger *logrus.Logger) (*Database, error) {
	var open func() (*sql.DB, error)
	switch cfg.DBDriver {
	case DriverSQLite:
		open = func() (*sql.DB, error) { return openSQLite(cfg.DBPath) }
	case DriverPostgres:
		open = func() (*sql.DB, error) { return openPostgres(cfg.DatabaseURL) }
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	db, err := open()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.WithField("driver", cfg.DBDriver).Info("Database connection established successfully")

	return &Database{
		DB:     db,
		driver: cfg.DBDriver,
		open:   open,
		logger: logger,
	}, nil
}

func openSQLite(path string) (*sql.DB, error) {
	if path == "" {
		return nil, errors.New("sqlite database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection serializes writers and keeps the pragmas in effect.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db, nil
}

func openPostgres(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// Driver returns the configured driver name
func (d *Database) Driver() string {
	return d.driver
}

// Migrate applies the embedded migrations for the configured driver
func (d *Database) Migrate() error {
	src, err := iofs.New(migrationsFS, "migrations/"+d.driver)
	if err != nil {
		return fmt.Errorf("failed to open migration source: %w", err)
	}

	// Migrations run on their own handle; closing m releases it together
	// with any connection the driver pinned.
	mdb, err := d.open()
	if err != nil {
		_ = src.Close()
		return fmt.Errorf("failed to open migration connection: %w", err)
	}

	var driver database.Driver
	switch d.driver {
	case DriverSQLite:
		driver, err = sqlite.WithInstance(mdb, &sqlite.Config{})
	case DriverPostgres:
		driver, err = postgres.WithInstance(mdb, &postgres.Config{})
	default:
		err = fmt.Errorf("unsupported database driver %q", d.driver)
	}
	if err != nil {
		_ = src.Close()
		_ = mdb.Close()
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, d.driver, driver)
	if err != nil {
		_ = src.Close()
		_ = driver.Close()
		return fmt.Errorf("failed to create migration instance: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			d.logger.Warnf("failed to close migration instance: source=%v database=%v", srcErr, dbErr)
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.logger.Info("Database migrations completed successfully")
	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
