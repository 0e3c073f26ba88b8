package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // PostgreSQL driver for migrate
	_ "github.com/golang-migrate/migrate/v4/source/file"       // File source for migrate
	"github.com/jackc/pgx/v5/pgxpool"
)

// ConnectPostgres establishes a connection pool to PostgreSQL.
func ConnectPostgres(dbSourceURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dbSourceURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute
	config.HealthCheckPeriod = time.Minute
	config.ConnConfig.ConnectTimeout = 5 * time.Second

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	log.Println("Successfully connected to PostgreSQL database!")
	return pool, nil
}

// RunMigrations applies database migrations.
// migrationURL: e.g., "file://./migrations"
// dbSourceURL: the same DSN used for the connection pool.
func RunMigrations(migrationURL string, dbSourceURL string) error {
	if migrationURL == "" {
		log.Println("MIGRATION_URL is not set, skipping migrations.")
		return nil
	}

	m, err := migrate.New(migrationURL, dbSourceURL)
	if err != nil {
		return fmt.Errorf("cannot create migrate instance: %w", err)
	}

	if err = m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Println("No new migrations to apply.")
			return nil
		}
		return fmt.Errorf("error running migrations up: %w", err)
	}

	log.Println("Database migrations applied successfully!")
	return nil
}
