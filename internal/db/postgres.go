package db

import (
	"database/sql"
	"fmt"

	"github.com/aurashield/aurashield/internal/config"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func ConnectPostgres(cfg *config.Config, log *zap.SugaredLogger) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.PostgresHost,
		cfg.PostgresPort,
		cfg.PostgresUser,
		cfg.PostgresPassword,
		cfg.PostgresDB,
		cfg.PostgresSSLMode,
	)

	database, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := database.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Create schema if it doesn't exist
	createSchemaSQL := fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", cfg.PostgresSchema)
	if _, err := database.Exec(createSchemaSQL); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	setSearchPathSQL := fmt.Sprintf("SET search_path TO %s, public", cfg.PostgresSchema)
	if _, err := database.Exec(setSearchPathSQL); err != nil {
		return nil, fmt.Errorf("failed to set search_path: %w", err)
	}

	if err := runMigrations(database, log); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	database.SetMaxOpenConns(25)
	database.SetMaxIdleConns(5)

	log.Infow("PostgreSQL connection established",
		"database", cfg.PostgresDB, "schema", cfg.PostgresSchema)
	return database, nil
}

func runMigrations(database *sql.DB, log *zap.SugaredLogger) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS resolved_alerts (
			alert_id TEXT PRIMARY KEY,
			resolved_at TIMESTAMP WITH TIME ZONE NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_resolved_alerts_resolved_at ON resolved_alerts(resolved_at)`,
	}

	for i, migration := range migrations {
		if _, err := database.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Info("Migrations completed successfully")
	return nil
}
