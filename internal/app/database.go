package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/newrelic/go-agent/v3/integrations/nrpq" // Registers "nrpostgres" driver
	"github.com/newrelic/go-agent/v3/newrelic"

	"ridehail/internal/config"
	"ridehail/internal/repository/postgres"
)

// NewDatabase opens PostgreSQL and applies the schema.
// If nrApp is provided, it uses New Relic instrumented driver for automatic SQL tracing.
func NewDatabase(ctx context.Context, cfg config.DatabaseConfig, nrApp *newrelic.Application) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	var db *sql.DB
	var err error

	// Use New Relic instrumented driver if New Relic is enabled
	// The "nrpostgres" driver is automatically registered by the nrpq import
	if nrApp != nil {
		db, err = sql.Open("nrpostgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open database with nrpq: %w", err)
		}
	} else {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
	}

	// Pool sizing for a small API fleet sharing one database.
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	// Verify connection.
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
