package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

// schema creates the shoes table if it doesn't exist
const schema = `
CREATE TABLE IF NOT EXISTS shoes (
	slug          TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	image_src     TEXT NOT NULL DEFAULT '',
	price         NUMERIC(10, 2) NOT NULL DEFAULT 0,
	sale_price    NUMERIC(10, 2),
	release_date  DATE NOT NULL,
	num_of_colors INTEGER NOT NULL DEFAULT 0,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// InitDB opens and pings the database connection
func InitDB(ctx context.Context, connStr string, logger *zap.Logger) (*sql.DB, error) {
	conn, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	// Test the connection
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("✓ Database connection established successfully")
	return conn, nil
}

// EnsureSchema creates the tables the catalog needs
func EnsureSchema(ctx context.Context, conn *sql.DB) error {
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
