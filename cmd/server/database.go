package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/flashdeck/flashdeck-api/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// openDatabase connects to Postgres through the pgx stdlib driver and
// verifies the connection with a bounded ping.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}
