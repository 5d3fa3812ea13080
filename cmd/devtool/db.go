package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/prizegrid/internal/config"
	"github.com/osse101/prizegrid/internal/database"
)

// connect opens a small pool against the configured application database
func connect(ctx context.Context) (*pgxpool.Pool, *config.Config, error) {
	cfg := config.LoadDatabase()
	pool, err := database.NewPool(ctx, cfg.GetDBConnString(), 2, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		return nil, nil, err
	}
	return pool, cfg, nil
}
