package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/prizegrid/internal/bootstrap"
	"github.com/osse101/prizegrid/internal/config"
	"github.com/osse101/prizegrid/internal/database"
)

// setup creates the database when missing, applies migrations and seeds the
// catalog. It is safe to run repeatedly.
func main() {
	ctx := context.Background()
	cfg := config.LoadDatabase()

	// 1. Connect to the maintenance database to create the application one
	conn, err := pgx.Connect(ctx, cfg.GetServerConnString())
	if err != nil {
		log.Fatalf("Unable to connect to postgres database: %v", err)
	}

	var exists bool
	err = conn.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", cfg.DBName).Scan(&exists)
	if err != nil {
		conn.Close(ctx)
		log.Fatalf("Failed to check if database exists: %v", err)
	}

	if !exists {
		fmt.Printf("Creating database %s...\n", cfg.DBName)
		if _, err := conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{cfg.DBName}.Sanitize()); err != nil {
			conn.Close(ctx)
			log.Fatalf("Failed to create database: %v", err)
		}
		fmt.Println("Database created successfully.")
	} else {
		fmt.Printf("Database %s already exists.\n", cfg.DBName)
	}
	conn.Close(ctx)

	// 2. Migrate and seed the application database
	pool, err := database.NewPool(ctx, cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		log.Fatalf("Unable to connect to %s database: %v", cfg.DBName, err)
	}
	defer pool.Close()

	fmt.Println("Running migrations...")
	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	repos, err := bootstrap.InitializeRepositories(config.StoreDriverPostgres, pool)
	if err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	result, err := bootstrap.SyncCatalog(ctx, repos.Catalog, cfg.CatalogSeedPath)
	if err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}

	fmt.Printf("Setup completed: %d catalog entries inserted, %d updated.\n", result.EntriesInserted, result.EntriesUpdated)
}
