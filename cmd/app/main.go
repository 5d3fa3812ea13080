package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/osse101/prizegrid/docs"
	"github.com/osse101/prizegrid/internal/allocation"
	"github.com/osse101/prizegrid/internal/bootstrap"
	"github.com/osse101/prizegrid/internal/config"
	"github.com/osse101/prizegrid/internal/database"
	"github.com/osse101/prizegrid/internal/params"
	"github.com/osse101/prizegrid/internal/server"
)

// @title Prizegrid API
// @version 1.0
// @description Budget-constrained prize allocation engine.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		slog.Warn("Environment check failed", "error", err)
	}
	for _, warning := range warnings {
		slog.Warn("Environment check", "warning", warning)
	}

	if err := run(cfg); err != nil {
		slog.Error("Fatal error", "error", err)
		logFile.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	services := server.Services{}

	var repos *bootstrap.Repositories
	if cfg.StoreDriver == config.StoreDriverPostgres {
		pool, err := database.NewPool(ctx, cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := database.Migrate(ctx, pool); err != nil {
			return err
		}

		repos, err = bootstrap.InitializeRepositories(cfg.StoreDriver, pool)
		if err != nil {
			return err
		}
		services.DB = pool
	} else {
		var err error
		repos, err = bootstrap.InitializeRepositories(cfg.StoreDriver, nil)
		if err != nil {
			return err
		}
	}

	if _, err := bootstrap.SyncCatalog(ctx, repos.Catalog, cfg.CatalogSeedPath); err != nil {
		return err
	}

	bus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		return err
	}
	if err := bootstrap.RegisterEventHandlers(bus); err != nil {
		return err
	}
	eventLogSvc, jobs, err := bootstrap.InitializeEventLog(ctx, cfg, repos.EventLog, bus)
	if err != nil {
		return err
	}

	paramsSvc := params.NewService(repos.Parameters, cfg.BaselineFraction, params.WithPublisher(publisher))
	allocationSvc := allocation.NewService(
		repos.Catalog,
		repos.Events,
		repos.Ledger,
		repos.Allocation,
		paramsSvc,
		publisher,
		allocation.Config{RunCacheSize: cfg.RunCacheSize, RunTTL: cfg.RunTTL},
	)

	services.Allocation = allocationSvc
	services.Params = paramsSvc
	services.Events = repos.Events
	services.Catalog = repos.Catalog
	services.EventLog = eventLogSvc

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Version:        cfg.Version,
	}, services)

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			bootstrap.GracefulShutdown(context.Background(), bootstrap.ShutdownComponents{
				ResilientPublisher: publisher,
				BackgroundJobs:     jobs,
			})
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), server.ShutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		ResilientPublisher: publisher,
		BackgroundJobs:     jobs,
	})
	return nil
}
