package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/osse101/prizegrid/internal/config"
	"github.com/osse101/prizegrid/internal/logger"
)

func main() {
	logger.InitLogger(logger.NewConfig("warn", "text", appName+"-devtool", config.DefaultVersion, config.DefaultEnvironment, false))

	registry := NewRegistry()
	registry.Register(&MigrateCommand{})
	registry.Register(&CheckDBCommand{})
	registry.Register(&SeedCatalogCommand{})
	registry.Register(&ReplayCommand{})
	registry.Register(&VerifyCommand{})
	registry.Register(&PruneEventsCommand{})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := registry.Root().ExecuteContext(ctx); err != nil {
		stop()
		PrintError("%v", err)
		os.Exit(1)
	}
}
