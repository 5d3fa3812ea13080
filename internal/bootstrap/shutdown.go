package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/prizegrid/internal/event"
	"github.com/osse101/prizegrid/internal/server"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server             *server.Server
	ResilientPublisher *event.ResilientPublisher
	BackgroundJobs     *BackgroundJobs
}

// GracefulShutdown stops the HTTP server first so no new runs start, then
// flushes the event publisher so its last events reach the event log, then
// stops the background jobs. Errors are logged and do not stop the
// sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.ResilientPublisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := components.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	if components.BackgroundJobs != nil {
		slog.Info(LogMsgStoppingBackgroundJobs)
		components.BackgroundJobs.Stop()
	}

	slog.Info(LogMsgServerStopped)
}
