package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/prizegrid/internal/event"
	"github.com/osse101/prizegrid/internal/eventlog"
	"github.com/osse101/prizegrid/internal/logger"
	"github.com/osse101/prizegrid/internal/metrics"
)

// RegisterEventHandlers subscribes the metrics collector and the event
// logger to the bus.
func RegisterEventHandlers(bus event.Bus) error {
	metricsCollector := metrics.NewEventMetricsCollector()
	if err := metricsCollector.Register(bus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	for _, t := range eventlog.LoggedTypes {
		bus.Subscribe(t, logEvent)
	}
	slog.Info(LogMsgEventLoggerInitialized)

	return nil
}

// logEvent writes one structured line per event so run lifecycles can be
// followed in the session log.
func logEvent(ctx context.Context, evt event.Event) error {
	args := []any{"type", evt.Type, "version", evt.Version}
	for _, key := range []string{event.MetadataKeyRunID, event.MetadataKeyEventID} {
		if v := evt.GetMetadataValue(key); v != nil {
			args = append(args, key, v)
		}
	}
	logger.FromContext(ctx).Info(LogMsgEventReceived, args...)
	return nil
}
