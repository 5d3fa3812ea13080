package metrics

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/osse101/prizegrid/internal/event"
	"github.com/osse101/prizegrid/internal/logger"
)

// EventMetricsCollector subscribes to allocation events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to every allocation event type
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.RunPreviewed,
		event.RunCommitted,
		event.RunAborted,
		event.RunConflicted,
		event.ParametersUpdated,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.RunPreviewed:
		p, err := event.DecodePayload[event.RunPreviewedPayloadV1](evt.Payload)
		if err != nil {
			return e.decodeFailed(ctx, evt, err)
		}
		RunsPreviewed.WithLabelValues(p.Band).Inc()
		EligibilityGaps.Add(float64(p.GapCount))

	case event.RunCommitted:
		p, err := event.DecodePayload[event.RunCommittedPayloadV1](evt.Payload)
		if err != nil {
			return e.decodeFailed(ctx, evt, err)
		}
		RunsCommitted.WithLabelValues(p.Band, strconv.FormatBool(p.Replayed)).Inc()
		if p.Replayed {
			break
		}
		UnitsIssued.Add(float64(p.UnitsIssued))
		PrizeSpend.Add(amount(p.FinalCost))
		TrimAmount.Add(amount(p.TrimAmount))

	case event.RunAborted:
		RunsAborted.Inc()

	case event.RunConflicted:
		CommitConflicts.Inc()

	case event.ParametersUpdated:
		ParameterUpdates.Inc()
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}

func (e *EventMetricsCollector) decodeFailed(ctx context.Context, evt event.Event, err error) error {
	EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
	logger.FromContext(ctx).Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
	return nil
}

// amount converts a decimal string for a counter. Counters reject negatives.
func amount(s string) float64 {
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return 0
	}
	f, _ := d.Float64()
	return f
}
