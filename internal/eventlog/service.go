// Package eventlog persists every bus event so a run's lifecycle can be read
// back after its cache entry expired.
package eventlog

import (
	"context"

	"github.com/osse101/prizegrid/internal/event"
	"github.com/osse101/prizegrid/internal/logger"
	"github.com/osse101/prizegrid/internal/repository"
)

// LoggedTypes are the event types written to the log
var LoggedTypes = []event.Type{
	event.RunPreviewed,
	event.RunCommitted,
	event.RunAborted,
	event.RunConflicted,
	event.ParametersUpdated,
}

// Service handles event logging business logic
type Service interface {
	// Subscribe registers the event logger on every logged type
	Subscribe(bus event.Bus) error

	// ListEvents returns logged events, newest first. The limit is clamped
	// to MaxListLimit.
	ListEvents(ctx context.Context, filter repository.EventLogFilter) ([]repository.EventLogEntry, error)

	// RunHistory returns one run's events in publish order
	RunHistory(ctx context.Context, runID string) ([]repository.EventLogEntry, error)

	// CleanupOldEvents removes events older than retention period
	CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error)
}

type service struct {
	repo repository.EventLog
}

// NewService creates a new event logging service
func NewService(repo repository.EventLog) Service {
	return &service{repo: repo}
}

func (s *service) Subscribe(bus event.Bus) error {
	for _, eventType := range LoggedTypes {
		bus.Subscribe(eventType, s.handleEvent)
	}
	return nil
}

// handleEvent flattens the typed payload to a JSON object and stores it
func (s *service) handleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	payload, err := event.DecodePayload[map[string]interface{}](evt.Payload)
	if err != nil || payload == nil {
		log.Debug(LogMsgPayloadNotObject, LogFieldType, evt.Type)
		return nil
	}

	runID := metadataString(evt, event.MetadataKeyRunID)
	eventID := metadataString(evt, event.MetadataKeyEventID)

	if err := s.repo.LogEvent(ctx, string(evt.Type), runID, eventID, payload, evt.Metadata); err != nil {
		log.Error(LogMsgFailedToLogEvent, LogFieldError, err, LogFieldType, evt.Type)
		return err
	}

	log.Debug(LogMsgEventLogged, LogFieldType, evt.Type, LogFieldRunID, runID)
	return nil
}

func (s *service) ListEvents(ctx context.Context, filter repository.EventLogFilter) ([]repository.EventLogEntry, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	if filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}
	return s.repo.GetEvents(ctx, filter)
}

func (s *service) RunHistory(ctx context.Context, runID string) ([]repository.EventLogEntry, error) {
	return s.repo.GetEventsByRun(ctx, runID)
}

// CleanupOldEvents removes events older than the retention period
func (s *service) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	return s.repo.CleanupOldEvents(ctx, retentionDays)
}

func metadataString(evt event.Event, key string) *string {
	v, ok := evt.GetMetadataValue(key).(string)
	if !ok || v == "" {
		return nil
	}
	return &v
}
