package repository

import (
	"context"
	"time"
)

// EventLog stores every allocation and parameter event published on the bus.
// Unlike the ledger, rows expire after the retention window.
type EventLog interface {
	// LogEvent stores one event. runID and eventID are nil for events that
	// do not belong to a run.
	LogEvent(ctx context.Context, eventType string, runID, eventID *string, payload, metadata map[string]interface{}) error

	// GetEvents returns matching events, newest first
	GetEvents(ctx context.Context, filter EventLogFilter) ([]EventLogEntry, error)

	// GetEventsByRun returns the history of one run, oldest first
	GetEventsByRun(ctx context.Context, runID string) ([]EventLogEntry, error)

	// CleanupOldEvents removes events older than the specified number of days
	CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error)
}

// EventLogEntry is one stored bus event
type EventLogEntry struct {
	ID        int64                  `json:"id"`
	EventType string                 `json:"event_type"`
	RunID     *string                `json:"run_id,omitempty"`
	EventID   *string                `json:"event_id,omitempty"`
	Payload   map[string]interface{} `json:"payload"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// EventLogFilter filters events for queries. Zero fields match everything.
type EventLogFilter struct {
	RunID     *string
	EventID   *string
	EventType *string
	Since     *time.Time
	Until     *time.Time
	Limit     int
}
