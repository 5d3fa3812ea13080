package event

import (
	"context"
	"fmt"
	"sync"
)

// Type represents the type of an event
type Type string

// Event is one notification on the bus. Payload is one of the *PayloadV1
// structs below when published in-process.
type Event struct {
	Version  string                 `json:"version"`
	Type     Type                   `json:"type"`
	Payload  interface{}            `json:"payload"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}
	return e.Metadata[key]
}

// RunPreviewedPayloadV1 is published when a run reaches PREVIEWED or TRIMMED.
type RunPreviewedPayloadV1 struct {
	RunID      string `json:"run_id"`
	EventID    string `json:"event_id"`
	PreBand    string `json:"pre_band"`
	Band       string `json:"band"`
	Usage      string `json:"usage"`
	WasTrimmed bool   `json:"was_trimmed"`
	GapCount   int    `json:"gap_count"`
}

// RunCommittedPayloadV1 is published after the commit transaction succeeded.
// Replayed is set when an earlier commit with the same idempotency key was returned.
type RunCommittedPayloadV1 struct {
	RunID       string   `json:"run_id"`
	EventID     string   `json:"event_id"`
	LedgerID    string   `json:"ledger_id"`
	Band        string   `json:"band"`
	WasTrimmed  bool     `json:"was_trimmed"`
	PreCost     string   `json:"pre_cost"`
	FinalCost   string   `json:"final_cost"`
	TrimAmount  string   `json:"trim_amount"`
	UnitsIssued int      `json:"units_issued"`
	Tags        []string `json:"tags"`
	Replayed    bool     `json:"replayed"`
}

// RunAbortedPayloadV1 is published when a run is abandoned.
type RunAbortedPayloadV1 struct {
	RunID   string `json:"run_id"`
	EventID string `json:"event_id"`
	Reason  string `json:"reason,omitempty"`
}

// RunConflictedPayloadV1 is published when a commit lost a stock race.
type RunConflictedPayloadV1 struct {
	RunID   string `json:"run_id"`
	EventID string `json:"event_id"`
	Error   string `json:"error"`
}

// ParametersUpdatedPayloadV1 is published after a parameter update was saved.
type ParametersUpdatedPayloadV1 struct {
	DialFraction     string `json:"dial_fraction"`
	WeightingEnabled bool   `json:"weighting_enabled"`
	AllowDuplicates  bool   `json:"allow_duplicates"`
	AutoCorrect      bool   `json:"auto_correct"`
}

func newEvent(t Type, payload interface{}, runID, eventID string) Event {
	md := map[string]interface{}{}
	if runID != "" {
		md[MetadataKeyRunID] = runID
	}
	if eventID != "" {
		md[MetadataKeyEventID] = eventID
	}
	return Event{Version: EventSchemaVersion, Type: t, Payload: payload, Metadata: md}
}

// NewRunPreviewedEvent creates an allocation.previewed event
func NewRunPreviewedEvent(p RunPreviewedPayloadV1) Event {
	return newEvent(RunPreviewed, p, p.RunID, p.EventID)
}

// NewRunCommittedEvent creates an allocation.committed event
func NewRunCommittedEvent(p RunCommittedPayloadV1) Event {
	return newEvent(RunCommitted, p, p.RunID, p.EventID)
}

// NewRunAbortedEvent creates an allocation.aborted event
func NewRunAbortedEvent(p RunAbortedPayloadV1) Event {
	return newEvent(RunAborted, p, p.RunID, p.EventID)
}

// NewRunConflictedEvent creates an allocation.conflicted event
func NewRunConflictedEvent(p RunConflictedPayloadV1) Event {
	return newEvent(RunConflicted, p, p.RunID, p.EventID)
}

// NewParametersUpdatedEvent creates a parameters.updated event
func NewParametersUpdatedEvent(p ParametersUpdatedPayloadV1) Event {
	return newEvent(ParametersUpdated, p, "", "")
}

// Handler handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// Publisher is the publish half of a Bus. Services depend on this.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// MemoryBus is a simple in-memory implementation of Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every handler for the event type synchronously and joins
// their errors.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}
	return nil
}

// Subscribe registers a handler for an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
