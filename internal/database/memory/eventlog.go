package memory

import (
	"context"
	"sort"
	"time"

	"github.com/osse101/prizegrid/internal/repository"
)

// LogEvent implements repository.EventLog.
func (s *Store) LogEvent(_ context.Context, eventType string, runID, eventID *string, payload, metadata map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.eventLogSeq++
	s.eventLog = append(s.eventLog, repository.EventLogEntry{
		ID:        s.eventLogSeq,
		EventType: eventType,
		RunID:     copyString(runID),
		EventID:   copyString(eventID),
		Payload:   copyMap(payload),
		Metadata:  copyMap(metadata),
		CreatedAt: s.now(),
	})
	return nil
}

// GetEvents implements repository.EventLog.
func (s *Store) GetEvents(_ context.Context, filter repository.EventLogFilter) ([]repository.EventLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []repository.EventLogEntry{}
	for i := len(s.eventLog) - 1; i >= 0; i-- {
		e := s.eventLog[i]
		if !matches(e, filter) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// GetEventsByRun implements repository.EventLog.
func (s *Store) GetEventsByRun(_ context.Context, runID string) ([]repository.EventLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []repository.EventLogEntry{}
	for _, e := range s.eventLog {
		if e.RunID != nil && *e.RunID == runID {
			out = append(out, e)
		}
	}
	return out, nil
}

// CleanupOldEvents implements repository.EventLog.
func (s *Store) CleanupOldEvents(_ context.Context, retentionDays int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-time.Duration(retentionDays) * 24 * time.Hour)
	kept := s.eventLog[:0]
	var deleted int64
	for _, e := range s.eventLog {
		if e.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	s.eventLog = kept
	return deleted, nil
}

func matches(e repository.EventLogEntry, f repository.EventLogFilter) bool {
	if f.RunID != nil && (e.RunID == nil || *e.RunID != *f.RunID) {
		return false
	}
	if f.EventID != nil && (e.EventID == nil || *e.EventID != *f.EventID) {
		return false
	}
	if f.EventType != nil && e.EventType != *f.EventType {
		return false
	}
	if f.Since != nil && e.CreatedAt.Before(*f.Since) {
		return false
	}
	if f.Until != nil && e.CreatedAt.After(*f.Until) {
		return false
	}
	return true
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
