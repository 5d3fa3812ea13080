package eventlog

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/prizegrid/internal/repository"
)

// MockRepository is a mock implementation of repository.EventLog
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) LogEvent(ctx context.Context, eventType string, runID, eventID *string, payload, metadata map[string]interface{}) error {
	args := m.Called(ctx, eventType, runID, eventID, payload, metadata)
	return args.Error(0)
}

func (m *MockRepository) GetEvents(ctx context.Context, filter repository.EventLogFilter) ([]repository.EventLogEntry, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]repository.EventLogEntry), args.Error(1)
}

func (m *MockRepository) GetEventsByRun(ctx context.Context, runID string) ([]repository.EventLogEntry, error) {
	args := m.Called(ctx, runID)
	return args.Get(0).([]repository.EventLogEntry), args.Error(1)
}

func (m *MockRepository) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	args := m.Called(ctx, retentionDays)
	return args.Get(0).(int64), args.Error(1)
}
