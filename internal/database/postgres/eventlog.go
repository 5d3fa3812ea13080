package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/prizegrid/internal/repository"
)

const eventLogColumns = `id, event_type, run_id, event_id, payload, metadata, created_at`

// EventLogRepository implements repository.EventLog for PostgreSQL
type EventLogRepository struct {
	db *pgxpool.Pool
}

// NewEventLogRepository creates a new EventLogRepository
func NewEventLogRepository(db *pgxpool.Pool) *EventLogRepository {
	return &EventLogRepository{db: db}
}

// LogEvent stores an event in the database
func (r *EventLogRepository) LogEvent(ctx context.Context, eventType string, runID, eventID *string, payload, metadata map[string]interface{}) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToLogEvent, err)
	}

	var metadataJSON []byte
	if metadata != nil {
		metadataJSON, err = json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToLogEvent, err)
		}
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO event_log (event_type, run_id, event_id, payload, metadata)
		VALUES ($1, $2, $3, $4, $5)
	`, eventType, runID, eventID, payloadJSON, metadataJSON)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToLogEvent, err)
	}
	return nil
}

// GetEvents retrieves events based on filter criteria
func (r *EventLogRepository) GetEvents(ctx context.Context, filter repository.EventLogFilter) ([]repository.EventLogEntry, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + eventLogColumns + ` FROM event_log WHERE 1=1`)

	args := []interface{}{}
	argNum := 1

	if filter.RunID != nil {
		fmt.Fprintf(&queryBuilder, " AND run_id = $%d", argNum)
		args = append(args, *filter.RunID)
		argNum++
	}

	if filter.EventID != nil {
		fmt.Fprintf(&queryBuilder, " AND event_id = $%d", argNum)
		args = append(args, *filter.EventID)
		argNum++
	}

	if filter.EventType != nil {
		fmt.Fprintf(&queryBuilder, " AND event_type = $%d", argNum)
		args = append(args, *filter.EventType)
		argNum++
	}

	if filter.Since != nil {
		fmt.Fprintf(&queryBuilder, " AND created_at >= $%d", argNum)
		args = append(args, *filter.Since)
		argNum++
	}

	if filter.Until != nil {
		fmt.Fprintf(&queryBuilder, " AND created_at <= $%d", argNum)
		args = append(args, *filter.Until)
		argNum++
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC, id DESC")

	if filter.Limit > 0 {
		fmt.Fprintf(&queryBuilder, " LIMIT $%d", argNum)
		args = append(args, filter.Limit)
	}

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryEventLog, err)
	}
	defer rows.Close()

	return scanEventLog(rows)
}

// GetEventsByRun returns one run's history in publish order
func (r *EventLogRepository) GetEventsByRun(ctx context.Context, runID string) ([]repository.EventLogEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+eventLogColumns+`
		FROM event_log
		WHERE run_id = $1
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryEventLog, err)
	}
	defer rows.Close()

	return scanEventLog(rows)
}

// CleanupOldEvents removes events older than the specified number of days
func (r *EventLogRepository) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	result, err := r.db.Exec(ctx, `
		DELETE FROM event_log
		WHERE created_at < NOW() - INTERVAL '1 day' * $1
	`, retentionDays)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToCleanupEvents, err)
	}
	return result.RowsAffected(), nil
}

func scanEventLog(rows pgx.Rows) ([]repository.EventLogEntry, error) {
	events := []repository.EventLogEntry{}

	for rows.Next() {
		var evt repository.EventLogEntry
		var payloadJSON, metadataJSON []byte

		if err := rows.Scan(
			&evt.ID,
			&evt.EventType,
			&evt.RunID,
			&evt.EventID,
			&payloadJSON,
			&metadataJSON,
			&evt.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryEventLog, err)
		}

		if err := decodeJSON(payloadJSON, &evt.Payload, ErrMsgFailedToDecodePayload); err != nil {
			return nil, err
		}
		if len(metadataJSON) > 0 {
			if err := decodeJSON(metadataJSON, &evt.Metadata, ErrMsgFailedToDecodePayload); err != nil {
				return nil, err
			}
		}

		events = append(events, evt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryEventLog, err)
	}
	return events, nil
}
