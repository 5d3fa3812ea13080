package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/prizegrid/internal/domain"
)

// EventRepository implements repository.Events for PostgreSQL
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

// GetEvent returns domain.ErrEventNotFound for an unknown id
func (r *EventRepository) GetEvent(ctx context.Context, id string) (*domain.EventContext, error) {
	var e domain.EventContext
	var category string
	err := r.db.QueryRow(ctx, `
		SELECT event_id, name, category, player_count, entry_fee, kit_cost_per_player, seed, created_at
		FROM events
		WHERE event_id = $1
	`, id).Scan(&e.ID, &e.Name, &category, &e.PlayerCount, &e.EntryFee, &e.KitCostPerPlayer, &e.Seed, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrEventNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetEvent, err)
	}
	e.Category = domain.Category(category)
	return &e, nil
}

// CreateEvent inserts an event. A duplicate id is domain.ErrInvalidInput.
func (r *EventRepository) CreateEvent(ctx context.Context, evt domain.EventContext) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO events (event_id, name, category, player_count, entry_fee, kit_cost_per_player, seed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()))
	`, evt.ID, evt.Name, string(evt.Category), evt.PlayerCount, evt.EntryFee, evt.KitCostPerPlayer, evt.Seed, nullTime(evt.CreatedAt))
	if isPgError(err, PgErrorCodeUniqueViolation) {
		return fmt.Errorf("%w: %s %s", domain.ErrInvalidInput, ErrMsgEventExists, evt.ID)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCreateEvent, err)
	}
	return nil
}

// GetEventGrid returns the committed grid, or nil if none was saved
func (r *EventRepository) GetEventGrid(ctx context.Context, id string) (*domain.PrizeGrid, error) {
	var raw []byte
	err := r.db.QueryRow(ctx, `SELECT grid FROM event_grids WHERE event_id = $1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetGrid, err)
	}

	var g domain.PrizeGrid
	if err := decodeJSON(raw, &g, ErrMsgFailedToDecodeGrid); err != nil {
		return nil, err
	}
	return &g, nil
}
