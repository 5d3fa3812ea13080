package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EventContext holds the per-run facts supplied by the event store.
// It is immutable for the duration of a run.
type EventContext struct {
	ID               string          `json:"id" db:"event_id"`
	Name             string          `json:"name,omitempty" db:"name"`
	Category         Category        `json:"category" db:"category"`
	PlayerCount      int             `json:"player_count" db:"player_count"`
	EntryFee         decimal.Decimal `json:"entry_fee" db:"entry_fee"`
	KitCostPerPlayer decimal.Decimal `json:"kit_cost_per_player" db:"kit_cost_per_player"`
	Seed             string          `json:"seed" db:"seed"`
	CreatedAt        time.Time       `json:"created_at,omitempty" db:"created_at"`
}

// IdempotencyKey identifies a commit: retries with the same event and seed
// return the prior outcome.
func (e EventContext) IdempotencyKey() string {
	return e.ID + ":" + e.Seed
}

// Validate checks the facts a caller is responsible for.
func (e EventContext) Validate() error {
	switch {
	case strings.TrimSpace(e.ID) == "":
		return fmt.Errorf("%w: event id is required", ErrInvalidInput)
	case !e.Category.Valid():
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, e.Category)
	case e.PlayerCount < 0:
		return fmt.Errorf("%w: player count must not be negative", ErrInvalidInput)
	case e.EntryFee.IsNegative():
		return fmt.Errorf("%w: entry fee must not be negative", ErrInvalidInput)
	case e.KitCostPerPlayer.IsNegative():
		return fmt.Errorf("%w: kit cost must not be negative", ErrInvalidInput)
	case strings.TrimSpace(e.Seed) == "":
		return fmt.Errorf("%w: seed is required", ErrInvalidInput)
	}
	return nil
}
