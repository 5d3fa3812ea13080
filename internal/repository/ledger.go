package repository

import (
	"context"

	"github.com/osse101/prizegrid/internal/domain"
)

// Ledger is the read side of the append-only audit ledger. Appends happen
// inside an AllocationTx; there is no update or delete.
type Ledger interface {
	// GetByIdempotencyKey returns nil with no error when no commit exists.
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.LedgerEntry, error)
	ListByEvent(ctx context.Context, eventID string) ([]domain.LedgerEntry, error)
	Get(ctx context.Context, id string) (*domain.LedgerEntry, error)
}
