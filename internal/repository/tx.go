package repository

import (
	"context"

	"github.com/osse101/prizegrid/internal/domain"
)

// Tx is the minimal transaction contract
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// AllocationTx groups every write of one commit. Nothing is visible until
// Commit succeeds.
type AllocationTx interface {
	Tx

	// DecrementQuantity removes amount units from code only if at least amount
	// remain. It returns domain.ErrConcurrencyConflict otherwise.
	DecrementQuantity(ctx context.Context, code string, amount int) error
	SaveEventGrid(ctx context.Context, eventID string, grid domain.PrizeGrid) error
	AppendLedger(ctx context.Context, entry domain.LedgerEntry) error
	// GetByIdempotencyKey reads inside the transaction so a concurrent commit
	// of the same key is seen.
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.LedgerEntry, error)
}

// Allocation opens commit transactions.
type Allocation interface {
	BeginTx(ctx context.Context) (AllocationTx, error)
}
