package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/prizegrid/internal/domain"
	"github.com/osse101/prizegrid/internal/repository"
)

// AllocationRepository implements repository.Allocation for PostgreSQL
type AllocationRepository struct {
	db *pgxpool.Pool
}

// NewAllocationRepository creates a new AllocationRepository
func NewAllocationRepository(db *pgxpool.Pool) *AllocationRepository {
	return &AllocationRepository{db: db}
}

// BeginTx opens a read-committed transaction for one commit
func (r *AllocationRepository) BeginTx(ctx context.Context) (repository.AllocationTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	return &allocationTx{tx: tx}, nil
}

type allocationTx struct {
	tx pgx.Tx
}

func (t *allocationTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *allocationTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// DecrementQuantity is a conditional update. When no row changes the entry
// is either gone or was drained by another commit.
func (t *allocationTx) DecrementQuantity(ctx context.Context, code string, amount int) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE catalog_entries
		SET quantity = quantity - $2, version = version + 1, updated_at = NOW()
		WHERE code = $1 AND quantity >= $2
	`, code, amount)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToDecrement, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var quantity int
	err = t.tx.QueryRow(ctx, `SELECT quantity FROM catalog_entries WHERE code = $1`, code).Scan(&quantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", domain.ErrEntryNotFound, code)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToDecrement, err)
	}
	return fmt.Errorf("%w: %s has %d, need %d", domain.ErrConcurrencyConflict, code, quantity, amount)
}

func (t *allocationTx) SaveEventGrid(ctx context.Context, eventID string, grid domain.PrizeGrid) error {
	raw, err := json.Marshal(grid)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSaveGrid, err)
	}
	_, err = t.tx.Exec(ctx, `
		INSERT INTO event_grids (event_id, grid, total_cost, saved_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (event_id) DO UPDATE SET
			grid = EXCLUDED.grid,
			total_cost = EXCLUDED.total_cost,
			saved_at = NOW()
	`, eventID, raw, grid.TotalCost)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSaveGrid, err)
	}
	return nil
}

// AppendLedger inserts one ledger row. A duplicate idempotency key means a
// concurrent commit won.
func (t *allocationTx) AppendLedger(ctx context.Context, e domain.LedgerEntry) error {
	eventJSON, err := json.Marshal(e.Event)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToAppendLedger, err)
	}
	gridJSON, err := json.Marshal(e.Grid)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToAppendLedger, err)
	}
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}

	_, err = t.tx.Exec(ctx, `
		INSERT INTO allocation_ledger (`+ledgerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`,
		e.ID, e.IdempotencyKey, e.EventID, eventJSON, gridJSON,
		e.EligibleNet, e.Ceiling, e.Dial, e.PreCorrectionCost, e.Usage,
		string(e.PreBand), string(e.Band), e.WasTrimmed, e.TrimAmount, e.FinalCost,
		e.Seed, e.PreviewHash, e.CommitHash, tags, e.CreatedAt,
	)
	if isPgError(err, PgErrorCodeUniqueViolation) {
		return fmt.Errorf("%w: %w: %s", domain.ErrConcurrencyConflict, domain.ErrLedgerKeyExists, e.IdempotencyKey)
	}
	if isPgError(err, PgErrorCodeForeignKeyViolation) {
		return fmt.Errorf("%w: %s", domain.ErrEventNotFound, e.EventID)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToAppendLedger, err)
	}
	return nil
}

func (t *allocationTx) GetByIdempotencyKey(ctx context.Context, key string) (*domain.LedgerEntry, error) {
	return getLedgerByKey(ctx, t.tx, key)
}
