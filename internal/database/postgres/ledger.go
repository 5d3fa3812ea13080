package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/prizegrid/internal/domain"
)

const ledgerColumns = `
	ledger_id, idempotency_key, event_id, event, grid,
	eligible_net, ceiling, dial, pre_correction_cost, usage,
	pre_band, band, was_trimmed, trim_amount, final_cost,
	seed, preview_hash, commit_hash, tags, created_at`

// querier is satisfied by both the pool and a transaction
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// LedgerRepository implements repository.Ledger for PostgreSQL
type LedgerRepository struct {
	db *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// GetByIdempotencyKey returns nil when the key was never committed
func (r *LedgerRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.LedgerEntry, error) {
	return getLedgerByKey(ctx, r.db, key)
}

// ListByEvent returns every commit of an event in ledger id order
func (r *LedgerRepository) ListByEvent(ctx context.Context, eventID string) ([]domain.LedgerEntry, error) {
	rows, err := r.db.Query(ctx, `SELECT `+ledgerColumns+` FROM allocation_ledger WHERE event_id = $1 ORDER BY ledger_id COLLATE "C"`, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryLedger, err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		e, err := scanLedger(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryLedger, err)
	}
	return entries, nil
}

// Get returns domain.ErrLedgerMissing for an unknown id
func (r *LedgerRepository) Get(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	e, err := scanLedger(r.db.QueryRow(ctx, `SELECT `+ledgerColumns+` FROM allocation_ledger WHERE ledger_id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrLedgerMissing, id)
	}
	return e, err
}

func getLedgerByKey(ctx context.Context, q querier, key string) (*domain.LedgerEntry, error) {
	e, err := scanLedger(q.QueryRow(ctx, `SELECT `+ledgerColumns+` FROM allocation_ledger WHERE idempotency_key = $1`, key))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

// scanLedger reads one row selected with ledgerColumns. pgx.ErrNoRows is
// returned unwrapped so callers can map it.
func scanLedger(row pgx.Row) (*domain.LedgerEntry, error) {
	var (
		e                   domain.LedgerEntry
		eventJSON, gridJSON []byte
		preBand, band       string
	)
	err := row.Scan(
		&e.ID, &e.IdempotencyKey, &e.EventID, &eventJSON, &gridJSON,
		&e.EligibleNet, &e.Ceiling, &e.Dial, &e.PreCorrectionCost, &e.Usage,
		&preBand, &band, &e.WasTrimmed, &e.TrimAmount, &e.FinalCost,
		&e.Seed, &e.PreviewHash, &e.CommitHash, &e.Tags, &e.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanLedger, err)
	}
	if err := decodeJSON(eventJSON, &e.Event, ErrMsgFailedToScanLedger); err != nil {
		return nil, err
	}
	if err := decodeJSON(gridJSON, &e.Grid, ErrMsgFailedToDecodeGrid); err != nil {
		return nil, err
	}
	e.PreBand = domain.Band(preBand)
	e.Band = domain.Band(band)
	return &e, nil
}
