package memory

import (
	"context"
	"fmt"

	"github.com/osse101/prizegrid/internal/domain"
)

// tx stages writes and applies them on Commit. The store's txMu is held for
// the whole lifetime of the transaction.
type tx struct {
	store  *Store
	closed bool

	decrements map[string]int
	grids      map[string]domain.PrizeGrid
	ledger     []domain.LedgerEntry
}

func (t *tx) DecrementQuantity(_ context.Context, code string, amount int) error {
	if t.closed {
		return errTxClosed
	}
	t.store.mu.RLock()
	e, ok := t.store.entries[code]
	t.store.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrEntryNotFound, code)
	}
	if e.Quantity-t.decrements[code] < amount {
		return fmt.Errorf("%w: %s has %d, need %d", domain.ErrConcurrencyConflict, code, e.Quantity-t.decrements[code], amount)
	}
	t.decrements[code] += amount
	return nil
}

func (t *tx) SaveEventGrid(_ context.Context, eventID string, grid domain.PrizeGrid) error {
	if t.closed {
		return errTxClosed
	}
	t.grids[eventID] = cloneGrid(grid)
	return nil
}

func (t *tx) AppendLedger(_ context.Context, entry domain.LedgerEntry) error {
	if t.closed {
		return errTxClosed
	}
	t.store.mu.RLock()
	_, dup := t.store.ledgerByKey[entry.IdempotencyKey]
	t.store.mu.RUnlock()
	if dup {
		return fmt.Errorf("%w: %w: %s", domain.ErrConcurrencyConflict, domain.ErrLedgerKeyExists, entry.IdempotencyKey)
	}
	t.ledger = append(t.ledger, cloneEntry(entry))
	return nil
}

func (t *tx) GetByIdempotencyKey(ctx context.Context, key string) (*domain.LedgerEntry, error) {
	if t.closed {
		return nil, errTxClosed
	}
	for _, e := range t.ledger {
		if e.IdempotencyKey == key {
			c := cloneEntry(e)
			return &c, nil
		}
	}
	return t.store.GetByIdempotencyKey(ctx, key)
}

func (t *tx) Commit(_ context.Context) error {
	if t.closed {
		return errTxClosed
	}
	t.closed = true
	defer t.store.txMu.Unlock()

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for code, n := range t.decrements {
		e := s.entries[code]
		e.Quantity -= n
		e.Version++
		s.entries[code] = e
	}
	for id, g := range t.grids {
		s.grids[id] = g
	}
	for _, e := range t.ledger {
		s.ledger = append(s.ledger, e)
		idx := len(s.ledger) - 1
		s.ledgerByKey[e.IdempotencyKey] = idx
		s.ledgerByID[e.ID] = idx
	}
	return nil
}

func (t *tx) Rollback(_ context.Context) error {
	if t.closed {
		return errTxClosed
	}
	t.closed = true
	t.store.txMu.Unlock()
	return nil
}
