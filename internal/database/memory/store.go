// Package memory is an in-process implementation of every repository
// interface. It backs tests and the offline replay tool.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/osse101/prizegrid/internal/domain"
	"github.com/osse101/prizegrid/internal/repository"
)

var errTxClosed = errors.New(domain.ErrMsgTxClosed)

// Store holds catalog, parameters, events, grids, the ledger and the event
// log in memory.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	entries  map[string]domain.CatalogEntry
	syncMeta map[string]domain.SyncMetadata
	params   *domain.EconomicParameters
	events   map[string]domain.EventContext
	grids    map[string]domain.PrizeGrid

	ledger      []domain.LedgerEntry
	ledgerByKey map[string]int
	ledgerByID  map[string]int

	eventLog    []repository.EventLogEntry
	eventLogSeq int64
	now         func() time.Time
}

var (
	_ repository.Catalog    = (*Store)(nil)
	_ repository.Parameters = (*Store)(nil)
	_ repository.Events     = (*Store)(nil)
	_ repository.Ledger     = (*Store)(nil)
	_ repository.Allocation = (*Store)(nil)
	_ repository.EventLog   = (*Store)(nil)
)

// New returns an empty store.
func New() *Store {
	return &Store{
		entries:     make(map[string]domain.CatalogEntry),
		syncMeta:    make(map[string]domain.SyncMetadata),
		events:      make(map[string]domain.EventContext),
		grids:       make(map[string]domain.PrizeGrid),
		ledgerByKey: make(map[string]int),
		ledgerByID:  make(map[string]int),
		now:         time.Now,
	}
}

// GetEligibleEntries implements repository.Catalog.
func (s *Store) GetEligibleEntries(_ context.Context, tier string, excludeCodes []string) ([]domain.CatalogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	excluded := make(map[string]struct{}, len(excludeCodes))
	for _, c := range excludeCodes {
		excluded[c] = struct{}{}
	}

	out := make([]domain.CatalogEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if tier != "" && e.Tier != tier {
			continue
		}
		if !e.Available() {
			continue
		}
		if _, skip := excluded[e.Code]; skip {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// ListEntries implements repository.Catalog.
func (s *Store) ListEntries(_ context.Context) ([]domain.CatalogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CatalogEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Tier != out[j].Tier {
			return out[i].Tier < out[j].Tier
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

// UpsertEntries implements repository.Catalog.
func (s *Store) UpsertEntries(_ context.Context, entries []domain.CatalogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		if cur, ok := s.entries[e.Code]; ok {
			e.Version = cur.Version + 1
		} else {
			e.Version = 1
		}
		s.entries[e.Code] = e
	}
	return nil
}

// GetSyncMetadata implements repository.Catalog.
func (s *Store) GetSyncMetadata(_ context.Context, name string) (*domain.SyncMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meta, ok := s.syncMeta[name]
	if !ok {
		return nil, nil
	}
	return &meta, nil
}

// UpsertSyncMetadata implements repository.Catalog.
func (s *Store) UpsertSyncMetadata(_ context.Context, meta *domain.SyncMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.syncMeta[meta.ConfigName] = *meta
	return nil
}

// GetParameters implements repository.Parameters.
func (s *Store) GetParameters(_ context.Context) (*domain.EconomicParameters, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.params == nil {
		return nil, nil
	}
	p := s.params.Clone()
	return &p, nil
}

// SaveParameters implements repository.Parameters.
func (s *Store) SaveParameters(_ context.Context, params domain.EconomicParameters) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := params.Clone()
	s.params = &p
	return nil
}

// GetEvent implements repository.Events.
func (s *Store) GetEvent(_ context.Context, id string) (*domain.EventContext, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	evt, ok := s.events[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrEventNotFound, id)
	}
	return &evt, nil
}

// CreateEvent implements repository.Events.
func (s *Store) CreateEvent(_ context.Context, evt domain.EventContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.events[evt.ID]; exists {
		return fmt.Errorf("%w: event %s already exists", domain.ErrInvalidInput, evt.ID)
	}
	s.events[evt.ID] = evt
	return nil
}

// GetEventGrid implements repository.Events.
func (s *Store) GetEventGrid(_ context.Context, id string) (*domain.PrizeGrid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.grids[id]
	if !ok {
		return nil, nil
	}
	g = cloneGrid(g)
	return &g, nil
}

// GetByIdempotencyKey implements repository.Ledger.
func (s *Store) GetByIdempotencyKey(_ context.Context, key string) (*domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.ledgerByKey[key]
	if !ok {
		return nil, nil
	}
	e := cloneEntry(s.ledger[i])
	return &e, nil
}

// ListByEvent implements repository.Ledger.
func (s *Store) ListByEvent(_ context.Context, eventID string) ([]domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.LedgerEntry
	for _, e := range s.ledger {
		if e.EventID == eventID {
			out = append(out, cloneEntry(e))
		}
	}
	return out, nil
}

// Get implements repository.Ledger.
func (s *Store) Get(_ context.Context, id string) (*domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.ledgerByID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrLedgerMissing, id)
	}
	e := cloneEntry(s.ledger[i])
	return &e, nil
}

// BeginTx implements repository.Allocation. Transactions are serialized.
func (s *Store) BeginTx(ctx context.Context) (repository.AllocationTx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.txMu.Lock()
	return &tx{
		store:      s,
		decrements: make(map[string]int),
		grids:      make(map[string]domain.PrizeGrid),
	}, nil
}

func cloneGrid(g domain.PrizeGrid) domain.PrizeGrid {
	out := domain.PrizeGrid{TotalCost: g.TotalCost, Cells: make([][]domain.PrizeCell, len(g.Cells))}
	for i, row := range g.Cells {
		out.Cells[i] = append([]domain.PrizeCell(nil), row...)
	}
	return out
}

func cloneEntry(e domain.LedgerEntry) domain.LedgerEntry {
	e.Grid = cloneGrid(e.Grid)
	e.Tags = append([]string(nil), e.Tags...)
	return e
}
