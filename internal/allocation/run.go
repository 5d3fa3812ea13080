package allocation

import (
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/prizegrid/internal/budget"
	"github.com/osse101/prizegrid/internal/domain"
	"github.com/osse101/prizegrid/internal/grid"
	"github.com/osse101/prizegrid/internal/metrics"
)

// Run is one allocation attempt between preview and commit. Cached runs are
// never modified in place; every state change stores a new value. Replayed is
// set when the outcome came from an earlier commit of the same event and seed.
type Run struct {
	ID         string                    `json:"id"`
	State      domain.RunState           `json:"state"`
	Event      domain.EventContext       `json:"event"`
	Params     domain.EconomicParameters `json:"-"`
	Template   grid.Template             `json:"template"`
	Ceiling    budget.Ceiling            `json:"ceiling"`
	Correction budget.Correction         `json:"correction"`
	Outcome    domain.AllocationOutcome  `json:"outcome"`
	LedgerID   string                    `json:"ledger_id,omitempty"`
	Replayed   bool                      `json:"replayed,omitempty"`
	CreatedAt  time.Time                 `json:"created_at"`
	UpdatedAt  time.Time                 `json:"updated_at"`
}

// NeedsConfirmation reports a RED run that auto-correction did not trim.
func (r Run) NeedsConfirmation() bool {
	return r.Outcome.NeedsConfirmation()
}

// UnitsIssued is the number of catalog units the run takes out of stock.
func (r Run) UnitsIssued() int {
	n := 0
	for _, c := range r.Outcome.Grid.CodeCounts() {
		n += c
	}
	return n
}

func (r Run) transition(next domain.RunState, at time.Time) (Run, error) {
	if !r.State.CanTransition(next) {
		return r, fmt.Errorf("%w: run %s is %s, cannot move to %s", domain.ErrInvalidTransition, r.ID, r.State, next)
	}
	r.State = next
	r.UpdatedAt = at
	return r, nil
}

// runCache holds previewed runs until they are committed, aborted or expire.
type runCache struct {
	lru *expirable.LRU[string, Run]
}

func newRunCache(size int, ttl time.Duration) *runCache {
	if size <= 0 {
		size = DefaultRunCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultRunTTL
	}
	onEvict := func(_ string, r Run) {
		if !r.State.Terminal() {
			metrics.RunCacheEvictions.Inc()
		}
	}
	return &runCache{lru: expirable.NewLRU[string, Run](size, onEvict, ttl)}
}

func (c *runCache) Get(id string) (Run, bool) {
	return c.lru.Get(id)
}

func (c *runCache) Put(r Run) {
	c.lru.Add(r.ID, r)
}

func (c *runCache) Remove(id string) {
	c.lru.Remove(id)
}

func (c *runCache) Len() int {
	return c.lru.Len()
}
