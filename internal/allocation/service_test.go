package allocation

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/prizegrid/internal/database/memory"
	"github.com/osse101/prizegrid/internal/domain"
	"github.com/osse101/prizegrid/internal/event"
	"github.com/osse101/prizegrid/internal/grid"
	"github.com/osse101/prizegrid/internal/params"
	"github.com/osse101/prizegrid/internal/repository"
	"github.com/osse101/prizegrid/internal/testing/leaktest"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	store  *memory.Store
	params params.Service
	svc    Service
	mu     sync.Mutex
	seen   []event.Type
}

func (f *fixture) events() []event.Type {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]event.Type(nil), f.seen...)
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	alloc  func(*memory.Store) repository.Allocation
	events func(*memory.Store) repository.Events
	ledger func(*memory.Store) repository.Ledger
	cfg    Config
}

func newFixture(t *testing.T, entries []domain.CatalogEntry, opts ...fixtureOption) *fixture {
	t.Helper()
	ctx := context.Background()

	fc := fixtureConfig{
		alloc:  func(s *memory.Store) repository.Allocation { return s },
		events: func(s *memory.Store) repository.Events { return s },
		ledger: func(s *memory.Store) repository.Ledger { return s },
	}
	for _, o := range opts {
		o(&fc)
	}

	store := memory.New()
	require.NoError(t, store.UpsertEntries(ctx, entries))

	f := &fixture{store: store}
	bus := event.NewMemoryBus()
	for _, typ := range []event.Type{event.RunPreviewed, event.RunCommitted, event.RunAborted, event.RunConflicted} {
		bus.Subscribe(typ, func(_ context.Context, evt event.Event) error {
			f.mu.Lock()
			f.seen = append(f.seen, evt.Type)
			f.mu.Unlock()
			return nil
		})
	}

	f.params = params.NewService(store, d("0.95"))
	f.svc = NewService(store, fc.events(store), fc.ledger(store), fc.alloc(store), f.params, bus, fc.cfg)
	return f
}

func (f *fixture) createEvent(t *testing.T, evt domain.EventContext) {
	t.Helper()
	require.NoError(t, f.store.CreateEvent(context.Background(), evt))
}

func (f *fixture) quantity(t *testing.T, code string) int {
	t.Helper()
	entries, err := f.store.ListEntries(context.Background())
	require.NoError(t, err)
	for _, e := range entries {
		if e.Code == code {
			return e.Quantity
		}
	}
	t.Fatalf("entry %s not found", code)
	return 0
}

func entry(code, tier, cost string, qty int) domain.CatalogEntry {
	return domain.CatalogEntry{Code: code, Name: code, Rarity: 5, Tier: tier, Quantity: qty, UnitCost: d(cost)}
}

// flatEvent has eligible net 40.00 and ceiling 38.00 under default policy.
func flatEvent(id, seed string) domain.EventContext {
	return domain.EventContext{
		ID:          id,
		Category:    domain.CategoryFlat,
		PlayerCount: 8,
		EntryFee:    d("5.00"),
		Seed:        seed,
	}
}

var single = grid.Template{{"prize"}}

func TestPreviewAndCommit_Green(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, []domain.CatalogEntry{
		entry("P1", "prize", "10.00", 5),
		entry("P2", "prize", "10.00", 5),
	})
	f.createEvent(t, flatEvent("evt-green", "seed"))

	run, err := f.svc.Preview(ctx, PreviewRequest{EventID: "evt-green", Template: grid.Template{{"prize", "prize"}}})
	require.NoError(t, err)

	assert.Equal(t, domain.RunPreviewed, run.State)
	assert.Equal(t, domain.BandGreen, run.Outcome.Band)
	assert.True(t, run.Outcome.Grid.TotalCost.Equal(d("20.00")))
	assert.True(t, run.Outcome.Ceiling.Equal(d("38.00")))
	assert.Nil(t, run.Outcome.CorrectedCost)
	assert.NotEmpty(t, run.Outcome.PreviewHash)

	committed, err := f.svc.Commit(ctx, run.ID, CommitOptions{})
	require.NoError(t, err)

	assert.Equal(t, domain.RunCommitted, committed.State)
	assert.NotEmpty(t, committed.LedgerID)
	assert.Equal(t, committed.Outcome.PreviewHash, committed.Outcome.CommitHash)
	assert.Equal(t, 4, f.quantity(t, "P1"))
	assert.Equal(t, 4, f.quantity(t, "P2"))

	saved, err := f.store.GetEventGrid(ctx, "evt-green")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, run.Outcome.Grid.Cells, saved.Cells)

	v, err := f.svc.Verify(ctx, committed.LedgerID)
	require.NoError(t, err)
	assert.True(t, v.Valid, v.Problem)
	assert.Equal(t, committed.Outcome.CommitHash, v.Recomputed)

	assert.Equal(t, []event.Type{event.RunPreviewed, event.RunCommitted}, f.events())
}

func TestPreview_RedIsAutoTrimmed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, []domain.CatalogEntry{entry("BIG", "prize", "42.00", 1)})
	f.createEvent(t, flatEvent("evt-c", "seed"))

	run, err := f.svc.Preview(ctx, PreviewRequest{EventID: "evt-c", Template: single})
	require.NoError(t, err)

	assert.Equal(t, domain.RunTrimmed, run.State)
	assert.Equal(t, domain.BandRed, run.Outcome.PreBand)
	assert.Equal(t, domain.BandGreen, run.Outcome.Band)
	require.NotNil(t, run.Outcome.CorrectedCost)
	assert.True(t, run.Outcome.CorrectedCost.Equal(d("34.20")))
	assert.True(t, run.Outcome.TrimAmount.Equal(d("7.80")))
	assert.True(t, run.Outcome.Grid.TotalCost.Equal(d("42.00")), "grid cost is never rewritten")
	assert.True(t, run.Outcome.Usage.Equal(d("1.105263")))

	committed, err := f.svc.Commit(ctx, run.ID, CommitOptions{})
	require.NoError(t, err)
	assert.Contains(t, committed.Outcome.Tags, domain.TagAutoTrimApplied)

	ledger, err := f.svc.History(ctx, "evt-c")
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.True(t, ledger[0].PreCorrectionCost.Equal(d("42.00")))
	assert.True(t, ledger[0].FinalCost.Equal(d("34.20")))
}

func TestCommit_RedWithoutAutoCorrectNeedsConfirmation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, []domain.CatalogEntry{entry("BIG", "prize", "42.00", 1)})
	f.createEvent(t, flatEvent("evt-red", "seed"))
	off := false
	_, err := f.params.ValidateAndSet(ctx, params.Update{AutoCorrect: &off})
	require.NoError(t, err)

	run, err := f.svc.Preview(ctx, PreviewRequest{EventID: "evt-red", Template: single})
	require.NoError(t, err)
	assert.Equal(t, domain.RunPreviewed, run.State)
	assert.True(t, run.NeedsConfirmation())

	_, err = f.svc.Commit(ctx, run.ID, CommitOptions{})
	assert.ErrorIs(t, err, domain.ErrBudgetExceeded)
	assert.Equal(t, 1, f.quantity(t, "BIG"), "rejected commit must not touch stock")

	still, err := f.svc.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunPreviewed, still.State)

	committed, err := f.svc.Commit(ctx, run.ID, CommitOptions{ConfirmOverBudget: true})
	require.NoError(t, err)
	assert.Contains(t, committed.Outcome.Tags, domain.TagBudgetExceededConfirmed)
	assert.Equal(t, domain.BandRed, committed.Outcome.Band)
	assert.Equal(t, 0, f.quantity(t, "BIG"))
}

func TestCommit_NotAffordableNeedsConfirmation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, []domain.CatalogEntry{entry("P1", "prize", "1.00", 3)})
	f.createEvent(t, domain.EventContext{
		ID:               "evt-neg",
		Category:         domain.CategoryKit,
		PlayerCount:      6,
		EntryFee:         d("5.00"),
		KitCostPerPlayer: d("7.00"),
		Seed:             "s",
	})

	run, err := f.svc.Preview(ctx, PreviewRequest{EventID: "evt-neg", Template: single})
	require.NoError(t, err)
	assert.False(t, run.Outcome.Affordable)
	assert.Contains(t, run.Outcome.Tags, domain.TagNotAffordable)

	_, err = f.svc.Commit(ctx, run.ID, CommitOptions{})
	assert.ErrorIs(t, err, domain.ErrBudgetExceeded)
}

func TestCommit_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, []domain.CatalogEntry{entry("P1", "prize", "5.00", 3)})
	f.createEvent(t, flatEvent("evt-idem", "seed"))

	run, err := f.svc.Preview(ctx, PreviewRequest{EventID: "evt-idem", Template: single})
	require.NoError(t, err)

	first, err := f.svc.Commit(ctx, run.ID, CommitOptions{})
	require.NoError(t, err)
	second, err := f.svc.Commit(ctx, run.ID, CommitOptions{})
	require.NoError(t, err)
	assert.Equal(t, first.LedgerID, second.LedgerID)

	again, err := f.svc.Preview(ctx, PreviewRequest{EventID: "evt-idem", Template: single})
	require.NoError(t, err)
	assert.Equal(t, domain.RunCommitted, again.State)
	assert.True(t, again.Replayed)
	assert.Equal(t, first.LedgerID, again.LedgerID)
	assert.Equal(t, first.Outcome.CommitHash, again.Outcome.CommitHash)

	assert.Equal(t, 2, f.quantity(t, "P1"), "stock is decremented once")
	history, err := f.svc.History(ctx, "evt-idem")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestCommit_SecondRunForSameKeyReturnsPriorOutcome(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, []domain.CatalogEntry{entry("P1", "prize", "5.00", 3)})
	f.createEvent(t, flatEvent("evt-dup", "seed"))

	a, err := f.svc.Preview(ctx, PreviewRequest{EventID: "evt-dup", Template: single})
	require.NoError(t, err)
	b, err := f.svc.Preview(ctx, PreviewRequest{EventID: "evt-dup", Template: single})
	require.NoError(t, err)
	require.NotEqual(t, a.ID, b.ID)

	first, err := f.svc.Commit(ctx, a.ID, CommitOptions{})
	require.NoError(t, err)
	second, err := f.svc.Commit(ctx, b.ID, CommitOptions{})
	require.NoError(t, err)

	assert.True(t, second.Replayed)
	assert.Equal(t, first.LedgerID, second.LedgerID)
	assert.Equal(t, 2, f.quantity(t, "P1"))
}

func TestCommit_ConcurrentCommitsOfOneRun(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, []domain.CatalogEntry{
		entry("P1", "prize", "2.00", 10),
		entry("P2", "prize", "2.00", 10),
	})
	f.createEvent(t, flatEvent("evt-race", "seed"))

	run, err := f.svc.Preview(ctx, PreviewRequest{EventID: "evt-race", Template: grid.Template{{"prize", "prize"}}})
	require.NoError(t, err)

	checker := leaktest.NewGoroutineChecker(t)
	var wg sync.WaitGroup
	ledgerIDs := make([]string, 10)
	errs := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := f.svc.Commit(ctx, run.ID, CommitOptions{})
			errs[i] = err
			if r != nil {
				ledgerIDs[i] = r.LedgerID
			}
		}(i)
	}
	wg.Wait()
	checker.Check(0)

	for i := range errs {
		require.NoError(t, errs[i])
		assert.Equal(t, ledgerIDs[0], ledgerIDs[i])
	}
	assert.Equal(t, 9, f.quantity(t, "P1"))
	assert.Equal(t, 9, f.quantity(t, "P2"))
}

func TestCommit_StockRaceIsConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, []domain.CatalogEntry{entry("LAST", "prize", "5.00", 1)})
	f.createEvent(t, flatEvent("evt-a", "seed-a"))
	f.createEvent(t, flatEvent("evt-b", "seed-b"))

	a, err := f.svc.Preview(ctx, PreviewRequest{EventID: "evt-a", Template: single})
	require.NoError(t, err)
	b, err := f.svc.Preview(ctx, PreviewRequest{EventID: "evt-b", Template: single})
	require.NoError(t, err)

	_, err = f.svc.Commit(ctx, a.ID, CommitOptions{})
	require.NoError(t, err)

	_, err = f.svc.Commit(ctx, b.ID, CommitOptions{})
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.Equal(t, 0, f.quantity(t, "LAST"))

	_, err = f.svc.GetRun(ctx, b.ID)
	assert.ErrorIs(t, err, domain.ErrRunNotFound, "a conflicted run must be previewed again")

	retry, err := f.svc.Preview(ctx, PreviewRequest{EventID: "evt-b", Template: single})
	require.NoError(t, err)
	assert.Len(t, retry.Outcome.Gaps, 1)
	assert.Contains(t, retry.Outcome.Tags, domain.TagEligibilityGap)

	assert.Contains(t, f.events(), event.RunConflicted)
}

type failingAppendTx struct {
	repository.AllocationTx
}

func (t *failingAppendTx) AppendLedger(context.Context, domain.LedgerEntry) error {
	return errors.New("disk full")
}

type failingAppendStore struct {
	*memory.Store
}

func (s failingAppendStore) BeginTx(ctx context.Context) (repository.AllocationTx, error) {
	tx, err := s.Store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return &failingAppendTx{AllocationTx: tx}, nil
}

// staleLedger misses the next `hide` key lookups, as a reader would before
// another process's commit becomes visible.
type staleLedger struct {
	*memory.Store
	hide atomic.Int32
}

func (l *staleLedger) GetByIdempotencyKey(ctx context.Context, key string) (*domain.LedgerEntry, error) {
	if l.hide.Add(-1) >= 0 {
		return nil, nil
	}
	return l.Store.GetByIdempotencyKey(ctx, key)
}

type staleKeyTx struct {
	repository.AllocationTx
}

func (t *staleKeyTx) GetByIdempotencyKey(context.Context, string) (*domain.LedgerEntry, error) {
	return nil, nil
}

type staleKeyStore struct {
	*memory.Store
}

func (s staleKeyStore) BeginTx(ctx context.Context) (repository.AllocationTx, error) {
	tx, err := s.Store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return &staleKeyTx{AllocationTx: tx}, nil
}

func TestCommit_KeyTakenByOtherProcessReturnsPriorOutcome(t *testing.T) {
	ctx := context.Background()
	ledger := &staleLedger{}
	f := newFixture(t, []domain.CatalogEntry{entry("P1", "prize", "5.00", 3)}, func(fc *fixtureConfig) {
		fc.alloc = func(s *memory.Store) repository.Allocation { return staleKeyStore{s} }
		fc.ledger = func(s *memory.Store) repository.Ledger {
			ledger.Store = s
			return ledger
		}
	})
	f.createEvent(t, flatEvent("evt-multi", "seed"))

	a, err := f.svc.Preview(ctx, PreviewRequest{EventID: "evt-multi", Template: single})
	require.NoError(t, err)
	b, err := f.svc.Preview(ctx, PreviewRequest{EventID: "evt-multi", Template: single})
	require.NoError(t, err)

	winner, err := f.svc.Commit(ctx, a.ID, CommitOptions{})
	require.NoError(t, err)

	ledger.hide.Store(1)
	loser, err := f.svc.Commit(ctx, b.ID, CommitOptions{})
	require.NoError(t, err)

	assert.Equal(t, domain.RunCommitted, loser.State)
	assert.True(t, loser.Replayed)
	assert.Equal(t, winner.LedgerID, loser.LedgerID)
	assert.Equal(t, 2, f.quantity(t, "P1"), "the losing commit rolled back its decrement")
	assert.NotContains(t, f.events(), event.RunConflicted)

	history, err := f.svc.History(ctx, "evt-multi")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestCommit_LedgerFailureRollsBackEverything(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, []domain.CatalogEntry{entry("P1", "prize", "5.00", 3)}, func(fc *fixtureConfig) {
		fc.alloc = func(s *memory.Store) repository.Allocation { return failingAppendStore{s} }
	})
	f.createEvent(t, flatEvent("evt-fail", "seed"))

	run, err := f.svc.Preview(ctx, PreviewRequest{EventID: "evt-fail", Template: single})
	require.NoError(t, err)

	_, err = f.svc.Commit(ctx, run.ID, CommitOptions{})
	assert.ErrorIs(t, err, domain.ErrPersistence)

	assert.Equal(t, 3, f.quantity(t, "P1"))
	saved, err := f.store.GetEventGrid(ctx, "evt-fail")
	require.NoError(t, err)
	assert.Nil(t, saved)

	still, err := f.svc.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunPreviewed, still.State)
}

func TestAbort(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, []domain.CatalogEntry{entry("P1", "prize", "5.00", 3)})
	f.createEvent(t, flatEvent("evt-abort", "seed"))

	run, err := f.svc.Preview(ctx, PreviewRequest{EventID: "evt-abort", Template: single})
	require.NoError(t, err)

	aborted, err := f.svc.Abort(ctx, run.ID, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, domain.RunAborted, aborted.State)

	_, err = f.svc.Commit(ctx, run.ID, CommitOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.svc.Abort(ctx, run.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	assert.Equal(t, 3, f.quantity(t, "P1"))
	assert.Contains(t, f.events(), event.RunAborted)
}

func TestAbort_CommittedRunCannotBeAborted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, []domain.CatalogEntry{entry("P1", "prize", "5.00", 3)})
	f.createEvent(t, flatEvent("evt-done", "seed"))

	run, err := f.svc.Preview(ctx, PreviewRequest{EventID: "evt-done", Template: single})
	require.NoError(t, err)
	_, err = f.svc.Commit(ctx, run.ID, CommitOptions{})
	require.NoError(t, err)

	_, err = f.svc.Abort(ctx, run.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestRunExpiry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, []domain.CatalogEntry{entry("P1", "prize", "5.00", 3)}, func(fc *fixtureConfig) {
		fc.cfg = Config{RunCacheSize: 8, RunTTL: 20 * time.Millisecond}
	})
	f.createEvent(t, flatEvent("evt-ttl", "seed"))

	run, err := f.svc.Preview(ctx, PreviewRequest{EventID: "evt-ttl", Template: single})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, err := f.svc.GetRun(ctx, run.ID)
		return errors.Is(err, domain.ErrRunNotFound)
	}, time.Second, 10*time.Millisecond)

	_, err = f.svc.Commit(ctx, run.ID, CommitOptions{})
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
	assert.Equal(t, 3, f.quantity(t, "P1"))
}

func TestPreview_Errors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	_, err := f.svc.Preview(ctx, PreviewRequest{EventID: "missing"})
	assert.ErrorIs(t, err, domain.ErrEventNotFound)

	_, err = f.svc.Preview(ctx, PreviewRequest{EventID: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	f.createEvent(t, flatEvent("evt-x", "seed"))
	_, err = f.svc.Preview(ctx, PreviewRequest{EventID: "evt-x", Template: grid.Template{{"a", "b"}, {"c"}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.GetRun(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}

func TestPreview_DefaultTemplateIsDeterministic(t *testing.T) {
	ctx := context.Background()
	var entries []domain.CatalogEntry
	for _, tier := range grid.DefaultTemplate().Tiers() {
		for _, code := range []string{"a", "b", "c", "d"} {
			entries = append(entries, entry(tier+"-"+code, tier, "1.00", 2))
		}
	}
	f := newFixture(t, entries)
	f.createEvent(t, domain.EventContext{
		ID:          "evt-det",
		Category:    domain.CategoryFlat,
		PlayerCount: 20,
		EntryFee:    d("10.00"),
		Seed:        "evt-42",
	})

	a, err := f.svc.Preview(ctx, PreviewRequest{EventID: "evt-det"})
	require.NoError(t, err)
	b, err := f.svc.Preview(ctx, PreviewRequest{EventID: "evt-det"})
	require.NoError(t, err)

	assert.Equal(t, grid.DefaultRanks, a.Outcome.Grid.Ranks())
	assert.Equal(t, grid.DefaultRounds, a.Outcome.Grid.Rounds())
	assert.Equal(t, a.Outcome.PreviewHash, b.Outcome.PreviewHash)
	assert.Equal(t, a.Outcome.Grid.Cells, b.Outcome.Grid.Cells)
	assert.Empty(t, a.Outcome.Gaps)
}

type tamperedEvents struct {
	*memory.Store
}

func (t tamperedEvents) GetEventGrid(ctx context.Context, id string) (*domain.PrizeGrid, error) {
	g, err := t.Store.GetEventGrid(ctx, id)
	if err != nil || g == nil {
		return g, err
	}
	g.Cells[0][0].Code = "FORGED"
	return g, nil
}

func TestVerify_DetectsTamperedGrid(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, []domain.CatalogEntry{entry("P1", "prize", "5.00", 3)}, func(fc *fixtureConfig) {
		fc.events = func(s *memory.Store) repository.Events { return tamperedEvents{s} }
	})
	f.createEvent(t, flatEvent("evt-tamper", "seed"))

	run, err := f.svc.Preview(ctx, PreviewRequest{EventID: "evt-tamper", Template: single})
	require.NoError(t, err)
	committed, err := f.svc.Commit(ctx, run.ID, CommitOptions{})
	require.NoError(t, err)

	v, err := f.svc.Verify(ctx, committed.LedgerID)
	require.NoError(t, err)
	assert.False(t, v.Valid)
	assert.Contains(t, v.Problem, domain.ErrMsgHashMismatch)

	_, err = f.svc.Verify(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrLedgerMissing)
}

func TestHistory_RequiresEventID(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.History(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	entries, err := f.svc.History(context.Background(), "evt-none")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
