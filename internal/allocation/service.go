package allocation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/osse101/prizegrid/internal/audit"
	"github.com/osse101/prizegrid/internal/budget"
	"github.com/osse101/prizegrid/internal/concurrency"
	"github.com/osse101/prizegrid/internal/domain"
	"github.com/osse101/prizegrid/internal/event"
	"github.com/osse101/prizegrid/internal/grid"
	"github.com/osse101/prizegrid/internal/ids"
	"github.com/osse101/prizegrid/internal/logger"
	"github.com/osse101/prizegrid/internal/metrics"
	"github.com/osse101/prizegrid/internal/params"
	"github.com/osse101/prizegrid/internal/repository"
)

// Service runs the preview and commit lifecycle of prize allocations.
type Service interface {
	// Preview draws a grid for the event and holds it as a run. If the event
	// was already committed with its seed, the committed outcome is returned
	// as a COMMITTED run and nothing is drawn.
	Preview(ctx context.Context, req PreviewRequest) (*Run, error)

	// GetRun returns a cached run. Expired runs return domain.ErrRunNotFound.
	GetRun(ctx context.Context, runID string) (*Run, error)

	// Commit decrements stock, persists the grid and appends the ledger entry
	// in one transaction. A RED run that was not trimmed needs
	// opts.ConfirmOverBudget or it fails with domain.ErrBudgetExceeded.
	Commit(ctx context.Context, runID string, opts CommitOptions) (*Run, error)

	// Abort abandons a previewed run.
	Abort(ctx context.Context, runID string, reason string) (*Run, error)

	// History lists ledger entries for an event in append order.
	History(ctx context.Context, eventID string) ([]domain.LedgerEntry, error)

	// Verify recomputes a ledger entry's hashes and cost.
	Verify(ctx context.Context, ledgerID string) (*Verification, error)
}

// PreviewRequest selects the event to allocate. A nil Template uses the
// default four ranks by three rounds.
type PreviewRequest struct {
	EventID  string        `json:"event_id" validate:"required,max=128"`
	Template grid.Template `json:"template,omitempty" validate:"omitempty,max=16,dive,min=1,max=16,dive,required,max=64"`
}

// CommitOptions carries caller decisions made at commit time.
type CommitOptions struct {
	ConfirmOverBudget bool `json:"confirm_over_budget"`
}

// Verification is the result of re-checking a ledger entry.
type Verification struct {
	LedgerID   string `json:"ledger_id"`
	EventID    string `json:"event_id"`
	CommitHash string `json:"commit_hash"`
	Recomputed string `json:"recomputed_hash"`
	Valid      bool   `json:"valid"`
	Problem    string `json:"problem,omitempty"`
}

// Config sizes the run cache.
type Config struct {
	RunCacheSize int
	RunTTL       time.Duration
}

type service struct {
	catalog   repository.Catalog
	events    repository.Events
	ledger    repository.Ledger
	store     repository.Allocation
	params    params.Service
	publisher event.Publisher
	recorder  *audit.Recorder
	locks     *concurrency.LockManager
	runs      *runCache
	now       func() time.Time
}

// NewService creates an allocation service. publisher may be nil.
func NewService(
	catalog repository.Catalog,
	events repository.Events,
	ledger repository.Ledger,
	store repository.Allocation,
	paramsSvc params.Service,
	publisher event.Publisher,
	cfg Config,
) Service {
	return &service{
		catalog:   catalog,
		events:    events,
		ledger:    ledger,
		store:     store,
		params:    paramsSvc,
		publisher: publisher,
		recorder:  audit.NewRecorder(),
		locks:     concurrency.NewLockManager(),
		runs:      newRunCache(cfg.RunCacheSize, cfg.RunTTL),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Preview(ctx context.Context, req PreviewRequest) (*Run, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(req.EventID) == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgEventIDRequired)
	}
	tpl := req.Template
	if tpl == nil {
		tpl = grid.DefaultTemplate()
	}
	if err := tpl.Validate(); err != nil {
		return nil, err
	}

	evt, err := s.events.GetEvent(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: "+ErrMsgLoadEvent, domain.ErrPersistence, req.EventID, err)
	}
	if err := evt.Validate(); err != nil {
		return nil, err
	}

	log.Info(LogMsgPreviewStarted, "event_id", evt.ID, "category", evt.Category, "seed", evt.Seed)

	prior, err := s.ledger.GetByIdempotencyKey(ctx, evt.IdempotencyKey())
	if err != nil {
		return nil, fmt.Errorf("%w: "+ErrMsgLoadLedger, domain.ErrPersistence, err)
	}
	if prior != nil {
		log.Info(LogMsgAlreadyCommitted, "event_id", evt.ID, "ledger_id", prior.ID)
		run := s.replayedRun(*evt, tpl, *prior)
		s.runs.Put(run)
		return &run, nil
	}

	p, err := s.params.Get(ctx)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.catalog.GetEligibleEntries(ctx, "", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: "+ErrMsgLoadCatalog, domain.ErrPersistence, err)
	}

	ceiling := budget.ComputeCeiling(*evt, p)
	if !ceiling.Affordable() {
		log.Warn(LogMsgCeilingNotPositive, "event_id", evt.ID, "eligible_net", ceiling.EligibleNet.String())
	}

	result := grid.Generate(tpl, *evt, p, snapshot)
	if len(result.Gaps) > 0 {
		log.Warn(LogMsgGapsInGrid, "event_id", evt.ID, "gaps", len(result.Gaps), "error", domain.ErrEligibilityGap)
	}

	correction := budget.ApplyCorrection(result.TotalCost(), ceiling.Ceiling, p)
	previewHash := s.recorder.RecordPreview(result.Grid, evt.Seed)

	at := s.now()
	run := Run{
		ID:         ids.NewAt(at),
		State:      domain.RunDrafted,
		Event:      *evt,
		Params:     p,
		Template:   tpl,
		Ceiling:    ceiling,
		Correction: correction,
		CreatedAt:  at,
		UpdatedAt:  at,
	}
	tags := audit.BuildTags(audit.TagInput{
		Event:      *evt,
		Params:     p,
		Ceiling:    ceiling,
		Correction: correction,
		GapCount:   len(result.Gaps),
	})
	run.Outcome = buildOutcome(result.Grid, ceiling, correction, tags, previewHash)

	if run, err = run.transition(domain.RunPreviewed, at); err != nil {
		return nil, err
	}
	if correction.WasTrimmed {
		if run, err = run.transition(domain.RunTrimmed, at); err != nil {
			return nil, err
		}
	}
	s.runs.Put(run)

	log.Info(LogMsgPreviewed,
		"run_id", run.ID,
		"event_id", evt.ID,
		"state", run.State,
		"pre_band", correction.PreBand,
		"band", correction.Band,
		"usage", correction.Usage.String(),
		"preview_hash", previewHash)

	s.publish(ctx, event.NewRunPreviewedEvent(event.RunPreviewedPayloadV1{
		RunID:      run.ID,
		EventID:    evt.ID,
		PreBand:    string(correction.PreBand),
		Band:       string(correction.Band),
		Usage:      correction.Usage.String(),
		WasTrimmed: correction.WasTrimmed,
		GapCount:   len(result.Gaps),
	}))
	return &run, nil
}

func (s *service) GetRun(_ context.Context, runID string) (*Run, error) {
	run, ok := s.runs.Get(runID)
	if !ok {
		return nil, fmt.Errorf("%w: "+ErrMsgRunNotFound, domain.ErrRunNotFound, runID)
	}
	return &run, nil
}

func (s *service) Commit(ctx context.Context, runID string, opts CommitOptions) (*Run, error) {
	log := logger.FromContext(ctx)

	run, ok := s.runs.Get(runID)
	if !ok {
		return nil, fmt.Errorf("%w: "+ErrMsgRunNotFound, domain.ErrRunNotFound, runID)
	}

	key := run.Event.IdempotencyKey()
	codes := sortedCodes(run.Outcome.Grid.CodeCounts())
	lockKeys := make([]string, 0, len(codes)+1)
	lockKeys = append(lockKeys, concurrency.IdempotencyKey(key))
	for _, code := range codes {
		lockKeys = append(lockKeys, concurrency.CatalogKey(code))
	}
	unlock := s.locks.LockAll(lockKeys...)
	defer unlock()

	// Another caller may have moved the run while we waited for the locks.
	if run, ok = s.runs.Get(runID); !ok {
		return nil, fmt.Errorf("%w: "+ErrMsgRunNotFound, domain.ErrRunNotFound, runID)
	}
	if run.State == domain.RunCommitted {
		return &run, nil
	}
	if run.State.Terminal() {
		return nil, fmt.Errorf("%w: run %s is %s", domain.ErrInvalidTransition, run.ID, run.State)
	}

	prior, err := s.ledger.GetByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: "+ErrMsgLoadLedger, domain.ErrPersistence, err)
	}
	if prior != nil {
		return s.finishReplay(ctx, run, *prior)
	}

	confirmed := false
	if run.NeedsConfirmation() {
		if !opts.ConfirmOverBudget {
			log.Warn(LogMsgCommitRejected, "run_id", run.ID, "usage", run.Correction.Usage.String())
			return nil, fmt.Errorf("%w: "+ErrMsgNeedsConfirm, domain.ErrBudgetExceeded, run.ID, run.Correction.Usage)
		}
		confirmed = true
	}

	tags := audit.BuildTags(audit.TagInput{
		Event:               run.Event,
		Params:              run.Params,
		Ceiling:             run.Ceiling,
		Correction:          run.Correction,
		GapCount:            len(run.Outcome.Gaps),
		OverBudgetConfirmed: confirmed,
	})

	start := time.Now()
	entry, replay, err := s.commitTx(ctx, run, tags)
	metrics.CommitDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			log.Warn(LogMsgCommitConflict, "run_id", run.ID, "event_id", run.Event.ID, "error", err)
			s.runs.Remove(run.ID)
			s.publish(ctx, event.NewRunConflictedEvent(event.RunConflictedPayloadV1{
				RunID:   run.ID,
				EventID: run.Event.ID,
				Error:   err.Error(),
			}))
		}
		return nil, err
	}
	if replay {
		return s.finishReplay(ctx, run, entry)
	}

	committed, err := run.transition(domain.RunCommitted, s.now())
	if err != nil {
		return nil, err
	}
	committed.LedgerID = entry.ID
	committed.Outcome.Tags = entry.Tags
	committed.Outcome.CommitHash = entry.CommitHash
	s.runs.Put(committed)

	log.Info(LogMsgCommitted,
		"run_id", committed.ID,
		"event_id", committed.Event.ID,
		"ledger_id", entry.ID,
		"band", entry.Band,
		"final_cost", entry.FinalCost.String(),
		"tags", entry.Tags)

	s.publishCommitted(ctx, committed, false)
	return &committed, nil
}

// commitTx performs every write of a commit. It reports replay=true when the
// ledger already held the key inside the transaction.
func (s *service) commitTx(ctx context.Context, run Run, tags []string) (domain.LedgerEntry, bool, error) {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return domain.LedgerEntry{}, false, fmt.Errorf("%w: "+ErrMsgBeginTx, domain.ErrPersistence, err)
	}
	defer repository.SafeRollback(ctx, tx)

	prior, err := tx.GetByIdempotencyKey(ctx, run.Event.IdempotencyKey())
	if err != nil {
		return domain.LedgerEntry{}, false, fmt.Errorf("%w: "+ErrMsgLoadLedger, domain.ErrPersistence, err)
	}
	if prior != nil {
		return *prior, true, nil
	}

	counts := run.Outcome.Grid.CodeCounts()
	for _, code := range sortedCodes(counts) {
		if err := tx.DecrementQuantity(ctx, code, counts[code]); err != nil {
			if errors.Is(err, domain.ErrConcurrencyConflict) {
				return domain.LedgerEntry{}, false, err
			}
			return domain.LedgerEntry{}, false, fmt.Errorf("%w: "+ErrMsgDecrement, domain.ErrPersistence, code, err)
		}
	}

	if err := tx.SaveEventGrid(ctx, run.Event.ID, run.Outcome.Grid); err != nil {
		return domain.LedgerEntry{}, false, fmt.Errorf("%w: "+ErrMsgSaveGrid, domain.ErrPersistence, run.Event.ID, err)
	}

	entry, err := s.recorder.RecordCommit(ctx, tx, run.Outcome.Grid, run.Event.Seed, audit.Summary{
		Event:       run.Event,
		Ceiling:     run.Ceiling,
		Correction:  run.Correction,
		PreviewHash: run.Outcome.PreviewHash,
		Tags:        tags,
	})
	if errors.Is(err, domain.ErrLedgerKeyExists) {
		// Another process committed the key after the check above.
		repository.SafeRollback(ctx, tx)
		return s.priorCommit(ctx, run.Event.IdempotencyKey(), err)
	}
	if err != nil {
		return domain.LedgerEntry{}, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			return domain.LedgerEntry{}, false, err
		}
		return domain.LedgerEntry{}, false, fmt.Errorf("%w: "+ErrMsgCommitTx, domain.ErrPersistence, err)
	}
	return entry, false, nil
}

// priorCommit loads the ledger entry that won the key. cause is returned when
// the winner is not visible.
func (s *service) priorCommit(ctx context.Context, key string, cause error) (domain.LedgerEntry, bool, error) {
	prior, err := s.ledger.GetByIdempotencyKey(ctx, key)
	if err != nil {
		return domain.LedgerEntry{}, false, fmt.Errorf("%w: "+ErrMsgLoadLedger, domain.ErrPersistence, err)
	}
	if prior == nil {
		return domain.LedgerEntry{}, false, cause
	}
	return *prior, true, nil
}

// finishReplay turns a cached run into the committed run recorded under its key.
func (s *service) finishReplay(ctx context.Context, run Run, prior domain.LedgerEntry) (*Run, error) {
	logger.FromContext(ctx).Info(LogMsgAlreadyCommitted, "run_id", run.ID, "event_id", run.Event.ID, "ledger_id", prior.ID)

	replayed := s.replayedRun(run.Event, run.Template, prior)
	replayed.ID = run.ID
	replayed.CreatedAt = run.CreatedAt
	replayed.Params = run.Params
	s.runs.Put(replayed)

	s.publishCommitted(ctx, replayed, true)
	return &replayed, nil
}

// replayedRun rebuilds a COMMITTED run from a ledger entry.
func (s *service) replayedRun(evt domain.EventContext, tpl grid.Template, entry domain.LedgerEntry) Run {
	outcome := entry.Outcome()
	at := s.now()
	return Run{
		ID:       ids.NewAt(at),
		State:    domain.RunCommitted,
		Event:    entry.Event,
		Template: tpl,
		Ceiling: budget.Ceiling{
			EligibleNet: entry.EligibleNet,
			Dial:        entry.Dial,
			Ceiling:     entry.Ceiling,
		},
		Correction: budget.Correction{
			TotalCost:  entry.PreCorrectionCost,
			Usage:      entry.Usage,
			PreBand:    entry.PreBand,
			Band:       entry.Band,
			FinalCost:  entry.FinalCost,
			WasTrimmed: entry.WasTrimmed,
			TrimAmount: entry.TrimAmount,
			Affordable: outcome.Affordable,
		},
		Outcome:   outcome,
		LedgerID:  entry.ID,
		Replayed:  true,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func (s *service) Abort(ctx context.Context, runID string, reason string) (*Run, error) {
	run, ok := s.runs.Get(runID)
	if !ok {
		return nil, fmt.Errorf("%w: "+ErrMsgRunNotFound, domain.ErrRunNotFound, runID)
	}

	unlock := s.locks.LockAll(concurrency.IdempotencyKey(run.Event.IdempotencyKey()))
	defer unlock()

	if run, ok = s.runs.Get(runID); !ok {
		return nil, fmt.Errorf("%w: "+ErrMsgRunNotFound, domain.ErrRunNotFound, runID)
	}
	aborted, err := run.transition(domain.RunAborted, s.now())
	if err != nil {
		return nil, err
	}
	s.runs.Put(aborted)

	logger.FromContext(ctx).Info(LogMsgAborted, "run_id", aborted.ID, "event_id", aborted.Event.ID, "reason", reason)
	s.publish(ctx, event.NewRunAbortedEvent(event.RunAbortedPayloadV1{
		RunID:   aborted.ID,
		EventID: aborted.Event.ID,
		Reason:  reason,
	}))
	return &aborted, nil
}

func (s *service) History(ctx context.Context, eventID string) ([]domain.LedgerEntry, error) {
	if strings.TrimSpace(eventID) == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgEventIDRequired)
	}
	entries, err := s.ledger.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("%w: "+ErrMsgLoadLedger, domain.ErrPersistence, err)
	}
	if entries == nil {
		entries = []domain.LedgerEntry{}
	}
	return entries, nil
}

func (s *service) Verify(ctx context.Context, ledgerID string) (*Verification, error) {
	entry, err := s.ledger.Get(ctx, ledgerID)
	if err != nil {
		if errors.Is(err, domain.ErrLedgerMissing) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: "+ErrMsgLoadLedger, domain.ErrPersistence, err)
	}

	v := &Verification{
		LedgerID:   entry.ID,
		EventID:    entry.EventID,
		CommitHash: entry.CommitHash,
		Recomputed: audit.Hash(entry.Grid, entry.Seed),
		Valid:      true,
	}

	if err := audit.Verify(*entry); err != nil {
		v.Valid = false
		v.Problem = err.Error()
	} else if persisted, err := s.events.GetEventGrid(ctx, entry.EventID); err != nil {
		return nil, fmt.Errorf("%w: "+ErrMsgLoadEvent, domain.ErrPersistence, entry.EventID, err)
	} else if persisted != nil {
		if h := audit.Hash(*persisted, entry.Seed); h != entry.CommitHash {
			v.Valid = false
			v.Problem = fmt.Errorf("%w: "+ErrMsgGridMismatch, domain.ErrHashMismatch, entry.EventID, h, entry.CommitHash).Error()
		}
	}

	if !v.Valid {
		logger.FromContext(ctx).Warn(LogMsgVerifyMismatch, "ledger_id", entry.ID, "problem", v.Problem)
	}
	return v, nil
}

func (s *service) publishCommitted(ctx context.Context, run Run, replayed bool) {
	s.publish(ctx, event.NewRunCommittedEvent(event.RunCommittedPayloadV1{
		RunID:       run.ID,
		EventID:     run.Event.ID,
		LedgerID:    run.LedgerID,
		Band:        string(run.Outcome.Band),
		WasTrimmed:  run.Outcome.WasTrimmed,
		PreCost:     run.Outcome.Grid.TotalCost.String(),
		FinalCost:   run.Outcome.FinalCost.String(),
		TrimAmount:  run.Outcome.TrimAmount.String(),
		UnitsIssued: run.UnitsIssued(),
		Tags:        run.Outcome.Tags,
		Replayed:    replayed,
	}))
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "event_type", evt.Type, "error", err)
	}
}

func buildOutcome(g domain.PrizeGrid, c budget.Ceiling, corr budget.Correction, tags []string, previewHash string) domain.AllocationOutcome {
	out := domain.AllocationOutcome{
		Grid:        g,
		EligibleNet: c.EligibleNet,
		Ceiling:     c.Ceiling,
		Dial:        c.Dial,
		Usage:       corr.Usage,
		PreBand:     corr.PreBand,
		Band:        corr.Band,
		WasTrimmed:  corr.WasTrimmed,
		TrimAmount:  corr.TrimAmount,
		FinalCost:   corr.FinalCost,
		Affordable:  corr.Affordable,
		Gaps:        g.Gaps(),
		Tags:        tags,
		PreviewHash: previewHash,
	}
	if corr.WasTrimmed {
		corrected := corr.FinalCost
		out.CorrectedCost = &corrected
	}
	return out
}

func sortedCodes(counts map[string]int) []string {
	codes := make([]string, 0, len(counts))
	for code := range counts {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
