package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/osse101/prizegrid/internal/budget"
	"github.com/osse101/prizegrid/internal/domain"
	"github.com/osse101/prizegrid/internal/ids"
	"github.com/osse101/prizegrid/internal/logger"
)

// LedgerAppender is the append-only sink a commit writes to.
type LedgerAppender interface {
	AppendLedger(ctx context.Context, entry domain.LedgerEntry) error
}

// Summary is the financial state handed to RecordCommit.
type Summary struct {
	Event       domain.EventContext
	Ceiling     budget.Ceiling
	Correction  budget.Correction
	PreviewHash string
	Tags        []string
}

// Recorder hashes grids and writes ledger entries.
type Recorder struct {
	now   func() time.Time
	newID func(time.Time) string
}

// NewRecorder creates a Recorder stamping entries with wall-clock time and ULIDs.
func NewRecorder() *Recorder {
	return &Recorder{
		now:   func() time.Time { return time.Now().UTC() },
		newID: ids.NewAt,
	}
}

// RecordPreview returns the preview hash of grid and seed.
func (r *Recorder) RecordPreview(grid domain.PrizeGrid, seed string) string {
	return Hash(grid, seed)
}

// RecordCommit recomputes the hash, checks it against the preview, and appends
// one ledger entry. Any append failure is a persistence error and the run must
// not be treated as committed.
func (r *Recorder) RecordCommit(ctx context.Context, sink LedgerAppender, grid domain.PrizeGrid, seed string, s Summary) (domain.LedgerEntry, error) {
	log := logger.FromContext(ctx)

	commitHash := Hash(grid, seed)
	if s.PreviewHash != "" && s.PreviewHash != commitHash {
		log.Error(LogMsgHashMismatch, "event_id", s.Event.ID, "preview_hash", s.PreviewHash, "commit_hash", commitHash)
		return domain.LedgerEntry{}, fmt.Errorf("%w: "+ErrMsgPreviewMismatch, domain.ErrHashMismatch, s.PreviewHash, commitHash)
	}

	at := r.now()
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	entry := domain.LedgerEntry{
		ID:                r.newID(at),
		IdempotencyKey:    s.Event.IdempotencyKey(),
		EventID:           s.Event.ID,
		Event:             s.Event,
		Grid:              grid,
		EligibleNet:       s.Ceiling.EligibleNet,
		Ceiling:           s.Ceiling.Ceiling,
		Dial:              s.Ceiling.Dial,
		PreCorrectionCost: s.Correction.TotalCost,
		Usage:             s.Correction.Usage,
		PreBand:           s.Correction.PreBand,
		Band:              s.Correction.Band,
		WasTrimmed:        s.Correction.WasTrimmed,
		TrimAmount:        s.Correction.TrimAmount,
		FinalCost:         s.Correction.FinalCost,
		Seed:              seed,
		PreviewHash:       s.PreviewHash,
		CommitHash:        commitHash,
		Tags:              tags,
		CreatedAt:         at,
	}
	if entry.PreviewHash == "" {
		entry.PreviewHash = commitHash
	}

	if err := sink.AppendLedger(ctx, entry); err != nil {
		log.Error(LogMsgLedgerAppendFailed, "event_id", entry.EventID, "error", err)
		return domain.LedgerEntry{}, fmt.Errorf("%w: %s: %w", domain.ErrPersistence, ErrMsgAppendFailed, err)
	}

	log.Info(LogMsgLedgerAppended, "ledger_id", entry.ID, "event_id", entry.EventID, "commit_hash", commitHash)
	return entry, nil
}

// Verify recomputes the hash and cost of a stored entry and checks them
// against what was recorded.
func Verify(entry domain.LedgerEntry) error {
	recomputed := Hash(entry.Grid, entry.Seed)
	if entry.CommitHash != recomputed {
		return fmt.Errorf("%w: "+ErrMsgStoredMismatch, domain.ErrHashMismatch, entry.ID, "commit", entry.CommitHash, recomputed)
	}
	if entry.PreviewHash != recomputed {
		return fmt.Errorf("%w: "+ErrMsgStoredMismatch, domain.ErrHashMismatch, entry.ID, "preview", entry.PreviewHash, recomputed)
	}
	if cost := GridCost(entry.Grid); !cost.Equal(entry.PreCorrectionCost) {
		return fmt.Errorf("%w: "+ErrMsgCostMismatch, domain.ErrHashMismatch, entry.ID, entry.PreCorrectionCost, cost)
	}
	return nil
}

// GridCost recomputes the pre-correction cost from the cells.
func GridCost(grid domain.PrizeGrid) decimal.Decimal {
	total := decimal.Zero
	for _, row := range grid.Cells {
		for _, c := range row {
			if !c.Gap {
				total = total.Add(c.UnitCost)
			}
		}
	}
	return total
}
