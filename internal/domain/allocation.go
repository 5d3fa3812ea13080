package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Band classifies budget usage against the ceiling.
type Band string

const (
	BandGreen Band = "GREEN"
	BandAmber Band = "AMBER"
	BandRed   Band = "RED"
)

// RunState is the lifecycle of one allocation run.
type RunState string

const (
	RunDrafted   RunState = "DRAFTED"
	RunPreviewed RunState = "PREVIEWED"
	RunTrimmed   RunState = "TRIMMED"
	RunCommitted RunState = "COMMITTED"
	RunAborted   RunState = "ABORTED"
)

// Terminal reports whether no further transition is possible.
func (s RunState) Terminal() bool {
	return s == RunCommitted || s == RunAborted
}

// CanTransition reports whether moving from s to next is legal.
func (s RunState) CanTransition(next RunState) bool {
	switch s {
	case RunDrafted:
		return next == RunPreviewed
	case RunPreviewed:
		return next == RunTrimmed || next == RunCommitted || next == RunAborted
	case RunTrimmed:
		return next == RunCommitted || next == RunAborted
	}
	return false
}

// GapCode marks a grid cell that had no eligible entry.
const GapCode = ""

// PrizeCell is one position of the grid. Ranks and rounds are 1-based.
type PrizeCell struct {
	Rank     int             `json:"rank"`
	Round    int             `json:"round"`
	Tier     string          `json:"tier"`
	Code     string          `json:"code"`
	Name     string          `json:"name,omitempty"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Gap      bool            `json:"gap,omitempty"`
}

// PrizeGrid is the ranks x rounds matrix of selections plus the running total.
type PrizeGrid struct {
	Cells     [][]PrizeCell   `json:"cells"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// Ranks returns the number of rows.
func (g PrizeGrid) Ranks() int {
	return len(g.Cells)
}

// Rounds returns the number of columns of the first rank.
func (g PrizeGrid) Rounds() int {
	if len(g.Cells) == 0 {
		return 0
	}
	return len(g.Cells[0])
}

// Gaps returns the cells that hold the gap sentinel, rank-major.
func (g PrizeGrid) Gaps() []PrizeCell {
	var gaps []PrizeCell
	for _, row := range g.Cells {
		for _, c := range row {
			if c.Gap {
				gaps = append(gaps, c)
			}
		}
	}
	return gaps
}

// CodeCounts returns how many times each code was selected.
func (g PrizeGrid) CodeCounts() map[string]int {
	counts := make(map[string]int)
	for _, row := range g.Cells {
		for _, c := range row {
			if !c.Gap {
				counts[c.Code]++
			}
		}
	}
	return counts
}

// AllocationOutcome is the result bundle of one run.
// TotalCost on the grid is the pre-correction cost and is never changed;
// CorrectedCost is set only when a trim applied.
type AllocationOutcome struct {
	Grid          PrizeGrid        `json:"grid"`
	EligibleNet   decimal.Decimal  `json:"eligible_net"`
	Ceiling       decimal.Decimal  `json:"ceiling"`
	Dial          decimal.Decimal  `json:"dial"`
	Usage         decimal.Decimal  `json:"usage"`
	PreBand       Band             `json:"pre_band"`
	Band          Band             `json:"band"`
	WasTrimmed    bool             `json:"was_trimmed"`
	TrimAmount    decimal.Decimal  `json:"trim_amount"`
	CorrectedCost *decimal.Decimal `json:"corrected_cost,omitempty"`
	FinalCost     decimal.Decimal  `json:"final_cost"`
	Affordable    bool             `json:"affordable"`
	Gaps          []PrizeCell      `json:"gaps,omitempty"`
	Tags          []string         `json:"tags,omitempty"`
	PreviewHash   string           `json:"preview_hash"`
	CommitHash    string           `json:"commit_hash,omitempty"`
}

// NeedsConfirmation reports a RED outcome that was not auto-corrected.
func (o AllocationOutcome) NeedsConfirmation() bool {
	return o.Band == BandRed && !o.WasTrimmed
}

// LedgerEntry is the immutable audit record appended on commit.
type LedgerEntry struct {
	ID                string          `json:"id"`
	IdempotencyKey    string          `json:"idempotency_key"`
	EventID           string          `json:"event_id"`
	Event             EventContext    `json:"event"`
	Grid              PrizeGrid       `json:"grid"`
	EligibleNet       decimal.Decimal `json:"eligible_net"`
	Ceiling           decimal.Decimal `json:"ceiling"`
	Dial              decimal.Decimal `json:"dial"`
	PreCorrectionCost decimal.Decimal `json:"pre_correction_cost"`
	Usage             decimal.Decimal `json:"usage"`
	PreBand           Band            `json:"pre_band"`
	Band              Band            `json:"band"`
	WasTrimmed        bool            `json:"was_trimmed"`
	TrimAmount        decimal.Decimal `json:"trim_amount"`
	FinalCost         decimal.Decimal `json:"final_cost"`
	Seed              string          `json:"seed"`
	PreviewHash       string          `json:"preview_hash"`
	CommitHash        string          `json:"commit_hash"`
	Tags              []string        `json:"tags"`
	CreatedAt         time.Time       `json:"created_at"`
}

// Outcome rebuilds the caller-facing outcome from a ledger record.
func (l LedgerEntry) Outcome() AllocationOutcome {
	out := AllocationOutcome{
		Grid:        l.Grid,
		EligibleNet: l.EligibleNet,
		Ceiling:     l.Ceiling,
		Dial:        l.Dial,
		Usage:       l.Usage,
		PreBand:     l.PreBand,
		Band:        l.Band,
		WasTrimmed:  l.WasTrimmed,
		TrimAmount:  l.TrimAmount,
		FinalCost:   l.FinalCost,
		Affordable:  l.Ceiling.IsPositive(),
		Gaps:        l.Grid.Gaps(),
		Tags:        l.Tags,
		PreviewHash: l.PreviewHash,
		CommitHash:  l.CommitHash,
	}
	if l.WasTrimmed {
		corrected := l.FinalCost
		out.CorrectedCost = &corrected
	}
	return out
}
