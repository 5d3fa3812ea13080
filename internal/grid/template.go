package grid

import (
	"fmt"
	"strings"

	"github.com/osse101/prizegrid/internal/domain"
)

// Template is a ranks x rounds matrix of tier labels.
type Template [][]string

// DefaultTemplate returns the 4 ranks x 3 rounds layout: one tier per rank,
// best tier on rank 1.
func DefaultTemplate() Template {
	tiers := []string{TierGold, TierSilver, TierBronze, TierStandard}
	tpl := make(Template, DefaultRanks)
	for r := range tpl {
		row := make([]string, DefaultRounds)
		for c := range row {
			row[c] = tiers[r]
		}
		tpl[r] = row
	}
	return tpl
}

// Ranks returns the number of rows.
func (t Template) Ranks() int { return len(t) }

// Rounds returns the number of columns.
func (t Template) Rounds() int {
	if len(t) == 0 {
		return 0
	}
	return len(t[0])
}

// Validate rejects empty, ragged, or blank-tier templates as ErrInvalidInput.
func (t Template) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgEmptyTemplate)
	}
	width := len(t[0])
	for r, row := range t {
		if len(row) == 0 {
			return fmt.Errorf("%w: "+ErrMsgEmptyRank, domain.ErrInvalidInput, r+1)
		}
		if len(row) != width {
			return fmt.Errorf("%w: "+ErrMsgRaggedTemplate, domain.ErrInvalidInput, r+1, len(row), width)
		}
		for c, tier := range row {
			if strings.TrimSpace(tier) == "" {
				return fmt.Errorf("%w: "+ErrMsgBlankTier, domain.ErrInvalidInput, r+1, c+1)
			}
		}
	}
	return nil
}

// Tiers returns the distinct tier labels in traversal order.
func (t Template) Tiers() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, row := range t {
		for _, tier := range row {
			if _, ok := seen[tier]; ok {
				continue
			}
			seen[tier] = struct{}{}
			out = append(out, tier)
		}
	}
	return out
}

// CellSeed derives the selector seed for a 1-based cell coordinate.
func CellSeed(eventSeed string, rank, round int) string {
	return fmt.Sprintf(CellSeedFormat, eventSeed, rank, round)
}
