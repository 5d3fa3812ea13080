package selector

import (
	"math"
	"unicode/utf16"

	"github.com/osse101/prizegrid/internal/domain"
)

// SeedHash computes the 32-bit rolling hash of seed over its UTF-16 code
// units: h = h*31 + c, wrapping on overflow.
func SeedHash(seed string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(seed)) {
		h = h*hashMultiplier + int32(c)
	}
	return h
}

// PickIndex maps a seed onto [0, n). n must be positive.
// The absolute value is taken in 64 bits so math.MinInt32 stays non-negative.
func PickIndex(seed string, n int) int {
	h := int64(SeedHash(seed))
	if h < 0 {
		h = -h
	}
	return int(h % int64(n))
}

// Tickets returns how many pool slots an entry receives under the schedule.
func Tickets(rarity int, weights domain.RarityWeights) int {
	t := int(math.Round(weights.WeightFor(rarity)))
	if t < MinTickets {
		return MinTickets
	}
	return t
}

// Eligible filters entries down to those that may fill a cell of tier.
// exclude is only honored when duplicates are disallowed.
func Eligible(tier string, exclude map[string]struct{}, entries []domain.CatalogEntry, params domain.EconomicParameters) []domain.CatalogEntry {
	var out []domain.CatalogEntry
	for _, e := range entries {
		if e.Tier != tier || !e.Available() {
			continue
		}
		if !params.AllowDuplicates {
			if _, used := exclude[e.Code]; used {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

// BuildPool expands eligible entries into the draw pool. With weighting off
// every entry appears once; with weighting on each entry is replicated by its
// ticket count, preserving catalog order.
func BuildPool(eligible []domain.CatalogEntry, params domain.EconomicParameters) []domain.CatalogEntry {
	if !params.WeightingEnabled {
		return eligible
	}
	pool := make([]domain.CatalogEntry, 0, len(eligible))
	for _, e := range eligible {
		n := Tickets(e.Rarity, params.RarityWeights)
		for i := 0; i < n; i++ {
			pool = append(pool, e)
		}
	}
	return pool
}

// SelectOne deterministically picks one entry for tier from entries.
// It returns false when nothing is eligible; that is not an error.
func SelectOne(tier, seed string, exclude map[string]struct{}, entries []domain.CatalogEntry, params domain.EconomicParameters) (domain.CatalogEntry, bool) {
	pool := BuildPool(Eligible(tier, exclude, entries, params), params)
	if len(pool) == 0 {
		return domain.CatalogEntry{}, false
	}
	return pool[PickIndex(seed, len(pool))], true
}
