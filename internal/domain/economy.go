package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Category selects how eligible net revenue is derived for an event.
type Category string

const (
	// CategoryFlat counts the full entry fee per player.
	CategoryFlat Category = "FLAT"
	// CategoryKit nets a per-player kit cost out of the entry fee.
	CategoryKit Category = "KIT"
	// CategoryBlended nets kit cost and may apply the secondary cap.
	CategoryBlended Category = "BLENDED"
)

// Categories lists every supported category in display order.
var Categories = []Category{CategoryFlat, CategoryKit, CategoryBlended}

// Valid reports whether c is one of the supported categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryFlat, CategoryKit, CategoryBlended:
		return true
	}
	return false
}

// NetsKitCost reports whether the category subtracts the per-player kit cost.
func (c Category) NetsKitCost() bool {
	return c == CategoryKit || c == CategoryBlended
}

// Rarity bucket indexes: 0-1, 2-3, 4-6, 7-9, 10.
const (
	BucketCommon = iota
	BucketUncommon
	BucketRare
	BucketEpic
	BucketLegendary
	RarityBucketCount
)

// RarityBucketLabels names each bucket by its rarity range.
var RarityBucketLabels = [RarityBucketCount]string{"0-1", "2-3", "4-6", "7-9", "10"}

// RarityBucket maps a rarity score to its bucket. Out-of-range scores clamp.
func RarityBucket(rarity int) int {
	switch {
	case rarity <= 1:
		return BucketCommon
	case rarity <= 3:
		return BucketUncommon
	case rarity <= 6:
		return BucketRare
	case rarity <= 9:
		return BucketEpic
	default:
		return BucketLegendary
	}
}

// RarityWeights is the rarity-to-weight schedule, one weight per bucket.
type RarityWeights [RarityBucketCount]float64

// WeightFor returns the schedule weight for a rarity score.
func (w RarityWeights) WeightFor(rarity int) float64 {
	return w[RarityBucket(rarity)]
}

// IsZero reports an absent schedule.
func (w RarityWeights) IsZero() bool {
	for _, v := range w {
		if v != 0 {
			return false
		}
	}
	return true
}

// CategoryFloor is a per-category threshold. Events below MinPlayers are tagged
// in the ledger but still allocated.
type CategoryFloor struct {
	MinPlayers int `json:"min_players"`
}

// Band thresholds and policy defaults
var (
	BandGreenMax = decimal.RequireFromString("0.90")
	BandAmberMax = decimal.RequireFromString("0.95")

	DefaultBaselineFraction = decimal.RequireFromString("0.95")
	DefaultAutoTrimTarget   = decimal.RequireFromString("0.90")
	BlendedCapFraction      = decimal.RequireFromString("0.10")
	DefaultBlendedCap       = decimal.RequireFromString("250.00")

	DefaultRarityWeights = RarityWeights{5, 4, 3, 2, 1}
)

// Weight schedule bounds
const (
	MinWeight = 0.0
	MaxWeight = 10.0
)

// EconomicParameters is the process-wide policy snapshot injected into every run.
// The engine never mutates it; updates go through the parameter service.
type EconomicParameters struct {
	BaselineFraction   decimal.Decimal            `json:"baseline_fraction"`
	DialFraction       decimal.Decimal            `json:"dial_fraction"`
	RarityWeights      RarityWeights              `json:"rarity_weights"`
	WeightingEnabled   bool                       `json:"weighting_enabled"`
	AllowDuplicates    bool                       `json:"allow_duplicates"`
	AutoCorrect        bool                       `json:"auto_correct"`
	AutoTrimTarget     decimal.Decimal            `json:"auto_trim_target"`
	BlendedCapEnabled  bool                       `json:"blended_cap_enabled"`
	BlendedCapAbsolute decimal.Decimal            `json:"blended_cap_absolute"`
	CategoryFloors     map[Category]CategoryFloor `json:"category_floors,omitempty"`
}

// DefaultEconomicParameters returns the shipped policy.
func DefaultEconomicParameters() EconomicParameters {
	return EconomicParameters{
		BaselineFraction:   DefaultBaselineFraction,
		DialFraction:       DefaultBaselineFraction,
		RarityWeights:      DefaultRarityWeights,
		WeightingEnabled:   true,
		AllowDuplicates:    false,
		AutoCorrect:        true,
		AutoTrimTarget:     DefaultAutoTrimTarget,
		BlendedCapEnabled:  false,
		BlendedCapAbsolute: DefaultBlendedCap,
		CategoryFloors: map[Category]CategoryFloor{
			CategoryFlat:    {MinPlayers: 4},
			CategoryKit:     {MinPlayers: 4},
			CategoryBlended: {MinPlayers: 8},
		},
	}
}

// Clone returns a deep copy so a run's snapshot cannot change underneath it.
func (p EconomicParameters) Clone() EconomicParameters {
	out := p
	if p.CategoryFloors != nil {
		out.CategoryFloors = make(map[Category]CategoryFloor, len(p.CategoryFloors))
		for k, v := range p.CategoryFloors {
			out.CategoryFloors[k] = v
		}
	}
	return out
}

// Floor returns the category floor, zero when none is configured.
func (p EconomicParameters) Floor(c Category) CategoryFloor {
	return p.CategoryFloors[c]
}

// Check reports missing or malformed configuration as ErrConfiguration.
// It is run once per allocation before any selection happens.
func (p EconomicParameters) Check() error {
	if p.RarityWeights.IsZero() {
		return fmt.Errorf("%w: rarity weight schedule is missing", ErrConfiguration)
	}
	for i, w := range p.RarityWeights {
		if w <= MinWeight || w > MaxWeight {
			return fmt.Errorf("%w: weight for rarity %s out of range: %v", ErrConfiguration, RarityBucketLabels[i], w)
		}
	}
	if !p.BaselineFraction.IsPositive() || p.BaselineFraction.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: baseline fraction out of range: %s", ErrConfiguration, p.BaselineFraction)
	}
	if p.DialFraction.IsNegative() {
		return fmt.Errorf("%w: dial fraction is negative: %s", ErrConfiguration, p.DialFraction)
	}
	if p.AutoCorrect && (!p.AutoTrimTarget.IsPositive() || p.AutoTrimTarget.GreaterThan(BandGreenMax)) {
		return fmt.Errorf("%w: auto trim target out of range: %s", ErrConfiguration, p.AutoTrimTarget)
	}
	return nil
}
