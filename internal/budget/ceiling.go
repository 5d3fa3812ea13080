package budget

import (
	"github.com/shopspring/decimal"

	"github.com/osse101/prizegrid/internal/domain"
)

// Ceiling is the full breakdown of an event's spending limit.
type Ceiling struct {
	EligibleNet decimal.Decimal `json:"eligible_net"`
	Baseline    decimal.Decimal `json:"baseline"`
	Dial        decimal.Decimal `json:"dial"`
	Ceiling     decimal.Decimal `json:"ceiling"`

	// DialClamped is set when the dial fraction exceeded the baseline fraction.
	DialClamped bool `json:"dial_clamped"`

	// SecondaryCap is only set for the blended category with the cap toggle on.
	SecondaryCap        *decimal.Decimal `json:"secondary_cap,omitempty"`
	SecondaryCapApplied bool             `json:"secondary_cap_applied"`
}

// Affordable reports whether any prize spend is permitted. A non-positive
// ceiling is a normal outcome, not an error.
func (c Ceiling) Affordable() bool {
	return c.Ceiling.IsPositive()
}

// EligibleNet returns the revenue prizes may be funded from. Negative values
// pass through unclamped.
func EligibleNet(evt domain.EventContext) decimal.Decimal {
	players := decimal.NewFromInt(int64(evt.PlayerCount))
	perPlayer := evt.EntryFee
	if evt.Category.NetsKitCost() {
		perPlayer = perPlayer.Sub(evt.KitCostPerPlayer)
	}
	return perPlayer.Mul(players)
}

// ComputeCeiling derives the spending ceiling from event facts and policy.
// It is pure; parameter validity is enforced when parameters are updated.
func ComputeCeiling(evt domain.EventContext, params domain.EconomicParameters) Ceiling {
	net := EligibleNet(evt)
	c := Ceiling{
		EligibleNet: net,
		Baseline:    net.Mul(params.BaselineFraction),
		Dial:        net.Mul(params.DialFraction),
	}

	if params.DialFraction.GreaterThan(params.BaselineFraction) {
		c.DialClamped = true
		c.Ceiling = c.Baseline
	} else {
		c.Ceiling = decimal.Min(c.Baseline, c.Dial)
	}

	if evt.Category == domain.CategoryBlended && params.BlendedCapEnabled {
		capValue := decimal.Min(net.Mul(domain.BlendedCapFraction), params.BlendedCapAbsolute)
		c.SecondaryCap = &capValue
		if capValue.LessThan(c.Ceiling) {
			c.Ceiling = capValue
			c.SecondaryCapApplied = true
		}
	}

	return c
}
