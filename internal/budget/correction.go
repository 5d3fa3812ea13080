package budget

import (
	"github.com/shopspring/decimal"

	"github.com/osse101/prizegrid/internal/domain"
)

// Correction is the financial summary after the trim policy ran.
// TotalCost is the pre-correction cost and is carried through untouched.
type Correction struct {
	TotalCost  decimal.Decimal `json:"total_cost"`
	Usage      decimal.Decimal `json:"usage"`
	PreBand    domain.Band     `json:"pre_band"`
	Band       domain.Band     `json:"band"`
	FinalCost  decimal.Decimal `json:"final_cost"`
	WasTrimmed bool            `json:"was_trimmed"`
	TrimAmount decimal.Decimal `json:"trim_amount"`
	Affordable bool            `json:"affordable"`
}

// Classify maps a usage ratio onto the band table. Boundaries are inclusive
// on the lower band: 0.90 is GREEN and 0.95 is AMBER.
func Classify(usage decimal.Decimal) domain.Band {
	switch {
	case usage.LessThanOrEqual(domain.BandGreenMax):
		return domain.BandGreen
	case usage.LessThanOrEqual(domain.BandAmberMax):
		return domain.BandAmber
	default:
		return domain.BandRed
	}
}

// classifyCost compares cost against the scaled ceiling so the band never
// depends on a rounded division.
func classifyCost(totalCost, ceiling decimal.Decimal) domain.Band {
	switch {
	case totalCost.LessThanOrEqual(ceiling.Mul(domain.BandGreenMax)):
		return domain.BandGreen
	case totalCost.LessThanOrEqual(ceiling.Mul(domain.BandAmberMax)):
		return domain.BandAmber
	default:
		return domain.BandRed
	}
}

// ApplyCorrection classifies the grid cost and, when the run is RED and the
// policy allows it, scales the reported cost down to the trim target.
// Grid selections are never touched.
func ApplyCorrection(totalCost, ceiling decimal.Decimal, params domain.EconomicParameters) Correction {
	c := Correction{
		TotalCost:  totalCost,
		FinalCost:  totalCost,
		TrimAmount: decimal.Zero,
	}

	if !ceiling.IsPositive() {
		c.PreBand = domain.BandRed
		c.Band = domain.BandRed
		c.Usage = decimal.Zero
		return c
	}

	c.Affordable = true
	c.Usage = totalCost.DivRound(ceiling, UsagePrecision)
	c.PreBand = classifyCost(totalCost, ceiling)
	c.Band = c.PreBand

	if c.PreBand == domain.BandRed && params.AutoCorrect {
		c.FinalCost = ceiling.Mul(params.AutoTrimTarget)
		c.TrimAmount = totalCost.Sub(c.FinalCost)
		c.WasTrimmed = true
		c.Band = domain.BandGreen
	}

	return c
}
