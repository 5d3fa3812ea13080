package budget

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/prizegrid/internal/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func flatEvent(players int, fee string) domain.EventContext {
	return domain.EventContext{
		ID:          "evt-1",
		Category:    domain.CategoryFlat,
		PlayerCount: players,
		EntryFee:    d(fee),
		Seed:        "seed",
	}
}

func TestComputeCeiling_FlatUsesEntryRevenue(t *testing.T) {
	params := domain.DefaultEconomicParameters()

	c := ComputeCeiling(flatEvent(8, "5.00"), params)

	assert.True(t, c.EligibleNet.Equal(d("40.00")), "eligible net: %s", c.EligibleNet)
	assert.True(t, c.Ceiling.Equal(d("38.00")), "ceiling: %s", c.Ceiling)
	assert.False(t, c.DialClamped)
	assert.Nil(t, c.SecondaryCap)
	assert.True(t, c.Affordable())
}

func TestComputeCeiling_KitCategoryNetsKitCost(t *testing.T) {
	params := domain.DefaultEconomicParameters()
	evt := domain.EventContext{
		ID:               "evt-kit",
		Category:         domain.CategoryKit,
		PlayerCount:      10,
		EntryFee:         d("12.00"),
		KitCostPerPlayer: d("4.50"),
		Seed:             "s",
	}

	c := ComputeCeiling(evt, params)

	assert.True(t, c.EligibleNet.Equal(d("75.00")))
	assert.True(t, c.Ceiling.Equal(d("71.25")))
}

func TestComputeCeiling_DialBelowBaseline(t *testing.T) {
	params := domain.DefaultEconomicParameters()
	params.DialFraction = d("0.80")

	c := ComputeCeiling(flatEvent(8, "5.00"), params)

	assert.True(t, c.Baseline.Equal(d("38.00")))
	assert.True(t, c.Dial.Equal(d("32.00")))
	assert.True(t, c.Ceiling.Equal(d("32.00")))
}

func TestComputeCeiling_DialAboveBaselineClampsToBaseline(t *testing.T) {
	params := domain.DefaultEconomicParameters()
	params.DialFraction = d("0.99")

	c := ComputeCeiling(flatEvent(8, "5.00"), params)

	assert.True(t, c.DialClamped)
	assert.True(t, c.Ceiling.Equal(d("38.00")))
}

func TestComputeCeiling_NegativeNetPassesThrough(t *testing.T) {
	params := domain.DefaultEconomicParameters()
	evt := domain.EventContext{
		ID:               "evt-neg",
		Category:         domain.CategoryKit,
		PlayerCount:      6,
		EntryFee:         d("5.00"),
		KitCostPerPlayer: d("7.00"),
		Seed:             "s",
	}

	c := ComputeCeiling(evt, params)

	assert.True(t, c.EligibleNet.Equal(d("-12.00")))
	assert.True(t, c.Ceiling.IsNegative())
	assert.False(t, c.Affordable())
}

func TestComputeCeiling_BlendedCap(t *testing.T) {
	tests := []struct {
		name        string
		capEnabled  bool
		absolute    string
		category    domain.Category
		wantCeiling string
		wantApplied bool
	}{
		{"cap off", false, "250.00", domain.CategoryBlended, "190.00", false},
		{"fraction cap wins", true, "250.00", domain.CategoryBlended, "20.00", true},
		{"absolute cap wins", true, "15.00", domain.CategoryBlended, "15.00", true},
		{"other category ignores cap", true, "15.00", domain.CategoryKit, "190.00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := domain.DefaultEconomicParameters()
			params.BlendedCapEnabled = tt.capEnabled
			params.BlendedCapAbsolute = d(tt.absolute)
			evt := domain.EventContext{
				ID:               "evt",
				Category:         tt.category,
				PlayerCount:      20,
				EntryFee:         d("12.00"),
				KitCostPerPlayer: d("2.00"),
				Seed:             "s",
			}

			c := ComputeCeiling(evt, params)

			assert.True(t, c.Ceiling.Equal(d(tt.wantCeiling)), "ceiling: %s", c.Ceiling)
			assert.Equal(t, tt.wantApplied, c.SecondaryCapApplied)
		})
	}
}

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		usage string
		want  domain.Band
	}{
		{"0", domain.BandGreen},
		{"0.5", domain.BandGreen},
		{"0.90", domain.BandGreen},
		{"0.9000001", domain.BandAmber},
		{"0.95", domain.BandAmber},
		{"0.9500001", domain.BandRed},
		{"1.105", domain.BandRed},
	}

	for _, tt := range tests {
		t.Run(tt.usage, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(d(tt.usage)))
		})
	}
}

func TestApplyCorrection_RedWithAutoCorrect(t *testing.T) {
	params := domain.DefaultEconomicParameters()

	c := ApplyCorrection(d("42.00"), d("38.00"), params)

	assert.Equal(t, domain.BandRed, c.PreBand)
	assert.Equal(t, domain.BandGreen, c.Band)
	assert.True(t, c.WasTrimmed)
	assert.True(t, c.FinalCost.Equal(d("34.20")), "final: %s", c.FinalCost)
	assert.True(t, c.TrimAmount.Equal(d("7.80")), "trim: %s", c.TrimAmount)
	assert.True(t, c.TotalCost.Equal(d("42.00")), "pre-correction cost must be preserved")
	assert.True(t, c.Usage.Equal(d("1.105263")), "usage: %s", c.Usage)
}

func TestApplyCorrection_RedWithoutAutoCorrect(t *testing.T) {
	params := domain.DefaultEconomicParameters()
	params.AutoCorrect = false

	c := ApplyCorrection(d("42.00"), d("38.00"), params)

	assert.Equal(t, domain.BandRed, c.Band)
	assert.False(t, c.WasTrimmed)
	assert.True(t, c.FinalCost.Equal(d("42.00")))
	assert.True(t, c.TrimAmount.IsZero())
}

func TestApplyCorrection_BandsAtExactBoundaries(t *testing.T) {
	params := domain.DefaultEconomicParameters()
	ceiling := d("100")

	assert.Equal(t, domain.BandGreen, ApplyCorrection(d("90"), ceiling, params).PreBand)
	assert.Equal(t, domain.BandAmber, ApplyCorrection(d("90.00001"), ceiling, params).PreBand)
	assert.Equal(t, domain.BandAmber, ApplyCorrection(d("95"), ceiling, params).PreBand)
	assert.Equal(t, domain.BandRed, ApplyCorrection(d("95.00001"), ceiling, params).PreBand)
}

func TestApplyCorrection_NonPositiveCeiling(t *testing.T) {
	params := domain.DefaultEconomicParameters()

	for _, ceiling := range []string{"0", "-12.50"} {
		t.Run(ceiling, func(t *testing.T) {
			c := ApplyCorrection(d("10.00"), d(ceiling), params)

			assert.Equal(t, domain.BandRed, c.Band)
			assert.False(t, c.Affordable)
			assert.False(t, c.WasTrimmed)
			assert.True(t, c.Usage.IsZero())
		})
	}
}

func TestApplyCorrection_BudgetInvariant(t *testing.T) {
	params := domain.DefaultEconomicParameters()
	epsilon := d("0.000001")

	for total := 1; total <= 400; total += 7 {
		for _, ceilingStr := range []string{"0.01", "1", "38", "99.99", "250"} {
			ceiling := d(ceilingStr)
			c := ApplyCorrection(decimal.NewFromInt(int64(total)), ceiling, params)
			if !c.WasTrimmed {
				continue
			}
			limit := ceiling.Mul(params.AutoTrimTarget).Add(epsilon)
			require.True(t, c.FinalCost.LessThanOrEqual(limit),
				"total=%d ceiling=%s final=%s", total, ceilingStr, c.FinalCost)
		}
	}
}
