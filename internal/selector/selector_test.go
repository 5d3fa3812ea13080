package selector

import (
	"fmt"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/prizegrid/internal/domain"
)

func entry(code, tier string, rarity, qty int) domain.CatalogEntry {
	return domain.CatalogEntry{
		Code:     code,
		Name:     code,
		Rarity:   rarity,
		Tier:     tier,
		Quantity: qty,
		UnitCost: decimal.NewFromInt(10),
	}
}

func TestSeedHash_KnownVectors(t *testing.T) {
	tests := []struct {
		seed string
		want int32
	}{
		{"", 0},
		{"ABC", 64578},
		{"seed-R1C1", 581875849},
		{"evt-42-R1C1", -530425166},
		{"polygenelubricants", math.MinInt32},
		{"évt", 227687},
		{"\U0001F600", 1772899}, // surrogate pair hashes as two code units
	}

	for _, tt := range tests {
		t.Run(tt.seed, func(t *testing.T) {
			assert.Equal(t, tt.want, SeedHash(tt.seed))
		})
	}
}

func TestPickIndex_MinInt32DoesNotGoNegative(t *testing.T) {
	idx := PickIndex("polygenelubricants", 6)
	assert.Equal(t, 2, idx)
}

func TestTickets(t *testing.T) {
	w := domain.RarityWeights{5, 4, 3, 2, 0.3}

	assert.Equal(t, 5, Tickets(0, w))
	assert.Equal(t, 4, Tickets(3, w))
	assert.Equal(t, 3, Tickets(5, w))
	assert.Equal(t, 2, Tickets(9, w))
	assert.Equal(t, 1, Tickets(10, w), "weights rounding to zero still get one ticket")
}

func TestSelectOne_SameSeedSamePick(t *testing.T) {
	params := domain.DefaultEconomicParameters()
	entries := []domain.CatalogEntry{
		entry("LEGEND", "gold", 10, 1), // 1 ticket
		entry("COMMON", "gold", 0, 1),  // 5 tickets
	}

	pool := BuildPool(Eligible("gold", nil, entries, params), params)
	require.Len(t, pool, 6)

	first, ok := SelectOne("gold", "ABC", nil, entries, params)
	require.True(t, ok)
	assert.Equal(t, "LEGEND", first.Code)

	for i := 0; i < 50; i++ {
		got, ok := SelectOne("gold", "ABC", nil, entries, params)
		require.True(t, ok)
		assert.Equal(t, first.Code, got.Code)
	}
}

func TestSelectOne_FiltersTierQuantityAndExclusions(t *testing.T) {
	params := domain.DefaultEconomicParameters()
	entries := []domain.CatalogEntry{
		entry("WRONG-TIER", "silver", 0, 5),
		entry("SOLD-OUT", "gold", 0, 0),
		entry("USED", "gold", 0, 3),
		entry("OK", "gold", 0, 3),
	}
	exclude := map[string]struct{}{"USED": {}}

	for i := 0; i < 20; i++ {
		got, ok := SelectOne("gold", fmt.Sprintf("s-%d", i), exclude, entries, params)
		require.True(t, ok)
		assert.Equal(t, "OK", got.Code)
	}
}

func TestSelectOne_ExclusionIgnoredWhenDuplicatesAllowed(t *testing.T) {
	params := domain.DefaultEconomicParameters()
	params.AllowDuplicates = true
	entries := []domain.CatalogEntry{entry("ONLY", "gold", 4, 1)}
	exclude := map[string]struct{}{"ONLY": {}}

	got, ok := SelectOne("gold", "x", exclude, entries, params)
	require.True(t, ok)
	assert.Equal(t, "ONLY", got.Code)
}

func TestSelectOne_EmptyPool(t *testing.T) {
	params := domain.DefaultEconomicParameters()

	_, ok := SelectOne("gold", "ABC", nil, nil, params)
	assert.False(t, ok)

	_, ok = SelectOne("gold", "ABC", nil, []domain.CatalogEntry{entry("S", "silver", 1, 1)}, params)
	assert.False(t, ok)
}

func TestBuildPool_UniformWhenWeightingDisabled(t *testing.T) {
	params := domain.DefaultEconomicParameters()
	params.WeightingEnabled = false
	entries := []domain.CatalogEntry{entry("A", "gold", 10, 1), entry("B", "gold", 0, 1)}

	pool := BuildPool(entries, params)

	require.Len(t, pool, 2)
	assert.Equal(t, "A", pool[0].Code)
	assert.Equal(t, "B", pool[1].Code)
}

func TestSelectOne_WeightedFrequency(t *testing.T) {
	params := domain.DefaultEconomicParameters()
	entries := []domain.CatalogEntry{
		entry("RARE", "gold", 10, 1),
		entry("COMMON", "gold", 0, 1),
	}

	const draws = 6000
	common := 0
	for i := 0; i < draws; i++ {
		got, ok := SelectOne("gold", fmt.Sprintf("freq-%d", i), nil, entries, params)
		require.True(t, ok)
		if got.Code == "COMMON" {
			common++
		}
	}

	ratio := float64(common) / draws
	assert.InDelta(t, 5.0/6.0, ratio, 0.05)
}

func TestSelectOne_UniformFrequency(t *testing.T) {
	params := domain.DefaultEconomicParameters()
	params.WeightingEnabled = false
	entries := []domain.CatalogEntry{
		entry("RARE", "gold", 10, 1),
		entry("COMMON", "gold", 0, 1),
	}

	const draws = 6000
	common := 0
	for i := 0; i < draws; i++ {
		got, _ := SelectOne("gold", fmt.Sprintf("freq-%d", i), nil, entries, params)
		if got.Code == "COMMON" {
			common++
		}
	}

	assert.InDelta(t, 0.5, float64(common)/draws, 0.05)
}
