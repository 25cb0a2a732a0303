package portfolio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePositions() []Position {
	return []Position{
		{Security: "BOND_A", Units: 1_000_000, DirtyPrice: 101.0, Modified: 4.5, Convexity: 0.3, Sector: "Financials", Rating: "AA", LotSize: 1000},
		{Security: "BOND_B", Units: 2_000_000, DirtyPrice: 98.5, Modified: 8.2, Convexity: 0.9, Sector: "Industrials", Rating: "A", LotSize: 1000},
	}
}

func TestNAVSumsPositions(t *testing.T) {
	res := NAV(samplePositions())
	want := 1_000_000*101.0/100.0 + 2_000_000*98.5/100.0
	assert.InDelta(t, want, res.NAV, 1e-6)
}

func TestWeightedDurationConvexity(t *testing.T) {
	d, c, err := WeightedDurationConvexity(samplePositions())
	require.NoError(t, err)
	assert.True(t, d > 4.5 && d < 8.2, "expected weighted duration between the two positions' durations, got %g", d)
	assert.True(t, c > 0.3 && c < 0.9, "expected weighted convexity between the two positions' convexities, got %g", c)
}

func TestDecompositionBySector(t *testing.T) {
	weights, err := Decomposition(samplePositions(), BySector)
	require.NoError(t, err)
	var total float64
	for _, w := range weights {
		total += w
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestINAVAndPremiumDiscountAndArbitrage(t *testing.T) {
	nav := NAV(samplePositions()).NAV
	inav, err := INAV(nav, 100_000)
	require.NoError(t, err)

	pd, err := PremiumDiscount(inav*1.002, inav)
	require.NoError(t, err)
	assert.Greater(t, pd, 0.0)
	assert.Equal(t, Create, ArbitrageRule(pd, 0), "expected Create at a 20bp premium beyond the 15bp default threshold")
	assert.Equal(t, NoArbitrage, ArbitrageRule(0.0005, 0), "expected NoArbitrage inside the threshold")
}

func TestBuildCreationBasketRoundsToLots(t *testing.T) {
	lines, cash, err := BuildCreationBasket(CreationBasketInput{
		Positions:              samplePositions(),
		CreationUnitShares:     50_000,
		TotalSharesOutstanding: 10_000_000,
	})
	require.NoError(t, err)
	require.Len(t, lines, 2)
	for _, l := range lines {
		assert.Zero(t, math.Mod(l.Units, 1000), "%s: expected lot-rounded units, got %g", l.Security, l.Units)
	}
	assert.GreaterOrEqual(t, cash, 0.0)
}

func TestApplyStressParallelUpIsNegativeForPositiveDuration(t *testing.T) {
	_, total := ApplyStress(samplePositions(), ParallelUp100)
	assert.Less(t, total, 0.0, "expected a parallel rate rise to produce a negative P&L for positive-duration bonds")
}
