package api

import (
	"time"

	"github.com/meenmo/fincore/bond"
	"github.com/meenmo/fincore/curve"
	"github.com/meenmo/fincore/fierrors"
	"github.com/meenmo/fincore/money"
	"github.com/meenmo/fincore/portfolio"
	"github.com/meenmo/fincore/risk"
)

// PortfolioAnalyticsResult is the market-value-weighted risk decomposition
// of a portfolio of already-priced positions.
type PortfolioAnalyticsResult struct {
	NAV                      money.Amount
	WeightedModifiedDuration money.Rate
	WeightedConvexity        money.Rate
	BySector                 map[string]money.Rate
	ByRating                 map[string]money.Rate
}

// PortfolioAnalytics aggregates NAV, weighted duration/convexity, and the
// sector/rating market-value decomposition for a set of priced positions.
func PortfolioAnalytics(positions []portfolio.Position) (PortfolioAnalyticsResult, error) {
	navRes := portfolio.NAV(positions)
	duration, convexity, err := portfolio.WeightedDurationConvexity(positions)
	if err != nil {
		return PortfolioAnalyticsResult{}, err
	}
	bySector, err := portfolio.Decomposition(positions, portfolio.BySector)
	if err != nil {
		return PortfolioAnalyticsResult{}, err
	}
	byRating, err := portfolio.Decomposition(positions, portfolio.ByRating)
	if err != nil {
		return PortfolioAnalyticsResult{}, err
	}

	return PortfolioAnalyticsResult{
		NAV:                      money.NewAmount(navRes.NAV),
		WeightedModifiedDuration: money.NewRate(duration),
		WeightedConvexity:        money.NewRate(convexity),
		BySector:                 rateMap(bySector),
		ByRating:                 rateMap(byRating),
	}, nil
}

// PositionKeyRateInput is one position's cash flows and calibrated curve,
// the per-position inputs PortfolioKeyRateDuration weights by market value.
type PositionKeyRateInput struct {
	Security    string
	Cashflows   []bond.Cashflow
	Curve       *curve.Curve
	DirtyPrice  float64
	MarketValue float64
}

// PortfolioKeyRateDuration weights each position's per-pillar key-rate
// duration (risk.KeyRateDurations) by its share of total market value,
// returning the portfolio's aggregate key-rate duration profile. Positions
// are assumed to share the same pillar structure; a position whose curve
// carries fewer pillars than the widest one only contributes to that
// prefix.
func PortfolioKeyRateDuration(settlement time.Time, positions []PositionKeyRateInput) ([]money.Rate, error) {
	if len(positions) == 0 {
		return nil, fierrors.New(fierrors.InvalidBond, "Positions", "key-rate duration requires at least one position")
	}

	var totalMV float64
	maxPillars := 0
	for _, p := range positions {
		totalMV += p.MarketValue
		if n := p.Curve.NodeCount(); n > maxPillars {
			maxPillars = n
		}
	}
	if totalMV == 0 {
		return nil, fierrors.New(fierrors.InvalidBond, "Positions", "cannot weight key-rate duration against zero market value")
	}

	agg := make([]float64, maxPillars)
	for _, p := range positions {
		krds, err := risk.KeyRateDurations(settlement, p.Cashflows, p.Curve, p.DirtyPrice)
		if err != nil {
			return nil, err
		}
		w := p.MarketValue / totalMV
		for i, v := range krds {
			agg[i] += w * v
		}
	}

	out := make([]money.Rate, len(agg))
	for i, v := range agg {
		out[i] = money.NewRate(v)
	}
	return out, nil
}

// StressResult is the per-position and total estimated P&L under a stress
// scenario.
type StressResult struct {
	ByPosition map[string]money.Amount
	TotalPnL   money.Amount
}

// CustomShift builds a Scenario from the {rate_shift_bps, spread_shift_bps}
// override pair an external caller may supply in place of a named preset.
func CustomShift(rateShiftBP, spreadShiftBP float64) portfolio.Scenario {
	return portfolio.Scenario{Name: "custom", ParallelBP: rateShiftBP, SpreadBP: spreadShiftBP}
}

// Stress estimates every position's P&L under scenario via the
// duration/convexity Taylor approximation, and totals the portfolio impact.
func Stress(positions []portfolio.Position, scenario portfolio.Scenario) StressResult {
	impacts, total := portfolio.ApplyStress(positions, scenario)
	byPosition := make(map[string]money.Amount, len(impacts))
	for _, imp := range impacts {
		byPosition[imp.Security] = money.NewAmount(imp.PnL)
	}
	return StressResult{ByPosition: byPosition, TotalPnL: money.NewAmount(total)}
}

// EtfAnalyticsResult bundles an ETF's indicative NAV, premium/discount to
// its market price, and the resulting arbitrage signal.
type EtfAnalyticsResult struct {
	INAV            money.Amount
	PremiumDiscount money.Rate
	Signal          portfolio.ArbitrageSignal
}

// EtfINAV computes a fund's iNAV from its holdings, the premium/discount of
// marketPrice against it, and the creation/redemption arbitrage signal
// (thresholdBP <= 0 selects the 15bp default).
func EtfINAV(positions []portfolio.Position, sharesOutstanding, marketPrice, thresholdBP float64) (EtfAnalyticsResult, error) {
	navRes := portfolio.NAV(positions)
	inav, err := portfolio.INAV(navRes.NAV, sharesOutstanding)
	if err != nil {
		return EtfAnalyticsResult{}, err
	}
	pd, err := portfolio.PremiumDiscount(marketPrice, inav)
	if err != nil {
		return EtfAnalyticsResult{}, err
	}

	return EtfAnalyticsResult{
		INAV:            money.NewAmount(inav),
		PremiumDiscount: money.NewRate(pd),
		Signal:          portfolio.ArbitrageRule(pd, thresholdBP),
	}, nil
}

// CreationBasketResult is the lot-rounded per-position basket for one
// creation unit, plus the total cash component covering the rounding
// residual.
type CreationBasketResult struct {
	Lines     []portfolio.BasketLine
	TotalCash money.Amount
}

// CreationBasket builds the portfolio composition file for one creation
// unit of an ETF.
func CreationBasket(in portfolio.CreationBasketInput) (CreationBasketResult, error) {
	lines, cash, err := portfolio.BuildCreationBasket(in)
	if err != nil {
		return CreationBasketResult{}, err
	}
	return CreationBasketResult{Lines: lines, TotalCash: money.NewAmount(cash)}, nil
}

func rateMap(in map[string]float64) map[string]money.Rate {
	out := make(map[string]money.Rate, len(in))
	for k, v := range in {
		out[k] = money.NewRate(v)
	}
	return out
}
