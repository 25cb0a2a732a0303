// Package portfolio aggregates already-priced bond positions into
// portfolio-level NAV, weighted risk measures, and the ETF-specific
// analytics (iNAV, premium/discount, creation baskets, arbitrage signal,
// and stress scenarios) built on top of them.
package portfolio

import (
	"sort"

	"github.com/meenmo/fincore/fierrors"
)

// Position is one priced holding: a bond's market value components and its
// own already-computed risk measures, ready to be weighted into a
// portfolio aggregate.
type Position struct {
	Security   string
	Units      float64
	DirtyPrice float64 // per 100 face, in the position's local currency
	FXRate     float64 // local-currency units per 1 base-currency unit; 0 or 1 means no conversion
	Modified   float64 // modified duration
	Convexity  float64
	Sector     string
	Rating     string
	LotSize    float64 // minimum tradable unit increment for creation-basket rounding; 0 defaults to 1
}

func (p Position) marketValue() float64 {
	fx := p.FXRate
	if fx <= 0 {
		fx = 1.0
	}
	return p.Units * p.DirtyPrice / 100.0 / fx
}

func (p Position) lotSize() float64 {
	if p.LotSize <= 0 {
		return 1.0
	}
	return p.LotSize
}

// NAVResult is the portfolio's net asset value decomposed by position.
type NAVResult struct {
	NAV       float64
	ByPositon map[string]float64
}

// NAV sums each position's market value (units × dirty price/100, FX-
// converted to base currency).
func NAV(positions []Position) NAVResult {
	res := NAVResult{ByPositon: make(map[string]float64, len(positions))}
	for _, p := range positions {
		mv := p.marketValue()
		res.ByPositon[p.Security] += mv
		res.NAV += mv
	}
	return res
}

// WeightedDurationConvexity returns the portfolio's market-value-weighted
// modified duration and convexity.
func WeightedDurationConvexity(positions []Position) (duration, convexity float64, err error) {
	nav := NAV(positions).NAV
	if nav == 0 {
		return 0, 0, fierrors.New(fierrors.InvalidBond, "Positions", "cannot weight duration against zero NAV")
	}
	for _, p := range positions {
		w := p.marketValue() / nav
		duration += w * p.Modified
		convexity += w * p.Convexity
	}
	return duration, convexity, nil
}

// Decomposition returns the portfolio's market-value weight per bucket
// (sector or rating, whichever selector is passed), summing to 1.0 absent
// rounding.
func Decomposition(positions []Position, bucket func(Position) string) (map[string]float64, error) {
	nav := NAV(positions).NAV
	if nav == 0 {
		return nil, fierrors.New(fierrors.InvalidBond, "Positions", "cannot decompose a zero-NAV portfolio")
	}
	weights := make(map[string]float64)
	for _, p := range positions {
		weights[bucket(p)] += p.marketValue() / nav
	}
	return weights, nil
}

// BySector and ByRating are the two Decomposition bucket selectors
// SPEC_FULL.md names explicitly.
func BySector(p Position) string { return p.Sector }
func ByRating(p Position) string { return p.Rating }

// ---------------------------------------------------------------------------
// ETF analytics
// ---------------------------------------------------------------------------

// INAV is the indicative intraday NAV per share: portfolio NAV divided by
// shares outstanding.
func INAV(nav, sharesOutstanding float64) (float64, error) {
	if sharesOutstanding <= 0 {
		return 0, fierrors.New(fierrors.InvalidBond, "SharesOutstanding", "shares outstanding must be positive")
	}
	return nav / sharesOutstanding, nil
}

// PremiumDiscount is the ETF's market price relative to its iNAV, in
// decimal (multiply by 10 000 for bp); positive means the ETF trades at a
// premium to its underlying basket.
func PremiumDiscount(marketPrice, iNAV float64) (float64, error) {
	if iNAV == 0 {
		return 0, fierrors.New(fierrors.InvalidBond, "INAV", "cannot compute premium/discount against a zero iNAV")
	}
	return (marketPrice - iNAV) / iNAV, nil
}

// Arbitrage signals an authorized participant's creation/redemption
// incentive once the premium/discount crosses the default 15bp threshold
// (overridable): a premium beyond the threshold favors creation (buy the
// basket, deliver it for new shares, sell the shares at the rich market
// price); a discount beyond the threshold favors redemption (buy the
// cheap shares, redeem for the basket).
type ArbitrageSignal string

const (
	Create      ArbitrageSignal = "CREATE"
	Redeem      ArbitrageSignal = "REDEEM"
	NoArbitrage ArbitrageSignal = "NONE"

	defaultArbitrageThresholdBP = 15.0
)

// ArbitrageRule evaluates the creation/redemption signal for a premium or
// discount (in decimal) against thresholdBP (0 selects the 15bp default).
func ArbitrageRule(premiumDiscount, thresholdBP float64) ArbitrageSignal {
	if thresholdBP <= 0 {
		thresholdBP = defaultArbitrageThresholdBP
	}
	bp := premiumDiscount * 10000.0
	switch {
	case bp > thresholdBP:
		return Create
	case bp < -thresholdBP:
		return Redeem
	default:
		return NoArbitrage
	}
}

// ---------------------------------------------------------------------------
// Creation basket
// ---------------------------------------------------------------------------

// CreationBasketInput bundles the portfolio being replicated and the
// creation-unit mechanics.
type CreationBasketInput struct {
	Positions              []Position
	CreationUnitShares     float64 // shares per creation unit, e.g. 50 000
	TotalSharesOutstanding float64
}

// BasketLine is one position's lot-rounded allocation within a single
// creation unit, plus whatever fractional value couldn't be represented in
// whole lots (settled as the PCF's cash component).
type BasketLine struct {
	Security     string
	Units        float64 // lot-rounded
	CashResidual float64 // value of the rounded-away fraction, in base currency
}

// BuildCreationBasket scales every position down to its pro-rata share of
// one creation unit (CreationUnitShares / TotalSharesOutstanding of the
// portfolio's total units), rounds each line down to its lot size, and
// totals the rounding residual as the basket's cash component — the
// standard ETF portfolio composition file (PCF) mechanic.
func BuildCreationBasket(in CreationBasketInput) ([]BasketLine, float64, error) {
	if in.TotalSharesOutstanding <= 0 {
		return nil, 0, fierrors.New(fierrors.InvalidBond, "TotalSharesOutstanding", "shares outstanding must be positive")
	}
	if in.CreationUnitShares <= 0 {
		return nil, 0, fierrors.New(fierrors.InvalidBond, "CreationUnitShares", "creation unit size must be positive")
	}

	ratio := in.CreationUnitShares / in.TotalSharesOutstanding
	lines := make([]BasketLine, 0, len(in.Positions))
	var totalCash float64
	for _, p := range in.Positions {
		target := p.Units * ratio
		lot := p.lotSize()
		rounded := float64(int64(target/lot)) * lot
		residualUnits := target - rounded
		cash := residualUnits * p.DirtyPrice / 100.0
		totalCash += cash
		lines = append(lines, BasketLine{Security: p.Security, Units: rounded, CashResidual: cash})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Security < lines[j].Security })
	return lines, totalCash, nil
}
