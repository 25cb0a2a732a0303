// Package api implements the external operations the core exposes to
// callers: price a single bond, bootstrap a curve from market instruments,
// and aggregate/stress a portfolio of already-priced bonds, wiring the
// schedule/cashflow/pricing/risk/spread/bootstrap/portfolio packages into
// the request/response shapes callers actually invoke. No teacher file
// plays this orchestration role directly — the teacher's cmd/ binaries did
// the equivalent wiring at the main.go level for a single CLI invocation
// each; this package does the same wiring as a library surface instead.
package api

import (
	"sort"
	"time"

	"github.com/meenmo/fincore/bond"
	"github.com/meenmo/fincore/calendar"
	"github.com/meenmo/fincore/cashflow"
	"github.com/meenmo/fincore/convention"
	"github.com/meenmo/fincore/curve"
	"github.com/meenmo/fincore/fierrors"
	"github.com/meenmo/fincore/money"
	"github.com/meenmo/fincore/pricing"
	"github.com/meenmo/fincore/risk"
	"github.com/meenmo/fincore/schedule"
	"github.com/meenmo/fincore/spread"
)

// PriceInput bundles a bond reference with everything needed to price it:
// the quoting convention and calendar, settlement date, either a market
// clean price (quote-implied yield/risk) or a discount curve (curve-implied
// price/risk), and whichever reference curves the optional spread measures
// need.
type PriceInput struct {
	Reference  bond.BondReference
	Convention convention.Bundle
	Calendar   calendar.CalendarID
	Settlement time.Time

	MarketCleanPrice *float64    // when set, yield/risk are solved off this quote
	Curve            *curve.Curve // discount curve; required when MarketCleanPrice is absent, and drives CS01/Z-spread/OAS/KRD when present

	SovereignCurve spread.YieldCurve // optional, for G-spread
	SwapCurve      spread.YieldCurve // optional, for I-spread
	CPI            cashflow.CPIProvider // required iff Reference.BondType == InflationLinked

	CallVolatility float64 // annualized short-rate vol for the OAS lattice; 0 selects the 1% default
}

// BondQuote is the priced output of Price: the clean/dirty price, accrued
// interest, yield, duration/convexity/DV01, and whichever spread measures
// the supplied curves make meaningful. Optional fields are nil, never
// zero-valued, when their prerequisite input was absent.
type BondQuote struct {
	InstrumentID string

	CleanPrice      money.Amount
	DirtyPrice      money.Amount
	AccruedInterest money.Amount

	YTM money.Rate

	MacaulayDuration  money.Rate
	ModifiedDuration  money.Rate
	Convexity         money.Rate
	DV01              money.Amount
	EffectiveDuration  *money.Rate
	EffectiveConvexity *money.Rate

	GSpread         *money.Rate
	ISpread         *money.Rate
	ZSpread         *money.Rate
	OAS             *money.Rate
	DiscountMargin  *money.Rate

	SolverIterations int
}

// Price runs a bond reference through its coupon schedule, cash-flow
// builder, and the price<->yield/risk/spread kernels, returning the
// complete BondQuote record. At least one of MarketCleanPrice or Curve must
// be supplied; when both are, MarketCleanPrice anchors the yield solve and
// Curve feeds the curve-based measures.
func Price(in PriceInput) (BondQuote, error) {
	if err := in.Reference.Validate(); err != nil {
		return BondQuote{}, err
	}
	if in.MarketCleanPrice == nil && in.Curve == nil {
		return BondQuote{}, fierrors.New(fierrors.MissingCurve, "Curve", "Price requires either a market clean price or a discount curve")
	}

	periods, _, err := schedule.Generate(in.Reference, in.Calendar)
	if err != nil {
		return BondQuote{}, err
	}
	flows, err := cashflow.Build(cashflow.BuildInput{
		Reference:       in.Reference,
		Periods:         periods,
		ProjectionCurve: in.Curve,
		CPI:             in.CPI,
	})
	if err != nil {
		return BondQuote{}, err
	}

	lastCoupon, nextCoupon, couponPerPeriod := currentPeriod(in.Settlement, in.Reference, periods, flows)
	remaining := remainingFlows(in.Settlement, flows)

	var ytm float64
	var dirty, clean, accrued float64
	var iterations int

	if in.MarketCleanPrice != nil {
		ytm, iterations, err = pricing.YieldFromPrice(in.Settlement, *in.MarketCleanPrice, remaining, lastCoupon, nextCoupon, couponPerPeriod, in.Convention, in.Calendar)
		if err != nil {
			return BondQuote{}, err
		}
		dirty, clean, accrued, err = pricing.PriceFromYield(in.Settlement, ytm, remaining, lastCoupon, nextCoupon, couponPerPeriod, in.Convention, in.Calendar)
		if err != nil {
			return BondQuote{}, err
		}
	} else {
		dirty = curveDirtyPrice(in.Settlement, remaining, in.Curve)
		accrued, _ = pricing.AccruedInterest(in.Settlement, lastCoupon, nextCoupon, couponPerPeriod, in.Convention, in.Calendar)
		clean = dirty - accrued
		ytm, iterations, err = pricing.YieldFromPrice(in.Settlement, clean, remaining, lastCoupon, nextCoupon, couponPerPeriod, in.Convention, in.Calendar)
		if err != nil {
			return BondQuote{}, err
		}
	}

	durations, err := risk.YieldDurations(in.Settlement, ytm, remaining, lastCoupon, in.Convention)
	if err != nil {
		return BondQuote{}, err
	}

	quote := BondQuote{
		InstrumentID:     in.Reference.InstrumentID,
		CleanPrice:       money.NewAmount(clean),
		DirtyPrice:       money.NewAmount(dirty),
		AccruedInterest:  money.NewAmount(accrued),
		YTM:              money.NewRate(ytm),
		MacaulayDuration: money.NewRate(durations.Macaulay),
		ModifiedDuration: money.NewRate(durations.Modified),
		DV01:             money.NewAmount(durations.DV01),
		SolverIterations: iterations,
	}

	effDur, effConv, err := risk.EffectiveDurationConvexity(in.Settlement, ytm, remaining, lastCoupon, in.Convention, 0)
	if err != nil {
		return BondQuote{}, err
	}
	quote.Convexity = money.NewRate(effConv)
	quote.EffectiveDuration = rateRef(effDur)
	quote.EffectiveConvexity = rateRef(effConv)

	maturity := remaining[len(remaining)-1].Date

	if in.SovereignCurve != nil {
		g := spread.GSpread(ytm, maturity, in.SovereignCurve)
		quote.GSpread = rateRef(g)
	}
	if in.SwapCurve != nil {
		i := spread.ISpread(ytm, maturity, in.SwapCurve)
		quote.ISpread = rateRef(i)
	}
	if in.Curve != nil {
		zbp, _, err := spread.ZSpread(spread.ZSpreadInput{
			Settlement:    in.Settlement,
			DirtyPrice:    dirty,
			Cashflows:     remaining,
			DiscountCurve: in.Curve,
		})
		if err == nil {
			quote.ZSpread = rateRef(zbp / 10000.0)
		}
	}
	if in.Reference.BondType == bond.FloatingRate && in.Curve != nil {
		dmbp, _, err := spread.DiscountMargin(spread.DiscountMarginInput{
			Settlement:      in.Settlement,
			DirtyPrice:      dirty,
			Cashflows:       remaining,
			ProjectionCurve: in.Curve,
		})
		if err == nil {
			quote.DiscountMargin = rateRef(dmbp / 10000.0)
		}
	}
	if in.Curve != nil && (len(in.Reference.CallSchedule) > 0 || len(in.Reference.PutSchedule) > 0) {
		oasbp, _, err := spread.OAS(spread.OASInput{
			Settlement:   in.Settlement,
			DirtyPrice:   dirty,
			Cashflows:    remaining,
			CallSchedule: in.Reference.CallSchedule,
			PutSchedule:  in.Reference.PutSchedule,
			Curve:        in.Curve,
			Volatility:   in.CallVolatility,
		})
		if err == nil {
			quote.OAS = rateRef(oasbp / 10000.0)
		}
	}

	return quote, nil
}

// currentPeriod locates the coupon period settlement falls within and
// returns its bounds plus the period's own cash-flow coupon amount (used by
// pricing.AccruedInterest as couponPerPeriod), falling back to the first
// period if settlement precedes issuance and the last if it is at or past
// maturity.
func currentPeriod(settlement time.Time, ref bond.BondReference, periods []schedule.Period, flows []bond.Cashflow) (lastCoupon, nextCoupon time.Time, couponPerPeriod float64) {
	for i, p := range periods {
		if !settlement.Before(p.StartDate) && settlement.Before(p.EndDate) {
			return p.StartDate, p.EndDate, flows[i].Coupon
		}
	}
	if len(periods) == 0 {
		return ref.IssueDate, ref.MaturityDate, 0
	}
	if settlement.Before(periods[0].StartDate) {
		return ref.IssueDate, periods[0].EndDate, flows[0].Coupon
	}
	last := len(periods) - 1
	return periods[last].StartDate, periods[last].EndDate, flows[last].Coupon
}

// remainingFlows returns the cash flows still outstanding strictly after
// settlement, sorted ascending by date.
func remainingFlows(settlement time.Time, flows []bond.Cashflow) []bond.Cashflow {
	out := make([]bond.Cashflow, 0, len(flows))
	for _, cf := range flows {
		if cf.Date.After(settlement) {
			out = append(out, cf)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// curveDirtyPrice sums the remaining cash flows discounted off c, the
// curve-implied dirty price used when no market clean price is supplied.
func curveDirtyPrice(settlement time.Time, flows []bond.Cashflow, c *curve.Curve) float64 {
	var sum float64
	for _, cf := range flows {
		sum += cf.Amount() * c.DF(cf.Date)
	}
	return sum
}

func rateRef(v float64) *money.Rate {
	r := money.NewRate(v)
	return &r
}
