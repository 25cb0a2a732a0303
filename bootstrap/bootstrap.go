// Package bootstrap calibrates a discount curve from a heterogeneous set of
// market instruments — deposits, FRAs, futures, par swaps/OIS, and bonds —
// via the same piecewise sequential solve the curve package already applies
// to par swap quotes alone, generalized to instrument kinds the curve
// package's own bootstrapDiscountFactors never needed to know about.
package bootstrap

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/meenmo/fincore/calendar"
	"github.com/meenmo/fincore/curve"
	"github.com/meenmo/fincore/daycount"
	"github.com/meenmo/fincore/fierrors"
	"github.com/meenmo/fincore/instrument"
	"github.com/meenmo/fincore/log"
	"github.com/meenmo/fincore/swap"
	"github.com/meenmo/fincore/swap/market"
)

const residualWarnTol = 1e-6

// Calibrate builds a discount curve pillar-by-pillar from instruments sorted
// by maturity, using interp to fill the curve's interpolation grid between
// solved pillars (see curve.Interpolation). Swap/OIS quotes are delegated to
// curve.BuildCurveWithInterpolation, which already implements their
// multi-coupon par-rate bootstrap; every other kind solves its single
// unknown pillar discount factor directly in closed form, holding all earlier
// (already-solved or curve-seeded) pillars fixed — the textbook piecewise
// bootstrap, generalized across instrument kinds instead of one par-swap
// curve alone. When a Swap/OIS instrument also carries FixedLeg/FloatLeg
// conventions, its calibration residual is verified against the final
// curve by actually repricing the swap through swap.NPV rather than
// trusting curve.BuildCurve's own par solve blindly.
func Calibrate(settlement time.Time, instruments []instrument.MarketInstrument, cal calendar.CalendarID, swapFreqMonths int, interp curve.Interpolation) (instrument.CalibrationResult, error) {
	if len(instruments) == 0 {
		return instrument.CalibrationResult{}, fierrors.New(fierrors.InvalidBond, "Instruments", "bootstrap requires at least one calibration instrument")
	}

	dfs := map[time.Time]float64{settlement: 1.0}
	pillars := []time.Time{settlement}

	swapQuotes := map[string]float64{}
	var rest []instrument.MarketInstrument
	for _, inst := range instruments {
		if inst.Kind == instrument.Swap || inst.Kind == instrument.OIS {
			swapQuotes[inst.Tenor] = inst.ParRate
			continue
		}
		rest = append(rest, inst)
	}
	if len(swapQuotes) > 0 {
		if swapFreqMonths <= 0 {
			swapFreqMonths = 12
		}
		seed := curve.BuildCurveWithInterpolation(settlement, swapQuotes, cal, swapFreqMonths, interp)
		for d, df := range seed.PillarDFs() {
			if _, ok := dfs[d]; !ok {
				pillars = append(pillars, d)
			}
			dfs[d] = df
		}
	}

	sort.Slice(rest, func(i, j int) bool { return rest[i].EndDate.Before(rest[j].EndDate) })
	for _, inst := range rest {
		sortPillars(pillars)
		df, err := solvePillar(inst, settlement, dfs, pillars)
		if err != nil {
			return instrument.CalibrationResult{}, err
		}
		if _, ok := dfs[inst.EndDate]; !ok {
			pillars = append(pillars, inst.EndDate)
		}
		dfs[inst.EndDate] = df
	}
	sortPillars(pillars)

	residuals := make([]float64, len(instruments))
	for i, inst := range instruments {
		residuals[i] = reprice(inst, settlement, dfs, pillars) - target(inst)
		if math.Abs(residuals[i]) > residualWarnTol {
			log.WithField("kind", inst.Kind).WithField("residual", residuals[i]).Warn("bootstrap: instrument repriced off its own pillar beyond tolerance")
		}
	}

	return instrument.CalibrationResult{
		DiscountFactors: dfs,
		PillarDates:     pillars,
		Residuals:       residuals,
		Iterations:      len(rest),
	}, nil
}

// ToCurve materializes a CalibrationResult's discount factors as a
// *curve.Curve, reusing the curve package's own irregular-pillar
// constructor so downstream pricing/risk code never has to know whether a
// curve came from a single par-swap bootstrap or this multi-instrument one.
func ToCurve(settlement time.Time, result instrument.CalibrationResult, cal calendar.CalendarID, interp curve.Interpolation) *curve.Curve {
	return curve.NewCurveFromDFsWithInterpolation(settlement, result.DiscountFactors, cal, 0, interp)
}

// swapResidualCurve adapts a bootstrap pillar snapshot to swap.DiscountCurve
// / swap.ProjectionCurve, so a Swap/OIS instrument's par quote can be
// verified by actually repricing it through the swap engine rather than by
// trusting curve.BuildCurveWithInterpolation's own internal par solve.
type swapResidualCurve struct {
	dfs     map[time.Time]float64
	pillars []time.Time
}

func (c swapResidualCurve) DF(t time.Time) float64 { return dfAt(t, c.dfs, c.pillars) }

func (c swapResidualCurve) ZeroRateAt(t time.Time) float64 {
	df := c.DF(t)
	yf := daycount.YearFraction(c.pillars[0], t, daycount.Act365F, daycount.ReferencePeriod{})
	if yf == 0 {
		return 0
	}
	return -math.Log(df) / yf * 100
}

// swapNPVResidual reprices a Swap/OIS calibration instrument through the
// swap engine's own NPV formula against the final bootstrapped curve,
// verifying the par quote the same way every other instrument kind is
// verified, rather than leaving it unchecked by definition. Returns 0
// (no verification) when the instrument didn't supply FixedLeg/FloatLeg
// conventions, since those are optional fields only Swap/OIS callers that
// want this check need to populate.
func swapNPVResidual(inst instrument.MarketInstrument, settlement time.Time, dfs map[time.Time]float64, pillars []time.Time) float64 {
	if inst.FixedLeg.PayFrequency <= 0 || inst.EndDate.IsZero() {
		return 0
	}
	disc := swapResidualCurve{dfs: dfs, pillars: pillars}
	spec := market.SwapSpec{
		Notional:       1.0,
		EffectiveDate:  settlement,
		MaturityDate:   inst.EndDate,
		PayLeg:         inst.FixedLeg,
		RecLeg:         inst.FloatLeg,
		RecLegSpreadBP: 0,
		PayLegSpreadBP: inst.ParRate * 100.0, // percent -> bp fixed coupon
	}
	npv, err := swap.NPV(spec, nil, disc, disc, settlement)
	if err != nil {
		return 0
	}
	return npv
}

func sortPillars(pillars []time.Time) {
	sort.Slice(pillars, func(i, j int) bool { return pillars[i].Before(pillars[j]) })
}

// dfAt returns the discount factor at t, taken directly from dfs if t is
// already a solved pillar, or log-linearly interpolated (flat-extrapolated
// beyond the ends) between the bracketing pillars otherwise — the curve
// package's own interpolation axis (ACT/365F) applies here too, since these
// discount factors feed the same curve.NewCurveFromDFs constructor.
func dfAt(t time.Time, dfs map[time.Time]float64, pillars []time.Time) float64 {
	if df, ok := dfs[t]; ok {
		return df
	}
	n := len(pillars)
	if n == 0 {
		return 1.0
	}
	if !t.After(pillars[0]) {
		return dfs[pillars[0]]
	}
	if !t.Before(pillars[n-1]) {
		return dfs[pillars[n-1]]
	}
	idx := sort.Search(n, func(i int) bool { return pillars[i].After(t) })
	d1, d2 := pillars[idx-1], pillars[idx]
	df1, df2 := dfs[d1], dfs[d2]
	w := daycount.YearFraction(d1, t, daycount.Act365F, daycount.ReferencePeriod{}) /
		daycount.YearFraction(d1, d2, daycount.Act365F, daycount.ReferencePeriod{})
	return df1 * math.Pow(df2/df1, w)
}

func solvePillar(inst instrument.MarketInstrument, settlement time.Time, dfs map[time.Time]float64, pillars []time.Time) (float64, error) {
	switch inst.Kind {
	case instrument.Deposit, instrument.FRA, instrument.Future:
		start := inst.StartDate
		if start.IsZero() {
			start = settlement
		}
		tau := daycount.YearFraction(start, inst.EndDate, daycount.Act360, daycount.ReferencePeriod{})
		rate := inst.Rate
		if inst.Kind == instrument.Future {
			rate = 100 - inst.Rate
		}
		dfStart := dfAt(start, dfs, pillars)
		return dfStart / (1 + (rate/100.0)*tau), nil
	case instrument.Bond:
		if len(inst.Cashflows) == 0 {
			return 0, fierrors.New(fierrors.InvalidBond, "Cashflows", "bond calibration instrument has no cash flows")
		}
		last := inst.Cashflows[len(inst.Cashflows)-1]
		var sumKnown float64
		for _, cf := range inst.Cashflows[:len(inst.Cashflows)-1] {
			sumKnown += cf.Amount() * dfAt(cf.Date, dfs, pillars)
		}
		remaining := (inst.CleanPrice + inst.Accrued) - sumKnown
		if last.Amount() == 0 {
			return 0, fierrors.New(fierrors.InvalidBond, "Cashflows", "bond calibration instrument's final cash flow has zero amount")
		}
		return remaining / last.Amount(), nil
	default:
		return 0, fmt.Errorf("bootstrap: unsupported instrument kind %q for direct pillar solve", inst.Kind)
	}
}

func target(inst instrument.MarketInstrument) float64 {
	switch inst.Kind {
	case instrument.Bond:
		return inst.CleanPrice + inst.Accrued
	default:
		// Deposit/FRA/Future residuals are expressed relative to their own
		// fitted rate (see reprice), and a par Swap/OIS instrument's NPV
		// target is 0 by definition of "par" — swapNPVResidual computes the
		// actual repriced NPV for the left-hand side of that comparison.
		return 0
	}
}

func reprice(inst instrument.MarketInstrument, settlement time.Time, dfs map[time.Time]float64, pillars []time.Time) float64 {
	switch inst.Kind {
	case instrument.Deposit, instrument.FRA, instrument.Future:
		start := inst.StartDate
		if start.IsZero() {
			start = settlement
		}
		tau := daycount.YearFraction(start, inst.EndDate, daycount.Act360, daycount.ReferencePeriod{})
		rate := inst.Rate
		if inst.Kind == instrument.Future {
			rate = 100 - inst.Rate
		}
		dfStart := dfAt(start, dfs, pillars)
		dfEnd := dfAt(inst.EndDate, dfs, pillars)
		return dfStart/dfEnd - 1 - (rate/100.0)*tau // residual form, zero at the fitted pillar
	case instrument.Swap, instrument.OIS:
		return swapNPVResidual(inst, settlement, dfs, pillars)
	case instrument.Bond:
		var sum float64
		for _, cf := range inst.Cashflows {
			sum += cf.Amount() * dfAt(cf.Date, dfs, pillars)
		}
		return sum
	default:
		return 0
	}
}
