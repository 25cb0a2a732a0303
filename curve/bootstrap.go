package curve

import (
	"math"
	"time"

	"github.com/meenmo/fincore/calendar"
	"github.com/meenmo/fincore/numeric"
	"github.com/meenmo/fincore/utils"
)

// oisCoupon is one fixed-leg accrual period used while bootstrapping a pillar.
type oisCoupon struct {
	PaymentDate time.Time
	Accrual     float64
}

// bootstrapDiscountFactors sequentially solves the discount factor at each
// quoted pillar so that the fixed-leg par swap to that maturity reprices to
// par, then fills the remaining grid dates by log-linear interpolation.
func (c *Curve) bootstrapDiscountFactors() map[time.Time]float64 {
	df := make(map[time.Time]float64, len(c.paymentDates))
	df[c.quotedDates[0]] = 1.0

	for i := 1; i < len(c.quotedDates); i++ {
		maturity := c.quotedDates[i]
		parRate := c.parRates[maturity]
		coupons := c.buildOISCoupons(maturity)
		df[maturity] = c.solveOISDiscountFactor(c.quotedDates[:i+1], df, coupons, parRate)
	}

	c.fillGrid(df, c.quotedDates)
	return df
}

// fillGrid log-linearly interpolates df at every payment date not already a
// solved pillar, flat-extrapolating past the last quoted pillar.
func (c *Curve) fillGrid(df map[time.Time]float64, quotedDates []time.Time) {
	for _, d := range c.paymentDates {
		if _, ok := df[d]; ok {
			continue
		}
		d1, d2, found := findBracket(quotedDates, d)
		if !found {
			if !d.Before(quotedDates[len(quotedDates)-1]) {
				df[d] = df[quotedDates[len(quotedDates)-1]]
			}
			continue
		}
		df[d] = utils.RoundTo(c.logLinearDFBetween(d, d1, d2, df), 12)
	}
}

// buildOISCoupons generates the fixed-leg accrual schedule from settlement to
// maturity, rolling backward from maturity (Bloomberg SWPM convention) so
// repeated Modified-Following adjustment cannot drift the final coupon date.
func (c *Curve) buildOISCoupons(maturity time.Time) []oisCoupon {
	payDelay, accrualDC := c.fixedLegConvention()

	months := 12
	var unadjustedDates []time.Time
	current := maturity
	for current.After(c.settlement) {
		unadjustedDates = append([]time.Time{current}, unadjustedDates...)
		current = utils.AddMonth(current, -months)
	}
	unadjustedDates = append([]time.Time{c.settlement}, unadjustedDates...)

	coupons := make([]oisCoupon, 0, len(unadjustedDates)-1)
	for i := 0; i < len(unadjustedDates)-1; i++ {
		accrualStart := calendar.Adjust(c.cal, unadjustedDates[i])
		accrualEnd := calendar.Adjust(c.cal, unadjustedDates[i+1])
		payDate := calendar.AddBusinessDays(c.cal, accrualEnd, payDelay)
		alpha := utils.YearFraction(accrualStart, accrualEnd, accrualDC)
		coupons = append(coupons, oisCoupon{PaymentDate: payDate, Accrual: alpha})
	}
	return coupons
}

// fixedLegConvention returns the payment lag and accrual day count for the
// curve's fixed leg, branching on currency and on OIS-vs-IBOR fixed-leg basis.
func (c *Curve) fixedLegConvention() (payDelay int, accrualDC string) {
	switch c.cal {
	case calendar.JP:
		return 2, "ACT/365F"
	case calendar.FD, calendar.GT:
		if c.fixedLegDC == fixedLegIBOR {
			return 2, "30/360"
		}
		return 2, "ACT/360"
	case calendar.TARGET:
		if c.fixedLegDC == fixedLegIBOR {
			return 0, "30/360"
		}
		return 1, "30/360"
	default:
		return 0, "ACT/365F"
	}
}

// solveOISDiscountFactor solves f(x) = PV_fixed(x) + x - 1 = 0 for the unknown
// pillar DF x, using Newton-Raphson from dfPrev with a Brent fallback bracketed in [1e-9, 2.0].
func (c *Curve) solveOISDiscountFactor(quotedDates []time.Time, df map[time.Time]float64, coupons []oisCoupon, parRate float64) float64 {
	maturity := quotedDates[len(quotedDates)-1]
	prevPillar := quotedDates[len(quotedDates)-2]
	dfPrev := df[prevPillar]

	eval := func(x float64) (float64, float64) {
		pvFixed, deriv := 0.0, 0.0
		for _, cpn := range coupons {
			var d, dPrime float64
			if !cpn.PaymentDate.After(prevPillar) {
				d = c.getKnownDF(cpn.PaymentDate, df, quotedDates)
			} else {
				d, dPrime = c.interpolateUnknownDF(cpn.PaymentDate, prevPillar, dfPrev, maturity, x)
			}
			pvFixed += d * cpn.Accrual * parRate
			deriv += dPrime * cpn.Accrual * parRate
		}
		return pvFixed + x - 1.0, deriv + 1.0
	}

	f := func(x float64) float64 { v, _ := eval(x); return v }
	fprime := func(x float64) float64 { _, d := eval(x); return d }

	result, err := numeric.NewtonWithBrentFallback(f, fprime, dfPrev, 1e-9, 2.0, 1e-12, 50)
	if err != nil {
		return dfPrev
	}
	return result.Root
}

func (c *Curve) getKnownDF(t time.Time, df map[time.Time]float64, quotedDates []time.Time) float64 {
	if val, ok := df[t]; ok {
		return val
	}
	if len(quotedDates) < 2 {
		if len(quotedDates) == 1 {
			return df[quotedDates[0]]
		}
		return 1.0
	}
	d1, d2 := findBracketOrBoundary(quotedDates, t)
	return c.logLinearDFBetween(t, d1, d2, df)
}

// interpolateUnknownDF interpolates DF(t) log-linearly between a known
// start pillar and an as-yet-unsolved end pillar whose DF equals x, returning
// both the interpolated value and its derivative w.r.t. x for Newton's step.
func (c *Curve) interpolateUnknownDF(t, start time.Time, dfStart float64, end time.Time, x float64) (float64, float64) {
	tStart := utils.YearFraction(c.settlement, start, c.curveDayCount)
	tEnd := utils.YearFraction(c.settlement, end, c.curveDayCount)
	tTarget := utils.YearFraction(c.settlement, t, c.curveDayCount)
	if tEnd == tStart {
		return dfStart, 0
	}
	ratio := (tTarget - tStart) / (tEnd - tStart)
	if x <= 1e-9 {
		x = 1e-9
	}
	dfT := math.Pow(dfStart, 1.0-ratio) * math.Pow(x, ratio)
	return dfT, ratio * dfT / x
}

func (c *Curve) logLinearDFBetween(t, d1, d2 time.Time, df map[time.Time]float64) float64 {
	df1, df2 := df[d1], df[d2]
	t1 := utils.YearFraction(c.settlement, d1, c.curveDayCount)
	t2 := utils.YearFraction(c.settlement, d2, c.curveDayCount)
	tTarget := utils.YearFraction(c.settlement, t, c.curveDayCount)
	if t2 == t1 || df1 <= 0 || df2 <= 0 {
		return df1
	}
	forwardRate := math.Log(df1/df2) / (t2 - t1)
	return df1 * math.Exp(-forwardRate*(tTarget-t1))
}

func (c *Curve) logLinearDF(t time.Time, sortedPillars []time.Time, dfs map[time.Time]float64) float64 {
	if len(sortedPillars) < 2 {
		if len(sortedPillars) == 1 {
			return dfs[sortedPillars[0]]
		}
		return 1.0
	}
	d1, d2 := findBracketOrBoundary(sortedPillars, t)
	return c.logLinearDFBetween(t, d1, d2, dfs)
}
