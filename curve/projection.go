package curve

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/fincore/calendar"
	"github.com/meenmo/fincore/numeric"
	"github.com/meenmo/fincore/swap/market"
	"github.com/meenmo/fincore/utils"
)

// BuildProjectionCurve returns the projection curve for a swap leg. Overnight
// legs project directly off the discount curve (single-curve); IBOR legs get
// a dual curve of pseudo-discount-factors bootstrapped so the leg's quoted
// par swaps reprice to zero when discounted on the OIS curve.
func BuildProjectionCurve(curveDate time.Time, leg market.LegConvention, legQuotes map[string]float64, discount *Curve) *Curve {
	if market.IsOvernight(leg.ReferenceIndex) {
		return discount
	}
	if discount == nil {
		panic("BuildProjectionCurve: nil discount curve")
	}
	if legQuotes == nil {
		panic(fmt.Sprintf("BuildProjectionCurve: nil quotes for %s", leg.ReferenceIndex))
	}
	return BuildDualCurveWithFreq(curveDate, legQuotes, discount, leg.Calendar, int(leg.PayFrequency), 1)
}

// BuildDualCurveWithFreq builds an IBOR projection curve with independent
// control of the floating-leg accrual frequency used during bootstrap
// (floatFreqMonths) and the interpolation grid spacing (gridFreqMonths).
func BuildDualCurveWithFreq(settlement time.Time, iborQuotes map[string]float64, oisCurve *Curve, cal calendar.CalendarID, floatFreqMonths, gridFreqMonths int) *Curve {
	parsed := make(map[float64]float64, len(iborQuotes))
	for k, v := range iborQuotes {
		parsed[tenorToYears(k)] = v
	}
	c := &Curve{
		settlement:    settlement,
		parQuotes:     parsed,
		cal:           cal,
		freqMonths:    gridFreqMonths,
		curveDayCount: oisCurve.curveDayCount,
		interp:        LogLinearDF,
	}
	c.paymentDates = c.generatePaymentDates()
	c.quotedDates = c.quotedPaymentDates()
	c.parRates = c.buildParCurve()
	c.discountFactors = c.bootstrapDualCurve(oisCurve, floatFreqMonths)
	c.zeros = c.buildZero()
	return c
}

// bootstrapDualCurve solves the IBOR pseudo-discount factor at each quoted
// pillar so the floating-rate swap (discounted at oisCurve) reprices to par.
func (c *Curve) bootstrapDualCurve(oisCurve *Curve, floatFreqMonths int) map[time.Time]float64 {
	pseudoDF := make(map[time.Time]float64, len(c.paymentDates))
	pseudoDF[c.quotedDates[0]] = 1.0

	for i := 1; i < len(c.quotedDates); i++ {
		maturity := c.quotedDates[i]
		parRate := c.parRates[maturity]
		px := c.solvePseudoDiscountFactor(c.quotedDates[:i+1], pseudoDF, oisCurve, parRate, floatFreqMonths)
		pseudoDF[maturity] = px
	}

	c.fillGrid(pseudoDF, c.quotedDates)
	return pseudoDF
}

func (c *Curve) solvePseudoDiscountFactor(quotedDates []time.Time, pseudoDF map[time.Time]float64, oisCurve *Curve, parRate float64, floatFreqMonths int) float64 {
	maturity := quotedDates[len(quotedDates)-1]
	prevPillar := quotedDates[len(quotedDates)-2]

	guess := pseudoDF[prevPillar]
	if guess == 0 {
		guess = oisCurve.DF(maturity)
	}

	f := func(x float64) float64 {
		npv, _ := c.evalIBORSwapNPV(quotedDates, pseudoDF, oisCurve, parRate, x, floatFreqMonths)
		return npv
	}
	fprime := func(x float64) float64 {
		_, d := c.evalIBORSwapNPV(quotedDates, pseudoDF, oisCurve, parRate, x, floatFreqMonths)
		return d
	}

	result, err := numeric.NewtonWithBrentFallback(f, fprime, guess, 1e-9, 2.0, 1e-12, 100)
	if err != nil {
		return guess
	}
	return result.Root
}

// evalIBORSwapNPV prices the IBOR-vs-OIS-discounted swap NPV (receive float,
// pay fixed) at a trial pseudo-DF for the unsolved maturity pillar, and
// returns its derivative w.r.t. that trial value for Newton's step.
func (c *Curve) evalIBORSwapNPV(quotedDates []time.Time, pseudoDF map[time.Time]float64, oisCurve *Curve, parRate float64, unknownPseudoDF float64, floatFreqMonths int) (float64, float64) {
	start := quotedDates[0]
	maturity := quotedDates[len(quotedDates)-1]
	prevPillar := quotedDates[len(quotedDates)-2]

	floatDayCount := "ACT/365F"
	if c.cal == calendar.TARGET {
		floatDayCount = "ACT/360"
	}

	tempPseudoDF := make(map[time.Time]float64, len(pseudoDF)+1)
	for k, v := range pseudoDF {
		tempPseudoDF[k] = v
	}
	tempPseudoDF[maturity] = unknownPseudoDF

	floatingDates := []time.Time{start}
	curr := start
	for {
		nextUnadj := curr.AddDate(0, floatFreqMonths, 0)
		nextAdj := calendar.Adjust(c.cal, nextUnadj)
		if nextAdj.After(maturity) && !nextAdj.Equal(maturity) {
			break
		}
		floatingDates = append(floatingDates, nextAdj)
		if nextAdj.Equal(maturity) {
			break
		}
		curr = nextUnadj
	}
	if !floatingDates[len(floatingDates)-1].Equal(maturity) {
		floatingDates = append(floatingDates, maturity)
	}

	floatPV, floatDerivative := 0.0, 0.0
	for i := 1; i < len(floatingDates); i++ {
		periodStart, periodEnd := floatingDates[i-1], floatingDates[i]
		accrual := utils.YearFraction(periodStart, periodEnd, floatDayCount)

		pxStart := c.interpolatePseudoDF(periodStart, tempPseudoDF, quotedDates)
		pxEnd := c.interpolatePseudoDF(periodEnd, tempPseudoDF, quotedDates)
		forward := (pxStart/pxEnd - 1.0) / accrual
		oisDF := oisCurve.DF(periodEnd)
		floatPV += forward * accrual * oisDF

		if periodEnd.After(prevPillar) {
			dPxStart := c.interpolatePseudoDFDerivative(periodStart, tempPseudoDF, quotedDates, maturity, unknownPseudoDF)
			dPxEnd := c.interpolatePseudoDFDerivative(periodEnd, tempPseudoDF, quotedDates, maturity, unknownPseudoDF)
			dForward := (dPxStart/pxEnd - pxStart*dPxEnd/(pxEnd*pxEnd)) / accrual
			floatDerivative += accrual * oisDF * dForward
		}
	}

	fixedDayCount, fixedFreqMonths := "ACT/365F", 12
	switch c.cal {
	case calendar.TARGET:
		fixedDayCount, fixedFreqMonths = "30E/360", 12
	case calendar.JP:
		fixedDayCount, fixedFreqMonths = "ACT/365F", 6
	}

	fixedPV := 0.0
	currUnadj, prevAdj := start, start
	for {
		currUnadj = currUnadj.AddDate(0, fixedFreqMonths, 0)
		paymentDate := calendar.Adjust(c.cal, currUnadj)
		if paymentDate.After(maturity) && !paymentDate.Equal(maturity) {
			break
		}
		accrual := utils.YearFraction(prevAdj, paymentDate, fixedDayCount)
		fixedPV += oisCurve.DF(paymentDate) * accrual * parRate
		prevAdj = paymentDate
		if paymentDate.Equal(maturity) {
			break
		}
	}
	if !prevAdj.Equal(maturity) {
		accrual := utils.YearFraction(prevAdj, maturity, fixedDayCount)
		fixedPV += oisCurve.DF(maturity) * accrual * parRate
	}

	return floatPV - fixedPV, floatDerivative
}

// interpolatePseudoDFDerivative returns d(pseudoDF(target))/d(unknownPseudoDF)
// under log-linear interpolation between the previous solved pillar and the
// as-yet-unsolved maturity pillar.
func (c *Curve) interpolatePseudoDFDerivative(target time.Time, pseudoDF map[time.Time]float64, quotedDates []time.Time, maturity time.Time, unknownPseudoDF float64) float64 {
	if target.Equal(maturity) {
		return 1.0
	}
	prevPillar := quotedDates[len(quotedDates)-2]
	if !target.After(prevPillar) {
		return 0.0
	}
	t1 := utils.YearFraction(c.settlement, prevPillar, c.curveDayCount)
	t2 := utils.YearFraction(c.settlement, maturity, c.curveDayCount)
	tTarget := utils.YearFraction(c.settlement, target, c.curveDayCount)
	if t2 == t1 {
		return 0.0
	}
	ratio := (tTarget - t1) / (t2 - t1)
	pxTarget := c.interpolatePseudoDF(target, pseudoDF, quotedDates)
	if unknownPseudoDF <= 1e-9 {
		return 0.0
	}
	return ratio * pxTarget / unknownPseudoDF
}

func (c *Curve) interpolatePseudoDF(target time.Time, pseudoDF map[time.Time]float64, quotedDates []time.Time) float64 {
	if px, ok := pseudoDF[target]; ok {
		return px
	}
	d1, d2 := findBracketOrBoundary(quotedDates, target)
	px1, px2 := pseudoDF[d1], pseudoDF[d2]
	t1 := utils.YearFraction(c.settlement, d1, c.curveDayCount)
	t2 := utils.YearFraction(c.settlement, d2, c.curveDayCount)
	tTarget := utils.YearFraction(c.settlement, target, c.curveDayCount)
	if t2 == t1 || px1 <= 0 || px2 <= 0 {
		return px1
	}
	forwardRate := math.Log(px1/px2) / (t2 - t1)
	return px1 * math.Exp(-forwardRate*(tTarget-t1))
}
