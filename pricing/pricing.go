// Package pricing implements the price<->yield kernel: dirty/clean price,
// accrued interest with ex-dividend handling, short-dated roll-forward
// methodology, and the combined Newton/Brent yield solver. It generalizes
// the teacher's bond/yield.go (a single-convention, ACT/ACT-ICMA-only
// Newton solver for futures forward yield) into a convention-polymorphic
// kernel driven by a convention.Bundle.
package pricing

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/fincore/bond"
	"github.com/meenmo/fincore/calendar"
	"github.com/meenmo/fincore/convention"
	"github.com/meenmo/fincore/daycount"
	"github.com/meenmo/fincore/fierrors"
	"github.com/meenmo/fincore/numeric"
	"github.com/meenmo/fincore/swap/config"
)

const (
	yieldFloor   = -0.99
	yieldCeiling = 5.0
)

// AccruedInterest returns the standard accrued amount for a coupon period
// and whether settlement falls on/after the ex-dividend date. When exDiv is
// true, accrued is standard accrued minus one full coupon (it goes negative
// in the window between the ex-div date and the coupon date), and the
// caller must drop the upcoming coupon from the pricing cash-flow set.
func AccruedInterest(settlement, lastCoupon, nextCoupon time.Time, couponPerPeriod float64, conv convention.Bundle, cal calendar.CalendarID) (accrued float64, exDiv bool) {
	f := conv.Frequency
	if f <= 0 {
		f = 1
	}
	ref := daycount.ReferencePeriod{RefStart: lastCoupon, RefEnd: nextCoupon, Frequency: f}
	periodFraction := daycount.YearFraction(lastCoupon, settlement, conv.DayCount, ref) * float64(f)
	standard := couponPerPeriod * periodFraction

	if conv.ExDividendDays > 0 {
		exDivDate := calendar.BusinessDaysBefore(cal, nextCoupon, conv.ExDividendDays)
		if !settlement.Before(exDivDate) {
			return standard - couponPerPeriod, true
		}
	}
	return standard, false
}

// PriceFromYield computes dirty, clean, and accrued for a bond's remaining
// cash flows at a given yield. flows must be sorted ascending by date and
// include the upcoming coupon as flows[0] when present.
func PriceFromYield(settlement time.Time, yield float64, flows []bond.Cashflow, lastCoupon, nextCoupon time.Time, couponPerPeriod float64, conv convention.Bundle, cal calendar.CalendarID) (dirty, clean, accrued float64, err error) {
	accrued, exDiv := AccruedInterest(settlement, lastCoupon, nextCoupon, couponPerPeriod, conv, cal)

	pricingFlows := flows
	if exDiv && len(flows) > 0 && flows[0].Date.Equal(nextCoupon) {
		pricingFlows = flows[1:]
	}

	dirty, _, err = DirtyPriceAndDeriv(yield, settlement, lastCoupon, pricingFlows, conv)
	if err != nil {
		return 0, 0, 0, err
	}
	clean = dirty - accrued
	return dirty, clean, accrued, nil
}

// YieldFromPrice solves for the yield whose dirty price (clean + accrued)
// matches cleanPrice, via Newton-Raphson with a Brent fallback.
func YieldFromPrice(settlement time.Time, cleanPrice float64, flows []bond.Cashflow, lastCoupon, nextCoupon time.Time, couponPerPeriod float64, conv convention.Bundle, cal calendar.CalendarID) (float64, int, error) {
	accrued, exDiv := AccruedInterest(settlement, lastCoupon, nextCoupon, couponPerPeriod, conv, cal)

	pricingFlows := flows
	if exDiv && len(flows) > 0 && flows[0].Date.Equal(nextCoupon) {
		pricingFlows = flows[1:]
	}
	if len(pricingFlows) == 0 {
		return 0, 0, fierrors.New(fierrors.InvalidBond, "Cashflows", "no remaining cash flows at settlement "+settlement.Format("2006-01-02"))
	}

	target := cleanPrice + accrued

	f := func(y float64) float64 {
		p, _, _ := DirtyPriceAndDeriv(y, settlement, lastCoupon, pricingFlows, conv)
		return p - target
	}
	fprime := func(y float64) float64 {
		_, d, _ := DirtyPriceAndDeriv(y, settlement, lastCoupon, pricingFlows, conv)
		return d
	}

	cfg := config.GetConfig()
	res, err := numeric.NewtonWithBrentFallback(f, fprime, 0.025, yieldFloor, yieldCeiling, cfg.ConvergenceTolerance, cfg.MaxBootstrapIterations)
	if err != nil {
		return 0, 0, fierrors.NewSolverFailure("Yield", f(yieldFloor), cfg.MaxBootstrapIterations)
	}
	if conv.Frequency > 0 && 1+res.Root/float64(conv.Frequency) <= 0 {
		return 0, 0, fierrors.New(fierrors.YieldOutOfDomain, "Yield", fmt.Sprintf("1 + y/f <= 0 at y=%g, f=%d", res.Root, conv.Frequency))
	}
	return res.Root, res.Iterations, nil
}

// DirtyPriceAndDeriv prices the given remaining cash flows at yield y and
// returns the analytic derivative dPrice/dy, selecting the short-dated
// roll-forward methodology when remaining days to maturity fall at or below
// the convention's threshold, and the standard periodic/continuous/simple
// formula otherwise.
func DirtyPriceAndDeriv(y float64, settlement, lastCoupon time.Time, flows []bond.Cashflow, conv convention.Bundle) (float64, float64, error) {
	if len(flows) == 0 {
		return 0, 0, fierrors.New(fierrors.InvalidBond, "Cashflows", "no cash flows to price")
	}
	maturity := flows[len(flows)-1].Date
	remainingDays := int(maturity.Sub(settlement).Hours() / 24)

	if remainingDays <= conv.ShortDatedThresholdD {
		p, d := rollForwardPriceAndDeriv(y, settlement, flows, conv)
		return p, d, nil
	}
	p, d := standardPriceAndDeriv(y, settlement, lastCoupon, flows, conv)
	return p, d, nil
}

// standardPriceAndDeriv prices flows by the market convention's compounding
// basis, expressing each flow's discount exponent as a period count (t1 for
// the first, possibly fractional, period, then integer steps), matching the
// US Street bond-pricing formula and generalizing it across compounding
// variants.
func standardPriceAndDeriv(y float64, settlement, lastCoupon time.Time, flows []bond.Cashflow, conv convention.Bundle) (float64, float64) {
	f := conv.Frequency
	if f <= 0 {
		f = 1
	}
	ref := daycount.ReferencePeriod{RefStart: lastCoupon, RefEnd: flows[0].Date, Frequency: f}
	t1 := daycount.YearFraction(settlement, flows[0].Date, conv.DayCount, ref) * float64(f)

	terms := make([]float64, len(flows))
	var deriv float64
	for i, cf := range flows {
		t := t1 + float64(i)
		df, ddfdy := compoundFactor(y, conv, t)
		amt := cf.Amount()
		terms[i] = amt * df
		deriv += amt * ddfdy
	}
	return numeric.KahanSum(terms), deriv
}

// compoundFactor returns the discount factor and its derivative w.r.t. yield
// at a point expressed in elapsed coupon periods (not years), per the four
// compounding variants the kernel is polymorphic over.
func compoundFactor(y float64, conv convention.Bundle, periodsElapsed float64) (df, ddfdy float64) {
	f := float64(conv.Frequency)
	if f <= 0 {
		f = 1
	}
	switch conv.Compounding {
	case convention.Continuous:
		tYears := periodsElapsed / f
		df = math.Exp(-y * tYears)
		ddfdy = -tYears * df
	case convention.Simple, convention.None:
		tYears := periodsElapsed / f
		denom := 1 + y*tYears
		df = 1 / denom
		ddfdy = -tYears / (denom * denom)
	default: // Periodic
		base := 1 + y/f
		df = math.Pow(base, -periodsElapsed)
		ddfdy = -(periodsElapsed / f) * math.Pow(base, -periodsElapsed-1)
	}
	return df, ddfdy
}

// rollForwardPriceAndDeriv implements the short-dated methodology: future
// value is built from the maturity cash flow backward to settlement, each
// inter-coupon segment discounted by simple interest on the money-market
// basis (collapsing the spec's 0/1/>=2-remaining-coupon cases into one
// chain: a single remaining flow is simply the zero-iteration case).
func rollForwardPriceAndDeriv(y float64, settlement time.Time, flows []bond.Cashflow, conv convention.Bundle) (float64, float64) {
	n := len(flows)
	nodes := make([]time.Time, n+1)
	nodes[0] = settlement
	for i, cf := range flows {
		nodes[i+1] = cf.Date
	}

	value := flows[n-1].Amount()
	deriv := 0.0
	for i := n - 2; i >= 0; i-- {
		tau := daycount.YearFraction(nodes[i+1], nodes[i+2], conv.MoneyMarketBasis, daycount.ReferencePeriod{})
		denom := 1 + y*tau
		total := value + flows[i].Amount()
		newValue := total / denom
		newDeriv := (deriv*denom - total*tau) / (denom * denom)
		value, deriv = newValue, newDeriv
	}

	tau0 := daycount.YearFraction(nodes[0], nodes[1], conv.MoneyMarketBasis, daycount.ReferencePeriod{})
	denom := 1 + y*tau0
	finalValue := value / denom
	finalDeriv := (deriv*denom - value*tau0) / (denom * denom)
	return finalValue, finalDeriv
}
