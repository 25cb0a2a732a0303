// Package risk computes duration, convexity and curve/spread sensitivities
// from already-priced bond cash flows.
package risk

import (
	"time"

	"github.com/meenmo/fincore/bond"
	"github.com/meenmo/fincore/convention"
	"github.com/meenmo/fincore/curve"
	"github.com/meenmo/fincore/fierrors"
	"github.com/meenmo/fincore/pricing"
	"github.com/meenmo/fincore/spread"
	"github.com/meenmo/fincore/swap"
	"gonum.org/v1/gonum/mat"
)

const defaultYieldBump = 1e-4

// DurationResult bundles the yield-based duration measures for a single bond.
type DurationResult struct {
	Macaulay float64
	Modified float64
	DV01     float64
}

// YieldDurations computes Macaulay and modified duration, and DV01, from the
// bond's own priced cash flows at its solved yield.
//
// Modified duration is -(1/P)*dP/dy, read directly off the pricing kernel's
// analytic derivative. Macaulay duration follows from the textbook identity
// Macaulay = Modified*(1+y/f) for periodic compounding; under continuous or
// simple compounding the two measures coincide with Modified duration, since
// the (1+y/f) scaling has no periodic analogue.
func YieldDurations(settlement time.Time, yield float64, flows []bond.Cashflow, lastCoupon time.Time, conv convention.Bundle) (DurationResult, error) {
	dirty, deriv, err := pricing.DirtyPriceAndDeriv(yield, settlement, lastCoupon, flows, conv)
	if err != nil {
		return DurationResult{}, err
	}
	if dirty == 0 {
		return DurationResult{}, fierrors.New(fierrors.InvalidBond, "DirtyPrice", "cannot compute duration against a zero price")
	}

	modified := -deriv / dirty
	macaulay := modified
	if conv.Compounding == convention.Periodic && conv.Frequency > 0 {
		macaulay = modified * (1 + yield/float64(conv.Frequency))
	}

	return DurationResult{
		Macaulay: macaulay,
		Modified: modified,
		DV01:     modified * dirty * 1e-4,
	}, nil
}

// EffectiveDurationConvexity re-prices the bond at yield±bump (default 1bp)
// and returns the symmetric-difference effective duration and convexity,
// the measures that remain meaningful for bonds with optionality where the
// analytic yield derivative alone does not capture the embedded option.
func EffectiveDurationConvexity(settlement time.Time, yield float64, flows []bond.Cashflow, lastCoupon time.Time, conv convention.Bundle, bump float64) (effDuration, effConvexity float64, err error) {
	if bump <= 0 {
		bump = defaultYieldBump
	}

	price, _, err := pricing.DirtyPriceAndDeriv(yield, settlement, lastCoupon, flows, conv)
	if err != nil {
		return 0, 0, err
	}
	priceUp, _, err := pricing.DirtyPriceAndDeriv(yield+bump, settlement, lastCoupon, flows, conv)
	if err != nil {
		return 0, 0, err
	}
	priceDown, _, err := pricing.DirtyPriceAndDeriv(yield-bump, settlement, lastCoupon, flows, conv)
	if err != nil {
		return 0, 0, err
	}
	if price == 0 {
		return 0, 0, fierrors.New(fierrors.InvalidBond, "DirtyPrice", "cannot compute effective duration against a zero price")
	}

	effDuration = (priceDown - priceUp) / (2 * price * bump)
	effConvexity = (priceUp + priceDown - 2*price) / (price * bump * bump)
	return effDuration, effConvexity, nil
}

// CS01 is the dirty-price sensitivity to a 1bp parallel widening of the
// bond's Z-spread, computed by re-pricing the cash flows against the
// discount curve at spread and spread+1bp.
func CS01(settlement time.Time, cashflows []bond.Cashflow, disc swap.DiscountCurve, currentSpread float64) float64 {
	const bump = 1e-4
	p0 := spread.PriceGivenZSpread(settlement, cashflows, disc, currentSpread)
	p1 := spread.PriceGivenZSpread(settlement, cashflows, disc, currentSpread+bump)
	return p1 - p0
}

// KeyRateDurations returns, for every quoted pillar on disc, the bond's
// sensitivity to a 1bp move in that pillar's par rate alone, holding all
// other pillars fixed. Each entry is -(1/P)*Σ CF_i·∂DF(t_i)/∂node_k, the
// discrete analogue of modified duration restricted to one curve node;
// disc.PartialDF supplies the node-wise discount-factor derivative via a
// central bump-and-rebootstrap of that one pillar.
func KeyRateDurations(settlement time.Time, cashflows []bond.Cashflow, disc *curve.Curve, price float64) ([]float64, error) {
	if price == 0 {
		return nil, fierrors.New(fierrors.InvalidBond, "DirtyPrice", "cannot compute key-rate duration against a zero price")
	}
	const bumpBP = 1.0
	n := disc.NodeCount()
	krds := make([]float64, n)
	for k := 0; k < n; k++ {
		var sum float64
		for _, cf := range cashflows {
			if cf.Date.Before(settlement) {
				continue
			}
			d, err := disc.PartialDF(cf.Date, k, bumpBP)
			if err != nil {
				return nil, err
			}
			sum += cf.Amount() * d
		}
		krds[k] = -sum / price
	}
	return krds, nil
}

// KeyRateDurationFromJacobian chain-rules price sensitivities to calibration
// quotes (dPdQuote) through the inverse of a bootstrap Jacobian to recover
// key-rate durations in a single analytic pass, an alternative to
// KeyRateDurations' per-pillar bump-and-rebootstrap once a calibration
// Jacobian is already available from the bootstrap.
func KeyRateDurationFromJacobian(dPdQuote []float64, jacobianInverse *mat.Dense) []float64 {
	n := len(dPdQuote)
	v := mat.NewVecDense(n, dPdQuote)
	out := mat.NewVecDense(n, nil)
	out.MulVec(jacobianInverse, v)
	result := make([]float64, n)
	for i := 0; i < n; i++ {
		result[i] = out.AtVec(i)
	}
	return result
}
