// Package numeric provides the root-finding and summation primitives shared
// by the curve bootstrapper and the bond pricing kernel.
package numeric

import (
	"fmt"
	"math"

	"github.com/khezen/rootfinding"
	"github.com/meenmo/fincore/swap/config"
)

// SolveResult carries the root along with the iteration count and which
// method actually produced it, for calibration diagnostics/logging.
type SolveResult struct {
	Root       float64
	Iterations int
	UsedBrent  bool
}

// NewtonWithBrentFallback finds x such that f(x) = 0, starting from guess using
// Newton-Raphson with derivative fprime. If Newton fails to converge within
// maxIter (divergence, non-finite step, or stalled derivative), it falls back
// to bracketed Brent search over [lo, hi], which must bracket a root.
func NewtonWithBrentFallback(f, fprime func(float64) float64, guess, lo, hi, tol float64, maxIter int) (SolveResult, error) {
	x := guess
	for iter := 0; iter < maxIter; iter++ {
		fx := f(x)
		if math.Abs(fx) < tol {
			return SolveResult{Root: x, Iterations: iter}, nil
		}
		dfx := fprime(x)
		if math.IsNaN(fx) || math.IsInf(fx, 0) || math.IsNaN(dfx) || math.Abs(dfx) < config.GetConfig().DerivativeThreshold {
			break
		}
		step := fx / dfx
		next := x - step
		if math.IsNaN(next) || math.IsInf(next, 0) {
			break
		}
		x = next
	}

	root, err := rootfinding.Brent(f, lo, hi, maxIter)
	if err != nil {
		return SolveResult{}, fmt.Errorf("NewtonWithBrentFallback: Newton stalled and Brent failed: %w", err)
	}
	return SolveResult{Root: root, Iterations: maxIter, UsedBrent: true}, nil
}

// Brent is a thin re-export of the bracketed solver used directly where no
// derivative is available (e.g. OAS search over a discount-margin shift).
func Brent(f func(float64) float64, lo, hi float64, maxIter int) (float64, error) {
	return rootfinding.Brent(f, lo, hi, maxIter)
}

// KahanSum adds terms with compensated summation, used wherever a cash-flow
// or basket aggregation sums more than ~32 floating point terms (§5).
func KahanSum(terms []float64) float64 {
	var sum, c float64
	for _, t := range terms {
		y := t - c
		sum2 := sum + y
		c = (sum2 - sum) - y
		sum = sum2
	}
	return sum
}
