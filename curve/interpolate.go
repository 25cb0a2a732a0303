package curve

import (
	"math"
	"sort"
	"time"

	"github.com/meenmo/fincore/utils"
)

// sortedPillarTimes returns the bootstrapped pillar dates (with known DFs),
// converted to year-fractions from settlement, in ascending order.
func (c *Curve) sortedPillarTimes() ([]float64, []float64) {
	dates := make([]time.Time, 0, len(c.discountFactors))
	for d := range c.discountFactors {
		dates = append(dates, d)
	}
	utils.SortDates(dates)

	ts := make([]float64, len(dates))
	dfs := make([]float64, len(dates))
	for i, d := range dates {
		ts[i] = utils.YearFraction(c.settlement, d, c.curveDayCount)
		dfs[i] = c.discountFactors[d]
	}
	return ts, dfs
}

// linearZeroDF interpolates linearly on continuously-compounded zero rates
// between bootstrapped pillars (flat-extrapolated beyond the ends), then
// converts back to a discount factor — distinct from the log-linear-on-DF
// default, which is linear on the zero rate only when the day-count measure
// between adjacent pillars is itself uniform.
func (c *Curve) linearZeroDF(t time.Time) float64 {
	ts, dfs := c.sortedPillarTimes()
	tTarget := utils.YearFraction(c.settlement, t, c.curveDayCount)
	n := len(ts)
	if n < 2 {
		if n == 1 {
			return dfs[0]
		}
		return 1.0
	}

	zero := func(i int) float64 {
		if ts[i] == 0 {
			return 0
		}
		return -math.Log(dfs[i]) / ts[i]
	}

	idx := sort.SearchFloat64s(ts, tTarget)
	var z float64
	switch {
	case idx <= 0:
		z = zero(0)
	case idx >= n:
		z = zero(n - 1)
	default:
		i := idx - 1
		z0, z1 := zero(i), zero(i+1)
		w := (tTarget - ts[i]) / (ts[i+1] - ts[i])
		z = z0 + (z1-z0)*w
	}
	return math.Exp(-z * tTarget)
}

// linearZeroDFSnapshot is linearZeroDF's counterpart for a caller-supplied
// pillar snapshot rather than the curve's own bootstrapped discountFactors —
// used when filling NewCurveFromDFs's regular payment-date grid from
// diagnostically-injected DFs, the same role logLinearDF plays for the
// log-linear-on-DF default.
func (c *Curve) linearZeroDFSnapshot(t time.Time, sortedPillars []time.Time, dfs map[time.Time]float64) float64 {
	n := len(sortedPillars)
	if n < 2 {
		if n == 1 {
			return dfs[sortedPillars[0]]
		}
		return 1.0
	}

	yf := func(d time.Time) float64 { return utils.YearFraction(c.settlement, d, c.curveDayCount) }
	zero := func(d time.Time) float64 {
		tf := yf(d)
		if tf == 0 {
			return 0
		}
		return -math.Log(dfs[d]) / tf
	}

	tTarget := yf(t)
	d1, d2 := findBracketOrBoundary(sortedPillars, t)
	if d1.Equal(d2) {
		return dfs[d1]
	}
	t1, t2 := yf(d1), yf(d2)
	z1, z2 := zero(d1), zero(d2)
	var z float64
	if t2 == t1 {
		z = z1
	} else {
		z = z1 + (z2-z1)*(tTarget-t1)/(t2-t1)
	}
	return math.Exp(-z * tTarget)
}

// monotoneConvexDF interpolates with the Hagan-West quadratic forward-rate
// interpolant on each pillar segment, integrated to a discount factor. Node
// forwards are the plain average of the adjacent segment forwards; they are
// not clamped and the Hagan-West monotonicity regimes are not applied, so the
// forward curve between pillars is not guaranteed positive or monotone.
func (c *Curve) monotoneConvexDF(t time.Time) float64 {
	ts, dfs := c.sortedPillarTimes()
	tTarget := utils.YearFraction(c.settlement, t, c.curveDayCount)
	if len(ts) < 2 {
		if len(ts) == 1 {
			return dfs[0]
		}
		return 1.0
	}

	// discrete forward rates f_i over [t_{i-1}, t_i]
	fwd := make([]float64, len(ts)-1)
	for i := 1; i < len(ts); i++ {
		dt := ts[i] - ts[i-1]
		if dt <= 0 {
			fwd[i-1] = 0
			continue
		}
		fwd[i-1] = math.Log(dfs[i-1]/dfs[i]) / dt
	}

	idx := sort.SearchFloat64s(ts, tTarget)
	if idx <= 0 {
		return dfs[0] * math.Exp(-fwd[0]*(tTarget-ts[0]))
	}
	if idx >= len(ts) {
		last := fwd[len(fwd)-1]
		return dfs[len(dfs)-1] * math.Exp(-last*(tTarget-ts[len(ts)-1]))
	}

	// node forward rate at pillar i: average of adjacent segment forwards
	// (end nodes take their single adjacent segment's forward), unclamped.
	nodeFwd := func(i int) float64 {
		switch {
		case i == 0:
			return fwd[0]
		case i == len(fwd):
			return fwd[len(fwd)-1]
		default:
			return 0.5 * (fwd[i-1] + fwd[i])
		}
	}

	i := idx - 1
	t0, t1 := ts[i], ts[i+1]
	g0 := nodeFwd(i) - fwd[i]
	g1 := nodeFwd(i+1) - fwd[i]
	x := (tTarget - t0) / (t1 - t0)

	// integral of the Hagan-West quadratic forward-rate interpolant from 0 to x
	integral := fwd[i]*x + g0*(x-2*x*x+x*x*x) + g1*(-x*x+x*x*x)
	return dfs[i] * math.Exp(-integral*(t1-t0))
}

// cubicSplineDF fits a natural cubic spline through log(DF) at the pillars
// and evaluates it at t, giving a smoother curve than log-linear at the cost
// of possible small overshoot between widely spaced pillars.
func (c *Curve) cubicSplineDF(t time.Time) float64 {
	ts, dfs := c.sortedPillarTimes()
	tTarget := utils.YearFraction(c.settlement, t, c.curveDayCount)
	n := len(ts)
	if n < 2 {
		if n == 1 {
			return dfs[0]
		}
		return 1.0
	}

	y := make([]float64, n)
	for i, df := range dfs {
		y[i] = math.Log(df)
	}

	// Natural cubic spline second-derivative solve (Thomas algorithm), n small
	// (bootstrap pillar counts are O(10)), so no sparse solver is warranted.
	alpha := make([]float64, n)
	l := make([]float64, n)
	mu := make([]float64, n)
	z := make([]float64, n)
	h := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		h[i] = ts[i+1] - ts[i]
	}
	for i := 1; i < n-1; i++ {
		alpha[i] = 3/h[i]*(y[i+1]-y[i]) - 3/h[i-1]*(y[i]-y[i-1])
	}
	l[0] = 1
	for i := 1; i < n-1; i++ {
		l[i] = 2*(ts[i+1]-ts[i-1]) - h[i-1]*mu[i-1]
		mu[i] = h[i] / l[i]
		z[i] = (alpha[i] - h[i-1]*z[i-1]) / l[i]
	}
	l[n-1] = 1
	c2 := make([]float64, n)
	b := make([]float64, n)
	d := make([]float64, n)
	for j := n - 2; j >= 0; j-- {
		c2[j] = z[j] - mu[j]*c2[j+1]
		b[j] = (y[j+1]-y[j])/h[j] - h[j]*(c2[j+1]+2*c2[j])/3
		d[j] = (c2[j+1] - c2[j]) / (3 * h[j])
	}

	idx := sort.SearchFloat64s(ts, tTarget)
	if idx > 0 {
		idx--
	}
	if idx > n-2 {
		idx = n - 2
	}
	dx := tTarget - ts[idx]
	logDF := y[idx] + b[idx]*dx + c2[idx]*dx*dx + d[idx]*dx*dx*dx
	return math.Exp(logDF)
}
