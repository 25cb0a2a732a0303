package spread

import (
	"math"
	"sort"
	"time"

	"github.com/meenmo/fincore/bond"
	"github.com/meenmo/fincore/curve"
	"github.com/meenmo/fincore/daycount"
	"github.com/meenmo/fincore/fierrors"
	"github.com/meenmo/fincore/log"
	"github.com/meenmo/fincore/numeric"
)

// OASInput bundles the inputs to the option-adjusted spread solve: the
// bond's own (bullet) cash flows, its call/put schedule, the discount
// curve the short-rate lattice is calibrated against, and the lattice's
// volatility parameter.
type OASInput struct {
	Settlement   time.Time
	DirtyPrice   float64
	Cashflows    []bond.Cashflow
	CallSchedule []bond.CallPutOption
	PutSchedule  []bond.CallPutOption
	Curve        *curve.Curve
	Volatility   float64 // annualized short-rate volatility, e.g. 0.01 for 1%
}

const (
	oasSeed    = 0.005
	oasFloor   = -0.10
	oasCeiling = 0.10
	oasTol     = 1e-9
	oasMaxIter = 60
)

// OAS finds the constant additive spread to the short-rate lattice that
// reprices the bond to its market dirty price, honouring any call/put
// schedule via backward-induction exercise at each option date.
//
// The lattice is a binomial short-rate tree: node (i,j) has rate
// fwd(t_i,t_i+1) + sigma*sqrt(dt_i)*(2j-i), i.e. the curve's simple forward
// rate over each step (curve.ForwardRate) perturbed by a symmetric binomial shock. This
// trades exact Black-Derman-Toy/Hull-White node calibration (which needs a
// nested per-step root find against the curve) for a single forward-rate
// lookup per node; adequate for the additive constant-spread search OAS
// actually performs, since the spread search itself absorbs any small
// curve-refitting residual.
func OAS(in OASInput) (oasBP float64, iterations int, err error) {
	if in.Curve == nil {
		return 0, 0, fierrors.New(fierrors.MissingCurve, "Curve", "OAS requires a discount curve")
	}
	if len(in.Cashflows) == 0 {
		return 0, 0, fierrors.New(fierrors.InvalidBond, "Cashflows", "OAS requires cash flows")
	}

	dates, amounts := latticeNodes(in.Settlement, in.Cashflows)
	callMap := optionMap(in.CallSchedule)
	putMap := optionMap(in.PutSchedule)
	sigma := in.Volatility
	if sigma <= 0 {
		sigma = 0.01
	}

	rates := buildShortRateLattice(in.Curve, dates, sigma)

	f := func(s float64) float64 {
		return priceLattice(dates, amounts, rates, callMap, putMap, s) - in.DirtyPrice
	}

	res, err := numeric.Brent(f, oasFloor, oasCeiling, oasMaxIter)
	if err != nil {
		log.WithField("lastResidual", f(oasSeed)).Error("OAS: Brent search failed to converge")
		return 0, 0, fierrors.NewSolverFailure("OAS", f(oasSeed), oasMaxIter)
	}
	return res * 10000.0, oasMaxIter, nil
}

// latticeNodes returns the step dates (settlement first) and the cash
// amount due at each step (zero at settlement).
func latticeNodes(settlement time.Time, flows []bond.Cashflow) ([]time.Time, []float64) {
	sorted := make([]bond.Cashflow, len(flows))
	copy(sorted, flows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	dates := make([]time.Time, 0, len(sorted)+1)
	amounts := make([]float64, 0, len(sorted)+1)
	dates = append(dates, settlement)
	amounts = append(amounts, 0)
	for _, cf := range sorted {
		if cf.Date.Before(settlement) {
			continue
		}
		dates = append(dates, cf.Date)
		amounts = append(amounts, cf.Amount())
	}
	return dates, amounts
}

func optionMap(opts []bond.CallPutOption) map[string]float64 {
	m := make(map[string]float64, len(opts))
	for _, o := range opts {
		m[o.Date.Format("2006-01-02")] = o.Price
	}
	return m
}

// buildShortRateLattice returns, for each step i in [0,len(dates)-1), the
// i+1 binomial node rates spanning that step.
func buildShortRateLattice(c *curve.Curve, dates []time.Time, sigma float64) [][]float64 {
	n := len(dates) - 1
	lattice := make([][]float64, n)
	for i := 0; i < n; i++ {
		dt := daycount.YearFraction(dates[i], dates[i+1], daycount.Act365F, daycount.ReferencePeriod{})
		fwd := c.ForwardRate(dates[i], dates[i+1])
		lattice[i] = make([]float64, i+1)
		for j := 0; j <= i; j++ {
			lattice[i][j] = fwd + sigma*math.Sqrt(dt)*float64(2*j-i)
		}
	}
	return lattice
}

// priceLattice backward-induces the bond's value through the lattice at a
// given constant spread s, applying call/put exercise at each node whose
// date carries an option price.
func priceLattice(dates []time.Time, amounts []float64, rates [][]float64, callMap, putMap map[string]float64, s float64) float64 {
	n := len(dates) - 1
	values := make([]float64, n+1)
	for j := range values {
		values[j] = amounts[n]
	}

	for i := n - 1; i >= 0; i-- {
		dt := daycount.YearFraction(dates[i], dates[i+1], daycount.Act365F, daycount.ReferencePeriod{})
		next := make([]float64, i+1)
		key := dates[i].Format("2006-01-02")
		for j := 0; j <= i; j++ {
			rate := rates[i][j] + s
			disc := math.Exp(-rate * dt)
			cont := 0.5*(values[j]+values[j+1])*disc + amounts[i]
			if callPrice, ok := callMap[key]; ok && cont > callPrice {
				cont = callPrice
			}
			if putPrice, ok := putMap[key]; ok && cont < putPrice {
				cont = putPrice
			}
			next[j] = cont
		}
		values = next
	}
	return values[0]
}
