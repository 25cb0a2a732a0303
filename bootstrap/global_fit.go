package bootstrap

import (
	"math"
	"time"

	"github.com/meenmo/fincore/instrument"
	"github.com/meenmo/fincore/swap/config"
	"gonum.org/v1/gonum/mat"
)

func sumSquares(r []float64) float64 {
	var s float64
	for _, v := range r {
		s += v * v
	}
	return s
}

// GlobalFit runs a small Levenberg-Marquardt least-squares pass over all
// instruments jointly, adjusting every pillar's log-discount-factor at once
// to minimize the sum of squared repricing residuals — a global fit on top
// of Calibrate's piecewise sequential solve, useful when instruments overlap
// in maturity (e.g. an on-the-run bond quoted at a tenor a swap already
// pillars) and the piecewise solve's pillar-by-pillar ordering leaves a
// small residual at an earlier instrument. Returns the refined result along
// with the Jacobian of instrument price with respect to each pillar's
// log-discount-factor, for risk.KeyRateDurationFromJacobian.
func GlobalFit(settlement time.Time, instruments []instrument.MarketInstrument, seed instrument.CalibrationResult) (instrument.CalibrationResult, error) {
	pillars := append([]time.Time(nil), seed.PillarDates...)
	n := len(pillars)
	m := len(instruments)

	logDF := make([]float64, n)
	dfs := make(map[time.Time]float64, n)
	for i, d := range pillars {
		dfs[d] = seed.DiscountFactors[d]
		logDF[i] = math.Log(dfs[d])
	}

	residualsAt := func(ldf []float64) ([]float64, map[time.Time]float64) {
		cur := make(map[time.Time]float64, n)
		for i, d := range pillars {
			cur[d] = math.Exp(ldf[i])
		}
		r := make([]float64, m)
		for i, inst := range instruments {
			r[i] = reprice(inst, settlement, cur, pillars) - target(inst)
		}
		return r, cur
	}

	cfg := config.GetConfig()
	lambda := cfg.LMDampingStart

	buildJacobian := func(ldf []float64, r []float64) *mat.Dense {
		jac := mat.NewDense(m, n, nil)
		for k := 0; k < n; k++ {
			bumped := append([]float64(nil), ldf...)
			bumped[k] += cfg.LMBumpStep
			rb, _ := residualsAt(bumped)
			for i := 0; i < m; i++ {
				jac.Set(i, k, (rb[i]-r[i])/cfg.LMBumpStep)
			}
		}
		return jac
	}

	r0, _ := residualsAt(logDF)
	cost0 := sumSquares(r0)
	var iterations int
	for iter := 0; iter < cfg.LMMaxIterations; iter++ {
		iterations = iter + 1
		jac := buildJacobian(logDF, r0)

		var jtj mat.Dense
		jtj.Mul(jac.T(), jac)
		for k := 0; k < n; k++ {
			jtj.Set(k, k, jtj.At(k, k)+lambda)
		}

		rVec := mat.NewVecDense(m, r0)
		var jtr mat.VecDense
		jtr.MulVec(jac.T(), rVec)

		var delta mat.VecDense
		if err := delta.SolveVec(&jtj, &jtr); err != nil {
			break
		}

		next := make([]float64, n)
		var maxStep float64
		for k := 0; k < n; k++ {
			next[k] = logDF[k] - delta.AtVec(k)
			if math.Abs(delta.AtVec(k)) > maxStep {
				maxStep = math.Abs(delta.AtVec(k))
			}
		}
		rNext, _ := residualsAt(next)
		costNext := sumSquares(rNext)

		if costNext < cost0 {
			logDF = next
			r0 = rNext
			cost0 = costNext
			lambda /= cfg.LMDampingUpdateFactor
			if maxStep < cfg.LMConvergenceTolerance {
				break
			}
		} else {
			lambda *= cfg.LMDampingUpdateFactor
		}
	}

	_, finalDFs := residualsAt(logDF)
	residuals := make([]float64, m)
	for i, inst := range instruments {
		residuals[i] = reprice(inst, settlement, finalDFs, pillars) - target(inst)
	}

	jac := buildJacobian(logDF, residuals)

	return instrument.CalibrationResult{
		DiscountFactors: finalDFs,
		PillarDates:     pillars,
		Residuals:       residuals,
		Jacobian:        jac,
		Iterations:      iterations,
	}, nil
}
