// Package instrument defines the calibration-instrument abstraction the
// bootstrap package solves a curve against: a tagged union covering
// deposits, FRAs, futures, swaps/OIS and bonds, each carrying whatever a
// single-pillar DF solve needs for its own quoting convention.
package instrument

import (
	"time"

	"github.com/meenmo/fincore/bond"
	"github.com/meenmo/fincore/swap/market"
	"gonum.org/v1/gonum/mat"
)

// Kind tags which pricing formula a MarketInstrument calibrates against.
type Kind string

const (
	Deposit Kind = "DEPOSIT"
	FRA     Kind = "FRA"
	Future  Kind = "FUTURE"
	Swap    Kind = "SWAP"
	OIS     Kind = "OIS"
	Bond    Kind = "BOND"
)

// MarketInstrument is one calibration quote: a deposit/FRA/future rate, a
// par swap/OIS rate, or a bond's clean price plus its own cash flows.
// Only the fields relevant to Kind are populated by callers.
type MarketInstrument struct {
	Kind  Kind
	Tenor string // pillar label, e.g. "3M", "1Y" — used for Swap/OIS par-curve quotes

	// Deposit / FRA / Future
	StartDate time.Time
	EndDate   time.Time
	Rate      float64 // percent: deposit/FRA par rate, or futures price (100-implied rate)

	// Swap / OIS
	ParRate  float64              // percent, keyed by Tenor in the par curve
	FixedLeg market.LegConvention // optional: enables swap-engine NPV verification of ParRate in bootstrap.Calibrate
	FloatLeg market.LegConvention // optional: floating leg paired with FixedLeg, required alongside it

	// Bond
	Cashflows  []bond.Cashflow
	CleanPrice float64
	Accrued    float64
}

// CalibrationResult is the output of a bootstrap.Calibrate call: the
// resulting discount curve, the per-instrument repricing residuals (for
// calibration-quality diagnostics), and — when the fit included the global
// refinement pass — the Jacobian of instrument price with respect to each
// pillar's log-discount-factor, consumed by risk.KeyRateDurationFromJacobian.
type CalibrationResult struct {
	DiscountFactors map[time.Time]float64
	PillarDates     []time.Time
	Residuals       []float64
	Jacobian        *mat.Dense
	Iterations      int
}
