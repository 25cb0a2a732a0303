package config

// Config holds solver and curve construction parameters.
// These were previously hardcoded magic numbers throughout the codebase.
type Config struct {
	// ConvergenceTolerance is the NPV tolerance for Newton-Raphson convergence.
	// Used by the bond/pricing yield solver.
	ConvergenceTolerance float64

	// MaxBootstrapIterations is the maximum iterations for the yield solver
	// (named for its original use bootstrapping a single bond's yield; the
	// curve bootstrapper itself solves each pillar in closed form and does
	// not iterate).
	MaxBootstrapIterations int

	// MaxSpreadIterations is the maximum iterations for par spread solving
	// (swap.SolveParSpread).
	MaxSpreadIterations int

	// DerivativeThreshold is the minimum derivative magnitude. Below this,
	// Newton iteration stops in favor of the Brent fallback to avoid
	// dividing by near-zero.
	DerivativeThreshold float64

	// MaxPaymentDates caps the number of payment dates a curve generates
	// off its settlement/frequency pair, so a malformed or extreme tenor
	// quote can't force an unbounded allocation. 600 supports up to 50Y
	// monthly.
	MaxPaymentDates int

	// MinDiscountFactor floors a discount factor used as a division
	// denominator (e.g. forward-rate-from-DF), to prevent numerical
	// instability from a near-zero DF at very long tenors.
	MinDiscountFactor float64

	// PVToleranceMultiplier scales the notional to compute the PV
	// convergence tolerance in swap.SolveParSpread:
	// tolerance = PVToleranceMultiplier * max(1.0, abs(notional)).
	PVToleranceMultiplier float64

	// LMDampingStart is the initial Levenberg-Marquardt damping (lambda)
	// added to the normal equations' diagonal in bootstrap.GlobalFit.
	LMDampingStart float64

	// LMDampingUpdateFactor scales lambda after each trial step: divided
	// in on acceptance (trust the linear model more), multiplied in on
	// rejection (fall back toward gradient descent).
	LMDampingUpdateFactor float64

	// LMMaxIterations bounds bootstrap.GlobalFit's outer refinement loop.
	LMMaxIterations int

	// LMBumpStep is the finite-difference step used to build GlobalFit's
	// Jacobian of instrument residual with respect to each pillar's
	// log-discount-factor.
	LMBumpStep float64

	// LMConvergenceTolerance is the max per-pillar step size below which
	// GlobalFit stops iterating.
	LMConvergenceTolerance float64

	// StubToleranceFraction is the band, as a fraction of a regular coupon
	// period's length, within which an irregular front/back period is
	// still classified short rather than long in schedule.Generate.
	StubToleranceFraction float64
}

// DefaultConfig provides production-ready default values.
var DefaultConfig = Config{
	ConvergenceTolerance:   1e-12,
	MaxBootstrapIterations: 100,
	MaxSpreadIterations:    10,
	DerivativeThreshold:    1e-15,
	MaxPaymentDates:        600,
	MinDiscountFactor:      1e-9,
	PVToleranceMultiplier:  1e-10,

	LMDampingStart:         1e-3,
	LMDampingUpdateFactor:  3.0,
	LMMaxIterations:        5,
	LMBumpStep:             1e-5,
	LMConvergenceTolerance: 1e-10,

	StubToleranceFraction: 0.10,
}

// cfg is the active configuration. Defaults to DefaultConfig.
var cfg = DefaultConfig

// SetConfig replaces the active configuration.
func SetConfig(c Config) {
	cfg = c
}

// GetConfig returns the active configuration.
func GetConfig() Config {
	return cfg
}
