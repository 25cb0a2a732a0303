package api

import (
	"time"

	"github.com/meenmo/fincore/bootstrap"
	"github.com/meenmo/fincore/calendar"
	"github.com/meenmo/fincore/curve"
	"github.com/meenmo/fincore/instrument"
)

// BootstrapInput bundles a calibration-instrument set with the calendar,
// swap-leg frequency, and interpolation mode bootstrap.Calibrate needs,
// plus whether to run the Levenberg-Marquardt global refinement pass after
// the initial piecewise solve.
type BootstrapInput struct {
	Settlement     time.Time
	Instruments    []instrument.MarketInstrument
	Calendar       calendar.CalendarID
	SwapFreqMonths int

	// Interpolation selects how the curve fills DF/zero values between
	// solved pillars (log-linear on DF, linear on zero rates, monotone
	// convex, or cubic spline). Zero value is curve.LinearZero.
	Interpolation curve.Interpolation

	// Method distinguishes the calibration algorithm: piecewise sequential
	// solve alone, or that solve seeded into a global Levenberg-Marquardt
	// refit (Refine=true) across every instrument's residual at once.
	Refine bool
}

// Bootstrap calibrates a discount curve from a heterogeneous instrument set,
// optionally sharpening the piecewise solve with a global least-squares
// refit across every instrument's residual.
func Bootstrap(in BootstrapInput) (instrument.CalibrationResult, error) {
	result, err := bootstrap.Calibrate(in.Settlement, in.Instruments, in.Calendar, in.SwapFreqMonths, in.Interpolation)
	if err != nil {
		return instrument.CalibrationResult{}, err
	}
	if !in.Refine {
		return result, nil
	}
	return bootstrap.GlobalFit(in.Settlement, in.Instruments, result)
}
