// Package money formats the fixed-decimal values the API boundary (SPEC_FULL.md
// §6) requires: monetary amounts at 6 fractional digits, yields/rates at 10.
// Internal pricing math stays in float64 for solver performance; this
// package is the rounding boundary values cross on their way out, the same
// role shopspring/decimal plays at the trade-settlement boundary in
// Andrew50-peripheral's account handlers.
package money

import "github.com/shopspring/decimal"

const (
	// MonetaryScale is the fractional-digit count for prices, accrued
	// interest, DV01, CS01, and other currency-denominated fields.
	MonetaryScale = 6
	// RateScale is the fractional-digit count for yields, zero rates,
	// forward rates, and spreads.
	RateScale = 10
)

// Amount rounds a monetary value to the API's 6-decimal-digit contract.
type Amount struct {
	d decimal.Decimal
}

// NewAmount builds an Amount from a raw float64 pricing result.
func NewAmount(v float64) Amount {
	return Amount{d: decimal.NewFromFloat(v).Round(MonetaryScale)}
}

// Float64 returns the rounded value back as a float64 for further math.
func (a Amount) Float64() float64 {
	f, _ := a.d.Float64()
	return f
}

// String renders the amount at its fixed scale, e.g. "102.345000".
func (a Amount) String() string {
	return a.d.StringFixed(MonetaryScale)
}

// Rate rounds a yield or rate value to the API's 10-decimal-digit contract.
type Rate struct {
	d decimal.Decimal
}

// NewRate builds a Rate from a raw float64 (e.g. a decimal yield, 0.044690
// for 4.469%).
func NewRate(v float64) Rate {
	return Rate{d: decimal.NewFromFloat(v).Round(RateScale)}
}

func (r Rate) Float64() float64 {
	f, _ := r.d.Float64()
	return f
}

func (r Rate) String() string {
	return r.d.StringFixed(RateScale)
}
