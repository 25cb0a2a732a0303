// Package convention bundles the market-quoting conventions the pricing
// kernel is polymorphic over: compounding basis, day count, short-dated
// threshold, ex-dividend window, and money-market basis. It plays the same
// role the teacher's swap/market leg-convention presets play for swaps —
// a table of named bundles rather than scattered literals at call sites.
package convention

import "github.com/meenmo/fincore/daycount"

// Compounding identifies how a yield discounts a single cash flow.
type Compounding int

const (
	// Periodic discounts by (1 + y/f)^(f*t), f = Frequency.
	Periodic Compounding = iota
	// Continuous discounts by e^(-y*t).
	Continuous
	// Simple discounts by 1/(1 + y*t) (money-market/short-dated convention).
	Simple
	// None is simple interest, discounting by 1/(1 + y*t) exactly as Simple
	// does, matching Japanese JGB quoting.
	None
)

// Bundle is a named market-convention table the pricing kernel consumes
// polymorphically: every bond priced under a given quoting convention uses
// the same compounding, day count, short-dated threshold, ex-div window, and
// money-market basis.
type Bundle struct {
	Name                 string
	Compounding          Compounding
	DayCount             daycount.Convention
	Frequency            int // coupons per year; also converts elapsed coupon periods to years under every Compounding
	ShortDatedThresholdD int // remaining days to maturity at/below which short-dated methodology applies
	ExDividendDays       int // business days before a coupon at which it is excluded from accrued/pricing flows
	MoneyMarketBasis     daycount.Convention
}

// Preset convention bundles for the markets named in the concrete scenarios:
// US corporate/Treasury (30/360, semi-annual, 182-day threshold), UK Gilt
// (ActAct-ICMA, semi-annual, 365-day threshold, 7-business-day ex-div), JGB
// simple-interest quoting, and EUR IBOR-linked corporates (30E/360).
var (
	UsStreet = Bundle{
		Name:                 "US_STREET",
		Compounding:          Periodic,
		DayCount:             daycount.US30360,
		Frequency:            2,
		ShortDatedThresholdD: 182,
		ExDividendDays:       0,
		MoneyMarketBasis:     daycount.Act360,
	}

	UkDmo = Bundle{
		Name:                 "UK_DMO",
		Compounding:          Periodic,
		DayCount:             daycount.ActActICMA,
		Frequency:            2,
		ShortDatedThresholdD: 365,
		ExDividendDays:       7,
		MoneyMarketBasis:     daycount.Act365F,
	}

	IcmaAnnual = Bundle{
		Name:                 "ICMA_ANNUAL",
		Compounding:          Periodic,
		DayCount:             daycount.ActActICMA,
		Frequency:            1,
		ShortDatedThresholdD: 365,
		ExDividendDays:       0,
		MoneyMarketBasis:     daycount.Act365F,
	}

	JapaneseSimple = Bundle{
		Name:                 "JGB_SIMPLE",
		Compounding:          None,
		DayCount:             daycount.Act365F,
		Frequency:            2,
		ShortDatedThresholdD: 365,
		ExDividendDays:       0,
		MoneyMarketBasis:     daycount.Act365F,
	}

	EurCorporate = Bundle{
		Name:                 "EUR_CORP",
		Compounding:          Periodic,
		DayCount:             daycount.E30360,
		Frequency:            1,
		ShortDatedThresholdD: 365,
		ExDividendDays:       0,
		MoneyMarketBasis:     daycount.Act360,
	}

	TBillDiscount = Bundle{
		Name:                 "TBILL_DISCOUNT",
		Compounding:          Simple,
		DayCount:             daycount.Act360,
		Frequency:            1,
		ShortDatedThresholdD: 365,
		ExDividendDays:       0,
		MoneyMarketBasis:     daycount.Act360,
	}
)

// Icma returns an ICMA-style bundle (ActAct-ICMA, periodic compounding) for
// an arbitrary coupon frequency, for issuers outside the named presets.
func Icma(frequency int) Bundle {
	b := IcmaAnnual
	b.Name = "ICMA_CUSTOM"
	b.Frequency = frequency
	return b
}
