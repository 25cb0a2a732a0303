// Package cashflow generates priced cash flows from a bond reference and a
// coupon schedule: fixed bullets (including amortizing and callable/
// putable, which carry their option schedule downstream unchanged),
// floating-rate notes projected off a discount/projection curve, and
// inflation-linked bonds indexed to a CPI provider. This is new
// functionality the teacher never had — its `bond` package only ever
// consumed a pre-built `[]Cashflow`, never generated one — built in the
// style of `instruments/bonds.CashflowCents.ToCashflow`'s minor-units
// conversion helper, generalized from "convert a feed record" to "derive
// the flow set from the bond's own terms".
package cashflow

import (
	"fmt"
	"time"

	"github.com/meenmo/fincore/bond"
	"github.com/meenmo/fincore/curve"
	"github.com/meenmo/fincore/daycount"
	"github.com/meenmo/fincore/fierrors"
	"github.com/meenmo/fincore/schedule"
)

// CPIProvider resolves a reference-index value for inflation-linked
// indexation. Implementations choose linear (monthly index) or step
// (pre-2005 UK linker) interpolation internally.
type CPIProvider interface {
	IndexAt(date time.Time) (float64, error)
}

// BuildInput bundles everything Build needs beyond the bond reference
// itself: the already-generated coupon schedule, and the curve/CPI
// dependencies that only floating-rate and inflation-linked bonds require.
type BuildInput struct {
	Reference       bond.BondReference
	Periods         []schedule.Period
	ProjectionCurve *curve.Curve // required iff Reference.BondType == FloatingRate
	CPI             CPIProvider  // required iff Reference.BondType == InflationLinked
}

// Build generates the priced cash-flow set for a bond reference. Callable
// and putable bonds are priced as their underlying fixed bullet here; the
// option schedule on BondReference is consumed downstream by the pricing
// kernel's option-adjusted path, not by the flow builder.
func Build(in BuildInput) ([]bond.Cashflow, error) {
	if len(in.Periods) == 0 {
		return nil, fierrors.New(fierrors.InvalidBond, "Periods", "cannot build cash flows from an empty schedule")
	}

	switch in.Reference.BondType {
	case bond.FixedBullet, bond.FixedCallable, bond.FixedPutable, bond.ZeroCoupon, bond.Amortizing, "":
		return buildFixed(in.Reference, in.Periods), nil
	case bond.FloatingRate:
		if in.ProjectionCurve == nil {
			return nil, fierrors.New(fierrors.MissingCurve, "ProjectionCurve", "floating-rate cash flows require a projection curve")
		}
		return buildFloating(in.Reference, in.Periods, in.ProjectionCurve), nil
	case bond.InflationLinked:
		if in.CPI == nil {
			return nil, fierrors.New(fierrors.MissingCurve, "CPI", "inflation-linked cash flows require a CPI provider")
		}
		return buildInflation(in.Reference, in.Periods, in.CPI)
	default:
		return nil, fmt.Errorf("cashflow.Build: unsupported bond type %q", in.Reference.BondType)
	}
}

// amortizationByPayDate indexes an amortizing schedule's per-100 principal
// paydowns by calendar date for O(1) lookup while walking periods.
func amortizationByPayDate(sched *bond.AmortizingSchedule) map[string]float64 {
	out := map[string]float64{}
	if sched == nil {
		return out
	}
	for i, d := range sched.Dates {
		out[d.Format("2006-01-02")] = sched.Principals[i]
	}
	return out
}

// buildFixed prices regular coupons at coupon_rate/frequency × outstanding
// notional, scales irregular (stub) periods by the schedule package's ICMA
// Rule 251 fraction, applies any amortizing paydowns as they fall due, and
// redeems whatever notional remains at the final period.
func buildFixed(ref bond.BondReference, periods []schedule.Period) []bond.Cashflow {
	f := float64(ref.PayFrequency)
	amort := amortizationByPayDate(ref.Amortization)
	notional := ref.FaceValue

	flows := make([]bond.Cashflow, 0, len(periods))
	for i, p := range periods {
		var coupon float64
		if ref.PayFrequency != bond.FreqZero {
			if p.IsStub {
				coupon = ref.CouponRate / 100.0 * notional * schedule.AccrualFraction(p.StartDate, p.EndDate, p, int(f))
			} else {
				coupon = ref.CouponRate / 100.0 * notional / f
			}
		}

		var principal float64
		if pct, ok := amort[p.PayDate.Format("2006-01-02")]; ok {
			principal = pct / 100.0 * ref.FaceValue
			notional -= principal
		}
		if i == len(periods)-1 {
			principal += notional
		}

		flows = append(flows, bond.Cashflow{Date: p.PayDate, Coupon: coupon, Principal: principal})
	}
	return flows
}

// buildFloating projects each period's coupon off the supplied curve's
// implied forward rate over the reset period, plus the quoted spread, with
// cap/floor applied pointwise before accruing over the period's day count.
func buildFloating(ref bond.BondReference, periods []schedule.Period, proj *curve.Curve) []bond.Cashflow {
	ft := ref.FloatingTerms
	amort := amortizationByPayDate(ref.Amortization)
	notional := ref.FaceValue

	flows := make([]bond.Cashflow, 0, len(periods))
	for i, p := range periods {
		resetStart, resetEnd := p.StartDate, p.EndDate
		if ft.InArrears {
			resetStart, resetEnd = p.EndDate, p.EndDate
		}
		rate := proj.ForwardRate(resetStart, resetEnd) + ft.SpreadBP/10000.0
		if ft.Cap != nil && rate > *ft.Cap {
			rate = *ft.Cap
		}
		if ft.Floor != nil && rate < *ft.Floor {
			rate = *ft.Floor
		}

		accrual := daycount.YearFraction(p.StartDate, p.EndDate, ref.DayCount, daycount.ReferencePeriod{})
		coupon := rate * notional * accrual

		var principal float64
		if pct, ok := amort[p.PayDate.Format("2006-01-02")]; ok {
			principal = pct / 100.0 * ref.FaceValue
			notional -= principal
		}
		if i == len(periods)-1 {
			principal += notional
		}

		flows = append(flows, bond.Cashflow{Date: p.PayDate, Coupon: coupon, Principal: principal})
	}
	return flows
}

// buildInflation scales each nominal flow of the bond's real coupon
// schedule by CPI(pay_date − lag)/CPI_base, applying the deflation floor to
// the redemption flow when the bond carries one (redemption cannot fall
// below par even if the index ratio is below 1).
func buildInflation(ref bond.BondReference, periods []schedule.Period, cpi CPIProvider) ([]bond.Cashflow, error) {
	it := ref.InflationTerms
	f := float64(ref.PayFrequency)
	if f == 0 {
		f = 1
	}

	flows := make([]bond.Cashflow, 0, len(periods))
	for i, p := range periods {
		laggedDate := p.PayDate.AddDate(0, -it.LagMonths, 0)
		idx, err := cpi.IndexAt(laggedDate)
		if err != nil {
			return nil, fmt.Errorf("cashflow.buildInflation: CPI lookup at %s: %w", laggedDate.Format("2006-01-02"), err)
		}
		ratio := idx / it.BaseIndexRatio

		var realCoupon float64
		if p.IsStub {
			realCoupon = ref.CouponRate / 100.0 * ref.FaceValue * schedule.AccrualFraction(p.StartDate, p.EndDate, p, int(f))
		} else {
			realCoupon = ref.CouponRate / 100.0 * ref.FaceValue / f
		}
		coupon := realCoupon * ratio

		var principal float64
		if i == len(periods)-1 {
			redemptionRatio := ratio
			if it.DeflationFloored && redemptionRatio < 1.0 {
				redemptionRatio = 1.0
			}
			principal = ref.FaceValue * redemptionRatio
		}

		flows = append(flows, bond.Cashflow{Date: p.PayDate, Coupon: coupon, Principal: principal})
	}
	return flows, nil
}
