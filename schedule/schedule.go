// Package schedule generates bond coupon schedules, including stub
// classification under ICMA Rule 251, rolling backward from maturity in the
// same style as the swap engine's Bloomberg SWPM-convention generator.
package schedule

import (
	"fmt"
	"time"

	"github.com/meenmo/fincore/bond"
	"github.com/meenmo/fincore/calendar"
	"github.com/meenmo/fincore/swap/config"
	"github.com/meenmo/fincore/utils"
)

// Stub classifies the shape of an irregular first/last period relative to
// the bond's regular coupon frequency.
type Stub int

const (
	StubNone Stub = iota
	StubShortFirst
	StubLongFirst
	StubShortLast
	StubLongLast
	StubShortFirstShortLast
)

// Period is one coupon accrual interval, carrying its stub classification
// and the quasi-coupon dates ICMA Rule 251 uses to scale a fractional
// coupon against the notional regular period it falls within.
type Period struct {
	StartDate      time.Time
	EndDate         time.Time
	PayDate        time.Time
	QuasiStart     time.Time // regular-period start the fractional coupon is scaled against
	QuasiEnd       time.Time // regular-period end the fractional coupon is scaled against
	IsStub         bool
}

// Generate builds the coupon schedule for a bond reference, rolling backward
// from maturity (or from ref.PenultimateCoupon, when set, to carve out an
// explicit back stub) and adjusting each date for the given business-day
// calendar. A stub at either end is classified short or long by comparing
// its actual length against the regular period length, 365/frequency, with
// a ±configurable tolerance (swap/config.Config.StubToleranceFraction) —
// per ICMA Rule 251, a period that lands within the tolerance band of one
// full regular period is still "long" even though it never aligns exactly
// with the regular coupon grid.
func Generate(ref bond.BondReference, cal calendar.CalendarID) ([]Period, Stub, error) {
	if ref.PayFrequency == bond.FreqZero {
		return []Period{{
			StartDate:  ref.IssueDate,
			EndDate:    ref.MaturityDate,
			PayDate:    calendar.Adjust(cal, ref.MaturityDate),
			QuasiStart: ref.IssueDate,
			QuasiEnd:   ref.MaturityDate,
		}}, StubNone, nil
	}
	if ref.MaturityDate.Before(ref.IssueDate) {
		return nil, StubNone, fmt.Errorf("Generate: maturity %s before issue %s", ref.MaturityDate.Format("2006-01-02"), ref.IssueDate.Format("2006-01-02"))
	}

	monthsPerPeriod := 12 / int(ref.PayFrequency)

	hasBackStub := !ref.PenultimateCoupon.IsZero()
	backAnchor := ref.MaturityDate
	if hasBackStub {
		backAnchor = ref.PenultimateCoupon
	}

	// Roll backward from backAnchor to build unadjusted quasi-coupon dates
	// for the regular body of the schedule (plus any front stub).
	var unadjusted []time.Time
	current := backAnchor
	for current.After(ref.IssueDate) {
		unadjusted = append([]time.Time{current}, unadjusted...)
		current = utils.AddMonth(current, -monthsPerPeriod)
	}
	unadjusted = append([]time.Time{ref.IssueDate}, unadjusted...)

	periods := make([]Period, 0, len(unadjusted))
	for i := 0; i < len(unadjusted)-1; i++ {
		quasiStart := unadjusted[i]
		quasiEnd := unadjusted[i+1]
		start := calendar.Adjust(cal, quasiStart)
		end := calendar.Adjust(cal, quasiEnd)
		periods = append(periods, Period{
			StartDate:  start,
			EndDate:    end,
			PayDate:    end,
			QuasiStart: quasiStart,
			QuasiEnd:   quasiEnd,
		})
	}

	bodyCount := len(periods)

	// Append the explicit back-stub period, backAnchor to maturity, scaled
	// against the one regular period that would otherwise end at maturity.
	if hasBackStub {
		quasiEnd := ref.MaturityDate
		quasiStart := utils.AddMonth(quasiEnd, -monthsPerPeriod)
		periods = append(periods, Period{
			StartDate:  calendar.Adjust(cal, backAnchor),
			EndDate:    calendar.Adjust(cal, ref.MaturityDate),
			PayDate:    calendar.Adjust(cal, ref.MaturityDate),
			QuasiStart: quasiStart,
			QuasiEnd:   quasiEnd,
		})
	}

	tolerance := config.GetConfig().StubToleranceFraction
	classifyLength := func(actualDays, regularDays float64) (isStub, isShort bool) {
		if regularDays == 0 {
			return false, true
		}
		return true, actualDays < regularDays*(1-tolerance)
	}

	// Front period is a stub iff the regular roll from backAnchor overshot
	// the issue date (unadjusted[0] was forced to IssueDate, not a clean
	// roll).
	frontStub, frontShort := false, true
	if bodyCount > 0 {
		expectedFirstStart := utils.AddMonth(periods[0].QuasiEnd, -monthsPerPeriod)
		if !expectedFirstStart.Equal(periods[0].QuasiStart) {
			periods[0].IsStub = true
			regularDays := 365.0 / float64(ref.PayFrequency)
			actualDays := ref.FirstCoupon.Sub(ref.IssueDate).Hours() / 24
			frontStub, frontShort = classifyLength(actualDays, regularDays)
		}
	}

	backStub, backShort := false, true
	if hasBackStub {
		last := len(periods) - 1
		periods[last].IsStub = true
		regularDays := 365.0 / float64(ref.PayFrequency)
		actualDays := ref.MaturityDate.Sub(ref.PenultimateCoupon).Hours() / 24
		backStub, backShort = classifyLength(actualDays, regularDays)
	}

	stub := StubNone
	switch {
	case frontStub && backStub:
		// ICMA Rule 251's double-stub case is quoted as a single enum
		// value regardless of each end's individual short/long length.
		stub = StubShortFirstShortLast
	case frontStub && frontShort:
		stub = StubShortFirst
	case frontStub:
		stub = StubLongFirst
	case backStub && backShort:
		stub = StubShortLast
	case backStub:
		stub = StubLongLast
	}

	return periods, stub, nil
}

// AccrualFraction returns the ICMA Rule 251 fractional coupon for a
// (possibly irregular) period: the actual accrual divided by the length of
// the period's single QuasiStart..QuasiEnd interval and by frequency. A long
// stub is not split across multiple quasi-coupon periods.
func AccrualFraction(accrualStart, accrualEnd time.Time, p Period, frequency int) float64 {
	regularDays := utils.Days(p.QuasiStart, p.QuasiEnd)
	if regularDays == 0 {
		return 0
	}
	return utils.Days(accrualStart, accrualEnd) / regularDays / float64(frequency)
}
