// Package daycount implements the ISDA 2006 §4.16 year-fraction conventions
// used across schedule generation, accrued interest, and curve bootstrapping.
package daycount

import "time"

// Convention identifies a day-count basis.
type Convention string

const (
	ActActISDA Convention = "ACT/ACT-ISDA"
	ActActICMA Convention = "ACT/ACT-ICMA"
	Act365F    Convention = "ACT/365F"
	Act360     Convention = "ACT/360"
	US30360    Convention = "30/360-US"
	E30360     Convention = "30E/360"
	E30360ISDA Convention = "30E/360-ISDA"
	NL365      Convention = "NL/365"
)

// ReferencePeriod carries the extra context some conventions need: the
// accrual period's reference start/end (for ActAct-ICMA) and the payment
// frequency per year (for ActAct-ICMA), and whether end is a maturity date
// (for 30E/360-ISDA's last-day-of-February rule).
type ReferencePeriod struct {
	RefStart       time.Time
	RefEnd         time.Time
	Frequency      int
	EndIsMaturity  bool
}

// YearFraction computes the accrual fraction of a year between start and end
// under the given convention. refPeriod may be the zero value for
// conventions that don't need it (everything except ActAct-ICMA, and
// 30E/360-ISDA's maturity flag).
func YearFraction(start, end time.Time, conv Convention, refPeriod ReferencePeriod) float64 {
	switch conv {
	case Act360:
		return days(start, end) / 360.0
	case Act365F:
		return days(start, end) / 365.0
	case NL365:
		return noLeapDays(start, end) / 365.0
	case US30360:
		return thirty360(start, end, false, false)
	case E30360:
		y1, m1, d1 := start.Date()
		y2, m2, d2 := end.Date()
		if d1 == 31 {
			d1 = 30
		}
		if d2 == 31 {
			d2 = 30
		}
		return (360.0*float64(y2-y1) + 30.0*float64(int(m2)-int(m1)) + float64(d2-d1)) / 360.0
	case E30360ISDA:
		return thirty360(start, end, true, refPeriod.EndIsMaturity)
	case ActActICMA:
		return actActICMA(start, end, refPeriod)
	case ActActISDA:
		return actActISDA(start, end)
	default:
		return days(start, end) / 365.0
	}
}

func days(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24.0
}

// noLeapDays counts actual calendar days minus any Feb-29s in [start, end).
func noLeapDays(start, end time.Time) float64 {
	d := days(start, end)
	for y := start.Year(); y <= end.Year(); y++ {
		if !isLeap(y) {
			continue
		}
		feb29 := time.Date(y, time.February, 29, 0, 0, 0, 0, time.UTC)
		if !feb29.Before(start) && feb29.Before(end) {
			d--
		}
	}
	return d
}

func isLeap(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// thirty360 implements 30/360-US (european=false) and 30E/360-ISDA
// (european=true): 30/360-US caps D1 at 30, then caps D2 at 30 only if D1 was
// capped (>=30); 30E/360-ISDA caps both at 30 and additionally treats a
// last-of-February D1 as 30, and a last-of-February D2 as 30 unless end is the
// bond's final maturity date. Plain 30E/360, which caps both unconditionally,
// is computed directly in YearFraction.
func thirty360(start, end time.Time, european, endIsMaturity bool) float64 {
	y1, m1, d1 := start.Date()
	y2, m2, d2 := end.Date()

	day1, day2 := d1, d2

	if european {
		if day1 == 31 {
			day1 = 30
		}
		if !endIsMaturity && isLastDayOfFebruary(end) {
			day2 = 30
		} else if day2 == 31 {
			day2 = 30
		}
		if isLastDayOfFebruary(start) {
			day1 = 30
		}
	} else {
		if day1 == 31 {
			day1 = 30
		}
		if day2 == 31 && day1 >= 30 {
			day2 = 30
		}
	}

	return (360.0*float64(y2-y1) + 30.0*float64(int(m2)-int(m1)) + float64(day2-day1)) / 360.0
}

func isLastDayOfFebruary(t time.Time) bool {
	if t.Month() != time.February {
		return false
	}
	return t.Day() == time.Date(t.Year(), time.March, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1).Day()
}

// actActICMA computes days/(frequency * reference_period_days), the ICMA
// convention used for bond accrued interest within a single coupon period.
func actActICMA(start, end time.Time, ref ReferencePeriod) float64 {
	freq := ref.Frequency
	if freq <= 0 {
		freq = 1
	}
	refDays := days(ref.RefStart, ref.RefEnd)
	if refDays <= 0 {
		refDays = days(start, end)
		if refDays <= 0 {
			return 0
		}
	}
	return days(start, end) / (float64(freq) * refDays)
}

// actActISDA splits [start, end) at each Jan-1 boundary and divides each
// segment's day count by its own calendar year's length (365 or 366).
func actActISDA(start, end time.Time) float64 {
	if !start.Before(end) {
		return 0
	}
	total := 0.0
	cursor := start
	for cursor.Before(end) {
		yearEnd := time.Date(cursor.Year()+1, time.January, 1, 0, 0, 0, 0, time.UTC)
		segmentEnd := end
		if yearEnd.Before(segmentEnd) {
			segmentEnd = yearEnd
		}
		yearLen := 365.0
		if isLeap(cursor.Year()) {
			yearLen = 366.0
		}
		total += days(cursor, segmentEnd) / yearLen
		cursor = segmentEnd
	}
	return total
}
