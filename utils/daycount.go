package utils

import (
	"time"

	"github.com/meenmo/fincore/daycount"
)

// YearFraction computes the year fraction between two dates for the named
// convention. This string-tagged form is used by leg/curve code that passes
// day-count conventions around as plain strings (market.DayCount); the
// daycount package itself is the source of truth for ISDA 2006 semantics.
func YearFraction(start, end time.Time, convention string) float64 {
	switch convention {
	case "ACT/360":
		return daycount.YearFraction(start, end, daycount.Act360, daycount.ReferencePeriod{})
	case "ACT/365F":
		return daycount.YearFraction(start, end, daycount.Act365F, daycount.ReferencePeriod{})
	case "NL/365":
		return daycount.YearFraction(start, end, daycount.NL365, daycount.ReferencePeriod{})
	case "30/360", "30/360-US":
		return daycount.YearFraction(start, end, daycount.US30360, daycount.ReferencePeriod{})
	case "30E/360":
		return daycount.YearFraction(start, end, daycount.E30360, daycount.ReferencePeriod{})
	case "30E/360-ISDA":
		return daycount.YearFraction(start, end, daycount.E30360ISDA, daycount.ReferencePeriod{})
	case "ACT/ACT-ISDA":
		return daycount.YearFraction(start, end, daycount.ActActISDA, daycount.ReferencePeriod{})
	default:
		return daycount.YearFraction(start, end, daycount.Act365F, daycount.ReferencePeriod{})
	}
}
