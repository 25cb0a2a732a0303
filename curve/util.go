package curve

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// tenorToYears converts tenor strings like "1W", "3M", "10Y" to year fractions.
func tenorToYears(tenor string) float64 {
	tenor = strings.TrimSpace(strings.ToUpper(tenor))
	switch {
	case strings.HasSuffix(tenor, "W"):
		v, _ := strconv.Atoi(strings.TrimSuffix(tenor, "W"))
		return float64(v) * 7.0 / 365.0
	case strings.HasSuffix(tenor, "M"):
		v, _ := strconv.Atoi(strings.TrimSuffix(tenor, "M"))
		return float64(v) / 12.0
	case strings.HasSuffix(tenor, "Y"):
		v, _ := strconv.Atoi(strings.TrimSuffix(tenor, "Y"))
		return float64(v)
	case strings.HasSuffix(tenor, "D"):
		v, _ := strconv.Atoi(strings.TrimSuffix(tenor, "D"))
		return float64(v) / 365.0
	}
	if v, err := strconv.ParseFloat(tenor, 64); err == nil {
		return v
	}
	return 0
}

// yearsToTenor renders a year fraction back into a tenor string, used when
// rebuilding a bumped quote set for key-rate duration.
func yearsToTenor(years float64) string {
	months := years * 12.0
	if months == math.Round(months) {
		return fmt.Sprintf("%dM", int(months))
	}
	return fmt.Sprintf("%.6fY", years)
}

// findBracket finds two adjacent dates in a sorted slice bracketing target,
// via binary search. Returns found=false if target falls outside the range.
func findBracket(dates []time.Time, target time.Time) (d1, d2 time.Time, found bool) {
	if len(dates) < 2 {
		return time.Time{}, time.Time{}, false
	}
	idx := sort.Search(len(dates), func(i int) bool { return !dates[i].Before(target) })
	if idx == 0 {
		if dates[0].Equal(target) && len(dates) > 1 {
			return dates[0], dates[1], true
		}
		return time.Time{}, time.Time{}, false
	}
	if idx >= len(dates) {
		return time.Time{}, time.Time{}, false
	}
	return dates[idx-1], dates[idx], true
}

// findBracketOrBoundary is like findBracket but returns the nearest boundary
// pair (for extrapolation) instead of reporting failure.
func findBracketOrBoundary(dates []time.Time, target time.Time) (d1, d2 time.Time) {
	if len(dates) < 2 {
		panic("findBracketOrBoundary: need at least 2 dates")
	}
	idx := sort.Search(len(dates), func(i int) bool { return !dates[i].Before(target) })
	if idx <= 0 {
		return dates[0], dates[1]
	}
	if idx >= len(dates) {
		return dates[len(dates)-2], dates[len(dates)-1]
	}
	return dates[idx-1], dates[idx]
}
