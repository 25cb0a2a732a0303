// Package fixing supplies historical reference-rate fixings (CD91D, SOFR,
// TONAR, ...) needed to value the already-fixed first period of a floating
// rate note, currency-agnostic over the underlying index.
package fixing

import "time"

// Feed supplies a fixing for the given date, if one is known.
type Feed interface {
	RateOn(date time.Time) (float64, bool)
}

// MapFeed is a static map-backed Feed, keyed by calendar date.
type MapFeed struct {
	rates map[string]float64
}

// NewMapFeed wraps a date-string-keyed ("2006-01-02") fixing table as a Feed.
func NewMapFeed(rates map[string]float64) *MapFeed {
	return &MapFeed{rates: rates}
}

func (m *MapFeed) RateOn(date time.Time) (float64, bool) {
	val, ok := m.rates[date.Format("2006-01-02")]
	return val, ok
}

// RateOn is a convenience wrapper for callers that already hold a Feed.
func RateOn(feed Feed, date time.Time) (float64, bool) {
	return feed.RateOn(date)
}

// LastKnownBefore walks backward from date up to lookbackDays looking for the
// most recent available fixing, used for in-arrears FRN coupons whose fixing
// date may fall on a non-observation day.
func LastKnownBefore(feed Feed, date time.Time, lookbackDays int) (float64, time.Time, bool) {
	cursor := date
	for i := 0; i <= lookbackDays; i++ {
		if rate, ok := feed.RateOn(cursor); ok {
			return rate, cursor, true
		}
		cursor = cursor.AddDate(0, 0, -1)
	}
	return 0, time.Time{}, false
}
