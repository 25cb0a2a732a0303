// Package krx adapts the generic fixing.Feed to KRX CD91D conventions.
package krx

import (
	"time"

	"github.com/meenmo/fincore/fixing"
)

// ReferenceRateFeed supplies CD91D fixings for discounting the first
// floating period of a KRX-cleared floating leg.
type ReferenceRateFeed = fixing.Feed

// NewCD91Feed wraps a caller-supplied CD91D fixing table (date -> rate) as a
// ReferenceRateFeed. Unlike the teacher's original, this takes fixings from
// the caller rather than a bundled data file, since no such file ships with
// this module.
func NewCD91Feed(rates map[string]float64) ReferenceRateFeed {
	return fixing.NewMapFeed(rates)
}

// RateOnDate is a convenience helper mirroring fixing.RateOn.
func RateOnDate(feed ReferenceRateFeed, date time.Time) (float64, bool) {
	return feed.RateOn(date)
}
