package risk

import (
	"math"
	"testing"
	"time"

	"github.com/meenmo/fincore/bond"
	"github.com/meenmo/fincore/calendar"
	"github.com/meenmo/fincore/convention"
	"github.com/meenmo/fincore/curve"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func bulletFlows() []bond.Cashflow {
	return []bond.Cashflow{
		{Date: date(2026, time.June, 15), Coupon: 2.5},
		{Date: date(2026, time.December, 15), Coupon: 2.5},
		{Date: date(2027, time.June, 15), Coupon: 2.5},
		{Date: date(2027, time.December, 15), Coupon: 2.5, Principal: 100},
	}
}

func TestYieldDurationsPositive(t *testing.T) {
	settlement := date(2025, time.December, 15)
	flows := bulletFlows()

	res, err := YieldDurations(settlement, 0.04, flows, date(2025, time.June, 15), convention.UsStreet)
	if err != nil {
		t.Fatalf("YieldDurations: %v", err)
	}
	if res.Modified <= 0 {
		t.Errorf("expected positive modified duration, got %g", res.Modified)
	}
	if res.Macaulay < res.Modified {
		t.Errorf("expected Macaulay >= Modified under periodic compounding, got %g < %g", res.Macaulay, res.Modified)
	}
	if res.DV01 <= 0 {
		t.Errorf("expected positive DV01, got %g", res.DV01)
	}
}

func TestEffectiveDurationConvexityMatchesYieldDuration(t *testing.T) {
	settlement := date(2025, time.December, 15)
	flows := bulletFlows()
	lastCoupon := date(2025, time.June, 15)

	yd, err := YieldDurations(settlement, 0.04, flows, lastCoupon, convention.UsStreet)
	if err != nil {
		t.Fatalf("YieldDurations: %v", err)
	}
	effD, effC, err := EffectiveDurationConvexity(settlement, 0.04, flows, lastCoupon, convention.UsStreet, 0)
	if err != nil {
		t.Fatalf("EffectiveDurationConvexity: %v", err)
	}
	if math.Abs(effD-yd.Modified) > 1e-3 {
		t.Errorf("expected effective duration close to modified duration for a bullet bond, got %g vs %g", effD, yd.Modified)
	}
	if effC <= 0 {
		t.Errorf("expected positive convexity for a bullet bond, got %g", effC)
	}
}

func TestKeyRateDurationsSumApproximatesModified(t *testing.T) {
	settlement := date(2025, time.December, 15)
	quotes := map[string]float64{"1Y": 0.04, "2Y": 0.04, "5Y": 0.04}
	disc := curve.BuildCurve(settlement, quotes, calendar.TARGET, 1)

	cfs := []bond.Cashflow{
		{Date: date(2026, time.December, 15), Coupon: 4.0},
		{Date: date(2027, time.December, 15), Coupon: 4.0, Principal: 100},
	}
	var price float64
	for _, cf := range cfs {
		price += cf.Amount() * disc.DF(cf.Date)
	}

	krds, err := KeyRateDurations(settlement, cfs, disc, price)
	if err != nil {
		t.Fatalf("KeyRateDurations: %v", err)
	}
	if len(krds) != disc.NodeCount() {
		t.Fatalf("expected %d key-rate durations, got %d", disc.NodeCount(), len(krds))
	}
	var total float64
	for _, k := range krds {
		total += k
	}
	if total <= 0 {
		t.Errorf("expected key-rate durations to sum to a positive total duration, got %g", total)
	}
}
