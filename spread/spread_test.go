package spread

import (
	"math"
	"testing"
	"time"

	"github.com/meenmo/fincore/bond"
	"github.com/meenmo/fincore/calendar"
	"github.com/meenmo/fincore/curve"
	"github.com/meenmo/fincore/swap/market"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func flatOISCurve(t *testing.T, settlement time.Time, rate float64) *curve.Curve {
	t.Helper()
	quotes := map[string]float64{"1Y": rate, "2Y": rate, "5Y": rate, "10Y": rate}
	return curve.BuildCurve(settlement, quotes, calendar.TARGET, 1)
}

func TestComputeASW(t *testing.T) {
	settlement := date(2025, time.June, 15)
	disc := flatOISCurve(t, settlement, 0.03)

	cfs := []bond.Cashflow{
		{Date: date(2026, time.June, 15), Coupon: 4.0},
		{Date: date(2027, time.June, 15), Coupon: 4.0},
		{Date: date(2028, time.June, 15), Coupon: 4.0, Principal: 100},
	}

	res, err := ComputeASW(ASWInput{
		SettlementDate: settlement,
		DirtyPrice:     101.5,
		Notional:       1_000_000,
		Cashflows:      cfs,
		FloatLeg:       market.EURIBOR6MFloat,
		DiscountCurve:  disc,
	})
	if err != nil {
		t.Fatalf("ComputeASW: %v", err)
	}
	if res.PV01 <= 0 {
		t.Errorf("expected positive PV01, got %g", res.PV01)
	}
}

func TestZSpreadRoundTrip(t *testing.T) {
	settlement := date(2025, time.June, 15)
	disc := flatOISCurve(t, settlement, 0.03)

	cfs := []bond.Cashflow{
		{Date: date(2026, time.June, 15), Coupon: 5.0},
		{Date: date(2027, time.June, 15), Coupon: 5.0},
		{Date: date(2028, time.June, 15), Coupon: 5.0, Principal: 100},
	}

	var dirty float64
	for _, cf := range cfs {
		dirty += cf.Amount() * disc.DF(cf.Date)
	}
	// Widen the curve-implied price by a known spread to confirm the solver
	// recovers something in the right neighbourhood rather than asserting
	// an exact closed-form value (Z-spread here is continuously compounded
	// while the flat curve build is log-linear-on-DF, so the two won't
	// match bit-for-bit).
	target := dirty * 0.995

	bp, iters, err := ZSpread(ZSpreadInput{
		Settlement:    settlement,
		DirtyPrice:    target,
		Cashflows:     cfs,
		DiscountCurve: disc,
	})
	if err != nil {
		t.Fatalf("ZSpread: %v", err)
	}
	if iters <= 0 {
		t.Errorf("expected at least one iteration")
	}
	if bp <= 0 {
		t.Errorf("expected a positive spread widening the curve price down, got %g bp", bp)
	}
}

func TestGSpreadAndISpread(t *testing.T) {
	curve := NewTenorYieldCurve(map[time.Time]float64{
		date(2027, time.June, 15): 0.035,
		date(2030, time.June, 15): 0.040,
	})

	maturity := date(2028, time.June, 15)
	g := GSpread(0.045, maturity, curve)
	if math.Abs(g) < 1e-6 {
		t.Errorf("expected a nonzero G-spread, got %g", g)
	}

	i := ISpread(0.045, maturity, curve)
	if i != g {
		t.Errorf("ISpread and GSpread should agree against the same curve input, got %g vs %g", i, g)
	}
}
