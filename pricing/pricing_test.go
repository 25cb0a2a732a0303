package pricing

import (
	"math"
	"testing"
	"time"

	"github.com/meenmo/fincore/bond"
	"github.com/meenmo/fincore/calendar"
	"github.com/meenmo/fincore/convention"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// semiAnnualFlows builds a bullet bond's remaining coupon + redemption
// flows at a fixed coupon rate, starting from the period after settlement.
func semiAnnualFlows(couponRate float64, first time.Time, n int) []bond.Cashflow {
	flows := make([]bond.Cashflow, n)
	perPeriod := couponRate / 2.0
	d := first
	for i := 0; i < n; i++ {
		flows[i] = bond.Cashflow{Date: d, Coupon: perPeriod}
		if i == n-1 {
			flows[i].Principal = 100
		}
		d = d.AddDate(0, 6, 0)
	}
	return flows
}

func TestPriceYieldRoundTrip(t *testing.T) {
	lastCoupon := date(2024, time.December, 15)
	nextCoupon := date(2025, time.June, 15)
	flows := semiAnnualFlows(5.0, nextCoupon, 11) // ~5.5y remaining, well above threshold
	settlement := date(2025, time.June, 15)       // on a coupon date: accrued should be 0

	conv := convention.UsStreet
	const cleanPrice = 102.345

	y, _, err := YieldFromPrice(settlement, cleanPrice, flows, lastCoupon, nextCoupon, 2.5, conv, calendar.GT)
	if err != nil {
		t.Fatalf("YieldFromPrice: %v", err)
	}

	dirty, clean, accrued, err := PriceFromYield(settlement, y, flows, lastCoupon, nextCoupon, 2.5, conv, calendar.GT)
	if err != nil {
		t.Fatalf("PriceFromYield: %v", err)
	}
	if math.Abs(accrued) > 1e-9 {
		t.Errorf("expected zero accrued on coupon date, got %g", accrued)
	}
	if math.Abs(clean-cleanPrice) > 1e-6 {
		t.Errorf("round trip clean price mismatch: got %g want %g", clean, cleanPrice)
	}
	if math.Abs(dirty-clean-accrued) > 1e-9 {
		t.Errorf("dirty != clean + accrued: %g vs %g", dirty, clean+accrued)
	}
}

func TestShortDatedSingleCashflow(t *testing.T) {
	settlement := date(2025, time.March, 1)
	maturity := settlement.AddDate(0, 0, 90)
	flows := []bond.Cashflow{{Date: maturity, Principal: 100}}

	conv := convention.TBillDiscount
	price, _, err := DirtyPriceAndDeriv(0.05, settlement, settlement, flows, conv)
	if err != nil {
		t.Fatalf("DirtyPriceAndDeriv: %v", err)
	}
	expected := 100.0 / (1 + 0.05*90.0/360.0)
	if math.Abs(price-expected) > 1e-9 {
		t.Errorf("got %g want %g", price, expected)
	}
}

func TestExDividendDropsNextCoupon(t *testing.T) {
	lastCoupon := date(2024, time.December, 15)
	nextCoupon := date(2025, time.June, 15)
	flows := semiAnnualFlows(4.0, nextCoupon, 11)
	conv := convention.UkDmo

	exDivDate := calendar.BusinessDaysBefore(calendar.TARGET, nextCoupon, conv.ExDividendDays)
	accrued, exDiv := AccruedInterest(exDivDate, lastCoupon, nextCoupon, 2.0, conv, calendar.TARGET)
	if !exDiv {
		t.Fatalf("expected ex-div window at %s", exDivDate.Format("2006-01-02"))
	}
	if accrued >= 0 {
		t.Errorf("expected negative accrued in ex-div window, got %g", accrued)
	}

	_, _, _, err := PriceFromYield(exDivDate, 0.045, flows, lastCoupon, nextCoupon, 2.0, conv, calendar.TARGET)
	if err != nil {
		t.Fatalf("PriceFromYield: %v", err)
	}
}
