package bootstrap

import (
	"math"
	"testing"
	"time"

	"github.com/meenmo/fincore/bond"
	"github.com/meenmo/fincore/calendar"
	"github.com/meenmo/fincore/curve"
	"github.com/meenmo/fincore/instrument"
	"github.com/meenmo/fincore/swap/market"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalibrateDepositAndFRA(t *testing.T) {
	settlement := date(2025, time.June, 15)
	instruments := []instrument.MarketInstrument{
		{Kind: instrument.Deposit, EndDate: date(2025, time.September, 15), Rate: 5.0},
		{Kind: instrument.FRA, StartDate: date(2025, time.September, 15), EndDate: date(2025, time.December, 15), Rate: 5.2},
	}

	res, err := Calibrate(settlement, instruments, calendar.GT, 12, curve.LogLinearDF)
	if err != nil {
		t.Fatalf("Calibrate: %v", err)
	}
	for _, r := range res.Residuals {
		if math.Abs(r) > 1e-9 {
			t.Errorf("expected near-zero residual, got %g", r)
		}
	}
	depositDF, ok := res.DiscountFactors[date(2025, time.September, 15)]
	if !ok {
		t.Fatal("expected a solved pillar at the deposit's maturity")
	}
	if depositDF >= 1.0 || depositDF <= 0 {
		t.Errorf("expected deposit discount factor in (0,1), got %g", depositDF)
	}
	fraDF, ok := res.DiscountFactors[date(2025, time.December, 15)]
	if !ok {
		t.Fatal("expected a solved pillar at the FRA's maturity")
	}
	if fraDF >= depositDF {
		t.Errorf("expected the further-dated FRA pillar to discount more, got %g >= %g", fraDF, depositDF)
	}
}

func TestCalibrateBondPillar(t *testing.T) {
	settlement := date(2025, time.June, 15)
	instruments := []instrument.MarketInstrument{
		{Kind: instrument.Deposit, EndDate: date(2025, time.December, 15), Rate: 4.0},
		{
			Kind: instrument.Bond,
			Cashflows: []bond.Cashflow{
				{Date: date(2025, time.December, 15), Coupon: 2.0},
				{Date: date(2026, time.June, 15), Coupon: 2.0, Principal: 100},
			},
			CleanPrice: 99.0,
		},
	}

	res, err := Calibrate(settlement, instruments, calendar.GT, 12, curve.LogLinearDF)
	if err != nil {
		t.Fatalf("Calibrate: %v", err)
	}
	bondDF, ok := res.DiscountFactors[date(2026, time.June, 15)]
	if !ok {
		t.Fatal("expected a solved pillar at the bond's maturity")
	}
	if bondDF <= 0 || bondDF >= 1 {
		t.Errorf("expected bond-implied discount factor in (0,1), got %g", bondDF)
	}
}

func TestCalibrateSwapResidualVerifiesAgainstSwapEngine(t *testing.T) {
	settlement := date(2025, time.June, 15)
	instruments := []instrument.MarketInstrument{
		{Kind: instrument.OIS, Tenor: "1Y", ParRate: 4.0, EndDate: date(2026, time.June, 15),
			FixedLeg: market.SofrFixedAnnual, FloatLeg: market.SOFRFloat},
		{Kind: instrument.OIS, Tenor: "2Y", ParRate: 4.2, EndDate: date(2027, time.June, 15),
			FixedLeg: market.SofrFixedAnnual, FloatLeg: market.SOFRFloat},
	}

	res, err := Calibrate(settlement, instruments, calendar.FD, 12, curve.LogLinearDF)
	if err != nil {
		t.Fatalf("Calibrate: %v", err)
	}
	for i, r := range res.Residuals {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			t.Errorf("instrument %d: expected a finite swap-engine residual, got %v", i, r)
		}
	}
}

func TestCalibrateSwapWithoutLegConventionSkipsVerification(t *testing.T) {
	settlement := date(2025, time.June, 15)
	instruments := []instrument.MarketInstrument{
		{Kind: instrument.OIS, Tenor: "1Y", ParRate: 4.0, EndDate: date(2026, time.June, 15)},
	}

	res, err := Calibrate(settlement, instruments, calendar.FD, 12, curve.LogLinearDF)
	if err != nil {
		t.Fatalf("Calibrate: %v", err)
	}
	if res.Residuals[0] != 0 {
		t.Errorf("expected a zero residual when no FixedLeg/FloatLeg is supplied, got %g", res.Residuals[0])
	}
}

func TestGlobalFitConverges(t *testing.T) {
	settlement := date(2025, time.June, 15)
	instruments := []instrument.MarketInstrument{
		{Kind: instrument.Deposit, EndDate: date(2025, time.September, 15), Rate: 5.0},
		{Kind: instrument.FRA, StartDate: date(2025, time.September, 15), EndDate: date(2025, time.December, 15), Rate: 5.2},
	}
	seed, err := Calibrate(settlement, instruments, calendar.GT, 12, curve.LogLinearDF)
	if err != nil {
		t.Fatalf("Calibrate: %v", err)
	}

	refined, err := GlobalFit(settlement, instruments, seed)
	if err != nil {
		t.Fatalf("GlobalFit: %v", err)
	}
	for _, r := range refined.Residuals {
		if math.Abs(r) > 1e-6 {
			t.Errorf("expected refined residuals near zero, got %g", r)
		}
	}
	if refined.Jacobian == nil {
		t.Error("expected a non-nil Jacobian from GlobalFit")
	}
}
