package api

import (
	"testing"
	"time"

	"github.com/meenmo/fincore/bond"
	"github.com/meenmo/fincore/calendar"
	"github.com/meenmo/fincore/convention"
	"github.com/meenmo/fincore/curve"
	"github.com/meenmo/fincore/daycount"
	"github.com/meenmo/fincore/portfolio"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleBullet() bond.BondReference {
	return bond.BondReference{
		InstrumentID: "US91282CJL54",
		Currency:     "USD",
		IssueDate:    date(2023, time.December, 15),
		FirstCoupon:  date(2024, time.June, 15),
		MaturityDate: date(2028, time.December, 15),
		CouponRate:   4.25,
		PayFrequency: bond.FreqSemi,
		DayCount:     daycount.US30360,
		FaceValue:    100,
		BondType:     bond.FixedBullet,
	}
}

func TestPriceFromMarketCleanPrice(t *testing.T) {
	clean := 98.5
	quote, err := Price(PriceInput{
		Reference:        sampleBullet(),
		Convention:       convention.UsStreet,
		Calendar:         calendar.TARGET,
		Settlement:        date(2025, time.December, 15),
		MarketCleanPrice: &clean,
	})
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	if quote.ModifiedDuration.Float64() <= 0 {
		t.Errorf("expected positive modified duration, got %v", quote.ModifiedDuration)
	}
	if quote.CleanPrice.Float64() != 98.5 {
		t.Errorf("expected clean price to round-trip to 98.5, got %v", quote.CleanPrice)
	}
	if quote.EffectiveDuration == nil {
		t.Error("expected EffectiveDuration to be populated")
	}
}

func TestPriceFromDiscountCurve(t *testing.T) {
	settlement := date(2025, time.December, 15)
	quotes := map[string]float64{"1Y": 0.04, "2Y": 0.042, "5Y": 0.045}
	disc := curve.BuildCurve(settlement, quotes, calendar.TARGET, 1)

	quote, err := Price(PriceInput{
		Reference:  sampleBullet(),
		Convention: convention.UsStreet,
		Calendar:   calendar.TARGET,
		Settlement: settlement,
		Curve:      disc,
	})
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	if quote.ZSpread == nil {
		t.Error("expected ZSpread to be populated when a discount curve is supplied")
	}
	if quote.DirtyPrice.Float64() <= 0 {
		t.Errorf("expected positive dirty price, got %v", quote.DirtyPrice)
	}
}

func TestPriceMissingAnchorFails(t *testing.T) {
	_, err := Price(PriceInput{
		Reference:  sampleBullet(),
		Convention: convention.UsStreet,
		Calendar:   calendar.TARGET,
		Settlement: date(2025, time.December, 15),
	})
	if err == nil {
		t.Fatal("expected an error when neither MarketCleanPrice nor Curve is supplied")
	}
}

func samplePositions() []portfolio.Position {
	return []portfolio.Position{
		{Security: "A", Units: 1000, DirtyPrice: 101, Modified: 4.2, Convexity: 0.3, Sector: "Sovereign", Rating: "AAA"},
		{Security: "B", Units: 500, DirtyPrice: 98, Modified: 7.1, Convexity: 0.8, Sector: "Corporate", Rating: "A"},
	}
}

func TestPortfolioAnalytics(t *testing.T) {
	res, err := PortfolioAnalytics(samplePositions())
	if err != nil {
		t.Fatalf("PortfolioAnalytics: %v", err)
	}
	if res.NAV.Float64() <= 0 {
		t.Errorf("expected positive NAV, got %v", res.NAV)
	}
	if len(res.BySector) != 2 {
		t.Errorf("expected 2 sector buckets, got %d", len(res.BySector))
	}
}

func TestStressParallelUp(t *testing.T) {
	res := Stress(samplePositions(), portfolio.ParallelUp100)
	if res.TotalPnL.Float64() >= 0 {
		t.Errorf("expected negative total P&L for a parallel rate rise against positive-duration positions, got %v", res.TotalPnL)
	}
}

func TestEtfINAVAndArbitrageSignal(t *testing.T) {
	res, err := EtfINAV(samplePositions(), 10000, 101.5, 0)
	if err != nil {
		t.Fatalf("EtfINAV: %v", err)
	}
	if res.Signal == "" {
		t.Error("expected a non-empty arbitrage signal")
	}
}

func TestCreationBasket(t *testing.T) {
	res, err := CreationBasket(portfolio.CreationBasketInput{
		Positions:              samplePositions(),
		CreationUnitShares:     100,
		TotalSharesOutstanding: 10000,
	})
	if err != nil {
		t.Fatalf("CreationBasket: %v", err)
	}
	if len(res.Lines) != 2 {
		t.Errorf("expected 2 basket lines, got %d", len(res.Lines))
	}
}
