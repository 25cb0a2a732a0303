package cashflow

import (
	"math"
	"testing"
	"time"

	"github.com/meenmo/fincore/bond"
	"github.com/meenmo/fincore/calendar"
	"github.com/meenmo/fincore/daycount"
	"github.com/meenmo/fincore/schedule"
)

func TestBuildFixedBulletSumsToFaceworth(t *testing.T) {
	ref := bond.BondReference{
		IssueDate:    time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
		FirstCoupon:  time.Date(2025, time.December, 15, 0, 0, 0, 0, time.UTC),
		MaturityDate: time.Date(2030, time.June, 15, 0, 0, 0, 0, time.UTC),
		CouponRate:   5.0,
		PayFrequency: bond.FreqSemi,
		DayCount:     daycount.US30360,
		FaceValue:    100,
		BondType:     bond.FixedBullet,
	}
	periods, _, err := schedule.Generate(ref, calendar.GT)
	if err != nil {
		t.Fatalf("schedule.Generate: %v", err)
	}

	flows, err := Build(BuildInput{Reference: ref, Periods: periods})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var totalPrincipal float64
	for _, f := range flows {
		totalPrincipal += f.Principal
	}
	if math.Abs(totalPrincipal-100) > 1e-9 {
		t.Errorf("expected total redeemed principal 100, got %g", totalPrincipal)
	}

	for i, f := range flows[:len(flows)-1] {
		if math.Abs(f.Coupon-2.5) > 1e-9 {
			t.Errorf("period %d: expected regular coupon 2.5, got %g", i, f.Coupon)
		}
	}
}

func TestBuildRejectsEmptySchedule(t *testing.T) {
	if _, err := Build(BuildInput{Reference: bond.BondReference{}}); err == nil {
		t.Fatal("expected error for empty schedule")
	}
}
