package bond

import (
	"fmt"
	"time"

	"github.com/meenmo/fincore/daycount"
)

// Frequency is the number of coupon payments per year. Zero denotes a
// zero-coupon bond with no periodic payments.
type Frequency int

const (
	FreqZero      Frequency = 0
	FreqAnnual    Frequency = 1
	FreqSemi      Frequency = 2
	FreqQuarterly Frequency = 4
	FreqMonthly   Frequency = 12
)

// BondType tags which cash-flow generation rules a bond follows.
type BondType string

const (
	FixedBullet     BondType = "FIXED_BULLET"
	ZeroCoupon      BondType = "ZERO_COUPON"
	FixedCallable   BondType = "FIXED_CALLABLE"
	FixedPutable    BondType = "FIXED_PUTABLE"
	FloatingRate    BondType = "FLOATING_RATE"
	InflationLinked BondType = "INFLATION_LINKED"
	Amortizing      BondType = "AMORTIZING"
)

// CallPutOption is one date/price pair in a call or put schedule.
type CallPutOption struct {
	Date  time.Time
	Price float64 // clean price at which the option may be exercised, per 100 face
}

// FloatingTerms describes a floating-rate note's reset mechanics.
type FloatingTerms struct {
	Index          string // e.g. "CD91D", "SOFR", "EURIBOR3M"
	SpreadBP       float64
	ResetFrequency Frequency
	Cap            *float64 // nil = uncapped
	Floor          *float64 // nil = unfloored
	InArrears      bool
}

// InflationTerms describes an inflation-linked bond's indexation.
type InflationTerms struct {
	Index            string // e.g. "CPI", "HICP-ex-tobacco"
	BaseIndexRatio   float64
	LagMonths        int
	DeflationFloored bool // if true, redemption cannot fall below face value
}

// AmortizingSchedule is a sequence of scheduled principal paydowns.
type AmortizingSchedule struct {
	Dates      []time.Time
	Principals []float64 // per 100 face, must sum to 100
}

// Issuer is descriptive metadata attached to a bond that does not drive
// pricing math.
type Issuer struct {
	Type          string // e.g. "Sovereign", "Corporate", "Agency"
	Seniority     string
	Sector        string
	CountryOfRisk string
}

// BondReference is the immutable descriptor of a fixed-income security.
type BondReference struct {
	InstrumentID string
	CUSIP        string
	ISIN         string
	Currency     string

	IssueDate      time.Time
	FirstCoupon    time.Time
	// PenultimateCoupon is the last regular coupon date before maturity,
	// set only when the final period is an irregular (short/long) stub.
	// Zero value means the final period rolls regularly off the coupon
	// grid, same as leaving FirstCoupon zero means the front rolls
	// regularly off the grid.
	PenultimateCoupon time.Time
	MaturityDate      time.Time
	CouponRate     float64 // annual coupon in percent (e.g. 4.25 for 4.25%)
	PayFrequency   Frequency
	DayCount       daycount.Convention
	FaceValue      float64
	BondType       BondType

	CallSchedule []CallPutOption // non-empty iff BondType == FixedCallable
	PutSchedule  []CallPutOption // non-empty iff BondType == FixedPutable
	FloatingTerms  *FloatingTerms  // present iff BondType == FloatingRate
	InflationTerms *InflationTerms // present iff BondType == InflationLinked
	Amortization   *AmortizingSchedule

	Issuer Issuer
}

// Validate checks the invariants BondReference must satisfy before it can be
// fed to schedule generation or pricing.
func (b BondReference) Validate() error {
	if !b.IssueDate.Before(b.FirstCoupon) {
		return fmt.Errorf("BondReference: issue_date (%s) must be before first_coupon (%s)", b.IssueDate.Format("2006-01-02"), b.FirstCoupon.Format("2006-01-02"))
	}
	if b.FirstCoupon.After(b.MaturityDate) {
		return fmt.Errorf("BondReference: first_coupon (%s) must not be after maturity (%s)", b.FirstCoupon.Format("2006-01-02"), b.MaturityDate.Format("2006-01-02"))
	}
	if !b.PenultimateCoupon.IsZero() {
		if !b.PenultimateCoupon.After(b.FirstCoupon) {
			return fmt.Errorf("BondReference: penultimate_coupon (%s) must be after first_coupon (%s)", b.PenultimateCoupon.Format("2006-01-02"), b.FirstCoupon.Format("2006-01-02"))
		}
		if !b.PenultimateCoupon.Before(b.MaturityDate) {
			return fmt.Errorf("BondReference: penultimate_coupon (%s) must be before maturity (%s)", b.PenultimateCoupon.Format("2006-01-02"), b.MaturityDate.Format("2006-01-02"))
		}
	}
	if b.PayFrequency == FreqZero && b.CouponRate != 0 {
		return fmt.Errorf("BondReference: frequency=0 requires coupon_rate=0, got %g", b.CouponRate)
	}
	if b.BondType == FixedCallable && len(b.CallSchedule) == 0 {
		return fmt.Errorf("BondReference: FixedCallable requires a non-empty call schedule")
	}
	if b.BondType == FixedPutable && len(b.PutSchedule) == 0 {
		return fmt.Errorf("BondReference: FixedPutable requires a non-empty put schedule")
	}
	if err := validateSorted(b.CallSchedule); err != nil {
		return fmt.Errorf("BondReference: call schedule: %w", err)
	}
	if err := validateSorted(b.PutSchedule); err != nil {
		return fmt.Errorf("BondReference: put schedule: %w", err)
	}
	if b.BondType == FloatingRate && b.FloatingTerms == nil {
		return fmt.Errorf("BondReference: FloatingRate requires FloatingTerms")
	}
	if b.BondType == InflationLinked && b.InflationTerms == nil {
		return fmt.Errorf("BondReference: InflationLinked requires InflationTerms")
	}
	return nil
}

func validateSorted(opts []CallPutOption) error {
	for i := 1; i < len(opts); i++ {
		if !opts[i].Date.After(opts[i-1].Date) {
			return fmt.Errorf("schedule dates must be strictly increasing, found %s then %s", opts[i-1].Date.Format("2006-01-02"), opts[i].Date.Format("2006-01-02"))
		}
	}
	return nil
}
