package market

import "github.com/meenmo/fincore/calendar"

// Preset leg conventions for EUR and JPY benchmark floating indices.
var (
	ESTRFloat = LegConvention{
		LegType:                 LegFloating,
		ReferenceIndex:          ESTR,
		DayCount:                Act365F,
		ResetFrequency:          FreqDaily,
		PayFrequency:            FreqAnnual,
		FixingLagDays:           0,
		PayDelayDays:            1,
		BusinessDayAdjustment:   ModifiedFollowing,
		RollConvention:          BackwardEOM,
		Calendar:                calendar.TARGET,
		ResetPosition:           ResetInArrears,
		RateCutoffDays:          1,
		IncludeInitialPrincipal: true,
		IncludeFinalPrincipal:   true,
	}

	EURIBOR3MFloat = LegConvention{
		LegType:                 LegFloating,
		ReferenceIndex:          EURIBOR3M,
		DayCount:                Act360,
		ResetFrequency:          FreqQuarterly,
		PayFrequency:            FreqQuarterly,
		FixingLagDays:           2,
		PayDelayDays:            0,
		BusinessDayAdjustment:   ModifiedFollowing,
		RollConvention:          BackwardEOM,
		Calendar:                calendar.TARGET,
		ResetPosition:           ResetInAdvance,
		IncludeInitialPrincipal: true,
		IncludeFinalPrincipal:   true,
		ScheduleDirection:       ScheduleBackward,
	}

	EURIBOR6MFloat = LegConvention{
		LegType:                 LegFloating,
		ReferenceIndex:          EURIBOR6M,
		DayCount:                Act360,
		ResetFrequency:          FreqSemi,
		PayFrequency:            FreqSemi,
		FixingLagDays:           2,
		PayDelayDays:            0,
		BusinessDayAdjustment:   ModifiedFollowing,
		RollConvention:          BackwardEOM,
		Calendar:                calendar.TARGET,
		ResetPosition:           ResetInAdvance,
		IncludeInitialPrincipal: true,
		IncludeFinalPrincipal:   true,
		ScheduleDirection:       ScheduleBackward,
	}

	TONARFloat = LegConvention{
		LegType:                 LegFloating,
		ReferenceIndex:          TONAR,
		DayCount:                Act365F,
		ResetFrequency:          FreqDaily,
		PayFrequency:            FreqAnnual,
		FixingLagDays:           2,
		PayDelayDays:            0,
		BusinessDayAdjustment:   ModifiedFollowing,
		RollConvention:          BackwardEOM,
		Calendar:                calendar.JP,
		ResetPosition:           ResetInArrears,
		RateCutoffDays:          1,
		IncludeInitialPrincipal: true,
		IncludeFinalPrincipal:   true,
	}

	TIBOR3MFloat = LegConvention{
		LegType:                 LegFloating,
		ReferenceIndex:          TIBOR3M,
		DayCount:                Act365F,
		ResetFrequency:          FreqQuarterly,
		PayFrequency:            FreqQuarterly,
		FixingLagDays:           2,
		PayDelayDays:            2,
		BusinessDayAdjustment:   ModifiedFollowing,
		RollConvention:          BackwardEOM,
		Calendar:                calendar.JP,
		ResetPosition:           ResetInAdvance,
		IncludeInitialPrincipal: true,
		IncludeFinalPrincipal:   true,
	}

	TIBOR6MFloat = LegConvention{
		LegType:                 LegFloating,
		ReferenceIndex:          TIBOR6M,
		DayCount:                Act365F,
		ResetFrequency:          FreqSemi,
		PayFrequency:            FreqSemi,
		FixingLagDays:           2,
		PayDelayDays:            2,
		BusinessDayAdjustment:   ModifiedFollowing,
		RollConvention:          BackwardEOM,
		Calendar:                calendar.JP,
		ResetPosition:           ResetInAdvance,
		IncludeInitialPrincipal: true,
		IncludeFinalPrincipal:   true,
	}

	SOFRFloat = LegConvention{
		LegType:                 LegFloating,
		ReferenceIndex:          SOFR,
		DayCount:                Act360,
		ResetFrequency:          FreqDaily,
		PayFrequency:            FreqAnnual,
		FixingLagDays:           0,
		PayDelayDays:            2,
		BusinessDayAdjustment:   ModifiedFollowing,
		RollConvention:          BackwardEOM,
		Calendar:                calendar.FD,
		ResetPosition:           ResetInArrears,
		RateCutoffDays:          2,
		IncludeInitialPrincipal: true,
		IncludeFinalPrincipal:   true,
	}

	// EUR OIS/IRS fixed legs: annual payments, ACT/360, TARGET calendar.
	EurFixedAnnual = LegConvention{
		LegType:               LegFixed,
		DayCount:              Act360,
		PayFrequency:          FreqAnnual,
		FixingLagDays:         0,
		PayDelayDays:          1,
		BusinessDayAdjustment: ModifiedFollowing,
		RollConvention:        BackwardEOM,
		Calendar:              calendar.TARGET,
	}

	// EUR IBOR IRS fixed leg: annual payments, 30/360, TARGET calendar.
	Euribor6MFixed = LegConvention{
		LegType:               LegFixed,
		DayCount:              Dc30360,
		PayFrequency:          FreqAnnual,
		FixingLagDays:         0,
		PayDelayDays:          2,
		BusinessDayAdjustment: ModifiedFollowing,
		RollConvention:        BackwardEOM,
		Calendar:              calendar.TARGET,
		ScheduleDirection:     ScheduleBackward,
	}

	// JPY IRS fixed leg: semiannual payments, ACT/365F, JP calendar.
	JpyFixedSemi = LegConvention{
		LegType:               LegFixed,
		DayCount:              Act365F,
		PayFrequency:          FreqSemi,
		FixingLagDays:         0,
		PayDelayDays:          0,
		BusinessDayAdjustment: ModifiedFollowing,
		RollConvention:        BackwardEOM,
		Calendar:              calendar.JP,
	}

	// EUR OIS fixed leg: annual payments, ACT/360, TARGET calendar.
	EstrFixedAnnual = LegConvention{
		LegType:               LegFixed,
		ReferenceIndex:        ESTR,
		DayCount:              Act360,
		PayFrequency:          FreqAnnual,
		FixingLagDays:         0,
		PayDelayDays:          1,
		BusinessDayAdjustment: ModifiedFollowing,
		RollConvention:        BackwardEOM,
		Calendar:              calendar.TARGET,
	}

	// JPY OIS fixed leg: annual payments, ACT/365F, JP calendar.
	TonarFixedAnnual = LegConvention{
		LegType:               LegFixed,
		ReferenceIndex:        TONAR,
		DayCount:              Act365F,
		PayFrequency:          FreqAnnual,
		FixingLagDays:         0,
		PayDelayDays:          2,
		BusinessDayAdjustment: ModifiedFollowing,
		RollConvention:        BackwardEOM,
		Calendar:              calendar.JP,
	}

	// USD OIS fixed leg: annual payments, ACT/360, Fed calendar.
	SofrFixedAnnual = LegConvention{
		LegType:               LegFixed,
		ReferenceIndex:        SOFR,
		DayCount:              Act360,
		PayFrequency:          FreqAnnual,
		FixingLagDays:         0,
		PayDelayDays:          2,
		BusinessDayAdjustment: ModifiedFollowing,
		RollConvention:        BackwardEOM,
		Calendar:              calendar.FD,
	}
)

// BasisPreset groups pay, receive, and discounting leg conventions for a
// basis swap structure (e.g., EUR 3M/6M vs ESTR, JPY TIBOR vs TONAR).
type BasisPreset struct {
	PayLeg      LegConvention
	RecLeg      LegConvention
	DiscountOIS LegConvention
}

// IRSPreset groups fixed, floating, and discounting leg conventions for a
// vanilla fixed-vs-floating IRS.
type IRSPreset struct {
	FixedLeg    LegConvention
	FloatLeg    LegConvention
	DiscountOIS LegConvention
}

// OISPreset groups fixed and overnight leg conventions for an OIS swap.
type OISPreset struct {
	FixedLeg LegConvention
	FloatLeg LegConvention
}

var (
	BasisEuribor3M6MEstr = BasisPreset{PayLeg: EURIBOR6MFloat, RecLeg: EURIBOR3MFloat, DiscountOIS: ESTRFloat}
	BasisTibor3M6MTonar  = BasisPreset{PayLeg: TIBOR6MFloat, RecLeg: TIBOR3MFloat, DiscountOIS: TONARFloat}

	IrsEuribor3MEstr = IRSPreset{FixedLeg: EurFixedAnnual, FloatLeg: EURIBOR3MFloat, DiscountOIS: ESTRFloat}
	IrsEuribor6MEstr = IRSPreset{FixedLeg: EurFixedAnnual, FloatLeg: EURIBOR6MFloat, DiscountOIS: ESTRFloat}
	IrsTibor3MTonar  = IRSPreset{FixedLeg: JpyFixedSemi, FloatLeg: TIBOR3MFloat, DiscountOIS: TONARFloat}
	IrsTibor6MTonar  = IRSPreset{FixedLeg: JpyFixedSemi, FloatLeg: TIBOR6MFloat, DiscountOIS: TONARFloat}

	OisEstr  = OISPreset{FixedLeg: EstrFixedAnnual, FloatLeg: ESTRFloat}
	OisTonar = OISPreset{FixedLeg: TonarFixedAnnual, FloatLeg: TONARFloat}
	OisSofr  = OISPreset{FixedLeg: SofrFixedAnnual, FloatLeg: SOFRFloat}
)
