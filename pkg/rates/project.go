package rates

import (
	"errors"

	"github.com/ratecast/ratecast/pkg/types"
)

// DaysPerYear converts annual consumption to a representative day.
const DaysPerYear = 365

// ErrInvalidInput is returned when a projection input isn't a finite number.
var ErrInvalidInput = errors.New("projection inputs must be finite numbers")

// AnnualizeFixedCharge converts a fixed charge to its yearly amount. Units
// other than per month and per day are assumed to already be yearly.
func AnnualizeFixedCharge(amount float64, unit types.FixedChargeUnit) float64 {
	switch unit {
	case types.FixedChargePerMonth:
		return amount * 12
	case types.FixedChargePerDay:
		return amount * DaysPerYear
	default:
		return amount
	}
}

// Project returns the yearly cost for each of the next ProjectionYears years.
// rate is in cents/kWh and escalatorPct is the yearly increase in percent.
// Each year grows from the previous year's rounded cost.
//
// On error the returned projection is all zeros.
func Project(rate, annualKWH, fixedAmount float64, unit types.FixedChargeUnit, escalatorPct float64) (types.YearlyProjection, error) {
	if !finite(rate, annualKWH, fixedAmount, escalatorPct) {
		return types.ZeroProjection(), ErrInvalidInput
	}

	costs := make(types.YearlyProjection, types.ProjectionYears)
	costs[0] = round2(annualKWH*rate/100 + AnnualizeFixedCharge(fixedAmount, unit))
	growth := 1 + escalatorPct/100
	for i := 1; i < len(costs); i++ {
		costs[i] = round2(costs[i-1] * growth)
	}
	if !finite(costs...) {
		return types.ZeroProjection(), ErrInvalidInput
	}
	return costs, nil
}
