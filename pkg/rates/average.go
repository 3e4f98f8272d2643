package rates

import (
	"errors"
	"math"

	"github.com/ratecast/ratecast/pkg/types"
)

var (
	// ErrNoRates is returned when a rate structure has no numeric tier rates.
	ErrNoRates = errors.New("rate structure has no numeric tier rates")

	// ErrInvalidConsumption is returned for negative or non-finite daily usage.
	ErrInvalidConsumption = errors.New("daily consumption must be a finite, non-negative number")

	// ErrOverflow is returned when rates are too large to average.
	ErrOverflow = errors.New("rate structure overflows")
)

// SimpleAverage returns the arithmetic mean, in cents/kWh rounded to 2
// decimals, of every numeric tier rate across all periods.
func SimpleAverage(structure []types.Period) (float64, error) {
	var sum float64
	var n int
	for _, period := range structure {
		for _, tier := range period {
			if tier.Rate == nil || !finite(*tier.Rate) {
				continue
			}
			sum += *tier.Rate
			n++
		}
	}
	if n == 0 {
		return 0, ErrNoRates
	}
	if !finite(sum) {
		return 0, ErrOverflow
	}
	return round2(sum / float64(n)), nil
}

// PeriodAverage returns the mean rate of a single period's numeric tiers.
func PeriodAverage(period types.Period) (float64, error) {
	return SimpleAverage([]types.Period{period})
}

// WeightedAverage prices a representative day by spreading dailyKWH over the
// hourly load curve and charging each hour at the average rate of the period
// the schedule maps it to.
//
// Hours that the schedule doesn't cover, or that point at a period that
// doesn't exist, use period 0. Periods without numeric rates use the plan's
// simple average.
//
// The hourly shares are the load curve divided by its own total (95.2), not
// by 100, so the whole of dailyKWH is priced. A flat rate therefore comes
// back as its own effective rate.
func WeightedAverage(structure []types.Period, schedule []int, dailyKWH float64) (types.TOUEstimate, error) {
	if math.IsNaN(dailyKWH) || math.IsInf(dailyKWH, 0) || dailyKWH < 0 {
		return types.TOUEstimate{}, ErrInvalidConsumption
	}
	fallback, err := SimpleAverage(structure)
	if err != nil {
		return types.TOUEstimate{}, err
	}

	var dailyCost float64
	for h := 0; h < types.HoursPerDay; h++ {
		idx := periodForHour(schedule, h, len(structure))
		rate, err := PeriodAverage(structure[idx])
		if err != nil {
			rate = fallback
		}
		// cents to dollars
		dailyCost += dailyKWH * loadShares[h] * rate / 100
	}

	if !finite(dailyCost) {
		return types.TOUEstimate{}, ErrOverflow
	}

	est := types.TOUEstimate{DailyCost: round2(dailyCost)}
	if dailyKWH > 0 {
		est.EffectiveRate = round2(dailyCost * 100 / dailyKWH)
	}
	return est, nil
}

func periodForHour(schedule []int, hour, periods int) int {
	if len(schedule) != types.HoursPerDay {
		return 0
	}
	idx := schedule[hour]
	if idx < 0 || idx >= periods {
		return 0
	}
	return idx
}
