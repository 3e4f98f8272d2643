package rates

import (
	"context"
	"fmt"

	"github.com/ratecast/ratecast/pkg/types"
)

// Analyze runs the whole engine over the records fetched for an address:
// normalize, average, select and project.
//
// Validation errors and ErrNoPlansAvailable are returned as-is. Any other
// failure only degrades the result: the affected figure becomes 0 and a note
// is added to Analysis.Degraded for the caller to report.
func Analyze(ctx context.Context, records []types.RawRatePlanRecord, in types.CalculationInput) (types.Analysis, error) {
	if err := in.Validate(); err != nil {
		return types.Analysis{}, err
	}

	var a types.Analysis
	plans := Normalize(ctx, records, DefaultCutoff)
	for i, p := range plans {
		avg, err := SimpleAverage(p.EnergyRateStructure)
		if err != nil && len(p.EnergyRateStructure) > 0 {
			a.Degraded = append(a.Degraded, fmt.Sprintf("average rate of %q: %v", p.Label, err))
		}
		plans[i] = p.WithAverageRate(avg)
	}
	a.Rates = plans
	if len(plans) == 0 {
		a.YearlyCosts = types.ZeroProjection()
		return a, ErrNoPlansAvailable
	}

	var err error
	if a.MostLikelyRate, err = MostLikely(plans); err != nil {
		return a, err
	}
	if a.SelectedRate, err = Select(plans, in.SelectedRateLabel); err != nil {
		return a, err
	}

	a.RepresentativeRate = a.SelectedRate.AverageRate
	// a plan without any structure is priced at 0, the same as its average
	if a.SelectedRate.HasSchedule() && len(a.SelectedRate.EnergyRateStructure) > 0 {
		est, err := WeightedAverage(
			a.SelectedRate.EnergyRateStructure,
			a.SelectedRate.EnergyWeekdaySchedule,
			in.AnnualConsumptionKWH/DaysPerYear,
		)
		if err != nil {
			a.Degraded = append(a.Degraded, fmt.Sprintf("time-of-use rate of %q: %v", a.SelectedRate.Label, err))
		} else {
			a.TOU = &est
			a.LoadCurve = LoadCurve()
			a.RepresentativeRate = est.EffectiveRate
		}
	}

	a.YearlyCosts, err = Project(
		a.RepresentativeRate,
		in.AnnualConsumptionKWH,
		a.SelectedRate.FixedChargeAmount,
		a.SelectedRate.FixedChargeUnit,
		in.EscalatorPct,
	)
	if err != nil {
		a.Degraded = append(a.Degraded, fmt.Sprintf("projection: %v", err))
	}
	a.FirstYearCost = a.YearlyCosts.FirstYear()
	return a, nil
}
