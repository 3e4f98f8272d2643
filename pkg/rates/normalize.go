package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/ratecast/ratecast/pkg/log"
	"github.com/ratecast/ratecast/pkg/types"
)

// DefaultCutoff is the end date before which a plan is considered stale.
// Plans that stopped being offered before it are never returned.
var DefaultCutoff = time.Date(2021, time.December, 31, 0, 0, 0, 0, time.UTC)

// start dates outside of years 1 through 9999 are ignored
var (
	minStartDate = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()
	maxStartDate = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC).Unix()
)

// Normalize converts raw directory records into RatePlans, in order. Records
// whose end date is before cutoff are dropped. A record that can't be
// converted is logged and skipped; it never fails the whole batch.
//
// The returned plans have no AverageRate yet.
func Normalize(ctx context.Context, items []types.RawRatePlanRecord, cutoff time.Time) []types.RatePlan {
	plans := make([]types.RatePlan, 0, len(items))
	for i, item := range items {
		plan, keep, err := normalizeRecord(item, cutoff)
		if err != nil {
			log.Ctx(ctx).WarnContext(
				ctx,
				"skipping malformed rate plan",
				slog.Int("index", i),
				slog.String("name", item.Name()),
				slog.Any("error", err),
			)
			continue
		}
		if !keep {
			log.Ctx(ctx).DebugContext(ctx, "skipping expired rate plan", slog.Int("index", i), slog.String("name", item.Name()))
			continue
		}
		plans = append(plans, plan)
	}
	return plans
}

func normalizeRecord(item types.RawRatePlanRecord, cutoff time.Time) (types.RatePlan, bool, error) {
	if item == nil {
		return types.RatePlan{}, false, errors.New("record is null")
	}

	// an end date of 0 means the same as no end date
	end, err := optionalNumber(item, "enddate", 0)
	if err != nil {
		return types.RatePlan{}, false, err
	}
	if end != 0 && end < float64(cutoff.Unix()) {
		return types.RatePlan{}, false, nil
	}

	var plan types.RatePlan
	if plan.Label, err = optionalString(item, "label"); err != nil {
		return types.RatePlan{}, false, err
	}
	if plan.Utility, err = optionalString(item, "utility"); err != nil {
		return types.RatePlan{}, false, err
	}
	if plan.Name, err = optionalString(item, "name"); err != nil {
		return types.RatePlan{}, false, err
	}
	if plan.IsDefault, err = optionalBool(item, "is_default", true); err != nil {
		return types.RatePlan{}, false, err
	}
	if plan.Approved, err = optionalBool(item, "approved", true); err != nil {
		return types.RatePlan{}, false, err
	}

	start, err := optionalNumber(item, "startdate", 0)
	if err != nil {
		return types.RatePlan{}, false, err
	}
	if start != 0 && start >= float64(minStartDate) && start <= float64(maxStartDate) {
		plan.StartDate = time.Unix(int64(start), 0).UTC().Format(time.DateOnly)
	}

	if plan.EnergyRateStructure, err = parseRateStructure(item["energyratestructure"]); err != nil {
		return types.RatePlan{}, false, err
	}
	plan.EnergyWeekdaySchedule = parseSchedule(item["energyweekdayschedule"])

	if plan.FixedChargeAmount, err = optionalNumber(item, "fixedchargefirstmeter", 0); err != nil {
		return types.RatePlan{}, false, err
	}
	unit, err := optionalString(item, "fixedchargeunits")
	if err != nil {
		return types.RatePlan{}, false, err
	}
	plan.FixedChargeUnit = types.ParseFixedChargeUnit(unit)

	return plan, true, nil
}

func optionalString(item types.RawRatePlanRecord, key string) (string, error) {
	v, ok := item[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: expected string, got %T", key, v)
	}
	return s, nil
}

func optionalBool(item types.RawRatePlanRecord, key string, def bool) (bool, error) {
	v, ok := item[key]
	if !ok || v == nil {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%s: expected bool, got %T", key, v)
	}
	return b, nil
}

func optionalNumber(item types.RawRatePlanRecord, key string, def float64) (float64, error) {
	v, ok := item[key]
	if !ok || v == nil {
		return def, nil
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, fmt.Errorf("%s: expected number, got %T", key, v)
	}
	return f, nil
}

// toFloat accepts anything encoding/json can produce for a number, plus the
// plain Go numeric types used when records are built by hand.
func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case json.Number:
		var err error
		if f, err = n.Float64(); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func optionalFloatPtr(v any) *float64 {
	if f, ok := toFloat(v); ok {
		return &f
	}
	return nil
}

func parseRateStructure(v any) ([]types.Period, error) {
	if v == nil {
		return nil, nil
	}
	rawPeriods, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("energyratestructure: expected list, got %T", v)
	}
	periods := make([]types.Period, 0, len(rawPeriods))
	for i, rp := range rawPeriods {
		rawTiers, ok := rp.([]any)
		if !ok {
			return nil, fmt.Errorf("energyratestructure[%d]: expected list, got %T", i, rp)
		}
		period := make(types.Period, 0, len(rawTiers))
		for j, rt := range rawTiers {
			tier, ok := rt.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("energyratestructure[%d][%d]: expected object, got %T", i, j, rt)
			}
			// non-numeric values are kept as nil and skipped when averaging
			t := types.Tier{
				Rate:       optionalFloatPtr(tier["rate"]),
				Max:        optionalFloatPtr(tier["max"]),
				Adjustment: optionalFloatPtr(tier["adj"]),
			}
			if unit, ok := tier["unit"].(string); ok {
				t.Unit = unit
			}
			period = append(period, t)
		}
		periods = append(periods, period)
	}
	return periods, nil
}

// parseSchedule accepts either 24 hourly period indexes or a month by hour
// matrix, in which case the first month is used. Anything else results in an
// empty schedule and the averager falls back to period 0.
func parseSchedule(v any) []int {
	rows, ok := v.([]any)
	if !ok || len(rows) == 0 {
		return nil
	}
	if first, ok := rows[0].([]any); ok {
		rows = first
	}
	if len(rows) != types.HoursPerDay {
		return nil
	}
	schedule := make([]int, 0, types.HoursPerDay)
	for _, r := range rows {
		f, ok := toFloat(r)
		if !ok || f != math.Trunc(f) {
			return nil
		}
		schedule = append(schedule, int(f))
	}
	return schedule
}
