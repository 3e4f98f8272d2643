package rates

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratecast/ratecast/pkg/types"
)

func TestNormalize(t *testing.T) {
	ctx := context.Background()

	t.Run("EndDateCutoff", func(t *testing.T) {
		records := decodeRecords(t, `[
			{"label": "expired", "enddate": 1609459200},
			{"label": "no-end"},
			{"label": "zero-end", "enddate": 0},
			{"label": "future", "enddate": 1704067200}
		]`)
		plans := Normalize(ctx, records, DefaultCutoff)
		require.Len(t, plans, 3)
		assert.Equal(t, "no-end", plans[0].Label)
		assert.Equal(t, "zero-end", plans[1].Label)
		assert.Equal(t, "future", plans[2].Label)
	})

	t.Run("Defaults", func(t *testing.T) {
		plans := Normalize(ctx, decodeRecords(t, `[{}]`), DefaultCutoff)
		require.Len(t, plans, 1)
		p := plans[0]
		assert.Equal(t, "", p.Label)
		assert.Equal(t, "", p.Name)
		assert.True(t, p.IsDefault)
		assert.True(t, p.Approved)
		assert.Equal(t, "", p.StartDate)
		assert.Empty(t, p.EnergyRateStructure)
		assert.Empty(t, p.EnergyWeekdaySchedule)
		assert.Equal(t, 0.0, p.FixedChargeAmount)
		assert.Equal(t, 0.0, p.AverageRate)
	})

	t.Run("Fields", func(t *testing.T) {
		records := decodeRecords(t, `[{
			"label": "5b0d",
			"utility": "Example Electric",
			"name": "Residential Service",
			"is_default": false,
			"approved": false,
			"startdate": 1640995200,
			"energyratestructure": [[{"rate": 0.12, "max": 500, "unit": "kWh"}, {"rate": 0.15, "adj": 0.01}], [{"rate": "n/a"}]],
			"fixedchargefirstmeter": 10,
			"fixedchargeunits": "$/month"
		}]`)
		plans := Normalize(ctx, records, DefaultCutoff)
		require.Len(t, plans, 1)
		p := plans[0]
		assert.Equal(t, "5b0d", p.Label)
		assert.Equal(t, "Example Electric", p.Utility)
		assert.Equal(t, "Residential Service", p.Name)
		assert.False(t, p.IsDefault)
		assert.False(t, p.Approved)
		assert.Equal(t, "2022-01-01", p.StartDate)
		assert.Equal(t, 10.0, p.FixedChargeAmount)
		assert.Equal(t, types.FixedChargePerMonth, p.FixedChargeUnit)

		require.Len(t, p.EnergyRateStructure, 2)
		require.Len(t, p.EnergyRateStructure[0], 2)
		first := p.EnergyRateStructure[0][0]
		require.NotNil(t, first.Rate)
		assert.Equal(t, 0.12, *first.Rate)
		require.NotNil(t, first.Max)
		assert.Equal(t, 500.0, *first.Max)
		assert.Equal(t, "kWh", first.Unit)
		require.NotNil(t, p.EnergyRateStructure[0][1].Adjustment)
		assert.Equal(t, 0.01, *p.EnergyRateStructure[0][1].Adjustment)
		assert.Nil(t, p.EnergyRateStructure[1][0].Rate, "non-numeric rates are dropped")
	})

	t.Run("StartDateOutOfRange", func(t *testing.T) {
		records := decodeRecords(t, `[
			{"label": "far", "startdate": 1e300},
			{"label": "past", "startdate": -1e300},
			{"label": "ok", "startdate": 1640995200}
		]`)
		plans := Normalize(ctx, records, DefaultCutoff)
		require.Len(t, plans, 3)
		assert.Equal(t, "", plans[0].StartDate)
		assert.Equal(t, "", plans[1].StartDate)
		assert.Equal(t, "2022-01-01", plans[2].StartDate)
	})

	t.Run("MalformedSkipped", func(t *testing.T) {
		records := decodeRecords(t, `[
			{"label": "a"},
			{"label": "bad-structure", "energyratestructure": "oops"},
			null,
			{"label": "bad-end", "enddate": "soon"},
			{"label": 7},
			{"label": "b"}
		]`)
		plans := Normalize(ctx, records, DefaultCutoff)
		require.Len(t, plans, 2)
		assert.Equal(t, "a", plans[0].Label)
		assert.Equal(t, "b", plans[1].Label)
	})

	t.Run("Schedules", func(t *testing.T) {
		hours := make([]any, types.HoursPerDay)
		for i := range hours {
			hours[i] = float64(i % 2)
		}
		matrix := make([]any, 12)
		for i := range matrix {
			matrix[i] = hours
		}
		records := []types.RawRatePlanRecord{
			{"label": "flat", "energyweekdayschedule": hours},
			{"label": "matrix", "energyweekdayschedule": matrix},
			{"label": "short", "energyweekdayschedule": []any{0.0, 1.0}},
			{"label": "fractional", "energyweekdayschedule": append([]any{0.5}, hours[1:]...)},
		}
		plans := Normalize(ctx, records, DefaultCutoff)
		require.Len(t, plans, 4)
		require.Len(t, plans[0].EnergyWeekdaySchedule, types.HoursPerDay)
		assert.Equal(t, 1, plans[0].EnergyWeekdaySchedule[1])
		assert.Equal(t, plans[0].EnergyWeekdaySchedule, plans[1].EnergyWeekdaySchedule)
		assert.Empty(t, plans[2].EnergyWeekdaySchedule)
		assert.Empty(t, plans[3].EnergyWeekdaySchedule)
	})

	t.Run("NativeNumbers", func(t *testing.T) {
		records := []types.RawRatePlanRecord{{
			"label":                 "native",
			"fixedchargefirstmeter": 5,
			"energyratestructure":   []any{[]any{map[string]any{"rate": 12}}},
		}}
		plans := Normalize(ctx, records, DefaultCutoff)
		require.Len(t, plans, 1)
		assert.Equal(t, 5.0, plans[0].FixedChargeAmount)
		require.NotNil(t, plans[0].EnergyRateStructure[0][0].Rate)
		assert.Equal(t, 12.0, *plans[0].EnergyRateStructure[0][0].Rate)
	})
}
