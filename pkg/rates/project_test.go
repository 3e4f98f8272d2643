package rates

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratecast/ratecast/pkg/types"
)

func TestAnnualizeFixedCharge(t *testing.T) {
	assert.Equal(t, 120.0, AnnualizeFixedCharge(10, types.FixedChargePerMonth))
	assert.Equal(t, 365.0, AnnualizeFixedCharge(1, types.FixedChargePerDay))
	assert.Equal(t, 50.0, AnnualizeFixedCharge(50, types.FixedChargePerYear))
	assert.Equal(t, 50.0, AnnualizeFixedCharge(50, types.FixedChargeUnit("$/meter")))
	assert.Equal(t, 50.0, AnnualizeFixedCharge(50, ""))
}

func TestProject(t *testing.T) {
	t.Run("FirstYears", func(t *testing.T) {
		costs, err := Project(15, 5000, 10, types.FixedChargePerMonth, 5)
		require.NoError(t, err)
		require.Len(t, costs, types.ProjectionYears)
		assert.Equal(t, 870.0, costs[0])
		assert.Equal(t, 913.5, costs[1])
		assert.Equal(t, 959.18, costs[2])
	})

	t.Run("Recurrence", func(t *testing.T) {
		for _, consumption := range []float64{1000, 2500.5, 7777, 10000} {
			for _, escalator := range []float64{4, 7.25, 10} {
				costs, err := Project(13.37, consumption, 9.5, types.FixedChargePerMonth, escalator)
				require.NoError(t, err)
				require.Len(t, costs, types.ProjectionYears)
				for i := 1; i < len(costs); i++ {
					assert.GreaterOrEqual(t, costs[i], costs[i-1])
					assert.Equal(t, round2(costs[i-1]*(1+escalator/100)), costs[i])
					assert.InDelta(t, costs[i-1]*(1+escalator/100), costs[i], 0.005+1e-9)
				}
			}
		}
	})

	t.Run("ZeroRate", func(t *testing.T) {
		costs, err := Project(0, 5000, 0, "", 5)
		require.NoError(t, err)
		assert.Equal(t, types.ZeroProjection(), costs)
	})

	t.Run("InvalidInput", func(t *testing.T) {
		costs, err := Project(math.NaN(), 5000, 10, types.FixedChargePerMonth, 5)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Equal(t, types.ZeroProjection(), costs)

		costs, err = Project(15, 5000, math.Inf(1), types.FixedChargePerMonth, 5)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Equal(t, types.ZeroProjection(), costs)
	})
}
