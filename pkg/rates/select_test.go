package rates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratecast/ratecast/pkg/types"
)

func TestSelect(t *testing.T) {
	plans := []types.RatePlan{
		{Label: "A", IsDefault: false},
		{Label: "B", IsDefault: true},
		{Label: "C", IsDefault: true},
	}

	tests := []struct {
		requested string
		want      string
	}{
		{"", "B"},
		{"A", "A"},
		{"C", "C"},
		{"Z", "B"},
	}
	for _, tt := range tests {
		got, err := Select(plans, tt.requested)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.Label, "requested %q", tt.requested)
	}

	t.Run("NoDefault", func(t *testing.T) {
		got, err := MostLikely([]types.RatePlan{{Label: "A"}, {Label: "B"}})
		require.NoError(t, err)
		assert.Equal(t, "A", got.Label)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := Select(nil, "A")
		assert.ErrorIs(t, err, ErrNoPlansAvailable)
		_, err = MostLikely(nil)
		assert.ErrorIs(t, err, ErrNoPlansAvailable)
	})
}
