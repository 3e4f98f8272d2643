package rates

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ratecast/ratecast/pkg/types"
)

func decodeRecords(t *testing.T, s string) []types.RawRatePlanRecord {
	t.Helper()
	var records []types.RawRatePlanRecord
	require.NoError(t, json.Unmarshal([]byte(s), &records))
	return records
}

func rate(v float64) *float64 {
	return &v
}

func flatSchedule(period int) []int {
	s := make([]int, types.HoursPerDay)
	for i := range s {
		s[i] = period
	}
	return s
}
