package rates

import "github.com/ratecast/ratecast/pkg/types"

// loadCurve is the typical residential share of daily consumption, in
// percent, for each hour starting at midnight.
var loadCurve = [types.HoursPerDay]float64{
	3.5, 2.8, 2.5, 2.3, 2.2, 2.3,
	2.8, 3.8, 4.5, 4.8, 4.7, 4.6,
	4.5, 4.4, 4.3, 4.2, 4.3, 4.6,
	5.0, 5.2, 5.0, 4.7, 4.3, 3.9,
}

// loadShares is loadCurve scaled so the hours sum to exactly 1. The table
// itself only sums to 95.2.
var loadShares = func() [types.HoursPerDay]float64 {
	var total float64
	for _, pct := range loadCurve {
		total += pct
	}
	var shares [types.HoursPerDay]float64
	for h, pct := range loadCurve {
		shares[h] = pct / total
	}
	return shares
}()

// LoadCurve returns a copy of the hourly load curve in percent.
func LoadCurve() []float64 {
	out := make([]float64, len(loadCurve))
	copy(out, loadCurve[:])
	return out
}
