package rates

import (
	"errors"

	"github.com/ratecast/ratecast/pkg/types"
)

// ErrNoPlansAvailable is returned when there is nothing to choose from.
var ErrNoPlansAvailable = errors.New("no rate plans available")

// MostLikely returns the first default plan, or the first plan if none are
// marked as the default.
func MostLikely(plans []types.RatePlan) (types.RatePlan, error) {
	if len(plans) == 0 {
		return types.RatePlan{}, ErrNoPlansAvailable
	}
	for _, p := range plans {
		if p.IsDefault {
			return p, nil
		}
	}
	return plans[0], nil
}

// Select returns the plan labelled requestedLabel. If the label is empty or
// isn't found, the most likely plan is returned instead.
func Select(plans []types.RatePlan, requestedLabel string) (types.RatePlan, error) {
	if len(plans) == 0 {
		return types.RatePlan{}, ErrNoPlansAvailable
	}
	if requestedLabel != "" {
		for _, p := range plans {
			if p.Label == requestedLabel {
				return p, nil
			}
		}
	}
	return MostLikely(plans)
}
