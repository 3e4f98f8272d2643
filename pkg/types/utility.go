package types

import (
	"strings"
)

// RawRatePlanRecord is a single rate plan object as returned by the utility
// rate directory. Every field is optional and untyped until normalized.
type RawRatePlanRecord map[string]any

// Name returns the record's display name, if it has a string one. It is only
// used for logging records that fail to normalize.
func (r RawRatePlanRecord) Name() string {
	if n, ok := r["name"].(string); ok {
		return n
	}
	return ""
}

// FixedChargeUnit is the billing interval of a plan's fixed charge.
type FixedChargeUnit string

const (
	FixedChargePerMonth FixedChargeUnit = "per_month"
	FixedChargePerDay   FixedChargeUnit = "per_day"
	FixedChargePerYear  FixedChargeUnit = "per_year"
)

// ParseFixedChargeUnit maps the directory's unit strings ("$/month", "$/day",
// "$/year") onto a FixedChargeUnit. Unrecognized units are kept verbatim and
// are treated as already annual by the projector.
func ParseFixedChargeUnit(s string) FixedChargeUnit {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "$/month", string(FixedChargePerMonth):
		return FixedChargePerMonth
	case "$/day", string(FixedChargePerDay):
		return FixedChargePerDay
	case "$/year", string(FixedChargePerYear):
		return FixedChargePerYear
	}
	return FixedChargeUnit(s)
}

// Tier is a single price bracket within a pricing period.
type Tier struct {
	// Rate is in cents/kWh. It is nil when the directory gave no numeric rate.
	Rate *float64 `json:"rate,omitempty"`
	// Max is the upper usage bound of the tier, if any.
	Max        *float64 `json:"max,omitempty"`
	Unit       string   `json:"unit,omitempty"`
	Adjustment *float64 `json:"adj,omitempty"`
}

// Period is an ordered set of tiers that apply during one time-of-use period.
type Period []Tier

// RatePlan is the canonical form of a utility rate plan. Values are built by
// the normalizer and only ever copied afterwards.
type RatePlan struct {
	Label     string `json:"label"`
	Utility   string `json:"utility"`
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
	Approved  bool   `json:"approved"`
	// StartDate is YYYY-MM-DD or empty when the directory didn't specify one.
	StartDate string `json:"startdate"`

	// AverageRate is in cents/kWh. It is 0 until the averager has run or when
	// it could not be computed.
	AverageRate float64 `json:"avg_rate"`

	EnergyRateStructure []Period `json:"energyratestructure"`
	// EnergyWeekdaySchedule maps each hour of the day to an index into
	// EnergyRateStructure. It is either empty or has 24 entries.
	EnergyWeekdaySchedule []int `json:"energyweekdayschedule"`

	FixedChargeAmount float64         `json:"fixedchargefirstmeter"`
	FixedChargeUnit   FixedChargeUnit `json:"fixedchargeunits"`
}

// HasSchedule reports whether the plan has a full 24 hour weekday schedule.
func (p RatePlan) HasSchedule() bool {
	return len(p.EnergyWeekdaySchedule) == HoursPerDay
}

// WithAverageRate returns a copy of the plan with AverageRate set. A plan
// without any rate structure always has an average of 0.
func (p RatePlan) WithAverageRate(rate float64) RatePlan {
	if len(p.EnergyRateStructure) == 0 {
		rate = 0
	}
	p.AverageRate = rate
	return p
}

// HoursPerDay is the number of entries in a weekday schedule and a load curve.
const HoursPerDay = 24

// TOUEstimate is the result of weighting a plan's time-of-use rates by a
// household load curve.
type TOUEstimate struct {
	// EffectiveRate is the consumption weighted price in cents/kWh.
	EffectiveRate float64 `json:"effective_rate"`
	// DailyCost is the cost of a representative day in currency units.
	DailyCost float64 `json:"daily_cost"`
}
