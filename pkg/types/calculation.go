package types

import (
	"math"
	"strings"
)

const (
	MinConsumptionKWH = 1000.0
	MaxConsumptionKWH = 10000.0
	MinEscalatorPct   = 4.0
	MaxEscalatorPct   = 10.0

	// DefaultEscalatorPct is used when a request doesn't specify one.
	DefaultEscalatorPct = 4.0

	// ProjectionYears is the number of years in a YearlyProjection.
	ProjectionYears = 20
)

// ValidationError is returned when user supplied input is out of bounds. The
// message is safe to show to the user as-is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// CalculationInput is what a user asks the engine to estimate.
type CalculationInput struct {
	Address              string
	AnnualConsumptionKWH float64
	EscalatorPct         float64
	// SelectedRateLabel is optional. When empty the most likely plan is used.
	SelectedRateLabel string
}

// Validate checks the input bounds and returns a *ValidationError describing
// the first problem found.
func (in CalculationInput) Validate() error {
	if strings.TrimSpace(in.Address) == "" {
		return &ValidationError{Field: "address", Message: "Address is required"}
	}
	if math.IsNaN(in.AnnualConsumptionKWH) || in.AnnualConsumptionKWH < MinConsumptionKWH || in.AnnualConsumptionKWH > MaxConsumptionKWH {
		return &ValidationError{Field: "consumption", Message: "Consumption must be between 1000 and 10000 kWh"}
	}
	if math.IsNaN(in.EscalatorPct) || in.EscalatorPct < MinEscalatorPct || in.EscalatorPct > MaxEscalatorPct {
		return &ValidationError{Field: "escalator", Message: "Escalator must be between 4% and 10%"}
	}
	return nil
}

// YearlyProjection holds the projected cost of each year, starting with the
// first year. Each value is rounded to cents.
type YearlyProjection []float64

// FirstYear returns the first year's cost or 0 for an empty projection.
func (p YearlyProjection) FirstYear() float64 {
	if len(p) == 0 {
		return 0
	}
	return p[0]
}

// ZeroProjection is what callers get back when a projection couldn't be
// computed.
func ZeroProjection() YearlyProjection {
	return make(YearlyProjection, ProjectionYears)
}

// Analysis is the full result of running the rate engine for one request.
type Analysis struct {
	Rates          []RatePlan       `json:"rates"`
	MostLikelyRate RatePlan         `json:"most_likely_rate"`
	SelectedRate   RatePlan         `json:"selected_rate"`
	YearlyCosts    YearlyProjection `json:"yearly_costs"`
	FirstYearCost  float64          `json:"first_year_cost"`

	// RepresentativeRate is the cents/kWh figure the projection was based on.
	RepresentativeRate float64 `json:"representative_rate"`

	// TOU is only set when the selected plan has a weekday schedule.
	TOU       *TOUEstimate `json:"-"`
	LoadCurve []float64    `json:"-"`

	// Degraded lists the computations that failed and were replaced by zeros.
	Degraded []string `json:"-"`
}
