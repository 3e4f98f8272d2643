package types

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Project is a saved cost estimate for an address.
type Project struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userID,omitempty"`
	Name           string    `json:"name,omitempty"`
	Description    string    `json:"description,omitempty"`
	Address        string    `json:"address"`
	ConsumptionKWH float64   `json:"consumption"`
	EscalatorPct   float64   `json:"percentage"`
	CreatedAt      time.Time `json:"createdAt"`

	// Utility is the rate plan the estimate was based on. Projects created
	// without running an estimate don't have one.
	Utility *ProposalUtility `json:"utility,omitempty"`
}

// ProposalUtility records which plan a project used and what it cost.
type ProposalUtility struct {
	RateLabel     string          `json:"openeiID"`
	RateName      string          `json:"rateName"`
	Approved      bool            `json:"approved"`
	IsDefault     bool            `json:"isDefault"`
	StartDate     string          `json:"startDate,omitempty"`
	PricingMatrix []Period        `json:"pricingMatrix"`
	AverageRate   decimal.Decimal `json:"averageRate"`   // cents/kWh
	FirstYearCost decimal.Decimal `json:"firstYearCost"` // $
}

// NewProposalUtility builds the persisted summary of the plan an analysis
// selected. Non-finite figures are stored as 0.
func NewProposalUtility(plan RatePlan, averageRate, firstYearCost float64) *ProposalUtility {
	return &ProposalUtility{
		RateLabel:     plan.Label,
		RateName:      plan.Name,
		Approved:      plan.Approved,
		IsDefault:     plan.IsDefault,
		StartDate:     plan.StartDate,
		PricingMatrix: plan.EnergyRateStructure,
		AverageRate:   finiteDecimal(averageRate),
		FirstYearCost: finiteDecimal(firstYearCost),
	}
}

func finiteDecimal(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// EventProjectCreated is sent to the webhook after a project is created.
const EventProjectCreated = "project.created"

// ProjectEvent is the payload posted to the webhook.
type ProjectEvent struct {
	Event   string           `json:"event"`
	Project ProjectEventData `json:"project"`
}

// ProjectEventData is the project as described to webhook consumers.
type ProjectEventData struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id,omitempty"`
	Name        string  `json:"name,omitempty"`
	Description string  `json:"description,omitempty"`
	Address     string  `json:"address"`
	Consumption float64 `json:"consumption"`
	Percentage  float64 `json:"percentage"`
}

// NewProjectEvent wraps a project into a webhook event.
func NewProjectEvent(event string, p Project) ProjectEvent {
	return ProjectEvent{
		Event: event,
		Project: ProjectEventData{
			ID:          p.ID,
			UserID:      p.UserID,
			Name:        p.Name,
			Description: p.Description,
			Address:     p.Address,
			Consumption: p.ConsumptionKWH,
			Percentage:  p.EscalatorPct,
		},
	}
}

// User is the authenticated caller, if any.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
