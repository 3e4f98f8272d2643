package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ratecast/ratecast/pkg/log"
	"github.com/ratecast/ratecast/pkg/metrics"
	"github.com/ratecast/ratecast/pkg/rates"
	"github.com/ratecast/ratecast/pkg/types"
)

type utilityRatesRequest struct {
	Address      string    `json:"address"`
	Consumption  flexFloat `json:"consumption"`
	Escalator    flexFloat `json:"escalator"`
	SelectedRate string    `json:"selected_rate"`
}

type utilityRatesResponse struct {
	Rates          []types.RatePlan       `json:"rates"`
	MostLikelyRate types.RatePlan         `json:"most_likely_rate"`
	SelectedRate   types.RatePlan         `json:"selected_rate"`
	YearlyCosts    types.YearlyProjection `json:"yearly_costs"`
	FirstYearCost  float64                `json:"first_year_cost"`
	EffectiveRate  *float64               `json:"effective_rate,omitempty"`
	DailyCost      *float64               `json:"daily_cost,omitempty"`
	LoadCurve      []float64              `json:"load_curve,omitempty"`
	ProjectSaved   bool                   `json:"project_saved"`
	ProjectID      string                 `json:"project_id,omitempty"`
}

const errNoUtilityRates = "No utility rates found"

func (s *Server) handleUtilityRates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req utilityRatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to decode utility rates request", slog.Any("error", err))
		writeJSONError(w, "invalid request", http.StatusBadRequest)
		return
	}

	in := types.CalculationInput{
		Address:              strings.TrimSpace(req.Address),
		AnnualConsumptionKWH: req.Consumption.Or(0),
		EscalatorPct:         req.Escalator.Or(types.DefaultEscalatorPct),
		SelectedRateLabel:    req.SelectedRate,
	}
	if err := in.Validate(); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	records, err := s.rates.RatePlans(ctx, in.Address)
	if err != nil {
		metrics.RateFetchesTotal.WithLabelValues("error").Inc()
		log.Ctx(ctx).WarnContext(ctx, "failed to fetch utility rates", slog.Any("error", err))
		writeJSONError(w, errNoUtilityRates, http.StatusNotFound)
		return
	}

	analysis, err := rates.Analyze(ctx, records, in)
	if err != nil {
		var verr *types.ValidationError
		switch {
		case errors.Is(err, rates.ErrNoPlansAvailable):
			metrics.RateFetchesTotal.WithLabelValues("empty").Inc()
			writeJSONError(w, errNoUtilityRates, http.StatusNotFound)
		case errors.As(err, &verr):
			writeJSONError(w, verr.Error(), http.StatusBadRequest)
		default:
			log.Ctx(ctx).ErrorContext(ctx, "failed to analyze utility rates", slog.Any("error", err))
			writeJSONError(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}
	metrics.RateFetchesTotal.WithLabelValues("ok").Inc()

	if len(analysis.Degraded) > 0 {
		metrics.DegradedCalculationsTotal.Inc()
		log.Ctx(ctx).WarnContext(
			ctx,
			"utility rate calculation degraded",
			slog.String("selectedRate", analysis.SelectedRate.Label),
			slog.Any("problems", analysis.Degraded),
		)
	}

	resp := utilityRatesResponse{
		Rates:          analysis.Rates,
		MostLikelyRate: analysis.MostLikelyRate,
		SelectedRate:   analysis.SelectedRate,
		YearlyCosts:    analysis.YearlyCosts,
		FirstYearCost:  analysis.FirstYearCost,
		LoadCurve:      analysis.LoadCurve,
	}
	if analysis.TOU != nil {
		resp.EffectiveRate = &analysis.TOU.EffectiveRate
		resp.DailyCost = &analysis.TOU.DailyCost
	}

	// saving is best effort, the caller still gets their estimate
	project, err := s.storage.CreateProject(ctx, types.Project{
		UserID:         s.getUser(r).ID,
		Address:        in.Address,
		ConsumptionKWH: in.AnnualConsumptionKWH,
		EscalatorPct:   in.EscalatorPct,
		Utility: types.NewProposalUtility(
			analysis.SelectedRate,
			analysis.SelectedRate.AverageRate,
			analysis.FirstYearCost,
		),
	})
	metrics.ProjectsSavedTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to save project", slog.Any("error", err))
	} else {
		resp.ProjectSaved = true
		resp.ProjectID = project.ID
	}

	writeJSON(w, resp, http.StatusOK)
}
