package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ratecast/ratecast/pkg/log"
	"github.com/ratecast/ratecast/pkg/metrics"
	"github.com/ratecast/ratecast/pkg/storage"
	"github.com/ratecast/ratecast/pkg/types"
	"github.com/ratecast/ratecast/pkg/webhook"
)

type createProjectRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Consumption flexFloat `json:"consumption"`
	Escalator   flexFloat `json:"escalator"`
}

type createProjectResponse struct {
	ID               string `json:"id"`
	Message          string `json:"message"`
	WebhookDelivered bool   `json:"webhook_delivered"`
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to decode project request", slog.Any("error", err))
		writeJSONError(w, "invalid request", http.StatusBadRequest)
		return
	}

	project := types.Project{
		UserID:         s.getUser(r).ID,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		Address:        strings.TrimSpace(req.Address),
		ConsumptionKWH: req.Consumption.Or(0),
		EscalatorPct:   req.Escalator.Or(types.DefaultEscalatorPct),
	}

	var missing []string
	if project.Address == "" {
		missing = append(missing, "address")
	}
	if project.ConsumptionKWH == 0 {
		missing = append(missing, "consumption")
	}
	if project.Name == "" {
		missing = append(missing, "name")
	}
	if project.EscalatorPct == 0 {
		missing = append(missing, "percentage")
	}
	if len(missing) > 0 {
		writeJSONError(w, "Missing required fields: "+strings.Join(missing, ", "), http.StatusBadRequest)
		return
	}
	in := types.CalculationInput{
		Address:              project.Address,
		AnnualConsumptionKWH: project.ConsumptionKWH,
		EscalatorPct:         project.EscalatorPct,
	}
	if err := in.Validate(); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	project, err := s.storage.CreateProject(ctx, project)
	metrics.ProjectsSavedTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to create project", slog.Any("error", err))
		writeJSONError(w, "An error occurred while creating the project", http.StatusInternalServerError)
		return
	}

	// the project exists regardless of whether anyone hears about it
	err = s.notifier.Notify(ctx, types.NewProjectEvent(types.EventProjectCreated, project))
	switch {
	case errors.Is(err, webhook.ErrDisabled):
		metrics.WebhookDeliveriesTotal.WithLabelValues("disabled").Inc()
	case err != nil:
		metrics.WebhookDeliveriesTotal.WithLabelValues("error").Inc()
		log.Ctx(ctx).WarnContext(ctx, "webhook delivery failed", slog.String("projectID", project.ID), slog.Any("error", err))
	default:
		metrics.WebhookDeliveriesTotal.WithLabelValues("ok").Inc()
	}

	writeJSON(w, createProjectResponse{
		ID:               project.ID,
		Message:          "Project created successfully",
		WebhookDelivered: err == nil,
	}, http.StatusCreated)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	project, err := s.storage.GetProject(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrProjectNotFound) {
			writeJSONError(w, "project not found", http.StatusNotFound)
			return
		}
		log.Ctx(ctx).ErrorContext(ctx, "failed to get project", slog.String("projectID", id), slog.Any("error", err))
		writeJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	// don't reveal that other users' projects exist
	if user := s.getUser(r); user.ID != "" && project.UserID != user.ID {
		writeJSONError(w, "project not found", http.StatusNotFound)
		return
	}

	writeJSON(w, project, http.StatusOK)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var limit int
	if l := r.URL.Query().Get("limit"); l != "" {
		var err error
		limit, err = strconv.Atoi(l)
		if err != nil || limit < 0 {
			writeJSONError(w, "invalid limit", http.StatusBadRequest)
			return
		}
	}

	projects, err := s.storage.ListProjects(ctx, s.getUser(r).ID, limit)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to list projects", slog.Any("error", err))
		writeJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if projects == nil {
		projects = []types.Project{}
	}
	writeJSON(w, projects, http.StatusOK)
}
