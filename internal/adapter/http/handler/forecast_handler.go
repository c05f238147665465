package handler

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/iho/runway/internal/adapter/http/dto"
	"github.com/iho/runway/internal/domain"
	"github.com/iho/runway/internal/usecase"
)

// ForecastService defines the behavior needed by ForecastHandler.
type ForecastService interface {
	Dashboard(ctx context.Context, month *domain.Month) (*usecase.Dashboard, error)
	Projection(ctx context.Context, input usecase.ProjectionInput) (*usecase.ProjectionReport, error)
	Horizons(ctx context.Context, month *domain.Month) (*usecase.HorizonsReport, error)
	Insights(ctx context.Context, month *domain.Month) (*domain.InsightsData, error)
}

// ForecastHandler serves the computed views.
type ForecastHandler struct {
	forecastUC ForecastService
	logger     zerolog.Logger
}

// NewForecastHandler creates a new ForecastHandler.
func NewForecastHandler(forecastUC ForecastService, logger zerolog.Logger) *ForecastHandler {
	return &ForecastHandler{forecastUC: forecastUC, logger: logger}
}

// Dashboard returns KPIs, projection, horizons and insights for ?month.
func (h *ForecastHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	month, ok := h.month(w, r, "month")
	if !ok {
		return
	}

	dashboard, err := h.forecastUC.Dashboard(r.Context(), month)
	if err != nil {
		writeDomainError(w, h.logger, err, "Failed to build dashboard.")
		return
	}

	writeJSON(w, http.StatusOK, dto.DashboardFromUseCase(dashboard))
}

// Projection returns ?months rows starting at ?start.
func (h *ForecastHandler) Projection(w http.ResponseWriter, r *http.Request) {
	start, ok := h.month(w, r, "start")
	if !ok {
		return
	}

	months, err := parseIntQuery(r, "months", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, dto.CodeValidation, "Invalid months.", err.Error())
		return
	}

	report, err := h.forecastUC.Projection(r.Context(), usecase.ProjectionInput{Start: start, Months: months})
	if err != nil {
		writeDomainError(w, h.logger, err, "Failed to build projection.")
		return
	}

	writeJSON(w, http.StatusOK, dto.ProjectionFromUseCase(report))
}

// Horizons returns the four projection horizons for ?month.
func (h *ForecastHandler) Horizons(w http.ResponseWriter, r *http.Request) {
	month, ok := h.month(w, r, "month")
	if !ok {
		return
	}

	report, err := h.forecastUC.Horizons(r.Context(), month)
	if err != nil {
		writeDomainError(w, h.logger, err, "Failed to build horizons.")
		return
	}

	writeJSON(w, http.StatusOK, dto.HorizonsFromUseCase(report))
}

// Insights returns the insights for ?month.
func (h *ForecastHandler) Insights(w http.ResponseWriter, r *http.Request) {
	month, ok := h.month(w, r, "month")
	if !ok {
		return
	}

	insights, err := h.forecastUC.Insights(r.Context(), month)
	if err != nil {
		writeDomainError(w, h.logger, err, "Failed to build insights.")
		return
	}

	writeJSON(w, http.StatusOK, dto.InsightsFromDomain(*insights))
}

func (h *ForecastHandler) month(w http.ResponseWriter, r *http.Request, key string) (*domain.Month, bool) {
	month, err := parseMonthQuery(r, key)
	if err != nil {
		writeError(w, http.StatusBadRequest, dto.CodeValidation, "Invalid "+key+".", err.Error())
		return nil, false
	}
	return month, true
}
