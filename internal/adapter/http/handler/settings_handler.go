package handler

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/iho/runway/internal/adapter/http/dto"
	"github.com/iho/runway/internal/domain"
	"github.com/iho/runway/internal/usecase"
)

// SettingsService defines the behavior needed by SettingsHandler.
type SettingsService interface {
	GetSettings(ctx context.Context) (domain.Settings, error)
	UpdateSettings(ctx context.Context, input usecase.UpdateSettingsInput) (domain.Settings, error)
}

// SettingsHandler handles settings requests.
type SettingsHandler struct {
	settingsUC SettingsService
	logger     zerolog.Logger
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsUC SettingsService, logger zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{settingsUC: settingsUC, logger: logger}
}

// Get returns the current settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsUC.GetSettings(r.Context())
	if err != nil {
		writeDomainError(w, h.logger, err, "Failed to load settings.")
		return
	}

	writeJSON(w, http.StatusOK, dto.SettingsFromDomain(settings))
}

// Update applies a partial settings update.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateSettingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, dto.CodeValidation, "Invalid settings payload.", err.Error())
		return
	}

	settings, err := h.settingsUC.UpdateSettings(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, h.logger, err, "Invalid settings payload.")
		return
	}

	writeJSON(w, http.StatusOK, dto.SettingsFromDomain(settings))
}
