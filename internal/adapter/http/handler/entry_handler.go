package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/iho/runway/internal/adapter/http/dto"
	"github.com/iho/runway/internal/domain"
	"github.com/iho/runway/internal/usecase"
)

// EntryService defines the behavior needed by EntryHandler.
type EntryService interface {
	ListEntries(ctx context.Context, input usecase.ListEntriesInput) ([]domain.EntryView, error)
	GetEntry(ctx context.Context, id string) (*domain.Entry, error)
	CreateEntry(ctx context.Context, input usecase.CreateEntryInput) (*domain.Entry, error)
	UpdateEntry(ctx context.Context, id string, input usecase.UpdateEntryInput) (*domain.Entry, error)
	DeleteEntry(ctx context.Context, id string) error
}

// EntryHandler handles entry-related HTTP requests.
type EntryHandler struct {
	entryUC EntryService
	logger  zerolog.Logger
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryUC EntryService, logger zerolog.Logger) *EntryHandler {
	return &EntryHandler{entryUC: entryUC, logger: logger}
}

// List lists entries with their monthly equivalent, optionally filtered by type and frequency.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	var input usecase.ListEntriesInput

	if raw := r.URL.Query().Get("type"); raw != "" {
		t, err := domain.ParseEntryType(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, dto.CodeValidation, "Invalid type filter.", err.Error())
			return
		}
		input.Type = t
	}

	if raw := r.URL.Query().Get("frequency"); raw != "" {
		f, err := domain.ParseFrequency(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, dto.CodeValidation, "Invalid frequency filter.", err.Error())
			return
		}
		input.Frequency = f
	}

	month, err := parseMonthQuery(r, "month")
	if err != nil {
		writeError(w, http.StatusBadRequest, dto.CodeValidation, "Invalid month.", err.Error())
		return
	}
	input.Month = month

	views, err := h.entryUC.ListEntries(r.Context(), input)
	if err != nil {
		writeDomainError(w, h.logger, err, "Failed to list entries.")
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryViewsFromDomain(views))
}

// Get retrieves an entry by ID.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.entryUC.GetEntry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, h.logger, err, "Entry not found.")
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// Create creates a new entry.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEntryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, dto.CodeValidation, "Invalid entry payload.", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, dto.CodeValidation, "Invalid entry payload.", err.Error())
		return
	}

	entry, err := h.entryUC.CreateEntry(r.Context(), input)
	if err != nil {
		writeDomainError(w, h.logger, err, "Invalid entry payload.")
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// Update applies a partial update to an entry.
func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateEntryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, dto.CodeValidation, "Invalid entry update payload.", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, dto.CodeValidation, "Invalid entry update payload.", err.Error())
		return
	}

	entry, err := h.entryUC.UpdateEntry(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeDomainError(w, h.logger, err, "Invalid entry update payload.")
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// Delete removes an entry.
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.entryUC.DeleteEntry(r.Context(), id); err != nil {
		writeDomainError(w, h.logger, err, "Entry not found.")
		return
	}

	writeJSON(w, http.StatusOK, dto.DeletedResponse{ID: id})
}
