package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/iho/runway/internal/adapter/http/dto"
	"github.com/iho/runway/internal/domain"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// writeJSON writes data in a success envelope.
func writeJSON(w http.ResponseWriter, status int, data any) {
	writeEnvelope(w, status, dto.Success(data))
}

// writeError writes an error envelope.
func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	writeEnvelope(w, status, dto.Failure(code, message, details))
}

func writeEnvelope(w http.ResponseWriter, status int, env dto.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// writeDomainError maps err to a status and code. Unexpected errors are logged and hidden.
func writeDomainError(w http.ResponseWriter, logger zerolog.Logger, err error, message string) {
	status, code := mapDomainError(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Msg(message)
		writeError(w, status, code, "Internal server error.", nil)
		return
	}
	writeError(w, status, code, message, err.Error())
}

// mapDomainError maps domain errors to HTTP status codes and error codes.
func mapDomainError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrEntryNotFound):
		return http.StatusNotFound, dto.CodeNotFound
	case errors.Is(err, domain.ErrInvalidEntry),
		errors.Is(err, domain.ErrInvalidEntryType),
		errors.Is(err, domain.ErrInvalidFrequency),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrInvalidConcept),
		errors.Is(err, domain.ErrNotesTooLong),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidMonth),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrNegativeCashOnHand):
		return http.StatusBadRequest, dto.CodeValidation
	case errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, dto.CodeUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, dto.CodeForbidden
	default:
		return http.StatusInternalServerError, dto.CodeInternal
	}
}

// decodeJSON decodes a bounded request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

// parseMonthQuery parses an optional YYYY-MM query parameter.
func parseMonthQuery(r *http.Request, key string) (*domain.Month, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	m, err := domain.ParseMonth(raw)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) (int, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(val)
}
