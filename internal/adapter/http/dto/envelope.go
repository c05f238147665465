package dto

// Error codes returned in the envelope.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "CONFLICT"
	CodeRateLimited  = "RATE_LIMITED"
	CodeUnavailable  = "UNAVAILABLE"
	CodeInternal     = "INTERNAL_ERROR"
)

// Envelope wraps every API response. Exactly one of Data and Error is set.
type Envelope struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Success wraps data in an envelope.
func Success(data any) Envelope {
	return Envelope{Data: data}
}

// Failure wraps an error in an envelope.
func Failure(code, message string, details any) Envelope {
	return Envelope{Error: &APIError{Code: code, Message: message, Details: details}}
}
