package domain

import "errors"

var (
	// Entry errors
	ErrEntryNotFound    = errors.New("entry not found")
	ErrInvalidEntry     = errors.New("invalid entry")
	ErrInvalidEntryType = errors.New("invalid entry type")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidDateRange = errors.New("end date must be on or after start date")
	ErrInvalidConcept   = errors.New("invalid concept")
	ErrNotesTooLong     = errors.New("notes exceed maximum length")

	// Calendar errors
	ErrInvalidDate  = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidMonth = errors.New("invalid month, expected YYYY-MM")

	// Settings errors
	ErrInvalidCurrency    = errors.New("invalid currency")
	ErrNegativeCashOnHand = errors.New("cash on hand cannot be negative")

	// Auth errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("email is not allowed")
)
