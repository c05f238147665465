package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MinConceptLength = 1
	MaxConceptLength = 120
	MaxNotesLength   = 500
)

// ValidateConcept validates an entry concept.
func ValidateConcept(concept string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(concept))

	if n < MinConceptLength {
		return fmt.Errorf("%w: concept cannot be empty", ErrInvalidConcept)
	}

	if n > MaxConceptLength {
		return fmt.Errorf("%w: concept exceeds %d characters", ErrInvalidConcept, MaxConceptLength)
	}

	return nil
}

// ValidateAmount validates an entry amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateNotes validates free-text notes.
func ValidateNotes(notes string) error {
	if utf8.RuneCountInString(notes) > MaxNotesLength {
		return fmt.Errorf("%w: max %d characters", ErrNotesTooLong, MaxNotesLength)
	}
	return nil
}

// ValidateEntry checks every boundary invariant of an entry. The engine assumes this has passed.
func ValidateEntry(e Entry) error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidEntry)
	}

	if err := ValidateConcept(e.Concept); err != nil {
		return err
	}

	if _, err := ParseEntryType(string(e.Type)); err != nil {
		return err
	}

	if _, err := ParseFrequency(string(e.Frequency)); err != nil {
		return err
	}

	if err := ValidateAmount(e.Amount); err != nil {
		return err
	}

	if e.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidDate)
	}

	if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
		return ErrInvalidDateRange
	}

	if e.Frequency == FrequencyOneTime && e.EndDate != nil {
		return fmt.Errorf("%w: one-time entries cannot have an end date", ErrInvalidDateRange)
	}

	return ValidateNotes(e.Notes)
}

// NormalizeForFrequency clears the end date of one-time entries.
func NormalizeForFrequency(e Entry) Entry {
	if e.Frequency == FrequencyOneTime {
		e.EndDate = nil
	}
	return e
}
