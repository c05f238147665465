package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/runway/internal/domain"
	"github.com/iho/runway/internal/usecase"
)

// OptionalString distinguishes an absent field from an explicit null.
type OptionalString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// OptionalDecimal distinguishes an absent field from an explicit null.
type OptionalDecimal struct {
	Set   bool
	Value *decimal.Decimal
}

// UnmarshalJSON implements json.Unmarshaler. Numbers and numeric strings are accepted.
func (o *OptionalDecimal) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	o.Value = &d
	return nil
}

// CreateEntryRequest represents a request to create an entry.
type CreateEntryRequest struct {
	Concept   string          `json:"concept"`
	Type      string          `json:"type"`
	Frequency string          `json:"frequency"`
	Amount    decimal.Decimal `json:"amount"`
	StartDate string          `json:"start_date"`
	EndDate   *string         `json:"end_date"`
	Notes     string          `json:"notes"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateEntryRequest) ToUseCaseInput() (usecase.CreateEntryInput, error) {
	start, err := domain.ParseDate(r.StartDate)
	if err != nil {
		return usecase.CreateEntryInput{}, err
	}

	end, err := parseOptionalDate(r.EndDate)
	if err != nil {
		return usecase.CreateEntryInput{}, err
	}

	return usecase.CreateEntryInput{
		Concept:   r.Concept,
		Type:      r.Type,
		Frequency: r.Frequency,
		Amount:    r.Amount,
		StartDate: start,
		EndDate:   end,
		Notes:     r.Notes,
	}, nil
}

// UpdateEntryRequest represents a partial entry update. Absent fields are left unchanged;
// an explicit null end_date clears it.
type UpdateEntryRequest struct {
	Concept   *string          `json:"concept"`
	Type      *string          `json:"type"`
	Frequency *string          `json:"frequency"`
	Amount    *decimal.Decimal `json:"amount"`
	StartDate *string          `json:"start_date"`
	EndDate   OptionalString   `json:"end_date"`
	Notes     *string          `json:"notes"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateEntryRequest) ToUseCaseInput() (usecase.UpdateEntryInput, error) {
	input := usecase.UpdateEntryInput{
		Concept:   r.Concept,
		Type:      r.Type,
		Frequency: r.Frequency,
		Amount:    r.Amount,
		Notes:     r.Notes,
	}

	if r.StartDate != nil {
		start, err := domain.ParseDate(*r.StartDate)
		if err != nil {
			return usecase.UpdateEntryInput{}, err
		}
		input.StartDate = &start
	}

	if r.EndDate.Set {
		end, err := parseOptionalDate(r.EndDate.Value)
		if err != nil {
			return usecase.UpdateEntryInput{}, err
		}
		input.EndDate = end
		input.ClearEndDate = end == nil
	}

	return input, nil
}

// UpdateSettingsRequest represents a partial settings update. An explicit null
// cashOnHand clears it.
type UpdateSettingsRequest struct {
	Currency   *string         `json:"currency"`
	CashOnHand OptionalDecimal `json:"cashOnHand"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateSettingsRequest) ToUseCaseInput() usecase.UpdateSettingsInput {
	input := usecase.UpdateSettingsInput{Currency: r.Currency}
	if r.CashOnHand.Set {
		input.CashOnHand = r.CashOnHand.Value
		input.ClearCashOnHand = r.CashOnHand.Value == nil
	}
	return input
}

// parseOptionalDate treats nil and blank strings as no date.
func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := domain.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
