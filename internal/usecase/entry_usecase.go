package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/runway/internal/domain"
)

// EntryUseCase handles entry business logic.
type EntryUseCase struct {
	entryRepo EntryRepository
	idGen     IDGenerator
	clock     Clock
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(entryRepo EntryRepository, idGen IDGenerator, clock Clock) *EntryUseCase {
	if clock == nil {
		clock = SystemClock
	}
	return &EntryUseCase{
		entryRepo: entryRepo,
		idGen:     idGen,
		clock:     clock,
	}
}

// ListEntriesInput represents input for listing entries.
type ListEntriesInput struct {
	Type      domain.EntryType
	Frequency domain.Frequency
	// Month selects the month the monthly equivalents are computed for. Nil means the current month.
	Month *domain.Month
}

// ListEntries lists entries matching the filter together with their monthly equivalent.
func (uc *EntryUseCase) ListEntries(ctx context.Context, input ListEntriesInput) ([]domain.EntryView, error) {
	entries, err := uc.entryRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	month := resolveMonth(input.Month, uc.clock)
	filtered := domain.FilterEntries(entries, domain.EntryFilter{Type: input.Type, Frequency: input.Frequency})

	return domain.ViewsForMonth(filtered, month), nil
}

// GetEntry retrieves an entry by ID.
func (uc *EntryUseCase) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	return uc.entryRepo.GetByID(ctx, id)
}

// CreateEntryInput represents input for creating an entry.
type CreateEntryInput struct {
	Concept   string
	Type      string
	Frequency string
	Amount    decimal.Decimal
	StartDate time.Time
	EndDate   *time.Time
	Notes     string
}

// CreateEntry validates and stores a new entry. One-time entries lose any end date.
func (uc *EntryUseCase) CreateEntry(ctx context.Context, input CreateEntryInput) (*domain.Entry, error) {
	entryType, err := domain.ParseEntryType(input.Type)
	if err != nil {
		return nil, err
	}

	frequency, err := domain.ParseFrequency(input.Frequency)
	if err != nil {
		return nil, err
	}

	entry := domain.NormalizeForFrequency(domain.Entry{
		ID:        uc.idGen.Generate(),
		Concept:   strings.TrimSpace(input.Concept),
		Type:      entryType,
		Frequency: frequency,
		Amount:    input.Amount,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Notes:     strings.TrimSpace(input.Notes),
	})

	if err := domain.ValidateEntry(entry); err != nil {
		return nil, err
	}

	if err := uc.entryRepo.Create(ctx, &entry); err != nil {
		return nil, err
	}

	return &entry, nil
}

// UpdateEntryInput is a partial update. Nil fields keep the stored value.
type UpdateEntryInput struct {
	Concept   *string
	Type      *string
	Frequency *string
	Amount    *decimal.Decimal
	StartDate *time.Time
	EndDate   *time.Time
	// ClearEndDate removes the end date. It takes precedence over EndDate.
	ClearEndDate bool
	Notes        *string
}

// UpdateEntry merges input over the stored entry, then normalizes and validates the result.
func (uc *EntryUseCase) UpdateEntry(ctx context.Context, id string, input UpdateEntryInput) (*domain.Entry, error) {
	existing, err := uc.entryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	entry := *existing

	if input.Concept != nil {
		entry.Concept = strings.TrimSpace(*input.Concept)
	}
	if input.Type != nil {
		if entry.Type, err = domain.ParseEntryType(*input.Type); err != nil {
			return nil, err
		}
	}
	if input.Frequency != nil {
		if entry.Frequency, err = domain.ParseFrequency(*input.Frequency); err != nil {
			return nil, err
		}
	}
	if input.Amount != nil {
		entry.Amount = *input.Amount
	}
	if input.StartDate != nil {
		entry.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		end := *input.EndDate
		entry.EndDate = &end
	}
	if input.ClearEndDate {
		entry.EndDate = nil
	}
	if input.Notes != nil {
		entry.Notes = strings.TrimSpace(*input.Notes)
	}

	entry = domain.NormalizeForFrequency(entry)
	if err := domain.ValidateEntry(entry); err != nil {
		return nil, err
	}

	if err := uc.entryRepo.Update(ctx, &entry); err != nil {
		return nil, err
	}

	return &entry, nil
}

// DeleteEntry removes an entry by ID.
func (uc *EntryUseCase) DeleteEntry(ctx context.Context, id string) error {
	return uc.entryRepo.Delete(ctx, id)
}

func resolveMonth(month *domain.Month, clock Clock) domain.Month {
	if month != nil {
		return *month
	}
	return domain.MonthOf(clock.Now())
}
