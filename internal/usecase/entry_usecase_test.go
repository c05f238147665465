package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/runway/internal/domain"
	"github.com/iho/runway/internal/usecase"
	"github.com/iho/runway/internal/usecase/mocks"
)

func TestEntryUseCase_ListEntries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	entryRepo := mocks.NewMockEntryRepository(ctrl)
	entryRepo.EXPECT().List(gomock.Any()).Return(sampleEntries(), nil).Times(2)

	uc := usecase.NewEntryUseCase(entryRepo, mocks.NewMockIDGenerator(ctrl), fixedClock())

	views, err := uc.ListEntries(context.Background(), usecase.ListEntriesInput{Type: domain.EntryTypeExpense})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(views))
	}
	if !views[1].MonthlyEquivalent.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected annual insurance monthly equivalent 100, got %s", views[1].MonthlyEquivalent)
	}

	month := domain.MustParseMonth("2024-08")
	views, err = uc.ListEntries(context.Background(), usecase.ListEntriesInput{Frequency: domain.FrequencyOneTime, Month: &month})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 1 || !views[0].MonthlyEquivalent.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("expected bonus to land in 2024-08, got %+v", views)
	}
}

func TestEntryUseCase_ListEntries_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repoErr := errors.New("store unavailable")
	entryRepo := mocks.NewMockEntryRepository(ctrl)
	entryRepo.EXPECT().List(gomock.Any()).Return(nil, repoErr)

	uc := usecase.NewEntryUseCase(entryRepo, mocks.NewMockIDGenerator(ctrl), fixedClock())

	if _, err := uc.ListEntries(context.Background(), usecase.ListEntriesInput{}); !errors.Is(err, repoErr) {
		t.Fatalf("expected repo error, got %v", err)
	}
}

func TestEntryUseCase_CreateEntry(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.CreateEntryInput
		expectStore bool
		errorType   error
	}{
		{
			name: "monthly expense",
			input: usecase.CreateEntryInput{
				Concept: "  Rent ", Type: "expense", Frequency: "monthly",
				Amount: decimal.NewFromInt(1000), StartDate: mustDate("2024-01-01"),
			},
			expectStore: true,
		},
		{
			name: "one-time end date is dropped",
			input: usecase.CreateEntryInput{
				Concept: "Bonus", Type: "income", Frequency: "one_time",
				Amount: decimal.NewFromInt(5000), StartDate: mustDate("2024-03-01"), EndDate: ptr(mustDate("2024-12-31")),
			},
			expectStore: true,
		},
		{
			name: "yearly alias",
			input: usecase.CreateEntryInput{
				Concept: "Domain", Type: "expense", Frequency: "yearly",
				Amount: decimal.NewFromInt(12), StartDate: mustDate("2024-01-01"),
			},
			expectStore: true,
		},
		{
			name: "invalid type",
			input: usecase.CreateEntryInput{
				Concept: "Rent", Type: "transfer", Frequency: "monthly",
				Amount: decimal.NewFromInt(1000), StartDate: mustDate("2024-01-01"),
			},
			errorType: domain.ErrInvalidEntryType,
		},
		{
			name: "non-positive amount",
			input: usecase.CreateEntryInput{
				Concept: "Rent", Type: "expense", Frequency: "monthly",
				Amount: decimal.Zero, StartDate: mustDate("2024-01-01"),
			},
			errorType: domain.ErrInvalidAmount,
		},
		{
			name: "end before start",
			input: usecase.CreateEntryInput{
				Concept: "Rent", Type: "expense", Frequency: "monthly",
				Amount: decimal.NewFromInt(1000), StartDate: mustDate("2024-05-01"), EndDate: ptr(mustDate("2024-04-30")),
			},
			errorType: domain.ErrInvalidDateRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			entryRepo := mocks.NewMockEntryRepository(ctrl)
			idGen := mocks.NewMockIDGenerator(ctrl)
			idGen.EXPECT().Generate().Return("01HZXENTRY").AnyTimes()
			if tt.expectStore {
				entryRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
			}

			uc := usecase.NewEntryUseCase(entryRepo, idGen, fixedClock())
			entry, err := uc.CreateEntry(context.Background(), tt.input)

			if tt.errorType != nil {
				if !errors.Is(err, tt.errorType) {
					t.Fatalf("expected %v, got %v", tt.errorType, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if entry.ID != "01HZXENTRY" {
				t.Errorf("expected generated ID, got %q", entry.ID)
			}
			if entry.Frequency == domain.FrequencyOneTime && entry.EndDate != nil {
				t.Errorf("expected one-time entry without end date")
			}
			if tt.input.Frequency == "yearly" && entry.Frequency != domain.FrequencyAnnual {
				t.Errorf("expected yearly to map to annual, got %s", entry.Frequency)
			}
			if entry.Concept != "Rent" && tt.name == "monthly expense" {
				t.Errorf("expected trimmed concept, got %q", entry.Concept)
			}
		})
	}
}

func TestEntryUseCase_UpdateEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	stored := domain.Entry{
		ID: "e1", Concept: "Gym", Type: domain.EntryTypeExpense, Frequency: domain.FrequencyMonthly,
		Amount: decimal.NewFromInt(50), StartDate: mustDate("2024-01-01"), EndDate: ptr(mustDate("2024-12-31")),
	}

	entryRepo := mocks.NewMockEntryRepository(ctrl)
	entryRepo.EXPECT().GetByID(gomock.Any(), "e1").Return(&stored, nil)
	entryRepo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e *domain.Entry) error {
		if e.Frequency != domain.FrequencyOneTime {
			t.Errorf("expected frequency one_time, got %s", e.Frequency)
		}
		if e.EndDate != nil {
			t.Errorf("expected end date to be cleared by normalization")
		}
		return nil
	})

	uc := usecase.NewEntryUseCase(entryRepo, mocks.NewMockIDGenerator(ctrl), fixedClock())

	amount := decimal.NewFromInt(600)
	entry, err := uc.UpdateEntry(context.Background(), "e1", usecase.UpdateEntryInput{
		Frequency: ptr("one_time"),
		Amount:    &amount,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Concept != "Gym" || !entry.Amount.Equal(amount) {
		t.Fatalf("unexpected merged entry %+v", entry)
	}
	if stored.EndDate == nil {
		t.Fatalf("stored entry must not be mutated")
	}
}

func TestEntryUseCase_UpdateEntry_ClearEndDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	stored := domain.Entry{
		ID: "e1", Concept: "Gym", Type: domain.EntryTypeExpense, Frequency: domain.FrequencyMonthly,
		Amount: decimal.NewFromInt(50), StartDate: mustDate("2024-01-01"), EndDate: ptr(mustDate("2024-12-31")),
	}

	entryRepo := mocks.NewMockEntryRepository(ctrl)
	entryRepo.EXPECT().GetByID(gomock.Any(), "e1").Return(&stored, nil)
	entryRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	uc := usecase.NewEntryUseCase(entryRepo, mocks.NewMockIDGenerator(ctrl), fixedClock())

	entry, err := uc.UpdateEntry(context.Background(), "e1", usecase.UpdateEntryInput{
		EndDate:      ptr(mustDate("2025-01-01")),
		ClearEndDate: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.EndDate != nil {
		t.Fatalf("expected end date to be cleared")
	}
}

func TestEntryUseCase_UpdateEntry_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	stored := domain.Entry{
		ID: "e1", Concept: "Gym", Type: domain.EntryTypeExpense, Frequency: domain.FrequencyMonthly,
		Amount: decimal.NewFromInt(50), StartDate: mustDate("2024-06-01"),
	}

	entryRepo := mocks.NewMockEntryRepository(ctrl)
	entryRepo.EXPECT().GetByID(gomock.Any(), "e1").Return(&stored, nil)

	uc := usecase.NewEntryUseCase(entryRepo, mocks.NewMockIDGenerator(ctrl), fixedClock())

	_, err := uc.UpdateEntry(context.Background(), "e1", usecase.UpdateEntryInput{EndDate: ptr(mustDate("2024-05-01"))})
	if !errors.Is(err, domain.ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
}

func TestEntryUseCase_UpdateEntry_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	entryRepo := mocks.NewMockEntryRepository(ctrl)
	entryRepo.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, domain.ErrEntryNotFound)

	uc := usecase.NewEntryUseCase(entryRepo, mocks.NewMockIDGenerator(ctrl), fixedClock())

	if _, err := uc.UpdateEntry(context.Background(), "missing", usecase.UpdateEntryInput{}); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestEntryUseCase_DeleteEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	entryRepo := mocks.NewMockEntryRepository(ctrl)
	entryRepo.EXPECT().Delete(gomock.Any(), "e1").Return(nil)

	uc := usecase.NewEntryUseCase(entryRepo, mocks.NewMockIDGenerator(ctrl), fixedClock())

	if err := uc.DeleteEntry(context.Background(), "e1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
