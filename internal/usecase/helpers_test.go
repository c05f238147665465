package usecase_test

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/runway/internal/domain"
	"github.com/iho/runway/internal/usecase"
)

var fixedNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() usecase.Clock {
	return usecase.ClockFunc(func() time.Time { return fixedNow })
}

func mustDate(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func ptr[T any](v T) *T {
	return &v
}

func sampleEntries() []domain.Entry {
	return []domain.Entry{
		{
			ID: "e1", Concept: "Salary", Type: domain.EntryTypeIncome, Frequency: domain.FrequencyMonthly,
			Amount: decimal.NewFromInt(5000), StartDate: mustDate("2024-01-01"),
		},
		{
			ID: "e2", Concept: "Rent", Type: domain.EntryTypeExpense, Frequency: domain.FrequencyMonthly,
			Amount: decimal.NewFromInt(1500), StartDate: mustDate("2024-01-01"),
		},
		{
			ID: "e3", Concept: "Insurance", Type: domain.EntryTypeExpense, Frequency: domain.FrequencyAnnual,
			Amount: decimal.NewFromInt(1200), StartDate: mustDate("2024-01-01"),
		},
		{
			ID: "e4", Concept: "Bonus", Type: domain.EntryTypeIncome, Frequency: domain.FrequencyOneTime,
			Amount: decimal.NewFromInt(3000), StartDate: mustDate("2024-08-01"),
		},
	}
}
