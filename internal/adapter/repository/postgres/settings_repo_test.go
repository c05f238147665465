package postgres

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/runway/internal/domain"
)

func TestSettingsRepository_GetEmpty(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectQuery(listSettingsSQL).WillReturnRows(pgxmock.NewRows([]string{"key", "value"}))

	repo := newSettingsRepository(mockPool, testRetrier())
	settings, err := repo.Get(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Currency != "" || settings.CashOnHand.Valid {
		t.Fatalf("expected zero settings, got %+v", settings)
	}
}

func TestSettingsRepository_Get(t *testing.T) {
	mockPool := newMockPool(t)
	rows := pgxmock.NewRows([]string{"key", "value"}).
		AddRow(settingCurrency, "ars").
		AddRow(settingCashOnHand, "12500.50")
	mockPool.ExpectQuery(listSettingsSQL).WillReturnRows(rows)

	repo := newSettingsRepository(mockPool, testRetrier())
	settings, err := repo.Get(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Currency != domain.CurrencyARS {
		t.Fatalf("expected ARS, got %q", settings.Currency)
	}
	if !settings.CashOnHand.Valid || settings.CashOnHand.Decimal.String() != "12500.5" {
		t.Fatalf("unexpected cash on hand %+v", settings.CashOnHand)
	}
}

func TestSettingsRepository_SaveWithCash(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectExec(upsertSettingSQL).WithArgs(settingCurrency, "USD").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectExec(upsertSettingSQL).WithArgs(settingCashOnHand, "3000").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectCommit()

	repo := newSettingsRepository(mockPool, testRetrier())
	err := repo.Save(context.Background(), domain.Settings{
		Currency:   domain.CurrencyUSD,
		CashOnHand: decimal.NewNullDecimal(decimal.NewFromInt(3000)),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestSettingsRepository_SaveClearsCash(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectExec(upsertSettingSQL).WithArgs(settingCurrency, "ARS").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectExec(deleteSettingSQL).WithArgs(settingCashOnHand).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mockPool.ExpectCommit()

	repo := newSettingsRepository(mockPool, testRetrier())
	if err := repo.Save(context.Background(), domain.Settings{Currency: domain.CurrencyARS}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, mockPool)
}
