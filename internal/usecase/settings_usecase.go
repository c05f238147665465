package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/runway/internal/domain"
)

// SettingsUseCase handles user settings.
type SettingsUseCase struct {
	settingsRepo    SettingsRepository
	defaultCurrency domain.Currency
}

// NewSettingsUseCase creates a new SettingsUseCase.
func NewSettingsUseCase(settingsRepo SettingsRepository, defaultCurrency domain.Currency) *SettingsUseCase {
	return &SettingsUseCase{
		settingsRepo:    settingsRepo,
		defaultCurrency: defaultCurrency,
	}
}

// GetSettings returns the stored settings with defaults applied.
func (uc *SettingsUseCase) GetSettings(ctx context.Context) (domain.Settings, error) {
	return loadSettings(ctx, uc.settingsRepo, uc.defaultCurrency)
}

// UpdateSettingsInput is a partial settings update.
type UpdateSettingsInput struct {
	Currency   *string
	CashOnHand *decimal.Decimal
	// ClearCashOnHand unsets cash on hand. It takes precedence over CashOnHand.
	ClearCashOnHand bool
}

// UpdateSettings merges input over the current settings and stores the result.
func (uc *SettingsUseCase) UpdateSettings(ctx context.Context, input UpdateSettingsInput) (domain.Settings, error) {
	settings, err := uc.GetSettings(ctx)
	if err != nil {
		return domain.Settings{}, err
	}

	if input.Currency != nil {
		currency, err := domain.ParseCurrency(*input.Currency)
		if err != nil {
			return domain.Settings{}, err
		}
		settings.Currency = currency
	}
	if input.CashOnHand != nil {
		settings.CashOnHand = decimal.NewNullDecimal(*input.CashOnHand)
	}
	if input.ClearCashOnHand {
		settings.CashOnHand = decimal.NullDecimal{}
	}

	if err := settings.Validate(); err != nil {
		return domain.Settings{}, err
	}

	if err := uc.settingsRepo.Save(ctx, settings); err != nil {
		return domain.Settings{}, err
	}

	return settings, nil
}

func loadSettings(ctx context.Context, repo SettingsRepository, defaultCurrency domain.Currency) (domain.Settings, error) {
	settings, err := repo.Get(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	if settings.Currency == "" {
		settings.Currency = defaultCurrency
	}
	return settings, nil
}
