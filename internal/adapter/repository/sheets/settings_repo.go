package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/runway/internal/domain"
)

const (
	settingCurrency   = "currency"
	settingCashOnHand = "cashOnHand"
)

// SettingsRepository implements usecase.SettingsRepository on a key/value tab.
type SettingsRepository struct {
	client *Client
	tab    string
	logger zerolog.Logger
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(client *Client, tab string, logger zerolog.Logger) *SettingsRepository {
	return &SettingsRepository{client: client, tab: tab, logger: logger}
}

// Get reads the settings. A missing currency is left empty for the caller to default;
// blank, unparseable or negative cash on hand reads as unset.
func (r *SettingsRepository) Get(ctx context.Context) (domain.Settings, error) {
	if err := r.client.EnsureHeaders(ctx, r.tab, SettingsHeaders); err != nil {
		return domain.Settings{}, err
	}

	rows, err := r.client.Read(ctx, r.tab+"!A2:B")
	if err != nil {
		return domain.Settings{}, err
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		key := strings.TrimSpace(fmt.Sprint(row[0]))
		if key == "" {
			continue
		}
		value := ""
		if len(row) > 1 && row[1] != nil {
			value = strings.TrimSpace(fmt.Sprint(row[1]))
		}
		values[key] = value
	}

	var settings domain.Settings
	if raw := values[settingCurrency]; raw != "" {
		currency, err := domain.ParseCurrency(raw)
		if err != nil {
			return domain.Settings{}, fmt.Errorf("stored settings: %w", err)
		}
		settings.Currency = currency
	}

	if raw := values[settingCashOnHand]; raw != "" {
		cash, err := decimal.NewFromString(raw)
		if err != nil || cash.IsNegative() {
			r.logger.Warn().Str("value", raw).Msg("ignoring invalid cash on hand setting")
		} else {
			settings.CashOnHand = decimal.NewNullDecimal(cash)
		}
	}

	return settings, nil
}

// Save overwrites both setting rows.
func (r *SettingsRepository) Save(ctx context.Context, settings domain.Settings) error {
	if err := r.client.EnsureHeaders(ctx, r.tab, SettingsHeaders); err != nil {
		return err
	}

	cash := ""
	if settings.CashOnHand.Valid {
		cash = settings.CashOnHand.Decimal.String()
	}

	return r.client.Write(ctx, r.tab+"!A2:B", [][]any{
		{settingCurrency, string(settings.Currency)},
		{settingCashOnHand, cash},
	})
}
