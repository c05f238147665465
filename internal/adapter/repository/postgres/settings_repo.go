package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/runway/internal/domain"
)

const (
	settingCurrency   = "currency"
	settingCashOnHand = "cash_on_hand"
)

const (
	listSettingsSQL  = `SELECT key, value FROM settings`
	upsertSettingSQL = `INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	deleteSettingSQL = `DELETE FROM settings WHERE key = $1`
)

// SettingsRepository implements usecase.SettingsRepository on a key/value table.
type SettingsRepository struct {
	pool    db
	retrier *Retrier
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(pool *pgxpool.Pool, retrier *Retrier) *SettingsRepository {
	return newSettingsRepository(pool, retrier)
}

func newSettingsRepository(pool db, retrier *Retrier) *SettingsRepository {
	return &SettingsRepository{pool: pool, retrier: retrier}
}

// Get reads the settings. Missing keys leave the zero value.
func (r *SettingsRepository) Get(ctx context.Context) (domain.Settings, error) {
	values := make(map[string]string)

	err := r.retrier.Retry(ctx, func() error {
		rows, err := r.pool.Query(ctx, listSettingsSQL)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var key, value string
			if err := rows.Scan(&key, &value); err != nil {
				return err
			}
			values[key] = value
		}
		return rows.Err()
	})
	if err != nil {
		return domain.Settings{}, err
	}

	var settings domain.Settings
	if raw, ok := values[settingCurrency]; ok {
		currency, err := domain.ParseCurrency(raw)
		if err != nil {
			return domain.Settings{}, fmt.Errorf("stored settings: %w", err)
		}
		settings.Currency = currency
	}
	if raw, ok := values[settingCashOnHand]; ok {
		cash, err := decimal.NewFromString(raw)
		if err != nil {
			return domain.Settings{}, fmt.Errorf("stored settings: invalid cash on hand %q: %w", raw, err)
		}
		settings.CashOnHand = decimal.NewNullDecimal(cash)
	}

	return settings, nil
}

// Save writes both keys atomically. Unset cash on hand deletes its row.
func (r *SettingsRepository) Save(ctx context.Context, settings domain.Settings) error {
	return r.retrier.Retry(ctx, func() error {
		return inTx(ctx, r.pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, upsertSettingSQL, settingCurrency, string(settings.Currency)); err != nil {
				return err
			}

			if settings.CashOnHand.Valid {
				_, err := tx.Exec(ctx, upsertSettingSQL, settingCashOnHand, settings.CashOnHand.Decimal.String())
				return err
			}

			_, err := tx.Exec(ctx, deleteSettingSQL, settingCashOnHand)
			return err
		})
	})
}
