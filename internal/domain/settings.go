package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is the display currency. It never affects arithmetic.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyARS Currency = "ARS"
)

// ParseCurrency parses a case-insensitive currency code.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	switch c {
	case CurrencyUSD, CurrencyARS:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, s)
	}
}

// Settings holds user preferences used by the dashboard.
type Settings struct {
	Currency   Currency
	CashOnHand decimal.NullDecimal
}

// DefaultSettings returns settings with the given currency and no cash on hand.
func DefaultSettings(currency Currency) Settings {
	return Settings{Currency: currency}
}

// Validate checks the settings invariants.
func (s Settings) Validate() error {
	if _, err := ParseCurrency(string(s.Currency)); err != nil {
		return err
	}
	if s.CashOnHand.Valid && s.CashOnHand.Decimal.IsNegative() {
		return ErrNegativeCashOnHand
	}
	return nil
}
