// Package format renders money and months for human-readable output.
package format

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/iho/runway/internal/domain"
)

var localeByCurrency = map[domain.Currency]language.Tag{
	domain.CurrencyUSD: language.AmericanEnglish,
	domain.CurrencyARS: language.MustParse("es-AR"),
}

var symbolByCurrency = map[domain.Currency]string{
	domain.CurrencyUSD: "$",
	domain.CurrencyARS: "$ ",
}

// Currency formats value with two decimals in the locale that goes with currency.
// Unknown currencies fall back to en-US with the code as prefix.
func Currency(value decimal.Decimal, currency domain.Currency) string {
	tag, ok := localeByCurrency[currency]
	symbol := symbolByCurrency[currency]
	if !ok {
		tag = language.AmericanEnglish
		symbol = string(currency) + " "
	}

	rounded := value.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}

	f, _ := rounded.Float64()
	return sign + symbol + message.NewPrinter(tag).Sprintf("%.2f", f)
}

// NullableCurrency formats a nullable amount, rendering unset values as fallback.
func NullableCurrency(value decimal.NullDecimal, currency domain.Currency, fallback string) string {
	if !value.Valid {
		return fallback
	}
	return Currency(value.Decimal, currency)
}

// Percent renders a percentage with one decimal.
func Percent(value decimal.Decimal) string {
	return value.StringFixed(1) + "%"
}

// Months renders a runway in months, or fallback when there is none.
func Months(value decimal.NullDecimal, fallback string) string {
	if !value.Valid {
		return fallback
	}
	return value.Decimal.StringFixed(1) + " months"
}

// MonthLabel renders a month as "Jan 2006".
func MonthLabel(m domain.Month) string {
	return m.FirstDay().Format("Jan 2006")
}
