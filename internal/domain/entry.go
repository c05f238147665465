package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType is the direction of an entry.
type EntryType string

const (
	EntryTypeIncome  EntryType = "income"
	EntryTypeExpense EntryType = "expense"
)

// ParseEntryType parses a case-insensitive entry type.
func ParseEntryType(s string) (EntryType, error) {
	t := EntryType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case EntryTypeIncome, EntryTypeExpense:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidEntryType, s)
	}
}

// Frequency is how often an entry occurs.
type Frequency string

const (
	FrequencyMonthly Frequency = "monthly"
	FrequencyAnnual  Frequency = "annual"
	FrequencyOneTime Frequency = "one_time"
)

// ParseFrequency parses a case-insensitive frequency. "yearly" is accepted as an alias of annual.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FrequencyMonthly, FrequencyAnnual, FrequencyOneTime:
		return f, nil
	case "yearly":
		return FrequencyAnnual, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFrequency, s)
	}
}

// IsRecurring reports whether the frequency repeats (monthly or annual).
func (f Frequency) IsRecurring() bool {
	switch f {
	case FrequencyMonthly, FrequencyAnnual:
		return true
	case FrequencyOneTime:
		return false
	default:
		panic(fmt.Sprintf("domain: unknown frequency %q", string(f)))
	}
}

// Entry is a recurring or one-time income or expense.
type Entry struct {
	ID        string
	Concept   string
	Type      EntryType
	Frequency Frequency
	Amount    decimal.Decimal
	StartDate time.Time
	EndDate   *time.Time
	Notes     string
}

// StartMonth returns the month of the start date.
func (e Entry) StartMonth() Month {
	return MonthOf(e.StartDate)
}

// EndMonth returns the month of the end date, if any.
func (e Entry) EndMonth() (Month, bool) {
	if e.EndDate == nil {
		return Month{}, false
	}
	return MonthOf(*e.EndDate), true
}

// IsRecurring reports whether the entry is monthly or annual.
func (e Entry) IsRecurring() bool {
	return e.Frequency.IsRecurring()
}

// signed returns v for income and -v for expense.
func (e Entry) signed(v decimal.Decimal) decimal.Decimal {
	switch e.Type {
	case EntryTypeIncome:
		return v
	case EntryTypeExpense:
		return v.Neg()
	default:
		panic(fmt.Sprintf("domain: unknown entry type %q", string(e.Type)))
	}
}

// EntryView is an entry together with its monthly equivalent for a given month.
type EntryView struct {
	Entry
	MonthlyEquivalent decimal.Decimal
}

// EntryFilter narrows an entry listing. Empty fields match everything.
type EntryFilter struct {
	Type      EntryType
	Frequency Frequency
}

// Matches reports whether e passes the filter.
func (f EntryFilter) Matches(e Entry) bool {
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if f.Frequency != "" && e.Frequency != f.Frequency {
		return false
	}
	return true
}

// FilterEntries returns the entries matching f, preserving order.
func FilterEntries(entries []Entry, f EntryFilter) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}
