package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var monthsPerYear = decimal.NewFromInt(12)

// IsActiveInMonth reports whether month lies within the entry's start and end months.
func IsActiveInMonth(e Entry, month Month) bool {
	if month.Before(e.StartMonth()) {
		return false
	}
	if end, ok := e.EndMonth(); ok && month.After(end) {
		return false
	}
	return true
}

// MonthlyEquivalentForMonth returns what the entry contributes to month.
// Annual amounts are spread flat over every active month. One-time amounts land on the start month only.
func MonthlyEquivalentForMonth(e Entry, month Month) decimal.Decimal {
	var v decimal.Decimal
	switch e.Frequency {
	case FrequencyMonthly:
		v = e.Amount
	case FrequencyAnnual:
		v = e.Amount.Div(monthsPerYear)
	case FrequencyOneTime:
		if !month.Equal(e.StartMonth()) {
			return decimal.Zero
		}
		v = e.Amount
	default:
		panic(fmt.Sprintf("domain: unknown frequency %q for entry %q", string(e.Frequency), e.ID))
	}

	if !IsActiveInMonth(e, month) {
		return decimal.Zero
	}
	return v
}

// ViewsForMonth pairs each entry with its monthly equivalent for month.
func ViewsForMonth(entries []Entry, month Month) []EntryView {
	views := make([]EntryView, len(entries))
	for i, e := range entries {
		views[i] = EntryView{Entry: e, MonthlyEquivalent: MonthlyEquivalentForMonth(e, month)}
	}
	return views
}

// flow accumulates income and expenses.
type flow struct {
	income   decimal.Decimal
	expenses decimal.Decimal
}

func (f *flow) add(e Entry, v decimal.Decimal) {
	switch e.Type {
	case EntryTypeIncome:
		f.income = f.income.Add(v)
	case EntryTypeExpense:
		f.expenses = f.expenses.Add(v)
	default:
		panic(fmt.Sprintf("domain: unknown entry type %q for entry %q", string(e.Type), e.ID))
	}
}

func (f flow) net() decimal.Decimal {
	return f.income.Sub(f.expenses)
}

// monthFlow sums the contributions of entries for month.
func monthFlow(entries []Entry, month Month) flow {
	var f flow
	for _, e := range entries {
		f.add(e, MonthlyEquivalentForMonth(e, month))
	}
	return f
}

// recurringStartedBy returns the recurring entries whose start month is not after month.
func recurringStartedBy(entries []Entry, month Month) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.IsRecurring() && !e.StartMonth().After(month) {
			out = append(out, e)
		}
	}
	return out
}

// runway divides cash by burn, gated on both being present and burn being positive.
func runway(cash decimal.NullDecimal, burn decimal.Decimal) decimal.NullDecimal {
	if !cash.Valid || !burn.IsPositive() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(cash.Decimal.Div(burn))
}
