package domain

import "github.com/shopspring/decimal"

// KPIs are the recurring-only figures for a single month.
type KPIs struct {
	MonthlyRecurringIncome   decimal.Decimal
	MonthlyRecurringExpenses decimal.Decimal
	NetMonthlyResult         decimal.Decimal
	BurnRate                 decimal.Decimal
	RunwayMonths             decimal.NullDecimal
}

// CalculateKPIs aggregates monthly and annual entries for month. One-time entries are ignored.
func CalculateKPIs(entries []Entry, month Month, cashOnHand decimal.NullDecimal) KPIs {
	var f flow
	for _, e := range entries {
		if !e.IsRecurring() {
			continue
		}
		f.add(e, MonthlyEquivalentForMonth(e, month))
	}

	net := f.net()
	burn := decimal.Zero
	if net.IsNegative() {
		burn = net.Abs()
	}

	return KPIs{
		MonthlyRecurringIncome:   f.income,
		MonthlyRecurringExpenses: f.expenses,
		NetMonthlyResult:         net,
		BurnRate:                 burn,
		RunwayMonths:             runway(cashOnHand, burn),
	}
}
