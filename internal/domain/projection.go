package domain

import "github.com/shopspring/decimal"

// ProjectionRow is one month of a forward projection.
type ProjectionRow struct {
	Month    Month
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Net      decimal.Decimal
}

// BuildMonthlyProjection returns exactly months rows for consecutive months starting at start.
// All frequencies contribute, including one-time entries.
func BuildMonthlyProjection(entries []Entry, start Month, months int) []ProjectionRow {
	if months <= 0 {
		return []ProjectionRow{}
	}

	rows := make([]ProjectionRow, 0, months)
	for i := 0; i < months; i++ {
		month := start.AddMonths(i)
		f := monthFlow(entries, month)
		rows = append(rows, ProjectionRow{
			Month:    month,
			Income:   f.income,
			Expenses: f.expenses,
			Net:      f.net(),
		})
	}

	return rows
}

// ProjectionStats summarizes a projection.
type ProjectionStats struct {
	TotalIncome    decimal.Decimal
	TotalExpenses  decimal.Decimal
	TotalNet       decimal.Decimal
	AverageNet     decimal.Decimal
	PositiveMonths int
	BestMonth      *ProjectionRow
	WorstMonth     *ProjectionRow
}

// SummarizeProjection totals rows and picks the best and worst month by net.
// Ties keep the earliest month. Best and worst are nil for an empty projection.
func SummarizeProjection(rows []ProjectionRow) ProjectionStats {
	stats := ProjectionStats{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		TotalNet:      decimal.Zero,
		AverageNet:    decimal.Zero,
	}

	for i := range rows {
		row := rows[i]
		stats.TotalIncome = stats.TotalIncome.Add(row.Income)
		stats.TotalExpenses = stats.TotalExpenses.Add(row.Expenses)
		stats.TotalNet = stats.TotalNet.Add(row.Net)

		if !row.Net.IsNegative() {
			stats.PositiveMonths++
		}
		if stats.BestMonth == nil || row.Net.GreaterThan(stats.BestMonth.Net) {
			stats.BestMonth = &row
		}
		if stats.WorstMonth == nil || row.Net.LessThan(stats.WorstMonth.Net) {
			stats.WorstMonth = &row
		}
	}

	if len(rows) > 0 {
		stats.AverageNet = stats.TotalNet.Div(decimal.NewFromInt(int64(len(rows))))
	}

	return stats
}
