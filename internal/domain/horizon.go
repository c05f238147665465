package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// HorizonKey identifies a projection horizon.
type HorizonKey string

const (
	Horizon6Months HorizonKey = "6m"
	Horizon1Year   HorizonKey = "1y"
	Horizon2Years  HorizonKey = "2y"
	Horizon4Years  HorizonKey = "4y"
)

// Horizon is a fixed forward window measured from the base month.
type Horizon struct {
	Key    HorizonKey
	Label  string
	Months int
}

var horizons = []Horizon{
	{Key: Horizon6Months, Label: "6 Month Projection", Months: 6},
	{Key: Horizon1Year, Label: "1 Year Projection", Months: 12},
	{Key: Horizon2Years, Label: "2 Year Projection", Months: 24},
	{Key: Horizon4Years, Label: "4 Year Projection", Months: 48},
}

// Horizons returns the projection horizons in ascending length.
func Horizons() []Horizon {
	out := make([]Horizon, len(horizons))
	copy(out, horizons)
	return out
}

// ParseHorizonKey parses a horizon key.
func ParseHorizonKey(s string) (HorizonKey, error) {
	for _, h := range horizons {
		if string(h.Key) == s {
			return h.Key, nil
		}
	}
	return "", fmt.Errorf("unknown horizon %q", s)
}

// EndMonth returns the last month covered when starting at base.
func (h Horizon) EndMonth(base Month) Month {
	return base.AddMonths(h.Months - 1)
}

// AccumulatedCashflow is the cumulative recurring net at the end of a horizon.
type AccumulatedCashflow struct {
	FromZero       decimal.Decimal
	FromCashOnHand decimal.NullDecimal
}

// ProjectionSummary is the recurring-only outlook for one horizon.
type ProjectionSummary struct {
	Horizon             Horizon
	TotalIncome         decimal.Decimal
	TotalExpenses       decimal.Decimal
	NetResult           decimal.Decimal
	AccumulatedCashflow AccumulatedCashflow
	BurnRate            decimal.Decimal
	RunwayMonths        decimal.NullDecimal
	// OneTimeBalanceDisclaimer is the signed sum of one-time entries inside the horizon.
	// It is informational and never part of NetResult or AccumulatedCashflow.
	OneTimeBalanceDisclaimer decimal.Decimal
}

// ProjectionResult maps every horizon key to its summary.
type ProjectionResult map[HorizonKey]ProjectionSummary

// ProjectionOptions are the inputs shared by the horizon computations.
type ProjectionOptions struct {
	BaseMonth  Month
	CashOnHand decimal.NullDecimal
}

// CalculateFinancialProjection computes all four horizons from opts.BaseMonth.
// Only monthly and annual entries already started by the base month feed the totals.
func CalculateFinancialProjection(entries []Entry, opts ProjectionOptions) ProjectionResult {
	recurring := recurringStartedBy(entries, opts.BaseMonth)
	oneTime := make([]Entry, 0)
	for _, e := range entries {
		if e.Frequency == FrequencyOneTime {
			oneTime = append(oneTime, e)
		}
	}

	result := make(ProjectionResult, len(horizons))
	for _, h := range horizons {
		var total flow
		for i := 0; i < h.Months; i++ {
			month := opts.BaseMonth.AddMonths(i)
			for _, e := range recurring {
				total.add(e, MonthlyEquivalentForMonth(e, month))
			}
		}

		net := total.net()
		burn := decimal.Zero
		if net.IsNegative() {
			burn = net.Abs().Div(decimal.NewFromInt(int64(h.Months)))
		}

		fromCash := decimal.NullDecimal{}
		if opts.CashOnHand.Valid {
			fromCash = decimal.NewNullDecimal(opts.CashOnHand.Decimal.Add(net))
		}

		result[h.Key] = ProjectionSummary{
			Horizon:       h,
			TotalIncome:   total.income,
			TotalExpenses: total.expenses,
			NetResult:     net,
			AccumulatedCashflow: AccumulatedCashflow{
				FromZero:       net,
				FromCashOnHand: fromCash,
			},
			BurnRate:                 burn,
			RunwayMonths:             runway(opts.CashOnHand, burn),
			OneTimeBalanceDisclaimer: oneTimeBalance(oneTime, opts.BaseMonth, h.EndMonth(opts.BaseMonth)),
		}
	}

	return result
}

func oneTimeBalance(entries []Entry, from, to Month) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		start := e.StartMonth()
		if start.Before(from) || start.After(to) {
			continue
		}
		sum = sum.Add(e.signed(e.Amount))
	}
	return sum
}

// ProjectionSeriesPoint is one month of a horizon series with running totals.
type ProjectionSeriesPoint struct {
	Month                    Month
	Income                   decimal.Decimal
	Expenses                 decimal.Decimal
	Net                      decimal.Decimal
	CumulativeFromZero       decimal.Decimal
	CumulativeFromCashOnHand decimal.NullDecimal
}

// ProjectionSeries maps every horizon key to its monthly points.
type ProjectionSeries map[HorizonKey][]ProjectionSeriesPoint

// BuildProjectionSeries returns the month-by-month recurring series for each horizon.
// The cumulative values of the last point equal the horizon's AccumulatedCashflow.
func BuildProjectionSeries(entries []Entry, opts ProjectionOptions) ProjectionSeries {
	recurring := recurringStartedBy(entries, opts.BaseMonth)

	series := make(ProjectionSeries, len(horizons))
	for _, h := range horizons {
		points := make([]ProjectionSeriesPoint, 0, h.Months)
		cumulative := decimal.Zero

		for i := 0; i < h.Months; i++ {
			month := opts.BaseMonth.AddMonths(i)
			f := monthFlow(recurring, month)
			net := f.net()
			cumulative = cumulative.Add(net)

			fromCash := decimal.NullDecimal{}
			if opts.CashOnHand.Valid {
				fromCash = decimal.NewNullDecimal(opts.CashOnHand.Decimal.Add(cumulative))
			}

			points = append(points, ProjectionSeriesPoint{
				Month:                    month,
				Income:                   f.income,
				Expenses:                 f.expenses,
				Net:                      net,
				CumulativeFromZero:       cumulative,
				CumulativeFromCashOnHand: fromCash,
			})
		}

		series[h.Key] = points
	}

	return series
}

// HorizonComparison is a compact per-horizon row for side-by-side display.
type HorizonComparison struct {
	Horizon       Horizon
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	NetResult     decimal.Decimal
}

// BuildHorizonComparison lists the horizons of result in ascending length.
// Horizons missing from result are skipped.
func BuildHorizonComparison(result ProjectionResult) []HorizonComparison {
	out := make([]HorizonComparison, 0, len(horizons))
	for _, h := range horizons {
		summary, ok := result[h.Key]
		if !ok {
			continue
		}
		out = append(out, HorizonComparison{
			Horizon:       summary.Horizon,
			TotalIncome:   summary.TotalIncome,
			TotalExpenses: summary.TotalExpenses,
			NetResult:     summary.NetResult,
		})
	}
	return out
}
