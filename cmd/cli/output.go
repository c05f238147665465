package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/iho/runway/internal/domain"
	"github.com/iho/runway/internal/format"
	"github.com/iho/runway/internal/usecase"
)

const notAvailable = "n/a"

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
}

func printKPIs(w io.Writer, month domain.Month, k domain.KPIs, currency domain.Currency) error {
	fmt.Fprintf(w, "KPIs for %s\n\n", format.MonthLabel(month))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Monthly recurring income\t%s\n", format.Currency(k.MonthlyRecurringIncome, currency))
	fmt.Fprintf(tw, "Monthly recurring expenses\t%s\n", format.Currency(k.MonthlyRecurringExpenses, currency))
	fmt.Fprintf(tw, "Net monthly result\t%s\n", format.Currency(k.NetMonthlyResult, currency))
	fmt.Fprintf(tw, "Burn rate\t%s\n", format.Currency(k.BurnRate, currency))
	fmt.Fprintf(tw, "Runway\t%s\n", format.Months(k.RunwayMonths, notAvailable))
	return tw.Flush()
}

func printProjection(w io.Writer, r *usecase.ProjectionReport, currency domain.Currency) error {
	fmt.Fprintf(w, "Projection from %s, %d months\n\n", format.MonthLabel(r.Start), r.Months)

	tw := newTable(w)
	fmt.Fprintln(tw, "Month\tIncome\tExpenses\tNet\t")
	for _, row := range r.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n",
			format.MonthLabel(row.Month),
			format.Currency(row.Income, currency),
			format.Currency(row.Expenses, currency),
			format.Currency(row.Net, currency))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := r.Stats
	fmt.Fprintf(w, "\nTotal net %s, average %s, %d of %d months non-negative\n",
		format.Currency(s.TotalNet, currency),
		format.Currency(s.AverageNet, currency),
		s.PositiveMonths, len(r.Rows))
	if s.BestMonth != nil && s.WorstMonth != nil {
		fmt.Fprintf(w, "Best %s (%s), worst %s (%s)\n",
			format.MonthLabel(s.BestMonth.Month), format.Currency(s.BestMonth.Net, currency),
			format.MonthLabel(s.WorstMonth.Month), format.Currency(s.WorstMonth.Net, currency))
	}
	return nil
}

func printHorizons(w io.Writer, base domain.Month, result domain.ProjectionResult, currency domain.Currency) error {
	fmt.Fprintf(w, "Recurring outlook from %s\n\n", format.MonthLabel(base))

	tw := newTable(w)
	fmt.Fprintln(tw, "Horizon\tIncome\tExpenses\tNet\tFrom cash\tBurn\tRunway\tOne-time\t")
	for _, h := range domain.Horizons() {
		s, ok := result[h.Key]
		if !ok {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			h.Label,
			format.Currency(s.TotalIncome, currency),
			format.Currency(s.TotalExpenses, currency),
			format.Currency(s.NetResult, currency),
			format.NullableCurrency(s.AccumulatedCashflow.FromCashOnHand, currency, notAvailable),
			format.Currency(s.BurnRate, currency),
			format.Months(s.RunwayMonths, notAvailable),
			format.Currency(s.OneTimeBalanceDisclaimer, currency))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nOne-time entries are shown for reference and excluded from the totals.")
	return nil
}

func printInsights(w io.Writer, base domain.Month, in domain.InsightsData, currency domain.Currency) error {
	fmt.Fprintf(w, "Insights for %s\n\n", format.MonthLabel(base))
	fmt.Fprintf(w, "Net monthly margin %s (%s)\n\n", format.Currency(in.NetMonthlyMargin, currency), in.FinancialStability)

	if len(in.ExpenseDistribution) > 0 {
		fmt.Fprintln(w, "Expense distribution")
		tw := newTable(w)
		for _, s := range in.ExpenseDistribution {
			fmt.Fprintf(tw, "%s\t%s\t%s\t\n", s.Concept, format.Currency(s.Value, currency), format.Percent(s.Percentage))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	if len(in.RecurringCommitments) > 0 {
		fmt.Fprintln(w, "Top recurring commitments")
		tw := newTable(w)
		for i, c := range in.RecurringCommitments {
			fmt.Fprintf(tw, "%d.\t%s\t%s\t\n", i+1, c.Concept, format.Currency(c.Value, currency))
		}
		return tw.Flush()
	}
	return nil
}

func signedLabel(v decimal.Decimal) string {
	switch v.Sign() {
	case 1:
		return "surplus"
	case -1:
		return "deficit"
	default:
		return "break-even"
	}
}
