package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

// MaxRecurringCommitments caps the recurring commitments list.
const MaxRecurringCommitments = 8

var hundred = decimal.NewFromInt(100)

// FinancialStability classifies the current-month net margin.
type FinancialStability string

const (
	StabilityPositive FinancialStability = "positive"
	StabilityNeutral  FinancialStability = "neutral"
	StabilityNegative FinancialStability = "negative"
)

// StabilityOf classifies a net margin. Neutral requires an exact zero.
func StabilityOf(netMargin decimal.Decimal) FinancialStability {
	switch netMargin.Sign() {
	case 1:
		return StabilityPositive
	case -1:
		return StabilityNegative
	default:
		return StabilityNeutral
	}
}

// ExpenseShare is the monthly expense attributed to one concept.
type ExpenseShare struct {
	Concept    string
	Value      decimal.Decimal
	Percentage decimal.Decimal
}

// TimelinePoint is one month of the income and expense timeline.
type TimelinePoint struct {
	Month    Month
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Net      decimal.Decimal
}

// RecurringCommitment is a single recurring expense with its monthly equivalent.
type RecurringCommitment struct {
	Concept string
	Value   decimal.Decimal
}

// InsightsData is the time-series and ranking view of the recurring entries.
type InsightsData struct {
	ExpenseDistribution    []ExpenseShare
	IncomeExpensesTimeline []TimelinePoint
	RecurringCommitments   []RecurringCommitment
	NetMonthlyMargin       decimal.Decimal
	FinancialStability     FinancialStability
}

// BuildInsights derives the insights for base from recurring entries already started by base.
func BuildInsights(entries []Entry, base Month) InsightsData {
	started := recurringStartedBy(entries, base)

	timeline := buildTimeline(started, timelineStart(started, base), timelineEnd(started, base))

	current := TimelinePoint{Month: base, Income: decimal.Zero, Expenses: decimal.Zero, Net: decimal.Zero}
	for _, p := range timeline {
		if p.Month.Equal(base) {
			current = p
			break
		}
	}

	activeExpenses := make([]Entry, 0, len(started))
	for _, e := range started {
		if e.Type == EntryTypeExpense && IsActiveInMonth(e, base) {
			activeExpenses = append(activeExpenses, e)
		}
	}

	return InsightsData{
		ExpenseDistribution:    expenseDistribution(activeExpenses, base),
		IncomeExpensesTimeline: timeline,
		RecurringCommitments:   recurringCommitments(activeExpenses, base),
		NetMonthlyMargin:       current.Net,
		FinancialStability:     StabilityOf(current.Net),
	}
}

// timelineStart is the earliest start month, or base when there are no entries.
func timelineStart(entries []Entry, base Month) Month {
	if len(entries) == 0 {
		return base
	}
	start := entries[0].StartMonth()
	for _, e := range entries[1:] {
		if m := e.StartMonth(); m.Before(start) {
			start = m
		}
	}
	return start
}

// timelineEnd is the latest end month strictly after base, or base when none qualifies.
func timelineEnd(entries []Entry, base Month) Month {
	end := base
	for _, e := range entries {
		if m, ok := e.EndMonth(); ok && m.After(end) {
			end = m
		}
	}
	return end
}

func buildTimeline(entries []Entry, start, end Month) []TimelinePoint {
	n := start.MonthsUntil(end) + 1
	if n <= 0 {
		return []TimelinePoint{}
	}

	points := make([]TimelinePoint, 0, n)
	for i := 0; i < n; i++ {
		month := start.AddMonths(i)
		f := monthFlow(entries, month)
		points = append(points, TimelinePoint{
			Month:    month,
			Income:   f.income,
			Expenses: f.expenses,
			Net:      f.net(),
		})
	}
	return points
}

func expenseDistribution(expenses []Entry, base Month) []ExpenseShare {
	order := make([]string, 0, len(expenses))
	byConcept := make(map[string]decimal.Decimal, len(expenses))
	total := decimal.Zero

	for _, e := range expenses {
		v := MonthlyEquivalentForMonth(e, base)
		prev, seen := byConcept[e.Concept]
		if !seen {
			order = append(order, e.Concept)
			prev = decimal.Zero
		}
		byConcept[e.Concept] = prev.Add(v)
		total = total.Add(v)
	}

	shares := make([]ExpenseShare, 0, len(order))
	for _, concept := range order {
		value := byConcept[concept]
		pct := decimal.Zero
		if total.IsPositive() {
			pct = value.Mul(hundred).Div(total)
		}
		shares = append(shares, ExpenseShare{Concept: concept, Value: value, Percentage: pct})
	}

	slices.SortStableFunc(shares, func(a, b ExpenseShare) int {
		return b.Value.Cmp(a.Value)
	})

	return shares
}

func recurringCommitments(expenses []Entry, base Month) []RecurringCommitment {
	commitments := make([]RecurringCommitment, 0, len(expenses))
	for _, e := range expenses {
		commitments = append(commitments, RecurringCommitment{
			Concept: e.Concept,
			Value:   MonthlyEquivalentForMonth(e, base),
		})
	}

	slices.SortStableFunc(commitments, func(a, b RecurringCommitment) int {
		return b.Value.Cmp(a.Value)
	})

	if len(commitments) > MaxRecurringCommitments {
		commitments = commitments[:MaxRecurringCommitments]
	}
	return commitments
}
