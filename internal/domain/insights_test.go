package domain

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStabilityOf(t *testing.T) {
	assert.Equal(t, StabilityPositive, StabilityOf(dec("0.01")))
	assert.Equal(t, StabilityNegative, StabilityOf(dec("-5")))
	assert.Equal(t, StabilityNeutral, StabilityOf(decimal.Zero))
}

func TestBuildInsights_ExpenseDistribution(t *testing.T) {
	entries := []Entry{
		newEntry("salary", EntryTypeIncome, FrequencyMonthly, "5000", "2024-01-01"),
		newEntry("rent", EntryTypeExpense, FrequencyMonthly, "1500", "2024-01-01"),
		newEntry("food", EntryTypeExpense, FrequencyMonthly, "300", "2024-01-01"),
		newEntry("insurance", EntryTypeExpense, FrequencyAnnual, "1200", "2024-01-01"),
		newEntry("big-trip", EntryTypeExpense, FrequencyOneTime, "9000", "2024-06-01"),
	}
	entries[2].Concept = "groceries"
	second := newEntry("food-2", EntryTypeExpense, FrequencyMonthly, "200", "2024-02-01")
	second.Concept = "groceries"
	entries = append(entries, second)

	insights := BuildInsights(entries, MustParseMonth("2024-06"))

	require.Len(t, insights.ExpenseDistribution, 3)
	assert.Equal(t, "rent", insights.ExpenseDistribution[0].Concept)
	assert.Equal(t, "groceries", insights.ExpenseDistribution[1].Concept)
	assertDecimal(t, "500", insights.ExpenseDistribution[1].Value)
	assert.Equal(t, "insurance", insights.ExpenseDistribution[2].Concept)
	assertDecimal(t, "100", insights.ExpenseDistribution[2].Value)

	total := decimal.Zero
	for _, share := range insights.ExpenseDistribution {
		total = total.Add(share.Percentage)
	}
	assert.True(t, total.Sub(hundred).Abs().LessThan(dec("0.0001")), "percentages sum to %s", total)

	assertDecimal(t, "2900", insights.NetMonthlyMargin)
	assert.Equal(t, StabilityPositive, insights.FinancialStability)
}

func TestBuildInsights_EmptyExpensesHaveNoShares(t *testing.T) {
	entries := []Entry{newEntry("salary", EntryTypeIncome, FrequencyMonthly, "5000", "2024-01-01")}

	insights := BuildInsights(entries, MustParseMonth("2024-03"))

	assert.Empty(t, insights.ExpenseDistribution)
	assert.Empty(t, insights.RecurringCommitments)
	assert.Equal(t, StabilityPositive, insights.FinancialStability)
}

func TestBuildInsights_Timeline(t *testing.T) {
	entries := []Entry{
		newEntry("salary", EntryTypeIncome, FrequencyMonthly, "1000", "2024-02-01"),
		withEnd(newEntry("loan", EntryTypeExpense, FrequencyMonthly, "1500", "2023-11-01"), "2024-08-31"),
		newEntry("later", EntryTypeIncome, FrequencyMonthly, "999", "2024-09-01"),
		newEntry("gift", EntryTypeIncome, FrequencyOneTime, "999", "2023-01-01"),
	}

	insights := BuildInsights(entries, MustParseMonth("2024-04"))

	timeline := insights.IncomeExpensesTimeline
	require.Len(t, timeline, 10)
	assert.Equal(t, "2023-11", timeline[0].Month.String())
	assert.Equal(t, "2024-08", timeline[len(timeline)-1].Month.String())
	assertDecimal(t, "-1500", timeline[0].Net)
	assertDecimal(t, "-500", timeline[5].Net)

	assertDecimal(t, "-500", insights.NetMonthlyMargin)
	assert.Equal(t, StabilityNegative, insights.FinancialStability)
}

func TestBuildInsights_NoEntries(t *testing.T) {
	base := MustParseMonth("2024-04")

	insights := BuildInsights(nil, base)

	require.Len(t, insights.IncomeExpensesTimeline, 1)
	assert.Equal(t, base, insights.IncomeExpensesTimeline[0].Month)
	assertDecimal(t, "0", insights.NetMonthlyMargin)
	assert.Equal(t, StabilityNeutral, insights.FinancialStability)
}

func TestBuildInsights_RecurringCommitmentsCapped(t *testing.T) {
	entries := make([]Entry, 0, 10)
	for i := 1; i <= 10; i++ {
		entries = append(entries, newEntry(fmt.Sprintf("exp-%02d", i), EntryTypeExpense, FrequencyMonthly, fmt.Sprintf("%d", i*10), "2024-01-01"))
	}
	entries = append(entries, newEntry("tie", EntryTypeExpense, FrequencyMonthly, "100", "2024-01-01"))

	insights := BuildInsights(entries, MustParseMonth("2024-01"))

	require.Len(t, insights.RecurringCommitments, MaxRecurringCommitments)
	assert.Equal(t, "exp-10", insights.RecurringCommitments[0].Concept)
	assert.Equal(t, "tie", insights.RecurringCommitments[1].Concept, "stable order on ties")
	assertDecimal(t, "40", insights.RecurringCommitments[7].Value)
}
