package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/runway/internal/domain"
	"github.com/iho/runway/internal/usecase"
)

// EntryResponse represents an entry in API responses.
type EntryResponse struct {
	ID                string           `json:"id"`
	Concept           string           `json:"concept"`
	Type              string           `json:"type"`
	Frequency         string           `json:"frequency"`
	Amount            decimal.Decimal  `json:"amount"`
	StartDate         string           `json:"start_date"`
	EndDate           *string          `json:"end_date"`
	Notes             string           `json:"notes"`
	MonthlyEquivalent *decimal.Decimal `json:"monthly_equivalent,omitempty"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	var end *string
	if e.EndDate != nil {
		s := e.EndDate.Format(domain.DateLayout)
		end = &s
	}
	return &EntryResponse{
		ID:        e.ID,
		Concept:   e.Concept,
		Type:      string(e.Type),
		Frequency: string(e.Frequency),
		Amount:    e.Amount,
		StartDate: e.StartDate.Format(domain.DateLayout),
		EndDate:   end,
		Notes:     e.Notes,
	}
}

// EntryViewsFromDomain converts entry views to responses carrying the monthly equivalent.
func EntryViewsFromDomain(views []domain.EntryView) []*EntryResponse {
	result := make([]*EntryResponse, len(views))
	for i := range views {
		r := EntryFromDomain(&views[i].Entry)
		eq := views[i].MonthlyEquivalent
		r.MonthlyEquivalent = &eq
		result[i] = r
	}
	return result
}

// DeletedResponse is returned after a delete.
type DeletedResponse struct {
	ID string `json:"id"`
}

// SettingsResponse represents settings in API responses.
type SettingsResponse struct {
	Currency   string              `json:"currency"`
	CashOnHand decimal.NullDecimal `json:"cashOnHand"`
}

// SettingsFromDomain converts domain settings to a response.
func SettingsFromDomain(s domain.Settings) SettingsResponse {
	return SettingsResponse{Currency: string(s.Currency), CashOnHand: s.CashOnHand}
}

// KPIsResponse represents the current-month KPIs.
type KPIsResponse struct {
	MonthlyRecurringIncome   decimal.Decimal     `json:"monthly_recurring_income"`
	MonthlyRecurringExpenses decimal.Decimal     `json:"monthly_recurring_expenses"`
	NetMonthlyResult         decimal.Decimal     `json:"net_monthly_result"`
	BurnRate                 decimal.Decimal     `json:"burn_rate"`
	RunwayMonths             decimal.NullDecimal `json:"runway_months"`
}

// KPIsFromDomain converts KPIs to a response.
func KPIsFromDomain(k domain.KPIs) KPIsResponse {
	return KPIsResponse{
		MonthlyRecurringIncome:   k.MonthlyRecurringIncome,
		MonthlyRecurringExpenses: k.MonthlyRecurringExpenses,
		NetMonthlyResult:         k.NetMonthlyResult,
		BurnRate:                 k.BurnRate,
		RunwayMonths:             k.RunwayMonths,
	}
}

// ProjectionRowResponse represents one projected month.
type ProjectionRowResponse struct {
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

func projectionRowFromDomain(r domain.ProjectionRow) ProjectionRowResponse {
	return ProjectionRowResponse{Month: r.Month.String(), Income: r.Income, Expenses: r.Expenses, Net: r.Net}
}

// ProjectionRowsFromDomain converts projection rows to responses.
func ProjectionRowsFromDomain(rows []domain.ProjectionRow) []ProjectionRowResponse {
	result := make([]ProjectionRowResponse, len(rows))
	for i, r := range rows {
		result[i] = projectionRowFromDomain(r)
	}
	return result
}

// ProjectionStatsResponse summarizes a projection.
type ProjectionStatsResponse struct {
	TotalIncome    decimal.Decimal        `json:"total_income"`
	TotalExpenses  decimal.Decimal        `json:"total_expenses"`
	TotalNet       decimal.Decimal        `json:"total_net"`
	AverageNet     decimal.Decimal        `json:"average_net"`
	PositiveMonths int                    `json:"positive_months"`
	BestMonth      *ProjectionRowResponse `json:"best_month"`
	WorstMonth     *ProjectionRowResponse `json:"worst_month"`
}

// ProjectionStatsFromDomain converts projection stats to a response.
func ProjectionStatsFromDomain(s domain.ProjectionStats) ProjectionStatsResponse {
	resp := ProjectionStatsResponse{
		TotalIncome:    s.TotalIncome,
		TotalExpenses:  s.TotalExpenses,
		TotalNet:       s.TotalNet,
		AverageNet:     s.AverageNet,
		PositiveMonths: s.PositiveMonths,
	}
	if s.BestMonth != nil {
		best := projectionRowFromDomain(*s.BestMonth)
		resp.BestMonth = &best
	}
	if s.WorstMonth != nil {
		worst := projectionRowFromDomain(*s.WorstMonth)
		resp.WorstMonth = &worst
	}
	return resp
}

// ProjectionResponse is the projection explorer payload.
type ProjectionResponse struct {
	Start  string                  `json:"start"`
	Months int                     `json:"months"`
	Rows   []ProjectionRowResponse `json:"rows"`
	Stats  ProjectionStatsResponse `json:"stats"`
}

// ProjectionFromUseCase converts a projection report to a response.
func ProjectionFromUseCase(r *usecase.ProjectionReport) ProjectionResponse {
	return ProjectionResponse{
		Start:  r.Start.String(),
		Months: r.Months,
		Rows:   ProjectionRowsFromDomain(r.Rows),
		Stats:  ProjectionStatsFromDomain(r.Stats),
	}
}

// AccumulatedCashflowResponse is the cumulative net at the end of a horizon.
type AccumulatedCashflowResponse struct {
	FromZero       decimal.Decimal     `json:"from_zero"`
	FromCashOnHand decimal.NullDecimal `json:"from_cash_on_hand"`
}

// HorizonSummaryResponse represents one projection horizon.
type HorizonSummaryResponse struct {
	Key                      string                      `json:"key"`
	Label                    string                      `json:"label"`
	Months                   int                         `json:"months"`
	TotalIncome              decimal.Decimal             `json:"total_income"`
	TotalExpenses            decimal.Decimal             `json:"total_expenses"`
	NetResult                decimal.Decimal             `json:"net_result"`
	AccumulatedCashflow      AccumulatedCashflowResponse `json:"accumulated_cashflow"`
	BurnRate                 decimal.Decimal             `json:"burn_rate"`
	RunwayMonths             decimal.NullDecimal         `json:"runway_months"`
	OneTimeBalanceDisclaimer decimal.Decimal             `json:"one_time_balance_disclaimer"`
}

// HorizonsFromDomain converts a projection result, keyed by horizon.
func HorizonsFromDomain(result domain.ProjectionResult) map[string]HorizonSummaryResponse {
	out := make(map[string]HorizonSummaryResponse, len(result))
	for key, s := range result {
		out[string(key)] = HorizonSummaryResponse{
			Key:                      string(s.Horizon.Key),
			Label:                    s.Horizon.Label,
			Months:                   s.Horizon.Months,
			TotalIncome:              s.TotalIncome,
			TotalExpenses:            s.TotalExpenses,
			NetResult:                s.NetResult,
			AccumulatedCashflow: AccumulatedCashflowResponse{
				FromZero:       s.AccumulatedCashflow.FromZero,
				FromCashOnHand: s.AccumulatedCashflow.FromCashOnHand,
			},
			BurnRate:                 s.BurnRate,
			RunwayMonths:             s.RunwayMonths,
			OneTimeBalanceDisclaimer: s.OneTimeBalanceDisclaimer,
		}
	}
	return out
}

// SeriesPointResponse represents one month of a horizon series.
type SeriesPointResponse struct {
	Month                    string              `json:"month"`
	Income                   decimal.Decimal     `json:"income"`
	Expenses                 decimal.Decimal     `json:"expenses"`
	Net                      decimal.Decimal     `json:"net"`
	CumulativeFromZero       decimal.Decimal     `json:"cumulative_from_zero"`
	CumulativeFromCashOnHand decimal.NullDecimal `json:"cumulative_from_cash_on_hand"`
}

// SeriesFromDomain converts projection series, keyed by horizon.
func SeriesFromDomain(series domain.ProjectionSeries) map[string][]SeriesPointResponse {
	out := make(map[string][]SeriesPointResponse, len(series))
	for key, points := range series {
		converted := make([]SeriesPointResponse, len(points))
		for i, p := range points {
			converted[i] = SeriesPointResponse{
				Month:                    p.Month.String(),
				Income:                   p.Income,
				Expenses:                 p.Expenses,
				Net:                      p.Net,
				CumulativeFromZero:       p.CumulativeFromZero,
				CumulativeFromCashOnHand: p.CumulativeFromCashOnHand,
			}
		}
		out[string(key)] = converted
	}
	return out
}

// ComparisonResponse is one row of the horizon comparison.
type ComparisonResponse struct {
	Key           string          `json:"key"`
	Label         string          `json:"label"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetResult     decimal.Decimal `json:"net_result"`
}

// ComparisonFromDomain converts the horizon comparison rows.
func ComparisonFromDomain(rows []domain.HorizonComparison) []ComparisonResponse {
	out := make([]ComparisonResponse, len(rows))
	for i, c := range rows {
		out[i] = ComparisonResponse{
			Key:           string(c.Horizon.Key),
			Label:         c.Horizon.Label,
			TotalIncome:   c.TotalIncome,
			TotalExpenses: c.TotalExpenses,
			NetResult:     c.NetResult,
		}
	}
	return out
}

// HorizonsResponse is the strategic outlook payload.
type HorizonsResponse struct {
	Month      string                            `json:"month"`
	Settings   SettingsResponse                  `json:"settings"`
	Horizons   map[string]HorizonSummaryResponse `json:"horizons"`
	Series     map[string][]SeriesPointResponse  `json:"series"`
	Comparison []ComparisonResponse              `json:"comparison"`
}

// HorizonsFromUseCase converts a horizons report to a response.
func HorizonsFromUseCase(r *usecase.HorizonsReport) HorizonsResponse {
	return HorizonsResponse{
		Month:      r.Month.String(),
		Settings:   SettingsFromDomain(r.Settings),
		Horizons:   HorizonsFromDomain(r.Summaries),
		Series:     SeriesFromDomain(r.Series),
		Comparison: ComparisonFromDomain(r.Comparison),
	}
}

// ExpenseShareResponse is one slice of the expense distribution.
type ExpenseShareResponse struct {
	Concept    string          `json:"concept"`
	Value      decimal.Decimal `json:"value"`
	Percentage decimal.Decimal `json:"percentage"`
}

// TimelinePointResponse is one month of the income and expense timeline.
type TimelinePointResponse struct {
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

// CommitmentResponse is one recurring commitment.
type CommitmentResponse struct {
	Concept string          `json:"concept"`
	Value   decimal.Decimal `json:"value"`
}

// InsightsResponse is the insights payload.
type InsightsResponse struct {
	ExpenseDistribution    []ExpenseShareResponse  `json:"expense_distribution"`
	IncomeExpensesTimeline []TimelinePointResponse `json:"income_expenses_timeline"`
	RecurringCommitments   []CommitmentResponse    `json:"recurring_commitments"`
	NetMonthlyMargin       decimal.Decimal         `json:"net_monthly_margin"`
	FinancialStability     string                  `json:"financial_stability"`
}

// InsightsFromDomain converts insights to a response.
func InsightsFromDomain(in domain.InsightsData) InsightsResponse {
	resp := InsightsResponse{
		ExpenseDistribution:    make([]ExpenseShareResponse, len(in.ExpenseDistribution)),
		IncomeExpensesTimeline: make([]TimelinePointResponse, len(in.IncomeExpensesTimeline)),
		RecurringCommitments:   make([]CommitmentResponse, len(in.RecurringCommitments)),
		NetMonthlyMargin:       in.NetMonthlyMargin,
		FinancialStability:     string(in.FinancialStability),
	}
	for i, s := range in.ExpenseDistribution {
		resp.ExpenseDistribution[i] = ExpenseShareResponse{Concept: s.Concept, Value: s.Value, Percentage: s.Percentage}
	}
	for i, p := range in.IncomeExpensesTimeline {
		resp.IncomeExpensesTimeline[i] = TimelinePointResponse{Month: p.Month.String(), Income: p.Income, Expenses: p.Expenses, Net: p.Net}
	}
	for i, c := range in.RecurringCommitments {
		resp.RecurringCommitments[i] = CommitmentResponse{Concept: c.Concept, Value: c.Value}
	}
	return resp
}

// DashboardResponse is the full dashboard payload.
type DashboardResponse struct {
	Month           string                            `json:"month"`
	Settings        SettingsResponse                  `json:"settings"`
	KPIs            KPIsResponse                      `json:"kpis"`
	Projection      []ProjectionRowResponse           `json:"projection"`
	ProjectionStats ProjectionStatsResponse           `json:"projection_stats"`
	Horizons        map[string]HorizonSummaryResponse `json:"horizons"`
	Series          map[string][]SeriesPointResponse  `json:"series"`
	Comparison      []ComparisonResponse              `json:"comparison"`
	Insights        InsightsResponse                  `json:"insights"`
}

// DashboardFromUseCase converts a dashboard to a response.
func DashboardFromUseCase(d *usecase.Dashboard) DashboardResponse {
	return DashboardResponse{
		Month:           d.Month.String(),
		Settings:        SettingsFromDomain(d.Settings),
		KPIs:            KPIsFromDomain(d.KPIs),
		Projection:      ProjectionRowsFromDomain(d.Projection),
		ProjectionStats: ProjectionStatsFromDomain(d.ProjectionStats),
		Horizons:        HorizonsFromDomain(d.Horizons),
		Series:          SeriesFromDomain(d.Series),
		Comparison:      ComparisonFromDomain(d.Comparison),
		Insights:        InsightsFromDomain(d.Insights),
	}
}
