package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/runway/internal/domain"
)

const dashboardCachePrefix = "forecast:dashboard:"

// Dashboard is everything the overview screen needs for one base month.
type Dashboard struct {
	Month           domain.Month               `json:"month"`
	Settings        domain.Settings            `json:"settings"`
	KPIs            domain.KPIs                `json:"kpis"`
	Projection      []domain.ProjectionRow     `json:"projection"`
	ProjectionStats domain.ProjectionStats     `json:"projection_stats"`
	Horizons        domain.ProjectionResult    `json:"horizons"`
	Series          domain.ProjectionSeries    `json:"series"`
	Comparison      []domain.HorizonComparison `json:"comparison"`
	Insights        domain.InsightsData        `json:"insights"`
}

// ProjectionReport is a projection explorer result.
type ProjectionReport struct {
	Start  domain.Month
	Months int
	Rows   []domain.ProjectionRow
	Stats  domain.ProjectionStats
}

// HorizonsReport is the multi-horizon outlook for a base month.
type HorizonsReport struct {
	Month      domain.Month
	Settings   domain.Settings
	Summaries  domain.ProjectionResult
	Series     domain.ProjectionSeries
	Comparison []domain.HorizonComparison
}

// ForecastUseCase runs the projection engine over the stored entries and settings.
type ForecastUseCase struct {
	entryRepo       EntryRepository
	settingsRepo    SettingsRepository
	defaultCurrency domain.Currency
	clock           Clock
	logger          zerolog.Logger

	cache    Cache
	cacheTTL time.Duration
	observer ForecastObserver
}

// NewForecastUseCase creates a new ForecastUseCase.
func NewForecastUseCase(
	entryRepo EntryRepository,
	settingsRepo SettingsRepository,
	defaultCurrency domain.Currency,
	clock Clock,
	logger zerolog.Logger,
) *ForecastUseCase {
	if clock == nil {
		clock = SystemClock
	}
	return &ForecastUseCase{
		entryRepo:       entryRepo,
		settingsRepo:    settingsRepo,
		defaultCurrency: defaultCurrency,
		clock:           clock,
		logger:          logger,
	}
}

// WithCache enables dashboard caching.
func (uc *ForecastUseCase) WithCache(cache Cache, ttl time.Duration) *ForecastUseCase {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	uc.cache = cache
	uc.cacheTTL = ttl
	return uc
}

// WithObserver records computation timings and cache outcomes.
func (uc *ForecastUseCase) WithObserver(observer ForecastObserver) *ForecastUseCase {
	uc.observer = observer
	return uc
}

// Dashboard computes the KPIs, a 12-month projection, all horizons and the insights for month.
func (uc *ForecastUseCase) Dashboard(ctx context.Context, month *domain.Month) (*Dashboard, error) {
	entries, settings, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}

	base := resolveMonth(month, uc.clock)
	key := dashboardCachePrefix + Fingerprint(entries, base, settings)

	if cached, ok := uc.cachedDashboard(ctx, key); ok {
		return cached, nil
	}

	defer uc.observe("dashboard", time.Now())

	opts := domain.ProjectionOptions{BaseMonth: base, CashOnHand: settings.CashOnHand}
	rows := domain.BuildMonthlyProjection(entries, base, DashboardProjectionMonths)
	horizons := domain.CalculateFinancialProjection(entries, opts)

	dashboard := &Dashboard{
		Month:           base,
		Settings:        settings,
		KPIs:            domain.CalculateKPIs(entries, base, settings.CashOnHand),
		Projection:      rows,
		ProjectionStats: domain.SummarizeProjection(rows),
		Horizons:        horizons,
		Series:          domain.BuildProjectionSeries(entries, opts),
		Comparison:      domain.BuildHorizonComparison(horizons),
		Insights:        domain.BuildInsights(entries, base),
	}

	uc.storeDashboard(ctx, key, dashboard)

	return dashboard, nil
}

// ProjectionInput represents input for the projection explorer.
type ProjectionInput struct {
	// Start is the first projected month. Nil means the current month.
	Start *domain.Month
	// Months is the projection length. Zero means DefaultProjectionMonths.
	Months int
}

// Projection builds a month-by-month projection over every frequency.
func (uc *ForecastUseCase) Projection(ctx context.Context, input ProjectionInput) (*ProjectionReport, error) {
	entries, err := uc.entryRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	defer uc.observe("projection", time.Now())

	start := resolveMonth(input.Start, uc.clock)
	months := ClampProjectionMonths(input.Months)
	rows := domain.BuildMonthlyProjection(entries, start, months)

	return &ProjectionReport{
		Start:  start,
		Months: months,
		Rows:   rows,
		Stats:  domain.SummarizeProjection(rows),
	}, nil
}

// Horizons computes the four projection horizons from month.
func (uc *ForecastUseCase) Horizons(ctx context.Context, month *domain.Month) (*HorizonsReport, error) {
	entries, settings, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}

	defer uc.observe("horizons", time.Now())

	opts := domain.ProjectionOptions{BaseMonth: resolveMonth(month, uc.clock), CashOnHand: settings.CashOnHand}
	summaries := domain.CalculateFinancialProjection(entries, opts)

	return &HorizonsReport{
		Month:      opts.BaseMonth,
		Settings:   settings,
		Summaries:  summaries,
		Series:     domain.BuildProjectionSeries(entries, opts),
		Comparison: domain.BuildHorizonComparison(summaries),
	}, nil
}

// Insights computes the distribution, timeline and stability for month.
func (uc *ForecastUseCase) Insights(ctx context.Context, month *domain.Month) (*domain.InsightsData, error) {
	entries, err := uc.entryRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	defer uc.observe("insights", time.Now())

	insights := domain.BuildInsights(entries, resolveMonth(month, uc.clock))
	return &insights, nil
}

// ClampProjectionMonths applies the default and bounds to a requested projection length.
func ClampProjectionMonths(months int) int {
	switch {
	case months == 0:
		return DefaultProjectionMonths
	case months < 1:
		return 1
	case months > MaxProjectionMonths:
		return MaxProjectionMonths
	default:
		return months
	}
}

// Fingerprint hashes the entries snapshot, base month and settings into a stable cache key.
// Entry order does not affect the result. Every field is length-prefixed, so no field content can
// shift a boundary between fields.
func Fingerprint(entries []domain.Entry, month domain.Month, settings domain.Settings) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		end := ""
		if e.EndDate != nil {
			end = e.EndDate.Format(domain.DateLayout)
		}
		lines = append(lines, fingerprintFields(
			e.ID,
			e.Concept,
			string(e.Type),
			string(e.Frequency),
			e.Amount.String(),
			e.StartDate.Format(domain.DateLayout),
			end,
			e.Notes,
		))
	}
	slices.Sort(lines)

	cash := "-"
	if settings.CashOnHand.Valid {
		cash = "+" + settings.CashOnHand.Decimal.String()
	}

	h := sha256.New()
	_, _ = io.WriteString(h, strconv.Itoa(len(lines)))
	for _, line := range lines {
		_, _ = io.WriteString(h, line)
	}
	_, _ = io.WriteString(h, fingerprintFields(month.String(), string(settings.Currency), cash))

	return hex.EncodeToString(h.Sum(nil))
}

func fingerprintFields(fields ...string) string {
	var b strings.Builder
	for _, f := range fields {
		b.WriteString(strconv.Itoa(len(f)))
		b.WriteByte(':')
		b.WriteString(f)
	}
	return b.String()
}

func (uc *ForecastUseCase) load(ctx context.Context) ([]domain.Entry, domain.Settings, error) {
	entries, err := uc.entryRepo.List(ctx)
	if err != nil {
		return nil, domain.Settings{}, err
	}

	settings, err := loadSettings(ctx, uc.settingsRepo, uc.defaultCurrency)
	if err != nil {
		return nil, domain.Settings{}, err
	}

	return entries, settings, nil
}

func (uc *ForecastUseCase) cachedDashboard(ctx context.Context, key string) (*Dashboard, bool) {
	if uc.cache == nil {
		return nil, false
	}

	data, err := uc.cache.Get(ctx, key)
	if err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("dashboard cache read failed")
		uc.observeCache(false)
		return nil, false
	}
	if data == nil {
		uc.observeCache(false)
		return nil, false
	}

	var dashboard Dashboard
	if err := json.Unmarshal(data, &dashboard); err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("dashboard cache entry is corrupt")
		uc.observeCache(false)
		return nil, false
	}

	uc.observeCache(true)
	return &dashboard, true
}

func (uc *ForecastUseCase) storeDashboard(ctx context.Context, key string, dashboard *Dashboard) {
	if uc.cache == nil {
		return
	}

	data, err := json.Marshal(dashboard)
	if err != nil {
		uc.logger.Warn().Err(err).Msg("dashboard encode failed")
		return
	}

	if err := uc.cache.Set(ctx, key, data, uc.cacheTTL); err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("dashboard cache write failed")
	}
}

func (uc *ForecastUseCase) observe(kind string, started time.Time) {
	if uc.observer != nil {
		uc.observer.ObserveForecast(kind, time.Since(started))
	}
}

func (uc *ForecastUseCase) observeCache(hit bool) {
	if uc.observer != nil {
		uc.observer.ObserveCache(hit)
	}
}
