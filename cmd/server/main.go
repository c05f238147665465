package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/runway/internal/adapter/http"
	"github.com/iho/runway/internal/adapter/http/handler"
	"github.com/iho/runway/internal/adapter/http/middleware"
	"github.com/iho/runway/internal/adapter/repository/instrumented"
	"github.com/iho/runway/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/runway/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/runway/internal/adapter/repository/redis"
	sheetsRepo "github.com/iho/runway/internal/adapter/repository/sheets"
	"github.com/iho/runway/internal/domain"
	"github.com/iho/runway/internal/infrastructure/auth"
	"github.com/iho/runway/internal/infrastructure/config"
	"github.com/iho/runway/internal/infrastructure/logger"
	"github.com/iho/runway/internal/infrastructure/metrics"
	"github.com/iho/runway/internal/infrastructure/postgres"
	"github.com/iho/runway/internal/infrastructure/redis"
	"github.com/iho/runway/internal/infrastructure/sheets"
	"github.com/iho/runway/internal/usecase"
)

const (
	limiterCleanupInterval = 10 * time.Minute
	limiterIdleTimeout     = 30 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.close()

	entryRepo := instrumented.NewEntryRepository(store.entries, cfg.StorageBackend, appMetrics)
	settingsRepo := instrumented.NewSettingsRepository(store.settings, cfg.StorageBackend, appMetrics)
	checks := []handler.Check{{Name: "store", Pinger: store.pinger}}

	defaultCurrency, err := domain.ParseCurrency(cfg.DefaultCurrency)
	if err != nil {
		return fmt.Errorf("DEFAULT_CURRENCY: %w", err)
	}

	forecastUC := usecase.NewForecastUseCase(entryRepo, settingsRepo, defaultCurrency, usecase.SystemClock, logger).
		WithObserver(appMetrics)

	var idempotencyStore usecase.IdempotencyStore
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		logger.Info().Msg("connected to redis")

		forecastUC.WithCache(redisRepo.NewCache(redisClient), cfg.CacheTTL)
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		checks = append(checks, handler.Check{Name: "redis", Pinger: redis.NewPinger(redisClient)})
	} else {
		logger.Info().Msg("REDIS_URL not set, caching and idempotency disabled")
	}

	entryUC := usecase.NewEntryUseCase(entryRepo, postgresRepo.NewULIDGenerator(), usecase.SystemClock)
	settingsUC := usecase.NewSettingsUseCase(settingsRepo, defaultCurrency)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	rateLimiter.OnLimited = appMetrics.ObserveRateLimited

	routerCfg := httpAdapter.RouterConfig{
		EntryHandler:     handler.NewEntryHandler(entryUC, logger),
		SettingsHandler:  handler.NewSettingsHandler(settingsUC, logger),
		ForecastHandler:  handler.NewForecastHandler(forecastUC, logger),
		HealthHandler:    handler.NewHealthHandler(checks...),
		MetricsHandler:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		HTTPMetrics:      middleware.NewHTTPMetrics(registry),
		RateLimiter:      rateLimiter,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		Logger:           logger,
	}

	if cfg.AuthEnabled {
		allowlist := auth.NewAllowlist(cfg.AllowedEmails)
		if allowlist.Len() == 0 {
			logger.Warn().Msg("AUTH_ENABLED with an empty ALLOWED_EMAILS rejects every request")
		}
		routerCfg.Auth = middleware.AuthMiddleware(middleware.AuthConfig{
			Verifier:  auth.NewJWTManager(cfg.JWTSecret, 0),
			Allowlist: allowlist,
			Observer:  appMetrics,
			Logger:    logger,
		})
		logger.Info().Int("allowed_emails", allowlist.Len()).Msg("authentication enabled")
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      httpAdapter.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go cleanupLimiters(ctx, rateLimiter, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("port", cfg.HTTPPort).
			Str("storage", cfg.StorageBackend).
			Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info().Msg("server stopped")
	return nil
}

// store is the selected persistence backend.
type store struct {
	entries  usecase.EntryRepository
	settings usecase.SettingsRepository
	pinger   handler.Pinger
	close    func()
}

func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*store, error) {
	switch cfg.StorageBackend {
	case config.StorageMemory:
		entries := memory.NewEntryRepository()
		logger.Warn().Msg("using in-memory storage, data is lost on restart")
		return &store{
			entries:  entries,
			settings: memory.NewSettingsRepository(domain.Settings{}),
			pinger:   entries,
			close:    func() {},
		}, nil

	case config.StoragePostgres:
		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		logger.Info().Msg("connected to postgres")

		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			pool.Close()
			return nil, err
		}

		retrier := postgresRepo.NewRetrier(logger, postgresRepo.RetryPolicy{
			MaxRetries:      cfg.DatabaseRetries,
			InitialInterval: cfg.DatabaseBackoff,
		})
		entries := postgresRepo.NewEntryRepository(pool, retrier)
		return &store{
			entries:  entries,
			settings: postgresRepo.NewSettingsRepository(pool, retrier),
			pinger:   entries,
			close:    pool.Close,
		}, nil

	case config.StorageSheets:
		svc, err := sheets.NewService(ctx, sheets.Config{
			CredentialsJSON: cfg.ServiceAccountJSON,
			CredentialsFile: cfg.ServiceAccountJSONFile,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create sheets service: %w", err)
		}

		client := sheetsRepo.NewClient(svc, cfg.SheetsSpreadsheetID, logger)
		entries := sheetsRepo.NewEntryRepository(client, cfg.SheetsFinancialTab, logger)
		logger.Info().
			Str("financial_tab", cfg.SheetsFinancialTab).
			Str("settings_tab", cfg.SheetsSettingsTab).
			Msg("using google sheets storage")
		return &store{
			entries:  entries,
			settings: sheetsRepo.NewSettingsRepository(client, cfg.SheetsSettingsTab, logger),
			pinger:   entries,
			close:    func() {},
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func cleanupLimiters(ctx context.Context, rl *middleware.RateLimiter, logger zerolog.Logger) {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := rl.CleanupLimiters(limiterIdleTimeout); removed > 0 {
				logger.Debug().Int("removed", removed).Int("remaining", rl.Size()).Msg("rate limiter cleanup")
			}
		}
	}
}
