package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"sales-dashboard/internal/cache"
	"sales-dashboard/internal/config"
	"sales-dashboard/internal/currency"
	"sales-dashboard/internal/middleware"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/server"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/store"
)

const (
	version         = "1.0.0"
	dataLoadTimeout = 60 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", version,
		"data_source", cfg.Data.Source,
		"cache_backend", cfg.Cache.Backend,
		"addr", cfg.Address(),
	)

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("application failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	formatter, err := currency.New(cfg.Report.Currency, cfg.Report.Locale)
	if err != nil {
		return err
	}

	reports, err := newReportCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}

	analytics := services.NewAnalytics(
		services.WithLogger(logger),
		services.WithCacheDir(cfg.Data.CacheDir),
		services.WithReportCache(reports, cfg.Cache.TTL),
		services.WithReportOptions(services.ReportOptions{
			TopN:      cfg.Report.TopN,
			Bins:      cfg.Report.HistogramBins,
			Formatter: formatter,
		}),
	)

	closeSource, err := loadData(ctx, analytics, cfg.Data, logger)
	if err != nil {
		reports.Close()
		return err
	}

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newHandler(analytics, cfg, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)
	gracefulServer.RegisterShutdownHook("data source", func(ctx context.Context) error {
		return closeSource()
	})
	gracefulServer.RegisterShutdownHook("report cache", func(ctx context.Context) error {
		return reports.Close()
	})

	return gracefulServer.ListenAndServe(ctx)
}

func newHandler(analytics *services.Analytics, cfg *config.Config, logger *slog.Logger) http.Handler {
	srv := server.NewServer(analytics, logger, "")
	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	return middlewareChain(srv)
}

func newReportCache(ctx context.Context, cfg config.CacheConfig) (cache.Store, error) {
	switch cfg.Backend {
	case "redis":
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return cache.NewRedis(pingCtx, cfg.RedisURL)
	case "none":
		return cache.Noop{}, nil
	case "memory", "":
		return cache.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// loadData fills analytics from the configured source and returns a func
// that releases it.
func loadData(ctx context.Context, analytics *services.Analytics, cfg config.DataConfig, logger *slog.Logger) (func() error, error) {
	ctx, cancel := context.WithTimeout(ctx, dataLoadTimeout)
	defer cancel()

	start := time.Now()
	switch cfg.Source {
	case "mysql":
		src, err := store.Open(ctx, cfg.MySQLDSN, cfg.MySQLTable, logger)
		if err != nil {
			return nil, err
		}
		if err := analytics.LoadFromSource(ctx, src); err != nil {
			src.Close()
			return nil, err
		}
		logger.Info("orders loaded", "source", src.Name(), "duration", time.Since(start))
		return src.Close, nil

	default:
		if err := analytics.LoadFromCSV(ctx, cfg.CSVFile); err != nil {
			return nil, fmt.Errorf("load %s: %w", cfg.CSVFile, err)
		}
		logger.Info("orders loaded", "source", cfg.CSVFile, "duration", time.Since(start))
		return func() error { return nil }, nil
	}
}
