package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/robfig/cron/v3"

	"stockitect/internal/cache"
	"stockitect/internal/handler/http/respond"
	"stockitect/internal/infra/connectivity"
	"stockitect/internal/infra/polygon"
	workerPkg "stockitect/internal/infra/worker"
	"stockitect/internal/observability/logging"
	"stockitect/internal/usecase/stocks"
)

func main() {
	logger := logging.NewLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Worker configuration is fail-open: a bad environment falls back to
	// defaults with warnings instead of refusing to start.
	workerMetrics := workerPkg.NewWorkerMetrics()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("warm_timeout", workerConfig.WarmTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	plan := workerConfig.LoadPlan(logger)
	logger.Info("warm plan loaded", slog.Int("targets", len(plan.Targets)))

	store, storeCleanup := initCacheStore(logger)
	defer storeCleanup()

	svc := buildService(logger, store)

	startMetricsServer(ctx, logger)

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	startCronWorker(ctx, logger, svc, plan, workerConfig, workerMetrics, healthServer)
}

// initCacheStore selects the cache backend from CACHE_STORE
// (memory, redis, postgres). Returns the store and its cleanup.
func initCacheStore(logger *slog.Logger) (cache.Store, func()) {
	switch os.Getenv("CACHE_STORE") {
	case "redis":
		store, err := cache.NewRedisStore(os.Getenv("REDIS_URL"))
		if err != nil {
			logger.Error("failed to connect to redis", slog.Any("error", respond.SanitizeError(err)))
			os.Exit(1)
		}
		logger.Info("cache store initialized", slog.String("backend", "redis"))
		return store, func() {}
	case "postgres":
		db, err := sql.Open("pgx", os.Getenv("DATABASE_URL"))
		if err != nil {
			logger.Error("failed to open database", slog.Any("error", respond.SanitizeError(err)))
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		store := cache.NewPostgresStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			logger.Error("failed to ensure cache schema", slog.Any("error", respond.SanitizeError(err)))
			os.Exit(1)
		}
		logger.Info("cache store initialized", slog.String("backend", "postgres"))
		return store, func() {
			if err := db.Close(); err != nil {
				logger.Error("failed to close database", slog.Any("error", err))
			}
		}
	default:
		logger.Info("cache store initialized", slog.String("backend", "memory"))
		return cache.NewInMemoryStore(), func() {}
	}
}

// buildService wires the market data gateway, cache, and connectivity
// checker into the stocks service the warm job drives.
func buildService(logger *slog.Logger, store cache.Store) *stocks.Service {
	polygonCfg := polygon.LoadConfig()
	if polygonCfg.APIKey == "" {
		logger.Warn("POLYGON_API_KEY is empty; provider requests will fail")
	}
	client := polygon.NewClient(polygonCfg,
		polygon.WithLogger(logger),
		polygon.WithMetrics(polygon.NewPrometheusMetrics()),
	)
	gateway := polygon.NewGateway(client, polygonCfg)

	c := cache.New(store,
		cache.WithLogger(logger),
		cache.WithMetrics(cache.NewPrometheusMetrics()),
	)

	checker := connectivity.NewChecker(connectivity.LoadConfig(), logger)

	return stocks.NewService(gateway, c, checker, cache.LoadTTLConfig(), logger)
}

// startCronWorker schedules warm runs and blocks until a shutdown signal.
func startCronWorker(ctx context.Context, logger *slog.Logger, svc *stocks.Service, plan workerPkg.WarmPlan, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics, healthServer *workerPkg.HealthServer) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.CronSchedule, func() {
		runWarmJob(logger, svc, plan, cfg, metrics)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	healthServer.SetReady(true)
	logger.Info("worker started",
		slog.String("schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone))

	// Warm the cache once at startup so the API never begins cold.
	runWarmJob(logger, svc, plan, cfg, metrics)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sig:
		logger.Info("shutdown signal received", slog.String("signal", s.String()))
	case <-ctx.Done():
	}

	stopCtx := c.Stop()
	<-stopCtx.Done()
	logger.Info("worker stopped")
}

// runWarmJob refreshes every target in the warm plan. One target failing
// does not stop the rest; the run is recorded as a failure if any did.
func runWarmJob(logger *slog.Logger, svc *stocks.Service, plan workerPkg.WarmPlan, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics) {
	startTime := time.Now()
	logger.Info("cache warm started", slog.Int("targets", len(plan.Targets)))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.WarmTimeout)
	defer cancel()

	warmed := 0
	failed := 0
	for _, target := range plan.Targets {
		n, err := svc.WarmListing(ctx, stocks.ListParams{
			SortBy:    target.SortBy,
			SortOrder: target.SortOrder,
			Limit:     target.Limit,
		})
		if err != nil {
			failed++
			logger.Error("warm target failed",
				slog.String("sort_by", target.SortBy),
				slog.String("sort_order", target.SortOrder),
				slog.Int("limit", target.Limit),
				slog.Any("error", respond.SanitizeError(err)))
			continue
		}
		warmed += n
	}

	metrics.RecordDuration(time.Since(startTime))
	metrics.RecordStocksWarmed(warmed)
	if failed > 0 {
		metrics.RecordRun("failure")
	} else {
		metrics.RecordRun("success")
		metrics.RecordLastSuccess()
	}

	logger.Info("cache warm completed",
		slog.Int("stocks", warmed),
		slog.Int("failed_targets", failed),
		slog.Duration("duration", time.Since(startTime)))
}
