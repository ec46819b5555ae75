package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"

	"stockitect/internal/cache"
	hhttp "stockitect/internal/handler/http"
	"stockitect/internal/handler/http/requestid"
	"stockitect/internal/handler/http/respond"
	hstock "stockitect/internal/handler/http/stock"
	"stockitect/internal/infra/connectivity"
	"stockitect/internal/infra/polygon"
	"stockitect/internal/observability/logging"
	"stockitect/internal/observability/tracing"
	"stockitect/internal/usecase/stocks"
	"stockitect/pkg/config"
)

func main() {
	logger := logging.NewLogger()
	version := getVersion()

	store, storeCleanup := initCacheStore(logger)
	defer storeCleanup()

	handler := setupServer(logger, store, version)
	runServer(logger, handler, version)
}

func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
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

// setupServer wires the service graph and returns the HTTP handler with
// all routes and middleware applied.
func setupServer(logger *slog.Logger, store cache.Store, version string) http.Handler {
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
	svc := stocks.NewService(gateway, c, checker, cache.LoadTTLConfig(), logger)

	mux := http.NewServeMux()
	hstock.Register(mux, svc, logger)
	mux.Handle("GET /health", &hhttp.HealthHandler{Store: store, Connectivity: checker, Version: version})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{Store: store})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	return applyMiddleware(logger, mux)
}

// applyMiddleware builds the middleware chain, outermost first:
// request ID, tracing, rate limiting, recovery, logging, timeout, metrics.
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	requestTimeout := config.GetEnvDuration("REQUEST_TIMEOUT", 60*time.Second)

	h := hhttp.MetricsMiddleware(handler)
	h = hhttp.Timeout(requestTimeout)(h)
	h = hhttp.Logging(logger)(h)
	h = hhttp.Recover(logger)(h)

	if config.GetEnvBool("RATE_LIMIT_ENABLED", true) {
		limit := config.GetEnvInt("RATE_LIMIT_REQUESTS", 100)
		window := config.GetEnvDuration("RATE_LIMIT_WINDOW", time.Minute)
		limiter := hhttp.NewRateLimiter(limit, window)
		h = limiter.Limit(h)
		logger.Info("rate limiting enabled",
			slog.Int("limit", limit),
			slog.Duration("window", window))
	}

	h = tracing.Middleware(h)
	h = requestid.Middleware(h)
	return h
}

// runServer starts the HTTP server and blocks until a shutdown signal,
// then drains in-flight requests.
func runServer(logger *slog.Logger, handler http.Handler, version string) {
	addr := config.GetEnvString("LISTEN_ADDR", ":8080")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Slowloris protection
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
