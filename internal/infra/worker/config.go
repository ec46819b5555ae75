// Package worker holds the configuration, health probes and metrics for
// the cache-warm worker: a cron-scheduled job that refreshes the stock
// listing cache so first-page requests keep hitting warm data.
package worker

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"stockitect/internal/pkg/config"
)

// WarmTarget is one cache entry the worker keeps warm. Sort field and
// order scope the cache key; the provider listing order is fixed.
type WarmTarget struct {
	SortBy    string `yaml:"sort_by"`
	SortOrder string `yaml:"sort_order"`
	Limit     int    `yaml:"limit"`
}

// WarmPlan is the set of listing pages refreshed on every run.
type WarmPlan struct {
	Targets []WarmTarget `yaml:"targets"`
}

// WorkerConfig controls the warm worker's schedule and operation.
// Every field has a safe default; loading is fail-open so a bad
// environment never stops the worker from starting.
type WorkerConfig struct {
	// CronSchedule is the cron expression for warm runs.
	// Default: "*/30 * * * *" (every 30 minutes, inside the listing TTL).
	CronSchedule string

	// Timezone is the IANA timezone name for cron scheduling.
	Timezone string

	// WarmTimeout bounds one complete warm run, including the
	// transport's retry backoff.
	WarmTimeout time.Duration

	// HealthPort serves the liveness/readiness probes.
	HealthPort int

	// PlanPath optionally points at a YAML warm plan. Empty means the
	// built-in single-target plan.
	PlanPath string
}

// DefaultConfig returns production-ready defaults: a warm run every 30
// minutes, comfortably inside the one-hour listing TTL.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule: "*/30 * * * *",
		Timezone:     "UTC",
		WarmTimeout:  5 * time.Minute,
		HealthPort:   9091,
	}
}

// DefaultPlan returns the built-in warm plan: the default first page.
func DefaultPlan() WarmPlan {
	return WarmPlan{Targets: []WarmTarget{
		{SortBy: "ticker", SortOrder: "asc", Limit: 50},
	}}
}

// Validate checks the configuration, aggregating all failures.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.WarmTimeout); err != nil {
		errs = append(errs, fmt.Errorf("warm timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv loads worker configuration from environment variables
// with validation and fallback to defaults on failure. The strategy is
// fail-open: a bad value is replaced by its default with a warning and a
// metric, and the returned configuration is always valid.
//
// Environment variables:
//   - CRON_SCHEDULE: cron expression (default "*/30 * * * *")
//   - WORKER_TIMEZONE: IANA timezone name (default "UTC")
//   - WARM_TIMEOUT: duration, 30s-1h (default 5m)
//   - WORKER_HEALTH_PORT: integer 1024-65535 (default 9091)
//   - WARM_PLAN_PATH: path to a YAML warm plan (default built-in plan)
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	warn := func(field string, result config.ConfigLoadResult) {
		fallbackApplied = true
		metrics.RecordValidationError(field)
		metrics.RecordFallback(field, "default")
		for _, warning := range result.Warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", field),
				slog.String("warning", warning))
		}
	}

	result := config.LoadEnvWithFallback("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = result.Value.(string)
	if result.FallbackApplied {
		warn("cron_schedule", result)
	}

	result = config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = result.Value.(string)
	if result.FallbackApplied {
		warn("timezone", result)
	}

	result = config.LoadEnvDuration("WARM_TIMEOUT", cfg.WarmTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, 30*time.Second, time.Hour)
	})
	cfg.WarmTimeout = result.Value.(time.Duration)
	if result.FallbackApplied {
		warn("warm_timeout", result)
	}

	result = config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = result.Value.(int)
	if result.FallbackApplied {
		warn("health_port", result)
	}

	cfg.PlanPath = config.LoadEnvString("WARM_PLAN_PATH", "")

	metrics.SetFallbackActive("", fallbackApplied)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}

// LoadPlan reads the warm plan from cfg.PlanPath. A missing path means
// the built-in plan; an unreadable or empty plan falls back to the
// built-in plan with a warning, consistent with fail-open loading.
func (c *WorkerConfig) LoadPlan(logger *slog.Logger) WarmPlan {
	if c.PlanPath == "" {
		return DefaultPlan()
	}

	raw, err := os.ReadFile(c.PlanPath)
	if err != nil {
		logger.Warn("warm plan unreadable, using built-in plan",
			slog.String("path", c.PlanPath),
			slog.String("error", err.Error()))
		return DefaultPlan()
	}

	var plan WarmPlan
	if err := yaml.Unmarshal(raw, &plan); err != nil {
		logger.Warn("warm plan malformed, using built-in plan",
			slog.String("path", c.PlanPath),
			slog.String("error", err.Error()))
		return DefaultPlan()
	}
	if len(plan.Targets) == 0 {
		logger.Warn("warm plan has no targets, using built-in plan",
			slog.String("path", c.PlanPath))
		return DefaultPlan()
	}

	for i := range plan.Targets {
		if plan.Targets[i].Limit <= 0 {
			plan.Targets[i].Limit = 50
		}
		if plan.Targets[i].SortBy == "" {
			plan.Targets[i].SortBy = "ticker"
		}
		if plan.Targets[i].SortOrder == "" {
			plan.Targets[i].SortOrder = "asc"
		}
	}
	return plan
}
