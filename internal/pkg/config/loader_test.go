package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnvString(t *testing.T) {
	t.Run("set", func(t *testing.T) {
		t.Setenv("WARM_PLAN_PATH", "/etc/stockitect/plan.yaml")
		assert.Equal(t, "/etc/stockitect/plan.yaml", LoadEnvString("WARM_PLAN_PATH", ""))
	})

	t.Run("unset uses default", func(t *testing.T) {
		assert.Equal(t, "*/30 * * * *", LoadEnvString("CRON_SCHEDULE", "*/30 * * * *"))
	})
}

func TestLoadEnvWithFallback(t *testing.T) {
	t.Run("unset uses default without warning", func(t *testing.T) {
		result := LoadEnvWithFallback("CRON_SCHEDULE", "*/30 * * * *", ValidateCronSchedule)
		assert.Equal(t, "*/30 * * * *", result.Value)
		assert.False(t, result.FallbackApplied)
		assert.Empty(t, result.Warnings)
	})

	t.Run("valid value wins", func(t *testing.T) {
		t.Setenv("CRON_SCHEDULE", "0 * * * *")
		result := LoadEnvWithFallback("CRON_SCHEDULE", "*/30 * * * *", ValidateCronSchedule)
		assert.Equal(t, "0 * * * *", result.Value)
		assert.False(t, result.FallbackApplied)
	})

	t.Run("invalid value falls back with warning", func(t *testing.T) {
		t.Setenv("CRON_SCHEDULE", "every half hour")
		result := LoadEnvWithFallback("CRON_SCHEDULE", "*/30 * * * *", ValidateCronSchedule)
		assert.Equal(t, "*/30 * * * *", result.Value)
		assert.True(t, result.FallbackApplied)
		assert.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "CRON_SCHEDULE")
		assert.Contains(t, result.Warnings[0], "every half hour")
	})

	t.Run("invalid timezone falls back", func(t *testing.T) {
		t.Setenv("WORKER_TIMEZONE", "America/NewYork")
		result := LoadEnvWithFallback("WORKER_TIMEZONE", "UTC", ValidateTimezone)
		assert.Equal(t, "UTC", result.Value)
		assert.True(t, result.FallbackApplied)
	})

	t.Run("nil validator accepts anything", func(t *testing.T) {
		t.Setenv("CRON_SCHEDULE", "whatever")
		result := LoadEnvWithFallback("CRON_SCHEDULE", "*/30 * * * *", nil)
		assert.Equal(t, "whatever", result.Value)
		assert.False(t, result.FallbackApplied)
	})
}

func TestLoadEnvDuration(t *testing.T) {
	inRange := func(d time.Duration) error {
		return ValidateDuration(d, 30*time.Second, time.Hour)
	}

	t.Run("unset uses default", func(t *testing.T) {
		result := LoadEnvDuration("WARM_TIMEOUT", 5*time.Minute, inRange)
		assert.Equal(t, 5*time.Minute, result.Value)
		assert.False(t, result.FallbackApplied)
	})

	t.Run("valid value wins", func(t *testing.T) {
		t.Setenv("WARM_TIMEOUT", "10m")
		result := LoadEnvDuration("WARM_TIMEOUT", 5*time.Minute, inRange)
		assert.Equal(t, 10*time.Minute, result.Value)
		assert.False(t, result.FallbackApplied)
	})

	t.Run("unparseable falls back", func(t *testing.T) {
		t.Setenv("WARM_TIMEOUT", "ten minutes")
		result := LoadEnvDuration("WARM_TIMEOUT", 5*time.Minute, inRange)
		assert.Equal(t, 5*time.Minute, result.Value)
		assert.True(t, result.FallbackApplied)
		assert.Contains(t, result.Warnings[0], "WARM_TIMEOUT")
	})

	t.Run("out of range falls back", func(t *testing.T) {
		t.Setenv("WARM_TIMEOUT", "24h")
		result := LoadEnvDuration("WARM_TIMEOUT", 5*time.Minute, inRange)
		assert.Equal(t, 5*time.Minute, result.Value)
		assert.True(t, result.FallbackApplied)
	})

	t.Run("bare number falls back", func(t *testing.T) {
		t.Setenv("WARM_TIMEOUT", "300")
		result := LoadEnvDuration("WARM_TIMEOUT", 5*time.Minute, inRange)
		assert.Equal(t, 5*time.Minute, result.Value)
		assert.True(t, result.FallbackApplied)
	})
}

func TestLoadEnvInt(t *testing.T) {
	portRange := func(v int) error {
		return ValidateIntRange(v, 1024, 65535)
	}

	t.Run("unset uses default", func(t *testing.T) {
		result := LoadEnvInt("WORKER_HEALTH_PORT", 9091, portRange)
		assert.Equal(t, 9091, result.Value)
		assert.False(t, result.FallbackApplied)
	})

	t.Run("valid value wins", func(t *testing.T) {
		t.Setenv("WORKER_HEALTH_PORT", "19091")
		result := LoadEnvInt("WORKER_HEALTH_PORT", 9091, portRange)
		assert.Equal(t, 19091, result.Value)
		assert.False(t, result.FallbackApplied)
	})

	t.Run("unparseable falls back", func(t *testing.T) {
		t.Setenv("WORKER_HEALTH_PORT", "ninety-ninety-one")
		result := LoadEnvInt("WORKER_HEALTH_PORT", 9091, portRange)
		assert.Equal(t, 9091, result.Value)
		assert.True(t, result.FallbackApplied)
		assert.Contains(t, result.Warnings[0], "WORKER_HEALTH_PORT")
	})

	t.Run("privileged port falls back", func(t *testing.T) {
		t.Setenv("WORKER_HEALTH_PORT", "80")
		result := LoadEnvInt("WORKER_HEALTH_PORT", 9091, portRange)
		assert.Equal(t, 9091, result.Value)
		assert.True(t, result.FallbackApplied)
	})
}
