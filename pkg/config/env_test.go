package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvString(t *testing.T) {
	t.Run("set", func(t *testing.T) {
		t.Setenv("LISTEN_ADDR", ":9000")
		assert.Equal(t, ":9000", GetEnvString("LISTEN_ADDR", ":8080"))
	})

	t.Run("unset uses default", func(t *testing.T) {
		assert.Equal(t, ":8080", GetEnvString("LISTEN_ADDR", ":8080"))
	})

	t.Run("empty uses default", func(t *testing.T) {
		t.Setenv("LISTEN_ADDR", "")
		assert.Equal(t, ":8080", GetEnvString("LISTEN_ADDR", ":8080"))
	})
}

func TestGetEnvInt(t *testing.T) {
	t.Run("set", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_REQUESTS", "250")
		assert.Equal(t, 250, GetEnvInt("RATE_LIMIT_REQUESTS", 100))
	})

	t.Run("unset uses default", func(t *testing.T) {
		assert.Equal(t, 100, GetEnvInt("RATE_LIMIT_REQUESTS", 100))
	})

	t.Run("garbage uses default", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_REQUESTS", "plenty")
		assert.Equal(t, 100, GetEnvInt("RATE_LIMIT_REQUESTS", 100))
	})
}

func TestGetEnvBool(t *testing.T) {
	t.Run("true forms", func(t *testing.T) {
		for _, raw := range []string{"1", "t", "true", "TRUE", "True"} {
			t.Setenv("RATE_LIMIT_ENABLED", raw)
			assert.True(t, GetEnvBool("RATE_LIMIT_ENABLED", false), "raw=%q", raw)
		}
	})

	t.Run("false forms", func(t *testing.T) {
		for _, raw := range []string{"0", "f", "false", "FALSE", "False"} {
			t.Setenv("RATE_LIMIT_ENABLED", raw)
			assert.False(t, GetEnvBool("RATE_LIMIT_ENABLED", true), "raw=%q", raw)
		}
	})

	t.Run("unset uses default", func(t *testing.T) {
		assert.True(t, GetEnvBool("RATE_LIMIT_ENABLED", true))
	})

	t.Run("garbage uses default", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_ENABLED", "yep")
		assert.True(t, GetEnvBool("RATE_LIMIT_ENABLED", true))
	})
}

func TestGetEnvDuration(t *testing.T) {
	t.Run("set", func(t *testing.T) {
		t.Setenv("REQUEST_TIMEOUT", "90s")
		assert.Equal(t, 90*time.Second, GetEnvDuration("REQUEST_TIMEOUT", time.Minute))
	})

	t.Run("compound units", func(t *testing.T) {
		t.Setenv("REQUEST_TIMEOUT", "1m30s")
		assert.Equal(t, 90*time.Second, GetEnvDuration("REQUEST_TIMEOUT", time.Minute))
	})

	t.Run("unset uses default", func(t *testing.T) {
		assert.Equal(t, time.Minute, GetEnvDuration("REQUEST_TIMEOUT", time.Minute))
	})

	t.Run("bare number uses default", func(t *testing.T) {
		t.Setenv("REQUEST_TIMEOUT", "90")
		assert.Equal(t, time.Minute, GetEnvDuration("REQUEST_TIMEOUT", time.Minute))
	})
}
