// Package polygon provides the client for the Polygon.io reference-tickers
// API. It contains the rate-limited HTTP transport (transparent retry on
// HTTP 429 with exponential backoff) and the gateway mapping provider wire
// shapes into domain entities. All provider-specific knowledge — endpoint
// paths, field names, query parameter names — is isolated here.
package polygon

import (
	"time"

	"stockitect/pkg/config"
)

// Provider endpoint constants.
const (
	// DefaultBaseURL is the Polygon.io API origin.
	DefaultBaseURL = "https://api.polygon.io"

	// TickersPath is the reference-tickers listing endpoint.
	TickersPath = "/v3/reference/tickers"
)

// Fixed listing filters. The application only browses active Nasdaq stocks
// sorted by ticker; these never vary per request.
const (
	filterMarket   = "stocks"
	filterExchange = "XNAS" // primary exchange code for Nasdaq
	filterActive   = "true"
	filterSort     = "ticker"
	filterOrder    = "asc"
)

// Config holds transport and gateway configuration.
type Config struct {
	// BaseURL is the API origin, overridable for tests.
	BaseURL string

	// APIKey authenticates every request via the apiKey query parameter.
	APIKey string

	// Timeout bounds a single HTTP attempt. Each retried attempt gets a
	// fresh timeout; the retry loop is not covered by it.
	Timeout time.Duration

	// MaxRetries is the retry budget for HTTP 429 responses. A request
	// hitting 429 every time is attempted exactly MaxRetries+1 times.
	MaxRetries int

	// RetryDelayBase and RetryDelayFactor define the backoff schedule:
	// the n-th retry waits RetryDelayBase * RetryDelayFactor^n.
	RetryDelayBase   time.Duration
	RetryDelayFactor float64

	// DisableBackoffWait replaces the backoff timer with a single
	// cooperative yield so tests run in bounded wall-clock time.
	DisableBackoffWait bool

	// RequestsPerMinute paces outgoing requests client-side.
	// Zero disables pacing.
	RequestsPerMinute float64
}

// DefaultConfig returns the production transport settings.
func DefaultConfig() Config {
	return Config{
		BaseURL:           DefaultBaseURL,
		Timeout:           10 * time.Second,
		MaxRetries:        3,
		RetryDelayBase:    2 * time.Second,
		RetryDelayFactor:  2.5,
		RequestsPerMinute: 5, // Polygon free tier
	}
}

// LoadConfig reads configuration from the environment with fallback to the
// defaults.
//
// Environment variables:
//   - POLYGON_API_KEY: provider API key (required in production)
//   - POLYGON_BASE_URL: API origin override
//   - POLYGON_TIMEOUT: per-attempt timeout (default: 10s)
//   - POLYGON_MAX_RETRIES: 429 retry budget (default: 3)
//   - POLYGON_RETRY_DELAY_BASE: backoff base delay (default: 2s)
//   - POLYGON_REQUESTS_PER_MINUTE: client-side pacing (default: 5, 0 disables)
func LoadConfig() Config {
	defaults := DefaultConfig()
	return Config{
		BaseURL:           config.GetEnvString("POLYGON_BASE_URL", defaults.BaseURL),
		APIKey:            config.GetEnvString("POLYGON_API_KEY", ""),
		Timeout:           config.GetEnvDuration("POLYGON_TIMEOUT", defaults.Timeout),
		MaxRetries:        config.GetEnvInt("POLYGON_MAX_RETRIES", defaults.MaxRetries),
		RetryDelayBase:    config.GetEnvDuration("POLYGON_RETRY_DELAY_BASE", defaults.RetryDelayBase),
		RetryDelayFactor:  defaults.RetryDelayFactor,
		RequestsPerMinute: float64(config.GetEnvInt("POLYGON_REQUESTS_PER_MINUTE", int(defaults.RequestsPerMinute))),
	}
}
