package polygon

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"runtime"
	"time"

	"golang.org/x/time/rate"

	"stockitect/internal/resilience/circuitbreaker"
)

// Request describes one logical HTTP request to the provider.
// The transport may issue it several times when rate-limited; the
// descriptor itself is never mutated.
type Request struct {
	Method string
	Path   string
	Query  url.Values
}

// Response is a fully-read provider response.
type Response struct {
	StatusCode int
	Body       []byte
}

// Client is the rate-limited transport. It issues a request and guarantees
// that transient provider rate limiting (HTTP 429) does not surface until
// the retry budget is exhausted, at which point the last 429 response is
// passed through unchanged. Every non-429 response and every transport
// error propagates immediately with zero retries.
type Client struct {
	httpClient *http.Client
	cfg        Config
	limiter    *rate.Limiter
	breaker    *circuitbreaker.CircuitBreaker
	logger     *slog.Logger
	metrics    MetricsRecorder
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Intended for tests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the transport logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// WithMetrics sets the transport metrics recorder.
func WithMetrics(m MetricsRecorder) ClientOption {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a transport with the given configuration.
// Client-side pacing and the circuit breaker follow the configuration;
// the per-attempt timeout is enforced through context deadlines so the
// retry loop itself is never cut short by a stale timer.
func NewClient(cfg Config, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{},
		cfg:        cfg,
		breaker:    circuitbreaker.New(circuitbreaker.MarketDataConfig()),
		logger:     slog.Default(),
		metrics:    NoopMetrics{},
	}
	if cfg.RequestsPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerMinute/60.0), 1)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do issues the request, retrying on HTTP 429 with exponential backoff.
// The attempt counter is local to this call; parallel requests never share
// retry state.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	for attempt := 0; ; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("request pacing: %w", err)
			}
		}

		c.metrics.RecordAttempt()
		resp, err := c.doOnce(ctx, req)
		if err != nil {
			return nil, err
		}
		c.metrics.RecordStatus(resp.StatusCode)

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}
		if attempt >= c.cfg.MaxRetries {
			// Budget exhausted: hand the last 429 to the caller unchanged.
			return resp, nil
		}

		retry := attempt + 1
		delay := time.Duration(float64(c.cfg.RetryDelayBase) *
			math.Pow(c.cfg.RetryDelayFactor, float64(retry)))
		c.logger.Warn("provider rate limit hit, backing off",
			slog.Int("retry", retry),
			slog.Int("max_retries", c.cfg.MaxRetries),
			slog.Duration("delay", delay))
		c.metrics.RecordRetry()

		if c.cfg.DisableBackoffWait {
			runtime.Gosched()
			continue
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("backoff aborted: %w", ctx.Err())
		}
	}
}

// doOnce performs one HTTP attempt with its own fresh timeout, routed
// through the circuit breaker.
func (c *Client) doOnce(ctx context.Context, req Request) (*Response, error) {
	attemptCtx := ctx
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	u := c.cfg.BaseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(attemptCtx, req.Method, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	result, err := c.breaker.Execute(func() (interface{}, error) {
		httpResp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return nil, err
		}
		defer func() { _ = httpResp.Body.Close() }()

		body, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return nil, err
		}
		return &Response{StatusCode: httpResp.StatusCode, Body: body}, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Response), nil
}
