package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// envelope wraps every cached value with the write timestamp used for
// read-time expiry checks.
type envelope struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"` // epoch millis
}

// Cache is the TTL layer the stocks repository reads and writes through.
// Every failure of the underlying store degrades to a miss (reads) or a
// no-op (writes); callers never see a cache error.
type Cache struct {
	store   Store
	clock   Clock
	logger  *slog.Logger
	metrics MetricsRecorder
}

// Option customizes a Cache.
type Option func(*Cache)

// WithClock injects a clock, letting tests control expiry.
func WithClock(clock Clock) Option {
	return func(c *Cache) { c.clock = clock }
}

// WithLogger sets the logger used for absorbed store failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(c *Cache) { c.metrics = m }
}

// New creates a Cache on the given store.
func New(store Store, opts ...Option) *Cache {
	c := &Cache{
		store:   store,
		clock:   SystemClock{},
		logger:  slog.Default(),
		metrics: NoopMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get reads and unwraps a cached value. It reports a miss when the key is
// absent, the entry is older than ttl, or the payload cannot be decoded.
// The expiry check happens only here; expired entries stay in the store
// until overwritten or cleared.
func Get[T any](ctx context.Context, c *Cache, key string, ttl time.Duration) (T, bool) {
	var zero T
	category := categoryOf(key)

	raw, found, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache read failed, treating as miss",
			slog.String("key", key),
			slog.Any("error", err))
		c.metrics.RecordError("get")
		return zero, false
	}
	if !found {
		c.metrics.RecordMiss(category)
		return zero, false
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		c.logger.Warn("cache entry corrupt, treating as miss",
			slog.String("key", key),
			slog.Any("error", err))
		c.metrics.RecordMiss(category)
		return zero, false
	}

	age := c.clock.Now().UnixMilli() - env.Timestamp
	if age > ttl.Milliseconds() {
		c.metrics.RecordMiss(category)
		return zero, false
	}

	var value T
	if err := json.Unmarshal(env.Data, &value); err != nil {
		c.logger.Warn("cache payload corrupt, treating as miss",
			slog.String("key", key),
			slog.Any("error", err))
		c.metrics.RecordMiss(category)
		return zero, false
	}

	c.metrics.RecordHit(category)
	return value, true
}

// Set wraps and writes a value. It is best-effort: store failures are
// logged and absorbed so a cache write can never fail the surrounding
// business operation.
func Set[T any](ctx context.Context, c *Cache, key string, value T) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache value not serializable, skipping write",
			slog.String("key", key),
			slog.Any("error", err))
		return
	}

	raw, err := json.Marshal(envelope{
		Data:      data,
		Timestamp: c.clock.Now().UnixMilli(),
	})
	if err != nil {
		c.logger.Warn("cache envelope encode failed, skipping write",
			slog.String("key", key),
			slog.Any("error", err))
		return
	}

	if err := c.store.Set(ctx, key, string(raw)); err != nil {
		c.logger.Warn("cache write failed",
			slog.String("key", key),
			slog.Any("error", err))
		c.metrics.RecordError("set")
	}
}

// Clear evicts all keys, or only those under the given prefix.
// Failures are logged and absorbed.
func (c *Cache) Clear(ctx context.Context, prefix string) {
	keys, err := c.store.Keys(ctx)
	if err != nil {
		c.logger.Warn("cache clear: listing keys failed",
			slog.Any("error", err))
		c.metrics.RecordError("clear")
		return
	}

	toDelete := keys
	if prefix != "" {
		toDelete = nil
		for _, k := range keys {
			if strings.HasPrefix(k, prefix) {
				toDelete = append(toDelete, k)
			}
		}
	}
	if len(toDelete) == 0 {
		return
	}

	if err := c.store.DeleteMany(ctx, toDelete); err != nil {
		c.logger.Warn("cache clear: delete failed",
			slog.Int("keys", len(toDelete)),
			slog.Any("error", err))
		c.metrics.RecordError("clear")
	}
}

// TouchLastUpdate stamps the refresh timestamp for a cache category.
func (c *Cache) TouchLastUpdate(ctx context.Context, category string) {
	ts := strconv.FormatInt(c.clock.Now().UnixMilli(), 10)
	if err := c.store.Set(ctx, LastUpdateKey(category), ts); err != nil {
		c.logger.Warn("last-update stamp failed",
			slog.String("category", category),
			slog.Any("error", err))
		c.metrics.RecordError("touch")
	}
}

// LastUpdate reads the refresh timestamp for a cache category.
// The second return value is false when no stamp exists or it is unreadable.
func (c *Cache) LastUpdate(ctx context.Context, category string) (time.Time, bool) {
	raw, found, err := c.store.Get(ctx, LastUpdateKey(category))
	if err != nil || !found {
		return time.Time{}, false
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(millis), true
}

// categoryOf maps a cache key to its metrics category.
func categoryOf(key string) string {
	switch {
	case strings.HasPrefix(key, Prefix+"stocks_page_"):
		return CategoryStocks
	case strings.HasPrefix(key, Prefix+"search_results_"):
		return CategorySearch
	default:
		return "default"
	}
}
