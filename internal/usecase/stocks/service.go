// Package stocks holds the business rules for browsing and searching the
// stock listing: the cache-or-fetch decision, cross-page deduplication,
// and the view-state coordinators that consume the repository.
package stocks

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"stockitect/internal/cache"
	"stockitect/internal/domain/entity"
)

// DefaultBatchSize is the page size used when a caller does not specify one.
const DefaultBatchSize = 50

// Gateway fetches stock data from the remote provider.
// Implementations must return *entity.APIError for every failure.
type Gateway interface {
	FetchListing(ctx context.Context, limit int, cursor string) ([]entity.Stock, string, error)
	SearchListing(ctx context.Context, query string, limit int) ([]entity.Stock, error)
}

// Connectivity reports whether the network is reachable. It never fails:
// when the answer cannot be determined the implementation reports offline.
type Connectivity interface {
	IsOnline(ctx context.Context) bool
}

// ListParams identifies one logical browse query. SortBy and SortOrder
// scope the cache key only; the provider listing order is fixed.
type ListParams struct {
	Limit     int
	Cursor    string
	SortBy    string
	SortOrder string
}

// cachedListing is the shape stored under a listing cache key: the page
// and its follow-up cursor travel together.
type cachedListing struct {
	Stocks     []entity.Stock `json:"stocks"`
	NextCursor string         `json:"nextCursor"`
}

// Service is the authoritative source of stock-list and stock-search data.
// It owns the cache/network decision; it never retries (the transport's
// job) and never swallows errors.
type Service struct {
	Gateway      Gateway
	Cache        *cache.Cache
	Connectivity Connectivity
	TTL          cache.TTLConfig
	Logger       *slog.Logger
}

// NewService creates a stocks Service with the provided collaborators.
func NewService(gateway Gateway, c *cache.Cache, conn Connectivity, ttl cache.TTLConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Gateway:      gateway,
		Cache:        c,
		Connectivity: conn,
		TTL:          ttl,
		Logger:       logger,
	}
}

// GetStocks returns one page of the listing. First-page calls (empty
// cursor) are served from cache when a fresh entry exists; cache misses
// and cursor-bearing calls go to the gateway after a connectivity check.
// First-page fetches are written back to cache under the same key.
func (s *Service) GetStocks(ctx context.Context, params ListParams) (*entity.StocksPage, error) {
	params = s.normalize(params)
	key := cache.ListingKey(params.SortBy, params.SortOrder, params.Limit)

	if params.Cursor == "" {
		if cached, ok := cache.Get[cachedListing](ctx, s.Cache, key, s.TTL.Stocks); ok && len(cached.Stocks) > 0 {
			s.Logger.Debug("listing served from cache", slog.String("key", key))
			return &entity.StocksPage{
				Stocks:     cached.Stocks,
				Pagination: entity.NewPaginationInfo(cached.NextCursor),
			}, nil
		}
	}

	if !s.Connectivity.IsOnline(ctx) {
		return nil, entity.NewAPIError(entity.CodeNetworkUnavailable, nil)
	}

	// gateway errors pass through verbatim; they already carry the
	// *entity.APIError shape and no reclassification happens here
	found, nextCursor, err := s.Gateway.FetchListing(ctx, params.Limit, params.Cursor)
	if err != nil {
		return nil, err
	}

	if params.Cursor == "" {
		cache.Set(ctx, s.Cache, key, cachedListing{Stocks: found, NextCursor: nextCursor})
		s.Cache.TouchLastUpdate(ctx, cache.CategoryStocks)
	}

	return &entity.StocksPage{
		Stocks:     found,
		Pagination: entity.NewPaginationInfo(nextCursor),
	}, nil
}

// SearchStocks returns stocks matching a free-text query. A blank query
// resolves to an empty result without touching the cache or the network.
func (s *Service) SearchStocks(ctx context.Context, query string, params ListParams) ([]entity.Stock, error) {
	if strings.TrimSpace(query) == "" {
		return []entity.Stock{}, nil
	}
	params = s.normalize(params)
	key := cache.SearchKey(query, params.SortBy, params.SortOrder, params.Limit)

	if cached, ok := cache.Get[[]entity.Stock](ctx, s.Cache, key, s.TTL.Search); ok && len(cached) > 0 {
		s.Logger.Debug("search served from cache", slog.String("key", key))
		return cached, nil
	}

	if !s.Connectivity.IsOnline(ctx) {
		return nil, entity.NewAPIError(entity.CodeNetworkUnavailable, nil)
	}

	found, err := s.Gateway.SearchListing(ctx, query, params.Limit)
	if err != nil {
		return nil, err
	}

	if len(found) > 0 {
		cache.Set(ctx, s.Cache, key, found)
		s.Cache.TouchLastUpdate(ctx, cache.CategorySearch)
	}
	return found, nil
}

// DeduplicateStocks collapses the slice to one entry per ticker. The last
// occurrence wins so a freshly appended page overrides stale duplicates
// from an earlier page, while each ticker keeps its first-seen position.
func DeduplicateStocks(in []entity.Stock) []entity.Stock {
	index := make(map[string]int, len(in))
	out := make([]entity.Stock, 0, len(in))
	for _, stock := range in {
		if at, seen := index[stock.Ticker]; seen {
			out[at] = stock
			continue
		}
		index[stock.Ticker] = len(out)
		out = append(out, stock)
	}
	return out
}

// WarmListing refreshes the default first page straight from the gateway
// and rewrites the listing cache, bypassing the read path. Used by the
// background worker to keep the cache warm.
func (s *Service) WarmListing(ctx context.Context, params ListParams) (int, error) {
	params = s.normalize(params)
	if !s.Connectivity.IsOnline(ctx) {
		return 0, entity.NewAPIError(entity.CodeNetworkUnavailable, nil)
	}

	found, nextCursor, err := s.Gateway.FetchListing(ctx, params.Limit, "")
	if err != nil {
		return 0, fmt.Errorf("warm listing: %w", err)
	}

	key := cache.ListingKey(params.SortBy, params.SortOrder, params.Limit)
	cache.Set(ctx, s.Cache, key, cachedListing{Stocks: found, NextCursor: nextCursor})
	s.Cache.TouchLastUpdate(ctx, cache.CategoryStocks)
	return len(found), nil
}

// ClearCache evicts every cache entry this service may have written.
func (s *Service) ClearCache(ctx context.Context) {
	s.Cache.Clear(ctx, "")
}

func (s *Service) normalize(params ListParams) ListParams {
	if params.Limit <= 0 {
		params.Limit = DefaultBatchSize
	}
	if params.SortBy == "" {
		params.SortBy = "ticker"
	}
	if params.SortOrder == "" {
		params.SortOrder = "asc"
	}
	return params
}
