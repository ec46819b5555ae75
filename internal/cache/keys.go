package cache

import (
	"fmt"
	"strings"
)

// Prefix namespaces every cache key so bulk eviction and key scans never
// touch foreign data in a shared store.
const Prefix = "stockitect_"

// Cache categories used for last-update timestamps and metrics.
const (
	CategoryStocks = "stocks"
	CategorySearch = "search"
)

// ListingKey builds the composite key for a cached first page of the stock
// listing. The key shape is defined here once so the read and write paths
// cannot drift.
func ListingKey(sortBy, sortOrder string, limit int) string {
	return fmt.Sprintf("%sstocks_page_%s_%s_%d", Prefix, sortBy, sortOrder, limit)
}

// SearchKey builds the composite key for cached search results.
// The query is trimmed and lowercased so equivalent queries share an entry.
func SearchKey(query, sortBy, sortOrder string, limit int) string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	return fmt.Sprintf("%ssearch_results_%s_%s_%s_%d", Prefix, normalized, sortBy, sortOrder, limit)
}

// LastUpdateKey builds the key holding the last refresh timestamp for a
// cache category.
func LastUpdateKey(category string) string {
	return Prefix + "last_update_" + category
}
