package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListingKey(t *testing.T) {
	assert.Equal(t, "stockitect_stocks_page_ticker_asc_50", ListingKey("ticker", "asc", 50))
	assert.Equal(t, "stockitect_stocks_page_name_desc_100", ListingKey("name", "desc", 100))
}

func TestSearchKey_normalizesQuery(t *testing.T) {
	// Equivalent queries must share one cache entry.
	assert.Equal(t, SearchKey("Apple", "ticker", "asc", 50), SearchKey("  apple  ", "ticker", "asc", 50))
	assert.Equal(t, "stockitect_search_results_apple_ticker_asc_50", SearchKey("Apple", "ticker", "asc", 50))
}

func TestLastUpdateKey(t *testing.T) {
	assert.Equal(t, "stockitect_last_update_stocks", LastUpdateKey(CategoryStocks))
	assert.Equal(t, "stockitect_last_update_search", LastUpdateKey(CategorySearch))
}
