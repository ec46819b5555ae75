// Package entity defines the core domain entities and error taxonomy for the application.
// It contains the fundamental business objects such as Stock and PaginationInfo, along
// with the APIError type returned by every data-access operation.
package entity

// Stock represents a single listed security.
// It is an immutable value type: instances are created by mapping raw
// provider records and are replaced wholesale when re-fetched, never mutated.
// Ticker is the primary key within any result set.
type Stock struct {
	Ticker    string  `json:"ticker"`
	Name      string  `json:"name"`
	Exchange  string  `json:"exchange,omitempty"`
	Type      string  `json:"type,omitempty"`
	MarketCap float64 `json:"market_cap,omitempty"`
	Currency  string  `json:"currency,omitempty"`
}

// PaginationInfo describes the cursor state of a paginated listing.
// HasMore is true if and only if NextCursor is non-empty; use
// NewPaginationInfo so the invariant cannot drift.
type PaginationInfo struct {
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}

// NewPaginationInfo derives PaginationInfo from an upstream cursor.
// An empty cursor means there are no further pages.
func NewPaginationInfo(nextCursor string) PaginationInfo {
	return PaginationInfo{
		NextCursor: nextCursor,
		HasMore:    nextCursor != "",
	}
}

// StocksPage is one page of a stock listing together with its pagination state.
type StocksPage struct {
	Stocks     []Stock        `json:"stocks"`
	Pagination PaginationInfo `json:"pagination"`
}
