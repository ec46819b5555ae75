// Package stock provides HTTP handlers for the stock listing and search
// endpoints.
package stock

import (
	"net/http"

	"stockitect/internal/domain/entity"
)

// DTO represents the JSON structure for stock data transfer.
type DTO struct {
	Ticker    string  `json:"ticker"`
	Name      string  `json:"name"`
	Exchange  string  `json:"exchange,omitempty"`
	Type      string  `json:"type,omitempty"`
	MarketCap float64 `json:"market_cap,omitempty"`
	Currency  string  `json:"currency,omitempty"`
}

// PaginationDTO carries the cursor the client echoes back to fetch the
// next page.
type PaginationDTO struct {
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}

// ListResponse is the response body for GET /stocks.
type ListResponse struct {
	Stocks     []DTO         `json:"stocks"`
	Pagination PaginationDTO `json:"pagination"`
}

// SearchResponse is the response body for GET /stocks/search.
type SearchResponse struct {
	Stocks []DTO `json:"stocks"`
	Query  string `json:"query"`
}

func toDTOs(in []entity.Stock) []DTO {
	out := make([]DTO, 0, len(in))
	for _, s := range in {
		out = append(out, DTO{
			Ticker:    s.Ticker,
			Name:      s.Name,
			Exchange:  s.Exchange,
			Type:      s.Type,
			MarketCap: s.MarketCap,
			Currency:  s.Currency,
		})
	}
	return out
}

// statusFor maps the data-access error taxonomy onto HTTP statuses. The
// provider's own rate limit surfaces as 503 (this API's own limit is a
// separate 429); auth misconfiguration is 502 rather than 401 because the
// fault is ours, not the caller's.
func statusFor(apiErr *entity.APIError) int {
	switch apiErr.Code {
	case entity.CodeRateLimitExceeded:
		return http.StatusServiceUnavailable
	case entity.CodeInvalidAPIKey:
		return http.StatusBadGateway
	case entity.CodeNetworkError, entity.CodeNetworkUnavailable:
		return http.StatusServiceUnavailable
	case entity.CodeUnknown:
		return http.StatusInternalServerError
	default:
		// provider-reported status: shield callers from upstream 4xx
		return http.StatusBadGateway
	}
}
