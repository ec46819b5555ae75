package polygon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"stockitect/internal/domain/entity"
)

// tickersResponse is the provider wire shape for the tickers listing.
type tickersResponse struct {
	Results []tickerResult `json:"results"`
	NextURL string         `json:"next_url"`
}

// tickerResult is one raw provider record.
type tickerResult struct {
	Ticker          string  `json:"ticker"`
	Name            string  `json:"name"`
	PrimaryExchange string  `json:"primary_exchange"`
	Type            string  `json:"type"`
	MarketCap       float64 `json:"market_cap"`
	CurrencyName    string  `json:"currency_name"`
}

// errorResponse is the provider wire shape for failures.
type errorResponse struct {
	Error string `json:"error"`
}

// Gateway translates between the transport's raw HTTP semantics and the
// domain shape. Every failure leaving this type is an *entity.APIError;
// raw transport errors never escape.
type Gateway struct {
	client *Client
	cfg    Config
	logger *slog.Logger
}

// NewGateway creates a gateway on the given transport.
func NewGateway(client *Client, cfg Config) *Gateway {
	return &Gateway{client: client, cfg: cfg, logger: slog.Default()}
}

// FetchListing retrieves one page of the stock listing.
// The returned cursor is empty when the provider reports no further pages.
func (g *Gateway) FetchListing(ctx context.Context, limit int, cursor string) ([]entity.Stock, string, error) {
	query := g.baseQuery(limit)
	if cursor != "" {
		query.Set("cursor", cursor)
	}

	parsed, err := g.get(ctx, query)
	if err != nil {
		return nil, "", err
	}
	return mapTickers(parsed.Results), extractNextCursor(parsed.NextURL), nil
}

// SearchListing retrieves stocks matching a free-text query.
// A blank query resolves to no results without a network call; callers
// rely on this to avoid needless churn.
func (g *Gateway) SearchListing(ctx context.Context, query string, limit int) ([]entity.Stock, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	q := g.baseQuery(limit)
	q.Set("search", query)

	parsed, err := g.get(ctx, q)
	if err != nil {
		return nil, err
	}
	return mapTickers(parsed.Results), nil
}

// baseQuery returns the fixed listing filters plus limit and API key.
func (g *Gateway) baseQuery(limit int) url.Values {
	q := url.Values{}
	q.Set("market", filterMarket)
	q.Set("exchange", filterExchange)
	q.Set("active", filterActive)
	q.Set("sort", filterSort)
	q.Set("order", filterOrder)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("apiKey", g.cfg.APIKey)
	return q
}

// get issues the request and classifies every possible failure.
func (g *Gateway) get(ctx context.Context, query url.Values) (*tickersResponse, error) {
	resp, err := g.client.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   TickersPath,
		Query:  query,
	})
	if err != nil {
		return nil, classifyTransportError(err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, entity.NewAPIError(entity.CodeRateLimitExceeded, nil)
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, entity.NewAPIError(entity.CodeInvalidAPIKey, nil)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		var errResp errorResponse
		_ = json.Unmarshal(resp.Body, &errResp)
		return nil, entity.NewStatusError(resp.StatusCode, errResp.Error, nil)
	}

	var parsed tickersResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return nil, entity.NewAPIError(entity.CodeUnknown, fmt.Errorf("decode response: %w", err))
	}
	return &parsed, nil
}

// classifyTransportError maps transport failures into the error taxonomy.
// A request that reached the network but got no response is NETWORK_ERROR;
// anything else (breaker open, malformed request, cancelled pacing) falls
// back to the unknown kind.
func classifyTransportError(err error) *entity.APIError {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return entity.NewAPIError(entity.CodeNetworkError, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return entity.NewAPIError(entity.CodeNetworkError, err)
	}
	return entity.NewAPIError(entity.CodeUnknown, err)
}

// mapTickers maps raw provider records to domain stocks.
func mapTickers(results []tickerResult) []entity.Stock {
	stocks := make([]entity.Stock, 0, len(results))
	for _, t := range results {
		stocks = append(stocks, entity.Stock{
			Ticker:    t.Ticker,
			Name:      t.Name,
			Exchange:  t.PrimaryExchange,
			Type:      t.Type,
			MarketCap: t.MarketCap,
			Currency:  t.CurrencyName,
		})
	}
	return stocks
}

// extractNextCursor pulls the cursor query parameter out of the provider's
// next-page URL. A missing URL, a missing parameter, or malformed
// percent-encoding all mean "no further pages"; this routine never fails.
func extractNextCursor(nextURL string) string {
	if nextURL == "" {
		return ""
	}
	u, err := url.Parse(nextURL)
	if err != nil {
		return ""
	}
	values, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return ""
	}
	return values.Get("cursor")
}
