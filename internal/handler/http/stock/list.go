package stock

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	httph "stockitect/internal/handler/http"
	"stockitect/internal/handler/http/respond"
	"stockitect/internal/observability/logging"
	"stockitect/internal/usecase/stocks"
)

const maxLimit = 1000 // provider cap per page

// ListHandler serves one page of the stock listing.
type ListHandler struct {
	Svc    *stocks.Service
	Logger *slog.Logger
}

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	logger := logging.WithRequestID(ctx, h.Logger)

	params, err := parseListParams(r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	page, err := h.Svc.GetStocks(ctx, params)
	if err != nil {
		logger.Error("stock listing failed",
			slog.String("cursor", params.Cursor),
			slog.String("error", err.Error()))
		respondAPIError(w, err)
		return
	}

	httph.RecordStocksServed("browse", len(page.Stocks))
	logger.Info("stock listing served",
		slog.Int("count", len(page.Stocks)),
		slog.Bool("has_more", page.Pagination.HasMore),
		slog.Duration("duration", time.Since(start)))

	respond.JSON(w, http.StatusOK, ListResponse{
		Stocks: toDTOs(page.Stocks),
		Pagination: PaginationDTO{
			NextCursor: page.Pagination.NextCursor,
			HasMore:    page.Pagination.HasMore,
		},
	})
}

// parseListParams reads limit, cursor, sort_by and sort_order. Defaults
// are applied by the service; only explicit bad values are rejected.
func parseListParams(r *http.Request) (stocks.ListParams, error) {
	q := r.URL.Query()
	params := stocks.ListParams{
		Cursor:    q.Get("cursor"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return params, errors.New("limit must be an integer")
		}
		if limit <= 0 || limit > maxLimit {
			return params, errors.New("limit must be between 1 and 1000")
		}
		params.Limit = limit
	}

	if so := params.SortOrder; so != "" && so != "asc" && so != "desc" {
		return params, errors.New("sort_order must be asc or desc")
	}
	return params, nil
}
