package stock

import (
	"log/slog"
	"net/http"
	"time"

	"stockitect/internal/domain/entity"
	httph "stockitect/internal/handler/http"
	"stockitect/internal/handler/http/respond"
	"stockitect/internal/observability/logging"
	"stockitect/internal/usecase/stocks"
)

// SearchHandler serves free-text stock search.
type SearchHandler struct {
	Svc    *stocks.Service
	Logger *slog.Logger
}

func (h SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	logger := logging.WithRequestID(ctx, h.Logger)

	params, err := parseListParams(r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	query := r.URL.Query().Get("q")

	// a blank query legitimately resolves to zero results
	results, err := h.Svc.SearchStocks(ctx, query, params)
	if err != nil {
		logger.Error("stock search failed",
			slog.String("error", err.Error()))
		respondAPIError(w, err)
		return
	}

	httph.RecordStocksServed("search", len(results))
	logger.Info("stock search served",
		slog.Int("count", len(results)),
		slog.Duration("duration", time.Since(start)))

	respond.JSON(w, http.StatusOK, SearchResponse{
		Stocks: toDTOs(results),
		Query:  query,
	})
}

// respondAPIError translates a data-access failure into an HTTP response.
// The taxonomy code and message go to the client as-is; raw causes stay in
// the logs.
func respondAPIError(w http.ResponseWriter, err error) {
	if apiErr, ok := entity.AsAPIError(err); ok {
		respond.JSON(w, statusFor(apiErr), map[string]string{
			"code":  string(apiErr.Code),
			"error": apiErr.Message,
		})
		return
	}
	respond.SafeError(w, http.StatusInternalServerError, err)
}
