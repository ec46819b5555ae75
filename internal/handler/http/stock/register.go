package stock

import (
	"log/slog"
	"net/http"

	"stockitect/internal/usecase/stocks"
)

// Register registers the stock listing and search handlers with the mux.
func Register(mux *http.ServeMux, svc *stocks.Service, logger *slog.Logger) {
	mux.Handle("GET /stocks", ListHandler{Svc: svc, Logger: logger})
	mux.Handle("GET /stocks/search", SearchHandler{Svc: svc, Logger: logger})
}
