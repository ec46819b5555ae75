package stocks

import (
	"context"
	"sync"

	"stockitect/internal/domain/entity"
)

// ListState is a point-in-time copy of a list coordinator's view state.
type ListState struct {
	Stocks      []entity.Stock
	Pagination  entity.PaginationInfo
	Loading     bool
	LoadingMore bool
}

// ListCoordinator owns the view state for one browse sequence: the
// accumulated stock list, its pagination, and the loading flags. The
// repository provides no guard against concurrent loads on the same
// cursor, so the coordinator refuses to start a load while one is in
// flight. A closed coordinator's state is frozen: results arriving after
// Close are discarded.
type ListCoordinator struct {
	svc    *Service
	params ListParams

	mu         sync.Mutex
	closed     bool
	inFlight   bool
	loading    bool
	moreFlag   bool
	stocks     []entity.Stock
	pagination entity.PaginationInfo
}

// NewListCoordinator creates a coordinator for one browse sequence.
// The cursor in params is ignored; the coordinator owns pagination.
func NewListCoordinator(svc *Service, params ListParams) *ListCoordinator {
	params.Cursor = ""
	return &ListCoordinator{svc: svc, params: params}
}

// Load fetches the first page, replacing any previously loaded state.
// It refuses with ErrLoadInFlight while another load is outstanding.
func (c *ListCoordinator) Load(ctx context.Context) error {
	if err := c.begin(true); err != nil {
		return err
	}

	page, err := c.svc.GetStocks(ctx, c.params)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	c.loading = false
	if c.closed {
		return ErrCoordinatorClosed
	}
	if err != nil {
		c.degradeOnRateLimit(err)
		return err
	}
	c.stocks = DeduplicateStocks(page.Stocks)
	c.pagination = page.Pagination
	return nil
}

// LoadMore fetches the next page and merges it into the accumulated
// list. The fresh page is appended before deduplication so its entries
// override stale duplicates from earlier pages. A call with no further
// pages is a no-op.
func (c *ListCoordinator) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrCoordinatorClosed
	}
	if c.inFlight {
		c.mu.Unlock()
		return ErrLoadInFlight
	}
	if !c.pagination.HasMore {
		c.mu.Unlock()
		return nil
	}
	params := c.params
	params.Cursor = c.pagination.NextCursor
	c.inFlight = true
	c.moreFlag = true
	c.mu.Unlock()

	page, err := c.svc.GetStocks(ctx, params)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	c.moreFlag = false
	if c.closed {
		return ErrCoordinatorClosed
	}
	if err != nil {
		c.degradeOnRateLimit(err)
		return err
	}
	c.stocks = DeduplicateStocks(append(c.stocks, page.Stocks...))
	c.pagination = page.Pagination
	return nil
}

// State returns a copy of the current view state.
func (c *ListCoordinator) State() ListState {
	c.mu.Lock()
	defer c.mu.Unlock()
	stocks := make([]entity.Stock, len(c.stocks))
	copy(stocks, c.stocks)
	return ListState{
		Stocks:      stocks,
		Pagination:  c.pagination,
		Loading:     c.loading,
		LoadingMore: c.moreFlag,
	}
}

// Close freezes the coordinator. In-flight results are discarded.
func (c *ListCoordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *ListCoordinator) begin(firstPage bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrCoordinatorClosed
	}
	if c.inFlight {
		return ErrLoadInFlight
	}
	c.inFlight = true
	if firstPage {
		c.loading = true
	}
	return nil
}

// degradeOnRateLimit stops further pagination once the provider's rate
// limit is exhausted; already loaded pages stay visible. Callers must
// hold the mutex.
func (c *ListCoordinator) degradeOnRateLimit(err error) {
	if apiErr, ok := entity.AsAPIError(err); ok && apiErr.Code == entity.CodeRateLimitExceeded {
		c.pagination = entity.PaginationInfo{}
	}
}
