package stocks

import (
	"context"
	"strings"
	"sync"
	"time"

	"stockitect/internal/domain/entity"
)

// DefaultDebounce is the window used to collapse rapid search input into
// a single repository call.
const DefaultDebounce = 300 * time.Millisecond

// SearchState is a point-in-time copy of a search coordinator's state.
type SearchState struct {
	Query     string
	Results   []entity.Stock
	Searching bool
	Err       error
}

// SearchCoordinator owns the view state for one search box. Rapid input
// through Search is debounced on a timer owned by this instance, so
// concurrent coordinators never interfere; SearchNow bypasses the timer
// for deterministic use.
type SearchCoordinator struct {
	svc      *Service
	params   ListParams
	debounce time.Duration

	mu        sync.Mutex
	closed    bool
	timer     *time.Timer
	query     string
	results   []entity.Stock
	searching bool
	lastErr   error
}

// NewSearchCoordinator creates a coordinator with the given debounce
// window; zero or negative means DefaultDebounce.
func NewSearchCoordinator(svc *Service, params ListParams, debounce time.Duration) *SearchCoordinator {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &SearchCoordinator{svc: svc, params: params, debounce: debounce}
}

// Search schedules a debounced search for query. Each call resets the
// window, so a burst of keystrokes resolves to one repository call for
// the last query. A blank query clears the results immediately without
// touching the repository.
func (c *SearchCoordinator) Search(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.query = query

	if strings.TrimSpace(query) == "" {
		c.results = nil
		c.lastErr = nil
		c.searching = false
		return
	}

	c.timer = time.AfterFunc(c.debounce, func() {
		_ = c.SearchNow(context.Background(), query)
	})
}

// SearchNow runs the search immediately, bypassing the debounce window.
// Results arriving after Close are discarded.
func (c *SearchCoordinator) SearchNow(ctx context.Context, query string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrCoordinatorClosed
	}
	c.query = query
	if strings.TrimSpace(query) == "" {
		c.results = nil
		c.lastErr = nil
		c.searching = false
		c.mu.Unlock()
		return nil
	}
	c.searching = true
	params := c.params
	c.mu.Unlock()

	results, err := c.svc.SearchStocks(ctx, query, params)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrCoordinatorClosed
	}
	c.searching = false
	if c.query != query {
		// a newer query superseded this one while it was in flight
		return nil
	}
	if err != nil {
		c.lastErr = err
		return err
	}
	c.results = results
	c.lastErr = nil
	return nil
}

// State returns a copy of the current search state.
func (c *SearchCoordinator) State() SearchState {
	c.mu.Lock()
	defer c.mu.Unlock()
	results := make([]entity.Stock, len(c.results))
	copy(results, c.results)
	return SearchState{
		Query:     c.query,
		Results:   results,
		Searching: c.searching,
		Err:       c.lastErr,
	}
}

// Close stops the debounce timer and freezes the coordinator.
func (c *SearchCoordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
