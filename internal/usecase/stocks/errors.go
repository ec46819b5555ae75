package stocks

import "errors"

// Sentinel errors for coordinator operations.
var (
	// ErrLoadInFlight indicates a load was refused because another load on
	// the same coordinator has not finished yet.
	ErrLoadInFlight = errors.New("load already in flight")

	// ErrCoordinatorClosed indicates the coordinator was closed; its state
	// is frozen and no further loads are accepted.
	ErrCoordinatorClosed = errors.New("coordinator closed")
)
