// Package resilience provides reliability and fault tolerance patterns for the application.
// It contains the circuit breaker guarding calls to the market-data provider.
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.MarketDataConfig())
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return callExternalService()
//	})
//
// Retry behavior for rate-limited provider responses lives in the transport
// itself (internal/infra/polygon), because only HTTP 429 is retried there and
// the backoff schedule is part of the transport contract.
package resilience
