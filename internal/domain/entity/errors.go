package entity

import (
	"errors"
	"fmt"
)

// ErrorCode discriminates the closed set of failure kinds that data-access
// operations may surface. Besides the named constants, a code may be a
// stringified HTTP status (e.g. "403") for provider-reported failures.
type ErrorCode string

const (
	// CodeRateLimitExceeded indicates the provider returned HTTP 429 and the
	// transport's retry budget was exhausted.
	CodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"

	// CodeInvalidAPIKey indicates the provider rejected the configured API key.
	CodeInvalidAPIKey ErrorCode = "INVALID_API_KEY"

	// CodeNetworkError indicates the request was sent but no response arrived.
	CodeNetworkError ErrorCode = "NETWORK_ERROR"

	// CodeNetworkUnavailable indicates the pre-flight connectivity check
	// failed and no request was sent.
	CodeNetworkUnavailable ErrorCode = "NETWORK_UNAVAILABLE"

	// CodeUnknown is the fallback for failures that fit no other kind.
	CodeUnknown ErrorCode = "UNKNOWN"
)

// Messages for the named error kinds. These are translation keys (the
// "errors." prefix tells the presentation layer to look them up); codes
// derived from HTTP statuses carry plain-text messages instead. Each kind
// consistently uses one style or the other, never both.
const (
	MsgRateLimitExceeded  = "errors.rateLimitExceeded"
	MsgInvalidAPIKey      = "errors.invalidApiKey"
	MsgNetworkError       = "errors.networkError"
	MsgNetworkUnavailable = "errors.networkUnavailable"
	MsgUnknown            = "errors.unknown"
)

// APIError is the only error shape returned across the public operations of
// the gateway and the stocks repository. Transport-level errors never escape
// unclassified.
type APIError struct {
	Code    ErrorCode
	Message string
	Err     error // raw cause, kept for diagnostics only
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the raw cause for errors.Is/As chains.
func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError builds an APIError for one of the named kinds, selecting the
// matching translation-key message.
func NewAPIError(code ErrorCode, cause error) *APIError {
	msg := MsgUnknown
	switch code {
	case CodeRateLimitExceeded:
		msg = MsgRateLimitExceeded
	case CodeInvalidAPIKey:
		msg = MsgInvalidAPIKey
	case CodeNetworkError:
		msg = MsgNetworkError
	case CodeNetworkUnavailable:
		msg = MsgNetworkUnavailable
	}
	return &APIError{Code: code, Message: msg, Err: cause}
}

// NewStatusError builds an APIError for a provider-reported HTTP failure
// that is neither a rate limit nor an auth rejection. The code is the
// stringified status and the message is plain text.
func NewStatusError(status int, providerMessage string, cause error) *APIError {
	msg := providerMessage
	if msg == "" {
		msg = fmt.Sprintf("API error: %d", status)
	}
	return &APIError{Code: ErrorCode(fmt.Sprintf("%d", status)), Message: msg, Err: cause}
}

// AsAPIError extracts an *APIError from an error chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
