package entity

import "errors"

// Sentinel errors for the quote retrieval path. All of them are row-level:
// they fail a single symbol, never a whole aggregation.
var (
	// ErrInvalidSymbol means the symbol failed local validation. It is
	// rejected before any cache or network access.
	ErrInvalidSymbol = errors.New("invalid symbol")

	// ErrRateLimit means the provider reported its daily quota exhausted.
	// Retrying within the same run is useless, so callers must not.
	ErrRateLimit = errors.New("provider rate limit reached")

	// ErrMalformed means the provider response matched neither the expected
	// data shape nor a known error shape.
	ErrMalformed = errors.New("malformed provider response")

	// ErrNoHistory means no cached time series exists for the symbol.
	ErrNoHistory = errors.New("no cached history")
)

// UpstreamError carries an explicit error message returned by the provider
// for a symbol (e.g. an unknown ticker).
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return "provider error: " + e.Message
}
