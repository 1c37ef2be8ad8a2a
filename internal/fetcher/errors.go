package fetcher

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedStatus is wrapped by FetchError when the server answers
	// with a non-2xx status code.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrInvalidProxyAddress is returned when the proxy address is not
	// "host:port" or "user:password@host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")
)

// FetchError describes a failed page fetch.
//
// Design decision: A single error type covers both transport failures and
// bad status codes. The crawl driver treats them the same way (skip the
// page and go on), while callers that care can still tell them apart with
// errors.Is(err, ErrUnexpectedStatus) or by looking at StatusCode.
type FetchError struct {
	// URL is the requested URL.
	URL string

	// StatusCode is the HTTP status, or 0 if no response was received.
	StatusCode int

	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}
