package crawler

import "errors"

// Crawler errors.
//
// Design decision: Configuration errors are returned by New before any page
// is fetched, so a bad seed or keyword never surfaces in the middle of a run.
// ErrEmptyFrontier is the only error produced during a run and it signals
// normal completion; Run never returns it.
var (
	// ErrEmptyFrontier is returned by Frontier.Dequeue when no entries remain.
	ErrEmptyFrontier = errors.New("frontier is empty")

	// ErrInvalidOrigin is returned when the origin is not an absolute http(s) URL.
	ErrInvalidOrigin = errors.New("invalid origin: must be an absolute http or https URL")

	// ErrEmptyKeyword is returned when the keyword is empty or made only of
	// whitespace and punctuation.
	ErrEmptyKeyword = errors.New("invalid keyword: must not be empty")

	// ErrInvalidDepth is returned when the depth limit is negative.
	ErrInvalidDepth = errors.New("invalid depth limit: must be non-negative")

	// ErrNilFetcher is returned when New is called without a fetcher.
	ErrNilFetcher = errors.New("fetcher is required")

	// ErrInvalidMaxPages is returned when the page cap is negative.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be non-negative")
)
