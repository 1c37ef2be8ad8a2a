package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and NormalizeOrigin and
// tell the user what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). Callers use errors.Is() for
// programmatic handling, and messages that need the offending value wrap
// the sentinel with fmt.Errorf.
var (
	// ErrNoTarget is returned when no origin URL is given.
	ErrNoTarget = errors.New("no target specified: provide at least one origin URL")

	// ErrInvalidOrigin is returned when an origin is not an absolute
	// http or https URL with a host.
	ErrInvalidOrigin = errors.New("invalid origin")

	// ErrEmptyKeyword is returned when no keyword is configured for an origin,
	// neither with --keyword nor in the configuration file.
	ErrEmptyKeyword = errors.New("no keyword specified: use --keyword or set keyword in the config file")

	// ErrInvalidDepth is returned when the depth limit is negative.
	ErrInvalidDepth = errors.New("invalid depth: must be non-negative")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to select the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidMaxPages is returned when the page cap is negative.
	// Use 0 for no cap.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be non-negative")

	// ErrInvalidProxyAddress is returned when --proxy is not "host:port" or
	// "user:password@host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address")
)
