package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use errors.Is.
var (
	// ErrInvalidConcurrency is returned when the ingestion concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrNoDBDir is returned when persistence is enabled without a database directory.
	ErrNoDBDir = errors.New("no database directory specified")

	// ErrEmptyTag is returned when the configured vocabulary contains a blank tag.
	ErrEmptyTag = errors.New("invalid tag vocabulary: tags must not be blank")
)
