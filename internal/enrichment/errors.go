package enrichment

import "errors"

// Common errors returned by the enrichment package
var (
	// ErrTransientFailure is returned when the analysis service could not be
	// reached after exhausting the retry budget (timeouts, transport faults).
	ErrTransientFailure = errors.New("transient error calling analysis service")

	// ErrInvalidResponse is returned when the service replied but the payload
	// could not be parsed into the expected (summary, priority) shape.
	// Parsing failures are not transient and are never retried.
	ErrInvalidResponse = errors.New("invalid response from analysis service")

	// ErrNotConfigured is returned when no analysis service is configured
	// (missing API key). The application runs with enrichment disabled.
	ErrNotConfigured = errors.New("analysis service not configured")

	// ErrInvalidConfig is returned when the analyzer configuration is invalid.
	ErrInvalidConfig = errors.New("invalid analyzer configuration")
)

// IsEnrichmentFailure reports whether err belongs to the enrichment failure
// category, i.e. any error an Analyzer is allowed to return.
func IsEnrichmentFailure(err error) bool {
	return errors.Is(err, ErrTransientFailure) ||
		errors.Is(err, ErrInvalidResponse) ||
		errors.Is(err, ErrNotConfigured)
}
