package enrichment

import (
	"context"
	"log/slog"
)

// disabledAnalyzer is the Analyzer used when no analysis service is
// configured. Every call fails with ErrNotConfigured, which the orchestrator
// swallows, so tasks are created without AI fields.
type disabledAnalyzer struct{}

// NewDisabledAnalyzer returns an Analyzer that always reports
// ErrNotConfigured. It logs a single warning at construction so operators
// know enrichment is off for the lifetime of the process.
func NewDisabledAnalyzer(logger *slog.Logger) Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("no analysis service configured, tasks will be created without AI enrichment")
	return disabledAnalyzer{}
}

func (disabledAnalyzer) Analyze(ctx context.Context, title, description string) (*Result, error) {
	return nil, ErrNotConfigured
}
