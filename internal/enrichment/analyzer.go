package enrichment

import (
	"context"

	"github.com/phrazzld/tasker-api/internal/domain"
)

// Result is the structured outcome of analyzing a task's text.
type Result struct {
	// Summary is a concise one-sentence summary of the task.
	Summary string

	// SuggestedPriority is the priority level the analysis service suggests
	// based on urgency indicators in the task text.
	SuggestedPriority domain.TaskPriority
}

// Analyzer defines the interface for obtaining an AI-derived summary and
// priority suggestion for a task. This interface is the boundary between the
// application core and the external text-analysis service; the orchestrator
// depends on it, never on a concrete client.
//
// Implementations must treat every failure as a value returned to the caller:
// an Analyzer never panics and never blocks beyond its own configured timeout
// and retry budget. Callers decide whether a failure matters; for task
// creation it never does.
type Analyzer interface {
	// Analyze requests a summary and suggested priority for the given task
	// title and description. On failure it returns one of the sentinel errors
	// from this package (possibly wrapped): ErrTransientFailure after
	// exhausting retries, ErrInvalidResponse for unparsable replies, or
	// ErrNotConfigured when no analysis service is available.
	Analyze(ctx context.Context, title, description string) (*Result, error)
}
