// Package enrichment defines the boundary between the application core and
// the external text-analysis service that produces task summaries and
// priority suggestions. Concrete clients live under internal/platform; the
// core depends only on the Analyzer interface so enrichment can be swapped
// out or disabled without touching the task lifecycle.
package enrichment
