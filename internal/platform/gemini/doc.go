// Package gemini implements the enrichment.Analyzer interface using Google's
// Gemini API. It owns the prompt format, the per-attempt timeout, and the
// retry-with-backoff policy for transient transport failures.
package gemini
