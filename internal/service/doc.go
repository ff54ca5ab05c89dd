// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects, the repository
// (defined in internal/store), and the enrichment boundary (defined in
// internal/enrichment) to fulfill application features.
//
// The central use case is create-with-fallback: a task creation request is
// validated, enriched best-effort by the external analysis service, and then
// persisted regardless of the enrichment outcome. The remaining operations
// delegate to the repository and translate its errors into service-level
// sentinels for the API layer.
//
// Services receive dependencies through constructor injection and depend on
// interfaces only, never on infrastructure implementations, so tests can
// substitute in-memory doubles for both storage and enrichment.
package service
