package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/store"
)

// getPathID extracts a numeric task id from the URL path parameters.
//
// Returns:
//   - (id, nil): The parsed id if it is a positive integer
//   - (0, error): A validation error if the parameter is missing or malformed
func getPathID(r *http.Request, paramName string) (int64, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return 0, domain.NewValidationError(domain.FieldError{
			Field:   paramName,
			Message: "is required",
		})
	}

	id, err := strconv.ParseInt(pathParam, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(domain.FieldError{
			Field:   paramName,
			Message: "must be a positive integer",
		})
	}

	return id, nil
}

// parseListFilter builds a store.TaskFilter from the list endpoint's query
// parameters. Violations are collected so a caller mixing several bad
// parameters sees all of them in one response.
func parseListFilter(r *http.Request) (store.TaskFilter, error) {
	query := r.URL.Query()
	filter := store.TaskFilter{Limit: store.DefaultListLimit}
	var violations []domain.FieldError

	if raw := query.Get("status_filter"); raw != "" {
		status := domain.TaskStatus(raw)
		if !domain.IsValidTaskStatus(status) {
			violations = append(violations, domain.FieldError{
				Field:   "status_filter",
				Message: "must be one of: todo, in_progress, done",
			})
		} else {
			filter.Status = &status
		}
	}

	if raw := query.Get("priority_filter"); raw != "" {
		priority := domain.TaskPriority(raw)
		if !domain.IsValidTaskPriority(priority) {
			violations = append(violations, domain.FieldError{
				Field:   "priority_filter",
				Message: "must be one of: low, medium, high",
			})
		} else {
			filter.Priority = &priority
		}
	}

	if raw := query.Get("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil || skip < 0 {
			violations = append(violations, domain.FieldError{
				Field:   "skip",
				Message: "must be a non-negative integer",
			})
		} else {
			filter.Offset = skip
		}
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > store.MaxListLimit {
			violations = append(violations, domain.FieldError{
				Field:   "limit",
				Message: "must be between 1 and " + strconv.Itoa(store.MaxListLimit),
			})
		} else {
			filter.Limit = limit
		}
	}

	if len(violations) > 0 {
		return store.TaskFilter{}, domain.NewValidationError(violations...)
	}

	return filter, nil
}
