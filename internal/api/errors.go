package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/tasker-api/internal/api/shared"
	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/service"
	"github.com/phrazzld/tasker-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Validation errors carry per-field detail and map to 422
	case domain.IsValidationError(err):
		return http.StatusUnprocessableEntity

	// Not found errors
	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Constraint violations surfaced by the store
	case errors.Is(err, store.ErrInvalidEntity):
		return http.StatusUnprocessableEntity

	// Default: internal server error (storage faults, unexpected failures)
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case domain.IsValidationError(err):
		return "Validation failed"

	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, store.ErrNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid task data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError translates an internal error into an HTTP response. When
// userMessage is empty a safe message is derived from the error type.
// Validation errors include per-field details in the response body.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, userMessage string) {
	status := MapErrorToStatusCode(err)
	if userMessage == "" {
		userMessage = GetSafeErrorMessage(err)
	}

	if status == http.StatusUnprocessableEntity {
		shared.RespondWithValidationError(w, r, userMessage, validationDetails(err))
		return
	}

	shared.RespondWithErrorAndLog(w, r, status, userMessage, err)
}

// validationDetails extracts per-field messages from our domain validation
// errors and from go-playground validator errors.
func validationDetails(err error) []shared.FieldDetail {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		details := make([]shared.FieldDetail, 0, len(validationErr.Fields))
		for _, f := range validationErr.Fields {
			details = append(details, shared.FieldDetail{Field: f.Field, Message: f.Message})
		}
		return details
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details := make([]shared.FieldDetail, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			details = append(details, shared.FieldDetail{
				Field:   strings.ToLower(fe.Field()),
				Message: validationTagMessage(fe),
			})
		}
		return details
	}

	return nil
}

// validationTagMessage maps validator tags to user-friendly messages.
func validationTagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "is invalid"
	}
}
