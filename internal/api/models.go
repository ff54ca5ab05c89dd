package api

import (
	"strings"
	"time"

	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/service"
	"github.com/phrazzld/tasker-api/internal/store"
)

// Common request/response structures

// CreateTaskRequest defines the payload for the task creation endpoint.
// Status and Priority are optional; omitted values fall back to "todo" and
// the enrichment suggestion (or "medium") respectively.
type CreateTaskRequest struct {
	Title       string `json:"title"                 validate:"required,max=200"`
	Description string `json:"description"           validate:"required,max=5000"`
	Status      string `json:"status,omitempty"      validate:"omitempty,oneof=todo in_progress done"`
	Priority    string `json:"priority,omitempty"    validate:"omitempty,oneof=low medium high"`
}

// UpdateTaskRequest defines the payload for the partial update endpoint.
// All fields are optional; only the ones present in the request body are
// applied to the stored task.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"       validate:"omitempty,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	Status      *string `json:"status,omitempty"      validate:"omitempty,oneof=todo in_progress done"`
	Priority    *string `json:"priority,omitempty"    validate:"omitempty,oneof=low medium high"`
}

// TaskResponse defines the JSON representation of a task. Timestamps are
// ISO 8601 in UTC. The AI fields are null when enrichment did not produce
// a result.
type TaskResponse struct {
	ID                  int64   `json:"id"`
	Title               string  `json:"title"`
	Description         string  `json:"description"`
	Status              string  `json:"status"`
	Priority            string  `json:"priority"`
	AISummary           *string `json:"ai_summary"`
	AISuggestedPriority *string `json:"ai_suggested_priority"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

// HealthResponse defines the liveness probe body.
type HealthResponse struct {
	Status string `json:"status"`
}

// normalize trims surrounding whitespace so length limits apply to the
// meaningful text. Runs before struct validation.
func (req *CreateTaskRequest) normalize() {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
}

// normalize trims the fields present in the patch before validation.
func (req *UpdateTaskRequest) normalize() {
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		req.Title = &trimmed
	}
	if req.Description != nil {
		trimmed := strings.TrimSpace(*req.Description)
		req.Description = &trimmed
	}
}

// validatePresent rejects fields that are present in the patch but blank
// after trimming. The struct validator's omitempty tags skip empty values,
// so blankness of present fields is checked here.
func (req UpdateTaskRequest) validatePresent() error {
	var violations []domain.FieldError
	if req.Title != nil && *req.Title == "" {
		violations = append(violations, domain.FieldError{
			Field:   "title",
			Message: "cannot be empty",
		})
	}
	if req.Description != nil && *req.Description == "" {
		violations = append(violations, domain.FieldError{
			Field:   "description",
			Message: "cannot be empty",
		})
	}
	if len(violations) > 0 {
		return domain.NewValidationError(violations...)
	}
	return nil
}

// toCreateInput converts the request DTO into the service-layer input.
func (req CreateTaskRequest) toCreateInput() service.CreateTaskInput {
	input := service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatus(req.Status),
	}
	if req.Priority != "" {
		priority := domain.TaskPriority(req.Priority)
		input.Priority = &priority
	}
	return input
}

// toUpdatePatch converts the request DTO into a store-layer patch.
func (req UpdateTaskRequest) toUpdatePatch() store.TaskUpdate {
	patch := store.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		patch.Status = &status
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		patch.Priority = &priority
	}
	return patch
}

// taskToResponse converts a domain.Task to its JSON representation.
func taskToResponse(task *domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		AISummary:   task.AISummary,
		CreatedAt:   task.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   task.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if task.AISuggestedPriority != nil {
		suggested := string(*task.AISuggestedPriority)
		resp.AISuggestedPriority = &suggested
	}
	return resp
}

// tasksToResponse converts a slice of tasks, always yielding a non-nil
// slice so an empty list serializes as [] rather than null.
func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, taskToResponse(task))
	}
	return responses
}
