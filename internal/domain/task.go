package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// TaskStatus represents the workflow state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// TaskPriority represents the urgency level of a task
type TaskPriority string

// Possible task priority values
const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Field length bounds enforced on create and update.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
)

// Task represents a unit of work tracked by the service. The AI fields are
// populated best-effort by the enrichment pipeline and remain nil when
// enrichment is unavailable; the task is fully valid either way.
type Task struct {
	ID                  int64         `json:"id"`
	Title               string        `json:"title"`
	Description         string        `json:"description"`
	Status              TaskStatus    `json:"status"`
	Priority            TaskPriority  `json:"priority"`
	AISummary           *string       `json:"ai_summary"`
	AISuggestedPriority *TaskPriority `json:"ai_suggested_priority"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

// NewTask creates a new Task from raw field values. Title and description are
// trimmed before validation. An empty status defaults to todo and an empty
// priority defaults to medium. The ID is zero until the store assigns one.
// Returns a ValidationError listing every violated constraint.
func NewTask(title, description string, status TaskStatus, priority TaskPriority) (*Task, error) {
	if status == "" {
		status = TaskStatusTodo
	}
	if priority == "" {
		priority = TaskPriorityMedium
	}

	now := time.Now().UTC()
	task := &Task{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Status:      status,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// It collects all field violations rather than stopping at the first.
func (t *Task) Validate() error {
	var fields []FieldError

	if err := ValidateTitle(t.Title); err != nil {
		fields = append(fields, FieldError{Field: "title", Message: err.Error()})
	}
	if err := ValidateDescription(t.Description); err != nil {
		fields = append(fields, FieldError{Field: "description", Message: err.Error()})
	}
	if !IsValidTaskStatus(t.Status) {
		fields = append(fields, FieldError{Field: "status", Message: ErrInvalidTaskStatus.Error()})
	}
	if !IsValidTaskPriority(t.Priority) {
		fields = append(fields, FieldError{Field: "priority", Message: ErrInvalidTaskPriority.Error()})
	}
	if t.AISuggestedPriority != nil && !IsValidTaskPriority(*t.AISuggestedPriority) {
		fields = append(fields, FieldError{
			Field:   "ai_suggested_priority",
			Message: ErrInvalidTaskPriority.Error(),
		})
	}

	if len(fields) > 0 {
		return NewValidationError(fields...)
	}
	return nil
}

// ValidateTitle checks a title value against the creation constraints.
// The value is expected to already be trimmed.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	// Limits are in characters, not bytes, so multibyte text gets the
	// same budget as ASCII.
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

// ValidateDescription checks a description value against the creation constraints.
// The value is expected to already be trimmed.
func ValidateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return ErrEmptyDescription
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

// IsValidTaskStatus checks if the given status is a valid TaskStatus.
func IsValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	default:
		return false
	}
}

// IsValidTaskPriority checks if the given priority is a valid TaskPriority.
func IsValidTaskPriority(priority TaskPriority) bool {
	switch priority {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	default:
		return false
	}
}

// ResolvePriority applies the priority resolution order for task creation:
// an explicit user-supplied value wins, then a valid AI suggestion, then the
// medium default. The AI suggestion never overrides explicit input.
func ResolvePriority(userPriority *TaskPriority, aiSuggested *TaskPriority) TaskPriority {
	if userPriority != nil && IsValidTaskPriority(*userPriority) {
		return *userPriority
	}
	if aiSuggested != nil && IsValidTaskPriority(*aiSuggested) {
		return *aiSuggested
	}
	return TaskPriorityMedium
}
