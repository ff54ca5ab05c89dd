package store

import (
	"context"

	"github.com/phrazzld/tasker-api/internal/domain"
)

// Default pagination bounds for List.
const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

// TaskFilter describes the optional equality filters and pagination window
// for listing tasks. Nil filter fields match everything; filters present are
// combined with AND.
type TaskFilter struct {
	Status   *domain.TaskStatus
	Priority *domain.TaskPriority
	Offset   int
	Limit    int
}

// TaskUpdate is a partial patch for an existing task. Nil fields are left
// unchanged; non-nil fields replace the stored value. Values must already be
// normalized and validated by the caller.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	Priority    *domain.TaskPriority
}

// IsEmpty reports whether the patch would change nothing.
func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil && u.Priority == nil
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store. The store assigns the ID and
	// returns the task as persisted, including store-generated fields.
	// Returns ErrInvalidEntity (possibly wrapped) on constraint violations.
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// List retrieves tasks matching the filter, ordered by id ascending.
	// Returns an empty slice (never nil) when nothing matches.
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)

	// Update applies the non-nil fields of the patch to an existing task,
	// refreshes updated_at, and returns the updated record. The operation is
	// atomic: a failure mid-write leaves the prior state intact.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, id int64, patch TaskUpdate) (*domain.Task, error)

	// Delete permanently removes a task from the store.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id int64) error
}
