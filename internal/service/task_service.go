package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/enrichment"
	"github.com/phrazzld/tasker-api/internal/platform/logger"
	"github.com/phrazzld/tasker-api/internal/store"
)

// CreateTaskInput carries the validated, normalized fields for creating a
// task. Title and Description are expected to already be trimmed. A nil
// Priority means the user supplied none, which lets an AI suggestion (or the
// medium default) decide the stored value.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      domain.TaskStatus
	Priority    *domain.TaskPriority
}

// TaskService provides task lifecycle operations. Creation runs the
// enrichment pipeline; every other operation passes through to the
// repository.
type TaskService interface {
	// Create validates the input, attempts best-effort enrichment, resolves
	// the final priority (user > AI > medium), and persists the task.
	// Enrichment failures never fail the operation; validation and storage
	// failures do.
	Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error)

	// Get retrieves a task by ID. Returns ErrTaskNotFound if absent.
	Get(ctx context.Context, id int64) (*domain.Task, error)

	// List retrieves tasks matching the filter in ascending id order.
	List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error)

	// Update applies a partial patch to an existing task.
	// Returns ErrTaskNotFound if absent.
	Update(ctx context.Context, id int64, patch store.TaskUpdate) (*domain.Task, error)

	// Delete permanently removes a task. Returns ErrTaskNotFound if absent.
	Delete(ctx context.Context, id int64) error
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	taskStore store.TaskStore
	analyzer  enrichment.Analyzer
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	taskStore store.TaskStore,
	analyzer enrichment.Analyzer,
	logger *slog.Logger,
) (TaskService, error) {
	if taskStore == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "taskStore cannot be nil",
		}
	}
	if analyzer == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "analyzer cannot be nil",
		}
	}
	if logger == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "logger cannot be nil",
		}
	}

	return &taskServiceImpl{
		taskStore: taskStore,
		analyzer:  analyzer,
		logger:    logger.With(slog.String("component", "task_service")),
	}, nil
}

// Create implements TaskService.Create.
// The flow is validate, enrich, resolve priority, persist. Any enrichment
// outcome, success or failure, advances to persistence; the HTTP-level
// success of the operation never depends on the analysis service.
func (s *taskServiceImpl) Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Validate. The constructor trims and checks every field constraint;
	// the priority placeholder is resolved again after enrichment.
	task, err := domain.NewTask(input.Title, input.Description, input.Status, placeholderPriority(input.Priority))
	if err != nil {
		log.Warn("task validation failed",
			slog.String("error", err.Error()))
		return nil, err
	}

	// Enrich, best-effort. A failure here is logged and swallowed: the task
	// is persisted with null AI fields and the request still succeeds.
	result, enrichErr := s.analyzer.Analyze(ctx, task.Title, task.Description)
	if enrichErr != nil {
		log.Warn("task enrichment failed, creating task without AI fields",
			slog.String("error", enrichErr.Error()))
	} else {
		summary := result.Summary
		suggested := result.SuggestedPriority
		task.AISummary = &summary
		task.AISuggestedPriority = &suggested
	}

	// Resolve the stored priority: explicit user value > AI suggestion > medium.
	task.Priority = domain.ResolvePriority(input.Priority, task.AISuggestedPriority)

	created, err := s.taskStore.Create(ctx, task)
	if err != nil {
		log.Error("failed to persist task",
			slog.String("error", err.Error()))
		return nil, NewTaskServiceError("create_task", "failed to persist task", err)
	}

	log.Info("task created",
		slog.Int64("task_id", created.ID),
		slog.String("priority", string(created.Priority)),
		slog.Bool("enriched", enrichErr == nil))
	return created, nil
}

// Get implements TaskService.Get.
func (s *taskServiceImpl) Get(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, id)
	if err != nil {
		return nil, NewTaskServiceError("get_task", "failed to get task", err)
	}
	return task, nil
}

// List implements TaskService.List.
func (s *taskServiceImpl) List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	tasks, err := s.taskStore.List(ctx, filter)
	if err != nil {
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}
	return tasks, nil
}

// Update implements TaskService.Update.
// The patch must already be normalized and validated by the caller; the
// repository applies it atomically and refreshes updated_at.
func (s *taskServiceImpl) Update(ctx context.Context, id int64, patch store.TaskUpdate) (*domain.Task, error) {
	task, err := s.taskStore.Update(ctx, id, patch)
	if err != nil {
		return nil, NewTaskServiceError("update_task", "failed to update task", err)
	}
	return task, nil
}

// Delete implements TaskService.Delete.
func (s *taskServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.taskStore.Delete(ctx, id); err != nil {
		return NewTaskServiceError("delete_task", "failed to delete task", err)
	}
	return nil
}

// placeholderPriority supplies a valid priority for constructor validation
// when the user sent none; the final value is resolved after enrichment.
func placeholderPriority(p *domain.TaskPriority) domain.TaskPriority {
	if p != nil {
		return *p
	}
	return domain.TaskPriorityMedium
}
