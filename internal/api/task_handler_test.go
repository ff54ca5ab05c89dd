package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/service"
	"github.com/phrazzld/tasker-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTaskService provides canned responses for handler tests.
type mockTaskService struct {
	task        *domain.Task
	tasks       []*domain.Task
	err         error
	lastInput   service.CreateTaskInput
	lastPatch   store.TaskUpdate
	lastID      int64
	lastList    store.TaskFilter
	createCalls int
}

func (m *mockTaskService) Create(ctx context.Context, input service.CreateTaskInput) (*domain.Task, error) {
	m.createCalls++
	m.lastInput = input
	return m.task, m.err
}

func (m *mockTaskService) Get(ctx context.Context, id int64) (*domain.Task, error) {
	m.lastID = id
	return m.task, m.err
}

func (m *mockTaskService) List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	m.lastList = filter
	return m.tasks, m.err
}

func (m *mockTaskService) Update(ctx context.Context, id int64, patch store.TaskUpdate) (*domain.Task, error) {
	m.lastID = id
	m.lastPatch = patch
	return m.task, m.err
}

func (m *mockTaskService) Delete(ctx context.Context, id int64) error {
	m.lastID = id
	return m.err
}

func sampleTask() *domain.Task {
	summary := "Outage fix"
	suggested := domain.TaskPriorityHigh
	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	return &domain.Task{
		ID:                  1,
		Title:               "Fix bug",
		Description:         "Critical outage",
		Status:              domain.TaskStatusTodo,
		Priority:            domain.TaskPriorityHigh,
		AISummary:           &summary,
		AISuggestedPriority: &suggested,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

func newTestRouter(svc service.TaskService) http.Handler {
	handler := NewTaskHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	r.Get("/health", handler.Health)
	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", handler.CreateTask)
		r.Get("/", handler.ListTasks)
		r.Get("/{id}", handler.GetTask)
		r.Put("/{id}", handler.UpdateTask)
		r.Delete("/{id}", handler.DeleteTask)
	})
	return r
}

func doRequest(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateTaskSuccess(t *testing.T) {
	t.Parallel()
	svc := &mockTaskService{task: sampleTask()}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodPost, "/tasks", map[string]string{
		"title":       "Fix bug",
		"description": "Critical outage",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp TaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "Fix bug", resp.Title)
	require.NotNil(t, resp.AISummary)
	assert.Equal(t, "Outage fix", *resp.AISummary)
	require.NotNil(t, resp.AISuggestedPriority)
	assert.Equal(t, "high", *resp.AISuggestedPriority)
	assert.Equal(t, "2025-03-14T09:30:00Z", resp.CreatedAt)

	assert.Equal(t, "Fix bug", svc.lastInput.Title)
	assert.Nil(t, svc.lastInput.Priority, "absent priority stays unset for the service")
}

func TestCreateTaskNullAIFieldsSerializeAsNull(t *testing.T) {
	t.Parallel()
	task := sampleTask()
	task.AISummary = nil
	task.AISuggestedPriority = nil
	task.Priority = domain.TaskPriorityMedium
	router := newTestRouter(&mockTaskService{task: task})

	rec := doRequest(t, router, http.MethodPost, "/tasks", map[string]string{
		"title":       "Fix bug",
		"description": "Critical outage",
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	value, present := raw["ai_summary"]
	assert.True(t, present, "ai_summary key is always present")
	assert.Nil(t, value)
	value, present = raw["ai_suggested_priority"]
	assert.True(t, present)
	assert.Nil(t, value)
}

func TestCreateTaskValidation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing title", map[string]interface{}{"description": "d"}},
		{"missing description", map[string]interface{}{"title": "t"}},
		{"title too long", map[string]interface{}{
			"title":       longString(201),
			"description": "d",
		}},
		{"invalid status", map[string]interface{}{
			"title": "t", "description": "d", "status": "archived",
		}},
		{"invalid priority", map[string]interface{}{
			"title": "t", "description": "d", "priority": "urgent",
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc := &mockTaskService{task: sampleTask()}
			router := newTestRouter(svc)

			rec := doRequest(t, router, http.MethodPost, "/tasks", tc.body)

			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			var resp struct {
				Error   string `json:"error"`
				Details []struct {
					Field   string `json:"field"`
					Message string `json:"message"`
				} `json:"details"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Details, "validation responses carry per-field messages")
			assert.Equal(t, 0, svc.createCalls, "invalid payloads never reach the service")
		})
	}
}

func TestCreateTaskReportsAllViolations(t *testing.T) {
	t.Parallel()
	router := newTestRouter(&mockTaskService{})

	rec := doRequest(t, router, http.MethodPost, "/tasks", map[string]interface{}{
		"title":       "",
		"description": "",
		"status":      "archived",
		"priority":    "urgent",
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp struct {
		Details []struct {
			Field string `json:"field"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Details, 4, "every violated field is reported in one response")
}

func TestCreateTaskTrimsBeforeValidation(t *testing.T) {
	t.Parallel()
	svc := &mockTaskService{task: sampleTask()}
	router := newTestRouter(svc)

	// 200 meaningful characters padded with whitespace must pass the
	// length check; whitespace-only values must fail the required check.
	rec := doRequest(t, router, http.MethodPost, "/tasks", map[string]string{
		"title":       "  " + longString(200) + "  ",
		"description": " Critical outage ",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, longString(200), svc.lastInput.Title)
	assert.Equal(t, "Critical outage", svc.lastInput.Description)

	rec = doRequest(t, router, http.MethodPost, "/tasks", map[string]string{
		"title":       "   ",
		"description": "d",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateTaskMalformedJSON(t *testing.T) {
	t.Parallel()
	router := newTestRouter(&mockTaskService{})

	bodies := []string{
		"{not json",
		`{"title": "t", "description": "d"} trailing`,
	}
	for _, body := range bodies {
		req := httptest.NewRequest(http.MethodPost, "/tasks", bytes.NewReader([]byte(body)))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
	}
}

func TestCreateTaskStorageFailure(t *testing.T) {
	t.Parallel()
	svc := &mockTaskService{err: service.NewTaskServiceError("create", "failed to store task", fmt.Errorf("connection refused"))}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodPost, "/tasks", map[string]string{
		"title":       "Fix bug",
		"description": "Critical outage",
	})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "An unexpected error occurred", resp.Error,
		"storage detail never leaks to the client")
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestGetTask(t *testing.T) {
	t.Parallel()
	svc := &mockTaskService{task: sampleTask()}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodGet, "/tasks/1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), svc.lastID)
}

func TestGetTaskNotFound(t *testing.T) {
	t.Parallel()
	svc := &mockTaskService{err: service.ErrTaskNotFound}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodGet, "/tasks/999", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Task not found", resp.Error)
}

func TestGetTaskInvalidID(t *testing.T) {
	t.Parallel()
	router := newTestRouter(&mockTaskService{})

	for _, path := range []string{"/tasks/abc", "/tasks/0", "/tasks/-4"} {
		rec := doRequest(t, router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "path %s", path)
	}
}

func TestListTasks(t *testing.T) {
	t.Parallel()
	svc := &mockTaskService{tasks: []*domain.Task{sampleTask()}}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodGet, "/tasks?status_filter=todo&priority_filter=high&skip=5&limit=20", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.lastList.Status)
	assert.Equal(t, domain.TaskStatusTodo, *svc.lastList.Status)
	require.NotNil(t, svc.lastList.Priority)
	assert.Equal(t, domain.TaskPriorityHigh, *svc.lastList.Priority)
	assert.Equal(t, 5, svc.lastList.Offset)
	assert.Equal(t, 20, svc.lastList.Limit)
}

func TestListTasksDefaults(t *testing.T) {
	t.Parallel()
	svc := &mockTaskService{tasks: []*domain.Task{}}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodGet, "/tasks", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.lastList.Status)
	assert.Nil(t, svc.lastList.Priority)
	assert.Equal(t, 0, svc.lastList.Offset)
	assert.Equal(t, store.DefaultListLimit, svc.lastList.Limit)
	assert.Equal(t, "[]\n", rec.Body.String(), "empty list serializes as an empty array")
}

func TestListTasksBadQueryParams(t *testing.T) {
	t.Parallel()
	router := newTestRouter(&mockTaskService{})

	paths := []string{
		"/tasks?status_filter=archived",
		"/tasks?priority_filter=urgent",
		"/tasks?skip=-1",
		"/tasks?skip=abc",
		"/tasks?limit=0",
		"/tasks?limit=501",
	}
	for _, path := range paths {
		rec := doRequest(t, router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "path %s", path)
	}
}

func TestUpdateTask(t *testing.T) {
	t.Parallel()
	svc := &mockTaskService{task: sampleTask()}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodPut, "/tasks/1", map[string]string{
		"status": "done",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), svc.lastID)
	require.NotNil(t, svc.lastPatch.Status)
	assert.Equal(t, domain.TaskStatusDone, *svc.lastPatch.Status)
	assert.Nil(t, svc.lastPatch.Title, "absent fields are not part of the patch")
	assert.Nil(t, svc.lastPatch.Description)
	assert.Nil(t, svc.lastPatch.Priority)
}

func TestUpdateTaskNotFound(t *testing.T) {
	t.Parallel()
	svc := &mockTaskService{err: service.ErrTaskNotFound}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodPut, "/tasks/999", map[string]string{"title": "x"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateTaskValidation(t *testing.T) {
	t.Parallel()
	router := newTestRouter(&mockTaskService{})

	rec := doRequest(t, router, http.MethodPut, "/tasks/1", map[string]string{
		"status": "archived",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestUpdateTaskRejectsBlankPresentFields(t *testing.T) {
	t.Parallel()

	bodies := []map[string]string{
		{"title": ""},
		{"title": "   "},
		{"description": ""},
		{"description": " \t\n "},
	}
	for _, body := range bodies {
		svc := &mockTaskService{task: sampleTask()}
		router := newTestRouter(svc)

		rec := doRequest(t, router, http.MethodPut, "/tasks/1", body)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, "body %v", body)
		var resp struct {
			Details []struct {
				Field string `json:"field"`
			} `json:"details"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Details)
		assert.Equal(t, int64(0), svc.lastID, "blank fields never reach the service")
	}
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()
	svc := &mockTaskService{task: sampleTask()}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodDelete, "/tasks/1", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String(), "delete returns an empty body")
	assert.Equal(t, int64(1), svc.lastID)
}

func TestDeleteTaskNotFound(t *testing.T) {
	t.Parallel()
	svc := &mockTaskService{err: service.ErrTaskNotFound}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodDelete, "/tasks/999", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	t.Parallel()
	router := newTestRouter(&mockTaskService{})

	rec := doRequest(t, router, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func longString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'a'
	}
	return string(b)
}
