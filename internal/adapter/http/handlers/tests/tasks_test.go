package tests

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"timemaster/internal/adapter/http/dto"
	"timemaster/internal/adapter/http/handlers"
	"timemaster/internal/adapter/http/middleware"
	"timemaster/internal/core/domain"
	"timemaster/pkg/apierrors"
	"timemaster/pkg/translator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type taskServiceMock struct {
	mock.Mock
}

func (m *taskServiceMock) ListTasks(ctx context.Context, status *domain.TaskStatus) ([]domain.Task, error) {
	args := m.Called(ctx, status)

	var tasks []domain.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]domain.Task)
	}
	return tasks, args.Error(1)
}

func (m *taskServiceMock) GetTask(ctx context.Context, id string) (domain.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) CreateTask(ctx context.Context, input domain.CreateTaskInput) (domain.Task, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) UpdateTask(ctx context.Context, input domain.UpdateTaskInput) (domain.Task, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) DeleteTask(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *taskServiceMock) IncreaseTaskProgress(ctx context.Context, id string) (domain.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) ArchiveTask(ctx context.Context, id string) (domain.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) ReopenTask(ctx context.Context, id string) (domain.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Task), args.Error(1)
}

const taskID = "5f0c7a8e-2b1d-4c3e-9f4a-6b7c8d9e0f1a"

func sampleCycleTask() domain.Task {
	repeat := domain.RepeatRuleWeekly
	return domain.Task{
		ID:          taskID,
		Name:        "Weekly report",
		Description: "send to the team",
		Kind:        domain.TaskKindCycle,
		Progress:    1,
		Target:      3,
		RepeatRule:  &repeat,
		Status:      domain.TaskStatusActive,
		CreatedAt:   time.Date(2026, 2, 13, 10, 20, 30, 0, time.UTC),
		UpdatedAt:   time.Date(2026, 2, 13, 11, 20, 30, 0, time.UTC),
	}
}

func newTaskRouter(serviceMock *taskServiceMock) *gin.Engine {
	handler := handlers.NewTaskHandler(serviceMock)

	router := gin.New()
	api := router.Group("/api", middleware.LanguageMiddleware())
	api.GET("/tasks", handler.ListTasks)
	api.POST("/tasks", handler.CreateTask)
	api.GET("/tasks/:id", handler.GetTask)
	api.PUT("/tasks/:id", handler.UpdateTask)
	api.DELETE("/tasks/:id", handler.DeleteTask)
	api.POST("/tasks/:id/progress", handler.IncreaseTaskProgress)
	api.POST("/tasks/:id/archive", handler.ArchiveTask)
	api.POST("/tasks/:id/reopen", handler.ReopenTask)
	return router
}

func doRequest(router *gin.Engine, method, path, body, lang string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept-Language", lang)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apierrors.Err {
	t.Helper()

	var got apierrors.JsonErr
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, rec.Code, got.ErrDetails.Code)
	return got.ErrDetails
}

func TestTaskHandler_ListTasks_Success(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("ListTasks", mock.Anything, (*domain.TaskStatus)(nil)).
		Return([]domain.Task{sampleCycleTask()}, nil).Once()

	rec := doRequest(newTaskRouter(serviceMock), http.MethodGet, "/api/tasks", "", translator.LanguageEn)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []dto.TaskItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)

	require.Equal(t, taskID, got[0].ID)
	require.Equal(t, "Weekly report", got[0].Name)
	require.Equal(t, "send to the team", got[0].Description)
	require.Equal(t, "cycle", got[0].Kind)
	require.Equal(t, 1, got[0].Progress)
	require.Equal(t, 3, got[0].Target)
	require.NotNil(t, got[0].RepeatRule)
	require.Equal(t, "weekly", *got[0].RepeatRule)
	require.Nil(t, got[0].StartDate)
	require.Nil(t, got[0].EndDate)
	require.Equal(t, "active", got[0].Status)
	require.Equal(t, "2026-02-13T10:20:30Z", got[0].CreatedAt)
	require.Equal(t, "2026-02-13T11:20:30Z", got[0].UpdatedAt)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_ListTasks_EmptyListIsArray(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("ListTasks", mock.Anything, (*domain.TaskStatus)(nil)).Return(nil, nil).Once()

	rec := doRequest(newTaskRouter(serviceMock), http.MethodGet, "/api/tasks", "", translator.LanguageEn)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_ListTasks_StatusFilter(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("ListTasks", mock.Anything, mock.MatchedBy(func(status *domain.TaskStatus) bool {
		return status != nil && *status == domain.TaskStatusArchived
	})).Return([]domain.Task{}, nil).Once()

	rec := doRequest(newTaskRouter(serviceMock), http.MethodGet, "/api/tasks?status=archived", "", translator.LanguageEn)

	require.Equal(t, http.StatusOK, rec.Code)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_ListTasks_InvalidStatus(t *testing.T) {
	serviceMock := new(taskServiceMock)

	rec := doRequest(newTaskRouter(serviceMock), http.MethodGet, "/api/tasks?status=done", "", translator.LanguageFr)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	got := decodeError(t, rec)
	require.Equal(t, "Statut de tâche invalide", got.Message)
	require.Equal(t, "status", got.Field)
	serviceMock.AssertNotCalled(t, "ListTasks", mock.Anything, mock.Anything)
}

func TestTaskHandler_ListTasks_Error(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("ListTasks", mock.Anything, (*domain.TaskStatus)(nil)).
		Return(nil, domain.NewStorageError("list", errors.New("disk is gone"))).Once()

	rec := doRequest(newTaskRouter(serviceMock), http.MethodGet, "/api/tasks", "", translator.LanguageEn)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "Error fetching the tasks", decodeError(t, rec).Message)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_GetTask_NotFound(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("GetTask", mock.Anything, taskID).Return(domain.Task{}, domain.ErrTaskNotFound).Once()

	rec := doRequest(newTaskRouter(serviceMock), http.MethodGet, "/api/tasks/"+taskID, "", translator.LanguageEn)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Task not found", decodeError(t, rec).Message)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_CreateTask_Success(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("CreateTask", mock.Anything, mock.MatchedBy(func(in domain.CreateTaskInput) bool {
		return in.Name == "Weekly report" &&
			in.Kind == domain.TaskKindCycle &&
			in.Target != nil && *in.Target == 3 &&
			in.Progress == nil &&
			in.RepeatRule != nil && *in.RepeatRule == domain.RepeatRuleWeekly &&
			in.DateRange == nil
	})).Return(sampleCycleTask(), nil).Once()

	body := `{"name":"  Weekly report ","kind":"cycle","target":3,"repeat_rule":"weekly"}`
	rec := doRequest(newTaskRouter(serviceMock), http.MethodPost, "/api/tasks", body, translator.LanguageEn)

	require.Equal(t, http.StatusCreated, rec.Code)

	var got dto.TaskItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, taskID, got.ID)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_CreateTask_LongTermDateRange(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("CreateTask", mock.Anything, mock.MatchedBy(func(in domain.CreateTaskInput) bool {
		return in.DateRange != nil &&
			in.DateRange.Start.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) &&
			in.DateRange.End.Equal(time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC))
	})).Return(domain.Task{ID: taskID, Kind: domain.TaskKindLongTerm}, nil).Once()

	body := `{"name":"Learn Go","kind":"long_term","target":10,"date_range":["2026-01-01","2026-06-30"]}`
	rec := doRequest(newTaskRouter(serviceMock), http.MethodPost, "/api/tasks", body, translator.LanguageEn)

	require.Equal(t, http.StatusCreated, rec.Code)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_CreateTask_RejectsBadPayloads(t *testing.T) {
	cases := map[string]string{
		"malformed json":  `{"name":`,
		"missing kind":    `{"name":"Read"}`,
		"unknown kind":    `{"name":"Read","kind":"forever"}`,
		"blank name":      `{"name":"   ","kind":"once"}`,
		"null target":     `{"name":"Read","kind":"once","target":null}`,
		"zero target":     `{"name":"Read","kind":"once","target":0}`,
		"status supplied": `{"name":"Read","kind":"once","status":"completed"}`,
		"bad date":        `{"name":"Read","kind":"long_term","date_range":["2026-01-01","soon"]}`,
		"one date":        `{"name":"Read","kind":"long_term","date_range":["2026-01-01"]}`,
		"bad repeat rule": `{"name":"Read","kind":"cycle","repeat_rule":"hourly"}`,
		"null progress":   `{"name":"Read","kind":"once","progress":null}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			serviceMock := new(taskServiceMock)

			rec := doRequest(newTaskRouter(serviceMock), http.MethodPost, "/api/tasks", body, translator.LanguageEn)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Equal(t, "Invalid task payload", decodeError(t, rec).Message)
			serviceMock.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything)
		})
	}
}

func TestTaskHandler_CreateTask_PassesNegativeProgressThrough(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("CreateTask", mock.Anything, mock.MatchedBy(func(in domain.CreateTaskInput) bool {
		return in.Progress != nil && *in.Progress == -2
	})).Return(domain.Task{ID: taskID, Kind: domain.TaskKindOnce, Target: 1, Status: domain.TaskStatusActive}, nil).Once()

	body := `{"name":"Read","kind":"once","progress":-2}`
	rec := doRequest(newTaskRouter(serviceMock), http.MethodPost, "/api/tasks", body, translator.LanguageEn)

	require.Equal(t, http.StatusCreated, rec.Code)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_CreateTask_DomainValidationNamesField(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("CreateTask", mock.Anything, mock.Anything).
		Return(domain.Task{}, &domain.ValidationError{Field: "repeat_rule", Reason: "is required for cycle tasks"}).Once()

	body := `{"name":"Read","kind":"cycle"}`
	rec := doRequest(newTaskRouter(serviceMock), http.MethodPost, "/api/tasks", body, translator.LanguageEn)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	got := decodeError(t, rec)
	require.Equal(t, "Invalid task payload", got.Message)
	require.Equal(t, "repeat_rule", got.Field)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_UpdateTask_Success(t *testing.T) {
	updated := sampleCycleTask()
	updated.Target = 5

	serviceMock := new(taskServiceMock)
	serviceMock.On("UpdateTask", mock.Anything, mock.MatchedBy(func(in domain.UpdateTaskInput) bool {
		return in.ID == taskID && in.Name == "Weekly report" && in.Target != nil && *in.Target == 5
	})).Return(updated, nil).Once()

	body := `{"id":"` + taskID + `","name":"Weekly report","kind":"cycle","target":5,"repeat_rule":"weekly"}`
	rec := doRequest(newTaskRouter(serviceMock), http.MethodPut, "/api/tasks/"+taskID, body, translator.LanguageEn)

	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.TaskItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, 5, got.Target)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_UpdateTask_IDMismatch(t *testing.T) {
	serviceMock := new(taskServiceMock)

	body := `{"id":"another-id","name":"Weekly report","kind":"cycle","repeat_rule":"weekly"}`
	rec := doRequest(newTaskRouter(serviceMock), http.MethodPut, "/api/tasks/"+taskID, body, translator.LanguageEn)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	got := decodeError(t, rec)
	require.Equal(t, "This task field cannot be changed", got.Message)
	require.Equal(t, "id", got.Field)
	serviceMock.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything)
}

func TestTaskHandler_UpdateTask_KindChange(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("UpdateTask", mock.Anything, mock.Anything).
		Return(domain.Task{}, &domain.ImmutableFieldError{Field: "kind"}).Once()

	body := `{"name":"Weekly report","kind":"once"}`
	rec := doRequest(newTaskRouter(serviceMock), http.MethodPut, "/api/tasks/"+taskID, body, translator.LanguageEn)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "kind", decodeError(t, rec).Field)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_DeleteTask(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("DeleteTask", mock.Anything, taskID).Return(nil).Once()
	serviceMock.On("DeleteTask", mock.Anything, "missing").Return(domain.ErrTaskNotFound).Once()
	router := newTaskRouter(serviceMock)

	rec := doRequest(router, http.MethodDelete, "/api/tasks/"+taskID, "", translator.LanguageEn)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Body.String())

	rec = doRequest(router, http.MethodDelete, "/api/tasks/missing", "", translator.LanguageEn)
	require.Equal(t, http.StatusNotFound, rec.Code)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_IncreaseProgress_Success(t *testing.T) {
	progressed := sampleCycleTask()
	progressed.Progress = 2

	serviceMock := new(taskServiceMock)
	serviceMock.On("IncreaseTaskProgress", mock.Anything, taskID).Return(progressed, nil).Once()

	rec := doRequest(newTaskRouter(serviceMock), http.MethodPost, "/api/tasks/"+taskID+"/progress", "", translator.LanguageEn)

	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.TaskItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, 2, got.Progress)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_LifecycleCommands_MapErrors(t *testing.T) {
	transitionErr := &domain.TransitionError{Command: "archive", From: domain.TaskStatusArchived}
	storageErr := domain.NewStorageError("update", errors.New("database is locked"))

	cases := []struct {
		name    string
		method  string
		path    string
		err     error
		code    int
		message string
	}{
		{"progress on archived", "IncreaseTaskProgress", "/progress", &domain.TransitionError{Command: "increase progress on", From: domain.TaskStatusArchived}, http.StatusConflict, "This action is not allowed for the task in its current status"},
		{"archive twice", "ArchiveTask", "/archive", transitionErr, http.StatusConflict, "This action is not allowed for the task in its current status"},
		{"reopen missing", "ReopenTask", "/reopen", domain.ErrTaskNotFound, http.StatusNotFound, "Task not found"},
		{"progress store failure", "IncreaseTaskProgress", "/progress", storageErr, http.StatusInternalServerError, "Error updating the task progress"},
		{"archive store failure", "ArchiveTask", "/archive", storageErr, http.StatusInternalServerError, "Error archiving the task"},
		{"reopen store failure", "ReopenTask", "/reopen", storageErr, http.StatusInternalServerError, "Error reopening the task"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			serviceMock := new(taskServiceMock)
			serviceMock.On(tc.method, mock.Anything, taskID).Return(domain.Task{}, tc.err).Once()

			rec := doRequest(newTaskRouter(serviceMock), http.MethodPost, "/api/tasks/"+taskID+tc.path, "", translator.LanguageEn)

			require.Equal(t, tc.code, rec.Code)
			require.Equal(t, tc.message, decodeError(t, rec).Message)
			serviceMock.AssertExpectations(t)
		})
	}
}
