package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"timemaster/internal/adapter/http/dto"
	"timemaster/internal/adapter/http/mapper"
	"timemaster/internal/adapter/http/middleware"
	"timemaster/internal/adapter/http/validation"
	"timemaster/internal/core/domain"
	"timemaster/internal/core/ports"
	"timemaster/pkg/apierrors"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

type TaskHandler struct {
	taskService ports.TaskService
}

func NewTaskHandler(taskService ports.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	lang := middleware.GetLang(c)

	status, err := validation.ParseStatusFilter(c.Query("status"))
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateFieldError(http.StatusBadRequest, apierrors.MsgInvalidTaskStatus, "status", lang),
		)
		return
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), status)
	if err != nil {
		h.respondError(c, err, apierrors.MsgFailListTask)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItems(tasks))
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), taskID)
	if err != nil {
		h.respondError(c, err, apierrors.MsgFailGetTask)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	var req dto.CreateTaskRequest
	var raw map[string]json.RawMessage
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}
	if err := c.ShouldBindBodyWith(&raw, binding.JSON); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	input, err := validation.BuildCreateTaskInput(req, raw)
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err, apierrors.MsgFailCreateTask)
		return
	}

	c.JSON(http.StatusCreated, mapper.ToTaskItem(task))
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	var raw map[string]json.RawMessage
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}
	if err := c.ShouldBindBodyWith(&raw, binding.JSON); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	input, err := validation.BuildUpdateTaskInput(taskID, req, raw)
	if err != nil {
		if errors.Is(err, validation.ErrTaskIDMismatch) {
			c.JSON(
				http.StatusUnprocessableEntity,
				apierrors.CreateFieldError(http.StatusUnprocessableEntity, apierrors.MsgImmutableTaskField, "id", lang),
			)
			return
		}
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err, apierrors.MsgFailUpdateTask)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), taskID); err != nil {
		h.respondError(c, err, apierrors.MsgFailDeleteTask)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) IncreaseTaskProgress(c *gin.Context) {
	h.runCommand(c, h.taskService.IncreaseTaskProgress, apierrors.MsgFailIncreaseProgress)
}

func (h *TaskHandler) ArchiveTask(c *gin.Context) {
	h.runCommand(c, h.taskService.ArchiveTask, apierrors.MsgFailArchiveTask)
}

func (h *TaskHandler) ReopenTask(c *gin.Context) {
	h.runCommand(c, h.taskService.ReopenTask, apierrors.MsgFailReopenTask)
}

type taskCommand func(ctx context.Context, id string) (domain.Task, error)

func (h *TaskHandler) runCommand(c *gin.Context, command taskCommand, failKey string) {
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	task, err := command(c.Request.Context(), taskID)
	if err != nil {
		h.respondError(c, err, failKey)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func taskIDParam(c *gin.Context) (string, bool) {
	taskID := strings.TrimSpace(c.Param("id"))
	if taskID == "" {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskID, middleware.GetLang(c)),
		)
		return "", false
	}
	return taskID, true
}

// respondError maps domain failures to their HTTP status. Anything that is not
// a known domain error is logged and reported with failKey.
func (h *TaskHandler) respondError(c *gin.Context, err error, failKey string) {
	lang := middleware.GetLang(c)

	var validationErr *domain.ValidationError
	var immutableErr *domain.ImmutableFieldError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateFieldError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, validationErr.Field, lang),
		)
	case errors.Is(err, domain.ErrTaskNotFound):
		c.JSON(
			http.StatusNotFound,
			apierrors.CreateError(http.StatusNotFound, apierrors.MsgTaskNotFound, lang),
		)
	case errors.As(err, &immutableErr):
		c.JSON(
			http.StatusUnprocessableEntity,
			apierrors.CreateFieldError(http.StatusUnprocessableEntity, apierrors.MsgImmutableTaskField, immutableErr.Field, lang),
		)
	case errors.Is(err, domain.ErrIllegalTransition):
		c.JSON(
			http.StatusConflict,
			apierrors.CreateError(http.StatusConflict, apierrors.MsgIllegalTaskTransition, lang),
		)
	default:
		zap.L().Error("task command failed",
			zap.String("task_id", c.Param("id")),
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
		_ = c.Error(err)
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, failKey, lang),
		)
	}
}
