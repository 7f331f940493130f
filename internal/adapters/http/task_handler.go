package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gotodo/core/internal/application/services"
	"github.com/gotodo/core/internal/domain/entities"
	"github.com/gotodo/core/internal/infrastructure/logger"
	"github.com/gotodo/core/internal/ports"
)

// TaskHandler handles task-related requests
type TaskHandler struct {
	taskService *services.TaskService
	logger      *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *services.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// ListTasks handles listing the caller's visible tasks
func (h *TaskHandler) ListTasks(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}

	filter, err := parseTaskFilter(c)
	if err != nil {
		return err
	}

	tasks, total, err := h.taskService.ListTasks(c.Request().Context(), actor, filter)
	if err != nil {
		h.logger.WithActor(actor.ID.String()).Errorw("List tasks failed", "error", err)
		return err
	}

	if tasks == nil {
		tasks = []*entities.Task{}
	}

	return c.JSON(http.StatusOK, ports.NewPaginated(tasks, total, filter.Limit, filter.Offset))
}

// GetTask handles retrieving a task by ID
func (h *TaskHandler) GetTask(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.GetTask(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

// CreateTask handles task creation. The caller becomes the creator; payload
// attempts to set the creator are rejected, and is_finish is ignored.
func (h *TaskHandler) CreateTask(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	for _, field := range []string{"creator", "creator_id"} {
		if _, ok := raw[field]; ok {
			verr := entities.ValidationError{}
			verr.Add(field, "field is read-only")
			return verr
		}
	}

	var req ports.CreateTaskRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), actor, req)
	if err != nil {
		h.logger.WithActor(actor.ID.String()).Errorw("Create task failed", "error", err)
		return err
	}

	return c.JSON(http.StatusCreated, task)
}

// UpdateTask handles full and partial task updates
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req ports.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), actor, id, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

// DeleteTask handles task deletion
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.taskService.DeleteTask(c.Request().Context(), actor, id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// ToggleStatus handles the dedicated completion-flag flip operation
func (h *TaskHandler) ToggleStatus(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.ToggleStatus(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}
