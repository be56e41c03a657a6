package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/tasksync/internal/domain/entities"
	"github.com/taskmaster/tasksync/internal/infrastructure/logger"
	"github.com/taskmaster/tasksync/internal/infrastructure/validation"
	"github.com/taskmaster/tasksync/internal/ports"
)

// MessageResponse represents a simple message response
type MessageResponse struct {
	Message string `json:"message"`
}

// TaskHandler serves the task resource
type TaskHandler struct {
	repo      ports.TaskRepository
	validator *validation.Validator
	logger    *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(repo ports.TaskRepository, v *validation.Validator, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		repo:      repo,
		validator: v,
		logger:    logger,
	}
}

// Register mounts the task routes on g
func (h *TaskHandler) Register(g *echo.Group) {
	g.GET("/all", h.ListTasks)
	g.GET("/summary/:employeeId/:date", h.GetSummary)
	g.POST("/", h.CreateTask)
	g.PATCH("/:id", h.UpdateTask)
	g.DELETE("/:id", h.DeleteTask)
}

// ListTasks handles listing every task
func (h *TaskHandler) ListTasks(c echo.Context) error {
	tasks, err := h.repo.List(c.Request().Context())
	if err != nil {
		h.logger.Errorw("List tasks failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch tasks")
	}

	return c.JSON(http.StatusOK, tasks)
}

// GetSummary handles listing an employee's tasks for one date
func (h *TaskHandler) GetSummary(c echo.Context) error {
	employeeID, err := strconv.Atoi(c.Param("employeeId"))
	if err != nil || employeeID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid employee ID")
	}

	date := c.Param("date")
	if err := h.validator.Var(date, "datetime=2006-01-02"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid date")
	}

	tasks, err := h.repo.ListByEmployeeAndDate(c.Request().Context(), employeeID, date)
	if err != nil {
		h.logger.Errorw("Task summary failed", "error", err, "employee_id", employeeID, "date", date)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch tasks")
	}

	return c.JSON(http.StatusOK, ports.TaskSummary{
		EmployeeID: strconv.Itoa(employeeID),
		Date:       date,
		Tasks:      tasks,
	})
}

// CreateTask handles task creation
func (h *TaskHandler) CreateTask(c echo.Context) error {
	var task entities.Task
	if err := c.Bind(&task); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.validator.ValidateDraft(task); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if task.TotalHours == "" {
		minutes, _ := entities.MinutesBetween(task.StartTime, task.EndTime)
		task.TotalHours = strconv.Itoa(minutes)
	}

	created, err := h.repo.Create(c.Request().Context(), task)
	if err != nil {
		h.logger.Errorw("Create task failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create task")
	}

	return c.JSON(http.StatusCreated, created)
}

// UpdateTask handles task updates
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	var req ports.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	req.TaskID = id

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	minutes, err := entities.MinutesBetween(req.StartTime, req.EndTime)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	task, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return h.repositoryError(err, "Failed to update task")
	}

	task.Description = entities.Ptr(req.Description)
	task.StartTime = req.StartTime
	task.EndTime = req.EndTime
	task.TotalHours = strconv.Itoa(minutes)

	updated, err := h.repo.Update(ctx, task)
	if err != nil {
		return h.repositoryError(err, "Failed to update task")
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteTask handles task deletion
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	if err := h.repo.Delete(c.Request().Context(), id); err != nil {
		return h.repositoryError(err, "Failed to delete task")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Task deleted successfully"})
}

func (h *TaskHandler) repositoryError(err error, fallback string) error {
	if errors.Is(err, ports.ErrTaskNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Task not found")
	}
	h.logger.Errorw(fallback, "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, fallback)
}
