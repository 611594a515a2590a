package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-system/internal/api/metrics"
	"github.com/taskhive/task-system/internal/core/ports"
)

// TaskHandler handles HTTP requests for task operations.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// Create handles POST /v1/tasks.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task details"
// @Success      201   {object}  taskResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := ports.CreateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		Priority:      req.Priority,
		DueAt:         req.DueAt,
		AssignUserID:  req.AssignUserID,
		AssignGroupID: req.AssignGroupID,
	}
	for _, a := range req.Attachments {
		input.Attachments = append(input.Attachments, ports.AttachmentInput{Name: a.Name, URL: a.URL})
	}

	task, err := h.service.Create(c.Request().Context(), actor, input)
	if err != nil {
		return err
	}
	metrics.TasksCreatedTotal.WithLabelValues(string(task.Priority)).Inc()
	return c.JSON(http.StatusCreated, toTaskResponse(task))
}

// List handles GET /v1/tasks with scope, pagination, and status/priority/
// creator filters.
func (h *TaskHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), actor, ports.ListTasksInput{
		Status:    c.QueryParam("status"),
		Priority:  c.QueryParam("priority"),
		CreatedBy: c.QueryParam("created_by"),
		Page:      queryInt(c, "page", 1),
		Limit:     queryInt(c, "limit", 20),
	})
	if err != nil {
		return err
	}

	items := make([]taskSummaryResponse, 0, len(page.Items))
	for _, t := range page.Items {
		items = append(items, toTaskSummaryResponse(t))
	}
	return c.JSON(http.StatusOK, listEnvelope{Data: items, Page: page.Page, Limit: page.Limit, Total: page.Total})
}

// Get handles GET /v1/tasks/:id. A purely numeric id addresses the
// sequential id, anything else the opaque id.
func (h *TaskHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	task, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Update handles PATCH /v1/tasks/:id (plain field edits).
func (h *TaskHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := ports.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueAt:       req.DueAt,
		ClearDue:    req.ClearDue,
	}
	if req.Attachments != nil {
		attachments := make([]ports.AttachmentInput, 0, len(*req.Attachments))
		for _, a := range *req.Attachments {
			attachments = append(attachments, ports.AttachmentInput{Name: a.Name, URL: a.URL})
		}
		input.Attachments = &attachments
	}

	task, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// UpdateStatus handles PATCH /v1/tasks/:id/status.
func (h *TaskHandler) UpdateStatus(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.service.UpdateStatus(c.Request().Context(), actor, c.Param("id"), ports.UpdateStatusInput{
		Status:  req.Status,
		Comment: req.Comment,
	})
	if err != nil {
		return err
	}
	metrics.StatusTransitionsTotal.WithLabelValues(string(task.Status.Status)).Inc()
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Assign handles POST /v1/tasks/:id/assign.
func (h *TaskHandler) Assign(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req assignTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	task, err := h.service.Assign(c.Request().Context(), actor, c.Param("id"), ports.AssignTaskInput{
		UserID:  req.UserID,
		GroupID: req.GroupID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Unassign handles DELETE /v1/tasks/:id/assign.
func (h *TaskHandler) Unassign(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	task, err := h.service.Unassign(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// AddComment handles POST /v1/tasks/:id/comments.
func (h *TaskHandler) AddComment(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.service.AddComment(c.Request().Context(), actor, c.Param("id"), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTaskResponse(task))
}

// Reopen handles POST /v1/tasks/:id/reopen (admin or creator).
func (h *TaskHandler) Reopen(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req reopenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	task, err := h.service.Reopen(c.Request().Context(), actor, c.Param("id"), req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Delete handles DELETE /v1/tasks/:id (admin only).
func (h *TaskHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "task deleted"})
}
