package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-system/internal/core/ports"
)

// UserTaskHandler serves the per-user assignment ledger.
type UserTaskHandler struct {
	service ports.UserTaskService
}

func NewUserTaskHandler(service ports.UserTaskService) *UserTaskHandler {
	return &UserTaskHandler{service: service}
}

// List handles GET /v1/user-tasks/:userId. Employees may only read their own
// ledger.
func (h *UserTaskHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	index, err := h.service.ListFor(c.Request().Context(), actor, c.Param("userId"))
	if err != nil {
		return err
	}

	resp := userTasksResponse{UserID: index.UserID, Tasks: []userTaskEntryResponse{}}
	for _, e := range index.Tasks {
		resp.Tasks = append(resp.Tasks, userTaskEntryResponse{
			TaskID:     e.TaskID,
			Status:     string(e.Status),
			AssignedBy: e.AssignedBy,
			AssignedAt: e.AssignedAt,
		})
	}
	return c.JSON(http.StatusOK, resp)
}
