package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-system/internal/api/metrics"
	"github.com/taskhive/task-system/internal/core/ports"
)

// GroupHandler handles HTTP requests for group operations.
type GroupHandler struct {
	service ports.GroupService
}

func NewGroupHandler(service ports.GroupService) *GroupHandler {
	return &GroupHandler{service: service}
}

// Create handles POST /v1/groups.
func (h *GroupHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	group, err := h.service.Create(c.Request().Context(), actor, ports.CreateGroupInput{
		Title:       req.Title,
		Description: req.Description,
		LeadID:      req.LeadID,
		MemberIDs:   req.MemberIDs,
	})
	if err != nil {
		return err
	}
	metrics.GroupsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toGroupResponse(group))
}

// List handles GET /v1/groups (scoped, paginated).
func (h *GroupHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), actor, ports.ListGroupsInput{
		Page:  queryInt(c, "page", 1),
		Limit: queryInt(c, "limit", 20),
	})
	if err != nil {
		return err
	}

	items := make([]groupResponse, 0, len(page.Items))
	for _, g := range page.Items {
		items = append(items, toGroupResponse(g))
	}
	return c.JSON(http.StatusOK, listEnvelope{Data: items, Page: page.Page, Limit: page.Limit, Total: page.Total})
}

// Mine handles GET /v1/groups/mine: groups the actor belongs to.
func (h *GroupHandler) Mine(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	groups, err := h.service.Mine(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	items := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		items = append(items, toGroupResponse(g))
	}
	return c.JSON(http.StatusOK, listEnvelope{Data: items, Page: 1, Limit: len(items), Total: int64(len(items))})
}

// Get handles GET /v1/groups/:id.
func (h *GroupHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	group, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toGroupResponse(group))
}

// Update handles PATCH /v1/groups/:id (admin, creator, or lead).
func (h *GroupHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	group, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), ports.UpdateGroupInput{
		Title:       req.Title,
		Description: req.Description,
		LeadID:      req.LeadID,
		MemberIDs:   req.MemberIDs,
		Active:      req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toGroupResponse(group))
}

// Delete handles DELETE /v1/groups/:id (admin or creator).
func (h *GroupHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "group deleted"})
}

// AddTask handles POST /v1/groups/:id/tasks. A duplicate task id is rejected
// with 409.
func (h *GroupHandler) AddTask(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req addGroupTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	group, err := h.service.AddTask(c.Request().Context(), actor, c.Param("id"), req.TaskID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toGroupResponse(group))
}

// Analytics handles GET /v1/groups/:id/analytics.
func (h *GroupHandler) Analytics(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	analytics, err := h.service.Analytics(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	resp := groupAnalyticsResponse{
		GroupID: analytics.GroupID,
		Title:   analytics.Title,
		Members: []memberStatsResponse{},
	}
	for _, m := range analytics.Members {
		resp.Members = append(resp.Members, memberStatsResponse{
			UserID:    m.UserID,
			Name:      m.Name,
			Assigned:  m.Assigned,
			Completed: m.Completed,
			OnTime:    m.OnTime,
			Delayed:   m.Delayed,
		})
	}
	return c.JSON(http.StatusOK, resp)
}
