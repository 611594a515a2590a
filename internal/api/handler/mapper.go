package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-system/internal/core/domain"
)

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Seq:       u.Seq,
		Name:      u.Name,
		Email:     u.Email,
		Role:      domain.NormalizeRole(u.Role),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toStatusRecordResponse(r domain.StatusRecord) statusRecordResponse {
	return statusRecordResponse{
		Status:    string(r.Status),
		Timestamp: r.Timestamp,
		UpdatedBy: r.UpdatedBy,
		Comment:   r.Comment,
	}
}

func toTaskResponse(t *domain.Task) taskResponse {
	resp := taskResponse{
		ID:              t.ID,
		Seq:             t.Seq,
		Title:           t.Title,
		Description:     t.Description,
		Priority:        string(t.Priority),
		DueAt:           t.DueAt,
		Attachments:     []attachmentResponse{},
		CreatedBy:       t.CreatedBy,
		AssignedUserID:  t.AssignedUserID,
		AssignedGroupID: t.AssignedGroupID,
		Status:          toStatusRecordResponse(t.Status),
		StatusHistory:   []statusRecordResponse{},
		Comments:        []commentResponse{},
		Reopened:        t.Reopened,
		CompletedAt:     t.CompletedAt,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
	for _, a := range t.Attachments {
		resp.Attachments = append(resp.Attachments, attachmentResponse(a))
	}
	for _, h := range t.StatusHistory {
		resp.StatusHistory = append(resp.StatusHistory, toStatusRecordResponse(h))
	}
	for _, c := range t.Comments {
		resp.Comments = append(resp.Comments, commentResponse{
			AuthorID:  c.AuthorID,
			Author:    c.Author,
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}
	return resp
}

func toTaskSummaryResponse(t *domain.Task) taskSummaryResponse {
	return taskSummaryResponse{
		ID:              t.ID,
		Seq:             t.Seq,
		Title:           t.Title,
		Priority:        string(t.Priority),
		Status:          string(t.Status.Status),
		DueAt:           t.DueAt,
		CreatedBy:       t.CreatedBy,
		AssignedUserID:  t.AssignedUserID,
		AssignedGroupID: t.AssignedGroupID,
		CreatedAt:       t.CreatedAt,
	}
}

func toGroupResponse(g *domain.Group) groupResponse {
	resp := groupResponse{
		ID:          g.ID,
		Seq:         g.Seq,
		Title:       g.Title,
		Description: g.Description,
		LeadID:      g.LeadID,
		MemberIDs:   g.MemberIDs,
		Tasks:       []groupTaskResponse{},
		CreatedBy:   g.CreatedBy,
		Active:      g.Active,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
	if resp.MemberIDs == nil {
		resp.MemberIDs = []string{}
	}
	for _, gt := range g.Tasks {
		resp.Tasks = append(resp.Tasks, groupTaskResponse{
			TaskID:     gt.TaskID,
			Status:     string(gt.Status),
			AssignedBy: gt.AssignedBy,
			AssignedAt: gt.AssignedAt,
		})
	}
	return resp
}

// queryInt reads an integer query parameter, falling back to def on absence
// or garbage.
func queryInt(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
