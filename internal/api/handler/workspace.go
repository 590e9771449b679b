package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/inboop/inboop_server/internal/api/middleware"
	"github.com/inboop/inboop_server/internal/model/dto"
	"github.com/inboop/inboop_server/internal/pkg/response"
	"github.com/inboop/inboop_server/internal/service"
)

type WorkspaceHandler struct {
	workspaceService *service.WorkspaceService
	planService      *service.PlanService
}

func NewWorkspaceHandler(workspaceService *service.WorkspaceService, planService *service.PlanService) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: workspaceService,
		planService:      planService,
	}
}

// Create
// POST /api/v1/workspaces
func (h *WorkspaceHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	ws, err := h.workspaceService.Create(userID, &req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, ws)
}

// List returns the workspaces the caller belongs to.
// GET /api/v1/workspaces
func (h *WorkspaceHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	items, err := h.workspaceService.ListForUser(userID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, items)
}

// Members
// GET /api/v1/workspaces/:workspace_id/members
func (h *WorkspaceHandler) Members(c *gin.Context) {
	_, workspaceID, ok := scope(c)
	if !ok {
		return
	}

	members, err := h.workspaceService.ListMembers(workspaceID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, members)
}

// Invite adds an existing user or emails an invitation.
// POST /api/v1/workspaces/:workspace_id/members
func (h *WorkspaceHandler) Invite(c *gin.Context) {
	userID, workspaceID, ok := scope(c)
	if !ok {
		return
	}

	var req dto.InviteMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.workspaceService.InviteMember(workspaceID, userID, &req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, resp)
}

// RemoveMember
// DELETE /api/v1/workspaces/:workspace_id/members/:user_id
func (h *WorkspaceHandler) RemoveMember(c *gin.Context) {
	userID, workspaceID, ok := scope(c)
	if !ok {
		return
	}
	target, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	if err := h.workspaceService.RemoveMember(workspaceID, userID, target); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

// Seats
// GET /api/v1/workspaces/:workspace_id/seats
func (h *WorkspaceHandler) Seats(c *gin.Context) {
	_, workspaceID, ok := scope(c)
	if !ok {
		return
	}

	seats, err := h.planService.GetSeatInfo(workspaceID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, seats)
}

// AcceptInvitation joins the caller to the inviting workspace.
// POST /api/v1/invitations/accept
func (h *WorkspaceHandler) AcceptInvitation(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	ws, err := h.workspaceService.AcceptInvitation(userID, req.Token)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, ws)
}
