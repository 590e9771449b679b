package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/inboop/inboop_server/internal/model/dto"
	"github.com/inboop/inboop_server/internal/pkg/response"
	"github.com/inboop/inboop_server/internal/service"
)

type ChannelHandler struct {
	channelService *service.ChannelService
}

func NewChannelHandler(channelService *service.ChannelService) *ChannelHandler {
	return &ChannelHandler{channelService: channelService}
}

// Connect returns the Meta login URL for the workspace.
// GET /api/v1/workspaces/:workspace_id/channels/meta/connect
func (h *ChannelHandler) Connect(c *gin.Context) {
	userID, workspaceID, ok := scope(c)
	if !ok {
		return
	}

	url, err := h.channelService.ConnectURL(c.Request.Context(), workspaceID, userID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, dto.ConnectURLResponse{URL: url})
}

// Callback is the Meta redirect target. The state token carries the
// workspace and user, so the route is unauthenticated.
// GET /api/v1/channels/meta/callback
func (h *ChannelHandler) Callback(c *gin.Context) {
	var req dto.MetaCallbackRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		if reason := c.Query("error_description"); reason != "" {
			response.ParamError(c, reason)
			return
		}
		response.ParamError(c, err.Error())
		return
	}

	workspaceID, accounts, err := h.channelService.HandleCallback(c.Request.Context(), req.Code, req.State)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{
		"workspace_id": workspaceID,
		"accounts":     accounts,
	})
}

// List
// GET /api/v1/workspaces/:workspace_id/channels
func (h *ChannelHandler) List(c *gin.Context) {
	_, workspaceID, ok := scope(c)
	if !ok {
		return
	}

	accounts, err := h.channelService.List(workspaceID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, accounts)
}

// Disconnect
// DELETE /api/v1/workspaces/:workspace_id/channels/:id
func (h *ChannelHandler) Disconnect(c *gin.Context) {
	_, workspaceID, ok := scope(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.channelService.Disconnect(workspaceID, id); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}
