package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/inboop/inboop_server/internal/model/dto"
	"github.com/inboop/inboop_server/internal/pkg/response"
	"github.com/inboop/inboop_server/internal/service"
)

type ConversationHandler struct {
	conversationService *service.ConversationService
}

func NewConversationHandler(conversationService *service.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversationService: conversationService}
}

// List
// GET /api/v1/workspaces/:workspace_id/conversations?channel=&unread=&page=&page_size=
func (h *ConversationHandler) List(c *gin.Context) {
	_, workspaceID, ok := scope(c)
	if !ok {
		return
	}

	var req dto.ListConversationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	items, total, err := h.conversationService.List(workspaceID, &req)
	if err != nil {
		fail(c, err)
		return
	}
	response.SuccessPage(c, total, req.Page, req.PageSize, items)
}

// Get returns the conversation with its latest messages.
// GET /api/v1/workspaces/:workspace_id/conversations/:id
func (h *ConversationHandler) Get(c *gin.Context) {
	_, workspaceID, ok := scope(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	conv, err := h.conversationService.Get(workspaceID, id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, conv)
}

// MarkRead
// POST /api/v1/workspaces/:workspace_id/conversations/:id/read
func (h *ConversationHandler) MarkRead(c *gin.Context) {
	_, workspaceID, ok := scope(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.conversationService.MarkRead(workspaceID, id); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}
