package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/inboop/inboop_server/internal/model/dto"
	"github.com/inboop/inboop_server/internal/pkg/response"
	"github.com/inboop/inboop_server/internal/service"
)

type LeadHandler struct {
	leadService *service.LeadService
}

func NewLeadHandler(leadService *service.LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

// Create
// POST /api/v1/workspaces/:workspace_id/leads
func (h *LeadHandler) Create(c *gin.Context) {
	_, workspaceID, ok := scope(c)
	if !ok {
		return
	}

	var req dto.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	lead, err := h.leadService.Create(workspaceID, &req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, lead)
}

// List
// GET /api/v1/workspaces/:workspace_id/leads?status=&page=&page_size=
func (h *LeadHandler) List(c *gin.Context) {
	_, workspaceID, ok := scope(c)
	if !ok {
		return
	}

	var req dto.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	leads, total, err := h.leadService.List(workspaceID, &req)
	if err != nil {
		fail(c, err)
		return
	}
	response.SuccessPage(c, total, req.Page, req.PageSize, leads)
}

// Get
// GET /api/v1/workspaces/:workspace_id/leads/:id
func (h *LeadHandler) Get(c *gin.Context) {
	_, workspaceID, ok := scope(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	lead, err := h.leadService.Get(workspaceID, id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, lead)
}

// UpdateStatus
// PATCH /api/v1/workspaces/:workspace_id/leads/:id/status
func (h *LeadHandler) UpdateStatus(c *gin.Context) {
	_, workspaceID, ok := scope(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateLeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	lead, err := h.leadService.UpdateStatus(workspaceID, id, req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, lead)
}

// SetLabels replaces the lead's labels. Requires CUSTOM_LABELS.
// PUT /api/v1/workspaces/:workspace_id/leads/:id/labels
func (h *LeadHandler) SetLabels(c *gin.Context) {
	_, workspaceID, ok := scope(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.SetLeadLabelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	lead, err := h.leadService.SetLabels(workspaceID, id, req.Labels)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, lead)
}

// BulkUpdateStatus moves many leads at once. Requires BULK_OPERATIONS.
// Per-lead failures are reported in the body, not as an error.
// POST /api/v1/workspaces/:workspace_id/leads/bulk-status
func (h *LeadHandler) BulkUpdateStatus(c *gin.Context) {
	_, workspaceID, ok := scope(c)
	if !ok {
		return
	}

	var req dto.BulkLeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	result, err := h.leadService.BulkUpdateStatus(workspaceID, &req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, result)
}
