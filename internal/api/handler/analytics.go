package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/inboop/inboop_server/internal/model/dto"
	"github.com/inboop/inboop_server/internal/pkg/response"
	"github.com/inboop/inboop_server/internal/service"
)

type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Overview
// GET /api/v1/workspaces/:workspace_id/analytics?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	_, workspaceID, ok := scope(c)
	if !ok {
		return
	}

	var req dto.AnalyticsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	overview, err := h.analyticsService.Overview(workspaceID, &req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, overview)
}

// Export uploads the overview as CSV and returns a signed download URL.
// POST /api/v1/workspaces/:workspace_id/analytics/export
func (h *AnalyticsHandler) Export(c *gin.Context) {
	_, workspaceID, ok := scope(c)
	if !ok {
		return
	}

	var req dto.AnalyticsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	export, err := h.analyticsService.Export(workspaceID, &req)
	if err != nil {
		if errors.Is(err, service.ErrExportUnavailable) {
			response.Error(c, response.CodeServerError, err.Error())
			return
		}
		fail(c, err)
		return
	}
	response.Success(c, export)
}
