package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/inboop/inboop_server/internal/pkg/response"
	"github.com/inboop/inboop_server/internal/service"
)

type PlanHandler struct {
	planService *service.PlanService
}

func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// Info
// GET /api/v1/workspaces/:workspace_id/plan
func (h *PlanHandler) Info(c *gin.Context) {
	_, workspaceID, ok := scope(c)
	if !ok {
		return
	}

	info, err := h.planService.GetPlanInfo(workspaceID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, info)
}

// Catalog
// GET /api/v1/plans
func (h *PlanHandler) Catalog(c *gin.Context) {
	response.Success(c, h.planService.Catalog())
}
