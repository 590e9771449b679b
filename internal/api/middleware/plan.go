package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/inboop/inboop_server/internal/model"
	"github.com/inboop/inboop_server/internal/pkg/response"
	"github.com/inboop/inboop_server/internal/service"
)

// PlanGate is the subset of PlanService the gates consult.
type PlanGate interface {
	AssertFeatureEnabled(workspaceID int64, feature model.Feature) error
	AssertPlanActive(workspaceID int64) error
}

// RequireFeature rejects the request with 402 when the workspace plan lacks
// feature. It must run after WorkspaceMember.
func RequireFeature(plans PlanGate, feature model.Feature) gin.HandlerFunc {
	return func(c *gin.Context) {
		workspaceID, ok := GetWorkspaceID(c)
		if !ok {
			response.ParamError(c, "invalid workspace id")
			c.Abort()
			return
		}
		if err := plans.AssertFeatureEnabled(workspaceID, feature); err != nil {
			abortWithPlanError(c, err)
			return
		}
		c.Next()
	}
}

// RequireActivePlan rejects writes on expired or suspended workspaces.
func RequireActivePlan(plans PlanGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		workspaceID, ok := GetWorkspaceID(c)
		if !ok {
			response.ParamError(c, "invalid workspace id")
			c.Abort()
			return
		}
		if err := plans.AssertPlanActive(workspaceID); err != nil {
			abortWithPlanError(c, err)
			return
		}
		c.Next()
	}
}

func abortWithPlanError(c *gin.Context, err error) {
	var pe *service.PlanError
	if errors.As(err, &pe) {
		response.PlanError(c, pe.Message, pe)
	} else {
		response.ServerError(c, "")
	}
	c.Abort()
}
