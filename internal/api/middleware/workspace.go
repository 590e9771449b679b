package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/inboop/inboop_server/internal/model"
	"github.com/inboop/inboop_server/internal/pkg/response"
	"github.com/inboop/inboop_server/internal/service"
)

const (
	WorkspaceIDKey = "workspaceID"
	MemberRoleKey  = "memberRole"

	workspaceParam = "workspace_id"
)

// MembershipChecker resolves the caller's seat in a workspace.
type MembershipChecker interface {
	Membership(workspaceID, userID int64) (*model.WorkspaceMember, error)
}

// WorkspaceMember guards routes under /workspaces/:workspace_id. It must
// run after Auth.
func WorkspaceMember(members MembershipChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		workspaceID, err := strconv.ParseInt(c.Param(workspaceParam), 10, 64)
		if err != nil || workspaceID <= 0 {
			response.ParamError(c, "invalid workspace id")
			c.Abort()
			return
		}

		userID, ok := GetUserID(c)
		if !ok {
			response.AuthError(c, "")
			c.Abort()
			return
		}

		member, err := members.Membership(workspaceID, userID)
		if err != nil {
			if errors.Is(err, service.ErrNotMember) {
				response.PermissionError(c, err.Error())
			} else {
				log.Error().Err(err).Int64("workspace_id", workspaceID).Msg("membership lookup failed")
				response.ServerError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(WorkspaceIDKey, workspaceID)
		c.Set(MemberRoleKey, member.Role)
		c.Next()
	}
}

func GetWorkspaceID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(WorkspaceIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func GetMemberRole(c *gin.Context) string {
	return c.GetString(MemberRoleKey)
}
