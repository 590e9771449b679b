package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/inboop/inboop_server/internal/api/middleware"
	"github.com/inboop/inboop_server/internal/logging"
	"github.com/inboop/inboop_server/internal/pkg/response"
	"github.com/inboop/inboop_server/internal/service"
)

var (
	notFoundErrors = []error{
		service.ErrUserNotFound,
		service.ErrWorkspaceNotFound,
		service.ErrMemberNotFound,
		service.ErrInvitationNotFound,
		service.ErrLeadNotFound,
		service.ErrConversationNotFound,
		service.ErrOrderNotFound,
		service.ErrChannelNotFound,
	}
	permissionErrors = []error{
		service.ErrNotMember,
		service.ErrNotWorkspaceAdmin,
		service.ErrCannotRemoveOwner,
		service.ErrInvitationEmailMismatch,
	}
	duplicateErrors = []error{
		service.ErrEmailExists,
		service.ErrAlreadyMember,
		service.ErrInvitationPending,
	}
	paramErrors = []error{
		service.ErrInvalidStatusFilter,
		service.ErrInvalidLabel,
		service.ErrInvalidChannel,
		service.ErrInvalidDateRange,
		service.ErrInvalidPlan,
		service.ErrInvitationNotPending,
		service.ErrInvitationExpired,
		service.ErrInvalidOAuthState,
		service.ErrNoPagesFound,
	}
)

// fail maps a service error onto the response envelope. Unknown errors are
// logged and hidden behind a generic server error.
func fail(c *gin.Context, err error) {
	var pe *service.PlanError
	if errors.As(err, &pe) {
		response.PlanError(c, pe.Message, pe)
		return
	}
	var te *service.TransitionError
	if errors.As(err, &te) {
		response.TransitionError(c, te.Error(), te)
		return
	}

	switch {
	case isAny(err, notFoundErrors):
		response.NotFoundError(c, err.Error())
	case isAny(err, permissionErrors):
		response.PermissionError(c, err.Error())
	case isAny(err, duplicateErrors):
		response.DuplicateError(c, err.Error())
	case isAny(err, paramErrors):
		response.ParamError(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		response.AuthError(c, err.Error())
	default:
		logger := logging.FromContext(c.Request.Context())
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		response.ServerError(c, "")
	}
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// scope returns the caller and the workspace resolved by WorkspaceMember.
func scope(c *gin.Context) (userID, workspaceID int64, ok bool) {
	userID, ok = middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return 0, 0, false
	}
	workspaceID, ok = middleware.GetWorkspaceID(c)
	if !ok {
		response.ParamError(c, "invalid workspace id")
		return 0, 0, false
	}
	return userID, workspaceID, true
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.ParamError(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
