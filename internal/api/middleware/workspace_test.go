package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/inboop/inboop_server/internal/model"
	"github.com/inboop/inboop_server/internal/pkg/response"
	"github.com/inboop/inboop_server/internal/service"
)

type fakeMemberships map[[2]int64]string

func (f fakeMemberships) Membership(workspaceID, userID int64) (*model.WorkspaceMember, error) {
	if workspaceID == 99 {
		return nil, errors.New("db gone")
	}
	role, ok := f[[2]int64{workspaceID, userID}]
	if !ok {
		return nil, service.ErrNotMember
	}
	return &model.WorkspaceMember{WorkspaceID: workspaceID, UserID: userID, Role: role}, nil
}

func workspaceRouter(t *testing.T) *gin.Engine {
	members := fakeMemberships{{7, 1}: model.MemberRoleOwner}

	router := gin.New()
	router.Use(Auth(testJWTSecret))
	router.GET("/workspaces/:workspace_id/ping", WorkspaceMember(members), func(c *gin.Context) {
		id, ok := GetWorkspaceID(c)
		assert.True(t, ok)
		response.Success(c, gin.H{"workspace_id": id, "role": GetMemberRole(c)})
	})
	return router
}

func TestWorkspaceMember(t *testing.T) {
	router := workspaceRouter(t)

	tests := []struct {
		name   string
		userID int64
		path   string
		code   int
	}{
		{"member", 1, "/workspaces/7/ping", response.CodeSuccess},
		{"not a member", 2, "/workspaces/7/ping", response.CodePermissionDenied},
		{"bad id", 1, "/workspaces/abc/ping", response.CodeParamError},
		{"zero id", 1, "/workspaces/0/ping", response.CodeParamError},
		{"lookup failure", 1, "/workspaces/99/ping", response.CodeServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			req.Header.Set("Authorization", bearer(t, tt.userID))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			resp := parseResponse(t, w)
			assert.Equal(t, tt.code, resp.Code)
			if tt.code == response.CodeSuccess {
				data := resp.Data.(map[string]interface{})
				assert.Equal(t, float64(7), data["workspace_id"])
				assert.Equal(t, model.MemberRoleOwner, data["role"])
			}
		})
	}
}
