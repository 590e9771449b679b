package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inboop/inboop_server/internal/pkg/jwt"
	"github.com/inboop/inboop_server/internal/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testJWTSecret = "test-secret-key-for-middleware"

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}

func bearer(t *testing.T, userID int64) string {
	token, err := jwt.GenerateToken(userID, testJWTSecret, 24)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuth_Success(t *testing.T) {
	router := gin.New()
	router.Use(Auth(testJWTSecret))
	router.GET("/test", func(c *gin.Context) {
		userID, ok := GetUserID(c)
		assert.True(t, ok)
		assert.Equal(t, int64(123), userID)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", bearer(t, 123))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth_Rejected(t *testing.T) {
	otherSecret, err := jwt.GenerateToken(123, "different-secret", 24)
	require.NoError(t, err)
	expired, err := jwt.GenerateToken(123, testJWTSecret, 0)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"no bearer prefix", "some-token-without-bearer"},
		{"garbage token", "Bearer invalid-token"},
		{"wrong secret", "Bearer " + otherSecret},
		{"expired", "Bearer " + expired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			router := gin.New()
			router.Use(Auth(testJWTSecret))
			router.GET("/test", func(c *gin.Context) {
				reached = true
				c.JSON(http.StatusOK, gin.H{})
			})

			req := httptest.NewRequest("GET", "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			resp := parseResponse(t, w)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, response.CodeAuthFailed, resp.Code)
			assert.NotEmpty(t, resp.Message)
			assert.False(t, reached)
		})
	}
}

func TestGetUserID(t *testing.T) {
	router := gin.New()
	router.GET("/unset", func(c *gin.Context) {
		_, ok := GetUserID(c)
		assert.False(t, ok)
		c.Status(http.StatusOK)
	})
	router.GET("/wrong-type", func(c *gin.Context) {
		c.Set(UserIDKey, "not-an-int64")
		id, ok := GetUserID(c)
		assert.False(t, ok)
		assert.Zero(t, id)
		c.Status(http.StatusOK)
	})
	router.GET("/set", func(c *gin.Context) {
		c.Set(UserIDKey, int64(789))
		id, ok := GetUserID(c)
		assert.True(t, ok)
		assert.Equal(t, int64(789), id)
		c.Status(http.StatusOK)
	})

	for _, path := range []string{"/unset", "/wrong-type", "/set"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
