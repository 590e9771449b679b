package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/inboop/inboop_server/internal/pkg/jwt"
	"github.com/inboop/inboop_server/internal/pkg/response"
)

const (
	UserIDKey = "userID"
)

// Auth requires a valid bearer token and stores the user id on the context.
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, msg := authenticate(c.GetHeader("Authorization"), jwtSecret)
		if msg != "" {
			response.AuthError(c, msg)
			c.Abort()
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

func authenticate(header, secret string) (int64, string) {
	if header == "" {
		return 0, "missing authorization header"
	}

	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == header {
		return 0, "authorization header must use the Bearer scheme"
	}

	claims, err := jwt.ParseToken(tokenString, secret)
	if err != nil {
		return 0, "invalid or expired token"
	}
	return claims.UserID, ""
}

func GetUserID(c *gin.Context) (int64, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(int64)
	return id, ok
}
