package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/metalstreets/contact-backend/services/common/auth"
)

const (
	SubjectContextKey = "subject"
	AdminTokenType    = "admin"
)

// AdminAuth accepts only "Authorization: Bearer <jwt>" tokens signed with
// secret whose typ claim is "admin".
func AdminAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "unauthorized"})
			return
		}

		claims, err := auth.ParseAndValidateToken(secret, token, AdminTokenType)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": err.Error()})
			return
		}

		if sub, ok := claims["sub"].(string); ok {
			c.Set(SubjectContextKey, sub)
		}
		c.Next()
	}
}
