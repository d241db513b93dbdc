package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jengzang/safeguard-backend/internal/auth"
	"github.com/jengzang/safeguard-backend/pkg/response"
)

// Context keys set by JWTAuth
const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
)

// TokenParser validates a bearer token
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// JWTAuth requires "Authorization: Bearer <token>" and stores the user in the context
func JWTAuth(tokens TokenParser, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			log.Debug("Invalid token", zap.String("path", c.Request.URL.Path), zap.Error(err))
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

// RequireAdmin allows only the listed emails through. It runs after JWTAuth;
// an empty list closes the admin API.
func RequireAdmin(emails []string, log *zap.Logger) gin.HandlerFunc {
	admins := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			admins[e] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		email := strings.ToLower(c.GetString(ContextEmail))
		if _, ok := admins[email]; !ok || email == "" {
			log.Warn("Admin route denied",
				zap.String("path", c.Request.URL.Path),
				zap.String("user_id", c.GetString(ContextUserID)))
			response.Forbidden(c, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}
