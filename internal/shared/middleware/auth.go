package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"shelfline/internal/shared/response"
	"shelfline/pkg/jwt"
)

// Context keys set by the auth middlewares.
const (
	ContextRole    = "role"
	ContextSubject = "subject"
)

// RoleAdmin is the only role that unlocks mutation endpoints and the
// update/delete hypermedia links.
const RoleAdmin = "admin"

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// OptionalAuth populates the caller's role when a valid token is presented.
// Requests without a token (or with a bad one) proceed anonymously; read
// endpoints are public and only use the role for link shaping.
func OptionalAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := jwtManager.ValidateToken(token); err == nil {
				c.Set(ContextRole, claims.Role)
				c.Set(ContextSubject, claims.Subject)
			}
		}

		c.Next()
	}
}

// RequireAuth rejects requests without a valid token.
func RequireAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Unauthorized(c, "missing or malformed authorization header")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateToken(token)
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		c.Set(ContextRole, claims.Role)
		c.Set(ContextSubject, claims.Subject)
		c.Next()
	}
}

// AdminRequired checks the role set by RequireAuth. It runs before any
// persistence or cache mutation.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsGranted(c, RoleAdmin) {
			response.Forbidden(c, "access denied: admin role required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// IsGranted reports whether the caller holds the given role.
func IsGranted(c *gin.Context, role string) bool {
	granted, exists := c.Get(ContextRole)
	if !exists {
		return false
	}

	r, ok := granted.(string)
	return ok && r == role
}
