package middleware

import (
	"github.com/gin-gonic/gin"

	"shelfline/internal/shared/response"
	"shelfline/pkg/logger"
)

// Recovery converts a handler panic into the standard 500 envelope instead
// of a dropped connection.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorFields("panic recovered", map[string]interface{}{
					"request_id": c.GetString("request_id"),
					"panic":      rec,
				})

				response.InternalServerError(c, "internal server error")
				c.Abort()
			}
		}()

		c.Next()
	}
}
