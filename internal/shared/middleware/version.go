package middleware

import (
	"github.com/gin-gonic/gin"
)

// ContextVersion holds the API version resolved for the request.
const ContextVersion = "api_version"

// DefaultVersion is assumed when the client does not ask for one.
const DefaultVersion = "1.0"

// Version resolves the response version from the X-API-Version header.
// Field visibility downstream is a pure function of this value.
func Version() gin.HandlerFunc {
	return func(c *gin.Context) {
		version := c.GetHeader("X-API-Version")
		if version == "" {
			version = DefaultVersion
		}

		c.Set(ContextVersion, version)
		c.Next()
	}
}

// RequestVersion returns the version resolved for the request.
func RequestVersion(c *gin.Context) string {
	if v := c.GetString(ContextVersion); v != "" {
		return v
	}
	return DefaultVersion
}
