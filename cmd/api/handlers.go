package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shelfline/internal/shared/middleware"
	"shelfline/internal/shared/response"
	"shelfline/pkg/container"
)

type tokenRequest struct {
	Subject string `json:"subject"`
	Role    string `json:"role"`
}

// issueTokenHandler mints role-bearing tokens for development and demos.
// Production deployments are expected to front the API with a real identity
// provider, so the endpoint is disabled there.
func issueTokenHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if c.Config.App.Environment == "production" {
			response.NotFound(ctx, "not available")
			return
		}

		var req tokenRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.BadRequest(ctx, "malformed request body")
			return
		}

		if req.Subject == "" {
			response.BadRequest(ctx, "subject is required")
			return
		}
		if req.Role != middleware.RoleAdmin && req.Role != "" {
			response.BadRequest(ctx, "unknown role")
			return
		}

		token, err := c.JWTManager.GenerateToken(req.Subject, req.Role)
		if err != nil {
			response.InternalServerError(ctx, "failed to issue token")
			return
		}

		response.Success(ctx, http.StatusOK, gin.H{"token": token})
	}
}
