package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shelfline/internal/shared/middleware"
	"shelfline/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
		middleware.Version(),
		middleware.OptionalAuth(c.JWTManager),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupBookRoutes(v1, c)
		setupAuthorRoutes(v1, c)
	}

	return router
}

// Token issuance stands in for an external identity provider in development
// and demos. Callers exchange the configured secret for a role-bearing token.
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/token", issueTokenHandler(c))
	}
}

func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	books := v1.Group("/books")
	{
		books.GET("", c.BookHandler.List)
		books.GET("/:id", c.BookHandler.GetByID)

		// Mutations are admin-only; the role check runs before the
		// handler touches the store or the cache.
		admin := books.Group("")
		admin.Use(middleware.RequireAuth(c.JWTManager), middleware.AdminRequired())
		{
			admin.POST("", c.BookHandler.Create)
			admin.PUT("/:id", c.BookHandler.Update)
			admin.DELETE("/:id", c.BookHandler.Delete)
		}
	}
}

func setupAuthorRoutes(v1 *gin.RouterGroup, c *container.Container) {
	authors := v1.Group("/authors")
	{
		authors.GET("", c.AuthorHandler.List)
		authors.GET("/:id", c.AuthorHandler.GetByID)

		admin := authors.Group("")
		admin.Use(middleware.RequireAuth(c.JWTManager), middleware.AdminRequired())
		{
			admin.POST("", c.AuthorHandler.Create)
			admin.PUT("/:id", c.AuthorHandler.Update)
			admin.DELETE("/:id", c.AuthorHandler.Delete)
		}
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		dbErr := c.DB.HealthCheck(ctx.Request.Context())
		cacheErr := c.Cache.Ping(ctx.Request.Context())

		status := http.StatusOK
		if dbErr != nil {
			// Redis being down degrades performance, not availability;
			// only the database is load-bearing for health.
			status = http.StatusServiceUnavailable
		}

		ctx.JSON(status, gin.H{
			"database": healthString(dbErr),
			"cache":    healthString(cacheErr),
		})
	}
}

func healthString(err error) string {
	if err != nil {
		return "unavailable"
	}
	return "ok"
}
