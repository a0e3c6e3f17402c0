package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"review-service/internal/shared/middleware"
	"review-service/pkg/container"
)

func setupRouter(c *container.Container) *gin.Engine {
	if c.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.CORS(),
		middleware.Logger(),
	)

	router.GET("/health", func(ctx *gin.Context) {
		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "database": err.Error()})
			return
		}
		if err := c.Cache.Ping(ctx.Request.Context()); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "redis": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "up", "version": c.Config.App.Version})
	})

	v1 := router.Group("/api/v1")
	jwtSecret := c.Config.JWT.Secret

	// Public surface. Submission allows anonymous authors, so auth is
	// optional; ownership checks happen in the service.
	reviews := v1.Group("/reviews", middleware.OptionalAuthMiddleware(jwtSecret))
	{
		reviews.POST("", c.ReviewHandler.Submit)
		reviews.GET("", c.ReviewHandler.List)
		reviews.GET("/form", c.ReviewHandler.Form)
		reviews.GET("/:id", c.ReviewHandler.Get)
		reviews.GET("/:id/average", c.ReviewHandler.Average)
		reviews.PUT("/:id", c.ReviewHandler.Update)
		reviews.DELETE("/:id", c.ReviewHandler.Delete)
	}

	admin := v1.Group("/admin", middleware.AuthMiddleware(jwtSecret), middleware.AdminMiddleware())
	{
		adminReviews := admin.Group("/reviews")
		{
			adminReviews.GET("", c.ReviewAdminHandler.List)
			adminReviews.GET("/candidates", c.ReviewAdminHandler.Candidates)
			adminReviews.POST("/export", c.ReviewAdminHandler.RequestExport)
			adminReviews.GET("/export/:id", c.ReviewAdminHandler.ExportStatus)
			adminReviews.GET("/:id", c.ReviewAdminHandler.Get)
			adminReviews.PUT("/:id", c.ReviewAdminHandler.Update)
			adminReviews.DELETE("/:id", c.ReviewAdminHandler.Delete)
			adminReviews.PUT("/:id/ratings/:categoryId", c.ReviewAdminHandler.UpsertRating)
			adminReviews.POST("/:id/extra-infos", c.ReviewAdminHandler.AddExtraInfo)
			adminReviews.DELETE("/:id/extra-infos/:infoId", c.ReviewAdminHandler.DeleteExtraInfo)
		}

		categories := admin.Group("/categories")
		{
			categories.GET("", c.CategoryHandler.List)
			categories.POST("", c.CategoryHandler.Create)
			categories.GET("/:id", c.CategoryHandler.Get)
			categories.PUT("/:id", c.CategoryHandler.Update)
			categories.DELETE("/:id", c.CategoryHandler.Delete)
		}
		admin.PUT("/choices/:id/translations/:language", c.CategoryHandler.TranslateChoice)

		filters := admin.Group("/content-filters")
		{
			filters.GET("/content-types", c.FilterHandler.ListContentTypes)
			filters.GET("", c.FilterHandler.List)
			filters.POST("", c.FilterHandler.Create)
			filters.GET("/:id", c.FilterHandler.Get)
			filters.PUT("/:id", c.FilterHandler.Update)
			filters.DELETE("/:id", c.FilterHandler.Delete)
			filters.GET("/:id/candidates", c.FilterHandler.Candidates)
		}
	}

	return router
}
