package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/imgworks/flux-kontext-api/internal/server/middleware"
	v1 "github.com/imgworks/flux-kontext-api/internal/server/v1"
)

func (s *Server) SetupRoutes() {
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.ErrorHandler(s.logger))

	if s.config.Tracing.Enabled {
		s.router.Use(middleware.Tracing("flux-kontext-api"))
	}

	// Uploaded images and downloaded artifacts are served statically.
	s.router.Static("/uploads", s.uploads.Dir())

	healthHandler := v1.NewHealthHandler(s.service)
	s.router.GET("/health", healthHandler.Health)

	limiter := middleware.NewRateLimiter(s.config.RateLimit.RequestsPerSecond, s.config.RateLimit.Burst, s.logger)

	api := s.router.Group("/api")
	api.Use(limiter.Middleware())
	{
		uploadHandler := v1.NewUploadHandler(s.uploads)
		api.POST("/upload-image", uploadHandler.Upload)

		processHandler := v1.NewProcessHandler(s.service)
		api.POST("/flux-kontext", processHandler.Process)
		api.POST("/generate-image", processHandler.Generate)
		api.POST("/test-generation", processHandler.TestGeneration)

		jobHandler := v1.NewJobHandler(s.service)
		api.GET("/job-status/:jobId", jobHandler.Status)

		modelHandler := v1.NewModelHandler(s.service)
		api.GET("/models", modelHandler.ListModels)

		analyticsHandler := v1.NewAnalyticsHandler(s.analytics)
		api.GET("/generations/:id", analyticsHandler.GetGeneration)
		api.GET("/analytics/usage", analyticsHandler.Usage)
	}

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Endpoint not found",
			"available_endpoints": []string{
				"POST /api/upload-image",
				"POST /api/flux-kontext",
				"POST /api/generate-image",
				"GET /api/job-status/:jobId",
				"GET /api/models",
				"GET /health",
			},
		})
	})
}
