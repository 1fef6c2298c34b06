package http

import (
	"github.com/cartcompare/backend/config"
	"github.com/cartcompare/backend/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	logger := log.Logger.With().Str("component", "http").Logger()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(MetricsMiddleware())
	router.Use(RecoveryMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/compare", handler.ComparePrices)
		v1.GET("/offers", handler.GetOffers)
		v1.POST("/lists/extract", handler.ExtractList)

		cache := v1.Group("/cache")
		{
			cache.GET("", handler.ListCache)
			cache.DELETE("/:key", handler.EvictCache)
		}
	}

	return router
}
