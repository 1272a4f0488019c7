package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/phambaophuc/pdf-watermark/internal/config"
	"github.com/phambaophuc/pdf-watermark/internal/http/handlers"
	"github.com/phambaophuc/pdf-watermark/internal/http/middleware"
)

// CompatWatermarkPath is the path the existing download page already posts to.
const CompatWatermarkPath = "/functions/v1/watermark-pdf"

type Router struct {
	watermarkHandler *handlers.WatermarkHandler
	rateLimit        config.RateLimitConfig
	logger           *zap.Logger
}

func NewRouter(
	watermarkHandler *handlers.WatermarkHandler,
	rateLimit config.RateLimitConfig,
	logger *zap.Logger,
) *Router {
	return &Router{
		watermarkHandler: watermarkHandler,
		rateLimit:        rateLimit,
		logger:           logger,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler(r.logger))
	router.Use(middleware.SecurityHeaders())

	// Unmatched paths land here; CORS has already answered any OPTIONS request.
	router.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	limited := middleware.RateLimit(r.rateLimit.RequestsPerSecond, r.rateLimit.Burst)

	// API version 1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", r.watermarkHandler.HealthCheck)

		watermark := v1.Group("/watermark", limited)
		{
			watermark.POST("", r.watermarkHandler.Watermark)
			watermark.POST("/preview", r.watermarkHandler.Preview)
		}
	}

	router.POST(CompatWatermarkPath, limited, r.watermarkHandler.Watermark)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"message": "PDF watermarking is running",
		})
	})

	return router
}
