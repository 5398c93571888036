package handlers

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"design-campaign-backend/internal/logger"
	"design-campaign-backend/internal/middleware"
)

type RouterConfig struct {
	Designs *DesignsHandler
	Logger  *logger.Logger
	// Tracing wraps every route in an otelgin span named after Service.
	Tracing bool
	Service string
}

// NewRouter mounts the relay routes. Swagger is left to the caller.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Tracing {
		router.Use(otelgin.Middleware(cfg.Service))
	}
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(cfg.Logger))
	router.Use(middleware.CORS())

	router.GET("/health", HealthHandler)

	router.POST("/designs-from-prompt", cfg.Designs.SubmitDesign)
	router.GET("/get-request-status", cfg.Designs.GetRequestStatus)
	router.GET("/get-design-variants", cfg.Designs.GetDesignVariants)

	return router
}
