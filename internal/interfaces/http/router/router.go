package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopdesk/backend/internal/interfaces/http/middleware"
)

// RouteRegistrar registers a handler's routes onto an API group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Config controls router construction
type Config struct {
	Mode       string // gin mode: debug, release, test
	APIVersion string // version segment of the API prefix, defaults to v1
}

// New builds the gin engine with the standard middleware chain and
// registers all handlers under /api/<version>
func New(cfg Config, logger *zap.Logger, registrars ...RouteRegistrar) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	version := cfg.APIVersion
	if version == "" {
		version = "v1"
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.Recovery(logger),
	)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/" + version)
	for _, registrar := range registrars {
		registrar.RegisterRoutes(api)
	}
	return engine
}
