package server

import (
	"net/http"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/imgworks/flux-kontext-api/internal/analytics"
	"github.com/imgworks/flux-kontext-api/internal/config"
	"github.com/imgworks/flux-kontext-api/internal/gateway"
	"github.com/imgworks/flux-kontext-api/internal/server/middleware"
	"github.com/imgworks/flux-kontext-api/internal/server/validator"
	"github.com/imgworks/flux-kontext-api/internal/storage"
	"go.uber.org/zap"
)

type Server struct {
	router    *gin.Engine
	config    *config.Config
	logger    *zap.Logger
	service   gateway.Service
	analytics analytics.Service
	uploads   *storage.Local
}

func New(cfg *config.Config, logger *zap.Logger, service gateway.Service, analyticsService analytics.Service, uploads *storage.Local) *Server {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	validator.InitValidator()

	engine := gin.New()
	engine.MaxMultipartMemory = storage.MaxUploadBytes

	engine.Use(ginzap.RecoveryWithZap(logger, true))
	engine.Use(middleware.Logger(logger))

	s := &Server{
		router:    engine,
		config:    cfg,
		logger:    logger,
		service:   service,
		analytics: analyticsService,
		uploads:   uploads,
	}

	s.SetupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}
