package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/recipedium/backend/config"
	"github.com/recipedium/backend/internal/api"
	"github.com/recipedium/backend/internal/middleware"
)

// Server wraps the HTTP server and its router.
type Server struct {
	router *gin.Engine
	http   *http.Server
	log    *logrus.Logger
}

// New builds the router with middleware and all routes registered.
func New(cfg *config.Config, db *gorm.DB, log *logrus.Logger, redisClient *redis.Client, s3Config *config.S3Config) *Server {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.Recovery(log, cfg.IsDevelopment()),
		middleware.RequestLogger(log),
		middleware.CORS(),
	)

	api.RegisterRoutes(router, db, cfg, log, redisClient, s3Config)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
			Handler: router,
		},
		log: log,
	}
}

// Router exposes the underlying engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start begins serving; it blocks until the listener fails or is shut down.
func (s *Server) Start() error {
	s.log.WithField("addr", s.http.Addr).Info("starting server")
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
