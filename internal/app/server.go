// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"fintrack_backend/internal/auth"
	"fintrack_backend/internal/config"
	"fintrack_backend/internal/emailconfirmation"
	"fintrack_backend/internal/jobs"
	"fintrack_backend/internal/middleware"
	"fintrack_backend/internal/shared"
	"fintrack_backend/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	// Handlers
	userHandler         *user.Handler
	authHandler         *auth.Handler
	confirmationHandler *emailconfirmation.Handler

	// Jobs
	tokenSweepJob *jobs.RefreshTokenSweepJob

	// Middleware instances
	authMW gin.HandlerFunc
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	tokenService shared.TokenService,
	blocklist auth.TokenBlocklistService,
	userHandler *user.Handler,
	authHandler *auth.Handler,
	confirmationHandler *emailconfirmation.Handler,
	tokenSweepJob *jobs.RefreshTokenSweepJob,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	// CORS Middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	authMW := middleware.AuthMiddleware(tokenService, blocklist, logger.Named("AuthMiddleware"))

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "FinTrack API is healthy!"})
	})

	v1 := router.Group("/api/v1")

	userHandler.RegisterRoutes(v1, authMW)
	authHandler.RegisterRoutes(v1, authMW)
	confirmationHandler.RegisterRoutes(v1, authMW)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:          httpServer,
		router:              router,
		cfg:                 cfg,
		logger:              logger,
		userHandler:         userHandler,
		authHandler:         authHandler,
		confirmationHandler: confirmationHandler,
		tokenSweepJob:       tokenSweepJob,
		authMW:              authMW,
	}, nil
}

func (s *Server) Start() error {
	if s.tokenSweepJob != nil {
		err := s.tokenSweepJob.SetupAndStart()
		if err != nil {
			s.logger.Error("Failed to setup and start refresh token sweep job", zap.Error(err))
		}
	} else {
		s.logger.Info("Refresh token sweep job is not configured, skipping start.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped gracefully or an error occurred")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.tokenSweepJob != nil {
		s.tokenSweepJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
