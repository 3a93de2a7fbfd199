// Package api exposes the account manager over an admin HTTP API.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/redhat-data-and-ai/accountsync/pkg/accounts"
	"github.com/redhat-data-and-ai/accountsync/pkg/config"
	"github.com/redhat-data-and-ai/accountsync/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// Server serves the admin API.
type Server struct {
	manager *accounts.Manager
	config  config.API
	router  *gin.Engine
	server  *http.Server
}

// NewServer creates the server and registers its routes.
func NewServer(manager *accounts.Manager, cfg config.API) *Server {
	if logger.Base().IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		manager: manager,
		config:  cfg,
		router:  gin.New(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the http.Handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(requestIDMiddleware())
	s.router.Use(loggingMiddleware())

	if len(s.config.AllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = s.config.AllowedOrigins
		corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", requestIDHeader}
		corsConfig.ExposeHeaders = []string{requestIDHeader}
		s.router.Use(cors.New(corsConfig))
	}
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.healthCheck)

	accountRoutes := s.router.Group("/accounts")
	{
		accountRoutes.GET("", s.listAccounts)
		accountRoutes.POST("", s.addAccount)
		accountRoutes.DELETE("", s.clearAccounts)
		accountRoutes.POST("/load", s.loadAccounts)
		accountRoutes.POST("/reload", s.reloadAccounts)
		accountRoutes.GET("/:mail", s.getAccount)
		accountRoutes.DELETE("/:mail", s.deleteAccount)
		accountRoutes.PUT("/:mail/password", s.changePassword)
	}

	s.router.GET("/snapshot", s.getSnapshot)
	s.router.PUT("/snapshot", s.putSnapshot)
}

// Start listens on the configured address until ctx is cancelled, then
// shuts the server down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              s.config.Address,
		Handler:           s.router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log := logger.Logger(ctx).WithFields(logrus.Fields{
		"address": s.config.Address,
		"mode":    gin.Mode(),
	})
	log.Info("starting admin API")

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down admin API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
