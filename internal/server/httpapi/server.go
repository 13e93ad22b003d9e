// Package httpapi exposes the authentication service over HTTP JSON,
// replacing transport concerns only: all business rules live in services.
package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/fairplay-su/scdm-server/internal/i18n"
	"github.com/fairplay-su/scdm-server/internal/logging"
	"github.com/fairplay-su/scdm-server/internal/server/config"
	"github.com/fairplay-su/scdm-server/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type HTTPServer struct {
	address string
	logger  logging.Logger
	auth    *services.AuthService
	bundle  *i18n.Bundle
	origins []string
	ginMode string
}

func NewHTTPServer(cfg *config.Config, l logging.Logger, as *services.AuthService, b *i18n.Bundle) *HTTPServer {
	return &HTTPServer{
		address: cfg.EndpointAddrHTTP,
		logger:  l.With("module", "http_server"),
		auth:    as,
		bundle:  b,
		origins: strings.Split(cfg.CORSAllowedOrigins, ","),
		ginMode: cfg.GinMode,
	}
}

// Router builds the gin engine with all middleware and routes attached.
func (s *HTTPServer) Router() *gin.Engine {
	gin.SetMode(s.ginMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLog())
	router.Use(s.language())
	router.Use(cors.New(s.corsConfig()))

	router.GET("/", s.Welcome)

	api := router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", s.Register)
			authRoutes.POST("/login", s.Login)
			authRoutes.GET("/me", s.requireAuth(), s.Me)
		}
	}

	return router
}

func (s *HTTPServer) corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = s.origins
	cfg.AllowCredentials = true
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "Accept-Language"}
	return cfg
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
