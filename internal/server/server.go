// Package server provides the HTTP API over the gallery catalog. It serves
// read-only browse endpoints plus a refresh trigger; all admin mutations
// stay on the CLI.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/stylerack/stylerack"
	"github.com/stylerack/stylerack/pkg/constants"
	"github.com/stylerack/stylerack/pkg/logging"
)

// Config holds the server configuration.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// AllowOrigins restricts CORS. Empty means allow all, which suits a
	// gallery that is itself public.
	AllowOrigins []string
}

// Server exposes the catalog over HTTP.
type Server struct {
	app    *stylerack.Client
	config Config
	logger *zerolog.Logger

	// refreshGroup collapses concurrent refresh requests into one remote
	// listing call.
	refreshGroup singleflight.Group

	httpServer *http.Server
	startTime  time.Time
}

// New creates a server around an initialized client.
func New(app *stylerack.Client, cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	return &Server{
		app:       app,
		config:    cfg,
		logger:    logging.Default(),
		startTime: time.Now(),
	}
}

// Run starts the server and blocks until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.config.Addr).Msg("HTTP server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ServerShutdownTimeout)
	defer cancel()

	s.logger.Info().Msg("shutting down HTTP server")
	return s.httpServer.Shutdown(shutdownCtx)
}

// router builds the gin engine with middleware and routes.
func (s *Server) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}
	if len(s.config.AllowOrigins) > 0 {
		corsCfg.AllowOrigins = s.config.AllowOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api")
	{
		api.GET("/products", s.handleListProducts)
		api.GET("/products/:id", s.handleGetProduct)
		api.GET("/facets", s.handleFacets)
		api.POST("/refresh", s.handleRefresh)
	}

	return router
}

// requestLogger logs one line per request through the zerolog logger.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}
