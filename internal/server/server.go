// Package server assembles the apodserver HTTP server: the gin engine with
// its request pipeline, the route modules, and the transport middleware
// wrapped around them.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/agentstation/apodserver/cmd/application"
	"github.com/agentstation/apodserver/internal/apod"
	"github.com/agentstation/apodserver/internal/route"
	"github.com/agentstation/apodserver/internal/server/cache"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	app       application.Application
	config    Config
	logger    *zerolog.Logger
	engine    *gin.Engine
	router    *route.Router
	images    *cache.Cache[*apod.Image]
	handler   http.Handler
	startTime time.Time
}

// New creates a server with every route module mounted. Mount failures
// are returned before the server can accept a request.
func New(app application.Application, cfg Config) (*Server, error) {
	logger := app.Logger()

	logger.Debug().Msg("Creating new server instance")

	client, err := app.APOD()
	if err != nil {
		return nil, fmt.Errorf("creating apod client: %w", err)
	}

	if cfg.Release {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		app:       app,
		config:    cfg,
		logger:    logger,
		startTime: time.Now(),
	}

	if cfg.ImageCacheTTL > 0 {
		s.images = cache.New[*apod.Image](cfg.ImageCacheTTL, cfg.ImageCacheTTL*2)
	}

	s.engine = s.newEngine()
	s.router, err = route.NewRouter(s.engine, logger)
	if err != nil {
		return nil, err
	}

	if err := route.Mount(s.router, s.modules(client)...); err != nil {
		return nil, fmt.Errorf("mounting routes: %w", err)
	}

	s.handler = s.applyMiddleware(s.router)

	logger.Debug().
		Int("routes", s.router.Len()).
		Msg("Server instance created successfully")
	return s, nil
}

// Handler returns the http.Handler with the transport middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Routes returns the registered route table.
func (s *Server) Routes() []route.Registration {
	return s.router.Routes()
}

// Shutdown releases server resources. In-flight requests are drained by
// http.Server.Shutdown before this is called.
func (s *Server) Shutdown(_ context.Context) error {
	s.logger.Info().Msg("Shutting down server")
	if s.images != nil {
		s.images.Clear()
	}
	return nil
}

// Cache returns the image cache, or nil when caching is disabled.
func (s *Server) Cache() *cache.Cache[*apod.Image] {
	return s.images
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}

func (s *Server) cacheStats() cache.Stats {
	if s.images == nil {
		return cache.Stats{}
	}
	return s.images.GetStats()
}
