package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agentstation/apodserver/internal/route"
	"github.com/agentstation/apodserver/internal/server/handlers"
	"github.com/agentstation/apodserver/internal/server/middleware"
)

// newEngine creates the gin engine with the request pipeline. The error
// boundary is installed first so it runs after body parsing, dispatch and
// the handler have all finished, and sees failures from each of them.
func (s *Server) newEngine() *gin.Engine {
	engine := gin.New()
	engine.Use(
		middleware.ErrorBoundary(s.logger),
		middleware.BodyParser(s.config.BodyLimit),
	)
	return engine
}

// modules returns the route modules mounted by the server.
func (s *Server) modules(source handlers.PictureSource) []route.Module {
	return []route.Module{
		&handlers.Health{
			Version:    s.app.Version(),
			StartTime:  s.startTime,
			CacheStats: s.cacheStats,
		},
		handlers.NewTestCRUD(handlers.WithFailureRate(s.config.FailureRate)),
		handlers.NewAPOD(source, s.images),
	}
}

// applyMiddleware wraps handler with the transport middleware chain.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config

	// CORS (if enabled)
	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
			corsConfig.AllowAll = false
		} else {
			corsConfig.AllowAll = true
		}
		handler = middleware.CORS(corsConfig)(handler)
	}

	// Logging and recovery (always enabled)
	handler = middleware.Logger(s.logger)(handler)
	handler = middleware.Recovery(s.logger)(handler)

	return handler
}
