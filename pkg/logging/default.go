// Package logging holds the zerolog setup shared by the apodserver CLI,
// HTTP server and upstream clients.
//
// Request handling carries a logger in the context:
//
//	ctx := logging.WithRoute(r.Context(), r.Method, r.URL.Path)
//	logging.FromContext(ctx).Error().Err(err).Msg("Request failed")
package logging

import (
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var defaultLogger atomic.Pointer[zerolog.Logger]

func init() {
	l := New(ConfigFromEnv())
	defaultLogger.Store(&l)
}

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide logger, including zerolog's global
// log.Logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger.Store(&logger)
	log.Logger = logger
}
