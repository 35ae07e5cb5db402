// Package constants provides shared constants used throughout apodserver.
// This includes timeouts, limits, defaults for configuration values and
// the fixed messages returned to API callers.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for outbound HTTP requests
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultReadTimeout is the HTTP server read timeout
	DefaultReadTimeout = 10 * time.Second

	// DefaultWriteTimeout is the HTTP server write timeout. Image proxying
	// streams upstream bytes, so it is longer than the read timeout.
	DefaultWriteTimeout = 60 * time.Second

	// DefaultIdleTimeout is the HTTP server keep-alive idle timeout
	DefaultIdleTimeout = 120 * time.Second

	// ShutdownTimeout bounds graceful shutdown of the HTTP server
	ShutdownTimeout = 30 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// MaxAPODCount is the largest count the upstream APOD API accepts
	MaxAPODCount = 100

	// MaxImageBytes caps the size of a proxied image (32 MB)
	MaxImageBytes = 32 << 20

	// MaxBodyBytes caps the size of a parsed request body (1 MB)
	MaxBodyBytes = 1 << 20
)

// Cache constants
const (
	// ImageCacheTTL is the default time-to-live for cached image bytes
	ImageCacheTTL = 10 * time.Minute

	// CacheCleanupInterval is how often to clean expired cache entries
	CacheCleanupInterval = 5 * time.Minute
)

// Default values
const (
	// DefaultPort is the port the server listens on when none is configured
	DefaultPort = 5000

	// DefaultHost is the bind address when none is configured
	DefaultHost = "localhost"

	// DefaultAPIKey is the placeholder credential accepted by api.nasa.gov
	DefaultAPIKey = "DEMO_KEY"

	// DefaultAPODURL is the upstream Astronomy Picture of the Day endpoint
	DefaultAPODURL = "https://api.nasa.gov/planetary/apod"

	// DefaultFailureRate is the simulated failure probability of the demo CRUD routes
	DefaultFailureRate = 0.3

	// DefaultEnvironment is the default runtime environment
	DefaultEnvironment = "development"

	// EnvironmentProduction switches the router into release mode
	EnvironmentProduction = "production"
)

// Response messages
const (
	// MessageInternalServerError replaces the message of every 500 response
	MessageInternalServerError = "Internal Server Error"

	// MessageInvalidBody is returned when a request body cannot be decoded
	MessageInvalidBody = "Invalid request body."
)
