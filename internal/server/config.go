package server

import (
	"net"
	"strconv"
	"time"

	"github.com/agentstation/apodserver/pkg/constants"
)

// Config holds server configuration.
type Config struct {
	// Server settings
	Host string
	Port int

	// CORS settings
	CORSEnabled bool
	CORSOrigins []string

	// Route settings
	FailureRate   float64       // test-crud failure probability in [0,1]
	ImageCacheTTL time.Duration // 0 disables the image cache
	BodyLimit     int64         // max parsed request body in bytes

	// Release puts gin into release mode.
	Release bool

	// HTTP timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:          constants.DefaultHost,
		Port:          constants.DefaultPort,
		CORSEnabled:   false,
		CORSOrigins:   []string{},
		FailureRate:   constants.DefaultFailureRate,
		ImageCacheTTL: constants.ImageCacheTTL,
		BodyLimit:     constants.MaxBodyBytes,
		ReadTimeout:   constants.DefaultReadTimeout,
		WriteTimeout:  constants.DefaultWriteTimeout,
		IdleTimeout:   constants.DefaultIdleTimeout,
	}
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
