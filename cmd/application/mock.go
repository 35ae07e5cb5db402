package application

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/apodserver/internal/apod"
	"github.com/agentstation/apodserver/pkg/constants"
)

// Mock is an Application for tests. Each method calls the matching
// function field when set and otherwise returns a default.
type Mock struct {
	APODFunc          func() (*apod.Client, error)
	LoggerFunc        func() *zerolog.Logger
	OutputFormatFunc  func() string
	EnvironmentFunc   func() string
	FailureRateFunc   func() float64
	ImageCacheTTLFunc func() time.Duration
	VersionFunc       func() string
}

var _ Application = (*Mock)(nil)

// APOD returns a client using the mock function or one for the public API.
func (m *Mock) APOD() (*apod.Client, error) {
	if m.APODFunc != nil {
		return m.APODFunc()
	}
	return apod.NewClient(apod.Config{})
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Environment returns the environment using the mock function or "test".
func (m *Mock) Environment() string {
	if m.EnvironmentFunc != nil {
		return m.EnvironmentFunc()
	}
	return "test"
}

// FailureRate returns the rate using the mock function or the default.
func (m *Mock) FailureRate() float64 {
	if m.FailureRateFunc != nil {
		return m.FailureRateFunc()
	}
	return constants.DefaultFailureRate
}

// ImageCacheTTL returns the TTL using the mock function or the default.
func (m *Mock) ImageCacheTTL() time.Duration {
	if m.ImageCacheTTLFunc != nil {
		return m.ImageCacheTTLFunc()
	}
	return constants.ImageCacheTTL
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns "unknown".
func (m *Mock) Commit() string { return "unknown" }

// Date returns "unknown".
func (m *Mock) Date() string { return "unknown" }

// BuiltBy returns "test".
func (m *Mock) BuiltBy() string { return "test" }
