// Package app provides the application context and dependency management
// for the apodserver CLI: configuration, logging and the lazily created
// APOD client shared by every command.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/apodserver/cmd/application"
	"github.com/agentstation/apodserver/internal/apod"
	"github.com/agentstation/apodserver/pkg/errors"
	"github.com/agentstation/apodserver/pkg/logging"
)

// App represents the apodserver application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// APOD client (lazy-initialized, singleton)
	mu   sync.RWMutex
	apod *apod.Client
}

var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
// Configuration is loaded from the environment and can be replaced with
// functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	logging.SetDefault(*app.logger)

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Environment returns the configured runtime environment.
func (a *App) Environment() string {
	return a.config.Environment
}

// FailureRate returns the simulated failure rate of the test-crud routes.
func (a *App) FailureRate() float64 {
	return a.config.FailureRate
}

// ImageCacheTTL returns how long proxied images stay cached.
func (a *App) ImageCacheTTL() time.Duration {
	return a.config.ImageCacheTTL
}

// APOD returns the APOD client, creating it lazily if needed.
// This is thread-safe and ensures only one instance is created.
func (a *App) APOD() (*apod.Client, error) {
	a.mu.RLock()
	if a.apod != nil {
		client := a.apod
		a.mu.RUnlock()
		return client, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.apod != nil {
		return a.apod, nil
	}

	client, err := apod.NewClient(apod.Config{
		BaseURL: a.config.APODBaseURL,
		APIKey:  a.config.APIKey,
	})
	if err != nil {
		return nil, errors.WrapResource("create", "apod client", "", err)
	}

	a.apod = client
	return client, nil
}

// Shutdown performs graceful shutdown of the application.
func (a *App) Shutdown(_ context.Context) error {
	a.logger.Debug().Msg("Application shutdown")
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewConfigurationError("app", "config is required", nil)
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithAPOD sets a custom APOD client (useful for testing).
func WithAPOD(client *apod.Client) Option {
	return func(a *App) error {
		a.apod = client
		return nil
	}
}
