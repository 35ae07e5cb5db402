// Package application provides the application interface for apodserver
// commands.
//
// The Application interface is the contract between the CLI's App and the
// command and server packages, so those packages can be tested without
// loading real configuration.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            client, err := app.APOD()
//	            if err != nil {
//	                return err
//	            }
//	            // ... use client
//	            return nil
//	        },
//	    }
//	}
//
// Testing with Mocks:
//
//	mock := &application.Mock{
//	    APODFunc: func() (*apod.Client, error) {
//	        return apod.NewClient(apod.Config{BaseURL: stub.URL})
//	    },
//	}
//	cmd := NewCommand(mock)
package application

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/apodserver/internal/apod"
)

// Application provides what commands and the server need from the CLI app.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// APOD returns the upstream client, created lazily from configuration.
	APOD() (*apod.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	// Environment returns the runtime environment, e.g. "production".
	Environment() string

	// FailureRate returns the simulated failure probability of the
	// test-crud routes.
	FailureRate() float64

	// ImageCacheTTL returns how long proxied images stay cached.
	// Zero disables the cache.
	ImageCacheTTL() time.Duration

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
