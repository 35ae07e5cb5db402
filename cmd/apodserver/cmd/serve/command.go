// Package serve provides the command that runs the apodserver HTTP server.
package serve

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agentstation/apodserver/cmd/application"
	"github.com/agentstation/apodserver/internal/cmd/emoji"
	"github.com/agentstation/apodserver/internal/server"
	"github.com/agentstation/apodserver/pkg/constants"
)

// NewCommand creates the serve command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		GroupID: "core",
		Short:   "Start the HTTP server",
		Long: `Start the apodserver HTTP server.

Endpoints:
  GET  /test-crud/test/:id   echo an id, failing at random
  POST /test-crud/test       echo the body id, failing at random
  GET  /apod/list/:count     list random Astronomy Pictures of the Day
  GET  /apod/image           proxy the image of a random entry
  GET  /health               liveness and image cache statistics

Every JSON response uses the {"data": ..., "error": ...} envelope.

Environment Variables:
  PORT                     - Override the listen port
  HTTP_HOST                - Override the bind address
  DEMO_KEY                 - NASA API key (default DEMO_KEY)
  APP_ENV                  - "production" enables release mode
  TEST_CRUD_FAILURE_RATE   - Simulated failure probability (default 0.3)
  IMAGE_CACHE_TTL          - Image cache lifetime, 0 disables (default 10m)`,
		Example: `  # Start on default port 5000
  apodserver serve

  # Start on a custom port with CORS for one origin
  apodserver serve --port 8080 --cors-origins "https://example.com"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd, args, app)
		},
	}

	// Server configuration flags
	cmd.Flags().IntP("port", "p", constants.DefaultPort, "Server port")
	cmd.Flags().String("host", constants.DefaultHost, "Bind address")

	// CORS flags
	cmd.Flags().Bool("cors", false, "Enable CORS for all origins")
	cmd.Flags().StringSlice("cors-origins", []string{}, "Allowed CORS origins (comma-separated)")

	// Limits
	cmd.Flags().Int64("body-limit", constants.MaxBodyBytes, "Maximum request body size in bytes")

	// Timeout flags
	cmd.Flags().Duration("read-timeout", constants.DefaultReadTimeout, "HTTP read timeout")
	cmd.Flags().Duration("write-timeout", constants.DefaultWriteTimeout, "HTTP write timeout")
	cmd.Flags().Duration("idle-timeout", constants.DefaultIdleTimeout, "HTTP idle timeout")

	return cmd
}

// runServer starts the server and blocks until the command context is
// cancelled or the listener fails.
func runServer(cmd *cobra.Command, _ []string, app application.Application) error {
	cfg, err := parseConfig(cmd, app)
	if err != nil {
		return err
	}
	logger := app.Logger()

	logger.Info().
		Str("addr", cfg.Addr()).
		Bool("cors", cfg.CORSEnabled).
		Bool("release", cfg.Release).
		Float64("failure_rate", cfg.FailureRate).
		Dur("image_cache_ttl", cfg.ImageCacheTTL).
		Msg("Starting server")

	srv, err := server.New(app, cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	listener, err := net.Listen("tcp", httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", httpServer.Addr, err)
	}

	return serveWithGracefulShutdown(cmd.Context(), httpServer, listener, srv, logger, cmd.OutOrStdout())
}

// parseConfig builds the server configuration from flags, the environment
// and the application settings. Flags set explicitly win over PORT and
// HTTP_HOST.
func parseConfig(cmd *cobra.Command, app application.Application) (server.Config, error) {
	cfg := server.DefaultConfig()

	cfg.Port = mustGetInt(cmd, "port")
	cfg.Host = mustGetString(cmd, "host")
	cfg.CORSEnabled = mustGetBool(cmd, "cors")
	cfg.CORSOrigins = mustGetStringSlice(cmd, "cors-origins")
	cfg.BodyLimit = mustGetInt64(cmd, "body-limit")
	cfg.ReadTimeout = mustGetDuration(cmd, "read-timeout")
	cfg.WriteTimeout = mustGetDuration(cmd, "write-timeout")
	cfg.IdleTimeout = mustGetDuration(cmd, "idle-timeout")

	if envPort := os.Getenv("PORT"); envPort != "" && !cmd.Flags().Changed("port") {
		p, err := parsePort(envPort)
		if err != nil {
			return cfg, err
		}
		cfg.Port = p
	}
	if envHost := os.Getenv("HTTP_HOST"); envHost != "" && !cmd.Flags().Changed("host") {
		cfg.Host = envHost
	}
	if len(cfg.CORSOrigins) > 0 {
		cfg.CORSEnabled = true
	}

	cfg.FailureRate = app.FailureRate()
	cfg.ImageCacheTTL = app.ImageCacheTTL()
	cfg.Release = strings.EqualFold(app.Environment(), constants.EnvironmentProduction)

	return cfg, nil
}

// parsePort safely parses a port string to integer.
func parsePort(portStr string) (int, error) {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("invalid port number: %s", portStr)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port out of range: %d", port)
	}
	return port, nil
}

// serveWithGracefulShutdown serves on listener until ctx is cancelled,
// then drains in-flight requests.
func serveWithGracefulShutdown(ctx context.Context, httpServer *http.Server, listener net.Listener, srv *server.Server, logger *zerolog.Logger, out io.Writer) error {
	serverErr := make(chan error, 1)

	go func() {
		logger.Info().
			Str("addr", listener.Addr().String()).
			Int("routes", len(srv.Routes())).
			Msg("HTTP server listening")

		fmt.Fprintf(out, "%s apodserver listening on %s\n", emoji.Rocket, listener.Addr())
		fmt.Fprintln(out, "   Press Ctrl+C to stop")

		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received via context")
		fmt.Fprintf(out, "\n%s Shutting down...\n", emoji.Stop)

		// The parent context is already cancelled
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("Server resources shutdown had issues")
		}

		logger.Info().Msg("Server stopped gracefully")
		fmt.Fprintf(out, "%s Server stopped gracefully\n", emoji.Success)
		return nil
	}
}

// mustGetInt retrieves an integer flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetInt(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

func mustGetInt64(cmd *cobra.Command, name string) int64 {
	val, err := cmd.Flags().GetInt64(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

func mustGetStringSlice(cmd *cobra.Command, name string) []string {
	val, err := cmd.Flags().GetStringSlice(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

func mustGetDuration(cmd *cobra.Command, name string) time.Duration {
	val, err := cmd.Flags().GetDuration(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}
