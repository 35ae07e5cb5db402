// Package routes provides the command that prints the server's route table.
package routes

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/apodserver/cmd/application"
	"github.com/agentstation/apodserver/internal/cmd/output"
	"github.com/agentstation/apodserver/internal/server"
)

// NewCommand creates the routes command. It mounts the same modules as
// serve, so a configuration error that would stop the server fails here
// too.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "routes",
		GroupID: "core",
		Short:   "List the registered HTTP routes",
		Example: `  apodserver routes
  apodserver routes -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := output.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}

			srv, err := server.New(app, server.DefaultConfig())
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}

			return output.FormatRoutes(cmd.OutOrStdout(), srv.Routes(), output.DetectFormat(string(format)))
		},
	}
}
