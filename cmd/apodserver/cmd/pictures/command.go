// Package pictures provides a command that fetches APOD entries directly,
// without starting the server.
package pictures

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/apodserver/cmd/application"
	"github.com/agentstation/apodserver/internal/cmd/output"
	"github.com/agentstation/apodserver/pkg/constants"
	"github.com/agentstation/apodserver/pkg/errors"
)

// NewCommand creates the pictures command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "pictures [count]",
		GroupID: "core",
		Short:   "Fetch random Astronomy Pictures of the Day",
		Long: `Fetch count random entries (default 1, at most 100) from the APOD API
using the configured DEMO_KEY, and print them.`,
		Example: `  apodserver pictures
  apodserver pictures 5 -o wide
  apodserver pictures 3 -o yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 || n > constants.MaxAPODCount {
					return errors.NewValidationError("count", args[0], "count must be an integer between 1 and "+strconv.Itoa(constants.MaxAPODCount))
				}
				count = n
			}

			format, err := output.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}

			client, err := app.APOD()
			if err != nil {
				return err
			}

			pictures, err := client.List(cmd.Context(), count)
			if err != nil {
				return err
			}

			return output.FormatPictures(cmd.OutOrStdout(), pictures, output.DetectFormat(string(format)))
		},
	}
}
