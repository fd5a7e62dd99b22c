package cli

import (
	"github.com/spf13/cobra"

	"github.com/tansive/portainer-mcp/pkg/portainer"
)

// newStatusCmd creates the status command. An outdated server is reported as a
// warning on stderr; the status is still printed.
func newStatusCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get Portainer server status",
		Long: `Get the status of the Portainer server, including its version and instance ID.

Examples:
  # Get server status
  portainerctl status

  # Get server status in JSON format
  portainerctl status -j`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.newClient(cmd)
			if err != nil {
				return err
			}
			status, err := client.GetStatus(cmd.Context())
			if err != nil {
				return err
			}

			if err := portainer.CheckServerVersion(status); err != nil {
				warnLabel.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
			}
			return opts.printValue(cmd, status)
		},
	}
}
