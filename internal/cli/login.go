package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tansive/portainer-mcp/pkg/portainer"
)

// newLoginCmd creates and returns a new login command
func newLoginCmd(opts *globalOptions) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Verify the credentials against the Portainer server",
		Long: `Log in to the Portainer server with the configured credentials and report when the
issued token expires. Every other command logs in on its own; with --save the
resolved URL, username and password are written to the config file.

Example:
  portainerctl login --url https://portainer.example.com:9443 --username admin --password s3cret --save`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolveConfig()
			if err != nil {
				return err
			}
			client, err := portainer.NewClient(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			var expiresAt string
			if exp, err := client.TokenExpiry(); err == nil && !exp.IsZero() {
				expiresAt = exp.Format(time.RFC3339)
			}

			if save {
				path, err := opts.configPath()
				if err != nil {
					return err
				}
				stored := &Config{Version: ConfigVersion, Config: cfg}
				if err := stored.WriteConfig(path); err != nil {
					return fmt.Errorf("failed to save configuration: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return printJSON(out, map[string]any{
					"result":     1,
					"url":        client.URL(),
					"username":   cfg.Username,
					"expires_at": expiresAt,
				})
			}
			okLabel.Fprintln(out, "✓ Login successful")
			fmt.Fprintf(out, "Server: %s\n", client.URL())
			if expiresAt != "" {
				fmt.Fprintf(out, "Token expires at: %s\n", expiresAt)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "Store the connection settings in the config file")
	return cmd
}
