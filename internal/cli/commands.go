package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/tansive/portainer-mcp/pkg/portainer"
)

// globalOptions holds the values of the persistent flags.
type globalOptions struct {
	jsonOutput bool
	configFile string
	url        string
	username   string
	password   string
	insecure   bool
}

var okLabel = color.New(color.FgGreen)
var errorLabel = color.New(color.FgRed)
var warnLabel = color.New(color.FgYellow)

// newRootCmd builds the portainerctl command tree.
func newRootCmd() (*cobra.Command, *globalOptions) {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "portainerctl [command] [flags]",
		Short: "portainerctl - A command line interface for Portainer",
		Long: `portainerctl is a command line interface for a Portainer server.
It logs in with a username and password and reads or operates on the Docker
environments (endpoints) that Portainer manages.

Connection settings come from the config file, then the PORTAINER_URL,
PORTAINER_USERNAME and PORTAINER_PASSWORD variables (a .env file in the current
directory is honored), then the --url, --username and --password flags.

Examples:
  # Store the server address
  portainerctl config set --url https://portainer.example.com:9443 --username admin

  # List the containers of endpoint 2
  portainerctl containers -e 2

  # Show the last 20 log lines of a container
  portainerctl logs web --tail 20

  # Run a command in a container
  portainerctl exec web -- ls -l /`,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.configFile, "config", "", "", "Path to configuration file to override default")
	pf.BoolVarP(&opts.jsonOutput, "json", "j", false, "Output in JSON format")
	pf.StringVar(&opts.url, "url", "", "Portainer server URL")
	pf.StringVar(&opts.username, "username", "", "Portainer username")
	pf.StringVar(&opts.password, "password", "", "Portainer password")
	pf.BoolVar(&opts.insecure, "insecure", false, "Skip TLS certificate verification")

	rootCmd.AddCommand(
		newVersionCmd(opts),
		newConfigCmd(opts),
		newLoginCmd(opts),
		newStatusCmd(opts),
		newEndpointsCmd(opts),
		newStacksCmd(opts),
		newContainersCmd(opts),
		newContainerCmd(opts),
		newImagesCmd(opts),
		newVolumesCmd(opts),
		newNetworksCmd(opts),
		newStatsCmd(opts),
		newLogsCmd(opts),
		newLifecycleCmd(opts, "start", "Start a container", (*portainer.Client).StartContainer),
		newLifecycleCmd(opts, "stop", "Stop a container", (*portainer.Client).StopContainer),
		newLifecycleCmd(opts, "restart", "Restart a container", (*portainer.Client).RestartContainer),
		newExecCmd(opts),
	)
	return rootCmd, opts
}

// Execute runs the command line and exits with status 1 on failure.
// This is called by main.main().
func Execute() {
	rootCmd, opts := newRootCmd()
	rootCmd.SilenceErrors = true // Prevent Cobra from printing the error
	rootCmd.SilenceUsage = true  // Prevent Cobra from printing usage on error

	err := rootCmd.Execute()
	if err != nil {
		if opts.jsonOutput {
			printJSON(os.Stdout, map[string]string{
				"error": err.Error(),
			})
		} else {
			errorLabel.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// newClient resolves the connection settings and logs in.
func (o *globalOptions) newClient(cmd *cobra.Command) (*portainer.Client, error) {
	cfg, err := o.resolveConfig()
	if err != nil {
		return nil, err
	}
	return portainer.NewClient(cmd.Context(), cfg)
}

// newVersionCmd creates and returns a new version command
func newVersionCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of portainerctl",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := opts.configPath()
			if err != nil {
				configPath = "unknown"
			}

			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"version":     getCLIVersion(),
					"config_file": configPath,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "portainerctl %s\n", getCLIVersion())
			fmt.Fprintf(out, "Config file: %s\n", configPath)
			return nil
		},
	}
}

// printValue prints v as YAML, or wrapped in a result envelope with --json.
func (o *globalOptions) printValue(cmd *cobra.Command, v any) error {
	out := cmd.OutOrStdout()
	if o.jsonOutput {
		return printJSON(out, map[string]any{
			"result": 1,
			"value":  v,
		})
	}
	return printYAML(out, v)
}

// printJSON writes data as indented JSON
func printJSON(w io.Writer, data any) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format JSON output: %w", err)
	}
	fmt.Fprintln(w, string(jsonData))
	return nil
}

func printYAML(w io.Writer, data any) error {
	yamlData, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to format YAML output: %w", err)
	}
	fmt.Fprint(w, string(yamlData))
	return nil
}

// getCLIVersion returns the current CLI version
func getCLIVersion() string {
	return "v1.0.0"
}
