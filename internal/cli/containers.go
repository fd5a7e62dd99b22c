package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tansive/portainer-mcp/pkg/portainer"
)

// streamOutput is the printed form of log and exec output.
type streamOutput struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr,omitempty"`
}

// splitStreams separates a Docker stream into stdout and stderr. When raw is set,
// or the payload is not multiplexed, everything is reported as stdout.
func splitStreams(payload []byte, raw bool) (streamOutput, error) {
	if raw {
		return streamOutput{Stdout: string(payload)}, nil
	}
	stdout, stderr, err := portainer.DemuxOutput(payload)
	if err != nil {
		return streamOutput{}, err
	}
	return streamOutput{Stdout: string(stdout), Stderr: string(stderr)}, nil
}

func (o *globalOptions) printStreams(cmd *cobra.Command, s streamOutput, extra map[string]any) error {
	if o.jsonOutput {
		value := map[string]any{"stdout": s.Stdout, "stderr": s.Stderr}
		for k, v := range extra {
			value[k] = v
		}
		return o.printValue(cmd, value)
	}
	fmt.Fprint(cmd.OutOrStdout(), s.Stdout)
	fmt.Fprint(cmd.ErrOrStderr(), s.Stderr)
	return nil
}

func newLogsCmd(opts *globalOptions) *cobra.Command {
	var (
		endpointID int
		tail       int
		raw        bool
	)
	cmd := &cobra.Command{
		Use:   "logs CONTAINER",
		Short: "Show the last lines of a container's logs",
		Long: `Show the last lines of a container's stdout and stderr. Docker's multiplexed stream is
split into stdout and stderr unless --raw is given.

Examples:
  portainerctl logs web
  portainerctl logs web --tail 20 -e 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.newClient(cmd)
			if err != nil {
				return err
			}
			logs, err := client.ContainerLogs(cmd.Context(), endpointID, args[0], tail)
			if err != nil {
				return err
			}
			s, err := splitStreams([]byte(logs), raw)
			if err != nil {
				return err
			}
			return opts.printStreams(cmd, s, nil)
		},
	}
	addEndpointFlag(cmd, &endpointID)
	cmd.Flags().IntVar(&tail, "tail", portainer.DefaultLogTail, "Number of lines to show from the end of the logs")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the stream as received, without splitting stdout and stderr")
	return cmd
}

func newExecCmd(opts *globalOptions) *cobra.Command {
	var (
		endpointID int
		raw        bool
	)
	cmd := &cobra.Command{
		Use:   "exec CONTAINER -- COMMAND [ARG...]",
		Short: "Run a command in a running container",
		Long: `Run a command in a running container and print its output once it exits.

Examples:
  portainerctl exec web -- ls -l /
  portainerctl exec db -e 2 -- psql -U postgres -c 'select 1'`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.newClient(cmd)
			if err != nil {
				return err
			}
			res, err := client.ExecInContainer(cmd.Context(), endpointID, args[0], args[1:])
			if err != nil {
				return err
			}
			s, err := splitStreams(res.Output, raw)
			if err != nil {
				return err
			}
			return opts.printStreams(cmd, s, map[string]any{"exec_id": res.ID})
		},
	}
	addEndpointFlag(cmd, &endpointID)
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the output as received, without splitting stdout and stderr")
	return cmd
}

type lifecycleFunc func(c *portainer.Client, ctx context.Context, endpointID int, containerID string) error

var pastTense = map[string]string{
	"start":   "started",
	"stop":    "stopped",
	"restart": "restarted",
}

func newLifecycleCmd(opts *globalOptions, action, short string, fn lifecycleFunc) *cobra.Command {
	var endpointID int
	cmd := &cobra.Command{
		Use:   action + " CONTAINER",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.newClient(cmd)
			if err != nil {
				return err
			}
			if err := fn(client, cmd.Context(), endpointID, args[0]); err != nil {
				return err
			}
			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"result":       1,
					"endpoint_id":  endpointID,
					"container_id": args[0],
					"action":       action,
				})
			}
			okLabel.Fprintf(cmd.OutOrStdout(), "✓ Container %s %s\n", args[0], pastTense[action])
			return nil
		},
	}
	addEndpointFlag(cmd, &endpointID)
	return cmd
}
