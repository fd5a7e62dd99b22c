package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tansive/portainer-mcp/pkg/portainer"
)

// addEndpointFlag registers -e/--endpoint on an endpoint-scoped command.
func addEndpointFlag(cmd *cobra.Command, endpointID *int) {
	cmd.Flags().IntVarP(endpointID, "endpoint", "e", portainer.DefaultEndpointID, "Portainer endpoint (environment) ID")
}

func newEndpointsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "endpoints [ID]",
		Short: "List endpoints or show one endpoint",
		Long: `List the endpoints (environments) managed by Portainer, or show the full descriptor
of a single endpoint when an ID is given.

Examples:
  portainerctl endpoints
  portainerctl endpoints 2`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				id, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid endpoint ID %q", args[0])
				}
				client, err := opts.newClient(cmd)
				if err != nil {
					return err
				}
				endpoint, err := client.GetEndpoint(cmd.Context(), id)
				if err != nil {
					return err
				}
				return opts.printValue(cmd, endpoint)
			}

			client, err := opts.newClient(cmd)
			if err != nil {
				return err
			}
			endpoints, err := client.ListEndpoints(cmd.Context())
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return opts.printValue(cmd, endpoints)
			}
			return renderEndpoints(cmd.OutOrStdout(), endpoints)
		},
	}
}

func newStacksCmd(opts *globalOptions) *cobra.Command {
	var endpointID int
	cmd := &cobra.Command{
		Use:   "stacks",
		Short: "List stacks",
		Long: `List the stacks deployed through Portainer. Without --endpoint every stack is listed.

Examples:
  portainerctl stacks
  portainerctl stacks -e 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.newClient(cmd)
			if err != nil {
				return err
			}
			stacks, err := client.ListStacks(cmd.Context(), endpointID)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return opts.printValue(cmd, stacks)
			}
			return renderStacks(cmd.OutOrStdout(), stacks)
		},
	}
	cmd.Flags().IntVarP(&endpointID, "endpoint", "e", 0, "Only list stacks of this endpoint (environment) ID")
	return cmd
}

func newContainersCmd(opts *globalOptions) *cobra.Command {
	var (
		endpointID int
		all        bool
	)
	cmd := &cobra.Command{
		Use:   "containers",
		Short: "List containers of an endpoint",
		Long: `List the containers of an endpoint. Stopped containers are included unless --all=false.

Examples:
  portainerctl containers
  portainerctl containers -e 2 --all=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.newClient(cmd)
			if err != nil {
				return err
			}
			containers, err := client.ListContainers(cmd.Context(), endpointID, all)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return opts.printValue(cmd, containers)
			}
			return renderContainers(cmd.OutOrStdout(), containers)
		},
	}
	addEndpointFlag(cmd, &endpointID)
	cmd.Flags().BoolVar(&all, "all", true, "Include stopped containers")
	return cmd
}

// newInspectCmd builds a command that prints the descriptor returned for one container.
func newInspectCmd(opts *globalOptions, use, short string, fetch func(*portainer.Client, *cobra.Command, int, string) (portainer.Object, error)) *cobra.Command {
	var endpointID int
	cmd := &cobra.Command{
		Use:   use + " CONTAINER",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.newClient(cmd)
			if err != nil {
				return err
			}
			v, err := fetch(client, cmd, endpointID, args[0])
			if err != nil {
				return err
			}
			return opts.printValue(cmd, v)
		},
	}
	addEndpointFlag(cmd, &endpointID)
	return cmd
}

func newContainerCmd(opts *globalOptions) *cobra.Command {
	return newInspectCmd(opts, "container", "Show the full descriptor of a container",
		func(c *portainer.Client, cmd *cobra.Command, endpointID int, containerID string) (portainer.Object, error) {
			return c.GetContainer(cmd.Context(), endpointID, containerID)
		})
}

func newStatsCmd(opts *globalOptions) *cobra.Command {
	return newInspectCmd(opts, "stats", "Show a one-shot resource usage sample of a container",
		func(c *portainer.Client, cmd *cobra.Command, endpointID int, containerID string) (portainer.Object, error) {
			return c.ContainerStats(cmd.Context(), endpointID, containerID)
		})
}

// newEndpointListCmd builds a command that prints an endpoint-scoped list.
func newEndpointListCmd(opts *globalOptions, use, short string, fetch func(*portainer.Client, *cobra.Command, int) (any, error)) *cobra.Command {
	var endpointID int
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.newClient(cmd)
			if err != nil {
				return err
			}
			v, err := fetch(client, cmd, endpointID)
			if err != nil {
				return err
			}
			return opts.printValue(cmd, v)
		},
	}
	addEndpointFlag(cmd, &endpointID)
	return cmd
}

func newImagesCmd(opts *globalOptions) *cobra.Command {
	return newEndpointListCmd(opts, "images", "List images of an endpoint",
		func(c *portainer.Client, cmd *cobra.Command, endpointID int) (any, error) {
			return c.ListImages(cmd.Context(), endpointID)
		})
}

func newVolumesCmd(opts *globalOptions) *cobra.Command {
	return newEndpointListCmd(opts, "volumes", "List volumes of an endpoint",
		func(c *portainer.Client, cmd *cobra.Command, endpointID int) (any, error) {
			return c.ListVolumes(cmd.Context(), endpointID)
		})
}

func newNetworksCmd(opts *globalOptions) *cobra.Command {
	return newEndpointListCmd(opts, "networks", "List networks of an endpoint",
		func(c *portainer.Client, cmd *cobra.Command, endpointID int) (any, error) {
			return c.ListNetworks(cmd.Context(), endpointID)
		})
}
