package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	jsonitor "github.com/json-iterator/go"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/tansive/portainer-mcp/pkg/portainer"
)

var json = jsonitor.ConfigCompatibleWithStandardLibrary

// PortainerAPI is the part of *portainer.Client the tools call.
type PortainerAPI interface {
	GetStatus(ctx context.Context) (portainer.Object, error)
	ListEndpoints(ctx context.Context) ([]portainer.Object, error)
	GetEndpoint(ctx context.Context, endpointID int) (portainer.Object, error)
	ListStacks(ctx context.Context, endpointID int) ([]portainer.Object, error)
	ListContainers(ctx context.Context, endpointID int, all bool) ([]portainer.Object, error)
	GetContainer(ctx context.Context, endpointID int, containerID string) (portainer.Object, error)
	ListImages(ctx context.Context, endpointID int) ([]portainer.Object, error)
	ListVolumes(ctx context.Context, endpointID int) (portainer.Object, error)
	ListNetworks(ctx context.Context, endpointID int) ([]portainer.Object, error)
	ContainerStats(ctx context.Context, endpointID int, containerID string) (portainer.Object, error)
	ContainerLogs(ctx context.Context, endpointID int, containerID string, tail int) (string, error)
	StartContainer(ctx context.Context, endpointID int, containerID string) error
	StopContainer(ctx context.Context, endpointID int, containerID string) error
	RestartContainer(ctx context.Context, endpointID int, containerID string) error
	ExecInContainer(ctx context.Context, endpointID int, containerID string, cmd []string) (*portainer.ExecResult, error)
}

var _ PortainerAPI = (*portainer.Client)(nil)

type toolHandler func(ctx context.Context, args map[string]any) (string, error)

type toolDef struct {
	tool    mcp.Tool
	handler toolHandler
}

type endpointArgs struct {
	EndpointID int `json:"endpoint_id"`
}

type stackArgs struct {
	EndpointID int `json:"endpoint_id"`
}

type listContainersArgs struct {
	EndpointID int   `json:"endpoint_id"`
	All        *bool `json:"all"`
}

type containerArgs struct {
	EndpointID  int    `json:"endpoint_id"`
	ContainerID string `json:"container_id" validate:"required"`
}

type logsArgs struct {
	EndpointID  int    `json:"endpoint_id"`
	ContainerID string `json:"container_id" validate:"required"`
	Tail        int    `json:"tail"`
}

type execArgs struct {
	EndpointID  int      `json:"endpoint_id"`
	ContainerID string   `json:"container_id" validate:"required"`
	Command     []string `json:"command" validate:"required,min=1,dive,required"`
}

type lifecycleResult struct {
	EndpointID  int    `json:"endpoint_id"`
	ContainerID string `json:"container_id"`
	Action      string `json:"action"`
	Success     bool   `json:"success"`
}

type execResult struct {
	ExecID string `json:"exec_id"`
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

var validate = newArgsValidator()

func newArgsValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

func endpointOrDefault(id int) int {
	if id <= 0 {
		return portainer.DefaultEndpointID
	}
	return id
}

func decodeArgs(args map[string]any, out any) error {
	if err := portainer.DecodeInto(args, out); err != nil {
		return ErrInvalidArguments.MsgErr("invalid tool arguments: "+err.Error(), err)
	}
	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return ErrInvalidArguments.Err(err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			switch fe.Tag() {
			case "required":
				msgs = append(msgs, fe.Field()+" is required")
			case "min":
				msgs = append(msgs, fe.Field()+" must not be empty")
			default:
				msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
			}
		}
		return ErrInvalidArguments.MsgErr("invalid tool arguments: "+strings.Join(msgs, "; "), err)
	}
	return nil
}

func toJSONText(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", ErrMCPServer.MsgErr("unable to encode tool result", err)
	}
	return string(b), nil
}

func endpointParam() mcp.ToolOption {
	return mcp.WithNumber("endpoint_id",
		mcp.Description("Portainer endpoint (environment) ID"),
		mcp.DefaultNumber(portainer.DefaultEndpointID),
	)
}

func containerParam() mcp.ToolOption {
	return mcp.WithString("container_id",
		mcp.Required(),
		mcp.Description("Container ID or name"),
	)
}

// toolDefs lists every tool in the order it is registered.
func (s *MCPToolServer) toolDefs() []toolDef {
	return []toolDef{
		{
			tool: mcp.NewTool("get_status",
				mcp.WithDescription("Get the Portainer server status, including its version"),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			handler: s.getStatus,
		},
		{
			tool: mcp.NewTool("list_endpoints",
				mcp.WithDescription("List the Docker and Kubernetes environments managed by Portainer"),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			handler: s.listEndpoints,
		},
		{
			tool: mcp.NewTool("get_endpoint",
				mcp.WithDescription("Get one Portainer environment"),
				endpointParam(),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			handler: s.getEndpoint,
		},
		{
			tool: mcp.NewTool("list_containers",
				mcp.WithDescription("List the containers of an environment"),
				endpointParam(),
				mcp.WithBoolean("all",
					mcp.Description("Include stopped containers"),
					mcp.DefaultBool(true),
				),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			handler: s.listContainers,
		},
		{
			tool: mcp.NewTool("get_container",
				mcp.WithDescription("Get the inspect document of a container"),
				endpointParam(),
				containerParam(),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			handler: s.getContainer,
		},
		{
			tool: mcp.NewTool("list_stacks",
				mcp.WithDescription("List stacks, optionally only those of one environment"),
				mcp.WithNumber("endpoint_id",
					mcp.Description("Only list stacks of this environment; omit for all stacks"),
				),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			handler: s.listStacks,
		},
		{
			tool: mcp.NewTool("list_images",
				mcp.WithDescription("List the images of an environment"),
				endpointParam(),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			handler: s.listImages,
		},
		{
			tool: mcp.NewTool("list_volumes",
				mcp.WithDescription("List the volumes of an environment"),
				endpointParam(),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			handler: s.listVolumes,
		},
		{
			tool: mcp.NewTool("list_networks",
				mcp.WithDescription("List the networks of an environment"),
				endpointParam(),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			handler: s.listNetworks,
		},
		{
			tool: mcp.NewTool("container_stats",
				mcp.WithDescription("Get one resource usage sample of a container"),
				endpointParam(),
				containerParam(),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			handler: s.containerStats,
		},
		{
			tool: mcp.NewTool("container_logs",
				mcp.WithDescription("Get the last lines of a container's stdout and stderr"),
				endpointParam(),
				containerParam(),
				mcp.WithNumber("tail",
					mcp.Description("Number of lines to return"),
					mcp.DefaultNumber(portainer.DefaultLogTail),
				),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			handler: s.containerLogs,
		},
		{
			tool: mcp.NewTool("start_container",
				mcp.WithDescription("Start a container"),
				endpointParam(),
				containerParam(),
				mcp.WithDestructiveHintAnnotation(false),
			),
			handler: s.lifecycle("start", s.client.StartContainer),
		},
		{
			tool: mcp.NewTool("stop_container",
				mcp.WithDescription("Stop a container"),
				endpointParam(),
				containerParam(),
				mcp.WithDestructiveHintAnnotation(true),
			),
			handler: s.lifecycle("stop", s.client.StopContainer),
		},
		{
			tool: mcp.NewTool("restart_container",
				mcp.WithDescription("Restart a container"),
				endpointParam(),
				containerParam(),
				mcp.WithDestructiveHintAnnotation(true),
			),
			handler: s.lifecycle("restart", s.client.RestartContainer),
		},
		{
			tool: mcp.NewTool("exec_in_container",
				mcp.WithDescription("Run a command in a running container and return its output"),
				endpointParam(),
				containerParam(),
				mcp.WithArray("command",
					mcp.Required(),
					mcp.Description("Command and arguments, for example [\"ls\", \"-l\", \"/\"]"),
					mcp.Items(map[string]any{"type": "string"}),
				),
				mcp.WithDestructiveHintAnnotation(true),
			),
			handler: s.execInContainer,
		},
	}
}

// wrap turns a tool handler into an MCP handler that records the call in the
// activity log and reports failures as tool errors.
func (s *MCPToolServer) wrap(name string, h toolHandler) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return s.invoke(ctx, name, h, req.GetArguments()), nil
	}
}

func (s *MCPToolServer) invoke(ctx context.Context, name string, h toolHandler, args map[string]any) *mcp.CallToolResult {
	start := time.Now()
	text, err := h(ctx, args)
	a := Activity{
		Tool:       name,
		Status:     ActivitySuccess,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		a.Status = ActivityError
		a.Error = err.Error()
	}
	s.activity.Record(a)

	log.Ctx(ctx).Info().
		Str("tool", name).
		Str("status", a.Status).
		Int64("duration_ms", a.DurationMs).
		Msg("tool call")

	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(text)
}

// CallTool runs a registered tool directly, bypassing the MCP transport.
func (s *MCPToolServer) CallTool(ctx context.Context, name string, args map[string]any) *mcp.CallToolResult {
	h, ok := s.handlers[name]
	if !ok {
		h = func(context.Context, map[string]any) (string, error) {
			return "", ErrInvalidArguments.Msg("unknown tool: " + name)
		}
	}
	return s.invoke(ctx, name, h, args)
}

func (s *MCPToolServer) getStatus(ctx context.Context, _ map[string]any) (string, error) {
	status, err := s.client.GetStatus(ctx)
	if err != nil {
		return "", err
	}
	return toJSONText(status)
}

func (s *MCPToolServer) listEndpoints(ctx context.Context, _ map[string]any) (string, error) {
	endpoints, err := s.client.ListEndpoints(ctx)
	if err != nil {
		return "", err
	}
	return toJSONText(endpoints)
}

func (s *MCPToolServer) getEndpoint(ctx context.Context, args map[string]any) (string, error) {
	var a endpointArgs
	if err := decodeArgs(args, &a); err != nil {
		return "", err
	}
	endpoint, err := s.client.GetEndpoint(ctx, endpointOrDefault(a.EndpointID))
	if err != nil {
		return "", err
	}
	return toJSONText(endpoint)
}

func (s *MCPToolServer) listContainers(ctx context.Context, args map[string]any) (string, error) {
	var a listContainersArgs
	if err := decodeArgs(args, &a); err != nil {
		return "", err
	}
	all := true
	if a.All != nil {
		all = *a.All
	}
	containers, err := s.client.ListContainers(ctx, endpointOrDefault(a.EndpointID), all)
	if err != nil {
		return "", err
	}
	return toJSONText(containers)
}

func (s *MCPToolServer) getContainer(ctx context.Context, args map[string]any) (string, error) {
	var a containerArgs
	if err := decodeArgs(args, &a); err != nil {
		return "", err
	}
	ctr, err := s.client.GetContainer(ctx, endpointOrDefault(a.EndpointID), a.ContainerID)
	if err != nil {
		return "", err
	}
	return toJSONText(ctr)
}

func (s *MCPToolServer) listStacks(ctx context.Context, args map[string]any) (string, error) {
	var a stackArgs
	if err := decodeArgs(args, &a); err != nil {
		return "", err
	}
	stacks, err := s.client.ListStacks(ctx, a.EndpointID)
	if err != nil {
		return "", err
	}
	return toJSONText(stacks)
}

func (s *MCPToolServer) listImages(ctx context.Context, args map[string]any) (string, error) {
	var a endpointArgs
	if err := decodeArgs(args, &a); err != nil {
		return "", err
	}
	images, err := s.client.ListImages(ctx, endpointOrDefault(a.EndpointID))
	if err != nil {
		return "", err
	}
	return toJSONText(images)
}

func (s *MCPToolServer) listVolumes(ctx context.Context, args map[string]any) (string, error) {
	var a endpointArgs
	if err := decodeArgs(args, &a); err != nil {
		return "", err
	}
	volumes, err := s.client.ListVolumes(ctx, endpointOrDefault(a.EndpointID))
	if err != nil {
		return "", err
	}
	return toJSONText(volumes)
}

func (s *MCPToolServer) listNetworks(ctx context.Context, args map[string]any) (string, error) {
	var a endpointArgs
	if err := decodeArgs(args, &a); err != nil {
		return "", err
	}
	networks, err := s.client.ListNetworks(ctx, endpointOrDefault(a.EndpointID))
	if err != nil {
		return "", err
	}
	return toJSONText(networks)
}

func (s *MCPToolServer) containerStats(ctx context.Context, args map[string]any) (string, error) {
	var a containerArgs
	if err := decodeArgs(args, &a); err != nil {
		return "", err
	}
	stats, err := s.client.ContainerStats(ctx, endpointOrDefault(a.EndpointID), a.ContainerID)
	if err != nil {
		return "", err
	}
	return toJSONText(stats)
}

func (s *MCPToolServer) containerLogs(ctx context.Context, args map[string]any) (string, error) {
	var a logsArgs
	if err := decodeArgs(args, &a); err != nil {
		return "", err
	}
	if a.Tail <= 0 {
		a.Tail = portainer.DefaultLogTail
	}
	logs, err := s.client.ContainerLogs(ctx, endpointOrDefault(a.EndpointID), a.ContainerID, a.Tail)
	if err != nil {
		return "", err
	}
	merged, err := portainer.MergeOutput([]byte(logs))
	if err != nil {
		return logs, nil
	}
	return string(merged), nil
}

func (s *MCPToolServer) lifecycle(action string, fn func(context.Context, int, string) error) toolHandler {
	return func(ctx context.Context, args map[string]any) (string, error) {
		var a containerArgs
		if err := decodeArgs(args, &a); err != nil {
			return "", err
		}
		endpointID := endpointOrDefault(a.EndpointID)
		if err := fn(ctx, endpointID, a.ContainerID); err != nil {
			return "", err
		}
		return toJSONText(lifecycleResult{
			EndpointID:  endpointID,
			ContainerID: a.ContainerID,
			Action:      action,
			Success:     true,
		})
	}
}

func (s *MCPToolServer) execInContainer(ctx context.Context, args map[string]any) (string, error) {
	var a execArgs
	if err := decodeArgs(args, &a); err != nil {
		return "", err
	}
	res, err := s.client.ExecInContainer(ctx, endpointOrDefault(a.EndpointID), a.ContainerID, a.Command)
	if err != nil {
		return "", err
	}
	stdout, stderr, err := res.Demux()
	if err != nil {
		stdout, stderr = res.Output, nil
	}
	return toJSONText(execResult{
		ExecID: res.ID,
		Stdout: string(stdout),
		Stderr: string(stderr),
	})
}
