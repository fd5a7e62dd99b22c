package portainer

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// DefaultLogTail is the number of log lines ContainerLogs returns when tail is not
// positive. Asking for zero lines is not possible; tail=0 means the default.
const DefaultLogTail = 100

func dockerPath(endpointID int, format string, args ...any) string {
	return fmt.Sprintf("/api/endpoints/%d/docker", endpointID) + fmt.Sprintf(format, args...)
}

// checkPathID rejects IDs that would not stay a single segment of the Docker proxy
// path once the request path is cleaned.
func checkPathID(kind, id string) error {
	switch {
	case id == "":
		return ErrInvalidArgument.Msg(kind + " ID is empty")
	case id == "." || id == ".." || strings.ContainsAny(id, `/\`):
		return ErrInvalidArgument.Msg(fmt.Sprintf("invalid %s ID %q", kind, id))
	}
	return nil
}

// ListContainers lists the containers of an endpoint. Stopped containers are
// included only when all is true.
func (c *Client) ListContainers(ctx context.Context, endpointID int, all bool) ([]Object, error) {
	var out []Object
	opts := &RequestOptions{Query: map[string]string{"all": strconv.FormatBool(all)}}
	if err := c.requestJSON(ctx, http.MethodGet, dockerPath(endpointID, "/containers/json"), opts, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetContainer returns the inspect document of a container.
func (c *Client) GetContainer(ctx context.Context, endpointID int, containerID string) (Object, error) {
	if err := checkPathID("container", containerID); err != nil {
		return nil, err
	}
	var out Object
	if err := c.requestJSON(ctx, http.MethodGet, dockerPath(endpointID, "/containers/%s/json", containerID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListImages lists the images of an endpoint.
func (c *Client) ListImages(ctx context.Context, endpointID int) ([]Object, error) {
	var out []Object
	if err := c.requestJSON(ctx, http.MethodGet, dockerPath(endpointID, "/images/json"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListVolumes returns the volume list document of an endpoint, an object with
// "Volumes" and "Warnings" keys.
func (c *Client) ListVolumes(ctx context.Context, endpointID int) (Object, error) {
	var out Object
	if err := c.requestJSON(ctx, http.MethodGet, dockerPath(endpointID, "/volumes"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListNetworks lists the networks of an endpoint.
func (c *Client) ListNetworks(ctx context.Context, endpointID int) ([]Object, error) {
	var out []Object
	if err := c.requestJSON(ctx, http.MethodGet, dockerPath(endpointID, "/networks"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ContainerStats returns a single resource usage sample of a container.
func (c *Client) ContainerStats(ctx context.Context, endpointID int, containerID string) (Object, error) {
	if err := checkPathID("container", containerID); err != nil {
		return nil, err
	}
	var out Object
	opts := &RequestOptions{Query: map[string]string{"stream": "false"}}
	if err := c.requestJSON(ctx, http.MethodGet, dockerPath(endpointID, "/containers/%s/stats", containerID), opts, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ContainerLogs returns the last tail lines of a container's combined stdout and
// stderr exactly as the server sent them. For containers without a TTY the text
// carries Docker stream frame headers; see DemuxOutput. A tail that is not
// positive is replaced by DefaultLogTail.
func (c *Client) ContainerLogs(ctx context.Context, endpointID int, containerID string, tail int) (string, error) {
	if err := checkPathID("container", containerID); err != nil {
		return "", err
	}
	if tail <= 0 {
		tail = DefaultLogTail
	}
	opts := &RequestOptions{Query: map[string]string{
		"stdout": "true",
		"stderr": "true",
		"tail":   strconv.Itoa(tail),
	}}
	body, err := c.requestRaw(ctx, http.MethodGet, dockerPath(endpointID, "/containers/%s/logs", containerID), opts)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// StartContainer starts a container.
func (c *Client) StartContainer(ctx context.Context, endpointID int, containerID string) error {
	return c.containerAction(ctx, endpointID, containerID, "start")
}

// StopContainer stops a container.
func (c *Client) StopContainer(ctx context.Context, endpointID int, containerID string) error {
	return c.containerAction(ctx, endpointID, containerID, "stop")
}

// RestartContainer restarts a container.
func (c *Client) RestartContainer(ctx context.Context, endpointID int, containerID string) error {
	return c.containerAction(ctx, endpointID, containerID, "restart")
}

func (c *Client) containerAction(ctx context.Context, endpointID int, containerID, action string) error {
	if err := checkPathID("container", containerID); err != nil {
		return err
	}
	_, err := c.Request(ctx, http.MethodPost, dockerPath(endpointID, "/containers/%s/%s", containerID, action), nil)
	return err
}
