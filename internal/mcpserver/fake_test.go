package mcpserver

import (
	"context"
	"fmt"
	"sync"

	"github.com/tansive/portainer-mcp/pkg/portainer"
)

// fakePortainer records the calls it receives and fails every call when err is set.
type fakePortainer struct {
	mu    sync.Mutex
	calls []string
	err   error

	logs       string
	execResult *portainer.ExecResult
}

func (f *fakePortainer) record(format string, args ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	return f.err
}

func (f *fakePortainer) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakePortainer) GetStatus(ctx context.Context) (portainer.Object, error) {
	if err := f.record("GetStatus"); err != nil {
		return nil, err
	}
	return portainer.Object{"Version": "2.19.4"}, nil
}

func (f *fakePortainer) ListEndpoints(ctx context.Context) ([]portainer.Object, error) {
	if err := f.record("ListEndpoints"); err != nil {
		return nil, err
	}
	return []portainer.Object{{"Id": 1, "Name": "local"}}, nil
}

func (f *fakePortainer) GetEndpoint(ctx context.Context, endpointID int) (portainer.Object, error) {
	if err := f.record("GetEndpoint %d", endpointID); err != nil {
		return nil, err
	}
	return portainer.Object{"Id": endpointID}, nil
}

func (f *fakePortainer) ListStacks(ctx context.Context, endpointID int) ([]portainer.Object, error) {
	if err := f.record("ListStacks %d", endpointID); err != nil {
		return nil, err
	}
	return []portainer.Object{{"Name": "web"}}, nil
}

func (f *fakePortainer) ListContainers(ctx context.Context, endpointID int, all bool) ([]portainer.Object, error) {
	if err := f.record("ListContainers %d %t", endpointID, all); err != nil {
		return nil, err
	}
	return []portainer.Object{{"Id": "abc", "Names": []string{"/web"}}}, nil
}

func (f *fakePortainer) GetContainer(ctx context.Context, endpointID int, containerID string) (portainer.Object, error) {
	if err := f.record("GetContainer %d %s", endpointID, containerID); err != nil {
		return nil, err
	}
	return portainer.Object{"Id": containerID}, nil
}

func (f *fakePortainer) ListImages(ctx context.Context, endpointID int) ([]portainer.Object, error) {
	if err := f.record("ListImages %d", endpointID); err != nil {
		return nil, err
	}
	return []portainer.Object{}, nil
}

func (f *fakePortainer) ListVolumes(ctx context.Context, endpointID int) (portainer.Object, error) {
	if err := f.record("ListVolumes %d", endpointID); err != nil {
		return nil, err
	}
	return portainer.Object{"Volumes": []any{}}, nil
}

func (f *fakePortainer) ListNetworks(ctx context.Context, endpointID int) ([]portainer.Object, error) {
	if err := f.record("ListNetworks %d", endpointID); err != nil {
		return nil, err
	}
	return []portainer.Object{}, nil
}

func (f *fakePortainer) ContainerStats(ctx context.Context, endpointID int, containerID string) (portainer.Object, error) {
	if err := f.record("ContainerStats %d %s", endpointID, containerID); err != nil {
		return nil, err
	}
	return portainer.Object{"read": "now"}, nil
}

func (f *fakePortainer) ContainerLogs(ctx context.Context, endpointID int, containerID string, tail int) (string, error) {
	if err := f.record("ContainerLogs %d %s %d", endpointID, containerID, tail); err != nil {
		return "", err
	}
	return f.logs, nil
}

func (f *fakePortainer) StartContainer(ctx context.Context, endpointID int, containerID string) error {
	return f.record("StartContainer %d %s", endpointID, containerID)
}

func (f *fakePortainer) StopContainer(ctx context.Context, endpointID int, containerID string) error {
	return f.record("StopContainer %d %s", endpointID, containerID)
}

func (f *fakePortainer) RestartContainer(ctx context.Context, endpointID int, containerID string) error {
	return f.record("RestartContainer %d %s", endpointID, containerID)
}

func (f *fakePortainer) ExecInContainer(ctx context.Context, endpointID int, containerID string, cmd []string) (*portainer.ExecResult, error) {
	if err := f.record("ExecInContainer %d %s %v", endpointID, containerID, cmd); err != nil {
		return nil, err
	}
	return f.execResult, nil
}
