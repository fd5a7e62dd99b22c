package portainer

import (
	"bytes"
	"context"
	"net/http"

	"github.com/docker/docker/pkg/stdcopy"
)

type execConfig struct {
	AttachStdout bool
	AttachStderr bool
	Cmd          []string
}

type execStartConfig struct {
	Detach bool
}

type execCreateResponse struct {
	ID string `json:"Id"`
}

// ExecResult is the outcome of ExecInContainer.
type ExecResult struct {
	// ID of the exec instance that ran the command.
	ID string
	// Output is the exec start reply body, undecoded.
	Output []byte
}

// Demux splits Output into stdout and stderr. See DemuxOutput.
func (r *ExecResult) Demux() (stdout, stderr []byte, err error) {
	return DemuxOutput(r.Output)
}

// ExecInContainer creates an exec instance for cmd in a container with stdout and
// stderr attached, then starts it attached and returns the reply of the start call.
func (c *Client) ExecInContainer(ctx context.Context, endpointID int, containerID string, cmd []string) (*ExecResult, error) {
	if err := checkPathID("container", containerID); err != nil {
		return nil, err
	}
	var created execCreateResponse
	err := c.requestJSON(ctx, http.MethodPost, dockerPath(endpointID, "/containers/%s/exec", containerID), &RequestOptions{
		Body: execConfig{
			AttachStdout: true,
			AttachStderr: true,
			Cmd:          cmd,
		},
	}, &created)
	if err != nil {
		return nil, err
	}
	if created.ID == "" {
		return nil, ErrDecode.Msg("exec create reply for container " + containerID + " carried no Id")
	}
	if err := checkPathID("exec", created.ID); err != nil {
		return nil, ErrDecode.MsgErr("exec create reply for container "+containerID, err)
	}

	output, err := c.requestRaw(ctx, http.MethodPost, dockerPath(endpointID, "/exec/%s/start", created.ID), &RequestOptions{
		Body: execStartConfig{Detach: false},
	})
	if err != nil {
		return nil, err
	}
	return &ExecResult{
		ID:     created.ID,
		Output: output,
	}, nil
}

// DemuxOutput splits a Docker multiplexed stream (8-byte frame headers tagging each
// chunk as stdout or stderr) into its two streams. Output that does not start with a
// frame header, as produced for TTY containers, is returned unchanged as stdout.
func DemuxOutput(raw []byte) (stdout, stderr []byte, err error) {
	if !isMultiplexed(raw) {
		return raw, nil, nil
	}
	var outBuf, errBuf bytes.Buffer
	if _, err := stdcopy.StdCopy(&outBuf, &errBuf, bytes.NewReader(raw)); err != nil {
		return outBuf.Bytes(), errBuf.Bytes(), ErrDecode.MsgErr("malformed multiplexed stream", err)
	}
	return outBuf.Bytes(), errBuf.Bytes(), nil
}

// MergeOutput strips the frame headers of a Docker multiplexed stream and keeps the
// stdout and stderr chunks in the order they were sent. Output that is not
// multiplexed is returned unchanged.
func MergeOutput(raw []byte) ([]byte, error) {
	if !isMultiplexed(raw) {
		return raw, nil
	}
	var buf bytes.Buffer
	if _, err := stdcopy.StdCopy(&buf, &buf, bytes.NewReader(raw)); err != nil {
		return buf.Bytes(), ErrDecode.MsgErr("malformed multiplexed stream", err)
	}
	return buf.Bytes(), nil
}

func isMultiplexed(raw []byte) bool {
	if len(raw) < 8 {
		return false
	}
	switch stdcopy.StdType(raw[0]) {
	case stdcopy.Stdin, stdcopy.Stdout, stdcopy.Stderr, stdcopy.Systemerr:
	default:
		return false
	}
	return raw[1] == 0 && raw[2] == 0 && raw[3] == 0
}
