package portainer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tidwall/sjson"
)

// DefaultEndpointID is the environment Portainer creates for its local Docker host.
const DefaultEndpointID = 1

// GetStatus returns the server status (version, instance ID).
func (c *Client) GetStatus(ctx context.Context) (Object, error) {
	var out Object
	if err := c.requestJSON(ctx, http.MethodGet, "/api/status", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEndpoints returns every environment registered in Portainer.
func (c *Client) ListEndpoints(ctx context.Context) ([]Object, error) {
	var out []Object
	if err := c.requestJSON(ctx, http.MethodGet, "/api/endpoints", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetEndpoint returns one environment.
func (c *Client) GetEndpoint(ctx context.Context, endpointID int) (Object, error) {
	var out Object
	if err := c.requestJSON(ctx, http.MethodGet, fmt.Sprintf("/api/endpoints/%d", endpointID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListStacks returns all stacks, or only those of endpointID when it is non-zero.
func (c *Client) ListStacks(ctx context.Context, endpointID int) ([]Object, error) {
	var opts *RequestOptions
	if endpointID != 0 {
		filters, err := sjson.Set("", "EndpointID", endpointID)
		if err != nil {
			return nil, ErrRequestFailed.MsgErr("unable to build stack filter", err)
		}
		opts = &RequestOptions{Query: map[string]string{"filters": filters}}
	}

	var out []Object
	if err := c.requestJSON(ctx, http.MethodGet, "/api/stacks", opts, &out); err != nil {
		return nil, err
	}
	return out, nil
}
