package httpclient

import (
	"context"
)

// HTTPClientInterface defines the interface for HTTP client implementations.
type HTTPClientInterface interface {
	// DoRequest makes an HTTP request with the given options.
	// Returns the fully read reply, or an *HTTPError for a non-2xx status.
	DoRequest(ctx context.Context, opts RequestOptions) (*Response, error)
}

var _ HTTPClientInterface = &HTTPClient{}
