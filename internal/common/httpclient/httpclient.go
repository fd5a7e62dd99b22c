// Package httpclient provides the HTTP transport used to talk to the Portainer REST API.
// It builds request URLs from a base server URL, attaches bearer authentication and turns
// non-2xx replies into *HTTPError values. The package requires a Configurator
// implementation for the server URL and the current token.
package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/rs/zerolog/log"
)

// Configurator defines the interface for providing the server location and credentials.
type Configurator interface {
	GetServerURL() string
	GetToken() string
}

// ServerError is the error body Portainer and the proxied Docker API reply with.
type ServerError struct {
	Message string `json:"message"`
	Details string `json:"details"`
}

// HTTPError represents a non-2xx reply from the server.
type HTTPError struct {
	Method     string // HTTP method of the failed request
	Path       string // request path relative to the server URL
	StatusCode int    // HTTP status code of the reply
	Message    string // server supplied message, or the raw body
	Body       []byte // raw reply body
}

// Error implements the error interface for HTTPError.
func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// HTTPClient makes requests against a REST API server.
type HTTPClient struct {
	config     Configurator
	httpClient *http.Client
}

// ClientOptions contains options for configuring the HTTP client.
type ClientOptions struct {
	DisableCertValidation bool         // If true, skips TLS certificate validation
	HTTPClient            *http.Client // Optional client to use instead of a new one
}

// NewClient creates a new HTTP client using the provided configuration.
func NewClient(config Configurator, opts ...ClientOptions) *HTTPClient {
	clientOpts := ClientOptions{}
	if len(opts) > 0 {
		clientOpts = opts[0]
	}
	return NewClientWithOptions(config, clientOpts)
}

// NewClientWithOptions creates a new HTTP client using the provided configuration and options.
func NewClientWithOptions(config Configurator, opts ClientOptions) *HTTPClient {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
		if opts.DisableCertValidation {
			httpClient.Transport = &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: true,
				},
			}
		}
	}

	return &HTTPClient{
		config:     config,
		httpClient: httpClient,
	}
}

// RequestOptions contains options for making HTTP requests.
// Method and Path are required.
type RequestOptions struct {
	Method      string            // HTTP method (GET, POST, PUT, DELETE)
	Path        string            // API path, joined to the server URL
	QueryParams map[string]string // Optional query parameters
	Headers     map[string]string // Optional extra headers
	Body        []byte            // Optional JSON request body
}

// Response is a fully read 2xx reply.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// DoRequest makes an HTTP request with the given options and reads the whole reply.
// Caller headers are applied first; the bearer token, when present, always overrides
// any caller supplied Authorization header.
func (c *HTTPClient) DoRequest(ctx context.Context, opts RequestOptions) (*Response, error) {
	u, err := url.Parse(c.config.GetServerURL())
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	u.Path = path.Join(u.Path, opts.Path)

	if len(opts.QueryParams) > 0 {
		q := u.Query()
		for k, v := range opts.QueryParams {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	var bodyReader io.Reader
	if opts.Body != nil {
		bodyReader = bytes.NewReader(opts.Body)
	}
	req, err := http.NewRequestWithContext(ctx, opts.Method, u.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if opts.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	if token := c.config.GetToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log.Ctx(ctx).Debug().Str("method", opts.Method).Str("path", u.Path).Msg("portainer request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := &HTTPError{
			Method:     opts.Method,
			Path:       "/" + strings.TrimPrefix(opts.Path, "/"),
			StatusCode: resp.StatusCode,
			Body:       body,
		}
		var serverErr ServerError
		if err := json.Unmarshal(body, &serverErr); err == nil && serverErr.Message != "" {
			httpErr.Message = serverErr.Message
			if serverErr.Details != "" {
				httpErr.Message += " (" + serverErr.Details + ")"
			}
		} else {
			httpErr.Message = strings.TrimSpace(string(body))
		}
		return nil, httpErr
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}
