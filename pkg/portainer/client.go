// Package portainer is a client for the Portainer container-management REST API.
//
// A Client logs in once when it is created and attaches the resulting bearer token to
// every later request. Each method maps to a single Portainer endpoint and returns the
// decoded JSON reply as-is:
//
//	cli, err := portainer.NewClient(ctx, portainer.ConfigFromEnv())
//	if err != nil {
//		return err
//	}
//	containers, err := cli.ListContainers(ctx, portainer.DefaultEndpointID, true)
//
// The client never retries and never refreshes its token. Failures are returned to the
// caller as errors matching ErrAuthentication or ErrRequestFailed; the underlying
// *HTTPError is reachable with errors.As.
package portainer

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	jsonitor "github.com/json-iterator/go"
	"github.com/tidwall/gjson"

	"github.com/tansive/portainer-mcp/internal/common/httpclient"
)

var json = jsonitor.ConfigCompatibleWithStandardLibrary

// Object is a decoded JSON object returned by the server.
type Object = map[string]any

// session holds the server location and the token obtained at login.
type session struct {
	serverURL string
	token     string
}

func (s *session) GetServerURL() string { return s.serverURL }
func (s *session) GetToken() string     { return s.token }

// Client is an authenticated Portainer API session.
type Client struct {
	config  Config
	session *session
	http    httpclient.HTTPClientInterface
}

// ClientOption configures optional Client behavior.
type ClientOption func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
}

// WithHTTPClient makes the Client send requests through hc.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(o *clientOptions) {
		o.httpClient = hc
	}
}

// RequestOptions carries the optional parts of a Request.
type RequestOptions struct {
	Query   map[string]string // query parameters
	Headers map[string]string // extra headers; Authorization is always replaced
	Body    any               // JSON encoded when non-nil
}

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// NewClient applies defaults to cfg, validates it and logs in. It returns no Client
// unless the login succeeds.
func NewClient(ctx context.Context, cfg Config, opts ...ClientOption) (*Client, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := clientOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	s := &session{serverURL: cfg.URL}
	c := &Client{
		config:  cfg,
		session: s,
		http: httpclient.NewClientWithOptions(s, httpclient.ClientOptions{
			DisableCertValidation: cfg.InsecureSkipVerify,
			HTTPClient:            o.httpClient,
		}),
	}
	if err := c.Authenticate(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Authenticate logs in with the configured credentials and stores the returned token.
// NewClient already calls it; calling it again replaces the token and must not run
// concurrently with other requests on the same Client.
func (c *Client) Authenticate(ctx context.Context) error {
	body, err := json.Marshal(authRequest{
		Username: c.config.Username,
		Password: c.config.Password,
	})
	if err != nil {
		return ErrAuthentication.MsgErr("unable to encode credentials", err)
	}

	rsp, err := c.http.DoRequest(ctx, httpclient.RequestOptions{
		Method: http.MethodPost,
		Path:   "/api/auth",
		Body:   body,
	})
	if err != nil {
		return wrapHTTPError(ErrAuthentication, http.MethodPost, "/api/auth", err)
	}

	token := gjson.GetBytes(rsp.Body, "jwt")
	if token.Type != gjson.String || token.String() == "" {
		return ErrAuthentication.Msg("login reply from " + c.config.URL + " carried no jwt")
	}
	c.session.token = token.String()
	return nil
}

// URL returns the base URL the Client talks to.
func (c *Client) URL() string {
	return c.config.URL
}

// Token returns the bearer token obtained at login.
func (c *Client) Token() string {
	return c.session.token
}

// TokenExpiry reads the expiry claim of the bearer token without verifying its
// signature. It returns the zero time when the token carries no expiry.
func (c *Client) TokenExpiry() (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.session.token, claims); err != nil {
		return time.Time{}, ErrDecode.MsgErr("unable to parse bearer token", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, ErrDecode.MsgErr("invalid exp claim in bearer token", err)
	}
	if exp == nil {
		return time.Time{}, nil
	}
	return exp.Time, nil
}

// Request issues an authenticated request and returns the decoded JSON reply.
// An empty 2xx reply decodes to nil.
func (c *Client) Request(ctx context.Context, method, path string, opts *RequestOptions) (any, error) {
	var out any
	if err := c.requestJSON(ctx, method, path, opts, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) requestJSON(ctx context.Context, method, path string, opts *RequestOptions, out any) error {
	body, err := c.requestRaw(ctx, method, path, opts)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return ErrDecode.MsgErr(fmt.Sprintf("%s %s: %v", method, path, err), err)
	}
	return nil
}

// requestRaw issues an authenticated request and returns the reply body undecoded.
func (c *Client) requestRaw(ctx context.Context, method, path string, opts *RequestOptions) ([]byte, error) {
	ro := httpclient.RequestOptions{
		Method: method,
		Path:   path,
	}
	if opts != nil {
		ro.QueryParams = opts.Query
		ro.Headers = opts.Headers
		if opts.Body != nil {
			b, err := json.Marshal(opts.Body)
			if err != nil {
				return nil, ErrRequestFailed.MsgErr(fmt.Sprintf("%s %s: unable to encode body", method, path), err)
			}
			ro.Body = b
		}
	}

	rsp, err := c.http.DoRequest(ctx, ro)
	if err != nil {
		return nil, wrapHTTPError(ErrRequestFailed, method, path, err)
	}
	return rsp.Body, nil
}
