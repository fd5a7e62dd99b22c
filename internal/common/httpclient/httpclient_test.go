package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	serverURL string
	token     string
}

func (c *testConfig) GetServerURL() string { return c.serverURL }
func (c *testConfig) GetToken() string     { return c.token }

func TestDoRequest(t *testing.T) {
	var got *http.Request
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	t.Run("joins path and encodes query", func(t *testing.T) {
		c := NewClient(&testConfig{serverURL: srv.URL + "/", token: "tok"})
		rsp, err := c.DoRequest(context.Background(), RequestOptions{
			Method:      http.MethodGet,
			Path:        "/api/stacks",
			QueryParams: map[string]string{"filters": `{"EndpointID":3}`},
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rsp.StatusCode)
		assert.JSONEq(t, `{"ok":true}`, string(rsp.Body))
		assert.Equal(t, "/api/stacks", got.URL.Path)
		assert.Equal(t, `{"EndpointID":3}`, got.URL.Query().Get("filters"))
		assert.Equal(t, "Bearer tok", got.Header.Get("Authorization"))
		assert.Empty(t, got.Header.Get("Content-Type"))
	})

	t.Run("token overrides caller authorization header", func(t *testing.T) {
		c := NewClient(&testConfig{serverURL: srv.URL, token: "tok"})
		_, err := c.DoRequest(context.Background(), RequestOptions{
			Method:  http.MethodPost,
			Path:    "api/auth",
			Headers: map[string]string{"Authorization": "Basic xyz", "X-Extra": "1"},
			Body:    []byte(`{"a":1}`),
		})
		require.NoError(t, err)
		assert.Equal(t, "Bearer tok", got.Header.Get("Authorization"))
		assert.Equal(t, "1", got.Header.Get("X-Extra"))
		assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
		assert.Equal(t, `{"a":1}`, string(gotBody))
	})

	t.Run("no token means no authorization header", func(t *testing.T) {
		c := NewClient(&testConfig{serverURL: srv.URL})
		_, err := c.DoRequest(context.Background(), RequestOptions{Method: http.MethodGet, Path: "/api/status"})
		require.NoError(t, err)
		assert.Empty(t, got.Header.Get("Authorization"))
	})
}

func TestDoRequestErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{
			name:        "portainer error body",
			status:      http.StatusUnprocessableEntity,
			body:        `{"message":"Invalid credentials","details":"Unauthorized"}`,
			wantMessage: "Invalid credentials (Unauthorized)",
		},
		{
			name:        "docker error body",
			status:      http.StatusNotFound,
			body:        `{"message":"No such container: abc"}`,
			wantMessage: "No such container: abc",
		},
		{
			name:        "plain text body",
			status:      http.StatusBadGateway,
			body:        "upstream unavailable\n",
			wantMessage: "upstream unavailable",
		},
		{
			name:        "redirect status is not success",
			status:      http.StatusNotModified,
			body:        "",
			wantMessage: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(&testConfig{serverURL: srv.URL})
			rsp, err := c.DoRequest(context.Background(), RequestOptions{Method: http.MethodPost, Path: "api/endpoints/1/docker/containers/abc/start"})
			require.Error(t, err)
			assert.Nil(t, rsp)

			var httpErr *HTTPError
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, tt.wantMessage, httpErr.Message)
			assert.Equal(t, http.MethodPost, httpErr.Method)
			assert.Equal(t, "/api/endpoints/1/docker/containers/abc/start", httpErr.Path)
			assert.Contains(t, err.Error(), "POST /api/endpoints/1/docker/containers/abc/start")
		})
	}
}

func TestDoRequestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(&testConfig{serverURL: url})
	_, err := c.DoRequest(context.Background(), RequestOptions{Method: http.MethodGet, Path: "/api/status"})
	require.Error(t, err)
	var httpErr *HTTPError
	assert.False(t, errors.As(err, &httpErr))
	assert.Contains(t, err.Error(), "request failed")
}

func TestDoRequestInvalidServerURL(t *testing.T) {
	c := NewClient(&testConfig{serverURL: "http://[::1"})
	_, err := c.DoRequest(context.Background(), RequestOptions{Method: http.MethodGet, Path: "/api/status"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid server URL")
}
