package portainer

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method        string
	Path          string
	Query         url.Values
	RawQuery      string
	Body          string
	Authorization string
	Header        http.Header
}

type fakeRoute struct {
	status      int
	body        []byte
	contentType string
}

// fakePortainer is an httptest server answering canned replies per "METHOD /path"
// and recording every request it receives.
type fakePortainer struct {
	srv *httptest.Server

	mu       sync.Mutex
	routes   map[string]fakeRoute
	requests []recordedRequest
}

func newFakePortainer(t *testing.T) *fakePortainer {
	t.Helper()
	f := &fakePortainer{routes: map[string]fakeRoute{}}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	f.on("POST /api/auth", http.StatusOK, `{"jwt":"test-token"}`)
	return f
}

func (f *fakePortainer) on(route string, status int, body string) {
	f.onRaw(route, status, []byte(body), "application/json")
}

func (f *fakePortainer) onRaw(route string, status int, body []byte, contentType string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[route] = fakeRoute{status: status, body: body, contentType: contentType}
}

func (f *fakePortainer) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Query:         r.URL.Query(),
		RawQuery:      r.URL.RawQuery,
		Body:          string(body),
		Authorization: r.Header.Get("Authorization"),
		Header:        r.Header.Clone(),
	})
	route, ok := f.routes[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Unable to find an endpoint with the specified identifier"}`))
		return
	}
	if route.contentType != "" {
		w.Header().Set("Content-Type", route.contentType)
	}
	w.WriteHeader(route.status)
	w.Write(route.body)
}

// recorded returns the requests received so far.
func (f *fakePortainer) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func (f *fakePortainer) last(t *testing.T) recordedRequest {
	t.Helper()
	reqs := f.recorded()
	require.NotEmpty(t, reqs)
	return reqs[len(reqs)-1]
}

func (f *fakePortainer) config() Config {
	return Config{
		URL:      f.srv.URL,
		Username: "admin",
		Password: "secret",
	}
}

func (f *fakePortainer) client(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient(context.Background(), f.config())
	require.NoError(t, err)
	return c
}
