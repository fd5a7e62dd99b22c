package cli

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tansive/portainer-mcp/pkg/portainer"
)

type recordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Body     string
}

type fakeRoute struct {
	status int
	body   []byte
}

// fakePortainer answers canned replies per "METHOD /path" and records the requests.
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
	f.onRaw(route, status, []byte(body))
}

func (f *fakePortainer) onRaw(route string, status int, body []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[route] = fakeRoute{status: status, body: body}
}

func (f *fakePortainer) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method:   r.Method,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
		Body:     string(body),
	})
	route, ok := f.routes[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Object not found inside the database"}`))
		return
	}
	w.WriteHeader(route.status)
	w.Write(route.body)
}

// last returns the most recent request.
func (f *fakePortainer) last(t *testing.T) recordedRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests)
	return f.requests[len(f.requests)-1]
}

func (f *fakePortainer) paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, r := range f.requests {
		out = append(out, r.Method+" "+r.Path)
	}
	return out
}

func clearPortainerEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{portainer.EnvURL, portainer.EnvUsername, portainer.EnvPassword} {
		t.Setenv(k, "")
	}
}

// writeCLIConfig stores a config file pointing at url and returns its path.
func writeCLIConfig(t *testing.T, url string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portainerctl", DefaultConfigFile)
	cfg := &Config{
		Version: ConfigVersion,
		Config: portainer.Config{
			URL:      url,
			Username: "admin",
			Password: "secret",
		},
	}
	require.NoError(t, cfg.WriteConfig(path))
	return path
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// runCLI runs portainerctl with the given config file and arguments.
func runCLI(t *testing.T, configPath string, args ...string) cliResult {
	t.Helper()
	root, _ := newRootCmd()
	root.SilenceErrors = true
	root.SilenceUsage = true

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config=" + configPath}, args...))

	err := root.Execute()
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func fileMode(t *testing.T, path string) os.FileMode {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	return info.Mode().Perm()
}
