// Package mcpserver exposes the Portainer session client as a set of MCP tools.
// It serves the tools over a JSON-RPC HTTP route or over stdio, keeps a bounded
// log of tool calls and reports health for load balancers.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/tansive/portainer-mcp/internal/common/httpx"
	"github.com/tansive/portainer-mcp/internal/common/jsonrpc"
	"github.com/tansive/portainer-mcp/internal/common/middleware"
)

// MaxActivitiesReported is the number of activities GET /api/logs returns unless
// a smaller limit is asked for.
const MaxActivitiesReported = 100

// MaxMessageSize bounds the body of a POST /mcp request.
const MaxMessageSize = 4 << 20

// MCPToolServer serves the Portainer tools.
type MCPToolServer struct {
	Router *chi.Mux // HTTP router for request handling

	config    *ConfigParam
	client    PortainerAPI
	mcp       *server.MCPServer
	activity  *ActivityLog
	handlers  map[string]toolHandler
	toolNames []string
}

// CreateNewServer creates a server calling client and registers every tool.
// Routes are mounted by MountHandlers.
func CreateNewServer(cfg *ConfigParam, client PortainerAPI) (*MCPToolServer, error) {
	if client == nil {
		return nil, ErrNoClient
	}
	if cfg == nil {
		cfg = &ConfigParam{}
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	s := &MCPToolServer{
		Router:   chi.NewRouter(),
		config:   cfg,
		client:   client,
		activity: NewActivityLog(cfg.ActivityLogSize),
		handlers: make(map[string]toolHandler),
		mcp: server.NewMCPServer(
			ServerName,
			Version,
			server.WithToolCapabilities(true),
			server.WithRecovery(),
		),
	}
	for _, def := range s.toolDefs() {
		s.mcp.AddTool(def.tool, s.wrap(def.tool.Name, def.handler))
		s.handlers[def.tool.Name] = def.handler
		s.toolNames = append(s.toolNames, def.tool.Name)
	}
	return s, nil
}

// ToolNames returns the registered tools in registration order.
func (s *MCPToolServer) ToolNames() []string {
	return append([]string(nil), s.toolNames...)
}

// Activity returns the log of tool calls.
func (s *MCPToolServer) Activity() *ActivityLog {
	return s.activity
}

// MountHandlers sets up all HTTP routes and middleware for the server.
func (s *MCPToolServer) MountHandlers() {
	s.Router.Use(middleware.RequestLogger)
	s.Router.Use(middleware.PanicHandler)
	if s.config.HandleCORS {
		s.Router.Use(s.HandleCORS)
	}
	s.Router.Post("/mcp", s.handleMCP)
	s.Router.Get("/health", s.getHealth)
	s.Router.Get("/api/logs", s.getLogs)
}

// handleMCP passes one JSON-RPC message to the MCP server and writes its reply.
// Notifications have no reply and are acknowledged with 202.
func (s *MCPToolServer) handleMCP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxMessageSize))
	if err != nil {
		log.Ctx(r.Context()).Debug().Err(err).Msg("unable to read json-rpc message")
		appErr := ErrReadMessage.MsgErr("request body", err)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			appErr = ErrReadMessage.Msg(fmt.Sprintf("message exceeds %d bytes", tooLarge.Limit)).SetStatusCode(http.StatusRequestEntityTooLarge)
		}
		httpx.SendError(w, appErr)
		return
	}
	if !json.Valid(body) {
		log.Ctx(r.Context()).Debug().Msg("invalid json-rpc message")
		rsp, _ := jsonrpc.ConstructErrorResponse(nil, jsonrpc.ErrCodeParseError, "Parse error", nil)
		httpx.SendJsonRsp(r.Context(), w, http.StatusBadRequest, rsp)
		return
	}

	resp := s.mcp.HandleMessage(r.Context(), body)
	if resp == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	httpx.SendJsonRsp(r.Context(), w, http.StatusOK, resp)
}

// HealthRsp is the reply of GET /health.
type HealthRsp struct {
	Status    string   `json:"status"`
	Version   string   `json:"version"`
	Transport string   `json:"transport"`
	Tools     []string `json:"tools"`
}

func (s *MCPToolServer) getHealth(w http.ResponseWriter, r *http.Request) {
	log.Ctx(r.Context()).Debug().Msg("health check")
	httpx.SendJsonRsp(r.Context(), w, http.StatusOK, &HealthRsp{
		Status:    "healthy",
		Version:   Version,
		Transport: s.config.Transport,
		Tools:     s.ToolNames(),
	})
}

// LogsRsp is the reply of GET /api/logs.
type LogsRsp struct {
	Activities []Activity `json:"activities"`
	Total      int        `json:"total"`
}

// getLogs accepts an optional limit query parameter between 1 and MaxActivitiesReported.
func (s *MCPToolServer) getLogs(w http.ResponseWriter, r *http.Request) {
	limit := MaxActivitiesReported
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > MaxActivitiesReported {
			httpx.ErrInvalidRequest(fmt.Sprintf("limit must be between 1 and %d", MaxActivitiesReported)).Send(w)
			return
		}
		limit = n
	}
	httpx.SendJsonRsp(r.Context(), w, http.StatusOK, &LogsRsp{
		Activities: s.activity.Latest(limit),
		Total:      s.activity.Len(),
	})
}

// HandleCORS provides CORS middleware for cross-origin requests.
func (s *MCPToolServer) HandleCORS(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Mcp-Session-Id"},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	})(next)
}

// ServeStdio serves the tools over stdin and stdout until ctx is done or stdin closes.
func (s *MCPToolServer) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	log.Ctx(ctx).Info().Int("numTools", len(s.toolNames)).Msg("serving mcp over stdio")
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}
