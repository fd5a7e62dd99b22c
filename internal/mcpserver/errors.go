package mcpserver

import (
	"net/http"

	"github.com/tansive/portainer-mcp/internal/common/apperrors"
)

var (
	ErrMCPServer        apperrors.Error = apperrors.New("mcp server error").SetStatusCode(http.StatusInternalServerError)
	ErrInvalidConfig    apperrors.Error = ErrMCPServer.New("invalid server configuration").SetStatusCode(http.StatusBadRequest)
	ErrInvalidArguments apperrors.Error = ErrMCPServer.New("invalid tool arguments").SetStatusCode(http.StatusBadRequest)
	ErrNoClient         apperrors.Error = ErrMCPServer.New("portainer client is required")
	ErrReadMessage      apperrors.Error = ErrMCPServer.New("unable to read json-rpc message").SetStatusCode(http.StatusBadRequest)
)
