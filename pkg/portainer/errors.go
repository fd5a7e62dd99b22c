package portainer

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tansive/portainer-mcp/internal/common/apperrors"
	"github.com/tansive/portainer-mcp/internal/common/httpclient"
)

// HTTPError is the non-2xx reply behind ErrAuthentication and ErrRequestFailed.
// Use errors.As to reach it.
type HTTPError = httpclient.HTTPError

var (
	// ErrClient is the base error for everything returned by this package.
	ErrClient apperrors.Error = apperrors.New("portainer client error").SetStatusCode(http.StatusInternalServerError)

	// ErrInvalidConfig is returned by NewClient before any request when the Config is unusable.
	ErrInvalidConfig apperrors.Error = ErrClient.New("invalid portainer configuration").SetStatusCode(http.StatusBadRequest)

	// ErrAuthentication is returned when the login is rejected or yields no token.
	ErrAuthentication apperrors.Error = ErrClient.New("portainer authentication failed").SetStatusCode(http.StatusUnauthorized)

	// ErrRequestFailed is returned for a non-2xx reply or a transport failure.
	ErrRequestFailed apperrors.Error = ErrClient.New("portainer request failed").SetStatusCode(http.StatusBadGateway)

	// ErrDecode is returned when a 2xx reply is not the JSON the endpoint documents.
	ErrDecode apperrors.Error = ErrClient.New("unable to decode portainer response").SetStatusCode(http.StatusBadGateway)

	// ErrInvalidArgument is returned before any request when a container or exec ID
	// cannot be used as a single path segment.
	ErrInvalidArgument apperrors.Error = ErrClient.New("invalid argument").SetStatusCode(http.StatusBadRequest)

	// ErrUnsupportedServer is returned by CheckServerVersion.
	ErrUnsupportedServer apperrors.Error = ErrClient.New("unsupported portainer server version").SetStatusCode(http.StatusNotImplemented)
)

// StatusCode returns the HTTP status of the reply behind err, or 0 when err did not
// come from a server reply.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

func wrapHTTPError(base apperrors.Error, method, path string, err error) error {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return base.MsgErr(httpErr.Error(), httpErr).SetStatusCode(httpErr.StatusCode)
	}
	return base.MsgErr(fmt.Sprintf("%s %s: %v", method, path, err), err)
}
