package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tansive/portainer-mcp/internal/common/logtrace"
	"github.com/tansive/portainer-mcp/internal/common/uuid"
)

func TestRequestLogger(t *testing.T) {
	var seen string
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logtrace.RequestIdFromContext(r.Context())
		w.WriteHeader(http.StatusAccepted)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/mcp", nil))

	assert.Equal(t, http.StatusAccepted, rr.Code)
	requestID := rr.Header().Get(RequestIDHeader)
	require.NotEmpty(t, requestID)
	assert.Equal(t, requestID, seen)
	_, err := uuid.Parse(requestID)
	assert.NoError(t, err)
}

func TestPanicHandler(t *testing.T) {
	t.Run("recovers before write", func(t *testing.T) {
		h := PanicHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("tool handler exploded")
		}))
		rr := httptest.NewRecorder()
		assert.NotPanics(t, func() {
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
		})
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.JSONEq(t, `{"result":0,"error":"unable to process request"}`, rr.Body.String())
	})

	t.Run("keeps partial response", func(t *testing.T) {
		h := PanicHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("partial"))
			panic("late failure")
		}))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "partial", rr.Body.String())
	})
}
