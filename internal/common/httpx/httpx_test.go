package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tansive/portainer-mcp/internal/common/apperrors"
)

func TestSendJsonRsp(t *testing.T) {
	tests := []struct {
		name string
		msg  any
		want string
	}{
		{"struct", map[string]any{"status": "healthy"}, `{"status":"healthy"}`},
		{"raw message", json.RawMessage(`{"total":2}`), `{"total":2}`},
		{"valid bytes", []byte(`[1,2]`), `[1,2]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			SendJsonRsp(context.Background(), rr, http.StatusOK, tt.msg)
			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.want, rr.Body.String())
		})
	}
}

func TestSendError(t *testing.T) {
	rr := httptest.NewRecorder()
	SendError(rr, apperrors.New("session not found").SetStatusCode(http.StatusNotFound))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"result":0,"error":"session not found"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	SendError(rr, apperrors.New("no status"))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	rr = httptest.NewRecorder()
	SendError(rr, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestResponseWriter(t *testing.T) {
	rr := httptest.NewRecorder()
	rw := NewResponseWriter(rr)
	assert.False(t, rw.Written())
	assert.Equal(t, http.StatusOK, rw.Status())

	ErrInvalidRequest("bad json").Send(rw)
	assert.True(t, rw.Written())
	assert.Equal(t, http.StatusBadRequest, rw.Status())

	rw.WriteHeader(http.StatusTeapot)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
