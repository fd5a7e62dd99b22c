// Package jsonrpc provides utilities for handling JSON-RPC 2.0 protocol messages.
// It builds the envelopes the MCP transport exchanges and parses replies.
package jsonrpc

import (
	"encoding/json"
	"errors"
)

// Version specifies the JSON-RPC protocol version
const Version = "2.0"

// MethodType represents a JSON-RPC method name
type MethodType string

// Request represents a JSON-RPC 2.0 request or notification.
// ID is absent for notifications.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"`
	Method  MethodType      `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response represents a JSON-RPC 2.0 response.
// Either Result or Error must be set, but not both.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ErrorObject    `json:"error,omitempty"`
}

// ErrorObject represents a JSON-RPC 2.0 error object.
type ErrorObject struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ConstructRequest creates a JSON-RPC request message. A nil id makes it a notification.
func ConstructRequest(id any, method MethodType, params any) ([]byte, error) {
	req := Request{
		JSONRPC: Version,
		ID:      id,
		Method:  method,
	}
	if params != nil {
		p, err := json.Marshal(params)
		if err != nil {
			return nil, err
		}
		req.Params = p
	}
	return json.Marshal(req)
}

// ConstructErrorResponse creates a JSON-RPC error response.
// The data parameter is optional and must be JSON-serializable if provided.
func ConstructErrorResponse(id any, code int, message string, data any) ([]byte, error) {
	resp := Response{
		JSONRPC: Version,
		ID:      id,
		Error: &ErrorObject{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
	return json.Marshal(resp)
}

// ParseResponse unmarshals a JSON-RPC response.
// Returns an error if the response is invalid or has neither result nor error.
func ParseResponse(data []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	if resp.JSONRPC != Version {
		return nil, errors.New("invalid JSON-RPC response")
	}
	if len(resp.Result) == 0 && resp.Error == nil {
		return nil, errors.New("response must have either result or error")
	}
	return &resp, nil
}

// Standard JSON-RPC 2.0 error codes
const (
	ErrCodeParseError     = -32700 // Invalid JSON was received
	ErrCodeInvalidRequest = -32600 // The JSON sent is not a valid Request object
	ErrCodeMethodNotFound = -32601 // The method does not exist
	ErrCodeInvalidParams  = -32602 // Invalid method parameter(s)
	ErrCodeInternalError  = -32603 // Internal JSON-RPC error
)
