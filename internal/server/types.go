package server

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

const jsonRPCVersion = "2.0"

// internalErrorCode is used for every error envelope, including unknown methods.
const internalErrorCode = -32603

// Request is one inbound HTTP-shaped request, independent of the hosting runtime.
type Request struct {
	Method    string
	Headers   map[string]string
	Body      []byte
	RequestID string
}

// Response is the HTTP-shaped reply handed back to the hosting runtime.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// rpcRequest is the decoded envelope. Fields that are missing or of the
// wrong type are left zero.
type rpcRequest struct {
	ID     json.RawMessage
	Method string
	Params json.RawMessage
}

// rpcResponse carries either Result or Error, never both.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CallRequest is the params object of tools/call.
type CallRequest struct {
	Name      string
	Arguments map[string]any
}

type listToolsResult struct {
	Tools []mcp.Tool `json:"tools"`
}

type callToolResult struct {
	Content []content `json:"content"`
}

type content struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

func success(id json.RawMessage, result any) rpcResponse {
	return rpcResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result}
}

func failure(id json.RawMessage, message string) rpcResponse {
	if message == "" {
		message = "Server error"
	}
	return rpcResponse{
		JSONRPC: jsonRPCVersion,
		ID:      id,
		Error:   &rpcError{Code: internalErrorCode, Message: message},
	}
}
