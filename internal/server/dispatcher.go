package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jason64364/unfitware-automation/internal/shopify"
	"github.com/jason64364/unfitware-automation/internal/tools"
)

const (
	methodListTools = "tools/list"
	methodCallTool  = "tools/call"
)

// ToolCaller executes one tool call.
type ToolCaller interface {
	Call(ctx context.Context, name string, arguments map[string]any) (any, error)
}

// Dispatcher authenticates a request, decodes the JSON-RPC envelope and
// routes it to the tool registry or executor.
type Dispatcher struct {
	bearer string
	tools  ToolCaller
	logger *slog.Logger
}

// NewDispatcher returns a Dispatcher accepting only "Bearer <bearer>".
func NewDispatcher(bearer string, caller ToolCaller, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{bearer: bearer, tools: caller, logger: logger}
}

// Handle produces exactly one response for req. Auth and verb checks happen
// before the body is looked at; every later outcome is HTTP 200 with the
// result or error carried in the envelope.
func (d *Dispatcher) Handle(ctx context.Context, req Request) Response {
	reqID := req.RequestID
	if reqID == "" {
		reqID = uuid.NewString()
	}
	logger := d.logger.With("request_id", reqID)

	if !d.authorized(req.Headers) {
		logger.WarnContext(ctx, "rejected request", "reason", "unauthorized")
		return jsonResponse(http.StatusUnauthorized, []byte(`{"error":"Unauthorized"}`))
	}
	if req.Method != http.MethodPost {
		logger.WarnContext(ctx, "rejected request", "reason", "method not allowed", "http_method", req.Method)
		return Response{
			StatusCode: http.StatusMethodNotAllowed,
			Headers:    map[string]string{"Content-Type": "text/plain; charset=utf-8", "Allow": http.MethodPost},
			Body:       []byte("Method not allowed"),
		}
	}

	start := time.Now()
	env := d.dispatch(ctx, logger, req.Body)
	body, err := json.Marshal(env)
	if err != nil {
		logger.ErrorContext(ctx, "encoding response", "error", err)
		body, _ = json.Marshal(failure(nil, err.Error()))
	}
	logger.InfoContext(ctx, "handled rpc", "ok", env.Error == nil, "duration", time.Since(start))
	return jsonResponse(http.StatusOK, body)
}

// authorized compares the bearer credential in constant time. The header
// name is matched case-insensitively.
func (d *Dispatcher) authorized(headers map[string]string) bool {
	if d.bearer == "" {
		return false
	}
	token, ok := strings.CutPrefix(headerValue(headers, "Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(d.bearer)) == 1
}

func headerValue(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// dispatch routes one envelope. Any error or panic past this point becomes an
// error envelope with a null id.
func (d *Dispatcher) dispatch(ctx context.Context, logger *slog.Logger, body []byte) (resp rpcResponse) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorContext(ctx, "panic handling rpc", "panic", r)
			resp = failure(nil, fmt.Sprint(r))
		}
	}()

	req := parseRequest(body)
	logger = logger.With("rpc_method", req.Method)

	switch req.Method {
	case methodListTools:
		return success(req.ID, listToolsResult{Tools: tools.List()})
	case methodCallTool:
		call := parseCallRequest(req.Params)
		result, err := d.tools.Call(ctx, call.Name, call.Arguments)
		if err != nil {
			logger.ErrorContext(ctx, "tool call failed", "tool", call.Name, "error", err)
			if shopify.IsUnauthorized(err) {
				logger.WarnContext(ctx, "shopify rejected the admin token")
			}
			return failure(nil, err.Error())
		}
		return success(req.ID, callToolResult{Content: []content{{Type: "json", Value: result}}})
	default:
		return failure(req.ID, "Method not found")
	}
}

// parseRequest decodes the envelope leniently: a body that is not a JSON
// object is treated as {}.
func parseRequest(body []byte) rpcRequest {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return rpcRequest{}
	}
	var req rpcRequest
	req.ID = fields["id"]
	_ = json.Unmarshal(fields["method"], &req.Method)
	req.Params = fields["params"]
	return req
}

// parseCallRequest reads params.name and params.arguments; arguments default
// to an empty map when absent or not an object.
func parseCallRequest(raw json.RawMessage) CallRequest {
	call := CallRequest{Arguments: map[string]any{}}
	var params map[string]any
	if err := json.Unmarshal(raw, &params); err != nil {
		return call
	}
	switch name := params["name"].(type) {
	case string:
		call.Name = name
	case nil:
	default:
		call.Name = fmt.Sprint(name)
	}
	if args, ok := params["arguments"].(map[string]any); ok {
		call.Arguments = args
	}
	return call
}

func jsonResponse(status int, body []byte) Response {
	return Response{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
	}
}
