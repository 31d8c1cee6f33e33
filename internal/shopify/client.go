// Package shopify provides a minimal client for the Shopify admin GraphQL API.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jason64364/unfitware-automation/internal/secrets"
)

// AccessTokenHeader carries the admin token on every request.
const AccessTokenHeader = "X-Shopify-Access-Token"

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 10 << 20

// Client issues authenticated GraphQL requests against one store.
type Client struct {
	Endpoint string
	Tokens   secrets.TokenSource
	HTTP     *http.Client
}

// New returns a new client. If httpClient is nil, a default with 15s timeout is used.
func New(endpoint string, tokens secrets.TokenSource, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{Endpoint: endpoint, Tokens: tokens, HTTP: httpClient}
}

// Error is a failed GraphQL call: a non-2xx status, a non-empty top-level
// errors field, or both. Payload is the errors field when present, otherwise
// the whole response body.
type Error struct {
	StatusCode int
	Payload    json.RawMessage
}

func (e *Error) Error() string {
	return "Shopify error: " + string(e.Payload)
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors json.RawMessage `json:"errors"`
}

// invalidator is implemented by token sources that cache.
type invalidator interface {
	Invalidate()
}

// Query runs one query or mutation and returns its data field unvalidated.
// The access token is requested from Tokens on every call.
func (c *Client) Query(ctx context.Context, document string, variables map[string]any) (json.RawMessage, error) {
	if variables == nil {
		variables = map[string]any{}
	}
	token, err := c.Tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("admin token: %w", err)
	}
	payload, err := json.Marshal(graphQLRequest{Query: document, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("encoding graphql request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(AccessTokenHeader, token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("shopify request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading shopify response: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		if inv, ok := c.Tokens.(invalidator); ok {
			inv.Invalidate()
		}
	}

	var out graphQLResponse
	if err := json.Unmarshal(body, &out); err != nil {
		if !isOK(resp.StatusCode) {
			return nil, &Error{StatusCode: resp.StatusCode, Payload: quoted(body)}
		}
		return nil, fmt.Errorf("decoding shopify response (status %d): %w", resp.StatusCode, err)
	}
	if !isOK(resp.StatusCode) || hasErrors(out.Errors) {
		p := out.Errors
		if !hasErrors(p) {
			p = json.RawMessage(bytes.TrimSpace(body))
		}
		return nil, &Error{StatusCode: resp.StatusCode, Payload: p}
	}
	return out.Data, nil
}

func isOK(status int) bool { return status >= 200 && status < 300 }

// hasErrors reports whether the errors field is present and not empty.
func hasErrors(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	switch string(trimmed) {
	case "", "null", "[]", "{}", `""`:
		return false
	}
	return true
}

// quoted turns a non-JSON body into a JSON string so Payload stays valid JSON.
func quoted(body []byte) json.RawMessage {
	b, _ := json.Marshal(string(bytes.TrimSpace(body)))
	return b
}

// IsUnauthorized reports whether err is a 401 from the admin API.
func IsUnauthorized(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.StatusCode == http.StatusUnauthorized
}
