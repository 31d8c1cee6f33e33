package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jason64364/unfitware-automation/internal/shopify"
)

// Querier runs one GraphQL document and returns its data field.
type Querier interface {
	Query(ctx context.Context, document string, variables map[string]any) (json.RawMessage, error)
}

type handlerFunc func(ctx context.Context, req mcp.CallToolRequest) (any, error)

// Executor maps each tool call onto exactly one remote operation.
type Executor struct {
	remote   Querier
	logger   *slog.Logger
	handlers map[ToolID]handlerFunc
}

// NewExecutor returns an Executor issuing calls through remote.
func NewExecutor(remote Querier, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Executor{remote: remote, logger: logger}
	e.registerToolHandlers()
	return e
}

func (e *Executor) registerToolHandlers() {
	e.handlers = map[ToolID]handlerFunc{
		ListProducts:       e.listProducts,
		UpdateVariantPrice: e.updateVariantPrice,
	}
}

// Call validates arguments and runs the named tool. A nil arguments map is
// treated as empty.
func (e *Executor) Call(ctx context.Context, name string, arguments map[string]any) (any, error) {
	id, err := ParseToolID(name)
	if err != nil {
		return nil, err
	}
	handler, ok := e.handlers[id]
	if !ok {
		return nil, &UnknownToolError{Name: name}
	}
	if arguments == nil {
		arguments = map[string]any{}
	}
	e.logger.DebugContext(ctx, "calling tool", "tool", name)
	return handler(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: arguments},
	})
}

// EffectiveFirst clamps the requested page size into [1, 50]; absent means 10.
func EffectiveFirst(req mcp.CallToolRequest) int {
	return max(minFirst, min(maxFirst, req.GetInt("first", defaultFirst)))
}

func (e *Executor) listProducts(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	data, err := e.remote.Query(ctx, shopify.ListProductsQuery, map[string]any{
		"first": EffectiveFirst(req),
	})
	if err != nil {
		return nil, err
	}
	var out struct {
		Products *struct {
			Nodes json.RawMessage `json:"nodes"`
		} `json:"products"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding products: %w", err)
	}
	if out.Products == nil {
		return nil, errors.New("shopify response has no products field")
	}
	return out.Products.Nodes, nil
}

var priceRe = regexp.MustCompile(pricePattern)

func (e *Executor) updateVariantPrice(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	variantID, err := req.RequireString("variantId")
	if err != nil {
		return nil, &ArgumentError{Tool: UpdateVariantPrice, Err: err}
	}
	if variantID == "" {
		return nil, &ArgumentError{Tool: UpdateVariantPrice, Err: errors.New("variantId must not be empty")}
	}
	price, err := req.RequireString("price")
	if err != nil {
		return nil, &ArgumentError{Tool: UpdateVariantPrice, Err: err}
	}
	if !priceRe.MatchString(price) {
		return nil, &ArgumentError{Tool: UpdateVariantPrice, Err: fmt.Errorf("price %q must match %s", price, pricePattern)}
	}

	data, err := e.remote.Query(ctx, shopify.UpdateVariantPriceMutation, map[string]any{
		"variantId": variantID,
		"price":     price,
	})
	if err != nil {
		return nil, err
	}
	var out struct {
		Update *struct {
			ProductVariant json.RawMessage   `json:"productVariant"`
			UserErrors     []json.RawMessage `json:"userErrors"`
		} `json:"productVariantUpdate"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding productVariantUpdate: %w", err)
	}
	if out.Update == nil {
		return nil, errors.New("shopify response has no productVariantUpdate field")
	}
	if len(out.Update.UserErrors) > 0 {
		payload, err := json.Marshal(out.Update.UserErrors)
		if err != nil {
			return nil, err
		}
		e.logger.WarnContext(ctx, "variant price update rejected", "variant_id", variantID, "user_errors", len(out.Update.UserErrors))
		return nil, &UserErrors{Payload: payload}
	}
	return out.Update.ProductVariant, nil
}
