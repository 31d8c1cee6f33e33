package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jason64364/unfitware-automation/internal/shopify"
)

// stubQuerier records every call and replies with a canned response.
type stubQuerier struct {
	data  string
	err   error
	calls []stubCall
}

type stubCall struct {
	document  string
	variables map[string]any
}

func (s *stubQuerier) Query(_ context.Context, document string, variables map[string]any) (json.RawMessage, error) {
	s.calls = append(s.calls, stubCall{document: document, variables: variables})
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(s.data), nil
}

func TestListOrderAndNames(t *testing.T) {
	list := List()
	require.Len(t, list, 2)
	assert.Equal(t, "list_products", list[0].Name)
	assert.Equal(t, "update_variant_price", list[1].Name)
	assert.Equal(t, List(), list, "registry is stable across calls")

	seen := map[string]bool{}
	for _, tool := range list {
		assert.False(t, seen[tool.Name], "duplicate tool %s", tool.Name)
		seen[tool.Name] = true
		assert.NotEmpty(t, tool.Description)
		assert.Equal(t, "object", tool.InputSchema.Type)
	}
}

func TestDescriptorSchemas(t *testing.T) {
	lp := Descriptor(ListProducts)
	first := lp.InputSchema.Properties["first"].(map[string]any)
	assert.Equal(t, "integer", first["type"])
	assert.Equal(t, 1, first["minimum"])
	assert.Equal(t, 50, first["maximum"])
	assert.Equal(t, 10, first["default"])
	assert.Empty(t, lp.InputSchema.Required)

	uv := Descriptor(UpdateVariantPrice)
	assert.ElementsMatch(t, []string{"variantId", "price"}, uv.InputSchema.Required)
	price := uv.InputSchema.Properties["price"].(map[string]any)
	assert.Equal(t, `^[0-9]+(\.[0-9]{2})?$`, price["pattern"])
}

func TestEveryToolHasHandler(t *testing.T) {
	e := NewExecutor(&stubQuerier{}, nil)
	for _, id := range All {
		_, ok := e.handlers[id]
		assert.True(t, ok, "no handler for %s", id)
		got, err := ParseToolID(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestParseToolIDUnknown(t *testing.T) {
	_, err := ParseToolID("delete_everything")
	var unknown *UnknownToolError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Unknown tool: delete_everything", err.Error())
	assert.Equal(t, "unknown", ToolID(99).String())
}

func TestCallUnknownToolMakesNoRemoteCall(t *testing.T) {
	q := &stubQuerier{}
	_, err := NewExecutor(q, nil).Call(context.Background(), "delete_everything", nil)
	assert.EqualError(t, err, "Unknown tool: delete_everything")
	assert.Empty(t, q.calls)
}

func TestListProductsClampsFirst(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want int
	}{
		{"zero", map[string]any{"first": float64(0)}, 1},
		{"one", map[string]any{"first": float64(1)}, 1},
		{"ten", map[string]any{"first": float64(10)}, 10},
		{"fifty", map[string]any{"first": float64(50)}, 50},
		{"fifty one", map[string]any{"first": float64(51)}, 50},
		{"negative", map[string]any{"first": float64(-4)}, 1},
		{"absent", map[string]any{}, 10},
		{"null", map[string]any{"first": nil}, 10},
		{"nil arguments", nil, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &stubQuerier{data: `{"products":{"nodes":[]}}`}
			_, err := NewExecutor(q, nil).Call(context.Background(), "list_products", tt.args)
			require.NoError(t, err)
			require.Len(t, q.calls, 1)
			assert.Equal(t, shopify.ListProductsQuery, q.calls[0].document)
			assert.Equal(t, tt.want, q.calls[0].variables["first"])
		})
	}
}

func TestEffectiveFirst(t *testing.T) {
	req := mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: map[string]any{"first": float64(7)}}}
	assert.Equal(t, 7, EffectiveFirst(req))
}

func TestListProductsReturnsNodesVerbatim(t *testing.T) {
	nodes := `[{"id":"gid://shopify/Product/3","title":"C","status":"ACTIVE"},{"id":"gid://shopify/Product/2","title":"B","status":"DRAFT"}]`
	q := &stubQuerier{data: `{"products":{"nodes":` + nodes + `}}`}
	got, err := NewExecutor(q, nil).Call(context.Background(), "list_products", map[string]any{"first": float64(2)})
	require.NoError(t, err)

	raw, ok := got.(json.RawMessage)
	require.True(t, ok)
	assert.JSONEq(t, nodes, string(raw))
}

func TestListProductsMissingField(t *testing.T) {
	q := &stubQuerier{data: `{}`}
	_, err := NewExecutor(q, nil).Call(context.Background(), "list_products", nil)
	assert.Error(t, err)
}

func TestRemoteErrorPropagates(t *testing.T) {
	remote := &shopify.Error{StatusCode: 500, Payload: json.RawMessage(`[{"message":"boom"}]`)}
	q := &stubQuerier{err: remote}
	_, err := NewExecutor(q, nil).Call(context.Background(), "list_products", nil)
	assert.True(t, errors.Is(err, remote))
	assert.Len(t, q.calls, 1, "no retry")
}

func TestUpdateVariantPriceSuccess(t *testing.T) {
	q := &stubQuerier{data: `{"productVariantUpdate":{"productVariant":{"id":"gid://shopify/ProductVariant/1","price":"19.99"},"userErrors":[]}}`}
	got, err := NewExecutor(q, nil).Call(context.Background(), "update_variant_price", map[string]any{
		"variantId": "gid://shopify/ProductVariant/1",
		"price":     "19.99",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"gid://shopify/ProductVariant/1","price":"19.99"}`, string(got.(json.RawMessage)))

	require.Len(t, q.calls, 1)
	assert.Equal(t, shopify.UpdateVariantPriceMutation, q.calls[0].document)
	assert.Equal(t, map[string]any{"variantId": "gid://shopify/ProductVariant/1", "price": "19.99"}, q.calls[0].variables)
}

func TestUpdateVariantPriceUserErrors(t *testing.T) {
	q := &stubQuerier{data: `{"productVariantUpdate":{"productVariant":null,"userErrors":[{"field":["price"],"message":"Price must be greater than or equal to 0"}]}}`}
	_, err := NewExecutor(q, nil).Call(context.Background(), "update_variant_price", map[string]any{
		"variantId": "gid://shopify/ProductVariant/1",
		"price":     "5",
	})
	var ue *UserErrors
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, `UserErrors: [{"field":["price"],"message":"Price must be greater than or equal to 0"}]`, err.Error())
}

func TestUpdateVariantPriceValidatesArguments(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing variant", map[string]any{"price": "1.00"}},
		{"empty variant", map[string]any{"variantId": "", "price": "1.00"}},
		{"missing price", map[string]any{"variantId": "gid://shopify/ProductVariant/1"}},
		{"numeric price", map[string]any{"variantId": "gid://shopify/ProductVariant/1", "price": 1.5}},
		{"one decimal", map[string]any{"variantId": "gid://shopify/ProductVariant/1", "price": "1.5"}},
		{"negative", map[string]any{"variantId": "gid://shopify/ProductVariant/1", "price": "-1.00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &stubQuerier{}
			_, err := NewExecutor(q, nil).Call(context.Background(), "update_variant_price", tt.args)
			var argErr *ArgumentError
			require.ErrorAs(t, err, &argErr)
			assert.Equal(t, UpdateVariantPrice, argErr.Tool)
			assert.Empty(t, q.calls)
		})
	}
}

func TestRepeatedMutationReExecutes(t *testing.T) {
	q := &stubQuerier{data: `{"productVariantUpdate":{"productVariant":{"id":"v","price":"2.00"},"userErrors":[]}}`}
	e := NewExecutor(q, nil)
	args := map[string]any{"variantId": "v", "price": "2.00"}
	for i := 0; i < 2; i++ {
		_, err := e.Call(context.Background(), "update_variant_price", args)
		require.NoError(t, err)
	}
	assert.Len(t, q.calls, 2)
}
