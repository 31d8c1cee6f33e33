package tools

import "github.com/mark3labs/mcp-go/mcp"

const (
	minFirst     = 1
	maxFirst     = 50
	defaultFirst = 10

	pricePattern = `^[0-9]+(\.[0-9]{2})?$`
)

// List returns the tool descriptors in their advertised order. The schemas
// are metadata only; Executor enforces them when a tool is called.
func List() []mcp.Tool {
	out := make([]mcp.Tool, 0, len(All))
	for _, id := range All {
		out = append(out, Descriptor(id))
	}
	return out
}

// Descriptor returns the descriptor for one tool.
func Descriptor(id ToolID) mcp.Tool {
	switch id {
	case ListProducts:
		return mcp.Tool{
			Name:        id.String(),
			Description: "List first N products (id, title, status).",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"first": map[string]any{
						"type":    "integer",
						"minimum": minFirst,
						"maximum": maxFirst,
						"default": defaultFirst,
					},
				},
				Required: []string{},
			},
		}
	case UpdateVariantPrice:
		return mcp.Tool{
			Name:        id.String(),
			Description: "Update a variant's price by variant GID (gid://shopify/ProductVariant/...).",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"variantId": map[string]any{"type": "string"},
					"price":     map[string]any{"type": "string", "pattern": pricePattern},
				},
				Required: []string{"variantId", "price"},
			},
		}
	}
	return mcp.Tool{}
}
