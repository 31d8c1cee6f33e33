// Package tools declares the callable tool set and executes tool calls
// against the Shopify admin API.
package tools

// ToolID enumerates every tool this server exposes.
type ToolID int

const (
	ListProducts ToolID = iota + 1
	UpdateVariantPrice
)

// All lists every ToolID in the order tools are advertised.
var All = []ToolID{ListProducts, UpdateVariantPrice}

var toolNames = map[ToolID]string{
	ListProducts:       "list_products",
	UpdateVariantPrice: "update_variant_price",
}

// String returns the wire name of the tool.
func (id ToolID) String() string {
	if name, ok := toolNames[id]; ok {
		return name
	}
	return "unknown"
}

// ParseToolID maps a wire name to its ToolID. Unknown names yield *UnknownToolError.
func ParseToolID(name string) (ToolID, error) {
	for _, id := range All {
		if toolNames[id] == name {
			return id, nil
		}
	}
	return 0, &UnknownToolError{Name: name}
}
