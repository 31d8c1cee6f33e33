package tools

import "fmt"

// UnknownToolError is returned for a tool name that is not registered.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return "Unknown tool: " + e.Name
}

// ArgumentError is returned when call arguments violate the tool's input schema.
type ArgumentError struct {
	Tool ToolID
	Err  error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %v", e.Tool, e.Err)
}

func (e *ArgumentError) Unwrap() error { return e.Err }

// UserErrors is a mutation rejected by Shopify business rules inside an
// otherwise successful response. Payload is the serialized userErrors array.
type UserErrors struct {
	Payload []byte
}

func (e *UserErrors) Error() string {
	return "UserErrors: " + string(e.Payload)
}
