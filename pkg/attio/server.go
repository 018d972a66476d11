package attio

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer creates a new Attio MCP server.
func NewServer(version string, opts *mcp.ServerOptions) *mcp.Server {
	if opts == nil {
		opts = &mcp.ServerOptions{}
	}

	s := mcp.NewServer(&mcp.Implementation{
		Name:    "attio-mcp-server",
		Title:   "Attio MCP Server",
		Version: version,
	}, opts)

	return s
}

// RequiredParam fetches a required parameter from the request args.
// It does the following checks:
// 1. Checks if the parameter is present in the request.
// 2. Checks if the parameter is of the expected type.
// 3. Checks if the parameter is not empty, i.e: non-zero value
func RequiredParam[T comparable](args map[string]any, p string) (T, error) {
	var zero T

	if _, ok := args[p]; !ok {
		return zero, fmt.Errorf("missing required parameter: %s", p)
	}

	val, ok := args[p].(T)
	if !ok {
		return zero, fmt.Errorf("parameter %s is not of type %T", p, zero)
	}

	if val == zero {
		return zero, fmt.Errorf("missing required parameter: %s", p)
	}

	return val, nil
}

// OptionalParam fetches an optional parameter from the request args.
// It does the following checks:
// 1. Checks if the parameter is present in the request, if not, it returns its zero-value
// 2. If it is present, it checks if the parameter is of the expected type and returns it
func OptionalParam[T any](args map[string]any, p string) (T, error) {
	var zero T

	if _, ok := args[p]; !ok {
		return zero, nil
	}

	if _, ok := args[p].(T); !ok {
		return zero, fmt.Errorf("parameter %s is not of type %T, is %T", p, zero, args[p])
	}

	return args[p].(T), nil
}

// OptionalParamOK fetches a parameter along with a boolean indicating whether
// it was present, and an error if the type is wrong.
func OptionalParamOK[T any](args map[string]any, p string) (value T, ok bool, err error) {
	val, exists := args[p]
	if !exists {
		return
	}

	value, ok = val.(T)
	if !ok {
		err = fmt.Errorf("parameter %s is not of type %T, is %T", p, value, val)
		ok = true // the parameter *was* present, even if wrong type
		return
	}

	ok = true
	return
}

// OptionalIntParam fetches an optional integer parameter. JSON numbers
// arrive as float64; canonical payloads may already carry int after
// transformation, so both are accepted.
func OptionalIntParam(args map[string]any, p string) (int, error) {
	val, ok := args[p]
	if !ok {
		return 0, nil
	}
	switch n := val.(type) {
	case int:
		return n, nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("parameter %s is not of type number, is %T", p, val)
	}
}

// OptionalIntParamWithDefault fetches an optional integer parameter,
// returning d when the parameter is absent or zero.
func OptionalIntParamWithDefault(args map[string]any, p string, d int) (int, error) {
	v, err := OptionalIntParam(args, p)
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return d, nil
	}
	return v, nil
}

// OptionalBoolParamWithDefault fetches an optional boolean parameter,
// returning d when the parameter is absent.
func OptionalBoolParamWithDefault(args map[string]any, p string, d bool) (bool, error) {
	_, ok := args[p]
	v, err := OptionalParam[bool](args, p)
	if err != nil {
		return false, err
	}
	if !ok {
		return d, nil
	}
	return v, nil
}

// OptionalStringArrayParam fetches an optional string array parameter.
// It accepts []string directly and []any when every element is a string.
func OptionalStringArrayParam(args map[string]any, p string) ([]string, error) {
	if _, ok := args[p]; !ok {
		return []string{}, nil
	}

	switch v := args[p].(type) {
	case nil:
		return []string{}, nil
	case []string:
		return v, nil
	case []any:
		strSlice := make([]string, len(v))
		for i, v := range v {
			s, ok := v.(string)
			if !ok {
				return []string{}, fmt.Errorf("parameter %s is not of type string, is %T", p, v)
			}
			strSlice[i] = s
		}
		return strSlice, nil
	default:
		return []string{}, fmt.Errorf("parameter %s could not be coerced to []string, is %T", p, args[p])
	}
}

// OptionalObjectParam fetches an optional object parameter as a map.
func OptionalObjectParam(args map[string]any, p string) (map[string]any, error) {
	if _, ok := args[p]; !ok {
		return nil, nil
	}
	v, ok := args[p].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("parameter %s is not of type object, is %T", p, args[p])
	}
	return v, nil
}

// WithPagination adds Attio-style limit/offset pagination parameters to a
// tool schema.
func WithPagination(schema *jsonschema.Schema) *jsonschema.Schema {
	schema.Properties["limit"] = &jsonschema.Schema{
		Type:        "number",
		Description: "Maximum number of results to return (min 1, max 500, default 25)",
		Minimum:     jsonschema.Ptr(1.0),
		Maximum:     jsonschema.Ptr(500.0),
	}

	schema.Properties["offset"] = &jsonschema.Schema{
		Type:        "number",
		Description: "Number of results to skip for pagination (min 0)",
		Minimum:     jsonschema.Ptr(0.0),
	}

	return schema
}

// PaginationParams carries the resolved limit/offset pair.
type PaginationParams struct {
	Limit  int
	Offset int
}

// OptionalPaginationParams returns the "limit" and "offset" parameters from
// the request, or their defaults: limit 25, offset 0.
func OptionalPaginationParams(args map[string]any) (PaginationParams, error) {
	limit, err := OptionalIntParamWithDefault(args, "limit", 25)
	if err != nil {
		return PaginationParams{}, err
	}
	offset, err := OptionalIntParam(args, "offset")
	if err != nil {
		return PaginationParams{}, err
	}
	return PaginationParams{
		Limit:  limit,
		Offset: offset,
	}, nil
}
