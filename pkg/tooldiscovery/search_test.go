package tooldiscovery

import (
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

func TestSearchTools_EmptyQueryReturnsNil(t *testing.T) {
	results, err := SearchTools([]mcp.Tool{{Name: "list_tasks"}}, "   ")
	require.NoError(t, err)
	require.Nil(t, results)
}

func TestSearchTools_FindsByName(t *testing.T) {
	tools := []mcp.Tool{
		{Name: "list_tasks", Description: "List tasks"},
		{Name: "get_record", Description: "Get record"},
	}

	results, err := SearchTools(tools, "task", SearchOptions{MaxResults: 10})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	require.Equal(t, "list_tasks", results[0].Tool.Name)
}

func TestSearchTools_FindsByParameterName_JSONSchema(t *testing.T) {
	tools := []mcp.Tool{
		{
			Name:        "unrelated_tool",
			Description: "does something else",
			InputSchema: &jsonschema.Schema{Properties: map[string]*jsonschema.Schema{"record_id": {}}},
		},
	}

	results, err := SearchTools(tools, "record_id", SearchOptions{MaxResults: 10})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	require.Equal(t, "unrelated_tool", results[0].Tool.Name)
}

func TestSearchTools_FindsByParameterName_MapSchema(t *testing.T) {
	tools := []mcp.Tool{
		{
			Name:        "unrelated_tool",
			Description: "does something else",
			InputSchema: map[string]any{"properties": map[string]any{"resource_type": map[string]any{}}},
		},
	}

	results, err := SearchTools(tools, "resource_type", SearchOptions{MaxResults: 10})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	require.Equal(t, "unrelated_tool", results[0].Tool.Name)
}
