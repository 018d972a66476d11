package attio

import (
	"context"

	"github.com/attio/attio-mcp-server/pkg/inventory"
	"github.com/attio/attio-mcp-server/pkg/tooldiscovery"
	"github.com/attio/attio-mcp-server/pkg/utils"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// GetMigrationStats creates a tool that reports alias migration telemetry:
// how many calls arrived under canonical names versus deprecated aliases.
func GetMigrationStats() inventory.ServerTool {
	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: map[string]*jsonschema.Schema{},
	}

	return NewTool(
		ToolsetMetadataDiagnostics,
		mcp.Tool{
			Name:        "get_migration_stats",
			Description: "Report how many tool calls used canonical names versus deprecated aliases, with per-alias counts.",
			Annotations: &mcp.ToolAnnotations{
				Title:        "Get migration stats",
				ReadOnlyHint: true,
			},
			InputSchema: schema,
		},
		func(_ context.Context, deps ToolDependencies, _ *mcp.CallToolRequest, _ map[string]any) (*mcp.CallToolResult, any, error) {
			telemetry := deps.GetTelemetry()
			if telemetry == nil {
				return utils.NewToolResultError("telemetry is not enabled on this server"), nil, nil
			}
			return utils.NewToolResultJSON(telemetry.Stats()), nil, nil
		},
	)
}

// FindTools creates a tool that searches the server's own tool catalog by
// free-text query.
func FindTools() inventory.ServerTool {
	schema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"query": {
				Type:        "string",
				Description: "Free-text description of the capability you are looking for",
			},
			"max_results": {
				Type:        "number",
				Description: "Maximum number of results to return",
			},
		},
		Required: []string{"query"},
	}

	return NewTool(
		ToolsetMetadataDiagnostics,
		mcp.Tool{
			Name:        "find_tools",
			Description: "Search this server's tool catalog for tools matching a free-text query.",
			Annotations: &mcp.ToolAnnotations{
				Title:        "Find tools",
				ReadOnlyHint: true,
			},
			InputSchema: schema,
		},
		func(_ context.Context, _ ToolDependencies, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
			query, err := RequiredParam[string](args, "query")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			maxResults, err := OptionalIntParamWithDefault(args, "max_results", tooldiscovery.DefaultMaxSearchResults)
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}

			catalog := AllTools()
			tools := make([]mcp.Tool, 0, len(catalog))
			for _, st := range catalog {
				tools = append(tools, st.Tool)
			}

			results, err := tooldiscovery.SearchTools(tools, query, tooldiscovery.SearchOptions{MaxResults: maxResults})
			if err != nil {
				return utils.NewToolResultErrorFromErr("tool search failed", err), nil, nil
			}

			return utils.NewToolResultJSON(results), nil, nil
		},
	)
}
