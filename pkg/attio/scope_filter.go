package attio

import (
	"context"

	"github.com/attio/attio-mcp-server/pkg/inventory"
	"github.com/attio/attio-mcp-server/pkg/scopes"
)

// CreateToolScopeFilter creates an inventory.ToolFilter that hides tools the
// token cannot use. Attio access tokens carry a fixed scope set granted at
// creation, so filtering once at startup is enough for stdio servers.
//
// The filter returns true (include tool) if:
//   - The tool has no scope requirements (AcceptedScopes is empty)
//   - The token has at least one of the tool's accepted scopes
//
// Example usage:
//
//	tokenScopes, err := scopes.FetchTokenScopes(ctx, token)
//	if err != nil {
//	    // Handle error - maybe skip filtering
//	}
//	filter := attio.CreateToolScopeFilter(tokenScopes)
//	inv := attio.NewInventory(registry).WithFilter(filter).Build()
func CreateToolScopeFilter(tokenScopes []string) inventory.ToolFilter {
	return func(_ context.Context, tool *inventory.ServerTool) (bool, error) {
		return scopes.HasRequiredScopes(tokenScopes, tool.AcceptedScopes), nil
	}
}
