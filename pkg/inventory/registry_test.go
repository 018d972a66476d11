package inventory

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testToolsetA = ToolsetMetadata{ID: "alpha", Description: "Alpha tools", Default: true}
	testToolsetB = ToolsetMetadata{ID: "beta", Description: "Beta tools"}
)

func makeTool(name string, toolset ToolsetMetadata, readOnly bool) ServerTool {
	return ServerTool{
		Tool: mcp.Tool{
			Name:        name,
			Annotations: &mcp.ToolAnnotations{ReadOnlyHint: readOnly},
		},
		Toolset: toolset,
		HandlerFunc: func(_ any) mcp.ToolHandler {
			return func(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return &mcp.CallToolResult{}, nil
			}
		},
	}
}

func testTools() []ServerTool {
	return []ServerTool{
		makeTool("alpha_read", testToolsetA, true),
		makeTool("alpha_write", testToolsetA, false),
		makeTool("beta_read", testToolsetB, true),
	}
}

func availableNames(t *testing.T, inv *Inventory) []string {
	t.Helper()
	tools := inv.AvailableTools(context.Background())
	names := make([]string, 0, len(tools))
	for _, st := range tools {
		names = append(names, st.Tool.Name)
	}
	return names
}

func Test_Builder_DefaultToolsets(t *testing.T) {
	t.Parallel()

	inv := NewBuilder().SetTools(testTools()).Build()

	// nil toolsets means defaults: only alpha is marked Default.
	assert.Equal(t, []string{"alpha_read", "alpha_write"}, availableNames(t, inv))
	assert.Equal(t, []ToolsetID{"alpha"}, inv.DefaultToolsetIDs())
}

func Test_Builder_ExplicitToolsets(t *testing.T) {
	t.Parallel()

	inv := NewBuilder().SetTools(testTools()).WithToolsets([]string{"beta"}).Build()

	assert.Equal(t, []string{"beta_read"}, availableNames(t, inv))
	assert.False(t, inv.IsToolsetEnabled("alpha"))
	assert.True(t, inv.IsToolsetEnabled("beta"))
}

func Test_Builder_AllToolsets(t *testing.T) {
	t.Parallel()

	inv := NewBuilder().SetTools(testTools()).WithToolsets([]string{"all"}).Build()

	assert.Len(t, availableNames(t, inv), 3)
}

func Test_Builder_EmptyToolsets(t *testing.T) {
	t.Parallel()

	inv := NewBuilder().SetTools(testTools()).WithToolsets([]string{}).Build()

	assert.Empty(t, availableNames(t, inv))
}

func Test_Builder_ReadOnly(t *testing.T) {
	t.Parallel()

	inv := NewBuilder().SetTools(testTools()).WithToolsets([]string{"all"}).WithReadOnly(true).Build()

	assert.Equal(t, []string{"alpha_read", "beta_read"}, availableNames(t, inv))
}

func Test_Builder_AdditionalToolsBypassToolsetFilter(t *testing.T) {
	t.Parallel()

	inv := NewBuilder().
		SetTools(testTools()).
		WithToolsets([]string{}).
		WithTools([]string{"beta_read"}).
		Build()

	assert.Equal(t, []string{"beta_read"}, availableNames(t, inv))
}

func Test_Builder_AdditionalToolsResolveAliases(t *testing.T) {
	t.Parallel()

	inv := NewBuilder().
		SetTools(testTools()).
		WithDeprecatedAliases(map[string]string{"beta-read": "beta_read"}).
		WithToolsets([]string{}).
		WithTools([]string{"beta-read"}).
		Build()

	assert.Equal(t, []string{"beta_read"}, availableNames(t, inv))
}

func Test_Builder_UnrecognizedToolsets(t *testing.T) {
	t.Parallel()

	inv := NewBuilder().SetTools(testTools()).WithToolsets([]string{"alpha", "gamma"}).Build()

	assert.Equal(t, []string{"gamma"}, inv.UnrecognizedToolsets())
}

func Test_Builder_CustomFilter(t *testing.T) {
	t.Parallel()

	inv := NewBuilder().
		SetTools(testTools()).
		WithToolsets([]string{"all"}).
		WithFilter(func(_ context.Context, tool *ServerTool) (bool, error) {
			return tool.Tool.Name != "alpha_write", nil
		}).
		Build()

	assert.Equal(t, []string{"alpha_read", "beta_read"}, availableNames(t, inv))
}

func Test_Inventory_FindToolByName(t *testing.T) {
	t.Parallel()

	inv := NewBuilder().SetTools(testTools()).WithToolsets([]string{}).Build()

	// FindToolByName ignores filters: the tool exists even when disabled.
	tool, toolsetID, err := inv.FindToolByName("beta_read")
	require.NoError(t, err)
	assert.Equal(t, "beta_read", tool.Tool.Name)
	assert.Equal(t, ToolsetID("beta"), toolsetID)

	_, _, err = inv.FindToolByName("missing_tool")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing_tool")
}

func Test_Inventory_ResolveToolAliases(t *testing.T) {
	t.Parallel()

	inv := NewBuilder().
		SetTools(testTools()).
		WithDeprecatedAliases(map[string]string{"alpha-read": "alpha_read"}).
		Build()

	resolved, used := inv.ResolveToolAliases([]string{"alpha-read", "beta_read"})
	assert.Equal(t, []string{"alpha_read", "beta_read"}, resolved)
	assert.Equal(t, map[string]string{"alpha-read": "alpha_read"}, used)
}

func Test_Inventory_ToolsForToolset(t *testing.T) {
	t.Parallel()

	inv := NewBuilder().SetTools(testTools()).Build()

	tools := inv.ToolsForToolset("alpha")
	require.Len(t, tools, 2)
	assert.Equal(t, "alpha_read", tools[0].Tool.Name)
}

func Test_Inventory_AvailableToolsets(t *testing.T) {
	t.Parallel()

	inv := NewBuilder().SetTools(testTools()).Build()

	toolsets := inv.AvailableToolsets()
	require.Len(t, toolsets, 2)
	assert.Equal(t, ToolsetID("alpha"), toolsets[0].ID)
	assert.Equal(t, ToolsetID("beta"), toolsets[1].ID)

	excluded := inv.AvailableToolsets("beta")
	require.Len(t, excluded, 1)
	assert.Equal(t, ToolsetID("alpha"), excluded[0].ID)
}

func Test_Inventory_EnableToolset(t *testing.T) {
	t.Parallel()

	inv := NewBuilder().SetTools(testTools()).WithToolsets([]string{"alpha"}).Build()
	require.False(t, inv.IsToolsetEnabled("beta"))

	inv.EnableToolset("beta")
	assert.True(t, inv.IsToolsetEnabled("beta"))
	assert.Contains(t, availableNames(t, inv), "beta_read")
}

func Test_ServerTool_IsReadOnly(t *testing.T) {
	t.Parallel()

	readOnly := makeTool("x", testToolsetA, true)
	assert.True(t, readOnly.IsReadOnly())
	writable := makeTool("x", testToolsetA, false)
	assert.False(t, writable.IsReadOnly())

	noAnnotations := ServerTool{Tool: mcp.Tool{Name: "x"}}
	assert.False(t, noAnnotations.IsReadOnly())
}
