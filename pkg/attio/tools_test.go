package attio

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_AllTools_NamesAreUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for _, st := range AllTools() {
		require.NotEmpty(t, st.Tool.Name)
		assert.False(t, seen[st.Tool.Name], "duplicate tool name %q", st.Tool.Name)
		seen[st.Tool.Name] = true
	}
}

func Test_AllTools_HaveDescriptionsAndSchemas(t *testing.T) {
	t.Parallel()

	for _, st := range AllTools() {
		assert.NotEmpty(t, st.Tool.Description, "tool %q has no description", st.Tool.Name)
		assert.NotNil(t, st.Tool.InputSchema, "tool %q has no input schema", st.Tool.Name)
		assert.NotEmpty(t, st.Toolset.ID, "tool %q has no toolset", st.Tool.Name)
		assert.True(t, st.HasHandler(), "tool %q has no handler", st.Tool.Name)
	}
}

func Test_AllTools_WriteToolsCarryWriteScopes(t *testing.T) {
	t.Parallel()

	// Diagnostics tools are local and carry no API scopes; everything else
	// must declare what token scopes make it usable.
	for _, st := range AllTools() {
		if st.Toolset.ID == ToolsetMetadataDiagnostics.ID {
			continue
		}
		assert.NotEmpty(t, st.AcceptedScopes, "tool %q declares no accepted scopes", st.Tool.Name)
	}
}

func Test_NewInventory_DefaultToolsets(t *testing.T) {
	t.Parallel()

	inv := NewInventory(testAliasRegistry(t)).Build()

	available := inv.AvailableTools(context.Background())
	names := make(map[string]bool, len(available))
	for _, st := range available {
		names[st.Tool.Name] = true
	}

	// Default toolsets cover the CRM surface; diagnostics is opt-in.
	assert.True(t, names["search_records"])
	assert.True(t, names["create_task"])
	assert.True(t, names["list_notes"])
	assert.True(t, names["add_list_entry"])
	assert.False(t, names["get_migration_stats"], "diagnostics must be opt-in")
	assert.False(t, names["find_tools"], "diagnostics must be opt-in")
}

func Test_NewInventory_ReadOnly(t *testing.T) {
	t.Parallel()

	inv := NewInventory(testAliasRegistry(t)).WithReadOnly(true).WithToolsets([]string{"all"}).Build()

	for _, st := range inv.AvailableTools(context.Background()) {
		assert.True(t, st.IsReadOnly(), "write tool %q available in read-only mode", st.Tool.Name)
	}
}

func Test_NewInventory_ResolvesAliasSelections(t *testing.T) {
	t.Parallel()

	inv := NewInventory(testAliasRegistry(t)).Build()

	resolved, aliasesUsed := inv.ResolveToolAliases([]string{"search-records", "get_record"})
	assert.Equal(t, []string{"search_records", "get_record"}, resolved)
	assert.Equal(t, map[string]string{"search-records": "search_records"}, aliasesUsed)
}

func Test_NewInventory_UnrecognizedToolsets(t *testing.T) {
	t.Parallel()

	inv := NewInventory(testAliasRegistry(t)).WithToolsets([]string{"records", "frobnicators"}).Build()

	assert.Equal(t, []string{"frobnicators"}, inv.UnrecognizedToolsets())
}
