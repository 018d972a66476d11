package attio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewAliasRegistry_ValidatesDefinitions(t *testing.T) {
	t.Parallel()

	canonical := map[string]bool{
		"search_records": true,
		"get_record":     true,
	}

	tests := []struct {
		name        string
		defs        []AliasDefinition
		expectError string
	}{
		{
			name: "valid definitions",
			defs: []AliasDefinition{
				{Alias: "search-records", Target: "search_records", RemovedIn: "v2.0.0"},
				{Alias: "records_search", Target: "search_records", RemovedIn: "v2.0.0"},
			},
		},
		{
			name:        "alias targets itself",
			defs:        []AliasDefinition{{Alias: "search_records", Target: "search_records"}},
			expectError: "targets itself",
		},
		{
			name: "duplicate alias key",
			defs: []AliasDefinition{
				{Alias: "search-records", Target: "search_records"},
				{Alias: "search-records", Target: "get_record"},
			},
			expectError: "duplicate alias key",
		},
		{
			name:        "target is not canonical",
			defs:        []AliasDefinition{{Alias: "find-records", Target: "find_records"}},
			expectError: "targets unknown tool",
		},
		{
			name:        "alias shadows a canonical name",
			defs:        []AliasDefinition{{Alias: "get_record", Target: "search_records"}},
			expectError: "shadows a canonical tool name",
		},
		{
			name:        "empty alias",
			defs:        []AliasDefinition{{Alias: "", Target: "search_records"}},
			expectError: "empty alias or target",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			registry, err := NewAliasRegistry(tc.defs, canonical)
			if tc.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectError)
				assert.Nil(t, registry)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tc.defs), registry.Len())
		})
	}
}

func Test_NewAliasRegistry_RejectsChains(t *testing.T) {
	t.Parallel()

	// Without a canonical set, chain detection is the only guard keeping
	// resolution single-hop.
	defs := []AliasDefinition{
		{Alias: "oldest-name", Target: "old-name"},
		{Alias: "old-name", Target: "search_records"},
	}

	registry, err := NewAliasRegistry(defs, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "which is itself an alias")
	assert.Nil(t, registry)
}

func Test_AliasRegistry_Lookup(t *testing.T) {
	t.Parallel()

	registry := testAliasRegistry(t)

	def, ok := registry.Lookup("search-records")
	require.True(t, ok)
	assert.Equal(t, "search_records", def.Target)
	assert.Equal(t, "v2.0.0", def.RemovedIn)

	_, ok = registry.Lookup("search_records")
	assert.False(t, ok, "canonical names are not aliases")

	_, ok = registry.Lookup("frobnicate-record")
	assert.False(t, ok)
}

func Test_AliasRegistry_AllIsSorted(t *testing.T) {
	t.Parallel()

	registry := testAliasRegistry(t)

	defs := registry.All()
	require.Len(t, defs, len(DeprecatedToolAliases))
	for i := 1; i < len(defs); i++ {
		assert.Less(t, defs[i-1].Alias, defs[i].Alias)
	}
}

func Test_ShippedAliasTableIsValid(t *testing.T) {
	t.Parallel()

	// The production alias table must construct cleanly against the
	// production canonical set. A failure here is a startup failure.
	registry := testAliasRegistry(t)
	assert.Equal(t, len(DeprecatedToolAliases), registry.Len())

	aliasMap := registry.AliasMap()
	assert.Equal(t, "search_records", aliasMap["records_search"])
	assert.Equal(t, "list_lists", aliasMap["get-lists"])
}

// testAliasRegistry builds the shipped alias table against the shipped
// canonical tool set.
func testAliasRegistry(t *testing.T) *AliasRegistry {
	t.Helper()

	canonical := make(map[string]bool)
	for _, name := range CanonicalToolNames() {
		canonical[name] = true
	}
	registry, err := NewAliasRegistry(DeprecatedToolAliases, canonical)
	require.NoError(t, err)
	return registry
}
