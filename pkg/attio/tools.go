package attio

import (
	"github.com/attio/attio-mcp-server/pkg/inventory"
)

// Toolset metadata for each tool family. Tools are self-describing: each
// carries its toolset membership, and read-only status comes from its
// annotations.
var (
	ToolsetMetadataRecords = inventory.ToolsetMetadata{
		ID:          "records",
		Description: "Search, read, create, update and delete CRM records (companies, people, deals, ...)",
		Default:     true,
	}
	ToolsetMetadataTasks = inventory.ToolsetMetadata{
		ID:          "tasks",
		Description: "Manage workspace tasks",
		Default:     true,
	}
	ToolsetMetadataNotes = inventory.ToolsetMetadata{
		ID:          "notes",
		Description: "Read and attach notes on CRM records",
		Default:     true,
	}
	ToolsetMetadataLists = inventory.ToolsetMetadata{
		ID:          "lists",
		Description: "Manage lists and list entries",
		Default:     true,
	}
	ToolsetMetadataDiagnostics = inventory.ToolsetMetadata{
		ID:          "diagnostics",
		Description: "Server diagnostics: alias migration stats and tool discovery",
		Default:     false,
	}
)

// AllTools returns every tool this server can expose. Filtering by toolset
// and read-only mode happens in the inventory.
func AllTools() []inventory.ServerTool {
	return []inventory.ServerTool{
		// records
		SearchRecords(),
		GetRecord(),
		CreateRecord(),
		UpdateRecord(),
		DeleteRecord(),
		// tasks
		ListTasks(),
		CreateTask(),
		UpdateTask(),
		DeleteTask(),
		// notes
		ListNotes(),
		CreateNote(),
		DeleteNote(),
		// lists
		ListLists(),
		GetListEntries(),
		AddListEntry(),
		RemoveListEntry(),
		// diagnostics
		GetMigrationStats(),
		FindTools(),
	}
}

// CanonicalToolNames returns the canonical tool name set, the ground truth
// the resolver and alias registry are validated against.
func CanonicalToolNames() []string {
	tools := AllTools()
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Tool.Name)
	}
	return names
}

// NewInventory creates an inventory builder preloaded with all tools,
// resources, and the deprecated alias map.
func NewInventory(registry *AliasRegistry) *inventory.Builder {
	b := inventory.NewBuilder().
		SetTools(AllTools()).
		SetResources(AllResources())
	if registry != nil {
		b.WithDeprecatedAliases(registry.AliasMap())
	}
	return b
}
