// Package inventory holds the table of tools and resource templates exposed
// by the server, with toolset and read-only filtering applied at build time.
// The Inventory is immutable after Build() apart from dynamic toolset
// enabling; tool name resolution against deprecated aliases happens in the
// attio package, which owns the full alias registry with metadata.
package inventory

import (
	"context"
	"slices"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Inventory holds a collection of tools and resource templates with
// filtering applied. Create one using Builder.
type Inventory struct {
	// tools holds all tools in this group (ordered for iteration)
	tools []ServerTool
	// resourceTemplates holds all resource templates in this group
	resourceTemplates []ServerResourceTemplate
	// deprecatedAliases maps old tool names to new canonical names
	deprecatedAliases map[string]string

	// Pre-computed toolset metadata (set during Build)
	toolsetIDs          []ToolsetID
	toolsetIDSet        map[ToolsetID]bool
	defaultToolsetIDs   []ToolsetID
	toolsetDescriptions map[ToolsetID]string

	// Filters - these control what's returned by Available* methods
	readOnly        bool
	enabledToolsets map[ToolsetID]bool // nil means all enabled
	additionalTools map[string]bool
	filters         []ToolFilter

	// unrecognizedToolsets holds requested toolset IDs that matched nothing
	unrecognizedToolsets []string
}

// UnrecognizedToolsets returns toolset IDs passed to WithToolsets that don't
// match any registered toolsets. Useful for warning users about typos.
func (r *Inventory) UnrecognizedToolsets() []string {
	return r.unrecognizedToolsets
}

// ToolsetIDs returns a sorted list of unique toolset IDs from all tools.
func (r *Inventory) ToolsetIDs() []ToolsetID {
	return r.toolsetIDs
}

// DefaultToolsetIDs returns the IDs of toolsets marked as Default,
// in sorted order for deterministic output.
func (r *Inventory) DefaultToolsetIDs() []ToolsetID {
	return r.defaultToolsetIDs
}

// ToolsetDescriptions returns a map of toolset ID to description.
func (r *Inventory) ToolsetDescriptions() map[ToolsetID]string {
	return r.toolsetDescriptions
}

// HasToolset checks if any tool or resource belongs to the given toolset.
func (r *Inventory) HasToolset(toolsetID ToolsetID) bool {
	return r.toolsetIDSet[toolsetID]
}

// isToolsetEnabled checks if a toolset is enabled based on current filters.
func (r *Inventory) isToolsetEnabled(toolsetID ToolsetID) bool {
	if r.enabledToolsets != nil {
		return r.enabledToolsets[toolsetID]
	}
	return true
}

// IsToolsetEnabled checks if a toolset is currently enabled based on filters.
func (r *Inventory) IsToolsetEnabled(toolsetID ToolsetID) bool {
	return r.isToolsetEnabled(toolsetID)
}

// EnableToolset marks a toolset as enabled in this inventory.
func (r *Inventory) EnableToolset(toolsetID ToolsetID) {
	if r.enabledToolsets == nil {
		// nil means all enabled, nothing to do
		return
	}
	r.enabledToolsets[toolsetID] = true
}

// EnabledToolsetIDs returns the enabled toolset IDs, or all IDs when no
// filter is set.
func (r *Inventory) EnabledToolsetIDs() []ToolsetID {
	if r.enabledToolsets == nil {
		return r.ToolsetIDs()
	}
	ids := make([]ToolsetID, 0, len(r.enabledToolsets))
	for id := range r.enabledToolsets {
		if r.HasToolset(id) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// isToolEnabled checks if a specific tool is enabled based on current filters.
// Order: read-only filter, builder filters, additional tools, toolset filter.
func (r *Inventory) isToolEnabled(ctx context.Context, tool *ServerTool) bool {
	if r.readOnly && !tool.IsReadOnly() {
		return false
	}
	for _, filter := range r.filters {
		allowed, err := filter(ctx, tool)
		if err != nil || !allowed {
			return false
		}
	}
	if r.additionalTools != nil && r.additionalTools[tool.Tool.Name] {
		return true
	}
	return r.isToolsetEnabled(tool.Toolset.ID)
}

// AvailableTools returns the tools that pass all current filters,
// sorted deterministically by toolset ID, then tool name.
func (r *Inventory) AvailableTools(ctx context.Context) []ServerTool {
	var result []ServerTool
	for i := range r.tools {
		tool := &r.tools[i]
		if r.isToolEnabled(ctx, tool) {
			result = append(result, *tool)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Toolset.ID != result[j].Toolset.ID {
			return result[i].Toolset.ID < result[j].Toolset.ID
		}
		return result[i].Tool.Name < result[j].Tool.Name
	})
	return result
}

// AvailableResourceTemplates returns resource templates that pass all
// current filters, sorted by toolset ID then template name.
func (r *Inventory) AvailableResourceTemplates(_ context.Context) []ServerResourceTemplate {
	var result []ServerResourceTemplate
	for i := range r.resourceTemplates {
		res := &r.resourceTemplates[i]
		if r.isToolsetEnabled(res.Toolset.ID) {
			result = append(result, *res)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Toolset.ID != result[j].Toolset.ID {
			return result[i].Toolset.ID < result[j].Toolset.ID
		}
		return result[i].Template.Name < result[j].Template.Name
	})
	return result
}

// AllTools returns all tools without any filtering, sorted deterministically.
func (r *Inventory) AllTools() []ServerTool {
	result := slices.Clone(r.tools)
	sort.Slice(result, func(i, j int) bool {
		if result[i].Toolset.ID != result[j].Toolset.ID {
			return result[i].Toolset.ID < result[j].Toolset.ID
		}
		return result[i].Tool.Name < result[j].Tool.Name
	})
	return result
}

// ToolsForToolset returns all tools belonging to a specific toolset.
// Bypasses the toolset enabled filter but still respects read-only.
func (r *Inventory) ToolsForToolset(toolsetID ToolsetID) []ServerTool {
	var result []ServerTool
	for i := range r.tools {
		tool := &r.tools[i]
		if tool.Toolset.ID != toolsetID {
			continue
		}
		if r.readOnly && !tool.IsReadOnly() {
			continue
		}
		result = append(result, *tool)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Tool.Name < result[j].Tool.Name
	})
	return result
}

// AvailableToolsets returns the unique toolsets that have tools, sorted by
// toolset ID. Optional exclude parameter filters out specific toolset IDs.
func (r *Inventory) AvailableToolsets(exclude ...ToolsetID) []ToolsetMetadata {
	tools := r.AllTools()
	if len(tools) == 0 {
		return nil
	}
	excludeSet := make(map[ToolsetID]bool, len(exclude))
	for _, id := range exclude {
		excludeSet[id] = true
	}
	var result []ToolsetMetadata
	var lastID ToolsetID
	for _, tool := range tools {
		if tool.Toolset.ID != lastID {
			lastID = tool.Toolset.ID
			if !excludeSet[lastID] {
				result = append(result, tool.Toolset)
			}
		}
	}
	return result
}

// ResolveToolAliases resolves deprecated tool aliases in a user-supplied
// tool selection to their canonical names.
// Returns:
//   - resolved: tool names with aliases replaced by canonical names
//   - aliasesUsed: map of oldName → newName for each alias that was resolved
func (r *Inventory) ResolveToolAliases(toolNames []string) (resolved []string, aliasesUsed map[string]string) {
	resolved = make([]string, 0, len(toolNames))
	aliasesUsed = make(map[string]string)
	for _, toolName := range toolNames {
		if canonicalName, isAlias := r.deprecatedAliases[toolName]; isAlias {
			aliasesUsed[toolName] = canonicalName
			resolved = append(resolved, canonicalName)
		} else {
			resolved = append(resolved, toolName)
		}
	}
	return resolved, aliasesUsed
}

// FindToolByName searches all tools for one matching the given name.
// Returns the tool, its toolset ID, and an error if not found.
// This searches ALL tools regardless of filters.
func (r *Inventory) FindToolByName(toolName string) (*ServerTool, ToolsetID, error) {
	for i := range r.tools {
		if r.tools[i].Tool.Name == toolName {
			return &r.tools[i], r.tools[i].Toolset.ID, nil
		}
	}
	return nil, "", NewToolDoesNotExistError(toolName)
}

// RegisterTools registers all available tools with the server using the
// provided dependencies.
func (r *Inventory) RegisterTools(ctx context.Context, s *mcp.Server, deps any) {
	for _, tool := range r.AvailableTools(ctx) {
		tool.RegisterFunc(s, deps)
	}
}

// RegisterResourceTemplates registers all available resource templates.
func (r *Inventory) RegisterResourceTemplates(ctx context.Context, s *mcp.Server, deps any) {
	for _, res := range r.AvailableResourceTemplates(ctx) {
		templateCopy := res.Template
		s.AddResourceTemplate(&templateCopy, res.Handler(deps))
	}
}

// RegisterAll registers all available tools and resource templates.
func (r *Inventory) RegisterAll(ctx context.Context, s *mcp.Server, deps any) {
	r.RegisterTools(ctx, s, deps)
	r.RegisterResourceTemplates(ctx, s, deps)
}
