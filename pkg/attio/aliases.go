package attio

import (
	"fmt"
	"sort"
)

// AliasDefinition records one deprecated tool name and where it points.
// Every alias is enumerated explicitly - both kebab-case forms like
// "search-records" and noun-verb forms like "records_search" - so each
// carries its own removal metadata instead of being inferred from naming
// convention.
type AliasDefinition struct {
	// Alias is the deprecated tool name.
	Alias string `json:"alias"`
	// Target is the canonical tool name the alias resolves to. Must itself
	// be canonical: alias chains are rejected at construction.
	Target string `json:"target"`
	// RemovedIn is the release in which the alias stops being accepted.
	RemovedIn string `json:"removed_in"`
	// Reason explains why the rename happened.
	Reason string `json:"reason"`
}

// DeprecatedToolAliases maps old tool names to their canonical replacements.
// When tools are renamed, add an entry here to maintain backward
// compatibility. Callers using an old name receive the canonical tool with a
// deprecation advisory.
var DeprecatedToolAliases = []AliasDefinition{
	// Kebab-case tool names, replaced by snake_case in v1.0
	{Alias: "search-records", Target: "search_records", RemovedIn: "v2.0.0", Reason: "kebab-case tool names replaced by snake_case"},
	{Alias: "get-record-details", Target: "get_record", RemovedIn: "v2.0.0", Reason: "kebab-case tool names replaced by snake_case"},
	{Alias: "create-record", Target: "create_record", RemovedIn: "v2.0.0", Reason: "kebab-case tool names replaced by snake_case"},
	{Alias: "update-record", Target: "update_record", RemovedIn: "v2.0.0", Reason: "kebab-case tool names replaced by snake_case"},
	{Alias: "delete-record", Target: "delete_record", RemovedIn: "v2.0.0", Reason: "kebab-case tool names replaced by snake_case"},
	{Alias: "list-tasks", Target: "list_tasks", RemovedIn: "v2.0.0", Reason: "kebab-case tool names replaced by snake_case"},
	{Alias: "create-task", Target: "create_task", RemovedIn: "v2.0.0", Reason: "kebab-case tool names replaced by snake_case"},
	{Alias: "update-task", Target: "update_task", RemovedIn: "v2.0.0", Reason: "kebab-case tool names replaced by snake_case"},
	{Alias: "delete-task", Target: "delete_task", RemovedIn: "v2.0.0", Reason: "kebab-case tool names replaced by snake_case"},
	{Alias: "list-notes", Target: "list_notes", RemovedIn: "v2.0.0", Reason: "kebab-case tool names replaced by snake_case"},
	{Alias: "create-note", Target: "create_note", RemovedIn: "v2.0.0", Reason: "kebab-case tool names replaced by snake_case"},
	{Alias: "delete-note", Target: "delete_note", RemovedIn: "v2.0.0", Reason: "kebab-case tool names replaced by snake_case"},
	{Alias: "get-lists", Target: "list_lists", RemovedIn: "v2.0.0", Reason: "kebab-case tool names replaced by snake_case"},
	{Alias: "get-list-entries", Target: "get_list_entries", RemovedIn: "v2.0.0", Reason: "kebab-case tool names replaced by snake_case"},
	{Alias: "add-record-to-list", Target: "add_list_entry", RemovedIn: "v2.0.0", Reason: "kebab-case tool names replaced by snake_case"},
	{Alias: "remove-record-from-list", Target: "remove_list_entry", RemovedIn: "v2.0.0", Reason: "kebab-case tool names replaced by snake_case"},

	// Noun-verb tool names from the v0.x experiment, consolidated in v1.1
	{Alias: "records_search", Target: "search_records", RemovedIn: "v2.0.0", Reason: "noun-verb naming experiment rolled back"},
	{Alias: "records_get", Target: "get_record", RemovedIn: "v2.0.0", Reason: "noun-verb naming experiment rolled back"},
	{Alias: "records_create", Target: "create_record", RemovedIn: "v2.0.0", Reason: "noun-verb naming experiment rolled back"},
	{Alias: "records_update", Target: "update_record", RemovedIn: "v2.0.0", Reason: "noun-verb naming experiment rolled back"},
	{Alias: "records_delete", Target: "delete_record", RemovedIn: "v2.0.0", Reason: "noun-verb naming experiment rolled back"},
	{Alias: "tasks_list", Target: "list_tasks", RemovedIn: "v2.0.0", Reason: "noun-verb naming experiment rolled back"},
	{Alias: "tasks_create", Target: "create_task", RemovedIn: "v2.0.0", Reason: "noun-verb naming experiment rolled back"},
	{Alias: "notes_list", Target: "list_notes", RemovedIn: "v2.0.0", Reason: "noun-verb naming experiment rolled back"},
	{Alias: "notes_create", Target: "create_note", RemovedIn: "v2.0.0", Reason: "noun-verb naming experiment rolled back"},
	{Alias: "lists_entries_query", Target: "get_list_entries", RemovedIn: "v2.0.0", Reason: "noun-verb naming experiment rolled back"},
}

// AliasRegistry is an immutable lookup table from deprecated tool names to
// their definitions. Construct with NewAliasRegistry, which enforces the
// registry invariants before any traffic is served.
type AliasRegistry struct {
	byAlias map[string]AliasDefinition
}

// NewAliasRegistry builds a registry from defs, validated against the set of
// canonical tool names. It fails - and callers must treat that as a startup
// failure, not a runtime condition - when:
//   - an alias equals its own target
//   - two definitions share an alias key
//   - a target is not a canonical tool name
//   - a target is itself registered as an alias (would allow chains)
func NewAliasRegistry(defs []AliasDefinition, canonical map[string]bool) (*AliasRegistry, error) {
	byAlias := make(map[string]AliasDefinition, len(defs))
	for _, def := range defs {
		if def.Alias == "" || def.Target == "" {
			return nil, fmt.Errorf("alias registry: empty alias or target in %+v", def)
		}
		if def.Alias == def.Target {
			return nil, fmt.Errorf("alias registry: alias %q targets itself", def.Alias)
		}
		if _, dup := byAlias[def.Alias]; dup {
			return nil, fmt.Errorf("alias registry: duplicate alias key %q", def.Alias)
		}
		if canonical != nil && !canonical[def.Target] {
			return nil, fmt.Errorf("alias registry: alias %q targets unknown tool %q", def.Alias, def.Target)
		}
		if canonical != nil && canonical[def.Alias] {
			return nil, fmt.Errorf("alias registry: alias %q shadows a canonical tool name", def.Alias)
		}
		byAlias[def.Alias] = def
	}
	// No target may itself appear as an alias key: that would make
	// resolution multi-hop and order-dependent.
	for _, def := range byAlias {
		if chained, ok := byAlias[def.Target]; ok {
			return nil, fmt.Errorf("alias registry: alias %q targets %q which is itself an alias for %q",
				def.Alias, def.Target, chained.Target)
		}
	}
	return &AliasRegistry{byAlias: byAlias}, nil
}

// Lookup returns the definition for a deprecated name, if registered.
// O(1) exact-string lookup; no pattern inference.
func (r *AliasRegistry) Lookup(name string) (AliasDefinition, bool) {
	def, ok := r.byAlias[name]
	return def, ok
}

// All returns every alias definition sorted by alias name, for reporting.
func (r *AliasRegistry) All() []AliasDefinition {
	defs := make([]AliasDefinition, 0, len(r.byAlias))
	for _, def := range r.byAlias {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Alias < defs[j].Alias })
	return defs
}

// AliasMap returns a plain alias → target map, the shape the inventory
// builder consumes for tool selection resolution.
func (r *AliasRegistry) AliasMap() map[string]string {
	m := make(map[string]string, len(r.byAlias))
	for alias, def := range r.byAlias {
		m[alias] = def.Target
	}
	return m
}

// Len returns the number of registered aliases.
func (r *AliasRegistry) Len() int {
	return len(r.byAlias)
}
