package scopes

import (
	"sort"
	"strings"
)

// Scope represents an Attio access token scope. Each scope names a permission
// area and an access level, e.g. "record_permission:read-write".
// See https://developers.attio.com/docs/scopes
type Scope string

const (
	// NoScope indicates no scope is required.
	NoScope Scope = ""

	// RecordRead grants read access to records across objects.
	RecordRead Scope = "record_permission:read"

	// RecordReadWrite grants read and write access to records.
	RecordReadWrite Scope = "record_permission:read-write"

	// ObjectConfigurationRead grants read access to object and attribute configuration.
	ObjectConfigurationRead Scope = "object_configuration:read"

	// NoteRead grants read access to notes.
	NoteRead Scope = "note:read"

	// NoteReadWrite grants read and write access to notes.
	NoteReadWrite Scope = "note:read-write"

	// TaskRead grants read access to tasks.
	TaskRead Scope = "task:read"

	// TaskReadWrite grants read and write access to tasks.
	TaskReadWrite Scope = "task:read-write"

	// ListConfigurationRead grants read access to list configuration.
	ListConfigurationRead Scope = "list_configuration:read"

	// ListEntryRead grants read access to list entries.
	ListEntryRead Scope = "list_entry:read"

	// ListEntryReadWrite grants read and write access to list entries.
	ListEntryReadWrite Scope = "list_entry:read-write"

	// UserManagementRead grants read access to workspace members.
	UserManagementRead Scope = "user_management:read"
)

// ScopeHierarchy defines which scopes implicitly grant others. A read-write
// scope on a permission area grants the read scope on the same area.
var ScopeHierarchy = map[Scope][]Scope{
	RecordReadWrite:    {RecordRead},
	NoteReadWrite:      {NoteRead},
	TaskReadWrite:      {TaskRead},
	ListEntryReadWrite: {ListEntryRead},
}

// ScopeSet represents a set of token scopes.
type ScopeSet map[Scope]bool

// NewScopeSet creates a new ScopeSet from the given scopes.
func NewScopeSet(scopes ...Scope) ScopeSet {
	set := make(ScopeSet)
	for _, scope := range scopes {
		set[scope] = true
	}
	return set
}

// ToSlice converts a ScopeSet to a sorted slice of Scope values.
func (s ScopeSet) ToSlice() []Scope {
	scopes := make([]Scope, 0, len(s))
	for scope := range s {
		scopes = append(scopes, scope)
	}
	sort.Slice(scopes, func(i, j int) bool {
		return scopes[i] < scopes[j]
	})
	return scopes
}

// ToStringSlice converts a ScopeSet to a sorted slice of string values.
func (s ScopeSet) ToStringSlice() []string {
	scopes := make([]string, 0, len(s))
	for scope := range s {
		scopes = append(scopes, string(scope))
	}
	sort.Strings(scopes)
	return scopes
}

// ToStringSlice converts a slice of Scopes to a slice of strings.
func ToStringSlice(scopes ...Scope) []string {
	result := make([]string, len(scopes))
	for i, scope := range scopes {
		result[i] = string(scope)
	}
	return result
}

// Area returns the permission area of a scope, the part before the colon.
func (s Scope) Area() string {
	area, _, _ := strings.Cut(string(s), ":")
	return area
}

// ExpandScopes takes a list of required scopes and returns all accepted
// scopes, including scopes that grant the required ones via the hierarchy.
// If "task:read" is required, "task:read-write" is also accepted.
// The returned slice is sorted for deterministic output.
func ExpandScopes(required ...Scope) []string {
	if len(required) == 0 {
		return nil
	}

	accepted := make(map[string]bool)
	for _, scope := range required {
		accepted[string(scope)] = true
	}
	for parent, children := range ScopeHierarchy {
		for _, child := range children {
			if accepted[string(child)] {
				accepted[string(parent)] = true
			}
		}
	}

	result := make([]string, 0, len(accepted))
	for scope := range accepted {
		result = append(result, scope)
	}
	sort.Strings(result)
	return result
}

// expandScopeSet returns the set of all scopes granted by the given scopes,
// including scopes implied by the hierarchy. "task:read-write" grants
// "task:read" as well as itself.
func expandScopeSet(scopes []string) map[string]bool {
	expanded := make(map[string]bool, len(scopes))
	for _, scope := range scopes {
		expanded[scope] = true
		if children, ok := ScopeHierarchy[Scope(scope)]; ok {
			for _, child := range children {
				expanded[string(child)] = true
			}
		}
	}
	return expanded
}

// HasRequiredScopes checks if tokenScopes satisfy the acceptedScopes
// requirement. A tool's acceptedScopes includes both the required scopes and
// the stronger scopes that imply them (via ExpandScopes).
//
// If ANY of the acceptedScopes are granted by the token, directly or through
// the hierarchy, the tool should be visible.
func HasRequiredScopes(tokenScopes []string, acceptedScopes []string) bool {
	if len(acceptedScopes) == 0 {
		return true
	}

	granted := expandScopeSet(tokenScopes)
	for _, accepted := range acceptedScopes {
		if granted[accepted] {
			return true
		}
	}
	return false
}
