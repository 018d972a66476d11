package attio

import (
	"fmt"
	"sort"
	"strings"
)

// ResourceType identifies which entity family a record operation targets.
// The enum is closed: every externally-observed designation, including
// historical synonyms, must canonicalize to exactly one member before it
// reaches a handler.
type ResourceType string

const (
	ResourceTypeCompanies ResourceType = "companies"
	ResourceTypePeople    ResourceType = "people"
	ResourceTypeDeals     ResourceType = "deals"
	ResourceTypeTasks     ResourceType = "tasks"
	ResourceTypeRecords   ResourceType = "records"
	ResourceTypeLists     ResourceType = "lists"
)

// resourceTypes is the canonical set, used for membership checks and error
// messages.
var resourceTypes = map[ResourceType]bool{
	ResourceTypeCompanies: true,
	ResourceTypePeople:    true,
	ResourceTypeDeals:     true,
	ResourceTypeTasks:     true,
	ResourceTypeRecords:   true,
	ResourceTypeLists:     true,
}

// resourceTypeSynonyms maps historical and alternate resource designations to
// the canonical enum. Kept separate from the enum itself so synonym
// resolution stays auditable independently of the canonical set.
//
// Policy: notes were never a first-class record kind downstream - the legacy
// top-level "notes" designation canonicalizes to the generic "records" kind.
// Lists remain first-class because dedicated list tools exist. Singular
// forms are synonyms of their plurals.
var resourceTypeSynonyms = map[string]ResourceType{
	"company":       ResourceTypeCompanies,
	"organization":  ResourceTypeCompanies,
	"organizations": ResourceTypeCompanies,
	"person":        ResourceTypePeople,
	"deal":          ResourceTypeDeals,
	"opportunity":   ResourceTypeDeals,
	"task":          ResourceTypeTasks,
	"record":        ResourceTypeRecords,
	"note":          ResourceTypeRecords,
	"notes":         ResourceTypeRecords,
	"list":          ResourceTypeLists,
}

// InvalidResourceTypeError reports a resource_type value that is in neither
// the canonical enum nor the synonym map. The message names the offending
// value and every accepted value so it stays actionable.
type InvalidResourceTypeError struct {
	Value    string
	Accepted []string
}

func (e *InvalidResourceTypeError) Error() string {
	return fmt.Sprintf("resource_type %q is invalid; expected one of: %s",
		e.Value, strings.Join(e.Accepted, ", "))
}

// AcceptedResourceTypeValues returns every accepted designation - the
// canonical enum members first, then the synonyms - each sorted.
func AcceptedResourceTypeValues() []string {
	canonical := make([]string, 0, len(resourceTypes))
	for rt := range resourceTypes {
		canonical = append(canonical, string(rt))
	}
	sort.Strings(canonical)

	synonyms := make([]string, 0, len(resourceTypeSynonyms))
	for s := range resourceTypeSynonyms {
		synonyms = append(synonyms, s)
	}
	sort.Strings(synonyms)

	return append(canonical, synonyms...)
}

// ResourceTypeEnum returns the canonical members as a JSON Schema enum.
// Synonyms are accepted at validation time but not advertised in schemas.
func ResourceTypeEnum() []any {
	canonical := make([]string, 0, len(resourceTypes))
	for rt := range resourceTypes {
		canonical = append(canonical, string(rt))
	}
	sort.Strings(canonical)
	enum := make([]any, len(canonical))
	for i, v := range canonical {
		enum[i] = v
	}
	return enum
}

// ValidateResourceType canonicalizes a resource designation. A value is
// accepted if it is a canonical enum member or a registered synonym; in the
// synonym case the mapped member is returned, never the original string.
// Historical implementations passed designations like "notes" straight
// through to handlers that only recognize a generic "records" kind, failing
// far from the cause; canonicalizing here removes that class of bug.
func ValidateResourceType(value string) (ResourceType, error) {
	rt := ResourceType(value)
	if resourceTypes[rt] {
		return rt, nil
	}
	if mapped, ok := resourceTypeSynonyms[value]; ok {
		return mapped, nil
	}
	return "", &InvalidResourceTypeError{
		Value:    value,
		Accepted: AcceptedResourceTypeValues(),
	}
}
