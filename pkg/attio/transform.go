package attio

import (
	"fmt"
	"strconv"
)

// coerceFunc converts a value whose legacy type differs from the canonical
// type. Coercions must be deterministic and leave already-canonical values
// untouched, so re-applying a transformation is a no-op.
type coerceFunc func(any) any

// transformRules declares, per resource family, how legacy parameter
// payloads reshape into the canonical schema the family's handler expects.
// Every field named in the table has a deterministic outcome; fields absent
// from the table pass through byte-for-byte unchanged.
type transformRules struct {
	// renames maps a legacy field name to its canonical name. When both
	// keys are present the canonical value wins; the legacy key is always
	// removed.
	renames map[string]string
	// defaults injects a value for a canonical field the handler requires
	// but legacy payloads omit. Applied only when the field is absent.
	defaults map[string]any
	// coercions convert a canonical field's value when its legacy type
	// differs from the canonical type. Keyed by canonical field name.
	coercions map[string]coerceFunc
	// drops lists fields no longer supported downstream; forwarding them
	// would trigger an opaque validation error far from the cause.
	drops []string
	// required lists canonical fields that must be present once renames and
	// defaults have been applied. A miss is a table-authoring defect
	// surfaced as a TransformationError.
	required []string
}

// noteToolsFamily keys the transformation table for the dedicated note
// tools. It is not a canonical enum member - a resource_type of "notes"
// still canonicalizes to records - but note tool payloads must not pick up
// the records-family defaults, so they get their own table.
const noteToolsFamily ResourceType = "notes"

// familyRules holds the transformation table for each resource family.
// Constructed once, read-only afterwards.
var familyRules = map[ResourceType]transformRules{
	ResourceTypeCompanies: {
		renames: map[string]string{
			"company_name":   "name",
			"primary_domain": "domains",
		},
		coercions: map[string]coerceFunc{
			"annual_revenue": coerceNumericString,
			"domains":        coerceStringSlice,
		},
		// company_type was retired when categories became select attributes
		drops: []string{"company_type"},
	},
	ResourceTypePeople: {
		renames: map[string]string{
			"email": "email_addresses",
			"phone": "phone_numbers",
		},
		coercions: map[string]coerceFunc{
			"email_addresses": coerceStringSlice,
			"phone_numbers":   coerceStringSlice,
		},
		drops: []string{"twitter"},
	},
	ResourceTypeDeals: {
		renames: map[string]string{
			"deal_stage": "stage",
			"deal_value": "value",
		},
		defaults: map[string]any{
			"currency": "USD",
		},
		coercions: map[string]coerceFunc{
			"value": coerceNumericString,
		},
	},
	ResourceTypeTasks: {
		renames: map[string]string{
			"due_date": "deadline_at",
			"title":    "content",
		},
		defaults: map[string]any{
			"format": "plaintext",
		},
		coercions: map[string]coerceFunc{
			"is_completed": coerceBool,
		},
		drops: []string{"assignee_email"},
	},
	noteToolsFamily: {
		coercions: map[string]coerceFunc{
			"limit":  coerceInt,
			"offset": coerceInt,
		},
	},
	ResourceTypeRecords: {
		renames: map[string]string{
			"filter": "filters",
		},
		defaults: map[string]any{
			// query became required in v1; old clients never sent it
			"query": "",
		},
		coercions: map[string]coerceFunc{
			"limit":  coerceInt,
			"offset": coerceInt,
		},
		drops:    []string{"match_type"},
		required: []string{"query"},
	},
	ResourceTypeLists: {
		renames: map[string]string{
			"list":          "list_id",
			"parent_record": "record_id",
		},
		coercions: map[string]coerceFunc{
			"limit":  coerceInt,
			"offset": coerceInt,
		},
	},
}

// TransformationError reports a required canonical field with no legacy
// source in the payload and no declared default. This is a table-authoring
// defect, not a normal runtime condition; ValidateTransformRules catches
// table-level versions of it at startup.
type TransformationError struct {
	Family ResourceType
	Field  string
}

func (e *TransformationError) Error() string {
	return fmt.Sprintf("cannot transform parameters for %q: required field %q has no source and no default",
		e.Family, e.Field)
}

// TransformParams reshapes a legacy parameter payload into the canonical
// schema for the given resource family. It is pure: the input map is never
// mutated, no I/O happens, and ordinary legacy shapes never error.
//
// Stages run in a fixed order so results are deterministic:
// rename, default injection, type coercion, unsupported-field stripping.
// The whole transformation is idempotent - re-applying it to its own output
// returns an equal map - because retried dispatch may apply it twice.
func TransformParams(family ResourceType, raw map[string]any) (map[string]any, error) {
	rules, ok := familyRules[family]
	if !ok {
		// No table for this family: pass through a copy unchanged.
		return copyParams(raw), nil
	}
	return applyRules(family, rules, raw)
}

func applyRules(family ResourceType, rules transformRules, raw map[string]any) (map[string]any, error) {
	out := copyParams(raw)

	// 1. Renames. Canonical key wins when both are present.
	for legacy, canonical := range rules.renames {
		val, ok := out[legacy]
		if !ok {
			continue
		}
		if _, exists := out[canonical]; !exists {
			out[canonical] = val
		}
		delete(out, legacy)
	}

	// 2. Default injection for fields legacy payloads omit.
	for field, def := range rules.defaults {
		if _, ok := out[field]; !ok {
			out[field] = def
		}
	}

	// 3. Type coercion. Coercers no-op on already-canonical values.
	for field, coerce := range rules.coercions {
		if val, ok := out[field]; ok {
			out[field] = coerce(val)
		}
	}

	// 4. Strip retired fields.
	for _, field := range rules.drops {
		delete(out, field)
	}

	for _, field := range rules.required {
		if _, ok := out[field]; !ok {
			return nil, &TransformationError{Family: family, Field: field}
		}
	}

	return out, nil
}

// ValidateTransformRules is the startup self-check over every family table.
// It fails fast on authoring defects that would otherwise surface as
// confusing per-call errors: rename targets that are being dropped,
// duplicate rename targets, coercions keyed by a legacy name, and required
// fields with neither a default nor a rename source.
func ValidateTransformRules() error {
	for family, rules := range familyRules {
		dropped := make(map[string]bool, len(rules.drops))
		for _, d := range rules.drops {
			dropped[d] = true
		}

		targets := make(map[string]string, len(rules.renames))
		for legacy, canonical := range rules.renames {
			if legacy == canonical {
				return fmt.Errorf("transform table %q: rename %q maps to itself", family, legacy)
			}
			if prior, dup := targets[canonical]; dup {
				return fmt.Errorf("transform table %q: renames %q and %q share target %q", family, prior, legacy, canonical)
			}
			targets[canonical] = legacy
			if dropped[canonical] {
				return fmt.Errorf("transform table %q: rename target %q is also dropped", family, canonical)
			}
			if _, ok := rules.coercions[legacy]; ok {
				return fmt.Errorf("transform table %q: coercion keyed by legacy name %q; key it by %q", family, legacy, canonical)
			}
		}

		for field := range rules.defaults {
			if dropped[field] {
				return fmt.Errorf("transform table %q: default for dropped field %q", family, field)
			}
		}

		for _, field := range rules.required {
			_, hasDefault := rules.defaults[field]
			_, hasSource := targets[field]
			if !hasDefault && !hasSource {
				return fmt.Errorf("transform table %q: required field %q has neither a default nor a rename source", family, field)
			}
			if dropped[field] {
				return fmt.Errorf("transform table %q: required field %q is dropped", family, field)
			}
		}
	}
	return nil
}

func copyParams(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// coerceNumericString renders numeric values as their string representation.
// Strings pass through so re-application is a no-op.
func coerceNumericString(v any) any {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	default:
		return v
	}
}

// coerceStringSlice lifts a scalar string into a single-element slice.
// JSON arrays arrive as []any; they are normalized to []string when every
// element is a string, otherwise left untouched.
func coerceStringSlice(v any) any {
	switch s := v.(type) {
	case string:
		return []string{s}
	case []string:
		return s
	case []any:
		out := make([]string, len(s))
		for i, elem := range s {
			str, ok := elem.(string)
			if !ok {
				return v
			}
			out[i] = str
		}
		return out
	default:
		return v
	}
}

// coerceBool parses legacy string booleans. Unrecognized strings are left
// unchanged rather than guessed at.
func coerceBool(v any) any {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return v
		}
		return parsed
	default:
		return v
	}
}

// coerceInt converts JSON numbers (float64) and numeric strings to int.
// Non-integral floats are left unchanged.
func coerceInt(v any) any {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		if n == float64(int(n)) {
			return int(n)
		}
		return v
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return v
		}
		return parsed
	default:
		return v
	}
}
