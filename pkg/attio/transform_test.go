package attio

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_TransformParams_Companies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  map[string]any
		expect map[string]any
	}{
		{
			name:   "annual_revenue number coerced to string",
			input:  map[string]any{"annual_revenue": float64(500000)},
			expect: map[string]any{"annual_revenue": "500000"},
		},
		{
			name:   "annual_revenue int coerced to string",
			input:  map[string]any{"annual_revenue": 500000},
			expect: map[string]any{"annual_revenue": "500000"},
		},
		{
			name:   "annual_revenue string passes through",
			input:  map[string]any{"annual_revenue": "500000"},
			expect: map[string]any{"annual_revenue": "500000"},
		},
		{
			name:   "company_name renamed to name",
			input:  map[string]any{"company_name": "ACME Corp"},
			expect: map[string]any{"name": "ACME Corp"},
		},
		{
			name:   "canonical value wins a rename collision",
			input:  map[string]any{"company_name": "Old Name", "name": "ACME Corp"},
			expect: map[string]any{"name": "ACME Corp"},
		},
		{
			name:   "primary_domain renamed and lifted to slice",
			input:  map[string]any{"primary_domain": "acme.example"},
			expect: map[string]any{"domains": []string{"acme.example"}},
		},
		{
			name:   "retired company_type dropped",
			input:  map[string]any{"name": "ACME Corp", "company_type": "startup"},
			expect: map[string]any{"name": "ACME Corp"},
		},
		{
			name:   "unrelated fields pass through unchanged",
			input:  map[string]any{"description": "widgets", "employee_count": float64(12)},
			expect: map[string]any{"description": "widgets", "employee_count": float64(12)},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			out, err := TransformParams(ResourceTypeCompanies, tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expect, out)
		})
	}
}

func Test_TransformParams_People(t *testing.T) {
	t.Parallel()

	out, err := TransformParams(ResourceTypePeople, map[string]any{
		"email":   "ada@example.com",
		"phone":   []any{"+1-555-0100"},
		"twitter": "@ada",
		"name":    "Ada",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"email_addresses": []string{"ada@example.com"},
		"phone_numbers":   []string{"+1-555-0100"},
		"name":            "Ada",
	}, out)
}

func Test_TransformParams_Deals(t *testing.T) {
	t.Parallel()

	out, err := TransformParams(ResourceTypeDeals, map[string]any{
		"deal_stage": "negotiation",
		"deal_value": float64(25000),
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"stage":    "negotiation",
		"value":    "25000",
		"currency": "USD",
	}, out)

	// An explicit currency is never overwritten by the default.
	out, err = TransformParams(ResourceTypeDeals, map[string]any{"currency": "EUR"})
	require.NoError(t, err)
	assert.Equal(t, "EUR", out["currency"])
}

func Test_TransformParams_Tasks(t *testing.T) {
	t.Parallel()

	out, err := TransformParams(ResourceTypeTasks, map[string]any{
		"title":          "Follow up",
		"due_date":       "2026-09-01T00:00:00Z",
		"is_completed":   "true",
		"assignee_email": "someone@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"content":      "Follow up",
		"deadline_at":  "2026-09-01T00:00:00Z",
		"is_completed": true,
		"format":       "plaintext",
	}, out)
}

func Test_TransformParams_Records(t *testing.T) {
	t.Parallel()

	out, err := TransformParams(ResourceTypeRecords, map[string]any{
		"filter":     map[string]any{"name": "ACME"},
		"match_type": "exact",
		"limit":      float64(10),
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"filters": map[string]any{"name": "ACME"},
		"query":   "",
		"limit":   10,
	}, out)
}

func Test_TransformParams_Lists(t *testing.T) {
	t.Parallel()

	out, err := TransformParams(ResourceTypeLists, map[string]any{
		"list":          "sales-pipeline",
		"parent_record": "rec-1",
		"offset":        "20",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"list_id":   "sales-pipeline",
		"record_id": "rec-1",
		"offset":    20,
	}, out)
}

func Test_TransformParams_Idempotent(t *testing.T) {
	t.Parallel()

	// Retried dispatch may apply the transformation twice; the second pass
	// must be a no-op for every family.
	inputs := map[ResourceType]map[string]any{
		ResourceTypeCompanies: {"company_name": "ACME", "annual_revenue": float64(500000), "primary_domain": "acme.example"},
		ResourceTypePeople:    {"email": "ada@example.com", "phone": "+1-555-0100"},
		ResourceTypeDeals:     {"deal_stage": "won", "deal_value": 9000},
		ResourceTypeTasks:     {"title": "Call", "is_completed": "false"},
		ResourceTypeRecords:   {"filter": map[string]any{}, "limit": float64(5)},
		ResourceTypeLists:     {"list": "l-1", "limit": "50"},
	}

	for family, input := range inputs {
		once, err := TransformParams(family, input)
		require.NoError(t, err, "family %s", family)
		twice, err := TransformParams(family, once)
		require.NoError(t, err, "family %s", family)
		assert.Equal(t, once, twice, "family %s transformation is not idempotent", family)
	}
}

func Test_TransformParams_IdempotentOverGeneratedPayloads(t *testing.T) {
	t.Parallel()

	// Values a caller might plausibly send: coercible and non-coercible
	// forms for every coercer, plus shapes the rules never touch.
	valuePool := []any{
		"500000",
		float64(500000),
		float64(2.5),
		42,
		true,
		"true",
		"not-a-bool",
		"alice@example.com",
		[]any{"a", "b"},
		[]any{"a", float64(1)},
		[]string{"acme.com"},
		map[string]any{"nested": "value"},
		nil,
	}

	rng := rand.New(rand.NewSource(7))

	for family, rules := range familyRules {
		// Build the key pool from the family's own table: legacy and
		// canonical rename keys (including both at once, the collision
		// case), defaulted keys, coerced keys, dropped keys, and a few
		// fields no rule knows about.
		keySet := map[string]struct{}{
			"unknown_field":    {},
			"custom_attribute": {},
			"resource_type":    {},
		}
		for legacy, canonical := range rules.renames {
			keySet[legacy] = struct{}{}
			keySet[canonical] = struct{}{}
		}
		for key := range rules.defaults {
			keySet[key] = struct{}{}
		}
		for key := range rules.coercions {
			keySet[key] = struct{}{}
		}
		for _, key := range rules.drops {
			keySet[key] = struct{}{}
		}
		keys := make([]string, 0, len(keySet))
		for key := range keySet {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for range 250 {
			payload := map[string]any{}
			for _, key := range keys {
				if rng.Intn(2) == 0 {
					continue
				}
				payload[key] = valuePool[rng.Intn(len(valuePool))]
			}

			once, err := TransformParams(family, payload)
			require.NoError(t, err, "family %s payload %v", family, payload)
			twice, err := TransformParams(family, once)
			require.NoError(t, err, "family %s payload %v", family, payload)
			assert.Equal(t, once, twice, "family %s payload %v transformation is not idempotent", family, payload)
		}
	}
}

func Test_TransformParams_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	input := map[string]any{"company_name": "ACME", "annual_revenue": float64(500000)}

	_, err := TransformParams(ResourceTypeCompanies, input)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"company_name":   "ACME",
		"annual_revenue": float64(500000),
	}, input, "input payload must never be mutated")
}

func Test_TransformParams_UnknownFamilyPassesThrough(t *testing.T) {
	t.Parallel()

	input := map[string]any{"anything": "goes", "filter": "kept"}
	out, err := TransformParams(ResourceType("webhooks"), input)
	require.NoError(t, err)
	assert.Equal(t, input, out)
}

func Test_applyRules_RequiredFieldMissing(t *testing.T) {
	t.Parallel()

	// A defective table: required field with no source in the payload.
	rules := transformRules{required: []string{"query"}}

	_, err := applyRules(ResourceTypeRecords, rules, map[string]any{"limit": 5})
	require.Error(t, err)
	var transformErr *TransformationError
	require.ErrorAs(t, err, &transformErr)
	assert.Equal(t, ResourceTypeRecords, transformErr.Family)
	assert.Equal(t, "query", transformErr.Field)
	assert.Contains(t, err.Error(), "required field")
}

func Test_ValidateTransformRules_ShippedTables(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateTransformRules())
}

func Test_Coercions(t *testing.T) {
	t.Parallel()

	t.Run("numeric string", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "500000", coerceNumericString(float64(500000)))
		assert.Equal(t, "2.5", coerceNumericString(2.5))
		assert.Equal(t, "42", coerceNumericString(42))
		assert.Equal(t, "42", coerceNumericString(int64(42)))
		assert.Equal(t, "already", coerceNumericString("already"))
		assert.Equal(t, true, coerceNumericString(true), "non-numeric values are left alone")
	})

	t.Run("string slice", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"a"}, coerceStringSlice("a"))
		assert.Equal(t, []string{"a", "b"}, coerceStringSlice([]any{"a", "b"}))
		assert.Equal(t, []string{"a"}, coerceStringSlice([]string{"a"}))
		mixed := []any{"a", 1}
		assert.Equal(t, mixed, coerceStringSlice(mixed), "mixed slices are left alone")
	})

	t.Run("bool", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, true, coerceBool("true"))
		assert.Equal(t, false, coerceBool("0"))
		assert.Equal(t, true, coerceBool(true))
		assert.Equal(t, "maybe", coerceBool("maybe"), "unparseable strings are left alone")
	})

	t.Run("int", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 25, coerceInt(float64(25)))
		assert.Equal(t, 25, coerceInt("25"))
		assert.Equal(t, 25, coerceInt(25))
		assert.Equal(t, 2.5, coerceInt(2.5), "non-integral floats are left alone")
		assert.Equal(t, "lots", coerceInt("lots"))
	})
}
