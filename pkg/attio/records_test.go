package attio

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/attio/attio-mcp-server/internal/toolsnaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recordBody = `{"data": {"id": {"workspace_id": "ws-1", "object_id": "obj-1", "record_id": "rec-1"}, "values": {"name": [{"value": "ACME Corp"}]}}}`
const recordListBody = `{"data": [{"id": {"workspace_id": "ws-1", "object_id": "obj-1", "record_id": "rec-1"}, "values": {"name": [{"value": "ACME Corp"}]}}]}`

func Test_SearchRecords(t *testing.T) {
	t.Parallel()

	st := SearchRecords()
	require.NoError(t, toolsnaps.Test(st.Tool.Name, st.Tool))

	assert.Equal(t, "search_records", st.Tool.Name)
	assert.True(t, st.IsReadOnly())
	assert.NotEmpty(t, st.AcceptedScopes)

	t.Run("happy path", func(t *testing.T) {
		t.Parallel()

		api := &captureHandler{body: recordListBody}
		deps := testDeps(t, api)

		result := callTool(t, st, deps, map[string]any{
			"resource_type": "companies",
			"query":         "acme",
			"filters":       map[string]any{"name": map[string]any{"$contains": "ACME"}},
			"limit":         float64(10),
		})

		require.False(t, result.IsError, resultText(t, result))
		assert.Equal(t, http.MethodPost, api.Method)
		assert.Equal(t, "/v2/objects/companies/records/query", api.Path)
		assert.Equal(t, "acme", api.Body["query"])
		assert.Equal(t, float64(10), api.Body["limit"])

		var records []map[string]any
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &records))
		require.Len(t, records, 1)
	})

	t.Run("synonym resource type targets canonical object", func(t *testing.T) {
		t.Parallel()

		api := &captureHandler{body: recordListBody}
		deps := testDeps(t, api)

		result := callTool(t, st, deps, map[string]any{"resource_type": "organization"})

		require.False(t, result.IsError)
		assert.Equal(t, "/v2/objects/companies/records/query", api.Path)
	})

	t.Run("records kind resolves object through the schema cache", func(t *testing.T) {
		t.Parallel()

		objectLookups := 0
		queryCalls := 0
		mux := http.NewServeMux()
		mux.HandleFunc("GET /v2/objects/workspaces", func(w http.ResponseWriter, _ *http.Request) {
			objectLookups++
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data": {"id": {"workspace_id": "ws-1", "object_id": "obj-9"}, "api_slug": "workspaces", "singular_noun": "Workspace", "plural_noun": "Workspaces"}}`))
		})
		mux.HandleFunc("POST /v2/objects/workspaces/records/query", func(w http.ResponseWriter, _ *http.Request) {
			queryCalls++
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(recordListBody))
		})
		deps := testDeps(t, mux)

		args := map[string]any{"resource_type": "records", "object": "workspaces"}
		for range 2 {
			result := callTool(t, st, deps, args)
			require.False(t, result.IsError, resultText(t, result))
		}

		assert.Equal(t, 2, queryCalls)
		assert.Equal(t, 1, objectLookups, "object definition is cached after the first lookup")
	})

	t.Run("records kind rejects unknown object", func(t *testing.T) {
		t.Parallel()

		deps := testDeps(t, jsonHandler(http.StatusNotFound, `{"status_code": 404, "code": "not_found", "message": "Object not found"}`))

		result := callTool(t, st, deps, map[string]any{
			"resource_type": "records",
			"object":        "spaceships",
		})

		require.True(t, result.IsError)
		text := resultText(t, result)
		assert.Contains(t, text, "failed to resolve target object")
		assert.Contains(t, text, `unknown object "spaceships"`)
	})

	t.Run("missing resource_type", func(t *testing.T) {
		t.Parallel()

		result := callTool(t, st, testDeps(t, jsonHandler(http.StatusOK, recordListBody)), map[string]any{})

		require.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "missing required parameter: resource_type")
	})

	t.Run("invalid resource_type", func(t *testing.T) {
		t.Parallel()

		result := callTool(t, st, testDeps(t, jsonHandler(http.StatusOK, recordListBody)), map[string]any{
			"resource_type": "spaceships",
		})

		require.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "is invalid")
	})

	t.Run("api error passes through", func(t *testing.T) {
		t.Parallel()

		deps := testDeps(t, jsonHandler(http.StatusUnauthorized, `{"status_code": 401, "code": "unauthorized", "message": "Invalid access token"}`))

		result := callTool(t, st, deps, map[string]any{"resource_type": "companies"})

		require.True(t, result.IsError)
		text := resultText(t, result)
		assert.Contains(t, text, "failed to search companies records")
		assert.Contains(t, text, "Invalid access token")
	})
}

func Test_GetRecord(t *testing.T) {
	t.Parallel()

	st := GetRecord()
	require.NoError(t, toolsnaps.Test(st.Tool.Name, st.Tool))

	assert.Equal(t, "get_record", st.Tool.Name)
	assert.True(t, st.IsReadOnly())

	t.Run("happy path", func(t *testing.T) {
		t.Parallel()

		api := &captureHandler{body: recordBody}
		deps := testDeps(t, api)

		result := callTool(t, st, deps, map[string]any{
			"resource_type": "people",
			"record_id":     "rec-1",
		})

		require.False(t, result.IsError, resultText(t, result))
		assert.Equal(t, http.MethodGet, api.Method)
		assert.Equal(t, "/v2/objects/people/records/rec-1", api.Path)

		var record map[string]any
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &record))
	})

	t.Run("missing record_id", func(t *testing.T) {
		t.Parallel()

		result := callTool(t, st, testDeps(t, jsonHandler(http.StatusOK, recordBody)), map[string]any{
			"resource_type": "people",
		})

		require.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "missing required parameter: record_id")
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		deps := testDeps(t, jsonHandler(http.StatusNotFound, `{"status_code": 404, "code": "not_found", "message": "Record not found"}`))

		result := callTool(t, st, deps, map[string]any{
			"resource_type": "people",
			"record_id":     "rec-404",
		})

		require.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), `failed to get people record "rec-404"`)
	})
}

func Test_CreateRecord(t *testing.T) {
	t.Parallel()

	st := CreateRecord()
	require.NoError(t, toolsnaps.Test(st.Tool.Name, st.Tool))

	assert.Equal(t, "create_record", st.Tool.Name)
	assert.False(t, st.IsReadOnly())

	t.Run("happy path", func(t *testing.T) {
		t.Parallel()

		api := &captureHandler{body: recordBody}
		deps := testDeps(t, api)

		result := callTool(t, st, deps, map[string]any{
			"resource_type": "companies",
			"values":        map[string]any{"name": "ACME Corp"},
		})

		require.False(t, result.IsError, resultText(t, result))
		assert.Equal(t, http.MethodPost, api.Method)
		assert.Equal(t, "/v2/objects/companies/records", api.Path)

		data, ok := api.Body["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, map[string]any{"name": "ACME Corp"}, data["values"])
	})

	t.Run("missing values", func(t *testing.T) {
		t.Parallel()

		result := callTool(t, st, testDeps(t, jsonHandler(http.StatusOK, recordBody)), map[string]any{
			"resource_type": "companies",
		})

		require.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "missing required parameter: values")
	})
}

func Test_UpdateRecord(t *testing.T) {
	t.Parallel()

	st := UpdateRecord()
	require.NoError(t, toolsnaps.Test(st.Tool.Name, st.Tool))

	t.Run("happy path", func(t *testing.T) {
		t.Parallel()

		api := &captureHandler{body: recordBody}
		deps := testDeps(t, api)

		result := callTool(t, st, deps, map[string]any{
			"resource_type": "deals",
			"record_id":     "rec-1",
			"values":        map[string]any{"stage": "won"},
		})

		require.False(t, result.IsError, resultText(t, result))
		assert.Equal(t, http.MethodPatch, api.Method)
		assert.Equal(t, "/v2/objects/deals/records/rec-1", api.Path)
	})

	t.Run("empty values", func(t *testing.T) {
		t.Parallel()

		result := callTool(t, st, testDeps(t, jsonHandler(http.StatusOK, recordBody)), map[string]any{
			"resource_type": "deals",
			"record_id":     "rec-1",
			"values":        map[string]any{},
		})

		require.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "missing required parameter: values")
	})
}

func Test_DeleteRecord(t *testing.T) {
	t.Parallel()

	st := DeleteRecord()
	require.NoError(t, toolsnaps.Test(st.Tool.Name, st.Tool))

	t.Run("happy path", func(t *testing.T) {
		t.Parallel()

		api := &captureHandler{body: `{}`}
		deps := testDeps(t, api)

		result := callTool(t, st, deps, map[string]any{
			"resource_type": "companies",
			"record_id":     "rec-1",
		})

		require.False(t, result.IsError, resultText(t, result))
		assert.Equal(t, http.MethodDelete, api.Method)
		assert.Equal(t, "/v2/objects/companies/records/rec-1", api.Path)
		assert.Equal(t, "deleted companies record rec-1", resultText(t, result))
	})

	t.Run("api error", func(t *testing.T) {
		t.Parallel()

		deps := testDeps(t, jsonHandler(http.StatusForbidden, `{"status_code": 403, "code": "forbidden", "message": "Missing scope"}`))

		result := callTool(t, st, deps, map[string]any{
			"resource_type": "companies",
			"record_id":     "rec-1",
		})

		require.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "Missing scope")
	})
}
