package attio

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/attio/attio-mcp-server/internal/toolsnaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const noteBody = `{"data": {"id": {"workspace_id": "ws-1", "note_id": "note-1"}, "parent_object": "companies", "parent_record_id": "rec-1", "title": "Call summary", "content_plaintext": "Spoke with ACME"}}`

func Test_ListNotes(t *testing.T) {
	t.Parallel()

	st := ListNotes()
	require.NoError(t, toolsnaps.Test(st.Tool.Name, st.Tool))

	assert.Equal(t, "list_notes", st.Tool.Name)
	assert.True(t, st.IsReadOnly())

	t.Run("happy path", func(t *testing.T) {
		t.Parallel()

		api := &captureHandler{body: `{"data": [{"id": {"workspace_id": "ws-1", "note_id": "note-1"}, "title": "Call summary", "content_plaintext": "Spoke with ACME"}]}`}
		deps := testDeps(t, api)

		result := callTool(t, st, deps, map[string]any{
			"parent_object":    "companies",
			"parent_record_id": "rec-1",
		})

		require.False(t, result.IsError, resultText(t, result))
		assert.Equal(t, http.MethodGet, api.Method)
		assert.Equal(t, "/v2/notes", api.Path)

		var notes []map[string]any
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &notes))
		require.Len(t, notes, 1)
	})

	t.Run("note bodies are sanitized", func(t *testing.T) {
		t.Parallel()

		deps := testDeps(t, jsonHandler(http.StatusOK,
			`{"data": [{"id": {"workspace_id": "ws-1", "note_id": "note-1"}, "title": "Call <script>alert(1)</script>", "content_plaintext": "Spoke​with ACME <img src=x onerror=alert(1)>"}]}`))

		result := callTool(t, st, deps, map[string]any{})

		require.False(t, result.IsError, resultText(t, result))
		var notes []map[string]any
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &notes))
		require.Len(t, notes, 1)
		assert.NotContains(t, notes[0]["title"], "<script>")
		assert.NotContains(t, notes[0]["content_plaintext"], "onerror")
	})
}

func Test_CreateNote(t *testing.T) {
	t.Parallel()

	st := CreateNote()
	require.NoError(t, toolsnaps.Test(st.Tool.Name, st.Tool))

	assert.False(t, st.IsReadOnly())

	t.Run("happy path", func(t *testing.T) {
		t.Parallel()

		api := &captureHandler{body: noteBody}
		deps := testDeps(t, api)

		result := callTool(t, st, deps, map[string]any{
			"parent_object":    "companies",
			"parent_record_id": "rec-1",
			"title":            "Call summary",
			"content":          "Spoke with ACME",
		})

		require.False(t, result.IsError, resultText(t, result))
		assert.Equal(t, http.MethodPost, api.Method)
		assert.Equal(t, "/v2/notes", api.Path)

		data, ok := api.Body["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "companies", data["parent_object"])
		assert.Equal(t, "plaintext", data["format"], "format defaults to plaintext")
	})

	t.Run("missing title", func(t *testing.T) {
		t.Parallel()

		result := callTool(t, st, testDeps(t, jsonHandler(http.StatusOK, noteBody)), map[string]any{
			"parent_object":    "companies",
			"parent_record_id": "rec-1",
			"content":          "Spoke with ACME",
		})

		require.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "missing required parameter: title")
	})
}

func Test_DeleteNote(t *testing.T) {
	t.Parallel()

	st := DeleteNote()
	require.NoError(t, toolsnaps.Test(st.Tool.Name, st.Tool))

	t.Run("happy path", func(t *testing.T) {
		t.Parallel()

		api := &captureHandler{body: `{}`}
		deps := testDeps(t, api)

		result := callTool(t, st, deps, map[string]any{"note_id": "note-1"})

		require.False(t, result.IsError, resultText(t, result))
		assert.Equal(t, http.MethodDelete, api.Method)
		assert.Equal(t, "/v2/notes/note-1", api.Path)
		assert.Equal(t, "deleted note note-1", resultText(t, result))
	})

	t.Run("api error", func(t *testing.T) {
		t.Parallel()

		deps := testDeps(t, jsonHandler(http.StatusNotFound, `{"status_code": 404, "message": "Note not found"}`))

		result := callTool(t, st, deps, map[string]any{"note_id": "note-404"})

		require.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), `failed to delete note "note-404"`)
	})
}
