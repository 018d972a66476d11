package attio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/attio/attio-mcp-server/pkg/attioapi"
	"github.com/attio/attio-mcp-server/pkg/inventory"
	"github.com/attio/attio-mcp-server/pkg/migration"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// testDeps wires a ToolDependencies whose API client talks to the given
// handler instead of the real Attio API.
func testDeps(t *testing.T, handler http.Handler) ToolDependencies {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := attioapi.NewClient("test-token", attioapi.WithBaseURL(srv.URL))
	return NewBaseDeps(client, migration.NewTelemetry(zerolog.Nop(), nil), zerolog.Nop())
}

// callTool invokes a tool's handler the way the server does: arguments
// encoded as JSON and dependencies injected via context.
func callTool(t *testing.T, st inventory.ServerTool, deps ToolDependencies, args map[string]any) *mcp.CallToolResult {
	t.Helper()

	encoded, err := json.Marshal(args)
	require.NoError(t, err)

	handler := st.Handler(nil)
	result, err := handler(ContextWithDeps(context.Background(), deps), &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{
			Name:      st.Tool.Name,
			Arguments: encoded,
		},
	})
	require.NoError(t, err, "tool handlers report failures through the envelope, not the error return")
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	tc, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content")
	return tc.Text
}

// jsonHandler answers every request with the given body.
func jsonHandler(status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

// captureHandler records the last request method, path, and body before
// answering with the given JSON.
type captureHandler struct {
	status int
	body   string

	Method string
	Path   string
	Body   map[string]any
}

func (h *captureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Method = r.Method
	h.Path = r.URL.Path
	h.Body = nil
	_ = json.NewDecoder(r.Body).Decode(&h.Body)

	w.Header().Set("Content-Type", "application/json")
	if h.status != 0 {
		w.WriteHeader(h.status)
	}
	_, _ = w.Write([]byte(h.body))
}
