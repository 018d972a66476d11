// Package toolsnaps provides a simple snapshot mechanism for tool schemas.
//
// Snapshots live under __toolsnaps__/<toolName>.snap relative to the test's
// working directory. When a snapshot is missing it is written locally but
// treated as an error in CI, so schema changes always land with their
// snapshot. Set UPDATE_TOOLSNAPS=true to rewrite snapshots after an
// intentional schema change.
package toolsnaps

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	jd "github.com/josephburnett/jd/lib"
)

// Test checks the JSON representation of tool against the stored snapshot,
// returning an error describing the diff when they no longer match.
func Test(toolName string, tool any) error {
	toolJSON, err := json.MarshalIndent(tool, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tool %s: %w", toolName, err)
	}
	toolJSON, err = sortJSONKeys(toolJSON)
	if err != nil {
		return fmt.Errorf("failed to normalize tool JSON for %s: %w", toolName, err)
	}

	snapPath := filepath.Join("__toolsnaps__", toolName+".snap")

	if os.Getenv("UPDATE_TOOLSNAPS") == "true" {
		return writeSnap(snapPath, toolJSON)
	}

	snapJSON, err := os.ReadFile(snapPath) //nolint:gosec // snapshot paths are test-controlled
	if errors.Is(err, fs.ErrNotExist) {
		// In CI a missing snapshot means the tool was added or renamed
		// without committing its snapshot.
		if os.Getenv("GITHUB_ACTIONS") == "true" {
			return fmt.Errorf("tool snapshot does not exist for %s, please run the tests locally and commit the snapshot", toolName)
		}
		return writeSnap(snapPath, toolJSON)
	} else if err != nil {
		return fmt.Errorf("failed to read snapshot for %s: %w", toolName, err)
	}

	snapNode, err := jd.ReadJsonString(string(snapJSON))
	if err != nil {
		return fmt.Errorf("failed to parse snapshot JSON for %s: %w", toolName, err)
	}
	toolNode, err := jd.ReadJsonString(string(toolJSON))
	if err != nil {
		return fmt.Errorf("failed to parse tool JSON for %s: %w", toolName, err)
	}

	if diff := snapNode.Diff(toolNode); len(diff) > 0 {
		return fmt.Errorf("tool schema for %s has changed unexpectedly:\n%s\nrun with UPDATE_TOOLSNAPS=true if this change is intentional", toolName, diff.Render())
	}

	return nil
}

func writeSnap(snapPath string, contents []byte) error {
	if err := os.MkdirAll(filepath.Dir(snapPath), 0700); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	if err := os.WriteFile(snapPath, contents, 0600); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// sortJSONKeys re-renders a JSON document with all object keys sorted
// alphabetically at every nesting level, so snapshots are stable regardless
// of struct field order or map iteration order.
func sortJSONKeys(in []byte) ([]byte, error) {
	var value any
	if err := json.Unmarshal(in, &value); err != nil {
		return nil, err
	}

	var sb strings.Builder
	writeSorted(&sb, value, "")
	return []byte(sb.String()), nil
}

func writeSorted(sb *strings.Builder, value any, indent string) {
	const step = "  "
	switch v := value.(type) {
	case map[string]any:
		if len(v) == 0 {
			sb.WriteString("{}")
			return
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString("{\n")
		inner := indent + step
		for i, k := range keys {
			sb.WriteString(inner)
			keyJSON, _ := json.Marshal(k)
			sb.Write(keyJSON)
			sb.WriteString(": ")
			writeSorted(sb, v[k], inner)
			if i < len(keys)-1 {
				sb.WriteString(",")
			}
			sb.WriteString("\n")
		}
		sb.WriteString(indent + "}")
	case []any:
		if len(v) == 0 {
			sb.WriteString("[]")
			return
		}
		sb.WriteString("[\n")
		inner := indent + step
		for i, item := range v {
			sb.WriteString(inner)
			writeSorted(sb, item, inner)
			if i < len(v)-1 {
				sb.WriteString(",")
			}
			sb.WriteString("\n")
		}
		sb.WriteString(indent + "]")
	default:
		scalar, _ := json.Marshal(v)
		sb.Write(scalar)
	}
}
