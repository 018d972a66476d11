package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/attio/attio-mcp-server/pkg/attio"
	"github.com/attio/attio-mcp-server/pkg/inventory"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/cobra"
)

var generateDocsCmd = &cobra.Command{
	Use:   "generate-docs",
	Short: "Generate documentation for tools and toolsets",
	Long:  `Generate the automated sections of README.md and docs/tool-renaming.md with current tool, toolset and alias information.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return generateAllDocs()
	},
}

func init() {
	rootCmd.AddCommand(generateDocsCmd)
}

func generateAllDocs() error {
	for _, doc := range []struct {
		path string
		fn   func(string) error
	}{
		// File to edit, function to generate its docs
		{"README.md", generateReadmeDocs},
		{"docs/tool-renaming.md", generateDeprecatedAliasesDocs},
	} {
		if err := doc.fn(doc.path); err != nil {
			return fmt.Errorf("failed to generate docs for %s: %w", doc.path, err)
		}
		fmt.Printf("Successfully updated %s with automated documentation\n", doc.path)
	}
	return nil
}

func generateReadmeDocs(readmePath string) error {
	r := attio.NewInventory(nil).WithToolsets([]string{"all"}).Build()

	toolsetsDoc := generateToolsetsDoc(r)
	toolsDoc := generateToolsDoc(r)

	// #nosec G304 - readmePath is controlled by command line flag, not user input
	content, err := os.ReadFile(readmePath)
	if err != nil {
		return fmt.Errorf("failed to read README.md: %w", err)
	}

	updatedContent, err := replaceSection(string(content), "START AUTOMATED TOOLSETS", "END AUTOMATED TOOLSETS", toolsetsDoc)
	if err != nil {
		return err
	}

	updatedContent, err = replaceSection(updatedContent, "START AUTOMATED TOOLS", "END AUTOMATED TOOLS", toolsDoc)
	if err != nil {
		return err
	}

	err = os.WriteFile(readmePath, []byte(updatedContent), 0600)
	if err != nil {
		return fmt.Errorf("failed to write README.md: %w", err)
	}

	return nil
}

func generateToolsetsDoc(i *inventory.Inventory) string {
	var buf strings.Builder

	buf.WriteString("| Toolset       | Description                                                   |\n")
	buf.WriteString("| ------------- | ------------------------------------------------------------- |\n")

	// AvailableToolsets() returns toolsets that have tools, sorted by ID
	for _, ts := range i.AvailableToolsets() {
		fmt.Fprintf(&buf, "| `%s` | %s |\n", ts.ID, ts.Description)
	}

	return strings.TrimSuffix(buf.String(), "\n")
}

func generateToolsDoc(r *inventory.Inventory) string {
	tools := r.AvailableTools(context.Background())
	if len(tools) == 0 {
		return ""
	}

	var buf strings.Builder
	var toolBuf strings.Builder
	var currentToolsetID inventory.ToolsetID
	firstSection := true

	writeSection := func() {
		if toolBuf.Len() == 0 {
			return
		}
		if !firstSection {
			buf.WriteString("\n\n")
		}
		firstSection = false
		sectionName := formatToolsetName(string(currentToolsetID))
		fmt.Fprintf(&buf, "<details>\n\n<summary>%s</summary>\n\n%s\n\n</details>", sectionName, strings.TrimSuffix(toolBuf.String(), "\n\n"))
		toolBuf.Reset()
	}

	for _, tool := range tools {
		// When toolset changes, emit the previous section
		if tool.Toolset.ID != currentToolsetID {
			writeSection()
			currentToolsetID = tool.Toolset.ID
		}
		writeToolDoc(&toolBuf, tool)
		toolBuf.WriteString("\n\n")
	}

	writeSection()

	return buf.String()
}

func writeToolDoc(buf *strings.Builder, tool inventory.ServerTool) {
	fmt.Fprintf(buf, "- **%s** - %s\n", tool.Tool.Name, tool.Tool.Annotations.Title)

	if len(tool.AcceptedScopes) > 0 {
		fmt.Fprintf(buf, "  - **Accepted Token Scopes**: `%s`\n", strings.Join(tool.AcceptedScopes, "`, `"))
	}

	schema, ok := tool.Tool.InputSchema.(*jsonschema.Schema)
	if !ok || schema == nil || len(schema.Properties) == 0 {
		buf.WriteString("  - No parameters required")
		return
	}

	var paramNames []string
	for propName := range schema.Properties {
		paramNames = append(paramNames, propName)
	}
	sort.Strings(paramNames)

	for i, propName := range paramNames {
		prop := schema.Properties[propName]
		requiredStr := "optional"
		if contains(schema.Required, propName) {
			requiredStr = "required"
		}

		typeStr := prop.Type
		if prop.Type == "array" && prop.Items != nil {
			typeStr = prop.Items.Type + "[]"
		}

		fmt.Fprintf(buf, "  - `%s`: %s (%s, %s)", propName, prop.Description, typeStr, requiredStr)
		if i < len(paramNames)-1 {
			buf.WriteString("\n")
		}
	}
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func replaceSection(content, startMarker, endMarker, newContent string) (string, error) {
	start := fmt.Sprintf("<!-- %s -->", startMarker)
	end := fmt.Sprintf("<!-- %s -->", endMarker)

	startIdx := strings.Index(content, start)
	endIdx := strings.Index(content, end)
	if startIdx == -1 || endIdx == -1 {
		return "", fmt.Errorf("markers not found: %s / %s", start, end)
	}

	var buf strings.Builder
	buf.WriteString(content[:startIdx])
	buf.WriteString(start)
	buf.WriteString("\n")
	buf.WriteString(newContent)
	buf.WriteString("\n")
	buf.WriteString(content[endIdx:])
	return buf.String(), nil
}

func generateDeprecatedAliasesDocs(docsPath string) error {
	content, err := os.ReadFile(docsPath) //#nosec G304
	if err != nil {
		return fmt.Errorf("failed to read docs file: %w", err)
	}

	aliasesDoc := generateDeprecatedAliasesTable()

	updatedContent, err := replaceSection(string(content), "START AUTOMATED ALIASES", "END AUTOMATED ALIASES", aliasesDoc)
	if err != nil {
		return err
	}

	err = os.WriteFile(docsPath, []byte(updatedContent), 0600)
	if err != nil {
		return fmt.Errorf("failed to write deprecated aliases docs: %w", err)
	}

	return nil
}

func generateDeprecatedAliasesTable() string {
	var buf strings.Builder

	buf.WriteString("| Old Name | New Name | Removed In |\n")
	buf.WriteString("|----------|----------|------------|\n")

	aliases := attio.DeprecatedToolAliases
	if len(aliases) == 0 {
		buf.WriteString("| *(none currently)* | | |")
		return buf.String()
	}

	sorted := make([]attio.AliasDefinition, len(aliases))
	copy(sorted, aliases)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Alias < sorted[j].Alias })

	for i, def := range sorted {
		fmt.Fprintf(&buf, "| `%s` | `%s` | %s |", def.Alias, def.Target, def.RemovedIn)
		if i < len(sorted)-1 {
			buf.WriteString("\n")
		}
	}

	return buf.String()
}
