package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/attio/attio-mcp-server/pkg/attio"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var listAliasesCmd = &cobra.Command{
	Use:   "list-aliases",
	Short: "List deprecated tool name aliases",
	Long: `List every deprecated tool name this server still accepts, the canonical
tool it resolves to, and the version the alias is removed in.

The output format can be controlled with the --output flag:
  - text (default): Human-readable table
  - json: JSON output for programmatic use

Examples:
  # List all deprecated aliases
  attio-mcp-server list-aliases

  # Output as JSON
  attio-mcp-server list-aliases --output=json`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runListAliases()
	},
}

func init() {
	listAliasesCmd.Flags().StringP("output", "o", "text", "Output format: text or json")
	_ = viper.BindPFlag("list-aliases-output", listAliasesCmd.Flags().Lookup("output"))

	rootCmd.AddCommand(listAliasesCmd)
}

func runListAliases() error {
	canonical := make(map[string]bool)
	for _, name := range attio.CanonicalToolNames() {
		canonical[name] = true
	}
	registry, err := attio.NewAliasRegistry(attio.DeprecatedToolAliases, canonical)
	if err != nil {
		return fmt.Errorf("invalid alias table: %w", err)
	}

	defs := registry.All()

	if viper.GetString("list-aliases-output") == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(defs)
	}

	if len(defs) == 0 {
		fmt.Println("No deprecated aliases registered.")
		return nil
	}

	fmt.Printf("Deprecated Tool Aliases\n")
	fmt.Printf("=======================\n\n")
	for _, def := range defs {
		fmt.Printf("  %-28s -> %-22s (removed in %s)\n", def.Alias, def.Target, def.RemovedIn)
	}
	fmt.Printf("\nTotal: %d alias(es)\n", len(defs))
	return nil
}
