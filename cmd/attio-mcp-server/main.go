package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/attio/attio-mcp-server/internal/attiomcp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set by the build process via ldflags.
var version = "version"

var (
	rootCmd = &cobra.Command{
		Use:     "attio-mcp-server",
		Short:   "Attio MCP Server",
		Long:    `An MCP server that exposes an Attio CRM workspace as tools: records, tasks, notes and lists.`,
		Version: version,
	}

	stdioCmd = &cobra.Command{
		Use:   "stdio",
		Short: "Start stdio server",
		Long:  `Start a server that communicates via standard input/output streams using JSON-RPC messages.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			token := viper.GetString("access_token")
			if token == "" {
				return errors.New("ATTIO_ACCESS_TOKEN not set")
			}

			// Nil means "use defaults"; an explicit flag, even empty,
			// overrides them.
			var enabledToolsets []string
			if viper.IsSet("toolsets") {
				if err := viper.UnmarshalKey("toolsets", &enabledToolsets); err != nil {
					return fmt.Errorf("failed to unmarshal toolsets: %w", err)
				}
			}
			var enabledTools []string
			if viper.IsSet("tools") {
				if err := viper.UnmarshalKey("tools", &enabledTools); err != nil {
					return fmt.Errorf("failed to unmarshal tools: %w", err)
				}
			}

			stdioServerConfig := attiomcp.StdioServerConfig{
				Version:         version,
				Host:            viper.GetString("host"),
				Token:           token,
				EnabledToolsets: enabledToolsets,
				EnabledTools:    enabledTools,
				ReadOnly:        viper.GetBool("read-only"),
				FilterByScopes:  viper.GetBool("filter-by-scopes"),
				LogFilePath:     viper.GetString("log-file"),
				PrettyLogs:      viper.GetBool("pretty-logs"),
			}
			return attiomcp.RunStdioServer(stdioServerConfig)
		},
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.SetVersionTemplate("{{.Short}}\n{{.Version}}\n")

	rootCmd.PersistentFlags().StringSlice("toolsets", nil, "Comma separated list of toolsets to enable, or 'all'/'default'")
	rootCmd.PersistentFlags().StringSlice("tools", nil, "Comma separated list of individual tools to enable")
	rootCmd.PersistentFlags().Bool("read-only", false, "Restrict the server to read-only tools")
	rootCmd.PersistentFlags().Bool("filter-by-scopes", false, "Hide tools the token's scopes cannot use")
	rootCmd.PersistentFlags().String("host", "", "Attio API host (defaults to https://api.attio.com)")
	rootCmd.PersistentFlags().String("log-file", "", "Path to log file (defaults to stderr)")
	rootCmd.PersistentFlags().Bool("pretty-logs", false, "Human-readable log output instead of JSON")

	_ = viper.BindPFlag("toolsets", rootCmd.PersistentFlags().Lookup("toolsets"))
	_ = viper.BindPFlag("tools", rootCmd.PersistentFlags().Lookup("tools"))
	_ = viper.BindPFlag("read-only", rootCmd.PersistentFlags().Lookup("read-only"))
	_ = viper.BindPFlag("filter-by-scopes", rootCmd.PersistentFlags().Lookup("filter-by-scopes"))
	_ = viper.BindPFlag("host", rootCmd.PersistentFlags().Lookup("host"))
	_ = viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file"))
	_ = viper.BindPFlag("pretty-logs", rootCmd.PersistentFlags().Lookup("pretty-logs"))

	rootCmd.AddCommand(stdioCmd)
}

func initConfig() {
	viper.SetEnvPrefix("attio")
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
