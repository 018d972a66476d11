package attiomcp

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/attio/attio-mcp-server/pkg/attio"
	"github.com/attio/attio-mcp-server/pkg/attioapi"
	attioErrors "github.com/attio/attio-mcp-server/pkg/errors"
	"github.com/attio/attio-mcp-server/pkg/migration"
	"github.com/attio/attio-mcp-server/pkg/scopes"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// MCPServerConfig holds everything needed to build a fully wired MCP server.
type MCPServerConfig struct {
	// Version of the server, reported to clients during initialization.
	Version string

	// Host is the Attio API host. Empty means https://api.attio.com.
	Host string

	// Token is the Attio access token used for all API calls.
	Token string

	// EnabledToolsets is the list of toolset IDs to enable. Nil means
	// "use defaults"; an empty slice disables everything. The keywords
	// "all" and "default" are honored.
	EnabledToolsets []string

	// EnabledTools enables individual tools on top of the enabled toolsets.
	EnabledTools []string

	// ReadOnly hides every tool that can mutate the workspace.
	ReadOnly bool

	// FilterByScopes hides tools the token's scopes cannot use. Requires a
	// round trip to the token introspection endpoint at startup.
	FilterByScopes bool

	// Logger receives structured diagnostics. Tool call envelopes are never
	// written here.
	Logger zerolog.Logger

	// MetricsRegistry optionally receives alias migration counters.
	// Nil disables Prometheus metrics; internal counters still work.
	MetricsRegistry prometheus.Registerer
}

// resolveEnabledToolsets decides which toolsets the inventory should enable.
// Nil means "use defaults". If individual tools were requested without any
// toolsets, no toolsets are enabled so only the requested tools show up.
func resolveEnabledToolsets(cfg MCPServerConfig) []string {
	if cfg.EnabledToolsets == nil && len(cfg.EnabledTools) > 0 {
		return []string{}
	}
	return cfg.EnabledToolsets
}

// NewMCPServer creates an MCP server with the full tool pipeline wired in:
// alias resolution, resource type validation, parameter transformation, and
// migration telemetry. Startup fails fast if the alias table or the
// transformation rules are inconsistent.
func NewMCPServer(cfg MCPServerConfig) (*mcp.Server, error) {
	canonicalNames := attio.CanonicalToolNames()
	canonical := make(map[string]bool, len(canonicalNames))
	for _, name := range canonicalNames {
		canonical[name] = true
	}

	registry, err := attio.NewAliasRegistry(attio.DeprecatedToolAliases, canonical)
	if err != nil {
		return nil, fmt.Errorf("invalid alias table: %w", err)
	}
	if err := attio.ValidateTransformRules(); err != nil {
		return nil, fmt.Errorf("invalid transformation rules: %w", err)
	}

	var clientOpts []attioapi.Option
	if cfg.Host != "" {
		clientOpts = append(clientOpts, attioapi.WithBaseURL(cfg.Host))
	}
	client := attioapi.NewClient(cfg.Token, clientOpts...)

	telemetry := migration.NewTelemetry(cfg.Logger, cfg.MetricsRegistry)
	deps := attio.NewBaseDeps(client, telemetry, cfg.Logger)

	builder := attio.NewInventory(registry).
		WithReadOnly(cfg.ReadOnly).
		WithToolsets(resolveEnabledToolsets(cfg)).
		WithTools(cfg.EnabledTools)

	if cfg.FilterByScopes {
		tokenScopes, err := scopes.FetchTokenScopesWithHost(context.Background(), cfg.Token, cfg.Host)
		if err != nil {
			// Scope filtering is best effort: an introspection failure
			// should not keep the server from starting.
			cfg.Logger.Warn().Err(err).Msg("failed to fetch token scopes; exposing all enabled tools")
		} else {
			builder.WithFilter(attio.CreateToolScopeFilter(tokenScopes))
		}
	}

	inv := builder.Build()
	if unrecognized := inv.UnrecognizedToolsets(); len(unrecognized) > 0 {
		return nil, fmt.Errorf("unrecognized toolsets: %s", strings.Join(unrecognized, ", "))
	}

	resolver := attio.NewResolver(canonicalNames, registry, telemetry)
	dispatcher := attio.NewDispatcher(resolver, inv, cfg.Logger)

	server := attio.NewServer(cfg.Version, nil)

	// Handlers retrieve their dependencies from the request context rather
	// than closures, so a single tool table serves every session. The context
	// also carries the downstream error accumulator: handlers report API
	// failures through the envelope, so this is the only place they become
	// visible to logging.
	server.AddReceivingMiddleware(func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			ctx = attio.ContextWithDeps(ctx, deps)
			ctx = attioErrors.ContextWithAttioErrors(ctx)

			result, err := next(ctx, method, req)

			if apiErrs, ctxErr := attioErrors.GetAttioAPIErrors(ctx); ctxErr == nil {
				for _, apiErr := range apiErrs {
					cfg.Logger.Debug().
						Str("method", method).
						Int("status", apiErr.StatusCode).
						Msg(apiErr.Error())
				}
			}
			return result, err
		}
	})

	ctx := context.Background()

	// Every canonical tool goes through the dispatcher so alias calls and
	// canonical calls share one pipeline.
	available := inv.AvailableTools(ctx)
	availableByName := make(map[string]mcp.Tool, len(available))
	for _, tool := range available {
		toolCopy := tool.Tool
		server.AddTool(&toolCopy, dispatcher.HandlerFor(toolCopy.Name))
		availableByName[toolCopy.Name] = toolCopy
	}

	// Deprecated aliases are exposed as real tools carrying the target's
	// schema, so clients mid-migration keep working. An alias is only
	// registered when its target made it through filtering.
	for _, def := range registry.All() {
		target, ok := availableByName[def.Target]
		if !ok {
			continue
		}
		aliasTool := target
		aliasTool.Name = def.Alias
		aliasTool.Description = fmt.Sprintf("[Deprecated: use %s instead; this name is removed in %s] %s", def.Target, def.RemovedIn, target.Description)
		server.AddTool(&aliasTool, dispatcher.HandlerFor(def.Alias))
	}

	inv.RegisterResourceTemplates(ctx, server, deps)

	return server, nil
}

// StdioServerConfig configures a stdio-transport server run.
type StdioServerConfig struct {
	// Version of the server.
	Version string

	// Host is the Attio API host. Empty means https://api.attio.com.
	Host string

	// Token is the Attio access token used for all API calls.
	Token string

	// EnabledToolsets is the list of toolset IDs to enable.
	EnabledToolsets []string

	// EnabledTools enables individual tools on top of the enabled toolsets.
	EnabledTools []string

	// ReadOnly hides every tool that can mutate the workspace.
	ReadOnly bool

	// FilterByScopes hides tools the token's scopes cannot use.
	FilterByScopes bool

	// LogFilePath redirects logs to a file. Empty logs to stderr.
	LogFilePath string

	// PrettyLogs enables human-readable console output instead of JSON.
	PrettyLogs bool
}

// RunStdioServer builds the server and serves it over stdin/stdout until the
// client disconnects or the process receives an interrupt.
func RunStdioServer(cfg StdioServerConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := newLogger(cfg.LogFilePath, cfg.PrettyLogs)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	server, err := NewMCPServer(MCPServerConfig{
		Version:         cfg.Version,
		Host:            cfg.Host,
		Token:           cfg.Token,
		EnabledToolsets: cfg.EnabledToolsets,
		EnabledTools:    cfg.EnabledTools,
		ReadOnly:        cfg.ReadOnly,
		FilterByScopes:  cfg.FilterByScopes,
		Logger:          logger,
		MetricsRegistry: prometheus.DefaultRegisterer,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	logger.Info().
		Str("version", cfg.Version).
		Bool("read_only", cfg.ReadOnly).
		Msg("starting stdio server")

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("server run failed: %w", err)
	}
	return nil
}

// newLogger builds the process logger. Stdio transport owns stdout, so logs
// go to stderr or a file.
func newLogger(path string, pretty bool) (zerolog.Logger, error) {
	var out io.Writer = os.Stderr
	if path != "" {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("failed to open log file: %w", err)
		}
		out = file
	}
	if pretty {
		out = zerolog.ConsoleWriter{Out: out}
	}
	return zerolog.New(out).With().Timestamp().Logger(), nil
}
