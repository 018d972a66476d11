package attio

import (
	"context"
	"errors"

	"github.com/attio/attio-mcp-server/pkg/attioapi"
	"github.com/attio/attio-mcp-server/pkg/inventory"
	"github.com/attio/attio-mcp-server/pkg/migration"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
)

// depsContextKey is the context key for ToolDependencies.
// Using a private type prevents collisions with other packages.
type depsContextKey struct{}

// ErrDepsNotInContext is returned when ToolDependencies is not found in context.
var ErrDepsNotInContext = errors.New("ToolDependencies not found in context; use ContextWithDeps to inject")

// ContextWithDeps returns a new context with the ToolDependencies stored in
// it. Dependencies are injected at request time rather than registration
// time, avoiding closure creation during server initialization.
func ContextWithDeps(ctx context.Context, deps ToolDependencies) context.Context {
	return context.WithValue(ctx, depsContextKey{}, deps)
}

// DepsFromContext retrieves ToolDependencies from the context.
func DepsFromContext(ctx context.Context) (ToolDependencies, bool) {
	deps, ok := ctx.Value(depsContextKey{}).(ToolDependencies)
	return deps, ok
}

// MustDepsFromContext retrieves ToolDependencies from the context.
// Panics if deps are not found - use this in handlers that require deps.
func MustDepsFromContext(ctx context.Context) ToolDependencies {
	deps, ok := DepsFromContext(ctx)
	if !ok {
		panic(ErrDepsNotInContext)
	}
	return deps
}

// ToolDependencies defines what tool handlers need. It is an interface so
// different hosts can supply different implementations (a local stdio server
// stores one pre-created client; a per-request server can build them fresh).
type ToolDependencies interface {
	// GetClient returns the Attio REST API client
	GetClient(ctx context.Context) (*attioapi.Client, error)

	// GetTelemetry returns the migration telemetry service
	GetTelemetry() *migration.Telemetry

	// GetLogger returns the structured logger
	GetLogger() zerolog.Logger
}

// BaseDeps is the standard ToolDependencies implementation for the local
// server: pre-created client, shared telemetry, one logger.
type BaseDeps struct {
	Client    *attioapi.Client
	Telemetry *migration.Telemetry
	Logger    zerolog.Logger
}

// NewBaseDeps creates a BaseDeps with the provided client and services.
func NewBaseDeps(client *attioapi.Client, telemetry *migration.Telemetry, logger zerolog.Logger) *BaseDeps {
	return &BaseDeps{
		Client:    client,
		Telemetry: telemetry,
		Logger:    logger,
	}
}

// GetClient implements ToolDependencies.
func (d BaseDeps) GetClient(_ context.Context) (*attioapi.Client, error) {
	return d.Client, nil
}

// GetTelemetry implements ToolDependencies.
func (d BaseDeps) GetTelemetry() *migration.Telemetry { return d.Telemetry }

// GetLogger implements ToolDependencies.
func (d BaseDeps) GetLogger() zerolog.Logger { return d.Logger }

// NewTool creates a ServerTool whose handler retrieves ToolDependencies from
// context at call time. Ensure ContextWithDeps runs before any tool handler
// is invoked.
func NewTool[In, Out any](toolset inventory.ToolsetMetadata, tool mcp.Tool, handler func(ctx context.Context, deps ToolDependencies, req *mcp.CallToolRequest, args In) (*mcp.CallToolResult, Out, error)) inventory.ServerTool {
	return inventory.NewServerToolWithContextHandler(tool, toolset, func(ctx context.Context, req *mcp.CallToolRequest, args In) (*mcp.CallToolResult, Out, error) {
		deps := MustDepsFromContext(ctx)
		return handler(ctx, deps, req, args)
	})
}

// NewToolFromHandler creates a ServerTool from a raw mcp.ToolHandler that
// retrieves ToolDependencies from context at call time.
func NewToolFromHandler(toolset inventory.ToolsetMetadata, tool mcp.Tool, handler func(ctx context.Context, deps ToolDependencies, req *mcp.CallToolRequest) (*mcp.CallToolResult, error)) inventory.ServerTool {
	return inventory.NewServerToolWithRawContextHandler(tool, toolset, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		deps := MustDepsFromContext(ctx)
		return handler(ctx, deps, req)
	})
}
