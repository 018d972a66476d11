package attio

import (
	"fmt"

	"github.com/attio/attio-mcp-server/pkg/migration"
)

// ToolResolution is the outcome of resolving an incoming tool name.
// Alias is non-nil if and only if the input name was not already canonical.
type ToolResolution struct {
	Name  string
	Alias *AliasDefinition
}

// UnknownToolError reports a name that is neither a canonical tool nor a
// registered alias.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q: not a canonical tool name and not a registered alias", e.Name)
}

// Resolver maps any incoming tool name - current canonical, deprecated
// kebab-case, or deprecated noun-verb - to one canonical name. The canonical
// set and alias registry are fixed at construction; Resolve is a pure lookup
// plus a best-effort telemetry side effect.
type Resolver struct {
	canonical map[string]bool
	registry  *AliasRegistry
	telemetry *migration.Telemetry
}

// NewResolver builds a resolver over the canonical tool names and the alias
// registry. telemetry may be nil, in which case resolutions go unobserved.
func NewResolver(canonicalNames []string, registry *AliasRegistry, telemetry *migration.Telemetry) *Resolver {
	canonical := make(map[string]bool, len(canonicalNames))
	for _, name := range canonicalNames {
		canonical[name] = true
	}
	return &Resolver{
		canonical: canonical,
		registry:  registry,
		telemetry: telemetry,
	}
}

// Resolve returns the canonical resolution for name, or an UnknownToolError.
// On success it records the resolution with the migration telemetry; that
// recording is best-effort and can never fail or delay the resolution
// result.
func (r *Resolver) Resolve(name string) (ToolResolution, error) {
	if r.canonical[name] {
		res := ToolResolution{Name: name}
		r.record(migration.Resolution{Target: name})
		return res, nil
	}

	if def, ok := r.registry.Lookup(name); ok {
		res := ToolResolution{Name: def.Target, Alias: &def}
		r.record(migration.Resolution{
			Alias:     def.Alias,
			Target:    def.Target,
			RemovedIn: def.RemovedIn,
		})
		return res, nil
	}

	return ToolResolution{}, &UnknownToolError{Name: name}
}

// IsCanonical reports whether name is a member of the canonical tool set.
func (r *Resolver) IsCanonical(name string) bool {
	return r.canonical[name]
}

func (r *Resolver) record(res migration.Resolution) {
	if r.telemetry == nil {
		return
	}
	// Telemetry.Record swallows its own failures; the extra recover guards
	// against a nil-map style defect inside the telemetry layer itself so
	// resolution still returns.
	defer func() { _ = recover() }()
	r.telemetry.Record(res)
}
