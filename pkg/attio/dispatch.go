package attio

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/attio/attio-mcp-server/pkg/inventory"
	"github.com/attio/attio-mcp-server/pkg/utils"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
)

// toolFamilies maps canonical tools that do not take a resource_type
// parameter to the transformation family their parameters belong to.
// Record-scoped tools resolve their family per call from the validated
// resource_type instead.
var toolFamilies = map[string]ResourceType{
	"list_tasks":  ResourceTypeTasks,
	"create_task": ResourceTypeTasks,
	"update_task": ResourceTypeTasks,
	"delete_task": ResourceTypeTasks,

	// Note tools carry their own table: a resource_type of "notes"
	// canonicalizes to records, but note payloads must not receive the
	// records-family defaults.
	"list_notes":  noteToolsFamily,
	"create_note": noteToolsFamily,
	"delete_note": noteToolsFamily,

	"list_lists":        ResourceTypeLists,
	"get_list_entries":  ResourceTypeLists,
	"add_list_entry":    ResourceTypeLists,
	"remove_list_entry": ResourceTypeLists,
}

// Dispatcher runs the per-call pipeline:
//
//	NameResolution → ResourceValidation → ParameterTransformation →
//	Dispatch(handler) → Envelope
//
// Stages run strictly in order; the first failure short-circuits without
// invoking later stages or the handler, and every outcome - success or any
// failure - leaves through the same envelope shape.
type Dispatcher struct {
	resolver *Resolver
	inv      *inventory.Inventory
	logger   zerolog.Logger
}

// NewDispatcher wires the resolver and inventory into a pipeline.
func NewDispatcher(resolver *Resolver, inv *inventory.Inventory, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		resolver: resolver,
		inv:      inv,
		logger:   logger,
	}
}

// Call processes one tool invocation. It always returns an envelope with
// populated content: pipeline errors become error envelopes at this
// boundary, handler errors pass through unchanged, and even a panicking
// handler is answered with a synthesized error text.
func (d *Dispatcher) Call(ctx context.Context, name string, args map[string]any) (result *mcp.CallToolResult) {
	callID := uuid.NewString()

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().Str("call_id", callID).Str("tool", name).Interface("panic", r).Msg("tool call panicked")
			result = utils.NewToolResultError(fmt.Sprintf("internal failure while executing %q", name))
		}
	}()

	// Stage 1: name resolution.
	res, err := d.resolver.Resolve(name)
	if err != nil {
		return utils.NewToolResultError(err.Error())
	}
	if res.Alias != nil {
		// Side-channel advisory only; never alters the envelope.
		d.logger.Warn().
			Str("call_id", callID).
			Str("alias", res.Alias.Alias).
			Str("target", res.Alias.Target).
			Str("removed_in", res.Alias.RemovedIn).
			Msg("deprecated tool alias resolved")
	}

	// Stage 2: resource type validation. Tools without a resource_type
	// parameter carry a statically declared family.
	family, hasFamily := toolFamilies[res.Name]
	if raw, ok := args["resource_type"]; ok {
		str, ok := raw.(string)
		if !ok {
			return utils.NewToolResultError(fmt.Sprintf("parameter resource_type is not of type string, is %T", raw))
		}
		rt, err := ValidateResourceType(str)
		if err != nil {
			return utils.NewToolResultError(err.Error())
		}
		args = copyParams(args)
		args["resource_type"] = string(rt)
		family, hasFamily = rt, true
	}

	// Stage 3: parameter transformation.
	if hasFamily {
		canonical, err := TransformParams(family, args)
		if err != nil {
			return utils.NewToolResultError(err.Error())
		}
		args = canonical
	}

	// Stage 4: dispatch to the resource handler.
	tool, _, err := d.inv.FindToolByName(res.Name)
	if err != nil {
		return utils.NewToolResultError(err.Error())
	}
	encoded, err := json.Marshal(args)
	if err != nil {
		return utils.NewToolResultErrorFromErr("failed to encode canonical parameters", err)
	}
	req := &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{
			Name:      res.Name,
			Arguments: encoded,
		},
	}

	handler := tool.Handler(nil)
	out, err := handler(ctx, req)
	if err != nil {
		// Downstream errors pass through unchanged; retry policy, if any,
		// belongs to the handler.
		return utils.NewToolResultError(err.Error())
	}
	if out == nil {
		return utils.NewToolResultError(fmt.Sprintf("tool %q returned no result", res.Name))
	}
	return out
}

// HandlerFor adapts the pipeline to an mcp.ToolHandler registered under the
// given incoming name. Canonical tools and deprecated aliases are both
// registered through this wrapper so every call takes the same path.
func (d *Dispatcher) HandlerFor(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args map[string]any
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return utils.NewToolResultErrorFromErr("failed to decode tool arguments", err), nil
			}
		}
		if args == nil {
			args = map[string]any{}
		}
		return d.Call(ctx, name, args), nil
	}
}
