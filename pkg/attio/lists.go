package attio

import (
	"context"
	"fmt"

	attioErrors "github.com/attio/attio-mcp-server/pkg/errors"
	"github.com/attio/attio-mcp-server/pkg/inventory"
	"github.com/attio/attio-mcp-server/pkg/scopes"
	"github.com/attio/attio-mcp-server/pkg/utils"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ListLists creates a tool to enumerate the workspace's lists.
func ListLists() inventory.ServerTool {
	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: map[string]*jsonschema.Schema{},
	}

	st := NewTool(
		ToolsetMetadataLists,
		mcp.Tool{
			Name:        "list_lists",
			Description: "List all lists in the workspace.",
			Annotations: &mcp.ToolAnnotations{
				Title:        "List lists",
				ReadOnlyHint: true,
			},
			InputSchema: schema,
		},
		func(ctx context.Context, deps ToolDependencies, _ *mcp.CallToolRequest, _ map[string]any) (*mcp.CallToolResult, any, error) {
			client, err := deps.GetClient(ctx)
			if err != nil {
				return utils.NewToolResultErrorFromErr("failed to get Attio client", err), nil, nil
			}
			lists, err := client.GetLists(ctx)
			if err != nil {
				return attioErrors.NewAttioAPIErrorResponse(ctx,
					"failed to list lists",
					statusCode(err),
					err,
				), nil, nil
			}

			return utils.NewToolResultJSON(lists), nil, nil
		},
	)
	st.AcceptedScopes = scopes.ExpandScopes(scopes.ListConfigurationRead)
	return st
}

// GetListEntries creates a tool to fetch the entries of a list.
func GetListEntries() inventory.ServerTool {
	schema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"list_id": {
				Type:        "string",
				Description: "The list's unique identifier or API slug",
			},
		},
		Required: []string{"list_id"},
	}
	WithPagination(schema)

	st := NewTool(
		ToolsetMetadataLists,
		mcp.Tool{
			Name:        "get_list_entries",
			Description: "Fetch the entries of a list, including entry-level attribute values.",
			Annotations: &mcp.ToolAnnotations{
				Title:        "Get list entries",
				ReadOnlyHint: true,
			},
			InputSchema: schema,
		},
		func(ctx context.Context, deps ToolDependencies, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
			listID, err := RequiredParam[string](args, "list_id")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			pagination, err := OptionalPaginationParams(args)
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}

			client, err := deps.GetClient(ctx)
			if err != nil {
				return utils.NewToolResultErrorFromErr("failed to get Attio client", err), nil, nil
			}
			entries, err := client.QueryListEntries(ctx, listID, pagination.Limit, pagination.Offset)
			if err != nil {
				return attioErrors.NewAttioAPIErrorResponse(ctx,
					fmt.Sprintf("failed to get entries of list %q", listID),
					statusCode(err),
					err,
				), nil, nil
			}

			return utils.NewToolResultJSON(entries), nil, nil
		},
	)
	st.AcceptedScopes = scopes.ExpandScopes(scopes.ListEntryRead)
	return st
}

// AddListEntry creates a tool to add a record to a list.
func AddListEntry() inventory.ServerTool {
	schema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"list_id": {
				Type:        "string",
				Description: "The list's unique identifier or API slug",
			},
			"record_id": {
				Type:        "string",
				Description: "Identifier of the record to add",
			},
			"parent_object": {
				Type:        "string",
				Description: "Object slug of the record (e.g. 'companies')",
			},
			"entry_values": {
				Type:        "object",
				Description: "Entry-level attribute values keyed by attribute slug",
			},
		},
		Required: []string{"list_id", "record_id", "parent_object"},
	}

	st := NewTool(
		ToolsetMetadataLists,
		mcp.Tool{
			Name:        "add_list_entry",
			Description: "Add a record to a list, optionally setting entry-level attribute values.",
			Annotations: &mcp.ToolAnnotations{
				Title: "Add list entry",
			},
			InputSchema: schema,
		},
		func(ctx context.Context, deps ToolDependencies, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
			listID, err := RequiredParam[string](args, "list_id")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			recordID, err := RequiredParam[string](args, "record_id")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			parentObject, err := RequiredParam[string](args, "parent_object")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			entryValues, err := OptionalObjectParam(args, "entry_values")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}

			client, err := deps.GetClient(ctx)
			if err != nil {
				return utils.NewToolResultErrorFromErr("failed to get Attio client", err), nil, nil
			}
			entry, err := client.CreateListEntry(ctx, listID, parentObject, recordID, entryValues)
			if err != nil {
				return attioErrors.NewAttioAPIErrorResponse(ctx,
					fmt.Sprintf("failed to add record %q to list %q", recordID, listID),
					statusCode(err),
					err,
				), nil, nil
			}

			return utils.NewToolResultJSON(entry), nil, nil
		},
	)
	st.AcceptedScopes = scopes.ExpandScopes(scopes.ListEntryReadWrite)
	return st
}

// RemoveListEntry creates a tool to remove an entry from a list.
func RemoveListEntry() inventory.ServerTool {
	schema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"list_id": {
				Type:        "string",
				Description: "The list's unique identifier or API slug",
			},
			"entry_id": {
				Type:        "string",
				Description: "Identifier of the entry to remove",
			},
		},
		Required: []string{"list_id", "entry_id"},
	}

	st := NewTool(
		ToolsetMetadataLists,
		mcp.Tool{
			Name:        "remove_list_entry",
			Description: "Remove an entry from a list. The underlying record is not deleted.",
			Annotations: &mcp.ToolAnnotations{
				Title: "Remove list entry",
			},
			InputSchema: schema,
		},
		func(ctx context.Context, deps ToolDependencies, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
			listID, err := RequiredParam[string](args, "list_id")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			entryID, err := RequiredParam[string](args, "entry_id")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}

			client, err := deps.GetClient(ctx)
			if err != nil {
				return utils.NewToolResultErrorFromErr("failed to get Attio client", err), nil, nil
			}
			if err := client.DeleteListEntry(ctx, listID, entryID); err != nil {
				return attioErrors.NewAttioAPIErrorResponse(ctx,
					fmt.Sprintf("failed to remove entry %q from list %q", entryID, listID),
					statusCode(err),
					err,
				), nil, nil
			}

			return utils.NewToolResultText(fmt.Sprintf("removed entry %s from list %s", entryID, listID)), nil, nil
		},
	)
	st.AcceptedScopes = scopes.ExpandScopes(scopes.ListEntryReadWrite)
	return st
}
