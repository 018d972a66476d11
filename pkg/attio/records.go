package attio

import (
	"context"
	"errors"
	"fmt"

	"github.com/attio/attio-mcp-server/pkg/attioapi"
	attioErrors "github.com/attio/attio-mcp-server/pkg/errors"
	"github.com/attio/attio-mcp-server/pkg/inventory"
	"github.com/attio/attio-mcp-server/pkg/scopes"
	"github.com/attio/attio-mcp-server/pkg/utils"
	"github.com/go-viper/mapstructure/v2"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// resolveObjectSlug maps a canonical resource type to the Attio object slug
// record calls are issued against. The generic records kind targets whichever
// object the caller named via the object parameter; that slug is confirmed
// against the workspace's object configuration (served from the client's TTL
// cache) so typos surface as a clear error instead of a downstream 404. The
// standard kinds are fixed slugs and skip the lookup.
func resolveObjectSlug(ctx context.Context, client *attioapi.Client, rt ResourceType, args map[string]any) (string, error) {
	if rt != ResourceTypeRecords {
		return string(rt), nil
	}
	obj, err := OptionalParam[string](args, "object")
	if err != nil || obj == "" {
		return string(rt), nil
	}
	definition, err := client.GetObject(ctx, obj)
	if err != nil {
		return "", fmt.Errorf("unknown object %q: %w", obj, err)
	}
	return definition.APISlug, nil
}

func resourceTypeSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Description: "The kind of record to operate on. Historical synonyms (singular forms, 'notes') are accepted and canonicalized.",
		Enum:        ResourceTypeEnum(),
	}
}

// SearchRecords creates a tool to search CRM records of a given type.
func SearchRecords() inventory.ServerTool {
	schema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"resource_type": resourceTypeSchema(),
			"query": {
				Type:        "string",
				Description: "Free-text search query. An empty query matches all records.",
			},
			"filters": {
				Type:        "object",
				Description: "Attribute filter object, e.g. {\"name\": {\"$contains\": \"acme\"}}",
			},
			"object": {
				Type:        "string",
				Description: "Object slug to target when resource_type is 'records' (e.g. a custom object)",
			},
		},
		Required: []string{"resource_type"},
	}
	WithPagination(schema)

	st := NewTool(
		ToolsetMetadataRecords,
		mcp.Tool{
			Name:        "search_records",
			Description: "Search CRM records by free-text query and attribute filters. Works across companies, people, deals and custom objects.",
			Annotations: &mcp.ToolAnnotations{
				Title:        "Search records",
				ReadOnlyHint: true,
			},
			InputSchema: schema,
		},
		func(ctx context.Context, deps ToolDependencies, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
			resourceType, err := RequiredParam[string](args, "resource_type")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			rt, err := ValidateResourceType(resourceType)
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			query, err := OptionalParam[string](args, "query")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			filters, err := OptionalObjectParam(args, "filters")
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
			slug, err := resolveObjectSlug(ctx, client, rt, args)
			if err != nil {
				return utils.NewToolResultErrorFromErr("failed to resolve target object", err), nil, nil
			}
			records, err := client.QueryRecords(ctx, slug, attioapi.QueryRecordsRequest{
				Query:  query,
				Filter: filters,
				Limit:  pagination.Limit,
				Offset: pagination.Offset,
			})
			if err != nil {
				return attioErrors.NewAttioAPIErrorResponse(ctx,
					fmt.Sprintf("failed to search %s records", rt),
					statusCode(err),
					err,
				), nil, nil
			}

			return utils.NewToolResultJSON(records), nil, nil
		},
	)
	st.AcceptedScopes = scopes.ExpandScopes(scopes.RecordRead)
	return st
}

// GetRecord creates a tool to fetch one record with all attribute values.
func GetRecord() inventory.ServerTool {
	schema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"resource_type": resourceTypeSchema(),
			"record_id": {
				Type:        "string",
				Description: "The record's unique identifier",
			},
			"object": {
				Type:        "string",
				Description: "Object slug to target when resource_type is 'records'",
			},
		},
		Required: []string{"resource_type", "record_id"},
	}

	st := NewTool(
		ToolsetMetadataRecords,
		mcp.Tool{
			Name:        "get_record",
			Description: "Fetch a single CRM record with all of its attribute values.",
			Annotations: &mcp.ToolAnnotations{
				Title:        "Get record",
				ReadOnlyHint: true,
			},
			InputSchema: schema,
		},
		func(ctx context.Context, deps ToolDependencies, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
			resourceType, err := RequiredParam[string](args, "resource_type")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			rt, err := ValidateResourceType(resourceType)
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			recordID, err := RequiredParam[string](args, "record_id")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}

			client, err := deps.GetClient(ctx)
			if err != nil {
				return utils.NewToolResultErrorFromErr("failed to get Attio client", err), nil, nil
			}
			slug, err := resolveObjectSlug(ctx, client, rt, args)
			if err != nil {
				return utils.NewToolResultErrorFromErr("failed to resolve target object", err), nil, nil
			}
			record, err := client.GetRecord(ctx, slug, recordID)
			if err != nil {
				return attioErrors.NewAttioAPIErrorResponse(ctx,
					fmt.Sprintf("failed to get %s record %q", rt, recordID),
					statusCode(err),
					err,
				), nil, nil
			}

			return utils.NewToolResultJSON(record), nil, nil
		},
	)
	st.AcceptedScopes = scopes.ExpandScopes(scopes.RecordRead)
	return st
}

// createRecordParams is the canonical shape of create_record arguments.
type createRecordParams struct {
	ResourceType string         `mapstructure:"resource_type"`
	Object       string         `mapstructure:"object"`
	Values       map[string]any `mapstructure:"values"`
}

// CreateRecord creates a tool to create a record with attribute values.
func CreateRecord() inventory.ServerTool {
	schema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"resource_type": resourceTypeSchema(),
			"values": {
				Type:        "object",
				Description: "Attribute values keyed by attribute slug",
			},
			"object": {
				Type:        "string",
				Description: "Object slug to target when resource_type is 'records'",
			},
		},
		Required: []string{"resource_type", "values"},
	}

	st := NewTool(
		ToolsetMetadataRecords,
		mcp.Tool{
			Name:        "create_record",
			Description: "Create a CRM record with the given attribute values.",
			Annotations: &mcp.ToolAnnotations{
				Title: "Create record",
			},
			InputSchema: schema,
		},
		func(ctx context.Context, deps ToolDependencies, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
			var params createRecordParams
			if err := mapstructure.Decode(args, &params); err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			rt, err := ValidateResourceType(params.ResourceType)
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			if len(params.Values) == 0 {
				return utils.NewToolResultError("missing required parameter: values"), nil, nil
			}

			client, err := deps.GetClient(ctx)
			if err != nil {
				return utils.NewToolResultErrorFromErr("failed to get Attio client", err), nil, nil
			}
			slug, err := resolveObjectSlug(ctx, client, rt, args)
			if err != nil {
				return utils.NewToolResultErrorFromErr("failed to resolve target object", err), nil, nil
			}
			record, err := client.CreateRecord(ctx, slug, params.Values)
			if err != nil {
				return attioErrors.NewAttioAPIErrorResponse(ctx,
					fmt.Sprintf("failed to create %s record", rt),
					statusCode(err),
					err,
				), nil, nil
			}

			return utils.NewToolResultJSON(record), nil, nil
		},
	)
	st.AcceptedScopes = scopes.ExpandScopes(scopes.RecordReadWrite)
	return st
}

// UpdateRecord creates a tool to patch attribute values on a record.
func UpdateRecord() inventory.ServerTool {
	schema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"resource_type": resourceTypeSchema(),
			"record_id": {
				Type:        "string",
				Description: "The record's unique identifier",
			},
			"values": {
				Type:        "object",
				Description: "Attribute values to update, keyed by attribute slug",
			},
			"object": {
				Type:        "string",
				Description: "Object slug to target when resource_type is 'records'",
			},
		},
		Required: []string{"resource_type", "record_id", "values"},
	}

	st := NewTool(
		ToolsetMetadataRecords,
		mcp.Tool{
			Name:        "update_record",
			Description: "Update attribute values on an existing CRM record.",
			Annotations: &mcp.ToolAnnotations{
				Title: "Update record",
			},
			InputSchema: schema,
		},
		func(ctx context.Context, deps ToolDependencies, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
			resourceType, err := RequiredParam[string](args, "resource_type")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			rt, err := ValidateResourceType(resourceType)
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			recordID, err := RequiredParam[string](args, "record_id")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			values, err := OptionalObjectParam(args, "values")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			if len(values) == 0 {
				return utils.NewToolResultError("missing required parameter: values"), nil, nil
			}

			client, err := deps.GetClient(ctx)
			if err != nil {
				return utils.NewToolResultErrorFromErr("failed to get Attio client", err), nil, nil
			}
			slug, err := resolveObjectSlug(ctx, client, rt, args)
			if err != nil {
				return utils.NewToolResultErrorFromErr("failed to resolve target object", err), nil, nil
			}
			record, err := client.UpdateRecord(ctx, slug, recordID, values)
			if err != nil {
				return attioErrors.NewAttioAPIErrorResponse(ctx,
					fmt.Sprintf("failed to update %s record %q", rt, recordID),
					statusCode(err),
					err,
				), nil, nil
			}

			return utils.NewToolResultJSON(record), nil, nil
		},
	)
	st.AcceptedScopes = scopes.ExpandScopes(scopes.RecordReadWrite)
	return st
}

// DeleteRecord creates a tool to delete a record.
func DeleteRecord() inventory.ServerTool {
	schema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"resource_type": resourceTypeSchema(),
			"record_id": {
				Type:        "string",
				Description: "The record's unique identifier",
			},
			"object": {
				Type:        "string",
				Description: "Object slug to target when resource_type is 'records'",
			},
		},
		Required: []string{"resource_type", "record_id"},
	}

	st := NewTool(
		ToolsetMetadataRecords,
		mcp.Tool{
			Name:        "delete_record",
			Description: "Delete a CRM record. This cannot be undone.",
			Annotations: &mcp.ToolAnnotations{
				Title: "Delete record",
			},
			InputSchema: schema,
		},
		func(ctx context.Context, deps ToolDependencies, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
			resourceType, err := RequiredParam[string](args, "resource_type")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			rt, err := ValidateResourceType(resourceType)
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			recordID, err := RequiredParam[string](args, "record_id")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}

			client, err := deps.GetClient(ctx)
			if err != nil {
				return utils.NewToolResultErrorFromErr("failed to get Attio client", err), nil, nil
			}
			slug, err := resolveObjectSlug(ctx, client, rt, args)
			if err != nil {
				return utils.NewToolResultErrorFromErr("failed to resolve target object", err), nil, nil
			}
			if err := client.DeleteRecord(ctx, slug, recordID); err != nil {
				return attioErrors.NewAttioAPIErrorResponse(ctx,
					fmt.Sprintf("failed to delete %s record %q", rt, recordID),
					statusCode(err),
					err,
				), nil, nil
			}

			return utils.NewToolResultText(fmt.Sprintf("deleted %s record %s", rt, recordID)), nil, nil
		},
	)
	st.AcceptedScopes = scopes.ExpandScopes(scopes.RecordReadWrite)
	return st
}

// statusCode extracts the HTTP status from a downstream API error when
// available.
func statusCode(err error) int {
	var apiErr *attioapi.APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
