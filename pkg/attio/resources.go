package attio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/attio/attio-mcp-server/pkg/inventory"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/yosida95/uritemplate/v3"
)

var recordResourceURITemplate = uritemplate.MustNew("attio://{resource_type}/{record_id}")

// AllResources returns every resource template this server can expose.
func AllResources() []inventory.ServerResourceTemplate {
	return []inventory.ServerResourceTemplate{
		GetRecordResourceContent(),
	}
}

// GetRecordResourceContent defines the resource template for reading a CRM
// record by URI.
func GetRecordResourceContent() inventory.ServerResourceTemplate {
	return inventory.NewServerResourceTemplate(
		ToolsetMetadataRecords,
		mcp.ResourceTemplate{
			Name:        "record_content",
			URITemplate: recordResourceURITemplate.Raw(),
			Description: "CRM record content by resource type and record ID",
			MIMEType:    "application/json",
		},
		recordResourceContentsHandlerFunc(recordResourceURITemplate),
	)
}

// recordResourceContentsHandlerFunc returns a ResourceHandlerFunc that creates handlers on-demand.
func recordResourceContentsHandlerFunc(resourceURITemplate *uritemplate.Template) inventory.ResourceHandlerFunc {
	return func(deps any) mcp.ResourceHandler {
		d := deps.(ToolDependencies)
		return RecordResourceContentsHandler(d, resourceURITemplate)
	}
}

// RecordResourceContentsHandler returns a handler function for record content
// requests. Resource type synonyms in the URI are canonicalized the same way
// they are for tool parameters.
func RecordResourceContentsHandler(deps ToolDependencies, resourceURITemplate *uritemplate.Template) mcp.ResourceHandler {
	return func(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uriValues := resourceURITemplate.Match(request.Params.URI)
		if uriValues == nil {
			return nil, fmt.Errorf("failed to match URI: %s", request.Params.URI)
		}

		resourceType := uriValues.Get("resource_type").String()
		recordID := uriValues.Get("record_id").String()
		if resourceType == "" {
			return nil, errors.New("resource_type is required")
		}
		if recordID == "" {
			return nil, errors.New("record_id is required")
		}

		rt, err := ValidateResourceType(resourceType)
		if err != nil {
			return nil, err
		}

		client, err := deps.GetClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get Attio client: %w", err)
		}
		record, err := client.GetRecord(ctx, string(rt), recordID)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s record %q: %w", rt, recordID, err)
		}

		payload, err := json.Marshal(record)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal record: %w", err)
		}

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      request.Params.URI,
					MIMEType: "application/json",
					Text:     string(payload),
				},
			},
		}, nil
	}
}
