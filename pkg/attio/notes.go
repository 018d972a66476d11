package attio

import (
	"context"
	"fmt"

	"github.com/attio/attio-mcp-server/pkg/attioapi"
	attioErrors "github.com/attio/attio-mcp-server/pkg/errors"
	"github.com/attio/attio-mcp-server/pkg/inventory"
	"github.com/attio/attio-mcp-server/pkg/sanitize"
	"github.com/attio/attio-mcp-server/pkg/scopes"
	"github.com/attio/attio-mcp-server/pkg/utils"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ListNotes creates a tool to list notes, optionally scoped to one record.
func ListNotes() inventory.ServerTool {
	schema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"parent_object": {
				Type:        "string",
				Description: "Object slug to scope notes to (e.g. 'companies')",
			},
			"parent_record_id": {
				Type:        "string",
				Description: "Record identifier to scope notes to",
			},
		},
	}
	WithPagination(schema)

	st := NewTool(
		ToolsetMetadataNotes,
		mcp.Tool{
			Name:        "list_notes",
			Description: "List notes in the workspace, optionally scoped to a single record. Note bodies are sanitized before being returned.",
			Annotations: &mcp.ToolAnnotations{
				Title:        "List notes",
				ReadOnlyHint: true,
			},
			InputSchema: schema,
		},
		func(ctx context.Context, deps ToolDependencies, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
			parentObject, err := OptionalParam[string](args, "parent_object")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			parentRecordID, err := OptionalParam[string](args, "parent_record_id")
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
			notes, err := client.ListNotes(ctx, parentObject, parentRecordID, pagination.Limit, pagination.Offset)
			if err != nil {
				return attioErrors.NewAttioAPIErrorResponse(ctx,
					"failed to list notes",
					statusCode(err),
					err,
				), nil, nil
			}

			// Note bodies are user-authored content and may carry hidden
			// characters or markup intended for the model rather than the
			// reader. Scrub them before returning.
			for i := range notes {
				notes[i].ContentPlaintext = sanitize.Sanitize(notes[i].ContentPlaintext)
				notes[i].Title = sanitize.Sanitize(notes[i].Title)
			}

			return utils.NewToolResultJSON(notes), nil, nil
		},
	)
	st.AcceptedScopes = scopes.ExpandScopes(scopes.NoteRead)
	return st
}

// CreateNote creates a tool to attach a note to a record.
func CreateNote() inventory.ServerTool {
	schema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"parent_object": {
				Type:        "string",
				Description: "Object slug of the record the note belongs to",
			},
			"parent_record_id": {
				Type:        "string",
				Description: "Identifier of the record the note belongs to",
			},
			"title": {
				Type:        "string",
				Description: "Note title",
			},
			"content": {
				Type:        "string",
				Description: "Note body",
			},
			"format": {
				Type:        "string",
				Description: "Content format",
				Enum:        []any{"plaintext", "markdown"},
			},
		},
		Required: []string{"parent_object", "parent_record_id", "title", "content"},
	}

	st := NewTool(
		ToolsetMetadataNotes,
		mcp.Tool{
			Name:        "create_note",
			Description: "Attach a note to a record.",
			Annotations: &mcp.ToolAnnotations{
				Title: "Create note",
			},
			InputSchema: schema,
		},
		func(ctx context.Context, deps ToolDependencies, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
			parentObject, err := RequiredParam[string](args, "parent_object")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			parentRecordID, err := RequiredParam[string](args, "parent_record_id")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			title, err := RequiredParam[string](args, "title")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			content, err := RequiredParam[string](args, "content")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			format, err := OptionalParam[string](args, "format")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			if format == "" {
				format = "plaintext"
			}

			client, err := deps.GetClient(ctx)
			if err != nil {
				return utils.NewToolResultErrorFromErr("failed to get Attio client", err), nil, nil
			}
			note, err := client.CreateNote(ctx, attioapi.CreateNoteRequest{
				ParentObject:   parentObject,
				ParentRecordID: parentRecordID,
				Title:          title,
				Format:         format,
				Content:        content,
			})
			if err != nil {
				return attioErrors.NewAttioAPIErrorResponse(ctx,
					"failed to create note",
					statusCode(err),
					err,
				), nil, nil
			}

			return utils.NewToolResultJSON(note), nil, nil
		},
	)
	st.AcceptedScopes = scopes.ExpandScopes(scopes.NoteReadWrite)
	return st
}

// DeleteNote creates a tool to delete a note.
func DeleteNote() inventory.ServerTool {
	schema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"note_id": {
				Type:        "string",
				Description: "The note's unique identifier",
			},
		},
		Required: []string{"note_id"},
	}

	st := NewTool(
		ToolsetMetadataNotes,
		mcp.Tool{
			Name:        "delete_note",
			Description: "Delete a note. This cannot be undone.",
			Annotations: &mcp.ToolAnnotations{
				Title: "Delete note",
			},
			InputSchema: schema,
		},
		func(ctx context.Context, deps ToolDependencies, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
			noteID, err := RequiredParam[string](args, "note_id")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}

			client, err := deps.GetClient(ctx)
			if err != nil {
				return utils.NewToolResultErrorFromErr("failed to get Attio client", err), nil, nil
			}
			if err := client.DeleteNote(ctx, noteID); err != nil {
				return attioErrors.NewAttioAPIErrorResponse(ctx,
					fmt.Sprintf("failed to delete note %q", noteID),
					statusCode(err),
					err,
				), nil, nil
			}

			return utils.NewToolResultText(fmt.Sprintf("deleted note %s", noteID)), nil, nil
		},
	)
	st.AcceptedScopes = scopes.ExpandScopes(scopes.NoteReadWrite)
	return st
}
