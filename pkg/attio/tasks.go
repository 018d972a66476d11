package attio

import (
	"context"
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

// ListTasks creates a tool to list workspace tasks.
func ListTasks() inventory.ServerTool {
	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: map[string]*jsonschema.Schema{},
	}
	WithPagination(schema)

	st := NewTool(
		ToolsetMetadataTasks,
		mcp.Tool{
			Name:        "list_tasks",
			Description: "List tasks in the workspace, newest first.",
			Annotations: &mcp.ToolAnnotations{
				Title:        "List tasks",
				ReadOnlyHint: true,
			},
			InputSchema: schema,
		},
		func(ctx context.Context, deps ToolDependencies, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
			pagination, err := OptionalPaginationParams(args)
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}

			client, err := deps.GetClient(ctx)
			if err != nil {
				return utils.NewToolResultErrorFromErr("failed to get Attio client", err), nil, nil
			}
			tasks, err := client.ListTasks(ctx, pagination.Limit, pagination.Offset)
			if err != nil {
				return attioErrors.NewAttioAPIErrorResponse(ctx,
					"failed to list tasks",
					statusCode(err),
					err,
				), nil, nil
			}

			return utils.NewToolResultJSON(tasks), nil, nil
		},
	)
	st.AcceptedScopes = scopes.ExpandScopes(scopes.TaskRead)
	return st
}

// createTaskParams is the canonical shape of create_task arguments.
type createTaskParams struct {
	Content       string   `mapstructure:"content"`
	Format        string   `mapstructure:"format"`
	DeadlineAt    string   `mapstructure:"deadline_at"`
	IsCompleted   bool     `mapstructure:"is_completed"`
	LinkedRecords []map[string]any `mapstructure:"linked_records"`
	Assignees     []map[string]any `mapstructure:"assignees"`
}

// CreateTask creates a tool to create a task.
func CreateTask() inventory.ServerTool {
	schema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"content": {
				Type:        "string",
				Description: "The task's text content",
			},
			"format": {
				Type:        "string",
				Description: "Content format",
				Enum:        []any{"plaintext"},
			},
			"deadline_at": {
				Type:        "string",
				Description: "Deadline as an RFC 3339 timestamp",
			},
			"is_completed": {
				Type:        "boolean",
				Description: "Whether the task starts out completed",
			},
			"linked_records": {
				Type:        "array",
				Description: "Record identifiers to link the task to",
				Items:       &jsonschema.Schema{Type: "string"},
			},
			"assignees": {
				Type:        "array",
				Description: "Workspace member identifiers to assign",
				Items:       &jsonschema.Schema{Type: "string"},
			},
		},
		Required: []string{"content"},
	}

	st := NewTool(
		ToolsetMetadataTasks,
		mcp.Tool{
			Name:        "create_task",
			Description: "Create a task, optionally linked to records and assigned to workspace members.",
			Annotations: &mcp.ToolAnnotations{
				Title: "Create task",
			},
			InputSchema: schema,
		},
		func(ctx context.Context, deps ToolDependencies, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
			var params createTaskParams
			if err := mapstructure.Decode(args, &params); err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			if params.Content == "" {
				return utils.NewToolResultError("missing required parameter: content"), nil, nil
			}
			if params.Format == "" {
				params.Format = "plaintext"
			}

			client, err := deps.GetClient(ctx)
			if err != nil {
				return utils.NewToolResultErrorFromErr("failed to get Attio client", err), nil, nil
			}
			task, err := client.CreateTask(ctx, attioapi.CreateTaskRequest{
				Content:       params.Content,
				Format:        params.Format,
				DeadlineAt:    params.DeadlineAt,
				IsCompleted:   params.IsCompleted,
				LinkedRecords: params.LinkedRecords,
				Assignees:     params.Assignees,
			})
			if err != nil {
				return attioErrors.NewAttioAPIErrorResponse(ctx,
					"failed to create task",
					statusCode(err),
					err,
				), nil, nil
			}

			return utils.NewToolResultJSON(task), nil, nil
		},
	)
	st.AcceptedScopes = scopes.ExpandScopes(scopes.TaskReadWrite)
	return st
}

// UpdateTask creates a tool to update a task's deadline or completion state.
func UpdateTask() inventory.ServerTool {
	schema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"task_id": {
				Type:        "string",
				Description: "The task's unique identifier",
			},
			"deadline_at": {
				Type:        "string",
				Description: "New deadline as an RFC 3339 timestamp",
			},
			"is_completed": {
				Type:        "boolean",
				Description: "New completion state",
			},
		},
		Required: []string{"task_id"},
	}

	st := NewTool(
		ToolsetMetadataTasks,
		mcp.Tool{
			Name:        "update_task",
			Description: "Update a task's deadline or completion state.",
			Annotations: &mcp.ToolAnnotations{
				Title: "Update task",
			},
			InputSchema: schema,
		},
		func(ctx context.Context, deps ToolDependencies, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
			taskID, err := RequiredParam[string](args, "task_id")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}

			update := attioapi.UpdateTaskRequest{}
			if deadline, ok, err := OptionalParamOK[string](args, "deadline_at"); err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			} else if ok {
				update.DeadlineAt = &deadline
			}
			if completed, ok, err := OptionalParamOK[bool](args, "is_completed"); err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			} else if ok {
				update.IsCompleted = &completed
			}
			if update.DeadlineAt == nil && update.IsCompleted == nil {
				return utils.NewToolResultError("at least one of deadline_at or is_completed must be provided"), nil, nil
			}

			client, err := deps.GetClient(ctx)
			if err != nil {
				return utils.NewToolResultErrorFromErr("failed to get Attio client", err), nil, nil
			}
			task, err := client.UpdateTask(ctx, taskID, update)
			if err != nil {
				return attioErrors.NewAttioAPIErrorResponse(ctx,
					fmt.Sprintf("failed to update task %q", taskID),
					statusCode(err),
					err,
				), nil, nil
			}

			return utils.NewToolResultJSON(task), nil, nil
		},
	)
	st.AcceptedScopes = scopes.ExpandScopes(scopes.TaskReadWrite)
	return st
}

// DeleteTask creates a tool to delete a task.
func DeleteTask() inventory.ServerTool {
	schema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"task_id": {
				Type:        "string",
				Description: "The task's unique identifier",
			},
		},
		Required: []string{"task_id"},
	}

	st := NewTool(
		ToolsetMetadataTasks,
		mcp.Tool{
			Name:        "delete_task",
			Description: "Delete a task. This cannot be undone.",
			Annotations: &mcp.ToolAnnotations{
				Title: "Delete task",
			},
			InputSchema: schema,
		},
		func(ctx context.Context, deps ToolDependencies, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
			taskID, err := RequiredParam[string](args, "task_id")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}

			client, err := deps.GetClient(ctx)
			if err != nil {
				return utils.NewToolResultErrorFromErr("failed to get Attio client", err), nil, nil
			}
			if err := client.DeleteTask(ctx, taskID); err != nil {
				return attioErrors.NewAttioAPIErrorResponse(ctx,
					fmt.Sprintf("failed to delete task %q", taskID),
					statusCode(err),
					err,
				), nil, nil
			}

			return utils.NewToolResultText(fmt.Sprintf("deleted task %s", taskID)), nil, nil
		},
	)
	st.AcceptedScopes = scopes.ExpandScopes(scopes.TaskReadWrite)
	return st
}
