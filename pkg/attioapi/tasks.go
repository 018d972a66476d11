package attioapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Task is an Attio workspace task.
type Task struct {
	ID struct {
		WorkspaceID string `json:"workspace_id"`
		TaskID      string `json:"task_id"`
	} `json:"id"`
	ContentPlaintext string `json:"content_plaintext"`
	DeadlineAt       string `json:"deadline_at,omitempty"`
	IsCompleted      bool   `json:"is_completed"`
	LinkedRecords    []any  `json:"linked_records,omitempty"`
	Assignees        []any  `json:"assignees,omitempty"`
	CreatedAt        string `json:"created_at"`
}

type taskEnvelope struct {
	Data Task `json:"data"`
}

type taskListEnvelope struct {
	Data []Task `json:"data"`
}

// CreateTaskRequest is the body of a task creation call.
type CreateTaskRequest struct {
	Content       string           `json:"content"`
	Format        string           `json:"format"`
	DeadlineAt    string           `json:"deadline_at,omitempty"`
	IsCompleted   bool             `json:"is_completed"`
	LinkedRecords []map[string]any `json:"linked_records,omitempty"`
	Assignees     []map[string]any `json:"assignees,omitempty"`
}

// UpdateTaskRequest is the body of a task update call. Pointer fields are
// omitted when nil so partial updates do not clobber existing values.
type UpdateTaskRequest struct {
	DeadlineAt  *string `json:"deadline_at,omitempty"`
	IsCompleted *bool   `json:"is_completed,omitempty"`
}

// ListTasks fetches workspace tasks.
// GET /v2/tasks
func (c *Client) ListTasks(ctx context.Context, limit, offset int) ([]Task, error) {
	var out taskListEnvelope
	path := "/v2/tasks"
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// CreateTask creates a workspace task.
// POST /v2/tasks
func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (*Task, error) {
	var out taskEnvelope
	body := map[string]any{"data": req}
	if err := c.do(ctx, http.MethodPost, "/v2/tasks", body, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// UpdateTask patches a workspace task.
// PATCH /v2/tasks/{task_id}
func (c *Client) UpdateTask(ctx context.Context, taskID string, req UpdateTaskRequest) (*Task, error) {
	var out taskEnvelope
	path := fmt.Sprintf("/v2/tasks/%s", url.PathEscape(taskID))
	body := map[string]any{"data": req}
	if err := c.do(ctx, http.MethodPatch, path, body, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// DeleteTask removes a workspace task.
// DELETE /v2/tasks/{task_id}
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	path := fmt.Sprintf("/v2/tasks/%s", url.PathEscape(taskID))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
