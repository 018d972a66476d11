package attioapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Record is a single Attio record with its identifier and attribute values.
type Record struct {
	ID struct {
		WorkspaceID string `json:"workspace_id"`
		ObjectID    string `json:"object_id"`
		RecordID    string `json:"record_id"`
	} `json:"id"`
	CreatedAt string         `json:"created_at"`
	WebURL    string         `json:"web_url"`
	Values    map[string]any `json:"values"`
}

type recordEnvelope struct {
	Data Record `json:"data"`
}

type recordListEnvelope struct {
	Data []Record `json:"data"`
}

// QueryRecordsRequest is the body of a records query call.
type QueryRecordsRequest struct {
	Query  string           `json:"query,omitempty"`
	Filter map[string]any   `json:"filter,omitempty"`
	Sorts  []map[string]any `json:"sorts,omitempty"`
	Limit  int              `json:"limit,omitempty"`
	Offset int              `json:"offset,omitempty"`
}

// QueryRecords searches records of an object.
// POST /v2/objects/{object}/records/query
func (c *Client) QueryRecords(ctx context.Context, object string, req QueryRecordsRequest) ([]Record, error) {
	var out recordListEnvelope
	path := fmt.Sprintf("/v2/objects/%s/records/query", url.PathEscape(object))
	if err := c.do(ctx, http.MethodPost, path, req, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// GetRecord fetches a single record.
// GET /v2/objects/{object}/records/{record_id}
func (c *Client) GetRecord(ctx context.Context, object, recordID string) (*Record, error) {
	var out recordEnvelope
	path := fmt.Sprintf("/v2/objects/%s/records/%s", url.PathEscape(object), url.PathEscape(recordID))
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// CreateRecord creates a record with the given attribute values.
// POST /v2/objects/{object}/records
func (c *Client) CreateRecord(ctx context.Context, object string, values map[string]any) (*Record, error) {
	var out recordEnvelope
	path := fmt.Sprintf("/v2/objects/%s/records", url.PathEscape(object))
	body := map[string]any{"data": map[string]any{"values": values}}
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// UpdateRecord patches attribute values on an existing record.
// PATCH /v2/objects/{object}/records/{record_id}
func (c *Client) UpdateRecord(ctx context.Context, object, recordID string, values map[string]any) (*Record, error) {
	var out recordEnvelope
	path := fmt.Sprintf("/v2/objects/%s/records/%s", url.PathEscape(object), url.PathEscape(recordID))
	body := map[string]any{"data": map[string]any{"values": values}}
	if err := c.do(ctx, http.MethodPatch, path, body, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// DeleteRecord removes a record.
// DELETE /v2/objects/{object}/records/{record_id}
func (c *Client) DeleteRecord(ctx context.Context, object, recordID string) error {
	path := fmt.Sprintf("/v2/objects/%s/records/%s", url.PathEscape(object), url.PathEscape(recordID))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
