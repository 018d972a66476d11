package attioapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// List is an Attio list definition.
type List struct {
	ID struct {
		WorkspaceID string `json:"workspace_id"`
		ListID      string `json:"list_id"`
	} `json:"id"`
	Name         string `json:"name"`
	APISlug      string `json:"api_slug"`
	ParentObject string `json:"parent_object"`
	CreatedAt    string `json:"created_at"`
}

// ListEntry is a record's membership in a list.
type ListEntry struct {
	ID struct {
		WorkspaceID string `json:"workspace_id"`
		ListID      string `json:"list_id"`
		EntryID     string `json:"entry_id"`
	} `json:"id"`
	ParentRecordID string         `json:"parent_record_id"`
	ParentObject   string         `json:"parent_object"`
	EntryValues    map[string]any `json:"entry_values"`
	CreatedAt      string         `json:"created_at"`
}

type listListEnvelope struct {
	Data []List `json:"data"`
}

type listEntryEnvelope struct {
	Data ListEntry `json:"data"`
}

type listEntryListEnvelope struct {
	Data []ListEntry `json:"data"`
}

// GetLists fetches all lists in the workspace.
// GET /v2/lists
func (c *Client) GetLists(ctx context.Context) ([]List, error) {
	var out listListEnvelope
	if err := c.do(ctx, http.MethodGet, "/v2/lists", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// QueryListEntries fetches entries of a list.
// POST /v2/lists/{list_id}/entries/query
func (c *Client) QueryListEntries(ctx context.Context, listID string, limit, offset int) ([]ListEntry, error) {
	var out listEntryListEnvelope
	path := fmt.Sprintf("/v2/lists/%s/entries/query", url.PathEscape(listID))
	body := map[string]any{}
	if limit > 0 {
		body["limit"] = limit
	}
	if offset > 0 {
		body["offset"] = offset
	}
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// CreateListEntry adds a record to a list.
// POST /v2/lists/{list_id}/entries
func (c *Client) CreateListEntry(ctx context.Context, listID, parentObject, parentRecordID string, entryValues map[string]any) (*ListEntry, error) {
	var out listEntryEnvelope
	path := fmt.Sprintf("/v2/lists/%s/entries", url.PathEscape(listID))
	data := map[string]any{
		"parent_object":    parentObject,
		"parent_record_id": parentRecordID,
	}
	if len(entryValues) > 0 {
		data["entry_values"] = entryValues
	}
	if err := c.do(ctx, http.MethodPost, path, map[string]any{"data": data}, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// DeleteListEntry removes a record from a list.
// DELETE /v2/lists/{list_id}/entries/{entry_id}
func (c *Client) DeleteListEntry(ctx context.Context, listID, entryID string) error {
	path := fmt.Sprintf("/v2/lists/%s/entries/%s", url.PathEscape(listID), url.PathEscape(entryID))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
