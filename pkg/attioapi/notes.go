package attioapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Note is an Attio note attached to a parent record.
type Note struct {
	ID struct {
		WorkspaceID string `json:"workspace_id"`
		NoteID      string `json:"note_id"`
	} `json:"id"`
	ParentObject     string `json:"parent_object"`
	ParentRecordID   string `json:"parent_record_id"`
	Title            string `json:"title"`
	ContentPlaintext string `json:"content_plaintext"`
	CreatedAt        string `json:"created_at"`
}

type noteEnvelope struct {
	Data Note `json:"data"`
}

type noteListEnvelope struct {
	Data []Note `json:"data"`
}

// CreateNoteRequest is the body of a note creation call.
type CreateNoteRequest struct {
	ParentObject   string `json:"parent_object"`
	ParentRecordID string `json:"parent_record_id"`
	Title          string `json:"title"`
	Format         string `json:"format"`
	Content        string `json:"content"`
}

// ListNotes fetches notes, optionally scoped to a parent record.
// GET /v2/notes
func (c *Client) ListNotes(ctx context.Context, parentObject, parentRecordID string, limit, offset int) ([]Note, error) {
	var out noteListEnvelope
	q := url.Values{}
	if parentObject != "" {
		q.Set("parent_object", parentObject)
	}
	if parentRecordID != "" {
		q.Set("parent_record_id", parentRecordID)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	path := "/v2/notes"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// CreateNote attaches a note to a record.
// POST /v2/notes
func (c *Client) CreateNote(ctx context.Context, req CreateNoteRequest) (*Note, error) {
	var out noteEnvelope
	body := map[string]any{"data": req}
	if err := c.do(ctx, http.MethodPost, "/v2/notes", body, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// DeleteNote removes a note.
// DELETE /v2/notes/{note_id}
func (c *Client) DeleteNote(ctx context.Context, noteID string) error {
	path := fmt.Sprintf("/v2/notes/%s", url.PathEscape(noteID))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
