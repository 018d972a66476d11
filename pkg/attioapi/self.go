package attioapi

import (
	"context"
	"net/http"
)

// TokenInfo describes the workspace access token in use, including which
// scopes it was granted. Returned by the introspection endpoint.
type TokenInfo struct {
	Active        bool   `json:"active"`
	Scope         string `json:"scope"`
	ClientID      string `json:"client_id"`
	TokenType     string `json:"token_type"`
	WorkspaceID   string `json:"authorized_by_workspace_member_id,omitempty"`
	WorkspaceName string `json:"workspace_name,omitempty"`
}

// GetSelf introspects the current token.
// GET /v2/self
func (c *Client) GetSelf(ctx context.Context) (*TokenInfo, error) {
	var out TokenInfo
	if err := c.do(ctx, http.MethodGet, "/v2/self", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
