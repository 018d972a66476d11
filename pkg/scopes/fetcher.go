package scopes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultFetchTimeout is the default timeout for scope fetching requests.
const DefaultFetchTimeout = 10 * time.Second

// FetcherOptions configures the scope fetcher.
type FetcherOptions struct {
	// HTTPClient is the HTTP client to use for requests.
	// If nil, a default client with DefaultFetchTimeout is used.
	HTTPClient *http.Client

	// APIHost is the Attio API host. Defaults to "https://api.attio.com".
	APIHost string
}

// Fetcher retrieves token scopes from Attio's token introspection endpoint.
type Fetcher struct {
	client  *http.Client
	apiHost string
}

// NewFetcher creates a new scope fetcher with the given options.
func NewFetcher(opts FetcherOptions) *Fetcher {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}

	apiHost := opts.APIHost
	if apiHost == "" {
		apiHost = "https://api.attio.com"
	}

	return &Fetcher{
		client:  client,
		apiHost: apiHost,
	}
}

// selfResponse is the subset of GET /v2/self we care about.
type selfResponse struct {
	Active bool   `json:"active"`
	Scope  string `json:"scope"`
}

// FetchTokenScopes retrieves the scopes of an access token by calling the
// token introspection endpoint (GET /v2/self) and parsing its scope list.
func (f *Fetcher) FetchTokenScopes(ctx context.Context, token string) ([]string, error) {
	endpoint, err := url.JoinPath(f.apiHost, "/v2/self")
	if err != nil {
		return nil, fmt.Errorf("failed to construct API URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scopes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("invalid or expired token")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body selfResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode introspection response: %w", err)
	}
	if !body.Active {
		return nil, fmt.Errorf("token is not active")
	}

	return ParseScopeList(body.Scope), nil
}

// ParseScopeList parses a space-separated scope string (the OAuth 2.0
// "scope" wire format) into a list of scopes. Commas are tolerated.
// Returns an empty slice for an empty string.
func ParseScopeList(raw string) []string {
	if raw == "" {
		return []string{}
	}

	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ' ' || r == ','
	})
	scopes := make([]string, 0, len(parts))
	for _, part := range parts {
		scope := strings.TrimSpace(part)
		if scope != "" {
			scopes = append(scopes, scope)
		}
	}
	return scopes
}

// FetchTokenScopes is a convenience function that creates a default fetcher
// and fetches the token scopes.
func FetchTokenScopes(ctx context.Context, token string) ([]string, error) {
	return NewFetcher(FetcherOptions{}).FetchTokenScopes(ctx, token)
}

// FetchTokenScopesWithHost is a convenience function that creates a fetcher
// for a specific API host and fetches the token scopes.
func FetchTokenScopesWithHost(ctx context.Context, token, apiHost string) ([]string, error) {
	return NewFetcher(FetcherOptions{APIHost: apiHost}).FetchTokenScopes(ctx, token)
}
