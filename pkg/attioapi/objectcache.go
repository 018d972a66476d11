package attioapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/muesli/cache2go"
)

// objectCacheTTL bounds how long object schema lookups are reused. Object
// configuration changes rarely; a short TTL keeps attribute renames visible
// without hammering the API on every record call.
const objectCacheTTL = 5 * time.Minute

// Object describes an Attio object type (companies, people, deals, ...).
type Object struct {
	ID struct {
		WorkspaceID string `json:"workspace_id"`
		ObjectID    string `json:"object_id"`
	} `json:"id"`
	APISlug      string `json:"api_slug"`
	SingularNoun string `json:"singular_noun"`
	PluralNoun   string `json:"plural_noun"`
	CreatedAt    string `json:"created_at"`
}

type objectEnvelope struct {
	Data Object `json:"data"`
}

// objectCache memoizes object schema lookups per client. Each client gets
// its own cache table so tests against different fake servers don't share
// entries.
type objectCache struct {
	client *Client
	table  *cache2go.CacheTable
}

func newObjectCache(client *Client) *objectCache {
	return &objectCache{
		client: client,
		table:  cache2go.Cache("attio-objects-" + uuid.NewString()),
	}
}

func (oc *objectCache) get(ctx context.Context, slug string) (*Object, error) {
	if item, err := oc.table.Value(slug); err == nil {
		if obj, ok := item.Data().(*Object); ok {
			return obj, nil
		}
	}

	var out objectEnvelope
	path := fmt.Sprintf("/v2/objects/%s", url.PathEscape(slug))
	if err := oc.client.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	oc.table.Add(slug, objectCacheTTL, &out.Data)
	return &out.Data, nil
}

// GetObject fetches an object definition by slug, served from a TTL cache
// when possible.
func (c *Client) GetObject(ctx context.Context, slug string) (*Object, error) {
	return c.objects.get(ctx, slug)
}

// FlushObjectCache drops all cached object definitions.
func (c *Client) FlushObjectCache() {
	c.objects.table.Flush()
}
