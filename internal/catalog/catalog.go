// Package catalog caches work item field definitions per (project, work
// item type) so that an import does not pay a network round trip for the
// schema on every invocation. The cache is the only state that survives
// across pipeline runs; it is owned explicitly and passed into the
// pipeline rather than living as a package-level singleton.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/dshills/azdo-mcp/internal/azdo"
)

const (
	// DefaultTTL is how long a cached field catalog stays valid.
	DefaultTTL = 15 * time.Minute

	// maxEntries bounds the number of cached (project, type) catalogs.
	maxEntries = 128
)

// Catalog is a TTL cache over a FieldService.
type Catalog struct {
	svc   azdo.FieldService
	cache *expirable.LRU[string, []azdo.FieldDefinition]
}

// New creates a catalog backed by svc. A non-positive ttl falls back to
// DefaultTTL.
func New(svc azdo.FieldService, ttl time.Duration) *Catalog {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Catalog{
		svc:   svc,
		cache: expirable.NewLRU[string, []azdo.FieldDefinition](maxEntries, nil, ttl),
	}
}

// GetOrFetch returns the field definitions for (project, workItemType),
// fetching from the remote service on a cache miss.
func (c *Catalog) GetOrFetch(ctx context.Context, project, workItemType string) ([]azdo.FieldDefinition, error) {
	key := cacheKey(project, workItemType)
	if fields, ok := c.cache.Get(key); ok {
		return fields, nil
	}

	fields, err := c.svc.ListFields(ctx, project, workItemType)
	if err != nil {
		return nil, fmt.Errorf("fetch field catalog for %s: %w", key, err)
	}

	c.cache.Add(key, fields)
	return fields, nil
}

// Invalidate drops the cached catalog for (project, workItemType).
func (c *Catalog) Invalidate(project, workItemType string) {
	c.cache.Remove(cacheKey(project, workItemType))
}

func cacheKey(project, workItemType string) string {
	return project + "/" + workItemType
}
