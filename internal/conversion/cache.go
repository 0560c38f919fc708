// Package conversion coordinates the asynchronous backend-side bulk
// conversion of source calculations into target-platform (DAX) expressions.
// The backend cannot complete a conversion synchronously within one request,
// so the orchestrator drives a kickoff-then-poll protocol over a client-side
// cache of converted results.
package conversion

import (
	"sync"

	gocache "github.com/patrickmn/go-cache"
)

// Converted holds one converted expression pair plus metadata.
type Converted struct {
	SourceID         string `json:"sourceId"`
	Name             string `json:"name,omitempty"`
	SourceExpression string `json:"sourceExpression"`
	TargetExpression string `json:"targetExpression"`
}

// Cache is the conversion result cache, keyed by source item id and scoped to
// one project/spec at a time. Append-only within a scope: entries are never
// evicted individually, only cleared wholesale when the scope changes. The
// cache never holds two entries for the same source id.
type Cache struct {
	mu    sync.Mutex
	scope string
	items *gocache.Cache
	order []string // insertion order of source ids
}

// NewCache creates an empty, unscoped cache.
func NewCache() *Cache {
	return &Cache{
		items: gocache.New(gocache.NoExpiration, 0),
	}
}

// Rescope binds the cache to the given scope, flushing everything when the
// scope actually changes. Binding the current scope again is a no-op.
func (c *Cache) Rescope(scopeID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scope == scopeID {
		return
	}
	c.scope = scopeID
	c.items.Flush()
	c.order = nil
}

// Scope returns the scope the cache is currently bound to.
func (c *Cache) Scope() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scope
}

// Merge appends items not yet present and returns the newly added ones.
// Items whose source id is already cached are skipped, which makes repeated
// poll merges and overlapping convert batches idempotent.
func (c *Cache) Merge(items []Converted) []Converted {
	c.mu.Lock()
	defer c.mu.Unlock()

	var added []Converted
	for _, it := range items {
		if it.SourceID == "" {
			continue
		}
		// Add fails when the key exists, which is exactly the dedupe we want.
		if err := c.items.Add(it.SourceID, it, gocache.NoExpiration); err != nil {
			continue
		}
		c.order = append(c.order, it.SourceID)
		added = append(added, it)
	}
	return added
}

// Missing filters ids down to those not present in the cache, preserving order.
func (c *Cache) Missing(ids []string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []string
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := c.items.Get(id); !ok {
			out = append(out, id)
		}
	}
	return out
}

// Snapshot returns all cached items in insertion order.
func (c *Cache) Snapshot() []Converted {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Converted, 0, len(c.order))
	for _, id := range c.order {
		if v, ok := c.items.Get(id); ok {
			out = append(out, v.(Converted))
		}
	}
	return out
}

// Len returns the number of cached items.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}
