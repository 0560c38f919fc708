package conversion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheMergeDedupesAndOrders(t *testing.T) {
	c := NewCache()
	c.Rescope("wb-1")

	added := c.Merge([]Converted{conv("a"), conv("b"), {SourceID: ""}})
	assert.Len(t, added, 2)

	added = c.Merge([]Converted{conv("b"), conv("c")})
	assert.Len(t, added, 1)
	assert.Equal(t, "c", added[0].SourceID)

	snap := c.Snapshot()
	ids := make([]string, len(snap))
	for i, it := range snap {
		ids[i] = it.SourceID
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestCacheMissing(t *testing.T) {
	c := NewCache()
	c.Rescope("wb-1")
	c.Merge([]Converted{conv("a")})

	assert.Equal(t, []string{"b"}, c.Missing([]string{"a", "b", "b", ""}))
	assert.Empty(t, c.Missing([]string{"a"}))
}

func TestCacheRescopeSameScopeKeepsItems(t *testing.T) {
	c := NewCache()
	c.Rescope("wb-1")
	c.Merge([]Converted{conv("a")})

	c.Rescope("wb-1")
	assert.Equal(t, 1, c.Len())

	c.Rescope("wb-2")
	assert.Zero(t, c.Len())
}
