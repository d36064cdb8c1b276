package schema

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// IndexCache memoises reference indexes by schema digest. A preview server
// reloads the schema on every rebuild; unchanged schemas reuse their index.
type IndexCache struct {
	cache *lru.Cache[string, *ReferenceIndex]
}

// NewIndexCache creates a cache holding up to size indexes.
func NewIndexCache(size int) (*IndexCache, error) {
	c, err := lru.New[string, *ReferenceIndex](size)
	if err != nil {
		return nil, err
	}
	return &IndexCache{cache: c}, nil
}

// Index returns the cached index for s, building it on a miss.
func (c *IndexCache) Index(s *Schema) *ReferenceIndex {
	if ix, ok := c.cache.Get(s.Digest()); ok {
		return ix
	}
	ix := NewReferenceIndex(s.models)
	c.cache.Add(s.Digest(), ix)
	return ix
}

// Len returns the number of cached indexes.
func (c *IndexCache) Len() int {
	return c.cache.Len()
}
