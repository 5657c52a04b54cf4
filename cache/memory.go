package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/siherrmann/depmatch/helper"
	"github.com/siherrmann/depmatch/model"
)

// MemoryCache keeps recently used annotations in a bounded LRU in front of
// an optional backing cache. Reads fall through to the backing cache and
// writes go to both.
type MemoryCache struct {
	entries *lru.Cache[string, *model.Annotation]
	backing Cache
}

// NewMemoryCache creates a memory cache holding up to size annotations.
// backing may be nil.
func NewMemoryCache(size int, backing Cache) (*MemoryCache, error) {
	entries, err := lru.New[string, *model.Annotation](size)
	if err != nil {
		return nil, helper.NewError("create lru cache", err)
	}
	return &MemoryCache{entries: entries, backing: backing}, nil
}

// Get returns the annotation from memory or, on a miss, from the backing cache.
func (c *MemoryCache) Get(ctx context.Context, key string) (*model.Annotation, bool, error) {
	if annotation, ok := c.entries.Get(key); ok {
		return annotation, true, nil
	}
	if c.backing == nil {
		return nil, false, nil
	}

	annotation, ok, err := c.backing.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	c.entries.Add(key, annotation)

	return annotation, true, nil
}

// Put stores the annotation in the backing cache first, then in memory.
func (c *MemoryCache) Put(ctx context.Context, key string, annotation *model.Annotation) error {
	if c.backing != nil {
		if err := c.backing.Put(ctx, key, annotation); err != nil {
			return err
		}
	}
	c.entries.Add(key, annotation)
	return nil
}

// Len returns the number of annotations held in memory.
func (c *MemoryCache) Len() int {
	return c.entries.Len()
}
