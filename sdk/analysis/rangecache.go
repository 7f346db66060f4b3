package analysis

import (
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

// RangeCache memoizes ParseRange for notations that repeat across calls,
// such as preflop tiers or a fixed opponent model.
type RangeCache struct {
	cache *lru.Cache
}

// NewRangeCache creates a cache holding up to size parsed ranges.
func NewRangeCache(size int) (*RangeCache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to initialize range cache")
	}
	return &RangeCache{cache: c}, nil
}

// Parse returns the parsed range for notation. Ranges returned from the
// cache are shared and must be treated as read-only.
func (c *RangeCache) Parse(notation string) (*Range, error) {
	key := strings.TrimSpace(notation)
	if v, ok := c.cache.Get(key); ok {
		return v.(*Range), nil
	}
	r, err := ParseRange(key)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, r)
	return r, nil
}

// Len returns the number of cached ranges.
func (c *RangeCache) Len() int {
	return c.cache.Len()
}
