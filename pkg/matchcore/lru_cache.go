package matchcore

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/guraa/pdf-compare-tool-sub002/pkg/similarity"
)

// LRURenderCache adapts hashicorp/golang-lru to RenderCache. Rendered
// samples are reused across the many candidate pairs the document
// matcher considers, and across the document/page matcher boundary for
// the same job, avoiding redundant rasterisation of the same page.
type LRURenderCache struct {
	cache *lru.Cache[RenderKey, similarity.Image]
}

// NewLRURenderCache returns a RenderCache bounded to size entries.
func NewLRURenderCache(size int) (*LRURenderCache, error) {
	if size <= 0 {
		size = 64
	}
	c, err := lru.New[RenderKey, similarity.Image](size)
	if err != nil {
		return nil, err
	}
	return &LRURenderCache{cache: c}, nil
}

// Get implements RenderCache.
func (c *LRURenderCache) Get(key RenderKey) (similarity.Image, bool) {
	return c.cache.Get(key)
}

// Add implements RenderCache.
func (c *LRURenderCache) Add(key RenderKey, img similarity.Image) {
	c.cache.Add(key, img)
}
