package moderation

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const cacheKey = "banned_words"

// CachedWordSource keeps the banned word list of another source in memory for a TTL
type CachedWordSource struct {
	source WordSource
	data   *expirable.LRU[string, []string]
}

// NewCachedWordSource wraps source with an expiring in-memory cache
func NewCachedWordSource(source WordSource, ttl time.Duration) *CachedWordSource {
	return &CachedWordSource{
		source: source,
		data:   expirable.NewLRU[string, []string](1, nil, ttl),
	}
}

// BannedWords returns the cached list, loading it from the wrapped source when missing or expired
func (c *CachedWordSource) BannedWords(ctx context.Context) ([]string, error) {
	if words, ok := c.data.Get(cacheKey); ok {
		return words, nil
	}

	words, err := c.source.BannedWords(ctx)
	if err != nil {
		return nil, err
	}
	c.data.Add(cacheKey, words)
	return words, nil
}

// Invalidate drops the cached list so the next read reloads it
func (c *CachedWordSource) Invalidate() {
	c.data.Remove(cacheKey)
}
