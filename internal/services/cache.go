package services

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"

	"briefly-backend/internal/models"
)

// CacheKey identifies one summary request. Two keys are equal only when text,
// format and detail level are all equal.
type CacheKey struct {
	Text   string
	Format models.SummaryFormat
	Detail models.DetailLevel
}

func NewCacheKey(text string, format models.SummaryFormat, detail models.DetailLevel) CacheKey {
	return CacheKey{Text: text, Format: format, Detail: detail}
}

// Hash returns a stable digest of the key. The text is length-prefixed so no
// separator inside it can make two distinct keys collide on the encoding.
func (k CacheKey) Hash() string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%d:%s|%s|%s", len(k.Text), k.Text, k.Format, k.Detail)))
	return fmt.Sprintf("%x", h)
}

// ResponseCache memoizes backend summaries for the life of the process.
type ResponseCache interface {
	Get(ctx context.Context, key CacheKey) (string, bool)
	Put(ctx context.Context, key CacheKey, summary string) error
	Clear(ctx context.Context) error
}

// MemoryCache is an unbounded in-process ResponseCache. Last writer wins.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[CacheKey]string
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[CacheKey]string)}
}

func (c *MemoryCache) Get(_ context.Context, key CacheKey) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.entries[key]
	return s, ok
}

func (c *MemoryCache) Put(_ context.Context, key CacheKey, summary string) error {
	c.mu.Lock()
	c.entries[key] = summary
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	c.entries = make(map[CacheKey]string)
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
