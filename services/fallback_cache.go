package services

import (
	"sync"

	"doc-summarizer-platform/models"
)

// FallbackCache is the process-local substitute for the content store,
// used only when the content store is unavailable or not configured.
// It is volatile: entries do not survive a process restart, and nothing
// re-hydrates them from (or into) the content store. It never fails.
//
// The cache is shared by all goroutines handling uploads and reads, so
// access is guarded by a read-write mutex.
type FallbackCache struct {
	mu      sync.RWMutex
	entries map[string]models.DocumentContent
}

// NewFallbackCache creates an empty cache.
func NewFallbackCache() *FallbackCache {
	return &FallbackCache{
		entries: make(map[string]models.DocumentContent),
	}
}

// Put stores a content record, replacing any previous entry.
func (c *FallbackCache) Put(docID string, content models.DocumentContent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[docID] = content
}

// Get returns the content record for docID, if present.
func (c *FallbackCache) Get(docID string) (models.DocumentContent, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	content, ok := c.entries[docID]
	return content, ok
}

// Len reports the number of cached entries.
func (c *FallbackCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
