// Package cache holds fetched evidence pages for their TTL so repeat
// claims about the same story do not re-hit publishers.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Pages caches serialized evidence pages by URL. Entries evict on TTL.
type Pages interface {
	Get(url string) ([]byte, bool)
	Set(url string, page []byte)
}

// MemoryPages is the in-memory Pages implementation.
type MemoryPages struct {
	ttl   time.Duration
	cache *gocache.Cache
}

// NewMemoryPages creates a page cache with the given entry TTL.
func NewMemoryPages(ttl, cleanupInterval time.Duration) *MemoryPages {
	return &MemoryPages{
		ttl:   ttl,
		cache: gocache.New(ttl, cleanupInterval),
	}
}

// Get retrieves the cached page for a URL.
func (c *MemoryPages) Get(url string) ([]byte, bool) {
	if val, found := c.cache.Get(pageKey(url)); found {
		return val.([]byte), true
	}
	return nil, false
}

// Set stores a page for the cache's TTL.
func (c *MemoryPages) Set(url string, page []byte) {
	c.cache.Set(pageKey(url), page, c.ttl)
}

// pageKey hashes the URL so arbitrarily long or odd URLs make safe keys.
func pageKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "page:v1:" + hex.EncodeToString(hash[:])
}
