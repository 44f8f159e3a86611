package ocspfetch

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// Cache is the contract between the fetch flow and an external response
// store. Keys are derived from the nonce-free request encoding, so a
// lookup hits even when the stored response was originally fetched with
// a different random nonce.
//
// Put receives the request that actually went over the wire (possibly
// nonce-bearing) alongside the normalized key; implementations that
// index by request can use it to substitute the stable key for the
// one-off wire form.
//
// Implementations must be safe for concurrent use if the client is
// shared between goroutines.
type Cache interface {
	Has(key string) bool
	Get(key string) ([]byte, bool)
	Put(originalRequest *Request, key string, response []byte)
}

// CacheKey derives the cache key for a request against one responder
// URL. The method is always POST in this package, but it is part of the
// key so stores stay correct if other transports share them.
func CacheKey(method, url string, req *Request) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{0})
	h.Write([]byte(url))
	h.Write([]byte{0})
	h.Write(req.CacheBody)
	return hex.EncodeToString(h.Sum(nil))
}

// MemoryCache is an in-memory Cache with per-entry TTL expiry. Eviction
// beyond expiry is not implemented; external stores with real eviction
// policies can replace it through the Cache interface.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*memoryCacheEntry
	ttl     time.Duration
}

type memoryCacheEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryCache creates a MemoryCache. A zero or negative ttl means
// entries never expire.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*memoryCacheEntry),
		ttl:     ttl,
	}
}

// Has reports whether a non-expired entry exists for key.
func (c *MemoryCache) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Get returns the cached response bytes for key.
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.data, true
}

// Put stores a response under the normalized key. The original request
// is ignored; the in-memory store indexes by key only.
func (c *MemoryCache) Put(_ *Request, key string, response []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &memoryCacheEntry{data: response}
	if c.ttl > 0 {
		entry.expiresAt = time.Now().Add(c.ttl)
	}
	c.entries[key] = entry
}

// Clear removes all entries.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*memoryCacheEntry)
}
