/*
Package cache is the result-cache front end for the correction service:
deterministic keying over (text, context, tag), TTL expiry, and hit/miss
accounting, all independent of the storage backend.

Backends only see opaque keys; the orchestrator sees the same contract
whether results live in process memory or in Redis.
*/
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// Entry is the cached correction value.
type Entry struct {
	Text       string  `msgpack:"text" json:"text"`
	Confidence float64 `msgpack:"confidence" json:"confidence"`
}

// Backend is the pluggable storage contract. Implementations must make
// Get/Set atomic per key; nothing else is required of them.
type Backend interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, entry Entry, ttl time.Duration) error
	Clear(ctx context.Context) error
	Len(ctx context.Context) (int, error)
	Name() string
}

// Stats is a point-in-time view of cache performance.
type Stats struct {
	Backend string  `json:"backend"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	Total   int64   `json:"total"`
	HitRate float64 `json:"hit_rate"`
	Entries int     `json:"entries"`
}

// Key builds the deterministic cache key for a request. SHA-256 keeps the
// key collision-resistant and fixed-size regardless of input length.
func Key(text string, contextWords []string, tag string) string {
	payload := tag + ":" + strings.ToLower(strings.TrimSpace(text)) + ":" + strings.Join(contextWords, "|")
	sum := sha256.Sum256([]byte(payload))
	return "correction:" + hex.EncodeToString(sum[:])
}

// Cache wraps a Backend with keying, TTL policy and counters.
type Cache struct {
	backend Backend
	ttl     time.Duration

	hits   atomic.Int64
	misses atomic.Int64
	total  atomic.Int64
}

// New builds a Cache over backend with the given entry TTL.
func New(backend Backend, ttl time.Duration) *Cache {
	return &Cache{backend: backend, ttl: ttl}
}

// Get looks up a previous correction. Backend faults count as misses; the
// cache never fails a request.
func (c *Cache) Get(ctx context.Context, text string, contextWords []string, tag string) (Entry, bool) {
	c.total.Add(1)
	entry, ok, err := c.backend.Get(ctx, Key(text, contextWords, tag))
	if err != nil {
		log.Warnf("Cache get failed: %v", err)
		c.misses.Add(1)
		return Entry{}, false
	}
	if !ok {
		c.misses.Add(1)
		return Entry{}, false
	}
	c.hits.Add(1)
	return entry, true
}

// Set stores a correction result under the request's key.
func (c *Cache) Set(ctx context.Context, text string, contextWords []string, tag string, entry Entry) {
	if err := c.backend.Set(ctx, Key(text, contextWords, tag), entry, c.ttl); err != nil {
		log.Warnf("Cache set failed: %v", err)
	}
}

// Clear drops every cached entry.
func (c *Cache) Clear(ctx context.Context) error {
	return c.backend.Clear(ctx)
}

// Stats returns current counters and backend size.
func (c *Cache) Stats(ctx context.Context) Stats {
	entries, err := c.backend.Len(ctx)
	if err != nil {
		log.Warnf("Cache size lookup failed: %v", err)
		entries = -1
	}
	s := Stats{
		Backend: c.backend.Name(),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Total:   c.total.Load(),
		Entries: entries,
	}
	if s.Total > 0 {
		s.HitRate = float64(s.Hits) / float64(s.Total)
	}
	return s
}
