// Package state answers "is this package already installed?".
//
// Presence queries against external package managers are slow, so each
// method gets one bulk listing command per run. Results are held in a
// process-scoped Cache and tested by set membership. The cache is additive
// only: nothing invalidates it before the process exits.
package state

import "sync"

// Set is a membership set of installed package identifiers
type Set map[string]bool

// Cache holds the per-method sets of installed package identifiers. It is
// safe for concurrent use. Two goroutines racing to populate the same key
// may both run the fetch; both compute the same value, so last-writer-wins
// is harmless and costs at most one redundant external query.
type Cache struct {
	mu      sync.RWMutex
	buckets map[string]Set
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{buckets: make(map[string]Set)}
}

// Members returns the set stored under key, fetching it via fetch on first
// use. The fetch runs without holding the lock.
func (c *Cache) Members(key string, fetch func() []string) Set {
	c.mu.RLock()
	s, ok := c.buckets[key]
	c.mu.RUnlock()
	if ok {
		return s
	}

	members := fetch()
	s = make(Set, len(members))
	for _, m := range members {
		s[m] = true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.buckets[key]; ok {
		// Lost the populate race; the other fetch produced the same data
		return existing
	}
	c.buckets[key] = s
	return s
}

// Put stores a set under key, replacing any existing entry. Used for
// derived buckets populated alongside a primary fetch.
func (c *Cache) Put(key string, members []string) {
	s := make(Set, len(members))
	for _, m := range members {
		s[m] = true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buckets[key] = s
}

// Peek returns the set stored under key without populating
func (c *Cache) Peek(key string) (Set, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.buckets[key]
	return s, ok
}
