package driver

import (
	"sync"
)

// Cache stores snapshots of evaluated units by UnitKey.
type Cache interface {
	Get(key Digest, out *Snapshot) (bool, error)
	Put(key Digest, s *Snapshot) error
}

// MemCache is an in-process Cache.
type MemCache struct {
	mu    sync.RWMutex
	byKey map[Digest]Snapshot
}

// NewMemCache creates a MemCache with the given capacity hint.
func NewMemCache(capHint int) *MemCache {
	return &MemCache{byKey: make(map[Digest]Snapshot, capHint)}
}

func (c *MemCache) Get(key Digest, out *Snapshot) (bool, error) {
	c.mu.RLock()
	s, ok := c.byKey[key]
	c.mu.RUnlock()
	if ok {
		*out = s
	}
	return ok, nil
}

func (c *MemCache) Put(key Digest, s *Snapshot) error {
	c.mu.Lock()
	c.byKey[key] = *s
	c.mu.Unlock()
	return nil
}

func (c *MemCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byKey)
}
