package voice

import (
	"context"
	"productInfoAgent/domain"
	"sync"
	"time"
)

type sessionEntries struct {
	order   []string
	entries map[string]domain.VoiceCacheEntry
	touched time.Time
}

// MemoryCache is an in-process SessionCache. A session is forgotten once it
// has not been written for ttl; a ttl of zero keeps sessions forever.
type MemoryCache struct {
	mu        sync.Mutex
	capacity  int
	ttl       time.Duration
	sessions  map[string]*sessionEntries
	lastSweep time.Time
	now       func() time.Time
}

var _ SessionCache = (*MemoryCache)(nil)

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		capacity: MaxEntriesPerSession,
		ttl:      ttl,
		sessions: make(map[string]*sessionEntries),
		now:      time.Now,
	}
}

func (c *MemoryCache) expired(s *sessionEntries, now time.Time) bool {
	return c.ttl > 0 && now.Sub(s.touched) >= c.ttl
}

// sweep drops expired sessions, at most once per ttl/2.
func (c *MemoryCache) sweep(now time.Time) {
	if c.ttl <= 0 || now.Sub(c.lastSweep) < c.ttl/2 {
		return
	}
	c.lastSweep = now

	for id, s := range c.sessions {
		if c.expired(s, now) {
			c.dropSession(id)
		}
	}
}

func (c *MemoryCache) dropSession(sessionID string) {
	delete(c.sessions, sessionID)
}

func (c *MemoryCache) Get(ctx context.Context, sessionID, key string) (domain.VoiceCacheEntry, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[sessionID]
	if !ok {
		return domain.VoiceCacheEntry{}, false, nil
	}
	if c.expired(s, c.now()) {
		c.dropSession(sessionID)
		return domain.VoiceCacheEntry{}, false, nil
	}
	e, ok := s.entries[key]
	return e, ok, nil
}

// Put keeps an existing key in its original insertion slot.
func (c *MemoryCache) Put(ctx context.Context, sessionID, key string, entry domain.VoiceCacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.sweep(now)

	s, ok := c.sessions[sessionID]
	if ok && c.expired(s, now) {
		c.dropSession(sessionID)
		ok = false
	}
	if !ok {
		s = &sessionEntries{entries: make(map[string]domain.VoiceCacheEntry)}
		c.sessions[sessionID] = s
	}
	s.touched = now

	if _, exists := s.entries[key]; !exists {
		s.order = append(s.order, key)
	}
	s.entries[key] = entry

	for len(s.order) > c.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.entries, oldest)
	}

	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, sessionID, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[sessionID]
	if !ok {
		return nil
	}
	if _, exists := s.entries[key]; !exists {
		return nil
	}

	delete(s.entries, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
