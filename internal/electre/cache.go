package electre

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// defaultsKey keys the profiles built without a population.
const defaultsKey = "defaults"

// CacheObserver receives cache events, typically for metrics.
type CacheObserver interface {
	ProfileCacheHit()
	ProfileCacheMiss()
	ProfileBuilt(d time.Duration)
}

// ProfileCache memoizes built profiles by population hash. Concurrent
// requests for the same population share one build.
type ProfileCache struct {
	builder  *ProfileBuilder
	observer CacheObserver

	mu      sync.RWMutex
	entries map[string]*Profiles
	group   singleflight.Group
}

// NewProfileCache wraps builder. observer may be nil.
func NewProfileCache(builder *ProfileBuilder, observer CacheObserver) *ProfileCache {
	return &ProfileCache{
		builder:  builder,
		observer: observer,
		entries:  make(map[string]*Profiles),
	}
}

func cacheKey(pop *Population) string {
	if pop == nil {
		return defaultsKey
	}
	return pop.Hash()
}

// Get returns the profiles for pop, building them on first use. A nil pop
// yields the default-table profiles.
func (c *ProfileCache) Get(pop *Population) (*Profiles, error) {
	key := cacheKey(pop)

	c.mu.RLock()
	p, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		if c.observer != nil {
			c.observer.ProfileCacheHit()
		}
		return p, nil
	}

	if c.observer != nil {
		c.observer.ProfileCacheMiss()
	}
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		c.mu.RLock()
		existing, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return existing, nil
		}

		start := time.Now()
		built, err := c.builder.Build(pop)
		if err != nil {
			return nil, err
		}
		if c.observer != nil {
			c.observer.ProfileBuilt(time.Since(start))
		}
		c.mu.Lock()
		c.entries[key] = built
		c.mu.Unlock()
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Profiles), nil
}

// Invalidate drops the entry for a population hash.
func (c *ProfileCache) Invalidate(hash string) {
	if hash == "" {
		hash = defaultsKey
	}
	c.mu.Lock()
	delete(c.entries, hash)
	c.mu.Unlock()
	c.group.Forget(hash)
}

// Reset drops every entry.
func (c *ProfileCache) Reset() {
	c.mu.Lock()
	for k := range c.entries {
		c.group.Forget(k)
	}
	c.entries = make(map[string]*Profiles)
	c.mu.Unlock()
}

// Len returns the number of cached profile sets.
func (c *ProfileCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
