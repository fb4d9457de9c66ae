package artifactcache

import (
	"context"
	"sync"
	"time"

	"github.com/smartwave-hq/cards-api/internal/ports/out/artifactcache"
)

// Cache is an in-memory implementation of artifactcache.Cache.
// It is safe for concurrent use. Expiry is checked lazily on Get.
type Cache struct {
	mu  sync.RWMutex
	m   map[artifactcache.Key]entry
	now func() time.Time
}

type entry struct {
	artifact  artifactcache.Artifact
	expiresAt time.Time // zero means no expiry
}

func NewCache() *Cache {
	return &Cache{
		m:   make(map[artifactcache.Key]entry),
		now: time.Now,
	}
}

// SetNowForTest overrides the expiry clock for deterministic tests.
func (c *Cache) SetNowForTest(now func() time.Time) {
	if now != nil {
		c.now = now
	}
}

func (c *Cache) Get(ctx context.Context, key artifactcache.Key) (artifactcache.Artifact, bool, error) {
	_ = ctx
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return artifactcache.Artifact{}, false, nil
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return artifactcache.Artifact{}, false, nil
	}
	return cloneArtifact(e.artifact), true, nil
}

func (c *Cache) Put(ctx context.Context, key artifactcache.Key, a artifactcache.Artifact, ttl time.Duration) error {
	_ = ctx
	e := entry{artifact: cloneArtifact(a)}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.m[key] = e
	c.mu.Unlock()
	return nil
}

func cloneArtifact(a artifactcache.Artifact) artifactcache.Artifact {
	out := a
	out.Body = append([]byte(nil), a.Body...)
	if a.Meta != nil {
		out.Meta = make(map[string]string, len(a.Meta))
		for k, v := range a.Meta {
			out.Meta[k] = v
		}
	}
	return out
}
