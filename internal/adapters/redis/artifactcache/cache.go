// Package artifactcache is a redis-backed implementation of the artifact
// cache port, for deployments where rendered artifacts should be shared
// across API instances.
package artifactcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"

	artifactcacheport "github.com/smartwave-hq/cards-api/internal/ports/out/artifactcache"
)

const keyPrefix = "artifact:"

// envelope is the stored value. Body round-trips through base64 via
// encoding/json, keeping the stored value a single opaque string.
type envelope struct {
	ContentType string            `json:"contentType"`
	Body        []byte            `json:"body"`
	Meta        map[string]string `json:"meta,omitempty"`
}

// Cache implements artifactcache.Cache on a redigo connection pool.
type Cache struct {
	pool *redis.Pool
}

func NewCache(pool *redis.Pool) *Cache {
	return &Cache{pool: pool}
}

// NewPool builds a redigo pool for the given address. An empty password
// disables AUTH. The pool is not pinged here; the first Get/Put surfaces
// connectivity errors.
func NewPool(addr, password string) *redis.Pool {
	return &redis.Pool{
		MaxIdle:     4,
		IdleTimeout: 5 * time.Minute,
		Dial: func() (redis.Conn, error) {
			opts := []redis.DialOption{}
			if password != "" {
				opts = append(opts, redis.DialPassword(password))
			}
			return redis.Dial("tcp", addr, opts...)
		},
	}
}

func (c *Cache) Get(ctx context.Context, key artifactcacheport.Key) (artifactcacheport.Artifact, bool, error) {
	cl, err := c.pool.GetContext(ctx)
	if err != nil {
		return artifactcacheport.Artifact{}, false, err
	}
	defer cl.Close()

	raw, err := redis.Bytes(cl.Do("GET", keyPrefix+string(key)))
	if err == redis.ErrNil {
		return artifactcacheport.Artifact{}, false, nil
	}
	if err != nil {
		return artifactcacheport.Artifact{}, false, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		// A corrupt entry is treated as a miss; the caller regenerates and
		// overwrites it.
		return artifactcacheport.Artifact{}, false, nil
	}
	return artifactcacheport.Artifact{ContentType: env.ContentType, Body: env.Body, Meta: env.Meta}, true, nil
}

func (c *Cache) Put(ctx context.Context, key artifactcacheport.Key, a artifactcacheport.Artifact, ttl time.Duration) error {
	raw, err := json.Marshal(envelope{ContentType: a.ContentType, Body: a.Body, Meta: a.Meta})
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}

	cl, err := c.pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer cl.Close()

	if _, err := cl.Do("SET", keyPrefix+string(key), raw); err != nil {
		return err
	}
	if ttl > 0 {
		if _, err := cl.Do("EXPIRE", keyPrefix+string(key), int(ttl.Seconds())); err != nil {
			return err
		}
	}
	return nil
}
