package artifactcache

import (
	"os"
	"testing"

	"github.com/smartwave-hq/cards-api/internal/adapters/contracttest"
	artifactcacheport "github.com/smartwave-hq/cards-api/internal/ports/out/artifactcache"
)

func TestContract_RedisArtifactCache(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set; skipping redis contract tests")
	}

	pool := NewPool(addr, os.Getenv("TEST_REDIS_AUTH"))
	t.Cleanup(func() { _ = pool.Close() })

	contracttest.RunArtifactCache(t, func(t *testing.T) (artifactcacheport.Cache, func()) {
		t.Helper()
		cl := pool.Get()
		defer cl.Close()
		if _, err := cl.Do("FLUSHDB"); err != nil {
			t.Fatalf("flush: %v", err)
		}
		return NewCache(pool), nil
	})
}
