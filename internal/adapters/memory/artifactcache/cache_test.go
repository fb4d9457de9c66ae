package artifactcache

import (
	"context"
	"testing"
	"time"

	"github.com/smartwave-hq/cards-api/internal/adapters/contracttest"
	artifactcacheport "github.com/smartwave-hq/cards-api/internal/ports/out/artifactcache"
)

func TestContract_MemoryArtifactCache(t *testing.T) {
	contracttest.RunArtifactCache(t, func(t *testing.T) (artifactcacheport.Cache, func()) {
		t.Helper()
		return NewCache(), nil
	})
}

func TestGet_ExpiredEntryIsAMiss(t *testing.T) {
	cache := NewCache()
	now := time.Unix(5000, 0).UTC()
	cache.SetNowForTest(func() time.Time { return now })

	ctx := context.Background()
	key := artifactcacheport.Key("deadbeef")
	if err := cache.Put(ctx, key, artifactcacheport.Artifact{ContentType: "image/png", Body: []byte{1}}, time.Minute); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok, _ := cache.Get(ctx, key); !ok {
		t.Fatalf("expected hit before expiry")
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := cache.Get(ctx, key); ok {
		t.Fatalf("expected miss after expiry")
	}
}

func TestPut_ZeroTTLNeverExpires(t *testing.T) {
	cache := NewCache()
	now := time.Unix(5000, 0).UTC()
	cache.SetNowForTest(func() time.Time { return now })

	ctx := context.Background()
	key := artifactcacheport.Key("cafef00d")
	if err := cache.Put(ctx, key, artifactcacheport.Artifact{Body: []byte{1}}, 0); err != nil {
		t.Fatalf("Put: %v", err)
	}
	now = now.Add(1000 * time.Hour)
	if _, ok, _ := cache.Get(ctx, key); !ok {
		t.Fatalf("zero TTL entry should not expire")
	}
}
