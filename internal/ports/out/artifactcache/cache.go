package artifactcache

import (
	"context"
	"time"
)

// Key is a content address: a hex SHA-256 over the profile snapshot and the
// render options that produced the artifact. Identical inputs always map to
// the same key, so cached entries never go stale with respect to content.
type Key string

// Artifact is a cached generation result (vCard text, QR PNG or card PNG).
// Meta carries small generation facts that cannot be recovered from the bytes,
// such as the error-correction level a QR symbol was actually encoded at.
type Artifact struct {
	ContentType string
	Body        []byte
	Meta        map[string]string
}

// Cache stores generated artifacts content-addressed with a TTL.
//
// Entries are derivations, never sources of truth: losing the cache only costs
// recomputation.
type Cache interface {
	Get(ctx context.Context, key Key) (Artifact, bool, error)
	Put(ctx context.Context, key Key, a Artifact, ttl time.Duration) error
}
