package providers

import (
	"context"
	"time"
)

// CacheProvider is the backing store for response caching. A miss is
// reported as an error so callers fall through to the source.
type CacheProvider interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
