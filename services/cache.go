package services

import (
	"context"
	"time"
)

// Cache is the slice of the redis client the services consume. It is an
// accelerator only: implementations swallow errors and the engines never
// depend on cache content for correctness.
type Cache interface {
	Get(ctx context.Context, key string, out interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
	Del(ctx context.Context, keys ...string)
	DelPattern(ctx context.Context, pattern string)
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration)
}
