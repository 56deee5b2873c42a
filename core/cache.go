package f

import (
	"context"
	"time"
)

// CacheProvider stores string values. Get returns ("", false, nil) on a miss.
type CacheProvider interface {
	Init() error
	Close() error
	Ping() error
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, duration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
