package adapters

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/go-redis/redis/v8"
	f "github.com/soffa-projects/folio-web/core"
	"github.com/soffa-projects/folio-web/errors"
	"github.com/soffa-projects/folio-web/h"
	"github.com/soffa-projects/folio-web/log"
)

func NewCacheProvider(provider string) (f.CacheProvider, error) {
	if provider == "" || provider == "memory" {
		cache, err := NewInMemoryCacheProvider()
		if err != nil {
			return nil, err
		}
		return cache, nil
	}
	res, err := h.ParseUrl(provider)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cache provider: %w", err)
	}
	switch res.Scheme {
	case "redis":
		log.Info("using redis cache provider...")
		return NewRedisCacheProvider(res), nil
	default:
		return nil, fmt.Errorf("unsupported cache provider: %s", provider)
	}
}

func MustNewCacheProvider(provider string) f.CacheProvider {
	cache, err := NewCacheProvider(provider)
	if err != nil {
		panic(err)
	}
	return cache
}

// ------------------------------------------------------------------------------------------------------------------
// REDIS CACHE PROVIDER IMPL
// ------------------------------------------------------------------------------------------------------------------

type RedisCacheProvider struct {
	client *redis.Client
}

func NewRedisCacheProvider(cfg h.Url) *RedisCacheProvider {
	db := 0
	if cfg.HasQueryParam("db") {
		db = h.ToInt(fmt.Sprint(cfg.Query("db")))
	}
	if value := strings.TrimPrefix(cfg.Path, "/"); value != "" {
		db = h.ToInt(value)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host,
		Username: cfg.User,
		Password: cfg.Password,
		DB:       db,
	})
	return &RedisCacheProvider{
		client: client,
	}
}

// Init pings the server once so a wrong url fails at boot.
func (p *RedisCacheProvider) Init() error {
	if err := p.Ping(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	log.Info("redis connection successful")
	return nil
}

func (p *RedisCacheProvider) Close() error {
	return p.client.Close()
}

func (p *RedisCacheProvider) Ping() error {
	return p.client.Ping(context.Background()).Err()
}

func (p *RedisCacheProvider) Set(ctx context.Context, key string, value string, duration time.Duration) error {
	return p.client.Set(ctx, key, value, duration).Err()
}

func (p *RedisCacheProvider) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := p.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (p *RedisCacheProvider) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return p.client.Del(ctx, keys...).Err()
}

// ------------------------------------------------------------------------------------------------------------------
// IN MEMORY CACHE PROVIDER IMPL
// ------------------------------------------------------------------------------------------------------------------

type InMemoryCacheProvider struct {
	cache *ristretto.Cache[string, string]
}

func NewInMemoryCacheProvider() (*InMemoryCacheProvider, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, string]{
		NumCounters: 1e5,
		MaxCost:     1 << 26,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &InMemoryCacheProvider{cache: cache}, nil
}

func (p *InMemoryCacheProvider) Init() error {
	return nil
}

func (p *InMemoryCacheProvider) Close() error {
	p.cache.Close()
	return nil
}

func (p *InMemoryCacheProvider) Ping() error {
	return nil
}

// Set is visible to the next Get: ristretto buffers writes, so we wait for them.
func (p *InMemoryCacheProvider) Set(ctx context.Context, key string, value string, duration time.Duration) error {
	p.cache.SetWithTTL(key, value, int64(len(value)), duration)
	p.cache.Wait()
	return nil
}

func (p *InMemoryCacheProvider) Get(ctx context.Context, key string) (string, bool, error) {
	value, ok := p.cache.Get(key)
	return value, ok, nil
}

func (p *InMemoryCacheProvider) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		p.cache.Del(key)
	}
	return nil
}
