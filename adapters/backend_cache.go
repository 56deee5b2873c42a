package adapters

import (
	"context"
	"fmt"
	"time"

	f "github.com/soffa-projects/folio-web/core"
	"github.com/soffa-projects/folio-web/h"
	"github.com/soffa-projects/folio-web/log"
)

const (
	cacheKeyProjects = "folio:projects"
	cacheKeyCV       = "folio:cv"
)

func cacheKeyProject(id int) string {
	return fmt.Sprintf("folio:project:%d", id)
}

// CachedBackend keeps the public reads (projects, cv) in a CacheProvider.
// Writes go straight to the backend and drop the keys they affect.
// Translations are never cached here.
type CachedBackend struct {
	f.Backend
	cache f.CacheProvider
	ttl   time.Duration
}

func NewCachedBackend(backend f.Backend, cache f.CacheProvider, ttl time.Duration) *CachedBackend {
	return &CachedBackend{Backend: backend, cache: cache, ttl: ttl}
}

func (b *CachedBackend) ListProjects(ctx context.Context, skip int, limit int) ([]f.Project, error) {
	key := fmt.Sprintf("%s:%d:%d", cacheKeyProjects, skip, limit)
	var out []f.Project
	if b.lookup(ctx, key, &out) {
		return out, nil
	}
	out, err := b.Backend.ListProjects(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	b.store(ctx, key, out)
	b.remember(ctx, key)
	return out, nil
}

func (b *CachedBackend) GetProject(ctx context.Context, id int) (f.Project, error) {
	key := cacheKeyProject(id)
	var out f.Project
	if b.lookup(ctx, key, &out) {
		return out, nil
	}
	out, err := b.Backend.GetProject(ctx, id)
	if err != nil {
		return f.Project{}, err
	}
	b.store(ctx, key, out)
	return out, nil
}

func (b *CachedBackend) GetCV(ctx context.Context) (f.CV, error) {
	var out f.CV
	if b.lookup(ctx, cacheKeyCV, &out) {
		return out, nil
	}
	out, err := b.Backend.GetCV(ctx)
	if err != nil {
		return f.CV{}, err
	}
	b.store(ctx, cacheKeyCV, out)
	return out, nil
}

func (b *CachedBackend) CreateProject(ctx context.Context, project f.Project) (f.Project, error) {
	out, err := b.Backend.CreateProject(ctx, project)
	if err == nil {
		b.forgetProjects(ctx)
	}
	return out, err
}

func (b *CachedBackend) UpdateProject(ctx context.Context, id int, project f.Project) (f.Project, error) {
	out, err := b.Backend.UpdateProject(ctx, id, project)
	if err == nil {
		b.forgetProjects(ctx, cacheKeyProject(id))
	}
	return out, err
}

func (b *CachedBackend) DeleteProject(ctx context.Context, id int) error {
	err := b.Backend.DeleteProject(ctx, id)
	if err == nil {
		b.forgetProjects(ctx, cacheKeyProject(id))
	}
	return err
}

func (b *CachedBackend) UpdateCV(ctx context.Context, cv f.CV) (f.CV, error) {
	out, err := b.Backend.UpdateCV(ctx, cv)
	if err == nil {
		b.forget(ctx, cacheKeyCV)
	}
	return out, err
}

// Ping also checks the cache.
func (b *CachedBackend) Ping(ctx context.Context) error {
	if err := b.cache.Ping(); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	return b.Backend.Ping(ctx)
}

func (b *CachedBackend) lookup(ctx context.Context, key string, out any) bool {
	raw, ok, err := b.cache.Get(ctx, key)
	if err != nil {
		log.Warn("cache read %s failed: %v", key, err)
		return false
	}
	if !ok {
		return false
	}
	if err := h.FromJsonString(raw, out); err != nil {
		log.Warn("cache entry %s is corrupted: %v", key, err)
		return false
	}
	return true
}

func (b *CachedBackend) store(ctx context.Context, key string, value any) {
	raw, err := h.ToJsonString(value)
	if err != nil {
		log.Warn("unable to encode cache entry %s: %v", key, err)
		return
	}
	if err := b.cache.Set(ctx, key, raw, b.ttl); err != nil {
		log.Warn("cache write %s failed: %v", key, err)
	}
}

// remember tracks the list pages that were cached so a write can drop them all.
func (b *CachedBackend) remember(ctx context.Context, key string) {
	var keys []string
	b.lookup(ctx, cacheKeyProjects, &keys)
	if h.ContainsString(keys, key) {
		return
	}
	b.store(ctx, cacheKeyProjects, append(keys, key))
}

func (b *CachedBackend) forgetProjects(ctx context.Context, extra ...string) {
	var keys []string
	b.lookup(ctx, cacheKeyProjects, &keys)
	keys = append(keys, cacheKeyProjects)
	b.forget(ctx, append(keys, extra...)...)
}

func (b *CachedBackend) forget(ctx context.Context, keys ...string) {
	if err := b.cache.Del(ctx, keys...); err != nil {
		log.Warn("cache invalidation failed: %v", err)
	}
}
