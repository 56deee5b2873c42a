package i18n

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soffa-projects/folio-web/log"
	"golang.org/x/sync/singleflight"
)

// FetchTimeout bounds a single override fetch. The fetch does not follow the
// caller's cancellation since its result is published site-wide.
const FetchTimeout = 15 * time.Second

// Source provides the override records (the portfolio API in production).
type Source interface {
	FetchOverrides(ctx context.Context) ([]Override, error)
}

// Store holds the process-wide merged set. The current set is swapped
// atomically; a published set is never modified.
type Store struct {
	source    Source
	static    *Set
	current   atomic.Pointer[Set]
	loaded    atomic.Bool
	group     singleflight.Group
	started   atomic.Uint64
	published uint64
	publishMu sync.Mutex
	mu        sync.Mutex
	listeners []func(*Set)
}

func NewStore(source Source, static *Set) *Store {
	if static == nil {
		static = Defaults()
	}
	s := &Store{source: source, static: static}
	s.current.Store(defaultsOnly(static))
	return s
}

// Load fetches the overrides and publishes the merged set. A failed fetch is
// logged and the compiled-in defaults are published instead; Load itself
// never fails. Concurrent callers share a single fetch.
func (s *Store) Load(ctx context.Context) *Set {
	res, _, _ := s.group.Do("load", func() (any, error) {
		generation := s.started.Add(1)
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), FetchTimeout)
		defer cancel()
		return s.publish(generation, s.build(fetchCtx)), nil
	})
	return res.(*Set)
}

// Reload is the explicit refresh used after an admin edit. It never joins a
// fetch that started before the call.
func (s *Store) Reload(ctx context.Context) *Set {
	s.group.Forget("load")
	return s.Load(ctx)
}

// publish stores set unless a fetch started later has already been
// published, and returns the set that is current afterwards.
func (s *Store) publish(generation uint64, set *Set) *Set {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()
	if generation < s.published {
		log.Debug("dropping translations from an older fetch (%d < %d)", generation, s.published)
		return s.current.Load()
	}
	s.published = generation
	s.current.Store(set)
	s.loaded.Store(true)
	s.notify(set)
	return set
}

func (s *Store) build(ctx context.Context) *Set {
	if s.source == nil {
		return defaultsOnly(s.static)
	}
	overrides, err := s.source.FetchOverrides(ctx)
	if err != nil {
		log.Warn("unable to fetch translation overrides, using defaults only: %v", err)
		return defaultsOnly(s.static)
	}
	merged := Merge(s.static, overrides)
	log.Info("translations loaded: %d overrides over %d languages", len(overrides), len(merged.Languages()))
	return merged
}

// Current returns the latest published set. Before the first Load it is the
// defaults-only set.
func (s *Store) Current() *Set {
	return s.current.Load()
}

// Static returns the compiled-in layer the store merges onto.
func (s *Store) Static() *Set {
	return s.static
}

// Loaded reports whether a Load has completed.
func (s *Store) Loaded() bool {
	return s.loaded.Load()
}

// OnChange registers fn to be called with every newly published set.
func (s *Store) OnChange(fn func(*Set)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify(set *Set) {
	s.mu.Lock()
	listeners := append([]func(*Set){}, s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(set)
	}
}
