// file: internal/cache/cache.go
// version: 2.0.0
// guid: a1b2c3d4-e5f6-7a8b-9c0d-1e2f3a4b5c6d

// Package cache holds decoded API responses keyed by request identity.
// Freshness is decided by the reader: Get takes the TTL, entries only
// remember when they were stored.
package cache

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jdfalk/apicache/internal/logging"
)

// DefaultTTL applies when a caller has no opinion about freshness.
const DefaultTTL = 5 * time.Minute

// Entry is a stored response body.
type Entry struct {
	Key      string
	Value    any
	StoredAt time.Time
}

// Stats is the diagnostic view of the store.
type Stats struct {
	Count int      `json:"count"`
	Keys  []string `json:"keys"`
}

// Observer receives store events. Implementations must be safe for concurrent use.
type Observer interface {
	ObserveHit()
	ObserveMiss()
	ObserveExpired()
	ObserveEvicted(n int)
	ObserveInvalidated(n int)
	ObserveSize(n int)
}

type nopObserver struct{}

func (nopObserver) ObserveHit()            {}
func (nopObserver) ObserveMiss()           {}
func (nopObserver) ObserveExpired()        {}
func (nopObserver) ObserveEvicted(int)     {}
func (nopObserver) ObserveInvalidated(int) {}
func (nopObserver) ObserveSize(int)        {}

// Store is an in-memory response store safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	items      map[string]Entry
	now        func() time.Time
	maxEntries int
	observer   Observer
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMaxEntries bounds the store. Zero or negative means unbounded.
func WithMaxEntries(n int) Option {
	return func(s *Store) {
		s.maxEntries = max(n, 0)
	}
}

// WithObserver attaches an event observer.
func WithObserver(o Observer) Option {
	return func(s *Store) {
		if o != nil {
			s.observer = o
		}
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		items:    make(map[string]Entry),
		now:      time.Now,
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the value stored under key if it is no older than ttl.
// A stale entry is removed before reporting the miss.
func (s *Store) Get(key string, ttl time.Duration) (any, bool) {
	now := s.now()

	s.mu.RLock()
	e, ok := s.items[key]
	s.mu.RUnlock()

	if !ok {
		s.observer.ObserveMiss()
		return nil, false
	}

	if now.Sub(e.StoredAt) > ttl {
		s.mu.Lock()
		// Only drop it if nobody re-stored the key in between.
		if cur, ok := s.items[key]; ok && cur.StoredAt.Equal(e.StoredAt) {
			delete(s.items, key)
		}
		n := len(s.items)
		s.mu.Unlock()

		s.observer.ObserveExpired()
		s.observer.ObserveMiss()
		s.observer.ObserveSize(n)
		return nil, false
	}

	logging.LogCacheHit("store", key)
	s.observer.ObserveHit()
	return e.Value, true
}

// Set inserts or replaces the value for key, stamped with the current time.
func (s *Store) Set(key string, value any) {
	now := s.now()
	evicted := 0

	s.mu.Lock()
	if _, exists := s.items[key]; !exists && s.maxEntries > 0 {
		for len(s.items) >= s.maxEntries {
			s.evictOldestLocked()
			evicted++
		}
	}
	s.items[key] = Entry{Key: key, Value: value, StoredAt: now}
	n := len(s.items)
	s.mu.Unlock()

	if evicted > 0 {
		s.observer.ObserveEvicted(evicted)
	}
	s.observer.ObserveSize(n)
}

func (s *Store) evictOldestLocked() {
	var (
		oldestKey string
		oldestAt  time.Time
		found     bool
	)
	for k, e := range s.items {
		if !found || e.StoredAt.Before(oldestAt) {
			oldestKey, oldestAt, found = k, e.StoredAt, true
		}
	}
	if found {
		delete(s.items, oldestKey)
	}
}

// Delete removes key if present.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	delete(s.items, key)
	n := len(s.items)
	s.mu.Unlock()

	s.observer.ObserveSize(n)
}

// Clear removes all entries.
func (s *Store) Clear() {
	s.mu.Lock()
	removed := len(s.items)
	s.items = make(map[string]Entry)
	s.mu.Unlock()

	s.observer.ObserveInvalidated(removed)
	s.observer.ObserveSize(0)
}

// InvalidatePattern removes every entry whose key contains substr and
// returns how many were removed. An empty substr matches nothing.
func (s *Store) InvalidatePattern(substr string) int {
	if substr == "" {
		return 0
	}

	s.mu.Lock()
	removed := 0
	for k := range s.items {
		if strings.Contains(k, substr) {
			delete(s.items, k)
			removed++
		}
	}
	n := len(s.items)
	s.mu.Unlock()

	if removed > 0 {
		logging.Debugf("cache: invalidated %d entries matching %q", removed, substr)
	}
	s.observer.ObserveInvalidated(removed)
	s.observer.ObserveSize(n)
	return removed
}

// Len returns the number of stored entries, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

// Stats returns the entry count and the sorted key list.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	s.mu.RUnlock()

	sort.Strings(keys)
	return Stats{Count: len(keys), Keys: keys}
}

// Sweep removes entries older than maxAge and returns how many were removed.
func (s *Store) Sweep(maxAge time.Duration) int {
	now := s.now()

	s.mu.Lock()
	removed := 0
	for k, e := range s.items {
		if now.Sub(e.StoredAt) > maxAge {
			delete(s.items, k)
			removed++
		}
	}
	n := len(s.items)
	s.mu.Unlock()

	if removed > 0 {
		s.observer.ObserveEvicted(removed)
	}
	s.observer.ObserveSize(n)
	return removed
}

// StartJanitor sweeps entries older than maxAge() every interval until ctx is
// done. maxAge is read on every tick. The returned channel is closed once the
// janitor has exited.
func (s *Store) StartJanitor(ctx context.Context, interval time.Duration, maxAge func() time.Duration) <-chan struct{} {
	done := make(chan struct{})
	if interval <= 0 {
		close(done)
		return done
	}

	go func() {
		defer close(done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Sweep(maxAge()); n > 0 {
					logging.Debugf("cache: janitor swept %d entries", n)
				}
			}
		}
	}()
	return done
}
