/*
Package cache provides bounded, recency-evicting memoization.

PURPOSE:
  Three places memoize: plan results (keyed by the full preference tuple),
  region resolutions (keyed by country and raw input, negatives included)
  and holiday maps (keyed by country|region|startYear|endYear).

DESIGN:
  - Storage is a fixed-capacity LRU (hashicorp/golang-lru/v2): Get promotes
    to most-recently-used, Add past capacity evicts the least-recently-used.
  - Check-then-insert runs under a mutex so the size check and the eviction
    it triggers happen as one step.
  - GetOrCompute collapses concurrent misses on the same key into one
    computation (x/sync/singleflight). Errors are never cached.
*/
package cache

import (
	"fmt"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultSize is used when a non-positive capacity is requested.
const DefaultSize = 128

// Memo is a string-keyed LRU memo safe for concurrent use.
type Memo[V any] struct {
	mu    sync.Mutex
	lru   *lru.Cache[string, V]
	group singleflight.Group

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// Stats is a point-in-time view of memo counters.
type Stats struct {
	Size      int   `json:"size"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

// New creates a memo holding at most size entries.
func New[V any](size int) (*Memo[V], error) {
	if size <= 0 {
		size = DefaultSize
	}
	m := &Memo[V]{}
	c, err := lru.NewWithEvict[string, V](size, func(string, V) {
		m.evictions.Add(1)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create lru: %w", err)
	}
	m.lru = c
	return m, nil
}

// MustNew panics if the cache cannot be created. Only an invalid size can
// fail, and New already replaces those.
func MustNew[V any](size int) *Memo[V] {
	m, err := New[V](size)
	if err != nil {
		panic(err)
	}
	return m
}

// Get returns the cached value and promotes it.
func (m *Memo[V]) Get(key string) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.lru.Get(key)
	if ok {
		m.hits.Add(1)
	} else {
		m.misses.Add(1)
	}
	return v, ok
}

// Add stores a value, evicting the least recently used entry when full.
func (m *Memo[V]) Add(key string, v V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lru.Add(key, v)
}

// GetOrCompute returns the cached value for key, computing and storing it on
// a miss. The second return reports whether the value came from the cache.
func (m *Memo[V]) GetOrCompute(key string, fn func() (V, error)) (V, bool, error) {
	if v, ok := m.Get(key); ok {
		return v, true, nil
	}

	res, err, _ := m.group.Do(key, func() (any, error) {
		// A concurrent caller may have filled the key while we waited.
		m.mu.Lock()
		if v, ok := m.lru.Peek(key); ok {
			m.mu.Unlock()
			return v, nil
		}
		m.mu.Unlock()

		v, err := fn()
		if err != nil {
			return v, err
		}
		m.Add(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, false, err
	}
	return res.(V), false, nil
}

// Contains reports presence without promoting.
func (m *Memo[V]) Contains(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lru.Contains(key)
}

func (m *Memo[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lru.Len()
}

// Purge drops every entry. Counters are kept.
func (m *Memo[V]) Purge() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lru.Purge()
}

func (m *Memo[V]) Stats() Stats {
	return Stats{
		Size:      m.Len(),
		Hits:      m.hits.Load(),
		Misses:    m.misses.Load(),
		Evictions: m.evictions.Load(),
	}
}
