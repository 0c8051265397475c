package cmap

import (
	"hash/maphash"
	"sync"
	"sync/atomic"
)

// DefaultShardCount is the shard count used by New.
const DefaultShardCount = 16

// Map is a string-keyed concurrent map split into power-of-two shards,
// each guarded by its own RWMutex so registrations from concurrent
// accept-loop dispatches rarely contend. size tracks the live entry
// count across all shards.
type Map[V any] struct {
	shards []*shard[V]
	mask   uint64
	seed   maphash.Seed
	size   atomic.Int64
}

type shard[V any] struct {
	mu    sync.RWMutex
	items map[string]V
}

// New creates a map with DefaultShardCount shards.
func New[V any]() *Map[V] {
	return NewWithShards[V](DefaultShardCount)
}

// NewWithShards creates a map with the given shard count. Counts that are
// not a positive power of two fall back to DefaultShardCount.
func NewWithShards[V any](n int) *Map[V] {
	if n <= 0 || n&(n-1) != 0 {
		n = DefaultShardCount
	}
	m := &Map[V]{
		shards: make([]*shard[V], n),
		mask:   uint64(n - 1),
		seed:   maphash.MakeSeed(),
	}
	for i := range m.shards {
		m.shards[i] = &shard[V]{items: make(map[string]V)}
	}
	return m
}

func (m *Map[V]) shardFor(key string) *shard[V] {
	return m.shards[maphash.String(m.seed, key)&m.mask]
}

// Get returns the value stored under key.
func (m *Map[V]) Get(key string) (V, bool) {
	s := m.shardFor(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok
}

// Set stores value under key, replacing any existing entry.
func (m *Map[V]) Set(key string, value V) {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[key]; !exists {
		m.size.Add(1)
	}
	s.items[key] = value
}

// Delete removes key. Deleting an absent key is a no-op.
func (m *Map[V]) Delete(key string) {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[key]; exists {
		m.size.Add(-1)
		delete(s.items, key)
	}
}

// Has reports whether key is present.
func (m *Map[V]) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Count returns the number of entries. It reads the atomic entry counter
// rather than sweeping shard locks, so it is cheap enough for the accept
// loop or a metrics scrape to call on every pass.
func (m *Map[V]) Count() int {
	return int(m.size.Load())
}
