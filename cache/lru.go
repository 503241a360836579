package cache

import (
	"container/list"
	"fmt"
	"sync"
)

// Store is a bounded key→stage map with least-recently-used eviction.
// New insertions and hits both move the entry to the most-recently-used
// position. Capacity is fixed at construction.
//
// Contract:
// - Concurrency: safe for concurrent use; reordering on Get/Lookup is a
//   mutation and is serialized internally.
// - Ownership: the store owns every value once inserted; producers must not
//   retain mutable aliases to a cached value's internals.
type Store struct {
	mu       sync.Mutex
	capacity int
	items    map[Key]*list.Element
	order    *list.List // front = most-recently used
	stats    stats
}

type storeEntry struct {
	key   Key
	value any
}

// NewStore creates a store holding at most size entries. A non-positive
// size fails with ErrInvalidSize; capacity is not adjustable afterwards.
func NewStore(size int) (*Store, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return &Store{
		capacity: size,
		items:    make(map[Key]*list.Element, size),
		order:    list.New(),
	}, nil
}

// Has reports whether key is present. It never changes the entry order.
func (s *Store) Has(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[key]
	return ok
}

// Lookup returns the value for key, promoting it to most-recently-used.
// The miss path returns (nil, false) and records a miss.
func (s *Store) Lookup(key Key) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, ok := s.items[key]
	if !ok {
		s.stats.misses.Add(1)
		return nil, false
	}
	s.order.MoveToFront(el)
	s.stats.hits.Add(1)
	return el.Value.(*storeEntry).value, true
}

// Get returns the value for key, promoting it to most-recently-used. An
// absent key fails with ErrKeyNotFound.
func (s *Store) Get(key Key) (any, error) {
	v, ok := s.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return v, nil
}

// Put stores value under key. An existing key is overwritten and promoted;
// a new key evicts the least-recently-used entry while the store is at
// capacity, then inserts as most-recently-used.
func (s *Store) Put(key Key, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.items[key]; ok {
		el.Value.(*storeEntry).value = value
		s.order.MoveToFront(el)
		return
	}
	for len(s.items) >= s.capacity {
		s.evictOldestLocked()
	}
	s.items[key] = s.order.PushFront(&storeEntry{key: key, value: value})
}

// Evict removes key from the store, reporting whether an entry was removed.
func (s *Store) Evict(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, ok := s.items[key]
	if !ok {
		return false
	}
	s.order.Remove(el)
	delete(s.items, key)
	s.stats.evictions.Add(1)
	return true
}

// EvictOldest unconditionally removes the least-recently-used entry. It
// no-ops on an empty store, reporting whether an entry was removed.
func (s *Store) EvictOldest() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evictOldestLocked()
}

func (s *Store) evictOldestLocked() bool {
	el := s.order.Back()
	if el == nil {
		return false
	}
	s.order.Remove(el)
	delete(s.items, el.Value.(*storeEntry).key)
	s.stats.evictions.Add(1)
	return true
}

// Len returns the number of cached entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Capacity returns the fixed maximum number of entries.
func (s *Store) Capacity() int { return s.capacity }

// Keys returns the cached keys from most- to least-recently used. Intended
// for tests and diagnostics.
func (s *Store) Keys() []Key {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]Key, 0, len(s.items))
	for el := s.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*storeEntry).key)
	}
	return keys
}
