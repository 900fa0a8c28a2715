// =============================================================================
// Appraisal Fee Audit - Key/Value Store
// =============================================================================
//
// This package provides the associative container used to hold the fee
// schedule. Keys are strings, values are generic.
//
// LAYOUT:
//   The table is a slice of bucket heads. Each bucket head is an index into
//   the entries arena, and every entry carries the index of the next entry in
//   its chain (or noEntry). Collisions append to the end of the chain.
//
//   buckets: [ 3 ] [ -1 ] [ 0 ] ...
//                \          \
//   entries:  #3 -> #5       #0 -> #1 -> #2
//
// GROWTH:
//   Before every insert the load factor (size / capacity) is checked. If it
//   is above MaxLoadFactor the table doubles and every entry is rehashed.
//
// =============================================================================

package kvstore

import (
	"errors"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// MaxLoadFactor is the size/capacity ratio above which Put resizes first.
const MaxLoadFactor = 0.70

// DefaultCapacity is the initial bucket count used when none is given.
const DefaultCapacity = 4000

// noEntry marks an empty bucket or the end of a chain.
const noEntry = -1

// ErrNotFound is returned by Fetch when a key is absent.
var ErrNotFound = errors.New("key not found")

// =============================================================================
// STORE STRUCTURE
// =============================================================================

// entry is a single key/value pair in the arena.
type entry[V any] struct {
	key   string
	value V
	next  int
}

// Store is a string-keyed hash table with chained collision resolution.
// It is not safe for concurrent use.
type Store[V any] struct {
	buckets []int
	entries []entry[V]
	size    int
	hash    HashFunc
}

// Option configures a Store.
type Option func(*options)

type options struct {
	hash HashFunc
}

// WithHash selects the hash function. The same function must be used for
// the life of the store, which is why it can only be set at construction.
func WithHash(h HashFunc) Option {
	return func(o *options) {
		if h != nil {
			o.hash = h
		}
	}
}

// New creates a Store with the given initial capacity.
// A capacity below 1 is raised to 1.
func New[V any](capacity int, opts ...Option) *Store[V] {
	o := options{hash: SumHash}
	for _, opt := range opts {
		opt(&o)
	}

	if capacity < 1 {
		capacity = 1
	}

	return &Store[V]{
		buckets: newBuckets(capacity),
		entries: make([]entry[V], 0, capacity),
		hash:    o.hash,
	}
}

func newBuckets(capacity int) []int {
	buckets := make([]int, capacity)
	for i := range buckets {
		buckets[i] = noEntry
	}
	return buckets
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Put inserts key with value, or updates the value in place if the key is
// already present. The whole chain is scanned before deciding.
func (s *Store[V]) Put(key string, value V) {
	if s.LoadFactor() > MaxLoadFactor {
		s.Resize()
	}
	s.insert(key, value)
}

// insert places the pair without checking the load factor.
func (s *Store[V]) insert(key string, value V) {
	slot := s.slot(key)

	if s.buckets[slot] == noEntry {
		s.buckets[slot] = s.appendEntry(key, value)
		s.size++
		return
	}

	last := noEntry
	for i := s.buckets[slot]; i != noEntry; i = s.entries[i].next {
		if s.entries[i].key == key {
			s.entries[i].value = value
			return
		}
		last = i
	}

	s.entries[last].next = s.appendEntry(key, value)
	s.size++
}

func (s *Store[V]) appendEntry(key string, value V) int {
	s.entries = append(s.entries, entry[V]{key: key, value: value, next: noEntry})
	return len(s.entries) - 1
}

// Get returns the value stored under key and whether it was found.
func (s *Store[V]) Get(key string) (V, bool) {
	if i := s.find(key); i != noEntry {
		return s.entries[i].value, true
	}
	var zero V
	return zero, false
}

// Contains reports whether key is present.
func (s *Store[V]) Contains(key string) bool {
	return s.find(key) != noEntry
}

// find walks the chain for key and returns its arena index or noEntry.
func (s *Store[V]) find(key string) int {
	for i := s.buckets[s.slot(key)]; i != noEntry; i = s.entries[i].next {
		if s.entries[i].key == key {
			return i
		}
	}
	return noEntry
}

// Resize doubles the capacity and rehashes every entry into the new table.
// Chain order is preserved per bucket, so Range order after a resize is
// deterministic for a given insertion history.
func (s *Store[V]) Resize() {
	old := make([]entry[V], 0, s.size)
	s.Range(func(key string, value V) bool {
		old = append(old, entry[V]{key: key, value: value})
		return true
	})

	s.buckets = newBuckets(len(s.buckets) * 2)
	s.entries = make([]entry[V], 0, len(s.buckets))
	s.size = 0

	for _, e := range old {
		s.insert(e.key, e.value)
	}
}

// Range calls fn for every entry in bucket order, then chain order.
// Iteration stops early if fn returns false.
func (s *Store[V]) Range(fn func(key string, value V) bool) {
	for _, head := range s.buckets {
		for i := head; i != noEntry; i = s.entries[i].next {
			if !fn(s.entries[i].key, s.entries[i].value) {
				return
			}
		}
	}
}

// Len returns the number of distinct keys.
func (s *Store[V]) Len() int {
	return s.size
}

// Cap returns the number of buckets.
func (s *Store[V]) Cap() int {
	return len(s.buckets)
}

// LoadFactor returns size / capacity.
func (s *Store[V]) LoadFactor() float64 {
	return float64(s.size) / float64(len(s.buckets))
}

// ChainLength returns the number of entries sharing key's bucket.
// It is used by tests and debug logging to observe collisions.
func (s *Store[V]) ChainLength(key string) int {
	n := 0
	for i := s.buckets[s.slot(key)]; i != noEntry; i = s.entries[i].next {
		n++
	}
	return n
}

func (s *Store[V]) slot(key string) int {
	return int(s.hash(key) % uint64(len(s.buckets)))
}
