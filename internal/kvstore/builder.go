package kvstore

import (
	"errors"
	"fmt"
)

// ErrBuilt is returned by Builder.Put after Build has been called.
var ErrBuilt = errors.New("store already built")

// Builder collects entries during indexing. Build hands out a read-only View
// and freezes the builder.
type Builder[V any] struct {
	store *Store[V]
	built bool
}

// NewBuilder creates a builder backed by a new Store.
func NewBuilder[V any](capacity int, opts ...Option) *Builder[V] {
	return &Builder[V]{store: New[V](capacity, opts...)}
}

// Put adds or updates an entry.
func (b *Builder[V]) Put(key string, value V) error {
	if b.built {
		return fmt.Errorf("put %q: %w", key, ErrBuilt)
	}
	b.store.Put(key, value)
	return nil
}

// Contains reports whether key has been put.
func (b *Builder[V]) Contains(key string) bool {
	return b.store.Contains(key)
}

// Len returns the number of keys collected so far.
func (b *Builder[V]) Len() int {
	return b.store.Len()
}

// Build freezes the builder and returns the read-only view.
func (b *Builder[V]) Build() *View[V] {
	b.built = true
	return &View[V]{store: b.store}
}

// View is a read-only handle on a built Store.
type View[V any] struct {
	store *Store[V]
}

// Get returns the value for key and whether it was found.
func (v *View[V]) Get(key string) (V, bool) {
	return v.store.Get(key)
}

// Fetch returns the value for key or ErrNotFound.
func (v *View[V]) Fetch(key string) (V, error) {
	value, ok := v.store.Get(key)
	if !ok {
		return value, fmt.Errorf("%q: %w", key, ErrNotFound)
	}
	return value, nil
}

// Contains reports whether key is present.
func (v *View[V]) Contains(key string) bool {
	return v.store.Contains(key)
}

// Len returns the number of keys.
func (v *View[V]) Len() int {
	return v.store.Len()
}

// Cap returns the bucket count of the underlying store.
func (v *View[V]) Cap() int {
	return v.store.Cap()
}

// Range iterates all entries. See Store.Range.
func (v *View[V]) Range(fn func(key string, value V) bool) {
	v.store.Range(fn)
}
