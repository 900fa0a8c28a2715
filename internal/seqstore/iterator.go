package seqstore

import "iter"

// Iterator walks a List without touching the list's cursor. Several
// iterators may run over the same list at once.
//
// Any pop on the list ends every iterator created before it; Next then
// reports false. Pushes are seen by live iterators.
type Iterator[V any] struct {
	list    *List[V]
	pos     int
	version int
}

// Iter returns an iterator positioned before the first element.
func (l *List[V]) Iter() *Iterator[V] {
	return &Iterator[V]{list: l, pos: sentinel, version: l.version}
}

// Next advances and returns the next value. At the tail it reports false
// and stays put, so a later Push can still be reached.
func (it *Iterator[V]) Next() (V, bool) {
	var zero V
	if it.stale() {
		return zero, false
	}

	next := it.list.nodes[it.pos].next
	if next == nilIndex {
		return zero, false
	}

	it.pos = next
	return it.list.nodes[next].value, true
}

// Prev moves back one element. It never returns to the start position.
func (it *Iterator[V]) Prev() (V, bool) {
	var zero V
	if it.stale() || it.pos == sentinel {
		return zero, false
	}

	prev := it.list.nodes[it.pos].prev
	if prev == nilIndex {
		return zero, false
	}

	it.pos = prev
	return it.list.nodes[prev].value, true
}

func (it *Iterator[V]) stale() bool {
	return it.version != it.list.version
}

// All yields every value in order using a fresh Iterator.
func (l *List[V]) All() iter.Seq[V] {
	return func(yield func(V) bool) {
		it := l.Iter()
		for {
			v, ok := it.Next()
			if !ok || !yield(v) {
				return
			}
		}
	}
}
