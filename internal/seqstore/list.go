// =============================================================================
// Appraisal Fee Audit - Sequential Store
// =============================================================================
//
// A doubly linked list held in a slice arena. Nodes reference each other by
// index; index 0 is a hidden sentinel whose successor is always the first
// real node. Popped slots go on a free list and are reused by Push.
//
// CURSOR:
//   The list owns one cursor. Its position is the sentinel, a node, or none.
//
//   sentinel --GetNext--> node1 --GetNext--> ... --GetNext--> nodeN (stays)
//                         node1 <--GetPrevious-- ... <--GetPrevious-- nodeN
//
//   GetNext on the tail and GetPrevious on the head return no value and do
//   not move. The sentinel is never reached by moving backward.
//
//   For traversals that must not disturb the cursor use Iter.
//
// =============================================================================

package seqstore

// nilIndex marks the absence of a link or an unset cursor.
const nilIndex = -1

// sentinel is the arena slot of the hidden head node.
const sentinel = 0

type node[V any] struct {
	value V
	prev  int
	next  int
}

// List is a doubly linked sequence with a shared cursor.
// It is not safe for concurrent use.
type List[V any] struct {
	nodes   []node[V]
	free    []int
	head    int
	tail    int
	cursor  int
	version int
}

// New creates an empty list.
func New[V any]() *List[V] {
	return &List[V]{
		nodes:  []node[V]{{prev: nilIndex, next: nilIndex}},
		head:   nilIndex,
		tail:   nilIndex,
		cursor: nilIndex,
	}
}

// =============================================================================
// INSERTION
// =============================================================================

// Push appends value at the tail. On the first push into an empty list the
// cursor is placed on the sentinel so GetNext yields the first element.
func (l *List[V]) Push(value V) {
	i := l.alloc(value)

	if l.head == nilIndex {
		l.head = i
		l.tail = i
		l.nodes[sentinel].next = i
		l.cursor = sentinel
		return
	}

	l.nodes[i].prev = l.tail
	l.nodes[l.tail].next = i
	l.tail = i
}

func (l *List[V]) alloc(value V) int {
	n := node[V]{value: value, prev: nilIndex, next: nilIndex}
	if k := len(l.free); k > 0 {
		i := l.free[k-1]
		l.free = l.free[:k-1]
		l.nodes[i] = n
		return i
	}
	l.nodes = append(l.nodes, n)
	return len(l.nodes) - 1
}

func (l *List[V]) release(i int) V {
	value := l.nodes[i].value
	var zero V
	l.nodes[i] = node[V]{value: zero, prev: nilIndex, next: nilIndex}
	l.free = append(l.free, i)
	l.version++
	return value
}

// =============================================================================
// REMOVAL
// =============================================================================

// PopFront removes and returns the first value. If the cursor was on the
// removed node it moves to the new head.
func (l *List[V]) PopFront() (V, bool) {
	if l.head == nilIndex {
		var zero V
		return zero, false
	}

	i := l.head
	next := l.nodes[i].next

	if next == nilIndex {
		l.clear()
	} else {
		l.nodes[next].prev = nilIndex
		l.head = next
		l.nodes[sentinel].next = next
		if l.cursor == i {
			l.cursor = next
		}
	}

	return l.release(i), true
}

// PopBack removes and returns the last value. If the cursor was on the
// removed node it moves to the new tail.
func (l *List[V]) PopBack() (V, bool) {
	if l.tail == nilIndex {
		var zero V
		return zero, false
	}

	i := l.tail
	prev := l.nodes[i].prev

	if prev == nilIndex {
		l.clear()
	} else {
		l.nodes[prev].next = nilIndex
		l.tail = prev
		if l.cursor == i {
			l.cursor = prev
		}
	}

	return l.release(i), true
}

// PopCurrent removes the node under the cursor and returns its value.
// An interior removal advances the cursor to the former successor.
// Nothing is removed while the cursor is on the sentinel or unset.
func (l *List[V]) PopCurrent() (V, bool) {
	switch c := l.cursor; {
	case c == nilIndex || c == sentinel:
		var zero V
		return zero, false
	case c == l.head:
		return l.PopFront()
	case c == l.tail:
		return l.PopBack()
	default:
		prev, next := l.nodes[c].prev, l.nodes[c].next
		l.nodes[prev].next = next
		l.nodes[next].prev = prev
		l.cursor = next
		return l.release(c), true
	}
}

// clear resets links after the last node is removed.
func (l *List[V]) clear() {
	l.head = nilIndex
	l.tail = nilIndex
	l.nodes[sentinel].next = nilIndex
	l.cursor = nilIndex
}

// =============================================================================
// CURSOR TRAVERSAL
// =============================================================================

// GetNext advances the cursor and returns the value it lands on.
func (l *List[V]) GetNext() (V, bool) {
	var zero V
	if l.cursor == nilIndex {
		return zero, false
	}

	next := l.nodes[l.cursor].next
	if next == nilIndex {
		return zero, false
	}

	l.cursor = next
	return l.nodes[next].value, true
}

// GetPrevious moves the cursor back one node and returns its value.
func (l *List[V]) GetPrevious() (V, bool) {
	var zero V
	if l.cursor == nilIndex || l.cursor == sentinel {
		return zero, false
	}

	prev := l.nodes[l.cursor].prev
	if prev == nilIndex {
		return zero, false
	}

	l.cursor = prev
	return l.nodes[prev].value, true
}

// GetFront moves the cursor to the head and returns its value.
func (l *List[V]) GetFront() (V, bool) {
	if l.head == nilIndex {
		var zero V
		return zero, false
	}
	l.cursor = l.head
	return l.nodes[l.head].value, true
}

// GetBack moves the cursor to the tail and returns its value.
func (l *List[V]) GetBack() (V, bool) {
	if l.tail == nilIndex {
		var zero V
		return zero, false
	}
	l.cursor = l.tail
	return l.nodes[l.tail].value, true
}

// Current returns the value under the cursor, if the cursor is on a node.
func (l *List[V]) Current() (V, bool) {
	if l.cursor == nilIndex || l.cursor == sentinel {
		var zero V
		return zero, false
	}
	return l.nodes[l.cursor].value, true
}

// AtStart reports whether the cursor is on the sentinel.
func (l *List[V]) AtStart() bool {
	return l.cursor == sentinel
}

// GetLength counts the nodes by walking from the head.
func (l *List[V]) GetLength() int {
	n := 0
	for i := l.head; i != nilIndex; i = l.nodes[i].next {
		n++
	}
	return n
}

// Values returns a copy of all values in order.
func (l *List[V]) Values() []V {
	out := make([]V, 0, len(l.nodes)-1-len(l.free))
	for i := l.head; i != nilIndex; i = l.nodes[i].next {
		out = append(out, l.nodes[i].value)
	}
	return out
}
