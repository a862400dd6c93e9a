package cache

// lruNode is a node in the recency ring. The key rides along so the
// cache can drop the map entry when the node falls off the cold end.
type lruNode[K comparable] struct {
	key  K
	prev *lruNode[K]
	next *lruNode[K]
}

// lruList tracks recency as a circular doubly-linked list around a
// sentinel root: root.next is the most recently used node, root.prev
// the least. The ring never contains nil links, so splicing needs no
// empty-list branches.
//
// Ties in recency are broken by insertion order: of two entries never
// touched since insertion, the older one sits closer to the cold end.
// The list is not safe for concurrent use.
type lruList[K comparable] struct {
	root lruNode[K]
	len  int
}

// newLRUList creates an empty recency ring.
func newLRUList[K comparable]() *lruList[K] {
	l := &lruList[K]{}
	l.root.prev = &l.root
	l.root.next = &l.root
	return l
}

// Len returns the number of nodes in the ring.
func (l *lruList[K]) Len() int {
	return l.len
}

// PushFront inserts a new node for key as the most recently used and
// returns it for later MoveToFront and Remove calls.
func (l *lruList[K]) PushFront(key K) *lruNode[K] {
	n := &lruNode[K]{key: key}
	l.insertFront(n)
	l.len++
	return n
}

// MoveToFront marks an existing node most recently used.
func (l *lruList[K]) MoveToFront(n *lruNode[K]) {
	if n == nil || l.root.next == n {
		return
	}
	l.unlink(n)
	l.insertFront(n)
}

// Remove takes a node out of the ring and clears its links. Removing
// a node twice is a no-op.
func (l *lruList[K]) Remove(n *lruNode[K]) {
	if n == nil || n.next == nil {
		return
	}
	l.unlink(n)
	n.prev = nil
	n.next = nil
	l.len--
}

// RemoveOldest removes and returns the key of the least recently used
// node. Returns zero value and false if the ring is empty.
func (l *lruList[K]) RemoveOldest() (K, bool) {
	if l.len == 0 {
		var zero K
		return zero, false
	}

	n := l.root.prev
	l.Remove(n)
	return n.key, true
}

// Oldest returns the key of the least recently used node without
// removing it. Returns zero value and false if the ring is empty.
func (l *lruList[K]) Oldest() (K, bool) {
	if l.len == 0 {
		var zero K
		return zero, false
	}
	return l.root.prev.key, true
}

// Clear empties the ring. Detached nodes keep their stale links; the
// cache drops its references to them along with the map entries.
func (l *lruList[K]) Clear() {
	l.root.prev = &l.root
	l.root.next = &l.root
	l.len = 0
}

// unlink splices n out of the ring without touching n's own links.
func (l *lruList[K]) unlink(n *lruNode[K]) {
	n.prev.next = n.next
	n.next.prev = n.prev
}

// insertFront splices n into the ring directly behind the root.
func (l *lruList[K]) insertFront(n *lruNode[K]) {
	n.prev = &l.root
	n.next = l.root.next
	n.prev.next = n
	n.next.prev = n
}
