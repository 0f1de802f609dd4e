package skiplist

// iterator.go implements Iterator, the cursor type used to walk a SkipList
// in order. Prev and the three seek methods are expressed in terms of
// SkipList.findNear; Next follows the current node's level-0 forward pointer.

// Iterator is a cursor over a SkipList's entries in ascending key order. An
// Iterator is not safe for concurrent use by more than one goroutine; each
// goroutine that wants to scan the list should own its own Iterator. A
// freshly created Iterator is not valid until a seek method positions it.
type Iterator struct {
	list *SkipList
	node *node
	off  uint64
}

// NewIterator returns an iterator over the list, positioned nowhere until a
// seek method is called.
func (s *SkipList) NewIterator() *Iterator {
	return &Iterator{list: s}
}

// Valid reports whether the iterator is positioned at an entry.
func (it *Iterator) Valid() bool { return it.node != nil }

// Key returns the current entry's key. It must only be called when Valid.
func (it *Iterator) Key() []byte { return it.node.key(it.list.a) }

// Value returns the current entry's value. It must only be called when
// Valid.
func (it *Iterator) Value() []byte { return it.node.value(it.list.a) }

// Next advances to the next entry in ascending order, an O(1) forward
// tower hop. After exhausting the list the iterator becomes invalid; calling
// Next on an invalid iterator leaves it invalid.
func (it *Iterator) Next() {
	if it.node == nil {
		return
	}
	off := it.node.next(0)
	it.node, it.off = it.list.resolve(off), off
}

// Prev retreats to the previous entry in ascending order. Because nodes
// carry no backward link, this re-seeks from the head for the greatest key
// strictly less than the current one, an O(log n) operation rather than the
// O(1) a doubly linked list would offer.
func (it *Iterator) Prev() {
	key := it.node.key(it.list.a)
	it.node, it.off = it.list.findNear(Excluded(key), true)
}

// SeekToFirst positions the iterator at the smallest key in the list.
func (it *Iterator) SeekToFirst() {
	it.node, it.off = it.list.findNear(Unbounded(), true)
}

// SeekToLast positions the iterator at the largest key in the list.
func (it *Iterator) SeekToLast() {
	it.node, it.off = it.list.findNear(Unbounded(), false)
}

// Seek positions the iterator at the smallest key greater than or equal to
// key. If no such key exists, the iterator becomes invalid.
func (it *Iterator) Seek(key []byte) {
	it.node, it.off = it.list.findNear(Included(key), false)
}
