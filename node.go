package skiplist

// node.go implements the skip-list node layout: a fixed prefix carrying the
// key/value location, followed by a forward tower truncated to the node's
// sampled height so a level-1 node costs a fraction of what a level-20 node
// costs. Key and value bytes follow the node's own footprint in the same
// arena allocation rather than living in a separate allocation.

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/lsmcore/skiplist/arena"
)

// maxHeight bounds how tall a tower can grow. Height is sampled with
// upgrade probability 1/upgradeProbabilityInverse per level and clamped
// here.
const maxHeight = 20

const upgradeProbabilityInverse = 4

var (
	// fixedPrefixSize is the size, in bytes, of node's fields up to (not
	// including) tower.
	fixedPrefixSize = uint64(unsafe.Offsetof(node{}.tower))
	towerSlotSize   = uint64(unsafe.Sizeof(atomic.Uint64{}))
	nodeAlignment   = uint64(unsafe.Alignof(node{}))
)

// node holds a key/value pair plus a forward tower of arena offsets. Key and
// value bytes are not stored inline; keyOffset/valueOffset point at bytes
// living immediately after the node's own (truncated) footprint in the same
// arena allocation.
//
// A node is addressed by other nodes through its arena offset, never
// through a Go pointer: towers hold offsets so that arena-owned memory
// never contains a value the garbage collector must trace.
type node struct {
	keyOffset   uint64
	keySize     uint64
	valueOffset uint64
	valueSize   uint64

	// tower is allocated truncated to height: only tower[0:height] is ever
	// part of the node's arena allocation, and only those slots are read or
	// written.
	tower [maxHeight]atomic.Uint64
}

func towerBytes(height uint64) uint64 {
	return fixedPrefixSize + height*towerSlotSize
}

// newNode allocates a node of the given height with key and value copied
// into arena memory immediately following the node's truncated footprint,
// and zero-fills (to NullOffset) the first height tower slots.
func newNode(a arena.Arena, height uint64, key, value []byte) (*node, uint64) {
	if height < 1 || height > maxHeight {
		panic(fmt.Sprintf("skiplist: height %d out of range [1,%d]", height, maxHeight))
	}

	keySize := uint64(len(key))
	valueSize := uint64(len(value))
	nodeSize := towerBytes(height)

	ptr, offset := a.AllocAt(arena.LayoutOf(uintptr(nodeSize+keySize+valueSize), uintptr(nodeAlignment)))
	nd := (*node)(ptr)

	for i := uint64(0); i < height; i++ {
		nd.tower[i].Store(arena.NullOffset)
	}

	nd.keyOffset = offset + nodeSize
	nd.keySize = keySize
	nd.valueOffset = offset + nodeSize + keySize
	nd.valueSize = valueSize

	if keySize > 0 {
		copy(a.GetBytes(nd.keyOffset, uint32(keySize)), key)
	}
	if valueSize > 0 {
		copy(a.GetBytes(nd.valueOffset, uint32(valueSize)), value)
	}

	return nd, offset
}

func (n *node) key(a arena.Arena) []byte {
	if n.keySize == 0 {
		return nil
	}
	return a.GetBytes(n.keyOffset, uint32(n.keySize))
}

func (n *node) value(a arena.Arena) []byte {
	if n.valueSize == 0 {
		return nil
	}
	return a.GetBytes(n.valueOffset, uint32(n.valueSize))
}

func (n *node) next(level uint64) uint64 {
	return n.tower[level].Load()
}

func (n *node) setNext(level uint64, offset uint64) {
	n.tower[level].Store(offset)
}

func (n *node) casNext(level uint64, old, new uint64) bool {
	return n.tower[level].CompareAndSwap(old, new)
}
