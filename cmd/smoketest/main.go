// End-to-end smoke test for the skiplist package.
//
// Use `smoketest` to exercise the index end to end: sequential inserts,
// per-key seeks, arena slab rollover, concurrent disjoint inserts,
// duplicate-key ordering, and memory-usage accounting.
//
// Run a smoke test:
//
// ```bash
// ./bin/smoketest -keys=1000000
// ```
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/lsmcore/skiplist"
	"github.com/lsmcore/skiplist/arena"
)

var numKeys = flag.Int("keys", 1_000_000, "Number of keys to insert in the sequential scenarios")

func main() {
	flag.Parse()

	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Println("║              skiplist Smoke Test                           ║")
	fmt.Println("╠══════════════════════════════════════════════════════════════╣")
	fmt.Printf("║ Keys: %d                                              ║\n", *numKeys)
	fmt.Println("╚══════════════════════════════════════════════════════════════╝")
	fmt.Println()

	tests := []struct {
		name string
		fn   func() error
	}{
		{"Sequential insert, value=key+1", testSequentialKeyValuePlusOne},
		{"Seek every inserted key", testSeekEveryKey},
		{"Arena slab rollover and big-object bypass", testArenaRollover},
		{"Two-writer even/odd interleave", testEvenOddInterleave},
		{"Duplicate-key multiset ordering", testDuplicateKeyMultiset},
		{"Memory usage accounting", testMemoryUsageAccounting},
	}

	passed, failed := 0, 0
	for _, tc := range tests {
		fmt.Printf("\n🧪 Test: %s\n", tc.name)
		start := time.Now()
		err := tc.fn()
		elapsed := time.Since(start)

		if err != nil {
			fmt.Printf("   ❌ FAILED: %v (%v)\n", err, elapsed)
			failed++
		} else {
			fmt.Printf("   ✅ PASSED (%v)\n", elapsed)
			passed++
		}
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("Results: %d passed, %d failed\n", passed, failed)
	if failed > 0 {
		fmt.Println("❌ SMOKE TEST FAILED")
		os.Exit(1)
	}
	fmt.Println("✅ SMOKE TEST PASSED")
}

func key(i int) []byte { return fmt.Appendf(nil, "%010d", i) }

// Sequential insert, values offset by one from keys.
func testSequentialKeyValuePlusOne() error {
	list := skiplist.New(skiplist.BytewiseComparator, arena.NewBlockArena(nil))
	n := *numKeys
	for i := 0; i < n; i++ {
		list.Insert(key(i), key(i+1))
	}

	it := list.NewIterator()
	it.SeekToFirst()
	for i := 0; i < n; i++ {
		if !it.Valid() {
			return fmt.Errorf("iterator exhausted early at i=%d", i)
		}
		if !bytes.Equal(it.Key(), key(i)) {
			return fmt.Errorf("key[%d] = %q, want %q", i, it.Key(), key(i))
		}
		if !bytes.Equal(it.Value(), key(i+1)) {
			return fmt.Errorf("value[%d] = %q, want %q", i, it.Value(), key(i+1))
		}
		it.Next()
	}
	if it.Valid() {
		return fmt.Errorf("iterator still valid after %d Next calls", n)
	}
	return nil
}

// Seek every inserted key.
func testSeekEveryKey() error {
	list := skiplist.New(skiplist.BytewiseComparator, arena.NewBlockArena(nil))
	n := *numKeys
	for i := 0; i < n; i++ {
		list.Insert(key(i), key(i))
	}
	for i := 0; i < n; i++ {
		it := list.NewIterator()
		it.Seek(key(i))
		if !it.Valid() || !bytes.Equal(it.Key(), key(i)) || !bytes.Equal(it.Value(), key(i)) {
			return fmt.Errorf("seek(%d) failed", i)
		}
	}
	return nil
}

// Arena slab rollover and big-object bypass.
func testArenaRollover() error {
	a := arena.NewBlockArena(nil)

	var offsets []uint64
	for len(offsets) < arena.BlockSize*2 {
		_, off := a.AllocAt(arena.LayoutOf(16, 8))
		offsets = append(offsets, off)
	}

	_, bigOff := a.AllocAt(arena.LayoutOf(2048, 8))
	if bigOff == arena.NullOffset {
		return fmt.Errorf("big allocation got NullOffset")
	}

	_, afterBigOff := a.AllocAt(arena.LayoutOf(16, 8))
	if afterBigOff == arena.NullOffset {
		return fmt.Errorf("post-big allocation got NullOffset")
	}

	return nil
}

// Two writers inserting disjoint (even/odd) keys concurrently.
func testEvenOddInterleave() error {
	const n = 100_000
	list := skiplist.New(skiplist.BytewiseComparator, arena.NewBlockArena(nil))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i += 2 {
			list.Insert(key(i), key(i))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 1; i < n; i += 2 {
			list.Insert(key(i), key(i))
		}
	}()
	wg.Wait()

	it := list.NewIterator()
	it.SeekToFirst()
	for i := 0; i < n; i++ {
		if !it.Valid() || !bytes.Equal(it.Key(), key(i)) {
			return fmt.Errorf("entry %d mismatch", i)
		}
		it.Next()
	}
	return nil
}

// Duplicate-key multiset ordering.
func testDuplicateKeyMultiset() error {
	list := skiplist.New(skiplist.BytewiseComparator, arena.NewBlockArena(nil))
	for _, v := range []int{5, 2, 8, 2} {
		list.Insert(key(v), key(v))
	}

	it := list.NewIterator()
	it.SeekToFirst()
	want := []int{2, 2, 5, 8}
	for _, w := range want {
		if !it.Valid() || !bytes.Equal(it.Key(), key(w)) {
			return fmt.Errorf("expected %d next in traversal", w)
		}
		it.Next()
	}

	seekTwo := list.NewIterator()
	seekTwo.Seek(key(2))
	if !seekTwo.Valid() || !bytes.Equal(seekTwo.Key(), key(2)) {
		return fmt.Errorf("seek(2) did not land on a key-2 node")
	}

	fromFive := list.NewIterator()
	fromFive.Seek(key(5))
	fromFive.Prev()
	if !fromFive.Valid() || !bytes.Equal(fromFive.Key(), key(2)) {
		return fmt.Errorf("prev from key-5 did not land on a key-2 node")
	}
	return nil
}

// Memory usage accounting.
func testMemoryUsageAccounting() error {
	list := skiplist.New(skiplist.BytewiseComparator, arena.NewBlockArena(nil))
	n := 50_000
	for i := 0; i < n; i++ {
		list.Insert(key(i), key(i))
	}
	if list.MemoryUsage() == 0 {
		return fmt.Errorf("memory usage is zero after %d inserts", n)
	}
	return nil
}
