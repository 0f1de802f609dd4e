package skiplist

// skiplist_concurrent_test.go isolates the goroutine-heavy cases into their
// own file, separate from the single-threaded tests.

import (
	"fmt"
	"sync"
	"testing"

	"github.com/lsmcore/skiplist/arena"
)

// With T goroutines each inserting M disjoint keys, a forward traversal
// after all joins visits exactly T*M entries in order.
func TestProperty_ConcurrentInsertDisjointKeys(t *testing.T) {
	const threads = 8
	const perThread = 2000

	sl := New(BytewiseComparator, arena.NewBlockArena(nil))

	var wg sync.WaitGroup
	for th := 0; th < threads; th++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perThread; i++ {
				k := fmt.Appendf(nil, "%08d", base*perThread+i)
				sl.Insert(k, k)
			}
		}(th)
	}
	wg.Wait()

	it := sl.NewIterator()
	it.SeekToFirst()
	count := 0
	var prev []byte
	for it.Valid() {
		if prev != nil && BytewiseComparator(prev, it.Key()) != Less {
			t.Fatalf("out of order at entry %d: %q then %q", count, prev, it.Key())
		}
		prev = append(prev[:0], it.Key()...)
		count++
		it.Next()
	}
	if want := threads * perThread; count != want {
		t.Errorf("visited %d entries, want %d", count, want)
	}
}

// Two writer goroutines insert even and odd keys respectively across
// 0..100000; a post-join traversal yields 0,1,2,...
func TestConcurrentEvenOddInterleave(t *testing.T) {
	const n = 100_000
	sl := New(BytewiseComparator, arena.NewBlockArena(nil))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i += 2 {
			k := fmt.Appendf(nil, "%06d", i)
			sl.Insert(k, k)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 1; i < n; i += 2 {
			k := fmt.Appendf(nil, "%06d", i)
			sl.Insert(k, k)
		}
	}()
	wg.Wait()

	it := sl.NewIterator()
	it.SeekToFirst()
	for i := 0; i < n; i++ {
		if !it.Valid() {
			t.Fatalf("iterator exhausted early at i=%d", i)
		}
		want := fmt.Appendf(nil, "%06d", i)
		if string(it.Key()) != string(want) {
			t.Fatalf("entry %d: got %q, want %q", i, it.Key(), want)
		}
		it.Next()
	}
	if it.Valid() {
		t.Error("iterator should be exhausted after visiting all n entries")
	}
}
