package skiplist

// property_test.go checks ordering, count, and seek invariants with
// testing/quick, the stdlib's own quickcheck-style package.

import (
	"bytes"
	"sort"
	"testing"
	"testing/quick"

	"github.com/lsmcore/skiplist/arena"
)

// uniqueSortedKeys turns an arbitrary byte-slice slice into a deduplicated,
// individually-nonoverlapping key set suitable for building a list with a
// known expected order.
func uniqueSortedKeys(raw [][]byte) [][]byte {
	seen := make(map[string]bool, len(raw))
	var out [][]byte
	for _, k := range raw {
		s := string(k)
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i], out[j]) < 0 })
	return out
}

func buildList(keys [][]byte) *SkipList {
	sl := New(BytewiseComparator, arena.NewBlockArena(nil))
	for _, k := range keys {
		sl.Insert(k, k)
	}
	return sl
}

// A forward traversal visits keys in non-decreasing order and visits every
// inserted key exactly once.
func TestProperty_Order(t *testing.T) {
	f := func(raw [][]byte) bool {
		keys := uniqueSortedKeys(raw)
		sl := buildList(keys)

		it := sl.NewIterator()
		it.SeekToFirst()
		var seen [][]byte
		var prev []byte
		for it.Valid() {
			if prev != nil && bytes.Compare(prev, it.Key()) > 0 {
				return false
			}
			prev = append([]byte(nil), it.Key()...)
			seen = append(seen, append([]byte(nil), it.Key()...))
			it.Next()
		}
		if len(seen) != len(keys) {
			return false
		}
		for i := range keys {
			if !bytes.Equal(seen[i], keys[i]) {
				return false
			}
		}
		return true
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

// After N unique-key insertions, a forward traversal visits exactly N
// entries, and the cursor is invalid after the N+1th Next.
func TestProperty_Count(t *testing.T) {
	f := func(raw [][]byte) bool {
		keys := uniqueSortedKeys(raw)
		sl := buildList(keys)

		it := sl.NewIterator()
		it.SeekToFirst()
		count := 0
		for it.Valid() {
			count++
			it.Next()
		}
		if count != len(keys) {
			return false
		}
		it.Next() // one call past exhaustion must not panic or resurrect validity
		return !it.Valid()
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

// For every inserted key k, Seek(k) leaves a valid cursor at k.
func TestProperty_Seek(t *testing.T) {
	f := func(raw [][]byte) bool {
		keys := uniqueSortedKeys(raw)
		if len(keys) == 0 {
			return true
		}
		sl := buildList(keys)

		for _, k := range keys {
			it := sl.NewIterator()
			it.Seek(k)
			if !it.Valid() || !bytes.Equal(it.Key(), k) {
				return false
			}
		}
		return true
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

// Seeking a key not present lands on the least key greater than it, or
// leaves the cursor invalid if no such key exists.
func TestProperty_SeekMiss(t *testing.T) {
	f := func(raw [][]byte, missing []byte) bool {
		keys := uniqueSortedKeys(raw)
		present := make(map[string]bool, len(keys))
		for _, k := range keys {
			present[string(k)] = true
		}
		if present[string(missing)] {
			return true // quick.Check may hand us a key already in the set
		}
		sl := buildList(keys)

		it := sl.NewIterator()
		it.Seek(missing)

		var least []byte
		found := false
		for _, k := range keys {
			if bytes.Compare(k, missing) > 0 {
				least = k
				found = true
				break
			}
		}

		if !found {
			return !it.Valid()
		}
		return it.Valid() && bytes.Equal(it.Key(), least)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

// After Seek(k) on an inserted k that is not the smallest key, one Prev
// followed by one Next returns to k.
func TestProperty_PrevNextRoundTrip(t *testing.T) {
	f := func(raw [][]byte) bool {
		keys := uniqueSortedKeys(raw)
		if len(keys) < 2 {
			return true
		}
		sl := buildList(keys)

		for _, k := range keys[1:] { // skip the smallest key
			it := sl.NewIterator()
			it.Seek(k)
			if !it.Valid() {
				return false
			}
			it.Prev()
			it.Next()
			if !it.Valid() || !bytes.Equal(it.Key(), k) {
				return false
			}
		}
		return true
	}
	cfg := &quick.Config{MaxCount: 200}
	if err := quick.Check(f, cfg); err != nil {
		t.Error(err)
	}
}
