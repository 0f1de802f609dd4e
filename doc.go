/*
Package skiplist provides a concurrent, arena-backed ordered index.

It pairs a bump-style block arena (package arena) with a probabilistic skip
list: inserts allocate a node sized exactly for its sampled tower height from
the arena and publish it into the list with a sequence of per-level
compare-and-swap splices. Reads are lock-free; iterators seek forward
directly and retreat by re-seeking from the head, trading an O(1) doubly
linked list for a single forward tower per node.

# Usage

	a := arena.NewBlockArena(nil)
	list := skiplist.New(skiplist.BytewiseComparator, a)
	list.Insert([]byte("b"), []byte("2"))
	list.Insert([]byte("a"), []byte("1"))

	it := list.NewIterator()
	for it.SeekToFirst(); it.Valid(); it.Next() {
		fmt.Println(string(it.Key()), string(it.Value()))
	}

For a runnable program, see cmd/smoketest.

# Concurrency

Insert is safe to call from multiple goroutines without external locking:
writers coordinate through per-level compare-and-swap on tower slots and
through the arena's own allocation lock. A single Iterator is not safe for
concurrent use by more than one goroutine; each goroutine should own its own
iterator. An iterator may or may not observe inserts that race with its
traversal, but it never observes a partially linked node.

# Non-goals

There is no deletion, no in-place value update (re-inserting a key leaves a
duplicate reachable at level 0), no bounded memory limit, and no recoverable
out-of-memory path: allocator exhaustion is fatal. There is no persistence;
this package is the in-memory component only, the kind of structure that
would sit inside a log-structured storage engine's mutable table.

Its traversal shape follows RocksDB/LevelDB-style memtable skip lists, and
its arena-addressed node layout follows the offset-based arenaskl style
used by Pebble-style storage engines.
*/
package skiplist
