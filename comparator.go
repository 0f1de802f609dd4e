package skiplist

// comparator.go implements key comparison.
//
// Comparator is the total order the index consumes: compare(a, b) yields
// Less, Equal, or Greater. The core never inspects keys itself beyond
// calling the Comparator. This mirrors RocksDB's Compare semantics trimmed to the
// bare relation; RocksDB's FindShortestSeparator/FindShortSuccessor exist to
// shorten keys stored in SST index blocks, which this package never builds.

import "bytes"

// Ordering is the tri-state result of a comparison.
type Ordering int

const (
	Less Ordering = iota
	Equal
	Greater
)

// Comparator compares two keys and returns their relative order. It must be
// a total order: reflexive-equal, antisymmetric, and transitive.
type Comparator func(a, b []byte) Ordering

// BytewiseComparator orders keys lexicographically using bytes.Compare.
func BytewiseComparator(a, b []byte) Ordering {
	return FromIntCompare(bytes.Compare)(a, b)
}

// FromIntCompare adapts a C-style three-way comparator (negative/zero/positive)
// into a Comparator. Most comparators in the wild, including bytes.Compare,
// are written this way.
func FromIntCompare(cmp func(a, b []byte) int) Comparator {
	return func(a, b []byte) Ordering {
		switch c := cmp(a, b); {
		case c < 0:
			return Less
		case c > 0:
			return Greater
		default:
			return Equal
		}
	}
}

// Bound selects one side of a search: include the key, exclude it, or
// search without a bound at all (first/last, depending on direction).
type Bound struct {
	key  []byte
	kind boundKind
}

type boundKind int

const (
	boundUnbounded boundKind = iota
	boundIncluded
	boundExcluded
)

// Unbounded represents no bound: find_near's "drive to an end" mode.
func Unbounded() Bound { return Bound{kind: boundUnbounded} }

// Included bounds the search at key, inclusive.
func Included(key []byte) Bound { return Bound{key: key, kind: boundIncluded} }

// Excluded bounds the search at key, exclusive.
func Excluded(key []byte) Bound { return Bound{key: key, kind: boundExcluded} }
