package skiplist

// skiplist.go implements the concurrent skip list itself: top-down search,
// lock-free insertion by per-level compare-and-swap, and the height-sampling
// and height-bumping machinery that keeps the tower probabilistically
// balanced. find_near is the single traversal primitive behind lookup,
// seek, first, last, and prev; insertion splices a node in with a per-level
// compare-and-swap retry loop rather than taking a lock.

import (
	"math/rand/v2"
	"sync/atomic"

	"github.com/lsmcore/skiplist/arena"
	"github.com/lsmcore/skiplist/internal/logging"
)

// SkipList is a concurrent, ordered index backed by an arena.Arena. Nodes
// are addressed by arena offset rather than by Go pointer, and are
// published to readers through a sequence of per-level compare-and-swap
// splices, so Insert never blocks a concurrent reader and never observes a
// partially linked node.
//
// A duplicate key is never overwritten in place: re-inserting a key leaves
// both entries reachable at level 0, with the earliest inserted one
// encountered first by a forward scan. There is no deletion.
type SkipList struct {
	a       arena.Arena
	cmp     Comparator
	head    *node
	headOff uint64
	height  atomic.Uint64
	logger  logging.Logger
}

// New constructs an empty SkipList ordered by cmp, backed by allocator. If
// cmp is nil, BytewiseComparator is used. If allocator is nil, a fresh
// arena.BlockArena is created.
func New(cmp Comparator, allocator arena.Arena) *SkipList {
	return NewWithLogger(cmp, allocator, nil)
}

// NewWithLogger is New with an explicit logger for structural events: each
// insert's height and offset, and slab growth when allocator is nil and a
// BlockArena is created here. logger may be nil.
func NewWithLogger(cmp Comparator, allocator arena.Arena, logger logging.Logger) *SkipList {
	if cmp == nil {
		cmp = BytewiseComparator
	}
	logger = logging.OrDefault(logger)
	if allocator == nil {
		allocator = arena.NewBlockArena(logger)
	}

	head, headOff := newNode(allocator, maxHeight, nil, nil)
	sl := &SkipList{a: allocator, cmp: cmp, head: head, headOff: headOff, logger: logger}
	sl.height.Store(1)
	return sl
}

// Height returns the list's current tower height, in [1, maxHeight].
func (s *SkipList) Height() uint64 { return s.height.Load() }

// MemoryUsage reports the arena's running memory-usage counter.
func (s *SkipList) MemoryUsage() uint64 { return s.a.MemoryUsage() }

func (s *SkipList) resolve(offset uint64) *node {
	if offset == arena.NullOffset {
		return nil
	}
	return (*node)(s.a.GetPointer(offset))
}

// randomHeight samples a tower height in [1, maxHeight] by repeated
// Bernoulli(1/upgradeProbabilityInverse) trials, one per level above the
// first. math/rand/v2's package-level source is safe for concurrent use by
// multiple goroutines, which a fixed-seed *rand.Rand is not.
func randomHeight() uint64 {
	h := uint64(1)
	for h < maxHeight && rand.N(upgradeProbabilityInverse) == 0 {
		h++
	}
	return h
}

// Insert adds key/value to the list. It never overwrites an existing entry
// for key; a second Insert of the same key leaves both reachable, with this
// call's entry ordered after the earlier one at level 0.
//
// Insert is safe to call from multiple goroutines without external locking.
func (s *SkipList) Insert(key, value []byte) {
	prevHeight := s.Height()

	var prev, next [maxHeight + 1]uint64
	prev[prevHeight] = s.headOff

	for level := int(prevHeight) - 1; level >= 0; level-- {
		p, n := s.findNodePrevNext(key, prev[level+1], uint64(level))
		prev[level], next[level] = p, n
	}

	height := randomHeight()
	newNd, newOff := newNode(s.a, height, key, value)

	if height > prevHeight {
		for {
			if s.height.CompareAndSwap(prevHeight, height) {
				break
			}
			prevHeight = s.Height()
			if height <= prevHeight {
				break
			}
		}
	}

	for level := uint64(0); level < height; level++ {
		for {
			if prev[level] == arena.NullOffset {
				// level is above the height this Insert originally
				// observed; fill it lazily from the head.
				prev[level], next[level] = s.findNodePrevNext(key, s.headOff, level)
			}

			newNd.setNext(level, next[level])

			prevNd := s.resolve(prev[level])
			if prevNd.casNext(level, next[level], newOff) {
				break
			}

			// Lost the splice race at this level; recompute from the same
			// starting point and retry.
			prev[level], next[level] = s.findNodePrevNext(key, prev[level], level)
		}
	}

	s.logger.Debugf(logging.NSSkiplist+"insert height=%d offset=%d", height, newOff)
}

// findNodePrevNext walks forward at level from startOffset until it finds
// the node immediately before where key belongs. A node whose key equals
// key is itself treated as both prev and next, so the computed next for
// that level is the existing duplicate's own offset rather than that
// duplicate's actual next(level). The first splice attempt therefore always
// loses its CAS against the duplicate's real tower slot; Insert's retry
// loop then re-walks from that point and splices the new node after the
// existing one instead, so duplicate keys end up ordered
// first-inserted-first at level 0.
func (s *SkipList) findNodePrevNext(key []byte, startOffset uint64, level uint64) (uint64, uint64) {
	curOff := startOffset
	cur := s.resolve(curOff)

	for {
		nextOff := cur.next(level)
		if nextOff == arena.NullOffset {
			return curOff, arena.NullOffset
		}
		next := s.resolve(nextOff)
		switch s.cmp(next.key(s.a), key) {
		case Less:
			cur, curOff = next, nextOff
		case Equal:
			return nextOff, nextOff
		default: // Greater
			return curOff, nextOff
		}
	}
}

// findNear is the single traversal primitive behind point lookup and every
// iterator movement: it walks top-down from the head and returns the node
// satisfying bound, searching toward the tail when reverse is false and
// toward the head when reverse is true.
func (s *SkipList) findNear(bound Bound, reverse bool) (*node, uint64) {
	if bound.kind == boundUnbounded {
		if reverse {
			off := s.head.next(0)
			return s.resolve(off), off
		}
		return s.findLastNode()
	}
	return s.findNearBounded(bound.key, bound.kind == boundIncluded, reverse)
}

// findLastNode walks forward on each level until no forward pointer
// remains, descending a level at a time, and returns the last node visited
// (or nil if the list is empty).
func (s *SkipList) findLastNode() (*node, uint64) {
	cur, curOff := s.head, s.headOff
	level := s.Height() - 1

	for {
		nextOff := cur.next(level)
		if nextOff == arena.NullOffset {
			if level == 0 {
				if cur == s.head {
					return nil, arena.NullOffset
				}
				return cur, curOff
			}
			level--
			continue
		}
		cur, curOff = s.resolve(nextOff), nextOff
	}
}

func (s *SkipList) findNearBounded(key []byte, included, reverse bool) (*node, uint64) {
	cur, curOff := s.head, s.headOff
	level := s.Height() - 1

	for {
		nextOff := cur.next(level)
		if nextOff == arena.NullOffset {
			if level > 0 {
				level--
				continue
			}
			if cur == s.head || !reverse {
				return nil, arena.NullOffset
			}
			return cur, curOff
		}

		next := s.resolve(nextOff)
		switch s.cmp(key, next.key(s.a)) {
		case Less:
			if level > 0 {
				level--
				continue
			}
			if !reverse {
				return next, nextOff
			}
			if cur == s.head {
				return nil, arena.NullOffset
			}
			return cur, curOff

		case Equal:
			if included {
				return next, nextOff
			}
			if !reverse {
				off := next.next(0)
				return s.resolve(off), off
			}
			if level > 0 {
				level--
				continue
			}
			if cur == s.head {
				return nil, arena.NullOffset
			}
			return cur, curOff

		default: // Greater
			cur, curOff = next, nextOff
		}
	}
}
