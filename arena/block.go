package arena

// block.go implements BlockArena, the bump-style block allocator this
// index's nodes are carved out of.

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/lsmcore/skiplist/internal/logging"
)

const (
	// ItemSize is the allocation granularity a big-object slab is rounded
	// up to.
	ItemSize = 8
	// BlockSize is the number of ItemSize-sized items in one standard slab.
	BlockSize = 512
	// StandardSlabBytes is the size of a freshly grown standard slab.
	StandardSlabBytes = BlockSize * ItemSize
	// BigLimit is the largest post-alignment footprint a standard slab will
	// serve; anything bigger gets its own dedicated oversize slab.
	BigLimit = BlockSize / 4 * ItemSize
)

// BlockArena is a bump allocator over fixed-size slabs: allocations that
// would overflow the current standard slab roll onto a freshly appended
// one, and allocations whose post-alignment footprint exceeds BigLimit are
// served from their own dedicated oversize slab instead, so one large
// request never strands the unused remainder of a standard slab.
//
// BlockArena never frees a slab until the whole arena is dropped; there is
// no API to reclaim a single allocation.
type BlockArena struct {
	mu  sync.Mutex
	dir slabDirectory

	curSlab   int
	curPos    uint32
	remaining uint32

	usage  atomic.Uint64
	logger logging.Logger
}

// NewBlockArena creates an empty BlockArena. logger may be nil, in which
// case slab-growth events are discarded.
func NewBlockArena(logger logging.Logger) *BlockArena {
	a := &BlockArena{logger: logging.OrDefault(logger)}
	a.growStandard()
	// Waste the first ItemSize bytes of slab 0 so offset 0 is never handed
	// out by AllocAt, reserving it as NullOffset.
	a.curPos += ItemSize
	a.remaining -= ItemSize
	return a
}

func (a *BlockArena) Alloc(layout Layout) unsafe.Pointer {
	ptr, _ := a.AllocAt(layout)
	return ptr
}

// AllocAt implements the bump-allocation algorithm: compute the alignment
// slop against the current cursor; if the aligned request would exceed
// BigLimit, serve it from a dedicated oversize slab without disturbing the
// cursor; otherwise roll onto a fresh standard slab if the current one
// cannot fit the request, then bump the cursor past it.
func (a *BlockArena) AllocAt(layout Layout) (unsafe.Pointer, uint64) {
	align := layout.Align
	if align == 0 {
		align = 1
	}
	size := uint32(layout.Size)

	a.mu.Lock()
	defer a.mu.Unlock()

	curBase := a.dir.baseAddr(a.curSlab)
	slop := uint32(alignOffset(curBase+uintptr(a.curPos), align))
	need := slop + size

	if uintptr(need) > BigLimit {
		return a.allocBigLocked(size)
	}

	if need > a.remaining {
		a.growStandard()
		curBase = a.dir.baseAddr(a.curSlab)
		slop = uint32(alignOffset(curBase+uintptr(a.curPos), align))
		need = slop + size
		if need > a.remaining {
			a.fatalf("need %d bytes exceeds a fresh standard slab of %d bytes", need, a.remaining)
		}
	}

	pos := a.curPos + slop
	ptr := unsafe.Pointer(&a.dir.slab(a.curSlab)[pos])
	offset := uint64(a.curSlab)<<slabIndexShift | uint64(pos)

	a.curPos += need
	a.remaining -= need

	a.logger.Debugf(logging.NSArena+"alloc size=%d align=%d slab=%d pos=%d", size, align, a.curSlab, pos)

	return ptr, offset
}

// allocBigLocked serves an oversize request from a dedicated slab rounded
// up to a multiple of ItemSize bytes, returning the slab's base pointer
// without applying any alignment slop.
func (a *BlockArena) allocBigLocked(size uint32) (unsafe.Pointer, uint64) {
	items := (uint64(size) + ItemSize - 1) / ItemSize
	if items == 0 {
		items = 1
	}
	buf := make([]byte, items*ItemSize)
	offset := a.dir.appendSlab(buf)
	a.usage.Add(uint64(len(buf)))

	idx, _ := splitOffset(offset)
	a.logger.Debugf(logging.NSArena+"big alloc size=%d slab=%d bytes=%d", size, idx, len(buf))

	return unsafe.Pointer(&buf[0]), offset
}

func (a *BlockArena) growStandard() {
	buf := make([]byte, StandardSlabBytes)
	offset := a.dir.appendSlab(buf)
	a.usage.Add(uint64(len(buf)))

	a.curSlab, _ = splitOffset(offset)
	a.curPos = 0
	a.remaining = StandardSlabBytes

	a.logger.Debugf(logging.NSArena+"new standard slab slab=%d bytes=%d", a.curSlab, len(buf))
}

func (a *BlockArena) fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.logger.Fatalf(logging.NSArena + msg)
	panic(fmt.Errorf("%w: %s", ErrAllocatorExhausted, msg))
}

// MemoryUsage returns the total bytes handed out across every slab,
// standard and oversize, ever appended to this arena.
func (a *BlockArena) MemoryUsage() uint64 { return a.usage.Load() }

func (a *BlockArena) GetPointer(offset uint64) unsafe.Pointer { return a.dir.pointer(offset) }

func (a *BlockArena) GetBytes(offset uint64, size uint32) []byte { return a.dir.bytes(offset, size) }
