package arena

// tracking.go implements TrackingAllocator, the reference general-purpose
// Allocator: a thin proxy over the host heap that records every allocation
// so it can all be released together.

import (
	"sync/atomic"
	"unsafe"

	"github.com/lsmcore/skiplist/internal/logging"
)

// TrackingAllocator proxies every request to the host heap. It also
// implements Arena: each allocation is recorded as its own single-element
// slab and addressed the same way BlockArena addresses slabs, so
// TrackingAllocator can stand in anywhere a fallback general-purpose
// allocator is wanted instead of a BlockArena.
type TrackingAllocator struct {
	dir    slabDirectory
	usage  atomic.Uint64
	logger logging.Logger
}

// NewTrackingAllocator creates an empty TrackingAllocator. logger may be
// nil.
func NewTrackingAllocator(logger logging.Logger) *TrackingAllocator {
	t := &TrackingAllocator{logger: logging.OrDefault(logger)}
	t.AllocAt(LayoutOf(1, 1)) // reserve offset 0 as NullOffset
	return t
}

func (t *TrackingAllocator) Alloc(layout Layout) unsafe.Pointer {
	ptr, _ := t.AllocAt(layout)
	return ptr
}

// AllocAt over-allocates by align bytes so an aligned pointer can always be
// carved out of the returned buffer, then records the buffer as its own
// slab.
func (t *TrackingAllocator) AllocAt(layout Layout) (unsafe.Pointer, uint64) {
	align := layout.Align
	if align == 0 {
		align = 1
	}

	buf := make([]byte, layout.Size+align)
	base := uintptr(unsafe.Pointer(&buf[0]))
	slop := alignOffset(base, align)

	offset := t.dir.appendSlab(buf)
	t.usage.Add(uint64(len(buf)))

	t.logger.Debugf(logging.NSArena+"tracking alloc size=%d align=%d bytes=%d", layout.Size, layout.Align, len(buf))

	return unsafe.Pointer(&buf[slop]), offset + uint64(slop)
}

// MemoryUsage returns the total bytes handed out, including the per-call
// alignment padding.
func (t *TrackingAllocator) MemoryUsage() uint64 { return t.usage.Load() }

func (t *TrackingAllocator) GetPointer(offset uint64) unsafe.Pointer { return t.dir.pointer(offset) }

func (t *TrackingAllocator) GetBytes(offset uint64, size uint32) []byte {
	return t.dir.bytes(offset, size)
}

// Release drops every tracked allocation in a single pass. Go's garbage
// collector, not an explicit free, reclaims the memory; Release's job is to
// drop TrackingAllocator's own references so nothing keeps stale
// allocations artificially alive, and to make the allocator unusable
// afterward.
func (t *TrackingAllocator) Release() {
	t.dir.clear()
}
