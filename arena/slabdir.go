package arena

import (
	"sync"
	"unsafe"
)

const slabIndexShift = 32

// slabDirectory is the offset-addressing machinery shared by BlockArena and
// TrackingAllocator: an append-only list of owned byte slabs, addressed by
// an offset that packs a slab index into the high bits and a byte position
// within that slab into the low bits. An offset resolves directly by slab
// index; the index is already known at allocation time, so there is never
// a need to recover it by scanning addresses.
type slabDirectory struct {
	mu    sync.Mutex
	slabs [][]byte
}

// appendSlab records a new slab and returns the offset of its first byte.
func (d *slabDirectory) appendSlab(buf []byte) uint64 {
	d.mu.Lock()
	idx := len(d.slabs)
	d.slabs = append(d.slabs, buf)
	d.mu.Unlock()
	return uint64(idx) << slabIndexShift
}

func splitOffset(offset uint64) (idx int, pos uint32) {
	return int(offset >> slabIndexShift), uint32(offset)
}

func (d *slabDirectory) slab(idx int) []byte {
	d.mu.Lock()
	s := d.slabs[idx]
	d.mu.Unlock()
	return s
}

func (d *slabDirectory) baseAddr(idx int) uintptr {
	s := d.slab(idx)
	if len(s) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&s[0]))
}

func (d *slabDirectory) pointer(offset uint64) unsafe.Pointer {
	idx, pos := splitOffset(offset)
	s := d.slab(idx)
	return unsafe.Pointer(&s[pos])
}

func (d *slabDirectory) bytes(offset uint64, size uint32) []byte {
	idx, pos := splitOffset(offset)
	s := d.slab(idx)
	return s[pos : uint32(pos)+size]
}

func (d *slabDirectory) clear() {
	d.mu.Lock()
	d.slabs = nil
	d.mu.Unlock()
}
