package mem

import (
	"reflect"
	"sync/atomic"
	"unsafe"

	"github.com/rawbytedev/subspace/check"
	"github.com/rawbytedev/subspace/internal/common"
)

// AllocStats counts traffic through the global allocation surface.
type AllocStats struct {
	Allocs    uint64 // regions handed out by Allocate and Resize
	Resizes   uint64
	Frees     uint64
	LiveBytes int64
}

var allocStats struct {
	allocs, resizes, frees atomic.Uint64
	live                   atomic.Int64
}

// Stats returns a snapshot of the allocation counters.
func Stats() AllocStats {
	return AllocStats{
		Allocs:    allocStats.allocs.Load(),
		Resizes:   allocStats.resizes.Load(),
		Frees:     allocStats.frees.Load(),
		LiveBytes: allocStats.live.Load(),
	}
}

// ResetStats zeroes the allocation counters.
func ResetStats() {
	allocStats.allocs.Store(0)
	allocStats.resizes.Store(0)
	allocStats.frees.Store(0)
	allocStats.live.Store(0)
}

var pointerFree = newTypeCache(func(t reflect.Type) bool { return !common.HasPointers(t) })

// Allocate returns a zeroed region of n slots of T, or nil for n == 0. A
// request past the addressable byte range is a logic failure.
func Allocate[T any](n int) *T {
	size := regionBytes[T]("mem.Allocate", n)
	if n == 0 {
		return nil
	}
	s := make([]T, n)
	allocStats.allocs.Add(1)
	allocStats.live.Add(int64(size))
	return unsafe.SliceData(s)
}

// Resize moves the first live slots of the oldN-slot region at p into a new
// region of newN slots with one bulk copy, then frees the old region. T must
// be Bytewise; nothing runs on the copied values.
func Resize[T any](p *T, live, oldN, newN int) *T {
	check.Thatf(live >= 0 && live <= oldN && live <= newN, "mem.Resize", check.ErrIndexOutOfBounds,
		"live %d, old %d, new %d", live, oldN, newN)
	if p == nil {
		return Allocate[T](newN)
	}
	q := Allocate[T](newN)
	if live > 0 {
		copyBytewise(q, p, live)
	}
	Free(p, oldN)
	allocStats.resizes.Add(1)
	return q
}

// Free releases a region returned by Allocate or Resize. Slots still
// holding references are cleared so the collector can reclaim them.
func Free[T any](p *T, n int) {
	if p == nil {
		return
	}
	if !pointerFree.get(reflect.TypeFor[T]()) {
		clear(unsafe.Slice(p, n))
	}
	size, _ := common.BytesFor(n, unsafe.Sizeof(*p))
	allocStats.frees.Add(1)
	allocStats.live.Add(-int64(size))
}

// copyBytewise copies n values from src to dst as one block. Pointer-free
// types go through a raw byte view; the rest use a typed copy so the
// collector sees the pointer writes.
func copyBytewise[T any](dst, src *T, n int) {
	if pointerFree.get(reflect.TypeFor[T]()) {
		size := uintptr(n) * unsafe.Sizeof(*src)
		copy(common.ByteView(unsafe.Pointer(dst), size), common.ByteView(unsafe.Pointer(src), size))
		return
	}
	copy(unsafe.Slice(dst, n), unsafe.Slice(src, n))
}

func regionBytes[T any](op string, n int) int {
	var zero T
	size, ok := common.BytesFor(n, unsafe.Sizeof(zero))
	check.Thatf(ok, op, check.ErrCapacityOverflow, "%d slots of %d bytes", n, unsafe.Sizeof(zero))
	return size
}

// CheckCapacity fails unless n slots of T fit in the addressable byte range.
func CheckCapacity[T any](op string, n int) {
	regionBytes[T](op, n)
}
