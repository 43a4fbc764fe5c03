// Package vec provides Vec, an owned, growable, contiguous sequence.
//
// A Vec owns one region of Cap slots whose first Len slots hold live
// values. When the region grows, values are relocated according to
// mem.RelocationOf: Bytewise types move with one bulk copy and no hooks,
// other types are move-constructed into the new region and destroyed in
// the old one, in index order.
//
// A Vec is a single-owner value. Copying the struct aliases the region;
// transfer ownership with Move instead. A moved-from Vec may only be
// reassigned or dropped; any other use is a logic failure.
package vec

import (
	"iter"
	"math"
	"slices"
	"unsafe"

	"go.uber.org/zap"

	"github.com/rawbytedev/subspace/check"
	"github.com/rawbytedev/subspace/internal/common"
	"github.com/rawbytedev/subspace/mem"
	"github.com/rawbytedev/subspace/option"
)

// movedFrom is the capacity of a moved-from Vec. No live Vec has a
// negative capacity, so the state cannot be confused with a real one.
const movedFrom = -1

// absentCap marks the empty state of an option.Compact[Vec[T]].
const absentCap = -2

type Vec[T any] struct {
	ptr *T
	len int
	cap int
}

// NeverValueOverlay nominates the capacity, so an optional Vec is no
// larger than a Vec.
func (Vec[T]) NeverValueOverlay() mem.Overlay {
	return mem.Overlay{Field: "cap", Never: absentCap}
}

// New returns an empty Vec with no region. The zero Vec is the same.
func New[T any]() Vec[T] {
	return Vec[T]{}
}

// WithCapacity returns an empty Vec with room for exactly n values. n
// values of T must fit the addressable byte range.
func WithCapacity[T any](n int) Vec[T] {
	mem.CheckCapacity[T]("vec.WithCapacity", n)
	return Vec[T]{ptr: mem.Allocate[T](n), cap: n}
}

// From returns a Vec holding a copy of xs, with capacity len(xs).
func From[T any](xs ...T) Vec[T] {
	v := WithCapacity[T](len(xs))
	copy(unsafe.Slice(v.ptr, v.cap), xs)
	v.len = len(xs)
	return v
}

// FromRawParts reassembles a Vec from parts returned by IntoRawParts. The
// caller hands over ownership of the region.
func FromRawParts[T any](ptr *T, length, capacity int) Vec[T] {
	check.Thatf(length >= 0 && length <= capacity, "vec.FromRawParts", check.ErrIndexOutOfBounds,
		"length %d, capacity %d", length, capacity)
	check.That((ptr != nil) == (capacity > 0), "vec.FromRawParts", check.ErrNullPointer)
	return Vec[T]{ptr: ptr, len: length, cap: capacity}
}

// IntoRawParts releases ownership of the region and returns its pointer,
// length and capacity. v is left moved-from.
func (v *Vec[T]) IntoRawParts() (*T, int, int) {
	v.live("vec.IntoRawParts")
	ptr, n, c := v.ptr, v.len, v.cap
	*v = Vec[T]{cap: movedFrom}
	return ptr, n, c
}

// Move transfers ownership of the contents to the returned Vec and leaves
// v moved-from.
func (v *Vec[T]) Move() Vec[T] {
	v.live("vec.Move")
	out := *v
	*v = Vec[T]{cap: movedFrom}
	return out
}

// IsMovedFrom reports whether v was the source of a Move or IntoRawParts.
func (v *Vec[T]) IsMovedFrom() bool { return v.cap == movedFrom }

func (v *Vec[T]) live(op string) {
	check.That(v.cap != movedFrom, op, check.ErrUseAfterMove)
}

// Len returns the number of live values.
func (v *Vec[T]) Len() int {
	v.live("vec.Len")
	return v.len
}

// Cap returns the number of slots in the region.
func (v *Vec[T]) Cap() int {
	v.live("vec.Cap")
	return v.cap
}

func (v *Vec[T]) IsEmpty() bool { return v.Len() == 0 }

// Reserve makes room for at least additional more values. When it has to
// grow, the capacity steps through (cap+1)*3 until it is large enough.
func (v *Vec[T]) Reserve(additional int) {
	v.live("vec.Reserve")
	goal := v.goal("vec.Reserve", additional)
	if goal <= v.cap {
		return
	}
	v.GrowToExact(v.applyGrowthFunction(goal))
}

// ReserveExact makes room for exactly additional more values if there is
// not enough already.
func (v *Vec[T]) ReserveExact(additional int) {
	v.live("vec.ReserveExact")
	v.GrowToExact(v.goal("vec.ReserveExact", additional))
}

// GrowToExact raises the capacity to c if it is smaller.
func (v *Vec[T]) GrowToExact(c int) {
	v.live("vec.GrowToExact")
	if c <= v.cap {
		return
	}
	mem.CheckCapacity[T]("vec.GrowToExact", c)
	v.relocate(c)
}

func (v *Vec[T]) goal(op string, additional int) int {
	check.Thatf(additional >= 0 && additional <= math.MaxInt-v.len, op, check.ErrCapacityOverflow,
		"len %d + %d", v.len, additional)
	return v.len + additional
}

func (v *Vec[T]) applyGrowthFunction(goal int) int {
	c := v.cap
	for c < goal {
		check.Thatf(c < math.MaxInt/3, "vec.Reserve", check.ErrCapacityOverflow, "capacity %d", c)
		c = (c + 1) * 3
		mem.CheckCapacity[T]("vec.Reserve", c)
	}
	return c
}

// relocate moves the live values into a new region of c slots.
func (v *Vec[T]) relocate(c int) {
	old, oldCap := v.ptr, v.cap
	r := mem.RelocationOf[T]()
	switch {
	case old == nil:
		v.ptr = mem.Allocate[T](c)
	case r == mem.Bytewise:
		v.ptr = mem.Resize(old, v.len, oldCap, c)
	default:
		p := mem.Allocate[T](c)
		dst, src := unsafe.Slice(p, c), unsafe.Slice(old, oldCap)
		for i := 0; i < v.len; i++ {
			mem.Relocate(&dst[i], &src[i])
		}
		mem.Free(old, oldCap)
		v.ptr = p
	}
	v.cap = c
	if ce := common.Logger().Check(zap.DebugLevel, "vec grow"); ce != nil {
		ce.Write(
			zap.Int("len", v.len),
			zap.Int("from", oldCap),
			zap.Int("to", c),
			zap.Stringer("relocation", r),
		)
	}
}

// aliases reports whether xs starts inside v's region.
func (v *Vec[T]) aliases(xs []T) bool {
	if v.ptr == nil || len(xs) == 0 {
		return false
	}
	var zero T
	base := uintptr(unsafe.Pointer(v.ptr))
	p := uintptr(unsafe.Pointer(unsafe.SliceData(xs)))
	return p >= base && p < base+uintptr(v.cap)*unsafe.Sizeof(zero)
}

func (v *Vec[T]) slots() []T {
	return unsafe.Slice(v.ptr, v.cap)
}

// Push appends x, growing the region if it is full.
func (v *Vec[T]) Push(x T) {
	v.Reserve(1)
	v.slots()[v.len] = x
	v.len++
}

// Extend appends xs in order. xs may be a view of v itself.
func (v *Vec[T]) Extend(xs ...T) {
	if v.len+len(xs) > v.cap && v.aliases(xs) {
		// growth releases the old region xs points into
		xs = slices.Clone(xs)
	}
	v.Reserve(len(xs))
	copy(v.slots()[v.len:], xs)
	v.len += len(xs)
}

// Pop removes the last value and returns it, or None if v is empty.
func (v *Vec[T]) Pop() option.Option[T] {
	v.live("vec.Pop")
	if v.len == 0 {
		return option.None[T]()
	}
	v.len--
	return option.Some(mem.TakeAndDestruct(&v.slots()[v.len]))
}

// Get returns a reference to the value at i, or None if i is out of
// range.
func (v *Vec[T]) Get(i int) option.Compact[*T] {
	v.live("vec.Get")
	if i < 0 || i >= v.len {
		return option.NoneCompact[*T]()
	}
	return option.SomeCompact(&v.slots()[i])
}

// GetMut is Get. Go has no read-only pointers; the name marks intent at
// call sites that write through the reference.
func (v *Vec[T]) GetMut(i int) option.Compact[*T] {
	v.live("vec.GetMut")
	return v.Get(i)
}

// At addresses the value at i. An index out of range is a logic failure.
func (v *Vec[T]) At(i int) *T {
	v.live("vec.At")
	check.Thatf(i >= 0 && i < v.len, "vec.At", check.ErrIndexOutOfBounds, "index %d, len %d", i, v.len)
	return &v.slots()[i]
}

// Set replaces the value at i, destroying the previous one.
func (v *Vec[T]) Set(i int, x T) {
	mem.ReplaceAndDiscard(v.At(i), x)
}

// GetUnchecked addresses slot i without checks. i must be below Len.
func (v *Vec[T]) GetUnchecked(i int) *T {
	var zero T
	return (*T)(unsafe.Add(unsafe.Pointer(v.ptr), uintptr(i)*unsafe.Sizeof(zero)))
}

// AsPtr returns the start of the region. A Vec without a region (capacity
// zero) has no pointer to give; asking is a logic failure.
func (v *Vec[T]) AsPtr() *T {
	v.live("vec.AsPtr")
	check.That(v.cap > 0, "vec.AsPtr", check.ErrNullPointer)
	return v.ptr
}

// Slice views the live values. The view is invalidated by anything that
// grows or shrinks v.
func (v *Vec[T]) Slice() []T {
	v.live("vec.Slice")
	if v.ptr == nil {
		return nil
	}
	return v.slots()[:v.len:v.len]
}

// All iterates index/value pairs in order.
func (v *Vec[T]) All() iter.Seq2[int, T] {
	return slices.All(v.Slice())
}

// Values iterates the values in order.
func (v *Vec[T]) Values() iter.Seq[T] {
	return slices.Values(v.Slice())
}

// Backward iterates index/value pairs from the last value to the first.
func (v *Vec[T]) Backward() iter.Seq2[int, T] {
	return slices.Backward(v.Slice())
}

// IntoValues takes ownership of the contents and yields each value, moved
// out of its slot, in order. v is left moved-from. Values the consumer
// does not reach are destroyed when the iteration stops.
func (v *Vec[T]) IntoValues() iter.Seq[T] {
	ptr, n, c := v.IntoRawParts()
	return func(yield func(T) bool) {
		if ptr == nil {
			return
		}
		s := unsafe.Slice(ptr, c)
		i := 0
		for ; i < n; i++ {
			if !yield(mem.TakeAndDestruct(&s[i])) {
				i++
				break
			}
		}
		for ; i < n; i++ {
			mem.Destroy(&s[i])
		}
		mem.Free(ptr, c)
		ptr = nil
	}
}

// Truncate destroys the values from index n on. It does nothing if n is
// not below Len. Capacity is kept.
func (v *Vec[T]) Truncate(n int) {
	v.live("vec.Truncate")
	if n < 0 {
		n = 0
	}
	if n >= v.len {
		return
	}
	s := v.slots()
	for i := n; i < v.len; i++ {
		mem.Destroy(&s[i])
	}
	v.len = n
}

// Clear destroys every value. Capacity is kept.
func (v *Vec[T]) Clear() {
	v.Truncate(0)
}

// Drop destroys every value and releases the region, leaving an empty Vec.
// Dropping a moved-from Vec is allowed and only resets it.
func (v *Vec[T]) Drop() {
	if v.cap == movedFrom || v.ptr == nil {
		*v = Vec[T]{}
		return
	}
	v.Clear()
	mem.Free(v.ptr, v.cap)
	*v = Vec[T]{}
}

// Equal reports whether a and b hold equal values in the same order.
func Equal[T comparable](a, b *Vec[T]) bool {
	return slices.Equal(a.Slice(), b.Slice())
}
