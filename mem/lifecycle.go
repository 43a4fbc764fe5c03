package mem

import "unsafe"

// Move move-constructs *dst from *src. dst must be a zeroed slot.
//
// Without a MoveFrom hook on *T, an aggregate whose members have hooks is
// moved member by member: those members run their own hooks and the rest
// is copied. Any other T is copied and src is reset to the zero value, so
// a later Destroy of src sees nothing to release.
func Move[T any](dst, src *T) {
	if m, ok := any(dst).(Mover[T]); ok {
		m.MoveFrom(src)
		return
	}
	*dst = *src
	if plan := hooksOf[T](); len(plan) > 0 {
		moveMembers(unsafe.Pointer(dst), unsafe.Pointer(src), plan)
		return
	}
	var zero T
	*src = zero
}

// Destroy runs the Destroy hook of *p, or the hooks of its members when
// *T has none, and zeroes the slot. Destroy hooks must tolerate the zero
// value: it is the moved-from state of types that have no MoveFrom.
func Destroy[T any](p *T) {
	if d, ok := any(p).(Destroyer); ok {
		d.Destroy()
	} else if plan := hooksOf[T](); len(plan) > 0 {
		destroyMembers(unsafe.Pointer(p), plan)
	}
	var zero T
	*p = zero
}

// Relocate moves *src into the zeroed slot dst and destroys src.
func Relocate[T any](dst, src *T) {
	Move(dst, src)
	Destroy(src)
}

// TakeAndDestruct moves the value out of p and leaves the slot destroyed.
func TakeAndDestruct[T any](p *T) T {
	var out T
	Relocate(&out, p)
	return out
}

// Replace stores v in p and returns the previous value.
func Replace[T any](p *T, v T) T {
	old := TakeAndDestruct(p)
	*p = v
	return old
}

// ReplaceAndDiscard stores v in p, destroying the previous value.
func ReplaceAndDiscard[T any](p *T, v T) {
	Destroy(p)
	*p = v
}

// Take returns the value in p and leaves the zero value behind.
func Take[T any](p *T) T {
	var zero T
	return Replace(p, zero)
}
