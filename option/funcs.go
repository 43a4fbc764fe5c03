package option

import (
	"cmp"

	"golang.org/x/exp/constraints"
)

// Map consumes o and returns fn of its value, or None when o is Absent.
func Map[T, R any, S any, PS storage[T, S]](o *Of[T, S, PS], fn func(T) R) Option[R] {
	if o.IsNone() {
		return None[R]()
	}
	return Some(fn(o.st().TakeAndSetAbsent()))
}

// MapOr consumes o and returns fn of its value, or def when o is Absent.
func MapOr[T, R any, S any, PS storage[T, S]](o *Of[T, S, PS], def R, fn func(T) R) R {
	if o.IsNone() {
		return def
	}
	return fn(o.st().TakeAndSetAbsent())
}

// MapOrElse is MapOr with a lazily computed default.
func MapOrElse[T, R any, S any, PS storage[T, S]](o *Of[T, S, PS], def func() R, fn func(T) R) R {
	if o.IsNone() {
		return def()
	}
	return fn(o.st().TakeAndSetAbsent())
}

// AndThen consumes o and returns fn of its value, or None when o is Absent.
func AndThen[T, R any, S any, PS storage[T, S]](o *Of[T, S, PS], fn func(T) Option[R]) Option[R] {
	if o.IsNone() {
		return None[R]()
	}
	return fn(o.st().TakeAndSetAbsent())
}

// And returns other if o holds a value, otherwise None. o is consumed.
func And[T, R any, S any, PS storage[T, S]](o *Of[T, S, PS], other Option[R]) Option[R] {
	if o.IsNone() {
		other.Clear()
		return None[R]()
	}
	o.Clear()
	return other
}

// Flatten removes one level of nesting.
func Flatten[T any](o *Option[Option[T]]) Option[T] {
	if o.IsNone() {
		return None[T]()
	}
	return o.st().TakeAndSetAbsent()
}

// AsRef returns a reference to the value held by o, without consuming it.
func AsRef[T any, S any, PS storage[T, S]](o *Of[T, S, PS]) Compact[*T] {
	if o.IsNone() {
		return NoneCompact[*T]()
	}
	return SomeCompact(o.st().Slot())
}

// Compare orders Absent before any Present value and Present values by
// payload.
func Compare[T constraints.Ordered, S any, PS storage[T, S]](a, b Of[T, S, PS]) int {
	return CompareFunc(a, b, cmp.Compare[T])
}

// CompareFunc is Compare with a payload comparison function.
func CompareFunc[T any, S any, PS storage[T, S]](a, b Of[T, S, PS], cmpFn func(T, T) int) int {
	av, aok := a.Get()
	bv, bok := b.Get()
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	default:
		return cmpFn(av, bv)
	}
}

// Equal reports whether a and b are both Absent or both hold equal values.
func Equal[T comparable, S any, PS storage[T, S]](a, b Of[T, S, PS]) bool {
	return EqualFunc(a, b, func(x, y T) bool { return x == y })
}

// EqualFunc is Equal with a payload equality function.
func EqualFunc[T any, S any, PS storage[T, S]](a, b Of[T, S, PS], eq func(T, T) bool) bool {
	av, aok := a.Get()
	bv, bok := b.Get()
	if aok != bok {
		return false
	}
	return !aok || eq(av, bv)
}
