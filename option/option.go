// Package option provides an optional value whose representation is picked
// by the type parameter: Option keeps a discriminant next to the payload and
// works for any T, Compact keeps none and marks absence with the payload's
// never-value, so it is exactly as large as T.
//
// Both are instantiations of Of and share one method set. Methods that
// consume the value (Unwrap, Map, Filter, ...) take a pointer receiver and
// leave the Option Absent.
package option

import (
	"fmt"

	"github.com/rawbytedev/subspace/check"
	"github.com/rawbytedev/subspace/mem"
)

type storage[T, S any] interface {
	*S
	Storage[T]
}

// Of is an optional T held in storage S.
type Of[T any, S any, PS storage[T, S]] struct {
	s S
}

// Option is an optional T with an explicit discriminant.
type Option[T any] = Of[T, Flagged[T], *Flagged[T]]

// Compact is an optional T with no discriminant. T must have a never-value:
// a pointer, or a type implementing mem.NeverValueField.
type Compact[T any] = Of[T, Sentinel[T], *Sentinel[T]]

// Some returns an Option holding v.
func Some[T any](v T) Option[T] {
	return present[T, Flagged[T]](v)
}

// None returns an empty Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// FromOK is Some(v) when ok, None otherwise.
func FromOK[T any](v T, ok bool) Option[T] {
	if !ok {
		return None[T]()
	}
	return Some(v)
}

// SomeCompact returns a Compact holding v. v must not carry the
// never-value: SomeCompact[*int](nil) is a logic failure.
func SomeCompact[T any](v T) Compact[T] {
	return present[T, Sentinel[T]](v)
}

// NoneCompact returns an empty Compact. The zero Compact is empty as well
// when the never-value is the field's zero value, as it is for pointers.
func NoneCompact[T any]() Compact[T] {
	return absent[T, Sentinel[T]]()
}

func present[T, S any, PS storage[T, S]](v T) Of[T, S, PS] {
	var o Of[T, S, PS]
	PS(&o.s).ConstructFromAbsent(v)
	return o
}

func absent[T, S any, PS storage[T, S]]() Of[T, S, PS] {
	var o Of[T, S, PS]
	if PS(&o.s).State() == Present {
		// the never-value is not all zero bytes; no T was constructed
		// here, so only the pattern is written
		mem.SetNeverValue(PS(&o.s).Slot())
	}
	return o
}

func (o *Of[T, S, PS]) st() PS { return PS(&o.s) }

// State reports whether a value is held.
func (o Of[T, S, PS]) State() State { return o.st().State() }

func (o Of[T, S, PS]) IsSome() bool { return o.State() == Present }

func (o Of[T, S, PS]) IsNone() bool { return o.State() == Absent }

// Get returns a copy of the held value and whether there is one. It does
// not consume the Option.
func (o Of[T, S, PS]) Get() (T, bool) {
	if o.IsNone() {
		var zero T
		return zero, false
	}
	return *o.st().Slot(), true
}

func (o Of[T, S, PS]) String() string {
	if v, ok := o.Get(); ok {
		return fmt.Sprintf("Some(%v)", v)
	}
	return "None"
}

// Unwrap returns the held value and leaves the Option Absent. Unwrapping an
// Absent Option is a logic failure.
func (o *Of[T, S, PS]) Unwrap() T {
	check.That(o.IsSome(), "option.Unwrap", check.ErrUnwrapAbsent)
	return o.st().TakeAndSetAbsent()
}

// Expect is Unwrap with msg attached to the failure.
func (o *Of[T, S, PS]) Expect(msg string) T {
	check.Thatf(o.IsSome(), "option.Expect", check.ErrUnwrapAbsent, "%s", msg)
	return o.st().TakeAndSetAbsent()
}

// UnwrapUnchecked is Unwrap without the state check. On an Absent Option
// the result is whatever the slot holds.
func (o *Of[T, S, PS]) UnwrapUnchecked() T {
	return o.st().TakeAndSetAbsent()
}

func (o *Of[T, S, PS]) UnwrapOr(def T) T {
	if o.IsNone() {
		return def
	}
	return o.st().TakeAndSetAbsent()
}

// UnwrapOrElse calls fn only when the Option is Absent.
func (o *Of[T, S, PS]) UnwrapOrElse(fn func() T) T {
	if o.IsNone() {
		return fn()
	}
	return o.st().TakeAndSetAbsent()
}

func (o *Of[T, S, PS]) UnwrapOrDefault() T {
	var zero T
	return o.UnwrapOr(zero)
}

// UnwrapRef addresses the held value in place. Absent is a logic failure.
func (o *Of[T, S, PS]) UnwrapRef() *T {
	check.That(o.IsSome(), "option.UnwrapRef", check.ErrUnwrapAbsent)
	return o.st().Slot()
}

// Take moves the value into a new Option and leaves this one Absent. On an
// Absent Option it returns Absent and changes nothing.
func (o *Of[T, S, PS]) Take() Of[T, S, PS] {
	if o.IsNone() {
		return absent[T, S, PS]()
	}
	return present[T, S, PS](o.st().TakeAndSetAbsent())
}

// Replace stores v and returns what was held before.
func (o *Of[T, S, PS]) Replace(v T) Of[T, S, PS] {
	if o.IsNone() {
		o.st().ConstructFromAbsent(v)
		return absent[T, S, PS]()
	}
	return present[T, S, PS](o.st().ReplacePresent(v))
}

// Insert stores v, discarding any held value, and addresses it.
func (o *Of[T, S, PS]) Insert(v T) *T {
	o.st().SetPresent(v)
	return o.st().Slot()
}

// GetOrInsert stores v if the Option is Absent and addresses the held value.
func (o *Of[T, S, PS]) GetOrInsert(v T) *T {
	if o.IsNone() {
		o.st().ConstructFromAbsent(v)
	}
	return o.st().Slot()
}

// GetOrInsertWith is GetOrInsert with a lazily built value.
func (o *Of[T, S, PS]) GetOrInsertWith(fn func() T) *T {
	if o.IsNone() {
		o.st().ConstructFromAbsent(fn())
	}
	return o.st().Slot()
}

func (o *Of[T, S, PS]) GetOrInsertDefault() *T {
	var zero T
	return o.GetOrInsert(zero)
}

// Clear destroys the held value, if any.
func (o *Of[T, S, PS]) Clear() {
	if o.IsSome() {
		o.st().SetAbsent()
	}
}

// Filter keeps the value only if pred accepts it. The Option is consumed;
// a rejected value is destroyed.
func (o *Of[T, S, PS]) Filter(pred func(*T) bool) Of[T, S, PS] {
	if o.IsNone() {
		return absent[T, S, PS]()
	}
	if pred(o.st().Slot()) {
		return present[T, S, PS](o.st().TakeAndSetAbsent())
	}
	o.st().SetAbsent()
	return absent[T, S, PS]()
}

// Or returns this Option if it holds a value, otherwise other.
func (o *Of[T, S, PS]) Or(other Of[T, S, PS]) Of[T, S, PS] {
	if o.IsSome() {
		return o.Take()
	}
	return other
}

// OrElse is Or with a lazily built alternative.
func (o *Of[T, S, PS]) OrElse(fn func() Of[T, S, PS]) Of[T, S, PS] {
	if o.IsSome() {
		return o.Take()
	}
	return fn()
}

// Xor returns whichever of this Option and other holds a value when exactly
// one does, and Absent otherwise. Values that are not returned are
// destroyed.
func (o *Of[T, S, PS]) Xor(other Of[T, S, PS]) Of[T, S, PS] {
	switch {
	case o.IsSome() && other.IsNone():
		return o.Take()
	case o.IsNone() && other.IsSome():
		return other
	default:
		o.Clear()
		other.Clear()
		return absent[T, S, PS]()
	}
}
