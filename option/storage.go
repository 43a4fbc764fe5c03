package option

import (
	"github.com/rawbytedev/subspace/check"
	"github.com/rawbytedev/subspace/mem"
)

// State is whether an Option holds a value.
type State uint8

const (
	Absent State = iota
	Present
)

func (s State) String() string {
	if s == Present {
		return "Present"
	}
	return "Absent"
}

// Storage is the contract both Option representations satisfy.
// Preconditions are not checked here; Of checks them on its checked entry
// points.
type Storage[T any] interface {
	// State reports whether a value is held. It has no side effects.
	State() State
	// ConstructFromAbsent stores v. Requires Absent.
	ConstructFromAbsent(v T)
	// SetPresent stores v, replacing a held value in place.
	SetPresent(v T)
	// TakeAndSetAbsent moves the held value out. Requires Present.
	TakeAndSetAbsent() T
	// SetAbsent destroys the held value. Requires Present.
	SetAbsent()
	// ReplacePresent stores v and returns the previous value. Requires
	// Present.
	ReplacePresent(v T) T
	// Slot addresses the payload. Its content is only a T while Present.
	Slot() *T
}

// Flagged keeps an explicit discriminant next to the payload. It works for
// every T.
type Flagged[T any] struct {
	val   T
	state State
}

func (s *Flagged[T]) State() State { return s.state }

func (s *Flagged[T]) ConstructFromAbsent(v T) {
	s.val = v
	s.state = Present
}

func (s *Flagged[T]) SetPresent(v T) {
	if s.state == Absent {
		s.ConstructFromAbsent(v)
		return
	}
	mem.ReplaceAndDiscard(&s.val, v)
}

func (s *Flagged[T]) TakeAndSetAbsent() T {
	s.state = Absent
	return mem.TakeAndDestruct(&s.val)
}

func (s *Flagged[T]) SetAbsent() {
	s.state = Absent
	mem.Destroy(&s.val)
}

func (s *Flagged[T]) ReplacePresent(v T) T { return mem.Replace(&s.val, v) }

func (s *Flagged[T]) Slot() *T { return &s.val }

// Sentinel has no discriminant. While Absent the never-value pattern of T
// sits in the payload's nominated field, and State reads only that field.
// T must have a never-value (see mem.NeverValueField).
type Sentinel[T any] struct {
	val T
}

func (s *Sentinel[T]) State() State {
	if mem.IsNeverValue(&s.val) {
		return Absent
	}
	return Present
}

func (s *Sentinel[T]) ConstructFromAbsent(v T) {
	checkNotNever(&v)
	s.val = v
}

func (s *Sentinel[T]) SetPresent(v T) {
	if s.State() == Absent {
		s.ConstructFromAbsent(v)
		return
	}
	checkNotNever(&v)
	mem.ReplaceAndDiscard(&s.val, v)
}

func (s *Sentinel[T]) TakeAndSetAbsent() T {
	v := mem.TakeAndDestruct(&s.val)
	mem.SetNeverValue(&s.val)
	return v
}

func (s *Sentinel[T]) SetAbsent() {
	mem.Destroy(&s.val)
	mem.SetNeverValue(&s.val)
}

func (s *Sentinel[T]) ReplacePresent(v T) T {
	checkNotNever(&v)
	return mem.Replace(&s.val, v)
}

func (s *Sentinel[T]) Slot() *T { return &s.val }

// checkNotNever rejects a value that would read back as Absent, such as a
// nil pointer.
func checkNotNever[T any](v *T) {
	check.That(!mem.IsNeverValue(v), "option.Sentinel", check.ErrNeverValuePattern)
}
