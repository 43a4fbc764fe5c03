package mem

import "github.com/rawbytedev/subspace/check"

// NonNull is a pointer that is never nil once constructed. Its nil state is
// free to mark absence, so an optional NonNull is one word.
type NonNull[E any] struct {
	ptr *E
}

// NewNonNull wraps p. A nil p is a logic failure.
func NewNonNull[E any](p *E) NonNull[E] {
	check.That(p != nil, "mem.NewNonNull", check.ErrNullPointer)
	return NonNull[E]{ptr: p}
}

// Get returns the wrapped pointer.
func (n NonNull[E]) Get() *E { return n.ptr }

func (NonNull[E]) NeverValueOverlay() Overlay { return Overlay{Field: "ptr"} }
