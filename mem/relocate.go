// Package mem holds the per-type memory facts the containers dispatch on:
// how a value relocates, which bytes of it can never occur in a constructed
// value, and the lifecycle hooks that move and destroy values in place. It
// also provides the single global allocation surface.
package mem

import (
	"reflect"

	"github.com/rawbytedev/subspace/internal/common"
)

// Relocation classifies how a value moves to a new address.
type Relocation uint8

const (
	// MustMoveAndDestroy values are move-constructed into the new slot and
	// destroyed in the old one, one at a time.
	MustMoveAndDestroy Relocation = iota
	// Bytewise values are relocated by copying their bytes. No move or
	// destroy hook runs.
	Bytewise
)

func (r Relocation) String() string {
	switch r {
	case Bytewise:
		return "bytewise"
	case MustMoveAndDestroy:
		return "move-and-destroy"
	default:
		return "unknown"
	}
}

// Mover is implemented by *T for types that need a hook to move-construct.
// MoveFrom initialises the receiver, a zeroed slot, from src. src is
// destroyed afterwards.
type Mover[T any] interface {
	MoveFrom(src *T)
}

// Destroyer is implemented by *T for types that release something when
// they go away.
type Destroyer interface {
	Destroy()
}

// TrivialRelocatable lets a type override its inferred classification.
// Returning true asserts the type survives a raw byte copy even though it
// has hooks (an owning handle with no self-reference). Returning false
// forces MustMoveAndDestroy on a type that would otherwise be trivial.
//
// A wrong true is undefined behaviour; nothing checks it.
type TrivialRelocatable interface {
	TrivialRelocate() bool
}

var (
	trivialRelocatableType = reflect.TypeFor[TrivialRelocatable]()
	destroyerType          = reflect.TypeFor[Destroyer]()
)

var relocations = newTypeCache(classify)

// RelocationOf returns the relocation class of T. The answer is computed
// once per type.
func RelocationOf[T any]() Relocation {
	return relocations.get(reflect.TypeFor[T]())
}

// IsBytewise reports whether T relocates by byte copy.
func IsBytewise[T any]() bool {
	return RelocationOf[T]() == Bytewise
}

// ClassifyType is RelocationOf for a type only known at run time.
func ClassifyType(t reflect.Type) Relocation {
	return relocations.get(t)
}

func classify(t reflect.Type) Relocation {
	if v, ok := explicitRelocation(t); ok {
		if v {
			return Bytewise
		}
		return MustMoveAndDestroy
	}
	if hasHooks(t) {
		return MustMoveAndDestroy
	}
	switch k := t.Kind(); {
	case common.IsFixedKind(k):
		return Bytewise
	case k == reflect.Pointer, k == reflect.UnsafePointer, k == reflect.String,
		k == reflect.Slice, k == reflect.Map, k == reflect.Chan, k == reflect.Func:
		return Bytewise
	case k == reflect.Array:
		if t.Len() == 0 {
			return Bytewise
		}
		return classify(t.Elem())
	case k == reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if classify(t.Field(i).Type) != Bytewise {
				return MustMoveAndDestroy
			}
		}
		return Bytewise
	default:
		// Interfaces hide which type is stored, so nothing is known about
		// its hooks.
		return MustMoveAndDestroy
	}
}

// explicitRelocation calls TrivialRelocate on a zero T when T declares it.
func explicitRelocation(t reflect.Type) (bool, bool) {
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer:
		// a pointer relocates as an address whatever its element asserts
		return false, false
	}
	if !t.Implements(trivialRelocatableType) {
		return false, false
	}
	v := reflect.New(t).Elem().Interface().(TrivialRelocatable)
	return v.TrivialRelocate(), true
}

func hasHooks(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer:
		return false
	}
	pt := reflect.PointerTo(t)
	return pt.Implements(destroyerType) || hasMoveFrom(pt, t)
}

// hasMoveFrom reports whether pt has MoveFrom(*t). Mover is generic, so the
// method is matched by signature.
func hasMoveFrom(pt, t reflect.Type) bool {
	m, ok := pt.MethodByName("MoveFrom")
	if !ok {
		return false
	}
	mt := m.Type // receiver first
	return mt.NumIn() == 2 && mt.NumOut() == 0 && mt.In(1) == pt
}
