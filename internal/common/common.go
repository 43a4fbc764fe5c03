package common

import (
	"math"
	"reflect"
	"unsafe"
)

// PtrSize is unsafe.Sizeof(uintptr(0)) as an untyped constant.
const PtrSize = 4 << (^uintptr(0) >> 63)

// MaxAllocBytes is the largest byte count a single region may span. Sizes
// are carried in int, so the addressable range is bounded by math.MaxInt.
const MaxAllocBytes = math.MaxInt

// IsFixedKind reports whether k is a fixed-size scalar kind whose values
// carry no references.
func IsFixedKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return true
	default:
		return false
	}
}

// IsPointerShaped reports whether values of kind k are a single machine
// word that the garbage collector treats as a pointer.
func IsPointerShaped(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}

// HasPointers reports whether t holds any word the garbage collector scans.
// Memory of a pointer-free type may be copied and written as raw bytes.
func HasPointers(t reflect.Type) bool {
	switch k := t.Kind(); {
	case IsFixedKind(k):
		return false
	case k == reflect.Array:
		return t.Len() > 0 && HasPointers(t.Elem())
	case k == reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if HasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		// pointers, strings, slices, maps, chans, funcs, interfaces
		return true
	}
}

// BytesFor returns n*size, and false if the product leaves the addressable
// byte range.
func BytesFor(n int, size uintptr) (int, bool) {
	if n < 0 {
		return 0, false
	}
	if size == 0 || n == 0 {
		return 0, true
	}
	if uintptr(n) > uintptr(MaxAllocBytes)/size {
		return 0, false
	}
	return n * int(size), true
}

// ByteView aliases n bytes starting at p without copying. The caller keeps
// the underlying object alive for as long as the view is used.
func ByteView(p unsafe.Pointer, n uintptr) []byte {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(p), n)
}

// FieldView aliases the bytes of the field at offset within the object at p.
func FieldView(p unsafe.Pointer, offset, size uintptr) []byte {
	return ByteView(unsafe.Add(p, offset), size)
}
