package mem

import (
	"bytes"
	"reflect"
	"strings"
	"unsafe"

	"go.uber.org/zap"

	"github.com/rawbytedev/subspace/check"
	"github.com/rawbytedev/subspace/internal/common"
)

// Overlay nominates the field of a type whose bytes hold a pattern that no
// constructed value ever has.
type Overlay struct {
	// Field is the field name, or a dotted path into nested structs.
	Field string
	// Never is the never-value, convertible to the field's type. nil means
	// the field's zero value. Fields that hold pointers only accept the
	// zero value.
	Never any
}

// NeverValueField is implemented by T (value receiver) to nominate its
// never-value field.
type NeverValueField interface {
	NeverValueOverlay() Overlay
}

var neverValueFieldType = reflect.TypeFor[NeverValueField]()

type neverValue struct {
	ok      bool
	offset  uintptr
	size    uintptr
	pattern []byte
	// ptrs is set when the field holds pointers; the field is then
	// cleared with a typed store instead of a byte copy.
	ptrs  bool
	field reflect.Type
}

var neverValues = newTypeCache(resolveNeverValue)

// HasNeverValue reports whether T has a never-value field.
func HasNeverValue[T any]() bool {
	return neverValues.get(reflect.TypeFor[T]()).ok
}

// SetNeverValue writes the never-value pattern into the nominated field of
// *p, leaving every other byte untouched. No T may be constructed at p.
func SetNeverValue[T any](p *T) {
	nv := mustNeverValue[T]("mem.SetNeverValue")
	base := unsafe.Pointer(p)
	if nv.ptrs {
		reflect.NewAt(nv.field, unsafe.Add(base, nv.offset)).Elem().SetZero()
		return
	}
	copy(common.FieldView(base, nv.offset, nv.size), nv.pattern)
}

// IsNeverValue reports whether the nominated field of *p holds the
// never-value pattern. Only the field's bytes are read.
func IsNeverValue[T any](p *T) bool {
	nv := mustNeverValue[T]("mem.IsNeverValue")
	return bytes.Equal(common.FieldView(unsafe.Pointer(p), nv.offset, nv.size), nv.pattern)
}

func mustNeverValue[T any](op string) neverValue {
	t := reflect.TypeFor[T]()
	nv := neverValues.get(t)
	check.Thatf(nv.ok, op, check.ErrNoNeverValue, "%v", t)
	return nv
}

func resolveNeverValue(t reflect.Type) neverValue {
	if common.IsPointerShaped(t.Kind()) {
		return neverValue{
			ok:      true,
			size:    common.PtrSize,
			pattern: make([]byte, common.PtrSize),
			ptrs:    true,
			field:   t,
		}
	}
	if t.Kind() == reflect.Interface || !t.Implements(neverValueFieldType) {
		return neverValue{}
	}
	o := reflect.New(t).Elem().Interface().(NeverValueField).NeverValueOverlay()

	cur, offset := t, uintptr(0)
	for _, name := range strings.Split(o.Field, ".") {
		if cur.Kind() != reflect.Struct {
			overlayFail(t, o, "%v is not a struct", cur)
		}
		sf, ok := cur.FieldByName(name)
		if !ok {
			overlayFail(t, o, "no field %q in %v", name, cur)
		}
		// walk promoted fields one embedding at a time
		for k, i := range sf.Index {
			f := cur.Field(i)
			if k < len(sf.Index)-1 && f.Type.Kind() == reflect.Pointer {
				overlayFail(t, o, "field %q is promoted through pointer %v", name, f.Type)
			}
			offset += f.Offset
			cur = f.Type
		}
	}

	size := cur.Size()
	if size == 0 {
		overlayFail(t, o, "field has no bytes")
	}
	nv := neverValue{
		ok:     true,
		offset: offset,
		size:   size,
		ptrs:   common.HasPointers(cur),
		field:  cur,
	}
	tmp := reflect.New(cur)
	if o.Never != nil {
		v := reflect.ValueOf(o.Never)
		if !v.Type().ConvertibleTo(cur) {
			overlayFail(t, o, "%v does not convert to %v", v.Type(), cur)
		}
		tmp.Elem().Set(v.Convert(cur))
	}
	nv.pattern = bytes.Clone(common.ByteView(tmp.UnsafePointer(), size))
	if nv.ptrs && !isZero(nv.pattern) {
		overlayFail(t, o, "pointer-bearing field %v needs the zero pattern", cur)
	}
	return nv
}

func overlayFail(t reflect.Type, o Overlay, format string, args ...any) {
	common.Logger().Warn("rejected never-value overlay",
		zap.Stringer("type", t),
		zap.String("field", o.Field),
	)
	check.Fail("mem.NeverValueOverlay", check.ErrBadOverlay, "%v.%s: "+format, append([]any{t, o.Field}, args...)...)
}

func isZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
