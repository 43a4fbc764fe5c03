package mem

import (
	"reflect"
	"unsafe"
)

// fieldHook is a member of an aggregate whose pointer type carries
// lifecycle hooks. Members nested in structs and arrays are flattened to
// their offset from the start of the aggregate.
type fieldHook struct {
	offset  uintptr
	typ     reflect.Type
	move    int // index of MoveFrom in the method set of *typ, or -1
	destroy bool
}

var hookPlans = newTypeCache(func(t reflect.Type) []fieldHook {
	return memberHooks(nil, t, 0)
})

// memberHooks appends the hooked members of t, found at base.
func memberHooks(plan []fieldHook, t reflect.Type, base uintptr) []fieldHook {
	switch t.Kind() {
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			plan = objectHooks(plan, f.Type, base+f.Offset)
		}
	case reflect.Array:
		elem := objectHooks(nil, t.Elem(), 0)
		if len(elem) == 0 {
			return plan
		}
		size := t.Elem().Size()
		for i := 0; i < t.Len(); i++ {
			for _, h := range elem {
				h.offset += base + uintptr(i)*size
				plan = append(plan, h)
			}
		}
	}
	return plan
}

// objectHooks appends the object of type t at offset if it has hooks of
// its own, otherwise its hooked members.
func objectHooks(plan []fieldHook, t reflect.Type, offset uintptr) []fieldHook {
	if !hasHooks(t) {
		return memberHooks(plan, t, offset)
	}
	pt := reflect.PointerTo(t)
	h := fieldHook{offset: offset, typ: t, move: -1, destroy: pt.Implements(destroyerType)}
	if hasMoveFrom(pt, t) {
		m, _ := pt.MethodByName("MoveFrom")
		h.move = m.Index
	}
	return append(plan, h)
}

func hooksOf[T any]() []fieldHook {
	return hookPlans.get(reflect.TypeFor[T]())
}

// moveMembers finishes a member-wise move after the aggregate bytes were
// copied from src to dst. Hooked members are move-constructed into their
// zeroed slots; members with only a Destroy hook are reset in src so the
// value is not released twice.
func moveMembers(dst, src unsafe.Pointer, plan []fieldHook) {
	for _, h := range plan {
		s := reflect.NewAt(h.typ, unsafe.Add(src, h.offset))
		if h.move < 0 {
			s.Elem().SetZero()
			continue
		}
		d := reflect.NewAt(h.typ, unsafe.Add(dst, h.offset))
		d.Elem().SetZero()
		d.Method(h.move).Call([]reflect.Value{s})
	}
}

// destroyMembers runs member Destroy hooks, last member first.
func destroyMembers(p unsafe.Pointer, plan []fieldHook) {
	for i := len(plan) - 1; i >= 0; i-- {
		h := plan[i]
		if !h.destroy {
			continue
		}
		reflect.NewAt(h.typ, unsafe.Add(p, h.offset)).Interface().(Destroyer).Destroy()
	}
}
