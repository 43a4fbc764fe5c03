package mem

import (
	"reflect"
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/subspace/check"
)

type plain struct {
	A int32
	B float64
	S string
	P *int
}

// counted has hooks, so it must be moved and destroyed one at a time.
type counted struct {
	id    int
	moves *int
	drops *int
}

func (c *counted) MoveFrom(src *counted) {
	*c = *src
	if c.moves != nil {
		*c.moves++
	}
	src.id = -1
}

func (c *counted) Destroy() {
	if c.drops != nil {
		*c.drops++
	}
}

// handle has hooks but asserts a byte copy is a valid move.
type handle struct {
	counted
}

func (handle) TrivialRelocate() bool { return true }

// pinned is trivial but opts out.
type pinned struct{ X int }

func (pinned) TrivialRelocate() bool { return false }

type holdsCounted struct {
	N int
	C counted
}

type holdsHandle struct {
	N int
	H [2]handle
}

type holdsIface struct {
	V any
}

func TestRelocationClassification(t *testing.T) {
	tests := []struct {
		name string
		got  Relocation
		want Relocation
	}{
		{"int", RelocationOf[int](), Bytewise},
		{"string", RelocationOf[string](), Bytewise},
		{"pointer", RelocationOf[*counted](), Bytewise},
		{"slice", RelocationOf[[]counted](), Bytewise},
		{"plain struct", RelocationOf[plain](), Bytewise},
		{"empty array", RelocationOf[[0]counted](), Bytewise},
		{"hooks", RelocationOf[counted](), MustMoveAndDestroy},
		{"asserted", RelocationOf[handle](), Bytewise},
		{"opt-out", RelocationOf[pinned](), MustMoveAndDestroy},
		{"field with hooks", RelocationOf[holdsCounted](), MustMoveAndDestroy},
		{"array of asserted", RelocationOf[holdsHandle](), Bytewise},
		{"array of opt-out", RelocationOf[[3]pinned](), MustMoveAndDestroy},
		{"interface field", RelocationOf[holdsIface](), MustMoveAndDestroy},
		{"interface", RelocationOf[any](), MustMoveAndDestroy},
		{"nonnull", RelocationOf[NonNull[int]](), Bytewise},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
	require.True(t, IsBytewise[plain]())
	require.Equal(t, MustMoveAndDestroy, ClassifyType(reflect.TypeFor[counted]()))
	require.Equal(t, "bytewise", Bytewise.String())
	require.Equal(t, "move-and-destroy", MustMoveAndDestroy.String())
}

func TestClassificationConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, MustMoveAndDestroy, RelocationOf[holdsCounted]())
		}()
	}
	wg.Wait()
}

func TestRelocateRunsHooks(t *testing.T) {
	var moves, drops int
	src := counted{id: 7, moves: &moves, drops: &drops}
	var dst counted
	Relocate(&dst, &src)
	require.Equal(t, 7, dst.id)
	require.Equal(t, 1, moves)
	require.Equal(t, 1, drops)
	require.Equal(t, counted{}, src)
}

type nested struct {
	Tag  string
	Pair [2]holdsCounted
	Ref  *counted
}

func TestMemberHooks(t *testing.T) {
	var moves, drops int
	src := holdsCounted{N: 3, C: counted{id: 7, moves: &moves, drops: &drops}}
	var dst holdsCounted
	Relocate(&dst, &src)
	require.Equal(t, 3, dst.N)
	require.Equal(t, 7, dst.C.id)
	require.Equal(t, 1, moves)
	require.Equal(t, 1, drops)
	require.Equal(t, holdsCounted{}, src)

	moves, drops = 0, 0
	other := counted{id: 9, moves: &moves, drops: &drops}
	n := nested{Tag: "n", Ref: &other}
	for i := range n.Pair {
		n.Pair[i] = holdsCounted{N: i, C: counted{id: i, moves: &moves, drops: &drops}}
	}
	out := TakeAndDestruct(&n)
	require.Equal(t, 2, moves)
	require.Equal(t, 2, drops)
	require.Equal(t, 1, out.Pair[1].C.id)
	require.Same(t, &other, out.Ref)
	Destroy(&out)
	require.Equal(t, 4, drops)
}

func TestMemberWithoutMoveHook(t *testing.T) {
	var drops int
	src := holdsHandle{N: 1}
	for i := range src.H {
		src.H[i] = handle{counted{id: i + 1, drops: &drops}}
	}
	var dst holdsHandle
	Relocate(&dst, &src)
	require.Zero(t, drops)
	require.Equal(t, 2, dst.H[1].id)
	Destroy(&dst)
	require.Equal(t, 2, drops)
}

func TestMoveWithoutHookZeroesSource(t *testing.T) {
	x := 5
	src := plain{A: 1, S: "s", P: &x}
	var dst plain
	Move(&dst, &src)
	require.Equal(t, plain{A: 1, S: "s", P: &x}, dst)
	require.Equal(t, plain{}, src)
}

func TestReplaceAndTake(t *testing.T) {
	v := 3
	require.Equal(t, 3, Replace(&v, 4))
	require.Equal(t, 4, v)
	require.Equal(t, 4, Take(&v))
	require.Equal(t, 0, v)

	var drops int
	c := counted{id: 1, drops: &drops}
	ReplaceAndDiscard(&c, counted{id: 2, drops: &drops})
	require.Equal(t, 2, c.id)
	require.Equal(t, 1, drops)

	out := TakeAndDestruct(&c)
	require.Equal(t, 2, out.id)
	require.Equal(t, counted{}, c)
}

type link struct {
	val  int
	next *link
}

func (link) NeverValueOverlay() Overlay { return Overlay{Field: "next"} }

type inner struct {
	pad  [3]byte
	kind int16
}

type tagged struct {
	name string
	in   inner
}

func (tagged) NeverValueOverlay() Overlay { return Overlay{Field: "in.kind", Never: -1} }

type badPattern struct{ s string }

func (badPattern) NeverValueOverlay() Overlay { return Overlay{Field: "s", Never: "x"} }

type badConversion struct{ p *int }

func (badConversion) NeverValueOverlay() Overlay { return Overlay{Field: "p", Never: 1.5} }

type missingField struct{ x int }

func (missingField) NeverValueOverlay() Overlay { return Overlay{Field: "y"} }

func TestNeverValue(t *testing.T) {
	require.True(t, HasNeverValue[*int]())
	require.True(t, HasNeverValue[unsafe.Pointer]())
	require.True(t, HasNeverValue[NonNull[int]]())
	require.True(t, HasNeverValue[link]())
	require.False(t, HasNeverValue[int]())
	require.False(t, HasNeverValue[plain]())

	var p *int
	require.True(t, IsNeverValue(&p))
	x := 1
	p = &x
	require.False(t, IsNeverValue(&p))
	SetNeverValue(&p)
	require.Nil(t, p)

	v := tagged{name: "keep", in: inner{pad: [3]byte{1, 2, 3}, kind: 4}}
	require.False(t, IsNeverValue(&v))
	SetNeverValue(&v)
	require.True(t, IsNeverValue(&v))
	require.Equal(t, int16(-1), v.in.kind)
	// only the nominated field is written
	require.Equal(t, "keep", v.name)
	require.Equal(t, [3]byte{1, 2, 3}, v.in.pad)
}

func TestNeverValueRejectsBadOverlays(t *testing.T) {
	assertLogic(t, check.ErrBadOverlay, func() { HasNeverValue[badPattern]() })
	assertLogic(t, check.ErrBadOverlay, func() { HasNeverValue[badConversion]() })
	assertLogic(t, check.ErrBadOverlay, func() { HasNeverValue[missingField]() })
	assertLogic(t, check.ErrNoNeverValue, func() {
		var i int
		IsNeverValue(&i)
	})
}

func TestNonNull(t *testing.T) {
	x := 9
	n := NewNonNull(&x)
	require.Same(t, &x, n.Get())
	require.False(t, IsNeverValue(&n))
	require.Equal(t, unsafe.Sizeof(&x), unsafe.Sizeof(n))
	assertLogic(t, check.ErrNullPointer, func() { NewNonNull[int](nil) })
}

func TestAllocateResizeFree(t *testing.T) {
	ResetStats()
	require.Nil(t, Allocate[int64](0))

	p := Allocate[int64](4)
	require.NotNil(t, p)
	s := unsafe.Slice(p, 4)
	for i := range s {
		s[i] = int64(i + 1)
	}
	q := Resize(p, 3, 4, 10)
	require.Equal(t, []int64{1, 2, 3, 0}, unsafe.Slice(q, 10)[:4])

	x, y := 1, 2
	ptrs := Allocate[*int](2)
	unsafe.Slice(ptrs, 2)[0], unsafe.Slice(ptrs, 2)[1] = &x, &y
	moved := Resize(ptrs, 2, 2, 3)
	require.Same(t, &y, unsafe.Slice(moved, 3)[1])

	Free(q, 10)
	Free(moved, 3)
	st := Stats()
	require.Equal(t, uint64(4), st.Allocs)
	require.Equal(t, uint64(2), st.Resizes)
	require.Equal(t, uint64(4), st.Frees)
	require.Equal(t, int64(0), st.LiveBytes)
}

func TestAllocateOverflow(t *testing.T) {
	assertLogic(t, check.ErrCapacityOverflow, func() { Allocate[[1 << 20]byte](1 << 50) })
	assertLogic(t, check.ErrCapacityOverflow, func() { Allocate[int](-1) })
	require.NotPanics(t, func() { CheckCapacity[struct{}]("test", 1<<62) })
}

func assertLogic(t *testing.T, want error, fn func()) {
	t.Helper()
	var err error
	func() {
		defer check.Recover(&err)
		fn()
	}()
	require.ErrorIs(t, err, want)
}
