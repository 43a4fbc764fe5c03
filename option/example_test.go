package option_test

import (
	"fmt"
	"unsafe"

	"github.com/rawbytedev/subspace/mem"
	"github.com/rawbytedev/subspace/option"
)

func ExampleCompact() {
	x := 7
	o := option.SomeCompact(mem.NewNonNull(&x))
	fmt.Println(unsafe.Sizeof(o) == unsafe.Sizeof(&x))
	fmt.Println(*o.Unwrap().Get())

	var none option.Compact[mem.NonNull[int]]
	fmt.Println(none.IsNone())
	// Output:
	// true
	// 7
	// true
}

func ExampleMap() {
	o := option.Some(20)
	fmt.Println(option.Map(&o, func(n int) string { return fmt.Sprint(n + 1) }))
	fmt.Println(o)
	// Output:
	// Some(21)
	// None
}
