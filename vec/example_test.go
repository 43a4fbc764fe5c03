package vec_test

import (
	"fmt"

	"github.com/rawbytedev/subspace/vec"
)

func ExampleVec_Reserve() {
	v := vec.WithCapacity[int](2)
	v.Push(1)
	v.Push(2)
	v.Push(3)
	fmt.Println(v.Len(), v.Cap())
	// Output: 3 9
}

func ExampleVec_Get() {
	v := vec.From("a", "b")
	r := v.Get(1)
	fmt.Println(*r.Unwrap())
	fmt.Println(v.Get(2))
	// Output:
	// b
	// None
}

func ExampleVec_Pop() {
	v := vec.From(1, 2)
	fmt.Println(v.Pop(), v.Pop(), v.Pop())
	// Output: Some(2) Some(1) None
}
