package main

import (
	"fmt"

	"github.com/rawbytedev/subspace/check"
	"github.com/rawbytedev/subspace/mem"
	"github.com/rawbytedev/subspace/option"
	"github.com/rawbytedev/subspace/vec"
)

// record owns a buffer, so a Vec of records relocates value by value.
type record struct {
	id   int
	data []byte
}

func (r *record) MoveFrom(src *record) {
	r.id, r.data = src.id, src.data
	src.data = nil
}

func (r *record) Destroy() { r.data = nil }

type vecWorkload struct {
	Element string `yaml:"element"`
	Pushes  int    `yaml:"pushes"`
	Reserve int    `yaml:"reserve"`
}

func (w vecWorkload) Name() string {
	return fmt.Sprintf("vec/%s/%d", w.Element, w.Pushes)
}

func (w vecWorkload) Run() (err error) {
	defer check.Recover(&err)

	if w.Element == "owned" {
		return pushPop(w, func(i int) record { return record{id: i, data: make([]byte, 16)} })
	}
	return pushPop(w, func(i int) int64 { return int64(i) })
}

func pushPop[T any](w vecWorkload, mk func(int) T) error {
	v := vec.WithCapacity[T](w.Reserve)
	defer v.Drop()

	for i := 0; i < w.Pushes; i++ {
		v.Push(mk(i))
	}
	popped := 0
	for {
		o := v.Pop()
		if o.IsNone() {
			break
		}
		x := o.Unwrap()
		mem.Destroy(&x)
		popped++
	}
	if popped != w.Pushes {
		return fmt.Errorf("%s: popped %d of %d", w.Name(), popped, w.Pushes)
	}
	return nil
}

type optionWorkload struct {
	Storage string `yaml:"storage"`
	Count   int    `yaml:"count"`
}

func (w optionWorkload) Name() string {
	return fmt.Sprintf("option/%s/%d", w.Storage, w.Count)
}

func (w optionWorkload) Run() (err error) {
	defer check.Recover(&err)

	xs := make([]int, w.Count)
	var present int
	if w.Storage == "compact" {
		present = countPresent(w.Count, func(i int) option.Compact[mem.NonNull[int]] {
			if i%2 == 1 {
				return option.NoneCompact[mem.NonNull[int]]()
			}
			return option.SomeCompact(mem.NewNonNull(&xs[i]))
		})
	} else {
		present = countPresent(w.Count, func(i int) option.Option[*int] {
			if i%2 == 1 {
				return option.None[*int]()
			}
			return option.Some(&xs[i])
		})
	}
	if want := (w.Count + 1) / 2; present != want {
		return fmt.Errorf("%s: %d present, want %d", w.Name(), present, want)
	}
	return nil
}

func countPresent[O interface{ IsSome() bool }](n int, mk func(int) O) int {
	v := vec.WithCapacity[O](n)
	defer v.Drop()

	for i := 0; i < n; i++ {
		v.Push(mk(i))
	}
	present := 0
	for o := range v.Values() {
		if o.IsSome() {
			present++
		}
	}
	return present
}
