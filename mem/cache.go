package mem

import (
	"reflect"
	"sync"
)

// typeCache memoises a per-type fact. Facts are derived from the type
// alone, so a racing double build computes the same value.
type typeCache[V any] struct {
	mu    sync.RWMutex
	plans map[reflect.Type]V
	build func(reflect.Type) V
}

func newTypeCache[V any](build func(reflect.Type) V) *typeCache[V] {
	return &typeCache[V]{plans: make(map[reflect.Type]V), build: build}
}

func (c *typeCache[V]) get(t reflect.Type) V {
	c.mu.RLock()
	if v, ok := c.plans[t]; ok {
		c.mu.RUnlock()
		return v
	}
	c.mu.RUnlock()

	// build outside the lock: it may fail with a panic, and it may
	// recurse into other cached facts
	v := c.build(t)

	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.plans[t]; ok {
		return prev
	}
	c.plans[t] = v
	return v
}
