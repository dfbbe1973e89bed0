package main

// Pool is a fixed-capacity free-list allocator for short-lived entities.
// Spawning logic treats exhaustion as scarcity, not an error: Acquire
// reports ok=false and the caller skips the spawn.
type Pool[T any] struct {
	free []*T
}

// NewPool pre-allocates capacity instances using the factory.
func NewPool[T any](factory func() *T, capacity int) *Pool[T] {
	p := &Pool[T]{free: make([]*T, 0, capacity)}
	for i := 0; i < capacity; i++ {
		p.free = append(p.free, factory())
	}
	return p
}

// Acquire removes and returns one pooled instance. ok is false when the
// pool is exhausted.
func (p *Pool[T]) Acquire() (*T, bool) {
	if len(p.free) == 0 {
		return nil, false
	}
	obj := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	return obj, true
}

// Release returns an instance to the free list. The caller must not keep
// using the reference afterward.
func (p *Pool[T]) Release(obj *T) {
	p.free = append(p.free, obj)
}

// Free returns the number of instances currently available.
func (p *Pool[T]) Free() int {
	return len(p.free)
}
