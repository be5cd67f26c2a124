// Package pool recycles backing buffers for go-cmdtree dynamic arrays.
// A released array hands its buffer back here instead of leaving it to the
// collector, and the next array created in any session starts from it.
package pool

import (
	"sync"
)

// Pool provides a generic, type-safe object pool with an optional reset hook.
type Pool[T any] struct {
	pool    sync.Pool
	reset   func(*T) // Optional reset function called before reuse
	maxSize int      // Maximum objects to keep (0 = unlimited)
	count   int64    // Current pool size (approximate)
	mutex   sync.RWMutex
}

// NewPool creates a new generic pool with the given factory function
func NewPool[T any](factory func() *T) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any {
				return factory()
			},
		},
	}
}

// NewPoolWithReset creates a pool with a reset function called before reuse
func NewPoolWithReset[T any](factory func() *T, reset func(*T)) *Pool[T] {
	p := NewPool(factory)
	p.reset = reset
	return p
}

// Get retrieves an object from the pool or creates a new one
func (p *Pool[T]) Get() *T {
	obj := p.pool.Get().(*T)
	if p.reset != nil {
		p.reset(obj)
	}

	p.mutex.Lock()
	if p.count > 0 {
		p.count--
	}
	p.mutex.Unlock()
	return obj
}

// Put returns an object to the pool for reuse. Objects beyond the max size
// are dropped.
func (p *Pool[T]) Put(obj *T) {
	if obj == nil {
		return
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.maxSize > 0 && p.count >= int64(p.maxSize) {
		return
	}
	p.pool.Put(obj)
	p.count++
}

// SetMaxSize sets the maximum number of objects to keep in the pool
func (p *Pool[T]) SetMaxSize(size int) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.maxSize = size
}

// Stats returns approximate pool statistics
func (p *Pool[T]) Stats() (count int64, maxSize int) {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.count, p.maxSize
}

// SlicePool pools slices of T. Slices come back with length zero and at
// least the pool's default capacity.
type SlicePool[T any] struct {
	*Pool[[]T]
	defaultCap int
	maxCap     int // Larger slices are not retained
}

// NewSlicePool creates a slice pool whose fresh slices have defaultCap capacity.
func NewSlicePool[T any](defaultCap int) *SlicePool[T] {
	if defaultCap <= 0 {
		defaultCap = 8
	}
	return &SlicePool[T]{
		Pool: NewPoolWithReset(
			func() *[]T {
				slice := make([]T, 0, defaultCap)
				return &slice
			},
			func(slice *[]T) {
				*slice = (*slice)[:0] // Reset length but keep capacity
			},
		),
		defaultCap: defaultCap,
		maxCap:     defaultCap * 64,
	}
}

// DefaultCap returns the capacity of freshly created slices.
func (sp *SlicePool[T]) DefaultCap() int { return sp.defaultCap }

// Put clears the slice contents, so pooled buffers never pin old values,
// and returns it to the pool. Oversized slices are dropped.
func (sp *SlicePool[T]) Put(slice *[]T) {
	if slice == nil || cap(*slice) == 0 || cap(*slice) > sp.maxCap {
		return
	}
	clear((*slice)[:cap(*slice)])
	*slice = (*slice)[:0]
	sp.Pool.Put(slice)
}

// Pools shared by every session. sync.Pool is safe for concurrent use, so
// sessions running on different goroutines may share them.
var (
	// Strings backs the flag and option arrays filled by the resolver.
	Strings = NewSlicePool[string](8)

	// Bytes backs log line construction in the middleware package.
	Bytes = NewSlicePool[byte](256)
)
