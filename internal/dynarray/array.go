// Package dynarray provides the growable arrays used by the command tree
// (group children, captured flags and options) and the Tracker that releases
// every array of a session in one place.
//
// Arrays own their backing storage independently of the node arena: storage
// grows by reallocation and must be released explicitly, exactly once.
package dynarray

import (
	"errors"

	"github.com/dzonerzy/go-cmdtree/internal/pool"
)

// MaxLen is the hard upper bound on the number of elements of any array.
const MaxLen = 1 << 24

var (
	// ErrAllocationFailure is returned when an array cannot grow.
	ErrAllocationFailure = errors.New("dynarray: allocation failure")

	// ErrIndexOutOfBounds is returned by Get for an index >= Len.
	ErrIndexOutOfBounds = errors.New("dynarray: index out of bounds")

	// ErrReleased is returned by any operation on a released array.
	ErrReleased = errors.New("dynarray: array released")
)

// Array is a growable, by-value element buffer. Elements keep insertion
// order; growth never reorders them. Not goroutine-safe.
type Array[T any] struct {
	buf      *[]T
	limit    int
	initCap  int
	pool     *pool.SlicePool[T]
	released bool
}

// Option configures an Array at creation.
type Option[T any] func(*Array[T])

// WithLimit caps the number of elements; pushing past it fails with
// ErrAllocationFailure.
func WithLimit[T any](n int) Option[T] {
	return func(a *Array[T]) {
		if n > 0 && n < MaxLen {
			a.limit = n
		}
	}
}

// WithCapacity sets the capacity reserved by the first push.
func WithCapacity[T any](n int) Option[T] {
	return func(a *Array[T]) {
		if n > 0 {
			a.initCap = n
		}
	}
}

// WithPool draws backing storage from p and returns it there on Release.
func WithPool[T any](p *pool.SlicePool[T]) Option[T] {
	return func(a *Array[T]) {
		a.pool = p
	}
}

// New creates an empty array. No storage is reserved until the first push.
func New[T any](opts ...Option[T]) *Array[T] {
	a := &Array[T]{limit: MaxLen, initCap: 4}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// PushBack appends v, doubling the backing storage when it is full.
func (a *Array[T]) PushBack(v T) error {
	if a.released {
		return ErrReleased
	}
	if a.buf == nil {
		a.buf = a.acquire()
	}
	s := *a.buf
	if len(s) >= a.limit {
		return ErrAllocationFailure
	}
	if len(s) == cap(s) {
		grown, err := a.grow(s)
		if err != nil {
			return err
		}
		s = grown
	}
	*a.buf = append(s, v)
	return nil
}

// Get returns the element at index i.
func (a *Array[T]) Get(i int) (T, error) {
	var zero T
	if a.released {
		return zero, ErrReleased
	}
	if i < 0 || i >= a.Len() {
		return zero, ErrIndexOutOfBounds
	}
	return (*a.buf)[i], nil
}

// Len returns the current element count.
func (a *Array[T]) Len() int {
	if a.buf == nil {
		return 0
	}
	return len(*a.buf)
}

// Cap returns the current capacity of the backing storage.
func (a *Array[T]) Cap() int {
	if a.buf == nil {
		return 0
	}
	return cap(*a.buf)
}

// Slice returns a copy of the elements in insertion order. The copy stays
// valid after Release.
func (a *Array[T]) Slice() []T {
	out := make([]T, a.Len())
	if a.buf != nil {
		copy(out, *a.buf)
	}
	return out
}

// Released reports whether Release has been called.
func (a *Array[T]) Released() bool { return a.released }

// Release frees the backing storage. The array must not be used afterwards;
// a second Release returns ErrReleased.
func (a *Array[T]) Release() error {
	if a.released {
		return ErrReleased
	}
	a.released = true
	if a.buf != nil && a.pool != nil {
		a.pool.Put(a.buf)
	}
	a.buf = nil
	return nil
}

func (a *Array[T]) acquire() *[]T {
	if a.pool != nil {
		return a.pool.Get()
	}
	s := make([]T, 0, min(a.initCap, a.limit))
	return &s
}

// grow reallocates s with doubled capacity, bounded by the limit. The old
// buffer goes back to the pool.
func (a *Array[T]) grow(s []T) ([]T, error) {
	newCap := max(2*cap(s), a.initCap)
	newCap = min(newCap, a.limit)
	if newCap <= len(s) {
		return nil, ErrAllocationFailure
	}
	grown := make([]T, len(s), newCap)
	copy(grown, s)
	if a.pool != nil {
		old := s
		a.pool.Put(&old)
	}
	return grown, nil
}
