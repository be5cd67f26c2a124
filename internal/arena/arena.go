// Package arena provides the bump allocator that owns every command-tree
// node of a session. Storage is reserved once, at creation, for a fixed byte
// capacity; allocations advance a cursor and are never freed individually.
// The whole arena is released at once, after which every Handle it produced
// is invalid.
package arena

import (
	"errors"
	"unsafe"
)

// MaxCapacity bounds the byte capacity an arena may reserve (1 GiB).
const MaxCapacity = 1 << 30

var (
	// ErrInvalidCapacity is returned by New when the capacity cannot be reserved.
	ErrInvalidCapacity = errors.New("arena: invalid capacity")

	// ErrOutOfCapacity is returned by Alloc when the remaining capacity is
	// smaller than one slot.
	ErrOutOfCapacity = errors.New("arena: out of capacity")

	// ErrInvalidHandle is returned by Get for a handle this arena never produced.
	ErrInvalidHandle = errors.New("arena: invalid handle")
)

// Handle is an opaque, non-owning reference to a slot in an Arena.
// The zero Handle refers to nothing.
type Handle uint32

// Valid reports whether h can refer to a slot at all.
func (h Handle) Valid() bool { return h != 0 }

// Arena is a fixed-capacity bump allocator of T slots. Not goroutine-safe;
// each session owns its own arena.
type Arena[T any] struct {
	slots    []T // len is the cursor, cap never changes
	slotSize int
	capacity int
	released bool
}

// New reserves an arena of capacity bytes. The number of slots is
// capacity divided by the size of T.
func New[T any](capacity int) (*Arena[T], error) {
	if capacity <= 0 || capacity > MaxCapacity {
		return nil, ErrInvalidCapacity
	}
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		size = 1
	}
	return &Arena[T]{
		slots:    make([]T, 0, capacity/size),
		slotSize: size,
		capacity: capacity,
	}, nil
}

// Alloc carves one zeroed slot from the remaining capacity and returns its
// handle together with a pointer that stays valid until Release.
func (a *Arena[T]) Alloc() (Handle, *T, error) {
	a.panicIfReleased()
	if len(a.slots) == cap(a.slots) {
		return 0, nil, ErrOutOfCapacity
	}
	var zero T
	a.slots = append(a.slots, zero)
	idx := len(a.slots) - 1
	return Handle(idx + 1), &a.slots[idx], nil
}

// Get returns the slot referenced by h.
func (a *Arena[T]) Get(h Handle) (*T, error) {
	a.panicIfReleased()
	if !h.Valid() || int(h) > len(a.slots) {
		return nil, ErrInvalidHandle
	}
	return &a.slots[h-1], nil
}

// Release drops the backing storage. Every handle and pointer derived from
// the arena becomes invalid; any further call panics, including a second
// Release.
func (a *Arena[T]) Release() {
	a.panicIfReleased()
	clear(a.slots)
	a.slots = nil
	a.released = true
}

// Released reports whether Release has been called.
func (a *Arena[T]) Released() bool { return a.released }

func (a *Arena[T]) panicIfReleased() {
	if a.released {
		panic("arena: use after Release()")
	}
}
