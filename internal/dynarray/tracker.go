package dynarray

import "errors"

// Releaser is anything the Tracker can release. *Array[T] satisfies it for
// every T.
type Releaser interface {
	Release() error
}

// Tracker registers every array created during a session so teardown is a
// single call. It holds references only, never copies of array contents.
type Tracker struct {
	items *Array[Releaser]
	seen  map[Releaser]struct{}
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		items: New[Releaser](WithCapacity[Releaser](16)),
		seen:  make(map[Releaser]struct{}),
	}
}

// Register adds r to the registry. Registering the same array twice is a
// no-op, so it is still released exactly once.
func (t *Tracker) Register(r Releaser) error {
	if r == nil {
		return nil
	}
	if _, ok := t.seen[r]; ok {
		return nil
	}
	if err := t.items.PushBack(r); err != nil {
		return err
	}
	t.seen[r] = struct{}{}
	return nil
}

// Len returns the number of registered arrays.
func (t *Tracker) Len() int { return t.items.Len() }

// ReleaseAll releases every registered array once and clears the registry.
// Errors from individual releases are joined; every array is attempted.
func (t *Tracker) ReleaseAll() error {
	var errs []error
	for i := 0; i < t.items.Len(); i++ {
		r, err := t.items.Get(i)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err = r.Release(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := t.items.Release(); err != nil {
		errs = append(errs, err)
	}
	t.items = New[Releaser](WithCapacity[Releaser](16))
	clear(t.seen)
	return errors.Join(errs...)
}
