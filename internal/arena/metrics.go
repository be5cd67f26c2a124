package arena

// Len returns the number of slots allocated so far.
func (a *Arena[T]) Len() int {
	if a.released {
		return 0
	}
	return len(a.slots)
}

// SizeInUse returns the number of bytes consumed by allocated slots.
func (a *Arena[T]) SizeInUse() int {
	return a.Len() * a.slotSize
}

// Capacity returns the byte capacity reserved at creation, or 0 once released.
func (a *Arena[T]) Capacity() int {
	if a.released {
		return 0
	}
	return a.capacity
}

// SlotSize returns the number of bytes charged per allocation.
func (a *Arena[T]) SlotSize() int { return a.slotSize }

// Remaining returns how many more slots can be allocated.
func (a *Arena[T]) Remaining() int {
	if a.released {
		return 0
	}
	return cap(a.slots) - len(a.slots)
}

// Utilization returns the ratio of bytes in use to capacity (0.0 to 1.0).
func (a *Arena[T]) Utilization() float64 {
	capacity := a.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(a.SizeInUse()) / float64(capacity)
}

// Metrics returns a snapshot of arena statistics.
func (a *Arena[T]) Metrics() Metrics {
	return Metrics{
		Slots:       a.Len(),
		SlotSize:    a.slotSize,
		SizeInUse:   a.SizeInUse(),
		Capacity:    a.Capacity(),
		Utilization: a.Utilization(),
	}
}

// Metrics contains statistical information about an arena.
type Metrics struct {
	Slots       int     // Slots allocated
	SlotSize    int     // Bytes per slot
	SizeInUse   int     // Bytes currently allocated
	Capacity    int     // Total capacity in bytes
	Utilization float64 // Ratio of used to total capacity (0.0-1.0)
}
