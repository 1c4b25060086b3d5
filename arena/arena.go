package arena

/*
BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import (
	"fmt"
	"math"
)

// Handle addresses a slot of an arena. Handles are small comparable values
// and may be copied freely.
//
// The zero Handle is never issued by an arena and is used to denote
// "no slot".
type Handle struct {
	index uint32
	gen   uint32 // generation of the slot at allocation time; never 0 for issued handles
}

// Nil is the handle which refers to no slot at all.
var Nil = Handle{}

// IsNil reports whether h is the zero handle.
func (h Handle) IsNil() bool {
	return h.gen == 0
}

// Index returns the slot position of h.
func (h Handle) Index() int {
	return int(h.index)
}

func (h Handle) String() string {
	if h.IsNil() {
		return "#nil"
	}
	return fmt.Sprintf("#%d.%d", h.index, h.gen)
}

type slot[T any] struct {
	value T
	gen   uint32
	live  bool
}

// Arena stores values of type T in recyclable slots.
//
// An arena created by
//
//	&Arena[T]{}
//
// is valid and empty.
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32 // LIFO list of recyclable slot positions
	live  int
}

// New creates an arena with room for capacity values before it has to grow.
func New[T any](capacity int) *Arena[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Arena[T]{
		slots: make([]slot[T], 0, capacity),
	}
}

// Alloc stores v in a fresh slot and returns its handle. Slots freed earlier
// are reused before the arena grows.
func (a *Arena[T]) Alloc(v T) Handle {
	if n := len(a.free); n > 0 {
		index := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[index]
		assert(!s.live, "arena: free list contains a live slot")
		s.value = v
		s.live = true
		a.live++
		return Handle{index: index, gen: s.gen}
	}
	assert(uint64(len(a.slots)) < math.MaxUint32, "arena: slot table exhausted")
	a.slots = append(a.slots, slot[T]{value: v, gen: 1, live: true})
	a.live++
	return Handle{index: uint32(len(a.slots) - 1), gen: 1}
}

func (a *Arena[T]) lookup(h Handle) (*slot[T], error) {
	if h.IsNil() || int(h.index) >= len(a.slots) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidHandle, h)
	}
	s := &a.slots[h.index]
	if !s.live || s.gen != h.gen {
		return nil, fmt.Errorf("%w: %s", ErrStaleHandle, h)
	}
	return s, nil
}

// Get resolves h to the value stored in its slot. The returned pointer is
// valid until the next call to Alloc.
func (a *Arena[T]) Get(h Handle) (*T, error) {
	s, err := a.lookup(h)
	if err != nil {
		return nil, err
	}
	return &s.value, nil
}

// MustGet is like Get, but panics for handles which are not live.
func (a *Arena[T]) MustGet(h Handle) *T {
	s, err := a.lookup(h)
	if err != nil {
		panic(err.Error())
	}
	return &s.value
}

// Live reports whether h refers to an occupied slot.
func (a *Arena[T]) Live(h Handle) bool {
	_, err := a.lookup(h)
	return err == nil
}

// Free releases the slot of h. The stored value is cleared and every copy of
// h becomes stale. Freeing a stale handle is an error, thus a slot cannot be
// released twice.
func (a *Arena[T]) Free(h Handle) error {
	s, err := a.lookup(h)
	if err != nil {
		return err
	}
	var zero T
	s.value = zero
	s.live = false
	s.gen++
	if s.gen == 0 { // wrapped around; 0 is reserved for Nil
		s.gen = 1
	}
	a.free = append(a.free, h.index)
	a.live--
	return nil
}

// Len returns the number of occupied slots.
func (a *Arena[T]) Len() int {
	return a.live
}

// Cap returns the number of slots, occupied or free.
func (a *Arena[T]) Cap() int {
	return len(a.slots)
}

// Each calls f for every occupied slot, in slot order, until f returns false.
// f must not allocate from or free to the arena.
func (a *Arena[T]) Each(f func(Handle, *T) bool) {
	for i := range a.slots {
		s := &a.slots[i]
		if !s.live {
			continue
		}
		if !f(Handle{index: uint32(i), gen: s.gen}, &s.value) {
			return
		}
	}
}

// Check validates the arena's bookkeeping: the live count must match the
// occupied slots, and the free list must hold every vacant slot exactly once.
func (a *Arena[T]) Check() error {
	live := 0
	for i, s := range a.slots {
		if s.gen == 0 {
			return fmt.Errorf("%w: slot %d has generation 0", ErrCorrupt, i)
		}
		if s.live {
			live++
		}
	}
	if live != a.live {
		return fmt.Errorf("%w: live count mismatch (%d != %d)", ErrCorrupt, live, a.live)
	}
	seen := make(map[uint32]bool, len(a.free))
	for _, index := range a.free {
		if int(index) >= len(a.slots) {
			return fmt.Errorf("%w: free list entry %d out of range", ErrCorrupt, index)
		}
		if a.slots[index].live {
			return fmt.Errorf("%w: free list entry %d is occupied", ErrCorrupt, index)
		}
		if seen[index] {
			return fmt.Errorf("%w: free list entry %d listed twice", ErrCorrupt, index)
		}
		seen[index] = true
	}
	if len(a.free)+a.live != len(a.slots) {
		return fmt.Errorf("%w: %d free + %d live != %d slots", ErrCorrupt,
			len(a.free), a.live, len(a.slots))
	}
	return nil
}
