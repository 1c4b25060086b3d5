/*
Package cell provides a shared, mutable container with runtime-checked
borrowing.

A Cell may have several owners, tracked by a reference count, and allows
either any number of shared borrows or a single exclusive borrow at a time.
Borrowing rules are checked at run time: conflicting borrows panic, or, for
the Try-variants, return an error.

Cells are a natural payload for data structures which must not assume
exclusive ownership of their values, e.g., trees of package bintree holding the
same object in several nodes. A write through any owner is visible to all
the others.

Cells are not safe for concurrent use.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package cell

import (
	"errors"
	"fmt"
)

var (
	// ErrBorrowed signals that a cell is borrowed and cannot be borrowed exclusively.
	ErrBorrowed = errors.New("cell: already borrowed")
	// ErrMutBorrowed signals that a cell is borrowed exclusively.
	ErrMutBorrowed = errors.New("cell: already mutably borrowed")
	// ErrDropped signals that all owners of a cell have dropped it.
	ErrDropped = errors.New("cell: dropped")
)

// Cell is a shared container for a value of type T.
type Cell[T any] struct {
	value   T
	refs    int
	borrows int // > 0: number of shared borrows, -1: borrowed exclusively
}

// New creates a cell holding v, with a single owner.
func New[T any](v T) *Cell[T] {
	return &Cell[T]{value: v, refs: 1}
}

// Share registers another owner of c and returns c.
func (c *Cell[T]) Share() *Cell[T] {
	assert(c.refs > 0, ErrDropped.Error())
	c.refs++
	return c
}

// Drop unregisters an owner of c. When the last owner drops c, its value is
// released and c may no longer be borrowed.
func (c *Cell[T]) Drop() {
	assert(c.refs > 0, ErrDropped.Error())
	assert(c.borrows == 0, "cell: drop while borrowed")
	c.refs--
	if c.refs == 0 {
		var zero T
		c.value = zero
	}
}

// Refs returns the number of owners of c.
func (c *Cell[T]) Refs() int {
	return c.refs
}

// TryBorrow borrows c for reading. It fails with ErrMutBorrowed while c is
// borrowed exclusively.
func (c *Cell[T]) TryBorrow() (*Ref[T], error) {
	if c.refs == 0 {
		return nil, ErrDropped
	}
	if c.borrows < 0 {
		return nil, ErrMutBorrowed
	}
	c.borrows++
	return &Ref[T]{c: c}, nil
}

// Borrow is like TryBorrow, but panics on conflicting borrows.
func (c *Cell[T]) Borrow() *Ref[T] {
	r, err := c.TryBorrow()
	assert(err == nil, errString(err))
	return r
}

// TryBorrowMut borrows c exclusively. It fails with ErrBorrowed or
// ErrMutBorrowed as long as any other borrow is active.
func (c *Cell[T]) TryBorrowMut() (*RefMut[T], error) {
	if c.refs == 0 {
		return nil, ErrDropped
	}
	if c.borrows < 0 {
		return nil, ErrMutBorrowed
	}
	if c.borrows > 0 {
		return nil, ErrBorrowed
	}
	c.borrows = -1
	return &RefMut[T]{c: c}, nil
}

// BorrowMut is like TryBorrowMut, but panics on conflicting borrows.
func (c *Cell[T]) BorrowMut() *RefMut[T] {
	r, err := c.TryBorrowMut()
	assert(err == nil, errString(err))
	return r
}

// With calls f with the value of c, holding a shared borrow for the duration
// of the call.
func (c *Cell[T]) With(f func(T)) {
	r := c.Borrow()
	defer r.Release()
	f(r.Get())
}

// Modify calls f with a pointer to the value of c, holding an exclusive
// borrow for the duration of the call.
func (c *Cell[T]) Modify(f func(*T)) {
	r := c.BorrowMut()
	defer r.Release()
	f(r.Get())
}

func (c *Cell[T]) String() string {
	switch {
	case c.refs == 0:
		return "Cell(dropped)"
	case c.borrows < 0:
		return "Cell(borrowed)"
	}
	return fmt.Sprintf("Cell(%v)", c.value)
}

// Ref is a shared borrow of a cell.
type Ref[T any] struct {
	c *Cell[T]
}

// Get returns the value of the borrowed cell.
func (r *Ref[T]) Get() T {
	assert(r.c != nil, "cell: use of released borrow")
	return r.c.value
}

// Release ends the borrow.
func (r *Ref[T]) Release() {
	assert(r.c != nil, "cell: borrow released twice")
	r.c.borrows--
	r.c = nil
}

// RefMut is an exclusive borrow of a cell.
type RefMut[T any] struct {
	c *Cell[T]
}

// Get returns a pointer to the value of the borrowed cell. The pointer must
// not be used after the borrow has been released.
func (r *RefMut[T]) Get() *T {
	assert(r.c != nil, "cell: use of released borrow")
	return &r.c.value
}

// Set replaces the value of the borrowed cell.
func (r *RefMut[T]) Set(v T) {
	*r.Get() = v
}

// Release ends the borrow.
func (r *RefMut[T]) Release() {
	assert(r.c != nil, "cell: borrow released twice")
	r.c.borrows = 0
	r.c = nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
