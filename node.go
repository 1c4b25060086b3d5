package bintree

/*
BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import (
	"fmt"

	"github.com/npillmayer/bintree/arena"
)

// Node is a handle to a node of a binary tree.
//
// Nodes are small values and are meant to be passed around by value. Two
// Node values referring to the same tree node compare equal, and any update
// made through one of them is visible through all of them.
//
// A Node stays usable until the tree node it refers to is released. After
// that, Valid reports false and accessors panic. The zero Node is never valid.
type Node[T any] struct {
	forest *Forest[T]
	h      arena.Handle
}

// Valid reports whether n refers to a live tree node.
func (n Node[T]) Valid() bool {
	return n.forest != nil && n.forest.nodes.Live(n.h)
}

// Forest returns the forest n lives in.
func (n Node[T]) Forest() *Forest[T] {
	return n.forest
}

func (n Node[T]) String() string {
	if !n.Valid() {
		return "Node(released)"
	}
	return fmt.Sprintf("Node%s(%v)", n.h, n.rec().value)
}

// rec resolves n to its record, asserting that n is valid. The pointer must
// not be held across allocations in n's forest.
func (n Node[T]) rec() *node[T] {
	assert(n.forest != nil, "bintree: use of zero Node")
	r, err := n.forest.nodes.Get(n.h)
	assert(err == nil, "bintree: use of released node")
	return r
}

func (n Node[T]) check() error {
	if !n.Valid() {
		return fmt.Errorf("%w: %s", ErrReleased, n.h)
	}
	return nil
}

func (n Node[T]) at(h arena.Handle) (Node[T], bool) {
	if h.IsNil() {
		return Node[T]{}, false
	}
	return Node[T]{forest: n.forest, h: h}, true
}

// --- Reading ---------------------------------------------------------------

// Value returns the value held by n.
func (n Node[T]) Value() T {
	return n.rec().value
}

// LeftValue returns the value of n's left child, if present.
func (n Node[T]) LeftValue() (T, bool) {
	return n.childValue(leftSide)
}

// RightValue returns the value of n's right child, if present.
func (n Node[T]) RightValue() (T, bool) {
	return n.childValue(rightSide)
}

func (n Node[T]) childValue(s side) (T, bool) {
	c := *n.rec().child(s)
	if c.IsNil() {
		var zero T
		return zero, false
	}
	return n.forest.get(c).value, true
}

// Left returns n's left child, if present.
func (n Node[T]) Left() (Node[T], bool) {
	return n.at(n.rec().left)
}

// Right returns n's right child, if present.
func (n Node[T]) Right() (Node[T], bool) {
	return n.at(n.rec().right)
}

// Parent returns the node owning n. Roots do not have a parent.
//
// The node returned is the parent itself, not a copy: values set through it
// are visible from every other handle to the parent. It cannot outlive the
// parent; once the parent is released, it reports !Valid.
func (n Node[T]) Parent() (Node[T], bool) {
	p := n.rec().parent
	if p.IsNil() {
		return Node[T]{}, false
	}
	n.forest.tracer().Debugf("parent of node %s is %s", n.h, p)
	return n.at(p)
}

// IsRoot reports whether n has no parent.
func (n Node[T]) IsRoot() bool {
	return n.rec().parent.IsNil()
}

// Root returns the root of the tree n belongs to.
func (n Node[T]) Root() Node[T] {
	n.rec()
	return Node[T]{forest: n.forest, h: n.forest.rootOf(n.h)}
}

// Depth returns the number of parent links between n and its root.
func (n Node[T]) Depth() int {
	d := 0
	for p := n.rec().parent; !p.IsNil(); p = n.forest.get(p).parent {
		d++
	}
	return d
}

// --- Writing ---------------------------------------------------------------

// SetValue replaces the value held by n.
func (n Node[T]) SetValue(value T) {
	n.rec().value = value
}

// Update calls f with a pointer to a copy of n's value and stores the result
// back into n. f may freely create nodes in n's forest, but it must not
// release n or the tree containing n: storing the result into a released
// node panics.
func (n Node[T]) Update(f func(*T)) {
	v := n.rec().value
	f(&v)
	n.rec().value = v
}

// NewLeft creates a node holding value and installs it as n's left child.
// A previous left subtree of n is released.
func (n Node[T]) NewLeft(value T) Node[T] {
	assert(n.Valid(), "bintree: NewLeft on released node")
	c, err := n.attach(n.forest.Create(value), leftSide)
	assert(err == nil, "bintree: NewLeft cannot attach fresh node")
	return c
}

// NewRight creates a node holding value and installs it as n's right child.
// A previous right subtree of n is released.
func (n Node[T]) NewRight(value T) Node[T] {
	assert(n.Valid(), "bintree: NewRight on released node")
	c, err := n.attach(n.forest.Create(value), rightSide)
	assert(err == nil, "bintree: NewRight cannot attach fresh node")
	return c
}

// AttachLeft takes ownership of child, which must be a root, and installs it
// as n's left child. A previous left subtree of n is released.
//
// AttachLeft returns the handle of the attached child, for building further
// down the tree. If child lives in a forest other than n's, its whole subtree
// is moved into n's forest: child itself is released and the returned handle
// is the only one referring to the attached node.
//
// Errors are ErrReleased (n or child are not valid), ErrAlreadyOwned (child
// has a parent) and ErrCycle (child is n or the root of n's tree). In case of
// an error neither tree is modified.
func (n Node[T]) AttachLeft(child Node[T]) (Node[T], error) {
	return n.attach(child, leftSide)
}

// AttachRight is the mirror image of AttachLeft.
func (n Node[T]) AttachRight(child Node[T]) (Node[T], error) {
	return n.attach(child, rightSide)
}

func (n Node[T]) attach(child Node[T], s side) (Node[T], error) {
	if err := n.check(); err != nil {
		return Node[T]{}, err
	}
	if err := child.check(); err != nil {
		return Node[T]{}, err
	}
	if !child.rec().parent.IsNil() {
		return Node[T]{}, fmt.Errorf("%w: %s", ErrAlreadyOwned, child.h)
	}
	f := n.forest
	trace := f.tracer()
	if child.forest == f {
		if f.rootOf(n.h) == child.h {
			return Node[T]{}, fmt.Errorf("%w: %s is an ancestor of %s", ErrCycle, child.h, n.h)
		}
	} else {
		src := child.forest
		h := f.adopt(src, child.h, arena.Nil)
		moved := src.release(child.h)
		trace.Debugf("moved %d nodes of subtree %s into forest as %s", moved, child.h, h)
		child = Node[T]{forest: f, h: h}
	}
	if old := *f.get(n.h).child(s); !old.IsNil() {
		cnt := f.release(old)
		trace.Debugf("released %d nodes of previous %s subtree %s of %s", cnt, s, old, n.h)
	}
	*f.get(n.h).child(s) = child.h
	f.get(child.h).parent = n.h
	trace.Debugf("attached %s as %s child of %s", child.h, s, n.h)
	return child, nil
}

// Release destroys the tree rooted at n, including all of its descendants.
// Every handle to one of these nodes becomes invalid.
//
// Only roots may be released. Nodes owned by a parent are released when the
// parent's tree is released or when they are replaced by another child.
func (n Node[T]) Release() error {
	if err := n.check(); err != nil {
		return err
	}
	if !n.rec().parent.IsNil() {
		return fmt.Errorf("%w: %s", ErrNotRoot, n.h)
	}
	cnt := n.forest.release(n.h)
	n.forest.tracer().Debugf("released tree %s with %d nodes", n.h, cnt)
	return nil
}
