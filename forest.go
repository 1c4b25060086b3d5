package bintree

/*
BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import (
	"github.com/npillmayer/bintree/arena"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// node is the record stored in a forest's arena. Child handles are owning,
// the parent handle is not.
type node[T any] struct {
	value  T
	left   arena.Handle
	right  arena.Handle
	parent arena.Handle
}

type side uint8

const (
	leftSide side = iota
	rightSide
)

func (s side) String() string {
	if s == leftSide {
		return "left"
	}
	return "right"
}

// child returns a pointer to the child slot of n named by s.
func (n *node[T]) child(s side) *arena.Handle {
	if s == leftSide {
		return &n.left
	}
	return &n.right
}

// Forest is the owner of a set of binary trees. All nodes of a tree live in
// the same forest; the forest's arena is the only owner of node storage.
//
// Clients usually do not deal with forests directly: New creates a root in a
// forest of its own, and attaching nodes of other forests moves them over.
// Sharing a forest between trees saves allocations when building many small
// trees.
type Forest[T any] struct {
	nodes *arena.Arena[node[T]]
	cfg   Config
}

// NewForest creates an empty forest.
func NewForest[T any](cfg Config) (*Forest[T], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.normalized()
	return &Forest[T]{
		nodes: arena.New[node[T]](cfg.InitialCapacity),
		cfg:   cfg,
	}, nil
}

// Config returns the normalized configuration of a forest.
func (f *Forest[T]) Config() Config {
	return f.cfg
}

func (f *Forest[T]) tracer() tracing.Trace {
	if f.cfg.Tracer != nil {
		return f.cfg.Tracer
	}
	if t := tracing.Select(f.cfg.TraceKey); t != nil {
		return t
	}
	return gtrace.CoreTracer
}

// Create allocates a standalone node holding value. The node has no parent
// and no children, i.e., it is the root of a tree of its own.
func (f *Forest[T]) Create(value T) Node[T] {
	h := f.nodes.Alloc(node[T]{value: value})
	return Node[T]{forest: f, h: h}
}

// Len returns the number of live nodes in the forest.
func (f *Forest[T]) Len() int {
	return f.nodes.Len()
}

// New creates a standalone node holding value, in a forest of its own.
func New[T any](value T) Node[T] {
	f, err := NewForest[T](Config{})
	assert(err == nil, "bintree.New: cannot create forest")
	return f.Create(value)
}

// get resolves h, which must be live.
func (f *Forest[T]) get(h arena.Handle) *node[T] {
	n, err := f.nodes.Get(h)
	assert(err == nil, "bintree: access to released node")
	return n
}

// rootOf walks up the parent chain of h.
func (f *Forest[T]) rootOf(h arena.Handle) arena.Handle {
	for {
		p := f.get(h).parent
		if p.IsNil() {
			return h
		}
		h = p
	}
}

// release frees the subtree starting at h and returns the number of nodes
// freed. The link from h's parent, if any, is cleared.
func (f *Forest[T]) release(h arena.Handle) int {
	if p := f.get(h).parent; !p.IsNil() {
		pn := f.get(p)
		if pn.left == h {
			pn.left = arena.Nil
		} else if pn.right == h {
			pn.right = arena.Nil
		}
	}
	cnt := 0
	stack := []arena.Handle{h}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := f.get(top)
		if !n.left.IsNil() {
			stack = append(stack, n.left)
		}
		if !n.right.IsNil() {
			stack = append(stack, n.right)
		}
		err := f.nodes.Free(top)
		assert(err == nil, "bintree: subtree node freed twice")
		cnt++
	}
	return cnt
}

// adopt copies the subtree of src starting at h into f, as a child of parent.
// It returns the handle of the copied subtree root. src is left untouched.
func (f *Forest[T]) adopt(src *Forest[T], h arena.Handle, parent arena.Handle) arena.Handle {
	sn := src.get(h)
	value, left, right := sn.value, sn.left, sn.right
	nh := f.nodes.Alloc(node[T]{value: value, parent: parent})
	if !left.IsNil() {
		lh := f.adopt(src, left, nh)
		f.get(nh).left = lh // re-resolve: Alloc may have moved the arena's storage
	}
	if !right.IsNil() {
		rh := f.adopt(src, right, nh)
		f.get(nh).right = rh
	}
	return nh
}
