package bintree

import (
	"fmt"

	"github.com/npillmayer/bintree/arena"
)

// Check validates structural invariants of all trees in a forest:
//
//   - every child link refers to a live node whose parent link points back,
//   - every parent link refers to a live node owning the node as its left or
//     right child,
//   - owning links are acyclic, i.e., every live node is reachable from
//     exactly one root, and reached exactly once.
//
// This checker is intended to be used in tests.
func (f *Forest[T]) Check() error {
	if f == nil || f.nodes == nil {
		return fmt.Errorf("%w: nil forest", ErrBrokenInvariant)
	}
	if err := f.nodes.Check(); err != nil {
		return fmt.Errorf("%w: %v", ErrBrokenInvariant, err)
	}
	var err error
	var roots []arena.Handle
	f.nodes.Each(func(h arena.Handle, n *node[T]) bool {
		err = f.checkLinks(h, n)
		if err == nil && n.parent.IsNil() {
			roots = append(roots, h)
		}
		return err == nil
	})
	if err != nil {
		return err
	}
	seen := make(map[arena.Handle]bool, f.nodes.Len())
	for _, r := range roots {
		stack := []arena.Handle{r}
		for len(stack) > 0 {
			h := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if seen[h] {
				return fmt.Errorf("%w: node %s reached twice", ErrBrokenInvariant, h)
			}
			seen[h] = true
			n := f.get(h)
			for _, c := range [2]arena.Handle{n.left, n.right} {
				if !c.IsNil() {
					stack = append(stack, c)
				}
			}
		}
	}
	if len(seen) != f.nodes.Len() {
		return fmt.Errorf("%w: %d of %d nodes not reachable from a root",
			ErrBrokenInvariant, f.nodes.Len()-len(seen), f.nodes.Len())
	}
	return nil
}

func (f *Forest[T]) checkLinks(h arena.Handle, n *node[T]) error {
	if !n.left.IsNil() && n.left == n.right {
		return fmt.Errorf("%w: node %s owns %s twice", ErrBrokenInvariant, h, n.left)
	}
	for _, s := range [2]side{leftSide, rightSide} {
		c := *n.child(s)
		if c.IsNil() {
			continue
		}
		cn, err := f.nodes.Get(c)
		if err != nil {
			return fmt.Errorf("%w: %s child of %s: %v", ErrBrokenInvariant, s, h, err)
		}
		if cn.parent != h {
			return fmt.Errorf("%w: %s child %s of %s has parent %s",
				ErrBrokenInvariant, s, c, h, cn.parent)
		}
	}
	if n.parent.IsNil() {
		return nil
	}
	pn, err := f.nodes.Get(n.parent)
	if err != nil {
		return fmt.Errorf("%w: parent of %s: %v", ErrBrokenInvariant, h, err)
	}
	if pn.left != h && pn.right != h {
		return fmt.Errorf("%w: parent %s does not own %s", ErrBrokenInvariant, n.parent, h)
	}
	return nil
}
