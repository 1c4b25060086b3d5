package bintree

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/npillmayer/bintree/cell"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestCreateYieldsIsolatedNode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bintree")
	defer teardown()
	//
	for _, v := range []int{0, -1, 100, 1 << 20} {
		n := New(v)
		if !n.Valid() || !n.IsRoot() {
			t.Fatalf("expected a valid root for %d", v)
		}
		if _, ok := n.Parent(); ok {
			t.Errorf("fresh node %d must not have a parent", v)
		}
		if _, ok := n.Left(); ok {
			t.Errorf("fresh node %d must not have a left child", v)
		}
		if _, ok := n.Right(); ok {
			t.Errorf("fresh node %d must not have a right child", v)
		}
		if n.Value() != v {
			t.Errorf("expected value %d, got %d", v, n.Value())
		}
	}
}

func TestZeroNodeIsInvalid(t *testing.T) {
	var n Node[int]
	if n.Valid() {
		t.Fatalf("zero Node must not be valid")
	}
	if _, err := New(1).AttachLeft(n); !errors.Is(err, ErrReleased) {
		t.Fatalf("expected ErrReleased when attaching zero Node, got %v", err)
	}
	if err := n.Release(); !errors.Is(err, ErrReleased) {
		t.Fatalf("expected ErrReleased when releasing zero Node, got %v", err)
	}
}

func TestAttachLeftSetsParent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bintree")
	defer teardown()
	//
	f, err := NewForest[int](Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, c := f.Create(1), f.Create(2)
	child, err := p.AttachLeft(c)
	if err != nil {
		t.Fatalf("AttachLeft failed: %v", err)
	}
	if child != c {
		t.Errorf("same-forest attachment must return the child's handle")
	}
	parent, ok := child.Parent()
	if !ok || parent != p {
		t.Fatalf("expected parent of child to be %v, got %v", p, parent)
	}
	if v, ok := p.LeftValue(); !ok || v != 2 {
		t.Errorf("expected left value 2, got %d (present=%v)", v, ok)
	}
	if _, ok := p.RightValue(); ok {
		t.Errorf("right slot must stay empty")
	}
	if err := f.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestAttachRightSetsParent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bintree")
	defer teardown()
	//
	p := New("p")
	child, err := p.AttachRight(New("c"))
	if err != nil {
		t.Fatalf("AttachRight failed: %v", err)
	}
	parent, ok := child.Parent()
	if !ok || parent != p {
		t.Fatalf("expected parent of child to be %v, got %v", p, parent)
	}
	if v, ok := p.RightValue(); !ok || v != "c" {
		t.Errorf("expected right value c, got %q (present=%v)", v, ok)
	}
	if _, ok := p.LeftValue(); ok {
		t.Errorf("left slot must stay empty")
	}
	if err := p.Forest().Check(); err != nil {
		t.Fatal(err)
	}
}

func TestParentAliasesRealParent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bintree")
	defer teardown()
	//
	root := New(100)
	left, err := root.AttachLeft(New(200))
	if err != nil {
		t.Fatal(err)
	}
	if _, err = root.AttachRight(New(333)); err != nil {
		t.Fatal(err)
	}
	parent, ok := left.Parent()
	if !ok {
		t.Fatalf("left child has no parent")
	}
	parent.SetValue(999)
	if root.Value() != 999 {
		t.Errorf("expected root value 999, got %d", root.Value())
	}
	// walking up again yields the updated parent, whose left child is untouched
	pp, _ := left.Parent()
	if pp.Value() != 999 {
		t.Errorf("expected parent value 999, got %d", pp.Value())
	}
	if v, _ := pp.LeftValue(); v != 200 {
		t.Errorf("expected parent's left value 200, got %d", v)
	}
}

func TestChainedAttachment(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bintree")
	defer teardown()
	//
	root := New(100)
	left := root.NewLeft(200)
	grandchild, err := left.AttachLeft(New(400))
	if err != nil {
		t.Fatal(err)
	}
	grandchild.SetValue(401)
	l, ok := root.Left()
	if !ok {
		t.Fatalf("root has no left child")
	}
	ll, ok := l.Left()
	if !ok {
		t.Fatalf("root.left has no left child")
	}
	if ll.Value() != 401 {
		t.Errorf("expected root.left.left = 401, got %d", ll.Value())
	}
	if ll.Root() != root || ll.Depth() != 2 {
		t.Errorf("unexpected root %v or depth %d of grandchild", ll.Root(), ll.Depth())
	}
}

func TestReattachReleasesOldSubtree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bintree")
	defer teardown()
	//
	root := New(1)
	f := root.Forest()
	old := root.NewLeft(2)
	oldChild := old.NewLeft(3)
	oldGrandchild := oldChild.NewRight(4)
	if f.Len() != 4 {
		t.Fatalf("expected 4 nodes, have %d", f.Len())
	}
	fresh := root.NewLeft(5)
	if f.Len() != 2 {
		t.Errorf("expected old subtree to be released, forest has %d nodes", f.Len())
	}
	for _, n := range []Node[int]{old, oldChild, oldGrandchild} {
		if n.Valid() {
			t.Errorf("handle %v to replaced subtree is still valid", n)
		}
	}
	if l, _ := root.Left(); l != fresh {
		t.Errorf("expected new left child")
	}
	if err := f.Check(); err != nil {
		t.Fatal(err)
	}
	// recycled slots must not revive the stale handles
	root.NewRight(6)
	root.NewRight(7)
	if old.Valid() || oldChild.Valid() {
		t.Errorf("stale handle revived by slot recycling")
	}
}

func TestAttachRejectsOwnedChild(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bintree")
	defer teardown()
	//
	f, _ := NewForest[int](Config{})
	a, b := f.Create(1), f.Create(2)
	c := a.NewLeft(3)
	if _, err := b.AttachRight(c); !errors.Is(err, ErrAlreadyOwned) {
		t.Fatalf("expected ErrAlreadyOwned, got %v", err)
	}
	if p, _ := c.Parent(); p != a {
		t.Errorf("failed attachment must not modify the tree")
	}
}

func TestAttachRejectsCycles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bintree")
	defer teardown()
	//
	f, _ := NewForest[int](Config{})
	root := f.Create(1)
	deep := root.NewLeft(2).NewRight(3)
	if _, err := deep.AttachLeft(root); !errors.Is(err, ErrCycle) {
		t.Fatalf("expected ErrCycle when attaching root below its descendant, got %v", err)
	}
	if _, err := root.AttachLeft(root); !errors.Is(err, ErrCycle) {
		t.Fatalf("expected ErrCycle when attaching a node to itself, got %v", err)
	}
	if err := f.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestAttachFromOtherForestMovesSubtree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bintree")
	defer teardown()
	//
	root := New("root")
	sub := New("sub")
	sub.NewLeft("sub.l").NewRight("sub.l.r")
	sub.NewRight("sub.r")
	src := sub.Forest()
	moved, err := root.AttachRight(sub)
	if err != nil {
		t.Fatalf("AttachRight failed: %v", err)
	}
	if sub.Valid() {
		t.Errorf("attached handle of foreign forest must be consumed")
	}
	if src.Len() != 0 {
		t.Errorf("source forest still holds %d nodes", src.Len())
	}
	if moved.Forest() != root.Forest() || root.Forest().Len() != 5 {
		t.Fatalf("subtree not moved into receiving forest")
	}
	l, _ := moved.Left()
	lr, _ := l.Right()
	if lr.Value() != "sub.l.r" || lr.Root() != root {
		t.Errorf("unexpected moved subtree: %v below %v", lr, lr.Root())
	}
	if err := root.Forest().Check(); err != nil {
		t.Fatal(err)
	}
	if err := src.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestReleaseDestroysWholeTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bintree")
	defer teardown()
	//
	f, err := NewForest[int](Config{InitialCapacity: 16})
	if err != nil {
		t.Fatal(err)
	}
	root := f.Create(0)
	other := f.Create(100)
	var all []Node[int]
	level := []Node[int]{root}
	for depth := 1; depth <= 3; depth++ {
		var next []Node[int]
		for _, n := range level {
			next = append(next, n.NewLeft(depth), n.NewRight(depth))
		}
		all = append(all, next...)
		level = next
	}
	if f.Len() != 16 {
		t.Fatalf("expected 16 nodes, have %d", f.Len())
	}
	if err := all[3].Release(); !errors.Is(err, ErrNotRoot) {
		t.Errorf("expected ErrNotRoot for owned node, got %v", err)
	}
	if err := root.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if f.Len() != 1 {
		t.Errorf("expected only the unrelated tree to survive, have %d nodes", f.Len())
	}
	for _, n := range append(all, root) {
		if n.Valid() {
			t.Errorf("node %v survived release of its root", n)
		}
		if _, err := n.AttachLeft(f.Create(0)); !errors.Is(err, ErrReleased) {
			t.Errorf("expected ErrReleased on released node, got %v", err)
		}
	}
	if err := root.Release(); !errors.Is(err, ErrReleased) {
		t.Errorf("expected second release to fail with ErrReleased, got %v", err)
	}
	if other.Value() != 100 {
		t.Errorf("unrelated tree damaged")
	}
	if err := f.Check(); err != nil {
		t.Fatal(err)
	}
	// the loop above left one standalone root per released node
	if f.Len() != 1+len(all)+1 {
		t.Errorf("unexpected node count %d", f.Len())
	}
}

func TestReleasedNodeAccessPanics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bintree")
	defer teardown()
	//
	n := New(1)
	if err := n.Release(); err != nil {
		t.Fatal(err)
	}
	if n.String() != "Node(released)" {
		t.Errorf("unexpected string for released node: %q", n.String())
	}
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected Value on released node to panic")
		}
	}()
	n.Value()
}

func TestUpdateMayCreateNodes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bintree")
	defer teardown()
	//
	root := New(1)
	root.Update(func(v *int) {
		for i := 0; i < 64; i++ { // force the arena to grow
			root.Forest().Create(i)
		}
		*v = 2
	})
	if root.Value() != 2 {
		t.Errorf("expected 2, got %d", root.Value())
	}
}

func TestUpdateReleasingItsTreePanics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bintree")
	defer teardown()
	//
	root := New(1)
	child := root.NewLeft(2)
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected write-back into released node to panic")
		}
		if root.Valid() || child.Valid() {
			t.Errorf("expected tree to be released")
		}
	}()
	child.Update(func(v *int) {
		*v = 3
		_ = root.Release()
	})
}

func TestSharedCellPayload(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bintree")
	defer teardown()
	//
	type A struct {
		a int64
	}
	amount := cell.New(&A{a: 34_000_000})
	var initial int64
	amount.With(func(x *A) { initial = x.a })
	if initial != 34_000_000 {
		t.Fatalf("unexpected initial amount %d", initial)
	}
	root := New(amount)
	root.NewLeft(amount.Share())
	right := root.NewRight(amount.Share())
	r := right.Value().BorrowMut()
	(*r.Get()).a = 1000
	r.Release()
	var rootA int64
	root.Value().With(func(x *A) { rootA = x.a })
	if rootA != 1000 {
		t.Errorf("expected root to see 1000, got %d", rootA)
	}
	if amount.Refs() != 3 {
		t.Errorf("expected 3 owners of shared cell, have %d", amount.Refs())
	}
}

func TestTreeOfReferences(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bintree")
	defer teardown()
	//
	amount := 34_000_000
	other := 1000
	root := New(&amount)
	root.NewLeft(&amount)
	right := root.NewRight(&amount)
	right.SetValue(&other) // rebinding one node does not touch the others
	if *root.Value() != 34_000_000 {
		t.Errorf("expected root to still refer to 34000000, got %d", *root.Value())
	}
	if v, _ := root.RightValue(); *v != 1000 {
		t.Errorf("expected right to refer to 1000, got %d", *v)
	}
}

// recordingTracer keeps all debug messages and forwards them to the test log.
type recordingTracer struct {
	tracing.Trace
	debug []string
}

func (r *recordingTracer) Debugf(format string, args ...interface{}) {
	r.debug = append(r.debug, fmt.Sprintf(format, args...))
	r.Trace.Debugf(format, args...)
}

func (r *recordingTracer) contains(fragment string) bool {
	for _, msg := range r.debug {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

func TestForestTracerIsUsed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bintree")
	defer teardown()
	//
	rec := &recordingTracer{Trace: gotestingadapter.New(t)}
	rec.SetTraceLevel(tracing.LevelDebug)
	f, err := NewForest[int](Config{Tracer: rec})
	if err != nil {
		t.Fatal(err)
	}
	if f.Config().Tracer != rec {
		t.Errorf("expected configured tracer to be kept")
	}
	root := f.Create(1)
	if p, ok := root.NewLeft(2).Parent(); !ok || p.Value() != 1 {
		t.Errorf("unexpected parent lookup result %v", p)
	}
	if !rec.contains("attached") {
		t.Errorf("expected attach to trace through forest tracer, got %v", rec.debug)
	}
	if !rec.contains("parent of node") {
		t.Errorf("expected Parent to trace through forest tracer, got %v", rec.debug)
	}
	other := New(7)
	other.NewRight(8)
	if _, err := root.AttachRight(other); err != nil {
		t.Fatal(err)
	}
	if !rec.contains("moved 2 nodes") {
		t.Errorf("expected cross-forest move to be traced, got %v", rec.debug)
	}
	if err := root.Release(); err != nil {
		t.Fatal(err)
	}
	if !rec.contains("released tree") {
		t.Errorf("expected Release to trace through forest tracer, got %v", rec.debug)
	}
}

func TestNewForestRejectsInvalidConfig(t *testing.T) {
	_, err := NewForest[int](Config{InitialCapacity: -1})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	f, err := NewForest[int](Config{})
	if err != nil {
		t.Fatal(err)
	}
	if f.Config().TraceKey != DefaultTraceKey {
		t.Errorf("expected default trace key, got %q", f.Config().TraceKey)
	}
}
