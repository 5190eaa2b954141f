package tree

import (
	"iter"
	"reflect"
	"testing"
)

type node struct {
	name     string
	parent   *node
	children []*node
}

func (n *node) String() string { return n.name }

func (n *node) add(kids ...*node) *node {
	for _, k := range kids {
		k.parent = n
		n.children = append(n.children, k)
	}
	return n
}

func children(n *node) []*node { return n.children }

func parent(n *node) (*node, bool) { return n.parent, n.parent != nil }

func leaf(name string) *node { return &node{name: name} }

// root
//
//	a
//	b
//	 c
//	  d e f
//	 g
func sample() (root, e *node) {
	e = leaf("e")
	c := leaf("c").add(leaf("d"), e, leaf("f"))
	b := leaf("b").add(c, leaf("g"))
	root = leaf("root").add(leaf("a"), b)
	return root, e
}

func events[N any](seq iter.Seq[Event[N]]) []string {
	var out []string
	for ev := range seq {
		out = append(out, ev.String())
	}
	return out
}

func TestDepthFirstWalkShape(t *testing.T) {
	root := leaf("root").add(leaf("x"))
	got := events(DepthFirstWalk(root, children))
	want := []string{
		"move:down",
		"visit:preorder:root",
		"move:down",
		"visit:preorder:x",
		"visit:postorder:x",
		"move:up",
		"visit:postorder:root",
		"move:up",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("walk =\n%v\nwant\n%v", got, want)
	}
}

func TestDepthFirstWalkRestartable(t *testing.T) {
	root, _ := sample()
	walk := DepthFirstWalk(root, children)
	first := events(walk)
	second := events(walk)
	if !reflect.DeepEqual(first, second) {
		t.Error("ranging the same walk twice produced different events")
	}
	if len(first) != 4*8 {
		t.Errorf("expected 4 events per node for 8 nodes, got %d", len(first))
	}
}

func TestDepthFirstWalkEarlyStop(t *testing.T) {
	root, _ := sample()
	n := 0
	for range DepthFirstWalk(root, children) {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Errorf("n = %d", n)
	}
}

func TestChildrenResolvedAfterPreOrder(t *testing.T) {
	root := leaf("root")
	var seen []string
	for ev := range DepthFirstWalk(root, children) {
		if ev.Kind == PreOrder && ev.Node == root {
			root.add(leaf("late"))
		}
		if ev.Kind == PreOrder {
			seen = append(seen, ev.Node.name)
		}
	}
	if !reflect.DeepEqual(seen, []string{"root", "late"}) {
		t.Errorf("seen = %v", seen)
	}
}

func TestRootWalk(t *testing.T) {
	_, e := sample()
	got := events(RootWalk(e, parent))
	want := []string{
		"visit:preorder:e",
		"move:up",
		"visit:preorder:c",
		"move:up",
		"visit:preorder:b",
		"move:up",
		"visit:preorder:root",
		"visit:postorder:root",
		"visit:postorder:b",
		"visit:postorder:c",
		"visit:postorder:e",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("root walk =\n%v\nwant\n%v", got, want)
	}
}

func TestFormat(t *testing.T) {
	root, _ := sample()
	got := Format(root, children, func(n *node) string { return n.name })
	want := "root\n a\n b\n  c\n   d\n   e\n   f\n  g\n"
	if got != want {
		t.Errorf("Format =\n%q\nwant\n%q", got, want)
	}
}
