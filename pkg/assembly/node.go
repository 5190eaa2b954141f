// Package assembly builds toolpaths as trees. Each Node carries its own
// transform stack and an operation; compiling a tree walks it depth first
// and asks each operation for the actions it contributes.
package assembly

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chazu/kerf/pkg/state"
	"github.com/chazu/kerf/pkg/transform"
	"github.com/chazu/kerf/pkg/tree"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Structural errors returned by Append.
var (
	ErrNilChild  = errors.New("assembly: nil child")
	ErrHasParent = errors.New("assembly: child already has a parent")
	ErrCycle     = errors.New("assembly: child is an ancestor of the parent")
)

// Node is one element of an assembly tree.
//
// A node owns its declared children and points back at its parent. All
// nodes of one tree share a single *state.CncState.
type Node struct {
	name       string
	parent     *Node
	children   []*Node
	transforms transform.List
	state      *state.CncState
	op         any
}

// New returns a plain composite node with default machine state.
func New(name string) *Node {
	return NewOp(name, nil)
}

// NewOp returns a node driven by op. The op may implement any of Planner,
// PreorderEmitter, PostorderEmitter and Checker.
func NewOp(name string, op any) *Node {
	return &Node{name: name, op: op, state: state.New()}
}

func (n *Node) Name() string               { return n.name }
func (n *Node) String() string             { return n.name }
func (n *Node) Op() any                    { return n.op }
func (n *Node) State() *state.CncState     { return n.state }
func (n *Node) Transforms() transform.List { return n.transforms }

// Parent returns the node's parent, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the declared children. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Path returns the slash-separated names from the root to n.
func (n *Node) Path() string {
	var names []string
	for p := n; p != nil; p = p.parent {
		names = append(names, p.name)
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, "/")
}

// Append attaches children in order. Each child takes the receiver's state.
// Nothing is attached when any child is rejected.
func (n *Node) Append(children ...*Node) error {
	for _, c := range children {
		if c == nil {
			return ErrNilChild
		}
		if c.parent != nil {
			return fmt.Errorf("%w: %s is a child of %s", ErrHasParent, c.name, c.parent.name)
		}
		for a := n; a != nil; a = a.parent {
			if a == c {
				return fmt.Errorf("%w: %s", ErrCycle, c.name)
			}
		}
	}
	for _, c := range children {
		c.parent = n
		c.SetState(n.state)
		n.children = append(n.children, c)
	}
	return nil
}

// SetState replaces the state of n and every attached descendant.
func (n *Node) SetState(s *state.CncState) {
	n.state = s
	for _, c := range n.children {
		c.SetState(s)
	}
}

func (n *Node) Translate(x, y, z float64) *Node {
	n.transforms.Translate(x, y, z)
	return n
}

func (n *Node) Scale(sx, sy, sz float64) *Node {
	n.transforms.Scale(sx, sy, sz)
	return n
}

// Rotate turns by phi radians about axis, right-handed.
func (n *Node) Rotate(phi float64, axis v3.Vec) *Node {
	n.transforms.Rotate(phi, axis)
	return n
}

func (n *Node) RotateZ(phi float64) *Node {
	n.transforms.RotateZ(phi)
	return n
}

func (n *Node) CustomTransform(tag string, m sdf.M44) *Node {
	n.transforms.Custom(tag, m)
	return n
}

func parentOf(n *Node) (*Node, bool) {
	return n.parent, n.parent != nil
}

// RootTransforms returns n's transforms followed by those of each ancestor
// up to the root, so n's own transforms apply first.
func (n *Node) RootTransforms() transform.List {
	var out transform.List
	for ev := range tree.RootWalk(n, parentOf) {
		if ev.Kind == tree.PreOrder {
			out = out.Concat(ev.Node.transforms)
		}
	}
	return out
}

func childrenOf(n *Node) []*Node { return n.children }

// Format pretty-prints the declared subtree.
func (n *Node) Format() string {
	return tree.Format(n, childrenOf, (*Node).Name)
}
