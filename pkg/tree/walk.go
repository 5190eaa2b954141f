// Package tree provides lazy, restartable walks over any tree shape.
// The walker knows nothing about the nodes it visits: callers supply the
// children and parent relations, and decide what each event means.
package tree

import (
	"fmt"
	"iter"
	"strings"
)

// EventKind identifies a walk event.
type EventKind int

const (
	MoveDown EventKind = iota
	PreOrder
	PostOrder
	MoveUp
)

func (k EventKind) String() string {
	switch k {
	case MoveDown:
		return "move:down"
	case PreOrder:
		return "visit:preorder"
	case PostOrder:
		return "visit:postorder"
	case MoveUp:
		return "move:up"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one step of a walk. Node is set for visits and zero for moves.
type Event[N any] struct {
	Kind EventKind
	Node N
}

func (e Event[N]) String() string {
	switch e.Kind {
	case PreOrder, PostOrder:
		return fmt.Sprintf("%s:%v", e.Kind, e.Node)
	default:
		return e.Kind.String()
	}
}

// DepthFirstWalk yields MoveDown, PreOrder(root), the walks of every child,
// PostOrder(root), MoveUp. children is called for a node only after the
// consumer has handled that node's PreOrder event, so a consumer may decide
// the children at that moment.
func DepthFirstWalk[N any](root N, children func(N) []N) iter.Seq[Event[N]] {
	return func(yield func(Event[N]) bool) {
		walkDown(root, children, yield)
	}
}

func walkDown[N any](n N, children func(N) []N, yield func(Event[N]) bool) bool {
	var zero N
	if !yield(Event[N]{Kind: MoveDown, Node: zero}) {
		return false
	}
	if !yield(Event[N]{Kind: PreOrder, Node: n}) {
		return false
	}
	for _, c := range children(n) {
		if !walkDown(c, children, yield) {
			return false
		}
	}
	if !yield(Event[N]{Kind: PostOrder, Node: n}) {
		return false
	}
	return yield(Event[N]{Kind: MoveUp, Node: zero})
}

// RootWalk yields PreOrder(n), then MoveUp and the root walk of n's parent,
// then PostOrder(n). parent reports false at the root. PostOrder events
// therefore arrive root first.
func RootWalk[N any](n N, parent func(N) (N, bool)) iter.Seq[Event[N]] {
	return func(yield func(Event[N]) bool) {
		walkUp(n, parent, yield)
	}
}

func walkUp[N any](n N, parent func(N) (N, bool), yield func(Event[N]) bool) bool {
	if !yield(Event[N]{Kind: PreOrder, Node: n}) {
		return false
	}
	if p, ok := parent(n); ok {
		var zero N
		if !yield(Event[N]{Kind: MoveUp, Node: zero}) {
			return false
		}
		if !walkUp(p, parent, yield) {
			return false
		}
	}
	return yield(Event[N]{Kind: PostOrder, Node: n})
}

// Format renders the subtree under root one node per line, indented by one
// space per level. Every line ends with a newline.
func Format[N any](root N, children func(N) []N, name func(N) string) string {
	var b strings.Builder
	depth := -1
	for ev := range DepthFirstWalk(root, children) {
		switch ev.Kind {
		case MoveDown:
			depth++
		case MoveUp:
			depth--
		case PreOrder:
			b.WriteString(strings.Repeat(" ", depth))
			b.WriteString(name(ev.Node))
			b.WriteByte('\n')
		}
	}
	return b.String()
}
