package assembly

import (
	"fmt"
	"slices"

	"github.com/chazu/kerf/pkg/action"
	"github.com/chazu/kerf/pkg/logging"
	"github.com/chazu/kerf/pkg/point"
	"github.com/chazu/kerf/pkg/state"
	"github.com/chazu/kerf/pkg/transform"
	"github.com/chazu/kerf/pkg/tree"
	"github.com/emirpasic/gods/stacks/linkedliststack"
)

// Planner synthesizes children for one traversal. Plan must not modify
// the tree; the returned nodes are discarded once the traversal leaves
// the planning node.
type Planner interface {
	Plan(ctx *Context) ([]*Node, error)
}

// PreorderEmitter contributes actions before the node's children run.
type PreorderEmitter interface {
	PreorderActions(ctx *Context) ([]action.Action, error)
}

// PostorderEmitter contributes actions after the node's children run.
type PostorderEmitter interface {
	PostorderActions(ctx *Context) ([]action.Action, error)
}

// Context is what an operation sees while the compiler visits its node.
type Context struct {
	Node  *Node
	State *state.CncState

	c *compiler
}

// Transforms returns the node's accumulated transforms.
func (ctx *Context) Transforms() transform.List {
	return ctx.Node.RootTransforms()
}

// Apply maps a point from node-local to absolute coordinates.
func (ctx *Context) Apply(p point.Point) point.Point {
	return ctx.Transforms().ApplyOne(p)
}

// ApplyAll maps every point of l.
func (ctx *Context) ApplyAll(l point.List) point.List {
	return ctx.Transforms().Apply(l)
}

// Origin is the node-local origin in absolute coordinates.
func (ctx *Context) Origin() point.Point {
	return ctx.Apply(point.Point{})
}

// compiler holds what lives for exactly one traversal.
type compiler struct {
	plans  map[*Node][]*Node
	scopes *linkedliststack.Stack
}

func newCompiler() *compiler {
	return &compiler{plans: make(map[*Node][]*Node), scopes: linkedliststack.New()}
}

func (c *compiler) children(n *Node) []*Node {
	planned := c.plans[n]
	if len(planned) == 0 {
		return n.children
	}
	return append(slices.Clip(n.children), planned...)
}

func (c *compiler) bind(s *state.CncState, bindings []state.Binding) {
	c.scopes.Push(s.Bind(bindings...))
}

func (c *compiler) unbind() {
	if v, ok := c.scopes.Pop(); ok {
		v.(func())()
	}
}

func (c *compiler) enter(n *Node, out *action.List) error {
	ctx := &Context{Node: n, State: n.state, c: c}
	if p, ok := n.op.(Planner); ok {
		planned, err := p.Plan(ctx)
		if err != nil {
			return err
		}
		for _, child := range planned {
			child.parent = n
			child.SetState(n.state)
		}
		c.plans[n] = planned
		logging.Logger().Debug("planned", "node", n.Path(), "children", len(planned))
	}
	if e, ok := n.op.(PreorderEmitter); ok {
		acts, err := e.PreorderActions(ctx)
		if err != nil {
			return err
		}
		out.Extend(acts...)
	}
	return nil
}

func (c *compiler) leave(n *Node, out *action.List) error {
	ctx := &Context{Node: n, State: n.state, c: c}
	if e, ok := n.op.(PostorderEmitter); ok {
		acts, err := e.PostorderActions(ctx)
		if err != nil {
			return err
		}
		out.Extend(acts...)
	}
	delete(c.plans, n)
	return nil
}

// Actions compiles the subtree rooted at n. The machine state is the same
// before and after the call, so compiling twice gives the same result.
func (n *Node) Actions() (*action.List, error) {
	out := &action.List{}
	err := n.state.Excursion(func() error {
		c := newCompiler()
		for ev := range tree.DepthFirstWalk(n, c.children) {
			var err error
			switch ev.Kind {
			case tree.PreOrder:
				err = c.enter(ev.Node, out)
			case tree.PostOrder:
				err = c.leave(ev.Node, out)
			}
			if err != nil {
				return fmt.Errorf("assembly: %s: %w", ev.Node.Path(), err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logging.Logger().Debug("compiled", "node", n.Path(), "actions", out.Len())
	return out, nil
}

// Gcode compiles n and renders the result, one instruction per line.
func (n *Node) Gcode() (string, error) {
	l, err := n.Actions()
	if err != nil {
		return "", err
	}
	return l.Gcode(), nil
}

// Points compiles n and returns the destination of every move.
func (n *Node) Points() (point.List, error) {
	l, err := n.Actions()
	if err != nil {
		return point.List{}, err
	}
	return l.Points(), nil
}
