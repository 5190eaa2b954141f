package assembly

import (
	"github.com/chazu/kerf/pkg/action"
	"github.com/chazu/kerf/pkg/point"
	"github.com/chazu/kerf/pkg/state"
)

// SafeJogActions moves to p without risking a collision: up to safe Z,
// across to p's x and y, then down to z_margin above p. p is absolute.
func SafeJogActions(s *state.CncState, p point.Point) []action.Action {
	return []action.Action{
		action.Jog(s, s.Position.WithZ(s.ZSafe)),
		action.Jog(s, point.New(p.X, p.Y, s.ZSafe)),
		action.Jog(s, p.WithZ(p.Z+s.ZMargin)),
	}
}

type safeJog struct{}

func (safeJog) PreorderActions(ctx *Context) ([]action.Action, error) {
	return SafeJogActions(ctx.State, ctx.Origin()), nil
}

// SafeJog returns a node that safe-jogs to its transformed origin.
func SafeJog() *Node {
	return NewOp("safe-jog", safeJog{})
}

type safeJogTo struct {
	target point.Point
}

func (o safeJogTo) PreorderActions(ctx *Context) ([]action.Action, error) {
	return SafeJogActions(ctx.State, o.target), nil
}

// SafeJogTo returns a node that safe-jogs to p. p is already absolute, so
// the node's transforms are not applied.
func SafeJogTo(p point.Point) *Node {
	return NewOp("safe-jog", safeJogTo{target: p})
}

type safeZ struct{}

func (safeZ) PreorderActions(ctx *Context) ([]action.Action, error) {
	s := ctx.State
	return []action.Action{action.Jog(s, s.Position.WithZ(s.ZSafe))}, nil
}

// SafeZ returns a node that retracts straight up to safe Z.
func SafeZ() *Node {
	return NewOp("safe-z", safeZ{})
}

type comment struct {
	text string
}

func (o comment) PreorderActions(ctx *Context) ([]action.Action, error) {
	return []action.Action{action.Comment(ctx.State, o.text)}, nil
}

// Comment returns a node that emits a G-code comment.
func Comment(text string) *Node {
	return NewOp("comment", comment{text: text})
}

type header struct{}

func (header) PreorderActions(ctx *Context) ([]action.Action, error) {
	s := ctx.State
	return []action.Action{
		action.Home(s),
		action.UnitsMillimeters(s),
		action.MotionAbsolute(s),
		action.SetSpindleSpeed(s),
		action.ActivateSpindleCW(s),
		action.SetMillFeedRate(s),
	}, nil
}

// Header returns the program preamble: home, metric, absolute, spindle on,
// milling feed rate.
func Header() *Node {
	return NewOp("header", header{})
}

type footer struct{}

func (footer) PreorderActions(ctx *Context) ([]action.Action, error) {
	s := ctx.State
	acts := SafeJogActions(s, point.New(0, 0, s.ZSafe))
	return append(acts, action.StopSpindle(s)), nil
}

// Footer returns the program epilogue: park over the home position and
// stop the spindle.
func Footer() *Node {
	return NewOp("footer", footer{})
}

type file struct {
	comments []string
}

func (o file) PreorderActions(ctx *Context) ([]action.Action, error) {
	acts := make([]action.Action, 0, len(o.comments))
	for _, c := range o.comments {
		acts = append(acts, action.Comment(ctx.State, c))
	}
	return acts, nil
}

func (file) Plan(*Context) ([]*Node, error) {
	return []*Node{Footer()}, nil
}

// File returns the root of a complete program. Comments come first, then
// a Header, then whatever is appended, then a Footer.
func File(name string, comments ...string) *Node {
	n := NewOp(name, file{comments: comments})
	// A fresh header has no parent and is not an ancestor.
	_ = n.Append(Header())
	return n
}

type scope struct {
	bindings []state.Binding
}

func (o scope) PreorderActions(ctx *Context) ([]action.Action, error) {
	ctx.c.bind(ctx.State, o.bindings)
	return nil, nil
}

func (o scope) PostorderActions(ctx *Context) ([]action.Action, error) {
	ctx.c.unbind()
	return nil, nil
}

// Scope returns a node whose subtree runs with bindings applied. The bound
// fields are restored once the subtree is done.
func Scope(name string, bindings ...state.Binding) *Node {
	return NewOp(name, scope{bindings: bindings})
}
