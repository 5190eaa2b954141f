package engine

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/chazu/kerf/pkg/assembly"
	"github.com/chazu/kerf/pkg/cut"
	"github.com/chazu/kerf/pkg/point"
	"github.com/chazu/kerf/pkg/state"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/samber/lo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpNode wraps an assembly node so it can be returned from one builtin
// and consumed by another.
type sexpNode struct {
	node *assembly.Node
}

func (n *sexpNode) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(node %q)", n.node.Path())
}
func (n *sexpNode) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	order      []string // keyword names in source order
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if _, dup := result.kw[name]; !dup {
			result.order = append(result.order, name)
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			// Keyword at end with no value.
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

func toBool(s zygo.Sexp) (bool, error) {
	if v, ok := s.(*zygo.SexpBool); ok {
		return v.Val, nil
	}
	return false, fmt.Errorf("expected true or false, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_inside-cut) and plain strings.
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toPoints reads [[x y] [x y z] ...] into a point list.
func toPoints(s zygo.Sexp) (point.List, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return point.List{}, err
	}
	coords := make([][]float64, len(items))
	for i, item := range items {
		xs, err := sexpListToSlice(item)
		if err != nil {
			return point.List{}, fmt.Errorf("point %d: %w", i, err)
		}
		for _, x := range xs {
			f, err := toFloat64(x)
			if err != nil {
				return point.List{}, fmt.Errorf("point %d: %w", i, err)
			}
			coords[i] = append(coords[i], f)
		}
	}
	return point.FromCoords(coords)
}

func toNode(s zygo.Sexp) (*assembly.Node, error) {
	if n, ok := s.(*sexpNode); ok {
		return n.node, nil
	}
	return nil, fmt.Errorf("expected node, got %T (%s)", s, s.SexpString(nil))
}

// toNodes collects child nodes. Lists and arrays of nodes are flattened so
// scripts can build children with map or for.
func toNodes(args []zygo.Sexp) ([]*assembly.Node, error) {
	var out []*assembly.Node
	for _, a := range args {
		switch a.(type) {
		case *zygo.SexpPair, *zygo.SexpArray, *zygo.SexpSentinel:
			items, err := sexpListToSlice(a)
			if err != nil {
				return nil, err
			}
			nested, err := toNodes(items)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
		default:
			n, err := toNode(a)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Tree building
// ---------------------------------------------------------------------------

// builder collects the nodes a script creates.
type builder struct {
	tools   func(name string) (state.Tool, bool)
	created []*assembly.Node
	files   []*assembly.Node
	root    *assembly.Node
}

func (b *builder) add(n *assembly.Node) zygo.Sexp {
	b.created = append(b.created, n)
	return &sexpNode{node: n}
}

func (b *builder) addChildren(parent *assembly.Node, args []zygo.Sexp) (zygo.Sexp, error) {
	children, err := toNodes(args)
	if err != nil {
		return zygo.SexpNull, err
	}
	if err := parent.Append(children...); err != nil {
		return zygo.SexpNull, err
	}
	return b.add(parent), nil
}

// result picks the job root: the node marked with (job ...), else the last
// file that was not nested, else a file named "job" holding every
// top-level node in creation order.
func (b *builder) result() (*assembly.Node, error) {
	if b.root != nil {
		return b.root, nil
	}
	for i := len(b.files) - 1; i >= 0; i-- {
		if b.files[i].Parent() == nil {
			return b.files[i], nil
		}
	}
	root := assembly.File("job")
	top := lo.Filter(b.created, func(n *assembly.Node, _ int) bool {
		return n.Parent() == nil
	})
	if err := root.Append(top...); err != nil {
		return nil, err
	}
	return root, nil
}

// binding converts one with-state keyword to a state binding.
func (b *builder) binding(name string, v zygo.Sexp) (state.Binding, error) {
	if name != "tool" {
		f, err := toFloat64(v)
		if err != nil {
			return state.Binding{}, fmt.Errorf("%s: %w", name, err)
		}
		return state.NumericBinding(name, f)
	}
	toolName, err := toKeywordString(v)
	if err != nil {
		return state.Binding{}, fmt.Errorf("tool: %w", err)
	}
	if b.tools == nil {
		return state.Binding{}, errors.New("tool: no tool presets loaded")
	}
	t, ok := b.tools(toolName)
	if !ok {
		return state.Binding{}, fmt.Errorf("tool: unknown tool %q", toolName)
	}
	return state.WithTool(t), nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// nodeFunc adapts a builtin that returns a node and an error, prefixing
// errors with the builtin name.
func nodeFunc(name string, f func(pa kwArgs) (zygo.Sexp, error)) zygo.ZlispUserFunction {
	return func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		res, err := f(parseArgs(args))
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		return res, nil
	}
}

func requireArgs(pa kwArgs, n int, what string) error {
	if len(pa.positional) < n {
		return fmt.Errorf("requires %s", what)
	}
	return nil
}

// registerBuiltins installs the job DSL into a zygomys environment. The
// builtins record every node they create in b.
//
// Source code must be preprocessed with preprocessSource() before evaluation
// so that :keyword tokens are recognizable and kebab-case names match the
// underscore names registered here.
func registerBuiltins(env *zygo.Zlisp, b *builder) {

	// -----------------------------------------------------------------------
	// (file "name" :comments ["..."] child...)
	// -----------------------------------------------------------------------
	env.AddFunction("file", nodeFunc("file", func(pa kwArgs) (zygo.Sexp, error) {
		if err := requireArgs(pa, 1, "a name argument"); err != nil {
			return nil, err
		}
		name, err := toString(pa.positional[0])
		if err != nil {
			return nil, fmt.Errorf("name: %w", err)
		}
		var comments []string
		if v, ok := pa.kw["comments"]; ok {
			items, err := sexpListToSlice(v)
			if err != nil {
				return nil, fmt.Errorf("comments: %w", err)
			}
			for _, item := range items {
				c, err := toString(item)
				if err != nil {
					return nil, fmt.Errorf("comments: %w", err)
				}
				comments = append(comments, c)
			}
		}
		n := assembly.File(name, comments...)
		res, err := b.addChildren(n, pa.positional[1:])
		if err != nil {
			return nil, err
		}
		b.files = append(b.files, n)
		return res, nil
	}))

	// -----------------------------------------------------------------------
	// (group "name" child...)
	// -----------------------------------------------------------------------
	env.AddFunction("group", nodeFunc("group", func(pa kwArgs) (zygo.Sexp, error) {
		if err := requireArgs(pa, 1, "a name argument"); err != nil {
			return nil, err
		}
		name, err := toString(pa.positional[0])
		if err != nil {
			return nil, fmt.Errorf("name: %w", err)
		}
		return b.addChildren(assembly.New(name), pa.positional[1:])
	}))

	// -----------------------------------------------------------------------
	// (with-state :milling-feed-rate 200 :tool "carbide3d-201" child...)
	// -----------------------------------------------------------------------
	env.AddFunction("with_state", nodeFunc("with-state", func(pa kwArgs) (zygo.Sexp, error) {
		bindings := make([]state.Binding, 0, len(pa.order))
		for _, k := range pa.order {
			bd, err := b.binding(k, pa.kw[k])
			if err != nil {
				return nil, err
			}
			bindings = append(bindings, bd)
		}
		return b.addChildren(assembly.Scope("with-state", bindings...), pa.positional)
	}))

	// -----------------------------------------------------------------------
	// (drill depth) / (unsafe-drill depth)
	// -----------------------------------------------------------------------
	depthOp := func(name string, ctor func(float64) *assembly.Node) zygo.ZlispUserFunction {
		return nodeFunc(name, func(pa kwArgs) (zygo.Sexp, error) {
			if err := requireArgs(pa, 1, "a depth argument"); err != nil {
				return nil, err
			}
			d, err := toFloat64(pa.positional[0])
			if err != nil {
				return nil, fmt.Errorf("depth: %w", err)
			}
			return b.add(ctor(d)), nil
		})
	}
	env.AddFunction("drill", depthOp("drill", cut.Drill))
	env.AddFunction("unsafe_drill", depthOp("unsafe-drill", cut.UnsafeDrill))

	// -----------------------------------------------------------------------
	// (safe-jog) / (safe-z) / (comment "text")
	// -----------------------------------------------------------------------
	env.AddFunction("safe_jog", nodeFunc("safe-jog", func(kwArgs) (zygo.Sexp, error) {
		return b.add(assembly.SafeJog()), nil
	}))
	env.AddFunction("safe_z", nodeFunc("safe-z", func(kwArgs) (zygo.Sexp, error) {
		return b.add(assembly.SafeZ()), nil
	}))
	env.AddFunction("comment", nodeFunc("comment", func(pa kwArgs) (zygo.Sexp, error) {
		if err := requireArgs(pa, 1, "a text argument"); err != nil {
			return nil, err
		}
		text, err := toString(pa.positional[0])
		if err != nil {
			return nil, err
		}
		return b.add(assembly.Comment(text)), nil
	}))

	// -----------------------------------------------------------------------
	// (mill [[x y] [x y z] ...])
	// -----------------------------------------------------------------------
	env.AddFunction("mill", nodeFunc("mill", func(pa kwArgs) (zygo.Sexp, error) {
		if err := requireArgs(pa, 1, "a list of points"); err != nil {
			return nil, err
		}
		pts, err := toPoints(pa.positional[0])
		if err != nil {
			return nil, err
		}
		return b.add(cut.Mill(pts)), nil
	}))

	// -----------------------------------------------------------------------
	// (polygon [[x y] ...] :depth 3 :style :inside-cut :filled true :dogbone false)
	// -----------------------------------------------------------------------
	env.AddFunction("polygon", nodeFunc("polygon", func(pa kwArgs) (zygo.Sexp, error) {
		if err := requireArgs(pa, 1, "a list of vertices"); err != nil {
			return nil, err
		}
		pts, err := toPoints(pa.positional[0])
		if err != nil {
			return nil, err
		}
		v, ok := pa.kw["depth"]
		if !ok {
			return nil, errors.New("requires :depth")
		}
		depth, err := toFloat64(v)
		if err != nil {
			return nil, fmt.Errorf("depth: %w", err)
		}
		style := cut.FollowCut
		if v, ok := pa.kw["style"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return nil, fmt.Errorf("style: %w", err)
			}
			if style, err = cut.ParseCutStyle(s); err != nil {
				return nil, err
			}
		}
		var filled, dogbone bool
		if v, ok := pa.kw["filled"]; ok {
			if filled, err = toBool(v); err != nil {
				return nil, fmt.Errorf("filled: %w", err)
			}
		}
		if v, ok := pa.kw["dogbone"]; ok {
			if dogbone, err = toBool(v); err != nil {
				return nil, fmt.Errorf("dogbone: %w", err)
			}
		}
		n, err := cut.Polygon(pts, depth, style, filled, dogbone)
		if err != nil {
			return nil, err
		}
		return b.add(n), nil
	}))

	// -----------------------------------------------------------------------
	// (translate node x y [z]) / (scale node sx sy [sz]) / (rotate node deg)
	// -----------------------------------------------------------------------
	env.AddFunction("translate", nodeFunc("translate", func(pa kwArgs) (zygo.Sexp, error) {
		n, v, err := nodeAndVector(pa, 0)
		if err != nil {
			return nil, err
		}
		n.Translate(v[0], v[1], v[2])
		return &sexpNode{node: n}, nil
	}))
	env.AddFunction("scale", nodeFunc("scale", func(pa kwArgs) (zygo.Sexp, error) {
		n, v, err := nodeAndVector(pa, 1)
		if err != nil {
			return nil, err
		}
		n.Scale(v[0], v[1], v[2])
		return &sexpNode{node: n}, nil
	}))
	env.AddFunction("rotate", nodeFunc("rotate", func(pa kwArgs) (zygo.Sexp, error) {
		if err := requireArgs(pa, 2, "a node and an angle in degrees"); err != nil {
			return nil, err
		}
		n, err := toNode(pa.positional[0])
		if err != nil {
			return nil, err
		}
		deg, err := toFloat64(pa.positional[1])
		if err != nil {
			return nil, fmt.Errorf("angle: %w", err)
		}
		n.RotateZ(deg * math.Pi / 180)
		return &sexpNode{node: n}, nil
	}))

	// -----------------------------------------------------------------------
	// (job node)
	// -----------------------------------------------------------------------
	env.AddFunction("job", nodeFunc("job", func(pa kwArgs) (zygo.Sexp, error) {
		if err := requireArgs(pa, 1, "a node argument"); err != nil {
			return nil, err
		}
		n, err := toNode(pa.positional[0])
		if err != nil {
			return nil, err
		}
		b.root = n
		return &sexpNode{node: n}, nil
	}))
}

// nodeAndVector reads (f node x y [z]). A missing z takes zDefault.
func nodeAndVector(pa kwArgs, zDefault float64) (*assembly.Node, [3]float64, error) {
	v := [3]float64{0, 0, zDefault}
	if len(pa.positional) < 3 || len(pa.positional) > 4 {
		return nil, v, fmt.Errorf("requires a node and 2 or 3 numbers, got %d arguments", len(pa.positional))
	}
	n, err := toNode(pa.positional[0])
	if err != nil {
		return nil, v, err
	}
	for i, a := range pa.positional[1:] {
		if v[i], err = toFloat64(a); err != nil {
			return nil, v, fmt.Errorf("argument %d: %w", i+2, err)
		}
	}
	return n, v, nil
}
