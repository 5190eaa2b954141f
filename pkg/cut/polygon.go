package cut

import (
	"fmt"

	"github.com/chazu/kerf/pkg/action"
	"github.com/chazu/kerf/pkg/assembly"
	"github.com/chazu/kerf/pkg/logging"
	"github.com/chazu/kerf/pkg/point"
	"github.com/chazu/kerf/pkg/poly"
	"github.com/chazu/kerf/pkg/state"
	"github.com/chazu/kerf/pkg/steps"
	"github.com/samber/lo"
)

type polygon struct {
	vertices point.List
	depth    float64
	style    Style
	filled   bool
	dogbone  bool
}

// Polygon cuts the outline of a horizontal polygon to depth, in passes of
// at most the state's milling depth per pass, optionally clearing the
// inside with a serpentine fill. Dogbone adds relief cuts at the corners
// of an inside cut so square parts fit.
func Polygon(vertices point.List, depth float64, style Style, filled, dogbone bool) (*assembly.Node, error) {
	if dogbone && style != InsideCut {
		return nil, fmt.Errorf("%w, got %s", ErrDogboneStyle, style)
	}
	if style < FollowCut || style > InsideCut {
		return nil, fmt.Errorf("%w %s", ErrUnknownCutStyle, style)
	}
	return assembly.NewOp("polygon", polygon{
		vertices: vertices,
		depth:    depth,
		style:    style,
		filled:   filled,
		dogbone:  dogbone,
	}), nil
}

func (o polygon) Check(*state.CncState) []assembly.ValidationError {
	errs := checkDepth(o.depth)
	if o.vertices.Len() < 3 {
		errs = append(errs, assembly.ValidationError{
			Message:  fmt.Sprintf("polygon needs at least 3 vertices, got %d", o.vertices.Len()),
			Severity: assembly.SeverityError,
		})
	}
	return errs
}

func (o polygon) Plan(ctx *assembly.Context) ([]*assembly.Node, error) {
	s := ctx.State
	if o.depth <= 0 {
		return nil, fmt.Errorf("cut: polygon depth must be positive, got %g", o.depth)
	}
	nominal, err := poly.NewSimplePolygon(ctx.ApplyAll(o.vertices))
	if err != nil {
		return nil, err
	}
	if !nominal.IsHorizontal() {
		return nil, poly.ErrNotHorizontal
	}

	boundary := nominal
	switch o.style {
	case OutsideCut:
		boundary, err = nominal.Grow(s.Tool.Radius())
	case InsideCut:
		boundary, err = nominal.Shrink(s.Tool.Radius())
	}
	if err != nil {
		return nil, err
	}

	var fill point.List
	var cuts []bool
	if o.filled {
		fill, cuts, err = poly.Fill(boundary, s.FillSpacing())
		if err != nil {
			return nil, err
		}
	}

	var reliefs map[int]point.Point
	if o.dogbone {
		reliefs = dogbones(nominal, boundary, s.Tool.Radius())
	}

	top := boundary.Vertex(0).Z
	levels := steps.WithMaxSpacing(0, -o.depth, s.DepthPerMillingPass)
	passes := lo.Map(levels, func(l float64, _ int) *assembly.Node {
		return assembly.NewOp("pass", pass{
			z:        top + l,
			boundary: boundary.Vertices(),
			convex:   boundary.IsConvex(),
			fill:     fill,
			cuts:     cuts,
			reliefs:  reliefs,
		})
	})

	start := boundary.Vertex(0)
	if fill.Len() > 0 {
		start = fill.At(0)
	}
	logging.Logger().Debug("polygon planned",
		"style", o.style, "vertices", boundary.Len(), "passes", len(passes), "fill", fill.Len())
	return append([]*assembly.Node{assembly.SafeJogTo(start.WithZ(top))}, passes...), nil
}

// dogbones returns, for each convex corner of the offset boundary, the
// point reached by moving from the offset vertex toward the nominal one
// until the tool edge touches the nominal corner.
func dogbones(nominal, boundary *poly.SimplePolygon, radius float64) map[int]point.Point {
	out := make(map[int]point.Point)
	for i, turn := range boundary.Turns() {
		if turn != poly.Convex {
			continue
		}
		from := boundary.Vertex(i).Vec()
		toward := nominal.Vertex(i).Vec().Sub(from)
		d := toward.Length()
		if d <= radius {
			continue
		}
		out[i] = point.Point(from.Add(toward.Normalize().MulScalar(d - radius)))
	}
	return out
}

// pass is one depth level of a polygon cut. All points are absolute; z of
// the stored points is replaced by the pass level.
type pass struct {
	z        float64
	boundary point.List
	convex   bool
	fill     point.List
	cuts     []bool
	reliefs  map[int]point.Point
}

func (o pass) at(p point.Point) point.Point {
	return p.WithZ(o.z)
}

// reach moves to p. Over a convex boundary any straight move stays inside,
// so it is a cut at the current height; otherwise the tool lifts clear and
// plunges.
func (o pass) reach(s *state.CncState, p point.Point) []action.Action {
	if s.Position.SameXY(p) {
		return nil
	}
	if o.convex {
		return []action.Action{action.Cut(s, p.WithZ(s.Position.Z))}
	}
	return append(assembly.SafeJogActions(s, p), action.Cut(s, p))
}

func (o pass) PreorderActions(ctx *assembly.Context) ([]action.Action, error) {
	s := ctx.State
	start := o.at(o.boundary.At(0))
	if o.fill.Len() > 0 {
		start = o.at(o.fill.At(0))
	}

	acts := o.reach(s, start)
	acts = append(acts, action.SetMillFeedRate(s), action.Cut(s, start))

	for i := 1; i < o.fill.Len(); i++ {
		p := o.at(o.fill.At(i))
		if o.cuts[i] || o.convex {
			acts = append(acts, action.Cut(s, p))
			continue
		}
		acts = append(acts, assembly.SafeJogActions(s, p)...)
		acts = append(acts, action.Cut(s, p))
	}

	acts = append(acts, o.reach(s, o.at(o.boundary.At(0)))...)
	n := o.boundary.Len()
	for i := 1; i <= n; i++ {
		v := o.at(o.boundary.At(i % n))
		acts = append(acts, action.Cut(s, v))
		if r, ok := o.reliefs[i%n]; ok {
			acts = append(acts, action.Cut(s, o.at(r)), action.Cut(s, v))
		}
	}
	return acts, nil
}
