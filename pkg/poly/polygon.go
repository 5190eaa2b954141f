// Package poly implements the polygon geometry used to plan cuts:
// classification of a vertex loop (coplanar, simple, convex), inset and
// outset by a tool radius, and scanline area fill.
//
// The three polygon types refine each other. A Polygon is any loop of at
// least three vertices; a CoplanarPolygon also has a well defined normal;
// a SimplePolygon also has a boundary that never crosses itself. Each
// constructor validates its invariant and fails without a partial result.
package poly

import (
	"math"

	"github.com/chazu/kerf/pkg/point"
	"github.com/chazu/kerf/pkg/steps"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Corner holds the two edges meeting at a vertex.
type Corner struct {
	In    v3.Vec // from the previous vertex to this one
	Out   v3.Vec // from this vertex to the next one
	Cross v3.Vec // In × Out
}

// Edge is a directed boundary segment.
type Edge struct {
	From, To point.Point
}

// Polygon is a closed loop of vertices. The closing edge from the last
// vertex back to the first is implicit.
type Polygon struct {
	vertices []point.Point

	// derived lazily
	edges   []Edge
	corners []Corner
}

// NewPolygon validates and wraps a vertex loop.
func NewPolygon(vertices point.List) (*Polygon, error) {
	if vertices.Len() < 3 {
		return nil, ErrTooFewVertices
	}
	vs := vertices.Points()
	for i := range vs {
		if vs[i].Equal(vs[(i+1)%len(vs)]) {
			return nil, ErrZeroLengthEdge
		}
	}
	return &Polygon{vertices: vs}, nil
}

// Len returns the number of vertices.
func (p *Polygon) Len() int {
	return len(p.vertices)
}

// Vertex returns the i-th vertex, wrapping around in both directions.
func (p *Polygon) Vertex(i int) point.Point {
	n := len(p.vertices)
	return p.vertices[((i%n)+n)%n]
}

// Vertices returns a copy of the vertex loop.
func (p *Polygon) Vertices() point.List {
	return point.ListOf(p.vertices...)
}

// Edges returns the boundary segments, starting with vertex 0 → vertex 1
// and ending with the closing edge.
func (p *Polygon) Edges() []Edge {
	if p.edges == nil {
		n := len(p.vertices)
		p.edges = make([]Edge, n)
		for i := range p.vertices {
			p.edges[i] = Edge{From: p.vertices[i], To: p.vertices[(i+1)%n]}
		}
	}
	return p.edges
}

// Corners returns the corner at every vertex.
func (p *Polygon) Corners() []Corner {
	if p.corners == nil {
		p.corners = make([]Corner, len(p.vertices))
		for i, v := range p.vertices {
			in := v.Vec().Sub(p.Vertex(i - 1).Vec())
			out := p.Vertex(i + 1).Vec().Sub(v.Vec())
			p.corners[i] = Corner{In: in, Out: out, Cross: in.Cross(out)}
		}
	}
	return p.corners
}

// Bounds returns the axis-aligned bounding box of the vertices.
func (p *Polygon) Bounds() (lo, hi point.Point) {
	lo, hi = p.vertices[0], p.vertices[0]
	for _, v := range p.vertices[1:] {
		lo = point.New(math.Min(lo.X, v.X), math.Min(lo.Y, v.Y), math.Min(lo.Z, v.Z))
		hi = point.New(math.Max(hi.X, v.X), math.Max(hi.Y, v.Y), math.Max(hi.Z, v.Z))
	}
	return lo, hi
}

// Turn classifies a corner relative to the polygon normal.
type Turn int

const (
	Concave  Turn = -1
	Straight Turn = 0
	Convex   Turn = 1
)

func (t Turn) String() string {
	switch t {
	case Concave:
		return "concave"
	case Straight:
		return "straight"
	case Convex:
		return "convex"
	}
	return "invalid"
}

// sinTolerance bounds |sin| of the angle between two edges below which
// the corner counts as straight.
const sinTolerance = 1e-9

// isStraight reports whether a corner does not turn.
func (c Corner) isStraight() bool {
	return c.Cross.Length() <= sinTolerance*c.In.Length()*c.Out.Length()
}

// CoplanarPolygon is a Polygon whose corners all lie in one plane and do
// not all lie on one line.
type CoplanarPolygon struct {
	*Polygon
	normal v3.Vec
	turns  []Turn
}

// NewCoplanarPolygon validates that vertices span exactly one plane.
func NewCoplanarPolygon(vertices point.List) (*CoplanarPolygon, error) {
	p, err := NewPolygon(vertices)
	if err != nil {
		return nil, err
	}
	return newCoplanar(p)
}

func newCoplanar(p *Polygon) (*CoplanarPolygon, error) {
	var ref v3.Vec
	found := false
	for _, c := range p.Corners() {
		if c.isStraight() {
			continue
		}
		u := c.Cross.Normalize()
		if !found {
			ref, found = u, true
			continue
		}
		if !steps.IsClose(math.Abs(u.Dot(ref)), 1) {
			return nil, ErrNotCoplanar
		}
	}
	if !found {
		return nil, ErrCollinear
	}

	// The Newell normal follows the winding of the whole loop, which the
	// first turning corner alone does not for concave shapes. Crossed
	// loops can cancel to zero area; those keep the corner normal and are
	// rejected later as not simple.
	var n v3.Vec
	for i, v := range p.vertices {
		n = n.Add(v.Vec().Cross(p.Vertex(i + 1).Vec()))
	}
	if n.Length() <= steps.Tolerance {
		n = ref
	} else {
		n = n.Normalize()
		if !steps.IsClose(math.Abs(n.Dot(ref)), 1) {
			return nil, ErrNotCoplanar
		}
	}

	cp := &CoplanarPolygon{Polygon: p, normal: n}
	cp.turns = make([]Turn, len(p.vertices))
	for i, c := range p.Corners() {
		switch {
		case c.isStraight():
			cp.turns[i] = Straight
		case c.Cross.Dot(n) > 0:
			cp.turns[i] = Convex
		default:
			cp.turns[i] = Concave
		}
	}
	return cp, nil
}

// Normal returns the unit normal. Counter-clockwise loops seen from +Z
// have normal +Z.
func (p *CoplanarPolygon) Normal() v3.Vec {
	return p.normal
}

// Turns returns the classification of every corner.
func (p *CoplanarPolygon) Turns() []Turn {
	out := make([]Turn, len(p.turns))
	copy(out, p.turns)
	return out
}

// IsConvex reports whether no two corners turn in opposite directions.
func (p *CoplanarPolygon) IsConvex() bool {
	var seen [3]bool
	for _, t := range p.turns {
		seen[t+1] = true
	}
	return !(seen[Concave+1] && seen[Convex+1])
}

// IsHorizontal reports whether the polygon lies parallel to the XY plane.
func (p *CoplanarPolygon) IsHorizontal() bool {
	return steps.IsClose(math.Abs(p.normal.Z), 1)
}

// SimplePolygon is a CoplanarPolygon whose boundary does not intersect
// itself.
type SimplePolygon struct {
	*CoplanarPolygon
}

// NewSimplePolygon validates that vertices form a simple planar loop.
func NewSimplePolygon(vertices point.List) (*SimplePolygon, error) {
	cp, err := NewCoplanarPolygon(vertices)
	if err != nil {
		return nil, err
	}
	if !cp.IsConvex() && selfIntersects(cp) {
		return nil, ErrNotSimple
	}
	return &SimplePolygon{CoplanarPolygon: cp}, nil
}
