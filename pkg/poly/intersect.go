package poly

import (
	"math"

	"github.com/dhconnelly/rtreego"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// boxPad widens edge boxes so that axis-aligned edges still have volume
// and touching boxes still overlap; rtreego treats shared borders as
// disjoint.
const boxPad = 1e-6

// edgeEntry is an edge stored in the broad-phase R-tree.
type edgeEntry struct {
	index int
	edge  Edge
	box   rtreego.Rect
}

func (e *edgeEntry) Bounds() rtreego.Rect {
	return e.box
}

func edgeBox(e Edge) rtreego.Rect {
	lo := rtreego.Point{
		math.Min(e.From.X, e.To.X) - boxPad,
		math.Min(e.From.Y, e.To.Y) - boxPad,
		math.Min(e.From.Z, e.To.Z) - boxPad,
	}
	hi := rtreego.Point{
		math.Max(e.From.X, e.To.X) + boxPad,
		math.Max(e.From.Y, e.To.Y) + boxPad,
		math.Max(e.From.Z, e.To.Z) + boxPad,
	}
	// lo < hi on every axis, so this cannot fail.
	r, _ := rtreego.NewRectFromPoints(lo, hi)
	return r
}

// selfIntersects reports whether any two non-adjacent edges of p touch.
// Candidate pairs come from an R-tree of edge bounding boxes; each pair is
// then tested exactly in the polygon's plane.
func selfIntersects(p *CoplanarPolygon) bool {
	proj := dropAxis(p.normal)
	edges := p.Edges()
	n := len(edges)
	entries := make([]rtreego.Spatial, n)
	for i, e := range edges {
		entries[i] = &edgeEntry{index: i, edge: e, box: edgeBox(e)}
	}
	rt := rtreego.NewTree(3, 2, 8, entries...)

	for _, s := range entries {
		a := s.(*edgeEntry)
		for _, hit := range rt.SearchIntersect(a.box) {
			b := hit.(*edgeEntry)
			if b.index <= a.index || adjacent(a.index, b.index, n) {
				continue
			}
			if segmentsIntersect(proj, a.edge, b.edge) {
				return true
			}
		}
	}
	return false
}

func adjacent(i, j, n int) bool {
	d := (j - i + n) % n
	return d == 1 || d == n-1
}

// segmentsIntersect tests two coplanar segments for contact using
// orientation signs after projecting them onto a coordinate plane.
func segmentsIntersect(proj func(v3.Vec) vec2, a, b Edge) bool {
	a1, a2 := proj(a.From.Vec()), proj(a.To.Vec())
	b1, b2 := proj(b.From.Vec()), proj(b.To.Vec())

	d1 := orient(b1, b2, a1)
	d2 := orient(b1, b2, a2)
	d3 := orient(a1, a2, b1)
	d4 := orient(a1, a2, b2)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) && ((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return (d1 == 0 && onSegment(b1, b2, a1)) ||
		(d2 == 0 && onSegment(b1, b2, a2)) ||
		(d3 == 0 && onSegment(a1, a2, b1)) ||
		(d4 == 0 && onSegment(a1, a2, b2))
}

type vec2 struct{ x, y float64 }

// dropAxis returns a projection that discards the axis n is most aligned
// with.
func dropAxis(n v3.Vec) func(v3.Vec) vec2 {
	ax, ay, az := math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z)
	switch {
	case ax >= ay && ax >= az && ax > 0:
		return func(v v3.Vec) vec2 { return vec2{v.Y, v.Z} }
	case ay >= az && ay > 0:
		return func(v v3.Vec) vec2 { return vec2{v.X, v.Z} }
	default:
		return func(v v3.Vec) vec2 { return vec2{v.X, v.Y} }
	}
}

// orient returns the sign of the turn a → b → c, with near-zero snapped
// to zero.
func orient(a, b, c vec2) int {
	v := (b.x-a.x)*(c.y-a.y) - (b.y-a.y)*(c.x-a.x)
	switch {
	case v > boxPad*boxPad:
		return 1
	case v < -boxPad*boxPad:
		return -1
	}
	return 0
}

func onSegment(a, b, c vec2) bool {
	return c.x >= math.Min(a.x, b.x)-boxPad && c.x <= math.Max(a.x, b.x)+boxPad &&
		c.y >= math.Min(a.y, b.y)-boxPad && c.y <= math.Max(a.y, b.y)+boxPad
}
