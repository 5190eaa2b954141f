package poly

import (
	"math"

	"github.com/chazu/kerf/pkg/point"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Shrink returns p inset by d; a negative d outsets. Every vertex moves
// along its corner bisector far enough that both adjacent edges end up d
// away from where they were (a miter join).
//
// The result is validated again. An inset that folds a concave polygon
// over itself fails with a *ResizeError wrapping ErrNotSimple; one deep
// enough to turn the loop inside out wraps ErrInverted. An inset past the
// centre of a convex loop mirrors it through the centre without changing
// its winding, so every offset edge must also keep the direction of the
// edge it came from.
func (p *SimplePolygon) Shrink(d float64) (*SimplePolygon, error) {
	var out point.List
	for i, v := range p.vertices {
		c := p.Corners()[i]
		u0 := c.In.Normalize()
		u1 := c.Out.Normalize()

		var dir v3.Vec
		length := d
		switch p.turns[i] {
		case Straight:
			dir = p.normal.Cross(u0).Normalize()
		case Convex, Concave:
			dir = u1.Sub(u0).Normalize()
			cos := dir.Dot(u1)
			length = d / math.Sqrt(1-cos*cos)
			if p.turns[i] == Concave {
				dir = dir.Neg()
			}
		}
		out.Append(point.Point(v.Vec().Add(dir.MulScalar(length))))
	}

	cp, err := NewCoplanarPolygon(out)
	if err != nil {
		return nil, &ResizeError{Distance: d, Err: err}
	}
	if cp.normal.Dot(p.normal) < 0 {
		return nil, &ResizeError{Distance: d, Err: ErrInverted}
	}
	// Offsetting a concave loop can fold it over itself while every
	// corner still turns the same way, so the convex shortcut of
	// NewSimplePolygon does not apply here.
	if !p.IsConvex() && selfIntersects(cp) {
		return nil, &ResizeError{Distance: d, Err: ErrNotSimple}
	}
	if reversesEdge(p.Edges(), cp.Edges()) {
		return nil, &ResizeError{Distance: d, Err: ErrInverted}
	}
	return &SimplePolygon{CoplanarPolygon: cp}, nil
}

func reversesEdge(before, after []Edge) bool {
	for i, e := range before {
		a := after[i]
		if e.To.Sub(e.From).Vec().Dot(a.To.Sub(a.From).Vec()) <= 0 {
			return true
		}
	}
	return false
}

// Grow returns p outset by d. It is Shrink(-d).
func (p *SimplePolygon) Grow(d float64) (*SimplePolygon, error) {
	return p.Shrink(-d)
}

// Offset is Shrink under the name used by callers that think in signed
// distances.
func (p *SimplePolygon) Offset(d float64) (*SimplePolygon, error) {
	return p.Shrink(d)
}
