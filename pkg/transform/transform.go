// Package transform implements the per-node stack of homogeneous 4x4
// transforms. Matrices are sdfx M44 values; a List composes them in the
// order they were appended.
package transform

import (
	"fmt"

	"github.com/chazu/kerf/pkg/point"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Transform is one tagged matrix.
type Transform struct {
	Tag    string
	Matrix sdf.M44
}

func (t Transform) String() string {
	return t.Tag
}

// List is an ordered transform stack. The first transform appended is the
// first applied to a point.
type List []Transform

// ZAxis is the default rotation axis.
var ZAxis = v3.Vec{Z: 1}

// Translate appends a translation.
func (l *List) Translate(x, y, z float64) {
	*l = append(*l, Transform{
		Tag:    fmt.Sprintf("translate(%g, %g, %g)", x, y, z),
		Matrix: sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z}),
	})
}

// Scale appends a per-axis scale.
func (l *List) Scale(sx, sy, sz float64) {
	*l = append(*l, Transform{
		Tag:    fmt.Sprintf("scale(%g, %g, %g)", sx, sy, sz),
		Matrix: sdf.Scale3d(v3.Vec{X: sx, Y: sy, Z: sz}),
	})
}

// Rotate appends a right-handed rotation of phi radians about axis.
func (l *List) Rotate(phi float64, axis v3.Vec) {
	*l = append(*l, Transform{
		Tag:    fmt.Sprintf("rotate(%g, [%g %g %g])", phi, axis.X, axis.Y, axis.Z),
		Matrix: sdf.Rotate3d(axis, phi),
	})
}

// RotateZ appends a rotation of phi radians about the Z axis.
func (l *List) RotateZ(phi float64) {
	l.Rotate(phi, ZAxis)
}

// Custom appends an arbitrary matrix under the given tag.
func (l *List) Custom(tag string, m sdf.M44) {
	if tag == "" {
		tag = "custom"
	}
	*l = append(*l, Transform{Tag: tag, Matrix: m})
}

// Matrix returns the composition of the list. For [A, B, C] the result is
// C*B*A.
func (l List) Matrix() sdf.M44 {
	m := sdf.Identity3d()
	for _, t := range l {
		m = t.Matrix.Mul(m)
	}
	return m
}

// ApplyOne returns p transformed by the whole list.
func (l List) ApplyOne(p point.Point) point.Point {
	if len(l) == 0 {
		return p
	}
	return point.Point(l.Matrix().MulPosition(p.Vec()))
}

// Apply returns transformed copies of every point in ps.
func (l List) Apply(ps point.List) point.List {
	m := l.Matrix()
	var out point.List
	for _, p := range ps.All() {
		out.Append(point.Point(m.MulPosition(p.Vec())))
	}
	return out
}

// Concat returns a new list holding l followed by o.
func (l List) Concat(o List) List {
	out := make(List, 0, len(l)+len(o))
	out = append(out, l...)
	return append(out, o...)
}
