// Package point provides the 3-D coordinate value used throughout kerf and
// a compact, appendable list of them.
package point

import (
	"fmt"

	"github.com/chazu/kerf/pkg/steps"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Point is an immutable (x, y, z) coordinate. It shares its layout with
// sdfx's v3.Vec so geometry code can convert freely.
type Point v3.Vec

// New returns the point (x, y, z).
func New(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: z}
}

// XY returns the point (x, y, 0).
func XY(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Vec returns p as an sdfx vector.
func (p Point) Vec() v3.Vec {
	return v3.Vec(p)
}

// WithX returns a copy of p with x replaced.
func (p Point) WithX(x float64) Point {
	p.X = x
	return p
}

// WithY returns a copy of p with y replaced.
func (p Point) WithY(y float64) Point {
	p.Y = y
	return p
}

// WithZ returns a copy of p with z replaced.
func (p Point) WithZ(z float64) Point {
	p.Z = z
	return p
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point(v3.Vec(p).Add(v3.Vec(q)))
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point(v3.Vec(p).Sub(v3.Vec(q)))
}

// Equal reports whether p and q match on every axis within steps.Tolerance.
func (p Point) Equal(q Point) bool {
	return steps.IsClose(p.X, q.X) && steps.IsClose(p.Y, q.Y) && steps.IsClose(p.Z, q.Z)
}

// SameXY reports whether p and q match on x and y.
func (p Point) SameXY(q Point) bool {
	return steps.IsClose(p.X, q.X) && steps.IsClose(p.Y, q.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("(%.5f, %.5f, %.5f)", p.X, p.Y, p.Z)
}
