package point

import (
	"fmt"
	"iter"
)

// List is an ordered collection of points stored as one dense buffer of
// x, y, z triples. The zero value is an empty list ready to use.
type List struct {
	buf []float64
}

// ListOf returns a list holding ps in order.
func ListOf(ps ...Point) List {
	l := List{buf: make([]float64, 0, 3*len(ps))}
	for _, p := range ps {
		l.Append(p)
	}
	return l
}

// FromCoords builds a list from nested numeric input. Each inner slice
// must hold 2 (x, y) or 3 (x, y, z) values.
func FromCoords(coords [][]float64) (List, error) {
	l := List{buf: make([]float64, 0, 3*len(coords))}
	for i, c := range coords {
		switch len(c) {
		case 2:
			l.Append(XY(c[0], c[1]))
		case 3:
			l.Append(New(c[0], c[1], c[2]))
		default:
			return List{}, fmt.Errorf("point: coordinate %d has %d values, want 2 or 3", i, len(c))
		}
	}
	return l, nil
}

// Len returns the number of points.
func (l List) Len() int {
	return len(l.buf) / 3
}

// At returns the i-th point. It panics if i is out of range.
func (l List) At(i int) Point {
	j := 3 * i
	return Point{X: l.buf[j], Y: l.buf[j+1], Z: l.buf[j+2]}
}

// Append adds p at the end.
func (l *List) Append(p Point) {
	l.buf = append(l.buf, p.X, p.Y, p.Z)
}

// Extend appends every point of o.
func (l *List) Extend(o List) {
	l.buf = append(l.buf, o.buf...)
}

// Insert places p before index i. i == Len() appends.
func (l *List) Insert(i int, p Point) error {
	if i < 0 || i > l.Len() {
		return fmt.Errorf("point: insert index %d out of range [0, %d]", i, l.Len())
	}
	j := 3 * i
	l.buf = append(l.buf, 0, 0, 0)
	copy(l.buf[j+3:], l.buf[j:])
	l.buf[j], l.buf[j+1], l.buf[j+2] = p.X, p.Y, p.Z
	return nil
}

// Points returns a copy of the list as a slice.
func (l List) Points() []Point {
	out := make([]Point, l.Len())
	for i := range out {
		out[i] = l.At(i)
	}
	return out
}

// All iterates over the points in order.
func (l List) All() iter.Seq2[int, Point] {
	return func(yield func(int, Point) bool) {
		for i := 0; i < l.Len(); i++ {
			if !yield(i, l.At(i)) {
				return
			}
		}
	}
}

// Equal reports whether both lists hold the same points within tolerance.
func (l List) Equal(o List) bool {
	if l.Len() != o.Len() {
		return false
	}
	for i := 0; i < l.Len(); i++ {
		if !l.At(i).Equal(o.At(i)) {
			return false
		}
	}
	return true
}

func (l List) String() string {
	return fmt.Sprint(l.Points())
}
