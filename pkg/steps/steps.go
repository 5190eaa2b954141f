// Package steps computes evenly spaced coordinate steps, such as the Z
// levels of a multi-pass cut or the scan rows of an area fill.
package steps

import "math"

// Tolerance is the absolute tolerance used for float comparisons across
// kerf. Wire output has five decimals, so anything closer is
// indistinguishable on the machine.
const Tolerance = 1e-6

// IsClose reports whether a and b are within Tolerance of each other.
func IsClose(a, b float64) bool {
	return math.Abs(a-b) <= Tolerance
}

// SafeCeil is math.Ceil that snaps values within Tolerance of an integer
// to that integer, so 3.0000000001 yields 3 rather than 4.
func SafeCeil(v float64) float64 {
	if r := math.Round(v); IsClose(v, r) {
		return r
	}
	return math.Ceil(v)
}

// Linspace returns n evenly spaced values from start to stop inclusive.
// The last value is exactly stop.
func Linspace(start, stop float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{start}
	}
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}

// WithMaxSpacing returns evenly spaced values from start to stop with no
// two neighbours further apart than maxSpacing. Both endpoints are always
// included. A non-positive maxSpacing yields just the endpoints.
func WithMaxSpacing(start, stop, maxSpacing float64) []float64 {
	if maxSpacing <= 0 {
		if IsClose(start, stop) {
			return []float64{start}
		}
		return []float64{start, stop}
	}
	n := int(SafeCeil(math.Abs(stop-start)/maxSpacing)) + 1
	return Linspace(start, stop, n)
}
