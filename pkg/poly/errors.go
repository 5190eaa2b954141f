package poly

import (
	"errors"
	"fmt"
)

var (
	ErrTooFewVertices = errors.New("poly: a polygon needs at least 3 vertices")
	ErrZeroLengthEdge = errors.New("poly: consecutive vertices coincide")
	ErrNotCoplanar    = errors.New("poly: vertices are not coplanar")
	ErrCollinear      = errors.New("poly: vertices are collinear")
	ErrNotSimple      = errors.New("poly: boundary intersects itself")
	ErrNotHorizontal  = errors.New("poly: polygon is not parallel to the XY plane")
	ErrInverted       = errors.New("poly: offset turned the boundary inside out")
)

// ResizeError reports an offset whose result is not a valid simple
// polygon.
type ResizeError struct {
	Distance float64
	Err      error
}

func (e *ResizeError) Error() string {
	return fmt.Sprintf("poly: offset by %g: %v", e.Distance, e.Err)
}

func (e *ResizeError) Unwrap() error {
	return e.Err
}
