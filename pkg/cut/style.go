// Package cut provides the machining operations: drilling, milling along a
// path, and cutting polygons with optional fill and dogbone corners.
package cut

import (
	"errors"
	"fmt"
)

// Parameter errors.
var (
	ErrUnknownCutStyle = errors.New("cut: unknown cut style")
	ErrDogboneStyle    = errors.New("cut: dogbone requires an inside cut")
)

// Style selects how a polygon cut compensates for the tool radius.
type Style int

const (
	// FollowCut runs the tool centre along the vertices.
	FollowCut Style = iota
	// OutsideCut keeps the tool outside the polygon.
	OutsideCut
	// InsideCut keeps the tool inside the polygon.
	InsideCut
)

func (s Style) String() string {
	switch s {
	case FollowCut:
		return "follow-cut"
	case OutsideCut:
		return "outside-cut"
	case InsideCut:
		return "inside-cut"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

// ParseCutStyle parses "follow-cut", "outside-cut" or "inside-cut".
func ParseCutStyle(s string) (Style, error) {
	switch s {
	case "follow-cut":
		return FollowCut, nil
	case "outside-cut":
		return OutsideCut, nil
	case "inside-cut":
		return InsideCut, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownCutStyle, s)
}
