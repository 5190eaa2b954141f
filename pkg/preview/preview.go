// Package preview carves a stock block with the cut moves of a compiled
// job and tessellates the result using a geometry kernel.
package preview

import (
	"errors"
	"fmt"

	"github.com/chazu/kerf/pkg/action"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/logging"
	"github.com/chazu/kerf/pkg/point"
	"github.com/chazu/kerf/pkg/state"
	"github.com/chazu/kerf/pkg/steps"
	"github.com/samber/lo"
)

// clearance lifts each tool sweep past the stock top so no face of the
// sweep is coplanar with it.
const clearance = 1.0

// Stock is the raw block. Its top face is at z=0 and its lower-left corner
// at the XY origin.
type Stock struct {
	X, Y, Z float64
}

var errNoTool = errors.New("preview: tool cut diameter must be positive")

// Samples returns the tool positions swept along every cut move, spaced at
// most half the tool radius apart. Positions at or above the stock top
// remove nothing and are dropped. Rapid moves are never sampled.
func Samples(actions *action.List, tool state.Tool) point.List {
	spacing := tool.Radius() / 2
	cuts := lo.Filter(actions.Motions(), func(m *action.Motion, _ int) bool {
		return !m.Rapid()
	})
	pts := lo.FlatMap(cuts, func(m *action.Motion, _ int) []point.Point {
		return sweep(m.From(), m.Point(), spacing)
	})
	pts = lo.Filter(lo.Uniq(pts), func(p point.Point, _ int) bool {
		return p.Z < 0
	})
	return point.ListOf(pts...)
}

// sweep samples the segment from a to b, both ends included.
func sweep(a, b point.Point, spacing float64) []point.Point {
	d := b.Sub(a).Vec()
	length := d.Length()
	if steps.IsClose(length, 0) {
		return []point.Point{a}
	}
	pts := lo.Map(steps.WithMaxSpacing(0, length, spacing), func(s float64, _ int) point.Point {
		return point.Point(a.Vec().Add(d.MulScalar(s / length)))
	})
	pts[len(pts)-1] = b
	return pts
}

// Carve subtracts a cylinder of the tool radius at every sample from the
// stock and returns the tessellated remainder.
func Carve(k kernel.Kernel, actions *action.List, tool state.Tool, stock Stock) (*kernel.Mesh, error) {
	if tool.CutDiameter <= 0 {
		return nil, errNoTool
	}
	if stock.X <= 0 || stock.Y <= 0 || stock.Z <= 0 {
		return nil, fmt.Errorf("preview: stock dimensions must be positive, got %gx%gx%g", stock.X, stock.Y, stock.Z)
	}

	block := k.Translate(k.Box(stock.X, stock.Y, stock.Z), 0, 0, -stock.Z)
	samples := Samples(actions, tool)
	logging.Logger().Debug("carving preview", "samples", samples.Len(), "tool", tool.Name)

	solid := block
	if samples.Len() > 0 {
		cutters := make([]kernel.Solid, 0, samples.Len())
		for _, p := range samples.All() {
			h := -p.Z + clearance
			cutters = append(cutters, k.Translate(k.Cylinder(h, tool.Radius()), p.X, p.Y, p.Z))
		}
		solid = k.Difference(block, k.Union(cutters...))
	}

	mesh, err := k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}
	mesh.Name = "stock"
	return mesh, nil
}
