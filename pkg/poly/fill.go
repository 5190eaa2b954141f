package poly

import (
	"fmt"
	"sort"

	"github.com/chazu/kerf/pkg/point"
	"github.com/chazu/kerf/pkg/steps"
	"github.com/samber/lo"
)

// FillEdge is a non-horizontal boundary edge prepared for scanline
// intersection.
type FillEdge struct {
	Index   int // position in Polygon.Edges
	YMin    float64
	YMax    float64
	XAtYMin float64
	DXDY    float64
}

// XAt returns the x coordinate of the edge at height y.
func (e FillEdge) XAt(y float64) float64 {
	return e.XAtYMin + (y-e.YMin)*e.DXDY
}

// Covers reports whether the edge spans height y, endpoints included.
func (e FillEdge) Covers(y float64) bool {
	return y >= e.YMin-steps.Tolerance && y <= e.YMax+steps.Tolerance
}

// FillEdgeTable holds the fill edges of one polygon sorted by YMin.
type FillEdgeTable []FillEdge

// NewFillEdgeTable builds the edge table for p. Horizontal edges are left
// out; the perimeter pass traces them.
func NewFillEdgeTable(p *SimplePolygon) FillEdgeTable {
	var t FillEdgeTable
	for i, e := range p.Edges() {
		if steps.IsClose(e.From.Y, e.To.Y) {
			continue
		}
		lower, upper := e.From, e.To
		if upper.Y < lower.Y {
			lower, upper = upper, lower
		}
		t = append(t, FillEdge{
			Index:   i,
			YMin:    lower.Y,
			YMax:    upper.Y,
			XAtYMin: lower.X,
			DXDY:    (upper.X - lower.X) / (upper.Y - lower.Y),
		})
	}
	sort.SliceStable(t, func(i, j int) bool { return t[i].YMin < t[j].YMin })
	return t
}

// Active returns the edges spanning height y, in table order.
func (t FillEdgeTable) Active(y float64) []FillEdge {
	return lo.Filter(t, func(e FillEdge, _ int) bool { return e.Covers(y) })
}

type crossing struct {
	x    float64
	edge FillEdge
}

// Fill computes a serpentine raster over the interior of p with rows no
// more than maxSpacing apart. It returns the raster points and, for each
// point, whether the move reaching it cuts (true) or jogs (false).
//
// The first and last rows lie on the polygon's extreme y and are left to
// the perimeter pass. Within a row, crossings pair up into cut segments
// with jogs between pairs. A row's first point is reached by a cut only
// when it lies on the same edge as the previous row's last point, so the
// connector runs along the boundary.
func Fill(p *SimplePolygon, maxSpacing float64) (point.List, []bool, error) {
	if maxSpacing <= 0 {
		return point.List{}, nil, fmt.Errorf("poly: fill spacing must be positive, got %g", maxSpacing)
	}
	if !p.IsHorizontal() {
		return point.List{}, nil, ErrNotHorizontal
	}

	lower, upper := p.Bounds()
	z := p.Vertex(0).Z
	rows := steps.WithMaxSpacing(lower.Y, upper.Y, maxSpacing)
	table := NewFillEdgeTable(p)

	var pts point.List
	var cuts []bool
	lastEdge := -1
	for r := 1; r < len(rows)-1; r++ {
		y := rows[r]
		stepped := stepEnds(p, y)
		active := lo.Filter(table.Active(y), func(e FillEdge, _ int) bool { return !stepped[e.Index] })
		hits := lo.Map(active, func(e FillEdge, _ int) crossing {
			return crossing{x: e.XAt(y), edge: e}
		})
		ascending := (r-1)%2 == 0
		sort.SliceStable(hits, func(i, j int) bool {
			if ascending {
				return hits[i].x < hits[j].x
			}
			return hits[i].x > hits[j].x
		})
		hits = dropCusps(hits, y)

		for k, h := range hits {
			cut := k%2 == 1
			if k == 0 {
				cut = len(cuts) > 0 && h.edge.Index == lastEdge
			}
			pts.Append(point.New(h.x, y, z))
			cuts = append(cuts, cut)
		}
		if len(hits) > 0 {
			lastEdge = hits[len(hits)-1].edge.Index
		}
	}
	return pts, cuts, nil
}

// stepEnds returns the edges that end on a horizontal run at height y
// whose neighbours leave the row in opposite directions. The boundary
// crosses the row once along such a step, so only the edge continuing
// upward keeps its crossing. Where both neighbours leave on the same side
// the run is an extremum and both crossings stay.
func stepEnds(p *SimplePolygon, y float64) map[int]bool {
	edges := p.Edges()
	n := len(edges)
	flat := func(i int) bool { return steps.IsClose(edges[i].From.Y, edges[i].To.Y) }
	ends := make(map[int]bool)
	for i, e := range edges {
		if !flat(i) || !steps.IsClose(e.From.Y, y) {
			continue
		}
		prev := (i - 1 + n) % n
		for flat(prev) {
			prev = (prev - 1 + n) % n
		}
		next := (i + 1) % n
		for flat(next) {
			next = (next + 1) % n
		}
		from, to := edges[prev].From.Y, edges[next].To.Y
		switch {
		case from < y && to > y:
			ends[prev] = true
		case from > y && to < y:
			ends[next] = true
		}
	}
	return ends
}

// dropCusps removes duplicate crossings where a row passes exactly through
// a vertex. At a local minimum or maximum both crossings go, since the row
// only touches the boundary there. Otherwise the boundary passes through
// and the later crossing of the pair goes.
func dropCusps(hits []crossing, y float64) []crossing {
	drop := make([]bool, len(hits))
	for i := 0; i+1 < len(hits); i++ {
		a, b := hits[i], hits[i+1]
		if drop[i] || !steps.IsClose(a.x, b.x) {
			continue
		}
		aMin, aMax := steps.IsClose(a.edge.YMin, y), steps.IsClose(a.edge.YMax, y)
		bMin, bMax := steps.IsClose(b.edge.YMin, y), steps.IsClose(b.edge.YMax, y)
		if !(aMin || aMax) || !(bMin || bMax) {
			continue
		}
		if (aMin && bMin) || (aMax && bMax) {
			drop[i], drop[i+1] = true, true
		} else {
			drop[i+1] = true
		}
	}
	return lo.Filter(hits, func(_ crossing, i int) bool { return !drop[i] })
}
