package cut

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/chazu/kerf/pkg/assembly"
	"github.com/chazu/kerf/pkg/point"
	"github.com/chazu/kerf/pkg/poly"
	"github.com/chazu/kerf/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}

func xy(coords ...[2]float64) point.List {
	var l point.List
	for _, c := range coords {
		l.Append(point.XY(c[0], c[1]))
	}
	return l
}

func square(half float64) point.List {
	return xy([2]float64{-half, -half}, [2]float64{half, -half}, [2]float64{half, half}, [2]float64{-half, half})
}

func newRoot(t *testing.T, mutate func(*state.CncState), children ...*assembly.Node) *assembly.Node {
	t.Helper()
	root := assembly.New("root")
	if mutate != nil {
		mutate(root.State())
	}
	require.NoError(t, root.Append(children...))
	return root
}

func gcode(t *testing.T, n *assembly.Node) string {
	t.Helper()
	g, err := n.Gcode()
	require.NoError(t, err)
	return g
}

func TestParseCutStyle(t *testing.T) {
	for _, s := range []Style{FollowCut, OutsideCut, InsideCut} {
		got, err := ParseCutStyle(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseCutStyle("sideways-cut")
	assert.ErrorIs(t, err, ErrUnknownCutStyle)
}

func TestDogboneRequiresInsideCut(t *testing.T) {
	for _, s := range []Style{FollowCut, OutsideCut} {
		_, err := Polygon(square(1), 1, s, false, true)
		assert.ErrorIs(t, err, ErrDogboneStyle, s.String())
	}
	_, err := Polygon(square(1), 1, InsideCut, false, true)
	assert.NoError(t, err)
	_, err = Polygon(square(1), 1, Style(9), false, false)
	assert.ErrorIs(t, err, ErrUnknownCutStyle)
}

func TestUnsafeDrill(t *testing.T) {
	root := newRoot(t, func(s *state.CncState) {
		s.FeedRate = 150
		s.DrillingFeedRate = 19
	}, UnsafeDrill(13).Translate(7, 11, 0))

	assert.Equal(t, lines(
		"F 19.00000",
		"G1 X7.00000 Y11.00000 Z-13.00000",
		"G1 Z0.00000",
	), gcode(t, root))
}

func TestDrill(t *testing.T) {
	root := newRoot(t, func(s *state.CncState) {
		s.FeedRate = 150
		s.DrillingFeedRate = 20
	}, Drill(13).Translate(7, 11, 0))

	want := lines(
		"G0 Z40.00000",
		"G0 X7.00000 Y11.00000",
		"G0 Z0.50000",
		"F 20.00000",
		"G1 Z-13.00000",
		"G1 Z0.00000",
	)
	assert.Equal(t, want, gcode(t, root))
	assert.Equal(t, want, gcode(t, root), "second compile")
}

func TestPeckDrill(t *testing.T) {
	root := newRoot(t, func(s *state.CncState) {
		s.FeedRate = 150
		s.DepthPerDrillingPass = 1
	}, Drill(9.9).Translate(7, 11, 0))

	want := []string{"G0 Z40.00000", "G0 X7.00000 Y11.00000", "G0 Z0.50000", "F 20.00000"}
	for i := 1; i <= 10; i++ {
		want = append(want, fmt.Sprintf("G1 Z%.5f", -0.99*float64(i)), "G1 Z0.00000")
	}
	assert.Equal(t, lines(want...), gcode(t, root))
}

func TestDrillPoints(t *testing.T) {
	root := newRoot(t, func(s *state.CncState) { s.DepthPerDrillingPass = 1 }, Drill(3).Translate(7, 11, 0))
	pts, err := root.Points()
	require.NoError(t, err)
	want := point.ListOf(
		point.New(0, 0, 40), point.New(7, 11, 40), point.New(7, 11, 0.5),
		point.New(7, 11, -1), point.New(7, 11, 0),
		point.New(7, 11, -2), point.New(7, 11, 0),
		point.New(7, 11, -3), point.New(7, 11, 0),
	)
	assert.True(t, want.Equal(pts), "got %v", pts)
}

func TestMill(t *testing.T) {
	root := newRoot(t, func(s *state.CncState) {
		s.FeedRate = 150
		s.MillingFeedRate = 50
	}, Mill(xy([2]float64{0, 0}, [2]float64{17, 19})).Translate(7, 11, 0), assembly.SafeZ())

	assert.Equal(t, lines(
		"G0 Z40.00000",
		"G0 X7.00000 Y11.00000",
		"G0 Z0.50000",
		"F 50.00000",
		"G1 Z0.00000",
		"G1 X24.00000 Y30.00000",
		"G0 Z40.00000",
	), gcode(t, root))

	acts, err := root.Actions()
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"Jog (0.00000, 0.00000, 40.00000)",
		"Jog (7.00000, 11.00000, 40.00000)",
		"Jog (7.00000, 11.00000, 0.50000)",
		"SetMillFeedRate (7.00000, 11.00000, 0.50000) 50.00000",
		"Cut (7.00000, 11.00000, 0.00000)",
		"Cut (24.00000, 30.00000, 0.00000)",
		"Jog (24.00000, 30.00000, 40.00000)",
	}, "\n"), acts.String())
}

func TestMillUnderTranslatedParent(t *testing.T) {
	m := Mill(xy([2]float64{0, 0}, [2]float64{-1, 0}, [2]float64{1, 0}, [2]float64{-1, 0}))
	root := newRoot(t, func(s *state.CncState) { s.MillingFeedRate = 50 }, m)
	root.Translate(7, 11, 0)

	assert.Equal(t, lines(
		"G0 Z40.00000",
		"G0 X7.00000 Y11.00000",
		"G0 Z0.50000",
		"F 50.00000",
		"G1 Z0.00000",
		"G1 X6.00000",
		"G1 X8.00000",
		"G1 X6.00000",
	), gcode(t, root))
}

func TestMillEmpty(t *testing.T) {
	root := newRoot(t, nil, Mill(point.List{}))
	_, err := root.Gcode()
	assert.ErrorIs(t, err, errEmptyPath)
	assert.Len(t, assembly.ValidateAll(root).Errors, 1)
}

func TestPolygonFollowCut(t *testing.T) {
	p, err := Polygon(square(1), 1, FollowCut, false, false)
	require.NoError(t, err)
	root := newRoot(t, func(s *state.CncState) { s.MillingFeedRate = 40 }, p.Translate(7, 11, 0))

	perimeter := []string{"G1 X8.00000", "G1 Y12.00000", "G1 X6.00000", "G1 Y10.00000"}
	var want []string
	want = append(want, "G0 Z40.00000", "G0 X6.00000 Y10.00000", "G0 Z0.50000", "F 40.00000", "G1 Z0.00000")
	want = append(want, perimeter...)
	for _, z := range []string{"-0.33333", "-0.66667", "-1.00000"} {
		want = append(want, "G1 Z"+z)
		want = append(want, perimeter...)
	}
	assert.Equal(t, lines(want...), gcode(t, root))
}

func TestPolygonFilledConvex(t *testing.T) {
	p, err := Polygon(square(5.3975), 1, FollowCut, true, false)
	require.NoError(t, err)
	root := newRoot(t, func(s *state.CncState) {
		s.MillingFeedRate = 40
		s.DepthPerMillingPass = 0.25
	}, p)

	layer := []string{
		"G1 X5.39750",
		"G1 Y0.00000",
		"G1 X-5.39750",
		"G1 Y2.69875",
		"G1 X5.39750",
		"G1 X-5.39750 Y-5.39750",
		"G1 X5.39750",
		"G1 Y5.39750",
		"G1 X-5.39750",
		"G1 Y-5.39750",
	}
	want := []string{"G0 Z40.00000", "G0 X-5.39750 Y-2.69875", "G0 Z0.50000", "F 40.00000", "G1 Z0.00000"}
	want = append(want, layer...)
	for _, z := range []string{"-0.25000", "-0.50000", "-0.75000", "-1.00000"} {
		want = append(want, "G1 Y-2.69875", "G1 Z"+z)
		want = append(want, layer...)
	}
	assert.Equal(t, lines(want...), gcode(t, root))
}

func TestPolygonFilledConcave(t *testing.T) {
	verts := xy([2]float64{0, 0}, [2]float64{3, 1}, [2]float64{2, 3}, [2]float64{1, 2}, [2]float64{-1, 3})
	p, err := Polygon(verts, 0.5, FollowCut, true, false)
	require.NoError(t, err)
	root := newRoot(t, func(s *state.CncState) {
		s.MillingFeedRate = 40
		s.MillingOverlap = 0.842519685039 // 0.5mm rows
		s.DepthPerMillingPass = 0.5
	}, p)

	raster := []string{
		"G1 X1.50000",
		"G1 X3.00000 Y1.00000",
		"G1 X-0.33333",
		"G1 X-0.50000 Y1.50000",
		"G1 X2.75000",
		"G1 X2.50000 Y2.00000",
		"G1 X-0.66667",
		"G1 X-0.83333 Y2.50000",
		"G1 X0.00000",
	}
	perimeter := []string{
		"G1 X3.00000 Y1.00000",
		"G1 X2.00000 Y3.00000",
		"G1 X1.00000 Y2.00000",
		"G1 X-1.00000 Y3.00000",
		"G1 X0.00000 Y0.00000",
	}
	// Crossing the notch and returning to the perimeter start both lift to
	// safe Z and plunge.
	layer := func(margin, level string) []string {
		var out []string
		out = append(out, raster...)
		out = append(out, "G0 Z40.00000", "G0 X1.50000", "G0 Z"+margin, "G1 Z"+level, "G1 X2.25000")
		out = append(out, "G0 Z40.00000", "G0 X0.00000 Y0.00000", "G0 Z"+margin, "G1 Z"+level)
		return append(out, perimeter...)
	}

	want := []string{"G0 Z40.00000", "G0 X-0.16667 Y0.50000", "G0 Z0.50000", "F 40.00000", "G1 Z0.00000"}
	want = append(want, layer("0.50000", "0.00000")...)
	want = append(want, "G0 Z40.00000", "G0 X-0.16667 Y0.50000", "G0 Z0.00000", "G1 Z-0.50000")
	want = append(want, layer("0.00000", "-0.50000")...)
	assert.Equal(t, lines(want...), gcode(t, root))
}

func TestPolygonInsideCutDogbone(t *testing.T) {
	sq := xy([2]float64{0, 0}, [2]float64{10, 0}, [2]float64{10, 10}, [2]float64{0, 10})
	p, err := Polygon(sq, 1, InsideCut, false, true)
	require.NoError(t, err)
	root := newRoot(t, func(s *state.CncState) { s.DepthPerMillingPass = 1 }, p)

	trace := []string{
		"G1 X8.41250",
		"G1 X8.87747 Y1.12253",
		"G1 X8.41250 Y1.58750",
		"G1 Y8.41250",
		"G1 X8.87747 Y8.87747",
		"G1 X8.41250 Y8.41250",
		"G1 X1.58750",
		"G1 X1.12253 Y8.87747",
		"G1 X1.58750 Y8.41250",
		"G1 Y1.58750",
		"G1 X1.12253 Y1.12253",
		"G1 X1.58750 Y1.58750",
	}
	want := []string{"G0 Z40.00000", "G0 X1.58750 Y1.58750", "G0 Z0.50000", "F 150.00000", "G1 Z0.00000"}
	want = append(want, trace...)
	want = append(want, "G1 Z-1.00000")
	want = append(want, trace...)
	assert.Equal(t, lines(want...), gcode(t, root))
}

func TestPolygonOutsideCut(t *testing.T) {
	sq := xy([2]float64{0, 0}, [2]float64{10, 0}, [2]float64{10, 10}, [2]float64{0, 10})
	p, err := Polygon(sq, 0.4, OutsideCut, false, false)
	require.NoError(t, err)
	pts, err := newRoot(t, nil, p).Points()
	require.NoError(t, err)

	require.GreaterOrEqual(t, pts.Len(), 2)
	assert.True(t, pts.At(1).Equal(point.New(-1.5875, -1.5875, 40)), "got %v", pts.At(1))
	for _, q := range pts.Points() {
		assert.False(t, q.X > -1.5875+1e-6 && q.X < 11.5875-1e-6 &&
			q.Y > -1.5875+1e-6 && q.Y < 11.5875-1e-6 && q.Z < 0,
			"outside cut entered the part at %v", q)
	}
}

func TestPolygonGeometryErrors(t *testing.T) {
	bowtie := xy([2]float64{0, 0}, [2]float64{2, 2}, [2]float64{2, 0}, [2]float64{0, 2})
	p, err := Polygon(bowtie, 1, FollowCut, false, false)
	require.NoError(t, err)
	_, err = newRoot(t, nil, p).Gcode()
	assert.ErrorIs(t, err, poly.ErrNotSimple)

	tiny, err := Polygon(square(1), 1, InsideCut, false, false)
	require.NoError(t, err)
	_, err = newRoot(t, nil, tiny).Gcode()
	var re *poly.ResizeError
	require.True(t, errors.As(err, &re), "got %v", err)
	assert.ErrorIs(t, err, poly.ErrInverted)
}

func TestValidateDepths(t *testing.T) {
	p, err := Polygon(xy([2]float64{0, 0}, [2]float64{1, 0}), 0, FollowCut, false, false)
	require.NoError(t, err)
	root := newRoot(t, nil, Drill(0), UnsafeDrill(-1), p)
	errs := assembly.ValidateAll(root).Errors
	assert.Len(t, errs, 4)
	assert.Contains(t, errs[0].Error(), "root/drill")
}
