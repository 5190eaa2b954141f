// Package state holds the machine state shared by every node of one
// assembly tree: the tool, feeds and speeds, per-pass depths, and the
// current absolute position.
//
// State is mutated only inside Let or Excursion. Both restore what they
// changed on every exit path, including errors and panics.
package state

import (
	"fmt"

	"github.com/chazu/kerf/pkg/point"
)

// Tool describes a rotary cutter.
type Tool struct {
	Name          string
	CutDiameter   float64
	ShankDiameter float64
}

// Radius returns half the cut diameter.
func (t Tool) Radius() float64 {
	return t.CutDiameter / 2
}

func (t Tool) String() string {
	return fmt.Sprintf("%s (%gmm)", t.Name, t.CutDiameter)
}

// Carbide3D101 is a 1/8" two-flute flat end mill.
var Carbide3D101 = Tool{Name: "carbide3d-101", CutDiameter: 3.175, ShankDiameter: 3.175}

// DefaultStart is the machine position after homing.
var DefaultStart = point.New(0, 0, 70)

// Defaults.
const (
	DefaultZSafe                = 40
	DefaultSpindleSpeed         = 10000
	DefaultMillingFeedRate      = 150
	DefaultDrillingFeedRate     = 20
	DefaultDepthPerMillingPass  = 0.4
	DefaultDepthPerDrillingPass = 0
	DefaultMillingOverlap       = 0.15
	DefaultZMargin              = 0.5
)

// CncState is the scoped machine state of one generation session.
type CncState struct {
	Tool  Tool
	ZSafe float64

	SpindleSpeed     int
	MillingFeedRate  float64
	DrillingFeedRate float64

	// Maximum depth removed by one pass. Zero means one pass to full
	// depth.
	DepthPerMillingPass  float64
	DepthPerDrillingPass float64

	// Fraction of the cut diameter that neighbouring fill rows overlap.
	MillingOverlap float64

	// Height above a target at which rapid moves stop before cutting.
	ZMargin float64

	// Last commanded feed rate and spindle speed; zero until the first
	// one is sent.
	FeedRate              float64
	CommandedSpindleSpeed int

	Position point.Point
}

// New returns a state with the default parameters.
func New() *CncState {
	return &CncState{
		Tool:                 Carbide3D101,
		ZSafe:                DefaultZSafe,
		SpindleSpeed:         DefaultSpindleSpeed,
		MillingFeedRate:      DefaultMillingFeedRate,
		DrillingFeedRate:     DefaultDrillingFeedRate,
		DepthPerMillingPass:  DefaultDepthPerMillingPass,
		DepthPerDrillingPass: DefaultDepthPerDrillingPass,
		MillingOverlap:       DefaultMillingOverlap,
		ZMargin:              DefaultZMargin,
		Position:             DefaultStart,
	}
}

// Clone returns an independent copy.
func (s *CncState) Clone() *CncState {
	c := *s
	return &c
}

// FillSpacing is the distance between neighbouring fill rows.
func (s *CncState) FillSpacing() float64 {
	return s.Tool.CutDiameter * (1 - s.MillingOverlap)
}

// Excursion runs body and then restores every field to its value before
// the call.
func (s *CncState) Excursion(body func() error) error {
	saved := *s
	defer func() { *s = saved }()
	return body()
}

// Let applies bindings, runs body, and restores only the bound fields.
// Changes body makes to other fields persist.
func (s *CncState) Let(bindings []Binding, body func() error) error {
	restore := s.Bind(bindings...)
	defer restore()
	return body()
}

// Bind applies bindings and returns a function that undoes them in
// reverse order. It is the open-ended form of Let for callers whose scope
// does not fit in one function call.
func (s *CncState) Bind(bindings ...Binding) (restore func()) {
	undo := make([]func(), 0, len(bindings))
	for _, b := range bindings {
		undo = append(undo, b.apply(s))
	}
	return func() {
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
	}
}
