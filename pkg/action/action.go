// Package action turns machine intents into resolved instructions.
//
// Every constructor takes the live *state.CncState, reads what it needs,
// and advances it (position, commanded feed rate and spindle speed) as the
// machine would. An action that would change nothing reports Skip and
// renders no G-code.
package action

import (
	"fmt"

	"github.com/chazu/kerf/pkg/gcode"
	"github.com/chazu/kerf/pkg/point"
	"github.com/chazu/kerf/pkg/state"
	"github.com/chazu/kerf/pkg/steps"
)

// Action is one resolved instruction.
type Action interface {
	// Point is the machine position once the action has run.
	Point() point.Point
	// Skip reports that the action changes nothing.
	Skip() bool
	Gcode() []gcode.Code
	String() string
}

// Motion is a straight move, rapid (Jog) or feeding (Cut).
type Motion struct {
	rapid    bool
	from, to point.Point
}

// Jog moves to p without cutting.
func Jog(s *state.CncState, p point.Point) *Motion {
	return move(s, true, p)
}

// Cut moves to p at the current feed rate.
func Cut(s *state.CncState, p point.Point) *Motion {
	return move(s, false, p)
}

func move(s *state.CncState, rapid bool, p point.Point) *Motion {
	m := &Motion{rapid: rapid, from: s.Position, to: p}
	s.Position = p
	return m
}

func (m *Motion) Rapid() bool        { return m.rapid }
func (m *Motion) From() point.Point  { return m.from }
func (m *Motion) Point() point.Point { return m.to }
func (m *Motion) Skip() bool         { return m.from.Equal(m.to) }

// Gcode renders only the axes that change.
func (m *Motion) Gcode() []gcode.Code {
	var words []gcode.Word
	if !steps.IsClose(m.from.X, m.to.X) {
		words = append(words, gcode.X(m.to.X))
	}
	if !steps.IsClose(m.from.Y, m.to.Y) {
		words = append(words, gcode.Y(m.to.Y))
	}
	if !steps.IsClose(m.from.Z, m.to.Z) {
		words = append(words, gcode.Z(m.to.Z))
	}
	if len(words) == 0 {
		return nil
	}
	if m.rapid {
		return []gcode.Code{gcode.G0(words...)}
	}
	return []gcode.Code{gcode.G1(words...)}
}

func (m *Motion) String() string {
	if m.rapid {
		return "Jog " + m.to.String()
	}
	return "Cut " + m.to.String()
}

// FeedRate commands a new feed rate. It is skipped when the machine is
// already at that rate.
type FeedRate struct {
	name string
	at   point.Point
	rate float64
	skip bool
}

// SetFeedRate commands rate.
func SetFeedRate(s *state.CncState, rate float64) *FeedRate {
	return setFeedRate(s, "SetFeedRate", rate)
}

// SetMillFeedRate commands the state's milling feed rate.
func SetMillFeedRate(s *state.CncState) *FeedRate {
	return setFeedRate(s, "SetMillFeedRate", s.MillingFeedRate)
}

// SetDrillFeedRate commands the state's drilling feed rate.
func SetDrillFeedRate(s *state.CncState) *FeedRate {
	return setFeedRate(s, "SetDrillFeedRate", s.DrillingFeedRate)
}

func setFeedRate(s *state.CncState, name string, rate float64) *FeedRate {
	f := &FeedRate{name: name, at: s.Position, rate: rate}
	if s.FeedRate != 0 && steps.IsClose(s.FeedRate, rate) {
		f.skip = true
	}
	s.FeedRate = rate
	return f
}

func (f *FeedRate) Rate() float64      { return f.rate }
func (f *FeedRate) Point() point.Point { return f.at }
func (f *FeedRate) Skip() bool         { return f.skip }

func (f *FeedRate) Gcode() []gcode.Code {
	if f.skip {
		return nil
	}
	return []gcode.Code{gcode.SetFeedRate(f.rate)}
}

func (f *FeedRate) String() string {
	return fmt.Sprintf("%s %s %s", f.name, f.at, gcode.Number(f.rate))
}

// Command wraps an instruction that does not move the machine.
type Command struct {
	name string
	at   point.Point
	code gcode.Code
}

func command(s *state.CncState, name string, code gcode.Code) *Command {
	return &Command{name: name, at: s.Position, code: code}
}

// Home runs the homing cycle. The position becomes state.DefaultStart.
func Home(s *state.CncState) *Command {
	s.Position = state.DefaultStart
	return command(s, "Home", gcode.Home)
}

func UnitsMillimeters(s *state.CncState) *Command {
	return command(s, "UnitsMillimeters", gcode.UnitsMillimeters)
}

func MotionAbsolute(s *state.CncState) *Command {
	return command(s, "MotionAbsolute", gcode.MotionAbsolute)
}

// SpindleSpeed commands the state's spindle speed. It is skipped when the
// spindle was already commanded to that speed.
type SpindleSpeed struct {
	at   point.Point
	rpm  int
	skip bool
}

func SetSpindleSpeed(s *state.CncState) *SpindleSpeed {
	sp := &SpindleSpeed{at: s.Position, rpm: s.SpindleSpeed}
	sp.skip = s.CommandedSpindleSpeed != 0 && s.CommandedSpindleSpeed == s.SpindleSpeed
	s.CommandedSpindleSpeed = s.SpindleSpeed
	return sp
}

func (sp *SpindleSpeed) RPM() int           { return sp.rpm }
func (sp *SpindleSpeed) Point() point.Point { return sp.at }
func (sp *SpindleSpeed) Skip() bool         { return sp.skip }

func (sp *SpindleSpeed) Gcode() []gcode.Code {
	if sp.skip {
		return nil
	}
	return []gcode.Code{gcode.SetSpindleSpeed(sp.rpm)}
}

func (sp *SpindleSpeed) String() string {
	return fmt.Sprintf("SetSpindleSpeed %s %d", sp.at, sp.rpm)
}

func ActivateSpindleCW(s *state.CncState) *Command {
	return command(s, "ActivateSpindleCW", gcode.ActivateSpindleCW)
}

func StopSpindle(s *state.CncState) *Command {
	return command(s, "StopSpindle", gcode.StopSpindle)
}

func Comment(s *state.CncState, text string) *Command {
	return command(s, "Comment", gcode.Comment(text))
}

func (c *Command) Point() point.Point  { return c.at }
func (c *Command) Skip() bool          { return false }
func (c *Command) Gcode() []gcode.Code { return []gcode.Code{c.code} }

func (c *Command) String() string {
	return fmt.Sprintf("%s %s %s", c.name, c.at, c.code)
}
