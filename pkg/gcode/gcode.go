// Package gcode renders single G-code instructions, one per line, in the
// dialect accepted by GRBL controllers.
package gcode

import (
	"fmt"
	"strconv"
	"strings"
)

// Code is one rendered instruction.
type Code interface {
	String() string
}

// Command is an instruction without arguments.
type Command string

func (c Command) String() string { return string(c) }

const (
	Home              Command = "$H"
	UnitsInches       Command = "G20"
	UnitsMillimeters  Command = "G21"
	MotionAbsolute    Command = "G90"
	ActivateSpindleCW Command = "M3"
	StopSpindle       Command = "M5"
)

// SetSpindleSpeed sets the spindle speed in revolutions per minute.
type SetSpindleSpeed int

func (s SetSpindleSpeed) String() string {
	return fmt.Sprintf("S %d", int(s))
}

// SetFeedRate sets the feed rate in units per minute.
type SetFeedRate float64

func (f SetFeedRate) String() string {
	return "F " + Number(float64(f))
}

// Comment renders as a parenthesised comment. Parentheses and line breaks
// inside the text would end the comment early, so they are replaced.
type Comment string

var commentReplacer = strings.NewReplacer("(", "[", ")", "]", "\r", " ", "\n", " ")

func (c Comment) String() string {
	return "(" + commentReplacer.Replace(string(c)) + ")"
}

// Word is an axis letter and its value.
type Word struct {
	Letter byte
	Value  float64
}

func X(v float64) Word { return Word{'X', v} }
func Y(v float64) Word { return Word{'Y', v} }
func Z(v float64) Word { return Word{'Z', v} }

func (w Word) String() string {
	return string(w.Letter) + Number(w.Value)
}

// Motion is a linear move: G0 (rapid, not cutting) or G1 (feed, cutting).
type Motion struct {
	Rapid bool
	Words []Word
}

func G0(words ...Word) Motion { return Motion{Rapid: true, Words: words} }
func G1(words ...Word) Motion { return Motion{Words: words} }

func (m Motion) String() string {
	var b strings.Builder
	if m.Rapid {
		b.WriteString("G0")
	} else {
		b.WriteString("G1")
	}
	for _, w := range m.Words {
		b.WriteByte(' ')
		b.WriteString(w.String())
	}
	return b.String()
}

// Number formats v with five decimals. Values that round to zero print
// without a sign.
func Number(v float64) string {
	s := strconv.FormatFloat(v, 'f', 5, 64)
	if s == "-0.00000" {
		return "0.00000"
	}
	return s
}

// Join renders codes one per line, each terminated by a newline.
func Join(codes []Code) string {
	var b strings.Builder
	for _, c := range codes {
		b.WriteString(c.String())
		b.WriteByte('\n')
	}
	return b.String()
}
