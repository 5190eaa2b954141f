package action

import (
	"strings"

	"github.com/chazu/kerf/pkg/gcode"
	"github.com/chazu/kerf/pkg/point"
	"github.com/samber/lo"
)

// List is an ordered run of actions. Skipped actions are never stored.
type List struct {
	actions []Action
}

// Append adds a unless it is a skip.
func (l *List) Append(a Action) {
	if a == nil || a.Skip() {
		return
	}
	l.actions = append(l.actions, a)
}

// Extend appends each action in order, dropping skips.
func (l *List) Extend(as ...Action) {
	for _, a := range as {
		l.Append(a)
	}
}

func (l *List) Len() int { return len(l.actions) }

func (l *List) At(i int) Action { return l.actions[i] }

// Actions returns the stored actions. The slice must not be modified.
func (l *List) Actions() []Action { return l.actions }

// Codes flattens every action's instructions.
func (l *List) Codes() []gcode.Code {
	return lo.FlatMap(l.actions, func(a Action, _ int) []gcode.Code { return a.Gcode() })
}

// Gcode renders the list, one instruction per line.
func (l *List) Gcode() string {
	return gcode.Join(l.Codes())
}

// Motions returns the stored moves in order.
func (l *List) Motions() []*Motion {
	return lo.FilterMap(l.actions, func(a Action, _ int) (*Motion, bool) {
		m, ok := a.(*Motion)
		return m, ok
	})
}

// Points returns the destination of every move.
func (l *List) Points() point.List {
	var pts point.List
	for _, m := range l.Motions() {
		pts.Append(m.Point())
	}
	return pts
}

func (l *List) String() string {
	return strings.Join(lo.Map(l.actions, func(a Action, _ int) string { return a.String() }), "\n")
}
