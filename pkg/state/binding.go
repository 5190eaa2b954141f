package state

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chazu/kerf/pkg/point"
)

// Binding sets one state field for the duration of a Let.
type Binding struct {
	name  string
	apply func(*CncState) (restore func())
}

func (b Binding) String() string {
	return b.name
}

func bind[T any](name string, field func(*CncState) *T, v T) Binding {
	return Binding{name: name, apply: func(s *CncState) func() {
		p := field(s)
		old := *p
		*p = v
		return func() { *p = old }
	}}
}

func WithTool(t Tool) Binding {
	return bind("tool", func(s *CncState) *Tool { return &s.Tool }, t)
}

func WithZSafe(v float64) Binding {
	return bind("z-safe", func(s *CncState) *float64 { return &s.ZSafe }, v)
}

func WithSpindleSpeed(v int) Binding {
	return bind("spindle-speed", func(s *CncState) *int { return &s.SpindleSpeed }, v)
}

func WithMillingFeedRate(v float64) Binding {
	return bind("milling-feed-rate", func(s *CncState) *float64 { return &s.MillingFeedRate }, v)
}

func WithDrillingFeedRate(v float64) Binding {
	return bind("drilling-feed-rate", func(s *CncState) *float64 { return &s.DrillingFeedRate }, v)
}

func WithDepthPerMillingPass(v float64) Binding {
	return bind("depth-per-milling-pass", func(s *CncState) *float64 { return &s.DepthPerMillingPass }, v)
}

func WithDepthPerDrillingPass(v float64) Binding {
	return bind("depth-per-drilling-pass", func(s *CncState) *float64 { return &s.DepthPerDrillingPass }, v)
}

func WithMillingOverlap(v float64) Binding {
	return bind("milling-overlap", func(s *CncState) *float64 { return &s.MillingOverlap }, v)
}

func WithZMargin(v float64) Binding {
	return bind("z-margin", func(s *CncState) *float64 { return &s.ZMargin }, v)
}

func WithFeedRate(v float64) Binding {
	return bind("feed-rate", func(s *CncState) *float64 { return &s.FeedRate }, v)
}

func WithPosition(p point.Point) Binding {
	return bind("position", func(s *CncState) *point.Point { return &s.Position }, p)
}

var numericBindings = map[string]func(float64) Binding{
	"z-safe":                  WithZSafe,
	"spindle-speed":           func(v float64) Binding { return WithSpindleSpeed(int(v)) },
	"milling-feed-rate":       WithMillingFeedRate,
	"drilling-feed-rate":      WithDrillingFeedRate,
	"depth-per-milling-pass":  WithDepthPerMillingPass,
	"depth-per-drilling-pass": WithDepthPerDrillingPass,
	"milling-overlap":         WithMillingOverlap,
	"z-margin":                WithZMargin,
}

// NumericBinding looks up a numeric field by its kebab-case name, as used
// in job scripts. Underscores are accepted in place of hyphens.
func NumericBinding(name string, v float64) (Binding, error) {
	f, ok := numericBindings[strings.ReplaceAll(name, "_", "-")]
	if !ok {
		names := make([]string, 0, len(numericBindings))
		for n := range numericBindings {
			names = append(names, n)
		}
		sort.Strings(names)
		return Binding{}, fmt.Errorf("state: unknown parameter %q (want one of %s)", name, strings.Join(names, ", "))
	}
	return f(v), nil
}
