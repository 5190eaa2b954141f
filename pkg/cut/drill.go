package cut

import (
	"fmt"

	"github.com/chazu/kerf/pkg/action"
	"github.com/chazu/kerf/pkg/assembly"
	"github.com/chazu/kerf/pkg/logging"
	"github.com/chazu/kerf/pkg/point"
	"github.com/chazu/kerf/pkg/state"
	"github.com/chazu/kerf/pkg/steps"
	"github.com/samber/lo"
)

type unsafeDrill struct {
	depth float64
}

func (o unsafeDrill) PreorderActions(ctx *assembly.Context) ([]action.Action, error) {
	s := ctx.State
	return []action.Action{
		action.SetDrillFeedRate(s),
		action.Cut(s, ctx.Apply(point.New(0, 0, -o.depth))),
		action.Cut(s, ctx.Origin()),
	}, nil
}

func (o unsafeDrill) Check(*state.CncState) []assembly.ValidationError {
	return checkDepth(o.depth)
}

// UnsafeDrill plunges straight to depth below the transformed origin and
// back, at the drilling feed rate. It does not position the tool first.
func UnsafeDrill(depth float64) *assembly.Node {
	return assembly.NewOp("unsafe-drill", unsafeDrill{depth: depth})
}

type drill struct {
	depth float64
}

func (o drill) Plan(ctx *assembly.Context) ([]*assembly.Node, error) {
	if o.depth <= 0 {
		return nil, fmt.Errorf("cut: drill depth must be positive, got %g", o.depth)
	}
	levels := lo.Drop(steps.WithMaxSpacing(0, -o.depth, ctx.State.DepthPerDrillingPass), 1)
	plan := []*assembly.Node{assembly.SafeJog()}
	for _, z := range levels {
		plan = append(plan, UnsafeDrill(-z))
	}
	logging.Logger().Debug("drill planned", "depth", o.depth, "pecks", len(levels))
	return plan, nil
}

func (o drill) Check(*state.CncState) []assembly.ValidationError {
	return checkDepth(o.depth)
}

// Drill safe-jogs above the transformed origin and drills to depth, in
// pecks of at most the state's drilling depth per pass.
func Drill(depth float64) *assembly.Node {
	return assembly.NewOp("drill", drill{depth: depth})
}

func checkDepth(depth float64) []assembly.ValidationError {
	if depth > 0 {
		return nil
	}
	return []assembly.ValidationError{{
		Message:  fmt.Sprintf("depth must be positive, got %g", depth),
		Severity: assembly.SeverityError,
	}}
}
