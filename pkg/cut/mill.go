package cut

import (
	"errors"

	"github.com/chazu/kerf/pkg/action"
	"github.com/chazu/kerf/pkg/assembly"
	"github.com/chazu/kerf/pkg/point"
	"github.com/chazu/kerf/pkg/state"
)

var errEmptyPath = errors.New("cut: mill path has no points")

// path cuts through absolute points at the milling feed rate.
type path struct {
	points point.List
}

func (o path) PreorderActions(ctx *assembly.Context) ([]action.Action, error) {
	s := ctx.State
	acts := []action.Action{action.SetMillFeedRate(s)}
	for _, p := range o.points.All() {
		acts = append(acts, action.Cut(s, p))
	}
	return acts, nil
}

type mill struct {
	points point.List
}

func (o mill) Plan(ctx *assembly.Context) ([]*assembly.Node, error) {
	if o.points.Len() == 0 {
		return nil, errEmptyPath
	}
	pts := ctx.ApplyAll(o.points)
	return []*assembly.Node{
		assembly.SafeJogTo(pts.At(0)),
		assembly.NewOp("path", path{points: pts}),
	}, nil
}

func (o mill) Check(*state.CncState) []assembly.ValidationError {
	if o.points.Len() > 0 {
		return nil
	}
	return []assembly.ValidationError{{Message: errEmptyPath.Error(), Severity: assembly.SeverityError}}
}

// Mill safe-jogs to the first transformed point and cuts through every
// point in order.
func Mill(points point.List) *assembly.Node {
	return assembly.NewOp("mill", mill{points: points})
}
