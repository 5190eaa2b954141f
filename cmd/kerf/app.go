package main

import (
	"fmt"

	"github.com/chazu/kerf/pkg/config"
	"github.com/chazu/kerf/pkg/engine"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/logging"
	"github.com/chazu/kerf/pkg/preview"
)

// App wires the job engine, the presets and the preview kernel together.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
	config *config.Config
}

// Result is everything one compilation produces.
type Result struct {
	Gcode    string
	Preview  *kernel.Mesh // nil unless requested
	Errors   []engine.EvalError
	Warnings []engine.EvalWarning
}

// NewApp creates an App that starts every job from the machine section of
// cfg and carves previews with k.
func NewApp(cfg *config.Config, k kernel.Kernel) (*App, error) {
	s, err := cfg.State()
	if err != nil {
		return nil, err
	}
	return &App{
		engine: engine.NewEngine(engine.WithToolLookup(cfg.Tool), engine.WithInitialState(s)),
		kernel: k,
		config: cfg,
	}, nil
}

// Compile evaluates a job script, validates it and resolves it to G-code,
// carving a preview when withPreview is set.
func (a *App) Compile(source string, withPreview bool) Result {
	var result Result

	// Step 1: Evaluate and validate the script.
	res, err := a.engine.Build(source)
	if err != nil {
		logging.Logger().Error("evaluate failed", "err", err)
		result.Errors = append(result.Errors, engine.EvalError{Message: err.Error()})
		return result
	}
	result.Warnings = res.Warnings
	if len(res.Errors) > 0 {
		result.Errors = res.Errors
		return result
	}

	// Step 2: Resolve the tree into actions.
	acts, err := res.Root.Actions()
	if err != nil {
		result.Errors = append(result.Errors, engine.EvalError{Message: err.Error()})
		return result
	}
	result.Gcode = acts.Gcode()
	logging.Logger().Debug("compiled", "job", res.Root.Name(), "actions", acts.Len())

	// Step 3: Carve the stock.
	if withPreview {
		st := a.config.Stock
		mesh, err := preview.Carve(a.kernel, acts, res.Root.State().Tool, preview.Stock{X: st.X, Y: st.Y, Z: st.Z})
		if err != nil {
			result.Errors = append(result.Errors, engine.EvalError{Message: fmt.Sprintf("preview failed: %v", err)})
			return result
		}
		result.Preview = mesh
	}
	return result
}
