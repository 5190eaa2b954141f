// Package engine evaluates kerf job scripts. It wraps zygomys in a
// sandboxed environment and produces an assembly tree from user source.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/chazu/kerf/pkg/assembly"
	"github.com/chazu/kerf/pkg/logging"
	"github.com/chazu/kerf/pkg/state"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning is an advisory finding about an evaluated job.
type EvalWarning struct {
	Line    int
	Col     int
	Message string
	Node    string // path of the node concerned, if any
}

func (w EvalWarning) String() string {
	if w.Node == "" {
		return w.Message
	}
	return fmt.Sprintf("%s: %s", w.Node, w.Message)
}

// EvalResult bundles an evaluated and validated job.
type EvalResult struct {
	Root     *assembly.Node
	Errors   []EvalError
	Warnings []EvalWarning
}

// Engine wraps the zygomys interpreter for kerf job scripts.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	tools      func(name string) (state.Tool, bool)
	initial    *state.CncState
}

// Option configures an Engine.
type Option func(*Engine)

// WithToolLookup lets scripts select a tool preset by name with
// (with-state :tool "name" ...).
func WithToolLookup(lookup func(name string) (state.Tool, bool)) Option {
	return func(e *Engine) { e.tools = lookup }
}

// WithInitialState gives every evaluated job a copy of s as its starting
// machine state.
func WithInitialState(s *state.CncState) Option {
	return func(e *Engine) { e.initial = s }
}

// NewEngine creates a new Engine instance.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs a job script and returns the root of the tree it builds.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns root + nil errors + nil error
//   - On parse/eval failure: returns nil root + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*assembly.Node, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		root, evalErrs, err := e.evaluate(source)
		ch <- evalResult{root: root, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// Build evaluates source and validates the resulting tree. Validation
// errors are reported as eval errors without line information.
func (e *Engine) Build(source string) (EvalResult, error) {
	root, evalErrs, err := e.Evaluate(source)
	if err != nil {
		return EvalResult{}, err
	}
	if len(evalErrs) > 0 {
		return EvalResult{Errors: evalErrs}, nil
	}

	res := EvalResult{Root: root}
	v := assembly.ValidateAll(root)
	for _, w := range v.Warnings {
		res.Warnings = append(res.Warnings, EvalWarning{Message: w.Message, Node: w.Node})
	}
	if v.HasErrors() {
		res.Root = nil
		for _, ve := range v.Errors {
			res.Errors = append(res.Errors, EvalError{Message: ve.Error()})
		}
	}
	return res, nil
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*assembly.Node, []EvalError, error) {
	b := &builder{tools: e.tools}

	// Empty source is a valid program that produces an empty job.
	if strings.TrimSpace(source) == "" {
		root, err := b.result()
		if err != nil {
			return nil, nil, err
		}
		return e.start(root), nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, b)

	err := env.LoadString(preprocessSource(source))
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	_, err = env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	root, err := b.result()
	if err != nil {
		return nil, []EvalError{{Message: err.Error()}}, nil
	}
	logging.Logger().Debug("job evaluated", "root", root.Name(), "nodes", len(b.created))
	return e.start(root), nil, nil
}

func (e *Engine) start(root *assembly.Node) *assembly.Node {
	if e.initial != nil {
		root.SetState(e.initial.Clone())
	}
	return root
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	// Fallback: no line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
