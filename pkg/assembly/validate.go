package assembly

import (
	"fmt"

	"github.com/chazu/kerf/pkg/state"
	"github.com/chazu/kerf/pkg/tree"
)

// ValidationSeverity indicates whether a finding blocks compilation or is
// merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks compilation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Node     string             // path of the node with the problem
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Node == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.Node, e.Message)
}

// Checker is implemented by operations that can check their own
// parameters against the machine state. Node is filled in by Validate.
type Checker interface {
	Check(s *state.CncState) []ValidationError
}

// Validate inspects the declared subtree of n without compiling it and
// returns every finding. It never mutates the tree.
func Validate(n *Node) []ValidationError {
	var errs []ValidationError
	if n.state != nil {
		errs = append(errs, at(n, checkState(n.state))...)
	}
	for ev := range tree.DepthFirstWalk(n, childrenOf) {
		if ev.Kind != tree.PreOrder {
			continue
		}
		node := ev.Node
		if node.state == nil {
			errs = append(errs, ValidationError{Node: node.Path(), Message: "no machine state", Severity: SeverityError})
			continue
		}
		if _, ok := node.op.(file); ok && len(node.children) <= 1 {
			errs = append(errs, ValidationError{Node: node.Path(), Message: "file has no operations", Severity: SeverityWarning})
		}
		if c, ok := node.op.(Checker); ok {
			errs = append(errs, at(node, c.Check(node.state))...)
		}
	}
	return errs
}

// ValidationResult separates blocking findings from advisory ones.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors reports whether any finding blocks compilation.
func (r ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// ValidateAll runs Validate and splits the findings by severity.
func ValidateAll(n *Node) ValidationResult {
	var r ValidationResult
	for _, e := range Validate(n) {
		if e.Severity == SeverityError {
			r.Errors = append(r.Errors, e)
		} else {
			r.Warnings = append(r.Warnings, e)
		}
	}
	return r
}

func at(n *Node, errs []ValidationError) []ValidationError {
	for i := range errs {
		if errs[i].Node == "" {
			errs[i].Node = n.Path()
		}
	}
	return errs
}

func checkState(s *state.CncState) []ValidationError {
	var errs []ValidationError
	fail := func(format string, args ...any) {
		errs = append(errs, ValidationError{Message: fmt.Sprintf(format, args...), Severity: SeverityError})
	}
	warn := func(format string, args ...any) {
		errs = append(errs, ValidationError{Message: fmt.Sprintf(format, args...), Severity: SeverityWarning})
	}

	if s.Tool.CutDiameter <= 0 {
		fail("tool %q cut diameter must be positive, got %g", s.Tool.Name, s.Tool.CutDiameter)
	}
	if s.SpindleSpeed <= 0 {
		fail("spindle speed must be positive, got %d", s.SpindleSpeed)
	}
	if s.MillingFeedRate <= 0 {
		fail("milling feed rate must be positive, got %g", s.MillingFeedRate)
	}
	if s.DrillingFeedRate <= 0 {
		fail("drilling feed rate must be positive, got %g", s.DrillingFeedRate)
	}
	if s.DepthPerMillingPass < 0 {
		fail("milling depth per pass must not be negative, got %g", s.DepthPerMillingPass)
	} else if s.DepthPerMillingPass == 0 {
		warn("milling depth per pass is 0, every cut goes to full depth in one pass")
	}
	if s.DepthPerDrillingPass < 0 {
		fail("drilling depth per pass must not be negative, got %g", s.DepthPerDrillingPass)
	}
	if s.MillingOverlap < 0 || s.MillingOverlap >= 1 {
		fail("milling overlap must be in [0, 1), got %g", s.MillingOverlap)
	}
	if s.ZMargin < 0 {
		fail("z margin must not be negative, got %g", s.ZMargin)
	}
	if s.ZSafe <= 0 {
		warn("safe Z %g is at or below the stock top", s.ZSafe)
	}
	return errs
}
