package assembly

import (
	"strings"
	"testing"

	"github.com/chazu/kerf/pkg/state"
)

type fussy struct{}

func (fussy) Check(*state.CncState) []ValidationError {
	return []ValidationError{{Message: "depth must be positive", Severity: SeverityError}}
}

func TestValidateDefaults(t *testing.T) {
	root := New("root")
	mustAppend(t, root, SafeJog())
	if errs := Validate(root); len(errs) != 0 {
		t.Errorf("default tree has findings: %v", errs)
	}
}

func TestValidateState(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*state.CncState)
		severity ValidationSeverity
		contains string
	}{
		{"tool", func(s *state.CncState) { s.Tool.CutDiameter = 0 }, SeverityError, "cut diameter"},
		{"milling feed", func(s *state.CncState) { s.MillingFeedRate = -1 }, SeverityError, "milling feed rate"},
		{"drilling feed", func(s *state.CncState) { s.DrillingFeedRate = 0 }, SeverityError, "drilling feed rate"},
		{"spindle", func(s *state.CncState) { s.SpindleSpeed = 0 }, SeverityError, "spindle speed"},
		{"overlap", func(s *state.CncState) { s.MillingOverlap = 1 }, SeverityError, "overlap"},
		{"negative pass", func(s *state.CncState) { s.DepthPerDrillingPass = -1 }, SeverityError, "drilling depth"},
		{"single pass", func(s *state.CncState) { s.DepthPerMillingPass = 0 }, SeverityWarning, "full depth"},
		{"margin", func(s *state.CncState) { s.ZMargin = -0.5 }, SeverityError, "z margin"},
		{"safe z", func(s *state.CncState) { s.ZSafe = 0 }, SeverityWarning, "safe Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := New("root")
			tt.mutate(root.State())
			errs := Validate(root)
			if len(errs) != 1 {
				t.Fatalf("got %d findings, want 1: %v", len(errs), errs)
			}
			if errs[0].Severity != tt.severity {
				t.Errorf("severity = %s, want %s", errs[0].Severity, tt.severity)
			}
			if !strings.Contains(errs[0].Message, tt.contains) {
				t.Errorf("message %q does not mention %q", errs[0].Message, tt.contains)
			}
			if errs[0].Node != "root" {
				t.Errorf("Node = %q, want root", errs[0].Node)
			}
		})
	}
}

func TestValidateCheckerAndFile(t *testing.T) {
	f := File("part")
	r := ValidateAll(f)
	if r.HasErrors() || len(r.Warnings) != 1 {
		t.Fatalf("empty file: %+v", r)
	}

	g := New("group")
	mustAppend(t, g, NewOp("hole", fussy{}))
	mustAppend(t, f, g)
	r = ValidateAll(f)
	if len(r.Warnings) != 0 {
		t.Errorf("warnings = %v", r.Warnings)
	}
	if len(r.Errors) != 1 {
		t.Fatalf("errors = %v", r.Errors)
	}
	if got, want := r.Errors[0].Error(), "[error] node part/group/hole: depth must be positive"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestValidationErrorWithoutNode(t *testing.T) {
	e := ValidationError{Message: "m", Severity: SeverityWarning}
	if got := e.Error(); got != "[warning] m" {
		t.Errorf("Error() = %q", got)
	}
	if got := ValidationSeverity(7).String(); got != "ValidationSeverity(7)" {
		t.Errorf("String() = %q", got)
	}
}
