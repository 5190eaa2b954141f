package state

import (
	"errors"
	"testing"

	"github.com/chazu/kerf/pkg/point"
)

func TestDefaults(t *testing.T) {
	s := New()
	if s.ZSafe != 40 || s.SpindleSpeed != 10000 || s.MillingFeedRate != 150 || s.DrillingFeedRate != 20 {
		t.Errorf("unexpected defaults: %+v", s)
	}
	if s.FeedRate != 0 || s.CommandedSpindleSpeed != 0 {
		t.Errorf("feed rate and spindle speed must start uncommanded, got %v and %v", s.FeedRate, s.CommandedSpindleSpeed)
	}
	if !s.Position.Equal(point.New(0, 0, 70)) {
		t.Errorf("Position = %v", s.Position)
	}
	if got := s.FillSpacing(); got < 2.69874 || got > 2.69876 {
		t.Errorf("FillSpacing() = %v, want 2.69875", got)
	}
}

func TestExcursionRestoresEverything(t *testing.T) {
	s := New()
	err := s.Excursion(func() error {
		s.ZSafe = 5
		s.Position = point.XY(1, 2)
		s.FeedRate = 99
		return nil
	})
	if err != nil {
		t.Fatalf("Excursion: %v", err)
	}
	if s.ZSafe != 40 || s.FeedRate != 0 || !s.Position.Equal(DefaultStart) {
		t.Errorf("state not restored: %+v", s)
	}
}

func TestExcursionRestoresOnError(t *testing.T) {
	s := New()
	boom := errors.New("boom")
	err := s.Excursion(func() error {
		s.MillingFeedRate = 1
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if s.MillingFeedRate != 150 {
		t.Errorf("MillingFeedRate = %v after failed excursion", s.MillingFeedRate)
	}
}

func TestExcursionRestoresOnPanic(t *testing.T) {
	s := New()
	func() {
		defer func() { _ = recover() }()
		_ = s.Excursion(func() error {
			s.ZMargin = 7
			panic("boom")
		})
	}()
	if s.ZMargin != 0.5 {
		t.Errorf("ZMargin = %v after panic", s.ZMargin)
	}
}

func TestLetRestoresOnlyBoundFields(t *testing.T) {
	s := New()
	err := s.Let([]Binding{WithZSafe(10), WithFeedRate(15)}, func() error {
		if s.ZSafe != 10 || s.FeedRate != 15 {
			t.Errorf("bindings not applied: %+v", s)
		}
		s.ZSafe = 11
		s.Position = point.XY(3, 4)
		return nil
	})
	if err != nil {
		t.Fatalf("Let: %v", err)
	}
	if s.ZSafe != 40 || s.FeedRate != 0 {
		t.Errorf("bound fields not restored: z_safe=%v feed=%v", s.ZSafe, s.FeedRate)
	}
	if !s.Position.Equal(point.XY(3, 4)) {
		t.Errorf("unbound change was lost: %v", s.Position)
	}
}

func TestLetRestoresOnError(t *testing.T) {
	s := New()
	_ = s.Let([]Binding{WithTool(Tool{Name: "v", CutDiameter: 6})}, func() error {
		return errors.New("fail")
	})
	if s.Tool != Carbide3D101 {
		t.Errorf("Tool = %v", s.Tool)
	}
}

func TestBindNested(t *testing.T) {
	s := New()
	outer := s.Bind(WithZMargin(1))
	inner := s.Bind(WithZMargin(2), WithZMargin(3))
	if s.ZMargin != 3 {
		t.Fatalf("ZMargin = %v", s.ZMargin)
	}
	inner()
	if s.ZMargin != 1 {
		t.Errorf("after inner restore ZMargin = %v, want 1", s.ZMargin)
	}
	outer()
	if s.ZMargin != 0.5 {
		t.Errorf("after outer restore ZMargin = %v, want 0.5", s.ZMargin)
	}
}

func TestNumericBinding(t *testing.T) {
	b, err := NumericBinding("milling_feed_rate", 200)
	if err != nil {
		t.Fatalf("NumericBinding: %v", err)
	}
	if b.String() != "milling-feed-rate" {
		t.Errorf("name = %q", b.String())
	}
	s := New()
	restore := s.Bind(b)
	if s.MillingFeedRate != 200 {
		t.Errorf("MillingFeedRate = %v", s.MillingFeedRate)
	}
	restore()

	if _, err := NumericBinding("warp-speed", 9); err == nil {
		t.Error("expected error for unknown parameter")
	}
}

func TestClone(t *testing.T) {
	s := New()
	c := s.Clone()
	c.ZSafe = 1
	if s.ZSafe != 40 {
		t.Error("Clone shares storage with the original")
	}
}
