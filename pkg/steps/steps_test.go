package steps

import (
	"math"
	"testing"
)

func TestSafeCeil(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{2.1, 3},
		{3.0000000001, 3},
		{2.9999999999, 3},
		{-1.5, -1},
	}
	for _, tt := range tests {
		if got := SafeCeil(tt.in); got != tt.want {
			t.Errorf("SafeCeil(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLinspace(t *testing.T) {
	got := Linspace(0, -1, 4)
	want := []float64{0, -1.0 / 3, -2.0 / 3, -1}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !IsClose(got[i], want[i]) {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if got[len(got)-1] != -1 {
		t.Errorf("last value must be exactly stop, got %v", got[len(got)-1])
	}
	if Linspace(0, 1, 0) != nil {
		t.Error("expected nil for n=0")
	}
	if one := Linspace(5, 9, 1); len(one) != 1 || one[0] != 5 {
		t.Errorf("Linspace(5, 9, 1) = %v", one)
	}
}

func TestWithMaxSpacing(t *testing.T) {
	tests := []struct {
		name              string
		start, stop, max  float64
		wantLen           int
		wantSecond        float64
	}{
		{"exact multiple", 0, -9, 1, 10, -1},
		{"rounded up", 0, -9.9, 1, 11, -0.99},
		{"polygon levels", 0, -1, 0.4, 4, -1.0 / 3},
		{"fill rows", 2, 5, 0.5, 7, 2.5},
		{"square rows", -5.3975, 5.3975, 2.69875, 5, -2.69875},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WithMaxSpacing(tt.start, tt.stop, tt.max)
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d (%v), want %d", len(got), got, tt.wantLen)
			}
			if got[0] != tt.start || got[len(got)-1] != tt.stop {
				t.Errorf("endpoints = %v..%v, want %v..%v", got[0], got[len(got)-1], tt.start, tt.stop)
			}
			if !IsClose(got[1], tt.wantSecond) {
				t.Errorf("second = %v, want %v", got[1], tt.wantSecond)
			}
			for i := 1; i < len(got); i++ {
				if math.Abs(got[i]-got[i-1]) > tt.max+Tolerance {
					t.Errorf("gap %d too wide: %v", i, got[i]-got[i-1])
				}
			}
		})
	}
}

func TestWithMaxSpacingNoLimit(t *testing.T) {
	got := WithMaxSpacing(0, -13, 0)
	if len(got) != 2 || got[1] != -13 {
		t.Errorf("WithMaxSpacing(0, -13, 0) = %v", got)
	}
}
