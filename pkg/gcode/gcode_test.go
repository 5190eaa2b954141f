package gcode

import "testing"

func TestCodeStrings(t *testing.T) {
	tests := []struct {
		name string
		code Code
		want string
	}{
		{"home", Home, "$H"},
		{"inches", UnitsInches, "G20"},
		{"millimeters", UnitsMillimeters, "G21"},
		{"absolute", MotionAbsolute, "G90"},
		{"spindle on", ActivateSpindleCW, "M3"},
		{"spindle off", StopSpindle, "M5"},
		{"spindle speed", SetSpindleSpeed(10000), "S 10000"},
		{"feed rate", SetFeedRate(20), "F 20.00000"},
		{"fractional feed", SetFeedRate(12.345678), "F 12.34568"},
		{"comment", Comment("top plate"), "(top plate)"},
		{"comment with parens", Comment("hole (M3)\nnext"), "(hole [M3] next)"},
		{"bare rapid", G0(), "G0"},
		{"rapid z", G0(Z(40)), "G0 Z40.00000"},
		{"rapid xy", G0(X(7), Y(11)), "G0 X7.00000 Y11.00000"},
		{"cut xyz", G1(X(7), Y(11), Z(-13)), "G1 X7.00000 Y11.00000 Z-13.00000"},
		{"negative zero", G1(Z(-0.0000001)), "G1 Z0.00000"},
		{"repeating decimal", G1(Z(-1.0 / 3)), "G1 Z-0.33333"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.code.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJoin(t *testing.T) {
	got := Join([]Code{Home, G0(Z(40))})
	want := "$H\nG0 Z40.00000\n"
	if got != want {
		t.Errorf("Join() = %q, want %q", got, want)
	}
	if Join(nil) != "" {
		t.Error("Join(nil) should be empty")
	}
}
