package render

import "testing"

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#ff8000", RGB(255, 128, 0), false},
		{"00ff00", RGB(0, 255, 0), false},
		{" #0000FF ", RGB(0, 0, 255), false},
		{"#abc", RGB(0xaa, 0xbb, 0xcc), false},
		{"orange", Color{}, true},
		{"#12345", Color{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseColor(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("ParseColor = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFormatColor(t *testing.T) {
	if s := FormatColor(RGB(255, 128, 0)); s != "#ff8000" {
		t.Errorf("FormatColor = %q", s)
	}
	c, err := ParseColor(FormatColor(RGB(12, 34, 56)))
	if err != nil || c != RGB(12, 34, 56) {
		t.Errorf("round trip = %v, %v", c, err)
	}
}

func TestBlendColor(t *testing.T) {
	near := func(a, b Color) bool {
		d := func(x, y uint8) int { return abs(int(x) - int(y)) }
		return d(a.R, b.R) <= 1 && d(a.G, b.G) <= 1 && d(a.B, b.B) <= 1 && a.A == b.A
	}

	if got := BlendColor(Red, Blue, 0); !near(got, Red) {
		t.Errorf("t=0 = %v, want %v", got, Red)
	}
	if got := BlendColor(Red, Blue, 1); !near(got, Blue) {
		t.Errorf("t=1 = %v, want %v", got, Blue)
	}
	if got := BlendColor(Red, Blue, 5); !near(got, Blue) {
		t.Errorf("t is not clamped: %v", got)
	}

	mid := BlendColor(Black, White, 0.5)
	if mid.R < 50 || mid.R > 200 || !near(mid, Color{R: mid.R, G: mid.R, B: mid.R, A: 255}) {
		t.Errorf("midpoint = %v, want a neutral gray", mid)
	}

	fade := BlendColor(None, White, 0.5)
	if fade.A != 128 {
		t.Errorf("alpha = %d, want 128", fade.A)
	}
}
