package math3d

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		v    Vec3
	}{
		{"x axis", V3(1, 0, 0)},
		{"diagonal", V3(1, 1, -1).Normalize()},
		{"arbitrary unit", V3(0.6, 0, 0.8)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.v.Normalize()
			if !got.ApproxEqual(tc.v, eps) {
				t.Errorf("Normalize(%v) = %v, want unchanged", tc.v, got)
			}
		})
	}

	t.Run("zero vector", func(t *testing.T) {
		got := Zero3().Normalize()
		if got != Zero3() {
			t.Errorf("Normalize(0) = %v, want zero", got)
		}
		if math.IsNaN(got.X) {
			t.Error("Normalize(0) produced NaN")
		}
	})

	t.Run("non-zero has unit length", func(t *testing.T) {
		for _, v := range []Vec3{V3(3, 4, 0), V3(-2, 7, 1e-3), V3(1e-6, 0, 0), V3(1e6, -1e6, 5)} {
			if l := v.Normalize().Len(); math.Abs(l-1) > eps {
				t.Errorf("len(Normalize(%v)) = %v, want 1", v, l)
			}
		}
	})
}

func TestCrossDot(t *testing.T) {
	x, y, z := V3(1, 0, 0), V3(0, 1, 0), V3(0, 0, 1)
	if got := x.Cross(y); got != z {
		t.Errorf("x × y = %v, want %v", got, z)
	}
	if got := y.Cross(x); got != z.Negate() {
		t.Errorf("y × x = %v, want %v", got, z.Negate())
	}
	if d := V3(1, 2, 3).Dot(V3(4, -5, 6)); d != 12 {
		t.Errorf("dot = %v, want 12", d)
	}
}

func TestReflect(t *testing.T) {
	n := V3(0, 1, 0)
	got := V3(1, -1, 0).Reflect(n)
	want := V3(1, 1, 0)
	if !got.ApproxEqual(want, eps) {
		t.Errorf("Reflect = %v, want %v", got, want)
	}
}

func TestVec3Transform(t *testing.T) {
	t.Run("affine keeps w", func(t *testing.T) {
		got := V3(1, 2, 3).Transform(Translate(V3(1, 1, 1)))
		if !got.ApproxEqual(V3(2, 3, 4), eps) {
			t.Errorf("Transform = %v, want (2, 3, 4)", got)
		}
	})

	t.Run("projective divides by w", func(t *testing.T) {
		// w = 1 - z/d = 0.5 for z = 250, d = 500
		got := V3(10, 20, 250).Transform(PerspectiveDistance(500))
		if !got.ApproxEqual(V3(20, 40, 500), 1e-9) {
			t.Errorf("Transform = %v, want (20, 40, 500)", got)
		}
	})

	t.Run("zero w leaves coordinates", func(t *testing.T) {
		got := V3(1, 2, 500).Transform(PerspectiveDistance(500))
		if !got.ApproxEqual(V3(1, 2, 500), eps) {
			t.Errorf("Transform = %v, want unchanged", got)
		}
	})
}

func TestCenter(t *testing.T) {
	if got := Center(nil); got != Zero3() {
		t.Errorf("Center(nil) = %v, want zero", got)
	}
	got := Center([]Vec3{V3(0, 0, 0), V3(2, 0, 0), V3(2, 2, 0), V3(0, 2, 4)})
	if !got.ApproxEqual(V3(1, 1, 1), eps) {
		t.Errorf("Center = %v, want (1, 1, 1)", got)
	}
}
