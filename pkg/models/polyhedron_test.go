package models

import (
	"math"
	"testing"

	"github.com/taigrr/polyview/pkg/math3d"
)

const eps = 1e-9

func TestTriangleNormal(t *testing.T) {
	p := NewPolyhedron("tri", []math3d.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}}, [][]int{{0, 1, 2}}, DefaultColor)
	_, n := p.Face(0)
	if math.Abs(math.Abs(n.Z)-1) > eps || math.Abs(n.X) > eps || math.Abs(n.Y) > eps {
		t.Errorf("normal = %v, want (0, 0, ±1)", n)
	}
}

func TestCubeNormals(t *testing.T) {
	cube := Hexahedron(2)

	t.Run("faces point outward", func(t *testing.T) {
		for i, f := range cube.Faces {
			if math.Abs(f.Normal.Len()-1) > eps {
				t.Errorf("face %d normal %v not unit", i, f.Normal)
			}
			out := f.Centroid(cube.Vertices).Sub(cube.Center())
			if f.Normal.Dot(out) <= 0 {
				t.Errorf("face %d normal %v points inward", i, f.Normal)
			}
		}
	})

	t.Run("corner vertex normals", func(t *testing.T) {
		k := 1 / math.Sqrt(3)
		for i, v := range cube.Vertices {
			want := math3d.V3(math.Copysign(k, v.X), math.Copysign(k, v.Y), math.Copysign(k, v.Z))
			if got := cube.VertexNormal(i); !got.ApproxEqual(want, 1e-9) {
				t.Errorf("vertex %d normal = %v, want %v", i, got, want)
			}
		}
	})

	t.Run("missing normal", func(t *testing.T) {
		for _, i := range []int{-1, 8, 100} {
			if got := cube.VertexNormal(i); got != math3d.V3(0, 0, 1) {
				t.Errorf("VertexNormal(%d) = %v, want (0, 0, 1)", i, got)
			}
		}
	})
}

func TestInvalidFaces(t *testing.T) {
	verts := []math3d.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}}
	p := NewPolyhedron("bad", verts, [][]int{{0, 1}, {0, 1, 7}, {0, 1, 2}}, DefaultColor)

	if p.Faces[0].Valid(3) || p.Faces[1].Valid(3) {
		t.Error("expected faces 0 and 1 to be invalid")
	}
	if p.Faces[0].Normal != math3d.Zero3() || p.Faces[1].Normal != math3d.Zero3() {
		t.Error("invalid faces should have zero normals")
	}
	if !p.Faces[2].Valid(3) {
		t.Error("face 2 should be valid")
	}
}

func TestFanNormalFallback(t *testing.T) {
	// First three vertices are collinear; the fan must move on to (0, 2, 3).
	verts := []math3d.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}}
	f := NewFace(0, 1, 2, 3)
	f.UpdateNormal(verts)
	if math.Abs(math.Abs(f.Normal.Z)-1) > eps {
		t.Errorf("normal = %v, want (0, 0, ±1)", f.Normal)
	}
}

func TestTransformReturnsNewInstance(t *testing.T) {
	cube := Hexahedron(1)
	before := cube.Clone()

	moved := cube.Transform(math3d.Translate(math3d.V3(3, 0, 0)))
	if moved == cube {
		t.Fatal("Transform returned the receiver")
	}
	for i := range cube.Vertices {
		if cube.Vertices[i] != before.Vertices[i] {
			t.Fatalf("source vertex %d changed", i)
		}
	}
	if !moved.Center().ApproxEqual(math3d.V3(3, 0, 0), eps) {
		t.Errorf("center = %v, want (3, 0, 0)", moved.Center())
	}
	for i := range cube.Faces {
		if !moved.Faces[i].Normal.ApproxEqual(cube.Faces[i].Normal, eps) {
			t.Errorf("translation changed normal %d", i)
		}
	}
}

func TestTransformKeepsNormalsOutward(t *testing.T) {
	tests := []struct {
		name string
		m    math3d.Mat4
	}{
		{"rotation", math3d.RotateAroundAxis(math3d.V3(1, 2, 3), math3d.V3(1, 1, 0), 0.8)},
		{"reflection", math3d.Reflect(math3d.PlaneXY)},
		{"non-uniform scale", math3d.Scale(math3d.V3(2, 0.5, 3))},
		{"vertical stretch", math3d.Scale(math3d.V3(1, 3, 1))},
		{"scale about a point", math3d.Translate(math3d.V3(1, 1, 1)).Mul(math3d.Scale(math3d.V3(4, 1, 0.5))).Mul(math3d.Translate(math3d.V3(-1, -1, -1)))},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Octahedron(1).Transform(tc.m)
			for i, f := range p.Faces {
				if math.Abs(f.Normal.Len()-1) > 1e-9 {
					t.Errorf("face %d normal not unit: %v", i, f.Normal)
				}
				if f.Normal.Dot(f.Centroid(p.Vertices).Sub(p.Center())) <= 0 {
					t.Errorf("face %d normal points inward", i)
				}

				want := f.Clone()
				want.UpdateNormal(p.Vertices)
				want.OrientNormal(p.Vertices, p.Center())
				if !f.Normal.ApproxEqual(want.Normal, 1e-9) {
					t.Errorf("face %d normal = %v, want %v from its vertices", i, f.Normal, want.Normal)
				}
				pts := f.Points(p.Vertices)
				for j := range pts {
					edge := pts[(j+1)%len(pts)].Sub(pts[j])
					if d := math.Abs(edge.Normalize().Dot(f.Normal)); d > 1e-9 {
						t.Errorf("face %d edge %d not perpendicular to normal: %v", i, j, d)
					}
				}
			}
		})
	}
}

func TestOps(t *testing.T) {
	cube := Hexahedron(2)

	t.Run("translated", func(t *testing.T) {
		got := cube.Translated(math3d.V3(1, 2, 3)).Center()
		if !got.ApproxEqual(math3d.V3(1, 2, 3), eps) {
			t.Errorf("center = %v", got)
		}
	})

	t.Run("scaled around corner", func(t *testing.T) {
		corner := math3d.V3(-1, -1, -1)
		p := cube.ScaledAround(corner, math3d.V3(2, 2, 2))
		min, max := p.Bounds()
		if !min.ApproxEqual(corner, eps) || !max.ApproxEqual(math3d.V3(3, 3, 3), eps) {
			t.Errorf("bounds = %v..%v", min, max)
		}
	})

	t.Run("rotated around center keeps center", func(t *testing.T) {
		p := cube.Translated(math3d.V3(5, 0, 0)).RotatedAroundCenter(math3d.V3(0, 1, 1), 1.1)
		if !p.Center().ApproxEqual(math3d.V3(5, 0, 0), 1e-9) {
			t.Errorf("center = %v", p.Center())
		}
	})

	t.Run("reflected", func(t *testing.T) {
		p := cube.Translated(math3d.V3(0, 0, 4)).Reflected(math3d.PlaneXY)
		if !p.Center().ApproxEqual(math3d.V3(0, 0, -4), eps) {
			t.Errorf("center = %v", p.Center())
		}
	})

	t.Run("normalized", func(t *testing.T) {
		p := cube.Translated(math3d.V3(7, 7, 7)).Normalized(1)
		if s := p.Size(); !s.ApproxEqual(math3d.V3(1, 1, 1), eps) {
			t.Errorf("size = %v", s)
		}
		if !p.Center().ApproxEqual(math3d.Zero3(), eps) {
			t.Errorf("center = %v", p.Center())
		}
	})
}

func TestShapes(t *testing.T) {
	tests := []struct {
		name         string
		verts, faces int
	}{
		{"tetrahedron", 4, 4},
		{"cube", 8, 6},
		{"hexahedron", 8, 6},
		{"octahedron", 6, 8},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Shape(tc.name, 2)
			if err != nil {
				t.Fatal(err)
			}
			if p.VertexCount() != tc.verts || p.FaceCount() != tc.faces {
				t.Errorf("got %d vertices %d faces", p.VertexCount(), p.FaceCount())
			}
			if !p.Center().ApproxEqual(math3d.Zero3(), 1e-12) {
				t.Errorf("center = %v", p.Center())
			}
			// Regular solids: every edge of the first face has length size.
			f := p.Faces[0]
			for i := range f.Indices {
				a := p.Vertices[f.Indices[i]]
				b := p.Vertices[f.Indices[(i+1)%len(f.Indices)]]
				if d := a.Distance(b); math.Abs(d-2) > 1e-9 {
					t.Errorf("edge %d length %v, want 2", i, d)
				}
			}
		})
	}

	if _, err := Shape("dodecahedron", 1); err == nil {
		t.Error("expected error for unknown shape")
	}
}
