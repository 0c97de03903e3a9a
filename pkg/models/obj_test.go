package models

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/polyview/pkg/math3d"
)

func TestReadOBJ(t *testing.T) {
	src := `# a unit square and a triangle
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0

vn 0 0 1
f 1/1/1 2/2/1 3/3/1 4/4/1
v 0 0 1
f -1 1 2
f 1 2 99
`
	p, err := ReadOBJ(strings.NewReader(src), "square")
	if err != nil {
		t.Fatal(err)
	}
	if p.VertexCount() != 5 {
		t.Fatalf("vertices = %d, want 5", p.VertexCount())
	}
	if p.FaceCount() != 2 {
		t.Fatalf("faces = %d, want 2 (out-of-range reference drops the third)", p.FaceCount())
	}
	if got := p.Faces[0].Indices; len(got) != 4 || got[3] != 3 {
		t.Errorf("face 0 = %v", got)
	}
	if got := p.Faces[1].Indices; got[0] != 4 || got[1] != 0 || got[2] != 1 {
		t.Errorf("relative face = %v, want [4 0 1]", got)
	}
}

func TestReadOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line string
	}{
		{"bad coordinate", "v 0 0 0\nv 1 x 0\n", "line 2"},
		{"short vertex", "v 0 0\n", "line 1"},
		{"bad reference", "v 0 0 0\nv 1 0 0\nv 0 1 0\n\nf 1 two 3\n", "line 5"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadOBJ(strings.NewReader(tc.src), "bad")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.line) {
				t.Errorf("error %q does not mention %s", err, tc.line)
			}
		})
	}
}

func TestWriteOBJ(t *testing.T) {
	tet := Tetrahedron(1)

	var buf bytes.Buffer
	if err := WriteOBJ(&buf, tet); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "# tetrahedron\n") {
		t.Errorf("missing header: %q", out[:20])
	}
	if !strings.Contains(out, "\nf 1 2 3\n") {
		t.Errorf("expected 1-based face line, got:\n%s", out)
	}

	back, err := ReadOBJ(&buf, "back")
	if err != nil {
		t.Fatal(err)
	}
	if back.VertexCount() != tet.VertexCount() || back.FaceCount() != tet.FaceCount() {
		t.Fatalf("round trip changed topology")
	}
	for i := range tet.Vertices {
		if !back.Vertices[i].ApproxEqual(tet.Vertices[i], 1e-6) {
			t.Errorf("vertex %d = %v, want %v", i, back.Vertices[i], tet.Vertices[i])
		}
	}
}

func TestSaveLoadOBJ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.obj")
	if err := SaveOBJ(path, Hexahedron(2)); err != nil {
		t.Fatal(err)
	}
	p, err := LoadOBJ(path)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "cube" {
		t.Errorf("name = %q, want cube", p.Name)
	}
	if !p.Center().ApproxEqual(math3d.Zero3(), 1e-6) {
		t.Errorf("center = %v", p.Center())
	}

	if _, err := LoadOBJ(filepath.Join(t.TempDir(), "missing.obj")); err == nil {
		t.Error("expected error for missing file")
	}
}
