package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/polyview/pkg/math3d"
)

// LoadOBJ reads a Wavefront OBJ file.
func LoadOBJ(path string) (*Polyhedron, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	p, err := ReadOBJ(f, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return p, nil
}

// ReadOBJ parses "v" and "f" statements. Face references are 1-based;
// negative references count back from the most recent vertex. Only the
// position part of "v/vt/vn" is used and references to missing vertices are
// dropped from their face.
func ReadOBJ(r io.Reader, name string) (*Polyhedron, error) {
	var (
		verts []math3d.Vec3
		faces [][]int
	)

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", lineNo)
			}
			var xyz [3]float64
			for i := range 3 {
				f, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				xyz[i] = f
			}
			verts = append(verts, math3d.V3(xyz[0], xyz[1], xyz[2]))

		case "f":
			face := make([]int, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				pos, _, _ := strings.Cut(ref, "/")
				n, err := strconv.Atoi(pos)
				if err != nil {
					return nil, fmt.Errorf("line %d: face reference %q: %w", lineNo, ref, err)
				}
				idx := n - 1
				if n < 0 {
					idx = len(verts) + n
				}
				if idx < 0 || idx >= len(verts) {
					continue
				}
				face = append(face, idx)
			}
			if len(face) >= 3 {
				faces = append(faces, face)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan obj: %w", err)
	}

	return NewPolyhedron(name, verts, faces, DefaultColor), nil
}

// SaveOBJ writes p to path in Wavefront OBJ format.
func SaveOBJ(path string, p *Polyhedron) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create obj: %w", err)
	}
	if err := WriteOBJ(f, p); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteOBJ writes p as OBJ text with 1-based face references.
func WriteOBJ(w io.Writer, p *Polyhedron) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %s\n", p.Name)
	fmt.Fprintf(bw, "# %d vertices, %d faces\n", len(p.Vertices), len(p.Faces))
	for _, v := range p.Vertices {
		fmt.Fprintf(bw, "v %.6f %.6f %.6f\n", v.X, v.Y, v.Z)
	}
	for _, f := range p.Faces {
		bw.WriteString("f")
		for _, idx := range f.Indices {
			fmt.Fprintf(bw, " %d", idx+1)
		}
		bw.WriteString("\n")
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write obj: %w", err)
	}
	return nil
}
