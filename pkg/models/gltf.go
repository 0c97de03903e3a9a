package models

import (
	"encoding/binary"
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/polyview/pkg/math3d"
)

// GLTFLoader loads glTF/GLB triangle meshes into a single Polyhedron.
type GLTFLoader struct {
	// WeldVertices merges vertices with identical positions so that shared
	// corners get averaged vertex normals.
	WeldVertices bool
}

// NewGLTFLoader creates a new glTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{WeldVertices: true}
}

// LoadGLB loads a binary glTF (.glb) file with default options.
func LoadGLB(path string) (*Polyhedron, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a glTF or GLB file. All triangle primitives of all meshes are
// merged. The base color of the first material found becomes the mesh color.
func (l *GLTFLoader) Load(path string) (*Polyhedron, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	b := &meshBuilder{weld: l.WeldVertices, index: make(map[[3]float64]int)}
	col := DefaultColor
	haveColor := false

	for _, m := range doc.Meshes {
		for _, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
				// Skip non-triangle primitives (lines, points, etc)
				continue
			}
			if err := b.addPrimitive(doc, prim); err != nil {
				return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
			}
			if !haveColor && prim.Material != nil {
				col, haveColor = materialColor(doc, *prim.Material)
			}
		}
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return NewPolyhedron(name, b.verts, b.faces, col), nil
}

// meshBuilder accumulates vertices and triangles across primitives.
type meshBuilder struct {
	weld  bool
	index map[[3]float64]int
	verts []math3d.Vec3
	faces [][]int
}

func (b *meshBuilder) addPrimitive(doc *gltf.Document, prim *gltf.Primitive) error {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil
	}
	positions, err := readVec3Accessor(doc, posIdx)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}

	remap := make([]int, len(positions))
	for i, p := range positions {
		remap[i] = b.vertex(p)
	}

	var indices []int
	if prim.Indices != nil {
		indices, err = readIndices(doc, *prim.Indices)
		if err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
	} else {
		// No indices, assume sequential triangles
		indices = make([]int, len(positions))
		for i := range indices {
			indices[i] = i
		}
	}

	for i := 0; i+2 < len(indices); i += 3 {
		a, c, d := indices[i], indices[i+1], indices[i+2]
		if a >= len(remap) || c >= len(remap) || d >= len(remap) {
			return fmt.Errorf("index out of range at triangle %d", i/3)
		}
		tri := []int{remap[a], remap[c], remap[d]}
		if tri[0] == tri[1] || tri[1] == tri[2] || tri[0] == tri[2] {
			continue
		}
		b.faces = append(b.faces, tri)
	}
	return nil
}

func (b *meshBuilder) vertex(p math3d.Vec3) int {
	if b.weld {
		key := [3]float64{p.X, p.Y, p.Z}
		if idx, ok := b.index[key]; ok {
			return idx
		}
		b.index[key] = len(b.verts)
	}
	b.verts = append(b.verts, p)
	return len(b.verts) - 1
}

func materialColor(doc *gltf.Document, idx int) (color.RGBA, bool) {
	if idx < 0 || idx >= len(doc.Materials) {
		return DefaultColor, false
	}
	pbr := doc.Materials[idx].PBRMetallicRoughness
	if pbr == nil || pbr.BaseColorFactor == nil {
		return DefaultColor, false
	}
	f := *pbr.BaseColorFactor
	to8 := func(v float64) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return color.RGBA{to8(f[0]), to8(f[1]), to8(f[2]), to8(f[3])}, true
}

// readVec3Accessor reads float VEC3 data from a glTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 || accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC3, got %v/%v", accessor.Type, accessor.ComponentType)
	}

	data, stride, err := accessorBytes(doc, accessor, 12)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec3, accessor.Count)
	for i := range accessor.Count {
		off := i * stride
		result[i] = math3d.V3(
			float64(readFloat32(data[off:])),
			float64(readFloat32(data[off+4:])),
			float64(readFloat32(data[off+8:])),
		)
	}
	return result, nil
}

// readIndices reads unsigned scalar index data from a glTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", accessor.Type)
	}

	var size int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index type: %v", accessor.ComponentType)
	}

	data, stride, err := accessorBytes(doc, accessor, size)
	if err != nil {
		return nil, err
	}

	result := make([]int, accessor.Count)
	for i := range accessor.Count {
		off := i * stride
		switch size {
		case 1:
			result[i] = int(data[off])
		case 2:
			result[i] = int(binary.LittleEndian.Uint16(data[off:]))
		case 4:
			result[i] = int(binary.LittleEndian.Uint32(data[off:]))
		}
	}
	return result, nil
}

// accessorBytes returns the accessor's slice of its buffer and the element
// stride, checking that count elements fit.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elemSize int) ([]byte, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view")
	}
	if *accessor.BufferView >= len(doc.BufferViews) {
		return nil, 0, fmt.Errorf("buffer view %d out of range", *accessor.BufferView)
	}
	view := doc.BufferViews[*accessor.BufferView]
	if view.Buffer >= len(doc.Buffers) {
		return nil, 0, fmt.Errorf("buffer %d out of range", view.Buffer)
	}
	buf := doc.Buffers[view.Buffer].Data
	if buf == nil {
		return nil, 0, fmt.Errorf("buffer has no data")
	}

	stride := view.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	start := view.ByteOffset + accessor.ByteOffset
	end := start
	if accessor.Count > 0 {
		end = start + (accessor.Count-1)*stride + elemSize
	}
	if end > len(buf) {
		return nil, 0, fmt.Errorf("accessor reads past end of buffer (%d > %d)", end, len(buf))
	}
	return buf[start:end], stride, nil
}

// readFloat32 reads a little-endian float32.
func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

// SaveGLB writes p as a binary glTF with one triangle-list primitive.
// Faces are fan-triangulated.
func SaveGLB(path string, p *Polyhedron) error {
	doc := buildDocument(p)
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("save glb: %w", err)
	}
	return nil
}

func buildDocument(p *Polyhedron) *gltf.Document {
	var tris []uint32
	for _, f := range p.Faces {
		if !f.Valid(len(p.Vertices)) {
			continue
		}
		for i := 1; i+1 < len(f.Indices); i++ {
			tris = append(tris, uint32(f.Indices[0]), uint32(f.Indices[i]), uint32(f.Indices[i+1]))
		}
	}

	posBytes := len(p.Vertices) * 12
	data := make([]byte, posBytes+len(tris)*4)
	minP, maxP := p.Bounds()
	for i, v := range p.Vertices {
		off := i * 12
		binary.LittleEndian.PutUint32(data[off:], math.Float32bits(float32(v.X)))
		binary.LittleEndian.PutUint32(data[off+4:], math.Float32bits(float32(v.Y)))
		binary.LittleEndian.PutUint32(data[off+8:], math.Float32bits(float32(v.Z)))
	}
	for i, idx := range tris {
		binary.LittleEndian.PutUint32(data[posBytes+i*4:], idx)
	}

	c := p.Color
	factor := [4]float64{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, float64(c.A) / 255}

	return &gltf.Document{
		Asset:   gltf.Asset{Version: "2.0", Generator: "polyview"},
		Buffers: []*gltf.Buffer{{ByteLength: len(data), Data: data}},
		BufferViews: []*gltf.BufferView{
			{Buffer: 0, ByteOffset: 0, ByteLength: posBytes, Target: gltf.TargetArrayBuffer},
			{Buffer: 0, ByteOffset: posBytes, ByteLength: len(tris) * 4, Target: gltf.TargetElementArrayBuffer},
		},
		Accessors: []*gltf.Accessor{
			{
				BufferView:    ptr(0),
				ComponentType: gltf.ComponentFloat,
				Count:         len(p.Vertices),
				Type:          gltf.AccessorVec3,
				Min:           []float64{minP.X, minP.Y, minP.Z},
				Max:           []float64{maxP.X, maxP.Y, maxP.Z},
			},
			{
				BufferView:    ptr(1),
				ComponentType: gltf.ComponentUint,
				Count:         len(tris),
				Type:          gltf.AccessorScalar,
			},
		},
		Materials: []*gltf.Material{{
			Name:                 p.Name,
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{BaseColorFactor: &factor},
		}},
		Meshes: []*gltf.Mesh{{
			Name: p.Name,
			Primitives: []*gltf.Primitive{{
				Attributes: map[string]int{gltf.POSITION: 0},
				Indices:    ptr(1),
				Material:   ptr(0),
				Mode:       gltf.PrimitiveTriangles,
			}},
		}},
		Nodes:  []*gltf.Node{{Name: p.Name, Mesh: ptr(0)}},
		Scenes: []*gltf.Scene{{Nodes: []int{0}}},
		Scene:  ptr(0),
	}
}

func ptr(i int) *int { return &i }
