// Package mesh holds the geometry buffer for the loaded model.
package mesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/objview/pkg/math"
)

var (
	// ErrIndexCount is returned when the index list is not a whole number of triangles.
	ErrIndexCount = errors.New("index count is not a multiple of 3")
	// ErrIndexRange is returned when an index points past the vertex list.
	ErrIndexRange = errors.New("index out of range")
	// ErrEmpty is returned for a mesh without vertices.
	ErrEmpty = errors.New("mesh has no vertices")
)

// Vertex is the per-vertex attribute layout shared by the CPU and GPU pipelines.
// The field order matches the vertex buffer: 9 tightly packed float32s.
type Vertex struct {
	Position [3]float32 // Model space (equal to world space, there is no model matrix)
	Normal   [3]float32 // Unit length, or renormalized by the fragment stage
	Color    [3]float32 // RGB in [0,1]
}

// Stride is the byte size of one Vertex in a vertex buffer.
const Stride = 9 * 4

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Center returns the midpoint of the box.
func (b Bounds) Center() math.Vec3 {
	return math.V3(b.Min).Add(math.V3(b.Max)).Scale(0.5)
}

// Diagonal returns the length of the box diagonal.
func (b Bounds) Diagonal() float32 {
	return math.V3(b.Max).Sub(math.V3(b.Min)).Length()
}

// Mesh is an indexed triangle list. It is owned by the renderer and replaced
// wholesale when a new file is opened.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds

	edges []uint32
}

// New validates the topology and builds a mesh.
// When indices is empty the vertices are taken as a plain triangle list;
// a trailing partial triangle is dropped.
func New(vertices []Vertex, indices []uint32) (*Mesh, error) {
	if len(vertices) == 0 {
		return nil, ErrEmpty
	}

	if len(indices) == 0 {
		n := len(vertices) - len(vertices)%3
		indices = make([]uint32, n)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: %d indices", ErrIndexCount, len(indices))
	}
	for i, idx := range indices {
		if int(idx) >= len(vertices) {
			return nil, fmt.Errorf("%w: index %d at position %d, %d vertices", ErrIndexRange, idx, i, len(vertices))
		}
	}

	m := &Mesh{
		Vertices: vertices,
		Indices:  indices,
	}
	m.Bounds = computeBounds(vertices)
	return m, nil
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Edges returns the line-list index buffer used by the wireframe pipeline.
// Every triangle edge appears once, shared edges are not repeated.
func (m *Mesh) Edges() []uint32 {
	if m.edges != nil {
		return m.edges
	}

	seen := make(map[[2]uint32]struct{}, len(m.Indices))
	edges := make([]uint32, 0, len(m.Indices)*2)
	for t := 0; t+2 < len(m.Indices); t += 3 {
		tri := [3]uint32{m.Indices[t], m.Indices[t+1], m.Indices[t+2]}
		for e := 0; e < 3; e++ {
			a, b := tri[e], tri[(e+1)%3]
			key := [2]uint32{a, b}
			if b < a {
				key = [2]uint32{b, a}
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			edges = append(edges, a, b)
		}
	}

	m.edges = edges
	return edges
}

// ComputeNormals replaces zero-length normals with smooth vertex normals,
// averaged from the adjacent faces and weighted by face area.
// Normals that are already set are kept.
func (m *Mesh) ComputeNormals() {
	acc := make([]math.Vec3, len(m.Vertices))
	for t := 0; t+2 < len(m.Indices); t += 3 {
		i0, i1, i2 := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		p0 := math.V3(m.Vertices[i0].Position)
		p1 := math.V3(m.Vertices[i1].Position)
		p2 := math.V3(m.Vertices[i2].Position)

		// Cross product length is twice the area
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		acc[i0] = acc[i0].Add(n)
		acc[i1] = acc[i1].Add(n)
		acc[i2] = acc[i2].Add(n)
	}

	for i := range m.Vertices {
		if math.V3(m.Vertices[i].Normal).Length() > 0 {
			continue
		}
		m.Vertices[i].Normal = acc[i].Normalize().Array()
	}
}

// DefaultTriangle returns the placeholder shown before a model is loaded.
func DefaultTriangle() *Mesh {
	n := [3]float32{0, 0, 1}
	m, _ := New([]Vertex{
		{Position: [3]float32{0, 0.5, 0}, Normal: n, Color: [3]float32{1, 0, 0}},
		{Position: [3]float32{-0.5, -0.5, 0}, Normal: n, Color: [3]float32{0, 1, 0}},
		{Position: [3]float32{0.5, -0.5, 0}, Normal: n, Color: [3]float32{0, 0, 1}},
	}, []uint32{0, 1, 2})
	return m
}

func computeBounds(vertices []Vertex) Bounds {
	b := Bounds{
		Min: [3]float32{1e30, 1e30, 1e30},
		Max: [3]float32{-1e30, -1e30, -1e30},
	}
	for _, v := range vertices {
		for i := 0; i < 3; i++ {
			if v.Position[i] < b.Min[i] {
				b.Min[i] = v.Position[i]
			}
			if v.Position[i] > b.Max[i] {
				b.Max[i] = v.Position[i]
			}
		}
	}
	return b
}
