package mesh

import (
	"fmt"

	"github.com/Faultbox/objview/pkg/formats"
)

// FromGeometry builds a mesh from loaded file geometry. Vertices without a
// normal get a smooth computed one.
func FromGeometry(g *formats.Geometry) (*Mesh, error) {
	if len(g.Normals) != len(g.Positions) || len(g.Colors) != len(g.Positions) {
		return nil, fmt.Errorf("mesh: attribute counts differ: %d positions, %d normals, %d colors",
			len(g.Positions), len(g.Normals), len(g.Colors))
	}

	vertices := make([]Vertex, len(g.Positions))
	for i := range g.Positions {
		vertices[i] = Vertex{
			Position: g.Positions[i],
			Normal:   g.Normals[i],
			Color:    g.Colors[i],
		}
	}

	m, err := New(vertices, g.Indices)
	if err != nil {
		return nil, err
	}
	if !g.HasNormals() {
		m.ComputeNormals()
	}
	return m, nil
}
