package formats

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNoGeometry is returned when a file parses but contains no triangles.
var ErrNoGeometry = errors.New("no triangle geometry")

// ErrUnsupportedFormat is returned by Load for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported model format")

// DefaultColor is the vertex color used when a file provides none.
var DefaultColor = [3]float32{0.8, 0.8, 0.8}

// Geometry is an indexed triangle list as read from a model file.
// Positions, Normals and Colors are parallel. A zero normal means the file
// had none for that vertex.
type Geometry struct {
	Name      string
	Positions [][3]float32
	Normals   [][3]float32
	Colors    [][3]float32
	Indices   []uint32

	// Warnings are non-fatal problems (missing material library, skipped
	// primitives) for the caller to log.
	Warnings []string
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions)
}

// TriangleCount returns the number of triangles.
func (g *Geometry) TriangleCount() int {
	return len(g.Indices) / 3
}

// HasNormals reports whether every vertex has a non-zero normal.
func (g *Geometry) HasNormals() bool {
	for _, n := range g.Normals {
		if n == ([3]float32{}) {
			return false
		}
	}
	return len(g.Normals) == len(g.Positions)
}

func (g *Geometry) warnf(format string, args ...any) {
	g.Warnings = append(g.Warnings, fmt.Sprintf(format, args...))
}

// addVertex appends one vertex and returns its index.
func (g *Geometry) addVertex(pos, normal, color [3]float32) uint32 {
	g.Positions = append(g.Positions, pos)
	g.Normals = append(g.Normals, normal)
	g.Colors = append(g.Colors, color)
	return uint32(len(g.Positions) - 1)
}

// Extensions lists the file extensions Load understands.
var Extensions = []string{".obj", ".gltf", ".glb"}

// IsSupported reports whether Load can open the file by its extension.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Load reads a model file, choosing the parser by extension.
func Load(path string) (*Geometry, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return ParseOBJFile(path)
	case ".gltf", ".glb":
		return ParseGLTFFile(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}
