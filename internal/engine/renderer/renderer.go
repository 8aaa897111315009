// Package renderer orchestrates one frame: clear, pick the active pipeline,
// draw the mesh with this frame's camera and light blocks.
//
// Software renders on the CPU through the raster package and is used by the
// headless renderer and by tests. The opengl subpackage draws the same frame
// with GLSL shaders that evaluate the same lighting formula.
package renderer

import (
	"github.com/Faultbox/objview/internal/engine/lighting"
	"github.com/Faultbox/objview/internal/engine/mesh"
	"github.com/Faultbox/objview/pkg/math"
)

// Options are shared by both renderers.
type Options struct {
	ClearColor      math.Vec3
	WireColor       math.Vec3
	WireVertexColor bool // Wireframe uses vertex colors instead of WireColor
}

// DefaultOptions returns the startup clear and wireframe colors.
func DefaultOptions() Options {
	return Options{
		ClearColor: math.Vec3{X: 0.1, Y: 0.2, Z: 0.3},
		WireColor:  math.Vec3{X: 1, Y: 1, Z: 1},
	}
}

// LightTracker reports when the light block needs to be uploaded again.
// The light is static between user changes, so most frames skip the upload.
type LightTracker struct {
	current lighting.PointLight
	valid   bool
}

// Update records l and reports whether it differs from the last value.
// The first call always reports true.
func (t *LightTracker) Update(l lighting.PointLight) bool {
	if t.valid && t.current == l {
		return false
	}
	t.current = l
	t.valid = true
	return true
}

// Invalidate forces the next Update to report a change.
func (t *LightTracker) Invalidate() {
	t.valid = false
}

// MeshStats is logged whenever a mesh is replaced.
type MeshStats struct {
	Vertices  int
	Triangles int
	Edges     int
}

// Stats summarizes m.
func Stats(m *mesh.Mesh) MeshStats {
	if m == nil {
		return MeshStats{}
	}
	return MeshStats{
		Vertices:  len(m.Vertices),
		Triangles: m.TriangleCount(),
		Edges:     len(m.Edges()) / 2,
	}
}
