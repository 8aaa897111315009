// Package shading implements the vertex and fragment stages on the CPU.
//
// The GLSL programs in internal/engine/shader compute the same thing on the
// GPU. Uniforms are always passed in explicitly.
package shading

import (
	"github.com/Faultbox/objview/internal/engine/camera"
	"github.com/Faultbox/objview/internal/engine/mesh"
	"github.com/Faultbox/objview/pkg/math"
)

// VertexOutput is what the vertex stage hands to the rasterizer.
type VertexOutput struct {
	ClipPosition  math.Vec4
	WorldPosition math.Vec3
	Normal        math.Vec3
	Color         math.Vec3
}

// VertexStage transforms a vertex to clip space. World position, normal and
// color pass through unchanged; there is no model matrix.
func VertexStage(v mesh.Vertex, cam camera.Uniforms) VertexOutput {
	world := math.V3(v.Position)
	return VertexOutput{
		ClipPosition:  cam.ViewProjection.MulVec4(math.Point(world)),
		WorldPosition: world,
		Normal:        math.V3(v.Normal),
		Color:         math.V3(v.Color),
	}
}

// Interpolate blends three vertex outputs with barycentric weights.
// The normal is not renormalized; the fragment stage does that.
func Interpolate(a, b, c VertexOutput, w0, w1, w2 float32) VertexOutput {
	blend3 := func(x, y, z math.Vec3) math.Vec3 {
		return x.Scale(w0).Add(y.Scale(w1)).Add(z.Scale(w2))
	}
	return VertexOutput{
		ClipPosition:  a.ClipPosition.Scale(w0).Add(b.ClipPosition.Scale(w1)).Add(c.ClipPosition.Scale(w2)),
		WorldPosition: blend3(a.WorldPosition, b.WorldPosition, c.WorldPosition),
		Normal:        blend3(a.Normal, b.Normal, c.Normal),
		Color:         blend3(a.Color, b.Color, c.Color),
	}
}

// Lerp blends two vertex outputs along a line.
func Lerp(a, b VertexOutput, t float32) VertexOutput {
	return VertexOutput{
		ClipPosition:  a.ClipPosition.Lerp(b.ClipPosition, t),
		WorldPosition: a.WorldPosition.Lerp(b.WorldPosition, t),
		Normal:        a.Normal.Lerp(b.Normal, t),
		Color:         a.Color.Lerp(b.Color, t),
	}
}

// Program is a vertex/fragment shader pair bound to its uniforms.
type Program interface {
	Vertex(v mesh.Vertex) VertexOutput
	Fragment(in VertexOutput) math.Vec4
}
