package shading

import (
	"github.com/Faultbox/objview/internal/engine/camera"
	"github.com/Faultbox/objview/internal/engine/mesh"
	"github.com/Faultbox/objview/pkg/math"
)

// Unlit emits a flat color with no lighting. When useVertexColor is set the
// interpolated vertex color is passed through instead.
func Unlit(in VertexOutput, color math.Vec3, useVertexColor bool) math.Vec4 {
	if useVertexColor {
		color = in.Color
	}
	return math.Vec4{X: color.X, Y: color.Y, Z: color.Z, W: 1}
}

// UnlitProgram draws wireframe lines.
type UnlitProgram struct {
	Camera         camera.Uniforms
	Color          math.Vec3
	UseVertexColor bool
}

func (p *UnlitProgram) Vertex(v mesh.Vertex) VertexOutput {
	return VertexStage(v, p.Camera)
}

func (p *UnlitProgram) Fragment(in VertexOutput) math.Vec4 {
	return Unlit(in, p.Color, p.UseVertexColor)
}
