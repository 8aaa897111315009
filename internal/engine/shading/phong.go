package shading

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/objview/internal/engine/camera"
	"github.com/Faultbox/objview/internal/engine/lighting"
	"github.com/Faultbox/objview/internal/engine/mesh"
	"github.com/Faultbox/objview/pkg/math"
)

// PhongTerms returns the ambient, diffuse and specular contributions for one
// fragment, before they are multiplied into the vertex color.
//
// Degenerate directions (camera or light exactly on the surface point) are
// the caller's problem.
func PhongTerms(in VertexOutput, cam camera.Uniforms, light lighting.PointLight) (ambient, diffuse, specular math.Vec3) {
	n := in.Normal.Normalize()
	l := math.Vec3{X: light.Position[0], Y: light.Position[1], Z: light.Position[2]}.Sub(in.WorldPosition).Normalize()
	v := cam.Position.Sub(in.WorldPosition).Normalize()
	r := l.Negate().Reflect(n)

	lightColor := math.Vec3{X: light.Color[0], Y: light.Color[1], Z: light.Color[2]}

	ambient = lightColor.Scale(light.AmbientStrength)

	diff := math32.Max(n.Dot(l), 0)
	diffuse = lightColor.Scale(light.DiffuseStrength * diff)

	spec := math32.Pow(math32.Max(v.Dot(r), 0), light.Shininess)
	specular = lightColor.Scale(light.SpecularStrength * spec)

	return ambient, diffuse, specular
}

// Phong is the lit fragment stage. Light intensity is not applied.
// The result is opaque and not clamped; the framebuffer write clamps.
func Phong(in VertexOutput, cam camera.Uniforms, light lighting.PointLight) math.Vec4 {
	ambient, diffuse, specular := PhongTerms(in, cam, light)
	result := ambient.Add(diffuse).Add(specular).Mul(in.Color)
	return math.Vec4{X: result.X, Y: result.Y, Z: result.Z, W: 1}
}

// PhongProgram draws filled, lit triangles.
type PhongProgram struct {
	Camera camera.Uniforms
	Light  lighting.PointLight
}

func (p *PhongProgram) Vertex(v mesh.Vertex) VertexOutput {
	return VertexStage(v, p.Camera)
}

func (p *PhongProgram) Fragment(in VertexOutput) math.Vec4 {
	return Phong(in, p.Camera, p.Light)
}
