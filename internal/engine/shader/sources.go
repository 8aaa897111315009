package shader

import _ "embed"

// PhongVertexShader transforms vertices by the camera block and passes world
// position, normal and color through.
//
//go:embed phong.vert
var PhongVertexShader string

// PhongFragmentShader evaluates ambient + diffuse + specular per fragment.
//
//go:embed phong.frag
var PhongFragmentShader string

// UnlitFragmentShader draws the wireframe with a flat or per-vertex color.
//
//go:embed unlit.frag
var UnlitFragmentShader string

// Uniform block names and the binding points they are attached to.
const (
	CameraBlock = "Camera"
	LightBlock  = "Light"

	CameraBinding uint32 = 0
	LightBinding  uint32 = 1
)
