package config

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/objview/internal/engine/camera"
	"github.com/Faultbox/objview/internal/engine/lighting"
	"github.com/Faultbox/objview/internal/engine/pipeline"
	"github.com/Faultbox/objview/pkg/math"
)

// PointLight returns the configured light block.
func (c *Config) PointLight() lighting.PointLight {
	return lighting.PointLight{
		Position:         c.Light.Position,
		Color:            c.Light.Color,
		Intensity:        c.Light.Intensity,
		AmbientStrength:  c.Light.AmbientStrength,
		DiffuseStrength:  c.Light.DiffuseStrength,
		SpecularStrength: c.Light.SpecularStrength,
		Shininess:        c.Light.Shininess,
	}
}

// OrbitCamera returns a camera with the configured projection and controls.
func (c *Config) OrbitCamera(aspect float32) *camera.OrbitCamera {
	cam := camera.NewOrbitCamera(aspect)
	cam.FovY = c.Camera.FOVDegrees * math32.Pi / 180
	cam.Near = c.Camera.Near
	cam.Far = c.Camera.Far
	cam.MinDistance = c.Camera.MinDistance
	cam.MaxDistance = c.Camera.MaxDistance
	cam.DragSensitivity = c.Camera.DragSensitivity
	cam.ZoomSensitivity = c.Camera.ZoomSensitivity
	cam.PixelZoomSensitivity = c.Camera.PixelZoomSensitivity
	return cam
}

// Mode returns the startup pipeline mode. Validate has already rejected
// unknown names, so a parse failure falls back to solid.
func (c *Config) Mode() pipeline.Mode {
	m, err := pipeline.ParseMode(c.Render.Mode)
	if err != nil {
		return pipeline.ModeSolid
	}
	return m
}

// ClearColor returns the background color.
func (c *Config) ClearColor() math.Vec3 {
	return math.V3(c.Render.ClearColor)
}

// WireColor returns the constant wireframe color.
func (c *Config) WireColor() math.Vec3 {
	return math.V3(c.Render.WireColor)
}
