// Package camera provides the orbit camera and the camera uniform block.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/objview/pkg/math"
)

// Uniforms is the camera uniform block, recomputed every frame.
// ViewProjection is always Projection * View.
type Uniforms struct {
	ViewProjection math.Mat4 // World to clip
	View           math.Mat4 // World to view
	Position       math.Vec3 // Eye in world space
}

// Std140Floats is the float count of the packed camera block.
const Std140Floats = 16 + 16 + 4

// Std140 packs the block for a std140 uniform buffer:
// mat4 view_projection, mat4 view, vec4 camera_position (w = 1).
func (u Uniforms) Std140() [Std140Floats]float32 {
	var out [Std140Floats]float32
	copy(out[0:16], u.ViewProjection[:])
	copy(out[16:32], u.View[:])
	out[32], out[33], out[34], out[35] = u.Position.X, u.Position.Y, u.Position.Z, 1
	return out
}

// OrbitCamera orbits around a target point.
type OrbitCamera struct {
	// Point the camera looks at (auto-fit center of the model)
	Target math.Vec3

	// Spherical coordinates around Target
	Distance float32
	Yaw      float32 // Horizontal angle, radians
	Pitch    float32 // Vertical angle, radians

	// Projection
	FovY   float32 // Radians
	Aspect float32
	Near   float32
	Far    float32

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity      float32 // Radians per pixel
	ZoomSensitivity      float32 // Distance per wheel line
	PixelZoomSensitivity float32 // Distance per wheel pixel (touchpads)
}

// NewOrbitCamera creates an orbit camera 5 units in front of the origin.
func NewOrbitCamera(aspect float32) *OrbitCamera {
	return &OrbitCamera{
		Distance:             5.0,
		FovY:                 45.0 * math32.Pi / 180.0,
		Aspect:               aspect,
		Near:                 0.1,
		Far:                  1000.0,
		MinDistance:          0.1,
		MaxDistance:          100.0,
		MinPitch:             -1.5,
		MaxPitch:             1.5,
		DragSensitivity:      0.01,
		ZoomSensitivity:      0.5,
		PixelZoomSensitivity: 0.01,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	cosP, sinP := math32.Cos(c.Pitch), math32.Sin(c.Pitch)
	offset := math.Vec3{
		X: c.Distance * cosP * math32.Sin(c.Yaw),
		Y: c.Distance * sinP,
		Z: c.Distance * cosP * math32.Cos(c.Yaw),
	}
	return c.Target.Add(offset)
}

// ViewMatrix returns the world to view transform.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Target, math.Vec3{X: 0, Y: 1, Z: 0})
}

// ProjectionMatrix returns the view to clip transform.
func (c *OrbitCamera) ProjectionMatrix() math.Mat4 {
	return math.Perspective(c.FovY, c.Aspect, c.Near, c.Far)
}

// Uniforms computes this frame's camera block.
func (c *OrbitCamera) Uniforms() Uniforms {
	view := c.ViewMatrix()
	return Uniforms{
		ViewProjection: c.ProjectionMatrix().Mul(view),
		View:           view,
		Position:       c.Position(),
	}
}

// HandleDrag updates yaw and pitch from a mouse drag delta in pixels.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw += deltaX * c.DragSensitivity
	c.Pitch += deltaY * c.DragSensitivity
	c.Pitch = math.Clamp(c.Pitch, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance from a scroll wheel delta in lines.
func (c *OrbitCamera) HandleZoom(lines float32) {
	c.Distance -= lines * c.ZoomSensitivity
	c.Distance = math.Clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

// HandlePixelZoom updates distance from a precise scroll delta in pixels.
func (c *OrbitCamera) HandlePixelZoom(pixels float32) {
	c.Distance -= pixels * c.PixelZoomSensitivity
	c.Distance = math.Clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

// SetAspect updates the aspect ratio after a resize. Zero sizes (minimized
// window) are ignored.
func (c *OrbitCamera) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// FitToBounds centers the camera on a bounding box and backs off to twice the
// box diagonal. The orbit angles are kept.
func (c *OrbitCamera) FitToBounds(boundsMin, boundsMax [3]float32) {
	lo, hi := math.V3(boundsMin), math.V3(boundsMax)
	c.Target = lo.Add(hi).Scale(0.5)
	c.Distance = hi.Sub(lo).Length() * 2.0
}

// Reset restores the default orbit angles.
func (c *OrbitCamera) Reset() {
	c.Yaw = 0
	c.Pitch = 0
}
