// Package raster draws meshes into an in-memory color and depth target.
package raster

import (
	"image"

	"github.com/Faultbox/objview/pkg/math"
)

// Target is an RGBA8 color buffer with a float32 depth buffer.
// Depth is in window space [0,1], row-major, top row first.
type Target struct {
	Color *image.RGBA
	Depth []float32
}

// NewTarget allocates a target of the given size.
func NewTarget(width, height int) *Target {
	t := &Target{}
	t.Resize(width, height)
	return t
}

// Width returns the target width in pixels.
func (t *Target) Width() int {
	return t.Color.Rect.Dx()
}

// Height returns the target height in pixels.
func (t *Target) Height() int {
	return t.Color.Rect.Dy()
}

// Resize reallocates both buffers. Contents are undefined until Clear.
func (t *Target) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	t.Color = image.NewRGBA(image.Rect(0, 0, width, height))
	t.Depth = make([]float32, width*height)
}

// Clear fills the color buffer and resets depth to the far plane (1.0).
func (t *Target) Clear(c math.Vec3) {
	r, g, b, a := toRGBA8(math.Vec4{X: c.X, Y: c.Y, Z: c.Z, W: 1})
	pix := t.Color.Pix
	if len(pix) >= 4 {
		pix[0], pix[1], pix[2], pix[3] = r, g, b, a
		for i := 4; i < len(pix); i *= 2 {
			copy(pix[i:], pix[:i])
		}
	}

	if len(t.Depth) > 0 {
		t.Depth[0] = 1.0
		for i := 1; i < len(t.Depth); i *= 2 {
			copy(t.Depth[i:], t.Depth[:i])
		}
	}
}

// DepthAt returns the stored depth at (x, y), or 1.0 outside the target.
func (t *Target) DepthAt(x, y int) float32 {
	if x < 0 || y < 0 || x >= t.Width() || y >= t.Height() {
		return 1.0
	}
	return t.Depth[y*t.Width()+x]
}

// write stores a fragment that already passed the depth test.
func (t *Target) write(x, y int, depth float32, c math.Vec4) {
	w := t.Width()
	t.Depth[y*w+x] = depth
	off := y*t.Color.Stride + x*4
	t.Color.Pix[off], t.Color.Pix[off+1], t.Color.Pix[off+2], t.Color.Pix[off+3] = toRGBA8(c)
}

// toRGBA8 clamps each channel to [0,1] and quantizes it.
func toRGBA8(c math.Vec4) (r, g, b, a uint8) {
	q := func(v float32) uint8 {
		return uint8(math.Clamp(v, 0, 1)*255 + 0.5)
	}
	return q(c.X), q(c.Y), q(c.Z), q(c.W)
}
