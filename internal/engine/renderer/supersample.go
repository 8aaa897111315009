package renderer

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample shrinks a supersampled frame by factor with a Catmull-Rom
// filter. A factor of 1 or less returns src unchanged.
func Downsample(src *image.RGBA, factor int) *image.RGBA {
	if factor <= 1 {
		return src
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()/factor, b.Dy()/factor))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
