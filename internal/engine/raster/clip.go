package raster

import "github.com/Faultbox/objview/internal/engine/shading"

// nearDistance is the signed distance to the near plane in clip space
// (z >= -w is inside).
func nearDistance(v shading.VertexOutput) float32 {
	return v.ClipPosition.Z + v.ClipPosition.W
}

// clipPolygonNear clips a convex polygon against the near plane
// (Sutherland-Hodgman). The result is appended to out.
func clipPolygonNear(in []shading.VertexOutput, out []shading.VertexOutput) []shading.VertexOutput {
	out = out[:0]
	for i := range in {
		a := in[i]
		b := in[(i+1)%len(in)]
		da, db := nearDistance(a), nearDistance(b)

		if da >= 0 {
			out = append(out, a)
		}
		if (da >= 0) != (db >= 0) {
			out = append(out, shading.Lerp(a, b, da/(da-db)))
		}
	}
	return out
}

// clipLineNear clips a segment against the near plane.
// ok is false when the whole segment is behind it.
func clipLineNear(a, b shading.VertexOutput) (shading.VertexOutput, shading.VertexOutput, bool) {
	da, db := nearDistance(a), nearDistance(b)
	switch {
	case da < 0 && db < 0:
		return a, b, false
	case da < 0:
		a = shading.Lerp(a, b, da/(da-db))
	case db < 0:
		b = shading.Lerp(a, b, da/(da-db))
	}
	return a, b, true
}
