package raster

import (
	"context"
	"runtime"

	"github.com/chewxy/math32"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/objview/internal/engine/mesh"
	"github.com/Faultbox/objview/internal/engine/shading"
)

// Rasterizer draws primitives into a Target.
//
// Fragment work is split into horizontal bands, one goroutine each. A band
// only touches its own rows, so the output does not depend on the number of
// workers. The program's uniforms must not change during a draw.
type Rasterizer struct {
	target  *Target
	workers int
}

// New creates a rasterizer. workers <= 0 means one band per CPU.
func New(target *Target, workers int) *Rasterizer {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Rasterizer{target: target, workers: workers}
}

// Target returns the render target.
func (r *Rasterizer) Target() *Target {
	return r.target
}

// screenVertex is a vertex after perspective divide and viewport transform.
type screenVertex struct {
	x, y  float32 // Window coordinates, origin top-left
	z     float32 // Window depth in [0,1]
	invW  float32 // 1/w for perspective-correct interpolation
	attrs shading.VertexOutput
}

type screenTriangle [3]screenVertex

type screenLine [2]screenVertex

// toScreen maps a clip-space vertex into window space.
func (r *Rasterizer) toScreen(v shading.VertexOutput) screenVertex {
	invW := 1 / v.ClipPosition.W
	ndcX := v.ClipPosition.X * invW
	ndcY := v.ClipPosition.Y * invW
	ndcZ := v.ClipPosition.Z * invW
	return screenVertex{
		x:     (ndcX + 1) * 0.5 * float32(r.target.Width()),
		y:     (1 - ndcY) * 0.5 * float32(r.target.Height()),
		z:     ndcZ*0.5 + 0.5,
		invW:  invW,
		attrs: v,
	}
}

// runVertexStage transforms every vertex once.
func runVertexStage(m *mesh.Mesh, prog shading.Program) []shading.VertexOutput {
	out := make([]shading.VertexOutput, len(m.Vertices))
	for i, v := range m.Vertices {
		out[i] = prog.Vertex(v)
	}
	return out
}

// DrawTriangles draws the mesh as filled triangles. Both windings are drawn.
func (r *Rasterizer) DrawTriangles(ctx context.Context, m *mesh.Mesh, prog shading.Program) error {
	if m == nil || r.target.Width() == 0 || r.target.Height() == 0 {
		return nil
	}
	verts := runVertexStage(m, prog)

	tris := make([]screenTriangle, 0, m.TriangleCount())
	var poly, clipped []shading.VertexOutput
	for i := 0; i+2 < len(m.Indices); i += 3 {
		poly = append(poly[:0], verts[m.Indices[i]], verts[m.Indices[i+1]], verts[m.Indices[i+2]])
		clipped = clipPolygonNear(poly, clipped)
		if len(clipped) < 3 {
			continue
		}
		s0 := r.toScreen(clipped[0])
		for j := 1; j+1 < len(clipped); j++ {
			tris = append(tris, screenTriangle{s0, r.toScreen(clipped[j]), r.toScreen(clipped[j+1])})
		}
	}

	return r.forEachBand(ctx, func(y0, y1 int) {
		for i := range tris {
			r.fillTriangle(&tris[i], prog, y0, y1)
		}
	})
}

// DrawLines draws the unique edges of the mesh as one-pixel lines.
func (r *Rasterizer) DrawLines(ctx context.Context, m *mesh.Mesh, prog shading.Program) error {
	if m == nil || r.target.Width() == 0 || r.target.Height() == 0 {
		return nil
	}
	verts := runVertexStage(m, prog)

	edges := m.Edges()
	lines := make([]screenLine, 0, len(edges)/2)
	for i := 0; i+1 < len(edges); i += 2 {
		a, b, ok := clipLineNear(verts[edges[i]], verts[edges[i+1]])
		if !ok {
			continue
		}
		lines = append(lines, screenLine{r.toScreen(a), r.toScreen(b)})
	}

	return r.forEachBand(ctx, func(y0, y1 int) {
		for i := range lines {
			r.strokeLine(&lines[i], prog, y0, y1)
		}
	})
}

// forEachBand runs fn over [y0, y1) row ranges concurrently.
func (r *Rasterizer) forEachBand(ctx context.Context, fn func(y0, y1 int)) error {
	height := r.target.Height()
	bands := r.workers
	if bands > height {
		bands = height
	}
	rows := (height + bands - 1) / bands

	g, ctx := errgroup.WithContext(ctx)
	for y0 := 0; y0 < height; y0 += rows {
		y1 := min(y0+rows, height)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(y0, y1)
			return nil
		})
	}
	return g.Wait()
}

// edge is the signed doubled area of (a, b, p).
func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// fillTriangle rasterizes one triangle restricted to rows [y0, y1).
func (r *Rasterizer) fillTriangle(t *screenTriangle, prog shading.Program, y0, y1 int) {
	v0, v1, v2 := &t[0], &t[1], &t[2]

	area := edge(v0.x, v0.y, v1.x, v1.y, v2.x, v2.y)
	if area == 0 {
		return
	}

	minX := max(0, int(math32.Floor(min(v0.x, v1.x, v2.x))))
	maxX := min(r.target.Width()-1, int(math32.Ceil(max(v0.x, v1.x, v2.x))))
	minY := max(y0, int(math32.Floor(min(v0.y, v1.y, v2.y))))
	maxY := min(y1-1, int(math32.Ceil(max(v0.y, v1.y, v2.y))))

	invArea := 1 / area
	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5

			// Normalized by the signed area, so either winding gives
			// non-negative weights inside.
			b0 := edge(v1.x, v1.y, v2.x, v2.y, px, py) * invArea
			b1 := edge(v2.x, v2.y, v0.x, v0.y, px, py) * invArea
			b2 := edge(v0.x, v0.y, v1.x, v1.y, px, py) * invArea
			if b0 < 0 || b1 < 0 || b2 < 0 {
				continue
			}

			depth := b0*v0.z + b1*v1.z + b2*v2.z
			if depth < 0 || depth > 1 || !(depth < r.target.DepthAt(x, y)) {
				continue
			}

			// Perspective-correct weights
			p0, p1, p2 := b0*v0.invW, b1*v1.invW, b2*v2.invW
			sum := p0 + p1 + p2
			if sum <= 0 {
				continue
			}
			p0, p1, p2 = p0/sum, p1/sum, p2/sum

			frag := shading.Interpolate(v0.attrs, v1.attrs, v2.attrs, p0, p1, p2)
			r.target.write(x, y, depth, prog.Fragment(frag))
		}
	}
}

// strokeLine walks a line one pixel per step, keeping only rows [y0, y1).
func (r *Rasterizer) strokeLine(l *screenLine, prog shading.Program, y0, y1 int) {
	a, b := &l[0], &l[1]
	dx, dy := b.x-a.x, b.y-a.y
	steps := int(math32.Ceil(max(math32.Abs(dx), math32.Abs(dy))))
	if steps == 0 {
		steps = 1
	}

	// Only walk the steps that can land inside the band. Bounds are padded
	// by a pixel and a step to absorb rounding in the t range.
	width := r.target.Width()
	t0, t1, ok := clipAxis(a.x, dx, -1, float32(width+1), 0, 1)
	if ok {
		t0, t1, ok = clipAxis(a.y, dy, float32(y0-1), float32(y1+1), t0, t1)
	}
	if !ok {
		return
	}
	first := max(0, int(math32.Floor(t0*float32(steps)))-1)
	last := min(steps, int(math32.Ceil(t1*float32(steps)))+1)

	for i := first; i <= last; i++ {
		t := float32(i) / float32(steps)
		x := int(math32.Floor(a.x + dx*t))
		y := int(math32.Floor(a.y + dy*t))
		if y < y0 || y >= y1 || x < 0 || x >= width {
			continue
		}

		depth := a.z + (b.z-a.z)*t
		if depth < 0 || depth > 1 || !(depth < r.target.DepthAt(x, y)) {
			continue
		}

		// Perspective-correct parameter
		pa, pb := (1-t)*a.invW, t*b.invW
		tc := pb / (pa + pb)

		frag := shading.Lerp(a.attrs, b.attrs, tc)
		r.target.write(x, y, depth, prog.Fragment(frag))
	}
}

// clipAxis narrows [t0, t1] to where p + t*d lies in [lo, hi].
func clipAxis(p, d, lo, hi, t0, t1 float32) (float32, float32, bool) {
	if d == 0 {
		return t0, t1, p >= lo && p <= hi
	}
	ta, tb := (lo-p)/d, (hi-p)/d
	if ta > tb {
		ta, tb = tb, ta
	}
	t0, t1 = max(t0, ta), min(t1, tb)
	return t0, t1, t0 <= t1
}
