package renderer

import (
	"context"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/engine/camera"
	"github.com/Faultbox/objview/internal/engine/lighting"
	"github.com/Faultbox/objview/internal/engine/mesh"
	"github.com/Faultbox/objview/internal/engine/pipeline"
	"github.com/Faultbox/objview/internal/engine/raster"
	"github.com/Faultbox/objview/internal/engine/shading"
	"github.com/Faultbox/objview/internal/logger"
)

// Software renders frames on the CPU.
type Software struct {
	opts     Options
	target   *raster.Target
	raster   *raster.Rasterizer
	mesh     *mesh.Mesh
	selector *pipeline.Selector
}

// NewSoftware creates a renderer with a width x height target.
// workers <= 0 uses one band per CPU.
func NewSoftware(width, height, workers int, opts Options) *Software {
	target := raster.NewTarget(width, height)
	return &Software{
		opts:     opts,
		target:   target,
		raster:   raster.New(target, workers),
		selector: pipeline.NewSelector(pipeline.ModeSolid),
	}
}

// Selector returns the mode selector. Toggling it only changes which
// pipeline the next Frame uses.
func (r *Software) Selector() *pipeline.Selector {
	return r.selector
}

// SetMesh replaces the mesh wholesale.
func (r *Software) SetMesh(m *mesh.Mesh) {
	r.mesh = m
	s := Stats(m)
	logger.Debug("software mesh set",
		zap.Int("vertices", s.Vertices),
		zap.Int("triangles", s.Triangles),
		zap.Int("edges", s.Edges),
	)
}

// Mesh returns the current mesh, nil before the first SetMesh.
func (r *Software) Mesh() *mesh.Mesh {
	return r.mesh
}

// Resize reallocates the target.
func (r *Software) Resize(width, height int) {
	r.target.Resize(width, height)
}

// Frame clears the target and draws the mesh with the active pipeline.
// The returned image is owned by the renderer and overwritten by the next
// Frame.
func (r *Software) Frame(ctx context.Context, cam camera.Uniforms, light lighting.PointLight) (*image.RGBA, error) {
	r.target.Clear(r.opts.ClearColor)
	if r.mesh == nil {
		return r.target.Color, nil
	}

	d := r.selector.Descriptor()
	var prog shading.Program
	if d.Lit {
		prog = &shading.PhongProgram{Camera: cam, Light: light}
	} else {
		prog = &shading.UnlitProgram{Camera: cam, Color: r.opts.WireColor, UseVertexColor: r.opts.WireVertexColor}
	}

	var err error
	switch d.Topology {
	case pipeline.Triangles:
		err = r.raster.DrawTriangles(ctx, r.mesh, prog)
	case pipeline.Lines:
		err = r.raster.DrawLines(ctx, r.mesh, prog)
	}
	if err != nil {
		return nil, fmt.Errorf("drawing %s frame: %w", d.Mode, err)
	}
	return r.target.Color, nil
}

// Depth returns the depth buffer of the last frame, row-major, top row first.
func (r *Software) Depth() []float32 {
	return r.target.Depth
}
