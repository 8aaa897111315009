// Package opengl draws frames with OpenGL 4.1 core. Camera and light are
// two std140 uniform blocks on binding points 0 and 1.
package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/engine/camera"
	"github.com/Faultbox/objview/internal/engine/framebuffer"
	"github.com/Faultbox/objview/internal/engine/lighting"
	"github.com/Faultbox/objview/internal/engine/mesh"
	"github.com/Faultbox/objview/internal/engine/pipeline"
	"github.com/Faultbox/objview/internal/engine/renderer"
	"github.com/Faultbox/objview/internal/engine/shader"
	"github.com/Faultbox/objview/internal/logger"
)

// GPUMesh holds the buffer objects of an uploaded mesh. The triangle and
// edge index buffers share one vertex buffer.
type GPUMesh struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	EdgeEBO    uint32
	IndexCount int32
	EdgeCount  int32
}

// Renderer is the OpenGL backend. Must be created after the GL context.
type Renderer struct {
	opts renderer.Options

	phongProgram uint32
	unlitProgram uint32

	locWireColor      int32
	locUseVertexColor int32

	cameraUBO *shader.UniformBuffer
	lightUBO  *shader.UniformBuffer
	light     lighting.PointLight
	lights    renderer.LightTracker

	gpu *GPUMesh
	fb  *framebuffer.Framebuffer

	width  int32
	height int32
}

// New initializes OpenGL and creates programs, uniform blocks and the
// offscreen framebuffer.
func New(width, height int, opts renderer.Options) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	r := &Renderer{
		opts:   opts,
		light:  lighting.DefaultPointLight(),
		width:  int32(width),
		height: int32(height),
	}

	var err error
	r.phongProgram, err = shader.CompileProgram(shader.PhongVertexShader, shader.PhongFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("phong program: %w", err)
	}
	r.unlitProgram, err = shader.CompileProgram(shader.PhongVertexShader, shader.UnlitFragmentShader)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("unlit program: %w", err)
	}

	blocks := []struct {
		program uint32
		block   string
		binding uint32
	}{
		{r.phongProgram, shader.CameraBlock, shader.CameraBinding},
		{r.phongProgram, shader.LightBlock, shader.LightBinding},
		{r.unlitProgram, shader.CameraBlock, shader.CameraBinding},
	}
	for _, b := range blocks {
		if err := shader.BindBlock(b.program, b.block, b.binding); err != nil {
			r.Close()
			return nil, err
		}
	}

	r.locWireColor = shader.GetUniform(r.unlitProgram, "uColor")
	r.locUseVertexColor = shader.GetUniform(r.unlitProgram, "uUseVertexColor")

	r.cameraUBO = shader.NewUniformBuffer(shader.CameraBinding, camera.Std140Floats)
	r.lightUBO = shader.NewUniformBuffer(shader.LightBinding, lighting.Std140Floats)

	r.fb, err = framebuffer.New(r.width, r.height)
	if err != nil {
		r.Close()
		return nil, err
	}

	logger.Debug("GL renderer ready",
		zap.Uint32("phong", r.phongProgram),
		zap.Uint32("unlit", r.unlitProgram),
	)
	return r, nil
}

// Close releases all GPU resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	r.deleteMesh()
	if r.cameraUBO != nil {
		r.cameraUBO.Destroy()
	}
	if r.lightUBO != nil {
		r.lightUBO.Destroy()
	}
	if r.fb != nil {
		r.fb.Destroy()
	}
	if r.phongProgram != 0 {
		gl.DeleteProgram(r.phongProgram)
		r.phongProgram = 0
	}
	if r.unlitProgram != 0 {
		gl.DeleteProgram(r.unlitProgram)
		r.unlitProgram = 0
	}
}

// SetMesh uploads m, replacing and deleting the previous buffers.
func (r *Renderer) SetMesh(m *mesh.Mesh) {
	r.deleteMesh()
	if m == nil || len(m.Vertices) == 0 {
		return
	}

	g := &GPUMesh{}
	gl.GenVertexArrays(1, &g.VAO)
	gl.BindVertexArray(g.VAO)

	gl.GenBuffers(1, &g.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*mesh.Stride, gl.Ptr(m.Vertices), gl.STATIC_DRAW)

	// Position, normal, color
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, mesh.Stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, mesh.Stride, 12)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 3, gl.FLOAT, false, mesh.Stride, 24)
	gl.EnableVertexAttribArray(2)

	if len(m.Indices) > 0 {
		edges := m.Edges()

		gl.GenBuffers(1, &g.EdgeEBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.EdgeEBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(edges)*4, gl.Ptr(edges), gl.STATIC_DRAW)
		g.EdgeCount = int32(len(edges))

		// Left bound to the VAO
		gl.GenBuffers(1, &g.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)
		g.IndexCount = int32(len(m.Indices))
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	r.gpu = g

	s := renderer.Stats(m)
	logger.Debug("mesh uploaded",
		zap.Uint32("vao", g.VAO),
		zap.Int("vertices", s.Vertices),
		zap.Int("triangles", s.Triangles),
		zap.Int("edges", s.Edges),
	)
}

func (r *Renderer) deleteMesh() {
	if r.gpu == nil {
		return
	}
	gl.DeleteVertexArrays(1, &r.gpu.VAO)
	gl.DeleteBuffers(1, &r.gpu.VBO)
	if r.gpu.EBO != 0 {
		gl.DeleteBuffers(1, &r.gpu.EBO)
	}
	if r.gpu.EdgeEBO != 0 {
		gl.DeleteBuffers(1, &r.gpu.EdgeEBO)
	}
	r.gpu = nil
}

// SetLight stores the light block. It is uploaded at the start of the next
// frame, and only if it changed.
func (r *Renderer) SetLight(l lighting.PointLight) {
	r.light = l
}

// SetOptions replaces the clear and wireframe colors.
func (r *Renderer) SetOptions(opts renderer.Options) {
	r.opts = opts
}

// Resize resizes the offscreen framebuffer to the window size.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.width, r.height = int32(width), int32(height)
	r.fb.Resize(r.width, r.height)
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Frame uploads this frame's uniform blocks, draws the mesh with the
// pipeline d describes and blits the result to the window.
func (r *Renderer) Frame(cam camera.Uniforms, d pipeline.Descriptor) {
	camBlock := cam.Std140()
	r.cameraUBO.Update(camBlock[:])
	if r.lights.Update(r.light) {
		lightBlock := r.light.Std140()
		r.lightUBO.Update(lightBlock[:])
	}

	r.fb.Bind()
	if d.DepthTest {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(depthFunc(d.Depth))
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	gl.Disable(gl.CULL_FACE)
	c := r.opts.ClearColor
	r.fb.Clear(c.X, c.Y, c.Z, 1)

	if r.gpu != nil {
		r.draw(d)
	}

	r.fb.Unbind()
	r.fb.BlitToScreen(r.width, r.height)
}

func (r *Renderer) draw(d pipeline.Descriptor) {
	gl.BindVertexArray(r.gpu.VAO)
	defer gl.BindVertexArray(0)

	if d.Lit {
		gl.UseProgram(r.phongProgram)
	} else {
		w := r.opts.WireColor
		gl.UseProgram(r.unlitProgram)
		gl.Uniform3f(r.locWireColor, w.X, w.Y, w.Z)
		var useVertex int32
		if r.opts.WireVertexColor {
			useVertex = 1
		}
		gl.Uniform1i(r.locUseVertexColor, useVertex)
	}

	switch d.Topology {
	case pipeline.Triangles:
		gl.DrawElements(gl.TRIANGLES, r.gpu.IndexCount, gl.UNSIGNED_INT, nil)
	case pipeline.Lines:
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.gpu.EdgeEBO)
		gl.DrawElements(gl.LINES, r.gpu.EdgeCount, gl.UNSIGNED_INT, nil)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.gpu.EBO)
	}
}

// ReadPixels returns the last frame as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	w, h := r.fb.Size()
	return r.fb.ReadPixels(), int(w), int(h)
}

func depthFunc(c pipeline.DepthCompare) uint32 {
	if c == pipeline.DepthLessEqual {
		return gl.LEQUAL
	}
	return gl.LESS
}
