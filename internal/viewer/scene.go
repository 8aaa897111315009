// Package viewer holds the viewer state that does not depend on a window:
// the scene, model loading, hot reload, the file chooser and the
// performance monitor.
package viewer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/config"
	"github.com/Faultbox/objview/internal/engine/camera"
	"github.com/Faultbox/objview/internal/engine/input"
	"github.com/Faultbox/objview/internal/engine/lighting"
	"github.com/Faultbox/objview/internal/engine/mesh"
	"github.com/Faultbox/objview/internal/engine/pipeline"
	"github.com/Faultbox/objview/internal/logger"
	"github.com/Faultbox/objview/pkg/formats"
	"github.com/Faultbox/objview/pkg/math"
)

// LoadModel reads an OBJ or glTF file into a mesh. Loader warnings are
// logged, not returned.
func LoadModel(path string) (*mesh.Mesh, error) {
	g, err := formats.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	for _, w := range g.Warnings {
		logger.Warn("model warning", zap.String("path", path), zap.String("warning", w))
	}

	m, err := mesh.FromGeometry(g)
	if err != nil {
		return nil, fmt.Errorf("building mesh from %s: %w", path, err)
	}

	logger.Info("model loaded",
		zap.String("path", path),
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("triangles", m.TriangleCount()),
	)
	return m, nil
}

// Scene is everything one frame is drawn from. The event loop is its only
// writer.
type Scene struct {
	Camera   *camera.OrbitCamera
	Selector *pipeline.Selector
	Light    lighting.PointLight
	Mesh     *mesh.Mesh
	Path     string // Empty while the placeholder triangle is shown
}

// NewScene creates the startup scene: placeholder triangle, configured light
// and camera, configured pipeline mode.
func NewScene(cfg *config.Config, aspect float32) *Scene {
	return &Scene{
		Camera:   cfg.OrbitCamera(aspect),
		Selector: pipeline.NewSelector(cfg.Mode()),
		Light:    cfg.PointLight(),
		Mesh:     mesh.DefaultTriangle(),
	}
}

// Open loads path and fits the camera to it. On error the current mesh is
// kept.
func (s *Scene) Open(path string) error {
	m, err := LoadModel(path)
	if err != nil {
		return err
	}
	s.SetMesh(m, path)
	return nil
}

// Reload loads the current file again. The camera is left where it is.
func (s *Scene) Reload() error {
	if s.Path == "" {
		return nil
	}
	m, err := LoadModel(s.Path)
	if err != nil {
		return err
	}
	s.Mesh = m
	return nil
}

// SetMesh replaces the mesh and fits the camera to its bounds.
func (s *Scene) SetMesh(m *mesh.Mesh, path string) {
	s.Mesh = m
	s.Path = path
	s.Camera.FitToBounds(m.Bounds.Min, m.Bounds.Max)
}

// ResetCamera restores the orbit angles and refits the camera.
func (s *Scene) ResetCamera() {
	s.Camera.Reset()
	if s.Path == "" {
		s.Camera.Target = math.Vec3{}
		s.Camera.Distance = camera.NewOrbitCamera(s.Camera.Aspect).Distance
		return
	}
	s.Camera.FitToBounds(s.Mesh.Bounds.Min, s.Mesh.Bounds.Max)
}

// Apply handles the actions that only change scene state and reports
// whether a was one of them.
func (s *Scene) Apply(a input.Action) bool {
	switch a {
	case input.ActionToggleWireframe:
		mode := s.Selector.Toggle()
		logger.Info("pipeline mode", zap.Stringer("mode", mode))
		return true
	case input.ActionResetCamera:
		s.ResetCamera()
		return true
	}
	return false
}

// Uniforms returns this frame's camera block.
func (s *Scene) Uniforms() camera.Uniforms {
	return s.Camera.Uniforms()
}
