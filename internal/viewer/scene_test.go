package viewer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/objview/internal/config"
	"github.com/Faultbox/objview/internal/engine/input"
	"github.com/Faultbox/objview/internal/engine/pipeline"
	"github.com/Faultbox/objview/pkg/formats"
	"github.com/Faultbox/objview/pkg/math"
)

const quadOBJ = `# unit quad in the XY plane
v 0 0 0
v 2 0 0
v 2 2 0
v 0 2 0
f 1 2 3 4
`

func writeModel(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewSceneDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.Render.Mode = "wireframe"

	s := NewScene(cfg, 4.0/3.0)
	if s.Selector.Mode() != pipeline.ModeWireframe {
		t.Errorf("expected configured wireframe mode, got %v", s.Selector.Mode())
	}
	if s.Mesh == nil || s.Mesh.TriangleCount() != 1 {
		t.Error("expected placeholder triangle")
	}
	if s.Path != "" {
		t.Errorf("unexpected path %q", s.Path)
	}
	if got := s.Camera.Position(); got != (math.Vec3{X: 0, Y: 0, Z: 5}) {
		t.Errorf("expected camera at (0,0,5), got %v", got)
	}
}

func TestSceneOpenFitsCamera(t *testing.T) {
	s := NewScene(config.Default(), 1)
	path := writeModel(t, "quad.obj", quadOBJ)

	if err := s.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.Mesh.TriangleCount() != 2 {
		t.Errorf("expected 2 triangles, got %d", s.Mesh.TriangleCount())
	}
	if s.Camera.Target != (math.Vec3{X: 1, Y: 1, Z: 0}) {
		t.Errorf("expected target at quad center, got %v", s.Camera.Target)
	}
	want := math.Vec3{X: 2, Y: 2, Z: 0}.Length() * 2
	if s.Camera.Distance != want {
		t.Errorf("expected distance %v, got %v", want, s.Camera.Distance)
	}
	for _, v := range s.Mesh.Vertices {
		if v.Normal != [3]float32{0, 0, 1} {
			t.Errorf("expected computed +Z normal, got %v", v.Normal)
		}
	}
}

func TestSceneOpenErrorKeepsMesh(t *testing.T) {
	s := NewScene(config.Default(), 1)
	before := s.Mesh

	err := s.Open(writeModel(t, "model.stl", "solid"))
	if !errors.Is(err, formats.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
	if s.Mesh != before || s.Path != "" {
		t.Error("failed open should keep the current mesh")
	}
}

func TestSceneReloadKeepsCamera(t *testing.T) {
	s := NewScene(config.Default(), 1)
	path := writeModel(t, "quad.obj", quadOBJ)
	if err := s.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Camera.HandleDrag(50, 20)
	yaw, dist := s.Camera.Yaw, s.Camera.Distance

	if err := os.WriteFile(path, []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := s.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if s.Mesh.TriangleCount() != 1 {
		t.Errorf("expected reloaded mesh with 1 triangle, got %d", s.Mesh.TriangleCount())
	}
	if s.Camera.Yaw != yaw || s.Camera.Distance != dist {
		t.Error("reload should not move the camera")
	}
}

func TestSceneApply(t *testing.T) {
	s := NewScene(config.Default(), 1)

	if !s.Apply(input.ActionToggleWireframe) || s.Selector.Mode() != pipeline.ModeWireframe {
		t.Error("toggle should switch to wireframe")
	}
	if !s.Apply(input.ActionToggleWireframe) || s.Selector.Mode() != pipeline.ModeSolid {
		t.Error("second toggle should switch back to solid")
	}

	s.Camera.HandleDrag(30, 30)
	s.Camera.HandleZoom(4)
	if !s.Apply(input.ActionResetCamera) {
		t.Error("reset should be handled")
	}
	if s.Camera.Yaw != 0 || s.Camera.Pitch != 0 || s.Camera.Distance != 5 {
		t.Errorf("reset did not restore the default view: %+v", s.Camera)
	}

	if s.Apply(input.ActionScreenshot) {
		t.Error("screenshot is not a scene action")
	}
}
