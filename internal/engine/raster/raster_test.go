package raster

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"slices"
	"testing"
	"time"

	"github.com/Faultbox/objview/internal/engine/camera"
	"github.com/Faultbox/objview/internal/engine/lighting"
	"github.com/Faultbox/objview/internal/engine/mesh"
	"github.com/Faultbox/objview/internal/engine/shading"
	"github.com/Faultbox/objview/pkg/math"
)

var (
	background = math.Vec3{X: 0, Y: 0, Z: 0}
	red        = math.Vec3{X: 1, Y: 0, Z: 0}
	green      = math.Vec3{X: 0, Y: 1, Z: 0}
)

func flat(c math.Vec3) *shading.UnlitProgram {
	return &shading.UnlitProgram{
		Camera: camera.Uniforms{ViewProjection: math.Identity(), View: math.Identity()},
		Color:  c,
	}
}

// triangle builds a mesh directly in clip space (identity view-projection).
func triangle(t *testing.T, z [3]float32, indices []uint32) *mesh.Mesh {
	t.Helper()
	verts := []mesh.Vertex{
		{Position: [3]float32{-0.5, -0.5, z[0]}, Normal: [3]float32{0, 0, 1}},
		{Position: [3]float32{0.5, -0.5, z[1]}, Normal: [3]float32{0, 0, 1}},
		{Position: [3]float32{0, 0.5, z[2]}, Normal: [3]float32{0, 0, 1}},
	}
	m, err := mesh.New(verts, indices)
	if err != nil {
		t.Fatalf("mesh.New: %v", err)
	}
	return m
}

func nearDepth(a, b float32) bool {
	d := a - b
	return d < 1e-6 && d > -1e-6
}

func pixel(tg *Target, x, y int) color.RGBA {
	return tg.Color.RGBAAt(x, y)
}

func TestClear(t *testing.T) {
	tg := NewTarget(5, 3)
	tg.Clear(math.Vec3{X: 0.1, Y: 0.2, Z: 0.3})

	want := color.RGBA{R: 26, G: 51, B: 77, A: 255}
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			if got := pixel(tg, x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
			if d := tg.DepthAt(x, y); d != 1.0 {
				t.Fatalf("depth (%d,%d) = %f, want 1.0", x, y, d)
			}
		}
	}
}

func TestDrawTrianglesCoversCenter(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
	}{
		{"counter-clockwise", []uint32{0, 1, 2}},
		{"clockwise", []uint32{0, 2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tg := NewTarget(8, 8)
			tg.Clear(background)
			r := New(tg, 2)

			m := triangle(t, [3]float32{0, 0, 0}, tt.indices)
			if err := r.DrawTriangles(context.Background(), m, flat(red)); err != nil {
				t.Fatalf("DrawTriangles: %v", err)
			}

			if got := pixel(tg, 4, 4); got != (color.RGBA{R: 255, A: 255}) {
				t.Errorf("center pixel = %v, want red", got)
			}
			if d := tg.DepthAt(4, 4); !nearDepth(d, 0.5) {
				t.Errorf("center depth = %f, want 0.5", d)
			}
			if got := pixel(tg, 0, 0); got != (color.RGBA{A: 255}) {
				t.Errorf("corner pixel should stay clear, got %v", got)
			}
		})
	}
}

func TestDepthLessWins(t *testing.T) {
	far := [3]float32{0.5, 0.5, 0.5}
	nearer := [3]float32{-0.5, -0.5, -0.5}

	for _, farFirst := range []bool{true, false} {
		tg := NewTarget(8, 8)
		tg.Clear(background)
		r := New(tg, 1)

		draw := func(z [3]float32, c math.Vec3) {
			if err := r.DrawTriangles(context.Background(), triangle(t, z, nil), flat(c)); err != nil {
				t.Fatalf("DrawTriangles: %v", err)
			}
		}
		if farFirst {
			draw(far, red)
			draw(nearer, green)
		} else {
			draw(nearer, green)
			draw(far, red)
		}

		if got := pixel(tg, 4, 4); got != (color.RGBA{G: 255, A: 255}) {
			t.Errorf("farFirst=%v: nearer triangle should win, got %v", farFirst, got)
		}
		if d := tg.DepthAt(4, 4); !nearDepth(d, 0.25) {
			t.Errorf("farFirst=%v: depth = %f, want 0.25", farFirst, d)
		}
	}
}

func TestEqualDepthKeepsFirst(t *testing.T) {
	tg := NewTarget(8, 8)
	tg.Clear(background)
	r := New(tg, 1)
	m := triangle(t, [3]float32{0, 0, 0}, nil)

	_ = r.DrawTriangles(context.Background(), m, flat(red))
	_ = r.DrawTriangles(context.Background(), m, flat(green))

	if got := pixel(tg, 4, 4); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("LESS test should reject equal depth, got %v", got)
	}
}

func TestNearPlaneClipping(t *testing.T) {
	tg := NewTarget(8, 8)
	tg.Clear(background)
	r := New(tg, 3)

	crossing := triangle(t, [3]float32{0, 0, -3}, nil)
	if err := r.DrawTriangles(context.Background(), crossing, flat(red)); err != nil {
		t.Fatalf("DrawTriangles: %v", err)
	}
	if got := pixel(tg, 4, 5); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("part in front of the near plane should be drawn, got %v", got)
	}
	if got := pixel(tg, 4, 4); got != (color.RGBA{A: 255}) {
		t.Errorf("part behind the near plane should be clipped, got %v", got)
	}

	tg.Clear(background)
	behind := triangle(t, [3]float32{-2, -2, -2}, nil)
	if err := r.DrawTriangles(context.Background(), behind, flat(red)); err != nil {
		t.Fatalf("DrawTriangles: %v", err)
	}
	for i := 0; i < len(tg.Color.Pix); i += 4 {
		if tg.Color.Pix[i] != 0 {
			t.Fatal("triangle behind the near plane should draw nothing")
		}
	}
}

func TestDrawLinesEdgesOnly(t *testing.T) {
	tg := NewTarget(8, 8)
	tg.Clear(background)
	r := New(tg, 4)

	m := triangle(t, [3]float32{0, 0, 0}, nil)
	if err := r.DrawLines(context.Background(), m, flat(red)); err != nil {
		t.Fatalf("DrawLines: %v", err)
	}

	// Bottom edge runs along row 6
	if got := pixel(tg, 4, 6); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("edge pixel = %v, want red", got)
	}
	if got := pixel(tg, 4, 4); got != (color.RGBA{A: 255}) {
		t.Errorf("interior pixel should stay clear, got %v", got)
	}
}

// longEdgeTriangle has one vertex far right of the viewport, so two of its
// edges cross millions of off-screen pixels.
func longEdgeTriangle(t *testing.T) *mesh.Mesh {
	t.Helper()
	verts := []mesh.Vertex{
		{Position: [3]float32{-0.5, 0, 0}},
		{Position: [3]float32{1e7, 0, 0}},
		{Position: [3]float32{-0.5, 0.5, 0}},
	}
	m, err := mesh.New(verts, nil)
	if err != nil {
		t.Fatalf("mesh.New: %v", err)
	}
	return m
}

func TestDrawLinesOffscreenEndpoint(t *testing.T) {
	render := func(workers int) *Target {
		tg := NewTarget(64, 64)
		tg.Clear(background)
		r := New(tg, workers)

		done := make(chan error, 1)
		go func() { done <- r.DrawLines(context.Background(), longEdgeTriangle(t), flat(red)) }()
		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("DrawLines: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("DrawLines with %d workers did not return", workers)
		}
		return tg
	}

	tg := render(8)

	// The bottom edge runs along row 32 from x=16 off the right side
	lit := 0
	for x := 16; x < 64; x++ {
		if pixel(tg, x, 32) == (color.RGBA{R: 255, A: 255}) {
			lit++
		}
	}
	if lit < 40 {
		t.Errorf("expected the visible part of the edge on row 32, got %d of 48 pixels", lit)
	}
	if got := pixel(tg, 40, 48); got != (color.RGBA{A: 255}) {
		t.Errorf("pixel below the triangle should stay clear, got %v", got)
	}

	if single := render(1); !bytes.Equal(single.Color.Pix, tg.Color.Pix) {
		t.Error("8 workers differ from 1 worker")
	}
}

func TestClipAxis(t *testing.T) {
	tests := []struct {
		name           string
		p, d, lo, hi   float32
		wantT0, wantT1 float32
		wantOK         bool
	}{
		{"inside", 2, 4, 0, 10, 0, 1, true},
		{"enters and leaves", -10, 40, 0, 10, 0.25, 0.5, true},
		{"reversed", 30, -40, 0, 10, 0.5, 0.75, true},
		{"misses", 20, 5, 0, 10, 0, 0, false},
		{"parallel inside", 5, 0, 0, 10, 0, 1, true},
		{"parallel outside", 11, 0, 0, 10, 0, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t0, t1, ok := clipAxis(tt.p, tt.d, tt.lo, tt.hi, 0, 1)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && (t0 != tt.wantT0 || t1 != tt.wantT1) {
				t.Errorf("range = [%v, %v], want [%v, %v]", t0, t1, tt.wantT0, tt.wantT1)
			}
		})
	}
}

func renderCube(t *testing.T, workers int, wire bool) *Target {
	t.Helper()
	orbit := camera.NewOrbitCamera(64.0 / 48.0)
	orbit.HandleDrag(45, 30)
	cam := orbit.Uniforms()

	tg := NewTarget(64, 48)
	tg.Clear(math.Vec3{X: 0.1, Y: 0.2, Z: 0.3})
	r := New(tg, workers)

	cube := mesh.Cube(1, [3]float32{1, 1, 1})
	var err error
	if wire {
		err = r.DrawLines(context.Background(), cube, &shading.UnlitProgram{Camera: cam, Color: math.Vec3{X: 1, Y: 1, Z: 1}})
	} else {
		err = r.DrawTriangles(context.Background(), cube, &shading.PhongProgram{Camera: cam, Light: lighting.DefaultPointLight()})
	}
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	return tg
}

func TestBandsDoNotChangeOutput(t *testing.T) {
	for _, wire := range []bool{false, true} {
		want := renderCube(t, 1, wire)
		for _, workers := range []int{2, 5, 48, 100} {
			got := renderCube(t, workers, wire)
			if !bytes.Equal(got.Color.Pix, want.Color.Pix) || !slices.Equal(got.Depth, want.Depth) {
				t.Errorf("wire=%v: %d workers differ from 1 worker", wire, workers)
			}
		}
	}
}

func TestCubeIsVisible(t *testing.T) {
	tg := renderCube(t, 0, false)
	clearColor := color.RGBA{R: 26, G: 51, B: 77, A: 255}
	if got := pixel(tg, 32, 24); got == clearColor {
		t.Error("cube should cover the center of the frame")
	}
	if got := pixel(tg, 0, 0); got != clearColor {
		t.Errorf("corner should show the clear color, got %v", got)
	}
}

func TestCanceledContext(t *testing.T) {
	tg := NewTarget(8, 8)
	r := New(tg, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.DrawTriangles(ctx, triangle(t, [3]float32{0, 0, 0}, nil), flat(red))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestEmptyTarget(t *testing.T) {
	r := New(NewTarget(0, 0), 4)
	if err := r.DrawTriangles(context.Background(), mesh.Cube(1, [3]float32{1, 1, 1}), flat(red)); err != nil {
		t.Errorf("empty target should be a no-op, got %v", err)
	}
}
