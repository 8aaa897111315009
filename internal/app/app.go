// Package app runs the interactive viewer: window, event loop and GL frames.
package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/config"
	"github.com/Faultbox/objview/internal/engine/debug"
	"github.com/Faultbox/objview/internal/engine/input"
	"github.com/Faultbox/objview/internal/engine/renderer"
	"github.com/Faultbox/objview/internal/engine/renderer/opengl"
	"github.com/Faultbox/objview/internal/engine/window"
	"github.com/Faultbox/objview/internal/logger"
	"github.com/Faultbox/objview/internal/viewer"
)

// App is the viewer instance.
type App struct {
	config   *config.Config
	running  bool
	window   *window.Window
	renderer *opengl.Renderer
	controls *input.Controls
	scene    *viewer.Scene

	opener      *viewer.Opener
	watcher     *viewer.Watcher
	perf        *viewer.PerfMonitor
	screenshots *debug.ScreenshotCapture
	log         *zap.Logger

	alert func(title string, err error)
}

// New creates the window, GL renderer and scene, and opens the configured
// model if any.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		config:      cfg,
		controls:    input.NewControls(input.DefaultBindings()),
		opener:      viewer.NewOpener(pickModel),
		screenshots: debug.NewScreenshotCapture(cfg.Viewer.ScreenshotDir, "objview"),
		log:         logger.Named("app"),
		alert:       showError,
	}

	a.log.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	// Creates the OpenGL context
	var err error
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	width, height := a.window.DrawableSize()
	a.renderer, err = opengl.New(width, height, renderer.Options{
		ClearColor:      cfg.ClearColor(),
		WireColor:       cfg.WireColor(),
		WireVertexColor: cfg.Render.WireVertexColor,
	})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.scene = viewer.NewScene(cfg, float32(width)/float32(height))
	if err := a.scene.Light.Validate(); err != nil {
		a.Close()
		return nil, err
	}
	a.renderer.SetLight(a.scene.Light)
	a.renderer.SetMesh(a.scene.Mesh)

	if cfg.Viewer.Watch {
		a.watcher, err = viewer.NewWatcher()
		if err != nil {
			// Hot reload is optional
			a.log.Warn("hot reload disabled", zap.Error(err))
		}
	}

	if cfg.Viewer.Model != "" {
		a.openOrAlert(cfg.Viewer.Model)
	}

	a.log.Info("viewer initialized")
	return a, nil
}

// Run starts the main loop and returns when the window is closed.
func (a *App) Run() error {
	a.running = true
	a.perf = viewer.NewPerfMonitor(time.Now())

	a.log.Info("starting main loop")
	for a.running {
		// Events first; uniforms are computed once per frame after this.
		for _, event := range a.window.PollEvents() {
			a.handleEvent(event)
		}
		if !a.running {
			break
		}

		a.poll()

		a.renderer.Frame(a.scene.Uniforms(), a.scene.Selector.Descriptor())
		a.window.SwapBuffers()

		if a.perf.Frame(time.Now()) {
			s := a.perf.Stats()
			a.log.Debug("perf",
				zap.Float64("fps", s.FPS),
				zap.Duration("frame_time", s.FrameTime),
				zap.Uint64("frames", s.FrameCount),
				zap.Uint64("heap_bytes", s.HeapAlloc),
			)
		}
	}

	return nil
}

// Close releases all resources.
func (a *App) Close() {
	a.log.Info("closing viewer")

	if a.watcher != nil {
		a.watcher.Close()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

func (a *App) handleEvent(e input.Event) {
	if e.Type == input.EventWindowResize {
		a.scene.Camera.SetAspect(e.Width, e.Height)
		a.renderer.Resize(e.Width, e.Height)
		return
	}

	action := a.controls.Apply(e, a.scene.Camera)
	if a.scene.Apply(action) {
		return
	}

	switch action {
	case input.ActionQuit:
		a.running = false
	case input.ActionOpenFile:
		if !a.opener.Open() {
			a.log.Debug("file dialog already open")
		}
	case input.ActionScreenshot:
		a.screenshot()
	}
}

// poll picks up work finished off the main loop: a chosen file or a change
// on disk.
func (a *App) poll() {
	path, err := a.opener.Poll()
	if err != nil {
		a.log.Error("file dialog failed", zap.Error(err))
	}
	if path != "" {
		a.openOrAlert(path)
	}

	if a.watcher != nil && a.watcher.Changed() {
		if err := a.scene.Reload(); err != nil {
			a.log.Warn("reload failed, keeping previous mesh", zap.Error(err))
			return
		}
		a.renderer.SetMesh(a.scene.Mesh)
		a.log.Info("model reloaded", zap.String("path", a.scene.Path))
	}
}

// open loads path into the scene and the GPU. Errors are logged and
// returned; the previous mesh stays on screen.
func (a *App) open(path string) error {
	if err := a.scene.Open(path); err != nil {
		a.log.Error("failed to open model", zap.String("path", path), zap.Error(err))
		return err
	}
	a.renderer.SetMesh(a.scene.Mesh)
	a.window.SetTitle(fmt.Sprintf("%s - %s", a.config.Window.Title, filepath.Base(path)))

	if a.watcher != nil {
		if err := a.watcher.Watch(path); err != nil {
			a.log.Warn("cannot watch model", zap.Error(err))
		}
	}
	return nil
}

// openOrAlert opens path and shows a message box when it fails.
func (a *App) openOrAlert(path string) {
	if err := a.open(path); err != nil {
		a.alert("Failed to open model", err)
	}
}

// showError does not block, so the window keeps drawing while the message
// is up.
func showError(title string, err error) {
	go dialog.Message("%v", err).Title(title).Error()
}

func (a *App) screenshot() {
	pixels, width, height := a.renderer.ReadPixels()
	path, err := a.screenshots.CaptureFromPixels(pixels, width, height)
	if err != nil {
		a.log.Error("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

// pickModel shows the native file chooser.
func pickModel() (string, error) {
	path, err := dialog.File().
		Title("Open model").
		Filter("3D models", "obj", "gltf", "glb").
		Filter("All files", "*").
		Load()
	if errors.Is(err, dialog.ErrCancelled) {
		return "", viewer.ErrCancelled
	}
	return path, err
}
