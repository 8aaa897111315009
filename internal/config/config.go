// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/objview/internal/engine/pipeline"
	"github.com/Faultbox/objview/internal/logger"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid config")

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Camera  CameraConfig  `yaml:"camera"`
	Light   LightConfig   `yaml:"light"`
	Render  RenderConfig  `yaml:"render"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// CameraConfig holds projection and orbit controls.
type CameraConfig struct {
	FOVDegrees           float32 `yaml:"fov_degrees"`
	Near                 float32 `yaml:"near"`
	Far                  float32 `yaml:"far"`
	MinDistance          float32 `yaml:"min_distance"`
	MaxDistance          float32 `yaml:"max_distance"`
	DragSensitivity      float32 `yaml:"drag_sensitivity"`       // Radians per pixel
	ZoomSensitivity      float32 `yaml:"zoom_sensitivity"`       // Units per wheel line
	PixelZoomSensitivity float32 `yaml:"pixel_zoom_sensitivity"` // Units per wheel pixel
}

// LightConfig holds the point light parameters.
type LightConfig struct {
	Position         [4]float32 `yaml:"position,flow"`
	Color            [4]float32 `yaml:"color,flow"`
	Intensity        float32    `yaml:"intensity"`
	AmbientStrength  float32    `yaml:"ambient_strength"`
	DiffuseStrength  float32    `yaml:"diffuse_strength"`
	SpecularStrength float32    `yaml:"specular_strength"`
	Shininess        float32    `yaml:"shininess"`
}

// RenderConfig holds pipeline settings.
type RenderConfig struct {
	Mode            string     `yaml:"mode"` // solid or wireframe
	ClearColor      [3]float32 `yaml:"clear_color,flow"`
	WireColor       [3]float32 `yaml:"wire_color,flow"`
	WireVertexColor bool       `yaml:"wire_vertex_color"`
	Workers         int        `yaml:"workers"` // Software rasterizer bands, 0 = one per CPU
}

// ViewerConfig holds application behavior.
type ViewerConfig struct {
	Model         string `yaml:"model"` // Opened at startup
	Watch         bool   `yaml:"watch"` // Reload the model when the file changes
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "OBJ Viewer",
			Width:      800,
			Height:     600,
			Fullscreen: false,
			VSync:      true,
		},
		Camera: CameraConfig{
			FOVDegrees:           45,
			Near:                 0.1,
			Far:                  1000,
			MinDistance:          0.1,
			MaxDistance:          100,
			DragSensitivity:      0.01,
			ZoomSensitivity:      0.5,
			PixelZoomSensitivity: 0.01,
		},
		Light: LightConfig{
			Position:         [4]float32{0, 0, 5, 1},
			Color:            [4]float32{1, 1, 1, 1},
			Intensity:        1.0,
			AmbientStrength:  0.1,
			DiffuseStrength:  0.7,
			SpecularStrength: 0.3,
			Shininess:        32,
		},
		Render: RenderConfig{
			Mode:       "solid",
			ClearColor: [3]float32{0.1, 0.2, 0.3},
			WireColor:  [3]float32{1, 1, 1},
			Workers:    0,
		},
		Viewer: ViewerConfig{
			Watch:         true,
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks values that would break rendering.
// Light ranges are checked by lighting.PointLight.Validate.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Camera.FOVDegrees <= 0 || c.Camera.FOVDegrees >= 180 {
		return fmt.Errorf("%w: fov_degrees %v outside (0,180)", ErrInvalid, c.Camera.FOVDegrees)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("%w: need 0 < near < far, got near=%v far=%v", ErrInvalid, c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.MinDistance <= 0 || c.Camera.MaxDistance < c.Camera.MinDistance {
		return fmt.Errorf("%w: need 0 < min_distance <= max_distance", ErrInvalid)
	}
	if _, err := pipeline.ParseMode(c.Render.Mode); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Render.Workers < 0 {
		return fmt.Errorf("%w: workers %d < 0", ErrInvalid, c.Render.Workers)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}
