// Command objrender renders a model to a PNG file with the software pipeline.
//
// Usage:
//
//	objrender [flags] model.obj
//	objrender -mode wireframe -size 1024x768 -yaw 30 -pitch 20 -ssaa 2 -o cube.png cube.obj
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/config"
	"github.com/Faultbox/objview/internal/engine/debug"
	"github.com/Faultbox/objview/internal/engine/pipeline"
	"github.com/Faultbox/objview/internal/engine/renderer"
	"github.com/Faultbox/objview/internal/logger"
	"github.com/Faultbox/objview/internal/viewer"
	"github.com/Faultbox/objview/pkg/math"
)

var (
	flagMode   = flag.String("mode", "", "Pipeline mode: solid or wireframe (default from config)")
	flagSize   = flag.String("size", "", "Output size WIDTHxHEIGHT (default window size from config)")
	flagYaw    = flag.Float64("yaw", 0, "Camera yaw in degrees")
	flagPitch  = flag.Float64("pitch", 0, "Camera pitch in degrees, clamped to about ±86")
	flagSSAA   = flag.Int("ssaa", 1, "Supersampling factor")
	flagOutput = flag.String("o", "render.png", "Output PNG path")
)

func main() {
	config.ParseFlags()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()

	if cfg.Viewer.Model == "" {
		flag.Usage()
		return fmt.Errorf("no model given")
	}

	width, height := cfg.Window.Width, cfg.Window.Height
	if *flagSize != "" {
		if _, err := fmt.Sscanf(*flagSize, "%dx%d", &width, &height); err != nil || width <= 0 || height <= 0 {
			return fmt.Errorf("invalid -size %q, want WIDTHxHEIGHT", *flagSize)
		}
	}
	if *flagSSAA < 1 {
		return fmt.Errorf("invalid -ssaa %d", *flagSSAA)
	}

	scene := viewer.NewScene(cfg, float32(width)/float32(height))
	if *flagMode != "" {
		mode, err := pipeline.ParseMode(*flagMode)
		if err != nil {
			return err
		}
		scene.Selector.Set(mode)
	}
	if err := scene.Light.Validate(); err != nil {
		return err
	}
	if err := scene.Open(cfg.Viewer.Model); err != nil {
		return err
	}

	cam := scene.Camera
	cam.Yaw = float32(*flagYaw) * math32.Pi / 180
	cam.Pitch = math.Clamp(float32(*flagPitch)*math32.Pi/180, cam.MinPitch, cam.MaxPitch)

	ssaa := *flagSSAA
	r := renderer.NewSoftware(width*ssaa, height*ssaa, cfg.Render.Workers, renderer.Options{
		ClearColor:      cfg.ClearColor(),
		WireColor:       cfg.WireColor(),
		WireVertexColor: cfg.Render.WireVertexColor,
	})
	r.Selector().Set(scene.Selector.Mode())
	r.SetMesh(scene.Mesh)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	img, err := r.Frame(ctx, scene.Uniforms(), scene.Light)
	if err != nil {
		return err
	}
	out := renderer.Downsample(img, ssaa)

	if err := debug.WritePNG(*flagOutput, out); err != nil {
		return err
	}

	logger.Info("render written",
		zap.String("path", *flagOutput),
		zap.Stringer("mode", scene.Selector.Mode()),
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("ssaa", ssaa),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
