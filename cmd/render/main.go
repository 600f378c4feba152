package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"volvis-renderer/internal/batch"
	"volvis-renderer/internal/camera"
	"volvis-renderer/internal/config"
	"volvis-renderer/internal/mathutil"
	"volvis-renderer/internal/output"
	"volvis-renderer/internal/render"
	"volvis-renderer/internal/volume"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	mode := flag.String("mode", "", "Render mode: slice, mip, iso, composite, tf2d")
	out := flag.String("output", "", "Output image (.webp, .png, .tga or .exr)")
	width := flag.Int("width", 0, "Render width in pixels (default: 512)")
	height := flag.Int("height", 0, "Render height in pixels (default: width)")
	iso := flag.Float64("iso", 0, "Iso value for iso mode (default: 40)")
	shading := flag.Bool("shading", false, "Enable Phong volume shading")
	frames := flag.Int("frames", 0, "Turntable frame count (default: 1, single frame)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")

	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{
		Mode:    *mode,
		Output:  *out,
		Width:   *width,
		Height:  *height,
		Iso:     *iso,
		Shading: *shading,
		Frames:  *frames,
		Workers: *workers,
	})

	vol, err := buildVolume(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building volume: %v\n", err)
		os.Exit(1)
	}
	grad := volume.NewGradientVolume(vol)

	rc, err := cfg.RenderConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	if cfg.Frames > 1 {
		err = renderOrbit(cfg, rc, vol, grad)
	} else {
		err = renderSingle(cfg, rc, vol, grad)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Done in %.2fs\n", time.Since(start).Seconds())
}

func buildVolume(cfg config.Config) (*volume.Volume, error) {
	switch cfg.VolumeKind {
	case "sphere":
		return volume.SolidSphere(cfg.VolumeSize, cfg.SphereRadius)
	case "shell":
		return volume.Shell(cfg.VolumeSize, cfg.SphereRadius, cfg.ShellWidth)
	case "uniform":
		return volume.Uniform(cfg.VolumeSize, cfg.UniformValue)
	default:
		return nil, fmt.Errorf("unknown volume kind %q (want sphere, shell or uniform)", cfg.VolumeKind)
	}
}

func renderSingle(cfg config.Config, rc render.Config, vol *volume.Volume, grad *volume.GradientVolume) error {
	dims := vol.Dims()
	center := mathutil.Vec3{float64(dims[0] - 1), float64(dims[1] - 1), float64(dims[2] - 1)}.Scale(0.5)

	aspect := float64(rc.Width) / float64(rc.Height)
	cam, err := camera.New(center.Add(mathutil.Vec3{0, 0, cfg.Distance}), center, mathutil.Vec3{0, 1, 0}, cfg.FOV, aspect)
	if err != nil {
		return err
	}
	if err := cam.Orbit(center, cfg.Distance, cfg.Yaw, cfg.Pitch); err != nil {
		return err
	}

	r, err := render.New(vol, grad, cam, rc)
	if err != nil {
		return err
	}

	fmt.Printf("Rendering %dx%d %s frame...\n", cfg.Width, cfg.Height, cfg.Mode)
	r.Render()

	return output.SaveFrame(cfg.Output, r.FrameBuffer(), cfg.Gamma, cfg.Width, cfg.Height)
}

func renderOrbit(cfg config.Config, rc render.Config, vol *volume.Volume, grad *volume.GradientVolume) error {
	outDir := filepath.Dir(cfg.Output)
	ext := filepath.Ext(cfg.Output)
	base := strings.TrimSuffix(filepath.Base(cfg.Output), ext)

	fmt.Printf("Rendering %d %s frames to %s...\n", cfg.Frames, cfg.Mode, outDir)
	results, err := batch.Run(batch.Config{
		Volume:    vol,
		Gradient:  grad,
		Render:    rc,
		OutputDir: outDir,
		Pattern:   base + "_%03d" + ext,
		Frames:    cfg.Frames,
		Distance:  cfg.Distance,
		Pitch:     cfg.Pitch,
		FOV:       cfg.FOV,
		Gamma:     cfg.Gamma,
		TargetW:   cfg.Width,
		TargetH:   cfg.Height,
		Workers:   cfg.Workers,
	})
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if !res.Success {
			failed++
			fmt.Fprintf(os.Stderr, "  frame %d: %s\n", res.Frame, res.Error)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d frames failed", failed, len(results))
	}

	return batch.WriteManifest(filepath.Join(outDir, "manifest.json"), results)
}
