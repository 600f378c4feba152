// Package batch renders turntable sequences: N camera positions orbiting the
// volume, distributed over a worker pool with one renderer per worker.
package batch

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"volvis-renderer/internal/camera"
	"volvis-renderer/internal/mathutil"
	"volvis-renderer/internal/output"
	"volvis-renderer/internal/render"
	"volvis-renderer/internal/volume"
)

// Config holds all shared resources for a turntable run.
type Config struct {
	Volume   *volume.Volume
	Gradient *volume.GradientVolume
	Render   render.Config

	OutputDir string
	Pattern   string // frame filename pattern with one %d verb, e.g. "frame_%03d.webp"

	Frames   int
	Distance float64 // orbit radius from the volume center
	Pitch    float64 // orbit elevation in radians
	FOV      float64 // vertical field of view in degrees

	Gamma            float64
	TargetW, TargetH int // final image size; 0 keeps the render resolution
	Workers          int // 0 means NumCPU via the per-frame renderer default
}

// Result holds the outcome of rendering one frame.
type Result struct {
	Frame   int     `json:"frame"`
	Yaw     float64 `json:"yaw"`
	Image   string  `json:"image"`
	Success bool    `json:"success"`
	Error   string  `json:"error,omitempty"`
}

// Run renders all frames of the orbit. Frames are distributed over workers;
// each worker owns its camera and renderer so nothing mutable is shared.
// The returned slice has one entry per frame in frame order.
func Run(cfg Config) ([]Result, error) {
	if cfg.Frames <= 0 {
		return nil, fmt.Errorf("batch: frame count %d must be positive", cfg.Frames)
	}
	if cfg.Pattern == "" {
		cfg.Pattern = "frame_%03d.webp"
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("batch: create output dir: %w", err)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > cfg.Frames {
		workers = cfg.Frames
	}
	frameRender := cfg.Render
	if workers > 1 {
		// Frames are parallelized across workers, so each renderer traces
		// its tiles sequentially.
		frameRender.Workers = 1
	}

	dims := cfg.Volume.Dims()
	center := mathutil.Vec3{float64(dims[0] - 1), float64(dims[1] - 1), float64(dims[2] - 1)}.Scale(0.5)

	total := cfg.Frames
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					fmt.Printf("  [%d/%d] %.1f frames/sec\n", p, total, float64(p)/elapsed)
				}
			}
		}
	}()

	frameCh := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			cam, r, err := newFrameRenderer(cfg, frameRender, center)
			for idx := range frameCh {
				if err != nil {
					results[idx] = Result{Frame: idx, Error: err.Error()}
					processed.Add(1)
					continue
				}
				results[idx] = renderFrame(cfg, cam, r, center, idx)
				processed.Add(1)
			}
		}()
	}

	for i := 0; i < total; i++ {
		frameCh <- i
	}
	close(frameCh)

	wg.Wait()
	close(done)

	return results, nil
}

func newFrameRenderer(cfg Config, frameRender render.Config, center mathutil.Vec3) (*camera.Camera, *render.Renderer, error) {
	aspect := float64(frameRender.Width) / float64(frameRender.Height)
	eye := center.Add(mathutil.Vec3{0, 0, cfg.Distance})
	cam, err := camera.New(eye, center, mathutil.Vec3{0, 1, 0}, cfg.FOV, aspect)
	if err != nil {
		return nil, nil, err
	}
	r, err := render.New(cfg.Volume, cfg.Gradient, cam, frameRender)
	if err != nil {
		return nil, nil, err
	}
	return cam, r, nil
}

func renderFrame(cfg Config, cam *camera.Camera, r *render.Renderer, center mathutil.Vec3, idx int) Result {
	yaw := 2 * math.Pi * float64(idx) / float64(cfg.Frames)
	res := Result{Frame: idx, Yaw: yaw}

	if err := cam.Orbit(center, cfg.Distance, yaw, cfg.Pitch); err != nil {
		res.Error = err.Error()
		return res
	}
	r.Render()

	name := fmt.Sprintf(cfg.Pattern, idx)
	path := filepath.Join(cfg.OutputDir, name)
	if err := output.SaveFrame(path, r.FrameBuffer(), cfg.Gamma, cfg.TargetW, cfg.TargetH); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Image = name
	res.Success = true
	return res
}
