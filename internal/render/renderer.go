// Package render implements the raycasting core: per-pixel ray generation,
// ray/volume intersection, and five volumetric shading modes composited into
// a float framebuffer.
package render

import (
	"fmt"
	"image"
	"runtime"
	"sync"

	"volvis-renderer/internal/camera"
	"volvis-renderer/internal/mathutil"
	"volvis-renderer/internal/volume"
)

const defaultTileSize = 32

// Renderer traces one ray per pixel through the volume. The volume, gradient
// volume and camera are held by reference and must outlive the renderer;
// they are read-only during a pass. The config and framebuffer are owned.
type Renderer struct {
	volume   *volume.Volume
	gradient *volume.GradientVolume
	camera   *camera.Camera
	config   Config
	fb       *FrameBuffer
}

// New validates the initial config and allocates a zero-filled framebuffer
// at its resolution.
func New(vol *volume.Volume, grad *volume.GradientVolume, cam *camera.Camera, cfg Config) (*Renderer, error) {
	if vol == nil || grad == nil || cam == nil {
		return nil, fmt.Errorf("render: volume, gradient volume and camera are required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Renderer{
		volume:   vol,
		gradient: grad,
		camera:   cam,
		config:   cfg,
		fb:       NewFrameBuffer(cfg.Width, cfg.Height),
	}, nil
}

// SetConfig swaps the render configuration between passes. A resolution
// change reallocates the framebuffer zero-filled; invalid configs are
// rejected without touching the current state.
func (r *Renderer) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Width != r.config.Width || cfg.Height != r.config.Height {
		r.fb = NewFrameBuffer(cfg.Width, cfg.Height)
	}
	r.config = cfg
	return nil
}

// Config returns the active render configuration.
func (r *Renderer) Config() Config {
	return r.config
}

// ResetFrame clears the framebuffer to transparent black.
func (r *Renderer) ResetFrame() {
	r.fb.Clear()
}

// FrameBuffer returns a view over the current pixel colors. It reflects the
// most recent completed Render call and must not be written by callers.
func (r *Renderer) FrameBuffer() *FrameBuffer {
	return r.fb
}

// Render traces the whole frame. The framebuffer is cleared first, so
// re-rendering never carries over pixels from a previous pass. Pixels whose
// ray misses the volume stay at the zero-filled background. Tiles are
// independent; workers share nothing but disjoint framebuffer slices.
func (r *Renderer) Render() {
	r.fb.Clear()

	// Shared per-frame state, computed once.
	dims := r.volume.Dims()
	planeNormal := r.camera.Forward().Scale(-1)
	volumeCenter := mathutil.Vec3{float64(dims[0]), float64(dims[1]), float64(dims[2])}.Scale(0.5)
	bounds := Bounds{
		Upper: mathutil.Vec3{float64(dims[0] - 1), float64(dims[1] - 1), float64(dims[2] - 1)},
	}

	tileSize := r.config.TileSize
	if tileSize <= 0 {
		tileSize = defaultTileSize
	}
	tiles := tileRects(r.config.Width, r.config.Height, tileSize)

	workers := r.config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers == 1 || len(tiles) == 1 {
		for _, tile := range tiles {
			r.renderTile(tile, bounds, volumeCenter, planeNormal)
		}
		return
	}

	tileCh := make(chan image.Rectangle, len(tiles))
	for _, tile := range tiles {
		tileCh <- tile
	}
	close(tileCh)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for tile := range tileCh {
				r.renderTile(tile, bounds, volumeCenter, planeNormal)
			}
		}()
	}
	wg.Wait()
}

// tileRects splits a w x h screen into tiles covering every pixel exactly once.
func tileRects(w, h, size int) []image.Rectangle {
	var tiles []image.Rectangle
	for y := 0; y < h; y += size {
		for x := 0; x < w; x += size {
			tiles = append(tiles, image.Rect(x, y, min(x+size, w), min(y+size, h)))
		}
	}
	return tiles
}

// renderTile traces every pixel in the tile and writes into the tile's
// disjoint framebuffer slots.
func (r *Renderer) renderTile(tile image.Rectangle, bounds Bounds, volumeCenter, planeNormal mathutil.Vec3) {
	w := float64(r.config.Width)
	h := float64(r.config.Height)
	step := r.config.StepSize

	for y := tile.Min.Y; y < tile.Max.Y; y++ {
		for x := tile.Min.X; x < tile.Max.X; x++ {
			// Pixel-center normalized device coordinates in [-1, 1].
			ndcX := 2*(float64(x)+0.5)/w - 1
			ndcY := 2*(float64(y)+0.5)/h - 1
			origin, dir := r.camera.GenerateRay(ndcX, ndcY)

			ray := Ray{Origin: origin, Dir: dir}
			if !bounds.IntersectRay(&ray) {
				continue
			}

			var color mathutil.Vec4
			switch r.config.Mode {
			case ModeSlice:
				color = r.traceSlice(ray, volumeCenter, planeNormal)
			case ModeMIP:
				color = r.traceMIP(ray, step)
			case ModeIso:
				color = r.traceIso(ray, step)
			case ModeComposite:
				color = r.traceComposite(ray, step)
			case ModeTF2D:
				color = r.traceTF2D(ray, step)
			}
			r.fb.set(x, y, color)
		}
	}
}
