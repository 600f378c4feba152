package render

import (
	"fmt"

	"volvis-renderer/internal/transfer"
)

// Mode selects the shading algorithm evaluated along each ray.
type Mode int

const (
	// ModeSlice samples the volume once on a camera-facing plane through its center.
	ModeSlice Mode = iota
	// ModeMIP keeps the maximum intensity along the ray.
	ModeMIP
	// ModeIso extracts the first isosurface crossing, optionally Phong shaded.
	ModeIso
	// ModeComposite integrates a 1D transfer function back to front.
	ModeComposite
	// ModeTF2D integrates a 2D tent opacity function front to back.
	ModeTF2D
)

var modeNames = map[Mode]string{
	ModeSlice:     "slice",
	ModeMIP:       "mip",
	ModeIso:       "iso",
	ModeComposite: "composite",
	ModeTF2D:      "tf2d",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode resolves a mode name from the config file or CLI.
func ParseMode(name string) (Mode, error) {
	for m, n := range modeNames {
		if n == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("render: unknown mode %q (want slice, mip, iso, composite or tf2d)", name)
}

// Config is the per-frame render configuration. It is immutable for the
// duration of a render pass; Renderer.SetConfig swaps it between passes.
type Config struct {
	Width, Height int
	Mode          Mode
	StepSize      float64 // sampling distance along the ray, in voxels

	IsoValue float64
	Shading  bool // Phong-shade iso hits and composite samples

	TF1D transfer.LUT1D  // used by ModeComposite
	TF2D transfer.Tent2D // used by ModeTF2D

	Workers  int // tile workers; 0 means NumCPU, 1 is sequential
	TileSize int // tile edge in pixels; 0 picks a default
}

// Validate rejects configurations that would violate tracer preconditions.
// Violations surface here, never mid-trace.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("render: resolution %dx%d must be positive", c.Width, c.Height)
	}
	if _, ok := modeNames[c.Mode]; !ok {
		return fmt.Errorf("render: invalid mode %d", int(c.Mode))
	}
	if c.StepSize <= 0 {
		return fmt.Errorf("render: step size %g must be positive", c.StepSize)
	}
	if c.Workers < 0 {
		return fmt.Errorf("render: worker count %d must not be negative", c.Workers)
	}
	if c.TileSize < 0 {
		return fmt.Errorf("render: tile size %d must not be negative", c.TileSize)
	}
	if c.Mode == ModeComposite {
		if err := c.TF1D.Validate(); err != nil {
			return err
		}
	}
	if c.Mode == ModeTF2D {
		if err := c.TF2D.Validate(); err != nil {
			return err
		}
	}
	return nil
}
