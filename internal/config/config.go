// Package config loads the render settings from a JSON file and resolves
// CLI flag overrides and defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"volvis-renderer/internal/mathutil"
	"volvis-renderer/internal/render"
	"volvis-renderer/internal/transfer"
)

// Config holds all configurable render, scene and output settings.
type Config struct {
	// Render settings
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Mode     string  `json:"mode"` // slice, mip, iso, composite, tf2d
	StepSize float64 `json:"step_size"`
	IsoValue float64 `json:"iso_value"`
	Shading  bool    `json:"shading"`

	// 1D transfer function (composite mode)
	TFPreset string  `json:"tf_preset"` // grayscale or heat
	TFStart  float64 `json:"tf_start"`
	TFRange  float64 `json:"tf_range"`

	// 2D transfer function (tf2d mode)
	TF2DIntensity float64    `json:"tf2d_intensity"`
	TF2DRadius    float64    `json:"tf2d_radius"`
	TF2DColor     [4]float64 `json:"tf2d_color"`

	// Scene
	VolumeKind   string  `json:"volume_kind"` // sphere, shell, uniform
	VolumeSize   int     `json:"volume_size"`
	SphereRadius float64 `json:"sphere_radius"`
	ShellWidth   float64 `json:"shell_width"`
	UniformValue float64 `json:"uniform_value"`

	// Camera
	Distance float64 `json:"distance"` // orbit radius; 0 picks one from the volume size
	Yaw      float64 `json:"yaw"`      // radians
	Pitch    float64 `json:"pitch"`    // radians
	FOV      float64 `json:"fov"`      // vertical, degrees

	// Output
	Output      string  `json:"output"`
	Gamma       float64 `json:"gamma"`
	Supersample int     `json:"supersample"`
	Frames      int     `json:"frames"` // > 1 renders a turntable orbit
	Workers     int     `json:"workers"`
	TileSize    int     `json:"tile_size"`
}

// Load reads a JSON config file. Fields not set in the file keep their zero
// values until Resolve fills in defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Mode    string
	Output  string
	Width   int
	Height  int
	Iso     float64
	Shading bool
	Frames  int
	Workers int
}

// Resolve applies CLI overrides and fills empty fields with defaults.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Mode != "" {
		c.Mode = flags.Mode
	}
	if flags.Output != "" {
		c.Output = flags.Output
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Iso > 0 {
		c.IsoValue = flags.Iso
	}
	if flags.Shading {
		c.Shading = true
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.Width <= 0 {
		c.Width = 512
	}
	if c.Height <= 0 {
		c.Height = c.Width
	}
	if c.Mode == "" {
		c.Mode = "mip"
	}
	if c.StepSize <= 0 {
		c.StepSize = 1
	}
	if c.IsoValue <= 0 {
		c.IsoValue = 40
	}

	if c.TFPreset == "" {
		c.TFPreset = "grayscale"
	}
	if c.TFRange <= 0 {
		c.TFStart = 0
		c.TFRange = 100
	}
	if c.TF2DRadius <= 0 {
		c.TF2DRadius = 40
	}
	if c.TF2DColor == ([4]float64{}) {
		c.TF2DColor = [4]float64{0.9, 0.4, 0.2, 0.6}
	}
	if c.TF2DIntensity <= 0 {
		c.TF2DIntensity = 50
	}

	if c.VolumeKind == "" {
		c.VolumeKind = "sphere"
	}
	if c.VolumeSize <= 0 {
		c.VolumeSize = 64
	}
	if c.SphereRadius <= 0 {
		c.SphereRadius = float64(c.VolumeSize) * 0.4
	}
	if c.ShellWidth <= 0 {
		c.ShellWidth = float64(c.VolumeSize) * 0.08
	}

	if c.Distance <= 0 {
		c.Distance = float64(c.VolumeSize) * 1.8
	}
	if c.FOV <= 0 {
		c.FOV = 45
	}

	if c.Output == "" {
		c.Output = "render.webp"
	}
	if c.Gamma <= 0 {
		c.Gamma = 1
	}
	if c.Supersample <= 0 {
		c.Supersample = 1
	}
	if c.Frames <= 0 {
		c.Frames = 1
	}
}

// RenderConfig builds the core render configuration, including the transfer
// function lookup table for the selected preset. The resolution is scaled by
// the supersample factor; output writing downsamples back.
func (c Config) RenderConfig() (render.Config, error) {
	mode, err := render.ParseMode(c.Mode)
	if err != nil {
		return render.Config{}, err
	}

	lut, err := transfer.ByName(c.TFPreset, c.TFStart, c.TFRange)
	if err != nil {
		return render.Config{}, err
	}

	rc := render.Config{
		Width:    c.Width * c.Supersample,
		Height:   c.Height * c.Supersample,
		Mode:     mode,
		StepSize: c.StepSize,
		IsoValue: c.IsoValue,
		Shading:  c.Shading,
		TF1D:     lut,
		TF2D: transfer.Tent2D{
			Intensity: c.TF2DIntensity,
			Radius:    c.TF2DRadius,
			Color:     mathutil.Vec4(c.TF2DColor),
		},
		Workers:  c.Workers,
		TileSize: c.TileSize,
	}
	if err := rc.Validate(); err != nil {
		return render.Config{}, err
	}
	return rc, nil
}
