package transfer

import (
	"fmt"

	"volvis-renderer/internal/mathutil"
)

// presetSize is the entry count of the built-in lookup tables.
const presetSize = 256

// Grayscale returns a LUT ramping from transparent black to opaque white
// over [start, start+rng).
func Grayscale(start, rng float64) LUT1D {
	colors := make([]mathutil.Vec4, presetSize)
	for i := range colors {
		t := float64(i) / float64(presetSize-1)
		colors[i] = mathutil.Vec4{t, t, t, t}
	}
	return LUT1D{Colors: colors, Start: start, Range: rng}
}

// Heat returns a black-red-yellow-white heat map LUT with a linear alpha
// ramp over [start, start+rng).
func Heat(start, rng float64) LUT1D {
	colors := make([]mathutil.Vec4, presetSize)
	for i := range colors {
		t := float64(i) / float64(presetSize-1)
		r := clamp01(3 * t)
		g := clamp01(3*t - 1)
		b := clamp01(3*t - 2)
		colors[i] = mathutil.Vec4{r, g, b, t}
	}
	return LUT1D{Colors: colors, Start: start, Range: rng}
}

// ByName resolves a preset LUT by its config name.
func ByName(name string, start, rng float64) (LUT1D, error) {
	switch name {
	case "grayscale":
		return Grayscale(start, rng), nil
	case "heat":
		return Heat(start, rng), nil
	default:
		return LUT1D{}, fmt.Errorf("transfer: unknown preset %q (want grayscale or heat)", name)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
