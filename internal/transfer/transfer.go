// Package transfer holds the transfer functions that map field samples to
// color and opacity: a 1D color lookup table over intensity and a 2D tent
// opacity function over intensity and gradient magnitude.
package transfer

import (
	"fmt"
	"math"

	"volvis-renderer/internal/mathutil"
)

// LUT1D maps an intensity in [Start, Start+Range) linearly onto an ordered
// RGBA table.
type LUT1D struct {
	Colors []mathutil.Vec4
	Start  float64
	Range  float64
}

// Validate rejects tables that cannot be sampled.
func (l LUT1D) Validate() error {
	if len(l.Colors) == 0 {
		return fmt.Errorf("transfer: 1D lookup table is empty")
	}
	if l.Range <= 0 {
		return fmt.Errorf("transfer: 1D table range %g must be positive", l.Range)
	}
	return nil
}

// Sample returns the table entry for the given intensity. Out-of-domain
// intensities clamp to the first or last entry.
func (l LUT1D) Sample(val float64) mathutil.Vec4 {
	norm := (val - l.Start) / l.Range
	i := int(math.Floor(norm * float64(len(l.Colors))))
	if i < 0 {
		i = 0
	} else if i >= len(l.Colors) {
		i = len(l.Colors) - 1
	}
	return l.Colors[i]
}

// Tent2D is a triangular opacity function over (intensity, gradient
// magnitude) space: full base opacity along intensity == Intensity, fading
// linearly to zero toward the triangle edges at slope maxMagnitude/Radius.
// Color carries the single paint color; its alpha is the base opacity.
type Tent2D struct {
	Intensity float64
	Radius    float64
	Color     mathutil.Vec4
}

// Validate rejects degenerate tent parameters.
func (t Tent2D) Validate() error {
	if t.Radius <= 0 {
		return fmt.Errorf("transfer: 2D tent radius %g must be positive", t.Radius)
	}
	return nil
}

// Opacity evaluates the tent at an (intensity, gradient magnitude) point.
// maxMagnitude is the gradient volume's maximum magnitude and fixes the
// tent's slope. Points outside the triangle return exactly 0; a zero
// gradient magnitude is always outside.
func (t Tent2D) Opacity(intensity, gradientMagnitude, maxMagnitude float64) float64 {
	if gradientMagnitude <= 0 {
		return 0
	}

	slope := maxMagnitude / t.Radius
	d := math.Abs(intensity - t.Intensity)
	if gradientMagnitude < slope*d {
		return 0
	}
	return t.Color[3] * (1 - d/(gradientMagnitude/slope))
}
