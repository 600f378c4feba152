package render

import (
	"math"

	"volvis-renderer/internal/mathutil"
)

// isoColor is the flat material color of extracted isosurfaces.
var isoColor = mathutil.Vec3{0.8, 0.8, 0.2}

// opacityCutoff ends front-to-back compositing once the accumulated opacity
// is close enough to fully opaque. Tunable; 0.95 is an approximation, not a
// correctness requirement.
const opacityCutoff = 0.95

// Bisection refinement limits: hard iteration cap and the intensity
// tolerance at which the crossing counts as found.
const (
	bisectionMaxIter   = 10
	bisectionTolerance = 0.01
)

// traceSlice samples the volume once where the ray crosses the camera-facing
// plane through the volume center, returning normalized grayscale. A ray
// parallel to the plane lands outside the volume domain and samples the
// background.
func (r *Renderer) traceSlice(ray Ray, volumeCenter, planeNormal mathutil.Vec3) mathutil.Vec4 {
	t := volumeCenter.Sub(ray.Origin).Dot(planeNormal) / ray.Dir.Dot(planeNormal)
	val := r.volume.SampleInterpolated(ray.At(t))
	g := math.Max(val/r.volume.Maximum(), 0)
	return mathutil.Vec4{g, g, g, 1}
}

// traceMIP scans the bounded ray at fixed steps and keeps the maximum
// sampled intensity, normalized by the volume maximum.
func (r *Renderer) traceMIP(ray Ray, step float64) mathutil.Vec4 {
	maxVal := 0.0

	// Incrementing the sample position avoids recomputing origin + t*dir
	// every step.
	pos := ray.At(ray.TMin)
	increment := ray.Dir.Scale(step)
	for t := ray.TMin; t <= ray.TMax; t += step {
		if val := r.volume.SampleInterpolated(pos); val > maxVal {
			maxVal = val
		}
		pos = pos.Add(increment)
	}

	g := maxVal / r.volume.Maximum()
	return mathutil.Vec4{g, g, g, 1}
}

// traceIso scans forward for the first sample at or above the iso value.
// The crossing nearest the camera wins. With shading enabled the crossing is
// refined by bisection and Phong-shaded with the camera as the light; a
// degenerate gradient at the surface falls back to the flat iso color.
// No crossing before TMax renders opaque black.
func (r *Renderer) traceIso(ray Ray, step float64) mathutil.Vec4 {
	isoVal := r.config.IsoValue

	pos := ray.At(ray.TMin)
	increment := ray.Dir.Scale(step)
	for t := ray.TMin; t <= ray.TMax; t += step {
		val := r.volume.SampleInterpolated(pos)
		if val >= isoVal {
			if !r.config.Shading {
				return mathutil.FromRGB(isoColor, 1)
			}

			tHit := t
			if val != isoVal {
				tHit = r.bisect(ray, t-step, t, isoVal)
			}
			hit := ray.At(tHit)

			gradient := r.gradient.GradientInterpolated(hit)
			if gradient.Dir.IsZero() {
				return mathutil.FromRGB(isoColor, 1)
			}
			lightDir := r.camera.Position().Sub(hit).Normalize()
			return mathutil.FromRGB(phongShade(isoColor, gradient, lightDir, ray.Dir), 1)
		}
		pos = pos.Add(increment)
	}

	return mathutil.Vec4{0, 0, 0, 1}
}

// bisect narrows [t0, t1], which brackets the iso crossing, until the
// sampled intensity is within bisectionTolerance of isoValue. The iteration
// cap bounds the search even when noisy data breaks the bracketing
// assumption; the best estimate so far is returned in that case.
func (r *Renderer) bisect(ray Ray, t0, t1, isoValue float64) float64 {
	left, right := t0, t1
	t := (left + right) / 2

	for i := 0; i < bisectionMaxIter; i++ {
		t = (left + right) / 2
		val := r.volume.SampleInterpolated(ray.At(t))

		if math.Abs(val-isoValue) < bisectionTolerance {
			return t
		}
		if val > isoValue {
			right = t
		} else {
			left = t
		}
	}
	return t
}

// traceComposite integrates the 1D transfer function back to front with the
// standard over operator, starting from transparent black at the far end.
// With shading enabled, samples with a usable gradient composite their
// Phong-shaded color; gradient-free samples composite the plain
// transfer-function color.
func (r *Renderer) traceComposite(ray Ray, step float64) mathutil.Vec4 {
	var accum mathutil.Vec4

	pos := ray.At(ray.TMax)
	increment := ray.Dir.Scale(step)
	for t := ray.TMax; t >= ray.TMin; t -= step {
		val := r.volume.SampleInterpolated(pos)
		tf := r.config.TF1D.Sample(val)
		color := tf.RGB()
		alpha := tf[3]

		if r.config.Shading {
			gradient := r.gradient.GradientInterpolated(pos)
			if !gradient.Dir.IsZero() {
				lightDir := r.camera.Position().Sub(pos).Normalize()
				color = phongShade(color, gradient, lightDir, ray.Dir)
			}
		}

		sample := mathutil.FromRGB(color.Scale(alpha), alpha)
		accum = sample.Add(accum.Scale(1 - alpha))
		pos = pos.Sub(increment)
	}

	return accum
}

// traceTF2D integrates front to back with a single paint color weighted by
// the 2D tent opacity, stopping early once the accumulated opacity passes
// opacityCutoff.
func (r *Renderer) traceTF2D(ray Ray, step float64) mathutil.Vec4 {
	paint := r.config.TF2D.Color.RGB()
	maxMagnitude := r.gradient.MaxMagnitude()

	var accumColor mathutil.Vec3
	accumAlpha := 0.0

	pos := ray.At(ray.TMin)
	increment := ray.Dir.Scale(step)
	for t := ray.TMin; t <= ray.TMax; t += step {
		if accumAlpha >= opacityCutoff {
			break
		}

		val := r.volume.SampleInterpolated(pos)
		gradient := r.gradient.GradientInterpolated(pos)
		opacity := r.config.TF2D.Opacity(val, gradient.Magnitude, maxMagnitude)

		accumColor = accumColor.Add(paint.Scale(opacity * (1 - accumAlpha)))
		accumAlpha += (1 - accumAlpha) * opacity
		pos = pos.Add(increment)
	}

	return mathutil.FromRGB(accumColor, accumAlpha)
}
