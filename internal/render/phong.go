package render

import (
	"math"

	"volvis-renderer/internal/mathutil"
	"volvis-renderer/internal/volume"
)

// Phong weights: ambient, diffuse, specular, and the specular exponent.
const (
	phongAmbient  = 0.1
	phongDiffuse  = 0.7
	phongSpecular = 0.2
	phongExponent = 100.0
)

// phongShade computes local Phong illumination at a sample. The gradient
// acts as the surface normal and must be non-degenerate; callers skip
// shading at gradient-free samples. lightDir points from the sample toward
// the light, viewDir is the ray direction. The material color serves as both
// intensity and specular color, so every term carries its componentwise
// square.
func phongShade(color mathutil.Vec3, gradient volume.GradientSample, lightDir, viewDir mathutil.Vec3) mathutil.Vec3 {
	n := gradient.Dir.Normalize()
	l := lightDir.Normalize()
	reflect := n.Scale(2 * n.Dot(l)).Sub(l)

	// Diffuse uses the absolute cosine so back-facing gradients still light up.
	cosTheta := math.Abs(l.Dot(n))

	// The reflection/view cosine must be non-negative before exponentiation.
	cosPhi := reflect.Dot(viewDir) / (reflect.Len() * viewDir.Len())
	if cosPhi < 0 || math.IsNaN(cosPhi) {
		cosPhi = 0
	}

	base := color.Mul(color)
	ambient := base.Scale(phongAmbient)
	diffuse := base.Scale(phongDiffuse * cosTheta)
	specular := base.Scale(phongSpecular * math.Pow(cosPhi, phongExponent))

	return ambient.Add(diffuse).Add(specular)
}
