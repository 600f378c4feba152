package render

import "volvis-renderer/internal/mathutil"

// Ray is a per-pixel ray. TMin/TMax hold the volume entry/exit distances and
// are only defined after a successful Bounds.IntersectRay.
type Ray struct {
	Origin mathutil.Vec3
	Dir    mathutil.Vec3
	TMin   float64
	TMax   float64
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) mathutil.Vec3 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// Bounds is an axis-aligned box in volume-index space, shared read-only by
// all rays of a render pass.
type Bounds struct {
	Lower mathutil.Vec3
	Upper mathutil.Vec3
}

// IntersectRay computes where the ray enters and exits the box using the
// slab method. On a hit it sets ray.TMin/TMax and returns true. A box
// entirely behind the ray origin counts as a miss. Degenerate
// geometry (zero direction, zero-extent box) fails closed. Zero direction
// components are handled by signed-infinity division: 1/±0 yields ±Inf and
// the sign-selected corner comparisons stay correct.
func (b Bounds) IntersectRay(ray *Ray) bool {
	if ray.Dir.IsZero() {
		return false
	}
	for i := 0; i < 3; i++ {
		if !(b.Upper[i] > b.Lower[i]) {
			return false
		}
	}

	corners := [2]mathutil.Vec3{b.Lower, b.Upper}
	var sign [3]int
	inv := mathutil.Vec3{1 / ray.Dir[0], 1 / ray.Dir[1], 1 / ray.Dir[2]}
	for i := 0; i < 3; i++ {
		if inv[i] < 0 {
			sign[i] = 1
		}
	}

	tmin := (corners[sign[0]][0] - ray.Origin[0]) * inv[0]
	tmax := (corners[1-sign[0]][0] - ray.Origin[0]) * inv[0]
	tymin := (corners[sign[1]][1] - ray.Origin[1]) * inv[1]
	tymax := (corners[1-sign[1]][1] - ray.Origin[1]) * inv[1]

	if tmin > tymax || tymin > tmax {
		return false
	}
	if tymin > tmin {
		tmin = tymin
	}
	if tymax < tmax {
		tmax = tymax
	}

	tzmin := (corners[sign[2]][2] - ray.Origin[2]) * inv[2]
	tzmax := (corners[1-sign[2]][2] - ray.Origin[2]) * inv[2]

	if tmin > tzmax || tzmin > tmax {
		return false
	}
	if tzmin > tmin {
		tmin = tzmin
	}
	if tzmax < tmax {
		tmax = tzmax
	}

	// The box is entirely behind the ray origin.
	if tmax < 0 {
		return false
	}

	ray.TMin = tmin
	ray.TMax = tmax
	return true
}
