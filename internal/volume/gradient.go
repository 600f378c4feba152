package volume

import (
	"math"

	"volvis-renderer/internal/mathutil"
)

// GradientSample is a local gradient estimate: a direction (not normalized,
// exactly zero where the field has no local structure) and its magnitude.
type GradientSample struct {
	Dir       mathutil.Vec3
	Magnitude float64
}

// GradientVolume precomputes central-difference gradients for a Volume.
type GradientVolume struct {
	grads        []mathutil.Vec3
	dims         [3]int
	maxMagnitude float64
}

// NewGradientVolume derives a gradient field from vol using central
// differences (one-sided at the boundary voxels).
func NewGradientVolume(vol *Volume) *GradientVolume {
	dims := vol.Dims()
	g := &GradientVolume{
		grads: make([]mathutil.Vec3, dims[0]*dims[1]*dims[2]),
		dims:  dims,
	}

	for z := 0; z < dims[2]; z++ {
		for y := 0; y < dims[1]; y++ {
			for x := 0; x < dims[0]; x++ {
				grad := mathutil.Vec3{
					axisDifference(dims[0], x, func(i int) float64 { return vol.Voxel(i, y, z) }),
					axisDifference(dims[1], y, func(i int) float64 { return vol.Voxel(x, i, z) }),
					axisDifference(dims[2], z, func(i int) float64 { return vol.Voxel(x, y, i) }),
				}
				g.grads[x+dims[0]*(y+dims[1]*z)] = grad
				if m := grad.Len(); m > g.maxMagnitude {
					g.maxMagnitude = m
				}
			}
		}
	}
	// Keep MaxMagnitude strictly positive; a constant field has no gradients
	// anywhere but callers still divide by this.
	if g.maxMagnitude <= 0 {
		g.maxMagnitude = 1
	}
	return g
}

// axisDifference is a central difference away from the boundary and a
// one-sided difference at it.
func axisDifference(dim, i int, sample func(int) float64) float64 {
	switch i {
	case 0:
		return sample(1) - sample(0)
	case dim - 1:
		return sample(dim-1) - sample(dim-2)
	default:
		return (sample(i+1) - sample(i-1)) / 2
	}
}

// MaxMagnitude returns the largest gradient magnitude in the volume
// (always > 0).
func (g *GradientVolume) MaxMagnitude() float64 {
	return g.maxMagnitude
}

// GradientAt returns the precomputed gradient at integer grid coordinates.
// Out-of-range coordinates return a zero sample.
func (g *GradientVolume) GradientAt(x, y, z int) GradientSample {
	if x < 0 || y < 0 || z < 0 || x >= g.dims[0] || y >= g.dims[1] || z >= g.dims[2] {
		return GradientSample{}
	}
	dir := g.grads[x+g.dims[0]*(y+g.dims[1]*z)]
	return GradientSample{Dir: dir, Magnitude: dir.Len()}
}

// GradientInterpolated returns the componentwise trilinearly interpolated
// gradient at an arbitrary position, with the magnitude recomputed from the
// interpolated direction. Positions outside the domain return a zero sample
// (no gradient / outside structure).
func (g *GradientVolume) GradientInterpolated(pos mathutil.Vec3) GradientSample {
	if !g.inDomain(pos) {
		return GradientSample{}
	}

	var idx [3]int
	var frac [3]float64
	for i := 0; i < 3; i++ {
		f := math.Floor(pos[i])
		idx[i] = int(f)
		frac[i] = pos[i] - f
		if idx[i] >= g.dims[i]-1 {
			idx[i] = g.dims[i] - 2
			frac[i] = 1
		}
	}

	x, y, z := idx[0], idx[1], idx[2]
	var dir mathutil.Vec3
	for c := 0; c < 3; c++ {
		c00 := lerp(g.grad(x, y, z)[c], g.grad(x+1, y, z)[c], frac[0])
		c10 := lerp(g.grad(x, y+1, z)[c], g.grad(x+1, y+1, z)[c], frac[0])
		c01 := lerp(g.grad(x, y, z+1)[c], g.grad(x+1, y, z+1)[c], frac[0])
		c11 := lerp(g.grad(x, y+1, z+1)[c], g.grad(x+1, y+1, z+1)[c], frac[0])
		dir[c] = lerp(lerp(c00, c10, frac[1]), lerp(c01, c11, frac[1]), frac[2])
	}

	return GradientSample{Dir: dir, Magnitude: dir.Len()}
}

func (g *GradientVolume) grad(x, y, z int) mathutil.Vec3 {
	return g.grads[x+g.dims[0]*(y+g.dims[1]*z)]
}

func (g *GradientVolume) inDomain(pos mathutil.Vec3) bool {
	if !pos.IsFinite() {
		return false
	}
	for i := 0; i < 3; i++ {
		if pos[i] < 0 || pos[i] > float64(g.dims[i]-1) {
			return false
		}
	}
	return true
}
