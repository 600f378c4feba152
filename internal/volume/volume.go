package volume

import (
	"fmt"
	"math"

	"volvis-renderer/internal/mathutil"
)

// Volume is a 3D scalar field on a regular grid. Positions are expressed in
// volume-index space: voxel (x,y,z) sits at position (x,y,z).
type Volume struct {
	data    []float64
	dims    [3]int
	maximum float64
}

// New wraps a flat x-fastest (x + dimX*(y + dimY*z)) scalar grid.
func New(data []float64, dimX, dimY, dimZ int) (*Volume, error) {
	if dimX < 2 || dimY < 2 || dimZ < 2 {
		return nil, fmt.Errorf("volume: dimensions %dx%dx%d too small, need at least 2 per axis", dimX, dimY, dimZ)
	}
	if len(data) != dimX*dimY*dimZ {
		return nil, fmt.Errorf("volume: got %d samples, want %d", len(data), dimX*dimY*dimZ)
	}

	maximum := 0.0
	for _, v := range data {
		if v > maximum {
			maximum = v
		}
	}
	// Keep Maximum strictly positive so normalization never divides by zero,
	// even for an all-zero field.
	if maximum <= 0 {
		maximum = 1
	}

	return &Volume{
		data:    data,
		dims:    [3]int{dimX, dimY, dimZ},
		maximum: maximum,
	}, nil
}

// Dims returns the grid extent per axis.
func (v *Volume) Dims() [3]int {
	return v.dims
}

// Maximum returns the largest sample value in the volume (always > 0).
func (v *Volume) Maximum() float64 {
	return v.maximum
}

// Voxel returns the sample at integer grid coordinates. Out-of-range
// coordinates return 0.
func (v *Volume) Voxel(x, y, z int) float64 {
	if x < 0 || y < 0 || z < 0 || x >= v.dims[0] || y >= v.dims[1] || z >= v.dims[2] {
		return 0
	}
	return v.data[x+v.dims[0]*(y+v.dims[1]*z)]
}

// SampleInterpolated returns the trilinearly interpolated field value at an
// arbitrary position. Positions outside [0, dims-1] or with non-finite
// components return 0 (the field's background value).
func (v *Volume) SampleInterpolated(pos mathutil.Vec3) float64 {
	if !v.inDomain(pos) {
		return 0
	}

	var idx [3]int
	var frac [3]float64
	for i := 0; i < 3; i++ {
		f := math.Floor(pos[i])
		idx[i] = int(f)
		frac[i] = pos[i] - f
		// Sampling exactly at the upper face still needs a valid cell.
		if idx[i] >= v.dims[i]-1 {
			idx[i] = v.dims[i] - 2
			frac[i] = 1
		}
	}

	x, y, z := idx[0], idx[1], idx[2]
	fx, fy, fz := frac[0], frac[1], frac[2]

	c00 := lerp(v.Voxel(x, y, z), v.Voxel(x+1, y, z), fx)
	c10 := lerp(v.Voxel(x, y+1, z), v.Voxel(x+1, y+1, z), fx)
	c01 := lerp(v.Voxel(x, y, z+1), v.Voxel(x+1, y, z+1), fx)
	c11 := lerp(v.Voxel(x, y+1, z+1), v.Voxel(x+1, y+1, z+1), fx)

	c0 := lerp(c00, c10, fy)
	c1 := lerp(c01, c11, fy)
	return lerp(c0, c1, fz)
}

func (v *Volume) inDomain(pos mathutil.Vec3) bool {
	if !pos.IsFinite() {
		return false
	}
	for i := 0; i < 3; i++ {
		if pos[i] < 0 || pos[i] > float64(v.dims[i]-1) {
			return false
		}
	}
	return true
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
