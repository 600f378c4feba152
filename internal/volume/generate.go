package volume

import (
	"fmt"
	"math"

	"volvis-renderer/internal/mathutil"
)

// Synthetic test fields. Values range over [0, fieldMax] so the defaults in
// the transfer-function presets line up across generators.
const fieldMax = 100.0

// Uniform returns a cubic volume with the same value everywhere.
func Uniform(size int, value float64) (*Volume, error) {
	data := make([]float64, size*size*size)
	for i := range data {
		data[i] = value
	}
	return New(data, size, size, size)
}

// SolidSphere returns a cubic volume holding a centered ball whose value
// falls off linearly from fieldMax at the center to 0 at the given radius.
func SolidSphere(size int, radius float64) (*Volume, error) {
	return generate(size, func(d float64) float64 {
		if d >= radius {
			return 0
		}
		return fieldMax * (1 - d/radius)
	})
}

// Shell returns a cubic volume holding a centered hollow shell: fieldMax on
// the sphere of the given radius, falling off linearly to 0 over thickness.
func Shell(size int, radius, thickness float64) (*Volume, error) {
	if thickness <= 0 {
		return nil, fmt.Errorf("volume: shell thickness %g must be positive", thickness)
	}
	return generate(size, func(d float64) float64 {
		band := math.Abs(d - radius)
		if band >= thickness {
			return 0
		}
		return fieldMax * (1 - band/thickness)
	})
}

func generate(size int, value func(distToCenter float64) float64) (*Volume, error) {
	if size < 2 {
		return nil, fmt.Errorf("volume: size %d too small", size)
	}
	center := mathutil.Vec3{1, 1, 1}.Scale(float64(size-1) / 2)
	data := make([]float64, size*size*size)
	i := 0
	for z := 0; z < size; z++ {
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				p := mathutil.Vec3{float64(x), float64(y), float64(z)}
				data[i] = value(p.Sub(center).Len())
				i++
			}
		}
	}
	return New(data, size, size, size)
}
