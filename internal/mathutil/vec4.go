package mathutil

// Vec4 is a 4-component vector, used for RGBA colors (A in the last slot).
type Vec4 [4]float64

func (a Vec4) Add(b Vec4) Vec4 {
	return Vec4{a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3]}
}

func (v Vec4) Scale(s float64) Vec4 {
	return Vec4{v[0] * s, v[1] * s, v[2] * s, v[3] * s}
}

// RGB returns the first three components as a Vec3.
func (v Vec4) RGB() Vec3 {
	return Vec3{v[0], v[1], v[2]}
}

// FromRGB builds a Vec4 from an RGB vector and an alpha value.
func FromRGB(rgb Vec3, a float64) Vec4 {
	return Vec4{rgb[0], rgb[1], rgb[2], a}
}

// Clamp01 clamps every component to [0, 1].
func (v Vec4) Clamp01() Vec4 {
	for i, c := range v {
		if c < 0 {
			v[i] = 0
		} else if c > 1 {
			v[i] = 1
		}
	}
	return v
}
