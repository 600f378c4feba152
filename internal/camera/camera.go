// Package camera provides the pinhole camera that turns normalized device
// coordinates into world-space rays for the raycaster.
package camera

import (
	"fmt"
	"math"

	"volvis-renderer/internal/mathutil"
)

// Camera is a pinhole camera. GenerateRay maps normalized device coordinates
// in [-1,1]^2 to rays through the image plane.
type Camera struct {
	position mathutil.Vec3
	forward  mathutil.Vec3
	right    mathutil.Vec3
	up       mathutil.Vec3

	halfWidth  float64 // tan(fov/2) * aspect
	halfHeight float64 // tan(fov/2)
}

// New creates a camera at position looking at lookAt.
// vfovDeg is the vertical field of view in degrees, aspect is width/height.
func New(position, lookAt, worldUp mathutil.Vec3, vfovDeg, aspect float64) (*Camera, error) {
	if vfovDeg <= 0 || vfovDeg >= 180 {
		return nil, fmt.Errorf("camera: vertical fov %g degrees out of range (0, 180)", vfovDeg)
	}
	if aspect <= 0 {
		return nil, fmt.Errorf("camera: aspect ratio %g must be positive", aspect)
	}

	c := &Camera{
		halfHeight: math.Tan(vfovDeg * math.Pi / 360),
	}
	c.halfWidth = c.halfHeight * aspect
	if err := c.LookFrom(position, lookAt, worldUp); err != nil {
		return nil, err
	}
	return c, nil
}

// LookFrom repositions the camera and rebuilds its orthonormal basis.
func (c *Camera) LookFrom(position, lookAt, worldUp mathutil.Vec3) error {
	forward := lookAt.Sub(position).Normalize()
	if forward.IsZero() {
		return fmt.Errorf("camera: position coincides with look-at point %v", lookAt)
	}
	right := forward.Cross(worldUp).Normalize()
	if right.IsZero() {
		return fmt.Errorf("camera: up vector %v is parallel to the view direction", worldUp)
	}

	c.position = position
	c.forward = forward
	c.right = right
	c.up = right.Cross(forward)
	return nil
}

// Orbit places the camera on a sphere around center at the given distance,
// with yaw/pitch in radians, looking at the center. Pitch is clamped just
// short of the poles so the world-up basis stays valid.
func (c *Camera) Orbit(center mathutil.Vec3, distance, yaw, pitch float64) error {
	const maxPitch = math.Pi/2 - 1e-3
	if pitch > maxPitch {
		pitch = maxPitch
	} else if pitch < -maxPitch {
		pitch = -maxPitch
	}
	if distance <= 0 {
		return fmt.Errorf("camera: orbit distance %g must be positive", distance)
	}

	offset := mathutil.Vec3{
		math.Cos(pitch) * math.Sin(yaw),
		math.Sin(pitch),
		math.Cos(pitch) * math.Cos(yaw),
	}.Scale(distance)
	return c.LookFrom(center.Add(offset), center, mathutil.Vec3{0, 1, 0})
}

// GenerateRay returns the origin and unit direction of the ray through
// normalized device coordinates (ndcX, ndcY) in [-1,1]^2.
func (c *Camera) GenerateRay(ndcX, ndcY float64) (origin, dir mathutil.Vec3) {
	dir = c.forward.
		Add(c.right.Scale(ndcX * c.halfWidth)).
		Add(c.up.Scale(ndcY * c.halfHeight)).
		Normalize()
	return c.position, dir
}

// Position returns the camera position.
func (c *Camera) Position() mathutil.Vec3 {
	return c.position
}

// Forward returns the unit view direction.
func (c *Camera) Forward() mathutil.Vec3 {
	return c.forward
}
