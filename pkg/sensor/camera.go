package sensor

import (
	"math"

	"github.com/twocookingmice/glint/pkg/core"
)

// Default clip distances
const (
	DefaultNearClip = 1e-2
	DefaultFarClip  = 1e4
)

// FovAxis names the image axis a field-of-view value applies to
type FovAxis int

const (
	// FovAxisX measures the fov across the image width
	FovAxisX FovAxis = iota
	// FovAxisY measures the fov across the image height
	FovAxisY
	// FovAxisDiagonal measures the fov across the diagonal
	FovAxisDiagonal
	// FovAxisSmaller measures along the shorter image axis
	FovAxisSmaller
	// FovAxisLarger measures along the longer image axis
	FovAxisLarger
)

// PerspectiveCamera maps film coordinates to world-space rays and owns
// the output image
type PerspectiveCamera struct {
	Film *Bitmap

	origin  core.Vec3
	frame   core.Frame
	tanHalf float64 // tan of half the vertical fov
	aspect  float64
	near    float64
	far     float64
}

// NewPerspectiveCamera creates a camera looking from origin toward
// target. fov is in degrees, measured along the given axis.
func NewPerspectiveCamera(width, height int, origin, target, up core.Vec3, fov float64, axis FovAxis) *PerspectiveCamera {
	aspect := float64(width) / float64(height)
	forward := target.Subtract(origin).Normalize()
	right := forward.Cross(up).Normalize()
	newUp := right.Cross(forward)

	return &PerspectiveCamera{
		Film:   NewBitmap(width, height),
		origin: origin,
		frame: core.Frame{
			Tangent:   right,
			Bitangent: newUp,
			Normal:    forward,
		},
		tanHalf: fovYTanHalf(fov, axis, aspect),
		aspect:  aspect,
		near:    DefaultNearClip,
		far:     DefaultFarClip,
	}
}

// fovYTanHalf converts a fov along any axis to the vertical half tangent
func fovYTanHalf(fovDegrees float64, axis FovAxis, aspect float64) float64 {
	tanHalf := math.Tan(fovDegrees * math.Pi / 360)
	switch axis {
	case FovAxisY:
		return tanHalf
	case FovAxisDiagonal:
		return tanHalf / math.Sqrt(aspect*aspect+1)
	case FovAxisSmaller:
		if aspect < 1 {
			return tanHalf / aspect
		}
		return tanHalf
	case FovAxisLarger:
		if aspect >= 1 {
			return tanHalf / aspect
		}
		return tanHalf
	default:
		return tanHalf / aspect
	}
}

// SetClip overrides the near and far clip distances
func (c *PerspectiveCamera) SetClip(near, far float64) {
	c.near = near
	c.far = far
}

// Origin returns the camera position
func (c *PerspectiveCamera) Origin() core.Vec3 {
	return c.origin
}

// SampleRay maps normalized film coordinates in [0,1]^2 to a world ray
// clipped to the near and far planes
func (c *PerspectiveCamera) SampleRay(u core.Vec2) core.Ray {
	px := (2*u.X - 1) * c.aspect * c.tanHalf
	py := (1 - 2*u.Y) * c.tanHalf

	local := core.NewVec3(px, py, 1)
	dirLen := local.Length()
	world := c.frame.Tangent.Multiply(px).
		Add(c.frame.Bitangent.Multiply(py)).
		Add(c.frame.Normal).
		Normalize()

	tMin := c.near * dirLen
	tMax := c.far*dirLen - tMin
	return core.NewRaySegment(c.origin, world, tMin, tMax)
}
